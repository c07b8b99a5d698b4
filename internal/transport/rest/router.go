package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/hr-management/internal/auth"
	"github.com/frahmantamala/hr-management/internal/department"
	"github.com/frahmantamala/hr-management/internal/employee"
	"github.com/frahmantamala/hr-management/internal/position"
	"github.com/frahmantamala/hr-management/internal/transport"
	"github.com/frahmantamala/hr-management/internal/transport/middleware"
	"github.com/frahmantamala/hr-management/internal/transport/swagger"
	"github.com/frahmantamala/hr-management/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers bundles everything the router mounts. Nil handlers leave their routes out.
type Handlers struct {
	Health     *HealthHandler
	Auth       *auth.Handler
	User       *user.Handler
	Position   *position.Handler
	Department *department.Handler
	Employee   *employee.Handler
}

type RouterOptions struct {
	AllowedOrigins string
	OpenAPIPath    string
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, opts RouterOptions, logger *slog.Logger) {
	adminOnly := middleware.RequireAdmin(transport.NewBaseHandler(logger))

	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	openAPIPath := opts.OpenAPIPath
	if openAPIPath == "" {
		openAPIPath = "./api/openapi.yml"
	}
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, openAPIPath)
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.healthCheckHandler)
			r.Get("/ping", h.Health.pingHandler)
		}

		if h.Auth == nil {
			return
		}
		r.Post("/auth/login", h.Auth.Login)

		if h.Position != nil {
			r.Get("/positions", h.Position.ListPositions)
		}

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)
			pr.Post("/auth/logout", h.Auth.Logout)

			if h.User != nil {
				pr.Get("/users/me", h.User.GetCurrentUser)
				pr.Get("/users", h.User.ListUsers)
				pr.Get("/users/{id}", h.User.GetUser)
				pr.With(adminOnly).Patch("/users/{id}", h.User.UpdateUser)
				pr.With(adminOnly).Post("/auth/register", h.User.Register)
			}

			if h.Position != nil {
				pr.Get("/positions/{id}", h.Position.GetPosition)
				pr.Get("/positions/users/{userID}", h.Position.GetUserPosition)
				pr.Group(func(ar chi.Router) {
					ar.Use(adminOnly)
					ar.Post("/positions", h.Position.CreatePosition)
					ar.Patch("/positions/{id}", h.Position.UpdatePosition)
					ar.Delete("/positions/{id}", h.Position.DeletePosition)
				})
			}

			if h.Department != nil {
				pr.Get("/departments", h.Department.ListDepartments)
				pr.Get("/departments/{id}", h.Department.GetDepartment)
				pr.Group(func(ar chi.Router) {
					ar.Use(adminOnly)
					ar.Post("/departments", h.Department.CreateDepartment)
					ar.Patch("/departments/{id}", h.Department.UpdateDepartment)
					ar.Delete("/departments/{id}", h.Department.DeleteDepartment)
				})
			}

			if h.Employee != nil {
				pr.With(adminOnly).Get("/employees", h.Employee.ListEmployees)
				pr.With(adminOnly).Post("/employees", h.Employee.CreateEmployee)
				pr.Get("/employees/{id}", h.Employee.GetEmployee)
				pr.Patch("/employees/{id}", h.Employee.UpdateEmployee)
				pr.Put("/employees/{id}", h.Employee.UpdateEmployee)
			}
		})
	})
}
