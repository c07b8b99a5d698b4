package user_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"

	"github.com/frahmantamala/hr-management/internal"
	userDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/user"
	"github.com/frahmantamala/hr-management/internal/core/testutil"
	"github.com/frahmantamala/hr-management/internal/transport"
	"github.com/frahmantamala/hr-management/internal/user"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("User Handler Integration", func() {
	var (
		router *chi.Mux
		admin  *userDatamodel.User
	)

	BeforeEach(func() {
		db, err := testutil.OpenDB()
		Expect(err).NotTo(HaveOccurred())
		admin = &userDatamodel.User{Email: "admin@example.com", Password: "hash", IsAdmin: true}
		Expect(db.Create(admin).Error).NotTo(HaveOccurred())

		lg, _ := testutil.CaptureLogger()
		handler := user.NewHandler(transport.NewBaseHandler(lg), newService(db, nil))

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				p := internal.Principal{UserID: admin.ID, Email: admin.Email, IsAdmin: true}
				next.ServeHTTP(w, r.WithContext(internal.ContextWithPrincipal(r.Context(), p)))
			})
		})
		router.Get("/users/me", handler.GetCurrentUser)
		router.Get("/users", handler.ListUsers)
		router.Get("/users/{id}", handler.GetUser)
		router.Patch("/users/{id}", handler.UpdateUser)
		router.Post("/auth/register", handler.Register)
	})

	serve := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("returns the current user", func() {
		w := serve(http.MethodGet, "/users/me", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"email":"admin@example.com"`))
		Expect(w.Body.String()).NotTo(ContainSubstring("password"))
	})

	It("registers a user with an employee record and shows it", func() {
		w := serve(http.MethodPost, "/auth/register",
			`{"email":"sari@example.com","password":"secret123","first_name":"Sari","last_name":"Dewi","gender":"female"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))

		var env struct {
			Data user.User `json:"data"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&env)).To(Succeed())
		Expect(env.Data.Employee).NotTo(BeNil())

		w = serve(http.MethodGet, "/users/"+strconv.FormatInt(env.Data.ID, 10), "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"first_name":"Sari"`))
	})

	It("reports validation failures per field", func() {
		w := serve(http.MethodPost, "/auth/register", `{"email":"not-an-email"}`)
		Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))

		var env struct {
			Errors map[string][]string `json:"errors"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&env)).To(Succeed())
		Expect(env.Errors["email"]).To(ConsistOf("The email must be a valid email address."))
		Expect(env.Errors).To(HaveKey("password"))
		Expect(env.Errors).To(HaveKey("first_name"))
	})

	It("returns 404 for malformed ids", func() {
		Expect(serve(http.MethodPatch, "/users/abc", `{}`).Code).To(Equal(http.StatusNotFound))
	})
})
