package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/transport"
	"github.com/go-chi/chi"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Handler", func() {
	var router *chi.Mux

	ginkgo.BeforeEach(func() {
		_, store := startRedis()
		service := NewService(newMockUserRepository(), NewJWTTokenGenerator(testSecret, time.Hour), store, quietLogger())
		handler := NewHandler(transport.NewBaseHandler(quietLogger()), service)

		router = chi.NewRouter()
		router.Post("/auth/login", handler.Login)
		router.Group(func(r chi.Router) {
			r.Use(handler.AuthMiddleware)
			r.Post("/auth/logout", handler.Logout)
			r.Get("/whoami", func(w http.ResponseWriter, r *http.Request) {
				p, _ := internal.PrincipalFromContext(r.Context())
				_ = json.NewEncoder(w).Encode(map[string]any{"user_id": p.UserID})
			})
		})
	})

	serve := func(method, path, token, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	ginkgo.It("logs in, authenticates and logs out", func() {
		w := serve(http.MethodPost, "/auth/login", "", `{"email":"user@example.com","password":"correct_password"}`)
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))

		var env struct {
			Data LoginResponse `json:"data"`
		}
		gomega.Expect(json.NewDecoder(w.Body).Decode(&env)).To(gomega.Succeed())
		token := env.Data.AccessToken

		w = serve(http.MethodGet, "/whoami", token, "")
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(w.Body.String()).To(gomega.MatchJSON(`{"user_id":1}`))

		gomega.Expect(serve(http.MethodPost, "/auth/logout", token, "").Code).To(gomega.Equal(http.StatusOK))

		w = serve(http.MethodGet, "/whoami", token, "")
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
		gomega.Expect(w.Body.String()).To(gomega.ContainSubstring("Session is no longer valid"))
	})

	ginkgo.It("answers 401 with the envelope for bad credentials and missing tokens", func() {
		w := serve(http.MethodPost, "/auth/login", "", `{"email":"user@example.com","password":"nope"}`)
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
		gomega.Expect(w.Body.String()).To(gomega.ContainSubstring(`"success":false`))

		gomega.Expect(serve(http.MethodGet, "/whoami", "", "").Code).To(gomega.Equal(http.StatusUnauthorized))
		gomega.Expect(serve(http.MethodGet, "/whoami", "garbage", "").Code).To(gomega.Equal(http.StatusUnauthorized))
	})
})
