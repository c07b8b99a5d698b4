package employee_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"

	"github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/core/testutil"
	"github.com/frahmantamala/hr-management/internal/employee"
	"github.com/frahmantamala/hr-management/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

type envelope struct {
	Message string          `json:"message"`
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

var _ = Describe("Employee Handler Integration", func() {
	var (
		db     *gorm.DB
		f      fixture
		router *chi.Mux
		caller *internal.Principal
		path   string
	)

	BeforeEach(func() {
		var err error
		db, err = testutil.OpenDB()
		Expect(err).NotTo(HaveOccurred())
		f = seed(db)
		path = "/employees/" + strconv.FormatInt(f.employee.ID, 10)

		service, _ := newService(db, employee.ModeReject)
		lg, _ := testutil.CaptureLogger()
		handler := employee.NewHandler(transport.NewBaseHandler(lg), service)

		caller = nil
		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if caller != nil {
					r = r.WithContext(internal.ContextWithPrincipal(r.Context(), *caller))
				}
				next.ServeHTTP(w, r)
			})
		})
		router.Get("/employees", handler.ListEmployees)
		router.Post("/employees", handler.CreateEmployee)
		router.Get("/employees/{id}", handler.GetEmployee)
		router.Patch("/employees/{id}", handler.UpdateEmployee)
		router.Put("/employees/{id}", handler.UpdateEmployee)
	})

	serve := func(method, target, body string) (*httptest.ResponseRecorder, envelope) {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		var env envelope
		Expect(json.Unmarshal(w.Body.Bytes(), &env)).To(Succeed())
		return w, env
	}

	as := func(p internal.Principal) { caller = &p }

	It("lets the owner patch personal fields", func() {
		as(principalOf(f.owner))
		w, env := serve(http.MethodPatch, path, `{"first_name":"Budiman","_method":"PATCH"}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(env.Success).To(BeTrue())

		var e employee.Employee
		Expect(json.Unmarshal(env.Data, &e)).To(Succeed())
		Expect(e.FullName).To(Equal("Budiman Santoso"))
	})

	It("treats PUT as a partial update", func() {
		as(principalOf(f.owner))
		w, _ := serve(http.MethodPut, path, `{"address":"Jl. Thamrin 2"}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(reload(db, f.employee.ID).FirstName).To(Equal("Budi"))
	})

	It("names the fields a self update may not touch", func() {
		as(principalOf(f.owner))
		w, env := serve(http.MethodPatch, path, `{"employment_status":"terminated"}`)
		Expect(w.Code).To(Equal(http.StatusForbidden))
		Expect(env.Success).To(BeFalse())
		Expect(string(env.Errors)).To(MatchJSON(`{"fields":["employment_status"]}`))
		Expect(reload(db, f.employee.ID).EmploymentStatus).To(Equal(employee.StatusActive))
	})

	It("returns 422 with per-field messages for invalid admin input", func() {
		as(principalOf(f.admin))
		w, env := serve(http.MethodPatch, path, `{"position_id":"abc"}`)
		Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
		Expect(string(env.Errors)).To(MatchJSON(`{"position_id":["The position_id must be an integer."]}`))
	})

	It("rejects a malformed body", func() {
		as(principalOf(f.admin))
		w, _ := serve(http.MethodPatch, path, `{"first_name":`)
		Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
	})

	It("returns 404 for unknown and malformed ids", func() {
		as(principalOf(f.admin))
		w, _ := serve(http.MethodGet, "/employees/9999", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
		w, _ = serve(http.MethodGet, "/employees/abc", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("requires a principal", func() {
		w, _ := serve(http.MethodGet, path, "")
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("creates and lists employees for admins", func() {
		as(principalOf(f.admin))
		w, env := serve(http.MethodPost, "/employees",
			`{"user_id":`+strconv.FormatInt(f.stranger.ID, 10)+`,"first_name":"Sari","last_name":"Dewi","gender":"female"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(env.Status).To(Equal(http.StatusCreated))

		w, env = serve(http.MethodGet, "/employees", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var list []employee.Employee
		Expect(json.Unmarshal(env.Data, &list)).To(Succeed())
		Expect(list).To(HaveLen(2))
	})
})
