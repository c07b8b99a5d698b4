package department_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/hr-management/internal/core/testutil"
	"github.com/frahmantamala/hr-management/internal/department"
	"github.com/frahmantamala/hr-management/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Department Handler Integration", func() {
	var router *chi.Mux

	BeforeEach(func() {
		db, err := testutil.OpenDB()
		Expect(err).NotTo(HaveOccurred())
		lg, _ := testutil.CaptureLogger()
		handler := department.NewHandler(transport.NewBaseHandler(lg), newService(db))

		router = chi.NewRouter()
		router.Get("/departments", handler.ListDepartments)
		router.Post("/departments", handler.CreateDepartment)
		router.Get("/departments/{id}", handler.GetDepartment)
		router.Patch("/departments/{id}", handler.UpdateDepartment)
		router.Delete("/departments/{id}", handler.DeleteDepartment)
	})

	serve := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("runs create, show, update and delete over HTTP", func() {
		w := serve(http.MethodPost, "/departments", `{"name":"Head Office","latitude":-6.2,"longitude":106.8,"radius_meters":100}`)
		Expect(w.Code).To(Equal(http.StatusCreated))

		var created struct {
			Data department.Department `json:"data"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		id := created.Data.ID
		path := "/departments/" + strings.TrimSpace(jsonInt(id))

		Expect(serve(http.MethodGet, path, "").Code).To(Equal(http.StatusOK))

		w = serve(http.MethodPatch, path, `{"radius_meters":250}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"radius_meters":250`))

		Expect(serve(http.MethodDelete, path, "").Code).To(Equal(http.StatusOK))
		Expect(serve(http.MethodGet, path, "").Code).To(Equal(http.StatusNotFound))
	})

	It("maps validation failures to 422 with per-field messages", func() {
		w := serve(http.MethodPost, "/departments", `{"name":"Head Office","latitude":"north"}`)
		Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))

		var env struct {
			Success bool                `json:"success"`
			Errors  map[string][]string `json:"errors"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&env)).To(Succeed())
		Expect(env.Success).To(BeFalse())
		Expect(env.Errors["latitude"]).To(ConsistOf("The latitude must be a number."))
		Expect(env.Errors).To(HaveKey("longitude"))
		Expect(env.Errors).To(HaveKey("radius_meters"))
	})
})

func jsonInt(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
