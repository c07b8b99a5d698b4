package position_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/hr-management/internal/core/testutil"
	"github.com/frahmantamala/hr-management/internal/position"
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

var _ = Describe("Position Handler Integration", func() {
	var (
		db     *gorm.DB
		router *chi.Mux
	)

	BeforeEach(func() {
		var err error
		db, err = testutil.OpenDB()
		Expect(err).NotTo(HaveOccurred())

		lg, _ := testutil.CaptureLogger()
		handler := position.NewHandler(&transport.BaseHandler{Logger: lg}, newService(db, nil))

		router = chi.NewRouter()
		router.Get("/positions", handler.ListPositions)
		router.Post("/positions", handler.CreatePosition)
		router.Get("/positions/{id}", handler.GetPosition)
		router.Patch("/positions/{id}", handler.UpdatePosition)
		router.Delete("/positions/{id}", handler.DeletePosition)
		router.Get("/positions/users/{userID}", handler.GetUserPosition)
	})

	do := func(method, path, body string) (*httptest.ResponseRecorder, envelope) {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var env envelope
		Expect(json.NewDecoder(w.Body).Decode(&env)).To(Succeed())
		return w, env
	}

	create := func(name string) position.Position {
		w, env := do(http.MethodPost, "/positions", `{"name":"`+name+`","rate_reguler":50000,"rate_overtime":75000}`)
		Expect(w.Code).To(Equal(http.StatusCreated))
		var p position.Position
		Expect(json.Unmarshal(env.Data, &p)).To(Succeed())
		return p
	}

	It("creates a position and wraps it in the envelope", func() {
		w, env := do(http.MethodPost, "/positions", `{"name":"Operator","rate_reguler":50000,"rate_overtime":75000}`)
		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))
		Expect(env.Success).To(BeTrue())
		Expect(env.Status).To(Equal(http.StatusCreated))

		var p position.Position
		Expect(json.Unmarshal(env.Data, &p)).To(Succeed())
		Expect(p.Name).To(Equal("Operator"))
		Expect(p.RateOvertime).To(Equal(float64(75000)))
	})

	It("returns field errors for invalid input", func() {
		w, env := do(http.MethodPost, "/positions", `{"name":"","rate_reguler":"abc"}`)
		Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
		Expect(env.Success).To(BeFalse())

		var errs map[string][]string
		Expect(json.Unmarshal(env.Errors, &errs)).To(Succeed())
		Expect(errs).To(HaveKey("name"))
		Expect(errs["rate_reguler"]).To(ConsistOf("The rate_reguler must be a number."))
		Expect(errs).To(HaveKey("rate_overtime"))
	})

	It("rejects a malformed body", func() {
		w, _ := do(http.MethodPost, "/positions", `{"name":`)
		Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
	})

	It("lists positions by name", func() {
		create("Supervisor")
		create("Operator")

		w, env := do(http.MethodGet, "/positions", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var list []position.Position
		Expect(json.Unmarshal(env.Data, &list)).To(Succeed())
		Expect(list).To(HaveLen(2))
		Expect(list[0].Name).To(Equal("Operator"))
	})

	It("updates in place and returns the reloaded position", func() {
		p := create("Operator")
		w, env := do(http.MethodPatch, "/positions/"+itoa(p.ID), `{"name":"Operator","rate_reguler":60000}`)
		Expect(w.Code).To(Equal(http.StatusOK))

		var updated position.Position
		Expect(json.Unmarshal(env.Data, &updated)).To(Succeed())
		Expect(updated.RateReguler).To(Equal(float64(60000)))
		Expect(updated.RateOvertime).To(Equal(float64(75000)))
	})

	It("answers 404 for unknown or malformed ids", func() {
		w, env := do(http.MethodPatch, "/positions/999", `{"name":"X"}`)
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(env.Message).To(Equal("Position not found"))

		w, _ = do(http.MethodGet, "/positions/abc", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("refuses to delete a referenced position with the reference count", func() {
		p := create("Operator")
		emp := assignEmployee(db, "budi@example.com", p.ID)

		w, env := do(http.MethodDelete, "/positions/"+itoa(p.ID), "")
		Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
		Expect(env.Message).To(Equal("Position is still in use by employees"))
		Expect(string(env.Errors)).To(MatchJSON(`{"referenced_by":"employees","count":1}`))

		w, env = do(http.MethodGet, "/positions/users/"+itoa(emp.UserID), "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(string(env.Data)).To(MatchJSON(`{"user_id":` + itoa(emp.UserID) + `,"position":{"id":` + itoa(p.ID) + `,"name":"Operator","rate_reguler":50000,"rate_overtime":75000}}`))
	})

	It("deletes an unreferenced position", func() {
		p := create("Operator")
		w, env := do(http.MethodDelete, "/positions/"+itoa(p.ID), "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(env.Success).To(BeTrue())
	})
})
