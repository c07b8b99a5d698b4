package employee

import (
	"context"
	"net/http"

	"github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context) ([]*Employee, error)
	Get(ctx context.Context, caller internal.Principal, id int64) (*Employee, error)
	Create(ctx context.Context, actorID int64, input map[string]any) (*Employee, error)
	Update(ctx context.Context, caller internal.Principal, id int64, input map[string]any) (*Employee, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// ListEmployees handles GET /employees. Admin only, enforced by the router.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Service.List(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Employees retrieved successfully", employees)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	caller, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrInvalidToken)
		return
	}

	id, err := h.PathID(r, "id", ErrEmployeeNotFound)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	e, err := h.Service.Get(r.Context(), caller, id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Employee retrieved successfully", e)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	input, err := h.DecodeFields(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	caller, _ := internal.PrincipalFromContext(r.Context())
	e, err := h.Service.Create(r.Context(), caller.UserID, input)
	if err != nil {
		h.Logger.Warn("CreateEmployee: service error", "error", err)
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusCreated, "Employee created successfully", e)
}

// UpdateEmployee handles PATCH and PUT /employees/{id}. Both are partial updates.
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	caller, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrInvalidToken)
		return
	}

	id, err := h.PathID(r, "id", ErrEmployeeNotFound)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	input, err := h.DecodeFields(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	e, err := h.Service.Update(r.Context(), caller, id, input)
	if err != nil {
		h.Logger.Warn("UpdateEmployee: service error", "employee_id", id, "error", err)
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Employee updated successfully", e)
}
