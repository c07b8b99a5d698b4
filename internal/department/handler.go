package department

import (
	"context"
	"net/http"

	"github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context) ([]*Department, error)
	Get(ctx context.Context, id int64) (*Department, error)
	Create(ctx context.Context, actorID int64, input map[string]any) (*Department, error)
	Update(ctx context.Context, actorID, id int64, input map[string]any) (*Department, error)
	Delete(ctx context.Context, actorID, id int64) error
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

func (h *Handler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.Service.List(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Departments retrieved successfully", departments)
}

func (h *Handler) GetDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id", ErrDepartmentNotFound)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	d, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Department retrieved successfully", d)
}

func (h *Handler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	input, err := h.DecodeFields(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	p, _ := internal.PrincipalFromContext(r.Context())
	d, err := h.Service.Create(r.Context(), p.UserID, input)
	if err != nil {
		h.Logger.Warn("CreateDepartment: service error", "error", err)
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusCreated, "Department created successfully", d)
}

func (h *Handler) UpdateDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id", ErrDepartmentNotFound)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	input, err := h.DecodeFields(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	p, _ := internal.PrincipalFromContext(r.Context())
	d, err := h.Service.Update(r.Context(), p.UserID, id, input)
	if err != nil {
		h.Logger.Warn("UpdateDepartment: service error", "department_id", id, "error", err)
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Department updated successfully", d)
}

func (h *Handler) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id", ErrDepartmentNotFound)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	p, _ := internal.PrincipalFromContext(r.Context())
	if err := h.Service.Delete(r.Context(), p.UserID, id); err != nil {
		h.Logger.Warn("DeleteDepartment: service error", "department_id", id, "error", err)
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Department deleted successfully", nil)
}
