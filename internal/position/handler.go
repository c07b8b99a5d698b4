package position

import (
	"context"
	"net/http"

	"github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context) ([]*Position, error)
	Get(ctx context.Context, id int64) (*Position, error)
	Create(ctx context.Context, actorID int64, input map[string]any) (*Position, error)
	Update(ctx context.Context, actorID, id int64, input map[string]any) (*Position, error)
	Delete(ctx context.Context, actorID, id int64) error
	GetForUser(ctx context.Context, userID int64) (*UserPositionResponse, error)
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

func actorID(r *http.Request) int64 {
	p, _ := internal.PrincipalFromContext(r.Context())
	return p.UserID
}

func (h *Handler) ListPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.Service.List(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Positions retrieved successfully", positions)
}

func (h *Handler) GetPosition(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id", ErrPositionNotFound)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	p, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Position retrieved successfully", p)
}

func (h *Handler) CreatePosition(w http.ResponseWriter, r *http.Request) {
	input, err := h.DecodeFields(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	p, err := h.Service.Create(r.Context(), actorID(r), input)
	if err != nil {
		h.Logger.Warn("CreatePosition: service error", "error", err)
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusCreated, "Position created successfully", p)
}

func (h *Handler) UpdatePosition(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id", ErrPositionNotFound)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	input, err := h.DecodeFields(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	p, err := h.Service.Update(r.Context(), actorID(r), id, input)
	if err != nil {
		h.Logger.Warn("UpdatePosition: service error", "position_id", id, "error", err)
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Position updated successfully", p)
}

func (h *Handler) DeletePosition(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id", ErrPositionNotFound)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	if err := h.Service.Delete(r.Context(), actorID(r), id); err != nil {
		h.Logger.Warn("DeletePosition: service error", "position_id", id, "error", err)
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Position deleted successfully", nil)
}

// GetUserPosition handles GET /positions/users/{userID}
func (h *Handler) GetUserPosition(w http.ResponseWriter, r *http.Request) {
	userID, err := h.PathID(r, "userID", internal.NewNotFoundError("Employee not found", internal.ErrCodeEmployeeNotFound))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	resp, err := h.Service.GetForUser(r.Context(), userID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Employee position retrieved successfully", resp)
}
