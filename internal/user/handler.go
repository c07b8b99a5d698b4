package user

import (
	"context"
	"net/http"

	"github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context) ([]*User, error)
	Get(ctx context.Context, id int64) (*User, error)
	Me(ctx context.Context, caller internal.Principal) (*User, error)
	Update(ctx context.Context, actorID, id int64, input map[string]any) (*User, error)
	Register(ctx context.Context, actorID int64, input map[string]any) (*User, error)
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

// GetCurrentUser handles GET /users/me
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.Logger.Warn("GetCurrentUser: principal not found in context")
		h.HandleServiceError(w, r, internal.ErrInvalidToken)
		return
	}

	u, err := h.Service.Me(r.Context(), caller)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "User found", u)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.List(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Users found", users)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id", ErrUserNotFound)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	u, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "User found", u)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id", ErrUserNotFound)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	input, err := h.DecodeFields(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	caller, _ := internal.PrincipalFromContext(r.Context())
	u, err := h.Service.Update(r.Context(), caller.UserID, id, input)
	if err != nil {
		h.Logger.Warn("UpdateUser: service error", "user_id", id, "error", err)
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "User updated successfully", u)
}

// Register handles POST /auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	input, err := h.DecodeFields(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	caller, _ := internal.PrincipalFromContext(r.Context())
	u, err := h.Service.Register(r.Context(), caller.UserID, input)
	if err != nil {
		h.Logger.Warn("Register: service error", "error", err)
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusCreated, "User registered successfully", u)
}
