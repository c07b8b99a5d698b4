package auth

import (
	"net/http"

	"github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/transport"
	"github.com/frahmantamala/hr-management/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	input, err := h.DecodeFields(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	resp, err := h.Service.Login(r.Context(), input)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Login successful", resp)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	caller, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrInvalidToken)
		return
	}

	if err := h.Service.Logout(r.Context(), caller); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Logout successful", nil)
}

// AuthMiddleware resolves the bearer token into a principal and tags the
// request logger with the caller.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.HandleServiceError(w, r, internal.NewUnauthorizedError("Missing authorization token", internal.ErrCodeInvalidToken))
			return
		}

		principal, err := h.Service.Authenticate(r.Context(), token)
		if err != nil {
			h.Logger.Warn("auth middleware: token rejected", "path", r.URL.Path, "error", err)
			h.HandleServiceError(w, r, err)
			return
		}

		ctx := internal.ContextWithPrincipal(r.Context(), principal)
		ctx = logger.With(ctx, "user_id", principal.UserID, "is_admin", principal.IsAdmin)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
