package middleware

import (
	"net/http"

	"github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/transport"
)

// RequireAdmin lets the request through only for admin principals. It must run
// after the auth middleware.
func RequireAdmin(base *transport.BaseHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := internal.PrincipalFromContext(r.Context())
			if !ok {
				base.HandleServiceError(w, r, internal.ErrInvalidToken)
				return
			}

			if !principal.IsAdmin {
				base.Logger.Warn("access denied: admin required",
					"user_id", principal.UserID,
					"method", r.Method,
					"path", r.URL.Path)
				base.HandleServiceError(w, r, internal.ErrAdminRequired)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
