package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/pkg/logger"
	"github.com/go-chi/chi"
)

// Envelope is the shape of every API response body.
type Envelope struct {
	Message string      `json:"message"`
	Status  int         `json:"status"`
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Errors  interface{} `json:"errors"`
}

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

func (h *BaseHandler) WriteSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	h.WriteJSON(w, status, Envelope{
		Message: message,
		Status:  status,
		Success: true,
		Data:    data,
	})
}

// WriteError writes an error envelope without field details.
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.WriteJSON(w, status, Envelope{
		Message: message,
		Status:  status,
	})
}

// HandleServiceError maps a service error onto the envelope. Errors that are not
// AppErrors are treated as internal and their text never leaves the process.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := internal.IsAppError(err)
	if !ok {
		appErr = internal.NewInternalError(internal.InternalErrorMessage, err)
	}

	env := Envelope{
		Message: appErr.Message,
		Status:  appErr.StatusCode,
	}

	switch details := appErr.Details.(type) {
	case internal.ValidationErrors:
		env.Errors = details.ByField()
	case internal.DeniedFields:
		env.Errors = details
	case internal.ReferenceConflict:
		env.Errors = details
	}

	if appErr.Type == internal.ErrorTypeInternal {
		h.Logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", appErr.Cause)
		env.Message = internal.InternalErrorMessage
		env.Errors = map[string]string{"error": internal.InternalErrorMessage}
	}

	h.WriteJSON(w, appErr.StatusCode, env)
}

// DecodeFields reads a JSON object body into a loosely typed field map.
func (h *BaseHandler) DecodeFields(r *http.Request) (map[string]any, error) {
	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		return nil, internal.ErrInvalidRequestBody
	}
	if fields == nil {
		return map[string]any{}, nil
	}
	return fields, nil
}

// PathID parses a numeric URL parameter. A malformed id cannot name any row, so it is a 404.
func (h *BaseHandler) PathID(r *http.Request, name string, notFound *internal.AppError) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, notFound
	}
	return id, nil
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ""
	}
	return authHeader[7:]
}
