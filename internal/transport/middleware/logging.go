package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/hr-management/pkg/logger"
	"github.com/samber/lo"
)

const filtered = "[FILTERED]"

// maxLoggedBody caps how much of a request body ends up in a log record.
const maxLoggedBody = 4 << 10

var sensitiveFields = []string{
	"password",
	"token",
	"authorization",
	"secret",
	"session",
	"cookie",
}

func isSensitive(name string) bool {
	name = strings.ToLower(name)
	return lo.SomeBy(sensitiveFields, func(s string) bool { return strings.Contains(name, s) })
}

// LoggingMiddleware writes one record when a request arrives and one when it
// completes, through the request-scoped logger so trace ids are attached.
// Credentials are masked in headers and JSON bodies.
func LoggingMiddleware(base *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lg, found := logger.Lookup(r.Context())
			if !found {
				lg = base
			}

			lg.Debug("incoming request",
				"method", r.Method,
				"path", r.URL.Path,
				"query", r.URL.RawQuery,
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
				"headers", filterHeaders(r.Header),
				"body", readBody(r),
			)

			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			level := slog.LevelInfo
			switch {
			case status >= 500:
				level = slog.LevelError
			case status >= 400:
				level = slog.LevelWarn
			}

			lg.Log(r.Context(), level, "request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status_code", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"response_size", rec.size,
			)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

// readBody returns the masked body and restores it for the next handler.
func readBody(r *http.Request) string {
	if r.Body == nil {
		return ""
	}
	raw, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(raw))
	return filterBody(raw)
}

func filterHeaders(headers http.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for name, values := range headers {
		if isSensitive(name) {
			out[name] = filtered
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

func filterBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		if isSensitive(string(body)) {
			return filtered
		}
		if len(body) > maxLoggedBody {
			return string(body[:maxLoggedBody]) + "..."
		}
		return string(body)
	}

	masked, err := json.Marshal(filterJSON(data))
	if err != nil {
		return filtered
	}
	if len(masked) > maxLoggedBody {
		return string(masked[:maxLoggedBody]) + "..."
	}
	return string(masked)
}

func filterJSON(data any) any {
	switch v := data.(type) {
	case map[string]any:
		return lo.MapValues(v, func(value any, key string) any {
			if isSensitive(key) {
				return filtered
			}
			return filterJSON(value)
		})
	case []any:
		return lo.Map(v, func(item any, _ int) any { return filterJSON(item) })
	default:
		return v
	}
}
