package http

import (
	"log/slog"
	"net/http"
)

// AuthHeader is the request header carrying the shared secret.
const AuthHeader = "X-Custom-Auth-Key"

// AuthMiddleware creates middleware that enforces the shared-secret
// header. An empty secret fails closed: every request is rejected until
// a secret is configured. Rejections log which check failed, never the
// submitted value.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			submitted := r.Header.Get(AuthHeader)

			switch {
			case secret == "":
				slog.Warn("auth rejected, no secret configured", "method", r.Method, "path", r.URL.Path)
			case submitted == "":
				slog.Warn("auth rejected, header missing", "method", r.Method, "path", r.URL.Path)
			case submitted != secret:
				slog.Warn("auth rejected, secret mismatch", "method", r.Method, "path", r.URL.Path)
			default:
				next.ServeHTTP(w, r)
				return
			}

			WriteError(w, http.StatusUnauthorized, "unauthorized", "Authentication failed")
		})
	}
}
