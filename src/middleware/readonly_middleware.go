package middleware

import (
	"net/http"
)

// ReadOnlyMiddleware rejects writes during maintenance. Session routes stay
// open so users can still sign in and out.
func ReadOnlyMiddleware(readOnly bool) func(http.Handler) http.Handler {
	allowedPosts := map[string]bool{
		"/api/user/login":  true,
		"/api/user/logout": true,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !readOnly || r.Method == http.MethodGet || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			if r.Method == http.MethodPost && allowedPosts[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			writeMessage(w, http.StatusForbidden, "read-only mode: only GET requests are allowed")
		})
	}
}
