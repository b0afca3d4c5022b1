package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"nimbus-gw/nimbus/pkg/config"
)

// Auth enforces optional inbound bearer-token authentication. When
// disabled it passes every request through. Token comparison is constant
// time so response timing does not leak how much of a token matched.
func Auth(cfg config.AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !cfg.Enabled {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" || !tokenAllowed(token, cfg.Tokens) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]any{
						"kind":       "unauthorized",
						"message":    "missing or invalid bearer token",
						"request_id": GetRequestID(r.Context()),
					},
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}

// tokenAllowed reports whether the token matches any configured token.
func tokenAllowed(token string, allowed []string) bool {
	ok := false
	for _, t := range allowed {
		if subtle.ConstantTimeCompare([]byte(token), []byte(t)) == 1 {
			ok = true
		}
	}
	return ok
}
