package middleware

import (
	"crypto/subtle"
	"net/http"
)

// AuthConfig holds the accepted API keys. An empty key set disables auth.
type AuthConfig struct {
	keys []string
}

// NewAuthConfigWithKeys creates an AuthConfig from a list of keys.
func NewAuthConfigWithKeys(keys []string) AuthConfig {
	kept := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			kept = append(kept, k)
		}
	}
	return AuthConfig{keys: kept}
}

// Enabled reports whether any keys are configured.
func (c AuthConfig) Enabled() bool {
	return len(c.keys) > 0
}

// valid checks a presented key against the configured set in constant time.
func (c AuthConfig) valid(key string) bool {
	for _, k := range c.keys {
		if subtle.ConstantTimeCompare([]byte(k), []byte(key)) == 1 {
			return true
		}
	}
	return false
}

// WriteProtect returns a middleware requiring an X-API-KEY header on
// mutating methods. Safe methods pass through so health checks and CORS
// preflights work unauthenticated.
func WriteProtect(config AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !config.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			if !config.valid(r.Header.Get("X-API-KEY")) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"invalid or missing API key"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
