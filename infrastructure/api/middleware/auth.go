package middleware

import (
	"net/http"
)

// AuthConfig holds API key authentication configuration.
type AuthConfig struct {
	apiKeys map[string]struct{}
	enabled bool
}

// NewAuthConfig creates a new AuthConfig with a single API key. An empty
// key disables authentication.
func NewAuthConfig(apiKey string) AuthConfig {
	if apiKey == "" {
		return AuthConfig{enabled: false}
	}
	return AuthConfig{
		apiKeys: map[string]struct{}{apiKey: {}},
		enabled: true,
	}
}

// NewAuthConfigWithKeys creates a new AuthConfig with multiple API keys.
func NewAuthConfigWithKeys(apiKeys []string) AuthConfig {
	if len(apiKeys) == 0 {
		return AuthConfig{enabled: false}
	}
	keys := make(map[string]struct{}, len(apiKeys))
	for _, k := range apiKeys {
		if k != "" {
			keys[k] = struct{}{}
		}
	}
	if len(keys) == 0 {
		return AuthConfig{enabled: false}
	}
	return AuthConfig{
		apiKeys: keys,
		enabled: true,
	}
}

// Enabled returns true if authentication is enabled.
func (c AuthConfig) Enabled() bool { return c.enabled }

// WriteProtect returns a middleware that requires X-API-KEY header
// authentication on mutating methods. Reads pass through unauthenticated;
// a config with no keys passes everything through.
func WriteProtect(config AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !config.enabled {
				next.ServeHTTP(w, r)
				return
			}

			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			apiKey := r.Header.Get("X-API-KEY")
			if apiKey == "" {
				WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
					Error:  "Unauthorized",
					Detail: "X-API-KEY header is required",
				})
				return
			}

			if _, ok := config.apiKeys[apiKey]; !ok {
				WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
					Error:  "Unauthorized",
					Detail: "Invalid API key",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
