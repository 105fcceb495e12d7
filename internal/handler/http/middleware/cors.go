package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"cinefind/pkg/config"
)

// CORSConfig holds the configuration for CORS middleware.
type CORSConfig struct {
	// AllowedOrigins is a whitelist of permitted origins.
	AllowedOrigins []string

	// AllowedMethods specifies which HTTP methods are allowed in CORS
	// requests.
	AllowedMethods []string

	// AllowedHeaders specifies which request headers are allowed in CORS
	// requests.
	AllowedHeaders []string

	// AllowCredentials indicates whether credentials are supported.
	AllowCredentials bool

	// MaxAge is how long preflight results may be cached, in seconds.
	MaxAge int
}

// LoadCORSConfig loads CORS configuration from environment variables.
//
// Environment variables:
//   - CORS_ALLOWED_ORIGINS: comma-separated origin whitelist
//     (default: the local Vite dev frontend on port 5173)
//   - CORS_MAX_AGE: preflight cache lifetime in seconds (default: 86400)
func LoadCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins: config.GetEnvStringList("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		}),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           config.GetEnvInt("CORS_MAX_AGE", 86400),
	}
}

// isAllowedOrigin checks an origin against the whitelist.
func (c CORSConfig) isAllowedOrigin(origin string) bool {
	for _, allowed := range c.AllowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

// CORS returns an HTTP middleware that handles cross-origin requests.
//
// Behavior:
//   - No Origin header: same-origin request, skip CORS processing
//   - Disallowed origin: log a warning and continue without CORS headers,
//     letting the browser block the response
//   - Allowed origin, OPTIONS: answer the preflight with 204 directly
//   - Allowed origin, other methods: set headers and pass through
func CORS(config CORSConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !config.isAllowedOrigin(origin) {
				slog.Warn("CORS: origin not allowed",
					slog.String("origin", origin),
					slog.String("path", r.URL.Path),
					slog.String("method", r.Method),
				)
				next.ServeHTTP(w, r)
				return
			}

			// Echo the request origin; required when credentials are allowed.
			w.Header().Set("Access-Control-Allow-Origin", origin)
			if config.AllowCredentials {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", strings.Join(config.AllowedMethods, ", "))
				w.Header().Set("Access-Control-Allow-Headers", strings.Join(config.AllowedHeaders, ", "))
				w.Header().Set("Access-Control-Max-Age", strconv.Itoa(config.MaxAge))
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
