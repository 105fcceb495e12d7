package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"cinefind/internal/handler/http/respond"
	"cinefind/pkg/config"
	"cinefind/pkg/ratelimit"
)

// limiterTypeIP labels metrics and decisions from the per-IP limiter.
const limiterTypeIP = "ip"

// rateLimitedMessage is the fixed advisory body for denied requests. It
// deliberately carries no detail about the client's current window.
const rateLimitedMessage = "Rate limit exceeded. Please try again later."

// IPRateLimiter enforces a sliding-window request limit per client IP.
// The window state lives in an injected ratelimit.Store and the admission
// logic in an injected ratelimit.Algorithm, so tests can swap clocks and
// stores freely.
type IPRateLimiter struct {
	store       ratelimit.Store
	algorithm   ratelimit.Algorithm
	metrics     ratelimit.Metrics
	ipExtractor IPExtractor
	limit       int
	window      time.Duration
	enabled     bool
}

// NewIPRateLimiter creates a per-IP rate limiter middleware.
func NewIPRateLimiter(
	cfg config.RateLimitConfig,
	store ratelimit.Store,
	algorithm ratelimit.Algorithm,
	metrics ratelimit.Metrics,
	ipExtractor IPExtractor,
) *IPRateLimiter {
	return &IPRateLimiter{
		store:       store,
		algorithm:   algorithm,
		metrics:     metrics,
		ipExtractor: ipExtractor,
		limit:       cfg.IPLimit,
		window:      cfg.IPWindow,
		enabled:     cfg.Enabled,
	}
}

// Middleware returns an HTTP middleware that admits or denies requests by
// client IP.
//
// Denied requests receive 429 with a fixed advisory message plus
// X-RateLimit-* and Retry-After headers; a denial never consumes window
// quota. Store failures admit the request rather than taking the API down
// with the limiter.
func (rl *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.enabled {
			next.ServeHTTP(w, r)
			return
		}

		ip, err := rl.ipExtractor.ExtractIP(r)
		if err != nil {
			slog.Warn("rate limiter: IP extraction failed, using RemoteAddr fallback",
				slog.String("error", err.Error()),
				slog.String("remote_addr", r.RemoteAddr),
			)
			ip = r.RemoteAddr
		}

		start := time.Now()
		decision, err := rl.algorithm.IsAllowed(r.Context(), ip, rl.store, rl.limit, rl.window)
		rl.metrics.RecordCheckDuration(limiterTypeIP, time.Since(start))

		if err != nil {
			slog.Error("rate limiter: check failed, admitting request",
				slog.String("ip", ip),
				slog.String("error", err.Error()),
			)
			next.ServeHTTP(w, r)
			return
		}
		decision.LimiterType = limiterTypeIP

		if count, err := rl.store.KeyCount(r.Context()); err == nil {
			rl.metrics.SetActiveKeys(limiterTypeIP, count)
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAtUnix(), 10))

		if !decision.Allowed {
			rl.metrics.RecordDenied(limiterTypeIP)
			slog.Warn("rate limit exceeded",
				slog.String("ip", ip),
				slog.String("path", r.URL.Path),
				slog.Int("limit", decision.Limit),
				slog.Duration("window", rl.window),
			)
			w.Header().Set("Retry-After", strconv.FormatInt(decision.RetryAfterSeconds(), 10))
			respond.JSON(w, http.StatusTooManyRequests, map[string]string{
				"error": rateLimitedMessage,
			})
			return
		}

		rl.metrics.RecordAllowed(limiterTypeIP)
		next.ServeHTTP(w, r)
	})
}

// ActiveKeys reports how many client IPs currently have window state,
// for the health endpoint.
func (rl *IPRateLimiter) ActiveKeys(r *http.Request) (int, error) {
	return rl.store.KeyCount(r.Context())
}

// Enabled reports whether the limiter is active.
func (rl *IPRateLimiter) Enabled() bool {
	return rl.enabled
}

// Limit returns the configured per-window request limit.
func (rl *IPRateLimiter) Limit() int {
	return rl.limit
}

// Window returns the configured window duration.
func (rl *IPRateLimiter) Window() time.Duration {
	return rl.window
}
