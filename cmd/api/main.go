package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"cinefind/internal/domain/entity"
	"cinefind/internal/infra/intent"
	"cinefind/internal/infra/tmdb"
	"cinefind/internal/observability/logging"
	"cinefind/internal/observability/tracing"
	"cinefind/internal/usecase/discover"
	"cinefind/pkg/cache"
	"cinefind/pkg/config"
	"cinefind/pkg/ratelimit"

	hhttp "cinefind/internal/handler/http"
	"cinefind/internal/handler/http/middleware"
	hmovie "cinefind/internal/handler/http/movie"
	"cinefind/internal/handler/http/requestid"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := initLogger()

	tmdbCfg := loadTMDBConfig(logger)
	intentCfg := loadIntentConfig(logger)

	version := getVersion()
	logger = logging.WithFields(logger, map[string]interface{}{"version": version})
	slog.SetDefault(logger)

	handler := setupServer(logger, tmdbCfg, intentCfg, version)

	runServer(logger, handler, version)
}

// initLogger initializes the structured logger and installs it as the
// process default. LOG_FORMAT=text switches to human-readable output for
// local development.
func initLogger() *slog.Logger {
	var logger *slog.Logger
	if os.Getenv("LOG_FORMAT") == "text" {
		logger = logging.NewTextLogger()
	} else {
		logger = logging.NewLogger()
	}
	slog.SetDefault(logger)
	return logger
}

// loadTMDBConfig loads and validates TMDB configuration. The server
// refuses to start without a usable upstream configuration.
func loadTMDBConfig(logger *slog.Logger) tmdb.Config {
	cfg := tmdb.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("tmdb configuration invalid", slog.Any("error", err))
		os.Exit(1)
	}
	return cfg
}

// loadIntentConfig loads and validates the query extractor configuration.
func loadIntentConfig(logger *slog.Logger) intent.Config {
	cfg := intent.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("extractor configuration invalid", slog.Any("error", err))
		os.Exit(1)
	}
	return cfg
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return version
}

// setupServer wires the gateways, usecase, routes, and middleware chain.
func setupServer(logger *slog.Logger, tmdbCfg tmdb.Config, intentCfg intent.Config, version string) http.Handler {
	extractor, err := intent.New(intentCfg)
	if err != nil {
		logger.Error("failed to build query extractor", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("query extractor initialized",
		slog.String("provider", intentCfg.Provider),
		slog.String("model", intentCfg.Model))

	cacheMetrics := cache.NewPrometheusMetrics()
	searchCache := cache.New[string, []entity.MovieSummary](cache.Config{
		Name:       "search",
		MaxEntries: tmdbCfg.SearchCacheMaxEntries,
		Metrics:    cacheMetrics,
	})
	detailCache := cache.New[int, entity.MovieDetail](cache.Config{
		Name:       "detail",
		MaxEntries: tmdbCfg.DetailCacheMaxEntries,
		Metrics:    cacheMetrics,
	})

	client := tmdb.NewClient(tmdbCfg)
	searchGW := tmdb.NewSearchGateway(client, searchCache, tmdbCfg)
	detailGW := tmdb.NewDetailGateway(client, detailCache, tmdbCfg)

	svc := discover.NewService(extractor, searchGW, detailGW)

	ipRateLimiter := setupRateLimiter(logger)

	mux := setupRoutes(svc, ipRateLimiter, searchCache, detailCache, intentCfg.Provider, version)

	return applyMiddleware(logger, mux)
}

// setupRateLimiter builds the per-IP rate limiter from environment
// configuration. Returns nil when rate limiting is disabled.
func setupRateLimiter(logger *slog.Logger) *middleware.IPRateLimiter {
	rateLimitCfg, err := config.LoadRateLimitConfig()
	if err != nil {
		logger.Error("failed to load rate limit configuration", slog.Any("error", err))
		os.Exit(1)
	}

	proxyCfg, err := middleware.LoadTrustedProxyConfig()
	if err != nil {
		logger.Error("failed to load trusted proxy configuration", slog.Any("error", err))
		os.Exit(1)
	}

	var ipExtractor middleware.IPExtractor
	if proxyCfg.Enabled {
		ipExtractor = middleware.NewTrustedProxyExtractor(*proxyCfg)
		logger.Info("rate limiting: trusted proxy mode enabled",
			slog.Int("trusted_proxies_count", len(proxyCfg.AllowedCIDRs)))
	} else {
		ipExtractor = &middleware.RemoteAddrExtractor{}
		logger.Info("rate limiting: using RemoteAddr (proxy headers ignored)")
	}

	if !rateLimitCfg.Enabled {
		logger.Warn("rate limiting is DISABLED - not recommended for production")
		return nil
	}

	store := ratelimit.NewInMemoryStore(ratelimit.InMemoryStoreConfig{
		MaxKeys: rateLimitCfg.MaxActiveKeys,
	})
	algorithm := ratelimit.NewSlidingWindowAlgorithm(&ratelimit.SystemClock{})
	metrics := ratelimit.NewPrometheusMetrics()

	logger.Info("rate limiting initialized",
		slog.Bool("enabled", true),
		slog.Int("ip_limit", rateLimitCfg.IPLimit),
		slog.Duration("ip_window", rateLimitCfg.IPWindow),
		slog.Int("max_keys", rateLimitCfg.MaxActiveKeys))

	return middleware.NewIPRateLimiter(*rateLimitCfg, store, algorithm, metrics, ipExtractor)
}

// setupRoutes registers all HTTP routes. The movie API routes are rate
// limited; health and metrics are not.
func setupRoutes(
	svc *discover.Service,
	ipRateLimiter *middleware.IPRateLimiter,
	searchCache *cache.TTLCache[string, []entity.MovieSummary],
	detailCache *cache.TTLCache[int, entity.MovieDetail],
	extractorProvider string,
	version string,
) *http.ServeMux {
	healthHandler := &hhttp.HealthHandler{
		Version:           version,
		ExtractorProvider: extractorProvider,
		SearchCache:       searchCache,
		DetailCache:       detailCache,
	}
	if ipRateLimiter != nil {
		healthHandler.RateLimiter = ipRateLimiter
	}

	apiMux := http.NewServeMux()
	hmovie.Register(apiMux, svc)

	var api http.Handler = apiMux
	if ipRateLimiter != nil {
		api = ipRateLimiter.Middleware(api)
	}

	rootMux := http.NewServeMux()
	rootMux.Handle("/health", healthHandler)
	rootMux.Handle("/metrics", hhttp.MetricsHandler())
	rootMux.Handle("/api/", api)
	return rootMux
}

// applyMiddleware wraps the handler with the middleware chain.
// Order (outermost first): CORS → Request ID → Tracing → Recovery →
// Logging → Body Limit → Metrics.
func applyMiddleware(logger *slog.Logger, handler http.Handler) http.Handler {
	corsCfg := middleware.LoadCORSConfig()
	logger.Info("CORS enabled",
		slog.Any("allowed_origins", corsCfg.AllowedOrigins),
		slog.Any("allowed_methods", corsCfg.AllowedMethods),
		slog.Int("max_age", corsCfg.MaxAge))

	chain := handler
	chain = hhttp.MetricsMiddleware(chain)
	chain = hhttp.LimitRequestBody(1 << 20)(chain) // 1MB limit
	chain = hhttp.Logging(logger)(chain)
	chain = hhttp.Recover(logger)(chain)
	chain = tracing.Middleware(chain)
	chain = requestid.Middleware(chain)
	chain = middleware.CORS(corsCfg)(chain)
	return chain
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, handler http.Handler, version string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := ":" + config.GetEnvString("PORT", "8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
