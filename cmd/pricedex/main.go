package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/comparely/pricedex/internal/config"
	dbRedis "github.com/comparely/pricedex/internal/db/redis"
	"github.com/comparely/pricedex/internal/domain"
	logpkg "github.com/comparely/pricedex/internal/logger"
	"github.com/comparely/pricedex/internal/metrics"
	cacherepo "github.com/comparely/pricedex/internal/repository/cache"
	chiTransport "github.com/comparely/pricedex/internal/transport/chi"
	openaiTr "github.com/comparely/pricedex/internal/transport/openai"
	"github.com/comparely/pricedex/internal/transport/scrape"
	"github.com/comparely/pricedex/internal/transport/screenshot"
	"github.com/comparely/pricedex/internal/transport/serper"
	"github.com/comparely/pricedex/internal/urlfilter"
	availabilityuc "github.com/comparely/pricedex/internal/usecase/availability"
	compareuc "github.com/comparely/pricedex/internal/usecase/compare"
	healthuc "github.com/comparely/pricedex/internal/usecase/health"
	vendorsearchuc "github.com/comparely/pricedex/internal/usecase/vendorsearch"
	verifyuc "github.com/comparely/pricedex/internal/usecase/verify"
	"github.com/comparely/pricedex/internal/version"
)

func main() {
	// Local development credentials; silently absent in production.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting pricedex API server",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("cache_addrs", cfg.Cache.Addrs),
	)

	if cfg.Search.APIKey == "" {
		logger.Warn("search api key not configured, comparisons will fail")
	}
	if cfg.LLM.APIKey == "" {
		logger.Warn("llm api key not configured, verification will fail")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Cache.Addrs,
		Password: cfg.Cache.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create cache store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Cache store not ready", zap.Error(err))
	}
	logger.Info("Connected to cache store")

	// Register pipeline metrics explicitly (no init())
	metrics.RegisterPipelineMetrics()

	// Transport clients
	searchClient := serper.NewClient(&serper.Config{
		APIKey:  cfg.Search.APIKey,
		BaseURL: cfg.Search.BaseURL,
		Country: cfg.Search.Country,
		Timeout: time.Duration(cfg.Search.TimeoutSec) * time.Second,
		Logger:  logger,
	})
	scrapeClient := scrape.NewClient(&scrape.Config{
		Timeout:   time.Duration(cfg.Scrape.TimeoutSec) * time.Second,
		UserAgent: cfg.Scrape.UserAgent,
		Logger:    logger,
	})
	screenshotClient := screenshot.NewClient(&screenshot.Config{
		AccessKey: cfg.Screenshot.APIKey,
		BaseURL:   cfg.Screenshot.BaseURL,
		Timeout:   time.Duration(cfg.Screenshot.TimeoutSec) * time.Second,
		Logger:    logger,
	})
	verifierClient := openaiTr.NewVerifier(&openaiTr.Config{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.TextModel,
		Logger:  logger,
	})
	visionClient := openaiTr.NewVisionExtractor(&openaiTr.Config{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.VisionModel,
		Logger:  logger,
	})

	// Vendor panel: built-in UK retailers plus configured extras.
	vendors := domain.DefaultPanel()
	for _, v := range cfg.Vendors.Extra {
		vendors = append(vendors, domain.Vendor{Name: v.Name, Domain: v.Domain})
	}
	logger.Info("Vendor panel assembled", zap.Int("vendors", len(vendors)))

	filter := urlfilter.New(cfg.Vendors.BlockedDomains...)

	cacheRepo := cacherepo.New(store, cfg.Cache.KeyPrefix,
		time.Duration(cfg.Cache.TTLMinutes)*time.Minute)

	// Use case services
	searchSvc := vendorsearchuc.New(searchClient, cfg.Search.PerVendor,
		time.Duration(cfg.Pipeline.VendorSearchTimeoutSec)*time.Second, logger)
	verifySvc := verifyuc.New(verifierClient, logger)

	// One availability lookup may chain scrape, render and vision.
	availTimeout := time.Duration(cfg.Scrape.TimeoutSec+cfg.Screenshot.TimeoutSec+cfg.LLM.TimeoutSec) * time.Second
	availSvc := availabilityuc.New(scrapeClient, screenshotClient, visionClient,
		cfg.Pipeline.AvailabilityWindow, availTimeout, logger)

	compareSvc := compareuc.New(cacheRepo, searchSvc, filter, verifySvc, availSvc,
		vendors, cfg.Search.BroadCount, cfg.Pipeline.DefaultLimit, cfg.Pipeline.MaxLimit)

	healthSvc := healthuc.New(store, map[string]healthuc.ProviderChecker{
		"search":     searchClient,
		"screenshot": screenshotClient,
		"llm":        verifierClient,
	})

	server := chiTransport.NewServer(compareSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
