package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/glossworks/detailing-ai-platform/internal/api/router"
	"github.com/glossworks/detailing-ai-platform/internal/business"
	"github.com/glossworks/detailing-ai-platform/internal/commitments"
	appconfig "github.com/glossworks/detailing-ai-platform/internal/config"
	"github.com/glossworks/detailing-ai-platform/internal/gcal"
	"github.com/glossworks/detailing-ai-platform/internal/http/handlers"
	"github.com/glossworks/detailing-ai-platform/internal/observability/metrics"
	"github.com/glossworks/detailing-ai-platform/internal/schedule"
	"github.com/glossworks/detailing-ai-platform/pkg/logging"
)

func main() {
	// .env is a development convenience; production injects real env vars.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting detailing-ai-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Business calendar configuration lives in Redis.
	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOptions)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error("redis not available", "addr", cfg.RedisAddr, "error", err)
		os.Exit(1)
	}
	calendarStore := business.NewStore(redisClient)

	// Commitments persist in Postgres when configured; the in-memory
	// repository keeps local development free of infrastructure.
	var repo commitments.Repository
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create postgres pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			logger.Error("postgres not available", "error", err)
			os.Exit(1)
		}
		repo = commitments.NewPostgresRepository(pool)
		logger.Info("using postgres commitment repository")
	} else {
		repo = commitments.NewInMemoryRepository()
		logger.Warn("DATABASE_URL not set, commitments are in-memory only")
	}

	// External calendar busy periods are optional.
	var provider schedule.FreeBusyProvider
	if cfg.GoogleCredentialsJSON != "" {
		p, err := gcal.New(ctx, cfg.GoogleCredentialsJSON, logger)
		if err != nil {
			logger.Error("failed to create google calendar provider", "error", err)
			os.Exit(1)
		}
		provider = p
		logger.Info("google calendar free/busy integration enabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	schedulingMetrics := metrics.NewSchedulingMetrics(registry)

	engine := schedule.NewEngine(calendarStore, commitments.NewScheduleStore(repo), provider, logger,
		schedule.WithMetrics(schedulingMetrics),
		schedule.WithProviderTimeout(cfg.FreeBusyTimeout),
		schedule.WithSuggestionScanDays(cfg.SuggestionScanDays),
	)
	bookingService := commitments.NewService(repo, engine, logger)

	slotDefaults := schedule.SlotOptions{
		Days:            cfg.SlotWindowDays,
		DurationMinutes: cfg.DefaultDurationMinutes,
		StepMinutes:     cfg.SlotStepMinutes,
	}

	r := router.New(&router.Config{
		Logger:              logger,
		AvailabilityHandler: handlers.NewAvailabilityHandler(engine, slotDefaults, logger),
		BookingsHandler:     commitments.NewHandler(bookingService, repo, logger),
		BusinessHandler:     business.NewHandler(calendarStore, logger),
		MetricsHandler:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
