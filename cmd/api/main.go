package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/kodmani-estates/leadflow/internal/adminauth"
	"github.com/kodmani-estates/leadflow/internal/api/router"
	"github.com/kodmani-estates/leadflow/internal/audit"
	appconfig "github.com/kodmani-estates/leadflow/internal/config"
	"github.com/kodmani-estates/leadflow/internal/intake"
	"github.com/kodmani-estates/leadflow/internal/leads"
	"github.com/kodmani-estates/leadflow/internal/observability/metrics"
	"github.com/kodmani-estates/leadflow/internal/subscribers"
	"github.com/kodmani-estates/leadflow/pkg/logging"
)

func main() {
	// Local development convenience; the file is absent in production.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting leadflow API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Postgres: pgx pool for the repositories, database/sql handle for
	// the audit store.
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create pgx pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database handle", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer func() { _ = redisClient.Close() }()

	// Metrics
	registry := prometheus.NewRegistry()
	intakeMetrics := metrics.NewIntakeMetrics(registry)

	// Audit trail: synchronous store behind an async dispatcher.
	auditStore := audit.NewStore(db)
	dispatcher := audit.NewDispatcher(auditStore, cfg.AuditQueueSize, intakeMetrics.ObserveAuditDrop, logger)
	dispatcher.Start()

	// Repositories and services
	leadsRepo := leads.NewPostgresRepository(pool)
	intakeService := intake.NewService(leadsRepo, dispatcher, intakeMetrics, cfg.AgentWhatsAppNumber, cfg.DuplicateWindowDays, logger)
	subscriberStore := subscribers.NewStore(pool)

	authService := adminauth.NewService(cfg.AdminPassword, cfg.AdminSessionSecret, cfg.AdminSessionTTL, adminauth.NewSessionStore(redisClient))

	// Setup router
	r := router.New(&router.Config{
		Logger:             logger,
		IntakeHandler:      intake.NewHandler(intakeService, logger),
		SubscribersHandler: subscribers.NewHandler(subscriberStore, logger),
		AdminAuthHandler:   adminauth.NewHandler(authService, logger),
		AdminAuthService:   authService,
		AdminLeadsHandler:  leads.NewHandler(leadsRepo, dispatcher, logger),
		AdminLogsHandler:   audit.NewHandler(auditStore, logger),
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerSecond: cfg.RateLimitPerSecond,
		RateLimitBurst:     cfg.RateLimitBurst,
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

	// Wait for interrupt signal to gracefully shutdown the server
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

	// Drain queued audit entries before exiting.
	dispatcher.Stop()

	logger.Info("server stopped")
}
