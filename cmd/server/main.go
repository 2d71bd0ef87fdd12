package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "time/tzdata"

	"github.com/LACRA/agritrace360/internal/auth"
	"github.com/LACRA/agritrace360/internal/config"
	"github.com/LACRA/agritrace360/internal/database"
	recordrouter "github.com/LACRA/agritrace360/internal/records/router"
	"github.com/LACRA/agritrace360/internal/records/service"
	"github.com/LACRA/agritrace360/internal/ratelimit"
	"github.com/LACRA/agritrace360/internal/server"
	"github.com/LACRA/agritrace360/internal/storage"
	"github.com/LACRA/agritrace360/internal/verification"
	"github.com/LACRA/agritrace360/internal/verification/report"
	verificationrouter "github.com/LACRA/agritrace360/internal/verification/router"
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.Server.LogLevel),
	})))

	slog.Info("configuration loaded successfully",
		"db_driver", cfg.Database.Driver,
		"db_host", cfg.Database.Host,
		"db_port", cfg.Database.Port,
		"db_name", cfg.Database.Name,
		"storage_type", cfg.Storage.Type,
		"rate_limit_backend", cfg.RateLimit.Backend,
	)

	slog.Info("CORS configuration",
		"allowed_origins", cfg.CORS.AllowedOrigins,
		"allowed_methods", cfg.CORS.AllowedMethods,
		"allowed_headers", cfg.CORS.AllowedHeaders,
		"allow_credentials", cfg.CORS.AllowCredentials,
		"max_age", cfg.CORS.MaxAge,
	)

	slog.Info("verification configuration",
		"delay", cfg.Verification.Delay(),
		"match_exporter_name", cfg.Verification.MatchExporterName,
		"report_timezone", cfg.Verification.Location().String(),
	)

	// Initialize database connection
	db, err := database.New(&cfg.Database, cfg.Server.LogLevel)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	// Perform health check
	if err := database.HealthCheck(db); err != nil {
		log.Fatalf("database health check failed: %v", err)
	}

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, append(service.Models(), &auth.PortalAccount{})...); err != nil {
			log.Fatalf("failed to migrate database: %v", err)
		}
	}

	ctx := context.Background()

	driver, err := storage.NewDriverFromConfig(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("failed to initialize report storage: %v", err)
	}
	archive := storage.NewArchiveService(driver)

	limiter, err := ratelimit.New(cfg.RateLimit)
	if err != nil {
		log.Fatalf("failed to initialize rate limiter: %v", err)
	}
	if closer, ok := limiter.(io.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				slog.Error("failed to close rate limiter", "error", err)
			}
		}()
	}

	records := service.NewRecordService(db)
	resolver := verification.NewResolver(cfg.Verification.MatchExporterName)
	verifier := verification.NewVerifier(resolver, nil, cfg.Verification.Delay())
	renderer := report.NewRenderer(cfg.Verification.Organization, cfg.Verification.Location())

	handler := server.New(cfg, server.Deps{
		DB:           db,
		Records:      recordrouter.NewRecordRouter(records),
		Verification: verificationrouter.NewVerificationRouter(records, resolver, verifier, renderer, archive),
		Archive:      archive,
		Accounts:     auth.NewAuthService(db),
		Tokens:       auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL()),
		Limiter:      limiter,
	})

	serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:              serverAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "port", cfg.Server.Port, "service_url", cfg.Server.ServiceURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start server", "error", err)
			quit <- syscall.SIGTERM
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	slog.Info("server exited")
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
