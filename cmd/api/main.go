package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/contentflowhq/lead-pipeline/cmd/mainconfig"
	"github.com/contentflowhq/lead-pipeline/internal/api/router"
	appconfig "github.com/contentflowhq/lead-pipeline/internal/config"
	"github.com/contentflowhq/lead-pipeline/internal/fieldsync"
	"github.com/contentflowhq/lead-pipeline/internal/highlevel"
	"github.com/contentflowhq/lead-pipeline/internal/leadform"
	"github.com/contentflowhq/lead-pipeline/internal/mapping"
	"github.com/contentflowhq/lead-pipeline/internal/notify"
	"github.com/contentflowhq/lead-pipeline/internal/observability/metrics"
	"github.com/contentflowhq/lead-pipeline/internal/pipeline"
	"github.com/contentflowhq/lead-pipeline/pkg/logging"
)

func main() {
	// Load .env in development; ignored when absent.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting lead-pipeline API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Lead archive: Postgres when configured, in-memory otherwise.
	var repo leadform.Repository
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		repo = leadform.NewPostgresRepository(pool)
		logger.Info("lead archive using postgres")
	} else {
		repo = leadform.NewInMemoryRepository()
		logger.Warn("DATABASE_URL not set, lead archive is in-memory only")
	}

	// Field catalog cache: Redis when configured, in-memory otherwise.
	var cache fieldsync.Cache
	if cfg.RedisAddr != "" {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		cache = fieldsync.NewRedisCache(redis.NewClient(opts))
		logger.Info("field catalog cache using redis", "addr", cfg.RedisAddr)
	} else {
		cache = fieldsync.NewMemoryCache()
	}

	crm := highlevel.NewClient(highlevel.Config{
		BaseURL:    cfg.HighLevelBaseURL,
		Token:      cfg.HighLevelAPIKey,
		LocationID: cfg.HighLevelLocationID,
	}, logger.Component("highlevel"))
	if !crm.Configured() {
		logger.Warn("highlevel credentials missing or placeholder, leads will be delivered by email")
	}

	resolver := fieldsync.NewResolver(crm, cache, cfg.FieldCacheTTL, logger.Component("fieldsync"))

	emailSender := buildEmailSender(ctx, cfg, logger)

	intakeMetrics := metrics.NewIntakeMetrics(nil)

	mappingVersion := cfg.MappingVersion
	if mappingVersion == "" {
		mappingVersion = mapping.DefaultVersion
	}

	svc := pipeline.NewService(pipeline.Options{
		Repo:           repo,
		CRM:            crm,
		Resolver:       resolver,
		Email:          emailSender,
		NotifyTo:       cfg.NotifyToEmails,
		MappingVersion: mappingVersion,
		Metrics:        intakeMetrics,
		Logger:         logger.Component("pipeline"),
	})

	r := router.New(&router.Config{
		Logger:             logger,
		IntakeHandler:      pipeline.NewHandler(svc, logger.Component("intake")),
		AdminLeadsHandler:  leadform.NewAdminHandler(repo, logger.Component("admin")),
		AdminAuthSecret:    cfg.AdminJWTSecret,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		IntakeRatePerSec:   cfg.IntakeRatePerSec,
		IntakeBurst:        cfg.IntakeBurst,
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

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// buildEmailSender selects the fallback notification provider. A misconfigured
// provider degrades to the stub so the server still starts.
func buildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	emailLogger := logger.Component("notify")
	switch cfg.EmailProvider {
	case "resend":
		if sender := notify.NewResendSender(notify.ResendConfig{
			APIKey:    cfg.ResendAPIKey,
			FromEmail: cfg.NotifyFromEmail,
			FromName:  cfg.NotifyFromName,
		}, emailLogger); sender != nil {
			return sender
		}
		logger.Warn("RESEND_API_KEY not set, email fallback disabled")
	case "sendgrid":
		if sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.NotifyFromEmail,
			FromName:  cfg.NotifyFromName,
		}, emailLogger); sender != nil {
			return sender
		}
		logger.Warn("SENDGRID_API_KEY not set, email fallback disabled")
	case "ses":
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config for SES", "error", err)
			break
		}
		if sender := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.NotifyFromEmail,
			FromName:  cfg.NotifyFromName,
		}, emailLogger); sender != nil {
			return sender
		}
	case "stub", "":
		// fall through to stub
	default:
		logger.Warn("unknown EMAIL_PROVIDER, using stub", "provider", cfg.EmailProvider)
	}
	return notify.NewStubEmailSender(emailLogger)
}
