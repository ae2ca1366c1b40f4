// Package main is the entry point for the Moodle Augment question service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/sanjeev23oct/moodle-augment-2/internal/adapter"
	"github.com/sanjeev23oct/moodle-augment-2/internal/config"
	"github.com/sanjeev23oct/moodle-augment-2/internal/domain"
	"github.com/sanjeev23oct/moodle-augment-2/internal/handler"
	"github.com/sanjeev23oct/moodle-augment-2/internal/question"
	"github.com/sanjeev23oct/moodle-augment-2/internal/security"
	"github.com/sanjeev23oct/moodle-augment-2/internal/ui"
	"github.com/sanjeev23oct/moodle-augment-2/internal/version"
)

func main() {
	// =========================================================================
	// 1. Load environment and configuration (Singleton)
	// =========================================================================
	// .env is optional; deployments usually set real environment variables.
	_ = godotenv.Load()

	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// =========================================================================
	// 2. Setup structured logger with credential redaction
	// =========================================================================
	logger := setupLogger(cfg.Logging)

	buildInfo := version.Get(handler.QuestionServiceName)
	logger.Info("starting question-server",
		slog.String("version", buildInfo.Version),
		slog.String("git_sha", buildInfo.GitSHA),
		slog.String("go_version", buildInfo.GoVersion),
		slog.String("host", cfg.Server.Host),
		slog.Int("port", cfg.Server.QuestionPort),
		slog.Int64("max_file_size", cfg.Upload.MaxFileSize),
	)

	// =========================================================================
	// 3. Build provider adapters and the generation pipeline
	// =========================================================================
	httpClient := &http.Client{Timeout: time.Duration(cfg.Providers.TimeoutSeconds) * time.Second}

	providers := map[domain.ProviderType]adapter.QuestionProvider{
		domain.ProviderDeepSeek:  adapter.NewDeepSeekAdapter(cfg.Providers.DeepSeek, adapter.WithHTTPClient(httpClient)),
		domain.ProviderSnowflake: adapter.NewSnowflakeAdapter(cfg.Providers.Snowflake, adapter.WithHTTPClient(httpClient)),
	}

	availability := cfg.Providers.Availability(domain.QuestionProviders)
	for name, ok := range availability {
		if !ok {
			logger.Warn("provider not configured", slog.String("provider", name))
		}
	}

	service := question.NewService(logger)

	// =========================================================================
	// 4. Setup Gin router with middleware
	// =========================================================================
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := handler.NewQuestionRouter(cfg, logger, providers, service)

	// =========================================================================
	// 5. Start HTTP server
	// =========================================================================
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.QuestionPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	ui.PrintBanner(handler.QuestionServiceName, "v"+version.BuildVersion)
	ui.PrintProviderStatus(availability)

	go func() {
		logger.Info("server starting", slog.String("address", addr))
		ui.PrintStartupInfo(cfg.Server.Host, cfg.Server.QuestionPort, []ui.Endpoint{
			{Method: "POST", Path: "/generate-questions/{provider}", Description: "Generate questions (form upload)"},
			{Method: "POST", Path: "/generate-questions/{provider}/json", Description: "Generate questions (JSON)"},
			{Method: "GET", Path: "/health", Description: "Health check"},
			{Method: "GET", Path: "/metrics", Description: "Prometheus metrics"},
		})

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// =========================================================================
	// 6. Graceful shutdown on SIGTERM/SIGINT
	// =========================================================================
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	ui.PrintShutdown()

	shutdownTimeout := time.Duration(cfg.Server.ShutdownTimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	httpClient.CloseIdleConnections()

	logger.Info("server stopped gracefully")
	ui.PrintGoodbye()
}

// setupLogger creates the structured logger. Every record passes through the
// credential redaction handler before it is written.
func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	var h slog.Handler
	if cfg.Format == "text" {
		h = slog.NewTextHandler(os.Stdout, opts)
	} else {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}

	logger := slog.New(security.NewRedactedHandler(h))
	slog.SetDefault(logger)

	return logger
}
