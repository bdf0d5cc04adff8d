// @title BOL Extraction API
// @version 1.0
// @description Extracts structured fields from Bill of Lading PDFs using native text with OCR fallback.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the API token.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"bolx/internal/config"
	"bolx/internal/diagnostics"
	"bolx/internal/email/noop"
	"bolx/internal/email/ses"
	"bolx/internal/handler"
	"bolx/internal/logger"
	"bolx/internal/pipeline"
	"bolx/internal/port"
	"bolx/internal/repository/postgres"
	"bolx/internal/router"
	"bolx/internal/service"
	s3storage "bolx/internal/storage/s3"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(cfg.Log)

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	batchRepo := postgres.NewBatchRepo(db)
	jobTimeout := cfg.Extraction.DocumentTimeout * 2
	docRepo := postgres.NewDocumentRepo(db, cfg.Queue.StaleAfter(jobTimeout))

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	emailSender, err := newEmailSender(&cfg.Email)
	if err != nil {
		return err
	}

	// Initialize services
	pipe, err := pipeline.New(&cfg.Extraction)
	if err != nil {
		return fmt.Errorf("failed to build extraction pipeline: %w", err)
	}
	registry := diagnostics.DefaultRegistry()
	batchSvc := service.NewBatchService(batchRepo, docRepo, s3Client, emailSender, pipe.Extraction,
		registry, &cfg.S3, cfg.Extraction.MinTextThreshold)
	processor := service.NewBatchProcessor(pipe.Extraction, cfg.Extraction.Workers)

	var tokens service.TokenService
	if cfg.JWT.Enabled {
		tokens = service.NewTokenService(&cfg.JWT)
	}

	// Initialize handlers
	maxBytes := cfg.S3.MaxFileSizeMB << 20
	extractH := handler.NewExtractHandler(processor, registry, cfg.Extraction.MinTextThreshold, maxBytes)
	batchH := handler.NewBatchHandler(batchSvc, maxBytes)
	healthH := handler.NewHealthHandler(db)

	r := router.Setup(router.Options{
		Tokens:         tokens,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		MaxUploadBytes: maxBytes,
	}, extractH, batchH, healthH)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worker := service.NewBatchQueueWorker(docRepo, batchSvc, service.BatchQueueConfig{
		PollInterval: time.Duration(cfg.Queue.PollIntervalSecs) * time.Second,
		MaxRetries:   cfg.Queue.MaxRetries,
		Concurrency:  cfg.Queue.Concurrency,
		JobTimeout:   jobTimeout,
	})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Start(ctx)
	}()

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Server.Port, "environment", cfg.Server.Environment,
			"auth", cfg.JWT.Enabled, "ocr", cfg.Extraction.OCREnabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		stop()
		wg.Wait()
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown", "error", err)
	}
	wg.Wait()
	slog.Info("server stopped")
	return nil
}

func newEmailSender(cfg *config.EmailConfig) (port.EmailSender, error) {
	switch cfg.Provider {
	case "ses":
		sender, err := ses.NewSESSender(cfg.Region, cfg.FromAddress, cfg.FromName)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SES sender: %w", err)
		}
		return sender, nil
	case "", "noop":
		return noop.NewNoopSender(), nil
	default:
		return nil, fmt.Errorf("unknown email provider: %s", cfg.Provider)
	}
}
