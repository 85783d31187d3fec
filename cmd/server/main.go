package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"reportsvc/internal/config"
	"reportsvc/internal/handler"
	"reportsvc/internal/logger"
	"reportsvc/internal/port"
	"reportsvc/internal/render"
	"reportsvc/internal/repository/postgres"
	"reportsvc/internal/router"
	"reportsvc/internal/service"
	s3storage "reportsvc/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		logrus.WithError(err).Fatal("server exited")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(cfg.Log)

	completedStatusID, err := uuid.Parse(cfg.Report.CompletedStatusID)
	if err != nil {
		return fmt.Errorf("invalid completed order status id %q: %w", cfg.Report.CompletedStatusID, err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	reportRepo := postgres.NewReportRepo(db, log)
	orderRepo := postgres.NewOrderRepo(db, completedStatusID, log)

	// Initialize renderers
	tpl, err := render.LoadTemplate(cfg.Report.TemplatePath)
	if err != nil {
		return fmt.Errorf("failed to load report template: %w", err)
	}

	// Initialize archive storage (optional)
	var archive port.ObjectStorage
	if cfg.S3.ArchiveEnabled() {
		archive, err = s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		log.WithField("bucket", cfg.S3.Bucket).Info("partner report archive enabled")
	}

	// Initialize services
	identitySvc := service.NewIdentityService(cfg.JWT)
	reportSvc := service.NewReportService(
		reportRepo,
		orderRepo,
		identitySvc,
		render.Renderers(tpl),
		archive,
		cfg.Report,
		cfg.S3,
		log,
	)

	// Initialize handlers
	reportH := handler.NewReportHandler(reportSvc, log)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(identitySvc, reportH, healthH, cfg.CORS.AllowedOrigins, log)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"addr":        cfg.Server.Port,
			"environment": cfg.Server.Environment,
		}).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
