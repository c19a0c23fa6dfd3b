package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lenflow/internal/client/corebank"
	"lenflow/internal/config"
	"lenflow/internal/extraction"
	"lenflow/internal/handler"
	"lenflow/internal/repository/postgres"
	"lenflow/internal/router"
	"lenflow/internal/service"
	"lenflow/internal/session"
	s3storage "lenflow/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	stagingRepo := postgres.NewStagingRepo(db)

	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	extractor := extraction.NewClient(&cfg.Extraction)
	bank := corebank.NewClient(&cfg.CoreBank)

	// Services
	sessions := session.NewManager()
	intakeSvc := service.NewIntakeService(sessions, stagingRepo, s3Client, extractor, &cfg.S3)
	recordSvc := service.NewRecordService(sessions, bank.Records(), stagingRepo)
	covenantSvc := service.NewCovenantService(bank.Records(), bank.DebtService(), bank.Covenants())
	exportSvc := service.NewExportService(bank.Records(), covenantSvc)

	// Handlers
	sessionH := handler.NewSessionHandler(intakeSvc, recordSvc)
	subjectH := handler.NewSubjectHandler(covenantSvc, exportSvc)
	healthH := handler.NewHealthHandler(db)

	r := router.Setup(cfg, sessionH, subjectH, healthH)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweeper := service.NewSweeper(stagingRepo, s3Client, &cfg.Sweeper)
	go sweeper.Run(ctx)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
