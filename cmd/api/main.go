package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/skinsight/dermascan/internal/config"
	v1 "github.com/skinsight/dermascan/internal/handler/v1"
	"github.com/skinsight/dermascan/internal/inference"
	"github.com/skinsight/dermascan/internal/repository"
	"github.com/skinsight/dermascan/internal/service"
	"github.com/skinsight/dermascan/internal/upload"
	"github.com/skinsight/dermascan/pkg/auth"
	"github.com/skinsight/dermascan/pkg/database"
	"github.com/skinsight/dermascan/pkg/logger"
	"github.com/skinsight/dermascan/pkg/metrics"
	"github.com/skinsight/dermascan/pkg/tracer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	if err := database.Migrate(db, log); err != nil {
		return err
	}

	collector := metrics.NewCollector("dermascan")
	if sqlDB, err := db.DB(); err == nil {
		go func() {
			for range time.Tick(15 * time.Second) {
				collector.DBConnections.Set(float64(sqlDB.Stats().OpenConnections))
			}
		}()
	}

	jwtManager := auth.NewJWTManager(cfg.JWT)

	patientRepo := repository.NewPatientRepository(db)
	scanRepo := repository.NewScanRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	userRepo := repository.NewUserRepository(db)

	uploadClient := upload.NewClient(cfg.Upload, log)
	inferenceClient := inference.NewClient(cfg.Inference, log)

	auditSvc := service.NewAuditService(auditRepo, collector, log)
	defer auditSvc.Shutdown()

	authSvc := service.NewAuthService(userRepo, jwtManager, auditSvc, log)
	patientSvc := service.NewPatientService(patientRepo, auditSvc, collector, log)
	scanSvc := service.NewScanService(scanRepo, uploadClient, inferenceClient, auditSvc, collector, log)
	reportSvc := service.NewReportService(scanRepo, patientRepo, auditSvc, collector, cfg.Report, log)

	router := v1.NewRouter(v1.RouterDeps{
		Config:     cfg,
		Logger:     log,
		Metrics:    collector,
		JWTManager: jwtManager,
		Auth:       v1.NewAuthHandler(authSvc),
		Patients:   v1.NewPatientHandler(patientSvc),
		Scans:      v1.NewScanHandler(scanSvc),
		Reports:    v1.NewReportHandler(reportSvc),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Environment),
			zap.String("version", cfg.App.Version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	log.Info("server stopped cleanly")
	return nil
}
