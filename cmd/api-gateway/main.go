package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/AnshulGoyal589/NS-Acad-Backend/api/swagger"
	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/attainment"
	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/handler"
	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/models"
	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/repository"
	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/service"
	"github.com/AnshulGoyal589/NS-Acad-Backend/pkg/cache"
	"github.com/AnshulGoyal589/NS-Acad-Backend/pkg/config"
	"github.com/AnshulGoyal589/NS-Acad-Backend/pkg/database"
	"github.com/AnshulGoyal589/NS-Acad-Backend/pkg/jobs"
	"github.com/AnshulGoyal589/NS-Acad-Backend/pkg/logger"
	"github.com/AnshulGoyal589/NS-Acad-Backend/pkg/storage"
)

// @title NS Acad Attainment API
// @version 1.0.0
// @description CO-PO / CO-PSO attainment pipeline for course offerings.
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer db.Close()

	applied, err := database.Migrate(ctx, db)
	if err != nil {
		logr.Fatal("failed to apply migrations", zap.Error(err))
	}
	if len(applied) > 0 {
		logr.Info("migrations applied", zap.Strings("versions", applied))
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, report cache disabled and locks are process-local", zap.Error(err))
	}

	app := buildApplication(cfg, db, redisClient, logr)
	app.queue.Start(ctx)
	defer app.queue.Stop()
	go app.exports.RunCleanup(ctx, cfg.Exports.CleanupInterval)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           newRouter(cfg, app, logr),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "autoRecalculate", cfg.Attainment.AutoRecalculate)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

type application struct {
	metrics     *service.MetricsService
	auth        *service.AuthService
	offerings   *service.OfferingService
	marks       *service.MarksService
	coMappings  *service.CoMappingService
	attainment  *service.AttainmentService
	exports     *service.ExportService
	queue       *jobs.Queue
	readyChecks map[string]handler.ReadinessCheck
}

func buildApplication(cfg *config.Config, db *sqlx.DB, redisClient *redis.Client, logr *zap.Logger) *application {
	validate := validator.New()
	metrics := service.NewMetricsService()
	thresholds := defaultThresholds(cfg.Attainment)

	offeringRepo := repository.NewOfferingRepository(db)
	recordRepo := repository.NewStudentRecordRepository(db)
	mappingRepo := repository.NewCoPoMappingRepository(db)
	reportRepo := repository.NewAttainmentReportRepository(db)
	exportRepo := repository.NewExportRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Attainment.CacheTTL, logr, redisClient != nil)
	engine := attainment.NewEngine(thresholds, logr)
	attainmentSvc := service.NewAttainmentService(offeringRepo, recordRepo, mappingRepo, reportRepo, engine, cacheSvc, metrics, service.AttainmentConfig{
		CacheTTL:        cfg.Attainment.CacheTTL,
		LockTTL:         cfg.Attainment.LockTTL,
		AutoRecalculate: cfg.Attainment.AutoRecalculate,
	}, logr)

	queue := jobs.NewQueue("attainment", attainmentSvc.HandleRecalculationJob, jobs.QueueConfig{
		Workers:    cfg.Attainment.WorkerConcurrency,
		MaxRetries: cfg.Attainment.WorkerRetries,
		Delay:      cfg.Attainment.RecalculateDelay,
		Logger:     logr,
	})
	attainmentSvc.SetQueue(queue)

	files, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Fatal("failed to prepare export storage", zap.Error(err))
	}
	secret := cfg.Exports.SignedURLSecret
	if secret == "" {
		secret = cfg.JWT.Secret
	}
	signer := storage.NewSignedURLSigner(secret, cfg.Exports.SignedURLTTL)

	readyChecks := map[string]handler.ReadinessCheck{
		"postgres": db.PingContext,
	}
	if redisClient != nil {
		readyChecks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	return &application{
		metrics:     metrics,
		auth:        service.NewAuthService(service.AuthConfig{AccessTokenSecret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer}),
		offerings:   service.NewOfferingService(offeringRepo, attainmentSvc, thresholds, validate, logr),
		marks:       service.NewMarksService(recordRepo, offeringRepo, attainmentSvc, validate, logr),
		coMappings:  service.NewCoMappingService(mappingRepo, offeringRepo, attainmentSvc, validate, logr),
		attainment:  attainmentSvc,
		exports:     service.NewExportService(attainmentSvc, offeringRepo, exportRepo, files, signer, metrics, service.ExportConfig{APIPrefix: cfg.APIPrefix}, logr),
		queue:       queue,
		readyChecks: readyChecks,
	}
}

func defaultThresholds(cfg config.AttainmentConfig) models.AttainmentThresholds {
	return models.AttainmentThresholds{
		ThresholdPercentage:     cfg.ThresholdPercentage,
		TargetStudentPercentage: cfg.TargetStudentPercentage,
		Level2StudentPercentage: cfg.Level2StudentPercentage,
		StudentLevel2Percentage: cfg.StudentLevel2Percentage,
		PassPercentage:          cfg.PassPercentage,
	}
}
