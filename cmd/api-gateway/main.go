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
	"go.uber.org/zap"

	_ "github.com/noah-isme/class-scheduling-api/api/swagger"
	"github.com/noah-isme/class-scheduling-api/internal/repository"
	"github.com/noah-isme/class-scheduling-api/internal/service"
	"github.com/noah-isme/class-scheduling-api/pkg/cache"
	"github.com/noah-isme/class-scheduling-api/pkg/config"
	"github.com/noah-isme/class-scheduling-api/pkg/database"
	"github.com/noah-isme/class-scheduling-api/pkg/jobs"
	"github.com/noah-isme/class-scheduling-api/pkg/logger"
)

// @title Class Scheduling API
// @version 1.0.0
// @description Weekly class timetables with instructor and room conflict detection.
// @BasePath /api/v1
// @schemes http
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
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.MigrateOnStart {
		if err := database.RunMigrations(db.DB, logr); err != nil {
			logr.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, caching and rate limiting disabled", zap.Error(err))
		redisClient = nil
	}

	metrics := service.NewMetricsService()
	validate := service.NewValidator()

	scheduleRepo := repository.NewScheduleRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	instructorRepo := repository.NewInstructorRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Scheduler.StatsCacheTTL, logr, cacheRepo.Enabled())
	dispatcher := service.NewScheduleEventDispatcher(cacheSvc, service.NewLogNotifier(logr), metrics, logr)
	eventQueue := jobs.NewQueue("schedule-events", dispatcher.Handle, jobs.QueueConfig{
		Workers:    cfg.Scheduler.EventWorkers,
		BufferSize: cfg.Scheduler.EventBuffer,
		MaxRetries: cfg.Scheduler.EventRetries,
		RetryDelay: time.Second,
		Logger:     logr,
	})
	dispatcher.Attach(eventQueue)
	// Not tied to the signal context: writes finishing during shutdown still publish events.
	eventQueue.Start(context.Background())

	deps := routeDeps{
		cfg:        cfg,
		logger:     logr,
		metrics:    metrics,
		db:         db,
		cache:      cacheRepo,
		verifier:   service.NewTokenVerifier(cfg.JWT),
		dispatcher: dispatcher,
		schedules:  service.NewScheduleService(scheduleRepo, attendanceRepo, metrics, validate, logr),
		availability: service.NewAvailabilityService(
			scheduleRepo, instructorRepo, cfg.Scheduler.KnownRooms, metrics, validate, logr,
		),
		statistics: service.NewStatisticsService(scheduleRepo, instructorRepo, cacheSvc, metrics, cfg.Scheduler.StatsCacheTTL, logr),
		views:      service.NewScheduleViewService(scheduleRepo, courseRepo, instructorRepo, registrationRepo, logr),
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           newRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("server shutdown failed", zap.Error(err))
	}
	eventQueue.Stop()
	stats := eventQueue.Stats()
	logr.Info("schedule event queue drained",
		zap.Uint64("processed", stats.Processed),
		zap.Uint64("failed", stats.Failed),
		zap.Uint64("dropped", stats.Dropped),
	)
}
