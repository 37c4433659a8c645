package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/campus-registry-api/api/swagger"
	"github.com/noah-isme/campus-registry-api/internal/handler"
	"github.com/noah-isme/campus-registry-api/internal/middleware"
	"github.com/noah-isme/campus-registry-api/internal/repository"
	"github.com/noah-isme/campus-registry-api/internal/service"
	"github.com/noah-isme/campus-registry-api/pkg/cache"
	"github.com/noah-isme/campus-registry-api/pkg/config"
	"github.com/noah-isme/campus-registry-api/pkg/database"
	"github.com/noah-isme/campus-registry-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/campus-registry-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/campus-registry-api/pkg/middleware/requestid"
	"github.com/noah-isme/campus-registry-api/pkg/storage"
)

// @title Campus Registry API
// @version 0.1.0
// @description Course enrollment, seat allocation and registry services
// @BasePath /api
// @schemes http

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

	validate := validator.New()
	metrics := service.NewMetricsService()

	courseRepo := repository.NewCourseRepository()
	studentRepo := repository.NewStudentRepository()
	feeRepo := repository.NewFeeRepository()
	libraryRepo := repository.NewLibraryRepository()
	performanceRepo := repository.NewPerformanceRepository()

	snapshots := service.NewSnapshotService(cfg.Data.Dir, cfg.Data.SnapshotOnWrite, courseRepo, studentRepo, feeRepo, libraryRepo, performanceRepo, logr)

	catalogSvc := service.NewCatalogService(courseRepo, validate, snapshots, logr)
	studentSvc := service.NewStudentService(studentRepo, validate, snapshots, logr)
	feeSvc := service.NewFeeService(feeRepo, studentSvc, cfg.Ledger.TermFee, cfg.Ledger.CheckTimeout, validate, snapshots, logr)
	librarySvc := service.NewLibraryService(libraryRepo, studentSvc, validate, snapshots, logr)

	var auditRepo *repository.AuditRepository
	if cfg.Audit.Enabled {
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			logr.Sugar().Fatalw("postgres connection failed", "error", err)
		}
		defer db.Close() //nolint:errcheck
		auditRepo = repository.NewAuditRepository(db)
	}

	var admissionSvc *service.AdmissionService
	if auditRepo != nil {
		admissionSvc = service.NewAdmissionService(catalogSvc, studentSvc, feeSvc, auditRepo, metrics, snapshots, logr)
	} else {
		admissionSvc = service.NewAdmissionService(catalogSvc, studentSvc, feeSvc, nil, metrics, snapshots, logr)
	}
	snapshots.SetAdmission(admissionSvc)

	if err := snapshots.Load(); err != nil {
		logr.Sugar().Fatalw("registry snapshot load failed", "dir", cfg.Data.Dir, "error", err)
	}

	var cacheSvc *service.CacheService
	if cfg.Analytics.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, analytics cache disabled", "error", err)
		} else {
			defer redisClient.Close() //nolint:errcheck
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Analytics.CacheTTL, logr, true)
		}
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", handler.NewMetricsHandler(metrics).Expose)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	courseHandler := handler.NewCourseHandler(catalogSvc)
	api.GET("/courses", courseHandler.List)
	api.POST("/courses", courseHandler.Create)

	enrollmentHandler := handler.NewEnrollmentHandler(admissionSvc)
	api.GET("/enrollments", enrollmentHandler.List)
	api.POST("/enrollments", enrollmentHandler.Create)
	api.POST("/enrollments/allocate", enrollmentHandler.Allocate)
	api.POST("/enrollments/reject", enrollmentHandler.Reject)

	studentHandler := handler.NewStudentHandler(studentSvc)
	api.GET("/students", studentHandler.Search)
	api.GET("/students/:id", studentHandler.Get)
	api.POST("/students", studentHandler.Create)
	api.POST("/students/remove/:id", studentHandler.Remove)

	feeHandler := handler.NewFeeHandler(feeSvc)
	api.GET("/fees", feeHandler.List)
	api.GET("/fees/clearance/:studentId", feeHandler.Clearance)
	api.POST("/fees/pay", feeHandler.Pay)

	libraryHandler := handler.NewLibraryHandler(librarySvc)
	api.GET("/library", libraryHandler.Search)
	api.POST("/library/borrow", libraryHandler.Borrow)
	api.POST("/library/return", libraryHandler.Return)

	if cfg.Analytics.Enabled {
		analyticsSvc := service.NewAnalyticsService(catalogSvc, admissionSvc, feeSvc, performanceRepo, studentSvc, cacheSvc, cfg.Analytics.CacheTTL, logr)
		analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc)
		api.GET("/analytics/overview", analyticsHandler.Overview)
		api.GET("/analytics/top", analyticsHandler.Top)
		api.GET("/analytics/graph", analyticsHandler.Graph)
	}

	var reportSvc *service.ReportService
	if cfg.Reports.Enabled {
		reportStore, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("report storage init failed", "dir", cfg.Reports.StorageDir, "error", err)
		}
		reportSvc = service.NewReportService(catalogSvc, admissionSvc, reportStore, cfg.Reports.WorkerConcurrency, cfg.Reports.WorkerRetries, cfg.Reports.CleanupInterval, validate, logr)
		reportHandler := handler.NewReportHandler(reportSvc)
		api.POST("/reports", reportHandler.Create)
		api.GET("/reports/:id", reportHandler.Get)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if reportSvc != nil {
		reportSvc.Start(ctx)
	}

	var sweeper *service.AllocationSweeper
	if cfg.Allocator.SweepEnabled {
		sweeper = service.NewAllocationSweeper(catalogSvc, admissionSvc, cfg.Allocator.SweepSchedule, logr)
		if err := sweeper.Start(); err != nil {
			logr.Sugar().Fatalw("allocation sweeper start failed", "schedule", cfg.Allocator.SweepSchedule, "error", err)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutdown signal received")

	if sweeper != nil {
		sweeper.Stop()
	}
	if reportSvc != nil {
		reportSvc.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("server shutdown failed", "error", err)
	}

	if err := snapshots.Persist(); err != nil {
		logr.Sugar().Errorw("final snapshot persist failed", "error", err)
	}

	logr.Info("server stopped")
}
