package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/brightoak/homeschool-api/api/swagger"
	"github.com/brightoak/homeschool-api/internal/blob"
	"github.com/brightoak/homeschool-api/internal/handler"
	"github.com/brightoak/homeschool-api/internal/middleware"
	"github.com/brightoak/homeschool-api/internal/models"
	"github.com/brightoak/homeschool-api/internal/service"
	"github.com/brightoak/homeschool-api/internal/store"
	"github.com/brightoak/homeschool-api/pkg/cache"
	"github.com/brightoak/homeschool-api/pkg/config"
	"github.com/brightoak/homeschool-api/pkg/database"
	"github.com/brightoak/homeschool-api/pkg/logger"
	corsmiddleware "github.com/brightoak/homeschool-api/pkg/middleware/cors"
	reqidmiddleware "github.com/brightoak/homeschool-api/pkg/middleware/requestid"
)

// @title Homeschool Tracker API
// @version 1.0.0
// @description Household homeschool record keeping: students, subjects, time entries, reports.
// @BasePath /
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

	blobStore, err := newBlobStore(cfg)
	if err != nil {
		logr.Sugar().Fatalw("failed to init storage backend", "backend", cfg.Storage.Backend, "error", err)
	}

	var metrics *service.MetricsService
	var storeOpts []store.Option
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
		storeOpts = append(storeOpts, store.WithTransitionHook(func(entity, op string, sizes store.Sizes) {
			metrics.ObserveTransition(entity, op)
			metrics.SetCollectionSizes(sizes.Students, sizes.Subjects, sizes.TimeEntries)
		}))
	}

	st := store.New(blobStore, logr, storeOpts...)
	st.Load(context.Background())

	validate := validator.New()
	students := service.NewStudentService(st, validate, logr)
	subjects := service.NewSubjectService(st, validate, logr)
	entries := service.NewTimeEntryService(st, validate, logr)
	reports := service.NewReportService(st, logr)
	exports := service.NewExportService(st, reports, cfg.Reports.ExportMaxRows, logr)

	if cfg.Volunteer.AutoProvision {
		provisioner := service.NewProvisioner(st, logr)
		provisioner.EnsureSubject(context.Background(),
			cfg.Volunteer.SubjectName, cfg.Volunteer.SubjectColor, models.CategoryNonCore)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if metrics != nil {
		r.Use(middleware.Metrics(metrics))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	if cfg.Auth.Enabled {
		api.Use(middleware.Auth(cfg.Auth))
	}

	studentHandler := handler.NewStudentHandler(students)
	api.GET("/students", studentHandler.List)
	api.POST("/students", studentHandler.Create)
	api.GET("/students/:id", studentHandler.Get)
	api.PATCH("/students/:id", studentHandler.Update)
	api.DELETE("/students/:id", studentHandler.Delete)

	subjectHandler := handler.NewSubjectHandler(subjects)
	api.GET("/subjects", subjectHandler.List)
	api.POST("/subjects", subjectHandler.Create)
	api.GET("/subjects/:id", subjectHandler.Get)
	api.PATCH("/subjects/:id", subjectHandler.Update)
	api.DELETE("/subjects/:id", subjectHandler.Delete)

	entryHandler := handler.NewTimeEntryHandler(entries)
	api.GET("/time-entries", entryHandler.List)
	api.POST("/time-entries", entryHandler.Create)
	api.POST("/time-entries/recurring", entryHandler.CreateRecurring)
	api.GET("/time-entries/:id", entryHandler.Get)
	api.PATCH("/time-entries/:id", entryHandler.Update)
	api.DELETE("/time-entries/:id", entryHandler.Delete)

	if cfg.Reports.Enabled {
		reportHandler := handler.NewReportHandler(reports)
		api.GET("/reports/summary", reportHandler.Summary)
		api.GET("/reports/progress/:id", reportHandler.Progress)
		api.GET("/reports/school-years", reportHandler.SchoolYears)

		exportHandler := handler.NewExportHandler(exports)
		api.GET("/exports/entries.csv", exportHandler.EntriesCSV)
		api.GET("/exports/summary.pdf", exportHandler.SummaryPDF)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "storage", cfg.Storage.Backend)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// newBlobStore selects the persistence backend for the state blob.
func newBlobStore(cfg *config.Config) (blob.Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendFile:
		return blob.NewFileStore(cfg.Storage.Dir, cfg.Storage.Key)
	case config.BackendRedis:
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return blob.NewRedisStore(client, cfg.Storage.Key), nil
	case config.BackendMemory:
		return blob.NewMemoryStore(), nil
	case config.BackendPostgres:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, err
		}
		return blob.NewPostgresStore(db, cfg.Storage.Key)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
