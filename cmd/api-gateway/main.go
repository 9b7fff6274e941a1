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

	_ "github.com/noah-isme/sis-enrollment-api/api/swagger"
	"github.com/noah-isme/sis-enrollment-api/internal/handler"
	"github.com/noah-isme/sis-enrollment-api/internal/repository"
	"github.com/noah-isme/sis-enrollment-api/internal/service"
	"github.com/noah-isme/sis-enrollment-api/pkg/cache"
	"github.com/noah-isme/sis-enrollment-api/pkg/config"
	"github.com/noah-isme/sis-enrollment-api/pkg/database"
	"github.com/noah-isme/sis-enrollment-api/pkg/events"
	"github.com/noah-isme/sis-enrollment-api/pkg/export"
	"github.com/noah-isme/sis-enrollment-api/pkg/jobs"
	"github.com/noah-isme/sis-enrollment-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sis-enrollment-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sis-enrollment-api/pkg/middleware/requestid"
)

// @title SIS Enrollment API
// @version 0.1.0
// @description Student enrollment wizard and records service
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	enrollmentRepo := repository.NewEnrollmentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	gradeRepo := repository.NewGradeLevelRepository(db)
	sessionRepo := repository.NewSessionRepository(redisClient, cfg.Wizard.SessionTTL)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metrics := service.NewMetricsService()
	cacheService := service.NewCacheService(cacheRepo, metrics, cfg.Courses.CacheTTL, logr)
	catalogService := service.NewCatalogService(courseRepo, gradeRepo, cacheService, cfg.Courses.CacheTTL, logr)

	validate := validator.New()
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, sessionRepo, validate, metrics, logr, cfg.Wizard, cfg.Term.SchoolYear)

	publisher := events.NewAsyncPublisher(
		events.NewRedisPublisher(redisClient, cfg.Events.Channel, logr),
		jobs.Config{
			Workers:    cfg.Events.Workers,
			BufferSize: cfg.Events.BufferSize,
			MaxRetries: cfg.Events.MaxRetries,
			RetryDelay: cfg.Events.RetryDelay,
			Logger:     logr,
		},
	)
	publisher.Start(context.Background())
	defer publisher.Stop()

	wizardService := service.NewWizardService(sessionRepo, enrollmentService, catalogService, publisher, logr, cfg.Wizard)

	slipExporter := export.NewSlipExporter(cfg.Term.SchoolName)

	wizardHandler := handler.NewWizardHandler(wizardService)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentService, slipExporter, cfg.Wizard.DeleteConfirmDelay.Milliseconds())
	catalogHandler := handler.NewCatalogHandler(catalogService)
	metricsHandler := handler.NewMetricsHandler(metrics)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(metrics.GinMiddleware())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	wizard := api.Group("/wizard")
	wizard.GET("", wizardHandler.State)
	wizard.DELETE("", wizardHandler.Reset)
	wizard.POST("/compliance", wizardHandler.AcknowledgeCompliance)
	wizard.POST("/level", wizardHandler.SelectLevel)
	wizard.POST("/grade", wizardHandler.SelectGrade)
	wizard.POST("/irregular/confirm", wizardHandler.ConfirmIrregular)
	wizard.POST("/irregular/cancel", wizardHandler.CancelIrregular)
	wizard.POST("/course", wizardHandler.SelectCourse)
	wizard.POST("/course-change/confirm", wizardHandler.ConfirmCourseChange)
	wizard.POST("/course-change/cancel", wizardHandler.CancelCourseChange)
	wizard.POST("/year", wizardHandler.SelectYear)
	wizard.POST("/semester", wizardHandler.SelectSemester)
	wizard.POST("/personal-info", wizardHandler.SetPersonalInfo)
	wizard.POST("/re-enroll", wizardHandler.StartReEnroll)
	wizard.POST("/submit", wizardHandler.Submit)
	wizard.POST("/back", wizardHandler.GoBack)

	enrollment := api.Group("/enrollment")
	enrollment.GET("", enrollmentHandler.Current)
	enrollment.DELETE("", enrollmentHandler.Delete)
	enrollment.GET("/previous", enrollmentHandler.Previous)
	enrollment.GET("/slip", enrollmentHandler.Slip)
	enrollment.POST("/delete-confirmation", enrollmentHandler.StageDeletion)

	api.GET("/courses", catalogHandler.Courses)
	api.GET("/grade-levels", catalogHandler.GradeLevels)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
