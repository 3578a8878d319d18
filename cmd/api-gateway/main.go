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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/uni-adp-api/api/swagger"
	"github.com/noah-isme/uni-adp-api/internal/dto"
	"github.com/noah-isme/uni-adp-api/internal/handler"
	"github.com/noah-isme/uni-adp-api/internal/middleware"
	"github.com/noah-isme/uni-adp-api/internal/repository"
	"github.com/noah-isme/uni-adp-api/internal/service"
	"github.com/noah-isme/uni-adp-api/pkg/ai"
	"github.com/noah-isme/uni-adp-api/pkg/cache"
	"github.com/noah-isme/uni-adp-api/pkg/config"
	"github.com/noah-isme/uni-adp-api/pkg/database"
	"github.com/noah-isme/uni-adp-api/pkg/jobs"
	"github.com/noah-isme/uni-adp-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/uni-adp-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/uni-adp-api/pkg/middleware/requestid"
)

// @title University ADP API
// @version 0.1.0
// @description University administration service with automated timetable generation
// @BasePath /api/v1
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
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	var cacheRepo *repository.CacheRepository
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, read caching disabled", "error", err)
	} else {
		cacheRepo = repository.NewCacheRepository(redisClient)
		defer redisClient.Close()
	}

	departmentRepo := repository.NewDepartmentRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	classroomRepo := repository.NewClassroomRepository(db)
	constraintRepo := repository.NewConstraintRepository(db)
	timetableRepo := repository.NewTimetableRepository(db)

	metricsSvc := service.NewMetricsService()

	departmentSvc := service.NewDepartmentService(departmentRepo, nil)
	subjectSvc := service.NewSubjectService(subjectRepo, nil)
	classroomSvc := service.NewClassroomService(classroomRepo, nil)
	constraintSvc := service.NewConstraintService(constraintRepo, nil)
	staffSvc := service.NewStaffService(staffRepo, subjectRepo, nil, logr)

	var timetableCache interface {
		Get(ctx context.Context, key string, dest interface{}) error
		Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
		DeleteByPattern(ctx context.Context, pattern string) error
	}
	if cacheRepo != nil {
		timetableCache = cacheRepo
	}

	timetableSvc := service.NewTimetableService(
		departmentRepo, subjectRepo, staffRepo, classroomRepo, constraintRepo,
		timetableRepo, timetableCache, buildGenerators(cfg, logr), metricsSvc,
		service.TimetableServiceConfig{
			DefaultMaxSubjects: cfg.Timetable.DefaultMaxSubjects,
			DefaultMaxHours:    cfg.Timetable.DefaultMaxHours,
			CacheTTL:           cfg.Timetable.CacheTTL,
			ProposalTimeout:    cfg.AI.Timeout,
		},
		nil, logr,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	generateQueue := jobs.NewQueue("timetable-generate", func(ctx context.Context, job jobs.Job) error {
		req, ok := job.Payload.(dto.GenerateTimetableRequest)
		if !ok {
			return fmt.Errorf("unexpected payload type %T", job.Payload)
		}
		_, err := timetableSvc.Generate(ctx, req)
		return err
	}, jobs.QueueConfig{
		Workers:    cfg.Timetable.AsyncWorkers,
		BufferSize: cfg.Timetable.AsyncBufferSize,
		MaxRetries: cfg.Timetable.AsyncRetries,
		Logger:     logr,
	})
	generateQueue.Start(ctx)
	defer generateQueue.Stop()

	departmentHandler := handler.NewDepartmentHandler(departmentSvc)
	subjectHandler := handler.NewSubjectHandler(subjectSvc)
	classroomHandler := handler.NewClassroomHandler(classroomSvc)
	constraintHandler := handler.NewConstraintHandler(constraintSvc)
	staffHandler := handler.NewStaffHandler(staffSvc)
	timetableHandler := handler.NewTimetableHandler(timetableSvc, generateQueue)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(cfg.JWT.Secret))
	{
		api.GET("/departments", departmentHandler.List)
		api.POST("/departments", departmentHandler.Create)
		api.GET("/departments/:id", departmentHandler.Get)

		api.GET("/subjects", subjectHandler.List)
		api.POST("/subjects", subjectHandler.Create)
		api.GET("/subjects/:id", subjectHandler.Get)

		api.GET("/classrooms", classroomHandler.List)
		api.POST("/classrooms", classroomHandler.Create)
		api.GET("/classrooms/:id", classroomHandler.Get)

		api.GET("/staff", staffHandler.List)
		api.POST("/staff", staffHandler.Create)
		api.GET("/staff/:id", staffHandler.Get)
		api.PUT("/staff/:id/subjects", staffHandler.SelectSubjects)
		api.POST("/staff/:id/subjects/lock", staffHandler.LockSelection)

		api.GET("/constraints", constraintHandler.List)
		api.POST("/constraints", constraintHandler.Create)
		api.DELETE("/constraints/:id", constraintHandler.Delete)

		api.POST("/timetables/generate", timetableHandler.Generate)
		api.POST("/timetables/validate", timetableHandler.Validate)
		api.GET("/timetables/:departmentId", timetableHandler.Get)
		api.GET("/timetables/:departmentId/versions", timetableHandler.Versions)
		api.GET("/timetables/:departmentId/export", timetableHandler.Export)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown incomplete", "error", err)
	}
}

// buildGenerators assembles the external proposal chain from config.
// Providers without an API key are skipped; Groq is preferred, Gemini is
// the secondary.
func buildGenerators(cfg *config.Config, logr *zap.Logger) []ai.Generator {
	if !cfg.AI.Enabled {
		return nil
	}
	var generators []ai.Generator
	if cfg.AI.GroqAPIKey != "" {
		generators = append(generators, ai.NewGroqGenerator(cfg.AI.GroqAPIKey, cfg.AI.GroqModel, cfg.AI.GroqBaseURL, nil))
	}
	if cfg.AI.GeminiAPIKey != "" {
		generators = append(generators, ai.NewGeminiGenerator(cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel, cfg.AI.GeminiBaseURL, nil))
	}
	if len(generators) == 0 {
		logr.Sugar().Warnw("proposal generation enabled but no provider keys configured")
	}
	return generators
}
