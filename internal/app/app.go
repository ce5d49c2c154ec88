package app

import (
	"ai_academy_backend/internal/config"
	"ai_academy_backend/internal/controller"
	"ai_academy_backend/internal/repository"
	"ai_academy_backend/internal/service"
	"ai_academy_backend/pkg/cache"
	"ai_academy_backend/pkg/configwatcher"
	"ai_academy_backend/pkg/database"
	"ai_academy_backend/pkg/logger"
	"ai_academy_backend/pkg/monitoring"
	"ai_academy_backend/pkg/tracing"
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	tracerProvider  *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user            *repository.UserRepository
	module          *repository.ModuleRepository
	lesson          *repository.LessonRepository
	question        *repository.QuestionRepository
	answer          *repository.AnswerRepository
	progress        *repository.ProgressRepository
	testResult      *repository.TestResultRepository
	aiAgent         *repository.AIAgentRepository
	aiAgentQuestion *repository.AIAgentQuestionRepository
}

type services struct {
	user            *service.UserService
	module          *service.ModuleService
	lesson          *service.LessonService
	question        *service.QuestionService
	answer          *service.AnswerService
	progress        *service.ProgressService
	testResult      *service.TestResultService
	aiAgent         *service.AIAgentService
	aiAgentQuestion *service.AIAgentQuestionService
}

type controllers struct {
	user       *controller.UserController
	module     *controller.ModuleController
	lesson     *controller.LessonController
	question   *controller.QuestionController
	progress   *controller.ProgressController
	testResult *controller.TestResultController
	aiAgent    *controller.AIAgentController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:            repository.NewUserRepository(db),
		module:          repository.NewModuleRepository(db),
		lesson:          repository.NewLessonRepository(db),
		question:        repository.NewQuestionRepository(db),
		answer:          repository.NewAnswerRepository(db),
		progress:        repository.NewProgressRepository(db),
		testResult:      repository.NewTestResultRepository(db),
		aiAgent:         repository.NewAIAgentRepository(db),
		aiAgentQuestion: repository.NewAIAgentQuestionRepository(db),
	}
}

func initServices(repos *repositories, moduleCache service.ModuleCache) *services {
	s := &services{}

	s.user = service.NewUserService(repos.user)
	s.module = service.NewModuleService(repos.module, moduleCache)
	s.lesson = service.NewLessonService(repos.lesson, s.module)
	s.question = service.NewQuestionService(repos.question, repos.lesson, s.module)
	s.answer = service.NewAnswerService(repos.answer, s.question, s.module)
	s.progress = service.NewProgressService(repos.progress, repos.user, s.module)
	s.testResult = service.NewTestResultService(repos.testResult, repos.user, repos.lesson, s.module)
	s.aiAgent = service.NewAIAgentService(repos.aiAgent, repos.user)
	s.aiAgentQuestion = service.NewAIAgentQuestionService(repos.aiAgentQuestion)

	return s
}

func initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		user:       controller.NewUserController(s.user),
		module:     controller.NewModuleController(s.module),
		lesson:     controller.NewLessonController(s.lesson),
		question:   controller.NewQuestionController(s.question, s.answer),
		progress:   controller.NewProgressController(s.progress),
		testResult: controller.NewTestResultController(s.testResult),
		aiAgent:    controller.NewAIAgentController(s.aiAgent, s.aiAgentQuestion),
		health:     controller.NewHealthController(db, rdb),
	}
}

// NewRouter 组装仓储、服务与控制器并注册全部路由。rdb 为 nil 时不使用缓存。
func NewRouter(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	var moduleCache service.ModuleCache = cache.NopModuleCache{}
	if rdb != nil {
		moduleCache = cache.NewRedisModuleCache(rdb, cfg.Redis.CacheTTL())
	}

	repos := initRepositories(db)
	services := initServices(repos, moduleCache)
	controllers := initControllers(services, db, rdb)

	router := gin.New()
	setupMiddlewares(router, cfg)
	registerRoutes(router, controllers)
	return router
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully", zap.String("level", logger.Level().String()))

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}
	if cfg.MigrateOnly {
		return app
	}

	if cfg.Redis.Enabled {
		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		}
		app.Redis = rdb
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("ai-academy-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracerProvider = tp
	}

	// 监控初始化
	monitoring.Init()

	app.Router = NewRouter(cfg, db, app.Redis)

	app.RegisterConfigCallback(func(newCfg *config.Config) {
		logger.SetLevel(newCfg)
		logger.Log.Info("Log level updated", zap.String("level", logger.Level().String()))
	})

	return app
}

func (a *App) watchConfig(ctx context.Context) {
	if a.Config.FilePath == "" {
		return
	}
	err := configwatcher.WatchConfig(ctx, a.Config.FilePath, func(newCfg *config.Config) {
		for _, callback := range a.configCallbacks {
			callback(newCfg)
		}
	})
	if err != nil {
		logger.Log.Warn("Config hot reload disabled", zap.Error(err))
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.watchConfig(ctx)

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	a.Close(shutdownCtx)
	logger.Log.Info("Server exiting")
}

// Close 释放数据库、Redis 与追踪资源
func (a *App) Close(ctx context.Context) {
	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.Log.Error("Failed to close redis", zap.Error(err))
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
	_ = logger.Log.Sync()
}
