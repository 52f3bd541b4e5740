package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"exam_platform_backend/internal/config"
	"exam_platform_backend/internal/controller"
	"exam_platform_backend/internal/job"
	"exam_platform_backend/internal/repository"
	"exam_platform_backend/internal/service"
	"exam_platform_backend/pkg/configwatcher"
	"exam_platform_backend/pkg/database"
	"exam_platform_backend/pkg/logger"
	"exam_platform_backend/pkg/monitoring"
	"exam_platform_backend/pkg/security"
	"exam_platform_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/mongo"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Mongo  *mongo.Client
	Redis  *redis.Client

	services        *services
	cron            *cron.Cron
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user   *repository.UserRepository
	exam   *repository.ExamRepository
	result *repository.ResultRepository
}

type services struct {
	auth    *service.AuthService
	exam    *service.ExamService
	attempt *service.AttemptService
}

type controllers struct {
	auth      *controller.AuthController
	exam      *controller.ExamController
	adminExam *controller.AdminExamController
	result    *controller.ResultController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB, mdb *mongo.Database, rdb *redis.Client) *repositories {
	cache := repository.NewExamCache(rdb, a.Config.Exam.CacheTTL())
	return &repositories{
		user:   repository.NewUserRepository(db),
		exam:   repository.NewExamRepository(mdb, a.Config.Mongo.Timeout(), cache),
		result: repository.NewResultRepository(db),
	}
}

func (a *App) initServices(repos *repositories) *services {
	return &services{
		auth:    service.NewAuthService(repos.user, a.Config),
		exam:    service.NewExamService(repos.exam),
		attempt: service.NewAttemptService(repos.exam, repos.result, a.Config.Exam.EnforceWindow),
	}
}

func (a *App) initControllers(s *services, repos *repositories) *controllers {
	checks := map[string]controller.Pinger{
		"mysql": func(ctx context.Context) error {
			sqlDB, err := a.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"mongo": repos.exam.Ping,
	}
	if a.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return a.Redis.Ping(ctx).Err()
		}
	}

	return &controllers{
		auth:      controller.NewAuthController(s.auth),
		exam:      controller.NewExamController(s.exam, s.attempt),
		adminExam: controller.NewAdminExamController(s.exam, s.attempt),
		result:    controller.NewResultController(s.attempt),
		health:    controller.NewHealthController(checks),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window()))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(s *services) {
	c, err := job.Schedule(a.Config.Exam.SweepCron, job.NewExamWindowJob(s.exam, a.Config.Mongo.Timeout()))
	if err != nil {
		logger.Log.Error("Failed to schedule exam window sweep", zap.String("spec", a.Config.Exam.SweepCron), zap.Error(err))
		return
	}
	c.Start()
	a.cron = c
}

func (a *App) registerConfigCallbacks(s *services) {
	a.RegisterConfigCallback(func(cfg *config.Config) {
		logger.SetMode(cfg.Server.Mode)
	})
	a.RegisterConfigCallback(func(cfg *config.Config) {
		s.attempt.SetEnforceWindow(cfg.Exam.EnforceWindow)
	})
}

// WatchConfig applies registered callbacks whenever the config file changes.
func (a *App) WatchConfig(ctx context.Context, configFile string) {
	go func() {
		err := configwatcher.Watch(ctx, configFile, func(cfg *config.Config) {
			for _, cb := range a.configCallbacks {
				cb(cfg)
			}
		})
		if err != nil {
			logger.Log.Warn("Config watcher stopped", zap.Error(err))
		}
	}()
}

func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, DB: db}
	if cfg.MigrateOnly {
		return app, nil
	}

	mongoClient, mdb, err := database.InitMongo(&cfg.Mongo)
	if err != nil {
		return nil, err
	}
	app.Mongo = mongoClient

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		return nil, err
	}
	app.Redis = rdb

	repos := app.initRepositories(db, mdb, rdb)
	services := app.initServices(repos)
	app.services = services
	controllers := app.initControllers(services, repos)

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("exam-platform", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Error("Failed to initialize tracing", zap.Error(err))
		} else {
			app.tracer = tp
		}
	}

	if cfg.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, repos, cfg)

	app.registerConfigCallbacks(services)
	app.startBackgroundTasks(services)

	return app, nil
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	a.Close(ctx)
	logger.Log.Info("Server exiting")
}

// Close releases background jobs and connections. Safe on a partially built App.
func (a *App) Close(ctx context.Context) {
	if a.cron != nil {
		<-a.cron.Stop().Done()
	}
	if a.Mongo != nil {
		if err := a.Mongo.Disconnect(ctx); err != nil {
			logger.Log.Warn("mongo disconnect", zap.Error(err))
		}
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
