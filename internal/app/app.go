package app

import (
	"americano_backend/internal/config"
	"americano_backend/internal/controller"
	"americano_backend/internal/repository"
	"americano_backend/internal/service"
	"americano_backend/pkg/database"
	"americano_backend/pkg/logger"
	"americano_backend/pkg/monitoring"
	"americano_backend/pkg/security"
	"americano_backend/pkg/tracing"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user        *repository.UserRepository
	streak      *repository.StreakRepository
	achievement *repository.AchievementRepository
	goal        *repository.GoalRepository
	mission     *repository.MissionRepository
	analytics   *repository.MissionAnalyticsRepository
	behavioral  *repository.BehavioralRepository
	search      *repository.SearchRepository
}

type services struct {
	auth        *service.AuthService
	user        *service.UserService
	streak      *service.StreakService
	achievement *service.AchievementService
	goal        *service.GoalService
	mission     *service.MissionService
	behavioral  *service.BehavioralService
	search      *service.SearchService
	export      *service.ExportService
}

type controllers struct {
	auth        *controller.AuthController
	user        *controller.UserController
	streak      *controller.StreakController
	achievement *controller.AchievementController
	goal        *controller.GoalController
	mission     *controller.MissionController
	behavioral  *controller.BehavioralController
	search      *controller.SearchController
	health      *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig pushes a freshly reloaded configuration to every subscriber.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config = cfg
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		streak:      repository.NewStreakRepository(db),
		achievement: repository.NewAchievementRepository(db),
		goal:        repository.NewGoalRepository(db),
		mission:     repository.NewMissionRepository(db),
		analytics:   repository.NewMissionAnalyticsRepository(db),
		behavioral:  repository.NewBehavioralRepository(db),
		search:      repository.NewSearchRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) (*services, error) {
	s := &services{}

	export, err := service.NewExportService(
		&cfg.Storage,
		repos.streak,
		repos.achievement,
		repos.goal,
		repos.mission,
		repos.analytics,
		repos.behavioral,
		repos.search,
	)
	if err != nil {
		return nil, err
	}
	s.export = export

	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user, s.export, logger.Log)
	s.streak = service.NewStreakService(repos.streak, repos.achievement, rdb)
	s.achievement = service.NewAchievementService(repos.achievement)
	s.goal = service.NewGoalService(repos.goal, repos.achievement)
	s.mission = service.NewMissionService(repos.mission, repos.analytics, repos.achievement, s.goal)
	s.behavioral = service.NewBehavioralService(repos.behavioral)
	s.search = service.NewSearchService(repos.search, rdb)

	return s, nil
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth),
		user:        controller.NewUserController(s.user),
		streak:      controller.NewStreakController(s.streak),
		achievement: controller.NewAchievementController(s.achievement),
		goal:        controller.NewGoalController(s.goal),
		mission:     controller.NewMissionController(s.mission),
		behavioral:  controller.NewBehavioralController(s.behavioral),
		search:      controller.NewSearchController(s.search),
		health:      controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services, err := app.initServices(repos, cfg, rdb)
	if err != nil {
		logger.Log.Fatal("Failed to initialize services", zap.Error(err))
	}
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	gin.SetMode(ginMode(cfg.Server.Mode))
	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("americano-analytics", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	return app
}

func ginMode(mode string) string {
	if mode == "release" {
		return gin.ReleaseMode
	}
	return gin.DebugMode
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
