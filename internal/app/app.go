package app

import (
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

	"github.com/kachaniabdellah86/ficam-festival-app/internal/config"
	"github.com/kachaniabdellah86/ficam-festival-app/internal/controller"
	"github.com/kachaniabdellah86/ficam-festival-app/internal/repository"
	"github.com/kachaniabdellah86/ficam-festival-app/internal/service"
	"github.com/kachaniabdellah86/ficam-festival-app/pkg/database"
	"github.com/kachaniabdellah86/ficam-festival-app/pkg/logger"
	"github.com/kachaniabdellah86/ficam-festival-app/pkg/monitoring"
	"github.com/kachaniabdellah86/ficam-festival-app/pkg/security"
	"github.com/kachaniabdellah86/ficam-festival-app/pkg/tracing"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

type repositories struct {
	user       *repository.UserRepository
	activity   *repository.ActivityRepository
	completion *repository.CompletionRepository
}

type services struct {
	auth       *service.AuthService
	user       *service.UserService
	catalog    *service.CatalogService
	validation *service.ValidationService
	progress   *service.ProgressService
	admin      *service.AdminService
	events     *service.EventService
	storage    *service.StorageService
}

type controllers struct {
	auth     *controller.AuthController
	scan     *controller.ScanController
	progress *controller.ProgressController
	activity *controller.ActivityController
	admin    *controller.AdminController
	user     *controller.UserController
	health   *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		activity:   repository.NewActivityRepository(db),
		completion: repository.NewCompletionRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.catalog = service.NewCatalogService(repos.activity)
	s.events = service.NewEventService(rdb)
	s.validation = service.NewValidationService(repos.activity, repos.completion, s.events)
	s.progress = service.NewProgressService(repos.activity, repos.completion, cfg.Certificate)
	s.admin = service.NewAdminService(repos.user, repos.activity, repos.completion)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth, s.user),
		scan:     controller.NewScanController(s.validation),
		progress: controller.NewProgressController(s.progress, s.user),
		activity: controller.NewActivityController(s.catalog),
		admin:    controller.NewAdminController(s.admin, s.user, s.validation),
		user:     controller.NewUserController(s.user, s.storage),
		health:   controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 600
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

// ApplyConfig picks up a reloaded config. Only the certificate rule is hot;
// everything else needs a restart.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.services.progress.UpdateCertificateRule(cfg.Certificate)
	logger.Log.Info("Certificate rule reloaded",
		zap.Bool("require_all_mandatory", cfg.Certificate.RequireAllMandatory),
		zap.Int("min_completions", cfg.Certificate.MinCompletions),
	)
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
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
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("ficam-festival", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
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
