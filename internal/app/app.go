package app

import (
	"context"
	"fmt"
	"os"

	"digivera_backend/database"
	"digivera_backend/internal/config"
	"digivera_backend/internal/email"
	"digivera_backend/internal/exposure"
	"digivera_backend/internal/handlers"
	"digivera_backend/internal/logger"
	"digivera_backend/internal/middleware"
	"digivera_backend/internal/repositories"
	"digivera_backend/internal/routes"
	"digivera_backend/internal/services"
	"digivera_backend/internal/validator"
	"digivera_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("logger initialized", "env", cfg.Server.Env)

	stripe.Key = cfg.Stripe.SecretKey

	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("database unavailable", "error", err)
	}
	logger.Info("database connected")

	if err := database.AutoMigrate(); err != nil {
		logger.Fatal("database migration failed", "error", err)
	}

	repos := initializeRepositories(gormDB)
	serviceContainer := initializeServices(cfg, repos)
	appHandlers := initializeHandlers(serviceContainer)

	ginRouter := initializeGinRouter(cfg)
	routes.RegisterRoutes(ginRouter, appHandlers)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	workers.NewAutoScanWorker(repos.Users, serviceContainer.ScanService, serviceContainer.EmailService).Start(ctx)
	workers.NewCleanupWorker(repos.RefreshTokens).Start(ctx)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("server startup error", "error", err)
	}
}

// repositoryContainer holds the single instance of each repository; the
// services and the workers share them.
type repositoryContainer struct {
	Users         repositories.UserRepository
	RefreshTokens repositories.RefreshTokenRepository
	Scans         repositories.ScanRepository
	Alerts        repositories.AlertRepository
	Subscriptions repositories.SubscriptionRepository
}

func initializeRepositories(gormDB *gorm.DB) *repositoryContainer {
	return &repositoryContainer{
		Users:         repositories.NewUserRepository(gormDB),
		RefreshTokens: repositories.NewRefreshTokenRepository(gormDB),
		Scans:         repositories.NewScanRepository(gormDB),
		Alerts:        repositories.NewAlertRepository(gormDB),
		Subscriptions: repositories.NewSubscriptionRepository(gormDB),
	}
}

func initializeServices(cfg *config.Config, repos *repositoryContainer) *services.ServiceContainer {
	var emailService email.Provider
	if os.Getenv("EMAIL_MODE") == "smtp" {
		emailService = email.NewSMTPProvider(&email.SMTPConfig{
			Host:      cfg.Email.SMTPHost,
			Port:      cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
		})
	} else {
		logger.Warn("email delivery disabled, using mock provider")
		emailService = &email.MockProvider{}
	}

	exposureCache := exposure.NewCache(cfg.ExposureCacheTTL())
	exposureLimiter := exposure.NewRateLimiter(cfg.Exposure.RateLimit, cfg.ExposureRateWindow())
	exposureClient := exposure.NewClient(exposure.ClientConfig{
		Token:   cfg.Exposure.GithubToken,
		APIURL:  cfg.Exposure.APIURL,
		Timeout: cfg.ExposureTimeout(),
	}, exposureCache, exposureLimiter, nil)

	return &services.ServiceContainer{
		AuthService:         services.NewAuthService(repos.Users, repos.RefreshTokens, emailService),
		UserService:         services.NewUserService(repos.Users),
		ScanService:         services.NewScanService(repos.Users, repos.Scans, repos.Alerts, exposureClient),
		AlertService:        services.NewAlertService(repos.Alerts),
		SubscriptionService: services.NewSubscriptionService(repos.Subscriptions, repos.Users),
		EmailService:        emailService,
	}
}

func initializeHandlers(serviceContainer *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	return handlers.NewAppHandlers(serviceContainer, customValidator)
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	return router
}
