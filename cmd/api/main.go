package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/Coldz-21/real-estate-transaction-manager/internal/config"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/database"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/handler"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/middleware"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/repository"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/router"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Redis and NATS are optional: without them the API still works, it just
	// loses the stats cache and cross-node notification fan-out.
	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, continuing without cache")
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, continuing without message bus")
			natsConn = nil
		} else {
			defer natsConn.Close()
		}
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	loopRepo := repository.NewLoopRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	activityService := service.NewActivityService(activityRepo, logger)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, redisClient, cfg.NotificationStream, natsConn, cfg.NotificationSubject, logger)
	authService := service.NewAuthService(userRepo, activityService, validate, cfg.JWTSecret, cfg.TokenTTL, cfg.BcryptCost, logger)
	loopService := service.NewLoopService(loopRepo, activityService, notificationService, validate, redisClient, cfg.StatsCacheTTL, logger)
	adminUserService := service.NewAdminUserService(userRepo, activityService, validate, cfg.BcryptCost, logger)
	settingsService := service.NewSettingsService(userRepo, activityService, validate, logger)
	bootstrapService := service.NewBootstrapService(userRepo, cfg, logger)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	if err := bootstrapService.Run(startupCtx); err != nil {
		cancelStartup()
		log.Fatalf("failed to bootstrap accounts: %v", err)
	}
	cancelStartup()

	consumerCtx, stopConsumers := context.WithCancel(context.Background())
	defer stopConsumers()
	notificationService.Start(consumerCtx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:          handler.NewAuthHandler(authService, logger),
		LoopHandler:          handler.NewLoopHandler(loopService, logger),
		AdminUserHandler:     handler.NewAdminUserHandler(adminUserService, logger),
		AdminActivityHandler: handler.NewAdminActivityHandler(activityService, logger),
		SettingsHandler:      handler.NewSettingsHandler(settingsService, logger),
		NotificationHandler:  handler.NewNotificationHandler(notificationService, logger, 30*time.Second),
		JWTMiddleware:        middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
