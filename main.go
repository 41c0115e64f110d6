package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"b2b-catalog/config"
	"b2b-catalog/controllers"
	"b2b-catalog/logger"
	"b2b-catalog/payment"
	"b2b-catalog/repository"
	"b2b-catalog/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/robfig/cron"
)

func main() {
	// Load configuration from config/config.yml, .env and CATALOG_* variables
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(&logger.LogConfig{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		Path:       cfg.Log.Path,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	appLog := logger.GetAppLogger()

	ctx := context.Background()

	// Storage: memory, mysql (gorm) or mongodb
	store, closeStore, err := repository.OpenStateStore(ctx, cfg)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to open state store")
	}
	defer closeStore()
	appLog.WithField("driver", cfg.Storage.Driver).Info("State store ready")

	userRepo, err := repository.NewUserRepository(ctx, store)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to load users")
	}
	catalogRepo, err := repository.NewCatalogRepository(ctx, store)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to load catalog")
	}
	orderRepo, err := repository.NewOrderRepository(ctx, store)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to load orders")
	}
	checkoutRepo, err := repository.NewCheckoutRepository(ctx, store)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to load checkouts")
	}

	// Notifications go through Kafka when enabled, otherwise to the log
	notifier := services.NewLogNotifier()
	if cfg.Kafka.Enabled {
		kafkaSvc, err := services.NewKafkaService(cfg.Kafka.Brokers)
		if err != nil {
			appLog.WithError(err).Fatal("Failed to initialize Kafka service")
		}
		defer kafkaSvc.Close()
		notifier = services.NewKafkaNotifier(kafkaSvc, cfg.Kafka.QuoteTopic, cfg.Kafka.StatusTopic)
	}

	paytr := payment.NewPayTRClient(payment.Config{
		MerchantID:     cfg.Payment.MerchantID,
		MerchantKey:    cfg.Payment.MerchantKey,
		MerchantSalt:   cfg.Payment.MerchantSalt,
		TokenURL:       cfg.Payment.TokenURL,
		IframeURL:      cfg.Payment.IframeURL,
		OkURL:          cfg.Payment.OkURL,
		FailURL:        cfg.Payment.FailURL,
		Currency:       cfg.Payment.Currency,
		TestMode:       cfg.Payment.TestMode,
		MaxInstallment: cfg.Payment.MaxInstallment,
		TimeoutLimit:   cfg.Payment.TimeoutLimit,
		RequestTimeout: cfg.Payment.RequestTimeout,
	})

	// Service layer
	tokens := services.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	userSvc := services.NewUserService(userRepo)
	catalogSvc := services.NewCatalogService(catalogRepo)
	selectionSvc := services.NewSelectionService(func(id string) error {
		_, err := catalogSvc.GetProduct(context.Background(), id)
		return err
	})
	orderSvc := services.NewOrderService(orderRepo, notifier)
	quoteSvc := services.NewQuoteService(userRepo, catalogRepo, checkoutRepo, selectionSvc, orderSvc, paytr, cfg.Checkout.ExpireAfter)

	// Abandoned payment pages are expired in the background
	sweeper := cron.New()
	if err := sweeper.AddFunc(cfg.Checkout.SweepSchedule, func() {
		if _, err := quoteSvc.ExpireStaleCheckouts(context.Background(), time.Now()); err != nil {
			appLog.WithError(err).Error("Checkout sweep failed")
		}
	}); err != nil {
		appLog.WithError(err).Fatal("Invalid checkout sweep schedule")
	}
	sweeper.Start()
	defer sweeper.Stop()

	app := fiber.New(fiber.Config{
		AppName:      "b2b-catalog",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		BodyLimit:    10 * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: strings.Join([]string{
			fiber.MethodGet, fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch, fiber.MethodDelete,
		}, ","),
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.Server.RateLimitMax,
		Expiration: time.Duration(cfg.Server.RateLimitSecs) * time.Second,
	}))

	controllers.SetupRoutes(app, tokens, userSvc, controllers.Controllers{
		Auth:    controllers.NewAuthController(userSvc, tokens),
		Catalog: controllers.NewCatalogController(catalogSvc, userSvc),
		Cart:    controllers.NewCartController(selectionSvc),
		Quote:   controllers.NewQuoteController(quoteSvc, paytr),
		Order:   controllers.NewOrderController(orderSvc, userSvc, catalogSvc),
		User:    controllers.NewUserController(userSvc),
		Export:  controllers.NewExportController(catalogSvc),
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		appLog.Info("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			appLog.WithError(err).Error("Server shutdown failed")
		}
	}()

	appLog.WithField("address", cfg.Server.Address).Info("Server is starting")
	if err := app.Listen(cfg.Server.Address); err != nil {
		appLog.WithError(err).Error("Server stopped")
	}
}
