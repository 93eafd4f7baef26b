package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"backoffice/internal/config"
	"backoffice/internal/database"
	"backoffice/internal/handlers"
	"backoffice/internal/middleware"
	"backoffice/internal/repositories"
	"backoffice/internal/services"
	"backoffice/pkg/logger"
	"backoffice/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg := config.Load()

	// --- Logger ---
	appLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	// --- Database ---
	db, err := database.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		appLogger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		appLogger.Fatal("failed to migrate database", zap.Error(err))
	}

	// --- RabbitMQ Client ---
	// The order service tolerates a nil client, so a missing broker degrades
	// to no event publishing instead of refusing to start.
	var mqClient *rabbitmq.Client
	mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL})
	if err != nil {
		appLogger.Warn("RabbitMQ unavailable, order events disabled", zap.Error(err))
		mqClient = nil
	} else {
		defer mqClient.Close()
	}

	// --- Repositories ---
	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	clientRepo := repositories.NewGORMClientRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)
	txRunner := repositories.NewGormTxRunner(db)

	// --- Services ---
	productService := services.NewProductService(productRepo)
	clientService := services.NewClientService(clientRepo)
	orderService := services.NewOrderService(txRunner, orderRepo, mqClient, appLogger)
	authService := services.NewAuthService(userRepo, cfg.Auth.JWTSecret)

	// --- Handlers ---
	productHandler := handlers.NewProductHandler(productService, appLogger)
	clientHandler := handlers.NewClientHandler(clientService, appLogger)
	orderHandler := handlers.NewOrderHandler(orderService, appLogger)
	authHandler := handlers.NewAuthHandler(authService, appLogger)

	// --- Fiber App ---
	app := fiber.New()
	app.Use(fiberlogger.New()) // Request logger

	apiV1 := app.Group("/api/v1")

	// Authentication routes (public)
	authHandler.RegisterRoutes(apiV1)

	// Protected routes (require JWT authentication)
	protectedRoutes := apiV1.Group("", middleware.AuthRequired(authService))
	productHandler.RegisterRoutes(protectedRoutes)
	clientHandler.RegisterRoutes(protectedRoutes)
	orderHandler.RegisterRoutes(protectedRoutes)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Order Events Consumer ---
	if mqClient != nil {
		messageHandler := func(msg amqp.Delivery) error {
			appLogger.Info("received order event",
				zap.String("type", msg.Type),
				zap.Uint64("deliveryTag", msg.DeliveryTag),
				zap.ByteString("body", msg.Body))
			return nil // Return nil to acknowledge
		}
		if consumerErr := mqClient.ConsumeOrderEvents(messageHandler); consumerErr != nil {
			appLogger.Warn("failed to start order events consumer", zap.Error(consumerErr))
		}
	}

	// --- Start HTTP Server ---
	appLogger.Info("starting server", zap.String("port", cfg.Server.Port))

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.Server.Port); err != nil {
			appLogger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	<-quit
	appLogger.Info("shutting down server")

	if err := app.Shutdown(); err != nil {
		appLogger.Error("error during shutdown", zap.Error(err))
	}
	appLogger.Info("server gracefully stopped")
}
