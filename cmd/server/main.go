package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shravastee-thakur/stayease/internal/application"
	"github.com/shravastee-thakur/stayease/internal/auth"
	"github.com/shravastee-thakur/stayease/internal/cache"
	"github.com/shravastee-thakur/stayease/internal/config"
	"github.com/shravastee-thakur/stayease/internal/database"
	bookingEvents "github.com/shravastee-thakur/stayease/internal/events"
	"github.com/shravastee-thakur/stayease/internal/handler"
	"github.com/shravastee-thakur/stayease/internal/health"
	"github.com/shravastee-thakur/stayease/internal/logger"
	"github.com/shravastee-thakur/stayease/internal/middleware"
	"github.com/shravastee-thakur/stayease/internal/payment"
	"github.com/shravastee-thakur/stayease/internal/repository"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "stayease-booking")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting stayease booking backend",
		zap.String("port", cfg.Port),
	)

	// Connect to database
	dbConfig := database.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DBName:   cfg.DB.DBName,
		SSLMode:  cfg.DB.SSLMode,
	}
	db, err := database.Connect(dbConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(
			&repository.HotelModel{},
			&repository.RoomModel{},
			&repository.BookingModel{},
		); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(dbConfig.DatabaseURL(), "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, 15*time.Minute)

	// Initialize Kafka producer
	kafkaProducer := bookingEvents.NewProducer(cfg.Kafka.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Initialize Redis catalog cache. The cache is optional; a failed
	// connection degrades reads to the database.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var catalogCache *cache.Cache
	catalogCache, err = cache.New(ctx, cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TTL:      time.Duration(cfg.Redis.CatalogTTLSecs) * time.Second,
	}, log)
	if err != nil {
		log.Warn("redis unavailable, catalog cache disabled", zap.Error(err))
		catalogCache = nil
	} else {
		defer func() { _ = catalogCache.Close() }()
	}

	// Initialize repositories
	bookingRepo := repository.NewGormBookingRepository(db)
	hotelRepo := repository.NewGormHotelRepository(db)
	roomRepo := repository.NewGormRoomRepository(db)

	// Initialize application services
	bookingService := application.NewBookingService(bookingRepo, hotelRepo, roomRepo, kafkaProducer, log)
	catalogService := application.NewCatalogService(hotelRepo, roomRepo, catalogCache, log)
	paymentProvider := payment.NewClient(payment.ClientConfig{
		BaseURL:    cfg.Payment.ProviderURL,
		APIKey:     cfg.Payment.APIKey,
		SuccessURL: cfg.Payment.SuccessURL,
		CancelURL:  cfg.Payment.CancelURL,
	})
	paymentService := application.NewPaymentService(bookingRepo, paymentProvider, log)

	// Start payment event consumer in a goroutine
	groupID := cfg.Kafka.GroupPrefix + "booking-service"
	paymentConsumer := bookingEvents.NewPaymentEventConsumer(
		cfg.Kafka.Brokers,
		groupID,
		cfg.Kafka.PaymentTopic,
		bookingService,
		log,
	)
	defer func() { _ = paymentConsumer.Close() }()

	go func() {
		log.Info("starting payment event consumer")
		if err := paymentConsumer.Start(ctx); err != nil && err != context.Canceled {
			log.Error("payment event consumer error", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	bookingHandler := handler.NewBookingHandler(bookingService)
	hotelHandler := handler.NewHotelHandler(catalogService)
	roomHandler := handler.NewRoomHandler(catalogService)
	paymentHandler := handler.NewPaymentHandler(paymentService, bookingService, cfg.Payment.WebhookSecret)
	adminBookingHandler := handler.NewAdminBookingHandler(bookingService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(db, "stayease-booking")
	healthHandler.RegisterRoutes(router)

	// Register routes
	bookingHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	hotelHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	roomHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	paymentHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	adminBookingHandler.RegisterRoutes(&router.RouterGroup, jwtManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("stayease booking backend stopped")
}
