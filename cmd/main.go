package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Favoursimeon/flexirents-sub000/internal/background"
	"github.com/Favoursimeon/flexirents-sub000/internal/config"
	"github.com/Favoursimeon/flexirents-sub000/internal/events"
	"github.com/Favoursimeon/flexirents-sub000/internal/handlers"
	"github.com/Favoursimeon/flexirents-sub000/internal/metrics"
	"github.com/Favoursimeon/flexirents-sub000/internal/middleware"
	"github.com/Favoursimeon/flexirents-sub000/internal/models"
	"github.com/Favoursimeon/flexirents-sub000/internal/repository"
	"github.com/Favoursimeon/flexirents-sub000/internal/services"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logrus.New()
	if cfg.Server.Mode == "release" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	logger.SetLevel(logrus.InfoLevel)

	db, err := initDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if err := autoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Repositories
	propertyRepo := repository.NewPropertyRepository(db)
	leaseRepo := repository.NewLeaseRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	// Event publisher (optional; the engine runs without NATS)
	var publisher *events.Publisher
	if cfg.Events.Enabled && cfg.Events.URL != "" {
		publisher, err = events.NewPublisher(cfg.Events.URL, logger)
		if err != nil {
			logger.WithError(err).Warn("Event publishing disabled, NATS unavailable")
		}
	}

	// Services
	calculator := services.NewPlanCalculator()
	installmentService := services.NewInstallmentService(leaseRepo, paymentRepo, logger)
	checkoutService := services.NewCheckoutService(calculator, leaseRepo, paymentRepo, propertyRepo, logger)
	sweeperService := services.NewSweeperService(leaseRepo, logger)

	var eventSink services.EventPublisher
	if publisher != nil {
		eventSink = publisher
	}
	reviewService := services.NewReviewService(paymentRepo, leaseRepo, propertyRepo, installmentService, eventSink, logger)
	renewalService := services.NewRenewalService(calculator, leaseRepo, paymentRepo, eventSink, logger)

	// Metrics
	engineMetrics := metrics.New()

	// Handlers
	healthHandler := handlers.NewHealthHandler(db)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, engineMetrics)
	reviewHandler := handlers.NewReviewHandler(reviewService, engineMetrics)
	renewalHandler := handlers.NewRenewalHandler(renewalService, engineMetrics)

	// Background lease expiration sweeper
	var runner *background.Runner
	if cfg.Sweeper.Enabled {
		runner = background.NewRunner(sweeperService, cfg.GetSweeperInterval(), logger)
		runner.SetSweepCallback(func(count int64) {
			engineMetrics.LeasesExpiredTotal.Add(float64(count))
		})
		runner.Start()
	}

	router := setupRouter(cfg, logger, engineMetrics, healthHandler, checkoutHandler, reviewHandler, renewalHandler)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Starting lease-engine")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	if runner != nil {
		runner.Stop()
	}
	if publisher != nil {
		publisher.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server exited")
}

func setupRouter(cfg *config.Config, logger *logrus.Logger, m *metrics.Metrics, healthHandler *handlers.HealthHandler, checkoutHandler *handlers.CheckoutHandler, reviewHandler *handlers.ReviewHandler, renewalHandler *handlers.RenewalHandler) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogger(logger))
	router.Use(m.Middleware())
	router.Use(cors.Default())

	// Health endpoints (no auth required)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		// Checkout endpoints
		v1.POST("/checkout/rental", checkoutHandler.CreateRentalCheckout)
		v1.POST("/checkout/sale", checkoutHandler.CreateSaleCheckout)
		v1.POST("/checkout/service", checkoutHandler.CreateServiceCheckout)
		v1.POST("/payments/:id/proof", checkoutHandler.AttachPaymentProof)

		// Renewal endpoints
		v1.GET("/leases/:id/renewal/eligibility", renewalHandler.GetEligibility)
		v1.POST("/leases/:id/renewal", renewalHandler.CreateRenewal)

		// Admin review endpoints (API key required)
		review := v1.Group("/payments")
		review.Use(middleware.APIKeyAuth(cfg.Security.AdminAPIKey))
		{
			review.POST("/:id/approve", reviewHandler.Approve)
			review.POST("/:id/reject", reviewHandler.Reject)
			review.PATCH("/:id", reviewHandler.Edit)
		}
	}

	return router
}

func autoMigrate(db *gorm.DB) error {
	log.Println("Starting database migration...")

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		log.Printf("Warning: Failed to create uuid-ossp extension: %v", err)
	}

	modelsToMigrate := []interface{}{
		&models.Property{},
		&models.Lease{},
		&models.Payment{},
	}

	for _, model := range modelsToMigrate {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	log.Println("Database migration completed successfully")
	return nil
}

func initDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.GetDSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Connected to database successfully")
	return db, nil
}
