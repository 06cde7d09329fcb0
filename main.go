// File: staybook/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"staybook/config"
	"staybook/cron"
	"staybook/database"
	bookingRepoPkg "staybook/database/repository/booking"
	catalogRepoPkg "staybook/database/repository/catalog"
	cellRepoPkg "staybook/database/repository/inventory"
	orderRepoPkg "staybook/database/repository/order"
	paymentRepoPkg "staybook/database/repository/payment"
	"staybook/handlers"
	"staybook/middleware"
	"staybook/routes"
	"staybook/services/gateway"
	"staybook/services/inventory"
	"staybook/services/order"
	"staybook/services/settlement"
	"staybook/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	client, err := database.Connect(config.AppConfig.DatabaseURL)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to connect to MongoDB: %v", err)
	}
	db := client.Database(config.AppConfig.DatabaseName)
	utils.InitSettlementCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	cellRepo := cellRepoPkg.NewMongoCellRepo(db)
	orderRepo := orderRepoPkg.NewMongoOrderRepo(db)
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo(db)
	paymentRepo := paymentRepoPkg.NewMongoPaymentRepo(db)
	catalogRepo := catalogRepoPkg.NewMongoCatalogRepo(db)

	for name, ensure := range map[string]func() error{
		"cells":    cellRepo.EnsureIndexes,
		"orders":   orderRepo.EnsureIndexes,
		"bookings": bookingRepo.EnsureIndexes,
		"payments": paymentRepo.EnsureIndexes,
	} {
		if err := ensure(); err != nil {
			logger.Sugar().Fatalf("main: failed to ensure %s indexes: %v", name, err)
		}
	}

	// services.
	txRunner := database.NewTxRunner(client)
	clock := utils.SystemClock()
	lease := time.Duration(config.AppConfig.HoldLeaseMin) * time.Minute

	holdManager := &inventory.DefaultHoldManager{
		Repo:   cellRepo,
		Clock:  clock,
		Logger: logger,
		Lease:  lease,
	}
	gatewayAdapter := gateway.NewRazorpayAdapter(
		config.AppConfig.GatewayKeyID,
		config.AppConfig.GatewayKeySecret,
	)
	ledgerService := &order.DefaultLedgerService{
		Orders:  orderRepo,
		Catalog: catalogRepo,
		Holds:   holdManager,
		Gateway: gatewayAdapter,
		Tx:      txRunner,
		Clock:   clock,
		Logger:  logger,
		Lease:   lease,
	}
	settlementEngine := settlement.NewEngine(
		orderRepo,
		bookingRepo,
		paymentRepo,
		catalogRepo,
		holdManager,
		gatewayAdapter,
		txRunner,
		clock,
		logger,
		utils.GetSettlementCacheClient(),
	)

	checkoutHandler := handlers.NewCheckoutHandler(ledgerService, settlementEngine, logger)
	healthHandler := &handlers.HealthHandler{Mongo: client, Redis: utils.GetSettlementCacheClient()}

	// Register routes.
	routes.RegisterRoutes(router, checkoutHandler, healthHandler)

	// Background reclamation of abandoned holds.
	cron.InitHoldSweeper(&cron.Sweeper{
		Orders: orderRepo,
		Holds:  holdManager,
		Tx:     txRunner,
		Clock:  clock,
		Logger: logger,
	}, config.AppConfig.SweepIntervalMin)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}
	if err := client.Disconnect(ctx); err != nil {
		logger.Sugar().Warnf("main: mongo disconnect: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
