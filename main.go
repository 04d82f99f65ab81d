package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carvistors/config"
	"carvistors/cron"
	"carvistors/database"
	"carvistors/database/repository"
	"carvistors/handlers"
	"carvistors/middleware"
	"carvistors/routes"
	"carvistors/services/auth"
	"carvistors/services/contact"
	"carvistors/services/notification"
	"carvistors/services/report"
	"carvistors/services/vin"
	"carvistors/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer func() { _ = logger.Sync() }()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	database.InitDB()
	cacheClient := utils.InitCache()

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()
	utils.StartHealthMonitor(rootCtx, cacheClient, database.MongoClient)

	// repositories.
	repos := repository.NewMongoRepositories()

	// notification subsystem.
	directory := notification.NewRecipientDirectory(repos.Accounts)
	notificationService, err := notification.NewDefaultNotificationService(directory, repos.Notifications, logger)
	if err != nil {
		logger.Fatal("main: failed to build notification service", zap.Error(err))
	}
	broadcaster := notification.NewAdminBroadcaster(repos.Accounts, notificationService, config.AppConfig.BroadcastConcurrency, logger)

	var notifierOpts []notification.NotifierOption
	var worker *asynq.Server
	if config.AppConfig.NotifyAsync {
		queue := asynq.NewClient(cron.RedisOpt())
		defer queue.Close()
		notifierOpts = append(notifierOpts, notification.WithQueue(queue))
		worker = cron.InitNotificationWorker(rootCtx, notificationService, broadcaster, logger)
	}
	notifier := notification.NewNotifier(notificationService, broadcaster, logger, notifierOpts...)

	// domain services.
	authService, err := auth.NewDefaultAuthService(repos.Accounts, notifier, time.Duration(config.AppConfig.TokenTTLHours)*time.Hour, logger)
	if err != nil {
		logger.Fatal("main: failed to build auth service", zap.Error(err))
	}

	var vinCache vin.Cache
	if cacheClient != nil {
		vinCache = vin.NewRedisCache(cacheClient)
	}
	decoder := vin.NewNHTSADecoder(config.AppConfig.NHTSABaseURL, vinCache, time.Duration(config.AppConfig.VINCacheTTLHours)*time.Hour, logger)
	requestService, err := vin.NewDefaultRequestService(repos.VinRequests, decoder, notifier, config.AppConfig.VINRequestPrice, logger)
	if err != nil {
		logger.Fatal("main: failed to build VIN request service", zap.Error(err))
	}
	reportService, err := report.NewDefaultReportService(
		repos.Reports,
		report.NewVehicleDatabasesClient(config.AppConfig.VehicleDBBaseURL, config.AppConfig.VehicleDBAPIKey),
		logger,
	)
	if err != nil {
		logger.Fatal("main: failed to build report service", zap.Error(err))
	}
	if config.AppConfig.VehicleDBAPIKey == "" {
		logger.Warn("main: VEHICLE_DATABASES_API_KEY not set, advanced decode is disabled")
	}
	contactService := contact.NewService(notifier)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(handlers.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	handlerBundle := handlers.NewHandlerBundle(
		handlers.NewHealthHandler(database.MongoClient, cacheClient),
		handlers.NewAuthHandler(authService),
		handlers.NewUserHandler(authService),
		handlers.NewVinHandler(decoder, requestService),
		handlers.NewReportHandler(reportService),
		handlers.NewNotificationHandler(notificationService),
		handlers.NewContactHandler(contactService),
	)
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "3000"
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
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	if worker != nil {
		worker.Shutdown()
	}
	if err := database.Disconnect(ctx); err != nil {
		logger.Sugar().Errorf("main: failed to disconnect MongoDB: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
