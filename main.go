// File: schedulify/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"schedulify/config"
	"schedulify/database"
	flowRepo "schedulify/database/repository/authflow"
	hostRepo "schedulify/database/repository/host"
	"schedulify/handlers"
	"schedulify/middleware"
	"schedulify/routes"
	"schedulify/services/booking"
	"schedulify/services/calendar"
	"schedulify/services/identity"
	"schedulify/services/notification"
	"schedulify/services/scheduling"
	"schedulify/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitSessionStore()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	hosts := hostRepo.NewMongoHostRepo()
	flows := flowRepo.NewMongoFlowRepo()

	// external calendar transport.
	graphClient := calendar.NewGraphClient()

	// services.
	identityProvider := identity.NewDefaultProvider(hosts, flows)
	reader := scheduling.NewReader(graphClient)
	guard := scheduling.NewGuard(graphClient)
	schedulingService := scheduling.NewDefaultSchedulingService(identityProvider, reader)
	notificationService := notification.NewDefaultNotificationService(graphClient)
	bookingService := booking.NewDefaultService(identityProvider, guard, graphClient, notificationService)

	// handlers.
	authHandler := handlers.NewAuthHandler(identityProvider)
	hostHandler := handlers.NewHostHandler(hosts, identityProvider)
	bookingHandler := handlers.NewBookingHandler(hosts, schedulingService, bookingService)

	// Register routes.
	routes.RegisterRoutes(router, authHandler, hostHandler, bookingHandler, hosts)

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

	logger.Sugar().Info("main: server stopped gracefully")
}
