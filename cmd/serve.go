package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"healthcart/config"
	"healthcart/cron"
	"healthcart/database"
	"healthcart/handlers"
	"healthcart/middleware"
	"healthcart/routes"
	"healthcart/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	logger := utils.GetLogger()
	defer connect()()
	utils.InitAuthCache()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := bootstrap()
	utils.StartHealthMonitor(ctx, utils.GetAuthCacheClient(), database.MongoClient)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	routes.RegisterRoutes(router, &handlers.HandlerBundle{
		UserRepo:  a.Users,
		Booking:   handlers.NewBookingHandler(a.Booking),
		Collector: handlers.NewCollectorHandler(a.Collector),
		Order:     handlers.NewOrderHandler(a.Order),
		Admin:     handlers.NewAdminHandler(a.Reconciler, cron.EnqueueReconcile),
	})

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", zap.String("addr", srv.Addr),
			zap.Bool("transactions", config.AppConfig.MongoTransactions))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
	}
	logger.Info("server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("server stopped gracefully")
	return nil
}
