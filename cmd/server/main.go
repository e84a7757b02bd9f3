package main

import (
	"context"
	"crypto/tls"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/mesikahq/clinic-desk/internal/api"
	"github.com/mesikahq/clinic-desk/internal/app"
	"github.com/mesikahq/clinic-desk/internal/config"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return 1
	}

	logger, err := app.NewLogger(cfg.Log.Level)
	if err != nil {
		log.Printf("Failed to initialize logger: %v", err)
		return 1
	}
	defer logger.Sync()

	gin.SetMode(cfg.Server.Mode)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout+5*time.Second)
	clinic, err := app.New(ctx, cfg, logger)
	cancel()
	if err != nil {
		logger.Error("Failed to initialize services", zap.Error(err))
		return 1
	}
	defer clinic.Close(context.Background())

	handler := api.NewHandler(
		clinic.Auth,
		clinic.Patients,
		clinic.Appointments,
		clinic.Reports,
		clinic.Audit,
		clinic.Exporter,
		logger,
	)

	router := api.NewRouter(handler, clinic.Auth, api.RouterConfig{
		Timeout:   cfg.Server.Timeout,
		RateLimit: rate.Limit(cfg.Server.RateLimit.RPS),
		RateBurst: cfg.Server.RateLimit.Burst,
	})
	engine := router.SetupRouter(logger)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		TLSConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server", zap.String("addr", srv.Addr), zap.String("store", cfg.Store.Driver))
		var err error
		if cfg.Server.TLS.Enabled {
			err = srv.ListenAndServeTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
		logger.Info("Shutting down server")
	case err := <-serveErr:
		logger.Error("Failed to start server", zap.Error(err))
		return 1
	}

	// Give in-flight requests 5 seconds to finish.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
	return 0
}
