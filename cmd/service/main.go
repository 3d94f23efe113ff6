package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"willitrain-service/internal/config"
	"willitrain-service/internal/forecast"
	"willitrain-service/internal/health"
	httphandler "willitrain-service/internal/http"
	"willitrain-service/internal/observability"
	"willitrain-service/internal/service"
)

func main() {
	// Optional .env for local runs; real deployments set the environment.
	_ = godotenv.Load()

	logger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	forecastClient := forecast.NewOpenMeteoClient(cfg.ForecastAPIURL, cfg.ForecastAPITimeout)
	rainService := service.NewRainService(forecastClient)

	healthConfig := &httphandler.HealthConfig{
		ErrorWindow:  cfg.HealthErrorWindow,
		ErrorRatePct: cfg.HealthErrorRatePct,
	}
	handler := httphandler.NewHandler(rainService, healthConfig, logger)

	router := mux.NewRouter()
	router.Use(httphandler.CorrelationIDMiddleware(logger))
	router.Use(httphandler.MetricsMiddleware)
	router.HandleFunc("/health", handler.GetHealth).Methods("GET")
	router.Handle("/metrics", observability.MetricsHandler())
	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(httphandler.TimeoutMiddleware(cfg.RequestTimeout))
	apiRouter.HandleFunc("/weather", handler.GetWeather).Methods("GET")
	apiRouter.HandleFunc("/willitrain", handler.GetWillItRain).Methods("GET")

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", ":"+cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	<-ctx.Done()
	stop()

	logger.Info("graceful shutdown triggered")
	health.SetShuttingDown(true)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
