package main

// @title Google Maps Proxy API
// @version 1.0.0
// @description Relay for Google Maps Places Autocomplete, Place Details and Geocoding.
// @description The API key stays on the server; clients only see the provider responses.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/maps-proxy/docs/swagger"
	"github.com/maps-proxy/internal/config"
	httpDelivery "github.com/maps-proxy/internal/delivery/http"
	"github.com/maps-proxy/internal/delivery/http/handler"
	"github.com/maps-proxy/internal/infrastructure/googlemaps"
	"github.com/maps-proxy/internal/metrics"
	"github.com/maps-proxy/internal/pkg/logger"
	"github.com/maps-proxy/internal/usecase"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Google Maps Proxy API")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("maps_base_url", cfg.Maps.BaseURL),
		zap.Duration("maps_timeout", cfg.Maps.RequestTimeout),
		zap.Strings("cors_origins", cfg.CORS.AllowedOrigins),
	)

	// 3. Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	// 4. Provider client and use case
	mapsRepo := googlemaps.NewClient(&cfg.Maps, appMetrics, log)
	mapsUC := usecase.NewMapsUseCase(mapsRepo, &cfg.Maps, log)

	// 5. HTTP server
	server := httpDelivery.NewServer(
		cfg,
		log,
		reg,
		appMetrics,
		handler.NewMapsHandler(mapsUC, log),
		handler.NewSystemHandler(),
	)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 6. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
