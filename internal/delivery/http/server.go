package http

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/maps-proxy/internal/config"
	"github.com/maps-proxy/internal/delivery/http/handler"
	"github.com/maps-proxy/internal/delivery/http/middleware"
	"github.com/maps-proxy/internal/metrics"
	"github.com/maps-proxy/internal/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"
)

// Server - Fiber based HTTP server
type Server struct {
	app      *fiber.App
	config   *config.Config
	logger   *zap.Logger
	gatherer prometheus.Gatherer
	metrics  *metrics.Metrics

	// Handlers
	mapsHandler   *handler.MapsHandler
	systemHandler *handler.SystemHandler
}

// NewServer - create a new HTTP server
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	gatherer prometheus.Gatherer,
	appMetrics *metrics.Metrics,
	mapsHandler *handler.MapsHandler,
	systemHandler *handler.SystemHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName: "Google Maps Proxy API",
		// outbound calls may take the whole provider timeout
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.Maps.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:           app,
		config:        cfg,
		logger:        logger,
		gatherer:      gatherer,
		metrics:       appMetrics,
		mapsHandler:   mapsHandler,
		systemHandler: systemHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Logger(s.logger))
	if s.metrics != nil {
		s.app.Use(middleware.Metrics(s.metrics))
	}
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.CORS(s.config.CORS))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

func (s *Server) setupRoutes() {
	s.app.Get("/", s.systemHandler.Root)
	s.app.Get("/health", s.systemHandler.Health)

	if s.gatherer != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	maps := s.app.Group("/api/maps")
	maps.Get("/search-places", s.mapsHandler.SearchPlaces)
	maps.Get("/place-details", s.mapsHandler.PlaceDetails)
	maps.Get("/geocode", s.mapsHandler.Geocode)
}

// App exposes the underlying Fiber app, mainly for app.Test
func (s *Server) App() *fiber.App {
	return s.app
}

// Start - start listening on the configured address
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - errors that escaped the handlers, including recovered panics
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var appErr *errors.AppError

		var fiberErr *fiber.Error
		switch {
		case stderrors.As(err, &fiberErr):
			code, kind := errors.CodeInternalServer, errors.KindInternal
			if fiberErr.Code < fiber.StatusInternalServerError {
				code, kind = errors.CodeInvalidInput, errors.KindValidation
			}
			if fiberErr.Code == fiber.StatusNotFound {
				code = errors.CodeNotFound
			}
			appErr = errors.New(kind, code, fiberErr.Message)
			appErr.StatusCode = fiberErr.Code
		default:
			appErr = errors.From(err)
		}

		if appErr.StatusCode >= fiber.StatusInternalServerError {
			logger.Error("HTTP Error",
				zap.String("path", c.Path()),
				zap.Int("status", appErr.StatusCode),
				zap.Error(err),
			)
		}

		return c.Status(appErr.StatusCode).JSON(fiber.Map{
			"error": appErr,
		})
	}
}
