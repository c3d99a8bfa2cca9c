package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weather-facade/internal/config"
	"github.com/vzahanych/weather-facade/internal/httpclient"
	"github.com/vzahanych/weather-facade/internal/lookup"
	"github.com/vzahanych/weather-facade/internal/server/handlers"
	"github.com/vzahanych/weather-facade/internal/server/middlewares"
	"github.com/vzahanych/weather-facade/pkg/telemetry"
	"go.uber.org/zap"
)

type Server struct {
	engine  *gin.Engine
	server  *http.Server
	holder  *config.Holder
	lookup  *lookup.Lookup
	factory *httpclient.Factory
	logger  *zap.Logger
	tele    *telemetry.Telemetry
}

// NewServer registers the outbound clients and builds the gin engine. The
// returned server owns the client factory and closes it on Shutdown.
func NewServer(holder *config.Holder, logger *zap.Logger, tele *telemetry.Telemetry) (*Server, error) {
	l, factory, err := lookup.NewFromConfig(holder, logger, tele)
	if err != nil {
		return nil, fmt.Errorf("failed to register HTTP clients: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	registry := handlers.NewRegistry()
	metrics := middlewares.NewMetricsMiddleware(registry, logger, tele)

	engine.Use(middlewares.RequestIDMiddleware())
	engine.Use(middlewares.LoggingMiddleware(logger, time.RFC3339, true))
	engine.Use(middlewares.RecoveryMiddleware(logger, true))
	engine.Use(middlewares.TelemetryMiddleware(logger, tele))
	engine.Use(metrics.Handler())

	s := &Server{
		engine:  engine,
		holder:  holder,
		lookup:  l,
		factory: factory,
		logger:  logger,
		tele:    tele,
	}

	cfg := holder.Current().Server
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
	}

	metricsHandler := handlers.NewMetricsHandler(registry, logger)
	l.SetMetricsRecorder(metricsHandler)

	s.setupRoutes(metricsHandler)

	return s, nil
}

func (s *Server) setupRoutes(metricsHandler *handlers.MetricsHandler) {
	weather := handlers.NewWeatherHandler(s.lookup, s.logger)

	// Business endpoints
	forecast := s.engine.Group("/WeatherForecast")
	forecast.GET("/GetFromSimpleClient", weather.GetFromSimpleClient)
	forecast.GET("/GetFromNamedClient", weather.GetFromNamedClient)
	forecast.GET("/GetFromTypedClient", weather.GetFromTypedClient)

	// Health endpoints (Kubernetes friendly)
	health := handlers.NewHealthHandler(s.holder, s.logger)
	s.engine.GET("/health", health.Health)
	s.engine.GET("/health/live", health.Liveness)
	s.engine.GET("/health/ready", health.Readiness)

	// Monitoring endpoints
	s.engine.GET("/metrics", metricsHandler.ServeMetrics())
}

// Handler exposes the engine, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Start() error {
	s.logger.Info("Starting server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	defer s.factory.Close()

	return s.server.Shutdown(ctx)
}
