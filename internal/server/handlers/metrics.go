package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRegistry returns a registry with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// MetricsHandler counts lookups per retrieval path and serves the registry.
type MetricsHandler struct {
	logger   *zap.Logger
	gatherer prometheus.Gatherer
	lookups  *prometheus.CounterVec
	errors   *prometheus.CounterVec
}

func NewMetricsHandler(reg *prometheus.Registry, logger *zap.Logger) *MetricsHandler {
	factory := promauto.With(reg)

	return &MetricsHandler{
		logger:   logger,
		gatherer: reg,
		lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "weather_lookups_total",
			Help: "Total weather lookups by retrieval path",
		}, []string{"path"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "weather_lookup_errors_total",
			Help: "Total failed weather lookups by retrieval path",
		}, []string{"path"}),
	}
}

// RecordLookup records one lookup over the given path.
func (h *MetricsHandler) RecordLookup(ctx context.Context, path string, success bool) {
	h.lookups.WithLabelValues(path).Inc()
	if !success {
		h.errors.WithLabelValues(path).Inc()
	}
}

// ServeMetrics exposes the registry in Prometheus text format.
func (h *MetricsHandler) ServeMetrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{
		ErrorLog: zap.NewStdLog(h.logger),
	}))
}
