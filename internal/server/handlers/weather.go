package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weather-facade/internal/config"
	"github.com/vzahanych/weather-facade/internal/httpclient"
	"github.com/vzahanych/weather-facade/internal/lookup"
	"github.com/vzahanych/weather-facade/internal/service"
	"github.com/vzahanych/weather-facade/internal/server/utils"
	"go.uber.org/zap"
)

type WeatherHandler struct {
	lookup *lookup.Lookup
	logger *zap.Logger
}

func NewWeatherHandler(l *lookup.Lookup, logger *zap.Logger) *WeatherHandler {
	return &WeatherHandler{
		lookup: l,
		logger: logger,
	}
}

func (h *WeatherHandler) GetFromSimpleClient(c *gin.Context) {
	h.serve(c, lookup.PathSimple)
}

func (h *WeatherHandler) GetFromNamedClient(c *gin.Context) {
	h.serve(c, lookup.PathNamed)
}

func (h *WeatherHandler) GetFromTypedClient(c *gin.Context) {
	h.serve(c, lookup.PathTyped)
}

// serve answers with the provider body encoded as a JSON string, whatever
// status the provider replied with.
func (h *WeatherHandler) serve(c *gin.Context, path lookup.Path) {
	ctx := utils.GetContextFromGinContext(c)
	requestID := utils.GetRequestIDFromGinContext(c)

	reqLogger := h.logger.With(
		zap.String("request_id", requestID),
		zap.String("path", string(path)))

	var req WeatherRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		reqLogger.Warn("Invalid request parameters", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request parameters",
			Code:    "INVALID_PARAMS",
			Details: err.Error(),
		})
		return
	}

	if fields := utils.ValidateStruct(req); len(fields) > 0 {
		reqLogger.Warn("Request validation failed", zap.Any("fields", fields))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:  "Invalid request parameters",
			Code:   "INVALID_PARAMS",
			Fields: fields,
		})
		return
	}

	reqLogger.Info("Processing weather request", zap.String("city", req.CityName))

	data, err := h.lookup.Get(ctx, path, req.CityName)
	if err != nil {
		status, code := classifyError(err)
		reqLogger.Error("Failed to get weather data",
			zap.Int("status", status),
			zap.Error(err))
		_ = c.Error(err)
		c.JSON(status, ErrorResponse{
			Error:   "Failed to fetch weather data",
			Code:    code,
			Details: err.Error(),
		})
		return
	}

	reqLogger.Info("Weather request completed successfully", zap.Int("bytes", len(data)))

	c.JSON(http.StatusOK, data)
}

func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrEmptyCity):
		return http.StatusBadRequest, "INVALID_PARAMS"
	case errors.Is(err, config.ErrMissingConfiguration):
		return http.StatusInternalServerError, "CONFIG_ERROR"
	case errors.Is(err, httpclient.ErrUnknownClient):
		return http.StatusInternalServerError, "CLIENT_ERROR"
	case errors.Is(err, httpclient.ErrTransport):
		return http.StatusBadGateway, "TRANSPORT_ERROR"
	default:
		return http.StatusInternalServerError, "LOOKUP_ERROR"
	}
}
