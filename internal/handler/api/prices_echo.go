package api

import (
	"errors"
	"net/http"
	"strings"

	models "StockPredict/internal/domain/models"
	drepo "StockPredict/internal/domain/repository"
	"StockPredict/internal/service/ratelimit"
	"StockPredict/internal/usecase"
	xhttp "StockPredict/pkg/http"
	xlogger "StockPredict/pkg/logger"

	"github.com/labstack/echo/v4"
)

// PricesEchoHandler serves sampling, prediction and merge endpoints.
type PricesEchoHandler struct {
	logger    *xlogger.Logger
	sampler   *usecase.Sampler
	predictor *usecase.Predictor
	merger    *usecase.Merger
	metrics   drepo.Metrics
	limiter   *ratelimit.Limiter
}

func NewPricesEchoHandler(
	logger *xlogger.Logger,
	sampler *usecase.Sampler,
	predictor *usecase.Predictor,
	merger *usecase.Merger,
	metrics drepo.Metrics,
) *PricesEchoHandler {
	return &PricesEchoHandler{
		logger:    logger,
		sampler:   sampler,
		predictor: predictor,
		merger:    merger,
		metrics:   metrics,
	}
}

// SetLimiter enables per-client rate limiting on the POST routes.
func (h *PricesEchoHandler) SetLimiter(l *ratelimit.Limiter) { h.limiter = l }

func (h *PricesEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)

	var mw []echo.MiddlewareFunc
	if h.limiter != nil {
		mw = append(mw, h.rateLimit)
	}
	// Clients call the routes with a trailing slash; accept both forms.
	for _, prefix := range []string{"", "/"} {
		e.POST("/get_data_points"+prefix, h.GetDataPoints, mw...)
		e.POST("/predict_stock_prices"+prefix, h.PredictStockPrices, mw...)
		e.POST("/process_file"+prefix, h.ProcessFile, mw...)
	}
}

func (h *PricesEchoHandler) Health(c echo.Context) error {
	return xhttp.RawResponse(c, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *PricesEchoHandler) GetDataPoints(c echo.Context) error {
	req := &models.FileRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		h.metrics.RecordError("bad_request")
		return xhttp.BadRequestResponse(c, verr)
	}

	points, err := h.sampler.Sample(c.Request().Context(), req.ExchangeName, req.FileName)
	if err != nil {
		return h.fail(c, "get_data_points", err)
	}
	return xhttp.RawResponse(c, http.StatusOK, points)
}

func (h *PricesEchoHandler) PredictStockPrices(c echo.Context) error {
	req := &models.PredictionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		h.metrics.RecordError("bad_request")
		return xhttp.BadRequestResponse(c, verr)
	}

	preds, err := h.predictor.Predict(c.Request().Context(), req.StockID, req.DataPoints)
	if err != nil {
		return h.fail(c, "predict_stock_prices", err)
	}
	return xhttp.RawResponse(c, http.StatusOK, preds)
}

func (h *PricesEchoHandler) ProcessFile(c echo.Context) error {
	req := &models.FileProcessingRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		h.metrics.RecordError("bad_request")
		return xhttp.BadRequestResponse(c, verr)
	}

	msg, path, err := h.merger.Merge(c.Request().Context(), req.ExchangeName, req.DataPoints, req.PredictedDataPoints)
	if err != nil {
		return h.fail(c, "process_file", err)
	}
	return xhttp.RawResponse(c, http.StatusOK, models.ProcessFileResponse{Message: msg, OutputFile: path})
}

// fail maps domain errors onto HTTP errors.
func (h *PricesEchoHandler) fail(c echo.Context, op string, err error) error {
	var appErr *xhttp.AppError
	switch {
	case errors.Is(err, models.ErrNotFound):
		h.metrics.RecordError("not_found")
		appErr = xhttp.NotFoundError("File not found")
	case errors.Is(err, models.ErrInvalidInput):
		h.metrics.RecordError("invalid_input")
		appErr = xhttp.BadRequestError(err.Error())
	default:
		h.metrics.RecordError("io")
		appErr = xhttp.InternalError("Failed to process request")
	}
	h.logger.Warn(op+" failed",
		xlogger.Int("status", appErr.Status),
		xlogger.Error(err),
	)
	return xhttp.AppErrorResponse(c, appErr.WithError(err))
}

func (h *PricesEchoHandler) rateLimit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		// Both slash forms of a route share one bucket.
		route := strings.TrimSuffix(c.Path(), "/")
		if !h.limiter.Allow(c.RealIP() + ":" + route) {
			h.metrics.RecordError("rate_limited")
			return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("rate limited"))
		}
		return next(c)
	}
}
