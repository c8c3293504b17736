package di

import (
	"fmt"

	drepo "StockPredict/internal/domain/repository"
	"StockPredict/internal/handler/api"
	internalrepo "StockPredict/internal/repository"
	"StockPredict/internal/service/ratelimit"
	"StockPredict/internal/usecase"
	"StockPredict/pkg/config"
	xhttp "StockPredict/pkg/http"
	pkgkafka "StockPredict/pkg/kafka"
	applogger "StockPredict/pkg/logger"
	"StockPredict/pkg/metrics"
	"StockPredict/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() drepo.Metrics {
	return metrics.New()
}

// ProvidePointStore creates the CSV store rooted at the configured directories.
func ProvidePointStore(cfg *config.Config, l *applogger.Logger) drepo.PointStore {
	return internalrepo.NewCSVStore(cfg.Data.InputDir, cfg.Data.OutputDir, l.With(applogger.String("component", "csv_store")))
}

// ProvidePredictionPublisher returns a Kafka publisher, or a no-op one when Kafka is disabled.
func ProvidePredictionPublisher(cfg *config.Config) (drepo.PredictionPublisher, error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NopPublisher{}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithTopic(cfg.Kafka.Topic),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithBatchTimeout(cfg.Kafka.BatchTimeout),
		pkgkafka.WithWriteTimeout(cfg.Kafka.WriteTimeout),
		pkgkafka.WithAsync(cfg.Kafka.Async),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaPublisher(producer), nil
}

// ProvideSampler uses the process-wide random source.
func ProvideSampler(store drepo.PointStore, m drepo.Metrics) *usecase.Sampler {
	return usecase.NewSampler(store, m, nil)
}

func ProvidePredictor(cfg *config.Config, pub drepo.PredictionPublisher, m drepo.Metrics, l *applogger.Logger) *usecase.Predictor {
	return usecase.NewPredictor(pub, m, l.With(applogger.String("component", "predictor")),
		usecase.WithPublishTimeout(cfg.Kafka.PublishTimeout),
	)
}

func ProvideMerger(store drepo.PointStore, m drepo.Metrics) *usecase.Merger {
	return usecase.NewMerger(store, m)
}

// ProvidePricesHandler creates the HTTP handler, with rate limiting when enabled.
func ProvidePricesHandler(
	cfg *config.Config,
	l *applogger.Logger,
	sampler *usecase.Sampler,
	predictor *usecase.Predictor,
	merger *usecase.Merger,
	m drepo.Metrics,
) xhttp.Handler {
	h := api.NewPricesEchoHandler(l.With(applogger.String("component", "api")), sampler, predictor, merger, m)
	if cfg.RateLimit.Enabled {
		h.SetLimiter(ratelimit.New(cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSec))
	}
	return h
}

// ProvideHTTPServer creates the Echo server.
func ProvideHTTPServer(cfg *config.Config, h xhttp.Handler, l *applogger.Logger) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer(h, l,
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithSlowThreshold(cfg.Server.SlowThreshold),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithMetricsPath(metricsPath),
	)
}

// ProvideApp creates the application. The predictor owns the publisher and
// drains pending events before closing it.
func ProvideApp(srv *xhttp.Server, predictor *usecase.Predictor, l *applogger.Logger) *server.App {
	return server.New(srv, predictor, l)
}
