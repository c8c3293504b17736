package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	samples     *prometheus.CounterVec
	predictions *prometheus.CounterVec
	filesTotal  *prometheus.CounterVec
	rowsWritten *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	nextPrice   *prometheus.GaugeVec
	latency     *prometheus.HistogramVec
}

// New registers the recorder on the default Prometheus registry. Call it once per process.
func New() *Recorder {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the recorder on reg.
func NewWith(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		samples: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpredict_samples_total",
				Help: "Ten-row windows served per exchange",
			},
			[]string{"exchange"},
		),
		predictions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpredict_predictions_total",
				Help: "Predictions computed per stock",
			},
			[]string{"stock_id"},
		),
		filesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpredict_files_written_total",
				Help: "Combined output files written per exchange",
			},
			[]string{"exchange"},
		),
		rowsWritten: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpredict_rows_written_total",
				Help: "Rows written to combined output files",
			},
			[]string{"exchange"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpredict_errors_total",
				Help: "Errors by kind",
			},
			[]string{"kind"},
		),
		nextPrice: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockpredict_next_price",
				Help: "Most recent next-day prediction per stock",
			},
			[]string{"stock_id"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockpredict_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

func (r *Recorder) RecordSample(exchange string) {
	r.samples.WithLabelValues(exchange).Inc()
}

func (r *Recorder) RecordPrediction(stockID string, next float64) {
	r.predictions.WithLabelValues(stockID).Inc()
	r.nextPrice.WithLabelValues(stockID).Set(next)
}

func (r *Recorder) RecordFileWritten(exchange string, rows int) {
	r.filesTotal.WithLabelValues(exchange).Inc()
	r.rowsWritten.WithLabelValues(exchange).Add(float64(rows))
}

func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// Nop discards every observation.
type Nop struct{}

func (Nop) RecordSample(string)              {}
func (Nop) RecordPrediction(string, float64) {}
func (Nop) RecordFileWritten(string, int)    {}
func (Nop) RecordError(string)               {}
func (Nop) RecordLatency(string, float64)    {}
