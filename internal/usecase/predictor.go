package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"StockPredict/internal/domain/models"
	drepo "StockPredict/internal/domain/repository"
	applogger "StockPredict/pkg/logger"
	xutil "StockPredict/pkg/util"
)

// Horizon is the number of future days predicted.
const Horizon = 3

// PredictNext derives Horizon future points from exactly WindowSize observations.
//
//	n1 = second largest price (duplicates count)
//	n2 = n1 - (n1 - last)/2
//	n3 = n2 - (n2 - n1)/4
//
// Dates are the Horizon calendar days after the last observation.
func PredictNext(stockID string, points []models.DataPoint) ([]models.DataPoint, error) {
	if len(points) != WindowSize {
		return nil, fmt.Errorf("exactly %d data points are required, got %d: %w", WindowSize, len(points), models.ErrInvalidInput)
	}

	prices := make([]float64, len(points))
	for i, p := range points {
		prices[i] = p.StockPrice
	}
	last := prices[len(prices)-1]

	sorted := append([]float64(nil), prices...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	n1 := sorted[1]
	n2 := n1 - (n1-last)/2
	n3 := n2 - (n2-n1)/4

	days, err := xutil.NextDays(points[len(points)-1].Timestamp, Horizon)
	if err != nil {
		return nil, fmt.Errorf("last timestamp: %v: %w", err, models.ErrInvalidInput)
	}

	values := [Horizon]float64{n1, n2, n3}
	out := make([]models.DataPoint, Horizon)
	for i := range out {
		out[i] = models.DataPoint{StockID: stockID, Timestamp: days[i], StockPrice: values[i]}
	}
	return out, nil
}

// DefaultPublishTimeout bounds a single background publish.
const DefaultPublishTimeout = 5 * time.Second

// PredictorOption configures Predictor.
type PredictorOption func(*Predictor)

// WithPublishTimeout bounds each background publish; non-positive keeps the default.
func WithPublishTimeout(d time.Duration) PredictorOption {
	return func(p *Predictor) {
		if d > 0 {
			p.publishTimeout = d
		}
	}
}

// Predictor wraps PredictNext with metrics and downstream publication.
// Events are published in the background; Close drains them.
type Predictor struct {
	pub            drepo.PredictionPublisher
	metrics        drepo.Metrics
	l              *applogger.Logger
	publishTimeout time.Duration

	wg sync.WaitGroup
}

func NewPredictor(pub drepo.PredictionPublisher, metrics drepo.Metrics, l *applogger.Logger, opts ...PredictorOption) *Predictor {
	if l == nil {
		l = applogger.Nop()
	}
	p := &Predictor{pub: pub, metrics: metrics, l: l, publishTimeout: DefaultPublishTimeout}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Predict computes the forecast and schedules its publication. Publication
// failures are logged and counted, never returned.
func (p *Predictor) Predict(ctx context.Context, stockID string, points []models.DataPoint) ([]models.DataPoint, error) {
	start := time.Now()
	defer func() { p.metrics.RecordLatency("predict", time.Since(start).Seconds()) }()

	out, err := PredictNext(stockID, points)
	if err != nil {
		return nil, err
	}
	p.metrics.RecordPrediction(stockID, out[0].StockPrice)

	ev := &models.PredictionEvent{
		StockID:      stockID,
		ObservedLast: points[len(points)-1],
		Predictions:  append([]models.DataPoint(nil), out...),
	}
	p.wg.Add(1)
	go p.publish(context.WithoutCancel(ctx), ev)
	return out, nil
}

func (p *Predictor) publish(parent context.Context, ev *models.PredictionEvent) {
	defer p.wg.Done()
	ctx, cancel := context.WithTimeout(parent, p.publishTimeout)
	defer cancel()

	if err := p.pub.Publish(ctx, ev); err != nil {
		p.metrics.RecordError("publish")
		p.l.Warn("prediction publish failed", applogger.String("stock_id", ev.StockID), applogger.Error(err))
	}
}

// Close waits for in-flight publishes, then closes the publisher.
func (p *Predictor) Close() error {
	p.wg.Wait()
	return p.pub.Close()
}
