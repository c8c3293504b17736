package repository

import (
	"context"

	"StockPredict/internal/domain/models"
)

// PointStore reads observed points and persists combined output.
type PointStore interface {
	// ReadPoints returns every data row of <input>/<exchange>/<file> in file order.
	ReadPoints(ctx context.Context, exchange, file string) ([]models.DataPoint, error)
	// WritePoints replaces <output>/<exchange>/<name> with points and returns its path.
	WritePoints(ctx context.Context, exchange, name string, points []models.DataPoint) (string, error)
}

type PredictionPublisher interface {
	Publish(ctx context.Context, ev *models.PredictionEvent) error
	Close() error
}

type Metrics interface {
	RecordSample(exchange string)
	RecordPrediction(stockID string, next float64)
	RecordFileWritten(exchange string, rows int)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}

// RandSource picks the sampling window. *math/rand/v2.Rand satisfies it.
type RandSource interface {
	IntN(n int) int
}
