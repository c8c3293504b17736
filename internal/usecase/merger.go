package usecase

import (
	"context"
	"time"

	"StockPredict/internal/domain/models"
	drepo "StockPredict/internal/domain/repository"
)

const (
	// CombinedFileName is written once per exchange and replaced on every merge.
	CombinedFileName = "combined_output.csv"
	mergedMessage    = "Processed and combined"
)

// Merger writes observed followed by predicted points to the exchange's combined file.
type Merger struct {
	store   drepo.PointStore
	metrics drepo.Metrics
}

func NewMerger(store drepo.PointStore, metrics drepo.Metrics) *Merger {
	return &Merger{store: store, metrics: metrics}
}

// Merge returns a confirmation message and the path written.
func (m *Merger) Merge(ctx context.Context, exchange string, observed, predicted []models.DataPoint) (string, string, error) {
	start := time.Now()
	defer func() { m.metrics.RecordLatency("merge", time.Since(start).Seconds()) }()

	combined := make([]models.DataPoint, 0, len(observed)+len(predicted))
	combined = append(combined, observed...)
	combined = append(combined, predicted...)

	path, err := m.store.WritePoints(ctx, exchange, CombinedFileName, combined)
	if err != nil {
		return "", "", err
	}
	m.metrics.RecordFileWritten(exchange, len(combined))
	return mergedMessage, path, nil
}
