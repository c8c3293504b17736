package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"StockPredict/internal/domain/models"
	drepo "StockPredict/internal/domain/repository"
)

// WindowSize is the number of consecutive rows sampled and the number of
// points a prediction consumes.
const WindowSize = 10

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Sampler picks a random run of WindowSize consecutive rows from a price file.
type Sampler struct {
	store   drepo.PointStore
	metrics drepo.Metrics

	mu  sync.Mutex
	rnd drepo.RandSource
}

// NewSampler creates a Sampler. A nil rnd uses the process-wide generator.
func NewSampler(store drepo.PointStore, metrics drepo.Metrics, rnd drepo.RandSource) *Sampler {
	if rnd == nil {
		rnd = globalRand{}
	}
	return &Sampler{store: store, metrics: metrics, rnd: rnd}
}

// Sample re-reads <exchange>/<file> and returns WindowSize rows in file order,
// starting at an index drawn uniformly from [0, rows-WindowSize].
func (s *Sampler) Sample(ctx context.Context, exchange, file string) ([]models.DataPoint, error) {
	start := time.Now()
	defer func() { s.metrics.RecordLatency("sample", time.Since(start).Seconds()) }()

	points, err := s.store.ReadPoints(ctx, exchange, file)
	if err != nil {
		return nil, err
	}
	if len(points) < WindowSize {
		return nil, fmt.Errorf("file has fewer than %d rows (%d): %w", WindowSize, len(points), models.ErrInvalidInput)
	}

	idx := s.pick(len(points) - WindowSize + 1)
	out := make([]models.DataPoint, WindowSize)
	copy(out, points[idx:idx+WindowSize])

	s.metrics.RecordSample(exchange)
	return out, nil
}

func (s *Sampler) pick(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.IntN(n)
}
