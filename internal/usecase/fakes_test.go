package usecase

import (
	"context"
	"errors"
	"sync"

	"StockPredict/internal/domain/models"
	"StockPredict/pkg/metrics"
)

type memStore struct {
	mu       sync.Mutex
	files    map[string][]models.DataPoint
	written  map[string][]models.DataPoint
	writeErr error
}

func newMemStore() *memStore {
	return &memStore{files: map[string][]models.DataPoint{}, written: map[string][]models.DataPoint{}}
}

func (m *memStore) ReadPoints(_ context.Context, exchange, file string) ([]models.DataPoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pts, ok := m.files[exchange+"/"+file]
	if !ok {
		return nil, models.ErrNotFound
	}
	return pts, nil
}

func (m *memStore) WritePoints(_ context.Context, exchange, name string, points []models.DataPoint) (string, error) {
	if m.writeErr != nil {
		return "", m.writeErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	path := exchange + "/" + name
	m.written[path] = append([]models.DataPoint(nil), points...)
	return path, nil
}

// fixedRand always returns v, clamped to n-1.
type fixedRand struct {
	v    int
	seen []int
}

func (f *fixedRand) IntN(n int) int {
	f.seen = append(f.seen, n)
	if f.v >= n {
		return n - 1
	}
	return f.v
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []*models.PredictionEvent
	err    error
	closed bool
}

func (r *recordingPublisher) Publish(_ context.Context, ev *models.PredictionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

func (r *recordingPublisher) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *recordingPublisher) snapshot() []*models.PredictionEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*models.PredictionEvent(nil), r.events...)
}

// blockingPublisher holds every Publish until release is closed or ctx ends.
type blockingPublisher struct {
	release  chan struct{}
	started  chan struct{}
	deadline chan bool
}

func newBlockingPublisher() *blockingPublisher {
	return &blockingPublisher{
		release:  make(chan struct{}),
		started:  make(chan struct{}, 1),
		deadline: make(chan bool, 1),
	}
}

func (b *blockingPublisher) Publish(ctx context.Context, _ *models.PredictionEvent) error {
	_, ok := ctx.Deadline()
	b.deadline <- ok
	b.started <- struct{}{}
	select {
	case <-b.release:
		return errBroker
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *blockingPublisher) Close() error { return nil }

var errBroker = errors.New("broker down")

var nopMetrics = metrics.Nop{}
