package usecase

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"StockPredict/internal/domain/models"
)

func pointsWith(prices []float64, lastTS string) []models.DataPoint {
	pts := make([]models.DataPoint, len(prices))
	for i, p := range prices {
		pts[i] = models.DataPoint{StockID: "ASH", Timestamp: "01-02-2024", StockPrice: p}
	}
	if len(pts) > 0 {
		pts[len(pts)-1].Timestamp = lastTS
	}
	return pts
}

func TestPredictNextScenario(t *testing.T) {
	pts := pointsWith([]float64{10, 12, 11, 13, 9, 14, 15, 13, 12, 11}, "05-03-2024")

	got, err := PredictNext("ASH", pts)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	want := []models.DataPoint{
		{StockID: "ASH", Timestamp: "06-03-2024", StockPrice: 14},
		{StockID: "ASH", Timestamp: "07-03-2024", StockPrice: 12.5},
		{StockID: "ASH", Timestamp: "08-03-2024", StockPrice: 12.875},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("point %d: got %+v want %+v", i, got[i], want[i])
		}
	}
}

func TestPredictNextSecondLargestWithDuplicates(t *testing.T) {
	cases := []struct {
		name   string
		prices []float64
		n1     float64
	}{
		{"duplicate max", []float64{5, 20, 3, 20, 1, 2, 4, 6, 7, 8}, 20},
		{"all equal", []float64{7, 7, 7, 7, 7, 7, 7, 7, 7, 7}, 7},
		{"negatives", []float64{-1, -5, -3, -2, -9, -8, -7, -6, -4, -10}, -2},
		{"max last", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 9},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := PredictNext("X", pointsWith(tc.prices, "01-01-2024"))
			if err != nil {
				t.Fatal(err)
			}
			if got[0].StockPrice != tc.n1 {
				t.Fatalf("n1: got %v want %v", got[0].StockPrice, tc.n1)
			}
			last := tc.prices[len(tc.prices)-1]
			n2 := tc.n1 - (tc.n1-last)/2
			if got[1].StockPrice != n2 {
				t.Fatalf("n2: got %v want %v", got[1].StockPrice, n2)
			}
			if n3 := n2 - (n2-tc.n1)/4; got[2].StockPrice != n3 {
				t.Fatalf("n3: got %v want %v", got[2].StockPrice, n3)
			}
		})
	}
}

func TestPredictNextLeapYear(t *testing.T) {
	got, err := PredictNext("ASH", pointsWith([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, "28-02-2024"))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"29-02-2024", "01-03-2024", "02-03-2024"}
	for i, w := range want {
		if got[i].Timestamp != w {
			t.Fatalf("day %d: got %s want %s", i+1, got[i].Timestamp, w)
		}
	}
}

func TestPredictNextUnpaddedDate(t *testing.T) {
	got, err := PredictNext("ASH", pointsWith([]float64{10, 12, 11, 13, 9, 14, 15, 13, 12, 11}, "5-3-2024"))
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	want := []string{"06-03-2024", "07-03-2024", "08-03-2024"}
	for i, w := range want {
		if got[i].Timestamp != w {
			t.Fatalf("day %d: got %s want %s", i+1, got[i].Timestamp, w)
		}
	}
}

func TestPredictNextUsesRequestStockID(t *testing.T) {
	got, err := PredictNext("OVERRIDE", pointsWith([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, "01-01-2024"))
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range got {
		if p.StockID != "OVERRIDE" {
			t.Fatalf("expected request stock id, got %s", p.StockID)
		}
	}
}

func TestPredictNextDeterministic(t *testing.T) {
	pts := pointsWith([]float64{10.1, 12.3, 11.7, 13.9, 9.2, 14.4, 15.05, 13.3, 12.2, 11.11}, "10-10-2023")
	first, err := PredictNext("ASH", pts)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		again, _ := PredictNext("ASH", pts)
		for j := range first {
			if math.Float64bits(first[j].StockPrice) != math.Float64bits(again[j].StockPrice) {
				t.Fatalf("run %d point %d differs", i, j)
			}
		}
	}
}

func TestPredictNextDoesNotReorderInput(t *testing.T) {
	prices := []float64{10, 12, 11, 13, 9, 14, 15, 13, 12, 11}
	pts := pointsWith(prices, "05-03-2024")
	if _, err := PredictNext("ASH", pts); err != nil {
		t.Fatal(err)
	}
	for i, p := range pts {
		if p.StockPrice != prices[i] {
			t.Fatalf("input mutated at %d", i)
		}
	}
}

func TestPredictNextInvalid(t *testing.T) {
	for _, n := range []int{0, 9, 11} {
		if _, err := PredictNext("ASH", pointsWith(make([]float64, n), "01-01-2024")); !errors.Is(err, models.ErrInvalidInput) {
			t.Fatalf("len %d: expected ErrInvalidInput, got %v", n, err)
		}
	}
	for _, ts := range []string{"2024-01-01", "31-02-2024", "5/3/2024", "garbage"} {
		_, err := PredictNext("ASH", pointsWith([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, ts))
		if !errors.Is(err, models.ErrInvalidInput) {
			t.Fatalf("timestamp %q: expected ErrInvalidInput, got %v", ts, err)
		}
	}
}

func TestPredictorPublishes(t *testing.T) {
	pub := &recordingPublisher{}
	p := NewPredictor(pub, nopMetrics, nil)
	pts := pointsWith([]float64{10, 12, 11, 13, 9, 14, 15, 13, 12, 11}, "05-03-2024")

	out, err := p.Predict(context.Background(), "ASH", pts)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
	events := pub.snapshot()
	if len(events) != 1 {
		t.Fatalf("expected one event, got %d", len(events))
	}
	ev := events[0]
	if ev.StockID != "ASH" || ev.ObservedLast != pts[9] || len(ev.Predictions) != 3 || ev.Predictions[0] != out[0] {
		t.Fatalf("unexpected event %+v", ev)
	}
	if !pub.closed {
		t.Fatalf("publisher not closed")
	}
}

func TestPredictorIgnoresPublishFailure(t *testing.T) {
	pub := &recordingPublisher{err: errBroker}
	p := NewPredictor(pub, nopMetrics, nil)
	out, err := p.Predict(context.Background(), "ASH", pointsWith([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, "01-01-2024"))
	if err != nil {
		t.Fatalf("publish failure must not fail prediction: %v", err)
	}
	if len(out) != Horizon {
		t.Fatalf("got %d points", len(out))
	}
	_ = p.Close()
}

func TestPredictorDoesNotWaitForSlowPublisher(t *testing.T) {
	pub := newBlockingPublisher()
	p := NewPredictor(pub, nopMetrics, nil)
	ctx, cancel := context.WithCancel(context.Background())

	out, err := p.Predict(ctx, "ASH", pointsWith([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, "01-01-2024"))
	if err != nil || len(out) != Horizon {
		t.Fatalf("predict: out=%v err=%v", out, err)
	}
	// The request finishing must not abort the publish.
	cancel()

	select {
	case <-pub.started:
	case <-time.After(time.Second):
		t.Fatalf("publish never started")
	}
	if !<-pub.deadline {
		t.Fatalf("publish context has no deadline")
	}

	done := make(chan struct{})
	go func() {
		_ = p.Close()
		close(done)
	}()
	select {
	case <-done:
		t.Fatalf("Close returned before the pending publish finished")
	case <-time.After(20 * time.Millisecond):
	}
	close(pub.release)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Close did not drain the pending publish")
	}
}

func TestPredictorPublishTimeout(t *testing.T) {
	pub := newBlockingPublisher()
	p := NewPredictor(pub, nopMetrics, nil, WithPublishTimeout(10*time.Millisecond))
	if _, err := p.Predict(context.Background(), "ASH", pointsWith([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, "01-01-2024")); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		_ = p.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("publish was not bounded by its timeout")
	}
}

func TestPredictorSkipsPublishOnError(t *testing.T) {
	pub := &recordingPublisher{}
	p := NewPredictor(pub, nopMetrics, nil)
	if _, err := p.Predict(context.Background(), "ASH", nil); !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	_ = p.Close()
	if len(pub.snapshot()) != 0 {
		t.Fatalf("nothing should be published on error")
	}
}
