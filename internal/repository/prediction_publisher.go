package repository

import (
	"context"

	"StockPredict/internal/domain/models"
	"StockPredict/internal/domain/repository"
	pkgkafka "StockPredict/pkg/kafka"
)

// KafkaPublisher implements PredictionPublisher on Kafka, keyed by stock id.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
}

func NewKafkaPublisher(producer *pkgkafka.Producer) repository.PredictionPublisher {
	return &KafkaPublisher{producer: producer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev *models.PredictionEvent) error {
	return p.producer.Publish(ctx, []byte(ev.StockID), ev)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NopPublisher drops every event. Used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, *models.PredictionEvent) error { return nil }

func (NopPublisher) Close() error { return nil }
