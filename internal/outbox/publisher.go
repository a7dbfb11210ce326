package outbox

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sui-chat/api/internal/model"
	"github.com/sui-chat/api/internal/observability"
)

const (
	pollInterval = 2 * time.Second
	batchSize    = 50
)

type Store interface {
	Fetch(ctx context.Context, limit int) ([]model.Outbox, error)
	MarkPublished(ctx context.Context, id string) error
}

type Producer interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

// Publisher polls the outbox collection and relays unpublished events to Kafka.
type Publisher struct {
	repo     Store
	producer Producer
}

func NewPublisher(repo Store, producer Producer) *Publisher {
	return &Publisher{repo: repo, producer: producer}
}

// Start begins the polling loop. It blocks until the context is cancelled.
func (p *Publisher) Start(ctx context.Context) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.publishBatch(ctx)
		}
	}
}

func (p *Publisher) publishBatch(ctx context.Context) {
	log := observability.GetLogger(ctx)

	rows, err := p.repo.Fetch(ctx, batchSize)
	if err != nil {
		log.Warn("outbox query error", zap.Error(err))
		return
	}

	for _, row := range rows {
		if err := p.producer.Publish(ctx, row.Topic, []byte(row.Key), row.Payload); err != nil {
			observability.OutboxPublishedTotal.WithLabelValues(row.Topic, "error").Inc()
			log.Warn("kafka publish failed", zap.String("id", row.ID), zap.Error(err))
			continue
		}
		observability.OutboxPublishedTotal.WithLabelValues(row.Topic, "ok").Inc()

		if err := p.repo.MarkPublished(ctx, row.ID); err != nil {
			log.Error("outbox mark published error", zap.String("id", row.ID), zap.Error(err))
		}
	}
}
