package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/sui-chat/api/internal/observability"
)

// --------------- Producer ---------------

// Producer wraps a kafka.Writer for publishing messages.
type Producer struct {
	w *kafka.Writer
}

// NewProducer creates a Kafka writer that routes messages by the topic set on
// each kafka.Message. Messages with the same key land on the same partition,
// so events for one wallet stay ordered.
func NewProducer(brokers []string) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, topic string, key, value []byte) error {
	return p.w.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   key,
		Value: value,
	})
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error { return p.w.Close() }

// --------------- Consumer ---------------

type profileOnboarded struct {
	Address string `json:"address"`
}

// ProfileCreator creates an empty profile unless one exists.
type ProfileCreator interface {
	CreateIfNotExists(ctx context.Context, address string) error
}

// StartProfileOnboardedConsumer listens on topic and creates a profile document
// for every onboarded wallet. It blocks until ctx is cancelled.
func StartProfileOnboardedConsumer(ctx context.Context, brokers []string, topic string, repo ProfileCreator) {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: "friends-api",
	})
	defer r.Close()

	log := observability.Log.With(zap.String("topic", topic))
	log.Info("onboarding consumer started")

	for {
		m, err := r.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() == nil {
				log.Error("onboarding consumer stopped", zap.Error(err))
			}
			return
		}
		handleOnboarded(ctx, log, m.Value, repo)
	}
}

func handleOnboarded(ctx context.Context, log *zap.Logger, value []byte, repo ProfileCreator) {
	var e profileOnboarded
	if err := json.Unmarshal(value, &e); err != nil || e.Address == "" {
		log.Warn("bad profile.onboarded payload", zap.ByteString("payload", value), zap.Error(err))
		return
	}

	if err := repo.CreateIfNotExists(ctx, e.Address); err != nil {
		log.Error("idempotent profile create failed", zap.String("address", e.Address), zap.Error(err))
	}
}
