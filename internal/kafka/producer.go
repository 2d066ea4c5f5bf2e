package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"go.uber.org/fx"

	"logs-dashboard/config"
	"logs-dashboard/internal/aggregator"
	"logs-dashboard/internal/model"
)

// SnapshotEvent is the summary of one successful stats fetch.
type SnapshotEvent struct {
	CycleID     string             `json:"cycle_id"`
	FetchedAt   time.Time          `json:"fetched_at"`
	Summary     aggregator.Summary `json:"summary"`
	StatusCodes model.Counts       `json:"status_code_statistics"`
	Services    model.Counts       `json:"service_statistics"`
}

type SnapshotPublisher interface {
	Publish(ctx context.Context, event SnapshotEvent) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaSnapshotPublisher struct {
	writer messageWriter
	topic  string
}

// NewSnapshotPublisher returns a no-op publisher when no brokers are configured.
func NewSnapshotPublisher(lc fx.Lifecycle, cfg *config.Config) SnapshotPublisher {
	if len(cfg.Kafka.Brokers) == 0 || cfg.Kafka.SnapshotTopic == "" {
		log.Info().Msg("Kafka brokers not configured, snapshot publishing disabled")
		return NoopPublisher{}
	}
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:      cfg.Kafka.Brokers,
		Topic:        cfg.Kafka.SnapshotTopic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		Async:        true,
	})
	p := newPublisher(writer, cfg.Kafka.SnapshotTopic)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Closing Kafka snapshot publisher")
			return p.Close()
		},
	})
	log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.SnapshotTopic).Msg("Kafka snapshot publisher initialized")
	return p
}

func newPublisher(w messageWriter, topic string) *kafkaSnapshotPublisher {
	return &kafkaSnapshotPublisher{writer: w, topic: topic}
}

func (p *kafkaSnapshotPublisher) Publish(ctx context.Context, event SnapshotEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("cycle_id", event.CycleID).Msg("Failed to marshal snapshot event for Kafka")
		return err
	}
	msg := kafka.Message{
		Key:   []byte(event.CycleID),
		Value: value,
		Time:  event.FetchedAt,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		log.Error().Err(err).Str("topic", p.topic).Msg("Failed to write snapshot event to Kafka")
		return err
	}
	log.Debug().Str("cycle_id", event.CycleID).Str("topic", p.topic).Msg("Published snapshot event")
	return nil
}

func (p *kafkaSnapshotPublisher) Close() error {
	return p.writer.Close()
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, SnapshotEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }
