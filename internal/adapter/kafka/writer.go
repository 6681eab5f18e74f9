// Package kafka publishes risk advisories to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/cyclone-saferoute/internal/config"
	"github.com/couchcryptid/cyclone-saferoute/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Header keys set on every advisory message.
const (
	HeaderRiskLevel  = "risk_level"
	HeaderAssessedAt = "assessed_at"
)

// Writer produces advisories to the configured topic.
// It implements domain.AdvisoryPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the advisory topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaAdvisoryTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 5 * time.Second,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish writes one advisory keyed by its ID.
func (w *Writer) Publish(ctx context.Context, advisory domain.Advisory) error {
	msg, err := serializeToMessage(advisory)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write advisory %s: %w", advisory.ID, err)
	}
	w.logger.Debug("advisory published",
		"id", advisory.ID,
		"level", advisory.Risk.Level,
		"topic", w.writer.Topic,
	)
	return nil
}

// Close flushes pending advisories and releases the broker connections.
func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an Advisory into a Kafka message.
func serializeToMessage(advisory domain.Advisory) (kafkago.Message, error) {
	data, err := json.Marshal(advisory)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize advisory: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(advisory.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: HeaderRiskLevel, Value: []byte(advisory.Risk.Level)},
			{Key: HeaderAssessedAt, Value: []byte(advisory.AssessedAt.Format(time.RFC3339))},
		},
	}, nil
}
