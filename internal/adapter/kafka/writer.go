package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/river-conditions/internal/config"
	"github.com/couchcryptid/river-conditions/internal/domain"
	"github.com/couchcryptid/river-conditions/internal/report"
)

// Writer publishes a report snapshot to a Kafka topic, one message per result.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish writes every result of the report in a single WriteMessages call.
func (w *Writer) Publish(ctx context.Context, rep report.Report) error {
	var msgs []kafkago.Message
	for _, t := range rep.Tables() {
		for _, res := range t.Results {
			msg, err := serializeToMessage(t.Name, res, rep.GeneratedAt)
			if err != nil {
				return err
			}
			msgs = append(msgs, msg)
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish report: %w", err)
	}
	w.logger.Info("report published", "topic", w.writer.Topic, "messages", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// message is the JSON value of one published result.
type message struct {
	Table string `json:"table"`
	domain.ClassifiedResult
	GeneratedAt time.Time `json:"generated_at"`
}

// serializeToMessage marshals one result keyed by table/label so every
// result of the same row lands on the same partition.
func serializeToMessage(table string, res domain.ClassifiedResult, generatedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(message{Table: table, ClassifiedResult: res, GeneratedAt: generatedAt})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize result: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(table + "/" + res.Label),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "tier", Value: []byte(res.Tier)},
			{Key: "observed_at", Value: []byte(res.ObservedAt.Format(time.RFC3339))},
		},
	}, nil
}
