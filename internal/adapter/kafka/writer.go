package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/campus-tree-forest/internal/config"
	"github.com/couchcryptid/campus-tree-forest/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafkago.Writer used by Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes genus aggregates to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer messageWriter
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish writes one message per genus in a single WriteMessages call.
// Messages are keyed by genus so a genus always lands on the same partition.
func (w *Writer) Publish(ctx context.Context, ds *domain.Dataset) error {
	if ds == nil || len(ds.Genera) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(ds.Genera))
	for i := range ds.Genera {
		msg, err := serializeToMessage(ds.Genera[i], ds)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish aggregates: %w", err)
	}
	w.logger.Debug("aggregates published", "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a GenusAggregate into a Kafka message.
func serializeToMessage(agg domain.GenusAggregate, ds *domain.Dataset) (kafkago.Message, error) {
	data, err := json.Marshal(agg)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize genus aggregate: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(agg.Genus),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "dataset_loaded_at", Value: []byte(ds.LoadedAt.UTC().Format(time.RFC3339))},
			{Key: "record_count", Value: []byte(strconv.Itoa(ds.Records))},
		},
	}, nil
}
