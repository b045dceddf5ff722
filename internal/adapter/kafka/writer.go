// Package kafka adapts segmentio/kafka-go to the pipeline's extract and load
// stages.
package kafka

import (
	"context"
	"log/slog"
	"sort"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/crop-advisor-service/internal/config"
	"github.com/couchcryptid/crop-advisor-service/internal/domain"
)

// Writer produces advisories to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
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

// LoadBatch publishes serialized advisories in a single WriteMessages call.
func (w *Writer) LoadBatch(ctx context.Context, msgs []domain.OutputMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	out := make([]kafkago.Message, len(msgs))
	for i := range msgs {
		out[i] = toKafkaMessage(msgs[i])
	}
	if err := w.writer.WriteMessages(ctx, out...); err != nil {
		return err
	}
	w.logger.Debug("batch written", "size", len(out))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// toKafkaMessage converts an OutputMessage, emitting headers in key order so
// the wire layout is stable.
func toKafkaMessage(msg domain.OutputMessage) kafkago.Message {
	keys := make([]string, 0, len(msg.Headers))
	for k := range msg.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	headers := make([]kafkago.Header, 0, len(keys))
	for _, k := range keys {
		headers = append(headers, kafkago.Header{Key: k, Value: []byte(msg.Headers[k])})
	}
	return kafkago.Message{
		Key:     msg.Key,
		Value:   msg.Value,
		Headers: headers,
	}
}
