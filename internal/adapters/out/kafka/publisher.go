// Package kafka publishes order integration events with a sarama sync producer.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/IBM/sarama"

	"orderwatch/internal/core/domain/model/order"
	"orderwatch/internal/core/ports"
	"orderwatch/internal/pkg/errs"
)

var _ ports.EventPublisher = (*Publisher)(nil)

type Publisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *slog.Logger
}

// NewPublisher dials the brokers listed in host (comma separated).
func NewPublisher(host, topic string, logger *slog.Logger) (*Publisher, error) {
	brokers := splitBrokers(host)
	if len(brokers) == 0 {
		return nil, errs.NewValueIsRequiredError("host")
	}

	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Idempotent = true
	config.Net.MaxOpenRequests = 1

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return newPublisher(producer, topic, logger)
}

func newPublisher(producer sarama.SyncProducer, topic string, logger *slog.Logger) (*Publisher, error) {
	if producer == nil {
		return nil, errs.NewValueIsRequiredError("producer")
	}
	if topic == "" {
		return nil, errs.NewValueIsRequiredError("topic")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		producer: producer,
		topic:    topic,
		logger:   logger.With("component", "kafka-publisher"),
	}, nil
}

// PublishStatusChanged sends the event keyed by external id so every
// transition of one order lands on the same partition in order.
func (p *Publisher) PublishStatusChanged(ctx context.Context, event order.StatusChanged) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal status changed event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(event.ExternalID),
		Value:     sarama.ByteEncoder(payload),
		Timestamp: time.Now(),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("send status changed for %s: %w", event.ExternalID, err)
	}

	p.logger.Debug("status change published",
		"external_id", event.ExternalID,
		"to", event.To,
		"partition", partition,
		"offset", offset)
	return nil
}

func (p *Publisher) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("close kafka producer: %w", err)
	}
	return nil
}

func splitBrokers(host string) []string {
	var brokers []string
	for _, b := range strings.Split(host, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
