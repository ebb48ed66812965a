package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	logger "github.com/sirupsen/logrus"

	"signaldesk/src/model"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes each signal as JSON keyed by pair, so all signals for
// one pair land on the same partition in order.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("brokers are required")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic is required")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		MaxAttempts:  3,
		WriteTimeout: 10 * time.Second,
		BatchTimeout: 50 * time.Millisecond,
	}
	return &KafkaPublisher{writer: writer, topic: topic}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, signal *model.Signal) error {
	value, err := json.Marshal(signal)
	if err != nil {
		return fmt.Errorf("marshal signal: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(signal.Pair),
		Value: value,
		Time:  signal.CreatedAt,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		logger.WithFields(map[string]interface{}{
			"topic":     p.topic,
			"signal_id": signal.ID,
		}).WithError(err).Error("kafka publish failed")
		return fmt.Errorf("kafka publish: %w", err)
	}
	return nil
}

// Close closes the producer.
func (p *KafkaPublisher) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
