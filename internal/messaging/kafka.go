package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/temcen/laptop-advisor/pkg/models"
)

const DefaultAnalyticsTopic = "advisor-analytics"

// MessageWriter is satisfied by *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaSinkConfig struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}

// KafkaSink publishes events as JSON keyed by user id.
type KafkaSink struct {
	writer  MessageWriter
	topic   string
	timeout time.Duration
	logger  *logrus.Logger
}

func NewKafkaSink(cfg KafkaSinkConfig, logger *logrus.Logger) *KafkaSink {
	topic := cfg.Topic
	if topic == "" {
		topic = DefaultAnalyticsTopic
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // one user's events stay ordered on a partition
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		BatchTimeout: 10 * time.Millisecond,
		BatchSize:    100,
	}
	return NewKafkaSinkWithWriter(writer, topic, cfg.WriteTimeout, logger)
}

func NewKafkaSinkWithWriter(writer MessageWriter, topic string, timeout time.Duration, logger *logrus.Logger) *KafkaSink {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &KafkaSink{writer: writer, topic: topic, timeout: timeout, logger: logger}
}

func (s *KafkaSink) Record(ctx context.Context, event models.AnalyticsEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal analytics event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.UserID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "timestamp", Value: []byte(event.Timestamp.Format(time.RFC3339))},
		},
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		s.logger.WithError(err).WithField("event_type", event.Type).Error("Failed to publish analytics event to Kafka")
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"event_type": event.Type,
		"user_id":    event.UserID,
		"topic":      s.topic,
	}).Debug("Analytics event published to Kafka")
	return nil
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
