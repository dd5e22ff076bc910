// Package kafka announces finished cache runs on a Kafka topic.
package kafka

import (
	"context"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"

	"github.com/turtacn/gem-thermo/internal/application/pipeline"
	"github.com/turtacn/gem-thermo/internal/config"
	"github.com/turtacn/gem-thermo/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/gem-thermo/pkg/errors"
)

var (
	ErrProducerClosed  = errors.New(errors.ErrCodeMessagingError, "producer closed")
	ErrMessageTooLarge = errors.New(errors.ErrCodeMessagingError, "message too large")
)

// maxMessageBytes matches the broker default of message.max.bytes.
const maxMessageBytes = 1024 * 1024

// Header keys set on every event.
const (
	HeaderEventType = "event-type"
	HeaderRunID     = "run-id"
)

// ProducerMetrics holds producer metrics.
type ProducerMetrics struct {
	MessagesSent   atomic.Int64
	MessagesFailed atomic.Int64
	BytesSent      atomic.Int64
}

// WriterInterface abstracts kafka.Writer for testing.
type WriterInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes cache.built events.  Events are keyed by model ID so
// runs of one model stay ordered within a partition.
type Producer struct {
	writer  WriterInterface
	topic   string
	logger  logging.Logger
	closed  atomic.Bool
	metrics *ProducerMetrics
}

var _ pipeline.Publisher = (*Producer)(nil)

// NewProducer creates a Producer for cfg.Topic.
func NewProducer(cfg config.KafkaConfig, logger logging.Logger) (*Producer, error) {
	if err := ValidateProducerConfig(cfg); err != nil {
		return nil, err
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout == 0 {
		writeTimeout = 10 * time.Second
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		MaxAttempts:            3,
		BatchSize:              1,
		WriteTimeout:           writeTimeout,
		RequiredAcks:           kafka.RequiredAcks(cfg.RequiredAcks),
		AllowAutoTopicCreation: true,
		Transport:              &kafka.Transport{DialTimeout: 10 * time.Second},
	}
	return NewProducerWithWriter(writer, cfg.Topic, logger), nil
}

// NewProducerWithWriter wraps an existing writer.
func NewProducerWithWriter(w WriterInterface, topic string, logger logging.Logger) *Producer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Producer{
		writer:  w,
		topic:   topic,
		logger:  logger.Named("kafka"),
		metrics: &ProducerMetrics{},
	}
}

// Name implements pipeline.Publisher.
func (p *Producer) Name() string { return "kafka" }

// Publish emits one cache.built event for a.
func (p *Producer) Publish(ctx context.Context, a *pipeline.Artifact) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}
	env, err := NewEventEnvelope(EventTypeCacheBuilt, NewCacheBuiltPayload(a))
	if err != nil {
		return err
	}
	value, err := json.Marshal(env)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeMessagingError, "failed to encode event")
	}
	if len(value) > maxMessageBytes {
		return ErrMessageTooLarge.WithDetailf("%d bytes", len(value))
	}

	msg := kafka.Message{
		Key:   []byte(a.ModelID),
		Value: value,
		Time:  env.Timestamp,
		Headers: []kafka.Header{
			{Key: HeaderEventType, Value: []byte(EventTypeCacheBuilt)},
			{Key: HeaderRunID, Value: []byte(a.RunID.String())},
		},
	}

	start := time.Now()
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.metrics.MessagesFailed.Add(1)
		return errors.Wrap(err, errors.ErrCodeMessagingError, "publish failed").WithDetail(p.topic)
	}
	p.metrics.MessagesSent.Add(1)
	p.metrics.BytesSent.Add(int64(len(value)))

	p.logger.Debug("Event published",
		logging.String("topic", p.topic),
		logging.String("event_id", env.EventID),
		logging.Duration("latency", time.Since(start)))
	return nil
}

// GetMetrics returns a metrics snapshot.
func (p *Producer) GetMetrics() (sent, failed, bytes int64) {
	return p.metrics.MessagesSent.Load(), p.metrics.MessagesFailed.Load(), p.metrics.BytesSent.Load()
}

// Close closes the producer.
func (p *Producer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := p.writer.Close()
	p.logger.Info("Kafka producer closed", logging.Int64("sent", p.metrics.MessagesSent.Load()))
	return err
}

// ValidateProducerConfig checks the settings NewProducer relies on.
func ValidateProducerConfig(cfg config.KafkaConfig) error {
	if len(cfg.Brokers) == 0 {
		return errors.InvalidConfig("kafka brokers required")
	}
	if cfg.Topic == "" {
		return errors.InvalidConfig("kafka topic required")
	}
	switch cfg.RequiredAcks {
	case -1, 0, 1:
	default:
		return errors.InvalidConfig("kafka required_acks must be -1, 0 or 1")
	}
	return nil
}

//Personal.AI order the ending
