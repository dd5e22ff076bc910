package kafka

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/gem-thermo/internal/application/pipeline"
	"github.com/turtacn/gem-thermo/internal/config"
	pkgerrors "github.com/turtacn/gem-thermo/pkg/errors"
	"github.com/turtacn/gem-thermo/pkg/types/common"
)

// mockKafkaWriter
type mockKafkaWriter struct {
	writeFunc func(ctx context.Context, msgs ...kafka.Message) error
	closed    int
}

func (m *mockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if m.writeFunc != nil {
		return m.writeFunc(ctx, msgs...)
	}
	return nil
}

func (m *mockKafkaWriter) Close() error {
	m.closed++
	return nil
}

func testArtifact() *pipeline.Artifact {
	at := common.Timestamp(time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC))
	a := &pipeline.Artifact{
		RunID:           common.RunID("7d4f6a7e-1c2b-4d3e-8f9a-0b1c2d3e4f50"),
		ModelID:         "test-GEM",
		Stage:           pipeline.StageReactions,
		StartedAt:       at,
		FinishedAt:      at,
		ReactionSummary: &pipeline.ReactionSummary{Total: 3, Valid: 2, Transport: 1},
	}
	return a
}

// ─────────────────────────────────────────────────────────────────────────────
// Config validation
// ─────────────────────────────────────────────────────────────────────────────

func TestValidateProducerConfig(t *testing.T) {
	t.Parallel()

	valid := config.KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "t"}
	tests := []struct {
		name    string
		mutate  func(*config.KafkaConfig)
		wantErr bool
	}{
		{"valid", func(*config.KafkaConfig) {}, false},
		{"acks all", func(c *config.KafkaConfig) { c.RequiredAcks = -1 }, false},
		{"no brokers", func(c *config.KafkaConfig) { c.Brokers = nil }, true},
		{"no topic", func(c *config.KafkaConfig) { c.Topic = "" }, true},
		{"bad acks", func(c *config.KafkaConfig) { c.RequiredAcks = 2 }, true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid
			cfg.Brokers = append([]string(nil), valid.Brokers...)
			tt.mutate(&cfg)
			err := ValidateProducerConfig(cfg)
			if tt.wantErr {
				assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeInvalidConfig))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewProducer(t *testing.T) {
	t.Parallel()
	p, err := NewProducer(config.KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "gemthermo.cache.built"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "kafka", p.Name())
	assert.NoError(t, p.Close())
}

// ─────────────────────────────────────────────────────────────────────────────
// Publish
// ─────────────────────────────────────────────────────────────────────────────

func TestPublish_Success(t *testing.T) {
	t.Parallel()
	var captured []kafka.Message
	w := &mockKafkaWriter{writeFunc: func(_ context.Context, msgs ...kafka.Message) error {
		captured = append(captured, msgs...)
		return nil
	}}
	p := NewProducerWithWriter(w, "events", nil)

	a := testArtifact()
	require.NoError(t, p.Publish(context.Background(), a))
	require.Len(t, captured, 1)

	msg := captured[0]
	assert.Equal(t, []byte("test-GEM"), msg.Key)
	assert.Empty(t, msg.Topic)
	assert.Contains(t, msg.Headers, kafka.Header{Key: HeaderEventType, Value: []byte(EventTypeCacheBuilt)})
	assert.Contains(t, msg.Headers, kafka.Header{Key: HeaderRunID, Value: []byte(a.RunID.String())})

	var env EventEnvelope
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	assert.Equal(t, EventTypeCacheBuilt, env.EventType)
	assert.Equal(t, "gemthermo", env.Source)
	assert.NotEmpty(t, env.EventID)

	var payload CacheBuiltPayload
	require.NoError(t, env.DecodePayload(&payload))
	assert.Equal(t, a.RunID, payload.RunID)
	assert.Equal(t, pipeline.StageReactions, payload.Stage)
	assert.Nil(t, payload.CompoundSummary)
	require.NotNil(t, payload.ReactionSummary)
	assert.Equal(t, 2, payload.ReactionSummary.Valid)

	sent, failed, bytes := p.GetMetrics()
	assert.Equal(t, int64(1), sent)
	assert.Equal(t, int64(0), failed)
	assert.Equal(t, int64(len(msg.Value)), bytes)
}

func TestPublish_WriteError(t *testing.T) {
	t.Parallel()
	w := &mockKafkaWriter{writeFunc: func(context.Context, ...kafka.Message) error {
		return errors.New("leader not available")
	}}
	p := NewProducerWithWriter(w, "events", nil)

	err := p.Publish(context.Background(), testArtifact())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeMessagingError))
	assert.Contains(t, err.Error(), "events")

	_, failed, _ := p.GetMetrics()
	assert.Equal(t, int64(1), failed)
}

func TestPublish_TooLarge(t *testing.T) {
	t.Parallel()
	p := NewProducerWithWriter(&mockKafkaWriter{}, "events", nil)
	a := testArtifact()
	a.ModelID = strings.Repeat("m", maxMessageBytes)

	err := p.Publish(context.Background(), a)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeMessagingError))
}

func TestClose_Idempotent(t *testing.T) {
	t.Parallel()
	w := &mockKafkaWriter{}
	p := NewProducerWithWriter(w, "events", nil)

	assert.NoError(t, p.Close())
	assert.NoError(t, p.Close())
	assert.Equal(t, 1, w.closed)

	err := p.Publish(context.Background(), testArtifact())
	assert.ErrorIs(t, err, ErrProducerClosed)
}

//Personal.AI order the ending
