package kafka

import (
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/turtacn/gem-thermo/internal/application/pipeline"
	"github.com/turtacn/gem-thermo/pkg/errors"
	"github.com/turtacn/gem-thermo/pkg/types/common"
)

// EventTypeCacheBuilt is emitted after a pipeline run wrote its documents.
const EventTypeCacheBuilt = "cache.built"

const (
	eventSource   = "gemthermo"
	schemaVersion = "1"
)

// EventEnvelope standardizes event messages.
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	SchemaVersion string          `json:"schema_version"`
	Payload       json.RawMessage `json:"payload"`
}

// CacheBuiltPayload summarizes a finished run.  Consumers fetch the documents
// themselves.
type CacheBuiltPayload struct {
	RunID           common.RunID              `json:"run_id"`
	ModelID         string                    `json:"model_id"`
	Stage           string                    `json:"stage"`
	StartedAt       common.Timestamp          `json:"started_at"`
	FinishedAt      common.Timestamp          `json:"finished_at"`
	Compounds       int                       `json:"compounds"`
	Reactions       int                       `json:"reactions"`
	CompoundSummary *pipeline.CompoundSummary `json:"compound_summary,omitempty"`
	ReactionSummary *pipeline.ReactionSummary `json:"reaction_summary,omitempty"`
}

// NewCacheBuiltPayload projects an artifact onto the event payload.
func NewCacheBuiltPayload(a *pipeline.Artifact) CacheBuiltPayload {
	return CacheBuiltPayload{
		RunID:           a.RunID,
		ModelID:         a.ModelID,
		Stage:           a.Stage,
		StartedAt:       a.StartedAt,
		FinishedAt:      a.FinishedAt,
		Compounds:       a.Compounds.Len(),
		Reactions:       a.Reactions.Len(),
		CompoundSummary: a.CompoundSummary,
		ReactionSummary: a.ReactionSummary,
	}
}

// NewEventEnvelope wraps payload with a fresh event ID.
func NewEventEnvelope(eventType string, payload interface{}) (*EventEnvelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeMessagingError, "failed to encode event payload")
	}
	return &EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     eventType,
		Source:        eventSource,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: schemaVersion,
		Payload:       raw,
	}, nil
}

// DecodePayload unmarshals the payload into target.
func (e *EventEnvelope) DecodePayload(target interface{}) error {
	if err := json.Unmarshal(e.Payload, target); err != nil {
		return errors.Wrap(err, errors.ErrCodeMessagingError, "failed to decode event payload")
	}
	return nil
}

//Personal.AI order the ending
