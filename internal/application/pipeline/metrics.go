package pipeline

import (
	"time"

	"github.com/turtacn/gem-thermo/internal/domain/thermo"
)

// Stage names used in logs, metrics and artifacts.
const (
	StageCompounds = "compounds"
	StageReactions = "reactions"
	StageAll       = "all"
)

// Metrics receives pipeline telemetry.  Implementations must be safe for
// concurrent use.
type Metrics interface {
	ObserveLookup(source string, found bool, elapsed time.Duration)
	ObserveEstimate(method thermo.Method, ok bool, elapsed time.Duration)
	ObserveStage(stage string, elapsed time.Duration, err error)
	ObservePublish(sink string, err error)
	RecordCompoundSummary(s CompoundSummary)
	RecordReactionSummary(s ReactionSummary)
}

type nopMetrics struct{}

func (nopMetrics) ObserveLookup(string, bool, time.Duration)          {}
func (nopMetrics) ObserveEstimate(thermo.Method, bool, time.Duration) {}
func (nopMetrics) ObserveStage(string, time.Duration, error)          {}
func (nopMetrics) ObservePublish(string, error)                       {}
func (nopMetrics) RecordCompoundSummary(CompoundSummary)              {}
func (nopMetrics) RecordReactionSummary(ReactionSummary)              {}

// NopMetrics discards everything.
func NopMetrics() Metrics { return nopMetrics{} }

//Personal.AI order the ending
