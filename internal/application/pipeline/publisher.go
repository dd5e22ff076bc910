package pipeline

import (
	"context"
	"sync"

	"github.com/turtacn/gem-thermo/internal/domain/cache"
	"github.com/turtacn/gem-thermo/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/gem-thermo/pkg/errors"
	"github.com/turtacn/gem-thermo/pkg/types/common"
)

// Artifact is the outcome of one pipeline run.  A compounds-only run leaves
// the reaction fields empty and vice versa.
type Artifact struct {
	RunID      common.RunID
	ModelID    string
	Stage      string
	StartedAt  common.Timestamp
	FinishedAt common.Timestamp

	Compounds         cache.CompoundTable
	CompoundsDocument []byte
	CompoundSummary   *CompoundSummary

	Reactions         cache.ReactionTable
	ReactionsDocument []byte
	ReactionSummary   *ReactionSummary

	// SinkFailures lists optional sinks that rejected the artifact, in the
	// order the sinks were configured.
	SinkFailures []SinkFailure
}

// HasCompounds reports whether the artifact carries a compound document.
func (a *Artifact) HasCompounds() bool { return a != nil && a.CompoundsDocument != nil }

// HasReactions reports whether the artifact carries a reaction document.
func (a *Artifact) HasReactions() bool { return a != nil && a.ReactionsDocument != nil }

// SinkFailure records one failed optional publish.
type SinkFailure struct {
	Sink  string `json:"sink"`
	Error string `json:"error"`
}

// Publisher delivers an artifact somewhere.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, a *Artifact) error
}

// ─────────────────────────────────────────────────────────────────────────────
// File writer
// ─────────────────────────────────────────────────────────────────────────────

// FileWriter writes the cache documents to disk.  It is the primary sink:
// its failure fails the run.
type FileWriter struct {
	compoundsPath string
	reactionsPath string
}

// NewFileWriter builds a FileWriter for the two document paths.
func NewFileWriter(compoundsPath, reactionsPath string) *FileWriter {
	return &FileWriter{compoundsPath: compoundsPath, reactionsPath: reactionsPath}
}

// Name implements Publisher.
func (w *FileWriter) Name() string { return "file" }

// Publish writes whichever documents the artifact carries.
func (w *FileWriter) Publish(_ context.Context, a *Artifact) error {
	if a.HasCompounds() {
		if err := cache.WriteFile(w.compoundsPath, a.CompoundsDocument); err != nil {
			return err
		}
	}
	if a.HasReactions() {
		if err := cache.WriteFile(w.reactionsPath, a.ReactionsDocument); err != nil {
			return err
		}
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Fan-out
// ─────────────────────────────────────────────────────────────────────────────

// publishAll publishes to the primary sink and, once that succeeded, to every
// optional sink concurrently.  Optional failures are logged and recorded on
// the artifact but never returned.
func publishAll(ctx context.Context, primary Publisher, sinks []Publisher, a *Artifact, metrics Metrics, logger logging.Logger) error {
	if primary != nil {
		err := primary.Publish(ctx, a)
		metrics.ObservePublish(primary.Name(), err)
		if err != nil {
			return errors.Wrap(err, errors.CodeUnknown, "publish to "+primary.Name())
		}
	}
	if len(sinks) == 0 {
		return nil
	}

	failures := make([]*SinkFailure, len(sinks))
	var wg sync.WaitGroup
	for i, s := range sinks {
		wg.Add(1)
		go func(i int, s Publisher) {
			defer wg.Done()
			err := s.Publish(ctx, a)
			metrics.ObservePublish(s.Name(), err)
			if err != nil {
				logger.Error("optional sink failed",
					logging.String("sink", s.Name()),
					logging.String("run_id", a.RunID.String()),
					logging.Err(err))
				failures[i] = &SinkFailure{Sink: s.Name(), Error: errors.Describe(err)}
			}
		}(i, s)
	}
	wg.Wait()

	for _, f := range failures {
		if f != nil {
			a.SinkFailures = append(a.SinkFailures, *f)
		}
	}
	return nil
}

//Personal.AI order the ending
