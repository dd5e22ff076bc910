// Package pipeline assembles the compound and reaction caches for a model and
// hands the resulting documents to the configured publishers.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/turtacn/gem-thermo/internal/domain/cache"
	"github.com/turtacn/gem-thermo/internal/domain/compound"
	"github.com/turtacn/gem-thermo/internal/domain/model"
	"github.com/turtacn/gem-thermo/internal/domain/thermo"
	"github.com/turtacn/gem-thermo/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/gem-thermo/pkg/errors"
	"github.com/turtacn/gem-thermo/pkg/types/common"
)

// DefaultHighUncertaintyThreshold separates valid ΔG values from
// high-uncertainty ones in summaries, in kJ/mol.
const DefaultHighUncertaintyThreshold = 1000.0

// progressEvery controls how often build progress is logged at info level.
const progressEvery = 100

// CacheBuilder runs the pipeline stages.
type CacheBuilder interface {
	// BuildCompounds resolves every compound group of m.
	BuildCompounds(ctx context.Context, m *model.Model) (cache.CompoundTable, CompoundSummary, error)

	// BuildReactions annotates every reaction of m against compounds.
	BuildReactions(ctx context.Context, m *model.Model, compounds cache.CompoundTable) (cache.ReactionTable, ReactionSummary, error)

	// RunCompounds builds and publishes the compound cache.
	RunCompounds(ctx context.Context, m *model.Model) (*Artifact, error)

	// RunReactions builds and publishes the reaction cache from an existing
	// compound cache.
	RunReactions(ctx context.Context, m *model.Model, compounds cache.CompoundTable) (*Artifact, error)

	// Run builds and publishes both caches.
	Run(ctx context.Context, m *model.Model) (*Artifact, error)
}

// Option configures a builder.
type Option func(*builderImpl)

// WithPublishers adds optional sinks.  Their failures are recorded on the
// artifact without failing the run.
func WithPublishers(sinks ...Publisher) Option {
	return func(b *builderImpl) { b.sinks = append(b.sinks, sinks...) }
}

// WithPrimaryPublisher replaces the sink whose failure fails the run.
func WithPrimaryPublisher(p Publisher) Option {
	return func(b *builderImpl) { b.primary = p }
}

// WithMetrics installs a Metrics implementation.
func WithMetrics(m Metrics) Option {
	return func(b *builderImpl) {
		if m != nil {
			b.metrics = m
		}
	}
}

// WithHighUncertaintyThreshold overrides DefaultHighUncertaintyThreshold.
func WithHighUncertaintyThreshold(v float64) Option {
	return func(b *builderImpl) {
		if v > 0 {
			b.threshold = v
		}
	}
}

// WithClock overrides time.Now for artifact timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *builderImpl) { b.now = now }
}

type builderImpl struct {
	lookup    compound.Lookup
	estimator thermo.Estimator
	conds     *thermo.Conditions
	logger    logging.Logger

	primary   Publisher
	sinks     []Publisher
	metrics   Metrics
	threshold float64
	now       func() time.Time

	resolver  *compound.Resolver
	annotator *thermo.Annotator
}

// NewCacheBuilder wires the resolver and annotator over lookup and estimator.
// conds may be nil, in which case every reaction is handled by the standard
// method unless it is pure transport.
func NewCacheBuilder(lookup compound.Lookup, estimator thermo.Estimator, conds *thermo.Conditions, logger logging.Logger, opts ...Option) CacheBuilder {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if conds == nil {
		conds = thermo.NewConditions()
	}
	b := &builderImpl{
		lookup:    lookup,
		estimator: estimator,
		conds:     conds,
		logger:    logger.Named("pipeline"),
		metrics:   NopMetrics(),
		threshold: DefaultHighUncertaintyThreshold,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}

	b.resolver = compound.NewResolver(lookup, b.logger,
		compound.WithAttemptObserver(b.metrics.ObserveLookup))
	calc := thermo.NewCalculator(estimator, conds, b.logger,
		thermo.WithEstimateObserver(b.metrics.ObserveEstimate))
	b.annotator = thermo.NewAnnotator(thermo.NewClassifier(conds), calc)
	return b
}

// ─────────────────────────────────────────────────────────────────────────────
// Compound stage
// ─────────────────────────────────────────────────────────────────────────────

func (b *builderImpl) BuildCompounds(ctx context.Context, m *model.Model) (cache.CompoundTable, CompoundSummary, error) {
	groups := compound.GroupMetabolites(m.Metabolites)
	table := common.NewOrderedMap[*compound.Entry](len(groups))
	merged := 0

	b.logger.Info("resolving compounds",
		logging.Int("metabolites", len(m.Metabolites)),
		logging.Int("groups", len(groups)))

	for i, g := range groups {
		if err := ctx.Err(); err != nil {
			return cache.CompoundTable{}, CompoundSummary{}, errors.Wrap(err, errors.ErrCodeTimeout, "compound stage interrupted").
				WithDetailf("resolved %d of %d groups", i, len(groups))
		}

		if g.NameKeyed() && len(g.Members) > 1 {
			merged++
			b.logger.Warn("metabolites without identifiers merged by name",
				logging.String("group", g.Key),
				logging.Strings("members", g.MemberIDs()))
		}

		entry := b.resolver.Resolve(ctx, g)
		key := cacheKey(table, entry, g)
		if key != entry.Identifiers.PreferredKey() {
			b.logger.Warn("cache key collision",
				logging.String("preferred", entry.Identifiers.PreferredKey()),
				logging.String("used", key))
		}
		table.Set(key, entry)

		if (i+1)%progressEvery == 0 {
			b.logger.Info("compound progress", logging.Int("done", i+1), logging.Int("total", len(groups)))
		}
	}

	summary := SummarizeCompounds(table)
	summary.MergedByName = merged
	summary.log(b.logger)
	if summary.NameSearch > 0 {
		b.logger.Warn("some compounds were resolved by name only; review them before use",
			logging.Int("count", summary.NameSearch))
	}
	b.metrics.RecordCompoundSummary(summary)
	return table, summary, nil
}

// cacheKey picks the document key for entry: its preferred identifier, then
// the group key, then the group key with a numeric suffix.
func cacheKey(table cache.CompoundTable, entry *compound.Entry, g *compound.Group) string {
	key := entry.Identifiers.PreferredKey()
	if key != "" && !table.Has(key) {
		return key
	}
	if !table.Has(g.Key) {
		return g.Key
	}
	for n := 2; ; n++ {
		k := fmt.Sprintf("%s#%d", g.Key, n)
		if !table.Has(k) {
			return k
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Reaction stage
// ─────────────────────────────────────────────────────────────────────────────

func (b *builderImpl) BuildReactions(ctx context.Context, m *model.Model, compounds cache.CompoundTable) (cache.ReactionTable, ReactionSummary, error) {
	idx := cache.NewSnapshot(compounds, cache.ReactionTable{})
	table := common.NewOrderedMap[*thermo.Entry](len(m.Reactions))

	b.logger.Info("annotating reactions",
		logging.Int("reactions", len(m.Reactions)),
		logging.Int("compounds", compounds.Len()))

	for i, rxn := range m.Reactions {
		if err := ctx.Err(); err != nil {
			return cache.ReactionTable{}, ReactionSummary{}, errors.Wrap(err, errors.ErrCodeTimeout, "reaction stage interrupted").
				WithDetailf("annotated %d of %d reactions", i, len(m.Reactions))
		}
		entry := b.annotator.Annotate(ctx, m, rxn, idx)
		table.Set(rxn.ID, entry)

		if (i+1)%progressEvery == 0 {
			b.logger.Info("reaction progress", logging.Int("done", i+1), logging.Int("total", len(m.Reactions)))
		}
	}

	summary := SummarizeReactions(table, b.threshold)
	summary.log(b.logger)
	b.metrics.RecordReactionSummary(summary)
	return table, summary, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Runs
// ─────────────────────────────────────────────────────────────────────────────

func (b *builderImpl) RunCompounds(ctx context.Context, m *model.Model) (*Artifact, error) {
	return b.run(ctx, m, StageCompounds, func(a *Artifact) error {
		return b.compoundStage(ctx, m, a)
	})
}

func (b *builderImpl) RunReactions(ctx context.Context, m *model.Model, compounds cache.CompoundTable) (*Artifact, error) {
	return b.run(ctx, m, StageReactions, func(a *Artifact) error {
		return b.reactionStage(ctx, m, compounds, a)
	})
}

func (b *builderImpl) Run(ctx context.Context, m *model.Model) (*Artifact, error) {
	return b.run(ctx, m, StageAll, func(a *Artifact) error {
		if err := b.compoundStage(ctx, m, a); err != nil {
			return err
		}
		return b.reactionStage(ctx, m, a.Compounds, a)
	})
}

func (b *builderImpl) compoundStage(ctx context.Context, m *model.Model, a *Artifact) error {
	table, summary, err := b.BuildCompounds(ctx, m)
	if err != nil {
		return err
	}
	doc, err := cache.Encode(table)
	if err != nil {
		return err
	}
	a.Compounds, a.CompoundsDocument, a.CompoundSummary = table, doc, &summary
	return nil
}

func (b *builderImpl) reactionStage(ctx context.Context, m *model.Model, compounds cache.CompoundTable, a *Artifact) error {
	table, summary, err := b.BuildReactions(ctx, m, compounds)
	if err != nil {
		return err
	}
	doc, err := cache.Encode(table)
	if err != nil {
		return err
	}
	a.Reactions, a.ReactionsDocument, a.ReactionSummary = table, doc, &summary
	return nil
}

func (b *builderImpl) run(ctx context.Context, m *model.Model, stage string, build func(*Artifact) error) (*Artifact, error) {
	if m == nil {
		return nil, errors.New(errors.ErrCodeModelEmpty, "no model loaded")
	}
	a := &Artifact{
		RunID:     common.NewRunID(),
		ModelID:   m.ID,
		Stage:     stage,
		StartedAt: common.Timestamp(b.now().UTC()),
	}
	logger := b.logger.With(logging.String("run_id", a.RunID.String()), logging.String("stage", stage))
	logger.Info("pipeline run started", logging.String("model", m.ID))

	start := time.Now()
	err := build(a)
	if err == nil {
		a.FinishedAt = common.Timestamp(b.now().UTC())
		err = publishAll(ctx, b.primary, b.sinks, a, b.metrics, logger)
	}
	b.metrics.ObserveStage(stage, time.Since(start), err)
	if err != nil {
		logger.Error("pipeline run failed", logging.Err(err))
		return nil, err
	}

	logger.Info("pipeline run finished",
		logging.Duration("elapsed", time.Since(start)),
		logging.Int("sink_failures", len(a.SinkFailures)))
	return a, nil
}

//Personal.AI order the ending
