package cli

import (
	"context"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/gem-thermo/internal/application/pipeline"
	"github.com/turtacn/gem-thermo/internal/config"
	"github.com/turtacn/gem-thermo/internal/domain/cache"
	"github.com/turtacn/gem-thermo/internal/domain/model"
	"github.com/turtacn/gem-thermo/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/gem-thermo/pkg/errors"
)

// NewCompoundsCmd builds the compound cache.
func NewCompoundsCmd() *cobra.Command {
	flags := &pipelineFlags{}
	cmd := &cobra.Command{
		Use:   "compounds",
		Short: "Resolve the model's compounds and write the compound cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStage(cmd, flags, pipeline.StageCompounds)
		},
	}
	flags.register(cmd)
	return cmd
}

// NewReactionsCmd builds the reaction cache from an existing compound cache.
func NewReactionsCmd() *cobra.Command {
	flags := &pipelineFlags{}
	cmd := &cobra.Command{
		Use:   "reactions",
		Short: "Compute ΔG'° for every reaction and write the reaction cache",
		Long:  "Compute ΔG'° for every reaction of the model against the compound cache\nwritten by a previous `gemthermo compounds` run.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStage(cmd, flags, pipeline.StageReactions)
		},
	}
	flags.register(cmd)
	return cmd
}

// NewBuildCmd runs both stages.
func NewBuildCmd() *cobra.Command {
	flags := &pipelineFlags{}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the compound and reaction caches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStage(cmd, flags, pipeline.StageAll)
		},
	}
	flags.register(cmd)
	return cmd
}

func runStage(cmd *cobra.Command, flags *pipelineFlags, stage string) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	cfg := cliCtx.Config
	if err := flags.apply(cfg, true); err != nil {
		return err
	}

	a, err := buildOnce(cmd.Context(), cfg, cliCtx.Logger, pipeline.NopMetrics(), stage)
	if err != nil {
		return err
	}
	return PrintResult(cmd, newRunResult(a, cfg.Pipeline))
}

// buildOnce loads the inputs, wires a runtime and runs stage.
func buildOnce(ctx context.Context, cfg *config.Config, logger logging.Logger, metrics pipeline.Metrics, stage string) (*pipeline.Artifact, error) {
	m, err := model.ReadFile(cfg.Pipeline.ModelPath)
	if err != nil {
		return nil, err
	}
	logger.Info("model loaded",
		logging.String("model", m.ID),
		logging.Int("metabolites", len(m.Metabolites)),
		logging.Int("reactions", len(m.Reactions)))

	var compounds cache.CompoundTable
	if stage == pipeline.StageReactions {
		path := cfg.Pipeline.CompoundsPath()
		t, ok, err := cache.ReadCompoundsFile(path)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.New(errors.ErrCodeCacheReadFailed, "compound cache not found; run `gemthermo compounds` first").WithDetail(path)
		}
		compounds = t
	}

	rt, err := newPipelineRuntime(ctx, cfg, m, logger, metrics)
	if err != nil {
		return nil, err
	}
	defer rt.Close()
	if len(rt.Sinks) > 0 {
		logger.Info("optional sinks enabled", logging.Strings("sinks", rt.Sinks))
	}

	switch stage {
	case pipeline.StageCompounds:
		return rt.Builder.RunCompounds(ctx, m)
	case pipeline.StageReactions:
		return rt.Builder.RunReactions(ctx, m, compounds)
	default:
		return rt.Builder.Run(ctx, m)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Result view
// ─────────────────────────────────────────────────────────────────────────────

// runResult is printed after a pipeline run.
type runResult struct {
	RunID         string                    `json:"run_id"`
	ModelID       string                    `json:"model_id"`
	Stage         string                    `json:"stage"`
	CompoundsPath string                    `json:"compounds_path,omitempty"`
	ReactionsPath string                    `json:"reactions_path,omitempty"`
	Compounds     *pipeline.CompoundSummary `json:"compounds,omitempty"`
	Reactions     *pipeline.ReactionSummary `json:"reactions,omitempty"`
	SinkFailures  []pipeline.SinkFailure    `json:"sink_failures,omitempty"`
}

func newRunResult(a *pipeline.Artifact, p config.PipelineConfig) *runResult {
	r := &runResult{
		RunID:        a.RunID.String(),
		ModelID:      a.ModelID,
		Stage:        a.Stage,
		Compounds:    a.CompoundSummary,
		Reactions:    a.ReactionSummary,
		SinkFailures: a.SinkFailures,
	}
	if a.HasCompounds() {
		r.CompoundsPath = p.CompoundsPath()
	}
	if a.HasReactions() {
		r.ReactionsPath = p.ReactionsPath()
	}
	return r
}

func (r *runResult) TableHeaders() []string { return []string{"METRIC", "VALUE"} }

func (r *runResult) TableRows() [][]string {
	rows := [][]string{
		{"run_id", r.RunID},
		{"model", r.ModelID},
		{"stage", r.Stage},
	}
	if c := r.Compounds; c != nil {
		rows = append(rows,
			[]string{"compounds.file", r.CompoundsPath},
			[]string{"compounds.total", strconv.Itoa(c.Total)},
			[]string{"compounds.found", strconv.Itoa(c.Found)},
			[]string{"compounds.not_found", strconv.Itoa(c.NotFound)},
			[]string{"compounds.name_search", strconv.Itoa(c.NameSearch)},
			[]string{"compounds.merged_by_name", strconv.Itoa(c.MergedByName)},
		)
		rows = append(rows, countRows("compounds.source.", c.BySource)...)
	}
	if s := r.Reactions; s != nil {
		rows = append(rows,
			[]string{"reactions.file", r.ReactionsPath},
			[]string{"reactions.total", strconv.Itoa(s.Total)},
			[]string{"reactions.valid", strconv.Itoa(s.Valid)},
			[]string{"reactions.high_uncertainty", strconv.Itoa(s.HighUncertainty)},
			[]string{"reactions.transport", strconv.Itoa(s.Transport)},
		)
		rows = append(rows, countRows("reactions.method.", s.ByMethod)...)
		rows = append(rows, countRows("reactions.error.", s.ByError)...)
	}
	for _, f := range r.SinkFailures {
		rows = append(rows, []string{"sink_failed." + f.Sink, f.Error})
	}
	return rows
}

// countRows renders a count map as sorted rows.
func countRows(prefix string, counts map[string]int) [][]string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{prefix + k, strconv.Itoa(counts[k])})
	}
	return rows
}

//Personal.AI order the ending
