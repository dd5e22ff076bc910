package prometheus

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/gem-thermo/internal/application/pipeline"
	"github.com/turtacn/gem-thermo/internal/domain/cache"
	"github.com/turtacn/gem-thermo/internal/domain/thermo"
)

func TestAppMetrics_PipelineObservations(t *testing.T) {
	t.Parallel()
	c := newTestCollector(t)
	m := NewAppMetrics(c)

	m.ObserveLookup("kegg", true, 100*time.Millisecond)
	m.ObserveLookup("kegg", false, 50*time.Millisecond)
	m.ObserveEstimate(thermo.MethodStandard, true, time.Second)
	m.ObserveStage(pipeline.StageCompounds, time.Minute, nil)
	m.ObserveStage(pipeline.StageReactions, time.Minute, errors.New("boom"))
	m.ObservePublish("kafka", errors.New("down"))

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_lookups_total{result="found",source="kegg"} 1`)
	assert.Contains(t, out, `test_unit_lookups_total{result="not_found",source="kegg"} 1`)
	assert.Contains(t, out, `test_unit_estimates_total{method="standard",result="success"} 1`)
	assert.Contains(t, out, `test_unit_stage_runs_total{stage="compounds",status="success"} 1`)
	assert.Contains(t, out, `test_unit_stage_runs_total{stage="reactions",status="failure"} 1`)
	assert.Contains(t, out, `test_unit_publish_total{sink="kafka",status="failure"} 1`)
}

func TestAppMetrics_Summaries(t *testing.T) {
	t.Parallel()
	c := newTestCollector(t)
	m := NewAppMetrics(c)

	m.RecordCompoundSummary(pipeline.CompoundSummary{
		Total: 7, Found: 6, NotFound: 1, BySource: map[string]int{"kegg": 5, "chebi": 1},
	})
	m.RecordCompoundSummary(pipeline.CompoundSummary{
		Total: 7, Found: 6, NotFound: 1, BySource: map[string]int{"kegg": 6},
	})
	m.RecordReactionSummary(pipeline.ReactionSummary{
		Total: 3, Valid: 2, Transport: 1,
		ByMethod: map[string]int{"standard": 1, "transport": 1, "none": 1},
		ByError:  map[string]int{thermo.ErrorEquilibrator: 1},
	})

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_compounds_last_run{state="found"} 6`)
	assert.Contains(t, out, `test_unit_compounds_by_source_last_run{source="kegg"} 6`)
	assert.NotContains(t, out, `source="chebi"`)
	assert.Contains(t, out, `test_unit_reactions_last_run{state="valid"} 2`)
	assert.Contains(t, out, `test_unit_reactions_by_method_last_run{method="none"} 1`)
	assert.Contains(t, out, `test_unit_reaction_errors_last_run{type="equilibrator_error"} 1`)
}

func TestAppMetrics_HTTPAndSnapshot(t *testing.T) {
	t.Parallel()
	c := newTestCollector(t)
	m := NewAppMetrics(c)

	m.RecordHTTPRequest("GET", "/api/v1/reactions/:id", 404, 2*time.Millisecond)
	m.RecordSnapshotReload(cache.Stats{ReactionsCount: 3, CompoundsCount: 7, Loaded: true}, nil)
	m.RecordSnapshotReload(cache.Stats{}, errors.New("bad json"))

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_http_requests_total{method="GET",path="/api/v1/reactions/:id",status_code="404"} 1`)
	assert.Contains(t, out, `test_unit_snapshot_reloads_total{status="success"} 1`)
	assert.Contains(t, out, `test_unit_snapshot_reloads_total{status="failure"} 1`)
	assert.Contains(t, out, `test_unit_snapshot_entries{table="compounds"} 7`)
}

//Personal.AI order the ending
