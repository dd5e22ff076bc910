package prometheus

import (
	"strconv"
	"time"

	"github.com/turtacn/gem-thermo/internal/application/pipeline"
	"github.com/turtacn/gem-thermo/internal/domain/cache"
	"github.com/turtacn/gem-thermo/internal/domain/thermo"
)

// Default Buckets
var (
	DefaultHTTPDurationBuckets    = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1}
	DefaultServiceDurationBuckets = []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30}
	DefaultStageDurationBuckets   = []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800, 3600}
)

// AppMetrics holds all application metrics.
type AppMetrics struct {
	// Pipeline
	LookupsTotal          CounterVec
	LookupDuration        HistogramVec
	EstimatesTotal        CounterVec
	EstimateDuration      HistogramVec
	StageRunsTotal        CounterVec
	StageDuration         HistogramVec
	PublishTotal          CounterVec
	CompoundsLastRun      GaugeVec
	CompoundsBySource     GaugeVec
	ReactionsLastRun      GaugeVec
	ReactionsByMethod     GaugeVec
	ReactionErrorsLastRun GaugeVec

	// Read API
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	SnapshotReloads     CounterVec
	SnapshotEntries     GaugeVec
}

var _ pipeline.Metrics = (*AppMetrics)(nil)

// NewAppMetrics registers all metrics and returns AppMetrics struct.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.LookupsTotal = collector.RegisterCounter("lookups_total", "Compound lookups by source and result", "source", "result")
	m.LookupDuration = collector.RegisterHistogram("lookup_duration_seconds", "Compound lookup duration", DefaultServiceDurationBuckets, "source")
	m.EstimatesTotal = collector.RegisterCounter("estimates_total", "dG estimation calls by method and result", "method", "result")
	m.EstimateDuration = collector.RegisterHistogram("estimate_duration_seconds", "dG estimation call duration", DefaultServiceDurationBuckets, "method")
	m.StageRunsTotal = collector.RegisterCounter("stage_runs_total", "Pipeline stage runs", "stage", "status")
	m.StageDuration = collector.RegisterHistogram("stage_duration_seconds", "Pipeline stage duration", DefaultStageDurationBuckets, "stage")
	m.PublishTotal = collector.RegisterCounter("publish_total", "Artifact publishes by sink and status", "sink", "status")
	m.CompoundsLastRun = collector.RegisterGauge("compounds_last_run", "Compound counts of the last compound stage", "state")
	m.CompoundsBySource = collector.RegisterGauge("compounds_by_source_last_run", "Resolved compounds by identifier source in the last run", "source")
	m.ReactionsLastRun = collector.RegisterGauge("reactions_last_run", "Reaction counts of the last reaction stage", "state")
	m.ReactionsByMethod = collector.RegisterGauge("reactions_by_method_last_run", "Reactions by calculation method in the last run", "method")
	m.ReactionErrorsLastRun = collector.RegisterGauge("reaction_errors_last_run", "Reactions carrying each error type in the last run", "type")

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.SnapshotReloads = collector.RegisterCounter("snapshot_reloads_total", "Cache snapshot reloads", "status")
	m.SnapshotEntries = collector.RegisterGauge("snapshot_entries", "Entries in the served snapshot", "table")

	return m
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

// ObserveLookup implements pipeline.Metrics.
func (m *AppMetrics) ObserveLookup(source string, found bool, elapsed time.Duration) {
	r := "found"
	if !found {
		r = "not_found"
	}
	m.LookupsTotal.WithLabelValues(source, r).Inc()
	m.LookupDuration.WithLabelValues(source).Observe(elapsed.Seconds())
}

// ObserveEstimate implements pipeline.Metrics.
func (m *AppMetrics) ObserveEstimate(method thermo.Method, ok bool, elapsed time.Duration) {
	m.EstimatesTotal.WithLabelValues(string(method), result(ok)).Inc()
	m.EstimateDuration.WithLabelValues(string(method)).Observe(elapsed.Seconds())
}

// ObserveStage implements pipeline.Metrics.
func (m *AppMetrics) ObserveStage(stage string, elapsed time.Duration, err error) {
	m.StageRunsTotal.WithLabelValues(stage, result(err == nil)).Inc()
	m.StageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
}

// ObservePublish implements pipeline.Metrics.
func (m *AppMetrics) ObservePublish(sink string, err error) {
	m.PublishTotal.WithLabelValues(sink, result(err == nil)).Inc()
}

// RecordCompoundSummary implements pipeline.Metrics.  Per-source gauges are
// reset so sources absent from this run drop out.
func (m *AppMetrics) RecordCompoundSummary(s pipeline.CompoundSummary) {
	m.CompoundsLastRun.WithLabelValues("total").Set(float64(s.Total))
	m.CompoundsLastRun.WithLabelValues("found").Set(float64(s.Found))
	m.CompoundsLastRun.WithLabelValues("not_found").Set(float64(s.NotFound))
	m.CompoundsLastRun.WithLabelValues("name_search").Set(float64(s.NameSearch))
	m.CompoundsLastRun.WithLabelValues("merged_by_name").Set(float64(s.MergedByName))

	m.CompoundsBySource.Reset()
	for source, n := range s.BySource {
		m.CompoundsBySource.WithLabelValues(source).Set(float64(n))
	}
}

// RecordReactionSummary implements pipeline.Metrics.
func (m *AppMetrics) RecordReactionSummary(s pipeline.ReactionSummary) {
	m.ReactionsLastRun.WithLabelValues("total").Set(float64(s.Total))
	m.ReactionsLastRun.WithLabelValues("valid").Set(float64(s.Valid))
	m.ReactionsLastRun.WithLabelValues("high_uncertainty").Set(float64(s.HighUncertainty))
	m.ReactionsLastRun.WithLabelValues("transport").Set(float64(s.Transport))

	m.ReactionsByMethod.Reset()
	for method, n := range s.ByMethod {
		m.ReactionsByMethod.WithLabelValues(method).Set(float64(n))
	}
	m.ReactionErrorsLastRun.Reset()
	for typ, n := range s.ByError {
		m.ReactionErrorsLastRun.WithLabelValues(typ).Set(float64(n))
	}
}

// RecordHTTPRequest records one served request.  path is the route pattern,
// not the raw URL, to bound label cardinality.
func (m *AppMetrics) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordSnapshotReload records a reload attempt and, on success, the sizes
// of the new snapshot.
func (m *AppMetrics) RecordSnapshotReload(stats cache.Stats, err error) {
	m.SnapshotReloads.WithLabelValues(result(err == nil)).Inc()
	if err != nil {
		return
	}
	m.SnapshotEntries.WithLabelValues("reactions").Set(float64(stats.ReactionsCount))
	m.SnapshotEntries.WithLabelValues("compounds").Set(float64(stats.CompoundsCount))
}

//Personal.AI order the ending
