package pipeline

import (
	"github.com/turtacn/gem-thermo/internal/domain/cache"
	"github.com/turtacn/gem-thermo/internal/domain/compound"
	"github.com/turtacn/gem-thermo/internal/domain/thermo"
	"github.com/turtacn/gem-thermo/internal/infrastructure/monitoring/logging"
)

// CompoundSummary counts compound resolution outcomes.
type CompoundSummary struct {
	Total    int            `json:"total"`
	Found    int            `json:"found"`
	NotFound int            `json:"not_found"`
	BySource map[string]int `json:"by_source"`

	// NameSearch counts compounds resolved only by name.
	NameSearch int `json:"name_search"`

	// MergedByName counts identifier-less groups with more than one member.
	MergedByName int `json:"merged_by_name"`
}

// ReactionSummary counts reaction outcomes.
type ReactionSummary struct {
	Total           int            `json:"total"`
	Valid           int            `json:"valid"`
	HighUncertainty int            `json:"high_uncertainty"`
	Transport       int            `json:"transport"`
	ByMethod        map[string]int `json:"by_method"`
	ByError         map[string]int `json:"by_error"`
}

// SummarizeCompounds derives a CompoundSummary from a compound table.
func SummarizeCompounds(t cache.CompoundTable) CompoundSummary {
	s := CompoundSummary{BySource: map[string]int{}}
	t.Range(func(_ string, e *compound.Entry) bool {
		s.Total++
		if !e.Resolved() {
			s.NotFound++
			return true
		}
		s.Found++
		s.BySource[e.Source()]++
		if e.Source() == compound.SourceNameSearch {
			s.NameSearch++
		}
		return true
	})
	return s
}

// SummarizeReactions derives a ReactionSummary from a reaction table.
// Entries whose uncertainty is at least threshold count as high
// uncertainty; the rest with a value count as valid.  Each error type is
// counted once per reaction.
func SummarizeReactions(t cache.ReactionTable, threshold float64) ReactionSummary {
	s := ReactionSummary{ByMethod: map[string]int{}, ByError: map[string]int{}}
	t.Range(func(_ string, e *thermo.Entry) bool {
		s.Total++
		th := e.Thermodynamics
		if th.Valid(threshold) {
			s.Valid++
		}
		if th.HighUncertainty(threshold) {
			s.HighUncertainty++
		}
		if th.IsTransport() {
			s.Transport++
		}
		s.ByMethod[th.Method().String()]++
		seen := make(map[string]struct{}, len(e.Errors))
		for _, er := range e.Errors {
			if _, dup := seen[er.Type]; dup {
				continue
			}
			seen[er.Type] = struct{}{}
			s.ByError[er.Type]++
		}
		return true
	})
	return s
}

func (s CompoundSummary) log(logger logging.Logger) {
	logger.Info("compound cache summary",
		logging.Int("total", s.Total),
		logging.Int("found", s.Found),
		logging.Int("not_found", s.NotFound),
		logging.Any("by_source", s.BySource),
		logging.Int("name_search", s.NameSearch),
		logging.Int("merged_by_name", s.MergedByName))
}

func (s ReactionSummary) log(logger logging.Logger) {
	logger.Info("reaction cache summary",
		logging.Int("total", s.Total),
		logging.Int("valid", s.Valid),
		logging.Int("high_uncertainty", s.HighUncertainty),
		logging.Int("transport", s.Transport),
		logging.Any("by_method", s.ByMethod),
		logging.Any("by_error", s.ByError))
}

//Personal.AI order the ending
