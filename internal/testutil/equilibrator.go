package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/turtacn/gem-thermo/internal/domain/compound"
	"github.com/turtacn/gem-thermo/internal/domain/thermo"
)

// Estimation service paths served by FakeEquilibrator.
const (
	PathCompoundSearch       = "/v1/compounds/search"
	PathCompoundSearchByName = "/v1/compounds/search-by-name"
	PathReactionParse        = "/v1/reactions/parse"
	PathStandardDG           = "/v1/reactions/standard-dg"
	PathStandardDGPhased     = "/v1/reactions/standard-dg/phased"
	PathMulticompartmentalDG = "/v1/reactions/multicompartmental-dg"
)

// DefaultEstimate is returned for formulas without a configured estimate.
var DefaultEstimate = thermo.Estimate{DGPrime: -10, Uncertainty: 2}

// FakeEquilibrator is an in-process estimation service.  Unknown compounds
// answer 404; every formula parses as balanced.
type FakeEquilibrator struct {
	server *httptest.Server

	mu        sync.Mutex
	byQuery   map[string]compound.Match
	byName    map[string]compound.Match
	estimates map[string]thermo.Estimate
	failing   map[string]bool
	calls     map[string]int
}

// NewFakeEquilibrator starts a fake service that is closed with the test.
func NewFakeEquilibrator(t testing.TB) *FakeEquilibrator {
	t.Helper()
	f := &FakeEquilibrator{
		byQuery:   map[string]compound.Match{},
		byName:    map[string]compound.Match{},
		estimates: map[string]thermo.Estimate{},
		failing:   map[string]bool{},
		calls:     map[string]int{},
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

// URL is the service base URL.
func (f *FakeEquilibrator) URL() string { return f.server.URL }

// AddCompound makes query ("namespace:id") resolvable.
func (f *FakeEquilibrator) AddCompound(query, inchiKey string) *FakeEquilibrator {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byQuery[query] = compound.Match{ID: query, InChIKey: inchiKey}
	return f
}

// AddName makes name resolvable by name search.
func (f *FakeEquilibrator) AddName(name, inchiKey string) *FakeEquilibrator {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byName[name] = compound.Match{ID: name, InChIKey: inchiKey}
	return f
}

// SetEstimate fixes the standard ΔG'° answered for formula.
func (f *FakeEquilibrator) SetEstimate(formula string, est thermo.Estimate) *FakeEquilibrator {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.estimates[formula] = est
	return f
}

// FailFormula makes every estimate of formula answer 500.
func (f *FakeEquilibrator) FailFormula(formula string) *FakeEquilibrator {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing[formula] = true
	return f
}

// Calls returns how many requests hit path.
func (f *FakeEquilibrator) Calls(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

func (f *FakeEquilibrator) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.calls[r.URL.Path]++
	f.mu.Unlock()

	switch r.URL.Path {
	case PathCompoundSearch:
		f.lookup(w, f.byQuery, r.URL.Query().Get("query"))
	case PathCompoundSearchByName:
		f.lookup(w, f.byName, r.URL.Query().Get("name"))
	case PathReactionParse:
		var req struct {
			Formula string `json:"formula"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, thermo.ParsedReaction{Formula: req.Formula, Balanced: true})
	case PathStandardDG:
		var req struct {
			Reaction thermo.ParsedReaction `json:"reaction"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
			return
		}
		f.estimate(w, req.Reaction.Formula)
	case PathStandardDGPhased, PathMulticompartmentalDG:
		f.estimate(w, "")
	default:
		http.NotFound(w, r)
	}
}

func (f *FakeEquilibrator) lookup(w http.ResponseWriter, table map[string]compound.Match, key string) {
	f.mu.Lock()
	m, ok := table[key]
	f.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"code": "not_found", "message": "no compound matches " + key})
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (f *FakeEquilibrator) estimate(w http.ResponseWriter, formula string) {
	f.mu.Lock()
	fail := f.failing[formula]
	est, ok := f.estimates[formula]
	f.mu.Unlock()
	if fail {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "estimation failed"})
		return
	}
	if !ok {
		est = DefaultEstimate
	}
	writeJSON(w, http.StatusOK, est)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

//Personal.AI order the ending
