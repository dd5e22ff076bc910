package client

import (
	"time"

	json "github.com/goccy/go-json"
)

// Stats is the body of GET /api/v1/stats.
type Stats struct {
	ReactionsCount int        `json:"reactions_count"`
	CompoundsCount int        `json:"compounds_count"`
	Loaded         bool       `json:"loaded"`
	Available      bool       `json:"available"`
	LoadedAt       *time.Time `json:"loaded_at,omitempty"`
}

// Health is the body of GET /healthz.
type Health struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
	Cache   Stats  `json:"cache"`
}

// Identifiers are the cross-references of a compound.
type Identifiers struct {
	KEGG     *string  `json:"kegg"`
	ChEBI    *string  `json:"chebi"`
	MetaNetX *string  `json:"metanetx"`
	BiGG     *string  `json:"bigg"`
	YeastGEM []string `json:"yeast_gem"`
}

// LookupAttempt records one resolution attempt of a compound.
type LookupAttempt struct {
	Source string `json:"source"`
	Query  string `json:"query"`
	Error  string `json:"error"`
	Found  bool   `json:"found"`
}

// Compound is a compound cache entry.  QueriedAs is nil when the compound
// could not be resolved.
type Compound struct {
	Name            string          `json:"name"`
	QueriedAs       *string         `json:"queried_as"`
	QuerySource     *string         `json:"query_source"`
	MatchedInChIKey *string         `json:"matched_inchi_key"`
	Errors          []LookupAttempt `json:"errors"`
	Identifiers     Identifiers     `json:"identifiers"`
}

// Resolved reports whether the compound was found by the estimation service.
func (c *Compound) Resolved() bool { return c.QueriedAs != nil }

// MetaboliteCompound is the body of GET /api/v1/metabolites/:id/compound.
type MetaboliteCompound struct {
	MetaboliteID string   `json:"metabolite_id"`
	Key          string   `json:"key"`
	Compound     Compound `json:"compound"`
}

// Participant describes one metabolite of a reaction.
type Participant struct {
	Name                string  `json:"name"`
	Coef                float64 `json:"coef"`
	InCache             bool    `json:"in_cache"`
	FoundInEquilibrator bool    `json:"found_in_equilibrator"`
	QueriedAs           *string `json:"queried_as"`
}

// ReactionInfo is the structural part of a reaction entry.
type ReactionInfo struct {
	Equation      string                 `json:"equation"`
	Stoichiometry map[string]float64     `json:"stoichiometry"`
	Metabolites   map[string]Participant `json:"metabolites"`
}

// Thermodynamics carries the ΔG'° estimate.  Method-specific fields are kept
// in Raw.
type Thermodynamics struct {
	Method         string   `json:"method"`
	DGPrime        *float64 `json:"dG_prime"`
	Uncertainty    *float64 `json:"uncertainty"`
	FormulaQueried *string  `json:"formula_queried"`

	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON keeps the complete object in Raw.
func (t *Thermodynamics) UnmarshalJSON(b []byte) error {
	type plain Thermodynamics
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*t = Thermodynamics(p)
	t.Raw = append(json.RawMessage(nil), b...)
	return nil
}

// Detail decodes the method-specific fields into v.
func (t *Thermodynamics) Detail(v interface{}) error {
	if len(t.Raw) == 0 {
		return nil
	}
	return json.Unmarshal(t.Raw, v)
}

// ReactionError is a problem recorded while annotating a reaction.
type ReactionError struct {
	Type             string   `json:"type"`
	Message          string   `json:"message,omitempty"`
	Metabolites      []string `json:"metabolites,omitempty"`
	CouplesAttempted []string `json:"couples_attempted,omitempty"`
	InnerFormula     string   `json:"inner_formula,omitempty"`
	OuterFormula     string   `json:"outer_formula,omitempty"`
}

// References are the reaction's cross-references.
type References struct {
	KEGGReaction *string  `json:"kegg_reaction"`
	EC           []string `json:"ec"`
}

// Reaction is a reaction cache entry.
type Reaction struct {
	Name           string          `json:"name"`
	Reaction       ReactionInfo    `json:"reaction"`
	Thermodynamics Thermodynamics  `json:"thermodynamics"`
	Errors         []ReactionError `json:"errors"`
	References     References      `json:"references"`
}

// metaboliteSearch is the body of GET /api/v1/metabolites.
type metaboliteSearch struct {
	Query       string   `json:"query"`
	Metabolites []string `json:"metabolites"`
}

//Personal.AI order the ending
