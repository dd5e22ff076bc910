package thermo

import (
	"context"
)

// Phase classifies a term of a phased query.
type Phase string

const (
	PhaseAqueous      Phase = "aqueous"
	PhaseRedoxCarrier Phase = "redox_carrier"
)

// Estimate is a ΔG'° value with its standard uncertainty, both in kJ/mol.
type Estimate struct {
	DGPrime     float64 `json:"dG_prime"`
	Uncertainty float64 `json:"uncertainty"`
}

// ParsedReaction is a formula the estimation service accepted.
type ParsedReaction struct {
	Formula   string   `json:"formula"`
	Compounds []string `json:"compounds,omitempty"`
	Balanced  bool     `json:"balanced"`
}

// PhasedTerm is one term of a phased query.  PotentialMV is set only for
// redox carriers.
type PhasedTerm struct {
	Compound    string   `json:"compound"`
	Phase       Phase    `json:"phase"`
	PotentialMV *float64 `json:"potential_mV,omitempty"`
	Coefficient float64  `json:"coefficient"`
}

// MulticompartmentalQuery asks for the ΔG'° of a reaction split across a
// membrane.  The inner pH is the ambient pH of the estimate.
type MulticompartmentalQuery struct {
	Inner         *ParsedReaction `json:"inner"`
	Outer         *ParsedReaction `json:"outer"`
	InnerPH       float64         `json:"inner_pH"`
	OuterPH       float64         `json:"outer_pH"`
	PotentialV    float64         `json:"potential_V"`
	IonicStrength float64         `json:"ionic_strength_M"`
}

// Estimator is the external standard-ΔG service.  Implementations must not
// retry; a failed call is reported to the caller, which records it.
type Estimator interface {
	// ParseFormula validates a "a + b = c" formula over resolved identifiers.
	ParseFormula(ctx context.Context, formula string) (*ParsedReaction, error)

	// StandardDG estimates ΔG'° of a parsed reaction.
	StandardDG(ctx context.Context, rxn *ParsedReaction) (*Estimate, error)

	// StandardDGPhased estimates ΔG'° of a reaction given as phased terms.
	StandardDGPhased(ctx context.Context, terms []PhasedTerm) (*Estimate, error)

	// MulticompartmentalDG estimates ΔG'° of a transmembrane reaction.
	MulticompartmentalDG(ctx context.Context, q MulticompartmentalQuery) (*Estimate, error)
}

//Personal.AI order the ending
