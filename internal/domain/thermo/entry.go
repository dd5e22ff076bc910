package thermo

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/turtacn/gem-thermo/pkg/types/common"
)

// Reaction-level error types recorded in Entry.Errors.
const (
	ErrorMetaboliteNotInCache   = "metabolite_not_in_cache"
	ErrorNotFoundInEquilibrator = "not_found_in_equilibrator"
	ErrorEquilibrator           = "equilibrator_error"
	ErrorMulticompartmental     = "multicompartmental_error"
	ErrorProtonPump             = "proton_pump_error"
	ErrorRedoxCarrier           = "redox_carrier_error"
)

// ErrorTypes lists every reaction error type in reporting order.
var ErrorTypes = []string{
	ErrorMetaboliteNotInCache,
	ErrorNotFoundInEquilibrator,
	ErrorEquilibrator,
	ErrorMulticompartmental,
	ErrorProtonPump,
	ErrorRedoxCarrier,
}

// FormulaTransport is the formula_queried value of pure transport reactions.
const FormulaTransport = "transport (no net reaction)"

// ReactionError is one recorded problem.  Only the fields relevant to Type
// are set.
type ReactionError struct {
	Type             string   `json:"type"`
	Message          string   `json:"message,omitempty"`
	Metabolites      []string `json:"metabolites,omitempty"`
	CouplesAttempted []string `json:"couples_attempted,omitempty"`
	InnerFormula     string   `json:"inner_formula,omitempty"`
	OuterFormula     string   `json:"outer_formula,omitempty"`
}

// MetaboliteInfo describes one reaction participant.
type MetaboliteInfo struct {
	Name                string  `json:"name"`
	Coef                float64 `json:"coef"`
	InCache             bool    `json:"in_cache"`
	FoundInEquilibrator bool    `json:"found_in_equilibrator"`
	QueriedAs           *string `json:"queried_as"`
}

// ReactionInfo is the structural part of an entry.
type ReactionInfo struct {
	Equation      string                            `json:"equation"`
	Stoichiometry Stoichiometry                     `json:"stoichiometry"`
	Metabolites   common.OrderedMap[MetaboliteInfo] `json:"metabolites"`
}

// References carries cross-references copied from the model.
type References struct {
	KEGGReaction *string  `json:"kegg_reaction"`
	EC           []string `json:"ec"`
}

// Entry is the reaction cache record.
type Entry struct {
	Name           string          `json:"name"`
	Reaction       ReactionInfo    `json:"reaction"`
	Thermodynamics Thermodynamics  `json:"thermodynamics"`
	Errors         []ReactionError `json:"errors"`
	References     References      `json:"references"`
}

// HasError reports whether an error of type typ was recorded.
func (e *Entry) HasError(typ string) bool {
	for _, er := range e.Errors {
		if er.Type == typ {
			return true
		}
	}
	return false
}

// ─────────────────────────────────────────────────────────────────────────────
// Thermodynamics
// ─────────────────────────────────────────────────────────────────────────────

// MethodDetail holds the fields specific to one method.  Exactly one
// implementation exists per Method.
type MethodDetail interface {
	Method() Method
}

// StandardDetail is the detail of the standard method.  FallbackFrom names
// the method that failed before standard was used.
type StandardDetail struct {
	FallbackFrom Method `json:"fallback_from,omitempty"`
}

// MulticompartmentalDetail is the detail of a multicompartmental estimate.
type MulticompartmentalDetail struct {
	Membrane            string                     `json:"membrane"`
	InnerCompartment    string                     `json:"inner_compartment"`
	OuterCompartment    string                     `json:"outer_compartment"`
	ProtonStoichiometry common.OrderedMap[float64] `json:"proton_stoichiometry"`
	InnerPH             float64                    `json:"inner_pH"`
	OuterPH             float64                    `json:"outer_pH"`
	MembranePotentialMV float64                    `json:"membrane_potential_mV"`
}

// ProtonPumpDetail splits a proton pump's ΔG'° into its chemical and
// membrane parts.
type ProtonPumpDetail struct {
	DGChemistry         float64                    `json:"dG_chemistry"`
	DGMembrane          float64                    `json:"dG_membrane"`
	DGPerProton         float64                    `json:"dG_per_proton"`
	InnerPH             float64                    `json:"inner_pH"`
	OuterPH             float64                    `json:"outer_pH"`
	MembranePotentialMV float64                    `json:"membrane_potential_mV"`
	VectorialProtons    float64                    `json:"vectorial_protons"`
	ProtonStoichiometry common.OrderedMap[float64] `json:"proton_stoichiometry"`
}

// RedoxCarrierDetail lists the couples whose potentials were applied.
type RedoxCarrierDetail struct {
	CouplesUsed []string `json:"couples_used"`
}

// TransportDetail marks a reaction whose compounds cancel out.
type TransportDetail struct{}

// NoneDetail records which methods were tried when all of them failed.
type NoneDetail struct {
	MethodsAttempted []Method `json:"methods_attempted"`
}

func (StandardDetail) Method() Method           { return MethodStandard }
func (MulticompartmentalDetail) Method() Method { return MethodMulticompartmental }
func (ProtonPumpDetail) Method() Method         { return MethodProtonPump }
func (RedoxCarrierDetail) Method() Method       { return MethodRedoxCarrier }
func (TransportDetail) Method() Method          { return MethodTransport }
func (NoneDetail) Method() Method               { return MethodNone }

// Thermodynamics is the tagged union of method results.  The common fields
// are shared by every method; Detail carries the rest and determines Method.
type Thermodynamics struct {
	DGPrime        *float64
	Uncertainty    *float64
	FormulaQueried *string
	Detail         MethodDetail
}

// Method returns the method of Detail, or MethodNone when Detail is unset.
func (t Thermodynamics) Method() Method {
	if t.Detail == nil {
		return MethodNone
	}
	return t.Detail.Method()
}

// HasValue reports whether a ΔG'° value is present.
func (t Thermodynamics) HasValue() bool { return t.DGPrime != nil }

// Valid reports whether the value is present with uncertainty below
// threshold.
func (t Thermodynamics) Valid(threshold float64) bool {
	return t.DGPrime != nil && t.Uncertainty != nil && *t.Uncertainty < threshold
}

// HighUncertainty reports whether the uncertainty is at least threshold.
func (t Thermodynamics) HighUncertainty(threshold float64) bool {
	return t.Uncertainty != nil && *t.Uncertainty >= threshold
}

// IsTransport reports whether the entry is a pure transport reaction.
func (t Thermodynamics) IsTransport() bool {
	return t.Method() == MethodTransport
}

type thermoCommon struct {
	Method         Method   `json:"method"`
	DGPrime        *float64 `json:"dG_prime"`
	Uncertainty    *float64 `json:"uncertainty"`
	FormulaQueried *string  `json:"formula_queried"`
}

// MarshalJSON writes the common fields followed by the detail's fields in a
// single flat object.
func (t Thermodynamics) MarshalJSON() ([]byte, error) {
	head, err := json.Marshal(thermoCommon{
		Method:         t.Method(),
		DGPrime:        t.DGPrime,
		Uncertainty:    t.Uncertainty,
		FormulaQueried: t.FormulaQueried,
	})
	if err != nil {
		return nil, err
	}
	if t.Detail == nil {
		return head, nil
	}
	tail, err := json.Marshal(t.Detail)
	if err != nil {
		return nil, err
	}
	tail = bytes.TrimSpace(tail)
	if len(tail) <= 2 {
		return head, nil
	}
	out := make([]byte, 0, len(head)+len(tail))
	out = append(out, head[:len(head)-1]...)
	out = append(out, ',')
	out = append(out, tail[1:]...)
	return out, nil
}

// UnmarshalJSON reads the flat object and selects the detail type from the
// method field.
func (t *Thermodynamics) UnmarshalJSON(b []byte) error {
	var head thermoCommon
	if err := json.Unmarshal(b, &head); err != nil {
		return err
	}
	var detail MethodDetail
	switch head.Method {
	case MethodStandard:
		var d StandardDetail
		if err := json.Unmarshal(b, &d); err != nil {
			return err
		}
		detail = d
	case MethodMulticompartmental:
		var d MulticompartmentalDetail
		if err := json.Unmarshal(b, &d); err != nil {
			return err
		}
		detail = d
	case MethodProtonPump:
		var d ProtonPumpDetail
		if err := json.Unmarshal(b, &d); err != nil {
			return err
		}
		detail = d
	case MethodRedoxCarrier:
		var d RedoxCarrierDetail
		if err := json.Unmarshal(b, &d); err != nil {
			return err
		}
		detail = d
	case MethodTransport:
		detail = TransportDetail{}
	case MethodNone, "":
		var d NoneDetail
		if err := json.Unmarshal(b, &d); err != nil {
			return err
		}
		detail = d
	default:
		return fmt.Errorf("thermodynamics: unknown method %q", head.Method)
	}
	*t = Thermodynamics{
		DGPrime:        head.DGPrime,
		Uncertainty:    head.Uncertainty,
		FormulaQueried: head.FormulaQueried,
		Detail:         detail,
	}
	return nil
}

//Personal.AI order the ending
