// Package model holds the read-only view of a genome-scale metabolic model
// that the cache builder consumes.  Parsing the native SBML file is somebody
// else's job; this package accepts the cobra-style JSON export of a model
// and exposes metabolites and reactions in document order.
package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/turtacn/gem-thermo/pkg/errors"
)

// Well-known annotation namespaces.
const (
	NamespaceKEGGCompound = "kegg.compound"
	NamespaceChEBI        = "chebi"
	NamespaceMetaNetX     = "metanetx.chemical"
	NamespaceBiGG         = "bigg.metabolite"
	NamespaceKEGGReaction = "kegg.reaction"
	NamespaceECCode       = "ec-code"
)

// ─────────────────────────────────────────────────────────────────────────────
// Annotation
// ─────────────────────────────────────────────────────────────────────────────

// Annotation maps a namespace to one or more external identifiers.  Exports
// write single values as strings and multiple values as lists; both decode
// into a slice.
type Annotation map[string][]string

// First returns the first value for ns, or "".
func (a Annotation) First(ns string) string {
	if vals := a[ns]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// All returns every value for ns.
func (a Annotation) All(ns string) []string {
	return a[ns]
}

// UnmarshalJSON accepts {"ns": "v"} and {"ns": ["v1", "v2"]}.  Numbers are
// kept in their literal form so ChEBI ids written as 15379 survive.
func (a *Annotation) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(Annotation, len(raw))
	for ns, msg := range raw {
		vals, err := annotationValues(msg)
		if err != nil {
			return fmt.Errorf("annotation %q: %w", ns, err)
		}
		if len(vals) > 0 {
			out[ns] = vals
		}
	}
	*a = out
	return nil
}

func annotationValues(msg json.RawMessage) ([]string, error) {
	trimmed := strings.TrimSpace(string(msg))
	switch {
	case trimmed == "null" || trimmed == "":
		return nil, nil
	case strings.HasPrefix(trimmed, "["):
		var items []json.RawMessage
		if err := json.Unmarshal(msg, &items); err != nil {
			return nil, err
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			v, err := scalar(item)
			if err != nil {
				return nil, err
			}
			if v != "" {
				out = append(out, v)
			}
		}
		return out, nil
	default:
		v, err := scalar(msg)
		if err != nil || v == "" {
			return nil, err
		}
		return []string{v}, nil
	}
}

func scalar(msg json.RawMessage) (string, error) {
	trimmed := strings.TrimSpace(string(msg))
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	}
	if _, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return trimmed, nil
	}
	return "", fmt.Errorf("unsupported annotation value %s", trimmed)
}

// ─────────────────────────────────────────────────────────────────────────────
// Entities
// ─────────────────────────────────────────────────────────────────────────────

// Metabolite is one compartmentalized species of the model.
type Metabolite struct {
	ID          string
	Name        string
	Compartment string
	Formula     string
	Annotation  Annotation
}

// Term is one (metabolite, coefficient) pair of a reaction.  Negative
// coefficients are substrates.
type Term struct {
	MetaboliteID string
	Coefficient  float64
}

// Reaction is a model reaction with its stoichiometry in document order.
type Reaction struct {
	ID          string
	Name        string
	Metabolites []Term
	Annotation  Annotation
	Subsystem   string
	LowerBound  float64
	UpperBound  float64
}

// KEGGReaction returns the kegg.reaction annotation or "".
func (r *Reaction) KEGGReaction() string {
	return r.Annotation.First(NamespaceKEGGReaction)
}

// ECNumbers returns every ec-code annotation value.
func (r *Reaction) ECNumbers() []string {
	return r.Annotation.All(NamespaceECCode)
}

// Arrow renders the direction implied by the flux bounds.
func (r *Reaction) Arrow() string {
	switch {
	case r.LowerBound < 0 && r.UpperBound > 0:
		return "<=>"
	case r.LowerBound < 0 && r.UpperBound <= 0:
		return "<--"
	default:
		return "-->"
	}
}

// Equation renders "a + 2 b --> c" using metabolite ids.
func (r *Reaction) Equation() string {
	var subs, prods []string
	for _, t := range r.Metabolites {
		term := t.MetaboliteID
		if c := abs(t.Coefficient); c != 1 {
			term = FormatCoefficient(c) + " " + t.MetaboliteID
		}
		if t.Coefficient < 0 {
			subs = append(subs, term)
		} else {
			prods = append(prods, term)
		}
	}
	return strings.TrimSpace(strings.Join(subs, " + ") + " " + r.Arrow() + " " + strings.Join(prods, " + "))
}

// FormatCoefficient renders a stoichiometric coefficient in its shortest
// exact decimal form ("2", "0.5", "1e-06").
func FormatCoefficient(c float64) string {
	return strconv.FormatFloat(c, 'g', -1, 64)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// ─────────────────────────────────────────────────────────────────────────────
// Model
// ─────────────────────────────────────────────────────────────────────────────

// Model is an immutable, indexed metabolic model.
type Model struct {
	ID          string
	Metabolites []*Metabolite
	Reactions   []*Reaction

	metIndex map[string]*Metabolite
	rxnIndex map[string]*Reaction
}

// New indexes metabolites and reactions and checks referential integrity:
// ids are unique and every reaction term names a known metabolite.
func New(id string, mets []*Metabolite, rxns []*Reaction) (*Model, error) {
	m := &Model{
		ID:          id,
		Metabolites: mets,
		Reactions:   rxns,
		metIndex:    make(map[string]*Metabolite, len(mets)),
		rxnIndex:    make(map[string]*Reaction, len(rxns)),
	}
	for _, met := range mets {
		if met == nil || met.ID == "" {
			return nil, errors.New(errors.ErrCodeModelInvalid, "metabolite without id")
		}
		if _, dup := m.metIndex[met.ID]; dup {
			return nil, errors.New(errors.ErrCodeModelInvalid, "duplicate metabolite id").WithDetail(met.ID)
		}
		m.metIndex[met.ID] = met
	}
	for _, rxn := range rxns {
		if rxn == nil || rxn.ID == "" {
			return nil, errors.New(errors.ErrCodeModelInvalid, "reaction without id")
		}
		if _, dup := m.rxnIndex[rxn.ID]; dup {
			return nil, errors.New(errors.ErrCodeModelInvalid, "duplicate reaction id").WithDetail(rxn.ID)
		}
		for _, t := range rxn.Metabolites {
			if _, ok := m.metIndex[t.MetaboliteID]; !ok {
				return nil, errors.New(errors.ErrCodeModelInvalid, "reaction references unknown metabolite").
					WithDetailf("reaction=%s metabolite=%s", rxn.ID, t.MetaboliteID)
			}
		}
		m.rxnIndex[rxn.ID] = rxn
	}
	return m, nil
}

// Metabolite looks up a metabolite by id.
func (m *Model) Metabolite(id string) (*Metabolite, bool) {
	met, ok := m.metIndex[id]
	return met, ok
}

// Reaction looks up a reaction by id.
func (m *Model) Reaction(id string) (*Reaction, bool) {
	rxn, ok := m.rxnIndex[id]
	return rxn, ok
}

// Compartments returns the distinct compartment ids, sorted.
func (m *Model) Compartments() []string {
	seen := make(map[string]struct{})
	for _, met := range m.Metabolites {
		seen[met.Compartment] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

//Personal.AI order the ending
