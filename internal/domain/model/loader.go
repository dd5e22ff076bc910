package model

import (
	"io"
	"os"

	json "github.com/goccy/go-json"

	"github.com/turtacn/gem-thermo/pkg/errors"
	"github.com/turtacn/gem-thermo/pkg/types/common"
)

// document mirrors the cobra JSON export.  Unknown keys (genes, compartments,
// objective) are ignored.
type document struct {
	ID          string               `json:"id"`
	Metabolites []metaboliteDocument `json:"metabolites"`
	Reactions   []reactionDocument   `json:"reactions"`
}

type metaboliteDocument struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Compartment string     `json:"compartment"`
	Formula     string     `json:"formula"`
	Annotation  Annotation `json:"annotation"`
}

type reactionDocument struct {
	ID          string                     `json:"id"`
	Name        string                     `json:"name"`
	Metabolites common.OrderedMap[float64] `json:"metabolites"`
	Annotation  Annotation                 `json:"annotation"`
	Subsystem   json.RawMessage            `json:"subsystem"`
	LowerBound  *float64                   `json:"lower_bound"`
	UpperBound  *float64                   `json:"upper_bound"`
}

// Default flux bounds applied when a reaction omits them.
const (
	DefaultLowerBound = -1000.0
	DefaultUpperBound = 1000.0
)

// ReadFile loads a model from a cobra JSON file.  Any failure is fatal for a
// pipeline run and is reported as ErrCodeModelReadFailed or
// ErrCodeModelInvalid.
func ReadFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeModelReadFailed, "open model").WithDetail(path)
	}
	defer f.Close()

	m, err := Decode(f)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "load model").WithDetail(path)
	}
	return m, nil
}

// Decode reads a cobra JSON document from r.
func Decode(r io.Reader) (*Model, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeModelInvalid, "decode model document")
	}
	if len(doc.Metabolites) == 0 {
		return nil, errors.New(errors.ErrCodeModelEmpty, "model has no metabolites")
	}

	mets := make([]*Metabolite, 0, len(doc.Metabolites))
	for _, md := range doc.Metabolites {
		mets = append(mets, &Metabolite{
			ID:          md.ID,
			Name:        md.Name,
			Compartment: md.Compartment,
			Formula:     md.Formula,
			Annotation:  md.Annotation,
		})
	}

	rxns := make([]*Reaction, 0, len(doc.Reactions))
	for _, rd := range doc.Reactions {
		rxn := &Reaction{
			ID:         rd.ID,
			Name:       rd.Name,
			Annotation: rd.Annotation,
			Subsystem:  subsystem(rd.Subsystem),
			LowerBound: DefaultLowerBound,
			UpperBound: DefaultUpperBound,
		}
		if rd.LowerBound != nil {
			rxn.LowerBound = *rd.LowerBound
		}
		if rd.UpperBound != nil {
			rxn.UpperBound = *rd.UpperBound
		}
		rd.Metabolites.Range(func(id string, coef float64) bool {
			rxn.Metabolites = append(rxn.Metabolites, Term{MetaboliteID: id, Coefficient: coef})
			return true
		})
		rxns = append(rxns, rxn)
	}

	return New(doc.ID, mets, rxns)
}

// subsystem accepts either a string or a list of strings (newer exports) and
// returns the first entry.
func subsystem(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return list[0]
	}
	return ""
}

//Personal.AI order the ending
