package thermo

import (
	"context"

	"github.com/turtacn/gem-thermo/internal/domain/compound"
	"github.com/turtacn/gem-thermo/internal/domain/model"
	"github.com/turtacn/gem-thermo/pkg/types/common"
)

// CompoundIndex maps model metabolite ids to compound cache entries.
type CompoundIndex interface {
	ByMetaboliteID(metID string) (*compound.Entry, bool)
}

// Annotator turns a model reaction into a reaction cache entry.
type Annotator struct {
	classifier *Classifier
	calculator *Calculator
}

// NewAnnotator builds an Annotator.
func NewAnnotator(classifier *Classifier, calculator *Calculator) *Annotator {
	return &Annotator{classifier: classifier, calculator: calculator}
}

// Annotate builds the entry for rxn.  Metabolite names and compartments are
// read from m; compound identities come from idx.
func (a *Annotator) Annotate(ctx context.Context, m *model.Model, rxn *model.Reaction, idx CompoundIndex) *Entry {
	entry := &Entry{
		Name:   rxn.Name,
		Errors: []ReactionError{},
		References: References{
			EC: rxn.ECNumbers(),
		},
	}
	if kr := rxn.KEGGReaction(); kr != "" {
		entry.References.KEGGReaction = common.Str(kr)
	}

	terms := make([]ResolvedTerm, 0, len(rxn.Metabolites))
	infos := common.NewOrderedMap[MetaboliteInfo](len(rxn.Metabolites))
	var notInCache, notFound []string
	for _, t := range rxn.Metabolites {
		met, _ := m.Metabolite(t.MetaboliteID)
		info := MetaboliteInfo{Coef: t.Coefficient}
		term := ResolvedTerm{MetaboliteID: t.MetaboliteID, Coefficient: t.Coefficient}
		if met != nil {
			info.Name = met.Name
			term.Compartment = met.Compartment
		}
		ce, ok := idx.ByMetaboliteID(t.MetaboliteID)
		switch {
		case !ok:
			notInCache = append(notInCache, t.MetaboliteID)
		case !ce.Resolved():
			info.InCache = true
			notFound = append(notFound, t.MetaboliteID)
		default:
			info.InCache = true
			info.FoundInEquilibrator = true
			info.QueriedAs = common.Str(ce.Query())
			term.Identifier = ce.Query()
		}
		infos.Set(t.MetaboliteID, info)
		terms = append(terms, term)
	}
	if len(notInCache) > 0 {
		entry.Errors = append(entry.Errors, ReactionError{Type: ErrorMetaboliteNotInCache, Metabolites: notInCache})
	}
	if len(notFound) > 0 {
		entry.Errors = append(entry.Errors, ReactionError{Type: ErrorNotFoundInEquilibrator, Metabolites: notFound})
	}

	an := a.classifier.Classify(terms)
	entry.Reaction = ReactionInfo{
		Equation:      rxn.Equation(),
		Stoichiometry: an.Net,
		Metabolites:   infos,
	}

	out := a.calculator.Calculate(ctx, an)
	entry.Thermodynamics = out.Thermodynamics
	entry.Errors = append(entry.Errors, out.Errors...)
	return entry
}

//Personal.AI order the ending
