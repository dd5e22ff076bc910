package thermo

import (
	"math"

	"github.com/turtacn/gem-thermo/pkg/types/common"
)

// Method names the calculation that produced a ΔG'° value.
type Method string

const (
	MethodStandard           Method = "standard"
	MethodMulticompartmental Method = "multicompartmental"
	MethodProtonPump         Method = "proton_pump"
	MethodRedoxCarrier       Method = "redox_carrier"
	MethodTransport          Method = "transport"
	MethodNone               Method = "none"
)

// Methods lists every method in reporting order.
var Methods = []Method{
	MethodStandard,
	MethodMulticompartmental,
	MethodProtonPump,
	MethodRedoxCarrier,
	MethodTransport,
	MethodNone,
}

func (m Method) String() string { return string(m) }

// ResolvedTerm is one reaction term after compound resolution.  Identifier
// is the compound's queried_as value and is empty when the metabolite could
// not be resolved.
type ResolvedTerm struct {
	MetaboliteID string
	Compartment  string
	Coefficient  float64
	Identifier   string
}

// Resolved reports whether the term has an identifier.
func (t ResolvedTerm) Resolved() bool { return t.Identifier != "" }

// Transmembrane describes a reaction that moves protons across a configured
// membrane.
type Transmembrane struct {
	Membrane Membrane

	// Inner and Outer are the half stoichiometries; terms in any other
	// compartment are dropped.
	Inner Stoichiometry
	Outer Stoichiometry

	// InnerProtons and OuterProtons are the net H⁺ coefficients of each side.
	InnerProtons float64
	OuterProtons float64
}

// IsProtonPump reports whether either half has only products.  Such a half
// cannot be submitted as a formula, so the membrane term is added by hand.
func (t *Transmembrane) IsProtonPump() bool {
	return t.Inner.OnlyProducts() || t.Outer.OnlyProducts()
}

// Analysis is the classifier's verdict for one reaction.
type Analysis struct {
	// Terms are the reaction's terms in model order.
	Terms []ResolvedTerm

	// Net is the pruned stoichiometry keyed by identifier.
	Net Stoichiometry

	// Couples are the redox couples whose oxidized and reduced forms are
	// both present, in configuration order.
	Couples []RedoxCouple

	// Protons is the pruned net H⁺ coefficient per compartment.
	Protons common.OrderedMap[float64]

	// Transmembrane is set when the protons cross a configured membrane.
	Transmembrane *Transmembrane

	// Route is the first method the calculator tries.
	Route Method
}

// IsTransport reports whether every compound cancels out.
func (a *Analysis) IsTransport() bool { return a.Net.Empty() }

// Classifier routes reactions to a calculation method.
type Classifier struct {
	conds *Conditions
}

// NewClassifier builds a Classifier over conds.  A nil conds behaves as
// empty conditions.
func NewClassifier(conds *Conditions) *Classifier {
	if conds == nil {
		conds = NewConditions()
	}
	return &Classifier{conds: conds}
}

// Conditions returns the classifier's conditions.
func (c *Classifier) Conditions() *Conditions { return c.conds }

// Classify analyzes terms and picks a route.
func (c *Classifier) Classify(terms []ResolvedTerm) *Analysis {
	an := &Analysis{Terms: terms}

	var net Stoichiometry
	for _, t := range terms {
		if t.Resolved() {
			net.Add(t.Identifier, t.Coefficient)
		}
	}
	an.Net = net.Pruned()
	if an.Net.Empty() {
		an.Route = MethodTransport
		return an
	}

	an.Couples = c.activeCouples(terms)
	an.Protons = c.protonsByCompartment(terms)
	an.Transmembrane = c.transmembrane(terms, an.Protons)

	switch {
	case len(an.Couples) > 0:
		an.Route = MethodRedoxCarrier
	case an.Transmembrane != nil && an.Transmembrane.IsProtonPump():
		an.Route = MethodProtonPump
	case an.Transmembrane != nil:
		an.Route = MethodMulticompartmental
	default:
		an.Route = MethodStandard
	}
	return an
}

func (c *Classifier) activeCouples(terms []ResolvedTerm) []RedoxCouple {
	if len(c.conds.RedoxCouples) == 0 {
		return nil
	}
	present := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		if t.Resolved() {
			present[t.Identifier] = struct{}{}
		}
	}
	var active []RedoxCouple
	for _, rc := range c.conds.RedoxCouples {
		_, ox := present[rc.Oxidized]
		_, red := present[rc.Reduced]
		if ox && red {
			active = append(active, rc)
		}
	}
	return active
}

func (c *Classifier) protonsByCompartment(terms []ResolvedTerm) common.OrderedMap[float64] {
	var raw common.OrderedMap[float64]
	for _, t := range terms {
		if !t.Resolved() || !c.conds.IsProton(t.Identifier) {
			continue
		}
		cur, _ := raw.Get(t.Compartment)
		raw.Set(t.Compartment, cur+t.Coefficient)
	}
	var out common.OrderedMap[float64]
	raw.Range(func(comp string, n float64) bool {
		if math.Abs(n) > Epsilon {
			out.Set(comp, n)
		}
		return true
	})
	return out
}

func (c *Classifier) transmembrane(terms []ResolvedTerm, protons common.OrderedMap[float64]) *Transmembrane {
	if !c.conds.HasCompartmentParameters() || protons.Len() < 2 {
		return nil
	}
	for _, m := range c.conds.Membranes {
		if !protons.Has(m.Inner) || !protons.Has(m.Outer) {
			continue
		}
		var inner, outer Stoichiometry
		for _, t := range terms {
			if !t.Resolved() {
				continue
			}
			switch t.Compartment {
			case m.Inner:
				inner.Add(t.Identifier, t.Coefficient)
			case m.Outer:
				outer.Add(t.Identifier, t.Coefficient)
			}
		}
		nIn, _ := protons.Get(m.Inner)
		nOut, _ := protons.Get(m.Outer)
		return &Transmembrane{
			Membrane:     m,
			Inner:        inner.Pruned(),
			Outer:        outer.Pruned(),
			InnerProtons: nIn,
			OuterProtons: nOut,
		}
	}
	return nil
}

//Personal.AI order the ending
