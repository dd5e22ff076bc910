package thermo

import (
	"math"
	"strings"

	"github.com/turtacn/gem-thermo/internal/domain/model"
	"github.com/turtacn/gem-thermo/pkg/types/common"
)

// Stoichiometry maps resolved identifiers to net coefficients in the order
// identifiers were first seen.
type Stoichiometry struct {
	terms common.OrderedMap[float64]
}

// Add accumulates coef onto id.
func (s *Stoichiometry) Add(id string, coef float64) {
	cur, _ := s.terms.Get(id)
	s.terms.Set(id, cur+coef)
}

// Pruned returns a copy without terms whose magnitude is at most Epsilon.
func (s Stoichiometry) Pruned() Stoichiometry {
	var out Stoichiometry
	s.terms.Range(func(id string, coef float64) bool {
		if math.Abs(coef) > Epsilon {
			out.terms.Set(id, coef)
		}
		return true
	})
	return out
}

// Len returns the number of terms.
func (s Stoichiometry) Len() int { return s.terms.Len() }

// Empty reports whether there are no terms.
func (s Stoichiometry) Empty() bool { return s.terms.Len() == 0 }

// Get returns the coefficient of id.
func (s Stoichiometry) Get(id string) (float64, bool) { return s.terms.Get(id) }

// Range iterates terms in order.
func (s Stoichiometry) Range(fn func(id string, coef float64) bool) { s.terms.Range(fn) }

// OnlyProducts reports whether s is non-empty and every coefficient is
// positive, i.e. the formula would have nothing left of "=".
func (s Stoichiometry) OnlyProducts() bool {
	if s.Empty() {
		return false
	}
	only := true
	s.terms.Range(func(_ string, coef float64) bool {
		if coef <= 0 {
			only = false
			return false
		}
		return true
	})
	return only
}

// Formula renders "a + 2 b = c".  A coefficient of magnitude 1 is omitted.
func (s Stoichiometry) Formula() string {
	var subs, prods []string
	s.terms.Range(func(id string, coef float64) bool {
		term := id
		if c := math.Abs(coef); c != 1 {
			term = model.FormatCoefficient(c) + " " + id
		}
		if coef < 0 {
			subs = append(subs, term)
		} else {
			prods = append(prods, term)
		}
		return true
	})
	return strings.Join(subs, " + ") + " = " + strings.Join(prods, " + ")
}

// Map returns a plain copy.
func (s Stoichiometry) Map() map[string]float64 {
	out := make(map[string]float64, s.terms.Len())
	s.terms.Range(func(id string, coef float64) bool {
		out[id] = coef
		return true
	})
	return out
}

// MarshalJSON writes an ordered JSON object.
func (s Stoichiometry) MarshalJSON() ([]byte, error) { return s.terms.MarshalJSON() }

// UnmarshalJSON reads an ordered JSON object.
func (s *Stoichiometry) UnmarshalJSON(b []byte) error { return s.terms.UnmarshalJSON(b) }

//Personal.AI order the ending
