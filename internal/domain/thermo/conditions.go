// Package thermo computes standard transformed Gibbs free energies for model
// reactions.  A Classifier inspects each reaction's resolved compounds and
// picks a calculation route; a Calculator executes the route against an
// external Estimator and falls back along a fixed chain when a method fails.
package thermo

import (
	"fmt"
)

// Physical constants and defaults.
const (
	// Faraday is F in kJ/(mol·V).
	Faraday = 96.485

	// RTLn10 is RT·ln(10) in kJ/mol at 298 K.
	RTLn10 = 2.479 * 2.303

	// DefaultPH applies to compartments without a configured pH.
	DefaultPH = 7.0

	// DefaultIonicStrength is in mol/L.
	DefaultIonicStrength = 0.1

	// Epsilon is the magnitude below which a net coefficient is noise.
	Epsilon = 1e-9
)

// DefaultProtonIdentifiers are the resolved identifiers treated as H⁺.
var DefaultProtonIdentifiers = []string{"kegg:C00080"}

// Compartment holds physicochemical parameters for one compartment.
type Compartment struct {
	ID string  `json:"id"`
	PH float64 `json:"pH"`
}

// Membrane separates an inner and an outer compartment.
type Membrane struct {
	Name        string  `json:"name"`
	Inner       string  `json:"inner"`
	Outer       string  `json:"outer"`
	PotentialMV float64 `json:"potential_mV"`
}

// PotentialV is the membrane potential in volts.
func (m Membrane) PotentialV() float64 {
	return m.PotentialMV / 1000.0
}

// RedoxCouple pairs the oxidized and reduced identifiers of an electron
// carrier with its literature reduction potential.
type RedoxCouple struct {
	Name        string  `json:"name"`
	Oxidized    string  `json:"oxidized"`
	Reduced     string  `json:"reduced"`
	PotentialMV float64 `json:"potential_mV"`
}

// Conditions is the per-run configuration the classifier and calculator
// read.  It is built once and never mutated afterwards.
type Conditions struct {
	// Compartments is keyed by compartment id.
	Compartments map[string]Compartment

	// Membranes are checked in this order when a reaction moves protons.
	Membranes []Membrane

	// IonicStrength is passed to multicompartmental queries.
	IonicStrength float64

	// RedoxCouples are checked in this order.
	RedoxCouples []RedoxCouple

	// ProtonIdentifiers lists resolved identifiers that denote H⁺.
	ProtonIdentifiers []string
}

// NewConditions returns Conditions with defaults and no compartment data.
func NewConditions() *Conditions {
	return &Conditions{
		Compartments:      map[string]Compartment{},
		IonicStrength:     DefaultIonicStrength,
		ProtonIdentifiers: append([]string(nil), DefaultProtonIdentifiers...),
	}
}

// HasCompartmentParameters reports whether compartment or membrane data was
// configured.  Without it, transmembrane routes are never taken.
func (c *Conditions) HasCompartmentParameters() bool {
	return c != nil && (len(c.Compartments) > 0 || len(c.Membranes) > 0)
}

// PH returns the configured pH of compartment id, or DefaultPH.
func (c *Conditions) PH(id string) float64 {
	if c == nil {
		return DefaultPH
	}
	if comp, ok := c.Compartments[id]; ok {
		return comp.PH
	}
	return DefaultPH
}

// IsProton reports whether identifier denotes H⁺.
func (c *Conditions) IsProton(identifier string) bool {
	ids := DefaultProtonIdentifiers
	if c != nil && len(c.ProtonIdentifiers) > 0 {
		ids = c.ProtonIdentifiers
	}
	for _, p := range ids {
		if p == identifier {
			return true
		}
	}
	return false
}

// ionicStrength returns the configured value or the default.
func (c *Conditions) ionicStrength() float64 {
	if c == nil || c.IonicStrength <= 0 {
		return DefaultIonicStrength
	}
	return c.IonicStrength
}

// Validate checks internal consistency.
func (c *Conditions) Validate() error {
	if c == nil {
		return nil
	}
	for id, comp := range c.Compartments {
		if comp.PH < 0 || comp.PH > 14 {
			return fmt.Errorf("compartment %q: pH %.2f outside [0, 14]", id, comp.PH)
		}
	}
	names := make(map[string]struct{})
	for _, m := range c.Membranes {
		if m.Inner == "" || m.Outer == "" {
			return fmt.Errorf("membrane %q: inner and outer compartments are required", m.Name)
		}
		if m.Inner == m.Outer {
			return fmt.Errorf("membrane %q: inner and outer compartments must differ", m.Name)
		}
		if _, dup := names[m.Name]; dup {
			return fmt.Errorf("membrane %q: duplicate name", m.Name)
		}
		names[m.Name] = struct{}{}
	}
	couples := make(map[string]struct{})
	for _, rc := range c.RedoxCouples {
		if rc.Oxidized == "" || rc.Reduced == "" {
			return fmt.Errorf("redox couple %q: oxidized and reduced identifiers are required", rc.Name)
		}
		if rc.Oxidized == rc.Reduced {
			return fmt.Errorf("redox couple %q: oxidized and reduced identifiers must differ", rc.Name)
		}
		if _, dup := couples[rc.Name]; dup {
			return fmt.Errorf("redox couple %q: duplicate name", rc.Name)
		}
		couples[rc.Name] = struct{}{}
	}
	if c.IonicStrength < 0 {
		return fmt.Errorf("ionic strength %.3f must not be negative", c.IonicStrength)
	}
	return nil
}

//Personal.AI order the ending
