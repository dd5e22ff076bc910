package thermo

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/turtacn/gem-thermo/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/gem-thermo/pkg/errors"
	"github.com/turtacn/gem-thermo/pkg/types/common"
)

// MembraneContribution is the electrochemical work of moving protons across
// a membrane.
type MembraneContribution struct {
	InnerPH     float64
	OuterPH     float64
	PotentialMV float64

	// PerProton is F·Δψ + RT·ln10·(pH_outer − pH_inner) in kJ/mol.
	PerProton float64

	// Vectorial is the number of protons that cross the membrane.
	Vectorial float64

	// Total is Vectorial × PerProton.
	Total float64
}

// ComputeMembraneContribution derives the membrane term of a proton pump.
// When moving a proton outer→inner releases energy the protons leaving the
// outer side are counted, otherwise the protons appearing on the inner side.
func ComputeMembraneContribution(m Membrane, innerPH, outerPH, innerProtons, outerProtons float64) MembraneContribution {
	perProton := Faraday*m.PotentialV() + RTLn10*(outerPH-innerPH)
	vectorial := math.Abs(innerProtons)
	if perProton < 0 {
		vectorial = math.Abs(outerProtons)
	}
	return MembraneContribution{
		InnerPH:     innerPH,
		OuterPH:     outerPH,
		PotentialMV: m.PotentialMV,
		PerProton:   perProton,
		Vectorial:   vectorial,
		Total:       vectorial * perProton,
	}
}

// EstimateObserver is notified after every method attempt.
type EstimateObserver func(method Method, ok bool, elapsed time.Duration)

// Calculator executes an Analysis against an Estimator.
type Calculator struct {
	estimator Estimator
	conds     *Conditions
	logger    logging.Logger
	observer  EstimateObserver
}

// CalculatorOption configures a Calculator.
type CalculatorOption func(*Calculator)

// WithEstimateObserver installs fn.
func WithEstimateObserver(fn EstimateObserver) CalculatorOption {
	return func(c *Calculator) { c.observer = fn }
}

// NewCalculator builds a Calculator.
func NewCalculator(estimator Estimator, conds *Conditions, logger logging.Logger, opts ...CalculatorOption) *Calculator {
	if conds == nil {
		conds = NewConditions()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	c := &Calculator{
		estimator: estimator,
		conds:     conds,
		logger:    logger.Named("thermo"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Outcome is the result of Calculate.
type Outcome struct {
	Thermodynamics Thermodynamics
	Errors         []ReactionError
}

// Calculate runs an's route and falls back along redox carrier, then the
// transmembrane method, then standard.  It never returns an error; failures
// are recorded in the outcome and an outcome whose every method failed has
// method none.
func (c *Calculator) Calculate(ctx context.Context, an *Analysis) Outcome {
	var out Outcome
	if an.IsTransport() {
		out.Thermodynamics = Thermodynamics{
			DGPrime:        common.Float(0),
			Uncertainty:    common.Float(0),
			FormulaQueried: common.Str(FormulaTransport),
			Detail:         TransportDetail{},
		}
		return out
	}

	var attempted []Method
	var failed Method

	if len(an.Couples) > 0 {
		attempted = append(attempted, MethodRedoxCarrier)
		th, rerr := c.redoxCarrier(ctx, an)
		if rerr == nil {
			out.Thermodynamics = th
			return out
		}
		out.Errors = append(out.Errors, *rerr)
		failed = MethodRedoxCarrier
	}

	if tm := an.Transmembrane; tm != nil {
		if tm.IsProtonPump() {
			attempted = append(attempted, MethodProtonPump)
			th, rerr := c.protonPump(ctx, an)
			if rerr == nil {
				out.Thermodynamics = th
				return out
			}
			out.Errors = append(out.Errors, *rerr)
			failed = MethodProtonPump
		} else {
			attempted = append(attempted, MethodMulticompartmental)
			th, rerr := c.multicompartmental(ctx, an)
			if rerr == nil {
				out.Thermodynamics = th
				return out
			}
			out.Errors = append(out.Errors, *rerr)
			failed = MethodMulticompartmental
		}
	}

	attempted = append(attempted, MethodStandard)
	formula := an.Net.Formula()
	est, err := c.standard(ctx, formula)
	if err != nil {
		out.Errors = append(out.Errors, ReactionError{Type: ErrorEquilibrator, Message: errors.Describe(err)})
		out.Thermodynamics = Thermodynamics{
			FormulaQueried: common.Str(formula),
			Detail:         NoneDetail{MethodsAttempted: attempted},
		}
		c.logger.Debug("no method produced an estimate",
			logging.String("formula", formula),
			logging.Any("methods_attempted", attempted))
		return out
	}
	out.Thermodynamics = Thermodynamics{
		DGPrime:        common.Float(est.DGPrime),
		Uncertainty:    common.Float(est.Uncertainty),
		FormulaQueried: common.Str(formula),
		Detail:         StandardDetail{FallbackFrom: failed},
	}
	return out
}

func (c *Calculator) standard(ctx context.Context, formula string) (*Estimate, error) {
	start := time.Now()
	est, err := c.queryFormula(ctx, formula)
	c.observe(MethodStandard, err == nil, time.Since(start))
	return est, err
}

// queryFormula parses formula and queries its ΔG'°.
func (c *Calculator) queryFormula(ctx context.Context, formula string) (*Estimate, error) {
	parsed, err := c.estimator.ParseFormula(ctx, formula)
	if err != nil {
		return nil, err
	}
	return c.estimator.StandardDG(ctx, parsed)
}

func (c *Calculator) redoxCarrier(ctx context.Context, an *Analysis) (Thermodynamics, *ReactionError) {
	type carrier struct {
		couple  RedoxCouple
		reduced bool
	}
	carriers := make(map[string]carrier, 2*len(an.Couples))
	for _, rc := range an.Couples {
		if _, ok := carriers[rc.Oxidized]; !ok {
			carriers[rc.Oxidized] = carrier{couple: rc}
		}
		if _, ok := carriers[rc.Reduced]; !ok {
			carriers[rc.Reduced] = carrier{couple: rc, reduced: true}
		}
	}

	type phaseKey struct {
		compound string
		phase    Phase
		mV       float64
	}
	var order []phaseKey
	coefs := make(map[phaseKey]float64)
	used := make(map[string]struct{})
	var attempted []string
	for _, t := range an.Terms {
		if !t.Resolved() {
			continue
		}
		key := phaseKey{compound: t.Identifier, phase: PhaseAqueous}
		if cr, ok := carriers[t.Identifier]; ok {
			key.phase = PhaseRedoxCarrier
			if cr.reduced {
				key.mV = cr.couple.PotentialMV
			}
			if _, seen := used[cr.couple.Name]; !seen {
				used[cr.couple.Name] = struct{}{}
				attempted = append(attempted, cr.couple.Name)
			}
		}
		if _, ok := coefs[key]; !ok {
			order = append(order, key)
		}
		coefs[key] += t.Coefficient
	}

	terms := make([]PhasedTerm, 0, len(order))
	for _, k := range order {
		coef := coefs[k]
		if math.Abs(coef) <= Epsilon {
			continue
		}
		pt := PhasedTerm{Compound: k.compound, Phase: k.phase, Coefficient: coef}
		if k.phase == PhaseRedoxCarrier {
			pt.PotentialMV = common.Float(k.mV)
		}
		terms = append(terms, pt)
	}

	couplesUsed := append([]string(nil), attempted...)
	sort.Strings(couplesUsed)

	start := time.Now()
	est, err := c.estimator.StandardDGPhased(ctx, terms)
	c.observe(MethodRedoxCarrier, err == nil, time.Since(start))
	if err != nil {
		c.logger.Debug("redox carrier estimate failed", logging.Strings("couples", attempted), logging.Err(err))
		return Thermodynamics{}, &ReactionError{
			Type:             ErrorRedoxCarrier,
			Message:          errors.Describe(err),
			CouplesAttempted: attempted,
		}
	}
	return Thermodynamics{
		DGPrime:        common.Float(est.DGPrime),
		Uncertainty:    common.Float(est.Uncertainty),
		FormulaQueried: common.Str(fmt.Sprintf("redox carrier (couples: %s)", strings.Join(couplesUsed, ", "))),
		Detail:         RedoxCarrierDetail{CouplesUsed: couplesUsed},
	}, nil
}

func (c *Calculator) protonPump(ctx context.Context, an *Analysis) (Thermodynamics, *ReactionError) {
	tm := an.Transmembrane
	mc := ComputeMembraneContribution(tm.Membrane,
		c.conds.PH(tm.Membrane.Inner), c.conds.PH(tm.Membrane.Outer),
		tm.InnerProtons, tm.OuterProtons)

	formula := an.Net.Formula()
	start := time.Now()
	est, err := c.queryFormula(ctx, formula)
	c.observe(MethodProtonPump, err == nil, time.Since(start))
	if err != nil {
		return Thermodynamics{}, &ReactionError{
			Type:         ErrorProtonPump,
			Message:      errors.Describe(err),
			InnerFormula: tm.Inner.Formula(),
			OuterFormula: tm.Outer.Formula(),
		}
	}
	return Thermodynamics{
		DGPrime:        common.Float(est.DGPrime + mc.Total),
		Uncertainty:    common.Float(est.Uncertainty),
		FormulaQueried: common.Str(formula),
		Detail: ProtonPumpDetail{
			DGChemistry:         est.DGPrime,
			DGMembrane:          mc.Total,
			DGPerProton:         mc.PerProton,
			InnerPH:             mc.InnerPH,
			OuterPH:             mc.OuterPH,
			MembranePotentialMV: mc.PotentialMV,
			VectorialProtons:    mc.Vectorial,
			ProtonStoichiometry: an.Protons,
		},
	}, nil
}

func (c *Calculator) multicompartmental(ctx context.Context, an *Analysis) (Thermodynamics, *ReactionError) {
	tm := an.Transmembrane
	m := tm.Membrane
	innerFormula := tm.Inner.Formula()
	outerFormula := tm.Outer.Formula()
	innerPH := c.conds.PH(m.Inner)
	outerPH := c.conds.PH(m.Outer)

	start := time.Now()
	est, err := func() (*Estimate, error) {
		inner, err := c.estimator.ParseFormula(ctx, innerFormula)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeUnknown, "inner half reaction")
		}
		outer, err := c.estimator.ParseFormula(ctx, outerFormula)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeUnknown, "outer half reaction")
		}
		return c.estimator.MulticompartmentalDG(ctx, MulticompartmentalQuery{
			Inner:         inner,
			Outer:         outer,
			InnerPH:       innerPH,
			OuterPH:       outerPH,
			PotentialV:    m.PotentialV(),
			IonicStrength: c.conds.ionicStrength(),
		})
	}()
	c.observe(MethodMulticompartmental, err == nil, time.Since(start))
	if err != nil {
		return Thermodynamics{}, &ReactionError{Type: ErrorMulticompartmental, Message: errors.Describe(err)}
	}
	queried := fmt.Sprintf("multicompartmental: inner(%s)=[%s], outer(%s)=[%s]",
		m.Inner, innerFormula, m.Outer, outerFormula)
	return Thermodynamics{
		DGPrime:        common.Float(est.DGPrime),
		Uncertainty:    common.Float(est.Uncertainty),
		FormulaQueried: common.Str(queried),
		Detail: MulticompartmentalDetail{
			Membrane:            m.Name,
			InnerCompartment:    m.Inner,
			OuterCompartment:    m.Outer,
			ProtonStoichiometry: an.Protons,
			InnerPH:             innerPH,
			OuterPH:             outerPH,
			MembranePotentialMV: m.PotentialMV,
		},
	}, nil
}

func (c *Calculator) observe(m Method, ok bool, d time.Duration) {
	if c.observer != nil {
		c.observer(m, ok, d)
	}
}

//Personal.AI order the ending
