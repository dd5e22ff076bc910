package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/turtacn/gem-thermo/internal/domain/compound"
	"github.com/turtacn/gem-thermo/internal/domain/thermo"
	"github.com/turtacn/gem-thermo/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/gem-thermo/pkg/errors"
	"github.com/turtacn/gem-thermo/pkg/types/common"
)

// compartmentParamsDocument is the compartment parameters file layout.
type compartmentParamsDocument struct {
	Models map[string]modelParams `json:"models"`
}

type modelParams struct {
	Compartments map[string]struct {
		PH *float64 `json:"pH"`
	} `json:"compartments"`
	Membranes         common.OrderedMap[membraneParams] `json:"membranes"`
	DefaultConditions struct {
		IonicStrength *float64 `json:"ionic_strength"`
	} `json:"default_conditions"`
}

type membraneParams struct {
	Inner       string  `json:"inner"`
	Outer       string  `json:"outer"`
	PotentialMV float64 `json:"potential_mV"`
}

// redoxDocument is the redox couples file layout.  Each couple carries
// "oxidized_<ns>" and "reduced_<ns>" keys plus "potential_mV".
type redoxDocument struct {
	Couples common.OrderedMap[common.OrderedMap[interface{}]] `json:"couples"`
}

// ReadCompartmentParameters loads the entry for modelName from the file at
// path into conds.  It reports whether the file had an entry for the model.
func ReadCompartmentParameters(path, modelName string, conds *thermo.Conditions) (bool, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeConditionsReadFailed, "read compartment parameters").WithDetail(path)
	}
	var doc compartmentParamsDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		return false, errors.Wrap(err, errors.ErrCodeConditionsInvalid, "decode compartment parameters").WithDetail(path)
	}
	mp, ok := doc.Models[modelName]
	if !ok {
		return false, nil
	}

	for id, c := range mp.Compartments {
		ph := thermo.DefaultPH
		if c.PH != nil {
			ph = *c.PH
		}
		conds.Compartments[id] = thermo.Compartment{ID: id, PH: ph}
	}
	mp.Membranes.Range(func(name string, m membraneParams) bool {
		conds.Membranes = append(conds.Membranes, thermo.Membrane{
			Name:        name,
			Inner:       m.Inner,
			Outer:       m.Outer,
			PotentialMV: m.PotentialMV,
		})
		return true
	})
	if is := mp.DefaultConditions.IonicStrength; is != nil {
		conds.IonicStrength = *is
	}
	return true, nil
}

// ReadRedoxCouples parses the redox couples file at path.  Couples keep the
// file's order.
func ReadRedoxCouples(path string) ([]thermo.RedoxCouple, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConditionsReadFailed, "read redox couples").WithDetail(path)
	}
	var doc redoxDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConditionsInvalid, "decode redox couples").WithDetail(path)
	}

	var out []thermo.RedoxCouple
	var perr error
	doc.Couples.Range(func(name string, fields common.OrderedMap[interface{}]) bool {
		rc, err := parseCouple(name, fields)
		if err != nil {
			perr = err
			return false
		}
		out = append(out, rc)
		return true
	})
	if perr != nil {
		return nil, perr
	}
	return out, nil
}

func parseCouple(name string, fields common.OrderedMap[interface{}]) (thermo.RedoxCouple, error) {
	rc := thermo.RedoxCouple{Name: name}
	var havePotential bool
	var bad error
	fields.Range(func(key string, val interface{}) bool {
		switch {
		case key == "potential_mV":
			f, ok := val.(float64)
			if !ok {
				bad = fmt.Errorf("potential_mV is not a number")
				return false
			}
			rc.PotentialMV = f
			havePotential = true
		case strings.HasPrefix(key, "oxidized_") && rc.Oxidized == "":
			s, ok := val.(string)
			if !ok {
				bad = fmt.Errorf("%s is not a string", key)
				return false
			}
			rc.Oxidized = QualifyIdentifier(strings.TrimPrefix(key, "oxidized_"), s)
		case strings.HasPrefix(key, "reduced_") && rc.Reduced == "":
			s, ok := val.(string)
			if !ok {
				bad = fmt.Errorf("%s is not a string", key)
				return false
			}
			rc.Reduced = QualifyIdentifier(strings.TrimPrefix(key, "reduced_"), s)
		}
		return true
	})
	if bad == nil && (rc.Oxidized == "" || rc.Reduced == "") {
		bad = fmt.Errorf("oxidized and reduced identifiers are required")
	}
	if bad == nil && !havePotential {
		bad = fmt.Errorf("potential_mV is required")
	}
	if bad != nil {
		return rc, errors.New(errors.ErrCodeRedoxCoupleInvalid, bad.Error()).WithDetail(name)
	}
	return rc, nil
}

// QualifyIdentifier turns a bare redox couple value into the query form
// compounds are resolved under.  Values already carrying the namespace
// prefix are returned unchanged.
func QualifyIdentifier(ns, value string) string {
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, ns+":") {
		return value
	}
	if ns == "chebi" {
		return "chebi:" + compound.NormalizeChEBI(value)
	}
	return ns + ":" + value
}

// RedoxCouplesPathFor returns the configured path, or redox_couples.json next
// to the compound cache when that file exists, or "".
func (p PipelineConfig) RedoxCouplesPathFor(compoundsPath string) string {
	if p.RedoxCouplesPath != "" {
		return p.RedoxCouplesPath
	}
	candidate := filepath.Join(filepath.Dir(compoundsPath), DefaultRedoxCouplesFile)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}

// CompoundsPath is the compound cache document path.
func (p PipelineConfig) CompoundsPath() string {
	return filepath.Join(p.OutputDir, p.CompoundsFile)
}

// ReactionsPath is the reaction cache document path.
func (p PipelineConfig) ReactionsPath() string {
	return filepath.Join(p.OutputDir, p.ReactionsFile)
}

// LoadConditions assembles the thermodynamic conditions for modelID from
// the pipeline's parameter files.  A configured file that cannot be read
// is an error; a compartment file without an entry for the model is logged
// and leaves every reaction on the non-transmembrane routes.
func LoadConditions(p PipelineConfig, modelID string, logger logging.Logger) (*thermo.Conditions, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	conds := thermo.NewConditions()
	if len(p.ProtonIdentifiers) > 0 {
		conds.ProtonIdentifiers = append([]string(nil), p.ProtonIdentifiers...)
	}

	name := p.ModelName
	if name == "" {
		name = modelID
	}
	if p.CompartmentParamsPath != "" {
		found, err := ReadCompartmentParameters(p.CompartmentParamsPath, name, conds)
		if err != nil {
			return nil, err
		}
		if found {
			logger.Info("loaded compartment parameters",
				logging.String("model", name),
				logging.Int("compartments", len(conds.Compartments)),
				logging.Int("membranes", len(conds.Membranes)))
		} else {
			logger.Warn("compartment parameters have no entry for model; transmembrane methods disabled",
				logging.String("model", name),
				logging.String("path", p.CompartmentParamsPath))
		}
	}

	if path := p.RedoxCouplesPathFor(p.CompoundsPath()); path != "" {
		couples, err := ReadRedoxCouples(path)
		if err != nil {
			return nil, err
		}
		conds.RedoxCouples = couples
		logger.Info("loaded redox couples", logging.Int("couples", len(couples)), logging.String("path", path))
	} else {
		logger.Info("no redox couples configured; carrier reactions use the standard method")
	}

	if err := conds.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConditionsInvalid, "invalid conditions")
	}
	return conds, nil
}

//Personal.AI order the ending
