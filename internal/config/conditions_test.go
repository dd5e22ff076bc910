package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/gem-thermo/internal/domain/thermo"
	"github.com/turtacn/gem-thermo/pkg/errors"
)

const compartmentParamsJSON = `{
  "models": {
    "yeast-GEM": {
      "compartments": {
        "c": {"pH": 7.2},
        "m": {"pH": 7.5},
        "v": {}
      },
      "membranes": {
        "inner_mitochondrial": {"inner": "m", "outer": "c", "potential_mV": 180},
        "vacuolar": {"inner": "c", "outer": "v", "potential_mV": 30}
      },
      "default_conditions": {"ionic_strength": 0.15}
    }
  }
}`

const redoxCouplesJSON = `{
  "couples": {
    "ubiquinone": {"oxidized_kegg": "C01054", "reduced_kegg": "C15810", "potential_mV": 90},
    "cytochrome_c": {"oxidized_kegg": "kegg:C00125", "reduced_kegg": "C00126", "potential_mV": 254},
    "ferredoxin": {"oxidized_chebi": "33737", "reduced_chebi": "CHEBI:33738", "potential_mV": -420}
  }
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadCompartmentParameters(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "compartment_parameters.json", compartmentParamsJSON)

	conds := thermo.NewConditions()
	found, err := ReadCompartmentParameters(path, "yeast-GEM", conds)
	require.NoError(t, err)
	require.True(t, found)

	assert.Equal(t, 7.5, conds.PH("m"))
	assert.Equal(t, thermo.DefaultPH, conds.PH("v"))
	assert.Equal(t, 0.15, conds.IonicStrength)
	require.Len(t, conds.Membranes, 2)
	assert.Equal(t, thermo.Membrane{Name: "inner_mitochondrial", Inner: "m", Outer: "c", PotentialMV: 180}, conds.Membranes[0])
	assert.Equal(t, "vacuolar", conds.Membranes[1].Name)

	other := thermo.NewConditions()
	found, err = ReadCompartmentParameters(path, "ecoli-core", other)
	require.NoError(t, err)
	assert.False(t, found)
	assert.False(t, other.HasCompartmentParameters())
}

func TestReadCompartmentParameters_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := ReadCompartmentParameters(filepath.Join(dir, "absent.json"), "m", thermo.NewConditions())
	assert.True(t, errors.IsCode(err, errors.ErrCodeConditionsReadFailed))

	bad := writeFile(t, dir, "bad.json", `{"models": [`)
	_, err = ReadCompartmentParameters(bad, "m", thermo.NewConditions())
	assert.True(t, errors.IsCode(err, errors.ErrCodeConditionsInvalid))
}

func TestReadRedoxCouples(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "redox_couples.json", redoxCouplesJSON)
	couples, err := ReadRedoxCouples(path)
	require.NoError(t, err)

	assert.Equal(t, []thermo.RedoxCouple{
		{Name: "ubiquinone", Oxidized: "kegg:C01054", Reduced: "kegg:C15810", PotentialMV: 90},
		{Name: "cytochrome_c", Oxidized: "kegg:C00125", Reduced: "kegg:C00126", PotentialMV: 254},
		{Name: "ferredoxin", Oxidized: "chebi:CHEBI:33737", Reduced: "chebi:CHEBI:33738", PotentialMV: -420},
	}, couples)
}

func TestReadRedoxCouples_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{"missing reduced form", `{"couples": {"x": {"oxidized_kegg": "C1", "potential_mV": 1}}}`},
		{"missing potential", `{"couples": {"x": {"oxidized_kegg": "C1", "reduced_kegg": "C2"}}}`},
		{"potential not a number", `{"couples": {"x": {"oxidized_kegg": "C1", "reduced_kegg": "C2", "potential_mV": "high"}}}`},
		{"identifier not a string", `{"couples": {"x": {"oxidized_kegg": 1, "reduced_kegg": "C2", "potential_mV": 1}}}`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := writeFile(t, t.TempDir(), "redox.json", tt.doc)
			_, err := ReadRedoxCouples(path)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeRedoxCoupleInvalid))
		})
	}
}

func TestQualifyIdentifier(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "kegg:C00125", QualifyIdentifier("kegg", "C00125"))
	assert.Equal(t, "kegg:C00125", QualifyIdentifier("kegg", "kegg:C00125"))
	assert.Equal(t, "chebi:CHEBI:15379", QualifyIdentifier("chebi", "15379"))
	assert.Equal(t, "metanetx.chemical:MNXM1", QualifyIdentifier("metanetx.chemical", " MNXM1 "))
}

func TestLoadConditions_AutoDetectsRedoxCouples(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	params := writeFile(t, dir, "compartment_parameters.json", compartmentParamsJSON)
	writeFile(t, dir, DefaultRedoxCouplesFile, redoxCouplesJSON)

	p := NewDefaultConfig().Pipeline
	p.OutputDir = dir
	p.CompartmentParamsPath = params

	conds, err := LoadConditions(p, "yeast-GEM", nil)
	require.NoError(t, err)
	assert.Len(t, conds.RedoxCouples, 3)
	assert.Len(t, conds.Membranes, 2)
	assert.Equal(t, []string{"kegg:C00080"}, conds.ProtonIdentifiers)
}

func TestLoadConditions_ModelNameOverridesDocumentID(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := NewDefaultConfig().Pipeline
	p.OutputDir = dir
	p.CompartmentParamsPath = writeFile(t, dir, "params.json", compartmentParamsJSON)

	conds, err := LoadConditions(p, "yeast_8_4", nil)
	require.NoError(t, err)
	assert.False(t, conds.HasCompartmentParameters())
	assert.Empty(t, conds.RedoxCouples)

	p.ModelName = "yeast-GEM"
	conds, err = LoadConditions(p, "yeast_8_4", nil)
	require.NoError(t, err)
	assert.True(t, conds.HasCompartmentParameters())
}

func TestLoadConditions_ConfiguredFileMissing(t *testing.T) {
	t.Parallel()

	p := NewDefaultConfig().Pipeline
	p.OutputDir = t.TempDir()
	p.RedoxCouplesPath = filepath.Join(p.OutputDir, "nope.json")

	_, err := LoadConditions(p, "m", nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConditionsReadFailed))
}

func TestLoadConditions_InvalidMembrane(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := NewDefaultConfig().Pipeline
	p.OutputDir = dir
	p.CompartmentParamsPath = writeFile(t, dir, "params.json",
		`{"models": {"m": {"membranes": {"bad": {"inner": "c", "outer": "c", "potential_mV": 1}}}}}`)

	_, err := LoadConditions(p, "m", nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConditionsInvalid))
}

//Personal.AI order the ending
