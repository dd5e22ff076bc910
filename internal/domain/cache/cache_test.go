package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/gem-thermo/internal/domain/compound"
	"github.com/turtacn/gem-thermo/internal/domain/thermo"
	"github.com/turtacn/gem-thermo/pkg/errors"
	"github.com/turtacn/gem-thermo/pkg/types/common"
)

func sampleCompounds() CompoundTable {
	var t CompoundTable
	t.Set("C00007", &compound.Entry{
		Name:        "oxygen",
		QueriedAs:   common.Str("kegg:C00007"),
		QuerySource: common.Str("kegg.compound"),
		Errors:      []compound.AttemptError{},
		Identifiers: compound.IdentifierSet{
			KEGG:     common.Str("C00007"),
			ChEBI:    common.Str("CHEBI:15379"),
			MetaNetX: common.Str("MNXM4"),
			BiGG:     common.Str("o2"),
			YeastGEM: []string{"s_1277", "s_1275", "s_1278"},
		},
	})
	t.Set("s_9000", &compound.Entry{
		Name: "unknown lipid",
		Errors: []compound.AttemptError{
			{Source: compound.SourceNameSearch, Query: "unknown lipid", Error: "no match for name: unknown lipid"},
		},
		Identifiers: compound.IdentifierSet{YeastGEM: []string{"s_9000"}},
	})
	return t
}

func sampleReactions() ReactionTable {
	var t ReactionTable
	t.Set("r_1", &thermo.Entry{
		Name:   "oxygen exchange",
		Errors: []thermo.ReactionError{},
		Thermodynamics: thermo.Thermodynamics{
			DGPrime:        common.Float(0),
			Uncertainty:    common.Float(0),
			FormulaQueried: common.Str(thermo.FormulaTransport),
			Detail:         thermo.TransportDetail{},
		},
	})
	return t
}

func TestSnapshot_Lookups(t *testing.T) {
	t.Parallel()

	s := NewSnapshot(sampleCompounds(), sampleReactions())

	e, ok := s.GetCompound("C00007")
	require.True(t, ok)
	assert.Equal(t, "oxygen", e.Name)

	key, e, ok := s.GetCompoundByMetaboliteID("s_1275")
	require.True(t, ok)
	assert.Equal(t, "C00007", key)
	assert.Equal(t, "oxygen", e.Name)

	_, _, ok = s.GetCompoundByMetaboliteID("s_0000")
	assert.False(t, ok)

	ce, ok := s.ByMetaboliteID("s_9000")
	require.True(t, ok)
	assert.False(t, ce.Resolved())

	r, ok := s.GetReaction("r_1")
	require.True(t, ok)
	assert.True(t, r.Thermodynamics.IsTransport())

	_, err := s.Require("r_2")
	assert.True(t, errors.IsCode(err, errors.ErrCodeCacheEntryNotFound))
	_, err = Empty().Require("r_1")
	assert.True(t, errors.IsCode(err, errors.ErrCodeCacheNotLoaded))
}

func TestSnapshot_FindMetabolites(t *testing.T) {
	t.Parallel()

	s := NewSnapshot(sampleCompounds(), sampleReactions())
	oxygen := []string{"s_1275", "s_1277", "s_1278"}

	tests := []struct {
		query string
		want  []string
	}{
		{"C00007", oxygen},
		{"c00007", oxygen},
		{"CHEBI:15379", oxygen},
		{"15379", oxygen},
		{"chebi:15379", oxygen},
		{"mnxm4", oxygen},
		{"O2", oxygen},
		{"  Oxygen ", oxygen},
		{"Unknown Lipid", []string{"s_9000"}},
		{"oxy", []string{}},
		{"", nil},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.query, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, s.FindMetabolites(tt.query))
		})
	}
}

func TestSnapshot_Stats(t *testing.T) {
	t.Parallel()

	st := NewSnapshot(sampleCompounds(), sampleReactions()).Stats()
	assert.Equal(t, 1, st.ReactionsCount)
	assert.Equal(t, 2, st.CompoundsCount)
	assert.True(t, st.Loaded)
	assert.True(t, st.Available)
	assert.NotNil(t, st.LoadedAt)

	st = Empty().Stats()
	assert.Equal(t, Stats{}, st)
}

func TestWriteAndLoadSnapshot(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cPath := filepath.Join(dir, "nested", "compounds_thermo.json")
	rPath := filepath.Join(dir, "nested", "reactions_thermo.json")

	cDoc, err := Encode(sampleCompounds())
	require.NoError(t, err)
	rDoc, err := Encode(sampleReactions())
	require.NoError(t, err)
	require.NoError(t, WriteFile(cPath, cDoc))
	require.NoError(t, WriteFile(rPath, rDoc))

	assert.True(t, strings.HasPrefix(string(cDoc), "{\n  \"C00007\": {\n    \"name\": \"oxygen\","))
	assert.True(t, strings.HasSuffix(string(cDoc), "}\n"))

	s, err := LoadSnapshot(cPath, rPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"C00007", "s_9000"}, s.Compounds().Keys())

	again, err := Encode(s.Compounds())
	require.NoError(t, err)
	assert.Equal(t, string(cDoc), string(again))
	again, err = Encode(s.Reactions())
	require.NoError(t, err)
	assert.Equal(t, string(rDoc), string(again))

	entries, err := os.ReadDir(filepath.Join(dir, "nested"))
	require.NoError(t, err)
	assert.Len(t, entries, 2, "temporary files are cleaned up")
}

func TestLoadSnapshot_MissingFilesAreEmpty(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s, err := LoadSnapshot(filepath.Join(dir, "a.json"), filepath.Join(dir, "b.json"))
	require.NoError(t, err)

	st := s.Stats()
	assert.True(t, st.Loaded)
	assert.False(t, st.Available)
	assert.Zero(t, st.CompoundsCount)
}

func TestLoadSnapshot_MalformedDocument(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	bad := filepath.Join(dir, "reactions_thermo.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"r_1": {"thermodynamics": {"method": "psychic"}}}`), 0o600))

	_, err := LoadSnapshot(filepath.Join(dir, "none.json"), bad)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeCacheDocumentFormat))
}

//Personal.AI order the ending
