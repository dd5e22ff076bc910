package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SampleModelJSON is a small cobra model with one transport reaction and
// one reaction estimated by the standard method.
const SampleModelJSON = `{
  "id": "sample-GEM",
  "metabolites": [
    {"id": "s_0563", "name": "D-glucose", "compartment": "c", "annotation": {"kegg.compound": "C00031"}},
    {"id": "s_0565", "name": "D-glucose", "compartment": "e", "annotation": {"kegg.compound": "C00031"}},
    {"id": "s_0434", "name": "ATP", "compartment": "c", "annotation": {"kegg.compound": "C00002"}},
    {"id": "s_0394", "name": "ADP", "compartment": "c", "annotation": {"kegg.compound": "C00008"}},
    {"id": "s_0568", "name": "D-glucose 6-phosphate", "compartment": "c", "annotation": {"kegg.compound": "C00092"}},
    {"id": "s_9000", "name": "unknown thing", "compartment": "c", "annotation": {}}
  ],
  "reactions": [
    {"id": "r_1166", "name": "glucose transport", "metabolites": {"s_0565": -1, "s_0563": 1}},
    {"id": "r_0534", "name": "hexokinase", "metabolites": {"s_0563": -1, "s_0434": -1, "s_0568": 1, "s_0394": 1},
     "lower_bound": 0, "annotation": {"kegg.reaction": "R00299", "ec-code": "2.7.1.1"}}
  ]
}`

// SampleModelCompounds are the identifier queries of SampleModelJSON that
// a fake service should resolve.
var SampleModelCompounds = []string{"kegg:C00031", "kegg:C00002", "kegg:C00008", "kegg:C00092"}

// NewSampleEquilibrator returns a FakeEquilibrator that resolves every
// identified compound of SampleModelJSON.
func NewSampleEquilibrator(t testing.TB) *FakeEquilibrator {
	t.Helper()
	f := NewFakeEquilibrator(t)
	for _, q := range SampleModelCompounds {
		f.AddCompound(q, "INCHIKEY-"+q)
	}
	return f
}

// WriteFile writes content to dir/name and returns the path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

//Personal.AI order the ending
