package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/turtacn/gem-thermo/internal/testutil"
)

// testEnv is a scratch directory with a config file that keeps logging
// quiet and points the pipeline at dir/out.
type testEnv struct {
	dir        string
	outDir     string
	configPath string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	e := &testEnv{dir: dir, outDir: filepath.Join(dir, "out")}
	e.configPath = testutil.WriteFile(t, dir, "gemthermo.yaml", "log:\n  level: error\n  format: console\npipeline:\n  output_dir: "+e.outDir+"\n")
	return e
}

// run executes the root command with args and returns what it printed.
func (e *testEnv) run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errb bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&errb)
	root.SetArgs(append([]string{"--config", e.configPath}, args...))
	err = root.ExecuteContext(context.Background())
	return out.String(), errb.String(), err
}

// writeModel writes the sample model and returns its path.
func (e *testEnv) writeModel(t *testing.T) string {
	t.Helper()
	return testutil.WriteFile(t, e.dir, "model.json", testutil.SampleModelJSON)
}

// build runs a full build of the sample model against a fake service.
func (e *testEnv) build(t *testing.T) {
	t.Helper()
	fake := testutil.NewSampleEquilibrator(t)
	if _, stderr, err := e.run(t, "build", "--model", e.writeModel(t), "--equilibrator-url", fake.URL()); err != nil {
		t.Fatalf("build failed: %v\n%s", err, stderr)
	}
}

//Personal.AI order the ending
