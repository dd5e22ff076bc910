package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/gem-thermo/internal/application/pipeline"
)

func TestNewRootCommand_Structure(t *testing.T) {
	cmd := NewRootCommand()
	if cmd.Use != "gemthermo" {
		t.Errorf("expected Use='gemthermo', got %q", cmd.Use)
	}
	if cmd.Short == "" || cmd.Long == "" {
		t.Error("Short and Long should not be empty")
	}
}

func TestNewRootCommand_SubcommandRegistration(t *testing.T) {
	cmd := NewRootCommand()

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"compounds", "reactions", "build", "serve", "watch", "lookup", "migrate", "version"} {
		if !names[want] {
			t.Errorf("expected subcommand %q not found", want)
		}
	}
}

func TestNewRootCommand_GlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	for _, name := range []string{"config", "log-level", "output", "verbose"} {
		if cmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("flag %q should exist", name)
		}
	}
	if got := cmd.PersistentFlags().Lookup("output").DefValue; got != "table" {
		t.Errorf("expected output default 'table', got %q", got)
	}
}

func TestPipelineCommands_Flags(t *testing.T) {
	for _, name := range []string{"compounds", "reactions", "build", "watch"} {
		cmd, _, err := NewRootCommand().Find([]string{name})
		require.NoError(t, err, name)
		for _, flag := range []string{"model", "model-name", "output-dir", "compartment-params", "redox-couples", "equilibrator-url"} {
			assert.NotNil(t, cmd.Flags().Lookup(flag), "%s --%s", name, flag)
		}
	}
}

func TestLookupCommand_Subcommands(t *testing.T) {
	cmd, _, err := NewRootCommand().Find([]string{"lookup"})
	require.NoError(t, err)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"stats", "reaction", "compound", "metabolite", "search"}, names)
}

func TestMigrateCommand_Subcommands(t *testing.T) {
	cmd, _, err := NewRootCommand().Find([]string{"migrate"})
	require.NoError(t, err)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"up", "down", "status", "force"}, names)
}

func TestMigrateForce_RejectsNonInteger(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := env.run(t, "migrate", "force", "latest")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version must be an integer")
}

func TestMigrate_RequiresDatabaseUser(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := env.run(t, "migrate", "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.user")
}

func TestVersionCommand(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "version")
	assert.Contains(t, out, Version)

	out, _, err = env.run(t, "-o", "json", "version")
	require.NoError(t, err)
	assert.Contains(t, out, `"git_commit": "`+GitCommit+`"`)
}

func TestFormatTable(t *testing.T) {
	got := FormatTable([]string{"KEY", "VALUE"}, [][]string{
		{"reactions", "2"},
		{"a", "longer value"},
		{"short"},
	})
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "KEY        VALUE       ", lines[0])
	assert.Equal(t, "---------  ------------", lines[1])
	assert.Equal(t, "reactions  2           ", lines[2])
	assert.Equal(t, "short                  ", lines[4])

	assert.Empty(t, FormatTable(nil, nil))
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab  ", padRight("ab", 4))
	assert.Equal(t, "abcdef", padRight("abcdef", 3))
}

func TestGetCLIContext_Missing(t *testing.T) {
	cmd := NewVersionCmd()
	_, err := GetCLIContext(cmd)
	assert.Error(t, err)
}

func TestRunResult_TableRows(t *testing.T) {
	r := &runResult{RunID: "id", ModelID: "m", Stage: "reactions", ReactionsPath: "out/r.json"}
	r.Reactions = &pipeline.ReactionSummary{
		Total:    4,
		Valid:    3,
		ByMethod: map[string]int{"standard": 3, "none": 1},
		ByError:  map[string]int{},
	}

	rows := r.TableRows()
	assert.Equal(t, []string{"run_id", "id"}, rows[0])
	assert.Contains(t, rows, []string{"reactions.file", "out/r.json"})
	assert.Contains(t, rows, []string{"reactions.method.none", "1"})
	assert.Contains(t, rows, []string{"reactions.method.standard", "3"})

	var methodRows []string
	for _, row := range rows {
		if strings.HasPrefix(row[0], "reactions.method.") {
			methodRows = append(methodRows, row[0])
		}
	}
	assert.Equal(t, []string{"reactions.method.none", "reactions.method.standard"}, methodRows)
}

//Personal.AI order the ending
