package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/turtacn/gem-thermo/internal/infrastructure/monitoring/logging"
)

func TestNewFileWatcher_Validation(t *testing.T) {
	t.Parallel()

	_, err := newFileWatcher([]string{"", ""}, time.Millisecond, logging.NewNopLogger())
	assert.Error(t, err)

	dir := t.TempDir()
	w, err := newFileWatcher([]string{filepath.Join(dir, "a.json"), filepath.Join(dir, "b.json"), ""}, time.Millisecond, logging.NewNopLogger())
	require.NoError(t, err)
	assert.Len(t, w.files, 2)
	assert.Len(t, w.dirs, 1, "files in one directory share a watch")
}

func TestFileWatcher_DebouncesAndFilters(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	watched := filepath.Join(dir, "model.json")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(watched, []byte("{}"), 0o644))

	w, err := newFileWatcher([]string{watched}, 50*time.Millisecond, logging.NewNopLogger())
	require.NoError(t, err)

	changes := make(chan []string, 16)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(_ context.Context, changed []string) { changes <- changed })
	}()

	// The watch is registered asynchronously; keep touching the file until
	// the first callback arrives.
	var first []string
	require.Eventually(t, func() bool {
		_ = os.WriteFile(watched, []byte(`{"id":"x"}`), 0o644)
		select {
		case first = <-changes:
			return true
		case <-time.After(100 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{watched}, first)

	// Let trailing events settle, then check that other files are ignored.
	time.Sleep(200 * time.Millisecond)
	drain(changes)
	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o644))
	select {
	case c := <-changes:
		t.Fatalf("unexpected callback for %v", c)
	case <-time.After(200 * time.Millisecond):
	}

	// A burst of writes collapses into one callback.
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(watched, []byte(`{"id":"burst"}`), 0o644))
	}
	select {
	case c := <-changes:
		assert.Equal(t, []string{watched}, c)
	case <-time.After(2 * time.Second):
		t.Fatal("no callback after burst")
	}
	select {
	case c := <-changes:
		t.Fatalf("burst produced a second callback %v", c)
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func drain(ch chan []string) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

//Personal.AI order the ending
