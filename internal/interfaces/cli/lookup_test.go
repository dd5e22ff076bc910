package cli

import (
	"net/http/httptest"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/gem-thermo/internal/config"
	"github.com/turtacn/gem-thermo/internal/domain/cache"
	apihttp "github.com/turtacn/gem-thermo/internal/interfaces/http"
	"github.com/turtacn/gem-thermo/internal/interfaces/http/handlers"
)

// ─────────────────────────────────────────────────────────────────────────────
// Local mode
// ─────────────────────────────────────────────────────────────────────────────

func TestLookup_Local(t *testing.T) {
	env := newTestEnv(t)
	env.build(t)

	t.Run("reaction", func(t *testing.T) {
		out, _, err := env.run(t, "-o", "json", "lookup", "reaction", "r_1166")
		require.NoError(t, err)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(out), &body))
		thermo := body["thermodynamics"].(map[string]interface{})
		assert.Equal(t, "transport", thermo["method"])
	})

	t.Run("search table", func(t *testing.T) {
		out, _, err := env.run(t, "lookup", "search", "c00031")
		require.NoError(t, err)
		assert.Contains(t, out, "METABOLITE")
		assert.Contains(t, out, "s_0563")
		assert.Contains(t, out, "s_0565")
	})

	t.Run("metabolite", func(t *testing.T) {
		out, _, err := env.run(t, "-o", "json", "lookup", "metabolite", "s_0434")
		require.NoError(t, err)
		var body handlers.MetaboliteCompoundResponse
		require.NoError(t, json.Unmarshal([]byte(out), &body))
		assert.Equal(t, "s_0434", body.MetaboliteID)
		require.NotNil(t, body.Compound)
		assert.Contains(t, body.Compound.Identifiers.YeastGEM, "s_0434")

		out, _, err = env.run(t, "-o", "json", "lookup", "compound", body.Key)
		require.NoError(t, err)
		assert.Contains(t, out, "s_0434")
	})

	t.Run("stats", func(t *testing.T) {
		out, _, err := env.run(t, "-o", "json", "lookup", "stats")
		require.NoError(t, err)
		var st cache.Stats
		require.NoError(t, json.Unmarshal([]byte(out), &st))
		assert.Equal(t, 2, st.ReactionsCount)
		assert.Equal(t, 5, st.CompoundsCount)
		assert.True(t, st.Available)
	})

	t.Run("not found", func(t *testing.T) {
		for _, args := range [][]string{
			{"lookup", "reaction", "r_9999"},
			{"lookup", "compound", "kegg:C99999"},
			{"lookup", "metabolite", "s_9999"},
		} {
			_, _, err := env.run(t, args...)
			require.Error(t, err, args)
			assert.Contains(t, err.Error(), "CCH_003", args)
		}
	})
}

func TestLookup_LocalWithoutCache(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run(t, "lookup", "reaction", "r_1166")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CCH_004")

	out, _, err := env.run(t, "-o", "json", "lookup", "search", "C00031")
	require.NoError(t, err)
	assert.Contains(t, out, `"metabolites": []`)
}

func TestLookup_OutputDirFlag(t *testing.T) {
	env := newTestEnv(t)
	env.build(t)

	other := newTestEnv(t)
	_, _, err := other.run(t, "lookup", "reaction", "r_1166", "--output-dir", env.outDir)
	assert.NoError(t, err)
}

// ─────────────────────────────────────────────────────────────────────────────
// Server mode
// ─────────────────────────────────────────────────────────────────────────────

func TestLookup_Server(t *testing.T) {
	env := newTestEnv(t)
	env.build(t)

	s, err := cache.LoadSnapshot(
		filepath.Join(env.outDir, config.DefaultCompoundsFile),
		filepath.Join(env.outDir, config.DefaultReactionsFile))
	require.NoError(t, err)
	holder := cache.NewHolder(s)
	srv := httptest.NewServer(apihttp.NewRouter(apihttp.RouterConfig{
		CacheHandler:  handlers.NewCacheHandler(holder),
		HealthHandler: handlers.NewHealthHandler("test", holder),
		Mode:          gin.TestMode,
	}))
	defer srv.Close()

	// A client with no local caches reads everything from the server.
	client := newTestEnv(t)

	out, _, err := client.run(t, "-o", "json", "lookup", "--server", srv.URL, "reaction", "r_0534")
	require.NoError(t, err)
	assert.Contains(t, out, `"method": "standard"`)

	out, _, err = client.run(t, "lookup", "--server", srv.URL, "search", "C00031")
	require.NoError(t, err)
	assert.Contains(t, out, "s_0565")

	_, _, err = client.run(t, "lookup", "--server", srv.URL, "reaction", "r_9999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")

	holder.Swap(cache.Empty())
	_, _, err = client.run(t, "lookup", "--server", srv.URL, "--timeout", "2s", "stats")
	require.NoError(t, err, "stats are served while nothing is loaded")
}

//Personal.AI order the ending
