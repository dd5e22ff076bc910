package testutil_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/gem-thermo/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/gem-thermo/internal/testutil"
)

func TestMockLogger(t *testing.T) {
	logger := testutil.NewMockLogger()

	logger.Info("test info", logging.String("key", "value"))

	messages := logger.GetMessages()
	assert.Len(t, messages, 1)
	assert.Equal(t, "info", messages[0].Level)
	assert.Equal(t, "test info", messages[0].Message)
	assert.Equal(t, "value", messages[0].Field("key"))

	logger.Clear()
	assert.Len(t, logger.GetMessages(), 0)

	logger.Error("test error")
	assert.True(t, logger.HasMessage("error", "test error"))
	assert.False(t, logger.HasMessage("info", "test info"))
}

func TestMockLogger_DerivedLoggersShareRecord(t *testing.T) {
	logger := testutil.NewMockLogger()

	child := logger.Named("pipeline").With(logging.String("run_id", "r1"))
	child.Named("resolver").Warn("slow", logging.Int("ms", 12))

	msg := logger.Find("warn", "slow")
	require.NotNil(t, msg)
	assert.Equal(t, "pipeline.resolver", msg.Logger)
	assert.Equal(t, "r1", msg.Field("run_id"))
	assert.Equal(t, 12, msg.Field("ms"))
	assert.Equal(t, 1, logger.Count("warn"))
}

func TestFakeEquilibrator(t *testing.T) {
	f := testutil.NewSampleEquilibrator(t)

	resp, err := http.Get(f.URL() + testutil.PathCompoundSearch + "?query=" + url.QueryEscape("kegg:C00031"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet,
		f.URL()+testutil.PathCompoundSearch+"?query=kegg:C99999", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	assert.Equal(t, 2, f.Calls(testutil.PathCompoundSearch))
}

//Personal.AI order the ending
