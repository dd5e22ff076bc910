package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/gem-thermo/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Construction
// ─────────────────────────────────────────────────────────────────────────────

func TestNew_FieldsAreSet(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"model invalid", errors.ErrCodeModelInvalid, "reaction R_0001 has no metabolites"},
		{"conditions", errors.ErrCodeConditionsInvalid, "membrane mito has no inner compartment"},
		{"cache", errors.ErrCodeCacheWriteFailed, "compounds_thermo.json"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ae := errors.New(tc.code, tc.message)
			require.NotNil(t, ae)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.message, ae.Message)
			assert.Empty(t, ae.Detail)
			assert.Nil(t, ae.Cause)
			assert.Contains(t, ae.Stack, "errors_test.go")
		})
	}
}

func TestAppError_ErrorFormat(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.ErrCodeModelReadFailed, "cannot read model")
	assert.Equal(t, "[MDL_001] cannot read model", ae.Error())

	withDetail := ae.WithDetail("models/yeast-GEM.json")
	assert.Equal(t, "[MDL_001] cannot read model: models/yeast-GEM.json", withDetail.Error())
	assert.Empty(t, ae.Detail, "WithDetail must not mutate the receiver")

	withCause := withDetail.WithCause(fmt.Errorf("permission denied"))
	assert.Equal(t, "[MDL_001] cannot read model: models/yeast-GEM.json: permission denied", withCause.Error())
}

func TestAppError_NilReceiverBuilders(t *testing.T) {
	t.Parallel()

	var ae *errors.AppError
	assert.Nil(t, ae.WithDetail("x"))
	assert.Nil(t, ae.WithCause(fmt.Errorf("x")))
}

// ─────────────────────────────────────────────────────────────────────────────
// Wrap
// ─────────────────────────────────────────────────────────────────────────────

func TestWrap_NilErrorReturnsNil(t *testing.T) {
	t.Parallel()
	assert.Nil(t, errors.Wrap(nil, errors.ErrCodeInternal, "ignored"))
	assert.Nil(t, errors.Wrapf(nil, errors.ErrCodeInternal, "ignored %d", 1))
}

func TestWrap_UnwrapsToCause(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("disk full")
	ae := errors.Wrap(cause, errors.ErrCodeCacheWriteFailed, "writing reactions")
	require.NotNil(t, ae)
	assert.True(t, stderrors.Is(ae, cause))
	assert.Equal(t, cause, stderrors.Unwrap(ae))
}

func TestWrap_CodeUnknownKeepsInnerCode(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.ErrCodeConditionsInvalid, "bad pH")
	outer := errors.Wrap(inner, errors.CodeUnknown, "loading conditions")
	assert.Equal(t, errors.ErrCodeConditionsInvalid, outer.Code)
}

func TestWrapf_FormatsMessage(t *testing.T) {
	t.Parallel()

	ae := errors.Wrapf(fmt.Errorf("eof"), errors.ErrCodeModelInvalid, "reaction %s", "R1")
	assert.Equal(t, "reaction R1", ae.Message)
}

// ─────────────────────────────────────────────────────────────────────────────
// Chain inspection
// ─────────────────────────────────────────────────────────────────────────────

func TestIsCode_WalksChain(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.ErrCodeCompoundNotFound, "kegg:C99999")
	mid := errors.Wrap(inner, errors.ErrCodeServiceResponse, "lookup")
	outer := fmt.Errorf("context: %w", mid)

	assert.True(t, errors.IsCode(outer, errors.ErrCodeServiceResponse))
	assert.True(t, errors.IsCode(outer, errors.ErrCodeCompoundNotFound))
	assert.False(t, errors.IsCode(outer, errors.ErrCodeModelInvalid))
	assert.False(t, errors.IsCode(nil, errors.ErrCodeModelInvalid))
	assert.False(t, errors.IsCode(fmt.Errorf("plain"), errors.ErrCodeModelInvalid))
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	assert.True(t, errors.IsNotFound(errors.NotFound("x")))
	assert.True(t, errors.IsNotFound(errors.New(errors.ErrCodeCacheEntryNotFound, "R1")))
	assert.True(t, errors.IsNotFound(errors.Wrap(errors.New(errors.ErrCodeCompoundNotFound, "x"), errors.ErrCodeServiceResponse, "y")))
	assert.False(t, errors.IsNotFound(errors.Internal("x")))
	assert.False(t, errors.IsNotFound(nil))
}

func TestGetCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(fmt.Errorf("plain")))
	assert.Equal(t, errors.ErrCodeInvalidConfig, errors.GetCode(errors.InvalidConfig("x")))
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", errors.Describe(nil))
	assert.Equal(t, "plain", errors.Describe(fmt.Errorf("plain")))

	inner := errors.New(errors.ErrCodeServiceResponse, "HTTP 500").WithDetail("POST /v1/reactions/standard-dg")
	outer := errors.Wrap(inner, errors.ErrCodeEstimateFailed, "standard dG")
	assert.Equal(t, "standard dG: HTTP 500: POST /v1/reactions/standard-dg", errors.Describe(outer))
}

// ─────────────────────────────────────────────────────────────────────────────
// Code tables
// ─────────────────────────────────────────────────────────────────────────────

func TestHTTPStatusForCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusNotFound, errors.HTTPStatusForCode(errors.ErrCodeCacheEntryNotFound))
	assert.Equal(t, http.StatusServiceUnavailable, errors.HTTPStatusForCode(errors.ErrCodeCacheNotLoaded))
	assert.Equal(t, http.StatusBadRequest, errors.HTTPStatusForCode(errors.ErrCodeBadRequest))
	assert.Equal(t, http.StatusInternalServerError, errors.HTTPStatusForCode(errors.ErrCodeEstimateFailed))
	assert.True(t, errors.IsClientError(errors.ErrCodeNotFound))
	assert.False(t, errors.IsClientError(errors.ErrCodeInternal))
}

func TestErrorCode_Module(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "THM", errors.ErrCodeEstimateFailed.Module())
	assert.Equal(t, "COMMON", errors.ErrCodeInternal.Module())
	assert.Equal(t, "", errors.CodeOK.Module())
	assert.Equal(t, "unknown error", errors.DefaultMessageForCode(errors.ErrCodeFormulaInvalid))
	assert.Equal(t, "cache entry not found", errors.DefaultMessageForCode(errors.ErrCodeCacheEntryNotFound))
}

//Personal.AI order the ending
