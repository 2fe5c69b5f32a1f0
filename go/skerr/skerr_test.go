package skerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSentinel = errors.New("sentinel")

func TestWrap_NilError_ReturnsNil(t *testing.T) {
	assert.NoError(t, Wrap(nil))
	assert.NoError(t, Wrapf(nil, "ignored %d", 1))
}

func TestWrapf_KeepsSentinelReachable(t *testing.T) {
	err := Wrapf(errSentinel, "width %d vs %d", 10, 12)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errSentinel))
	assert.Contains(t, err.Error(), "width 10 vs 12: sentinel")
	assert.Contains(t, err.Error(), "skerr_test.go")
	assert.Equal(t, errSentinel, Unwrap(err))
}

func TestWrapf_Twice_KeepsOriginalCallStack(t *testing.T) {
	inner := Wrap(errSentinel)
	outer := Wrapf(inner, "outer")

	var innerCtx, outerCtx *ErrorWithContext
	require.True(t, errors.As(inner, &innerCtx))
	require.True(t, errors.As(outer, &outerCtx))
	assert.Equal(t, innerCtx.CallStack, outerCtx.CallStack)
	assert.True(t, errors.Is(outer, errSentinel))
}

func TestFmt_RecordsCallSite(t *testing.T) {
	err := Fmt("bad value %q", "x")
	var ewc *ErrorWithContext
	require.True(t, errors.As(err, &ewc))
	require.NotEmpty(t, ewc.CallStack)
	assert.Equal(t, "skerr/skerr_test.go", ewc.CallStack[0].File)
}
