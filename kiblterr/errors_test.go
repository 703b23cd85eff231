package kiblterr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kmersync/kiblt/kiblterr"
)

func TestErrorFormatsWithAndWithoutCause(t *testing.T) {
	e := kiblterr.New(kiblterr.CodeInvalidParams, "bad k")
	require.Contains(t, e.Error(), "invalid_params")
	require.Contains(t, e.Error(), "bad k")

	wrapped := kiblterr.Wrap(kiblterr.CodeIO, "read failed", fmt.Errorf("disk full"))
	require.Contains(t, wrapped.Error(), "disk full")
	require.Equal(t, "disk full", wrapped.Unwrap().Error())
}

func TestIsMatchesSameCodeOnly(t *testing.T) {
	a := kiblterr.New(kiblterr.CodeUnpeelable, "")
	b := kiblterr.New(kiblterr.CodeUnpeelable, "different message")
	c := kiblterr.New(kiblterr.CodeAsymmetric, "")

	require.True(t, errors.Is(a, b))
	require.False(t, errors.Is(a, c))
}

func TestIsCodeWalksWrappedChain(t *testing.T) {
	inner := kiblterr.New(kiblterr.CodeBadMagic, "bad magic")
	outer := fmt.Errorf("loading sketch: %w", inner)

	require.True(t, kiblterr.IsCode(outer, kiblterr.CodeBadMagic))
	require.False(t, kiblterr.IsCode(outer, kiblterr.CodeIO))
}
