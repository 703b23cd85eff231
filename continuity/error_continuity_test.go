package continuity_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kmersync/kiblt/continuity"
)

func TestChainStopsAtFirstError(t *testing.T) {
	var ran []string
	boom := errors.New("boom")

	err := continuity.New().
		Thenf("step1", func() error {
			ran = append(ran, "step1")
			return nil
		}).
		Thenf("step2", func() error {
			ran = append(ran, "step2")
			return boom
		}).
		Thenf("step3", func() error {
			ran = append(ran, "step3")
			return nil
		}).Err()

	require.Error(t, err)
	require.Equal(t, []string{"step1", "step2"}, ran)
}

func TestChainSucceedsWhenNoStepErrors(t *testing.T) {
	err := continuity.New().
		Thenf("step1", func() error { return nil }).
		Thenf("step2", func() error { return nil }).Err()
	require.NoError(t, err)
}

func TestThenCollectsNonNilErrors(t *testing.T) {
	err := continuity.New().
		Then("checks", nil, errors.New("a"), nil, errors.New("b")).Err()
	require.Error(t, err)
	require.Contains(t, err.Error(), "multiple errors")
}
