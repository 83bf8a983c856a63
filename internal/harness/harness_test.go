package harness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qaforge/reqtrace/internal/result"
)

func TestRun_WorkedExample(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/worked-example.yaml")
	require.NoError(t, err)

	res, err := New().Run(context.Background(), s)
	require.NoError(t, err)

	assert.True(t, res.Pass, "expectation errors: %v", res.Errors)
	assert.Equal(t, "scenario-worked-example", res.Run.Token)
	assert.Equal(t, 66, res.Run.Summary.OverallScorePercent)
}

func TestRun_FaultIsolation(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/fault-isolation.yaml")
	require.NoError(t, err)

	res, err := New().Run(context.Background(), s)
	require.NoError(t, err)

	assert.True(t, res.Pass, "expectation errors: %v", res.Errors)
}

func TestRun_Deterministic(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/worked-example.yaml")
	require.NoError(t, err)

	h := New()
	first, err := h.Run(context.Background(), s)
	require.NoError(t, err)
	second, err := h.Run(context.Background(), s)
	require.NoError(t, err)

	assert.Equal(t, first.Run, second.Run, "two runs of the same scenario differ")
}

func TestRun_CollectsAllMismatches(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/worked-example.yaml")
	require.NoError(t, err)

	// Sabotage several expectations; every mismatch must be reported,
	// not just the first.
	wrongScore := 100
	wrongCoverage := 10
	s.Expect.Score = &wrongScore
	s.Expect.Coverage = &wrongCoverage
	s.Expect.ModuleStatuses = map[string]result.Status{
		"auth":  result.StatusFailed,
		"ghost": result.StatusPassed,
	}

	res, err := New().Run(context.Background(), s)
	require.NoError(t, err)

	assert.False(t, res.Pass)
	assert.Len(t, res.Errors, 4)
}

func TestRun_InvalidCatalogIsSetupError(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: broken
requirements: { "NotAnID": broken }
modules:
  - name: m
    category: c
`))
	require.NoError(t, err)

	_, err = New().Run(context.Background(), s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}
