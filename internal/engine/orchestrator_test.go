package engine

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qaforge/reqtrace/internal/config"
	"github.com/qaforge/reqtrace/internal/module"
	"github.com/qaforge/reqtrace/internal/report"
	"github.com/qaforge/reqtrace/internal/testutil"
)

func testOrchestrator(t *testing.T) *Orchestrator {
	t.Helper()

	cfg := testConfig(
		map[string]string{"a.1": "first", "a.2": "second", "b.1": "third", "b.2": "fourth"},
		map[string]bool{"alpha": true, "beta": true},
	)
	descriptors := []module.Descriptor{
		{Name: "module1", Category: "alpha", Requirements: []string{"a.1", "a.2"}, Enabled: true},
		{Name: "module2", Category: "beta", Requirements: []string{"b.1"}, Enabled: true},
	}
	factories := module.FactorySet{
		"module1": testutil.PassingModule(2, "a.1", "a.2"),
		"module2": testutil.FailingModule(1, 1, "b.1"),
	}

	o, err := NewOrchestrator(cfg, descriptors, factories, WithTokenGenerator(NewFixedGenerator("run-orch")))
	require.NoError(t, err)
	return o
}

func TestNewOrchestrator_InvalidConfig(t *testing.T) {
	cfg := testConfig(map[string]string{"a.1": "first"}, map[string]bool{"alpha": true})
	cfg.Environment.APIURL = ""
	cfg.Thresholds.SuccessRatePercent = 150

	_, err := NewOrchestrator(cfg, nil, nil)

	var cerr *ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Len(t, cerr.Errors, 2)
	assert.Contains(t, err.Error(), config.ErrMissingAPIURL)
	assert.Contains(t, err.Error(), config.ErrThresholdRange)
}

func TestNewOrchestrator_UnknownRequirement(t *testing.T) {
	cfg := testConfig(map[string]string{"a.1": "first"}, map[string]bool{"alpha": true})
	descriptors := []module.Descriptor{
		{Name: "m", Category: "alpha", Requirements: []string{"z.9"}, Enabled: true},
	}

	_, err := NewOrchestrator(cfg, descriptors, module.FactorySet{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "z.9")
}

func TestOrchestrator_AccessorsBeforeRun(t *testing.T) {
	o := testOrchestrator(t)

	_, err := o.TraceabilityMatrix()
	assert.ErrorIs(t, err, ErrNoRunYet)

	_, err = o.Export([]string{"json"})
	assert.ErrorIs(t, err, ErrNoRunYet)
}

func TestOrchestrator_MatrixIdempotent(t *testing.T) {
	o := testOrchestrator(t)
	run := o.ExecuteAllTests(context.Background())

	m1, err := o.TraceabilityMatrix()
	require.NoError(t, err)
	m2, err := o.TraceabilityMatrix()
	require.NoError(t, err)

	assert.Equal(t, m1, m2)
	assert.Equal(t, run.Matrix, m1)
}

func TestOrchestrator_Export(t *testing.T) {
	o := testOrchestrator(t)
	o.ExecuteAllTests(context.Background())

	out, err := o.Export([]string{"json", "csv"})
	require.NoError(t, err)
	require.Contains(t, out, "json")
	require.Contains(t, out, "csv")

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out["json"], &doc))
	assert.Equal(t, "run-orch", doc["token"])

	assert.Contains(t, string(out["csv"]), `"Requirement ID"`)
}

func TestOrchestrator_ExportUnknownFormat(t *testing.T) {
	o := testOrchestrator(t)
	o.ExecuteAllTests(context.Background())

	_, err := o.Export([]string{"xml"})

	var xerr *report.ExportError
	require.True(t, errors.As(err, &xerr))
	assert.Equal(t, "xml", xerr.Format)
}
