package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qaforge/reqtrace/internal/config"
	"github.com/qaforge/reqtrace/internal/module"
	"github.com/qaforge/reqtrace/internal/result"
	"github.com/qaforge/reqtrace/internal/testutil"
)

const testConfigYAML = `
environment:
  apiUrl: http://api.example
  timeoutMs: 1000
thresholds:
  successRatePercent: 90
  coveragePercent: 80
  performance:
    apiResponseMs: 2000
    pageLoadMs: 3000
    totalRunMs: 300000
`

const testSuiteCUE = `
suite: {
	name: "cli-test"

	requirements: {
		"auth.1":    "Users can sign in"
		"auth.2":    "Sessions expire"
		"billing.1": "Invoices are generated"
		"billing.2": "Refunds are processed"
	}

	modules: {
		auth: {
			category: "authentication"
			requirements: ["auth.1", "auth.2"]
		}
		billing: {
			category: "billing"
			requirements: ["billing.1"]
		}
	}
}
`

// writeRunFixtures writes a config file and suite manifest into a temp dir.
func writeRunFixtures(t *testing.T) (configPath, suitePath string) {
	t.Helper()

	dir := t.TempDir()
	configPath = filepath.Join(dir, "config.yaml")
	suitePath = filepath.Join(dir, "suite.cue")
	require.NoError(t, os.WriteFile(configPath, []byte(testConfigYAML), 0o644))
	require.NoError(t, os.WriteFile(suitePath, []byte(testSuiteCUE), 0o644))
	return configPath, suitePath
}

// testResolver wires canned implementations for the fixture suite:
// auth passes both tests, billing fails its one test.
func testResolver(*config.Config) module.FactorySet {
	return module.FactorySet{
		"auth": testutil.ReportModule(&module.Report{
			Passed: true, TotalTests: 2, PassedTests: 2,
			RequirementCoverage: map[string]result.CoverageLevel{
				"auth.1": result.CoverageFull,
				"auth.2": result.CoverageFull,
			},
		}),
		"billing": testutil.ReportModule(&module.Report{
			Passed: false, TotalTests: 1, FailedTests: 1,
		}),
	}
}

func TestRunCommand_FailingModuleExitsOne(t *testing.T) {
	configPath, suitePath := writeRunFixtures(t)

	root := NewRootCommand(testResolver)
	out, err := execute(t, root, "run", "--config", configPath, "--suite", suitePath)

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "1 module(s) failed")

	// The summary still renders: the failure is a verdict, not a crash.
	assert.Contains(t, out, "Score")
	assert.Contains(t, out, "billing")
}

func TestRunCommand_ExportsFiles(t *testing.T) {
	configPath, suitePath := writeRunFixtures(t)
	outDir := t.TempDir()

	root := NewRootCommand(testResolver)
	_, err := execute(t, root, "run",
		"--config", configPath,
		"--suite", suitePath,
		"--export", "json,csv",
		"--out", outDir,
	)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	jsons, globErr := filepath.Glob(filepath.Join(outDir, "reqtrace-*.json"))
	require.NoError(t, globErr)
	require.Len(t, jsons, 1)

	csvs, globErr := filepath.Glob(filepath.Join(outDir, "reqtrace-*.csv"))
	require.NoError(t, globErr)
	require.Len(t, csvs, 1)

	data, readErr := os.ReadFile(csvs[0])
	require.NoError(t, readErr)
	assert.Contains(t, string(data), `"Requirement ID"`)
	assert.Contains(t, string(data), `"billing.2","Refunds are processed","uncovered"`)
}

func TestRunCommand_ArchivesRun(t *testing.T) {
	configPath, suitePath := writeRunFixtures(t)
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	root := NewRootCommand(testResolver)
	_, err := execute(t, root, "run",
		"--config", configPath,
		"--suite", suitePath,
		"--db", dbPath,
	)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	_, statErr := os.Stat(dbPath)
	assert.NoError(t, statErr, "archive database was not created")
}

func TestRunCommand_AllPassingExitsZero(t *testing.T) {
	configPath, suitePath := writeRunFixtures(t)

	resolver := func(*config.Config) module.FactorySet {
		return module.FactorySet{
			"auth":    testutil.PassingModule(2, "auth.1", "auth.2"),
			"billing": testutil.PassingModule(1, "billing.1"),
		}
	}

	root := NewRootCommand(resolver)
	_, err := execute(t, root, "run", "--config", configPath, "--suite", suitePath)
	assert.NoError(t, err)
}

func TestRunCommand_MissingInputs(t *testing.T) {
	root := NewRootCommand(testResolver)
	_, err := execute(t, root, "run", "--config", "nope.yaml", "--suite", "nope.cue")

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunCommand_NoResolverSkipsEverything(t *testing.T) {
	configPath, suitePath := writeRunFixtures(t)

	root := NewRootCommand(nil)
	out, err := execute(t, root, "run", "--config", configPath, "--suite", suitePath)

	// No implementations wired: every module is skipped, nothing fails.
	assert.NoError(t, err)
	assert.Contains(t, out, "implementation missing")
}
