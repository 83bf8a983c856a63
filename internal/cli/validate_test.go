package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
environment:
  apiUrl: http://api.example
  timeoutMs: 1000
testCategories:
  authentication: true
thresholds:
  successRatePercent: 90
  coveragePercent: 80
  performance:
    apiResponseMs: 2000
    pageLoadMs: 3000
    totalRunMs: 300000
requirements:
  auth.1: Users can sign in
`

const invalidConfigYAML = `
environment:
  timeoutMs: 1000
testCategories:
  authentication: true
thresholds:
  successRatePercent: 150
  coveragePercent: 80
  performance:
    apiResponseMs: 2000
    pageLoadMs: 3000
    totalRunMs: 300000
requirements:
  auth.1: Users can sign in
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidateCommand_Valid(t *testing.T) {
	path := writeConfig(t, validConfigYAML)

	root := NewRootCommand(nil)
	out, err := execute(t, root, "validate", path)

	assert.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")
}

func TestValidateCommand_InvalidListsErrorCodes(t *testing.T) {
	path := writeConfig(t, invalidConfigYAML)

	root := NewRootCommand(nil)
	out, err := execute(t, root, "validate", path)

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "[E001]", "missing apiUrl")
	assert.Contains(t, out, "[E004]", "threshold over 100")
}

func TestValidateCommand_JSONOutput(t *testing.T) {
	path := writeConfig(t, invalidConfigYAML)

	root := NewRootCommand(nil)
	out, err := execute(t, root, "--format", "json", "validate", path)
	require.Error(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Valid  bool `json:"valid"`
			Errors []struct {
				Code string `json:"code"`
			} `json:"errors"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.False(t, resp.Data.Valid)
	assert.Len(t, resp.Data.Errors, 2)
}

func TestValidateCommand_WithSuite(t *testing.T) {
	// Config without a catalog is invalid alone, but merging a suite
	// manifest supplies the requirements and categories.
	configPath, suitePath := writeRunFixtures(t)

	root := NewRootCommand(nil)
	_, err := execute(t, root, "validate", configPath, "--suite", suitePath)
	assert.NoError(t, err)
}

func TestValidateCommand_MissingFile(t *testing.T) {
	root := NewRootCommand(nil)
	_, err := execute(t, root, "validate", "missing.yaml")

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
