package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// archiveFixture runs the fixture suite with --db and returns the archive
// path and the archived run's token.
func archiveFixture(t *testing.T) (dbPath, token string) {
	t.Helper()

	configPath, suitePath := writeRunFixtures(t)
	dbPath = filepath.Join(t.TempDir(), "runs.db")

	root := NewRootCommand(testResolver)
	_, err := execute(t, root, "run", "--config", configPath, "--suite", suitePath, "--db", dbPath)
	require.Equal(t, ExitFailure, GetExitCode(err), "fixture run should fail its billing module")

	// Recover the generated token from the history listing.
	historyRoot := NewRootCommand(nil)
	out, err := execute(t, historyRoot, "--format", "json", "history", "--db", dbPath)
	require.NoError(t, err)

	var resp struct {
		Data []struct {
			Token string `json:"Token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 1)
	return dbPath, resp.Data[0].Token
}

func TestExportCommand_ReExportsArchivedRun(t *testing.T) {
	dbPath, token := archiveFixture(t)
	outDir := t.TempDir()

	root := NewRootCommand(nil)
	out, err := execute(t, root, "export", "--db", dbPath, "--run", token, "--out", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote")

	csvData, readErr := os.ReadFile(filepath.Join(outDir, "reqtrace-"+token+".csv"))
	require.NoError(t, readErr)
	assert.Contains(t, string(csvData), `"auth.1","Users can sign in","passing"`)

	jsonData, readErr := os.ReadFile(filepath.Join(outDir, "reqtrace-"+token+".json"))
	require.NoError(t, readErr)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(jsonData, &doc))
	assert.Equal(t, token, doc["token"])
}

func TestExportCommand_UnknownToken(t *testing.T) {
	dbPath, _ := archiveFixture(t)

	root := NewRootCommand(nil)
	_, err := execute(t, root, "export", "--db", dbPath, "--run", "missing-token")

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "not found")
}

func TestHistoryCommand_Text(t *testing.T) {
	dbPath, token := archiveFixture(t)

	root := NewRootCommand(nil)
	out, err := execute(t, root, "history", "--db", dbPath)
	require.NoError(t, err)

	assert.Contains(t, out, "TOKEN")
	assert.Contains(t, out, token)
}

func TestHistoryCommand_EmptyArchive(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "empty.db")

	root := NewRootCommand(nil)
	out, err := execute(t, root, "history", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "no archived runs")
}
