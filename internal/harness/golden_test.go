package harness

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Golden files hold the CSV traceability export of each scenario.
// Regenerate with: go test ./internal/harness -update

func TestGolden_WorkedExample(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/worked-example.yaml")
	require.NoError(t, err)

	RunWithGolden(t, New(), s)
}

func TestGolden_FaultIsolation(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/fault-isolation.yaml")
	require.NoError(t, err)

	RunWithGolden(t, New(), s)
}
