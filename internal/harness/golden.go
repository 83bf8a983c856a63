package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/qaforge/reqtrace/internal/report"
)

// RunWithGolden executes a scenario and compares its exported traceability
// matrix against a golden file stored at testdata/golden/{Name}.golden.
//
// The CSV export is used for comparison because scenario runs are fully
// deterministic: fixed token, manual clock, canned reports.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, h *Harness, s *Scenario) *Result {
	t.Helper()

	res, err := h.Run(context.Background(), s)
	if err != nil {
		t.Fatalf("scenario %q failed to run: %v", s.Name, err)
	}

	for _, msg := range res.Errors {
		t.Errorf("scenario %q: %s", s.Name, msg)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, s.Name, report.CSV(res.Run.Matrix))

	return res
}
