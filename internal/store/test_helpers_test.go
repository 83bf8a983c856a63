package store

import (
	"testing"

	"github.com/qaforge/reqtrace/internal/catalog"
	"github.com/qaforge/reqtrace/internal/coverage"
	"github.com/qaforge/reqtrace/internal/recommend"
	"github.com/qaforge/reqtrace/internal/result"
)

// archivedRun builds a fully-derived run the way the engine assembles one,
// so a round-trip through the store can be compared field for field.
func archivedRun(t *testing.T, token, startedAt string) *result.Run {
	t.Helper()

	cat, err := catalog.New(map[string]string{
		"auth.1":  "Users can sign in",
		"auth.2":  "Sessions expire",
		"sheet.1": "Rows sync to the spreadsheet",
		"sheet.2": "Deleted rows are tombstoned",
	})
	if err != nil {
		t.Fatalf("catalog.New() failed: %v", err)
	}

	results := []result.ModuleResult{
		{
			Name: "auth", Category: "authentication",
			Requirements: []string{"auth.1", "auth.2"},
			Status:       result.StatusPassed,
			TotalTests:   4, PassedTests: 4,
			DurationMs: 120,
			RequirementCoverage: map[string]result.CoverageLevel{
				"auth.1": result.CoverageFull,
				"auth.2": result.CoverageFull,
			},
		},
		{
			Name: "sheets", Category: "spreadsheet",
			Requirements: []string{"sheet.1"},
			Status:       result.StatusFailed,
			TotalTests:   3, PassedTests: 1, FailedTests: 2,
			DurationMs: 340,
			RequirementCoverage: map[string]result.CoverageLevel{
				"sheet.1": result.CoveragePartial,
			},
		},
		{
			Name: "reports", Category: "reporting",
			Requirements: []string{"sheet.2"},
			Status:       result.StatusSkipped,
			Reason:       result.ReasonDisabled,
		},
	}

	threshold := 90
	cov := coverage.Build(results)
	gaps := coverage.DetectGaps(cat, cov)
	summary := result.Summarize(results)

	return &result.Run{
		Token:                token,
		StartedAt:            startedAt,
		SuccessRateThreshold: threshold,
		Results:              results,
		Coverage:             cov,
		Gaps:                 gaps,
		Recommendations:      recommend.Build(summary, gaps, threshold),
		Matrix:               coverage.BuildMatrix(cat, cov),
		Summary:              summary,
	}
}

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(t.TempDir() + "/archive.db")
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}
