// Package recommend generates prioritized recommendations from a run
// summary and its coverage gaps.
//
// The engine is a fixed rule list. Every rule is evaluated independently
// (all of them may fire in one run) and the output preserves
// rule-declaration order, NOT severity order. Callers that need
// severity-first ordering sort explicitly with SortBySeverity; that
// contract is part of the package API and covered by tests.
package recommend

import (
	"fmt"
	"sort"

	"github.com/qaforge/reqtrace/internal/result"
)

// LongRunThresholdMs is the total-duration bound for the performance rule:
// a run slower than five minutes earns a medium-priority recommendation.
const LongRunThresholdMs = 300000

// Build evaluates the rule list against a run summary and its gaps.
// successRateThreshold is the configured minimum overall score percent.
func Build(summary result.Summary, gaps []result.Gap, successRateThreshold int) []result.Recommendation {
	recs := []result.Recommendation{}

	// Rule 1: overall score below the configured threshold.
	if summary.OverallScorePercent < successRateThreshold {
		recs = append(recs, result.Recommendation{
			Priority: result.PriorityHigh,
			Category: "Overall Quality",
			Issue: fmt.Sprintf("overall score %d%% is below the %d%% threshold",
				summary.OverallScorePercent, successRateThreshold),
			Action: "Investigate failing tests and raise the pass rate before release",
		})
	}

	// Rule 2: any module failed or errored.
	if summary.FailedModules > 0 {
		recs = append(recs, result.Recommendation{
			Priority: result.PriorityHigh,
			Category: "Module Failures",
			Issue:    fmt.Sprintf("%d module(s) failed or errored", summary.FailedModules),
			Action:   "Review module error output and fix the failing test modules",
		})
	}

	// Rule 3: requirements whose entire coverage is failing.
	if failing := allFailingIDs(gaps); len(failing) > 0 {
		recs = append(recs, result.Recommendation{
			Priority:     result.PriorityCritical,
			Category:     "Requirement Coverage",
			Issue:        fmt.Sprintf("%d requirement(s) have only failing coverage", len(failing)),
			Action:       "Fix the tests covering these requirements; they currently verify nothing",
			Requirements: failing,
		})
	}

	// Rule 4: run took too long overall.
	if summary.TotalDurationMs > LongRunThresholdMs {
		recs = append(recs, result.Recommendation{
			Priority: result.PriorityMedium,
			Category: "Performance",
			Issue:    fmt.Sprintf("test run took %d ms", summary.TotalDurationMs),
			Action:   "Profile slow modules and tighten per-module timeouts",
		})
	}

	return recs
}

func allFailingIDs(gaps []result.Gap) []string {
	var ids []string
	for _, g := range gaps {
		if g.Kind == result.GapAllFailing {
			ids = append(ids, g.RequirementID)
		}
	}
	return ids
}

// priorityRank orders priorities for SortBySeverity, most severe first.
var priorityRank = map[result.Priority]int{
	result.PriorityCritical: 0,
	result.PriorityHigh:     1,
	result.PriorityMedium:   2,
	result.PriorityLow:      3,
}

// SortBySeverity returns a copy of recs ordered most-severe-first.
// The sort is stable: recommendations of equal priority keep their
// rule-declaration order.
func SortBySeverity(recs []result.Recommendation) []result.Recommendation {
	out := make([]result.Recommendation, len(recs))
	copy(out, recs)
	sort.SliceStable(out, func(i, j int) bool {
		return priorityRank[out[i].Priority] < priorityRank[out[j].Priority]
	})
	return out
}
