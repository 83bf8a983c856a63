// Package result defines the shared vocabulary for a test run: per-module
// outcomes, the aggregated summary, and every derived projection (coverage
// entries, gaps, recommendations, traceability records).
//
// All types here are plain data. They are produced once by the engine and
// its analyzers and are read-only afterwards; exporters and the run archive
// consume them without further computation.
package result

// Status is the outcome of one module execution.
type Status string

const (
	// StatusPassed means the module ran and every one of its tests passed.
	StatusPassed Status = "passed"

	// StatusFailed means the module ran but at least one test failed.
	StatusFailed Status = "failed"

	// StatusError means the module's entry point returned an error, panicked,
	// or was cut off by the watchdog timeout. Distinct from StatusFailed:
	// the module never produced a trustworthy self-report.
	StatusError Status = "error"

	// StatusSkipped means the module was never invoked. The Reason field
	// on ModuleResult says why (disabled, implementation missing, cancelled).
	StatusSkipped Status = "skipped"
)

// Skip reasons recorded on ModuleResult.Reason when Status is StatusSkipped.
const (
	ReasonDisabled       = "disabled"
	ReasonMissing        = "implementation missing"
	ReasonCancelled      = "cancelled"
)

// CoverageLevel is a module's self-reported depth of coverage for one
// requirement.
type CoverageLevel string

const (
	CoverageFull    CoverageLevel = "full"
	CoveragePartial CoverageLevel = "partial"
)

// ModuleResult is the immutable record of one module execution.
// Created exactly once by the execution engine; read-only thereafter.
type ModuleResult struct {
	// Name is the module's registered name.
	Name string `json:"name"`

	// Category is the test category the module belongs to.
	Category string `json:"category"`

	// Requirements are the requirement IDs declared by the module's
	// descriptor, in declaration order. Copied here so downstream
	// analyzers never need the registry.
	Requirements []string `json:"requirements"`

	Status Status `json:"status"`

	// Reason explains a skip (see the Reason* constants). Empty otherwise.
	Reason string `json:"reason,omitempty"`

	TotalTests  int `json:"totalTests"`
	PassedTests int `json:"passedTests"`
	FailedTests int `json:"failedTests"`

	// DurationMs is the wall-clock time spent inside the module's entry
	// point, in milliseconds. Zero for skipped modules.
	DurationMs int64 `json:"durationMs"`

	// RequirementCoverage is the module's self-reported coverage level per
	// requirement ID, copied verbatim from its report.
	RequirementCoverage map[string]CoverageLevel `json:"requirementCoverage,omitempty"`

	// Error holds the captured message when Status is StatusError.
	Error string `json:"error,omitempty"`
}

// Executed reports whether the module's entry point actually ran.
func (m ModuleResult) Executed() bool {
	return m.Status != StatusSkipped
}

// Summary is the single immutable aggregate snapshot of a run.
type Summary struct {
	TotalModules   int `json:"totalModules"`
	PassedModules  int `json:"passedModules"`
	FailedModules  int `json:"failedModules"`
	SkippedModules int `json:"skippedModules"`

	TotalTests  int `json:"totalTests"`
	PassedTests int `json:"passedTests"`
	FailedTests int `json:"failedTests"`

	TotalDurationMs int64 `json:"totalDurationMs"`

	// OverallScorePercent is test-weighted: passed tests over total tests
	// across all executed modules, truncated to an integer percentage.
	// Zero when no tests ran.
	OverallScorePercent int `json:"overallScorePercent"`
}

// Summarize folds module results into a Summary.
//
// A module counts as failed when its status is failed OR error: an
// erroring module must never make the run look healthier than a cleanly
// failing one. Test counts include every executed module's self-report.
func Summarize(results []ModuleResult) Summary {
	var s Summary
	s.TotalModules = len(results)

	for _, r := range results {
		switch r.Status {
		case StatusPassed:
			s.PassedModules++
		case StatusFailed, StatusError:
			s.FailedModules++
		case StatusSkipped:
			s.SkippedModules++
		}

		if r.Executed() {
			s.TotalTests += r.TotalTests
			s.PassedTests += r.PassedTests
			s.FailedTests += r.FailedTests
			s.TotalDurationMs += r.DurationMs
		}
	}

	if s.TotalTests > 0 {
		// Integer truncation, not rounding: 2/3 passed reports 66, not 67.
		s.OverallScorePercent = s.PassedTests * 100 / s.TotalTests
	}

	return s
}
