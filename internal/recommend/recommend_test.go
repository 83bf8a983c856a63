package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qaforge/reqtrace/internal/result"
)

func TestBuild_NoFindings(t *testing.T) {
	summary := result.Summary{OverallScorePercent: 100, TotalDurationMs: 1200}
	recs := Build(summary, nil, 90)
	assert.Empty(t, recs)
}

func TestBuild_ScoreBelowThreshold(t *testing.T) {
	summary := result.Summary{OverallScorePercent: 80}
	recs := Build(summary, nil, 90)

	require.Len(t, recs, 1)
	assert.Equal(t, result.PriorityHigh, recs[0].Priority)
	assert.Equal(t, "Overall Quality", recs[0].Category)
	assert.Contains(t, recs[0].Issue, "80%")
}

func TestBuild_FailedModules(t *testing.T) {
	summary := result.Summary{OverallScorePercent: 95, FailedModules: 2}
	recs := Build(summary, nil, 90)

	require.Len(t, recs, 1)
	assert.Equal(t, "Module Failures", recs[0].Category)
}

func TestBuild_AllFailingGaps(t *testing.T) {
	summary := result.Summary{OverallScorePercent: 95}
	gaps := []result.Gap{
		{RequirementID: "b.2", Kind: result.GapNoCoverage, Severity: result.SeverityHigh},
		{RequirementID: "b.1", Kind: result.GapAllFailing, Severity: result.SeverityCritical},
		{RequirementID: "c.1", Kind: result.GapAllFailing, Severity: result.SeverityCritical},
	}

	recs := Build(summary, gaps, 90)

	require.Len(t, recs, 1)
	assert.Equal(t, result.PriorityCritical, recs[0].Priority)
	assert.Equal(t, "Requirement Coverage", recs[0].Category)
	// Affected IDs are only the AllFailing gaps, in gap order.
	assert.Equal(t, []string{"b.1", "c.1"}, recs[0].Requirements)
}

func TestBuild_SlowRun(t *testing.T) {
	summary := result.Summary{OverallScorePercent: 100, TotalDurationMs: LongRunThresholdMs + 1}
	recs := Build(summary, nil, 90)

	require.Len(t, recs, 1)
	assert.Equal(t, result.PriorityMedium, recs[0].Priority)
	assert.Equal(t, "Performance", recs[0].Category)
}

func TestBuild_AllRulesFire_DeclarationOrder(t *testing.T) {
	// Every rule fires; the list must stay in rule order even though the
	// critical coverage rule outranks the high-priority ones.
	summary := result.Summary{
		OverallScorePercent: 50,
		FailedModules:       1,
		TotalDurationMs:     LongRunThresholdMs + 500,
	}
	gaps := []result.Gap{{RequirementID: "a.1", Kind: result.GapAllFailing}}

	recs := Build(summary, gaps, 90)

	require.Len(t, recs, 4)
	assert.Equal(t, "Overall Quality", recs[0].Category)
	assert.Equal(t, "Module Failures", recs[1].Category)
	assert.Equal(t, "Requirement Coverage", recs[2].Category)
	assert.Equal(t, "Performance", recs[3].Category)
}

func TestSortBySeverity(t *testing.T) {
	recs := []result.Recommendation{
		{Priority: result.PriorityHigh, Category: "Overall Quality"},
		{Priority: result.PriorityHigh, Category: "Module Failures"},
		{Priority: result.PriorityCritical, Category: "Requirement Coverage"},
		{Priority: result.PriorityMedium, Category: "Performance"},
	}

	sorted := SortBySeverity(recs)

	assert.Equal(t, "Requirement Coverage", sorted[0].Category)
	// Stable: the two high-priority entries keep declaration order.
	assert.Equal(t, "Overall Quality", sorted[1].Category)
	assert.Equal(t, "Module Failures", sorted[2].Category)
	assert.Equal(t, "Performance", sorted[3].Category)

	// Input untouched.
	assert.Equal(t, "Overall Quality", recs[0].Category)
}
