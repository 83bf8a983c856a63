package result

// CoverageEntry records one module's contribution to a requirement.
// Entries are appended in execution order and never reordered.
type CoverageEntry struct {
	Module string `json:"module"`
	Status Status `json:"status"`
}

// CoverageMap maps requirement IDs to their contributions, in execution
// order. Requirements never touched by an executed module are absent.
type CoverageMap map[string][]CoverageEntry

// GapKind classifies a coverage gap.
type GapKind string

const (
	// GapNoCoverage means no executed module declared the requirement.
	GapNoCoverage GapKind = "NoCoverage"

	// GapAllFailing means the requirement has contributions, but every one
	// of them came from a failing or erroring module.
	GapAllFailing GapKind = "AllFailing"
)

// Severity grades a gap.
type Severity string

const (
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Gap is a requirement with missing or entirely failing coverage.
// Recomputed from scratch every run.
type Gap struct {
	RequirementID string   `json:"requirementId"`
	Description   string   `json:"description"`
	Kind          GapKind  `json:"issueKind"`
	Severity      Severity `json:"severity"`
}

// Priority grades a recommendation.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Recommendation is one rule-generated improvement suggestion.
type Recommendation struct {
	Priority     Priority `json:"priority"`
	Category     string   `json:"category"`
	Issue        string   `json:"issue"`
	Action       string   `json:"action"`
	Requirements []string `json:"affectedRequirementIds,omitempty"`
}

// RequirementStatus is the per-requirement verdict in the traceability
// matrix.
type RequirementStatus string

const (
	RequirementPassing   RequirementStatus = "passing"
	RequirementFailing   RequirementStatus = "failing"
	RequirementUncovered RequirementStatus = "uncovered"
)

// TraceabilityRecord is the matrix row for one catalog requirement.
type TraceabilityRecord struct {
	RequirementID string            `json:"requirementId"`
	Description   string            `json:"description"`
	Covered       bool              `json:"covered"`
	Passing       bool              `json:"passing"`
	Modules       []string          `json:"contributingModules"`
	Status        RequirementStatus `json:"status"`
}

// Matrix is the complete traceability projection: exactly one record per
// catalog requirement, in catalog order.
type Matrix struct {
	Records []TraceabilityRecord `json:"records"`

	TotalRequirements   int `json:"totalRequirements"`
	CoveredRequirements int `json:"coveredRequirements"`

	// CoveragePercentage is covered/total rounded to the nearest integer.
	CoveragePercentage int `json:"coveragePercentage"`
}
