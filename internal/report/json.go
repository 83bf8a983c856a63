// Package report serializes a completed run into its export formats.
//
// Both exporters are pure functions of their inputs: no clocks, no
// filesystem, no network. Writing the bytes somewhere is the caller's
// concern, which keeps an export failure from ever corrupting the
// already-computed run.
package report

import (
	"encoding/json"
	"fmt"

	"github.com/qaforge/reqtrace/internal/result"
)

// ExportError reports a serialization failure for one format.
type ExportError struct {
	Format string
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *ExportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("export %s: %s: %v", e.Format, e.Reason, e.Err)
	}
	return fmt.Sprintf("export %s: %s", e.Format, e.Reason)
}

// Unwrap returns the underlying error.
func (e *ExportError) Unwrap() error {
	return e.Err
}

// Document is the JSON report schema. Field order here is the key order of
// the export; map-valued sections serialize with sorted keys, so the whole
// document is deterministic for a given run.
type Document struct {
	Token     string `json:"token"`
	StartedAt string `json:"startedAt,omitempty"`

	Summary result.Summary `json:"summary"`

	// ModuleResults is keyed by category. The production suite runs one
	// module per category, mirroring the map the coordinator returns.
	ModuleResults map[string]result.ModuleResult `json:"moduleResults"`

	RequirementCoverage result.CoverageMap      `json:"requirementCoverage"`
	Gaps                []result.Gap            `json:"gaps"`
	Recommendations     []result.Recommendation `json:"recommendations"`
	TraceabilityMatrix  result.Matrix           `json:"traceabilityMatrix"`

	// Fingerprint is the canonical-JSON content hash of this document
	// computed with the fingerprint field empty.
	Fingerprint string `json:"fingerprint,omitempty"`
}

// BuildDocument projects a run into the export schema.
func BuildDocument(run *result.Run) Document {
	byCategory := make(map[string]result.ModuleResult, len(run.Results))
	for _, r := range run.Results {
		byCategory[r.Category] = r
	}

	return Document{
		Token:               run.Token,
		StartedAt:           run.StartedAt,
		Summary:             run.Summary,
		ModuleResults:       byCategory,
		RequirementCoverage: run.Coverage,
		Gaps:                run.Gaps,
		Recommendations:     run.Recommendations,
		TraceabilityMatrix:  run.Matrix,
	}
}

// JSON serializes a run into the pretty-printed JSON report.
// Byte-identical output for the same run, every time.
func JSON(run *result.Run) ([]byte, error) {
	doc := BuildDocument(run)

	fp, err := Fingerprint(doc)
	if err != nil {
		return nil, &ExportError{Format: "json", Reason: "compute fingerprint", Err: err}
	}
	doc.Fingerprint = fp

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, &ExportError{Format: "json", Reason: "marshal report", Err: err}
	}
	return append(data, '\n'), nil
}
