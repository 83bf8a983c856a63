// Package coverage contains the pure projections over a run's module
// results: the requirement coverage map, the gap scan, and the
// traceability matrix.
//
// Everything in this package is deterministic. Given the same inputs, each
// function produces identical output on every call; the engine relies on
// that for idempotent matrix generation and byte-stable exports.
package coverage

import (
	"math"

	"github.com/qaforge/reqtrace/internal/catalog"
	"github.com/qaforge/reqtrace/internal/result"
)

// Build folds module results into the requirement → contributions map.
//
// For every executed (non-skipped) module, one CoverageEntry is appended
// for each requirement ID the module declared, in execution order. Skipped
// modules contribute nothing: a disabled module's requirements stay
// untouched and surface later as NoCoverage gaps.
func Build(results []result.ModuleResult) result.CoverageMap {
	coverage := make(result.CoverageMap)
	for _, r := range results {
		if !r.Executed() {
			continue
		}
		for _, id := range r.Requirements {
			coverage[id] = append(coverage[id], result.CoverageEntry{
				Module: r.Name,
				Status: r.Status,
			})
		}
	}
	return coverage
}

// DetectGaps scans the ENTIRE catalog for coverage gaps, not just the
// requirements touched at runtime. Scanning the full catalog is what makes
// disabled categories visible as systemic gaps instead of silently
// disappearing from the report.
//
// Emission order: all NoCoverage gaps in catalog order, then all
// AllFailing gaps in catalog order.
func DetectGaps(cat *catalog.Catalog, coverage result.CoverageMap) []result.Gap {
	gaps := []result.Gap{}

	for _, id := range cat.IDs() {
		if len(coverage[id]) > 0 {
			continue
		}
		desc, _ := cat.Description(id)
		gaps = append(gaps, result.Gap{
			RequirementID: id,
			Description:   desc,
			Kind:          result.GapNoCoverage,
			Severity:      result.SeverityHigh,
		})
	}

	for _, id := range cat.IDs() {
		entries := coverage[id]
		if len(entries) == 0 || !allFailing(entries) {
			continue
		}
		desc, _ := cat.Description(id)
		gaps = append(gaps, result.Gap{
			RequirementID: id,
			Description:   desc,
			Kind:          result.GapAllFailing,
			Severity:      result.SeverityCritical,
		})
	}

	return gaps
}

func allFailing(entries []result.CoverageEntry) bool {
	for _, e := range entries {
		if e.Status != result.StatusFailed && e.Status != result.StatusError {
			return false
		}
	}
	return true
}

// BuildMatrix produces the traceability matrix: exactly one record per
// catalog requirement, in catalog order.
//
// A requirement is covered when its coverage list is non-empty, and
// passing when at least one contribution came from a passing module. The
// projection is pure; building it twice from the same run yields identical
// output.
func BuildMatrix(cat *catalog.Catalog, coverage result.CoverageMap) result.Matrix {
	ids := cat.IDs()
	m := result.Matrix{
		Records:           make([]result.TraceabilityRecord, 0, len(ids)),
		TotalRequirements: len(ids),
	}

	for _, id := range ids {
		entries := coverage[id]
		desc, _ := cat.Description(id)

		rec := result.TraceabilityRecord{
			RequirementID: id,
			Description:   desc,
			Covered:       len(entries) > 0,
			Modules:       []string{},
		}
		for _, e := range entries {
			rec.Modules = append(rec.Modules, e.Module)
			if e.Status == result.StatusPassed {
				rec.Passing = true
			}
		}

		switch {
		case !rec.Covered:
			rec.Status = result.RequirementUncovered
		case rec.Passing:
			rec.Status = result.RequirementPassing
		default:
			rec.Status = result.RequirementFailing
		}

		if rec.Covered {
			m.CoveredRequirements++
		}
		m.Records = append(m.Records, rec)
	}

	if m.TotalRequirements > 0 {
		pct := float64(m.CoveredRequirements) / float64(m.TotalRequirements) * 100
		m.CoveragePercentage = int(math.Round(pct))
	}

	return m
}
