// Package module defines the contract every test module implements and the
// registry that binds module descriptors to the requirement catalog.
//
// The ten production test modules (sheet checks, API probes, PWA/security/
// error simulations, ...) live outside this repository; the engine consumes
// them purely through the TestModule interface. Implementations are looked
// up through an explicit FactorySet built at startup, never through an
// ambient namespace.
package module

import (
	"context"

	"github.com/qaforge/reqtrace/internal/result"
)

// TestModule is the single entry-point contract consumed by the engine.
//
// RunAllTests executes the module's full test suite and returns a
// self-report. The module is expected to bound its own network calls using
// the timeout it was configured with; the engine additionally enforces an
// outer watchdog. A returned error (or panic) marks the module as errored
// without aborting the run.
type TestModule interface {
	RunAllTests(ctx context.Context) (*Report, error)
}

// Report is a module's self-reported outcome.
type Report struct {
	// Passed is the module's own overall verdict.
	Passed bool `json:"passed"`

	TotalTests  int `json:"totalTests"`
	PassedTests int `json:"passedTests"`
	FailedTests int `json:"failedTests"`

	// RequirementCoverage maps requirement IDs to the coverage level the
	// module claims for them.
	RequirementCoverage map[string]result.CoverageLevel `json:"requirementCoverage,omitempty"`

	// Details carries arbitrary module-specific diagnostics. Opaque to the
	// engine.
	Details any `json:"details,omitempty"`
}

// Factory creates a fresh TestModule instance for one run.
// Each execution gets its own instance; modules need not be reusable.
type Factory func() TestModule

// FactorySet maps module names to their factories. Built explicitly at
// startup; a descriptor with no factory entry is recorded as skipped with
// reason "implementation missing".
type FactorySet map[string]Factory

// Func adapts a plain function to the TestModule interface.
type Func func(ctx context.Context) (*Report, error)

// RunAllTests implements TestModule.
func (f Func) RunAllTests(ctx context.Context) (*Report, error) {
	return f(ctx)
}
