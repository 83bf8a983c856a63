package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/qaforge/reqtrace/internal/config"
	"github.com/qaforge/reqtrace/internal/engine"
	"github.com/qaforge/reqtrace/internal/module"
	"github.com/qaforge/reqtrace/internal/result"
	"github.com/qaforge/reqtrace/internal/testutil"
)

// Harness executes conformance scenarios against the real engine.
//
// Every scenario run uses a fixed run token and a manual clock, so the
// resulting Run (and anything exported from it) is byte-for-byte
// reproducible.
type Harness struct {
	logger *slog.Logger
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the harness logger. Scenario runs log through it at the
// same levels as production runs.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) { h.logger = l }
}

// New creates a Harness. By default scenario runs are silent.
func New(opts ...Option) *Harness {
	h := &Harness{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes one scenario and evaluates its expectations.
//
// A setup problem (invalid catalog, bad descriptor) is returned as an
// error; expectation mismatches are collected on the Result instead, so a
// failing scenario reports every mismatch at once.
func (h *Harness) Run(ctx context.Context, s *Scenario) (*Result, error) {
	cfg := scenarioConfig(s)
	descriptors := make([]module.Descriptor, 0, len(s.Modules))
	factories := module.FactorySet{}

	for _, m := range s.Modules {
		enabled := true
		if m.Enabled != nil {
			enabled = *m.Enabled
		}
		descriptors = append(descriptors, module.Descriptor{
			Name:         m.Name,
			Category:     m.Category,
			Requirements: m.Requirements,
			Enabled:      enabled,
		})

		switch {
		case m.Error != "":
			factories[m.Name] = testutil.ErroringModule(m.Error)
		case m.Report != nil:
			factories[m.Name] = testutil.ReportModule(&module.Report{
				Passed:              m.Report.Passed,
				TotalTests:          m.Report.TotalTests,
				PassedTests:         m.Report.PassedTests,
				FailedTests:         m.Report.FailedTests,
				RequirementCoverage: m.Report.Coverage,
			})
		}
		// Neither: leave the factory unwired to exercise the
		// "implementation missing" skip.
	}

	clock := testutil.NewManualClock(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		25*time.Millisecond,
	)

	orch, err := engine.NewOrchestrator(cfg, descriptors, factories,
		engine.WithLogger(h.logger),
		engine.WithTokenGenerator(engine.NewFixedGenerator(s.Token)),
		engine.WithNow(clock.Now),
	)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}

	run := orch.ExecuteAllTests(ctx)

	res := NewResult(run)
	evaluate(res, s)
	return res, nil
}

// scenarioConfig builds a valid configuration covering every category the
// scenario's modules declare.
func scenarioConfig(s *Scenario) *config.Config {
	categories := make(map[string]bool)
	for _, m := range s.Modules {
		categories[m.Category] = true
	}

	return &config.Config{
		Environment: config.Environment{
			APIURL:    "http://harness.invalid",
			TimeoutMs: config.DefaultTimeoutMs,
		},
		TestCategories: categories,
		Thresholds: config.Thresholds{
			SuccessRatePercent: s.Threshold,
			CoveragePercent:    80,
			Performance: config.PerformanceThresholds{
				APIResponseMs: 2000,
				PageLoadMs:    3000,
				TotalRunMs:    300000,
			},
		},
		Requirements: s.Requirements,
	}
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expectation matched.
	Pass bool

	// Errors lists every expectation mismatch. Empty when Pass is true.
	Errors []string

	// Run is the completed run, kept for golden comparison and debugging.
	Run *result.Run
}

// NewResult creates a passing result wrapping the completed run.
func NewResult(run *result.Run) *Result {
	return &Result{Pass: true, Run: run}
}

// AddError records an expectation mismatch and marks the result failed.
func (r *Result) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Pass = false
}
