// Package engine executes registered test modules and assembles the
// complete Run: per-module results, coverage, gaps, recommendations,
// traceability matrix, and summary.
//
// Modules run strictly one at a time, in registration order. Several of
// the production modules mutate shared ambient state (local storage,
// DOM-backed fixtures) that is not safe to share across concurrent
// invocations, so sequential execution is intentional and load-bearing.
// The ordering guarantee extends downstream: coverage entry lists and the
// module result slice reflect registration order, which keeps reports
// reproducible.
//
// Fault isolation is a first-class invariant: one module's crash, error,
// or hang must never abort the others. The only run-fatal failures are
// configuration errors, and those are caught at initialization before any
// module runs.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/qaforge/reqtrace/internal/catalog"
	"github.com/qaforge/reqtrace/internal/config"
	"github.com/qaforge/reqtrace/internal/coverage"
	"github.com/qaforge/reqtrace/internal/module"
	"github.com/qaforge/reqtrace/internal/recommend"
	"github.com/qaforge/reqtrace/internal/result"
)

// DefaultModuleTimeout is the watchdog bound on a single module
// invocation. Modules are expected to self-bound their network calls with
// the configured timeout; the watchdog only converts a genuine hang into
// status=error without crashing the run.
const DefaultModuleTimeout = 60 * time.Second

// Engine coordinates one sequential execution of all registered modules.
//
// The registry, factory set, and configuration are injected at
// construction; the engine holds no global state and retains nothing
// between runs except these read-only collaborators.
type Engine struct {
	registry  *module.Registry
	factories module.FactorySet
	catalog   *catalog.Catalog
	cfg       *config.Config

	tokens  TokenGenerator
	logger  *slog.Logger
	timeout time.Duration
	now     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithModuleTimeout overrides the per-module watchdog timeout.
func WithModuleTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// WithTokenGenerator overrides the run token generator.
// Tests use FixedGenerator for deterministic run identity.
func WithTokenGenerator(g TokenGenerator) Option {
	return func(e *Engine) { e.tokens = g }
}

// WithNow overrides the wall-clock source used for duration measurement.
// Tests pair this with testutil.ManualClock for deterministic timings.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an Engine over a validated configuration, a populated
// registry, and the factory set mapping module names to implementations.
func New(cfg *config.Config, cat *catalog.Catalog, reg *module.Registry, factories module.FactorySet, opts ...Option) *Engine {
	e := &Engine{
		registry:  reg,
		factories: factories,
		catalog:   cat,
		cfg:       cfg,
		tokens:    UUIDv7Generator{},
		logger:    slog.Default(),
		timeout:   DefaultModuleTimeout,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExecuteAll runs every registered module sequentially and returns the
// completed Run.
//
// Per descriptor:
//   - disabled (or its category switched off) → skipped "disabled"
//   - no factory registered → skipped "implementation missing"
//   - entry point errors, panics, or hangs past the watchdog → error,
//     message captured, run continues
//   - otherwise → normal result with the module's self-reported counts
//
// Cancellation is checked between module invocations: once ctx is done,
// already-collected results are preserved and every remaining module is
// recorded as skipped "cancelled". ExecuteAll always returns a complete
// Run; there is no error path.
func (e *Engine) ExecuteAll(ctx context.Context) *result.Run {
	token := e.tokens.Generate()
	started := e.now()
	descriptors := e.registry.List(false)

	e.logger.Info("run starting",
		"token", token,
		"modules", len(descriptors),
	)

	results := make([]result.ModuleResult, 0, len(descriptors))
	cancelled := false

	for _, d := range descriptors {
		if !cancelled && ctx.Err() != nil {
			cancelled = true
			e.logger.Warn("run cancelled, skipping remaining modules", "token", token)
		}

		r := e.runModule(ctx, d, cancelled)
		results = append(results, r)

		e.logger.Info("module finished",
			"module", d.Name,
			"category", d.Category,
			"status", r.Status,
			"duration_ms", r.DurationMs,
		)
	}

	run := e.assemble(token, started, results)

	e.logger.Info("run complete",
		"token", token,
		"score_percent", run.Summary.OverallScorePercent,
		"coverage_percent", run.Matrix.CoveragePercentage,
		"gaps", len(run.Gaps),
	)

	return run
}

// assemble derives every projection of the run from the collected module
// results. All steps are pure, so assembling the same results twice yields
// identical output.
func (e *Engine) assemble(token string, started time.Time, results []result.ModuleResult) *result.Run {
	cov := coverage.Build(results)
	gaps := coverage.DetectGaps(e.catalog, cov)
	summary := result.Summarize(results)

	return &result.Run{
		Token:                token,
		StartedAt:            started.UTC().Format(time.RFC3339),
		SuccessRateThreshold: e.cfg.Thresholds.SuccessRatePercent,
		Results:              results,
		Coverage:             cov,
		Gaps:                 gaps,
		Recommendations:      recommend.Build(summary, gaps, e.cfg.Thresholds.SuccessRatePercent),
		Matrix:               coverage.BuildMatrix(e.catalog, cov),
		Summary:              summary,
	}
}
