package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/qaforge/reqtrace/internal/module"
	"github.com/qaforge/reqtrace/internal/result"
)

// runModule produces the ModuleResult for one descriptor.
//
// Skips are decided here (cancelled run, disabled module or category,
// missing implementation); everything else goes through invoke and its
// watchdog. The returned result is the module's permanent record for the
// run: created once, read-only afterwards.
func (e *Engine) runModule(ctx context.Context, d module.Descriptor, cancelled bool) result.ModuleResult {
	base := result.ModuleResult{
		Name:         d.Name,
		Category:     d.Category,
		Requirements: d.Requirements,
	}

	if cancelled {
		base.Status = result.StatusSkipped
		base.Reason = result.ReasonCancelled
		return base
	}

	if !d.Enabled || !e.cfg.CategoryEnabled(d.Category) {
		base.Status = result.StatusSkipped
		base.Reason = result.ReasonDisabled
		return base
	}

	factory, ok := e.factories[d.Name]
	if !ok {
		// Distinct from a runtime failure: the module was declared but no
		// implementation was wired in at startup.
		base.Status = result.StatusSkipped
		base.Reason = result.ReasonMissing
		return base
	}

	start := e.now()
	rep, err := e.invoke(ctx, factory())
	base.DurationMs = e.now().Sub(start).Milliseconds()

	if err != nil {
		base.Status = result.StatusError
		base.Error = err.Error()
		// An errored module still failed at least one notional test so
		// the summary's test counts cannot hide it.
		base.TotalTests = 1
		base.FailedTests = 1
		return base
	}

	base.TotalTests = rep.TotalTests
	base.PassedTests = rep.PassedTests
	base.FailedTests = rep.FailedTests
	base.RequirementCoverage = copyCoverage(rep.RequirementCoverage)

	if rep.Passed && rep.FailedTests == 0 {
		base.Status = result.StatusPassed
	} else {
		base.Status = result.StatusFailed
	}
	return base
}

// invoke calls the module's entry point under a watchdog.
//
// The module receives a context bounded by the watchdog timeout; a
// cooperative module will observe the deadline itself. A hung module that
// ignores the context is abandoned when the deadline fires and reported as
// a timeout error. The goroutine running it is left to drain into the
// buffered channel.
func (e *Engine) invoke(ctx context.Context, m module.TestModule) (*module.Report, error) {
	mctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	type outcome struct {
		rep *module.Report
		err error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{nil, fmt.Errorf("module panicked: %v", r)}
			}
		}()
		rep, err := m.RunAllTests(mctx)
		done <- outcome{rep, err}
	}()

	select {
	case o := <-done:
		if o.err != nil {
			return nil, o.err
		}
		if o.rep == nil {
			return nil, errors.New("module returned no report")
		}
		return o.rep, nil
	case <-mctx.Done():
		if errors.Is(mctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("timeout after %s", e.timeout)
		}
		return nil, mctx.Err()
	}
}

func copyCoverage(in map[string]result.CoverageLevel) map[string]result.CoverageLevel {
	if in == nil {
		return nil
	}
	out := make(map[string]result.CoverageLevel, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
