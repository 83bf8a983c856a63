package testutil

import (
	"context"
	"errors"
	"time"

	"github.com/qaforge/reqtrace/internal/module"
	"github.com/qaforge/reqtrace/internal/result"
)

// PassingModule returns a factory whose module reports every test passed
// and full coverage of the given requirement IDs.
func PassingModule(totalTests int, reqIDs ...string) module.Factory {
	return func() module.TestModule {
		return module.Func(func(ctx context.Context) (*module.Report, error) {
			return &module.Report{
				Passed:              true,
				TotalTests:          totalTests,
				PassedTests:         totalTests,
				RequirementCoverage: fullCoverage(reqIDs),
			}, nil
		})
	}
}

// FailingModule returns a factory whose module reports failed tests.
func FailingModule(totalTests, failedTests int, reqIDs ...string) module.Factory {
	return func() module.TestModule {
		return module.Func(func(ctx context.Context) (*module.Report, error) {
			return &module.Report{
				Passed:              false,
				TotalTests:          totalTests,
				PassedTests:         totalTests - failedTests,
				FailedTests:         failedTests,
				RequirementCoverage: fullCoverage(reqIDs),
			}, nil
		})
	}
}

// ErroringModule returns a factory whose module fails with an error.
func ErroringModule(msg string) module.Factory {
	return func() module.TestModule {
		return module.Func(func(ctx context.Context) (*module.Report, error) {
			return nil, errors.New(msg)
		})
	}
}

// PanickingModule returns a factory whose module panics mid-run.
func PanickingModule(msg string) module.Factory {
	return func() module.TestModule {
		return module.Func(func(ctx context.Context) (*module.Report, error) {
			panic(msg)
		})
	}
}

// SleepingModule returns a factory whose module sleeps for d while
// ignoring its context, simulating a hung collaborator for watchdog tests.
func SleepingModule(d time.Duration) module.Factory {
	return func() module.TestModule {
		return module.Func(func(ctx context.Context) (*module.Report, error) {
			time.Sleep(d)
			return &module.Report{Passed: true, TotalTests: 1, PassedTests: 1}, nil
		})
	}
}

// ReportModule returns a factory that hands back the given report as-is.
// Useful when a test needs full control over the self-report.
func ReportModule(rep *module.Report) module.Factory {
	return func() module.TestModule {
		return module.Func(func(ctx context.Context) (*module.Report, error) {
			return rep, nil
		})
	}
}

func fullCoverage(reqIDs []string) map[string]result.CoverageLevel {
	if len(reqIDs) == 0 {
		return nil
	}
	cov := make(map[string]result.CoverageLevel, len(reqIDs))
	for _, id := range reqIDs {
		cov[id] = result.CoverageFull
	}
	return cov
}
