// Package modules contains the built-in test module implementations the
// CLI wires into runs. Suite manifests refer to these by name; a manifest
// module with no implementation here is recorded as skipped.
package modules

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/qaforge/reqtrace/internal/config"
	"github.com/qaforge/reqtrace/internal/module"
)

// Builtin returns the factory set of built-in modules, configured from the
// run's environment.
func Builtin(cfg *config.Config) module.FactorySet {
	return module.FactorySet{
		"api_health":  APIHealth(cfg),
		"api_latency": APILatency(cfg),
	}
}

// APIHealth probes the configured API URL and reports one test: the
// endpoint answers with a non-5xx status within the configured timeout.
// Transient failures are retried per environment.retries.
func APIHealth(cfg *config.Config) module.Factory {
	url := cfg.Environment.APIURL
	timeout := time.Duration(cfg.Environment.TimeoutMs) * time.Millisecond
	retries := cfg.Environment.Retries

	return func() module.TestModule {
		return module.Func(func(ctx context.Context) (*module.Report, error) {
			var lastErr error
			for attempt := 0; attempt <= retries; attempt++ {
				status, _, err := probe(ctx, url, timeout)
				if err != nil {
					lastErr = err
					continue
				}
				healthy := status < http.StatusInternalServerError
				return &module.Report{
					Passed:      healthy,
					TotalTests:  1,
					PassedTests: boolCount(healthy),
					FailedTests: boolCount(!healthy),
					Details:     fmt.Sprintf("status %d", status),
				}, nil
			}
			return nil, fmt.Errorf("health probe failed after %d attempt(s): %w", retries+1, lastErr)
		})
	}
}

// APILatency measures one round trip against the API URL and reports one
// test: the response arrived within thresholds.performance.apiResponseMs.
func APILatency(cfg *config.Config) module.Factory {
	url := cfg.Environment.APIURL
	timeout := time.Duration(cfg.Environment.TimeoutMs) * time.Millisecond
	budget := time.Duration(cfg.Thresholds.Performance.APIResponseMs) * time.Millisecond

	return func() module.TestModule {
		return module.Func(func(ctx context.Context) (*module.Report, error) {
			_, elapsed, err := probe(ctx, url, timeout)
			if err != nil {
				return nil, fmt.Errorf("latency probe: %w", err)
			}
			fast := elapsed <= budget
			return &module.Report{
				Passed:      fast,
				TotalTests:  1,
				PassedTests: boolCount(fast),
				FailedTests: boolCount(!fast),
				Details:     fmt.Sprintf("%dms (budget %dms)", elapsed.Milliseconds(), budget.Milliseconds()),
			}, nil
		})
	}
}

// probe issues one GET and returns the status code and elapsed time.
func probe(ctx context.Context, url string, timeout time.Duration) (int, time.Duration, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return 0, 0, err
	}

	start := time.Now()
	resp, err := http.DefaultClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		return 0, elapsed, err
	}
	resp.Body.Close()

	return resp.StatusCode, elapsed, nil
}

func boolCount(b bool) int {
	if b {
		return 1
	}
	return 0
}
