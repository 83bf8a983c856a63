package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/qaforge/reqtrace/internal/catalog"
	"github.com/qaforge/reqtrace/internal/coverage"
	"github.com/qaforge/reqtrace/internal/recommend"
	"github.com/qaforge/reqtrace/internal/result"
)

// ErrRunNotFound is returned by GetRun for an unknown token.
var ErrRunNotFound = errors.New("run not found")

// RunInfo is one row of the archive listing.
type RunInfo struct {
	Token     string
	StartedAt string
	Modules   int
}

// GetRun reads an archived run back and rebuilds its derived projections.
//
// Only the stored facts (threshold, catalog snapshot, module results) come
// from the database; coverage, gaps, recommendations, matrix, and summary
// are recomputed with the current derivation rules. The rebuild is
// deterministic: reading the same token twice yields identical runs.
func (s *Store) GetRun(ctx context.Context, token string) (*result.Run, error) {
	var startedAt string
	var threshold int
	err := s.db.QueryRowContext(ctx, `
		SELECT started_at, success_rate_threshold
		FROM runs WHERE token = ?
	`, token).Scan(&startedAt, &threshold)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get run %s: %w", token, ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", token, err)
	}

	cat, err := s.readCatalog(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", token, err)
	}

	results, err := s.readModuleResults(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", token, err)
	}

	cov := coverage.Build(results)
	gaps := coverage.DetectGaps(cat, cov)
	summary := result.Summarize(results)

	return &result.Run{
		Token:                token,
		StartedAt:            startedAt,
		SuccessRateThreshold: threshold,
		Results:              results,
		Coverage:             cov,
		Gaps:                 gaps,
		Recommendations:      recommend.Build(summary, gaps, threshold),
		Matrix:               coverage.BuildMatrix(cat, cov),
		Summary:              summary,
	}, nil
}

// ListRuns returns every archived run, most recent first.
func (s *Store) ListRuns(ctx context.Context) ([]RunInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.token, r.started_at, COUNT(m.seq)
		FROM runs r
		LEFT JOIN module_results m ON m.run_token = r.token
		GROUP BY r.token
		ORDER BY r.started_at DESC, r.token DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var infos []RunInfo
	for rows.Next() {
		var info RunInfo
		if err := rows.Scan(&info.Token, &info.StartedAt, &info.Modules); err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return infos, nil
}

// readCatalog rebuilds the requirement catalog snapshot for a run.
func (s *Store) readCatalog(ctx context.Context, token string) (*catalog.Catalog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT requirement_id, description
		FROM run_requirements WHERE run_token = ?
	`, token)
	if err != nil {
		return nil, fmt.Errorf("query requirements: %w", err)
	}
	defer rows.Close()

	reqs := make(map[string]string)
	for rows.Next() {
		var id, desc string
		if err := rows.Scan(&id, &desc); err != nil {
			return nil, fmt.Errorf("scan requirement: %w", err)
		}
		reqs[id] = desc
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query requirements: %w", err)
	}

	return catalog.New(reqs)
}

// readModuleResults returns a run's module results in execution order.
func (s *Store) readModuleResults(ctx context.Context, token string) ([]result.ModuleResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, category, requirements, status, reason,
		       total_tests, passed_tests, failed_tests, duration_ms,
		       requirement_coverage, error
		FROM module_results
		WHERE run_token = ?
		ORDER BY seq ASC
	`, token)
	if err != nil {
		return nil, fmt.Errorf("query module results: %w", err)
	}
	defer rows.Close()

	results := make([]result.ModuleResult, 0)
	for rows.Next() {
		var mr result.ModuleResult
		var status, reqsJSON, covJSON string
		err := rows.Scan(
			&mr.Name, &mr.Category, &reqsJSON, &status, &mr.Reason,
			&mr.TotalTests, &mr.PassedTests, &mr.FailedTests, &mr.DurationMs,
			&covJSON, &mr.Error,
		)
		if err != nil {
			return nil, fmt.Errorf("scan module result: %w", err)
		}

		mr.Status = result.Status(status)

		reqs, err := unmarshalRequirements(reqsJSON)
		if err != nil {
			return nil, fmt.Errorf("module %s: %w", mr.Name, err)
		}
		if len(reqs) > 0 {
			mr.Requirements = reqs
		}

		cov, err := unmarshalCoverage(covJSON)
		if err != nil {
			return nil, fmt.Errorf("module %s: %w", mr.Name, err)
		}
		if len(cov) > 0 {
			mr.RequirementCoverage = cov
		}

		results = append(results, mr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query module results: %w", err)
	}
	return results, nil
}
