package store

import (
	"context"
	"fmt"

	"github.com/qaforge/reqtrace/internal/result"
)

// SaveRun archives a completed run in a single transaction.
//
// Uses ON CONFLICT(token) DO NOTHING for idempotency - archiving the same
// run twice is a silent no-op, and a half-written run can never be
// observed because the transaction commits atomically.
//
// The requirement catalog snapshot is taken from the run's traceability
// matrix, which carries exactly one record per catalog requirement.
func (s *Store) SaveRun(ctx context.Context, run *result.Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (token, started_at, success_rate_threshold)
		VALUES (?, ?, ?)
		ON CONFLICT(token) DO NOTHING
	`, run.Token, run.StartedAt, run.SuccessRateThreshold)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}

	// Existing token: the run is already archived, leave it untouched.
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return tx.Commit()
	}

	for _, rec := range run.Matrix.Records {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO run_requirements (run_token, requirement_id, description)
			VALUES (?, ?, ?)
		`, run.Token, rec.RequirementID, rec.Description)
		if err != nil {
			return fmt.Errorf("save run: requirement %s: %w", rec.RequirementID, err)
		}
	}

	for seq, mr := range run.Results {
		reqsJSON, err := marshalRequirements(mr.Requirements)
		if err != nil {
			return fmt.Errorf("save run: module %s: %w", mr.Name, err)
		}
		covJSON, err := marshalCoverage(mr.RequirementCoverage)
		if err != nil {
			return fmt.Errorf("save run: module %s: %w", mr.Name, err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO module_results
			(run_token, seq, name, category, requirements, status, reason,
			 total_tests, passed_tests, failed_tests, duration_ms,
			 requirement_coverage, error)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			run.Token,
			seq,
			mr.Name,
			mr.Category,
			reqsJSON,
			string(mr.Status),
			mr.Reason,
			mr.TotalTests,
			mr.PassedTests,
			mr.FailedTests,
			mr.DurationMs,
			covJSON,
			mr.Error,
		)
		if err != nil {
			return fmt.Errorf("save run: module %s: %w", mr.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}
