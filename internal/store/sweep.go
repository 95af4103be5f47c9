package store

import (
	"context"
	"fmt"
)

// SweepResult reports how many rows each ledger stream lost.
type SweepResult struct {
	Wages    int64
	Expenses int64
	Payments int64
}

// Total returns the number of rows removed across all three streams.
func (r SweepResult) Total() int64 {
	return r.Wages + r.Expenses + r.Payments
}

// Sweep hard-deletes every wage, expense and payment row older than the
// retention horizon (now minus 3 years). Once swept, the rows can no
// longer contribute to balance computations; callers needing full
// history must export before the horizon passes.
//
// The three deletions run in one transaction. Sweeping twice with no
// new old data is a no-op.
func (s *Store) Sweep(ctx context.Context) (SweepResult, error) {
	cutoff := s.retentionCutoff()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SweepResult{}, fmt.Errorf("sweep: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var result SweepResult
	for _, target := range []struct {
		table string
		count *int64
	}{
		{"wage_records", &result.Wages},
		{"expense_records", &result.Expenses},
		{"payment_records", &result.Payments},
	} {
		res, err := tx.ExecContext(ctx,
			fmt.Sprintf("DELETE FROM %s WHERE record_date < ?", target.table), cutoff)
		if err != nil {
			return SweepResult{}, fmt.Errorf("sweep %s: %w", target.table, err)
		}
		if *target.count, err = res.RowsAffected(); err != nil {
			return SweepResult{}, fmt.Errorf("sweep %s: rows affected: %w", target.table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return SweepResult{}, fmt.Errorf("sweep: commit: %w", err)
	}

	if result.Total() > 0 {
		s.log.WithFields(map[string]any{
			"wages":    result.Wages,
			"expenses": result.Expenses,
			"payments": result.Payments,
			"cutoff":   cutoff,
		}).Info("retention sweep removed ledger rows")
	}
	return result, nil
}
