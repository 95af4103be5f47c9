package store

import (
	"context"
	"fmt"

	"github.com/Rushilchauhan45/sitely/internal/ledger"
)

// WorkerTotals computes a worker's three running sums and the derived
// remaining balance. The sums run inside SQLite rather than in Go
// because wage volume grows without bound over a multi-year site; the
// store never pulls the rows into memory.
//
// remaining = sum(wage.amount + wage.overtime) - sum(expense.amount) - sum(payment.amount)
//
// The same retention cutoff as the list reads applies, so totals never
// include rows the sweeper is due to delete. Unknown site or worker ids
// yield zeroed totals, not an error: the sums are defined over whatever
// rows exist.
func (s *Store) WorkerTotals(ctx context.Context, siteID, workerID string) (ledger.Totals, error) {
	cutoff := s.retentionCutoff()

	var t ledger.Totals
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COALESCE((SELECT SUM(amount + overtime) FROM wage_records
			          WHERE site_id = ? AND worker_id = ? AND record_date >= ?), 0),
			COALESCE((SELECT SUM(amount) FROM expense_records
			          WHERE site_id = ? AND worker_id = ? AND record_date >= ?), 0),
			COALESCE((SELECT SUM(amount) FROM payment_records
			          WHERE site_id = ? AND worker_id = ? AND record_date >= ?), 0)
	`,
		siteID, workerID, cutoff,
		siteID, workerID, cutoff,
		siteID, workerID, cutoff,
	).Scan(&t.TotalWage, &t.TotalExpense, &t.TotalPaid)
	if err != nil {
		return ledger.Totals{}, fmt.Errorf("worker totals: %w", err)
	}

	t.Remaining = t.TotalWage - t.TotalExpense - t.TotalPaid
	return t, nil
}
