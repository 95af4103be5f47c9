// Package report renders the per-worker balance table exported from a
// site's ledger. It is a pure function of already-fetched rows and has
// no storage dependency: the caller lists workers and the three record
// streams, the package sums and formats.
package report

import (
	"fmt"
	"strings"

	"github.com/Rushilchauhan45/sitely/internal/ledger"
)

// Row is one worker's line in the balance table.
type Row struct {
	WorkerName   string
	Category     ledger.WorkerCategory
	TotalWage    float64
	TotalExpense float64
	TotalPaid    float64
	Remaining    float64
}

// WorkerBalances folds the three record streams into one row per
// worker, in the order the workers were given. Records for workers not
// in the list are ignored; a listed worker with no records gets a
// zeroed row. The sums are commutative, so the record order never
// matters.
func WorkerBalances(
	workers []ledger.Worker,
	wages []ledger.WageRecord,
	expenses []ledger.ExpenseRecord,
	payments []ledger.PaymentRecord,
) []Row {
	index := make(map[string]int, len(workers))
	rows := make([]Row, len(workers))
	for i, w := range workers {
		index[w.ID] = i
		rows[i] = Row{WorkerName: w.Name, Category: w.Category}
	}

	for _, rec := range wages {
		if i, ok := index[rec.WorkerID]; ok {
			rows[i].TotalWage += rec.Amount + rec.Overtime
		}
	}
	for _, rec := range expenses {
		if i, ok := index[rec.WorkerID]; ok {
			rows[i].TotalExpense += rec.Amount
		}
	}
	for _, rec := range payments {
		if i, ok := index[rec.WorkerID]; ok {
			rows[i].TotalPaid += rec.Amount
		}
	}

	for i := range rows {
		rows[i].Remaining = rows[i].TotalWage - rows[i].TotalExpense - rows[i].TotalPaid
	}
	return rows
}

// Render formats the rows as a tab-delimited table with a header line,
// amounts to two decimal places. The output is stable for identical
// input, so it golden-tests cleanly and pastes into any spreadsheet.
func Render(rows []Row) string {
	var b strings.Builder
	b.WriteString("worker\tcategory\ttotal_wage\ttotal_expense\ttotal_paid\tremaining\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%s\t%s\t%.2f\t%.2f\t%.2f\t%.2f\n",
			r.WorkerName, r.Category, r.TotalWage, r.TotalExpense, r.TotalPaid, r.Remaining)
	}
	return b.String()
}
