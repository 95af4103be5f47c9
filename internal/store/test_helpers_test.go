package store

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Rushilchauhan45/sitely/internal/ledger"
	"github.com/Rushilchauhan45/sitely/internal/testutil"
)

// testNow is the pinned "current time" for store tests. Retention
// boundaries are computed against it.
var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

// createTestStore creates a store on a temp database with a pinned
// clock and a silent logger.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	return createTestStoreWith(t, Options{Clock: testutil.NewFixedClock(testNow)})
}

// createTestStoreWith creates a store with the given options, filling
// in quiet defaults.
func createTestStoreWith(t *testing.T, opts Options) *Store {
	t.Helper()
	if opts.Clock == nil {
		opts.Clock = testutil.NewFixedClock(testNow)
	}
	if opts.Logger == nil {
		opts.Logger = quietLogger()
	}
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, opts)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// createSite inserts a minimal running site.
func createSite(t *testing.T, s *Store, name string) ledger.Site {
	t.Helper()
	site, err := s.CreateSite(context.Background(), ledger.Site{
		Name:      name,
		Type:      ledger.SiteResidential,
		IsRunning: true,
	})
	if err != nil {
		t.Fatalf("CreateSite(%q) failed: %v", name, err)
	}
	return site
}

// createWorker inserts a skilled worker under a site.
func createWorker(t *testing.T, s *Store, siteID, name string) ledger.Worker {
	t.Helper()
	w, err := s.CreateWorker(context.Background(), ledger.Worker{
		SiteID:   siteID,
		Name:     name,
		Category: ledger.Skilled,
	})
	if err != nil {
		t.Fatalf("CreateWorker(%q) failed: %v", name, err)
	}
	return w
}

// addWage inserts one wage record for a worker on a date.
func addWage(t *testing.T, s *Store, siteID string, w ledger.Worker, amount, overtime float64, date time.Time) ledger.WageRecord {
	t.Helper()
	recs, err := s.AddWageRecords(context.Background(), []ledger.WageRecord{{
		SiteID:   siteID,
		WorkerID: w.ID,
		Amount:   amount,
		Overtime: overtime,
		Date:     date,
	}})
	if err != nil {
		t.Fatalf("AddWageRecords failed: %v", err)
	}
	return recs[0]
}

// addExpense inserts one expense record.
func addExpense(t *testing.T, s *Store, siteID string, w ledger.Worker, amount float64, date time.Time) ledger.ExpenseRecord {
	t.Helper()
	recs, err := s.AddExpenseRecords(context.Background(), []ledger.ExpenseRecord{{
		SiteID:   siteID,
		WorkerID: w.ID,
		Amount:   amount,
		Date:     date,
	}})
	if err != nil {
		t.Fatalf("AddExpenseRecords failed: %v", err)
	}
	return recs[0]
}

// addPayment inserts one cash payment record.
func addPayment(t *testing.T, s *Store, siteID string, w ledger.Worker, amount float64, date time.Time) ledger.PaymentRecord {
	t.Helper()
	rec, err := s.AddPayment(context.Background(), ledger.PaymentRecord{
		SiteID:   siteID,
		WorkerID: w.ID,
		Amount:   amount,
		Method:   ledger.PayCash,
		Date:     date,
	})
	if err != nil {
		t.Fatalf("AddPayment failed: %v", err)
	}
	return rec
}

// countRows counts physical rows in a table, bypassing retention
// filtering, for sweep assertions.
func countRows(t *testing.T, s *Store, table string) int {
	t.Helper()
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return count
}
