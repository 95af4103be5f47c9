package store

import (
	"context"
	"testing"

	"github.com/Rushilchauhan45/sitely/internal/ledger"
)

func TestAddWageRecords_StampsWorkerSnapshot(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	site := createSite(t, s, "Site")
	w := createWorker(t, s, site.ID, "Ramesh")

	addWage(t, s, site.ID, w, 500, 50, testNow)

	// Rename and recategorize the worker after the record was written.
	newName := "Ramesh Kumar"
	category := ledger.Unskilled
	if err := s.UpdateWorker(ctx, w.ID, ledger.WorkerPatch{Name: &newName, Category: &category}); err != nil {
		t.Fatalf("UpdateWorker failed: %v", err)
	}

	wages, err := s.ListWageRecords(ctx, site.ID)
	if err != nil {
		t.Fatalf("ListWageRecords failed: %v", err)
	}
	if len(wages) != 1 {
		t.Fatalf("got %d wage records, want 1", len(wages))
	}
	if wages[0].WorkerName != "Ramesh" || wages[0].WorkerCategory != ledger.Skilled {
		t.Errorf("snapshot rewritten by worker edit: %+v", wages[0])
	}

	// A record written after the edit carries the new snapshot.
	addWage(t, s, site.ID, w, 600, 0, testNow.AddDate(0, 0, 1))
	wages, err = s.ListWageRecords(ctx, site.ID)
	if err != nil {
		t.Fatalf("ListWageRecords failed: %v", err)
	}
	if wages[0].WorkerName != "Ramesh Kumar" || wages[0].WorkerCategory != ledger.Unskilled {
		t.Errorf("new record missing fresh snapshot: %+v", wages[0])
	}
}

func TestAddWageRecords_BatchIsAtomic(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	site := createSite(t, s, "Site")
	w := createWorker(t, s, site.ID, "Ramesh")

	_, err := s.AddWageRecords(ctx, []ledger.WageRecord{
		{SiteID: site.ID, WorkerID: w.ID, Amount: 500, Date: testNow},
		{SiteID: site.ID, WorkerID: "no-such-worker", Amount: 400, Date: testNow},
	})
	if !ledger.IsNotFound(err) {
		t.Fatalf("expected not found for unknown worker, got %v", err)
	}

	// The batch rolled back; the valid first record must not exist.
	wages, err := s.ListWageRecords(ctx, site.ID)
	if err != nil {
		t.Fatalf("ListWageRecords failed: %v", err)
	}
	if len(wages) != 0 {
		t.Errorf("partial batch committed: %d rows", len(wages))
	}
}

func TestAddPayment_RejectsInvalidMethod(t *testing.T) {
	s := createTestStore(t)
	site := createSite(t, s, "Site")
	w := createWorker(t, s, site.ID, "Ramesh")

	_, err := s.AddPayment(context.Background(), ledger.PaymentRecord{
		SiteID:   site.ID,
		WorkerID: w.ID,
		Amount:   100,
		Method:   ledger.PaymentMethod("cheque"),
	})
	if !ledger.IsConstraintViolation(err) {
		t.Errorf("expected constraint violation, got %v", err)
	}
}

func TestListWageRecords_NewestFirst(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	site := createSite(t, s, "Site")
	w := createWorker(t, s, site.ID, "Ramesh")

	older := addWage(t, s, site.ID, w, 100, 0, testNow.AddDate(0, 0, -2))
	newer := addWage(t, s, site.ID, w, 200, 0, testNow.AddDate(0, 0, -1))

	wages, err := s.ListWageRecords(ctx, site.ID)
	if err != nil {
		t.Fatalf("ListWageRecords failed: %v", err)
	}
	if len(wages) != 2 {
		t.Fatalf("got %d records, want 2", len(wages))
	}
	if wages[0].ID != newer.ID || wages[1].ID != older.ID {
		t.Errorf("records not ordered newest-first")
	}
}

func TestListLedgerRecords_RetentionFiltered(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	site := createSite(t, s, "Site")
	w := createWorker(t, s, site.ID, "Ramesh")

	horizon := testNow.AddDate(-RetentionYears, 0, 0)
	addWage(t, s, site.ID, w, 100, 0, horizon.AddDate(0, 0, -1)) // expired
	kept := addWage(t, s, site.ID, w, 200, 0, horizon)           // exactly on the horizon
	addExpense(t, s, site.ID, w, 50, horizon.AddDate(0, 0, -30)) // expired
	addPayment(t, s, site.ID, w, 75, horizon.AddDate(0, 0, -30)) // expired

	// No sweep has run; stale rows must still be invisible.
	wages, err := s.ListWageRecords(ctx, site.ID)
	if err != nil {
		t.Fatalf("ListWageRecords failed: %v", err)
	}
	if len(wages) != 1 || wages[0].ID != kept.ID {
		t.Errorf("retention filter wrong: %+v", wages)
	}

	expenses, err := s.ListExpenseRecords(ctx, site.ID)
	if err != nil {
		t.Fatalf("ListExpenseRecords failed: %v", err)
	}
	if len(expenses) != 0 {
		t.Errorf("expired expense surfaced: %+v", expenses)
	}

	payments, err := s.ListPayments(ctx, site.ID)
	if err != nil {
		t.Fatalf("ListPayments failed: %v", err)
	}
	if len(payments) != 0 {
		t.Errorf("expired payment surfaced: %+v", payments)
	}

	// The rows are filtered, not yet deleted.
	if n := countRows(t, s, "wage_records"); n != 2 {
		t.Errorf("physical wage rows = %d, want 2 before sweep", n)
	}
}

func TestAddWageRecords_EmptyBatch(t *testing.T) {
	s := createTestStore(t)

	recs, err := s.AddWageRecords(context.Background(), nil)
	if err != nil {
		t.Fatalf("empty batch errored: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("empty batch returned %d records", len(recs))
	}
}
