package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/Rushilchauhan45/sitely/internal/ledger"
)

// AddWageRecords inserts a batch of daily wage entries in a single
// transaction. Each record is stamped with a snapshot of the worker's
// current name and category so later edits to the worker never rewrite
// wage history. The whole batch commits or none of it does.
func (s *Store) AddWageRecords(ctx context.Context, records []ledger.WageRecord) ([]ledger.WageRecord, error) {
	if len(records) == 0 {
		return []ledger.WageRecord{}, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("add wage records: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	out := make([]ledger.WageRecord, 0, len(records))
	for _, rec := range records {
		name, category, err := workerSnapshot(ctx, tx, rec.WorkerID)
		if err != nil {
			return nil, fmt.Errorf("add wage records: %w", err)
		}
		rec.WorkerName = name
		rec.WorkerCategory = category
		if rec.ID == "" {
			rec.ID = uuid.Must(uuid.NewV7()).String()
		}
		if rec.Date.IsZero() {
			rec.Date = s.clock.Now()
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO wage_records
			(id, site_id, worker_id, worker_name, worker_category, amount, overtime, record_date, record_time)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			rec.ID, rec.SiteID, rec.WorkerID, rec.WorkerName, string(rec.WorkerCategory),
			rec.Amount, rec.Overtime, formatDate(rec.Date), rec.TimeOfDay,
		)
		if err != nil {
			return nil, fmt.Errorf("add wage records: %w", mapSQLiteErr("wage record", err))
		}
		out = append(out, rec)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("add wage records: commit: %w", err)
	}
	return out, nil
}

// AddExpenseRecords inserts a batch of advances in a single
// transaction, with the same snapshot stamping as wage records.
func (s *Store) AddExpenseRecords(ctx context.Context, records []ledger.ExpenseRecord) ([]ledger.ExpenseRecord, error) {
	if len(records) == 0 {
		return []ledger.ExpenseRecord{}, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("add expense records: begin tx: %w", err)
	}
	defer tx.Rollback()

	out := make([]ledger.ExpenseRecord, 0, len(records))
	for _, rec := range records {
		name, category, err := workerSnapshot(ctx, tx, rec.WorkerID)
		if err != nil {
			return nil, fmt.Errorf("add expense records: %w", err)
		}
		rec.WorkerName = name
		rec.WorkerCategory = category
		if rec.ID == "" {
			rec.ID = uuid.Must(uuid.NewV7()).String()
		}
		if rec.Date.IsZero() {
			rec.Date = s.clock.Now()
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO expense_records
			(id, site_id, worker_id, worker_name, worker_category, amount, description, record_date, record_time)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			rec.ID, rec.SiteID, rec.WorkerID, rec.WorkerName, string(rec.WorkerCategory),
			rec.Amount, rec.Description, formatDate(rec.Date), rec.TimeOfDay,
		)
		if err != nil {
			return nil, fmt.Errorf("add expense records: %w", mapSQLiteErr("expense record", err))
		}
		out = append(out, rec)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("add expense records: commit: %w", err)
	}
	return out, nil
}

// AddPayment inserts a single disbursement. The method tag must be one
// of cash/upi/bank.
func (s *Store) AddPayment(ctx context.Context, rec ledger.PaymentRecord) (ledger.PaymentRecord, error) {
	if !rec.Method.Valid() {
		return ledger.PaymentRecord{}, ledger.NewConstraint("payment record", fmt.Sprintf("invalid payment method %q", rec.Method), nil)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ledger.PaymentRecord{}, fmt.Errorf("add payment: begin tx: %w", err)
	}
	defer tx.Rollback()

	name, category, err := workerSnapshot(ctx, tx, rec.WorkerID)
	if err != nil {
		return ledger.PaymentRecord{}, fmt.Errorf("add payment: %w", err)
	}
	rec.WorkerName = name
	rec.WorkerCategory = category
	if rec.ID == "" {
		rec.ID = uuid.Must(uuid.NewV7()).String()
	}
	if rec.Date.IsZero() {
		rec.Date = s.clock.Now()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO payment_records
		(id, site_id, worker_id, worker_name, worker_category, amount, method, record_date, record_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.ID, rec.SiteID, rec.WorkerID, rec.WorkerName, string(rec.WorkerCategory),
		rec.Amount, string(rec.Method), formatDate(rec.Date), rec.TimeOfDay,
	)
	if err != nil {
		return ledger.PaymentRecord{}, fmt.Errorf("add payment: %w", mapSQLiteErr("payment record", err))
	}

	if err := tx.Commit(); err != nil {
		return ledger.PaymentRecord{}, fmt.Errorf("add payment: commit: %w", err)
	}
	return rec, nil
}

// workerSnapshot fetches the worker's current name and category inside
// the caller's transaction. A missing worker is a NOT_FOUND, surfaced
// before any row of the batch is written.
func workerSnapshot(ctx context.Context, tx *sql.Tx, workerID string) (string, ledger.WorkerCategory, error) {
	var name, category string
	err := tx.QueryRowContext(ctx, `
		SELECT name, category FROM workers WHERE id = ?
	`, workerID).Scan(&name, &category)
	if err == sql.ErrNoRows {
		return "", "", ledger.NewNotFound("worker", workerID)
	}
	if err != nil {
		return "", "", fmt.Errorf("snapshot worker: %w", err)
	}
	return name, ledger.WorkerCategory(category), nil
}

// ListWageRecords returns a site's wage entries, newest first. Rows
// older than the retention horizon are excluded even if the sweeper has
// not physically deleted them yet, so stale data is never surfaced.
func (s *Store) ListWageRecords(ctx context.Context, siteID string) ([]ledger.WageRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, site_id, worker_id, worker_name, worker_category, amount, overtime, record_date, record_time
		FROM wage_records
		WHERE site_id = ? AND record_date >= ?
		ORDER BY record_date DESC, id DESC
	`, siteID, s.retentionCutoff())
	if err != nil {
		return nil, fmt.Errorf("query wage records: %w", err)
	}
	defer rows.Close()

	var records []ledger.WageRecord
	for rows.Next() {
		var (
			rec      ledger.WageRecord
			category string
			date     string
		)
		if err := rows.Scan(
			&rec.ID, &rec.SiteID, &rec.WorkerID, &rec.WorkerName, &category,
			&rec.Amount, &rec.Overtime, &date, &rec.TimeOfDay,
		); err != nil {
			return nil, fmt.Errorf("scan wage record: %w", err)
		}
		rec.WorkerCategory = ledger.WorkerCategory(category)
		if rec.Date, err = parseDate(date); err != nil {
			return nil, fmt.Errorf("parse record_date: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wage records: %w", err)
	}

	if records == nil {
		records = []ledger.WageRecord{}
	}
	return records, nil
}

// ListExpenseRecords returns a site's advances, newest first,
// retention-filtered like wage records.
func (s *Store) ListExpenseRecords(ctx context.Context, siteID string) ([]ledger.ExpenseRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, site_id, worker_id, worker_name, worker_category, amount, description, record_date, record_time
		FROM expense_records
		WHERE site_id = ? AND record_date >= ?
		ORDER BY record_date DESC, id DESC
	`, siteID, s.retentionCutoff())
	if err != nil {
		return nil, fmt.Errorf("query expense records: %w", err)
	}
	defer rows.Close()

	var records []ledger.ExpenseRecord
	for rows.Next() {
		var (
			rec      ledger.ExpenseRecord
			category string
			date     string
		)
		if err := rows.Scan(
			&rec.ID, &rec.SiteID, &rec.WorkerID, &rec.WorkerName, &category,
			&rec.Amount, &rec.Description, &date, &rec.TimeOfDay,
		); err != nil {
			return nil, fmt.Errorf("scan expense record: %w", err)
		}
		rec.WorkerCategory = ledger.WorkerCategory(category)
		if rec.Date, err = parseDate(date); err != nil {
			return nil, fmt.Errorf("parse record_date: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expense records: %w", err)
	}

	if records == nil {
		records = []ledger.ExpenseRecord{}
	}
	return records, nil
}

// ListPayments returns a site's disbursements, newest first,
// retention-filtered like wage records.
func (s *Store) ListPayments(ctx context.Context, siteID string) ([]ledger.PaymentRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, site_id, worker_id, worker_name, worker_category, amount, method, record_date, record_time
		FROM payment_records
		WHERE site_id = ? AND record_date >= ?
		ORDER BY record_date DESC, id DESC
	`, siteID, s.retentionCutoff())
	if err != nil {
		return nil, fmt.Errorf("query payment records: %w", err)
	}
	defer rows.Close()

	var records []ledger.PaymentRecord
	for rows.Next() {
		var (
			rec      ledger.PaymentRecord
			category string
			method   string
			date     string
		)
		if err := rows.Scan(
			&rec.ID, &rec.SiteID, &rec.WorkerID, &rec.WorkerName, &category,
			&rec.Amount, &method, &date, &rec.TimeOfDay,
		); err != nil {
			return nil, fmt.Errorf("scan payment record: %w", err)
		}
		rec.WorkerCategory = ledger.WorkerCategory(category)
		rec.Method = ledger.PaymentMethod(method)
		if rec.Date, err = parseDate(date); err != nil {
			return nil, fmt.Errorf("parse record_date: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payment records: %w", err)
	}

	if records == nil {
		records = []ledger.PaymentRecord{}
	}
	return records, nil
}
