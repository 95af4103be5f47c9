package store

import (
	"context"
	"fmt"

	"github.com/Rushilchauhan45/sitely/internal/ledger"
)

// The Import* methods back the legacy migration. Each one inserts with
// ON CONFLICT(id) DO NOTHING, keyed by the legacy record's own id, so a
// migration interrupted by a crash can re-run without duplicating rows.
// They take the record as-is: legacy rows already carry their worker
// snapshots, so no re-stamping happens here. Each returns whether a new
// row was actually written.

// ImportSite inserts a legacy site if absent.
func (s *Store) ImportSite(ctx context.Context, site ledger.Site) (bool, error) {
	if site.ID == "" {
		return false, ledger.NewConstraint("site", "legacy site has no id", nil)
	}
	if site.Type == "" || !site.Type.Valid() {
		site.Type = ledger.SiteOther
	}

	var endDate any
	if site.EndDate != nil {
		endDate = formatDate(*site.EndDate)
	}
	var userID any
	if site.UserID != "" {
		userID = site.UserID
	}
	var code any
	if site.Code != "" {
		code = site.Code
	}

	res, err := s.execContext(ctx, "site", `
		INSERT INTO sites
		(id, name, site_type, location, start_date, end_date, is_running, owner_name, contact, site_code, user_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		site.ID, cleanText(site.Name), string(site.Type), site.Location,
		formatDate(site.StartDate), endDate, boolToInt(site.IsRunning),
		cleanText(site.OwnerName), site.Contact, code, userID,
		formatTimestamp(site.CreatedAt),
	)
	if err != nil {
		return false, fmt.Errorf("import site: %w", err)
	}
	return rowInserted(res)
}

// ImportWorker inserts a legacy worker if absent.
func (s *Store) ImportWorker(ctx context.Context, w ledger.Worker) (bool, error) {
	if w.ID == "" {
		return false, ledger.NewConstraint("worker", "legacy worker has no id", nil)
	}
	if !w.Category.Valid() {
		return false, ledger.NewConstraint("worker", fmt.Sprintf("invalid category %q", w.Category), nil)
	}

	res, err := s.execContext(ctx, "worker", `
		INSERT INTO workers
		(id, site_id, name, age, contact, village, category, photo_ref, joined_on)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		w.ID, w.SiteID, cleanText(w.Name), w.Age, w.Contact, w.Village,
		string(w.Category), w.PhotoRef, formatDate(w.JoinedOn),
	)
	if err != nil {
		return false, fmt.Errorf("import worker: %w", err)
	}
	return rowInserted(res)
}

// ImportWageRecord inserts a legacy wage row if absent, preserving its
// snapshot columns verbatim.
func (s *Store) ImportWageRecord(ctx context.Context, rec ledger.WageRecord) (bool, error) {
	if rec.ID == "" {
		return false, ledger.NewConstraint("wage record", "legacy record has no id", nil)
	}

	res, err := s.execContext(ctx, "wage record", `
		INSERT INTO wage_records
		(id, site_id, worker_id, worker_name, worker_category, amount, overtime, record_date, record_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID, rec.SiteID, rec.WorkerID, rec.WorkerName, string(rec.WorkerCategory),
		rec.Amount, rec.Overtime, formatDate(rec.Date), rec.TimeOfDay,
	)
	if err != nil {
		return false, fmt.Errorf("import wage record: %w", err)
	}
	return rowInserted(res)
}

// ImportExpenseRecord inserts a legacy expense row if absent.
func (s *Store) ImportExpenseRecord(ctx context.Context, rec ledger.ExpenseRecord) (bool, error) {
	if rec.ID == "" {
		return false, ledger.NewConstraint("expense record", "legacy record has no id", nil)
	}

	res, err := s.execContext(ctx, "expense record", `
		INSERT INTO expense_records
		(id, site_id, worker_id, worker_name, worker_category, amount, description, record_date, record_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID, rec.SiteID, rec.WorkerID, rec.WorkerName, string(rec.WorkerCategory),
		rec.Amount, rec.Description, formatDate(rec.Date), rec.TimeOfDay,
	)
	if err != nil {
		return false, fmt.Errorf("import expense record: %w", err)
	}
	return rowInserted(res)
}

// ImportPaymentRecord inserts a legacy payment row if absent.
func (s *Store) ImportPaymentRecord(ctx context.Context, rec ledger.PaymentRecord) (bool, error) {
	if rec.ID == "" {
		return false, ledger.NewConstraint("payment record", "legacy record has no id", nil)
	}
	if rec.Method == "" {
		rec.Method = ledger.PayCash
	}
	if !rec.Method.Valid() {
		return false, ledger.NewConstraint("payment record", fmt.Sprintf("invalid payment method %q", rec.Method), nil)
	}

	res, err := s.execContext(ctx, "payment record", `
		INSERT INTO payment_records
		(id, site_id, worker_id, worker_name, worker_category, amount, method, record_date, record_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID, rec.SiteID, rec.WorkerID, rec.WorkerName, string(rec.WorkerCategory),
		rec.Amount, string(rec.Method), formatDate(rec.Date), rec.TimeOfDay,
	)
	if err != nil {
		return false, fmt.Errorf("import payment record: %w", err)
	}
	return rowInserted(res)
}

// ImportPhoto inserts a legacy photo if absent. Legacy photos carry no
// group; they arrive ungrouped.
func (s *Store) ImportPhoto(ctx context.Context, p ledger.Photo) (bool, error) {
	if p.ID == "" {
		return false, ledger.NewConstraint("photo", "legacy photo has no id", nil)
	}

	res, err := s.execContext(ctx, "photo", `
		INSERT INTO photos (id, site_id, group_id, ref, caption, created_at)
		VALUES (?, ?, NULL, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		p.ID, p.SiteID, p.Ref, p.Caption, formatTimestamp(p.CreatedAt),
	)
	if err != nil {
		return false, fmt.Errorf("import photo: %w", err)
	}
	return rowInserted(res)
}

// rowInserted reports whether an ON CONFLICT DO NOTHING insert actually
// wrote a row.
func rowInserted(res interface{ RowsAffected() (int64, error) }) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
