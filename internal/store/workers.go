package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Rushilchauhan45/sitely/internal/ledger"
)

// CreateWorker inserts a new worker under a site. The category must be
// one of the two allowed values; a missing site surfaces as a
// CONSTRAINT_VIOLATION from the foreign key.
func (s *Store) CreateWorker(ctx context.Context, w ledger.Worker) (ledger.Worker, error) {
	w.Name = cleanText(w.Name)
	if w.Name == "" {
		return ledger.Worker{}, ledger.NewConstraint("worker", "name must not be empty", nil)
	}
	if !w.Category.Valid() {
		return ledger.Worker{}, ledger.NewConstraint("worker", fmt.Sprintf("invalid category %q", w.Category), nil)
	}
	if w.ID == "" {
		w.ID = uuid.Must(uuid.NewV7()).String()
	}
	if w.JoinedOn.IsZero() {
		w.JoinedOn = s.clock.Now()
	}

	_, err := s.execContext(ctx, "worker", `
		INSERT INTO workers
		(id, site_id, name, age, contact, village, category, photo_ref, joined_on)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		w.ID, w.SiteID, w.Name, w.Age, w.Contact, w.Village,
		string(w.Category), w.PhotoRef, formatDate(w.JoinedOn),
	)
	if err != nil {
		return ledger.Worker{}, fmt.Errorf("create worker: %w", err)
	}

	s.mirrorWorker(ctx, w)
	return w, nil
}

// ListWorkers returns every worker of a site, newest joiners first.
func (s *Store) ListWorkers(ctx context.Context, siteID string) ([]ledger.Worker, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, site_id, name, age, contact, village, category, photo_ref, joined_on
		FROM workers
		WHERE site_id = ?
		ORDER BY joined_on DESC, id DESC
	`, siteID)
	if err != nil {
		return nil, fmt.Errorf("query workers: %w", err)
	}
	defer rows.Close()

	var workers []ledger.Worker
	for rows.Next() {
		var (
			w        ledger.Worker
			category string
			joinedOn string
		)
		if err := rows.Scan(
			&w.ID, &w.SiteID, &w.Name, &w.Age, &w.Contact,
			&w.Village, &category, &w.PhotoRef, &joinedOn,
		); err != nil {
			return nil, fmt.Errorf("scan worker: %w", err)
		}
		w.Category = ledger.WorkerCategory(category)
		if w.JoinedOn, err = parseDate(joinedOn); err != nil {
			return nil, fmt.Errorf("parse joined_on: %w", err)
		}
		workers = append(workers, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate workers: %w", err)
	}

	if workers == nil {
		workers = []ledger.Worker{}
	}
	return workers, nil
}

// UpdateWorker applies a partial update. Only non-nil patch fields are
// written. Historical ledger rows keep the snapshots taken at record
// time; editing a worker never rewrites them.
func (s *Store) UpdateWorker(ctx context.Context, id string, patch ledger.WorkerPatch) error {
	var sets []string
	var args []any

	if patch.Name != nil {
		name := cleanText(*patch.Name)
		if name == "" {
			return ledger.NewConstraint("worker", "name must not be empty", nil)
		}
		sets = append(sets, "name = ?")
		args = append(args, name)
	}
	if patch.Age != nil {
		sets = append(sets, "age = ?")
		args = append(args, *patch.Age)
	}
	if patch.Contact != nil {
		sets = append(sets, "contact = ?")
		args = append(args, *patch.Contact)
	}
	if patch.Village != nil {
		sets = append(sets, "village = ?")
		args = append(args, *patch.Village)
	}
	if patch.Category != nil {
		if !patch.Category.Valid() {
			return ledger.NewConstraint("worker", fmt.Sprintf("invalid category %q", *patch.Category), nil)
		}
		sets = append(sets, "category = ?")
		args = append(args, string(*patch.Category))
	}
	if patch.PhotoRef != nil {
		sets = append(sets, "photo_ref = ?")
		args = append(args, *patch.PhotoRef)
	}

	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	res, err := s.execContext(ctx, "worker", `UPDATE workers SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update worker: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update worker: rows affected: %w", err)
	}
	if n == 0 {
		return ledger.NewNotFound("worker", id)
	}
	return nil
}

// DeleteWorker removes a worker and, through the cascade, that
// worker's ledger rows. Returns NOT_FOUND when the id doesn't exist.
func (s *Store) DeleteWorker(ctx context.Context, id string) error {
	res, err := s.execContext(ctx, "worker", `DELETE FROM workers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete worker: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete worker: rows affected: %w", err)
	}
	if n == 0 {
		return ledger.NewNotFound("worker", id)
	}
	return nil
}

// mirrorWorker forwards a committed worker to the cloud mirror.
// Best-effort: failures are logged, never propagated.
func (s *Store) mirrorWorker(ctx context.Context, w ledger.Worker) {
	if err := s.mirror.UpsertWorker(ctx, w); err != nil {
		s.log.WithFields(map[string]any{
			"worker": w.ID,
		}).WithError(err).Warn("cloud mirror upsert failed")
	}
}
