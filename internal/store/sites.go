package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Rushilchauhan45/sitely/internal/ledger"
)

// CreateSite inserts a new site and returns it with generated fields
// filled in. The id is generated when empty; the share code, if
// supplied, is upper-cased before storage. The site type must be one of
// the allowed values and the name must be non-empty.
func (s *Store) CreateSite(ctx context.Context, site ledger.Site) (ledger.Site, error) {
	site.Name = cleanText(site.Name)
	if site.Name == "" {
		return ledger.Site{}, ledger.NewConstraint("site", "name must not be empty", nil)
	}
	if site.Type == "" {
		site.Type = ledger.SiteOther
	}
	if !site.Type.Valid() {
		return ledger.Site{}, ledger.NewConstraint("site", fmt.Sprintf("invalid site type %q", site.Type), nil)
	}
	if site.ID == "" {
		site.ID = uuid.Must(uuid.NewV7()).String()
	}
	site.Code = strings.ToUpper(strings.TrimSpace(site.Code))
	site.OwnerName = cleanText(site.OwnerName)
	if site.CreatedAt.IsZero() {
		site.CreatedAt = s.clock.Now()
	}
	if site.StartDate.IsZero() {
		site.StartDate = site.CreatedAt
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

	_, err := s.execContext(ctx, "site", `
		INSERT INTO sites
		(id, name, site_type, location, start_date, end_date, is_running, owner_name, contact, site_code, user_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		site.ID,
		site.Name,
		string(site.Type),
		site.Location,
		formatDate(site.StartDate),
		endDate,
		boolToInt(site.IsRunning),
		site.OwnerName,
		site.Contact,
		code,
		userID,
		formatTimestamp(site.CreatedAt),
	)
	if err != nil {
		return ledger.Site{}, fmt.Errorf("create site: %w", err)
	}

	s.mirrorSite(ctx, site)
	return site, nil
}

// GetSite retrieves a single site by id.
func (s *Store) GetSite(ctx context.Context, id string) (ledger.Site, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, site_type, location, start_date, end_date, is_running,
		       owner_name, contact, site_code, user_id, created_at
		FROM sites
		WHERE id = ?
	`, id)

	site, err := scanSite(row.Scan)
	if err == sql.ErrNoRows {
		return ledger.Site{}, ledger.NewNotFound("site", id)
	}
	if err != nil {
		return ledger.Site{}, fmt.Errorf("get site: %w", err)
	}
	return site, nil
}

// ListSites returns sites visible to a user: sites owned by userID plus
// any legacy site with no owner. Pre-multi-user data stays reachable
// without a backfill. This is a visibility filter, not a security
// boundary. An empty userID returns every site.
//
// Results are ordered newest-first by creation time.
func (s *Store) ListSites(ctx context.Context, userID string) ([]ledger.Site, error) {
	query := `
		SELECT id, name, site_type, location, start_date, end_date, is_running,
		       owner_name, contact, site_code, user_id, created_at
		FROM sites
	`
	var args []any
	if userID != "" {
		query += ` WHERE user_id = ? OR user_id IS NULL`
		args = append(args, userID)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sites: %w", err)
	}
	defer rows.Close()

	var sites []ledger.Site
	for rows.Next() {
		site, err := scanSite(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan site: %w", err)
		}
		sites = append(sites, site)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sites: %w", err)
	}

	if sites == nil {
		sites = []ledger.Site{}
	}
	return sites, nil
}

// UpdateSite applies a partial update. Only non-nil patch fields are
// written. Returns NOT_FOUND when the id doesn't exist.
func (s *Store) UpdateSite(ctx context.Context, id string, patch ledger.SitePatch) error {
	var sets []string
	var args []any

	if patch.Name != nil {
		name := cleanText(*patch.Name)
		if name == "" {
			return ledger.NewConstraint("site", "name must not be empty", nil)
		}
		sets = append(sets, "name = ?")
		args = append(args, name)
	}
	if patch.Type != nil {
		if !patch.Type.Valid() {
			return ledger.NewConstraint("site", fmt.Sprintf("invalid site type %q", *patch.Type), nil)
		}
		sets = append(sets, "site_type = ?")
		args = append(args, string(*patch.Type))
	}
	if patch.Location != nil {
		sets = append(sets, "location = ?")
		args = append(args, *patch.Location)
	}
	if patch.EndDate != nil {
		sets = append(sets, "end_date = ?")
		args = append(args, formatDate(*patch.EndDate))
	}
	if patch.IsRunning != nil {
		sets = append(sets, "is_running = ?")
		args = append(args, boolToInt(*patch.IsRunning))
	}
	if patch.OwnerName != nil {
		sets = append(sets, "owner_name = ?")
		args = append(args, cleanText(*patch.OwnerName))
	}
	if patch.Contact != nil {
		sets = append(sets, "contact = ?")
		args = append(args, *patch.Contact)
	}

	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	res, err := s.execContext(ctx, "site", `UPDATE sites SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update site: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update site: rows affected: %w", err)
	}
	if n == 0 {
		return ledger.NewNotFound("site", id)
	}

	if site, err := s.GetSite(ctx, id); err == nil {
		s.mirrorSite(ctx, site)
	}
	return nil
}

// DeleteSite removes a site and, through the foreign-key cascade, every
// dependent worker, ledger row, material, usage, photo and photo group.
// The cascade is a single statement, so a crash cannot leave orphans.
// Returns NOT_FOUND when the id doesn't exist.
func (s *Store) DeleteSite(ctx context.Context, id string) error {
	res, err := s.execContext(ctx, "site", `DELETE FROM sites WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete site: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete site: rows affected: %w", err)
	}
	if n == 0 {
		return ledger.NewNotFound("site", id)
	}
	return nil
}

// mirrorSite forwards a committed site to the cloud mirror.
// Best-effort: failures are logged, never propagated.
func (s *Store) mirrorSite(ctx context.Context, site ledger.Site) {
	if err := s.mirror.UpsertSite(ctx, site); err != nil {
		s.log.WithFields(map[string]any{
			"site": site.ID,
		}).WithError(err).Warn("cloud mirror upsert failed")
	}
}

// scanSite reads one sites row via the given scan function, so it works
// for both *sql.Row and *sql.Rows.
func scanSite(scan func(dest ...any) error) (ledger.Site, error) {
	var (
		site      ledger.Site
		siteType  string
		startDate string
		endDate   sql.NullString
		isRunning int
		code      sql.NullString
		userID    sql.NullString
		createdAt string
	)
	if err := scan(
		&site.ID, &site.Name, &siteType, &site.Location, &startDate, &endDate,
		&isRunning, &site.OwnerName, &site.Contact, &code, &userID, &createdAt,
	); err != nil {
		return ledger.Site{}, err
	}

	site.Type = ledger.SiteType(siteType)
	site.IsRunning = isRunning != 0
	site.Code = code.String
	site.UserID = userID.String

	var err error
	if site.StartDate, err = parseDate(startDate); err != nil {
		return ledger.Site{}, fmt.Errorf("parse start_date: %w", err)
	}
	if endDate.Valid && endDate.String != "" {
		t, err := parseDate(endDate.String)
		if err != nil {
			return ledger.Site{}, fmt.Errorf("parse end_date: %w", err)
		}
		site.EndDate = &t
	}
	if site.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return ledger.Site{}, fmt.Errorf("parse created_at: %w", err)
	}
	return site, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
