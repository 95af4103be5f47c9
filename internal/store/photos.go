package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/Rushilchauhan45/sitely/internal/ledger"
)

// CreatePhotoGroup inserts a named photo bucket under a site.
func (s *Store) CreatePhotoGroup(ctx context.Context, g ledger.PhotoGroup) (ledger.PhotoGroup, error) {
	g.Name = cleanText(g.Name)
	if g.Name == "" {
		return ledger.PhotoGroup{}, ledger.NewConstraint("photo group", "name must not be empty", nil)
	}
	if g.ID == "" {
		g.ID = uuid.Must(uuid.NewV7()).String()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = s.clock.Now()
	}

	_, err := s.execContext(ctx, "photo group", `
		INSERT INTO photo_groups (id, site_id, name, created_at)
		VALUES (?, ?, ?, ?)
	`, g.ID, g.SiteID, g.Name, formatTimestamp(g.CreatedAt))
	if err != nil {
		return ledger.PhotoGroup{}, fmt.Errorf("create photo group: %w", err)
	}
	return g, nil
}

// ListPhotoGroups returns a site's photo groups, newest first.
func (s *Store) ListPhotoGroups(ctx context.Context, siteID string) ([]ledger.PhotoGroup, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, site_id, name, created_at
		FROM photo_groups
		WHERE site_id = ?
		ORDER BY created_at DESC, id DESC
	`, siteID)
	if err != nil {
		return nil, fmt.Errorf("query photo groups: %w", err)
	}
	defer rows.Close()

	var groups []ledger.PhotoGroup
	for rows.Next() {
		var (
			g         ledger.PhotoGroup
			createdAt string
		)
		if err := rows.Scan(&g.ID, &g.SiteID, &g.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("scan photo group: %w", err)
		}
		if g.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		groups = append(groups, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate photo groups: %w", err)
	}

	if groups == nil {
		groups = []ledger.PhotoGroup{}
	}
	return groups, nil
}

// DeletePhotoGroup removes a group. Its photos stay on the site and
// become ungrouped (FK is ON DELETE SET NULL). Returns NOT_FOUND when
// the id doesn't exist.
func (s *Store) DeletePhotoGroup(ctx context.Context, id string) error {
	res, err := s.execContext(ctx, "photo group", `DELETE FROM photo_groups WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete photo group: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete photo group: rows affected: %w", err)
	}
	if n == 0 {
		return ledger.NewNotFound("photo group", id)
	}
	return nil
}

// CreatePhoto inserts a photo reference under a site, optionally into a
// group.
func (s *Store) CreatePhoto(ctx context.Context, p ledger.Photo) (ledger.Photo, error) {
	if p.Ref == "" {
		return ledger.Photo{}, ledger.NewConstraint("photo", "ref must not be empty", nil)
	}
	if p.ID == "" {
		p.ID = uuid.Must(uuid.NewV7()).String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.clock.Now()
	}

	var groupID any
	if p.GroupID != "" {
		groupID = p.GroupID
	}

	_, err := s.execContext(ctx, "photo", `
		INSERT INTO photos (id, site_id, group_id, ref, caption, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p.ID, p.SiteID, groupID, p.Ref, p.Caption, formatTimestamp(p.CreatedAt))
	if err != nil {
		return ledger.Photo{}, fmt.Errorf("create photo: %w", err)
	}
	return p, nil
}

// ListPhotos returns a site's photos, newest first.
func (s *Store) ListPhotos(ctx context.Context, siteID string) ([]ledger.Photo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, site_id, group_id, ref, caption, created_at
		FROM photos
		WHERE site_id = ?
		ORDER BY created_at DESC, id DESC
	`, siteID)
	if err != nil {
		return nil, fmt.Errorf("query photos: %w", err)
	}
	defer rows.Close()

	var photos []ledger.Photo
	for rows.Next() {
		var (
			p         ledger.Photo
			groupID   sql.NullString
			createdAt string
		)
		if err := rows.Scan(&p.ID, &p.SiteID, &groupID, &p.Ref, &p.Caption, &createdAt); err != nil {
			return nil, fmt.Errorf("scan photo: %w", err)
		}
		p.GroupID = groupID.String
		if p.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		photos = append(photos, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate photos: %w", err)
	}

	if photos == nil {
		photos = []ledger.Photo{}
	}
	return photos, nil
}

// DeletePhoto removes a photo reference. Returns NOT_FOUND when the id
// doesn't exist.
func (s *Store) DeletePhoto(ctx context.Context, id string) error {
	res, err := s.execContext(ctx, "photo", `DELETE FROM photos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete photo: rows affected: %w", err)
	}
	if n == 0 {
		return ledger.NewNotFound("photo", id)
	}
	return nil
}
