package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Rushilchauhan45/sitely/internal/ledger"
)

// CreateMaterial inserts a purchased material. TotalAmount is computed
// here as Quantity * Rate and persisted; it is never recomputed lazily
// on read.
func (s *Store) CreateMaterial(ctx context.Context, m ledger.Material) (ledger.Material, error) {
	m.Name = cleanText(m.Name)
	if m.Name == "" {
		return ledger.Material{}, ledger.NewConstraint("material", "name must not be empty", nil)
	}
	if !m.Unit.Valid() {
		return ledger.Material{}, ledger.NewConstraint("material", fmt.Sprintf("invalid unit %q", m.Unit), nil)
	}
	if m.ID == "" {
		m.ID = uuid.Must(uuid.NewV7()).String()
	}
	if m.PurchasedAt.IsZero() {
		m.PurchasedAt = s.clock.Now()
	}
	m.VendorName = cleanText(m.VendorName)
	m.TotalAmount = m.Quantity * m.Rate

	_, err := s.execContext(ctx, "material", `
		INSERT INTO materials
		(id, site_id, name, vendor_name, vendor_phone, quantity, unit, rate, total_amount, amount_paid, bill_photo_ref, purchased_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		m.ID, m.SiteID, m.Name, m.VendorName, m.VendorPhone, m.Quantity,
		string(m.Unit), m.Rate, m.TotalAmount, m.AmountPaid, m.BillPhotoRef,
		formatTimestamp(m.PurchasedAt),
	)
	if err != nil {
		return ledger.Material{}, fmt.Errorf("create material: %w", err)
	}
	return m, nil
}

// ListMaterials returns a site's materials, newest purchases first.
func (s *Store) ListMaterials(ctx context.Context, siteID string) ([]ledger.Material, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, site_id, name, vendor_name, vendor_phone, quantity, unit, rate, total_amount, amount_paid, bill_photo_ref, purchased_at
		FROM materials
		WHERE site_id = ?
		ORDER BY purchased_at DESC, id DESC
	`, siteID)
	if err != nil {
		return nil, fmt.Errorf("query materials: %w", err)
	}
	defer rows.Close()

	var materials []ledger.Material
	for rows.Next() {
		var (
			m           ledger.Material
			unit        string
			purchasedAt string
		)
		if err := rows.Scan(
			&m.ID, &m.SiteID, &m.Name, &m.VendorName, &m.VendorPhone, &m.Quantity,
			&unit, &m.Rate, &m.TotalAmount, &m.AmountPaid, &m.BillPhotoRef, &purchasedAt,
		); err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		m.Unit = ledger.Unit(unit)
		if m.PurchasedAt, err = parseTimestamp(purchasedAt); err != nil {
			return nil, fmt.Errorf("parse purchased_at: %w", err)
		}
		materials = append(materials, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate materials: %w", err)
	}

	if materials == nil {
		materials = []ledger.Material{}
	}
	return materials, nil
}

// UpdateMaterial applies a partial update in a single transaction. When
// quantity or rate changes, total_amount is recomputed from the values
// in effect after the patch, inside the same transaction.
func (s *Store) UpdateMaterial(ctx context.Context, id string, patch ledger.MaterialPatch) error {
	if patch.Unit != nil && !patch.Unit.Valid() {
		return ledger.NewConstraint("material", fmt.Sprintf("invalid unit %q", *patch.Unit), nil)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("update material: begin tx: %w", err)
	}
	defer tx.Rollback()

	var quantity, rate float64
	err = tx.QueryRowContext(ctx, `
		SELECT quantity, rate FROM materials WHERE id = ?
	`, id).Scan(&quantity, &rate)
	if err == sql.ErrNoRows {
		return ledger.NewNotFound("material", id)
	}
	if err != nil {
		return fmt.Errorf("update material: %w", err)
	}

	var sets []string
	var args []any

	if patch.Name != nil {
		name := cleanText(*patch.Name)
		if name == "" {
			return ledger.NewConstraint("material", "name must not be empty", nil)
		}
		sets = append(sets, "name = ?")
		args = append(args, name)
	}
	if patch.VendorName != nil {
		sets = append(sets, "vendor_name = ?")
		args = append(args, cleanText(*patch.VendorName))
	}
	if patch.VendorPhone != nil {
		sets = append(sets, "vendor_phone = ?")
		args = append(args, *patch.VendorPhone)
	}
	if patch.Quantity != nil {
		quantity = *patch.Quantity
		sets = append(sets, "quantity = ?")
		args = append(args, quantity)
	}
	if patch.Unit != nil {
		sets = append(sets, "unit = ?")
		args = append(args, string(*patch.Unit))
	}
	if patch.Rate != nil {
		rate = *patch.Rate
		sets = append(sets, "rate = ?")
		args = append(args, rate)
	}
	if patch.Quantity != nil || patch.Rate != nil {
		sets = append(sets, "total_amount = ?")
		args = append(args, quantity*rate)
	}
	if patch.AmountPaid != nil {
		sets = append(sets, "amount_paid = ?")
		args = append(args, *patch.AmountPaid)
	}
	if patch.BillPhotoRef != nil {
		sets = append(sets, "bill_photo_ref = ?")
		args = append(args, *patch.BillPhotoRef)
	}

	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	_, err = tx.ExecContext(ctx, `UPDATE materials SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update material: %w", mapSQLiteErr("material", err))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("update material: commit: %w", err)
	}
	return nil
}

// DeleteMaterial removes a material and, through the cascade, its
// usages. Returns NOT_FOUND when the id doesn't exist.
func (s *Store) DeleteMaterial(ctx context.Context, id string) error {
	res, err := s.execContext(ctx, "material", `DELETE FROM materials WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete material: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete material: rows affected: %w", err)
	}
	if n == 0 {
		return ledger.NewNotFound("material", id)
	}
	return nil
}

// AddMaterialUsage records consumption from a material's stock. The
// arithmetic is allowed to drive remaining stock negative; the clamp
// happens on read so over-consumption stays detectable.
func (s *Store) AddMaterialUsage(ctx context.Context, u ledger.MaterialUsage) (ledger.MaterialUsage, error) {
	if u.ID == "" {
		u.ID = uuid.Must(uuid.NewV7()).String()
	}
	if u.Date.IsZero() {
		u.Date = s.clock.Now()
	}

	_, err := s.execContext(ctx, "material usage", `
		INSERT INTO material_usages
		(id, material_id, quantity, description, usage_date)
		VALUES (?, ?, ?, ?, ?)
	`,
		u.ID, u.MaterialID, u.Quantity, u.Description, formatDate(u.Date),
	)
	if err != nil {
		return ledger.MaterialUsage{}, fmt.Errorf("add material usage: %w", err)
	}
	return u, nil
}

// ListMaterialUsages returns a material's usages, newest first.
func (s *Store) ListMaterialUsages(ctx context.Context, materialID string) ([]ledger.MaterialUsage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, material_id, quantity, description, usage_date
		FROM material_usages
		WHERE material_id = ?
		ORDER BY usage_date DESC, id DESC
	`, materialID)
	if err != nil {
		return nil, fmt.Errorf("query material usages: %w", err)
	}
	defer rows.Close()

	var usages []ledger.MaterialUsage
	for rows.Next() {
		var (
			u    ledger.MaterialUsage
			date string
		)
		if err := rows.Scan(&u.ID, &u.MaterialID, &u.Quantity, &u.Description, &date); err != nil {
			return nil, fmt.Errorf("scan material usage: %w", err)
		}
		if u.Date, err = parseDate(date); err != nil {
			return nil, fmt.Errorf("parse usage_date: %w", err)
		}
		usages = append(usages, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate material usages: %w", err)
	}

	if usages == nil {
		usages = []ledger.MaterialUsage{}
	}
	return usages, nil
}

// MaterialStock returns the remaining quantity of a material:
// quantity - sum(usages), summed by the storage engine. Raw may be
// negative to signal over-consumption; Remaining is clamped at zero for
// display. Returns NOT_FOUND for an unknown material.
func (s *Store) MaterialStock(ctx context.Context, materialID string) (ledger.Stock, error) {
	var raw float64
	err := s.db.QueryRowContext(ctx, `
		SELECT m.quantity - COALESCE((
			SELECT SUM(u.quantity) FROM material_usages u WHERE u.material_id = m.id
		), 0)
		FROM materials m
		WHERE m.id = ?
	`, materialID).Scan(&raw)
	if err == sql.ErrNoRows {
		return ledger.Stock{}, ledger.NewNotFound("material", materialID)
	}
	if err != nil {
		return ledger.Stock{}, fmt.Errorf("material stock: %w", err)
	}

	stock := ledger.Stock{Raw: raw, Remaining: raw}
	if stock.Remaining < 0 {
		stock.Remaining = 0
	}
	return stock, nil
}
