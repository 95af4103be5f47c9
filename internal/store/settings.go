package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Setting keys used by the application. The settings table holds a
// handful of flat key/value rows and has no foreign keys.
const (
	SettingLanguage       = "language"
	SettingOnboardingDone = "onboarding_complete"

	// SettingLegacyMigrated records that the one-time legacy migration
	// finished without a single record failure.
	SettingLegacyMigrated = "legacy_migration_complete"
)

// GetSetting returns the value for key. ok is false when the key has
// never been set.
func (s *Store) GetSetting(ctx context.Context, key string) (value string, ok bool, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT value FROM settings WHERE key = ?
	`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, true, nil
}

// SetSetting upserts a key/value pair.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

// SetDefaultSetting writes a key/value pair only if the key is absent.
// Used by the legacy migration so a value the user changed after
// migrating is never clobbered by a re-run.
func (s *Store) SetDefaultSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO NOTHING
	`, key, value)
	if err != nil {
		return fmt.Errorf("set default setting %q: %w", key, err)
	}
	return nil
}
