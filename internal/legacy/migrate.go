package legacy

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Rushilchauhan45/sitely/internal/ledger"
	"github.com/Rushilchauhan45/sitely/internal/store"
)

// Engine performs the one-time transformation of the legacy flat
// key-value store into the relational schema. It runs after the schema
// is ensured and before any ledger read.
type Engine struct {
	store *store.Store
	path  string
	log   *logrus.Logger
}

// Stats summarizes one migration pass.
type Stats struct {
	Migrated int // rows newly inserted
	Existing int // rows already present from an earlier pass
	Failed   int // records that could not be converted or inserted
}

// New creates a migration engine reading the legacy store file at path.
func New(st *store.Store, path string, log *logrus.Logger) *Engine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{store: st, path: path, log: log}
}

// Run migrates every legacy key into the relational tables.
//
// Each element is inserted if absent, keyed by the legacy record's own
// id, so re-running after a crash never duplicates rows. A single
// record that fails to convert or insert is logged and skipped; the
// pass continues with the rest of its entity type. This per-record skip
// is the one documented exception to fail-loud propagation.
//
// The completion flag is written only after every key has been
// processed with zero failures. While any record keeps failing, every
// subsequent startup reprocesses the whole legacy store; that is safe
// (inserts are idempotent) and deliberately accepted over tracking
// per-record completion.
//
// The legacy store file is never modified or deleted: the migration is
// additive and reversible by inspection.
func (e *Engine) Run(ctx context.Context) (Stats, error) {
	var stats Stats

	if _, done, err := e.migrated(ctx); err != nil {
		return stats, err
	} else if done {
		e.log.Debug("legacy migration already complete, skipping")
		return stats, nil
	}

	blob, err := Load(e.path)
	if err != nil {
		// An unreadable legacy store is not a schema failure; withhold the
		// flag and retry next start.
		e.log.WithError(err).Warn("legacy store unreadable, migration deferred")
		stats.Failed++
		return stats, nil
	}
	if len(blob) == 0 {
		// Nothing ever written by the old app. Mark complete so future
		// startups skip the file probe.
		if err := e.store.SetSetting(ctx, store.SettingLegacyMigrated, "1"); err != nil {
			return stats, fmt.Errorf("mark migration complete: %w", err)
		}
		return stats, nil
	}

	// Parents before children: sites, then workers, then the three
	// ledger streams and photos, so foreign keys resolve.
	e.migrateKey(ctx, blob, KeySites, &stats, func(raw json.RawMessage) (bool, error) {
		var l legacySite
		if err := json.Unmarshal(raw, &l); err != nil {
			return false, err
		}
		site, err := l.toSite()
		if err != nil {
			return false, err
		}
		return e.store.ImportSite(ctx, site)
	})
	e.migrateKey(ctx, blob, KeyWorkers, &stats, func(raw json.RawMessage) (bool, error) {
		var l legacyWorker
		if err := json.Unmarshal(raw, &l); err != nil {
			return false, err
		}
		w, err := l.toWorker()
		if err != nil {
			return false, err
		}
		return e.store.ImportWorker(ctx, w)
	})
	e.migrateKey(ctx, blob, KeyWages, &stats, func(raw json.RawMessage) (bool, error) {
		var l legacyRecord
		if err := json.Unmarshal(raw, &l); err != nil {
			return false, err
		}
		rec, err := l.toWage()
		if err != nil {
			return false, err
		}
		return e.store.ImportWageRecord(ctx, rec)
	})
	e.migrateKey(ctx, blob, KeyExpenses, &stats, func(raw json.RawMessage) (bool, error) {
		var l legacyRecord
		if err := json.Unmarshal(raw, &l); err != nil {
			return false, err
		}
		rec, err := l.toExpense()
		if err != nil {
			return false, err
		}
		return e.store.ImportExpenseRecord(ctx, rec)
	})
	e.migrateKey(ctx, blob, KeyPayments, &stats, func(raw json.RawMessage) (bool, error) {
		var l legacyRecord
		if err := json.Unmarshal(raw, &l); err != nil {
			return false, err
		}
		rec, err := l.toPayment()
		if err != nil {
			return false, err
		}
		return e.store.ImportPaymentRecord(ctx, rec)
	})
	e.migrateKey(ctx, blob, KeyPhotos, &stats, func(raw json.RawMessage) (bool, error) {
		var l legacyPhoto
		if err := json.Unmarshal(raw, &l); err != nil {
			return false, err
		}
		return e.store.ImportPhoto(ctx, l.toPhoto())
	})

	if err := e.migrateSettings(ctx, blob); err != nil {
		return stats, err
	}

	if stats.Failed == 0 {
		if err := e.store.SetSetting(ctx, store.SettingLegacyMigrated, "1"); err != nil {
			return stats, fmt.Errorf("mark migration complete: %w", err)
		}
	}

	e.log.WithFields(logrus.Fields{
		"migrated": stats.Migrated,
		"existing": stats.Existing,
		"failed":   stats.Failed,
		"complete": stats.Failed == 0,
	}).Info("legacy migration pass finished")

	return stats, nil
}

// migrateKey runs the per-entity mapping for one legacy key. A key
// whose array cannot be decoded at all counts as one failure; a single
// bad element is logged and skipped without stopping its siblings.
func (e *Engine) migrateKey(ctx context.Context, blob Blob, key string, stats *Stats, insert func(json.RawMessage) (bool, error)) {
	entries, err := blob.Entries(key)
	if err != nil {
		e.log.WithField("key", key).WithError(err).Warn("legacy key undecodable, skipped")
		stats.Failed++
		return
	}

	for i, raw := range entries {
		inserted, err := insert(raw)
		if err != nil {
			stats.Failed++
			e.log.WithFields(logrus.Fields{
				"key":   key,
				"index": i,
			}).WithError(recordError(key, err)).Warn("legacy record skipped")
			continue
		}
		if inserted {
			stats.Migrated++
		} else {
			stats.Existing++
		}
	}
}

// migrateSettings copies the two scalar settings, without clobbering
// values the user may have changed since an earlier partial pass.
func (e *Engine) migrateSettings(ctx context.Context, blob Blob) error {
	if lang := blob.Scalar(KeyLanguage); lang != "" {
		if err := e.store.SetDefaultSetting(ctx, store.SettingLanguage, lang); err != nil {
			return err
		}
	}
	if onboarded := blob.Scalar(KeyOnboarded); onboarded != "" {
		if err := e.store.SetDefaultSetting(ctx, store.SettingOnboardingDone, onboarded); err != nil {
			return err
		}
	}
	return nil
}

// migrated reports whether a previous pass completed fully.
func (e *Engine) migrated(ctx context.Context) (string, bool, error) {
	value, ok, err := e.store.GetSetting(ctx, store.SettingLegacyMigrated)
	if err != nil {
		return "", false, fmt.Errorf("check migration flag: %w", err)
	}
	return value, ok && value == "1", nil
}

// recordError wraps a per-record failure with its MIGRATION_RECORD
// code so log scrapers can classify it.
func recordError(key string, err error) error {
	return &ledger.Error{
		Code:    ledger.ErrCodeMigrationRecord,
		Entity:  key,
		Message: "legacy record failed",
		Err:     err,
	}
}
