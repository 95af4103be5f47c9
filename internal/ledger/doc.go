// Package ledger defines the entities tracked for a construction site:
// the site itself, its workers, the three append-only financial event
// streams (wage, expense, payment), materials and their usages, photos,
// and the flat key/value settings.
//
// The package carries no storage dependency. It exists so that the
// store, the legacy migration engine, the report builder and the cloud
// mirror all speak the same types.
//
// # Balance invariant
//
// For a worker within a site:
//
//	remaining = sum(wage.amount + wage.overtime) - sum(expense.amount) - sum(payment.amount)
//
// The value is always derived from the three record streams, never
// stored. It may be negative (worker overpaid) or positive (worker owed
// money); both are valid terminal states.
//
// # Snapshots
//
// Every ledger row carries the worker's name and category as they were
// when the row was written. Editing a worker later must not rewrite
// history, so the snapshot columns are authoritative for reporting.
package ledger
