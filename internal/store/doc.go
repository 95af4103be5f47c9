// Package store provides the SQLite-backed relational ledger for one
// installation: sites, workers, the three append-only financial event
// streams (wage, expense, payment), materials and usages, photos, photo
// groups and the flat settings table.
//
// # Schema management
//
// Open applies the embedded schema.sql (CREATE ... IF NOT EXISTS) and a
// fixed list of additive column migrations tracked via PRAGMA
// user_version. Each migration re-checks column presence, so applying
// it to an already-upgraded database is a no-op. Open failing is fatal
// for startup; no other component may proceed without the schema.
//
// # Durability and concurrency
//
//   - WAL mode: a process killed mid-write recovers to a consistent
//     state on the next Open
//   - One connection (SetMaxOpenConns(1)): writes serialize internally,
//     so rapid consecutive UI calls cannot interleave
//   - foreign_keys=ON: site deletion cascades through every dependent
//     table in a single statement
//
// Every mutating operation commits as a single statement or a single
// transaction. There are no client-side multi-call sequences that a
// crash could leave half-applied.
//
// # Retention
//
// The three ledger streams are subject to a 3-year retention horizon.
// List reads and WorkerTotals filter old rows out immediately; Sweep
// removes them physically at startup.
package store
