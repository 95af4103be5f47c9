// Package legacy migrates the old flat key-value persistence format
// into the relational store.
//
// The old app kept one JSON array per entity type under fixed keys
// (sites, workers, wage, expense, payment, photo) plus two scalar
// settings. The migration is a pure mapping per entity type: each
// element is converted and inserted if absent, keyed by the legacy
// record's own id. That turns an all-or-nothing operation into small,
// retryable, independently-idempotent steps.
//
// A persisted flag marks successful completion. It is set only after
// every key processed without a single failure; a partial failure
// leaves it unset and the whole pass retries on the next start.
package legacy
