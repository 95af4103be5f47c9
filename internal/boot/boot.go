// Package boot runs the startup sequence of the storage layer: ensure
// schema, migrate the legacy store, sweep expired ledger rows. The
// sequence is memoized so it executes exactly once per process no
// matter how many callers race for the handle.
package boot

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Rushilchauhan45/sitely/internal/cloud"
	"github.com/Rushilchauhan45/sitely/internal/ledger"
	"github.com/Rushilchauhan45/sitely/internal/legacy"
	"github.com/Rushilchauhan45/sitely/internal/store"
)

// Config describes where the storage lives and which collaborators to
// thread through. Only DBPath is required.
type Config struct {
	// DBPath is the SQLite database file.
	DBPath string

	// LegacyPath is the old flat key-value store file. Empty or missing
	// means there is nothing to migrate.
	LegacyPath string

	Clock  ledger.Clock
	Logger *logrus.Logger
	Mirror cloud.Mirror
}

// Initializer owns the memoized startup chain. Create one per process
// with New and hand it to everything that needs the store; every
// Init call observes the same completion (or the same failure).
type Initializer struct {
	cfg Config

	once  sync.Once
	store *store.Store
	err   error
}

// New creates an Initializer. No I/O happens until Init.
func New(cfg Config) *Initializer {
	return &Initializer{cfg: cfg}
}

// Init runs schema, migration and retention exactly once and returns the
// ready store handle. Concurrent callers block until the single real
// run finishes and then all observe its result. A failure is memoized
// too: the startup chain is not retried within a process lifetime.
//
// The context of the first caller governs the actual work.
func (i *Initializer) Init(ctx context.Context) (*store.Store, error) {
	i.once.Do(func() {
		i.store, i.err = i.run(ctx)
	})
	return i.store, i.err
}

func (i *Initializer) run(ctx context.Context) (*store.Store, error) {
	log := i.cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	// Schema first; fatal if the backing store is unreachable.
	st, err := store.Open(i.cfg.DBPath, store.Options{
		Clock:  i.cfg.Clock,
		Logger: log,
		Mirror: i.cfg.Mirror,
	})
	if err != nil {
		return nil, err
	}

	// One-time legacy migration, before any ledger read.
	if _, err := legacy.New(st, i.cfg.LegacyPath, log).Run(ctx); err != nil {
		st.Close()
		return nil, err
	}

	// Retention sweep last, so freshly migrated rows past the horizon
	// are removed in the same startup.
	if _, err := st.Sweep(ctx); err != nil {
		st.Close()
		return nil, err
	}

	return st, nil
}
