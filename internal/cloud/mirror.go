// Package cloud defines the narrow interface behind which a best-effort
// cloud mirror of the local ledger sits. The mirror is eventually
// consistent and carries none of the local store's correctness
// guarantees; the store invokes it after its own commit and only ever
// logs mirror failures.
package cloud

import (
	"context"
	"sync"

	"github.com/Rushilchauhan45/sitely/internal/ledger"
)

// Mirror receives upserts of locally committed entities and answers
// which site references a user has saved remotely.
type Mirror interface {
	UpsertSite(ctx context.Context, site ledger.Site) error
	UpsertWorker(ctx context.Context, worker ledger.Worker) error
	FetchSiteRefs(ctx context.Context, userID string) ([]string, error)
}

// Nop is the default mirror: it accepts everything and stores nothing.
type Nop struct{}

func (Nop) UpsertSite(context.Context, ledger.Site) error     { return nil }
func (Nop) UpsertWorker(context.Context, ledger.Worker) error { return nil }
func (Nop) FetchSiteRefs(context.Context, string) ([]string, error) {
	return nil, nil
}

// Recorder is a test mirror that remembers every upsert it receives.
// Safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	sites   []ledger.Site
	workers []ledger.Worker

	// Fail, when non-nil, is returned from every call. The store must
	// treat that as a logged no-op, never as an operation failure.
	Fail error
}

func (r *Recorder) UpsertSite(_ context.Context, site ledger.Site) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail != nil {
		return r.Fail
	}
	r.sites = append(r.sites, site)
	return nil
}

func (r *Recorder) UpsertWorker(_ context.Context, worker ledger.Worker) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail != nil {
		return r.Fail
	}
	r.workers = append(r.workers, worker)
	return nil
}

func (r *Recorder) FetchSiteRefs(_ context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail != nil {
		return nil, r.Fail
	}
	var refs []string
	for _, s := range r.sites {
		if s.UserID == userID {
			refs = append(refs, s.ID)
		}
	}
	return refs, nil
}

// Sites returns a copy of the recorded site upserts.
func (r *Recorder) Sites() []ledger.Site {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ledger.Site, len(r.sites))
	copy(out, r.sites)
	return out
}

// Workers returns a copy of the recorded worker upserts.
func (r *Recorder) Workers() []ledger.Worker {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ledger.Worker, len(r.workers))
	copy(out, r.workers)
	return out
}
