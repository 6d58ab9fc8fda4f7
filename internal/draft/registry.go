package draft

import (
	"context"
	"sync"
	"time"

	"github.com/resumeforge/resumeforge/internal/resume"
)

// BackendFunc returns the backend holding one user's draft.
type BackendFunc func(ownerID string) Backend

// Registry keeps one Store per user so that all edits to a user's draft go
// through the same mutex. Stores are opened lazily from their backend.
type Registry struct {
	backend BackendFunc
	newID   resume.IDFunc
	idle    time.Duration
	now     func() time.Time

	mu      sync.Mutex
	stores  map[string]*entry
	onEvict []func(ownerID string, s *Store)
}

type entry struct {
	store    *Store
	lastUsed time.Time
}

type RegistryOption func(*Registry)

// WithIdleEviction lets Sweep drop stores not asked for within d. Only use
// it with a durable backend: an evicted store is reopened from the backend.
func WithIdleEviction(d time.Duration) RegistryOption {
	return func(r *Registry) { r.idle = d }
}

func withRegistryClock(now func() time.Time) RegistryOption {
	return func(r *Registry) { r.now = now }
}

func NewRegistry(backend BackendFunc, newID resume.IDFunc, opts ...RegistryOption) *Registry {
	r := &Registry{
		backend: backend,
		newID:   newID,
		now:     time.Now,
		stores:  make(map[string]*entry),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// For returns the store for ownerID, restoring it on first use. The backend
// read happens outside the registry lock.
func (r *Registry) For(ctx context.Context, ownerID string) *Store {
	if s := r.touch(ownerID); s != nil {
		return s
	}
	opened := Open(ctx, r.backend(ownerID), r.newID)

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.stores[ownerID]; ok {
		e.lastUsed = r.now()
		return e.store
	}
	r.stores[ownerID] = &entry{store: opened, lastUsed: r.now()}
	return opened
}

func (r *Registry) touch(ownerID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.stores[ownerID]
	if !ok {
		return nil
	}
	e.lastUsed = r.now()
	return e.store
}

// OnEvict registers fn to run for every store Sweep drops.
func (r *Registry) OnEvict(fn func(ownerID string, s *Store)) {
	r.mu.Lock()
	r.onEvict = append(r.onEvict, fn)
	r.mu.Unlock()
}

// Sweep drops stores idle for longer than the eviction window and returns
// their owners. It does nothing without WithIdleEviction.
func (r *Registry) Sweep() []string {
	if r.idle <= 0 {
		return nil
	}
	cutoff := r.now().Add(-r.idle)
	evicted := map[string]*Store{}

	r.mu.Lock()
	for owner, e := range r.stores {
		if e.lastUsed.Before(cutoff) {
			evicted[owner] = e.store
			delete(r.stores, owner)
		}
	}
	hooks := append([]func(string, *Store){}, r.onEvict...)
	r.mu.Unlock()

	owners := make([]string, 0, len(evicted))
	for owner, s := range evicted {
		for _, fn := range hooks {
			fn(owner, s)
		}
		owners = append(owners, owner)
	}
	if len(owners) > 0 {
		log.Debugf("evicted %d idle drafts", len(owners))
	}
	return owners
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, every time.Duration) {
	if r.idle <= 0 || every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.Sweep()
		}
	}
}

// Len reports how many stores are open.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}
