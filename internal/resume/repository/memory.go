package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/resumeforge/resumeforge/internal/resume"
)

// MemoryRepo keeps records in a map. Used in tests and when no database is
// configured.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*entry
	seq   int
	newID resume.IDFunc
	now   func() time.Time
}

type entry struct {
	rec resume.Record
	seq int
}

func NewMemoryRepo() *MemoryRepo {
	return NewMemoryRepoWith(nil, nil)
}

// NewMemoryRepoWith lets tests pin ids and the clock.
func NewMemoryRepoWith(newID resume.IDFunc, now func() time.Time) *MemoryRepo {
	if newID == nil {
		newID = resume.NewID
	}
	if now == nil {
		now = time.Now
	}
	return &MemoryRepo{store: make(map[string]*entry), newID: newID, now: now}
}

func (m *MemoryRepo) Create(_ context.Context, rec *resume.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec.ID = m.newID()
	rec.CreatedAt = m.now().UTC()
	rec.UpdatedAt = rec.CreatedAt
	m.seq++
	m.store[rec.ID] = &entry{rec: *rec, seq: m.seq}
	return nil
}

func (m *MemoryRepo) List(_ context.Context, ownerID string) ([]*resume.Record, error) {
	m.mu.RLock()
	matches := make([]*entry, 0, len(m.store))
	for _, e := range m.store {
		if e.rec.UserID == ownerID {
			matches = append(matches, e)
		}
	}
	m.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if !a.rec.CreatedAt.Equal(b.rec.CreatedAt) {
			return a.rec.CreatedAt.After(b.rec.CreatedAt)
		}
		return a.seq > b.seq
	})
	out := make([]*resume.Record, len(matches))
	for i, e := range matches {
		rec := e.rec
		out[i] = &rec
	}
	return out, nil
}

func (m *MemoryRepo) Get(_ context.Context, id string) (*resume.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	rec := e.rec
	return &rec, nil
}

func (m *MemoryRepo) Update(_ context.Context, id string, d resume.Document) (*resume.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.rec.Apply(d)
	e.rec.UpdatedAt = m.now().UTC()
	rec := e.rec
	return &rec, nil
}

func (m *MemoryRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	return nil
}
