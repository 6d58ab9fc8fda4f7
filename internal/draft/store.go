package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/resumeforge/resumeforge/internal/resume"
	"github.com/resumeforge/resumeforge/pkg/logger"
	"github.com/resumeforge/resumeforge/pkg/metrics"
)

// Key is the fixed key the in-progress document is stored under.
const Key = "resumeDraft"

var log = logger.Named("draft")

// Store holds the in-progress document and mirrors every change to its
// Backend. Snapshots handed out by Current and to subscribers are never
// mutated afterwards: all section operations copy on write.
type Store struct {
	mu      sync.Mutex
	doc     resume.Document
	backend Backend
	newID   resume.IDFunc

	// pubMu is taken before mu is released so subscribers see commits in
	// the order they happened.
	pubMu sync.Mutex

	subMu   sync.Mutex
	subs    map[int]func(resume.Document)
	nextSub int
}

// NewStore returns a store holding the seeded-empty document. It does not
// read the backend; call Load for that.
func NewStore(b Backend, newID resume.IDFunc) *Store {
	if newID == nil {
		newID = resume.NewID
	}
	return &Store{
		doc:     resume.NewEmpty(newID),
		backend: b,
		newID:   newID,
		subs:    make(map[int]func(resume.Document)),
	}
}

// Open creates a store and restores the last durable snapshot, if any.
func Open(ctx context.Context, b Backend, newID resume.IDFunc) *Store {
	s := NewStore(b, newID)
	s.Load(ctx)
	return s
}

// Load restores the durable snapshot. A missing, unreadable or malformed
// value falls back to the seeded-empty document; that is logged, not
// returned.
func (s *Store) Load(ctx context.Context) resume.Document {
	s.mu.Lock()
	doc := s.restore(ctx)
	s.doc = doc
	s.handoff(doc)
	return doc
}

func (s *Store) restore(ctx context.Context) resume.Document {
	raw, ok, err := s.backend.Get(ctx, Key)
	if err != nil {
		log.Warnf("reading %s from %s backend: %v", Key, s.backend.Name(), err)
		return resume.NewEmpty(s.newID)
	}
	if !ok {
		return resume.NewEmpty(s.newID)
	}
	doc, err := resume.ParseJSON(raw)
	if err != nil {
		log.Warnf("discarding stored %s: %v", Key, err)
		return resume.NewEmpty(s.newID)
	}
	return doc
}

// Current returns the latest snapshot.
func (s *Store) Current() resume.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// Replace installs next as the current document, writes it to the backend
// and publishes it. A write failure is returned but the in-memory document
// still advances.
func (s *Store) Replace(ctx context.Context, next resume.Document) error {
	return s.Update(ctx, func(resume.Document) (resume.Document, error) {
		return next, nil
	})
}

// Update applies fn to the current document as one read-modify-write step.
// If fn fails nothing changes.
func (s *Store) Update(ctx context.Context, fn func(resume.Document) (resume.Document, error)) error {
	s.mu.Lock()
	next, err := fn(s.doc)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	next = next.Normalize()
	s.doc = next
	werr := s.persist(ctx, next)
	s.handoff(next)
	return werr
}

func (s *Store) persist(ctx context.Context, doc resume.Document) error {
	b, err := json.Marshal(doc)
	if err == nil {
		err = s.backend.Set(ctx, Key, b)
	}
	metrics.DraftWrites.WithLabelValues(s.backend.Name(), metrics.Outcome(err)).Inc()
	if err != nil {
		log.Errorf("writing %s to %s backend: %v", Key, s.backend.Name(), err)
		return fmt.Errorf("persist draft: %w", err)
	}
	return nil
}

// Clear resets to the seeded-empty document and removes the durable copy.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.doc = resume.NewEmpty(s.newID)
	doc := s.doc
	err := s.backend.Delete(ctx, Key)
	s.handoff(doc)
	if err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}
	return nil
}

// MarkSaved is called after a successful remote save: the durable copy is
// dropped and editing starts over from the seeded-empty document.
func (s *Store) MarkSaved(ctx context.Context) error {
	return s.Clear(ctx)
}

// Subscribe registers fn for every new snapshot and returns a cancel func.
// fn runs on the goroutine that changed the store, one snapshot at a time
// and in commit order. It may call Current but must not change the store.
func (s *Store) Subscribe(fn func(resume.Document)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// Watch hands fn the current snapshot and then subscribes it, with no commit
// in between.
func (s *Store) Watch(fn func(resume.Document)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.doc)
	return s.Subscribe(fn)
}

// handoff releases mu and publishes doc before any later commit can.
func (s *Store) handoff(doc resume.Document) {
	s.pubMu.Lock()
	s.mu.Unlock()
	defer s.pubMu.Unlock()
	s.publish(doc)
}

func (s *Store) publish(doc resume.Document) {
	s.subMu.Lock()
	fns := make([]func(resume.Document), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(doc)
	}
}
