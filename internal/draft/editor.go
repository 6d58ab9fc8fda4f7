package draft

import (
	"context"
	"errors"

	"github.com/resumeforge/resumeforge/internal/resume"
)

// ErrLastEntry is returned when removing the only entry of a section that
// must keep one (education, experience, projects).
var ErrLastEntry = errors.New("section must keep at least one entry")

// Editor exposes the per-section add/update/remove operations on top of a
// Store. Every operation is a single Store.Update.
type Editor struct {
	store *Store
}

func NewEditor(s *Store) *Editor {
	return &Editor{store: s}
}

func (e *Editor) Store() *Store { return e.store }

// Add appends a blank entry with a fresh id.
func (e *Editor) Add(ctx context.Context, section resume.Section) error {
	return e.store.Update(ctx, func(d resume.Document) (resume.Document, error) {
		return d.AddEntry(section, e.store.newID())
	})
}

// Update sets field on the entry with id. Unknown ids and fields are no-ops.
func (e *Editor) Update(ctx context.Context, section resume.Section, id, field, value string) error {
	return e.store.Update(ctx, func(d resume.Document) (resume.Document, error) {
		return d.UpdateEntry(section, id, field, value)
	})
}

// Remove drops the entry with id. Removing the last entry of a section that
// must keep one fails with ErrLastEntry; an unknown id is a no-op.
func (e *Editor) Remove(ctx context.Context, section resume.Section, id string) error {
	return e.store.Update(ctx, func(d resume.Document) (resume.Document, error) {
		if section.KeepsOneEntry() && d.HasEntry(section, id) && d.EntryCount(section) <= 1 {
			return d, ErrLastEntry
		}
		return d.RemoveEntry(section, id)
	})
}

// CanRemove reports whether Remove(section, id) would be permitted.
func (e *Editor) CanRemove(section resume.Section) bool {
	if !section.KeepsOneEntry() {
		return true
	}
	return e.store.Current().EntryCount(section) > 1
}

func (e *Editor) AddSkill(ctx context.Context, skill string) error {
	return e.store.Update(ctx, func(d resume.Document) (resume.Document, error) {
		return d.AddSkill(skill), nil
	})
}

func (e *Editor) RemoveSkill(ctx context.Context, skill string) error {
	return e.store.Update(ctx, func(d resume.Document) (resume.Document, error) {
		return d.RemoveSkill(skill), nil
	})
}

func (e *Editor) UpdatePersonalInfo(ctx context.Context, field, value string) error {
	return e.store.Update(ctx, func(d resume.Document) (resume.Document, error) {
		return d.UpdatePersonalInfo(field, value), nil
	})
}

func (e *Editor) SetTitle(ctx context.Context, title string) error {
	return e.store.Update(ctx, func(d resume.Document) (resume.Document, error) {
		d.Title = title
		return d, nil
	})
}
