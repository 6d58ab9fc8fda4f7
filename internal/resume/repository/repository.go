package repository

import (
	"context"

	"github.com/resumeforge/resumeforge/internal/resume"
)

// ErrNotFound is resume.ErrNotFound, re-exported for callers that only
// import the repository.
var ErrNotFound = resume.ErrNotFound

// Repository persists resume records. Create assigns ID and both timestamps;
// Update replaces the editable part wholesale and bumps UpdatedAt.
type Repository interface {
	Create(ctx context.Context, rec *resume.Record) error
	// List returns the owner's records, newest created first.
	List(ctx context.Context, ownerID string) ([]*resume.Record, error)
	Get(ctx context.Context, id string) (*resume.Record, error)
	Update(ctx context.Context, id string, d resume.Document) (*resume.Record, error)
	Delete(ctx context.Context, id string) error
}
