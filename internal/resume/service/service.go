package service

import (
	"context"
	"errors"
	"time"

	"github.com/resumeforge/resumeforge/internal/resume"
	"github.com/resumeforge/resumeforge/internal/resume/repository"
	"github.com/resumeforge/resumeforge/pkg/logger"
	"github.com/resumeforge/resumeforge/pkg/metrics"
)

var ErrNotFound = resume.ErrNotFound

var log = logger.Named("resumes")

// Service is the persistence gateway used by the builder and the HTTP layer.
// Each call is attempted once; failures are returned as-is.
type Service interface {
	Create(ctx context.Context, ownerID string, d resume.Document) (*resume.Record, error)
	List(ctx context.Context, ownerID string) ([]*resume.Record, error)
	Get(ctx context.Context, id string) (*resume.Record, error)
	Update(ctx context.Context, id string, d resume.Document) (*resume.Record, error)
	Delete(ctx context.Context, id string) error
}

// New wraps repo with per-call timeouts, logging and metrics. A zero timeout
// leaves the caller's deadline alone.
func New(repo repository.Repository, timeout time.Duration) Service {
	return &service{repo: repo, timeout: timeout}
}

// NewMemoryService returns a Service backed by the in-memory repository.
func NewMemoryService() Service {
	return New(repository.NewMemoryRepo(), 0)
}

type service struct {
	repo    repository.Repository
	timeout time.Duration
}

func (s *service) call(ctx context.Context, op string, fn func(context.Context) error) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	err := fn(ctx)
	metrics.ResumeOperations.WithLabelValues(op, metrics.Outcome(err)).Inc()
	if err != nil && !errors.Is(err, ErrNotFound) {
		log.Errorf("%s: %v", op, err)
	}
	return err
}

func (s *service) Create(ctx context.Context, ownerID string, d resume.Document) (*resume.Record, error) {
	rec := resume.ToRecord(ownerID, d)
	err := s.call(ctx, "create", func(ctx context.Context) error {
		return s.repo.Create(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	log.Debugf("created resume %s for %s", rec.ID, ownerID)
	return rec, nil
}

func (s *service) List(ctx context.Context, ownerID string) ([]*resume.Record, error) {
	var out []*resume.Record
	err := s.call(ctx, "list", func(ctx context.Context) error {
		var err error
		out, err = s.repo.List(ctx, ownerID)
		return err
	})
	return out, err
}

func (s *service) Get(ctx context.Context, id string) (*resume.Record, error) {
	var rec *resume.Record
	err := s.call(ctx, "get", func(ctx context.Context) error {
		var err error
		rec, err = s.repo.Get(ctx, id)
		return err
	})
	return rec, err
}

func (s *service) Update(ctx context.Context, id string, d resume.Document) (*resume.Record, error) {
	var rec *resume.Record
	err := s.call(ctx, "update", func(ctx context.Context) error {
		var err error
		rec, err = s.repo.Update(ctx, id, d)
		return err
	})
	return rec, err
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.call(ctx, "delete", func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	})
}
