package builder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/resumeforge/resumeforge/internal/draft"
	"github.com/resumeforge/resumeforge/internal/export"
	"github.com/resumeforge/resumeforge/internal/preview"
	"github.com/resumeforge/resumeforge/internal/resume"
	"github.com/resumeforge/resumeforge/internal/resume/service"
	"github.com/resumeforge/resumeforge/pkg/logger"
)

var log = logger.Named("builder")

// ErrUnknownTemplate is returned by SelectTemplate.
var ErrUnknownTemplate = errors.New("unknown template")

// Exporter is implemented by *export.Exporter.
type Exporter interface {
	Export(ctx context.Context, req export.Request) (*export.Artifact, error)
}

// Builder runs the page workflows: validate, call the gateway, report the
// outcome as a Notification. Records owned by someone else are reported as
// not found.
type Builder struct {
	gateway  service.Service
	exporter Exporter
	flights  *inflight
	now      func() time.Time
}

type Option func(*Builder)

func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

func New(gateway service.Service, exporter Exporter, opts ...Option) *Builder {
	b := &Builder{gateway: gateway, exporter: exporter, flights: newInflight(), now: time.Now}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Saving reports whether a save for ownerID is running.
func (b *Builder) Saving(ownerID string) bool {
	return b.flights.busy("save:" + ownerID)
}

// CreateResume saves the current draft snapshot as a new record. On success
// the draft is cleared; on any failure it is left untouched.
func (b *Builder) CreateResume(ctx context.Context, ownerID string, store *draft.Store) (*resume.Record, Notification, error) {
	release, ok := b.flights.acquire("save:" + ownerID)
	if !ok {
		return nil, Notification{}, ErrInFlight
	}
	defer release()

	snap := store.Current()
	if err := resume.Validate(snap); err != nil {
		return nil, validationFailure(err), err
	}
	rec, err := b.gateway.Create(ctx, ownerID, snap)
	if err != nil {
		return nil, failure(MsgCreateFailed), fmt.Errorf("create resume: %w", err)
	}
	if err := store.MarkSaved(ctx); err != nil {
		log.Warnf("clearing draft of %s after save: %v", ownerID, err)
	}
	n := success(MsgCreated)
	n.Redirect = PathDashboard
	return rec, n, nil
}

// UpdateResume replaces the record's document with d.
func (b *Builder) UpdateResume(ctx context.Context, ownerID, id string, d resume.Document) (*resume.Record, Notification, error) {
	release, ok := b.flights.acquire("save:" + ownerID)
	if !ok {
		return nil, Notification{}, ErrInFlight
	}
	defer release()

	if err := resume.Validate(d); err != nil {
		return nil, validationFailure(err), err
	}
	if _, err := b.owned(ctx, ownerID, id); err != nil {
		if errors.Is(err, resume.ErrNotFound) {
			return nil, notFound(), err
		}
		return nil, failure(MsgUpdateFailed), err
	}
	rec, err := b.gateway.Update(ctx, id, d)
	if err != nil {
		return nil, failure(MsgUpdateFailed), fmt.Errorf("update resume %s: %w", id, err)
	}
	n := success(MsgUpdated)
	n.Redirect = ViewPath(id)
	return rec, n, nil
}

// LoadResume fetches a record for the edit and view pages. Failures redirect
// to the dashboard.
func (b *Builder) LoadResume(ctx context.Context, ownerID, id string) (*resume.Record, Notification, error) {
	rec, err := b.owned(ctx, ownerID, id)
	switch {
	case errors.Is(err, resume.ErrNotFound):
		return nil, notFound(), err
	case err != nil:
		n := failure(MsgLoadFailed)
		n.Redirect = PathDashboard
		return nil, n, err
	}
	return rec, Notification{}, nil
}

// Dashboard lists the owner's records narrowed by q. Stats always cover
// every record the owner has.
func (b *Builder) Dashboard(ctx context.Context, ownerID string, q DashboardQuery) (DashboardView, Notification, error) {
	recs, err := b.gateway.List(ctx, ownerID)
	if err != nil {
		return DashboardView{}, failure(MsgListFailed), fmt.Errorf("list resumes: %w", err)
	}
	return DashboardView{Resumes: q.apply(recs, b.now()), Stats: statsOf(recs)}, Notification{}, nil
}

func (b *Builder) DeleteResume(ctx context.Context, ownerID, id string) (Notification, error) {
	release, ok := b.flights.acquire("delete:" + id)
	if !ok {
		return Notification{}, ErrInFlight
	}
	defer release()

	if _, err := b.owned(ctx, ownerID, id); err != nil {
		return failure(MsgDeleteFailed), err
	}
	if err := b.gateway.Delete(ctx, id); err != nil {
		return failure(MsgDeleteFailed), fmt.Errorf("delete resume %s: %w", id, err)
	}
	return success(MsgDeleted), nil
}

// Download exports the record to PDF with the given preview template.
func (b *Builder) Download(ctx context.Context, ownerID, id, templateID string) (*export.Artifact, Notification, error) {
	release, ok := b.flights.acquire("download:" + id)
	if !ok {
		return nil, Notification{}, ErrInFlight
	}
	defer release()

	rec, n, err := b.LoadResume(ctx, ownerID, id)
	if err != nil {
		return nil, n, err
	}
	a, err := b.exporter.Export(ctx, export.Request{
		OwnerID:  ownerID,
		ResumeID: id,
		Doc:      rec.Document(),
		Template: templateID,
	})
	if errors.Is(err, export.ErrNoPreview) {
		return nil, failure(MsgNoPreview), err
	}
	if err != nil {
		return nil, failure(MsgDownloadFailed), err
	}
	return a, success(MsgDownloaded), nil
}

// ClearDraft discards the in-progress document.
func (b *Builder) ClearDraft(ctx context.Context, store *draft.Store) (Notification, error) {
	if err := store.Clear(ctx); err != nil {
		return failure(err.Error()), err
	}
	return success(MsgDraftCleared), nil
}

func (b *Builder) SelectTemplate(id string) (preview.Template, Notification, error) {
	t, ok := preview.LookupTemplate(id)
	if !ok {
		return preview.Template{}, failure(fmt.Sprintf("Unknown template %q", id)), ErrUnknownTemplate
	}
	return t, success(fmt.Sprintf("Template %q selected", t.Name)), nil
}

func (b *Builder) owned(ctx context.Context, ownerID, id string) (*resume.Record, error) {
	rec, err := b.gateway.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.UserID != ownerID {
		return nil, resume.ErrNotFound
	}
	return rec, nil
}

func notFound() Notification {
	n := failure(MsgNotFound)
	n.Redirect = PathDashboard
	return n
}

func validationFailure(err error) Notification {
	if errors.Is(err, resume.ErrFullNameRequired) {
		return failure(MsgFullNameRequired)
	}
	return failure(err.Error())
}
