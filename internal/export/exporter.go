package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/resumeforge/resumeforge/internal/preview"
	"github.com/resumeforge/resumeforge/internal/resume"
	"github.com/resumeforge/resumeforge/pkg/logger"
	"github.com/resumeforge/resumeforge/pkg/metrics"
)

var log = logger.Named("export")

// ObjectStore is the subset of internal/storage the exporter needs.
type ObjectStore interface {
	UploadFile(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	GetPresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

type Request struct {
	OwnerID  string
	ResumeID string
	Doc      resume.Document
	// Template is a preview template id; empty uses the default.
	Template string
}

// Artifact is one produced PDF. URL is set only when an object store is
// configured.
type Artifact struct {
	FileName  string `json:"fileName"`
	PDF       []byte `json:"-"`
	Thumbnail []byte `json:"-"`
	Pages     int    `json:"pages"`
	ObjectKey string `json:"objectKey,omitempty"`
	URL       string `json:"url,omitempty"`
}

type Exporter struct {
	renderer Renderer
	store    ObjectStore
	history  History
	urlTTL   time.Duration
	now      func() time.Time
}

type Option func(*Exporter)

// WithObjectStore uploads every PDF and presigns a download URL valid for ttl.
func WithObjectStore(s ObjectStore, ttl time.Duration) Option {
	return func(e *Exporter) {
		e.store = s
		e.urlTTL = ttl
	}
}

func WithHistory(h History) Option {
	return func(e *Exporter) { e.history = h }
}

func WithClock(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

func NewExporter(r Renderer, opts ...Option) *Exporter {
	e := &Exporter{renderer: r, urlTTL: 15 * time.Minute, now: time.Now}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Export renders req.Doc through the preview template and prints it.
// Upload and history failures are logged; only rendering errors fail the
// export.
func (e *Exporter) Export(ctx context.Context, req Request) (*Artifact, error) {
	a, err := e.export(ctx, req)
	metrics.Exports.WithLabelValues(metrics.Outcome(err)).Inc()
	return a, err
}

func (e *Exporter) export(ctx context.Context, req Request) (*Artifact, error) {
	html, err := preview.RenderHTML(preview.Project(req.Doc), req.Template)
	if err != nil {
		return nil, err
	}
	res, err := e.renderer.Render(ctx, html)
	if err != nil {
		return nil, fmt.Errorf("export resume %s: %w", req.ResumeID, err)
	}

	now := e.now()
	a := &Artifact{
		FileName:  FileName(req.Doc.PersonalInfo.FullName, now),
		PDF:       res.PDF,
		Thumbnail: res.Thumbnail,
	}
	if a.Pages, err = PageCount(res.PDF); err != nil {
		log.Warnf("page count for %s: %v", a.FileName, err)
	}

	if e.store != nil {
		key := fmt.Sprintf("exports/%s/%s/%s", req.OwnerID, req.ResumeID, a.FileName)
		if err := e.store.UploadFile(ctx, key, bytes.NewReader(res.PDF), int64(len(res.PDF)), "application/pdf"); err != nil {
			log.Errorf("upload %s: %v", key, err)
		} else {
			a.ObjectKey = key
			if a.URL, err = e.store.GetPresignedURL(ctx, key, e.urlTTL); err != nil {
				log.Warnf("presign %s: %v", key, err)
			}
		}
	}

	if e.history != nil {
		rec := &Record{
			ID:        uuid.NewString(),
			ResumeID:  req.ResumeID,
			UserID:    req.OwnerID,
			FileName:  a.FileName,
			ObjectKey: a.ObjectKey,
			Pages:     a.Pages,
			Size:      len(res.PDF),
			CreatedAt: now,
		}
		if err := e.history.Save(ctx, rec); err != nil {
			log.Errorf("record export of %s: %v", req.ResumeID, err)
		}
	}
	return a, nil
}

// History returns the exports recorded for resumeID, or nil when no history
// store is configured.
func (e *Exporter) History(ctx context.Context, resumeID string) ([]Record, error) {
	if e.history == nil {
		return nil, nil
	}
	return e.history.List(ctx, resumeID)
}
