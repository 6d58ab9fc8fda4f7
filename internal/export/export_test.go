package export

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumeforge/resumeforge/internal/resume"
)

type fakeRenderer struct {
	html []byte
	err  error
}

func (f *fakeRenderer) Render(_ context.Context, html []byte) (*Result, error) {
	f.html = html
	if f.err != nil {
		return nil, f.err
	}
	return &Result{PDF: []byte("%PDF-1.4 fake"), Thumbnail: []byte{0xff, 0xd8}}, nil
}

type fakeStore struct {
	objects map[string][]byte
	failPut bool
}

func (s *fakeStore) UploadFile(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	if s.failPut {
		return errors.New("bucket gone")
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.objects[key] = b
	return nil
}

func (s *fakeStore) GetPresignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://minio.local/" + key + "?sig=1", nil
}

func fixedClock() time.Time {
	return time.UnixMilli(1700000000123)
}

func TestFileName(t *testing.T) {
	now := fixedClock()
	assert.Equal(t, "Jane-Doe.pdf", FileName("Jane Doe", now))
	assert.Equal(t, "Jane-Q-Public.pdf", FileName("Jane \t Q\nPublic", now))
	assert.Equal(t, "Jane-Doe.pdf", FileName("  Jane Doe  ", now))
	assert.Equal(t, "resume-1700000000123.pdf", FileName("", now))
	assert.Equal(t, "resume-1700000000123.pdf", FileName("   ", now))
}

func TestDefaultOptionsAreA4(t *testing.T) {
	o := DefaultOptions()
	assert.Equal(t, 8.27, o.PaperWidth)
	assert.Equal(t, 11.69, o.PaperHeight)
	assert.Zero(t, o.Margin)
	assert.Equal(t, 2.0, o.Scale)
	assert.Equal(t, 98, o.Quality)
	w, h := o.viewport()
	assert.Equal(t, int64(793), w)
	assert.Equal(t, int64(1122), h)
}

func TestPageCountRejectsGarbage(t *testing.T) {
	_, err := PageCount([]byte("not a pdf"))
	require.Error(t, err)
}

func TestExportUploadsAndRecords(t *testing.T) {
	ctx := context.Background()
	r := &fakeRenderer{}
	store := &fakeStore{objects: map[string][]byte{}}
	hist := NewMemoryHistory()
	e := NewExporter(r, WithObjectStore(store, time.Minute), WithHistory(hist), WithClock(fixedClock))

	doc := resume.NewEmpty(nil)
	doc.PersonalInfo.FullName = "Jane Doe"
	a, err := e.Export(ctx, Request{OwnerID: "u1", ResumeID: "r1", Doc: doc})
	require.NoError(t, err)

	assert.Contains(t, string(r.html), `class="resume-preview template-modern"`)
	assert.Contains(t, string(r.html), "Jane Doe")
	assert.Equal(t, "Jane-Doe.pdf", a.FileName)
	assert.Zero(t, a.Pages)
	assert.Equal(t, "exports/u1/r1/Jane-Doe.pdf", a.ObjectKey)
	assert.Equal(t, "https://minio.local/exports/u1/r1/Jane-Doe.pdf?sig=1", a.URL)
	assert.Equal(t, a.PDF, store.objects[a.ObjectKey])

	recs, err := e.History(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "u1", recs[0].UserID)
	assert.Equal(t, len(a.PDF), recs[0].Size)
}

func TestExportSurvivesUploadFailure(t *testing.T) {
	store := &fakeStore{objects: map[string][]byte{}, failPut: true}
	e := NewExporter(&fakeRenderer{}, WithObjectStore(store, time.Minute), WithClock(fixedClock))
	a, err := e.Export(context.Background(), Request{OwnerID: "u1", ResumeID: "r1", Doc: resume.NewEmpty(nil)})
	require.NoError(t, err)
	assert.Equal(t, "resume-1700000000123.pdf", a.FileName)
	assert.Empty(t, a.ObjectKey)
	assert.Empty(t, a.URL)
}

func TestExportMissingPreview(t *testing.T) {
	e := NewExporter(&fakeRenderer{err: ErrNoPreview})
	_, err := e.Export(context.Background(), Request{ResumeID: "r1", Doc: resume.NewEmpty(nil)})
	require.ErrorIs(t, err, ErrNoPreview)

	recs, err := e.History(context.Background(), "r1")
	require.NoError(t, err)
	assert.Nil(t, recs)
}

func TestMemoryHistoryNewestFirst(t *testing.T) {
	ctx := context.Background()
	h := NewMemoryHistory()
	base := fixedClock()
	require.NoError(t, h.Save(ctx, &Record{ID: "a", ResumeID: "r", CreatedAt: base}))
	require.NoError(t, h.Save(ctx, &Record{ID: "b", ResumeID: "r", CreatedAt: base.Add(time.Hour)}))
	recs, err := h.List(ctx, "r")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "b", recs[0].ID)
}
