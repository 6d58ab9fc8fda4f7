package builder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumeforge/resumeforge/internal/draft"
	"github.com/resumeforge/resumeforge/internal/export"
	"github.com/resumeforge/resumeforge/internal/resume"
	"github.com/resumeforge/resumeforge/internal/resume/service"
)

// countingGateway records calls and can fail Create.
type countingGateway struct {
	service.Service
	creates   int
	failNext  error
	blockSave chan struct{}
}

func (g *countingGateway) Create(ctx context.Context, ownerID string, d resume.Document) (*resume.Record, error) {
	g.creates++
	if g.blockSave != nil {
		<-g.blockSave
	}
	if g.failNext != nil {
		err := g.failNext
		g.failNext = nil
		return nil, err
	}
	return g.Service.Create(ctx, ownerID, d)
}

type fakeExporter struct {
	err  error
	reqs []export.Request
}

func (f *fakeExporter) Export(_ context.Context, req export.Request) (*export.Artifact, error) {
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return nil, f.err
	}
	return &export.Artifact{FileName: export.FileName(req.Doc.PersonalInfo.FullName, time.Now()), PDF: []byte("%PDF")}, nil
}

func setup(t *testing.T) (*Builder, *countingGateway, *fakeExporter, *draft.Store) {
	t.Helper()
	gw := &countingGateway{Service: service.NewMemoryService()}
	ex := &fakeExporter{}
	store := draft.NewStore(draft.NewMemoryBackend(), nil)
	return New(gw, ex), gw, ex, store
}

func TestCreateResumeSavesSnapshotAndClearsDraft(t *testing.T) {
	ctx := context.Background()
	b, gw, _, store := setup(t)
	ed := draft.NewEditor(store)
	require.NoError(t, ed.UpdatePersonalInfo(ctx, "fullName", "Jane Doe"))
	require.NoError(t, ed.Update(ctx, resume.SectionEducation, store.Current().Education[0].ID, "institution", "MIT"))

	rec, n, err := b.CreateResume(ctx, "u1", store)
	require.NoError(t, err)
	assert.Equal(t, 1, gw.creates)
	assert.Equal(t, Notification{Level: LevelSuccess, Message: MsgCreated, Redirect: PathDashboard}, n)

	got, err := gw.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.PersonalInfo.FullName)
	assert.Equal(t, "MIT", got.Education[0].Institution)
	assert.Equal(t, "u1", got.UserID)

	assert.Empty(t, store.Current().PersonalInfo.FullName)
}

func TestCreateResumeRequiresFullName(t *testing.T) {
	ctx := context.Background()
	b, gw, _, store := setup(t)
	require.NoError(t, draft.NewEditor(store).AddSkill(ctx, "Go"))

	_, n, err := b.CreateResume(ctx, "u1", store)
	require.ErrorIs(t, err, resume.ErrFullNameRequired)
	assert.Zero(t, gw.creates)
	assert.Equal(t, LevelError, n.Level)
	assert.Equal(t, MsgFullNameRequired, n.Message)
	assert.Equal(t, []string{"Go"}, store.Current().Skills)
}

func TestCreateResumeFailureKeepsDraft(t *testing.T) {
	ctx := context.Background()
	b, gw, _, store := setup(t)
	require.NoError(t, draft.NewEditor(store).UpdatePersonalInfo(ctx, "fullName", "Jane"))
	gw.failNext = errors.New("network down")

	_, n, err := b.CreateResume(ctx, "u1", store)
	require.Error(t, err)
	assert.Equal(t, MsgCreateFailed, n.Message)
	assert.Equal(t, "Jane", store.Current().PersonalInfo.FullName)
}

func TestSecondSaveWhileInFlight(t *testing.T) {
	ctx := context.Background()
	b, gw, _, store := setup(t)
	require.NoError(t, draft.NewEditor(store).UpdatePersonalInfo(ctx, "fullName", "Jane"))
	gw.blockSave = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, _, err := b.CreateResume(ctx, "u1", store)
		done <- err
	}()
	require.Eventually(t, func() bool { return b.Saving("u1") }, time.Second, 5*time.Millisecond)

	_, _, err := b.CreateResume(ctx, "u1", store)
	require.ErrorIs(t, err, ErrInFlight)

	close(gw.blockSave)
	require.NoError(t, <-done)
	assert.Equal(t, 1, gw.creates)
	assert.False(t, b.Saving("u1"))
}

func TestUpdateResume(t *testing.T) {
	ctx := context.Background()
	b, gw, _, _ := setup(t)
	d := resume.NewEmpty(nil)
	d.PersonalInfo.FullName = "Jane"
	rec, err := gw.Create(ctx, "u1", d)
	require.NoError(t, err)

	d.PersonalInfo.FullName = ""
	_, n, err := b.UpdateResume(ctx, "u1", rec.ID, d)
	require.ErrorIs(t, err, resume.ErrFullNameRequired)
	assert.Equal(t, MsgFullNameRequired, n.Message)

	d.PersonalInfo.FullName = "Jane Doe"
	up, n, err := b.UpdateResume(ctx, "u1", rec.ID, d)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", up.PersonalInfo.FullName)
	assert.Equal(t, Notification{Level: LevelSuccess, Message: MsgUpdated, Redirect: ViewPath(rec.ID)}, n)

	_, n, err = b.UpdateResume(ctx, "intruder", rec.ID, d)
	require.ErrorIs(t, err, resume.ErrNotFound)
	assert.Equal(t, MsgNotFound, n.Message)
}

func TestLoadResumeNotFoundRedirects(t *testing.T) {
	b, _, _, _ := setup(t)
	_, n, err := b.LoadResume(context.Background(), "u1", "missing")
	require.ErrorIs(t, err, resume.ErrNotFound)
	assert.Equal(t, Notification{Level: LevelError, Message: MsgNotFound, Redirect: PathDashboard}, n)
}

func TestDashboardSearchAndFilter(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	gw := service.NewMemoryService()
	b := New(gw, &fakeExporter{}, WithClock(func() time.Time { return now }))

	for _, name := range []string{"Jane Doe", "John Smith", "Janet Roe"} {
		d := resume.NewEmpty(nil)
		d.PersonalInfo.FullName = name
		_, err := gw.Create(ctx, "u1", d)
		require.NoError(t, err)
	}

	all, n, err := b.Dashboard(ctx, "u1", DashboardQuery{Filter: FilterAll})
	require.NoError(t, err)
	assert.True(t, n.IsZero())
	assert.Len(t, all.Resumes, 3)

	jan, _, err := b.Dashboard(ctx, "u1", DashboardQuery{Search: "JAN"})
	require.NoError(t, err)
	assert.Len(t, jan.Resumes, 2)
	assert.Equal(t, 3, jan.Stats.Total)

	// records were created with the real clock, far after "now"
	recent, _, err := b.Dashboard(ctx, "u1", DashboardQuery{Filter: FilterRecent})
	require.NoError(t, err)
	assert.Len(t, recent.Resumes, 3)

	b.now = func() time.Time { return time.Now().Add(30 * 24 * time.Hour) }
	recent, _, err = b.Dashboard(ctx, "u1", DashboardQuery{Filter: FilterRecent})
	require.NoError(t, err)
	assert.Empty(t, recent.Resumes)

	oldest, _, err := b.Dashboard(ctx, "u1", DashboardQuery{Filter: FilterOldest})
	require.NoError(t, err)
	require.Len(t, oldest.Resumes, 3)
	assert.False(t, oldest.Resumes[0].CreatedAt.After(oldest.Resumes[2].CreatedAt))
}

func TestDashboardStatsCountFilledSections(t *testing.T) {
	ctx := context.Background()
	gw := service.NewMemoryService()
	b := New(gw, &fakeExporter{})

	full := resume.NewEmpty(nil)
	full.PersonalInfo.FullName = "Jane Doe"
	bare := full
	bare.Education = []resume.Education{}
	noJobs := full
	noJobs.Experience = []resume.Experience{}
	for _, d := range []resume.Document{full, bare, noJobs} {
		_, err := gw.Create(ctx, "u1", d)
		require.NoError(t, err)
	}

	view, _, err := b.Dashboard(ctx, "u1", DashboardQuery{Search: "nobody"})
	require.NoError(t, err)
	assert.Empty(t, view.Resumes)
	assert.Equal(t, Stats{Total: 3, WithEducation: 2, WithExperience: 2}, view.Stats)
}

func TestParseFilter(t *testing.T) {
	assert.Equal(t, FilterRecent, ParseFilter(" Recent "))
	assert.Equal(t, FilterOldest, ParseFilter("oldest"))
	assert.Equal(t, FilterAll, ParseFilter("bogus"))
}

func TestDeleteResume(t *testing.T) {
	ctx := context.Background()
	b, gw, _, _ := setup(t)
	d := resume.NewEmpty(nil)
	d.PersonalInfo.FullName = "Jane"
	rec, err := gw.Create(ctx, "u1", d)
	require.NoError(t, err)

	n, err := b.DeleteResume(ctx, "u2", rec.ID)
	require.Error(t, err)
	assert.Equal(t, MsgDeleteFailed, n.Message)

	n, err = b.DeleteResume(ctx, "u1", rec.ID)
	require.NoError(t, err)
	assert.Equal(t, success(MsgDeleted), n)
}

func TestDownload(t *testing.T) {
	ctx := context.Background()
	b, gw, ex, _ := setup(t)
	d := resume.NewEmpty(nil)
	d.PersonalInfo.FullName = "Jane Doe"
	rec, err := gw.Create(ctx, "u1", d)
	require.NoError(t, err)

	a, n, err := b.Download(ctx, "u1", rec.ID, "classic")
	require.NoError(t, err)
	assert.Equal(t, "Jane-Doe.pdf", a.FileName)
	assert.Equal(t, MsgDownloaded, n.Message)
	require.Len(t, ex.reqs, 1)
	assert.Equal(t, "classic", ex.reqs[0].Template)

	ex.err = export.ErrNoPreview
	_, n, err = b.Download(ctx, "u1", rec.ID, "")
	require.ErrorIs(t, err, export.ErrNoPreview)
	assert.Equal(t, MsgNoPreview, n.Message)

	ex.err = errors.New("chrome crashed")
	_, n, err = b.Download(ctx, "u1", rec.ID, "")
	require.Error(t, err)
	assert.Equal(t, MsgDownloadFailed, n.Message)
}

func TestClearDraftAndTemplates(t *testing.T) {
	ctx := context.Background()
	b, _, _, store := setup(t)
	require.NoError(t, draft.NewEditor(store).UpdatePersonalInfo(ctx, "fullName", "Jane"))
	n, err := b.ClearDraft(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, MsgDraftCleared, n.Message)
	assert.Empty(t, store.Current().PersonalInfo.FullName)

	tmpl, n, err := b.SelectTemplate("minimal")
	require.NoError(t, err)
	assert.Equal(t, "Minimal", tmpl.Name)
	assert.Equal(t, `Template "Minimal" selected`, n.Message)

	_, _, err = b.SelectTemplate("neon")
	require.ErrorIs(t, err, ErrUnknownTemplate)
}
