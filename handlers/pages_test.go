package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumeforge/resumeforge/internal/builder"
	"github.com/resumeforge/resumeforge/internal/draft"
	"github.com/resumeforge/resumeforge/internal/export"
	"github.com/resumeforge/resumeforge/internal/models"
	"github.com/resumeforge/resumeforge/internal/resume"
	"github.com/resumeforge/resumeforge/internal/resume/service"
	"github.com/resumeforge/resumeforge/internal/tokens"
	"github.com/resumeforge/resumeforge/pkg/middleware"
)

type pdfExporter struct{}

func (pdfExporter) Export(_ context.Context, req export.Request) (*export.Artifact, error) {
	return &export.Artifact{FileName: export.FileName(req.Doc.PersonalInfo.FullName, time.Now()), PDF: []byte("%PDF")}, nil
}

type pageEnv struct {
	router  *gin.Engine
	gateway service.Service
	token   string
}

func newPageEnv(t *testing.T) *pageEnv {
	t.Helper()
	issuer, err := tokens.NewIssuer("page-test-secret-xxxxxxxxxxxxxxxxxxx", "", time.Minute)
	require.NoError(t, err)
	tok, _, err := issuer.Issue(&models.User{Sub: "owner-1", Email: "o@example.com"})
	require.NoError(t, err)

	gw := service.NewMemoryService()
	drafts := draft.NewRegistry(func(string) draft.Backend { return draft.NewMemoryBackend() }, nil)
	r := gin.New()
	NewPageHandler(builder.New(gw, pdfExporter{}), drafts, issuer).Register(r)
	return &pageEnv{router: r, gateway: gw, token: tok}
}

func (e *pageEnv) get(path string, signedIn bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if signedIn {
		req.AddCookie(&http.Cookie{Name: middleware.AccessCookie, Value: e.token})
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestProtectedPagesRedirectToLogin(t *testing.T) {
	e := newPageEnv(t)
	for _, p := range []string{"/", "/dashboard", "/settings", "/add-resume", "/edit-resume/x", "/view-resume/x"} {
		w := e.get(p, false)
		require.Equal(t, http.StatusFound, w.Code, p)
		assert.Equal(t, "/login", w.Header().Get("Location"), p)
	}
}

func TestGuestPagesRedirectSignedInUsers(t *testing.T) {
	e := newPageEnv(t)
	for _, p := range []string{"/login", "/signup"} {
		w := e.get(p, true)
		require.Equal(t, http.StatusFound, w.Code, p)
		assert.Equal(t, "/dashboard", w.Header().Get("Location"))

		assert.Equal(t, http.StatusOK, e.get(p, false).Code)
	}
	assert.Contains(t, e.get("/login?error=nope", false).Body.String(), "nope")
}

func TestUnknownRoutes(t *testing.T) {
	e := newPageEnv(t)
	w := e.get("/no/such/page", true)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	assert.Equal(t, http.StatusNotFound, e.get("/api/v1/nothing", true).Code)
}

func TestDashboardAndViewPages(t *testing.T) {
	e := newPageEnv(t)
	doc := resume.NewEmpty(nil).UpdatePersonalInfo("fullName", "Jane Doe")
	rec, err := e.gateway.Create(context.Background(), "owner-1", doc)
	require.NoError(t, err)
	other, err := e.gateway.Create(context.Background(), "owner-2", doc)
	require.NoError(t, err)

	w := e.get("/dashboard", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/view-resume/"+rec.ID)
	assert.NotContains(t, w.Body.String(), other.ID)
	assert.Contains(t, w.Body.String(), "<b>1</b> Total Resumes")
	assert.Contains(t, w.Body.String(), "<b>1</b> With Experience")

	w = e.get("/view-resume/"+rec.ID+"?template=classic", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Jane Doe")
	assert.Contains(t, w.Body.String(), "template-classic")

	w = e.get("/view-resume/"+rec.ID+"?action=download", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="Jane-Doe.pdf"`, w.Header().Get("Content-Disposition"))

	w = e.get("/edit-resume/"+rec.ID, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Edit Resume")
}

func TestMissingResumeRedirectsWithNotice(t *testing.T) {
	e := newPageEnv(t)
	for _, p := range []string{"/view-resume/missing", "/edit-resume/missing", "/view-resume/missing?action=download"} {
		w := e.get(p, true)
		require.Equal(t, http.StatusFound, w.Code, p)
		assert.Equal(t, "/dashboard?error=Resume+not+found", w.Header().Get("Location"), p)
	}
}

func TestAddResumeShowsDraftPreview(t *testing.T) {
	e := newPageEnv(t)
	w := e.get("/add-resume", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Your Name")
	assert.Contains(t, w.Body.String(), "resume-preview")
}
