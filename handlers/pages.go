package handlers

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/resumeforge/resumeforge/internal/builder"
	"github.com/resumeforge/resumeforge/internal/draft"
	"github.com/resumeforge/resumeforge/internal/preview"
	"github.com/resumeforge/resumeforge/internal/resume"
	"github.com/resumeforge/resumeforge/pkg/middleware"
)

// PageHandler serves the browser routes. Protected pages redirect to
// /login without a valid token; login and signup redirect signed-in users
// to /dashboard.
type PageHandler struct {
	builder *builder.Builder
	drafts  *draft.Registry
	auth    []middleware.AuthOption
	ver     middleware.Verifier
}

func NewPageHandler(b *builder.Builder, drafts *draft.Registry, ver middleware.Verifier, opts ...middleware.AuthOption) *PageHandler {
	return &PageHandler{builder: b, drafts: drafts, ver: ver, auth: opts}
}

func (h *PageHandler) Register(r *gin.Engine) {
	guest := middleware.RedirectIfAuthenticated(h.ver, builder.PathDashboard, h.auth...)
	r.GET(builder.PathLogin, guest, h.login)
	r.GET("/signup", guest, h.signup)

	p := r.Group("", middleware.RequireAuth(h.ver, builder.PathLogin, h.auth...))
	p.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, builder.PathDashboard) })
	p.GET(builder.PathDashboard, h.dashboard)
	p.GET("/settings", h.dashboard)
	p.GET("/add-resume", h.addResume)
	p.GET("/edit-resume/:id", h.editResume)
	p.GET("/view-resume/:id", h.viewResume)

	r.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.Redirect(http.StatusFound, builder.PathDashboard)
	})
}

// redirect follows a notification's redirect, carrying its message.
func redirect(c *gin.Context, n builder.Notification) {
	dest := n.Redirect
	if dest == "" {
		dest = builder.PathDashboard
	}
	if n.Message != "" {
		dest += "?" + string(n.Level) + "=" + url.QueryEscape(n.Message)
	}
	c.Redirect(http.StatusFound, dest)
}

func (h *PageHandler) login(c *gin.Context) {
	renderPage(c, "login", gin.H{"Error": c.Query("error")})
}

func (h *PageHandler) signup(c *gin.Context) {
	renderPage(c, "signup", nil)
}

func (h *PageHandler) dashboard(c *gin.Context) {
	q := builder.DashboardQuery{Search: c.Query("search"), Filter: builder.ParseFilter(c.Query("filter"))}
	view, n, err := h.builder.Dashboard(c.Request.Context(), middleware.Subject(c), q)
	data := gin.H{
		"Records": view.Resumes,
		"Stats":   view.Stats,
		"Search":  q.Search,
		"Filter":  string(q.Filter),
		"Notice":  c.Query("success"),
		"Error":   c.Query("error"),
	}
	if err != nil {
		data["Error"] = n.Message
	}
	renderPage(c, "dashboard", data)
}

func (h *PageHandler) addResume(c *gin.Context) {
	s := h.drafts.For(c.Request.Context(), middleware.Subject(c))
	h.editorPage(c, "New Resume", s.Current())
}

func (h *PageHandler) editResume(c *gin.Context) {
	rec, n, err := h.builder.LoadResume(c.Request.Context(), middleware.Subject(c), c.Param("id"))
	if err != nil {
		redirect(c, n)
		return
	}
	h.editorPage(c, "Edit Resume", rec.Document())
}

// viewResume shows the preview; ?action=download exports it instead.
func (h *PageHandler) viewResume(c *gin.Context) {
	ctx := c.Request.Context()
	owner, id := middleware.Subject(c), c.Param("id")
	if c.Query("action") == "download" {
		a, n, err := h.builder.Download(ctx, owner, id, c.Query("template"))
		if err != nil {
			if errors.Is(err, builder.ErrInFlight) {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			if n.Redirect == "" {
				n.Redirect = builder.ViewPath(id)
			}
			redirect(c, n)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+a.FileName+`"`)
		c.Data(http.StatusOK, "application/pdf", a.PDF)
		return
	}
	rec, n, err := h.builder.LoadResume(ctx, owner, id)
	if err != nil {
		redirect(c, n)
		return
	}
	html, err := preview.RenderHTML(preview.Project(rec.Document()), c.Query("template"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}

func (h *PageHandler) editorPage(c *gin.Context, title string, d resume.Document) {
	html, err := preview.RenderHTML(preview.Project(d), c.Query("template"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	renderPage(c, "editor", gin.H{
		"Title":     title,
		"Preview":   template.HTML(string(html)),
		"Templates": preview.Templates,
	})
}

func renderPage(c *gin.Context, name string, data interface{}) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		log.Errorf("render page %s: %v", name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "render failed"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

var pages = template.Must(template.New("pages").Parse(`
{{define "head"}}<!doctype html><html><head><meta charset="utf-8"><title>resumeforge</title></head><body>{{end}}
{{define "foot"}}</body></html>{{end}}

{{define "login"}}{{template "head"}}
<h1>Sign in</h1>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="post" action="/auth/login"><input name="email" type="email"><input name="password" type="password"><button>Sign in</button></form>
<a href="/auth/oidc">Continue with SSO</a> <a href="/signup">Create an account</a>
{{template "foot"}}{{end}}

{{define "signup"}}{{template "head"}}
<h1>Create account</h1>
<form method="post" action="/auth/signup"><input name="fullName"><input name="email" type="email"><input name="password" type="password"><button>Sign up</button></form>
<a href="/login">Sign in</a>
{{template "foot"}}{{end}}

{{define "dashboard"}}{{template "head"}}
<h1>My Resumes</h1>
{{if .Notice}}<p class="notice">{{.Notice}}</p>{{end}}
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="get"><input name="search" value="{{.Search}}"><select name="filter"><option value="all">All</option><option value="recent">Recent</option><option value="oldest">Oldest</option></select></form>
<a href="/add-resume">Create New Resume</a>
<div class="stats">{{with .Stats}}<p><b>{{.Total}}</b> Total Resumes</p><p><b>{{.WithEducation}}</b> With Education</p><p><b>{{.WithExperience}}</b> With Experience</p>{{end}}</div>
<ul class="resumes">{{range .Records}}
<li><a href="/view-resume/{{.ID}}">{{.PersonalInfo.FullName}}</a> {{.Title}} <a href="/edit-resume/{{.ID}}">Edit</a> <a href="/view-resume/{{.ID}}?action=download">Download</a></li>
{{else}}<li>No resumes yet</li>{{end}}</ul>
{{template "foot"}}{{end}}

{{define "editor"}}{{template "head"}}
<h1>{{.Title}}</h1>
<nav>{{range .Templates}}<a href="?template={{.ID}}">{{.Name}}</a> {{end}}</nav>
{{.Preview}}
{{template "foot"}}{{end}}
`))
