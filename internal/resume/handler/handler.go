package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/resumeforge/resumeforge/internal/builder"
	"github.com/resumeforge/resumeforge/internal/draft"
	"github.com/resumeforge/resumeforge/internal/export"
	"github.com/resumeforge/resumeforge/internal/faq"
	"github.com/resumeforge/resumeforge/internal/preview"
	"github.com/resumeforge/resumeforge/internal/resume"
	"github.com/resumeforge/resumeforge/pkg/logger"
	"github.com/resumeforge/resumeforge/pkg/middleware"
)

var log = logger.Named("api")

// ExportHistory lists past exports of a resume.
type ExportHistory interface {
	History(ctx context.Context, resumeID string) ([]export.Record, error)
}

// Handler serves the resume, draft, chat and template API. It expects the
// auth middleware to have run.
type Handler struct {
	builder   *builder.Builder
	drafts    *draft.Registry
	responder *faq.Responder
	chatDelay time.Duration
	history   ExportHistory

	mu       sync.Mutex
	previews map[string]*draftPreview
}

type draftPreview struct {
	store  *draft.Store
	cache  *preview.Cache
	cancel func()
}

type Option func(*Handler)

// WithChat enables POST /chat; replies are sent after delay.
func WithChat(r *faq.Responder, delay time.Duration) Option {
	return func(h *Handler) {
		h.responder = r
		h.chatDelay = delay
	}
}

func WithExportHistory(eh ExportHistory) Option {
	return func(h *Handler) { h.history = eh }
}

func New(b *builder.Builder, drafts *draft.Registry, opts ...Option) *Handler {
	h := &Handler{builder: b, drafts: drafts, previews: map[string]*draftPreview{}}
	for _, o := range opts {
		o(h)
	}
	drafts.OnEvict(h.dropPreview)
	return h
}

// Register mounts the routes on rg, normally /api/v1.
func (h *Handler) Register(rg *gin.RouterGroup) {
	r := rg.Group("/resumes")
	r.GET("", h.list)
	r.GET("/:id", h.get)
	r.PUT("/:id", h.update)
	r.DELETE("/:id", h.delete)
	r.GET("/:id/preview", h.previewRecord)
	r.GET("/:id/download", h.download)
	r.GET("/:id/exports", h.exports)

	d := rg.Group("/draft")
	d.GET("", h.getDraft)
	d.PUT("", h.replaceDraft)
	d.DELETE("", h.clearDraft)
	d.POST("/save", h.saveDraft)
	d.GET("/preview", h.previewDraft)
	d.PATCH("/personal-info", h.updatePersonalInfo)
	d.PUT("/title", h.setTitle)
	d.POST("/skills", h.addSkill)
	d.DELETE("/skills/:skill", h.removeSkill)
	d.POST("/sections/:section", h.addEntry)
	d.PATCH("/sections/:section/:entryID", h.updateEntry)
	d.DELETE("/sections/:section/:entryID", h.removeEntry)

	rg.GET("/templates", h.templates)
	rg.GET("/suggestions", h.suggestions)
	rg.POST("/templates/select", h.selectTemplate)

	if h.responder != nil {
		rg.GET("/chat", h.greeting)
		rg.POST("/chat", h.chat)
	}
}

// statusFor maps workflow errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, resume.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, builder.ErrInFlight), errors.Is(err, draft.ErrLastEntry):
		return http.StatusConflict
	case errors.Is(err, resume.ErrFullNameRequired),
		errors.Is(err, resume.ErrInvalidDocument),
		errors.Is(err, resume.ErrUnknownSection),
		errors.Is(err, builder.ErrUnknownTemplate):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func fail(c *gin.Context, n builder.Notification, err error) {
	status := statusFor(err)
	msg := n.Message
	if msg == "" {
		msg = err.Error()
	}
	if status == http.StatusInternalServerError {
		log.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	body := gin.H{"error": msg}
	if !n.IsZero() {
		body["notification"] = n
	}
	c.AbortWithStatusJSON(status, body)
}

func (h *Handler) store(c *gin.Context) *draft.Store {
	return h.drafts.For(c.Request.Context(), middleware.Subject(c))
}

// previewCache returns the owner's layout cache, watching the draft on first
// use or after the store was reopened.
func (h *Handler) previewCache(owner string, s *draft.Store) *preview.Cache {
	h.mu.Lock()
	defer h.mu.Unlock()
	if p, ok := h.previews[owner]; ok && p.store == s {
		return p.cache
	} else if ok {
		p.cancel()
	}
	pc := new(preview.Cache)
	h.previews[owner] = &draftPreview{store: s, cache: pc, cancel: s.Watch(pc.Update)}
	return pc
}

func (h *Handler) dropPreview(owner string, s *draft.Store) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if p, ok := h.previews[owner]; ok && p.store == s {
		p.cancel()
		delete(h.previews, owner)
	}
}

// removable tells the editor which remove buttons to enable.
func removable(s *draft.Store) map[resume.Section]bool {
	ed := draft.NewEditor(s)
	out := map[resume.Section]bool{}
	for _, sec := range []resume.Section{resume.SectionEducation, resume.SectionExperience, resume.SectionProjects, resume.SectionLanguages} {
		out[sec] = ed.CanRemove(sec)
	}
	return out
}

func (h *Handler) list(c *gin.Context) {
	q := builder.DashboardQuery{
		Search: c.Query("search"),
		Filter: builder.ParseFilter(c.Query("filter")),
	}
	view, n, err := h.builder.Dashboard(c.Request.Context(), middleware.Subject(c), q)
	if err != nil {
		fail(c, n, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resumes": view.Resumes, "count": len(view.Resumes), "stats": view.Stats})
}

func (h *Handler) get(c *gin.Context) {
	rec, n, err := h.builder.LoadResume(c.Request.Context(), middleware.Subject(c), c.Param("id"))
	if err != nil {
		fail(c, n, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) update(c *gin.Context) {
	doc, err := bindDocument(c)
	if err != nil {
		fail(c, builder.Notification{}, err)
		return
	}
	rec, n, err := h.builder.UpdateResume(c.Request.Context(), middleware.Subject(c), c.Param("id"), doc)
	if err != nil {
		fail(c, n, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resume": rec, "notification": n})
}

func (h *Handler) delete(c *gin.Context) {
	n, err := h.builder.DeleteResume(c.Request.Context(), middleware.Subject(c), c.Param("id"))
	if err != nil {
		fail(c, n, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notification": n})
}

func (h *Handler) previewRecord(c *gin.Context) {
	rec, n, err := h.builder.LoadResume(c.Request.Context(), middleware.Subject(c), c.Param("id"))
	if err != nil {
		fail(c, n, err)
		return
	}
	renderPreview(c, rec.Document())
}

// download streams the PDF. With ?redirect=1 and an object store it
// redirects to the presigned URL instead.
func (h *Handler) download(c *gin.Context) {
	a, n, err := h.builder.Download(c.Request.Context(), middleware.Subject(c), c.Param("id"), c.Query("template"))
	if err != nil {
		fail(c, n, err)
		return
	}
	if redirect, _ := strconv.ParseBool(c.Query("redirect")); redirect && a.URL != "" {
		c.Redirect(http.StatusFound, a.URL)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+a.FileName+`"`)
	c.Header("X-Export-Pages", strconv.Itoa(a.Pages))
	c.Data(http.StatusOK, "application/pdf", a.PDF)
}

func (h *Handler) exports(c *gin.Context) {
	if _, n, err := h.builder.LoadResume(c.Request.Context(), middleware.Subject(c), c.Param("id")); err != nil {
		fail(c, n, err)
		return
	}
	var recs []export.Record
	if h.history != nil {
		var err error
		if recs, err = h.history.History(c.Request.Context(), c.Param("id")); err != nil {
			fail(c, builder.Notification{}, err)
			return
		}
	}
	if recs == nil {
		recs = []export.Record{}
	}
	c.JSON(http.StatusOK, gin.H{"exports": recs})
}

func (h *Handler) getDraft(c *gin.Context) {
	s := h.store(c)
	c.JSON(http.StatusOK, gin.H{
		"draft":     s.Current(),
		"removable": removable(s),
		"saving":    h.builder.Saving(middleware.Subject(c)),
	})
}

// replaceDraft takes a complete document. A failed durable write still
// advances the in-memory draft, so it is reported as a warning.
func (h *Handler) replaceDraft(c *gin.Context) {
	doc, err := bindDocument(c)
	if err != nil {
		fail(c, builder.Notification{}, err)
		return
	}
	s := h.store(c)
	h.respondDraft(c, s, s.Replace(c.Request.Context(), doc))
}

func (h *Handler) clearDraft(c *gin.Context) {
	n, err := h.builder.ClearDraft(c.Request.Context(), h.store(c))
	if err != nil {
		fail(c, n, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": h.store(c).Current(), "notification": n})
}

func (h *Handler) saveDraft(c *gin.Context) {
	rec, n, err := h.builder.CreateResume(c.Request.Context(), middleware.Subject(c), h.store(c))
	if err != nil {
		fail(c, n, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"resume": rec, "notification": n})
}

func (h *Handler) previewDraft(c *gin.Context) {
	layout := h.previewCache(middleware.Subject(c), h.store(c)).Layout()
	html, err := preview.RenderHTML(layout, c.Query("template"))
	if err != nil {
		fail(c, builder.Notification{}, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}

type fieldUpdate struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

func (h *Handler) updatePersonalInfo(c *gin.Context) {
	var req fieldUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s := h.store(c)
	h.respondDraft(c, s, draft.NewEditor(s).UpdatePersonalInfo(c.Request.Context(), req.Field, req.Value))
}

func (h *Handler) setTitle(c *gin.Context) {
	var req struct {
		Title string `json:"title"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s := h.store(c)
	h.respondDraft(c, s, draft.NewEditor(s).SetTitle(c.Request.Context(), req.Title))
}

func (h *Handler) addSkill(c *gin.Context) {
	var req struct {
		Skill string `json:"skill"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s := h.store(c)
	h.respondDraft(c, s, draft.NewEditor(s).AddSkill(c.Request.Context(), req.Skill))
}

func (h *Handler) removeSkill(c *gin.Context) {
	s := h.store(c)
	h.respondDraft(c, s, draft.NewEditor(s).RemoveSkill(c.Request.Context(), c.Param("skill")))
}

func (h *Handler) addEntry(c *gin.Context) {
	section, err := resume.ParseSection(c.Param("section"))
	if err != nil {
		fail(c, builder.Notification{}, err)
		return
	}
	s := h.store(c)
	h.respondDraft(c, s, draft.NewEditor(s).Add(c.Request.Context(), section))
}

func (h *Handler) updateEntry(c *gin.Context) {
	section, err := resume.ParseSection(c.Param("section"))
	if err != nil {
		fail(c, builder.Notification{}, err)
		return
	}
	var req fieldUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s := h.store(c)
	h.respondDraft(c, s, draft.NewEditor(s).Update(c.Request.Context(), section, c.Param("entryID"), req.Field, req.Value))
}

func (h *Handler) removeEntry(c *gin.Context) {
	section, err := resume.ParseSection(c.Param("section"))
	if err != nil {
		fail(c, builder.Notification{}, err)
		return
	}
	s := h.store(c)
	h.respondDraft(c, s, draft.NewEditor(s).Remove(c.Request.Context(), section, c.Param("entryID")))
}

// respondDraft replies with the current snapshot. Section errors fail the
// request; durable-write errors only add a warning because the draft has
// already advanced.
func (h *Handler) respondDraft(c *gin.Context, s *draft.Store, err error) {
	if err != nil && (errors.Is(err, draft.ErrLastEntry) || errors.Is(err, resume.ErrUnknownSection)) {
		fail(c, builder.Notification{}, err)
		return
	}
	body := gin.H{"draft": s.Current(), "removable": removable(s)}
	if err != nil {
		log.Warnf("draft of %s not persisted: %v", middleware.Subject(c), err)
		body["warning"] = "draft could not be saved locally"
	}
	c.JSON(http.StatusOK, body)
}

// suggestions serves the quick-add catalogs. Proficiency levels come with
// their display labels.
func (h *Handler) suggestions(c *gin.Context) {
	levels := make([]gin.H, 0, len(resume.Proficiencies))
	for _, p := range resume.Proficiencies {
		levels = append(levels, gin.H{"value": p, "label": p.Label()})
	}
	c.JSON(http.StatusOK, gin.H{
		"skillCategories":   resume.SkillCategories,
		"languages":         resume.CommonLanguages,
		"proficiencyLevels": levels,
	})
}

func (h *Handler) templates(c *gin.Context) {
	out := make([]gin.H, 0, len(preview.Templates))
	for _, t := range preview.Templates {
		out = append(out, gin.H{"id": t.ID, "name": t.Name, "description": t.Description})
	}
	c.JSON(http.StatusOK, gin.H{"templates": out, "default": preview.DefaultTemplate})
}

func (h *Handler) selectTemplate(c *gin.Context) {
	var req struct {
		ID string `json:"id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, n, err := h.builder.SelectTemplate(req.ID)
	if err != nil {
		fail(c, n, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"template": gin.H{"id": t.ID, "name": t.Name}, "notification": n})
}

func (h *Handler) greeting(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"reply": faq.Greeting()})
}

// chat answers one message after the configured delay. Blank messages are
// ignored with 204.
func (h *Handler) chat(c *gin.Context) {
	var req struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	text := strings.TrimSpace(req.Message)
	if text == "" {
		c.Status(http.StatusNoContent)
		return
	}
	if h.chatDelay > 0 {
		t := time.NewTimer(h.chatDelay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-c.Request.Context().Done():
			return
		}
	}
	reply, category := h.responder.Respond(text)
	c.JSON(http.StatusOK, gin.H{"reply": reply, "category": category})
}

func bindDocument(c *gin.Context) (resume.Document, error) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return resume.Document{}, err
	}
	return resume.ParseJSON(raw)
}

func renderPreview(c *gin.Context, d resume.Document) {
	html, err := preview.RenderHTML(preview.Project(d), c.Query("template"))
	if err != nil {
		fail(c, builder.Notification{}, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}
