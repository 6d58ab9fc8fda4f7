package preview

import (
	"bytes"
	"fmt"
	"html/template"
	"sync"

	"github.com/resumeforge/resumeforge/internal/resume"
)

// RootClass marks the node the PDF exporter captures.
const RootClass = "resume-preview"

var page = template.Must(template.New("preview").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Layout.Header.Name}}</title>
<style>
@page { size: A4; margin: 0; }
body { margin: 0; font-family: "Helvetica Neue", Arial, sans-serif; color: #1f2937; }
.resume-preview { width: 210mm; min-height: 297mm; background: #fff; }
.resume-preview header { background: {{.Template.HeaderCSS}}; color: #fff; padding: 2rem; }
.resume-preview h1 { font-size: 1.9rem; margin: 0 0 .5rem; }
.resume-preview .summary { color: #d1d5db; margin: 0 0 1rem; }
.resume-preview .contacts span, .resume-preview .links a { margin-right: 1rem; font-size: .85rem; }
.resume-preview .links a { color: #60a5fa; }
.resume-preview main { padding: 2rem; }
.resume-preview h2 { font-size: 1.2rem; border-bottom: 2px solid #e5e7eb; padding-bottom: .4rem; }
.resume-preview .item { margin-bottom: 1rem; }
.resume-preview .row { display: flex; justify-content: space-between; }
.resume-preview .dates, .resume-preview .meta { color: #6b7280; font-size: .85rem; }
.resume-preview .body { white-space: pre-line; font-size: .9rem; }
.resume-preview .tag { display: inline-block; padding: .2rem .7rem; margin: 0 .4rem .4rem 0; background: #f3f4f6; border-radius: 999px; font-size: .85rem; }
</style>
</head>
<body>
<div class="resume-preview template-{{.Template.ID}}">
{{- with .Layout}}
<header>
<h1>{{.Header.Name}}</h1>
<p class="summary">{{.Header.Summary}}</p>
{{- if .Header.Contacts}}
<div class="contacts">{{range .Header.Contacts}}<span>{{.}}</span>{{end}}</div>
{{- end}}
{{- if .Header.Links}}
<div class="links">{{range .Header.Links}}<a href="{{.URL}}">{{.Label}}</a>{{end}}</div>
{{- end}}
</header>
<main>
{{- range .Sections}}
<section class="{{.Kind}}">
<h2>{{.Title}}</h2>
{{- range .Items}}
<div class="item">
<div class="row"><div><h3>{{.Heading}}</h3>{{if .Subheading}}<p>{{.Subheading}}</p>{{end}}</div>{{if .Dates}}<span class="dates">{{.Dates}}</span>{{end}}{{with .Link}}<a href="{{.URL}}">{{.Label}}</a>{{end}}</div>
{{- if .Meta}}<p class="meta">{{.Meta}}</p>{{end}}
{{- if .Body}}<p class="body">{{.Body}}</p>{{end}}
</div>
{{- end}}
{{- if .Tags}}<div class="tags">{{range .Tags}}<span class="tag">{{.}}</span>{{end}}</div>{{end}}
</section>
{{- end}}
</main>
{{- end}}
</div>
</body>
</html>
`))

type pageData struct {
	Layout   Layout
	Template struct {
		ID        string
		HeaderCSS template.CSS
	}
}

// RenderHTML renders the layout as a standalone printable page using the
// named template, falling back to DefaultTemplate. All user text is escaped.
func RenderHTML(l Layout, templateID string) ([]byte, error) {
	t := templateOrDefault(templateID)
	data := pageData{Layout: l}
	data.Template.ID = t.ID
	data.Template.HeaderCSS = t.header

	var buf bytes.Buffer
	if err := page.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render preview: %w", err)
	}
	return buf.Bytes(), nil
}

// Render projects d and renders it with the default template.
func Render(d resume.Document) ([]byte, error) {
	return RenderHTML(Project(d), DefaultTemplate)
}

// Cache keeps the projection of the latest draft snapshot. Wire it with
// store.Watch(cache.Update); the zero value is ready to use.
type Cache struct {
	mu     sync.RWMutex
	layout Layout
}

func (c *Cache) Update(d resume.Document) {
	l := Project(d)
	c.mu.Lock()
	c.layout = l
	c.mu.Unlock()
}

func (c *Cache) Layout() Layout {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.layout
}
