package preview

import "html/template"

// Template is a header style the user can pick for the preview.
type Template struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	header      template.CSS
}

const DefaultTemplate = "modern"

var Templates = []Template{
	{ID: "modern", Name: "Modern", Description: "Clean and professional with a gradient header", header: "linear-gradient(90deg, #3b82f6, #1d4ed8)"},
	{ID: "classic", Name: "Classic", Description: "Traditional layout with elegant typography", header: "linear-gradient(90deg, #374151, #111827)"},
	{ID: "creative", Name: "Creative", Description: "Stand out with a colorful accent header", header: "linear-gradient(90deg, #a855f7, #db2777)"},
	{ID: "minimal", Name: "Minimal", Description: "Simple and clean without decorative elements", header: "linear-gradient(90deg, #6b7280, #374151)"},
	{ID: "professional", Name: "Professional", Description: "Corporate style with formal appearance", header: "linear-gradient(90deg, #475569, #1e293b)"},
}

// LookupTemplate finds a template by id.
func LookupTemplate(id string) (Template, bool) {
	for _, t := range Templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

func templateOrDefault(id string) Template {
	if t, ok := LookupTemplate(id); ok {
		return t
	}
	t, _ := LookupTemplate(DefaultTemplate)
	return t
}
