package preview

import (
	"strings"

	"github.com/resumeforge/resumeforge/internal/resume"
)

const (
	PlaceholderName    = "Your Name"
	PlaceholderSummary = "Professional summary will appear here..."
)

// Layout is the printable projection of a document.
type Layout struct {
	Header   Header
	Sections []Section
}

type Header struct {
	Name     string
	Summary  string
	Contacts []string
	Links    []Link
}

type Link struct {
	Label string
	URL   string
}

// Section is one rendered block. Entry sections fill Items, skills and
// languages fill Tags.
type Section struct {
	Kind  resume.Section
	Title string
	Items []Item
	Tags  []string
}

type Item struct {
	Heading    string
	Subheading string
	Dates      string
	Meta       string
	Body       string
	Link       *Link
}

// Has reports whether the layout contains a section of the given kind.
func (l Layout) Has(kind resume.Section) bool {
	for _, s := range l.Sections {
		if s.Kind == kind {
			return true
		}
	}
	return false
}

// Project maps d to a Layout without modifying it. An entry section is only
// rendered when its first entry has a non-empty primary field, regardless of
// later entries.
func Project(d resume.Document) Layout {
	l := Layout{Header: header(d.PersonalInfo)}

	if len(d.Education) > 0 && d.Education[0].Institution != "" {
		s := Section{Kind: resume.SectionEducation, Title: "Education"}
		for _, e := range d.Education {
			sub := e.Degree
			if e.FieldOfStudy != "" {
				sub = strings.TrimSpace(sub + " in " + e.FieldOfStudy)
			}
			s.Items = append(s.Items, Item{
				Heading:    e.Institution,
				Subheading: sub,
				Dates:      dates(e.StartDate, e.EndDate),
				Body:       e.Description,
			})
		}
		l.Sections = append(l.Sections, s)
	}

	if len(d.Experience) > 0 && d.Experience[0].Company != "" {
		s := Section{Kind: resume.SectionExperience, Title: "Experience"}
		for _, e := range d.Experience {
			s.Items = append(s.Items, Item{
				Heading:    e.Position,
				Subheading: e.Company,
				Dates:      dates(e.StartDate, e.EndDate),
				Body:       e.Description,
			})
		}
		l.Sections = append(l.Sections, s)
	}

	if len(d.Projects) > 0 && d.Projects[0].Name != "" {
		s := Section{Kind: resume.SectionProjects, Title: "Projects"}
		for _, p := range d.Projects {
			it := Item{Heading: p.Name, Meta: p.Technologies, Body: p.Description}
			if p.Link != "" {
				it.Link = &Link{Label: "View Project", URL: p.Link}
			}
			s.Items = append(s.Items, it)
		}
		l.Sections = append(l.Sections, s)
	}

	if len(d.Skills) > 0 {
		l.Sections = append(l.Sections, Section{
			Kind:  resume.SectionSkills,
			Title: "Skills",
			Tags:  append([]string(nil), d.Skills...),
		})
	}

	if len(d.Languages) > 0 && d.Languages[0].Name != "" {
		s := Section{Kind: resume.SectionLanguages, Title: "Languages"}
		for _, lang := range d.Languages {
			s.Tags = append(s.Tags, lang.Name+" ("+lang.Proficiency.Label()+")")
		}
		l.Sections = append(l.Sections, s)
	}
	return l
}

func header(p resume.PersonalInfo) Header {
	h := Header{Name: p.FullName, Summary: p.Summary}
	if h.Name == "" {
		h.Name = PlaceholderName
	}
	if h.Summary == "" {
		h.Summary = PlaceholderSummary
	}
	for _, c := range []string{p.Email, p.Phone, p.Address} {
		if c != "" {
			h.Contacts = append(h.Contacts, c)
		}
	}
	for _, l := range []Link{{"LinkedIn", p.LinkedIn}, {"GitHub", p.GitHub}, {"Portfolio", p.Portfolio}} {
		if l.URL != "" {
			h.Links = append(h.Links, l)
		}
	}
	return h
}

func dates(start, end string) string {
	return start + " - " + end
}
