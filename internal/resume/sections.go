package resume

import (
	"errors"
	"fmt"
)

// Section names a part of the document. Values match the JSON field names.
type Section string

const (
	SectionPersonalInfo Section = "personalInfo"
	SectionEducation    Section = "education"
	SectionExperience   Section = "experience"
	SectionProjects     Section = "projects"
	SectionSkills       Section = "skills"
	SectionLanguages    Section = "languages"
)

// ErrUnknownSection is returned when an entry operation targets something that
// is not an array-of-entries section.
var ErrUnknownSection = errors.New("unknown entry section")

// ParseSection accepts the JSON name of an entry section.
func ParseSection(s string) (Section, error) {
	switch Section(s) {
	case SectionEducation, SectionExperience, SectionProjects, SectionLanguages:
		return Section(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSection, s)
}

// KeepsOneEntry reports whether the editor must leave at least one entry in
// the section.
func (s Section) KeepsOneEntry() bool {
	switch s {
	case SectionEducation, SectionExperience, SectionProjects:
		return true
	}
	return false
}

// entry is implemented by every array-section element type.
type entry[T any] interface {
	EntryID() string
	// WithField returns a copy with field set to value; ok is false for
	// unknown or immutable fields.
	WithField(field, value string) (T, bool)
}

func appendEntry[T any](s []T, e T) []T {
	out := make([]T, len(s), len(s)+1)
	copy(out, s)
	return append(out, e)
}

func updateEntry[T entry[T]](s []T, id, field, value string) []T {
	for i, e := range s {
		if e.EntryID() != id {
			continue
		}
		next, ok := e.WithField(field, value)
		if !ok {
			return s
		}
		out := make([]T, len(s))
		copy(out, s)
		out[i] = next
		return out
	}
	return s
}

func removeEntry[T entry[T]](s []T, id string) []T {
	out := make([]T, 0, len(s))
	for _, e := range s {
		if e.EntryID() != id {
			out = append(out, e)
		}
	}
	if len(out) == len(s) {
		return s
	}
	return out
}

func (e Education) EntryID() string { return e.ID }

func (e Education) WithField(field, value string) (Education, bool) {
	switch field {
	case "institution":
		e.Institution = value
	case "degree":
		e.Degree = value
	case "fieldOfStudy":
		e.FieldOfStudy = value
	case "startDate":
		e.StartDate = value
	case "endDate":
		e.EndDate = value
	case "description":
		e.Description = value
	default:
		return e, false
	}
	return e, true
}

func (e Experience) EntryID() string { return e.ID }

func (e Experience) WithField(field, value string) (Experience, bool) {
	switch field {
	case "company":
		e.Company = value
	case "position":
		e.Position = value
	case "startDate":
		e.StartDate = value
	case "endDate":
		e.EndDate = value
	case "description":
		e.Description = value
	default:
		return e, false
	}
	return e, true
}

func (p Project) EntryID() string { return p.ID }

func (p Project) WithField(field, value string) (Project, bool) {
	switch field {
	case "name":
		p.Name = value
	case "description":
		p.Description = value
	case "technologies":
		p.Technologies = value
	case "link":
		p.Link = value
	default:
		return p, false
	}
	return p, true
}

func (l Language) EntryID() string { return l.ID }

// WithField rejects proficiency values outside the closed set.
func (l Language) WithField(field, value string) (Language, bool) {
	switch field {
	case "name":
		l.Name = value
	case "proficiency":
		p := Proficiency(value)
		if !p.Valid() {
			return l, false
		}
		l.Proficiency = p
	default:
		return l, false
	}
	return l, true
}

// AddEntry appends a blank entry carrying id to section.
func (d Document) AddEntry(section Section, id string) (Document, error) {
	switch section {
	case SectionEducation:
		d.Education = appendEntry(d.Education, Education{ID: id})
	case SectionExperience:
		d.Experience = appendEntry(d.Experience, Experience{ID: id})
	case SectionProjects:
		d.Projects = appendEntry(d.Projects, Project{ID: id})
	case SectionLanguages:
		d.Languages = appendEntry(d.Languages, Language{ID: id})
	default:
		return d, fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}
	return d, nil
}

// UpdateEntry sets one field of the entry with the given id. Unknown ids and
// fields leave the document unchanged.
func (d Document) UpdateEntry(section Section, id, field, value string) (Document, error) {
	switch section {
	case SectionEducation:
		d.Education = updateEntry(d.Education, id, field, value)
	case SectionExperience:
		d.Experience = updateEntry(d.Experience, id, field, value)
	case SectionProjects:
		d.Projects = updateEntry(d.Projects, id, field, value)
	case SectionLanguages:
		d.Languages = updateEntry(d.Languages, id, field, value)
	default:
		return d, fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}
	return d, nil
}

// RemoveEntry drops the entry with the given id, if any.
func (d Document) RemoveEntry(section Section, id string) (Document, error) {
	switch section {
	case SectionEducation:
		d.Education = removeEntry(d.Education, id)
	case SectionExperience:
		d.Experience = removeEntry(d.Experience, id)
	case SectionProjects:
		d.Projects = removeEntry(d.Projects, id)
	case SectionLanguages:
		d.Languages = removeEntry(d.Languages, id)
	default:
		return d, fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}
	return d, nil
}

// EntryCount returns the number of entries in an entry section, or -1.
func (d Document) EntryCount(section Section) int {
	switch section {
	case SectionEducation:
		return len(d.Education)
	case SectionExperience:
		return len(d.Experience)
	case SectionProjects:
		return len(d.Projects)
	case SectionLanguages:
		return len(d.Languages)
	}
	return -1
}

// HasEntry reports whether section holds an entry with id.
func (d Document) HasEntry(section Section, id string) bool {
	switch section {
	case SectionEducation:
		return containsID(d.Education, id)
	case SectionExperience:
		return containsID(d.Experience, id)
	case SectionProjects:
		return containsID(d.Projects, id)
	case SectionLanguages:
		return containsID(d.Languages, id)
	}
	return false
}

func containsID[T entry[T]](s []T, id string) bool {
	for _, e := range s {
		if e.EntryID() == id {
			return true
		}
	}
	return false
}

// AddSkill appends skill unless it is empty or already present
// (case-sensitive).
func (d Document) AddSkill(skill string) Document {
	if skill == "" {
		return d
	}
	for _, s := range d.Skills {
		if s == skill {
			return d
		}
	}
	d.Skills = appendEntry(d.Skills, skill)
	return d
}

// RemoveSkill deletes skill by exact match.
func (d Document) RemoveSkill(skill string) Document {
	out := make([]string, 0, len(d.Skills))
	for _, s := range d.Skills {
		if s != skill {
			out = append(out, s)
		}
	}
	if len(out) == len(d.Skills) {
		return d
	}
	d.Skills = out
	return d
}

// UpdatePersonalInfo sets one personal info field; unknown fields are ignored.
func (d Document) UpdatePersonalInfo(field, value string) Document {
	p := d.PersonalInfo
	switch field {
	case "fullName":
		p.FullName = value
	case "email":
		p.Email = value
	case "phone":
		p.Phone = value
	case "address":
		p.Address = value
	case "linkedin":
		p.LinkedIn = value
	case "github":
		p.GitHub = value
	case "portfolio":
		p.Portfolio = value
	case "summary":
		p.Summary = value
	default:
		return d
	}
	d.PersonalInfo = p
	return d
}
