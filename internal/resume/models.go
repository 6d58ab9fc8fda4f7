package resume

// Document is the in-memory resume being edited. Sections are never nil once
// a document has gone through NewEmpty or Normalize.
type Document struct {
	Title        string       `json:"title,omitempty" bson:"title,omitempty"`
	PersonalInfo PersonalInfo `json:"personalInfo" bson:"personalInfo"`
	Education    []Education  `json:"education" bson:"education"`
	Experience   []Experience `json:"experience" bson:"experience"`
	Projects     []Project    `json:"projects" bson:"projects"`
	Skills       []string     `json:"skills" bson:"skills"`
	Languages    []Language   `json:"languages" bson:"languages"`
}

type PersonalInfo struct {
	FullName  string `json:"fullName" bson:"fullName"`
	Email     string `json:"email" bson:"email"`
	Phone     string `json:"phone" bson:"phone"`
	Address   string `json:"address" bson:"address"`
	LinkedIn  string `json:"linkedin" bson:"linkedin"`
	GitHub    string `json:"github" bson:"github"`
	Portfolio string `json:"portfolio" bson:"portfolio"`
	Summary   string `json:"summary" bson:"summary"`
}

type Education struct {
	ID           string `json:"id" bson:"id"`
	Institution  string `json:"institution" bson:"institution"`
	Degree       string `json:"degree" bson:"degree"`
	FieldOfStudy string `json:"fieldOfStudy" bson:"fieldOfStudy"`
	StartDate    string `json:"startDate" bson:"startDate"`
	EndDate      string `json:"endDate" bson:"endDate"`
	Description  string `json:"description" bson:"description"`
}

type Experience struct {
	ID          string `json:"id" bson:"id"`
	Company     string `json:"company" bson:"company"`
	Position    string `json:"position" bson:"position"`
	StartDate   string `json:"startDate" bson:"startDate"`
	EndDate     string `json:"endDate" bson:"endDate"`
	Description string `json:"description" bson:"description"`
}

type Project struct {
	ID           string `json:"id" bson:"id"`
	Name         string `json:"name" bson:"name"`
	Description  string `json:"description" bson:"description"`
	Technologies string `json:"technologies" bson:"technologies"`
	Link         string `json:"link" bson:"link"`
}

type Language struct {
	ID          string      `json:"id" bson:"id"`
	Name        string      `json:"name" bson:"name"`
	Proficiency Proficiency `json:"proficiency" bson:"proficiency"`
}

// Proficiency is the closed set of language levels. The empty value means the
// user has not picked one yet.
type Proficiency string

const (
	ProficiencyNative       Proficiency = "native"
	ProficiencyFluent       Proficiency = "fluent"
	ProficiencyProfessional Proficiency = "professional"
	ProficiencyLimited      Proficiency = "limited"
	ProficiencyBasic        Proficiency = "basic"
)

// Proficiencies lists the levels in display order.
var Proficiencies = []Proficiency{
	ProficiencyNative,
	ProficiencyFluent,
	ProficiencyProfessional,
	ProficiencyLimited,
	ProficiencyBasic,
}

// Valid reports whether p is unset or one of the known levels.
func (p Proficiency) Valid() bool {
	if p == "" {
		return true
	}
	for _, known := range Proficiencies {
		if p == known {
			return true
		}
	}
	return false
}

// Label returns the human readable level used by the preview.
func (p Proficiency) Label() string {
	switch p {
	case ProficiencyNative:
		return "Native"
	case ProficiencyFluent:
		return "Fluent"
	case ProficiencyProfessional:
		return "Professional Working"
	case ProficiencyLimited:
		return "Limited Working"
	case ProficiencyBasic:
		return "Basic"
	}
	return string(p)
}

// NewEmpty returns the seeded-empty document: one blank entry per array
// section and no skills.
func NewEmpty(newID IDFunc) Document {
	if newID == nil {
		newID = NewID
	}
	return Document{
		Education:  []Education{{ID: newID()}},
		Experience: []Experience{{ID: newID()}},
		Projects:   []Project{{ID: newID()}},
		Skills:     []string{},
		Languages:  []Language{{ID: newID()}},
	}
}

// Normalize replaces nil sections with empty ones.
func (d Document) Normalize() Document {
	if d.Education == nil {
		d.Education = []Education{}
	}
	if d.Experience == nil {
		d.Experience = []Experience{}
	}
	if d.Projects == nil {
		d.Projects = []Project{}
	}
	if d.Skills == nil {
		d.Skills = []string{}
	}
	if d.Languages == nil {
		d.Languages = []Language{}
	}
	return d
}
