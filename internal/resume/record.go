package resume

import (
	"errors"
	"time"
)

// DefaultTitle is stored when the document has no title of its own.
const DefaultTitle = "Untitled Resume"

var ErrNotFound = errors.New("resume not found")

// Record is the persisted shape of a document. Top-level names are snake_case
// on the wire; entry fields keep their camelCase names.
type Record struct {
	ID           string       `json:"id" bson:"_id"`
	UserID       string       `json:"user_id" bson:"user_id"`
	Title        string       `json:"title" bson:"title"`
	PersonalInfo PersonalInfo `json:"personal_info" bson:"personal_info"`
	Education    []Education  `json:"education" bson:"education"`
	Skills       []string     `json:"skills" bson:"skills"`
	Experience   []Experience `json:"experience" bson:"experience"`
	Projects     []Project    `json:"projects" bson:"projects"`
	Languages    []Language   `json:"languages" bson:"languages"`
	CreatedAt    time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" bson:"updated_at"`
}

// ToRecord wraps d for persistence. Identity and timestamps are left for the
// repository to assign.
func ToRecord(ownerID string, d Document) *Record {
	d = d.Normalize()
	title := d.Title
	if title == "" {
		title = DefaultTitle
	}
	return &Record{
		UserID:       ownerID,
		Title:        title,
		PersonalInfo: d.PersonalInfo,
		Education:    d.Education,
		Skills:       d.Skills,
		Experience:   d.Experience,
		Projects:     d.Projects,
		Languages:    d.Languages,
	}
}

// Document unwraps the editable part of the record.
func (r *Record) Document() Document {
	return Document{
		Title:        r.Title,
		PersonalInfo: r.PersonalInfo,
		Education:    r.Education,
		Experience:   r.Experience,
		Projects:     r.Projects,
		Skills:       r.Skills,
		Languages:    r.Languages,
	}.Normalize()
}

// Apply replaces the editable part of r with d, keeping identity, owner and
// timestamps.
func (r *Record) Apply(d Document) {
	next := ToRecord(r.UserID, d)
	next.ID = r.ID
	next.CreatedAt = r.CreatedAt
	next.UpdatedAt = r.UpdatedAt
	*r = *next
}
