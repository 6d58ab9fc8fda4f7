package resume

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var (
	ErrFullNameRequired = errors.New("full name is required")
	ErrInvalidDocument  = errors.New("invalid resume document")
)

// Validate checks what must hold before a document may be persisted.
func Validate(d Document) error {
	if d.PersonalInfo.FullName == "" {
		return ErrFullNameRequired
	}
	for _, l := range d.Languages {
		if !l.Proficiency.Valid() {
			return fmt.Errorf("%w: proficiency %q", ErrInvalidDocument, l.Proficiency)
		}
	}
	return nil
}

// documentSchema describes the camelCase document. Sections must be arrays,
// never null, and every entry needs a string id.
const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["personalInfo", "education", "experience", "projects", "skills", "languages"],
  "definitions": {
    "text": {"type": "string"},
    "entry": {"type": "object", "required": ["id"], "properties": {"id": {"type": "string", "minLength": 1}}}
  },
  "properties": {
    "title": {"type": "string"},
    "personalInfo": {
      "type": "object",
      "properties": {
        "fullName": {"$ref": "#/definitions/text"},
        "email": {"$ref": "#/definitions/text"},
        "phone": {"$ref": "#/definitions/text"},
        "address": {"$ref": "#/definitions/text"},
        "linkedin": {"$ref": "#/definitions/text"},
        "github": {"$ref": "#/definitions/text"},
        "portfolio": {"$ref": "#/definitions/text"},
        "summary": {"$ref": "#/definitions/text"}
      }
    },
    "education": {"type": "array", "items": {"$ref": "#/definitions/entry"}},
    "experience": {"type": "array", "items": {"$ref": "#/definitions/entry"}},
    "projects": {"type": "array", "items": {"$ref": "#/definitions/entry"}},
    "skills": {"type": "array", "items": {"type": "string"}},
    "languages": {
      "type": "array",
      "items": {
        "allOf": [
          {"$ref": "#/definitions/entry"},
          {"properties": {"proficiency": {"enum": ["", "native", "fluent", "professional", "limited", "basic"]}}}
        ]
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(documentSchema)

// ValidateJSON checks raw against the document schema.
func ValidateJSON(raw []byte) error {
	res, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(msgs, "; "))
}

// ParseJSON validates raw and decodes it into a normalized document.
func ParseJSON(raw []byte) (Document, error) {
	if err := ValidateJSON(raw); err != nil {
		return Document{}, err
	}
	var d Document
	if err := json.Unmarshal(raw, &d); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return d.Normalize(), nil
}
