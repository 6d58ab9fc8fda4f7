package resume

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateRequiresFullName(t *testing.T) {
	d := NewEmpty(seqIDs("v"))
	require.ErrorIs(t, Validate(d), ErrFullNameRequired)
	d = d.UpdatePersonalInfo("fullName", "Jane Doe")
	require.NoError(t, Validate(d))
}

func TestValidateJSONAcceptsEditorDocuments(t *testing.T) {
	ids := seqIDs("v")
	d := NewEmpty(ids)
	d, _ = d.AddEntry(SectionLanguages, ids())
	d, _ = d.UpdateEntry(SectionLanguages, d.Languages[1].ID, "proficiency", "basic")
	b, err := json.Marshal(d)
	require.NoError(t, err)

	got, err := ParseJSON(b)
	require.NoError(t, err)
	require.Equal(t, d, got)
}

func TestValidateJSONRejectsBadShapes(t *testing.T) {
	cases := map[string]string{
		"not json":         `{"personalInfo":`,
		"null section":     `{"personalInfo":{},"education":null,"experience":[],"projects":[],"skills":[],"languages":[]}`,
		"missing section":  `{"personalInfo":{},"education":[],"experience":[],"projects":[],"skills":[]}`,
		"entry without id": `{"personalInfo":{},"education":[{"institution":"MIT"}],"experience":[],"projects":[],"skills":[],"languages":[]}`,
		"bad proficiency":  `{"personalInfo":{},"education":[],"experience":[],"projects":[],"skills":[],"languages":[{"id":"l1","name":"French","proficiency":"expert"}]}`,
		"array root":       `[]`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			require.ErrorIs(t, ValidateJSON([]byte(raw)), ErrInvalidDocument)
		})
	}
}
