package resume

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToRecordRenamesTopLevelFields(t *testing.T) {
	d := NewEmpty(seqIDs("r"))
	d = d.UpdatePersonalInfo("fullName", "Jane Doe")
	d, _ = d.UpdateEntry(SectionEducation, d.Education[0].ID, "institution", "MIT")

	rec := ToRecord("user-1", d)
	b, err := json.Marshal(rec)
	require.NoError(t, err)

	var wire map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &wire))
	assert.Equal(t, "user-1", wire["user_id"])
	assert.Equal(t, DefaultTitle, wire["title"])
	pi, ok := wire["personal_info"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Jane Doe", pi["fullName"])
	edu := wire["education"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "MIT", edu["institution"])
	assert.Contains(t, edu, "fieldOfStudy")
	assert.NotContains(t, wire, "personalInfo")
}

func TestRecordDocumentRoundTrip(t *testing.T) {
	d := NewEmpty(seqIDs("r"))
	d.Title = "Backend roles"
	d = d.AddSkill("Go")
	rec := ToRecord("u", d)
	require.Equal(t, d, rec.Document())
}

func TestRecordApplyKeepsIdentity(t *testing.T) {
	rec := ToRecord("u", NewEmpty(seqIDs("a")))
	rec.ID = "rec-1"
	next := NewEmpty(seqIDs("b")).UpdatePersonalInfo("fullName", "New")
	rec.Apply(next)
	require.Equal(t, "rec-1", rec.ID)
	require.Equal(t, "u", rec.UserID)
	require.Equal(t, "New", rec.PersonalInfo.FullName)
}

func TestNilSectionsSerializeAsEmptyArrays(t *testing.T) {
	rec := ToRecord("u", Document{})
	b, err := json.Marshal(rec)
	require.NoError(t, err)
	require.Contains(t, string(b), `"education":[]`)
	require.Contains(t, string(b), `"skills":[]`)
}
