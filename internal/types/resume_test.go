package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullResume() Resume {
	return Resume{
		PersonalInfo: PersonalInfo{
			Name:     "Jane Doe",
			Email:    "jane@example.com",
			Phone:    "555-0100",
			Location: "Portland, OR",
			LinkedIn: "linkedin.com/in/janedoe",
		},
		Summary: "Backend engineer.",
		Experience: []Experience{
			{Company: "Acme", Position: "Engineer", StartDate: "Jan 2020", EndDate: "Present", Description: []string{"Built APIs", "Ran migrations"}},
		},
		Education: []Education{
			{Institution: "State U", Degree: "BSc", Field: "CS", GraduationDate: "2018"},
		},
		Skills: []string{"Go", "SQL", "Go"},
		Certifications: []Certification{
			{Name: "CKA", Issuer: "CNCF", Date: "2022"},
		},
		Projects: []Project{
			{Name: "CLI tool", Description: "A tool", Technologies: []string{"Go"}},
		},
	}
}

func TestClone_DeepEqualAndIndependent(t *testing.T) {
	original := fullResume()
	clone := original.Clone()

	require.True(t, original.Equal(clone))

	clone.PersonalInfo.Name = "Someone Else"
	clone.Experience[0].Description[0] = "Changed"
	clone.Skills[0] = "Rust"
	clone.Projects[0].Technologies[0] = "Python"

	assert.Equal(t, "Jane Doe", original.PersonalInfo.Name)
	assert.Equal(t, "Built APIs", original.Experience[0].Description[0])
	assert.Equal(t, "Go", original.Skills[0])
	assert.Equal(t, "Go", original.Projects[0].Technologies[0])
}

func TestClone_PreservesNilAndEmptySlices(t *testing.T) {
	r := Resume{
		PersonalInfo: PersonalInfo{Name: "Jane Doe", Email: "jane@example.com"},
		Experience:   []Experience{},
		Education:    nil,
		Skills:       []string{},
	}
	clone := r.Clone()

	assert.NotNil(t, clone.Experience)
	assert.Len(t, clone.Experience, 0)
	assert.Nil(t, clone.Education)
	assert.NotNil(t, clone.Skills)
	assert.Nil(t, clone.Certifications)
	assert.True(t, r.Equal(clone))
}

func TestEqual_DetectsDifferences(t *testing.T) {
	a := fullResume()
	b := fullResume()
	require.True(t, a.Equal(b))

	b.Experience[0].EndDate = "2023"
	assert.False(t, a.Equal(b))
}

func TestResume_JSONFieldNames(t *testing.T) {
	raw, err := json.Marshal(fullResume())
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))

	for _, key := range []string{"personalInfo", "summary", "experience", "education", "skills", "certifications", "projects"} {
		assert.Contains(t, decoded, key)
	}

	var info map[string]any
	require.NoError(t, json.Unmarshal(decoded["personalInfo"], &info))
	assert.Contains(t, info, "name")
	assert.Contains(t, info, "linkedin")

	var experience []map[string]any
	require.NoError(t, json.Unmarshal(decoded["experience"], &experience))
	require.Len(t, experience, 1)
	assert.Contains(t, experience[0], "startDate")
	assert.Contains(t, experience[0], "description")
}

func TestResume_JSONRoundTrip(t *testing.T) {
	original := fullResume()

	raw, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Resume
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.True(t, original.Equal(decoded))
}
