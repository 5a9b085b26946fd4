package rendering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/types"
)

func testResume() types.Resume {
	return types.Resume{
		PersonalInfo: types.PersonalInfo{
			Name:     "Jane Doe",
			Email:    "jane@example.com",
			Phone:    "555-0100",
			Location: "Portland, OR",
		},
		Summary: "Backend engineer with 5 years of Go.",
		Experience: []types.Experience{
			{Company: "Acme", Position: "Engineer", StartDate: "Jan 2020", EndDate: "Present", Description: []string{"Built APIs", "Ran migrations"}},
		},
		Education: []types.Education{
			{Institution: "State University", Degree: "BSc", Field: "CS", GraduationDate: "2018"},
		},
		Skills: []string{"Go", "SQL"},
		Certifications: []types.Certification{
			{Name: "CKA", Issuer: "CNCF", Date: "2022"},
		},
		Projects: []types.Project{
			{Name: "CLI tool", Description: "A tool", Technologies: []string{"Go", "Cobra"}},
		},
	}
}

func TestResumeHTML_AllSections(t *testing.T) {
	html, err := ResumeHTML(testResume())
	require.NoError(t, err)

	assert.Contains(t, html, "<h1>Jane Doe</h1>")
	assert.Contains(t, html, "jane@example.com | 555-0100 | Portland, OR")
	assert.Contains(t, html, "Backend engineer with 5 years of Go.")
	assert.Contains(t, html, "<h2>Experience</h2>")
	assert.Contains(t, html, "Built APIs")
	assert.Contains(t, html, "BSc in CS")
	assert.Contains(t, html, "Go, SQL")
	assert.Contains(t, html, "Go, Cobra")
	assert.Contains(t, html, "CKA")
}

func TestResumeHTML_OmitsEmptyOptionalSections(t *testing.T) {
	r := testResume()
	r.Summary = ""
	r.Certifications = nil
	r.Projects = nil

	html, err := ResumeHTML(r)
	require.NoError(t, err)
	assert.NotContains(t, html, "<h2>Summary</h2>")
	assert.NotContains(t, html, "<h2>Projects</h2>")
	assert.NotContains(t, html, "<h2>Certifications</h2>")
}

func TestResumeHTML_EscapesContent(t *testing.T) {
	r := testResume()
	r.Summary = `<script>alert("x")</script>`

	html, err := ResumeHTML(r)
	require.NoError(t, err)
	assert.NotContains(t, html, `<script>alert`)
}

func TestResumeHTML_PreservesOrder(t *testing.T) {
	r := testResume()
	r.Skills = []string{"Zig", "Ada", "Basic"}

	html, err := ResumeHTML(r)
	require.NoError(t, err)
	assert.Contains(t, html, "Zig, Ada, Basic")
}

func TestCoverLetterHTML_Paragraphs(t *testing.T) {
	html, err := CoverLetterHTML("Dear team,\n\nI am excited to apply.\n\nSincerely,\nJane")
	require.NoError(t, err)
	assert.Contains(t, html, "<p>Dear team,</p>")
	assert.Contains(t, html, "<p>I am excited to apply.</p>")
}

func TestCoverLetterHTML_Empty(t *testing.T) {
	_, err := CoverLetterHTML("   \n\n  ")
	var tmplErr *TemplateError
	require.ErrorAs(t, err, &tmplErr)
}
