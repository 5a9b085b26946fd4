// Package types provides the canonical resume data model shared across the resume-builder system.
package types

import "reflect"

// PersonalInfo holds the contact block of a resume. Name and Email are the only
// required fields; everything else is optional free text.
type PersonalInfo struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
}

// Experience is a single work history entry. Dates are free-text labels and are
// never parsed or normalized; they round-trip verbatim.
type Experience struct {
	Company     string   `json:"company"`
	Position    string   `json:"position"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Description []string `json:"description"`
}

// Education is a single education entry.
type Education struct {
	Institution    string `json:"institution"`
	Degree         string `json:"degree"`
	Field          string `json:"field"`
	GraduationDate string `json:"graduationDate"`
}

// Certification is a single certification entry.
type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Date   string `json:"date"`
}

// Project is a single project entry.
type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
}

// Resume is the root aggregate. All slices preserve insertion order; order is
// meaningful for display and document output. Skills may contain duplicates.
type Resume struct {
	PersonalInfo   PersonalInfo    `json:"personalInfo" validate:"required"`
	Summary        string          `json:"summary,omitempty"`
	Experience     []Experience    `json:"experience" validate:"required"`
	Education      []Education     `json:"education" validate:"required"`
	Skills         []string        `json:"skills" validate:"required"`
	Certifications []Certification `json:"certifications,omitempty"`
	Projects       []Project       `json:"projects,omitempty"`
}

// Clone returns a deep, independent copy of the resume. Any component that
// mutates a resume must do so on a clone; callers must never observe partial
// mutation of a value they still hold. Nil and empty slices are preserved
// as-is so a clone is deep-equal to its source.
func (r Resume) Clone() Resume {
	out := r

	if r.Experience != nil {
		out.Experience = make([]Experience, len(r.Experience))
		for i, exp := range r.Experience {
			out.Experience[i] = exp
			out.Experience[i].Description = cloneStrings(exp.Description)
		}
	}

	if r.Education != nil {
		out.Education = make([]Education, len(r.Education))
		copy(out.Education, r.Education)
	}

	out.Skills = cloneStrings(r.Skills)

	if r.Certifications != nil {
		out.Certifications = make([]Certification, len(r.Certifications))
		copy(out.Certifications, r.Certifications)
	}

	if r.Projects != nil {
		out.Projects = make([]Project, len(r.Projects))
		for i, p := range r.Projects {
			out.Projects[i] = p
			out.Projects[i].Technologies = cloneStrings(p.Technologies)
		}
	}

	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// Equal reports structural deep equality between two resumes.
func (r Resume) Equal(other Resume) bool {
	return reflect.DeepEqual(r, other)
}

// ParsedResume pairs a structured resume with the raw text it was extracted from.
type ParsedResume struct {
	Resume  Resume `json:"resume"`
	RawText string `json:"rawText"`
}
