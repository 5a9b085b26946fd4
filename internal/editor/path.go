package editor

import (
	"strconv"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

// segment is one dot-separated element of an edit path, e.g. "experience[2]"
// parses to {name: "experience", index: 2, hasIndex: true}.
type segment struct {
	name     string
	index    int
	hasIndex bool
}

func parsePath(path string) ([]segment, error) {
	if path == "" {
		return nil, &PathError{Path: path, Message: "empty path"}
	}

	parts := strings.Split(path, ".")
	segs := make([]segment, 0, len(parts))
	for _, part := range parts {
		seg := segment{name: part}
		if open := strings.IndexByte(part, '['); open >= 0 {
			if !strings.HasSuffix(part, "]") {
				return nil, &PathError{Path: path, Message: "malformed index in " + part}
			}
			idx, err := strconv.Atoi(part[open+1 : len(part)-1])
			if err != nil {
				return nil, &PathError{Path: path, Message: "non-numeric index in " + part}
			}
			seg.name = part[:open]
			seg.index = idx
			seg.hasIndex = true
		}
		if seg.name == "" {
			return nil, &PathError{Path: path, Message: "empty segment"}
		}
		segs = append(segs, seg)
	}
	return segs, nil
}

// listRef is a uniform view over the resume's ordered lists so insert,
// delete, and move share one implementation regardless of element type.
type listRef interface {
	len() int
	insertDefault()
	remove(i int)
	move(from, to int)
}

type sliceRef[T any] struct {
	s   *[]T
	def func() T
}

func (r sliceRef[T]) len() int { return len(*r.s) }

func (r sliceRef[T]) insertDefault() {
	*r.s = append(*r.s, r.def())
}

func (r sliceRef[T]) remove(i int) {
	s := *r.s
	*r.s = append(s[:i], s[i+1:]...)
}

func (r sliceRef[T]) move(from, to int) {
	s := *r.s
	item := s[from]
	s = append(s[:from], s[from+1:]...)
	s = append(s, item)
	copy(s[to+1:], s[to:len(s)-1])
	s[to] = item
	*r.s = s
}

func defaultExperience() types.Experience {
	return types.Experience{Description: []string{""}}
}

func defaultProject() types.Project {
	return types.Project{Technologies: []string{}}
}

// resolveList maps a parsed path onto one of the resume's lists. The final
// segment must not carry an index; element addressing is the caller's job.
func resolveList(r *types.Resume, path string, segs []segment) (listRef, error) {
	if len(segs) == 0 {
		return nil, &PathError{Path: path, Message: "empty path"}
	}

	head := segs[0]
	switch head.name {
	case "skills":
		if head.hasIndex || len(segs) != 1 {
			return nil, &PathError{Path: path, Message: "skills is a flat list"}
		}
		return sliceRef[string]{s: &r.Skills, def: func() string { return "New Skill" }}, nil

	case "experience":
		if len(segs) == 1 {
			if head.hasIndex {
				return nil, &PathError{Path: path, Message: "experience addressed with an index is an element, not a list"}
			}
			return sliceRef[types.Experience]{s: &r.Experience, def: defaultExperience}, nil
		}
		if !head.hasIndex || len(segs) != 2 || segs[1].name != "description" || segs[1].hasIndex {
			return nil, &PathError{Path: path, Message: "expected experience[i].description"}
		}
		if head.index < 0 || head.index >= len(r.Experience) {
			return nil, &PathError{Path: path, Message: "experience index out of range"}
		}
		return sliceRef[string]{s: &r.Experience[head.index].Description, def: func() string { return "" }}, nil

	case "education":
		if head.hasIndex || len(segs) != 1 {
			return nil, &PathError{Path: path, Message: "education is a flat list"}
		}
		return sliceRef[types.Education]{s: &r.Education, def: func() types.Education { return types.Education{} }}, nil

	case "certifications":
		if head.hasIndex || len(segs) != 1 {
			return nil, &PathError{Path: path, Message: "certifications is a flat list"}
		}
		return sliceRef[types.Certification]{s: &r.Certifications, def: func() types.Certification { return types.Certification{} }}, nil

	case "projects":
		if len(segs) == 1 {
			if head.hasIndex {
				return nil, &PathError{Path: path, Message: "projects addressed with an index is an element, not a list"}
			}
			return sliceRef[types.Project]{s: &r.Projects, def: defaultProject}, nil
		}
		if !head.hasIndex || len(segs) != 2 || segs[1].name != "technologies" || segs[1].hasIndex {
			return nil, &PathError{Path: path, Message: "expected projects[i].technologies"}
		}
		if head.index < 0 || head.index >= len(r.Projects) {
			return nil, &PathError{Path: path, Message: "projects index out of range"}
		}
		return sliceRef[string]{s: &r.Projects[head.index].Technologies, def: func() string { return "" }}, nil
	}

	return nil, &PathError{Path: path, Message: "unknown list " + head.name}
}

// resolveScalar maps a parsed path onto a single editable string field.
func resolveScalar(r *types.Resume, path string, segs []segment) (*string, error) {
	head := segs[0]

	switch head.name {
	case "summary":
		if head.hasIndex || len(segs) != 1 {
			return nil, &PathError{Path: path, Message: "summary is a scalar"}
		}
		return &r.Summary, nil

	case "personalInfo":
		if head.hasIndex || len(segs) != 2 || segs[1].hasIndex {
			return nil, &PathError{Path: path, Message: "expected personalInfo.<field>"}
		}
		switch segs[1].name {
		case "name":
			return &r.PersonalInfo.Name, nil
		case "email":
			return &r.PersonalInfo.Email, nil
		case "phone":
			return &r.PersonalInfo.Phone, nil
		case "location":
			return &r.PersonalInfo.Location, nil
		case "linkedin":
			return &r.PersonalInfo.LinkedIn, nil
		}
		return nil, &PathError{Path: path, Message: "unknown personalInfo field " + segs[1].name}

	case "skills":
		if !head.hasIndex || len(segs) != 1 {
			return nil, &PathError{Path: path, Message: "expected skills[i]"}
		}
		if head.index < 0 || head.index >= len(r.Skills) {
			return nil, &PathError{Path: path, Message: "skills index out of range"}
		}
		return &r.Skills[head.index], nil

	case "experience":
		if !head.hasIndex || len(segs) != 2 {
			return nil, &PathError{Path: path, Message: "expected experience[i].<field>"}
		}
		if head.index < 0 || head.index >= len(r.Experience) {
			return nil, &PathError{Path: path, Message: "experience index out of range"}
		}
		exp := &r.Experience[head.index]
		field := segs[1]
		if field.name == "description" {
			if !field.hasIndex {
				return nil, &PathError{Path: path, Message: "description is a list; expected description[j]"}
			}
			if field.index < 0 || field.index >= len(exp.Description) {
				return nil, &PathError{Path: path, Message: "description index out of range"}
			}
			return &exp.Description[field.index], nil
		}
		if field.hasIndex {
			return nil, &PathError{Path: path, Message: field.name + " is a scalar"}
		}
		switch field.name {
		case "company":
			return &exp.Company, nil
		case "position":
			return &exp.Position, nil
		case "startDate":
			return &exp.StartDate, nil
		case "endDate":
			return &exp.EndDate, nil
		}
		return nil, &PathError{Path: path, Message: "unknown experience field " + field.name}

	case "education":
		if !head.hasIndex || len(segs) != 2 || segs[1].hasIndex {
			return nil, &PathError{Path: path, Message: "expected education[i].<field>"}
		}
		if head.index < 0 || head.index >= len(r.Education) {
			return nil, &PathError{Path: path, Message: "education index out of range"}
		}
		edu := &r.Education[head.index]
		switch segs[1].name {
		case "institution":
			return &edu.Institution, nil
		case "degree":
			return &edu.Degree, nil
		case "field":
			return &edu.Field, nil
		case "graduationDate":
			return &edu.GraduationDate, nil
		}
		return nil, &PathError{Path: path, Message: "unknown education field " + segs[1].name}

	case "certifications":
		if !head.hasIndex || len(segs) != 2 || segs[1].hasIndex {
			return nil, &PathError{Path: path, Message: "expected certifications[i].<field>"}
		}
		if head.index < 0 || head.index >= len(r.Certifications) {
			return nil, &PathError{Path: path, Message: "certifications index out of range"}
		}
		cert := &r.Certifications[head.index]
		switch segs[1].name {
		case "name":
			return &cert.Name, nil
		case "issuer":
			return &cert.Issuer, nil
		case "date":
			return &cert.Date, nil
		}
		return nil, &PathError{Path: path, Message: "unknown certification field " + segs[1].name}

	case "projects":
		if !head.hasIndex || len(segs) != 2 {
			return nil, &PathError{Path: path, Message: "expected projects[i].<field>"}
		}
		if head.index < 0 || head.index >= len(r.Projects) {
			return nil, &PathError{Path: path, Message: "projects index out of range"}
		}
		proj := &r.Projects[head.index]
		field := segs[1]
		if field.name == "technologies" {
			if !field.hasIndex {
				return nil, &PathError{Path: path, Message: "technologies is a list; expected technologies[j]"}
			}
			if field.index < 0 || field.index >= len(proj.Technologies) {
				return nil, &PathError{Path: path, Message: "technologies index out of range"}
			}
			return &proj.Technologies[field.index], nil
		}
		if field.hasIndex {
			return nil, &PathError{Path: path, Message: field.name + " is a scalar"}
		}
		switch field.name {
		case "name":
			return &proj.Name, nil
		case "description":
			return &proj.Description, nil
		}
		return nil, &PathError{Path: path, Message: "unknown project field " + field.name}
	}

	return nil, &PathError{Path: path, Message: "unknown field " + head.name}
}
