package rendering

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

const resumeTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  @page { size: A4; margin: 18mm; }
  body { font-family: Helvetica, Arial, sans-serif; font-size: 11pt; color: #1a1a1a; line-height: 1.45; }
  h1 { font-size: 20pt; margin: 0 0 2pt 0; }
  h2 { font-size: 13pt; border-bottom: 1px solid #444; padding-bottom: 2pt; margin: 14pt 0 6pt 0; text-transform: uppercase; letter-spacing: 1px; }
  .contact { font-size: 9.5pt; color: #555; margin-bottom: 8pt; }
  .entry { margin-bottom: 8pt; }
  .entry-head { display: flex; justify-content: space-between; }
  .entry-title { font-weight: bold; }
  .entry-dates { color: #555; font-size: 9.5pt; white-space: nowrap; }
  .entry-sub { color: #333; margin: 1pt 0 3pt 0; }
  ul { margin: 2pt 0 0 0; padding-left: 16pt; }
  li { margin-bottom: 2pt; }
  .skills { margin: 0; }
  .tech { font-size: 9.5pt; color: #555; }
</style>
</head>
<body>
<h1>{{.PersonalInfo.Name}}</h1>
<div class="contact">{{contactLine .PersonalInfo}}</div>

{{if .Summary}}
<h2>Summary</h2>
<p>{{.Summary}}</p>
{{end}}

{{if .Experience}}
<h2>Experience</h2>
{{range .Experience}}
<div class="entry">
  <div class="entry-head">
    <span class="entry-title">{{.Position}}</span>
    <span class="entry-dates">{{.StartDate}} &ndash; {{.EndDate}}</span>
  </div>
  <div class="entry-sub">{{.Company}}</div>
  {{if .Description}}
  <ul>
    {{range .Description}}<li>{{.}}</li>{{end}}
  </ul>
  {{end}}
</div>
{{end}}
{{end}}

{{if .Education}}
<h2>Education</h2>
{{range .Education}}
<div class="entry">
  <div class="entry-head">
    <span class="entry-title">{{.Degree}}{{if .Field}} in {{.Field}}{{end}}</span>
    <span class="entry-dates">{{.GraduationDate}}</span>
  </div>
  <div class="entry-sub">{{.Institution}}</div>
</div>
{{end}}
{{end}}

{{if .Skills}}
<h2>Skills</h2>
<p class="skills">{{join .Skills}}</p>
{{end}}

{{if .Projects}}
<h2>Projects</h2>
{{range .Projects}}
<div class="entry">
  <div class="entry-title">{{.Name}}</div>
  <p>{{.Description}}</p>
  {{if .Technologies}}<div class="tech">Technologies: {{join .Technologies}}</div>{{end}}
</div>
{{end}}
{{end}}

{{if .Certifications}}
<h2>Certifications</h2>
{{range .Certifications}}
<div class="entry"><span class="entry-title">{{.Name}}</span> &mdash; {{.Issuer}} ({{.Date}})</div>
{{end}}
{{end}}
</body>
</html>`

const coverLetterTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  @page { size: A4; margin: 25mm; }
  body { font-family: Georgia, serif; font-size: 11.5pt; color: #1a1a1a; line-height: 1.6; }
  p { margin: 0 0 12pt 0; }
</style>
</head>
<body>
{{range .Paragraphs}}<p>{{.}}</p>
{{end}}
</body>
</html>`

var templateFuncs = template.FuncMap{
	"join": func(items []string) string { return strings.Join(items, ", ") },
	"contactLine": func(info types.PersonalInfo) string {
		parts := []string{info.Email}
		for _, p := range []string{info.Phone, info.Location, info.LinkedIn} {
			if p != "" {
				parts = append(parts, p)
			}
		}
		return strings.Join(parts, " | ")
	},
}

var (
	resumeTmpl      = template.Must(template.New("resume").Funcs(templateFuncs).Parse(resumeTemplate))
	coverLetterTmpl = template.Must(template.New("coverletter").Parse(coverLetterTemplate))
)

// ResumeHTML renders a resume into a standalone HTML page, section order
// matching the exported document: header, summary, experience, education,
// skills, projects, certifications.
func ResumeHTML(resume types.Resume) (string, error) {
	var buf bytes.Buffer
	if err := resumeTmpl.Execute(&buf, resume); err != nil {
		return "", &TemplateError{Message: "failed to render resume", Cause: err}
	}
	return buf.String(), nil
}

// CoverLetterHTML renders a plain-text cover letter into a letter-styled
// HTML page. Blank lines delimit paragraphs.
func CoverLetterHTML(text string) (string, error) {
	var paragraphs []string
	for _, block := range strings.Split(text, "\n\n") {
		if trimmed := strings.TrimSpace(block); trimmed != "" {
			paragraphs = append(paragraphs, trimmed)
		}
	}
	if len(paragraphs) == 0 {
		return "", &TemplateError{Message: "cover letter is empty"}
	}

	var buf bytes.Buffer
	data := struct{ Paragraphs []string }{Paragraphs: paragraphs}
	if err := coverLetterTmpl.Execute(&buf, data); err != nil {
		return "", &TemplateError{Message: "failed to render cover letter", Cause: err}
	}
	return buf.String(), nil
}
