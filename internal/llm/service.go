package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-builder/internal/types"
)

const structurePrompt = `You are a resume parsing expert. Convert the following resume text into a structured JSON format.

Return a JSON object with this shape:

{
  "personalInfo": {"name": string, "email": string, "phone"?: string, "location"?: string, "linkedin"?: string},
  "summary"?: string,
  "experience": [{"company": string, "position": string, "startDate": string, "endDate": string, "description": [string]}],
  "education": [{"institution": string, "degree": string, "field": string, "graduationDate": string}],
  "skills": [string],
  "certifications"?: [{"name": string, "issuer": string, "date": string}],
  "projects"?: [{"name": string, "description": string, "technologies": [string]}]
}

Resume text:
%s

Return ONLY valid JSON, no other text or markdown formatting.`

const tailorPrompt = `You are an expert resume writer. Modify the following resume to better align with the job description.

Guidelines:
- Maintain factual accuracy (do not fabricate experience)
- Highlight relevant skills and experiences
- Optimize keyword matching with the job description
- Reorder sections to emphasize relevance
- Adjust summary/objective to match the role
- Keep all dates, company names, and education exactly as provided
- Only rephrase descriptions to better match the job requirements

Current Resume (JSON):
%s

Job Description:
%s

Return the modified resume as JSON with the same structure. Return ONLY valid JSON, no other text or markdown formatting.`

const coverLetterPrompt = `You are a professional career writer. Write a compelling cover letter for the following candidate applying to this job.

Guidelines:
- Three to four paragraphs, professional but warm tone
- Reference the candidate's most relevant experience and skills
- Do not fabricate experience or qualifications
- Address the letter to %s
- Return plain text only, no markdown, no placeholders for missing information

Candidate Resume (JSON):
%s

Job Description:
%s`

// Service exposes the three text-generation collaborators used by the
// session controller.
type Service struct {
	client   Client
	validate *validator.Validate
}

// NewService wraps a client with the resume-builder prompt set.
func NewService(client Client) *Service {
	return &Service{
		client:   client,
		validate: validator.New(),
	}
}

// StructureResume converts unstructured resume text into a structured
// record.
func (s *Service) StructureResume(ctx context.Context, rawText string) (*types.Resume, error) {
	prompt := fmt.Sprintf(structurePrompt, rawText)

	raw, err := s.client.GenerateJSON(ctx, prompt, TierStandard)
	if err != nil {
		return nil, &StructuringError{Message: "model call failed", Cause: err}
	}
	if raw == "" {
		return nil, &StructuringError{Message: "model returned no content"}
	}

	var resume types.Resume
	if err := json.Unmarshal([]byte(raw), &resume); err != nil {
		return nil, &StructuringError{Message: "model returned non-parseable output", Cause: err}
	}
	if err := s.validate.Struct(resume); err != nil {
		return nil, &StructuringError{Message: "model output is missing required fields", Cause: err}
	}

	return &resume, nil
}

// TailorResume rewrites a resume to align with a job description. The model
// is instructed to preserve dates, company names, and education verbatim;
// that is contractual on the model, not enforced here.
func (s *Service) TailorResume(ctx context.Context, resume types.Resume, jobDescription string) (*types.Resume, error) {
	resumeJSON, err := json.MarshalIndent(resume, "", "  ")
	if err != nil {
		return nil, &TailoringError{Message: "failed to encode resume", Cause: err}
	}

	prompt := fmt.Sprintf(tailorPrompt, resumeJSON, jobDescription)

	raw, err := s.client.GenerateJSON(ctx, prompt, TierAdvanced)
	if err != nil {
		return nil, &TailoringError{Message: "model call failed", Cause: err}
	}
	if raw == "" {
		return nil, &TailoringError{Message: "model returned no content"}
	}

	var tailored types.Resume
	if err := json.Unmarshal([]byte(raw), &tailored); err != nil {
		return nil, &TailoringError{Message: "model returned non-parseable output", Cause: err}
	}
	if err := s.validate.Struct(tailored); err != nil {
		return nil, &TailoringError{Message: "model output is missing required fields", Cause: err}
	}

	return &tailored, nil
}

// GenerateCoverLetter writes a plain-text cover letter for the resume and
// job description. companyName may be empty.
func (s *Service) GenerateCoverLetter(ctx context.Context, resume types.Resume, jobDescription, companyName string) (string, error) {
	resumeJSON, err := json.MarshalIndent(resume, "", "  ")
	if err != nil {
		return "", &CoverLetterError{Message: "failed to encode resume", Cause: err}
	}

	addressee := "the hiring team"
	if companyName != "" {
		addressee = "the hiring team at " + companyName
	}

	prompt := fmt.Sprintf(coverLetterPrompt, addressee, resumeJSON, jobDescription)

	letter, err := s.client.GenerateContent(ctx, prompt, TierStandard)
	if err != nil {
		return "", &CoverLetterError{Message: "model call failed", Cause: err}
	}
	if letter == "" {
		return "", &CoverLetterError{Message: "model returned no content"}
	}

	return letter, nil
}
