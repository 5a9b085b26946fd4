package server

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

// ModifyResumeRequest is the body for POST /api/modify-resume.
type ModifyResumeRequest struct {
	Resume         *types.Resume `json:"resume"`
	JobDescription string        `json:"jobDescription"`
}

// CoverLetterRequest is the body for POST /api/generate-cover-letter.
type CoverLetterRequest struct {
	Resume         *types.Resume `json:"resume"`
	JobDescription string        `json:"jobDescription"`
	CompanyName    string        `json:"companyName,omitempty"`
}

// GeneratePDFRequest renders either a resume or a cover letter; exactly one
// must be set.
type GeneratePDFRequest struct {
	Resume      *types.Resume `json:"resume,omitempty"`
	CoverLetter string        `json:"coverLetter,omitempty"`
}

// handleModifyResume tailors the posted resume to a job description.
func (s *Server) handleModifyResume(w http.ResponseWriter, r *http.Request) {
	var req ModifyResumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Resume == nil {
		s.errorResponse(w, http.StatusBadRequest, "resume is required")
		return
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		s.errorResponse(w, http.StatusBadRequest, "jobDescription is required")
		return
	}

	modified, err := s.text.TailorResume(r.Context(), *req.Resume, req.JobDescription)
	if err != nil {
		s.failureResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"success": true, "modifiedResume": modified})
}

// handleGenerateCoverLetter writes a cover letter for the posted resume and
// job description.
func (s *Server) handleGenerateCoverLetter(w http.ResponseWriter, r *http.Request) {
	var req CoverLetterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Resume == nil {
		s.errorResponse(w, http.StatusBadRequest, "resume is required")
		return
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		s.errorResponse(w, http.StatusBadRequest, "jobDescription is required")
		return
	}

	letter, err := s.text.GenerateCoverLetter(r.Context(), *req.Resume, req.JobDescription, req.CompanyName)
	if err != nil {
		s.failureResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"success": true, "coverLetter": letter})
}

// handleGeneratePDF renders a resume or cover letter to PDF and returns it
// as a data URI, matching the original download flow.
func (s *Server) handleGeneratePDF(w http.ResponseWriter, r *http.Request) {
	var req GeneratePDFRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	var (
		pdf []byte
		err error
	)
	switch {
	case req.Resume != nil && req.CoverLetter != "":
		s.errorResponse(w, http.StatusBadRequest, "provide either resume or coverLetter, not both")
		return
	case req.Resume != nil:
		pdf, err = s.renderer.RenderResume(r.Context(), *req.Resume)
	case req.CoverLetter != "":
		pdf, err = s.renderer.RenderCoverLetter(r.Context(), req.CoverLetter)
	default:
		s.errorResponse(w, http.StatusBadRequest, "resume or coverLetter is required")
		return
	}
	if err != nil {
		s.failureResponse(w, err)
		return
	}

	pdfURL := "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(pdf)
	s.jsonResponse(w, http.StatusOK, map[string]any{"success": true, "pdfUrl": pdfURL})
}
