package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/resume-builder/internal/editor"
)

// SubmitRequest is the body for POST /api/session/submit.
type SubmitRequest struct {
	JobDescription string `json:"jobDescription"`
	CompanyName    string `json:"companyName,omitempty"`
}

// RestoreRequest is the body for POST /api/session/restore.
type RestoreRequest struct {
	ID int64 `json:"id"`
}

// handleGetSession returns a snapshot of the session state.
func (s *Server) handleGetSession(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{"success": true, "session": s.controller.Snapshot()})
}

// handleSessionUpload feeds an uploaded file into the session lifecycle.
func (s *Server) handleSessionUpload(w http.ResponseWriter, r *http.Request) {
	filename, data, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	resume, rawText, err := s.controller.Upload(r.Context(), filename, data)
	if err != nil {
		s.failureResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ParseResponse{Success: true, Resume: resume, RawText: rawText})
}

// handleSessionEdit applies one edit instruction to the session's working
// copy.
func (s *Server) handleSessionEdit(w http.ResponseWriter, r *http.Request) {
	var ins editor.Instruction
	if err := json.NewDecoder(r.Body).Decode(&ins); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	edited, changed, err := s.controller.ApplyEdit(ins)
	if err != nil {
		s.failureResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"success": true, "resume": edited, "changed": changed})
}

// handleSessionSave commits the pending edits as the new base resume.
func (s *Server) handleSessionSave(w http.ResponseWriter, r *http.Request) {
	stored, err := s.controller.SaveAsBase(r.Context())
	if err != nil {
		s.failureResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ResumeResponse{Success: true, Resume: &stored.Data, UpdatedAt: &stored.UpdatedAt})
}

// handleSessionReset discards pending edits.
func (s *Server) handleSessionReset(w http.ResponseWriter, _ *http.Request) {
	if err := s.controller.ResetEdits(); err != nil {
		s.failureResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"success": true})
}

// handleSessionSubmit runs tailoring and cover-letter generation for the job
// description.
func (s *Server) handleSessionSubmit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	tailored, letter, err := s.controller.Submit(r.Context(), req.JobDescription, req.CompanyName)
	if err != nil {
		s.failureResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success":        true,
		"modifiedResume": tailored,
		"coverLetter":    letter,
	})
}

// handleSessionRestore loads a history entry as the session's base resume.
func (s *Server) handleSessionRestore(w http.ResponseWriter, r *http.Request) {
	var req RestoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	restored, err := s.controller.RestoreFromHistory(r.Context(), req.ID)
	if err != nil {
		s.failureResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"success": true, "resume": restored})
}

// handleSessionClear deletes the saved resume and resets the session.
func (s *Server) handleSessionClear(w http.ResponseWriter, r *http.Request) {
	if err := s.controller.ClearSaved(r.Context()); err != nil {
		s.failureResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"success": true})
}
