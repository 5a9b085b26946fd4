package server

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-builder/internal/types"
)

var validate = validator.New()

// ParseResponse is the payload for a successful upload.
type ParseResponse struct {
	Success bool          `json:"success"`
	Resume  *types.Resume `json:"resume"`
	RawText string        `json:"rawText"`
}

// ResumeResponse wraps the current resume. Resume is nil when nothing has
// been saved yet; that is still a success.
type ResumeResponse struct {
	Success   bool          `json:"success"`
	Resume    *types.Resume `json:"resume,omitempty"`
	UpdatedAt *time.Time    `json:"updatedAt,omitempty"`
}

// SaveResumeRequest is the body for POST /api/resume.
type SaveResumeRequest struct {
	Resume *types.Resume `json:"resume"`
	Label  string        `json:"label,omitempty"`
}

// handleParse accepts a multipart resume upload, extracts its text, and
// structures it into a resume record. The result is saved best-effort; a
// save failure is logged and the parsed resume still returned.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	filename, data, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	result, err := s.parser.Parse(filename, data)
	if err != nil {
		s.failureResponse(w, err)
		return
	}

	resume := result.Resume
	if resume == nil {
		resume, err = s.text.StructureResume(r.Context(), result.RawText)
		if err != nil {
			s.failureResponse(w, err)
			return
		}
	}

	if _, err := s.store.SaveResume(r.Context(), *resume, "Uploaded resume"); err != nil {
		log.Printf("best-effort save after parse failed: %v", err)
	}

	s.jsonResponse(w, http.StatusOK, ParseResponse{Success: true, Resume: resume, RawText: result.RawText})
}

// handleGetResume returns the current resume. An empty slot is reported as
// success with no payload, distinct from an error.
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	stored, err := s.store.GetResume(r.Context())
	if err != nil {
		s.failureResponse(w, err)
		return
	}
	if stored == nil {
		s.jsonResponse(w, http.StatusOK, ResumeResponse{Success: true})
		return
	}
	s.jsonResponse(w, http.StatusOK, ResumeResponse{Success: true, Resume: &stored.Data, UpdatedAt: &stored.UpdatedAt})
}

// handleSaveResume saves the posted resume as the current slot and appends a
// history entry.
func (s *Server) handleSaveResume(w http.ResponseWriter, r *http.Request) {
	var req SaveResumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Resume == nil {
		s.errorResponse(w, http.StatusBadRequest, "resume is required")
		return
	}
	if err := validate.Struct(req.Resume); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "resume is missing required fields: "+err.Error())
		return
	}

	stored, err := s.store.SaveResume(r.Context(), *req.Resume, req.Label)
	if err != nil {
		s.failureResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ResumeResponse{Success: true, Resume: &stored.Data, UpdatedAt: &stored.UpdatedAt})
}

// handleDeleteResume clears the current slot. History is kept.
func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteResume(r.Context()); err != nil {
		s.failureResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"success": true})
}

// handleGetHistory lists history summaries, or returns one full entry when
// an id query parameter is given.
func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	if idStr := r.URL.Query().Get("id"); idStr != "" {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid history id")
			return
		}
		entry, err := s.store.GetHistoryEntry(r.Context(), id)
		if err != nil {
			s.failureResponse(w, err)
			return
		}
		if entry == nil {
			s.errorResponse(w, http.StatusNotFound, "History entry not found")
			return
		}
		s.jsonResponse(w, http.StatusOK, map[string]any{"success": true, "entry": entry})
		return
	}

	limit := s.historyLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid history limit")
			return
		}
		limit = parsed
	}

	entries, err := s.store.ListHistory(r.Context(), limit)
	if err != nil {
		s.failureResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"success": true, "history": entries})
}

// handleDeleteHistory deletes one entry when an id is given, or clears all
// history. Deleting an unknown id is not an error.
func (s *Server) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	if idStr := r.URL.Query().Get("id"); idStr != "" {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid history id")
			return
		}
		if err := s.store.DeleteHistoryEntry(r.Context(), id); err != nil {
			s.failureResponse(w, err)
			return
		}
	} else {
		if err := s.store.ClearHistory(r.Context()); err != nil {
			s.failureResponse(w, err)
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"success": true})
}

// readUpload pulls the "file" part out of a multipart request, enforcing the
// configured size cap. On failure it writes the error response and reports
// ok=false.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (filename string, data []byte, ok bool) {
	if err := r.ParseMultipartForm(s.maxFileSize); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart request: "+err.Error())
		return "", nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "No file provided")
		return "", nil, false
	}
	defer file.Close()

	data, err = io.ReadAll(io.LimitReader(file, s.maxFileSize+1))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read file: "+err.Error())
		return "", nil, false
	}
	if int64(len(data)) > s.maxFileSize {
		s.errorResponse(w, http.StatusBadRequest, "File exceeds the upload size limit")
		return "", nil, false
	}
	return header.Filename, data, true
}
