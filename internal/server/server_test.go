package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/parsing"
	"github.com/jonathan/resume-builder/internal/session"
	"github.com/jonathan/resume-builder/internal/store"
	"github.com/jonathan/resume-builder/internal/types"
)

// mockStore is an in-memory Store for handler tests.
type mockStore struct {
	mu      sync.Mutex
	current *store.StoredResume
	history []store.HistoryEntry
	nextID  int64

	saveErr error
}

func newMockStore() *mockStore {
	return &mockStore{nextID: 1}
}

func (m *mockStore) GetResume(context.Context) (*store.StoredResume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil, nil
	}
	copied := *m.current
	return &copied, nil
}

func (m *mockStore) SaveResume(_ context.Context, resume types.Resume, label string) (*store.StoredResume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	m.current = &store.StoredResume{ID: "default", Data: resume.Clone()}
	m.history = append(m.history, store.HistoryEntry{ID: m.nextID, Data: resume.Clone(), Label: label})
	m.nextID++
	copied := *m.current
	return &copied, nil
}

func (m *mockStore) DeleteResume(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = nil
	return nil
}

func (m *mockStore) ListHistory(_ context.Context, limit int) ([]store.HistorySummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []store.HistorySummary
	for i := len(m.history) - 1; i >= 0 && len(out) < limit; i-- {
		entry := m.history[i]
		out = append(out, store.HistorySummary{ID: entry.ID, Label: entry.Label, CreatedAt: entry.CreatedAt})
	}
	return out, nil
}

func (m *mockStore) GetHistoryEntry(_ context.Context, id int64) (*store.HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, entry := range m.history {
		if entry.ID == id {
			copied := entry
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockStore) DeleteHistoryEntry(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, entry := range m.history {
		if entry.ID == id {
			m.history = append(m.history[:i], m.history[i+1:]...)
			break
		}
	}
	return nil
}

func (m *mockStore) ClearHistory(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = nil
	return nil
}

func (m *mockStore) Close() {}

type mockText struct {
	structured *types.Resume
	tailored   *types.Resume
	letter     string
	tailorErr  error

	calls int
}

func (m *mockText) StructureResume(context.Context, string) (*types.Resume, error) {
	m.calls++
	if m.structured == nil {
		return nil, &llm.StructuringError{Message: "model returned no content"}
	}
	return m.structured, nil
}

func (m *mockText) TailorResume(context.Context, types.Resume, string) (*types.Resume, error) {
	m.calls++
	if m.tailorErr != nil {
		return nil, m.tailorErr
	}
	return m.tailored, nil
}

func (m *mockText) GenerateCoverLetter(context.Context, types.Resume, string, string) (string, error) {
	m.calls++
	return m.letter, nil
}

type mockRenderer struct {
	pdf []byte
	err error
}

func (m *mockRenderer) RenderResume(context.Context, types.Resume) ([]byte, error) {
	return m.pdf, m.err
}

func (m *mockRenderer) RenderCoverLetter(context.Context, string) ([]byte, error) {
	return m.pdf, m.err
}

func sampleResume() types.Resume {
	return types.Resume{
		PersonalInfo: types.PersonalInfo{Name: "Jane Doe", Email: "jane@example.com"},
		Experience: []types.Experience{
			{Company: "Acme", Position: "Engineer", StartDate: "2020", EndDate: "Present", Description: []string{"Built APIs"}},
		},
		Education: []types.Education{
			{Institution: "State U", Degree: "BSc", Field: "CS", GraduationDate: "2018"},
		},
		Skills: []string{"Go"},
	}
}

func newTestServer(t *testing.T, st store.Store, text session.TextService, renderer Renderer) *Server {
	t.Helper()
	parser := parsing.New(0)
	controller, err := session.New(context.Background(), st, parser, text)
	require.NoError(t, err)
	return New(Config{Port: 0}, st, controller, parser, text, renderer)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestGetResume_EmptySlotIsSuccess(t *testing.T) {
	s := newTestServer(t, newMockStore(), &mockText{}, &mockRenderer{})

	rec := doJSON(t, s, http.MethodGet, "/api/resume", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.NotContains(t, body, "resume")
}

func TestSaveAndGetResume(t *testing.T) {
	s := newTestServer(t, newMockStore(), &mockText{}, &mockRenderer{})

	resume := sampleResume()
	rec := doJSON(t, s, http.MethodPost, "/api/resume", SaveResumeRequest{Resume: &resume, Label: "Manual save"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/resume", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got ResumeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.Success)
	require.NotNil(t, got.Resume)
	assert.Equal(t, "Jane Doe", got.Resume.PersonalInfo.Name)
	assert.NotNil(t, got.UpdatedAt)
}

func TestSaveResume_MissingRequiredFields(t *testing.T) {
	s := newTestServer(t, newMockStore(), &mockText{}, &mockRenderer{})

	resume := sampleResume()
	resume.PersonalInfo.Email = ""
	rec := doJSON(t, s, http.MethodPost, "/api/resume", SaveResumeRequest{Resume: &resume})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["success"])
}

func TestDeleteResume_KeepsHistory(t *testing.T) {
	st := newMockStore()
	s := newTestServer(t, st, &mockText{}, &mockRenderer{})

	resume := sampleResume()
	doJSON(t, s, http.MethodPost, "/api/resume", SaveResumeRequest{Resume: &resume})

	rec := doJSON(t, s, http.MethodDelete, "/api/resume", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/resume", nil)
	body := decodeBody(t, rec)
	assert.NotContains(t, body, "resume")

	rec = doJSON(t, s, http.MethodGet, "/api/resume/history", nil)
	body = decodeBody(t, rec)
	assert.Len(t, body["history"], 1)
}

func TestGetHistory_NewestFirst(t *testing.T) {
	s := newTestServer(t, newMockStore(), &mockText{}, &mockRenderer{})

	first := sampleResume()
	doJSON(t, s, http.MethodPost, "/api/resume", SaveResumeRequest{Resume: &first, Label: "Uploaded resume"})
	second := sampleResume()
	second.Summary = "v2"
	doJSON(t, s, http.MethodPost, "/api/resume", SaveResumeRequest{Resume: &second, Label: "Manual save"})

	rec := doJSON(t, s, http.MethodGet, "/api/resume/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool                   `json:"success"`
		History []store.HistorySummary `json:"history"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.History, 2)
	assert.Equal(t, "Manual save", body.History[0].Label)
	assert.Equal(t, "Uploaded resume", body.History[1].Label)
}

func TestGetHistory_UnknownIDIs404(t *testing.T) {
	s := newTestServer(t, newMockStore(), &mockText{}, &mockRenderer{})

	rec := doJSON(t, s, http.MethodGet, "/api/resume/history?id=42", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteHistory_UnknownIDIsIdempotent(t *testing.T) {
	s := newTestServer(t, newMockStore(), &mockText{}, &mockRenderer{})

	rec := doJSON(t, s, http.MethodDelete, "/api/resume/history?id=42", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["success"])
}

func TestParse_TextUploadStructuresAndSaves(t *testing.T) {
	st := newMockStore()
	structured := sampleResume()
	s := newTestServer(t, st, &mockText{structured: &structured}, &mockRenderer{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "resume.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("Jane Doe, engineer at Acme"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/parse", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ParseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Jane Doe", resp.Resume.PersonalInfo.Name)
	assert.Equal(t, "Jane Doe, engineer at Acme", resp.RawText)

	current, err := st.GetResume(context.Background())
	require.NoError(t, err)
	require.NotNil(t, current)
}

func TestParse_NoFileIs400(t *testing.T) {
	s := newTestServer(t, newMockStore(), &mockText{}, &mockRenderer{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/parse", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestModifyResume_EmptyJobDescriptionRejected(t *testing.T) {
	text := &mockText{}
	s := newTestServer(t, newMockStore(), text, &mockRenderer{})

	resume := sampleResume()
	rec := doJSON(t, s, http.MethodPost, "/api/modify-resume", ModifyResumeRequest{Resume: &resume, JobDescription: "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, text.calls)
}

func TestModifyResume_TailoringFailureIs502(t *testing.T) {
	text := &mockText{tailorErr: &llm.TailoringError{Message: "model call failed", Cause: errors.New("quota")}}
	s := newTestServer(t, newMockStore(), text, &mockRenderer{})

	resume := sampleResume()
	rec := doJSON(t, s, http.MethodPost, "/api/modify-resume", ModifyResumeRequest{Resume: &resume, JobDescription: "jd"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestGenerateCoverLetter(t *testing.T) {
	text := &mockText{letter: "Dear hiring team, ..."}
	s := newTestServer(t, newMockStore(), text, &mockRenderer{})

	resume := sampleResume()
	rec := doJSON(t, s, http.MethodPost, "/api/generate-cover-letter", CoverLetterRequest{Resume: &resume, JobDescription: "jd", CompanyName: "Acme"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Dear hiring team, ...", decodeBody(t, rec)["coverLetter"])
}

func TestGeneratePDF_ReturnsDataURI(t *testing.T) {
	s := newTestServer(t, newMockStore(), &mockText{}, &mockRenderer{pdf: []byte("%PDF-1.4 fake")})

	resume := sampleResume()
	rec := doJSON(t, s, http.MethodPost, "/api/generate-pdf", GeneratePDFRequest{Resume: &resume})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	pdfURL, ok := body["pdfUrl"].(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(pdfURL, "data:application/pdf;base64,"))
}

func TestGeneratePDF_NeitherPayloadIs400(t *testing.T) {
	s := newTestServer(t, newMockStore(), &mockText{}, &mockRenderer{})

	rec := doJSON(t, s, http.MethodPost, "/api/generate-pdf", GeneratePDFRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionFlow_SubmitAndPreview(t *testing.T) {
	st := newMockStore()
	_, err := st.SaveResume(context.Background(), sampleResume(), "Uploaded resume")
	require.NoError(t, err)

	tailored := sampleResume()
	tailored.Summary = "Tailored"
	text := &mockText{tailored: &tailored, letter: "letter"}
	s := newTestServer(t, st, text, &mockRenderer{})

	rec := doJSON(t, s, http.MethodGet, "/api/session", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var snap struct {
		Session session.Snapshot `json:"session"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, session.StateAwaitingJobDescription, snap.Session.State)

	rec = doJSON(t, s, http.MethodPost, "/api/session/submit", SubmitRequest{JobDescription: "Backend role"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "letter", body["coverLetter"])

	rec = doJSON(t, s, http.MethodGet, "/api/session", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, session.StatePreview, snap.Session.State)
}

func TestSessionSubmit_EmptyJobDescriptionIs400(t *testing.T) {
	st := newMockStore()
	_, err := st.SaveResume(context.Background(), sampleResume(), "")
	require.NoError(t, err)

	text := &mockText{}
	s := newTestServer(t, st, text, &mockRenderer{})

	rec := doJSON(t, s, http.MethodPost, "/api/session/submit", SubmitRequest{JobDescription: " "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, text.calls)
}

func TestSessionEdit_InvalidPathIs400(t *testing.T) {
	st := newMockStore()
	_, err := st.SaveResume(context.Background(), sampleResume(), "")
	require.NoError(t, err)

	s := newTestServer(t, st, &mockText{}, &mockRenderer{})

	rec := doJSON(t, s, http.MethodPost, "/api/session/edit", map[string]any{"op": "replace", "path": "nonsense", "value": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionRestore_UnknownIDIs404(t *testing.T) {
	s := newTestServer(t, newMockStore(), &mockText{}, &mockRenderer{})

	rec := doJSON(t, s, http.MethodPost, "/api/session/restore", RestoreRequest{ID: 42})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, newMockStore(), &mockText{}, &mockRenderer{})

	rec := doJSON(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
