package session

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-builder/internal/editor"
	"github.com/jonathan/resume-builder/internal/parsing"
	"github.com/jonathan/resume-builder/internal/store"
	"github.com/jonathan/resume-builder/internal/types"
)

// State identifies where the session is in the upload-to-preview lifecycle.
type State string

const (
	StateUpload                 State = "upload"
	StateParsing                State = "parsing"
	StateAwaitingJobDescription State = "awaiting_job_description"
	StateOptimizing             State = "optimizing"
	StatePreview                State = "preview"
)

// backgroundSaveTimeout bounds the best-effort save issued after a parse.
const backgroundSaveTimeout = 15 * time.Second

// Parser extracts resume content from an uploaded file.
type Parser interface {
	Parse(filename string, data []byte) (*parsing.Result, error)
}

// TextService is the set of LLM collaborators the controller drives.
type TextService interface {
	StructureResume(ctx context.Context, rawText string) (*types.Resume, error)
	TailorResume(ctx context.Context, resume types.Resume, jobDescription string) (*types.Resume, error)
	GenerateCoverLetter(ctx context.Context, resume types.Resume, jobDescription, companyName string) (string, error)
}

// Controller owns the single logical session: at most one original resume
// (from load, parse, or restore) and at most one pending edited copy. The
// pending copy, when present, is authoritative for tailoring and saving.
type Controller struct {
	id     uuid.UUID
	store  store.Store
	parser Parser
	text   TextService

	mu          sync.Mutex
	state       State
	original    *types.Resume
	pending     *types.Resume
	tailored    *types.Resume
	coverLetter string

	bg sync.WaitGroup
}

// Snapshot is a point-in-time view of the session for the HTTP layer. Resume
// fields are deep copies; mutating them does not affect the session.
type Snapshot struct {
	SessionID   string        `json:"sessionId"`
	State       State         `json:"state"`
	Original    *types.Resume `json:"original,omitempty"`
	Pending     *types.Resume `json:"pending,omitempty"`
	Tailored    *types.Resume `json:"tailored,omitempty"`
	CoverLetter string        `json:"coverLetter,omitempty"`
}

// New creates a controller. If a current resume already exists in storage the
// session begins at AwaitingJobDescription with it as the original; otherwise
// it begins at Upload.
func New(ctx context.Context, st store.Store, parser Parser, text TextService) (*Controller, error) {
	c := &Controller{
		id:     uuid.New(),
		store:  st,
		parser: parser,
		text:   text,
		state:  StateUpload,
	}

	stored, err := st.GetResume(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load current resume: %w", err)
	}
	if stored != nil {
		resume := stored.Data.Clone()
		c.original = &resume
		c.state = StateAwaitingJobDescription
	}
	return c, nil
}

// ID returns the session identity used in logs and snapshots.
func (c *Controller) ID() string {
	return c.id.String()
}

// Wait blocks until background saves have finished. Called at shutdown.
func (c *Controller) Wait() {
	c.bg.Wait()
}

// Snapshot returns a copy of the session state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		SessionID:   c.id.String(),
		State:       c.state,
		Original:    cloneOf(c.original),
		Pending:     cloneOf(c.pending),
		Tailored:    cloneOf(c.tailored),
		CoverLetter: c.coverLetter,
	}
}

// Upload parses an uploaded file, structures it if needed, and moves the
// session to AwaitingJobDescription. The parsed resume is saved best-effort
// in the background with the label "Uploaded resume"; a save failure is
// logged, never surfaced. A parse or structuring failure returns the session
// to Upload with no state retained.
func (c *Controller) Upload(ctx context.Context, filename string, data []byte) (*types.Resume, string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateUpload {
		return nil, "", &ValidationError{Message: "a resume is already loaded; clear it before uploading another"}
	}
	c.state = StateParsing

	result, err := c.parser.Parse(filename, data)
	if err != nil {
		c.state = StateUpload
		return nil, "", err
	}

	resume := result.Resume
	if resume == nil {
		resume, err = c.text.StructureResume(ctx, result.RawText)
		if err != nil {
			c.state = StateUpload
			return nil, "", err
		}
	}

	c.original = resume
	c.pending = nil
	c.tailored = nil
	c.coverLetter = ""
	c.state = StateAwaitingJobDescription

	c.saveInBackground(resume.Clone(), "Uploaded resume")

	return resume, result.RawText, nil
}

// ApplyEdit runs one edit instruction against the working copy (pending if
// present, else original) and stores the result as the new pending copy. It
// never saves by itself. The returned resume is the working copy after the
// edit; changed reports whether the edit had any effect.
func (c *Controller) ApplyEdit(ins editor.Instruction) (*types.Resume, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateAwaitingJobDescription {
		return nil, false, &ValidationError{Message: "edits are only accepted while awaiting a job description"}
	}

	base := c.workingCopy()
	if base == nil {
		return nil, false, &ValidationError{Message: "no resume loaded"}
	}

	edited, changed, err := editor.Apply(*base, ins)
	if err != nil {
		return nil, false, err
	}
	if changed {
		c.pending = &edited
	}
	result := edited.Clone()
	return &result, changed, nil
}

// SaveAsBase synchronously saves the working copy with the label "Manual
// save" and promotes it to the original, clearing pending. A storage failure
// leaves original and pending untouched so the edits remain available.
func (c *Controller) SaveAsBase(ctx context.Context) (*store.StoredResume, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateAwaitingJobDescription {
		return nil, &ValidationError{Message: "nothing to save in the current state"}
	}
	working := c.workingCopy()
	if working == nil {
		return nil, &ValidationError{Message: "no resume loaded"}
	}

	stored, err := c.store.SaveResume(ctx, *working, "Manual save")
	if err != nil {
		return nil, err
	}

	c.original = working
	c.pending = nil
	return stored, nil
}

// ResetEdits discards the pending copy; the original is unchanged and
// nothing is saved.
func (c *Controller) ResetEdits() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateAwaitingJobDescription {
		return &ValidationError{Message: "no edits to reset in the current state"}
	}
	c.pending = nil
	return nil
}

// Submit tailors the working copy to the job description and generates a
// cover letter, concurrently. A tailoring failure reverts the session to
// AwaitingJobDescription with no partial result; a cover-letter failure
// alone is logged and the session still reaches Preview without a letter.
func (c *Controller) Submit(ctx context.Context, jobDescription, companyName string) (*types.Resume, string, error) {
	c.mu.Lock()
	if c.state != StateAwaitingJobDescription {
		c.mu.Unlock()
		return nil, "", &ValidationError{Message: "submit is only accepted while awaiting a job description"}
	}
	if strings.TrimSpace(jobDescription) == "" {
		c.mu.Unlock()
		return nil, "", &ValidationError{Message: "job description is required"}
	}
	working := c.workingCopy()
	if working == nil {
		c.mu.Unlock()
		return nil, "", &ValidationError{Message: "no resume loaded"}
	}
	snapshot := working.Clone()
	c.state = StateOptimizing
	c.mu.Unlock()

	var (
		tailored  *types.Resume
		letter    string
		letterErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := c.text.TailorResume(gctx, snapshot, jobDescription)
		if err != nil {
			return err
		}
		tailored = r
		return nil
	})
	g.Go(func() error {
		l, err := c.text.GenerateCoverLetter(gctx, snapshot, jobDescription, companyName)
		if err != nil {
			letterErr = err
			return nil
		}
		letter = l
		return nil
	})
	err := g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()

	// The session may have been cleared while the model calls were running.
	if c.state != StateOptimizing {
		return nil, "", &ValidationError{Message: "session changed while optimizing; submit again"}
	}
	if err != nil {
		c.state = StateAwaitingJobDescription
		return nil, "", err
	}
	if letterErr != nil {
		log.Printf("session %s: cover letter generation failed: %v", c.id, letterErr)
	}

	c.tailored = tailored
	c.coverLetter = letter
	c.state = StatePreview
	result := tailored.Clone()
	return &result, letter, nil
}

// NewJobDescription returns from Preview to AwaitingJobDescription, clearing
// the tailored resume and cover letter. The original and pending copies are
// kept.
func (c *Controller) NewJobDescription() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StatePreview {
		return &ValidationError{Message: "no preview to discard in the current state"}
	}
	c.tailored = nil
	c.coverLetter = ""
	c.state = StateAwaitingJobDescription
	return nil
}

// RestoreFromHistory replaces the original with a history entry's data,
// clears pending, and saves the restored resume with a provenance label.
// Allowed from any state. A storage failure leaves the in-memory state
// untouched.
func (c *Controller) RestoreFromHistory(ctx context.Context, id int64) (*types.Resume, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, err := c.store.GetHistoryEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, &NotFoundError{Message: fmt.Sprintf("history entry %d does not exist", id)}
	}

	label := fmt.Sprintf("Restored from history #%d", id)
	if entry.Label != "" {
		label = fmt.Sprintf("Restored from %q", entry.Label)
	}

	if _, err := c.store.SaveResume(ctx, entry.Data, label); err != nil {
		return nil, err
	}

	restored := entry.Data.Clone()
	c.original = &restored
	c.pending = nil
	c.tailored = nil
	c.coverLetter = ""
	c.state = StateAwaitingJobDescription

	result := restored.Clone()
	return &result, nil
}

// ClearSaved deletes the current slot from storage and wipes all in-memory
// resume state, returning the session to Upload. History is kept. Allowed
// from any state. A storage failure leaves the in-memory state untouched.
func (c *Controller) ClearSaved(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.DeleteResume(ctx); err != nil {
		return err
	}

	c.original = nil
	c.pending = nil
	c.tailored = nil
	c.coverLetter = ""
	c.state = StateUpload
	return nil
}

// workingCopy is pending if present, else original. Callers must hold the
// mutex.
func (c *Controller) workingCopy() *types.Resume {
	if c.pending != nil {
		return c.pending
	}
	return c.original
}

func (c *Controller) saveInBackground(resume types.Resume, label string) {
	c.bg.Add(1)
	go func() {
		defer c.bg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), backgroundSaveTimeout)
		defer cancel()
		if _, err := c.store.SaveResume(ctx, resume, label); err != nil {
			log.Printf("session %s: best-effort save %q failed: %v", c.id, label, err)
		}
	}()
}

func cloneOf(r *types.Resume) *types.Resume {
	if r == nil {
		return nil
	}
	clone := r.Clone()
	return &clone
}
