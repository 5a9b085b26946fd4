package rendering

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"

	"github.com/jonathan/resume-builder/internal/types"
)

// Renderer converts HTML into PDF bytes using headless Chrome.
type Renderer struct {
	chromePath string
	timeout    time.Duration
}

// NewRenderer creates a renderer. chromePath may be empty to use the Chrome
// found on PATH.
func NewRenderer(chromePath string) *Renderer {
	return &Renderer{
		chromePath: chromePath,
		timeout:    60 * time.Second,
	}
}

// RenderResume produces a PDF of the resume.
func (r *Renderer) RenderResume(ctx context.Context, resume types.Resume) ([]byte, error) {
	html, err := ResumeHTML(resume)
	if err != nil {
		return nil, err
	}
	return r.htmlToPDF(ctx, html)
}

// RenderCoverLetter produces a PDF of a plain-text cover letter.
func (r *Renderer) RenderCoverLetter(ctx context.Context, text string) ([]byte, error) {
	html, err := CoverLetterHTML(text)
	if err != nil {
		return nil, err
	}
	return r.htmlToPDF(ctx, html)
}

func (r *Renderer) htmlToPDF(ctx context.Context, html string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.chromePath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	chromeCtx, cancelChrome := chromedp.NewContext(allocCtx)
	defer cancelChrome()

	runCtx, cancelRun := context.WithTimeout(chromeCtx, r.timeout)
	defer cancelRun()

	// Chrome loads the page from a temp file; file:// navigation is the
	// reliable way to get print-accurate CSS page sizing.
	tmpDir, err := os.MkdirTemp("", "resume-render-")
	if err != nil {
		return nil, &RenderError{Message: "failed to create temp dir", Cause: err}
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, uuid.New().String()+".html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return nil, &RenderError{Message: "failed to write HTML", Cause: err}
	}

	var pdf []byte
	err = chromedp.Run(runCtx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4 in inches.
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, &RenderError{Message: "headless Chrome failed", Cause: err}
	}
	return pdf, nil
}
