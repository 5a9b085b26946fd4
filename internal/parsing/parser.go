// Package parsing extracts resume content from uploaded files. PDF, TXT and
// HTML uploads yield raw text for downstream structuring; JSON uploads are
// decoded and validated into a structured resume directly.
package parsing

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-builder/internal/types"
)

// DefaultMaxFileSize caps uploads at 10MB, matching the original tool.
const DefaultMaxFileSize = 10 * 1024 * 1024

// Result is the outcome of parsing an upload. RawText is always set; Resume
// is non-nil only for structured (JSON) uploads, which skip the LLM
// structuring step.
type Result struct {
	RawText string
	Resume  *types.Resume
}

// Parser dispatches uploads to the extractor for their file type.
type Parser struct {
	maxFileSize int64
	validate    *validator.Validate
}

// New creates a parser. maxFileSize <= 0 selects the default 10MB cap.
func New(maxFileSize int64) *Parser {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &Parser{
		maxFileSize: maxFileSize,
		validate:    validator.New(),
	}
}

// Parse extracts resume content from an uploaded file, dispatching on the
// filename extension. Supported types: .pdf, .txt, .json, .html.
func (p *Parser) Parse(filename string, data []byte) (*Result, error) {
	if len(data) == 0 {
		return nil, &ParseError{Message: "no file content provided"}
	}
	if int64(len(data)) > p.maxFileSize {
		return nil, &ParseError{Message: fmt.Sprintf("file size exceeds %dMB limit", p.maxFileSize/(1024*1024))}
	}

	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")) {
	case "pdf":
		text, err := extractPDFText(data)
		if err != nil {
			return nil, err
		}
		return &Result{RawText: text}, nil

	case "txt":
		if !utf8.Valid(data) {
			return nil, &ParseError{Message: "text file is not valid UTF-8"}
		}
		text := strings.TrimSpace(string(data))
		if text == "" {
			return nil, &ParseError{Message: "text file is empty"}
		}
		return &Result{RawText: text}, nil

	case "json":
		resume, err := p.parseJSON(data)
		if err != nil {
			return nil, err
		}
		pretty, _ := json.MarshalIndent(resume, "", "  ")
		return &Result{RawText: string(pretty), Resume: resume}, nil

	case "html", "htm":
		text, err := extractHTMLText(data)
		if err != nil {
			return nil, err
		}
		return &Result{RawText: text}, nil
	}

	return nil, &ParseError{Message: "unsupported file type; please upload PDF, TXT, JSON, or HTML"}
}
