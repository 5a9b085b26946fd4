package parsing

import (
	"bytes"
	"strings"

	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

// extractPDFText pulls the text layer out of a PDF, page by page. Pages that
// fail to extract are skipped; a PDF yielding no text at all (a scanned
// image) is a ParseError.
func extractPDFText(data []byte) (string, error) {
	reader, err := model.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return "", &ParseError{Message: "failed to read PDF", Cause: err}
	}

	numPages, err := reader.GetNumPages()
	if err != nil {
		return "", &ParseError{Message: "failed to get PDF page count", Cause: err}
	}
	if numPages == 0 {
		return "", &ParseError{Message: "PDF has no pages"}
	}

	var sb strings.Builder
	for i := 1; i <= numPages; i++ {
		page, err := reader.GetPage(i)
		if err != nil {
			continue
		}
		ex, err := extractor.New(page)
		if err != nil {
			continue
		}
		pageText, err := ex.ExtractText()
		if err != nil {
			continue
		}
		if pageText != "" {
			sb.WriteString(pageText)
			sb.WriteString("\n\n")
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", &ParseError{Message: "PDF contains no extractable text; please upload a text-based PDF, not a scanned image"}
	}
	return text, nil
}
