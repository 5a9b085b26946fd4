package parsing

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// extractHTMLText strips markup from an HTML resume export and returns the
// visible text. Script and style content is dropped first.
func extractHTMLText(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", &ParseError{Message: "failed to parse HTML", Cause: err}
	}

	doc.Find("script, style, noscript").Remove()

	var sb strings.Builder
	doc.Find("body").Each(func(_ int, s *goquery.Selection) {
		sb.WriteString(s.Text())
	})
	if sb.Len() == 0 {
		sb.WriteString(doc.Text())
	}

	// Collapse the whitespace soup left behind by block elements.
	lines := strings.Split(sb.String(), "\n")
	var cleaned []string
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}

	text := strings.Join(cleaned, "\n")
	if text == "" {
		return "", &ParseError{Message: "HTML file contains no visible text"}
	}
	return text, nil
}
