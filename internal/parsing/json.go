package parsing

import (
	_ "embed"
	"encoding/json"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/resume-builder/internal/types"
)

//go:embed resume_schema.json
var resumeSchemaJSON string

// parseJSON decodes a structured resume upload. The document is checked
// against the resume JSON Schema first so the user gets field-level messages
// for malformed input, then decoded and run through struct validation.
func (p *Parser) parseJSON(data []byte) (*types.Resume, error) {
	schemaLoader := gojsonschema.NewStringLoader(resumeSchemaJSON)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, &ParseError{Message: "invalid JSON format", Cause: err}
	}
	if !result.Valid() {
		var sb strings.Builder
		sb.WriteString("invalid resume JSON:")
		for _, desc := range result.Errors() {
			sb.WriteString(" ")
			sb.WriteString(desc.String())
			sb.WriteString(";")
		}
		return nil, &ParseError{Message: strings.TrimSuffix(sb.String(), ";")}
	}

	var resume types.Resume
	if err := json.Unmarshal(data, &resume); err != nil {
		return nil, &ParseError{Message: "invalid JSON format", Cause: err}
	}

	if err := p.validate.Struct(resume); err != nil {
		return nil, &ParseError{Message: "resume JSON is missing required personalInfo fields", Cause: err}
	}

	return &resume, nil
}
