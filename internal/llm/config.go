// Package llm provides the language-model collaborators for resume
// structuring, tailoring, and cover-letter generation.
package llm

// ModelTier represents the capability level requested for a task.
type ModelTier string

const (
	// TierLite is for simple tasks: extraction, basic summarization.
	TierLite ModelTier = "lite"
	// TierStandard is for moderate reasoning: structuring, cover letters.
	TierStandard ModelTier = "standard"
	// TierAdvanced is for complex reasoning: resume tailoring.
	TierAdvanced ModelTier = "advanced"
)

// Config holds the model selection per tier.
type Config struct {
	Models map[ModelTier]string
}

// DefaultConfig returns the default Gemini model mapping.
func DefaultConfig() *Config {
	return &Config{
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// GetModel returns the model name for a tier, falling back to standard and
// then lite when the tier is not configured.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}
