package llm

import (
	"fmt"
	"strings"

	"github.com/ppiankov/veritas/internal/analyze"
)

// NewTextAnalyzer creates an LLM-backed text analyzer based on configuration.
// It returns nil, nil when no provider is configured.
func NewTextAnalyzer(config Config) (analyze.TextAnalyzer, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		p, err := NewOpenAIProvider(config)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai)", config.Provider)
	}
}
