package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ppiankov/veritas/internal/model"
)

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai" or "" (disabled)
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI
	APIKey string

	// BaseURL for custom endpoints (OpenAI-compatible servers)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Timeout:   30,
		MaxTokens: 800,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config; zero values keep the defaults
func ConfigFromModel(m model.LLMConfig) Config {
	config := DefaultConfig()
	config.Provider = m.Provider
	config.Model = m.Model
	config.APIKey = m.APIKey
	config.BaseURL = m.BaseURL
	if m.Timeout > 0 {
		config.Timeout = m.Timeout
	}
	if m.MaxTokens > 0 {
		config.MaxTokens = m.MaxTokens
	}
	return config
}

// maxPromptChars keeps long articles within a modest token budget
const maxPromptChars = 6000

// systemPrompt fixes the JSON shape the model must answer with
const systemPrompt = `You assess the credibility of news text. Answer with a single JSON object and nothing else:
{
  "is_likely_fake": boolean,
  "credibility_score": number between 0 and 1 (1 = highly credible),
  "classification": {"label": "reliable" | "unreliable" | "satire" | "opinion", "confidence": number 0-1},
  "sentiment": {"label": "positive" | "neutral" | "negative", "confidence": number 0-1},
  "fact_checks": [{"title": string, "url": string}]
}
Only list fact_checks you are certain exist. Use an empty list otherwise.`

// BuildPrompt constructs the user message for a text analysis
func BuildPrompt(in model.TextInput) string {
	text := in.Text
	if runes := []rune(text); len(runes) > maxPromptChars {
		text = string(runes[:maxPromptChars])
	}

	var b strings.Builder
	if in.Title != "" {
		fmt.Fprintf(&b, "Title: %s\n", in.Title)
	}
	if in.SourceURL != "" {
		fmt.Fprintf(&b, "Source: %s\n", in.SourceURL)
	}
	b.WriteString("Text:\n")
	b.WriteString(text)
	return b.String()
}

// assessment mirrors the JSON object requested in systemPrompt
type assessment struct {
	IsLikelyFake     bool              `json:"is_likely_fake"`
	CredibilityScore *float64          `json:"credibility_score"`
	Classification   model.Label       `json:"classification"`
	Sentiment        model.Label       `json:"sentiment"`
	FactChecks       []model.FactCheck `json:"fact_checks"`
}

// ParseAssessment decodes a model reply into a TextResult
func ParseAssessment(content string, in model.TextInput) (*model.TextResult, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var a assessment
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &a); err != nil {
		return nil, fmt.Errorf("decode assessment: %w", err)
	}
	if a.CredibilityScore == nil {
		return nil, fmt.Errorf("assessment missing credibility_score")
	}

	return &model.TextResult{
		Excerpt:          model.Excerpt(in.Text),
		SourceURL:        in.SourceURL,
		IsLikelyFake:     a.IsLikelyFake,
		CredibilityScore: clamp01(*a.CredibilityScore),
		Classification:   clampLabel(a.Classification),
		Sentiment:        clampLabel(a.Sentiment),
		FactChecks:       validFactChecks(a.FactChecks),
	}, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampLabel(l model.Label) model.Label {
	l.Confidence = clamp01(l.Confidence)
	return l
}

// validFactChecks drops entries without an http(s) URL
func validFactChecks(in []model.FactCheck) []model.FactCheck {
	out := make([]model.FactCheck, 0, len(in))
	for _, fc := range in {
		if strings.HasPrefix(fc.URL, "https://") || strings.HasPrefix(fc.URL, "http://") {
			out = append(out, fc)
		}
	}
	return out
}
