package model

// Kind identifies which tab of the checker produced a result
type Kind string

const (
	KindText  Kind = "text"  // Article text or fetched URL
	KindMedia Kind = "media" // Image or video upload
)

// MaxExcerptLen caps the excerpt carried by a TextResult
const MaxExcerptLen = 200

// Result is an analysis result of either kind.
// Implemented by *TextResult and *MediaResult only.
type Result interface {
	Kind() Kind
	isResult()
}

// Label is a categorical prediction with its confidence
type Label struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"` // 0-1
}

// FactCheck is a link to an external fact-checking source
type FactCheck struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// TextResult is the outcome of analyzing article text
type TextResult struct {
	Excerpt          string      `json:"excerpt"`              // First MaxExcerptLen characters of the input
	SourceURL        string      `json:"source_url,omitempty"` // Set when the text was fetched from a URL
	IsLikelyFake     bool        `json:"is_likely_fake"`
	CredibilityScore float64     `json:"credibility_score"` // 0-1, higher is more credible
	Classification   Label       `json:"classification"`
	Sentiment        Label       `json:"sentiment"`
	FactChecks       []FactCheck `json:"fact_checks"`
}

// Kind returns KindText
func (r *TextResult) Kind() Kind { return KindText }

func (r *TextResult) isResult() {}

// MediaType separates still images from videos
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// MediaResult is the outcome of analyzing an uploaded image or video
type MediaResult struct {
	Filename          string    `json:"filename"`
	MediaType         MediaType `json:"media_type,omitempty"`
	IsLikelyFake      bool      `json:"is_likely_fake"`
	ManipulationScore float64   `json:"manipulation_score"` // 0-1, higher is more likely manipulated
	AnalysisSummary   string    `json:"analysis"`
	Indicators        []string  `json:"indicators"`
	FramesAnalyzed    int       `json:"frames_analyzed,omitempty"`
}

// Kind returns KindMedia
func (r *MediaResult) Kind() Kind { return KindMedia }

func (r *MediaResult) isResult() {}

// Excerpt truncates text to MaxExcerptLen runes
func Excerpt(text string) string {
	return truncateRunes(text, MaxExcerptLen)
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
