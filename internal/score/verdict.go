package score

import (
	"math"

	"github.com/ppiankov/veritas/internal/model"
)

// Verdict is the categorical reading of a score
type Verdict string

const (
	VerdictAuthentic  Verdict = "authentic"
	VerdictSuspicious Verdict = "suspicious"
	VerdictFake       Verdict = "fake"
)

// Style returns the badge style used to display the verdict
func (v Verdict) Style() string {
	switch v {
	case VerdictAuthentic:
		return "success"
	case VerdictSuspicious:
		return "warning"
	default:
		return "danger"
	}
}

// TextPolicy maps credibility (higher is better) to a verdict
type TextPolicy struct {
	Authentic  float64
	Suspicious float64
}

// NewTextPolicy builds a policy from config. A suspicious bound above the
// authentic bound is clamped, which disables the suspicious band.
func NewTextPolicy(cfg model.TextThresholds) TextPolicy {
	p := TextPolicy{Authentic: cfg.Authentic, Suspicious: cfg.Suspicious}
	if p.Suspicious > p.Authentic {
		p.Suspicious = p.Authentic
	}
	return p
}

// Verdict classifies a credibility score
func (p TextPolicy) Verdict(credibility float64) Verdict {
	switch {
	case credibility >= p.Authentic:
		return VerdictAuthentic
	case credibility >= p.Suspicious:
		return VerdictSuspicious
	default:
		return VerdictFake
	}
}

// Label is the human-readable verdict for article text
func (p TextPolicy) Label(v Verdict) string {
	switch v {
	case VerdictAuthentic:
		return "Likely Authentic"
	case VerdictSuspicious:
		return "Suspicious"
	default:
		return "Likely Fake"
	}
}

// MediaPolicy maps manipulation (higher is worse) to a verdict
type MediaPolicy struct {
	Manipulated float64
	Suspicious  float64
}

// NewMediaPolicy builds a policy from config. A suspicious bound above the
// manipulated bound is clamped, which disables the suspicious band.
func NewMediaPolicy(cfg model.MediaThresholds) MediaPolicy {
	p := MediaPolicy{Manipulated: cfg.Manipulated, Suspicious: cfg.Suspicious}
	if p.Suspicious > p.Manipulated {
		p.Suspicious = p.Manipulated
	}
	return p
}

// Verdict classifies a manipulation score
func (p MediaPolicy) Verdict(manipulation float64) Verdict {
	switch {
	case manipulation >= p.Manipulated:
		return VerdictFake
	case manipulation >= p.Suspicious:
		return VerdictSuspicious
	default:
		return VerdictAuthentic
	}
}

// Label is the human-readable verdict for media
func (p MediaPolicy) Label(v Verdict) string {
	switch v {
	case VerdictFake:
		return "Likely Manipulated"
	case VerdictSuspicious:
		return "Suspicious"
	default:
		return "Likely Authentic"
	}
}

// Percent1 converts a 0-1 score to a percentage rounded to one decimal
func Percent1(score float64) float64 {
	return math.Round(score*1000) / 10
}

// PercentInt converts a 0-1 score to a whole percentage
func PercentInt(score float64) int {
	return int(math.Round(score * 100))
}
