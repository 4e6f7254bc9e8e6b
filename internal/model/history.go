package model

import "strings"

// MaxHistoryLabelLen caps the label shown in the history list
const MaxHistoryLabelLen = 50

// FakeScoreThreshold splits history entries into fake and authentic.
// Fixed, unlike the per-kind verdict thresholds.
const FakeScoreThreshold = 0.5

// HistoryEntry is a condensed record of one past analysis
type HistoryEntry struct {
	Kind   Kind    `json:"kind"`
	Label  string  `json:"label"`
	Score  float64 `json:"score"` // Authenticity, 0-1
	IsFake bool    `json:"is_fake"`
}

// NewHistoryEntry builds an entry with a truncated label and derived IsFake
func NewHistoryEntry(kind Kind, label string, score float64) HistoryEntry {
	label = strings.TrimSpace(label)
	return HistoryEntry{
		Kind:   kind,
		Label:  truncateRunes(label, MaxHistoryLabelLen),
		Score:  score,
		IsFake: score < FakeScoreThreshold,
	}
}

// HistoryEntryFor condenses a result. Media results are recorded by
// authenticity (1 - manipulation) so IsFake keeps a single meaning.
func HistoryEntryFor(r Result) HistoryEntry {
	switch v := r.(type) {
	case *TextResult:
		label := v.Excerpt
		if v.SourceURL != "" {
			label = v.SourceURL
		}
		return NewHistoryEntry(KindText, label, v.CredibilityScore)
	case *MediaResult:
		return NewHistoryEntry(KindMedia, v.Filename, 1-v.ManipulationScore)
	default:
		return HistoryEntry{}
	}
}
