package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/veritas/internal/model"
)

// Tab is the visible panel of the checker
type Tab string

const (
	TabArticle Tab = "article"
	TabMedia   Tab = "media"
)

// Notice is a user-facing message raised during the session
type Notice struct {
	Message string
	At      time.Time
}

// Session holds the state of one page view: history, current tab,
// loading indicator and notices. It is owned by a single goroutine.
type Session struct {
	ID        string
	StartedAt time.Time

	tab     Tab
	loading model.Kind // empty when idle
	history []model.HistoryEntry
	notices []Notice
}

// New starts an empty session on the article tab
func New() *Session {
	return &Session{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		tab:       TabArticle,
	}
}

// Tab returns the current tab
func (s *Session) Tab() Tab { return s.tab }

// SetTab switches the visible panel
func (s *Session) SetTab(tab Tab) { s.tab = tab }

// StartLoading shows the loading indicator for a kind of analysis
func (s *Session) StartLoading(kind model.Kind) { s.loading = kind }

// StopLoading clears the loading indicator
func (s *Session) StopLoading() { s.loading = "" }

// Loading reports the analysis kind in progress, if any
func (s *Session) Loading() (model.Kind, bool) {
	return s.loading, s.loading != ""
}

// Prepend adds an entry at the front of the history
func (s *Session) Prepend(entry model.HistoryEntry) {
	s.history = append(s.history, model.HistoryEntry{})
	copy(s.history[1:], s.history)
	s.history[0] = entry
}

// History returns the entries, newest first. The slice is a copy.
func (s *Session) History() []model.HistoryEntry {
	out := make([]model.HistoryEntry, len(s.history))
	copy(out, s.history)
	return out
}

// Notify records a user-facing notice
func (s *Session) Notify(message string) {
	s.notices = append(s.notices, Notice{Message: message, At: time.Now().UTC()})
}

// Notices returns all notices in the order raised
func (s *Session) Notices() []Notice {
	out := make([]Notice, len(s.notices))
	copy(out, s.notices)
	return out
}
