package present

import (
	"errors"
	"fmt"

	"github.com/ppiankov/veritas/internal/analyze"
	"github.com/ppiankov/veritas/internal/model"
	"github.com/ppiankov/veritas/internal/score"
	"github.com/ppiankov/veritas/internal/session"
	"github.com/ppiankov/veritas/internal/validate"
)

// Generic notices shown instead of error details
const (
	NoticeRemoteFailure  = "Error analyzing media. Please try again."
	NoticeGenericFailure = "Analysis failed. Please try again."
)

// Detail is one supporting line of a rendered result
type Detail struct {
	Label string
	Value string
	URL   string `json:",omitempty"`
}

// RenderModel is the display structure for one analysis
type RenderModel struct {
	Kind         model.Kind
	Title        string
	Score        float64 // Raw score the percentage is derived from
	Percent      float64
	PercentText  string
	Verdict      score.Verdict
	VerdictLabel string
	Style        string
	Summary      string `json:",omitempty"`
	Details      []Detail
	Links        []Detail `json:",omitempty"`
	Indicators   []string `json:",omitempty"`
	History      model.HistoryEntry
}

// Presenter turns analysis results into render models and keeps the
// session history. It must only be used from the goroutine owning the session.
type Presenter struct {
	session *session.Session
	text    score.TextPolicy
	media   score.MediaPolicy
}

// New creates a presenter bound to a session
func New(sess *session.Session, thresholds model.ThresholdsConfig) *Presenter {
	if sess == nil {
		sess = session.New()
	}
	return &Presenter{
		session: sess,
		text:    score.NewTextPolicy(thresholds.Text),
		media:   score.NewMediaPolicy(thresholds.Media),
	}
}

// Session returns the session owned by the presenter
func (p *Presenter) Session() *session.Session {
	return p.session
}

// Present renders a result and prepends its history entry.
// Media results switch the session to the media tab.
func (p *Presenter) Present(r model.Result) (*RenderModel, error) {
	rm, err := p.Render(r)
	if err != nil {
		return nil, err
	}

	p.session.Prepend(rm.History)
	if rm.Kind == model.KindMedia {
		p.session.SetTab(session.TabMedia)
	} else {
		p.session.SetTab(session.TabArticle)
	}

	return rm, nil
}

// Render builds the display structure without touching the session
func (p *Presenter) Render(r model.Result) (*RenderModel, error) {
	switch v := r.(type) {
	case *model.TextResult:
		if v == nil {
			return nil, errors.New("nil text result")
		}
		return p.renderText(v), nil
	case *model.MediaResult:
		if v == nil {
			return nil, errors.New("nil media result")
		}
		return p.renderMedia(v), nil
	default:
		return nil, fmt.Errorf("unsupported result type %T", r)
	}
}

func (p *Presenter) renderText(r *model.TextResult) *RenderModel {
	verdict := p.text.Verdict(r.CredibilityScore)
	percent := score.Percent1(r.CredibilityScore)

	title := r.Excerpt
	if r.SourceURL != "" {
		title = r.SourceURL
	}

	rm := &RenderModel{
		Kind:         model.KindText,
		Title:        title,
		Score:        r.CredibilityScore,
		Percent:      percent,
		PercentText:  fmt.Sprintf("%.1f%%", percent),
		Verdict:      verdict,
		VerdictLabel: p.text.Label(verdict),
		Style:        verdict.Style(),
		Summary:      r.Excerpt,
		Details: []Detail{
			{Label: "Classification", Value: labelValue(r.Classification)},
			{Label: "Sentiment", Value: labelValue(r.Sentiment)},
		},
		History: model.HistoryEntryFor(r),
	}

	for _, fc := range r.FactChecks {
		rm.Links = append(rm.Links, Detail{Label: "Fact check", Value: fc.Title, URL: fc.URL})
	}

	return rm
}

func (p *Presenter) renderMedia(r *model.MediaResult) *RenderModel {
	verdict := p.media.Verdict(r.ManipulationScore)
	percent := float64(score.PercentInt(r.ManipulationScore))

	rm := &RenderModel{
		Kind:         model.KindMedia,
		Title:        r.Filename,
		Score:        r.ManipulationScore,
		Percent:      percent,
		PercentText:  fmt.Sprintf("%.0f%%", percent),
		Verdict:      verdict,
		VerdictLabel: p.media.Label(verdict),
		Style:        verdict.Style(),
		Summary:      r.AnalysisSummary,
		Indicators:   append([]string(nil), r.Indicators...),
		History:      model.HistoryEntryFor(r),
	}

	if r.MediaType != "" {
		rm.Details = append(rm.Details, Detail{Label: "Type", Value: string(r.MediaType)})
	}
	if r.FramesAnalyzed > 0 {
		rm.Details = append(rm.Details, Detail{Label: "Frames analyzed", Value: fmt.Sprintf("%d", r.FramesAnalyzed)})
	}

	return rm
}

func labelValue(l model.Label) string {
	if l.Label == "" {
		return "n/a"
	}
	return fmt.Sprintf("%s (%d%%)", l.Label, score.PercentInt(l.Confidence))
}

// Notice converts an analysis error into the message shown to the user and
// records it on the session. Remote failures never expose their cause.
func (p *Presenter) Notice(err error) string {
	if err == nil {
		return ""
	}

	var msg string
	var ve *validate.Error
	switch {
	case errors.As(err, &ve):
		msg = ve.Message
	case errors.Is(err, analyze.ErrRemoteAnalysis):
		msg = NoticeRemoteFailure
	default:
		msg = NoticeGenericFailure
	}

	p.session.Notify(msg)
	return msg
}

// Badge is the history badge text, e.g. "42% Fake" or "73% Authentic"
func Badge(e model.HistoryEntry) string {
	verdict := "Authentic"
	if e.IsFake {
		verdict = "Fake"
	}
	return fmt.Sprintf("%d%% %s", score.PercentInt(e.Score), verdict)
}

// BadgeStyle is the badge style of a history entry
func BadgeStyle(e model.HistoryEntry) string {
	if e.IsFake {
		return score.VerdictFake.Style()
	}
	return score.VerdictAuthentic.Style()
}
