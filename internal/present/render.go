package present

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/ppiankov/veritas/internal/model"
)

var funcs = template.FuncMap{
	"badge":      Badge,
	"badgeStyle": BadgeStyle,
}

var resultTmpl = template.Must(template.New("result").Funcs(funcs).Parse(
	`<div class="analysis-result" data-kind="{{.Kind}}">
  <div class="score-circle" style="background: conic-gradient(var(--success) 0% {{.Percent}}%, var(--light) {{.Percent}}% 100%)">
    <span class="score">{{.PercentText}}</span>
  </div>
  <span class="badge bg-{{.Style}}">{{.VerdictLabel}}</span>
  <h5 class="result-title">{{.Title}}</h5>
{{- if .Summary}}
  <p class="result-summary">{{.Summary}}</p>
{{- end}}
{{- if .Details}}
  <ul class="result-details">
{{- range .Details}}
    <li><strong>{{.Label}}:</strong> {{.Value}}</li>
{{- end}}
  </ul>
{{- end}}
{{- if .Links}}
  <ul class="fact-checks">
{{- range .Links}}
    <li><a href="{{.URL}}" target="_blank" rel="noopener">{{.Value}}</a></li>
{{- end}}
  </ul>
{{- end}}
{{- if .Indicators}}
  <ul class="indicators">
{{- range .Indicators}}
    <li>{{.}}</li>
{{- end}}
  </ul>
{{- end}}
</div>
`))

var historyTmpl = template.Must(template.New("history").Funcs(funcs).Parse(
	`<ul class="history">
{{- range .}}
  <li class="history-item" data-kind="{{.Kind}}"><span class="history-label">{{.Label}}</span> <span class="badge bg-{{badgeStyle .}}">{{badge .}}</span></li>
{{- else}}
  <li class="history-empty">No analyses yet</li>
{{- end}}
</ul>
`))

// RenderHTML writes the result panel as an HTML fragment
func RenderHTML(w io.Writer, rm *RenderModel) error {
	if err := resultTmpl.Execute(w, rm); err != nil {
		return fmt.Errorf("render result html: %w", err)
	}
	return nil
}

// RenderHistoryHTML writes the history list as an HTML fragment
func RenderHistoryHTML(w io.Writer, history []model.HistoryEntry) error {
	if err := historyTmpl.Execute(w, history); err != nil {
		return fmt.Errorf("render history html: %w", err)
	}
	return nil
}

// RenderJSON writes the render model as indented JSON
func RenderJSON(w io.Writer, rm *RenderModel) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rm); err != nil {
		return fmt.Errorf("render json: %w", err)
	}
	return nil
}

// RenderHistoryJSON writes the history list as indented JSON
func RenderHistoryJSON(w io.Writer, history []model.HistoryEntry) error {
	if history == nil {
		history = []model.HistoryEntry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(history); err != nil {
		return fmt.Errorf("render history json: %w", err)
	}
	return nil
}

// RenderText writes a terminal summary of the result
func RenderText(w io.Writer, rm *RenderModel) error {
	var b strings.Builder

	b.WriteString("═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(&b, "  %s\n", strings.ToUpper(kindTitle(rm.Kind)))
	b.WriteString("═══════════════════════════════════════════════════════════\n\n")
	fmt.Fprintf(&b, "  %s\n\n", rm.Title)
	fmt.Fprintf(&b, "  %s:  %s\n", scoreTitle(rm.Kind), rm.PercentText)
	fmt.Fprintf(&b, "  Verdict:  %s %s\n", styleMark(rm.Style), rm.VerdictLabel)

	if rm.Summary != "" && rm.Summary != rm.Title {
		fmt.Fprintf(&b, "\n  %s\n", rm.Summary)
	}
	if len(rm.Details) > 0 {
		b.WriteString("\n")
		for _, d := range rm.Details {
			fmt.Fprintf(&b, "  %-16s %s\n", d.Label+":", d.Value)
		}
	}
	if len(rm.Links) > 0 {
		b.WriteString("\n  Fact checks:\n")
		for _, l := range rm.Links {
			fmt.Fprintf(&b, "    - %s: %s\n", l.Value, l.URL)
		}
	}
	if len(rm.Indicators) > 0 {
		b.WriteString("\n  Indicators:\n")
		for _, ind := range rm.Indicators {
			fmt.Fprintf(&b, "    - %s\n", ind)
		}
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderHistoryText writes the history list, newest first
func RenderHistoryText(w io.Writer, history []model.HistoryEntry) error {
	var b strings.Builder
	b.WriteString("Recent analyses:\n")
	if len(history) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, e := range history {
		fmt.Fprintf(&b, "  %s %-14s %s\n", styleMark(BadgeStyle(e)), Badge(e), e.Label)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func kindTitle(k model.Kind) string {
	if k == model.KindMedia {
		return "Media Analysis"
	}
	return "Article Analysis"
}

func scoreTitle(k model.Kind) string {
	if k == model.KindMedia {
		return "Manipulation"
	}
	return "Credibility"
}

func styleMark(style string) string {
	switch style {
	case "success":
		return "✓"
	case "warning":
		return "!"
	default:
		return "✗"
	}
}
