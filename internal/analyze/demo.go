package analyze

import (
	"context"
	"math/rand/v2"
	"net/url"
	"sync"
	"time"

	"github.com/ppiankov/veritas/internal/model"
)

// demoAfter is the timer used for the artificial delay (injectable for tests)
var demoAfter = time.After

var (
	fakeIndicators = []string{
		"Inconsistent blinking pattern",
		"Audio-video sync issues",
		"Unnatural facial movements",
		"Edge artifacts around face",
		"Inconsistent lighting on face",
	}
	authenticIndicators = []string{
		"Natural facial movements",
		"Consistent audio sync",
		"Normal blinking pattern",
		"Consistent lighting across frames",
		"No visual artifacts detected",
	}
	sentimentLabels = []string{"positive", "neutral", "negative"}
)

const (
	fakeMediaSummary      = "This media shows signs of potential manipulation consistent with deepfake techniques"
	authenticMediaSummary = "This media appears to be authentic with no signs of deepfake manipulation"
)

// factCheckSites are searched with the article excerpt as the query
var factCheckSites = []struct {
	title  string
	search string
}{
	{"Snopes", "https://www.snopes.com/?s="},
	{"PolitiFact", "https://www.politifact.com/search/?q="},
	{"FactCheck.org", "https://www.factcheck.org/search/?q="},
}

// Demo fabricates results from uniform random draws.
// It stands in for a real inference service and satisfies both analyzer interfaces.
type Demo struct {
	draw          func() float64
	fakeThreshold float64
	textDelay     time.Duration
	mediaDelay    time.Duration
}

// NewDemo creates a generator from config. A zero seed draws from the global source.
func NewDemo(cfg model.DemoConfig) *Demo {
	draw := rand.Float64
	if cfg.Seed != 0 {
		r := rand.New(rand.NewPCG(uint64(cfg.Seed), uint64(cfg.Seed)))
		draw = locked(r.Float64)
	}
	return NewDemoWithSource(draw, cfg)
}

// locked serializes a draw function that is not safe for concurrent use
func locked(draw func() float64) func() float64 {
	var mu sync.Mutex
	return func() float64 {
		mu.Lock()
		defer mu.Unlock()
		return draw()
	}
}

// NewDemoWithSource creates a generator with an explicit draw function
func NewDemoWithSource(draw func() float64, cfg model.DemoConfig) *Demo {
	return &Demo{
		draw:          draw,
		fakeThreshold: cfg.FakeThreshold,
		textDelay:     cfg.TextDelay,
		mediaDelay:    cfg.MediaDelay,
	}
}

// AnalyzeText returns a randomized TextResult after the text delay
func (d *Demo) AnalyzeText(ctx context.Context, in model.TextInput) (*model.TextResult, error) {
	if err := d.wait(ctx, d.textDelay); err != nil {
		return nil, err
	}

	fake := d.draw() > d.fakeThreshold
	var score float64
	if fake {
		score = d.uniform(0.10, 0.45)
	} else {
		score = d.uniform(0.60, 1.00)
	}

	classification := model.Label{Label: "reliable", Confidence: d.uniform(0.55, 0.99)}
	if fake {
		classification.Label = "unreliable"
	}

	excerpt := model.Excerpt(in.Text)
	return &model.TextResult{
		Excerpt:          excerpt,
		SourceURL:        in.SourceURL,
		IsLikelyFake:     fake,
		CredibilityScore: score,
		Classification:   classification,
		Sentiment: model.Label{
			Label:      sentimentLabels[d.index(len(sentimentLabels))],
			Confidence: d.uniform(0.50, 0.99),
		},
		FactChecks: factChecksFor(excerpt),
	}, nil
}

// AnalyzeMedia returns a randomized MediaResult after the media delay
func (d *Demo) AnalyzeMedia(ctx context.Context, file model.MediaFile) (*model.MediaResult, error) {
	if err := d.wait(ctx, d.mediaDelay); err != nil {
		return nil, err
	}

	fake := d.draw() > d.fakeThreshold
	result := &model.MediaResult{
		Filename:     file.Name,
		MediaType:    file.MediaType(),
		IsLikelyFake: fake,
	}

	if fake {
		result.ManipulationScore = d.uniform(0.70, 0.95)
		result.Indicators = append([]string(nil), fakeIndicators...)
		result.AnalysisSummary = fakeMediaSummary
	} else {
		result.ManipulationScore = d.uniform(0.05, 0.30)
		result.Indicators = append([]string(nil), authenticIndicators...)
		result.AnalysisSummary = authenticMediaSummary
	}

	return result, nil
}

func (d *Demo) uniform(lo, hi float64) float64 {
	return lo + d.draw()*(hi-lo)
}

func (d *Demo) index(n int) int {
	i := int(d.draw() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

func (d *Demo) wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-demoAfter(delay):
		return nil
	}
}

func factChecksFor(excerpt string) []model.FactCheck {
	query := excerpt
	if runes := []rune(query); len(runes) > 80 {
		query = string(runes[:80])
	}
	checks := make([]model.FactCheck, 0, len(factCheckSites))
	for _, site := range factCheckSites {
		checks = append(checks, model.FactCheck{
			Title: site.title,
			URL:   site.search + url.QueryEscape(query),
		})
	}
	return checks
}
