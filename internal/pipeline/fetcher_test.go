package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/veritas/internal/model"
)

const articleHTML = `<html><head><title>Page Title</title>
<meta property="og:title" content="  Council Approves Budget "></head>
<body><nav><p>Menu item</p></nav>
<article><p>The city council approved the budget on Tuesday.</p>
<p>Officials said   spending on parks will rise.</p></article>
<script>var x = 1;</script></body></html>`

func testConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.HTTP.Timeout = 5 * time.Second
	cfg.HTTP.RespectRobots = false
	cfg.RateLimiting.RequestsPerSecond = 0
	return cfg
}

func TestFetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); !strings.HasPrefix(ua, "Veritas/") {
			t.Errorf("Unexpected User-Agent: %s", ua)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = fmt.Fprint(w, articleHTML)
	}))
	defer server.Close()

	article, err := NewFetcher(testConfig(), nil).Fetch(context.Background(), server.URL+"/news/budget")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if article.Title != "Council Approves Budget" {
		t.Errorf("Unexpected title: %q", article.Title)
	}
	want := "The city council approved the budget on Tuesday.\n\nOfficials said spending on parks will rise."
	if article.Text != want {
		t.Errorf("Unexpected text: %q", article.Text)
	}
}

func TestFetch_FailureNotRetried(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	fetcher := NewFetcher(testConfig(), nil)
	_, err := fetcher.Fetch(context.Background(), server.URL)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected 503 status error, got %v", err)
	}
	if attempts.Load() != 1 {
		t.Errorf("Expected a single attempt, got %d", attempts.Load())
	}

	// Failures are not cached
	_, _ = fetcher.Fetch(context.Background(), server.URL)
	if attempts.Load() != 2 {
		t.Errorf("Expected a fresh attempt after failure, got %d", attempts.Load())
	}
}

func TestFetch_Cached(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		_, _ = fmt.Fprint(w, articleHTML)
	}))
	defer server.Close()

	fetcher := NewFetcher(testConfig(), nil)
	for i := 0; i < 3; i++ {
		if _, err := fetcher.Fetch(context.Background(), server.URL); err != nil {
			t.Fatalf("Fetch %d failed: %v", i, err)
		}
	}
	if attempts.Load() != 1 {
		t.Errorf("Expected 1 request with caching, got %d", attempts.Load())
	}

	cfg := testConfig()
	cfg.Cache.Enabled = false
	uncached := NewFetcher(cfg, nil)
	_, _ = uncached.Fetch(context.Background(), server.URL)
	_, _ = uncached.Fetch(context.Background(), server.URL)
	if attempts.Load() != 3 {
		t.Errorf("Expected 3 requests total without caching, got %d", attempts.Load())
	}
}

func TestFetch_RobotsDisallowed(t *testing.T) {
	var pageHits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = fmt.Fprint(w, "User-agent: *\nDisallow: /private\n")
			return
		}
		pageHits.Add(1)
		_, _ = fmt.Fprint(w, articleHTML)
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.HTTP.RespectRobots = true
	_, err := NewFetcher(cfg, nil).Fetch(context.Background(), server.URL+"/private/story")
	if !errors.Is(err, ErrRobotsDisallowed) {
		t.Fatalf("Expected ErrRobotsDisallowed, got %v", err)
	}
	if pageHits.Load() != 0 {
		t.Errorf("Expected no page request, got %d", pageHits.Load())
	}
}

func TestExtractArticle_Charset(t *testing.T) {
	// "café" in ISO-8859-1
	body := "<html><body><p>caf\xe9 opens</p></body></html>"
	_, text, err := ExtractArticle(strings.NewReader(body), "text/html; charset=iso-8859-1", nil)
	if err != nil {
		t.Fatalf("ExtractArticle failed: %v", err)
	}
	if text != "café opens" {
		t.Errorf("Expected decoded text, got %q", text)
	}
}

func TestExtractArticle_TitleFallbacks(t *testing.T) {
	title, _, _ := ExtractArticle(strings.NewReader("<html><head><title> Plain </title></head></html>"), "text/html", nil)
	if title != "Plain" {
		t.Errorf("Expected <title> fallback, got %q", title)
	}
	title, _, _ = ExtractArticle(strings.NewReader("<html><body><h1>Heading</h1></body></html>"), "text/html", nil)
	if title != "Heading" {
		t.Errorf("Expected <h1> fallback, got %q", title)
	}
}

func TestExtractArticle_NoParagraphs(t *testing.T) {
	pageURL, _ := url.Parse("https://example.com/news/story")
	body := `<html><head><title>Story</title></head><body><div id="content">
<div>Residents gathered downtown on Saturday to protest the planned closure of the library.</div>
<div>Organizers said more than two hundred people attended the rally.</div>
</div></body></html>`

	title, text, err := ExtractArticle(strings.NewReader(body), "text/html; charset=utf-8", pageURL)
	if err != nil {
		t.Fatalf("ExtractArticle failed: %v", err)
	}
	if title != "Story" {
		t.Errorf("Unexpected title: %q", title)
	}
	if !strings.Contains(text, "planned closure of the library") {
		t.Errorf("Expected div text to be extracted, got %q", text)
	}
}

func TestSubjectFromURL(t *testing.T) {
	tests := map[string]string{
		"https://example.com/news/city-budget_2024.html": "city budget 2024",
		"https://example.com/":                           "example.com",
	}
	for in, want := range tests {
		if got := subjectFromURL(in); got != want {
			t.Errorf("subjectFromURL(%q) = %q, want %q", in, got, want)
		}
	}
}
