package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html/charset"

	"github.com/ppiankov/veritas/internal/cache"
	"github.com/ppiankov/veritas/internal/model"
	"github.com/ppiankov/veritas/internal/util"
	"github.com/ppiankov/veritas/internal/worker"
)

// ErrRobotsDisallowed is returned when robots.txt forbids fetching a page
var ErrRobotsDisallowed = errors.New("disallowed by robots.txt")

// StatusError is a non-2xx HTTP response
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d %s", e.Code, e.Status)
}

// Article is the readable content of a fetched page
type Article struct {
	URL         string
	FinalURL    string
	Title       string
	Text        string
	ContentType string
	FetchedAt   time.Time
}

// Fetcher downloads article pages and extracts their text
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *util.RobotsChecker // nil when robots.txt is ignored
	limiter    *worker.Limiter
	pages      cache.Cache[*Article] // nil when caching is disabled
	logger     *slog.Logger
}

// NewFetcher creates a Fetcher from the HTTP, cache and rate limiting config
func NewFetcher(cfg *model.Config, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := &http.Client{
		Timeout: cfg.HTTP.Timeout,
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, ""),
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 3 {
				return fmt.Errorf("stopped after 3 redirects")
			}
			return nil
		},
	}

	f := &Fetcher{
		httpClient: httpClient,
		userAgent:  cfg.HTTP.UserAgent,
		maxBytes:   cfg.HTTP.MaxBodyBytes,
		limiter:    worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize),
		logger:     logger,
	}
	if f.maxBytes <= 0 {
		f.maxBytes = model.DefaultConfig().HTTP.MaxBodyBytes
	}
	if cfg.HTTP.RespectRobots {
		f.robots = util.NewRobotsChecker(cfg.HTTP.UserAgent, httpClient)
	}
	if cfg.Cache.Enabled {
		f.pages = cache.NewMemory[*Article](cfg.Cache.TTL, 2*cfg.Cache.TTL)
	}
	return f
}

// Fetch returns the article at rawURL, from cache when possible.
// A failed fetch is reported once and never repeated.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Article, error) {
	key := cache.Key(rawURL)
	if f.pages != nil {
		if article, ok := f.pages.Get(key); ok {
			f.logger.Debug("page cache hit", "url", rawURL)
			return article, nil
		}
	}

	if f.robots != nil {
		allowed, delay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, fmt.Errorf("%s: %w", rawURL, ErrRobotsDisallowed)
		}
		if delay > 0 {
			if parsed, err := url.Parse(rawURL); err == nil {
				f.limiter.SetCrawlDelay(parsed.Host, delay)
			}
		}
	}

	if !f.limiter.Allow(rawURL) {
		f.logger.Debug("rate limited, waiting", "url", rawURL)
		if err := f.limiter.Wait(ctx, rawURL); err != nil {
			return nil, err
		}
	}

	article, err := f.fetchOnce(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if f.pages != nil {
		f.pages.Set(key, article, 0)
	}
	return article, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, rawURL string) (*Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	title, text, err := ExtractArticle(bytes.NewReader(body), contentType, resp.Request.URL)
	if err != nil {
		return nil, err
	}

	finalURL := resp.Request.URL.String()
	if title == "" {
		title = subjectFromURL(finalURL)
	}

	return &Article{
		URL:         rawURL,
		FinalURL:    finalURL,
		Title:       title,
		Text:        text,
		ContentType: contentType,
		FetchedAt:   time.Now().UTC(),
	}, nil
}

// ExtractArticle decodes an HTML page and returns its title and text.
// Paragraphs inside <article> win, then all paragraphs; pages without
// paragraphs go through readability, then the plain body text.
func ExtractArticle(r io.Reader, contentType string, pageURL *url.URL) (string, string, error) {
	decoded, err := charset.NewReader(r, contentType)
	if err != nil {
		return "", "", fmt.Errorf("decode charset: %w", err)
	}
	page, err := io.ReadAll(decoded)
	if err != nil {
		return "", "", fmt.Errorf("decode charset: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return "", "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script, style, noscript, nav, header, footer, aside, form").Remove()

	title, _ := doc.Find(`meta[property="og:title"]`).Attr("content")
	if title = collapse(title); title == "" {
		title = collapse(doc.Find("title").First().Text())
	}
	if title == "" {
		title = collapse(doc.Find("h1").First().Text())
	}

	paragraphs := doc.Find("article p")
	if paragraphs.Length() == 0 {
		paragraphs = doc.Find("p")
	}

	var parts []string
	paragraphs.Each(func(_ int, s *goquery.Selection) {
		if t := collapse(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})

	text := strings.Join(parts, "\n\n")
	if text == "" && pageURL != nil {
		if article, err := readability.FromReader(bytes.NewReader(page), pageURL); err == nil {
			text = collapse(article.TextContent)
			if title == "" {
				title = collapse(article.Title)
			}
		}
	}
	if text == "" {
		text = collapse(doc.Find("body").Text())
	}
	return title, text, nil
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// subjectFromURL turns the last path segment into a readable title
func subjectFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	path := strings.Trim(parsed.Path, "/")
	if path == "" {
		return parsed.Host
	}

	segments := strings.Split(path, "/")
	last := segments[len(segments)-1]

	last = strings.ReplaceAll(last, "_", " ")
	last = strings.ReplaceAll(last, "-", " ")

	if idx := strings.LastIndex(last, "."); idx > 0 {
		last = last[:idx]
	}

	return last
}
