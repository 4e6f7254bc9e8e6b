package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "http://example.com/foo"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	if err := limiter.Wait(ctx, "http://other.example.org"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_RateLimit(t *testing.T) {
	limiter := NewLimiter(1, 1)
	url := "http://example.com"

	if !limiter.Allow(url) {
		t.Error("expected first request to pass")
	}
	if limiter.Allow(url) {
		t.Error("expected allow to fail (exhausted tokens)")
	}
	if !limiter.Allow("http://other.com") {
		t.Error("expected allow for other host")
	}
}

func TestLimiter_Unlimited(t *testing.T) {
	limiter := NewLimiter(0, 1)
	for i := 0; i < 20; i++ {
		if !limiter.Allow("http://example.com") {
			t.Fatalf("expected unlimited limiter to allow request %d", i)
		}
	}
}

func TestLimiter_SetCrawlDelay(t *testing.T) {
	limiter := NewLimiter(10, 10)
	limiter.SetCrawlDelay("slow.com", 10*time.Second)

	if !limiter.Allow("http://slow.com/a") {
		t.Error("first request should pass")
	}
	if limiter.Allow("http://slow.com/b") {
		t.Error("second request should wait for the crawl delay")
	}
	if !limiter.Allow("http://fast.com") {
		t.Error("other host should pass")
	}
}

func TestLimiter_SetCrawlDelay_IgnoresFasterPace(t *testing.T) {
	limiter := NewLimiter(0.1, 1)
	limiter.SetCrawlDelay("example.com", 10*time.Millisecond)

	if _, exists := limiter.limiters["example.com"]; exists {
		t.Error("expected crawl delay faster than default pace to be ignored")
	}

	limiter.SetCrawlDelay("example.com", 0)
	if len(limiter.limiters) != 0 {
		t.Error("expected zero delay to be ignored")
	}
}

func TestLimiter_WaitCancelled(t *testing.T) {
	limiter := NewLimiter(0.001, 1)
	url := "http://example.com"
	_ = limiter.Allow(url)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx, url); err == nil {
		t.Error("expected wait to fail when the context expires first")
	}
}

func TestHostOf(t *testing.T) {
	host, err := hostOf("http://example.com:8080/foo")
	if err != nil {
		t.Fatalf("hostOf failed: %v", err)
	}
	if host != "example.com:8080" {
		t.Errorf("expected example.com:8080, got %s", host)
	}

	if _, err := hostOf("::invalid"); err == nil {
		t.Error("expected error for invalid URL")
	}
}
