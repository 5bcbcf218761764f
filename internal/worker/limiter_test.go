package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(2, 3)
	if limiter.defaultBurst != 3 {
		t.Errorf("expected burst 3, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(2, 0)
	if l2.defaultBurst != 1 {
		t.Errorf("expected default burst 1, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "https://serpapi.com/search.json?q=hotels"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	if err := limiter.Wait(ctx, "https://api.openai.com/v1"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_WaitHonoursContext(t *testing.T) {
	limiter := NewLimiter(0.01, 1)
	target := "https://serpapi.com/search.json"

	if err := limiter.Wait(context.Background(), target); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := limiter.Wait(ctx, target); err == nil {
		t.Error("expected second wait to give up with the context")
	}
}

func TestLimiter_PerHost(t *testing.T) {
	limiter := NewLimiter(1, 1)
	target := "https://serpapi.com/search.json"

	if !limiter.Allow(target) {
		t.Error("first call should pass")
	}
	if limiter.Allow(target) {
		t.Error("expected tokens to be exhausted for serpapi.com")
	}
	if !limiter.Allow("http://localhost:11434/api/chat") {
		t.Error("expected other host to be allowed")
	}
}

func TestLimiter_SetHostRate(t *testing.T) {
	limiter := NewLimiter(100, 10)
	limiter.SetHostRate("serpapi.com", 0.1, 1)

	if !limiter.Allow("https://serpapi.com/search.json") {
		t.Error("first request should pass")
	}
	if limiter.Allow("https://serpapi.com/search.json") {
		t.Error("second request should be throttled")
	}
	if !limiter.Allow("https://api.anthropic.com/v1/messages") {
		t.Error("other host should pass")
	}
}

func TestUpstreamHost(t *testing.T) {
	host, err := upstreamHost("https://serpapi.com/search.json?engine=google_hotels")
	if err != nil {
		t.Fatalf("upstreamHost failed: %v", err)
	}
	if host != "serpapi.com" {
		t.Errorf("expected serpapi.com, got %s", host)
	}

	if _, err := upstreamHost("::invalid"); err == nil {
		t.Error("expected error for invalid URL")
	}
	if _, err := upstreamHost("/relative/path"); err == nil {
		t.Error("expected error for URL without host")
	}
}
