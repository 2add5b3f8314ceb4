package worker

import (
	"context"
	"testing"
	"time"
)

func TestNewLimiter_Defaults(t *testing.T) {
	if l := NewLimiter(10, 5); l.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", l.defaultBurst)
	}
	if l := NewLimiter(10, -1); l.defaultBurst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l.defaultBurst)
	}
}

// waitsNow reports whether a request to rawURL is admitted within 10ms
func waitsNow(l *Limiter, rawURL string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	return l.Wait(ctx, rawURL) == nil
}

func TestLimiter_Unlimited(t *testing.T) {
	limiter := NewLimiter(0, 1)
	for i := 0; i < 50; i++ {
		if !waitsNow(limiter, "http://coref.example.com/analyze") {
			t.Fatalf("request %d denied with limiting disabled", i)
		}
	}
}

func TestLimiter_PerHostBuckets(t *testing.T) {
	limiter := NewLimiter(1, 1)
	story := "http://www.baycitizen.org/news/1"

	if err := limiter.Wait(context.Background(), story); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}
	if waitsNow(limiter, story) {
		t.Error("expected exhausted bucket for the same host")
	}
	if !waitsNow(limiter, "http://coref.example.com") {
		t.Error("expected other hosts to have their own bucket")
	}
}

func TestLimiter_WaitWithDelay(t *testing.T) {
	limiter := NewLimiter(100, 1)

	start := time.Now()
	if err := limiter.WaitWithDelay(context.Background(), "http://example.com", 30*time.Millisecond); err != nil {
		t.Fatalf("WaitWithDelay failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("expected delay >= 30ms, got %v", elapsed)
	}
}

func TestLimiter_WaitCancelled(t *testing.T) {
	limiter := NewLimiter(0.01, 1)
	_ = waitsNow(limiter, "http://example.com")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := limiter.Wait(ctx, "http://example.com"); err == nil {
		t.Error("expected error when the context ends before a token is available")
	}
}

func TestLimiter_WaitWithDelayCancelled(t *testing.T) {
	limiter := NewLimiter(0, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := limiter.WaitWithDelay(ctx, "http://example.com", time.Minute); err != context.DeadlineExceeded {
		t.Errorf("expected deadline exceeded during the delay, got %v", err)
	}
}

func TestExtractHost(t *testing.T) {
	host, err := extractHost("http://example.com/foo")
	if err != nil {
		t.Fatalf("extractHost failed: %v", err)
	}
	if host != "example.com" {
		t.Errorf("expected example.com, got %s", host)
	}

	if _, err := extractHost("::invalid"); err == nil {
		t.Error("expected error for invalid URL")
	}
}
