package utils

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestURLSetNoDuplicates(t *testing.T) {
	s := NewURLSet()

	added := s.Add("https://example.com/1")
	if !added {
		t.Error("first Add should return true")
	}

	added = s.Add("https://example.com/1")
	if added {
		t.Error("second Add of same URL should return false")
	}

	s.Add("https://example.com/2")
	if s.Size() != 2 {
		t.Errorf("size: got %d, want 2", s.Size())
	}
}

func TestThrottleSpacing(t *testing.T) {
	rateLimitMs := 50
	th := NewThrottle(rateLimitMs)

	var timestamps []time.Time
	for i := 0; i < 3; i++ {
		if err := th.Wait(context.Background()); err != nil {
			t.Fatalf("wait: %v", err)
		}
		timestamps = append(timestamps, time.Now())
	}

	min := time.Duration(rateLimitMs) * time.Millisecond
	for i := 1; i < len(timestamps); i++ {
		gap := timestamps[i].Sub(timestamps[i-1])
		if gap < min {
			t.Errorf("gap between request %d and %d: %v < minimum %v", i-1, i, gap, min)
		}
	}
}

func TestThrottleCancelled(t *testing.T) {
	th := NewThrottle(10_000)
	if err := th.Wait(context.Background()); err != nil {
		t.Fatalf("first wait: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := th.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRetryStopsOnSuccess(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond, Logger: NewLoggerTo(&bytes.Buffer{})}
	calls := 0
	err := r.Do(context.Background(), "op", func() error {
		calls++
		if calls < 2 {
			return errors.New("boom")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls: got %d, want 2", calls)
	}
}

func TestRetryWrapsLastError(t *testing.T) {
	sentinel := errors.New("still down")
	r := &RetryConfig{MaxAttempts: 2, BaseDelay: time.Millisecond, Logger: NewLoggerTo(&bytes.Buffer{})}
	err := r.Do(context.Background(), "op", func() error { return sentinel })
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped sentinel, got %v", err)
	}
}

func TestLoggerDebugToggle(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerTo(&buf)
	l.Debug("hidden %d", 1)
	if buf.Len() != 0 {
		t.Fatalf("debug output written while disabled: %q", buf.String())
	}
	l.SetDebug(true)
	l.Debug("shown %d", 2)
	if !strings.Contains(buf.String(), "shown 2") {
		t.Errorf("debug line missing: %q", buf.String())
	}
}
