package status

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestMonitor_SingleShot(t *testing.T) {
	var out bytes.Buffer
	m := &Monitor{
		Fetch: func(context.Context) (map[string]string, error) {
			return map[string]string{
				"check/123456": "review one",
				"gate/654321":  "review two",
			}, nil
		},
		Expiration: DefaultExpiration,
		Out:        &out,
	}

	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "review one") || !strings.Contains(got, "review two") {
		t.Errorf("output = %q", got)
	}
}

func TestMonitor_Empty(t *testing.T) {
	var out bytes.Buffer
	m := &Monitor{
		Fetch: func(context.Context) (map[string]string, error) {
			return nil, nil
		},
		Out: &out,
	}

	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !strings.Contains(out.String(), "No reviews found in zuul") {
		t.Errorf("output = %q", out.String())
	}
}

func TestMonitor_FetchErrorKeepsCache(t *testing.T) {
	now := time.Unix(1457000000, 0)

	var calls int
	m := &Monitor{
		Fetch: func(context.Context) (map[string]string, error) {
			calls++
			if calls == 1 {
				return map[string]string{"check/1": "cached review"}, nil
			}
			return nil, errors.New("zuul down")
		},
		Expiration: DefaultExpiration,
		Clock:      func() time.Time { return now },
	}
	m.cache = make(map[string]cacheEntry)

	m.refresh(context.Background())
	statusLine := m.refresh(context.Background())

	if len(m.cache) != 1 {
		t.Errorf("cache = %v, want the cached review kept", m.cache)
	}
	if !strings.Contains(statusLine, "fail: zuul down") {
		t.Errorf("statusLine = %q", statusLine)
	}
}

func TestMonitor_Expiration(t *testing.T) {
	now := time.Unix(1457000000, 0)

	fetches := []map[string]string{
		{"check/1": "old review"},
		{}, // review no longer reported
	}
	var call int
	m := &Monitor{
		Fetch: func(context.Context) (map[string]string, error) {
			result := fetches[call]
			call++
			return result, nil
		},
		Expiration: 10 * time.Minute,
		Clock:      func() time.Time { return now },
	}
	m.cache = make(map[string]cacheEntry)

	m.refresh(context.Background())
	if len(m.cache) != 1 {
		t.Fatalf("cache = %v", m.cache)
	}

	// Within the expiration window the review lingers.
	now = now.Add(5 * time.Minute)
	m.refresh(context.Background())
	if len(m.cache) != 1 {
		t.Errorf("review should linger within the expiration window")
	}

	// Past the window it is dropped.
	now = now.Add(10 * time.Minute)
	m.Fetch = func(context.Context) (map[string]string, error) { return nil, nil }
	m.refresh(context.Background())
	if len(m.cache) != 0 {
		t.Errorf("cache = %v, want expired", m.cache)
	}
}

func TestMonitor_NoExpirationDisablesCache(t *testing.T) {
	var call int
	m := &Monitor{
		Fetch: func(context.Context) (map[string]string, error) {
			call++
			if call == 1 {
				return map[string]string{"check/1": "first"}, nil
			}
			return map[string]string{"gate/2": "second"}, nil
		},
		Expiration: 0,
	}
	m.cache = make(map[string]cacheEntry)

	m.refresh(context.Background())
	m.refresh(context.Background())

	if len(m.cache) != 1 {
		t.Fatalf("cache = %v, want only the latest fetch", m.cache)
	}
	if _, ok := m.cache["gate/2"]; !ok {
		t.Error("latest fetch should replace the cache")
	}
}

func TestMonitor_WatchStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var out bytes.Buffer
	m := &Monitor{
		Fetch: func(context.Context) (map[string]string, error) {
			cancel()
			return map[string]string{"check/1": "review"}, nil
		},
		Watch: true,
		Delay: time.Hour,
		Out:   &out,
	}

	if err := m.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run = %v, want context.Canceled", err)
	}
}

func TestMonitor_WatchExitWhenEmpty(t *testing.T) {
	var out bytes.Buffer
	m := &Monitor{
		Fetch: func(context.Context) (map[string]string, error) {
			return nil, nil
		},
		Watch:         true,
		ExitWhenEmpty: true,
		Delay:         time.Hour,
		Out:           &out,
	}

	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
}
