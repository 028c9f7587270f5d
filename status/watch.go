package status

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

// DefaultDelay is the refresh interval of the watch loop.
const DefaultDelay = 60 * time.Second

// DefaultExpiration is how long a review stays on screen after zuul
// stopped reporting it.
const DefaultExpiration = 10 * time.Minute

// Monitor runs the display loop: fetch rendered reviews, keep them in
// a small cache so recently-finished reviews linger, and redraw.
type Monitor struct {
	// Fetch returns the rendered text per review key. Required.
	Fetch func(ctx context.Context) (map[string]string, error)

	// Watch keeps refreshing every Delay until the context ends.
	Watch bool

	// ExitWhenEmpty stops the watch loop once no reviews remain.
	ExitWhenEmpty bool

	// Delay is the refresh interval. Defaults to DefaultDelay.
	Delay time.Duration

	// Expiration is the cache lifetime of a review no longer reported
	// by zuul. Zero or negative disables caching entirely.
	Expiration time.Duration

	// Out receives the rendered display. Defaults to os.Stdout.
	Out io.Writer

	// Clock supplies the current time, for tests. Defaults to time.Now.
	Clock func() time.Time

	cache map[string]cacheEntry
}

type cacheEntry struct {
	text    string
	updated time.Time
}

func (m *Monitor) now() time.Time {
	if m.Clock != nil {
		return m.Clock()
	}
	return time.Now()
}

func (m *Monitor) out() io.Writer {
	if m.Out != nil {
		return m.Out
	}
	return os.Stdout
}

// Run executes the display loop until done: once for a plain
// invocation, until the context is cancelled in watch mode.
func (m *Monitor) Run(ctx context.Context) error {
	if m.Delay <= 0 {
		m.Delay = DefaultDelay
	}
	if m.cache == nil {
		m.cache = make(map[string]cacheEntry)
	}

	for {
		statusLine := m.refresh(ctx)
		if err := ctx.Err(); err != nil {
			return err
		}

		empty := len(m.cache) == 0
		if m.Watch {
			fmt.Fprint(m.out(), "\033[2J\033[H")
		}

		if empty {
			fmt.Fprintln(m.out(), color.New(color.Bold).Sprint("No reviews found in zuul"))
			if !m.Watch || m.ExitWhenEmpty {
				return nil
			}
		} else {
			for _, key := range m.sortedKeys() {
				fmt.Fprintln(m.out(), m.cache[key].text)
			}
		}

		if !m.Watch {
			return nil
		}

		if err := m.wait(ctx, statusLine); err != nil {
			return err
		}
	}
}

// refresh fetches the current reviews and folds them into the cache.
// It returns the status line for the next wait prompt.
func (m *Monitor) refresh(ctx context.Context) string {
	entries, err := m.Fetch(ctx)
	if err != nil {
		return fmt.Sprintf("fail: %v", err)
	}

	if m.Expiration <= 0 {
		m.cache = make(map[string]cacheEntry)
	}

	now := m.now()
	for key, text := range entries {
		m.cache[key] = cacheEntry{text: text, updated: now}
	}

	if m.Expiration > 0 {
		for key, entry := range m.cache {
			if now.Sub(entry.updated) >= m.Expiration {
				delete(m.cache, key)
			}
		}
	}

	return now.Format("2006-01-02 15:04:05")
}

func (m *Monitor) sortedKeys() []string {
	keys := make([]string, 0, len(m.cache))
	for key := range m.cache {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// wait blocks for the refresh delay, showing a spinner when attached
// to a terminal.
func (m *Monitor) wait(ctx context.Context, statusLine string) error {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond,
		spinner.WithWriter(m.out()))
	s.Suffix = fmt.Sprintf(" Last update %s, refreshing ...", statusLine)
	s.Start()
	defer s.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(m.Delay):
		return nil
	}
}
