package zuul

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sileht/zuup/testutil"
)

func TestFetch(t *testing.T) {
	fixture := testutil.LoadFixture(t, "status.json")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(fixture)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{StatusURL: srv.URL})

	status, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if len(status.Pipelines) != 2 {
		t.Fatalf("pipelines = %d, want 2", len(status.Pipelines))
	}
	if status.Pipelines[0].Name != "check" {
		t.Errorf("pipeline name = %q", status.Pipelines[0].Name)
	}

	change := status.Pipelines[0].ChangeQueues[0].Heads[0][0]
	if change.URL != "https://review.openstack.org/123456" {
		t.Errorf("change url = %q", change.URL)
	}
	if len(change.Jobs) != 3 {
		t.Errorf("jobs = %d, want 3", len(change.Jobs))
	}
}

func TestFetch_RetriesTransientFailure(t *testing.T) {
	fixture := testutil.LoadFixture(t, "status.json")

	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write(fixture)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{
		StatusURL: srv.URL,
		RetryWait: time.Millisecond,
	})

	if _, err := c.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestFetch_ExhaustsRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{
		StatusURL:  srv.URL,
		MaxRetries: 2,
		RetryWait:  time.Millisecond,
	})

	if _, err := c.Fetch(context.Background()); err == nil {
		t.Fatal("expected error after retries exhausted")
	}
}

func TestFetch_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(ClientConfig{StatusURL: srv.URL, RetryWait: time.Second})

	if _, err := c.Fetch(ctx); err == nil {
		t.Fatal("expected context error")
	}
}
