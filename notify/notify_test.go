package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWebhookNotifier(t *testing.T) {
	var received Event
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	n := NewWebhookNotifier(server.URL, map[string]string{"Authorization": "Bearer tok"})

	err := n.Notify(context.Background(), Event{
		Type:    EventReleasePublished,
		Version: "1.2.0",
		Tag:     "1.2.0",
		Message: "Release version 1.2.0",
	})
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}

	if received.Type != EventReleasePublished || received.Version != "1.2.0" {
		t.Errorf("received = %+v", received)
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if received.Timestamp.IsZero() {
		t.Error("Timestamp was not filled in")
	}
}

func TestWebhookNotifier_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	n := NewWebhookNotifier(server.URL, nil)

	if err := n.Notify(context.Background(), Event{Type: EventReleaseFailed}); err == nil {
		t.Fatal("Notify succeeded on a 500 response")
	}
}

func TestWebhookNotifier_Unreachable(t *testing.T) {
	n := NewWebhookNotifier("http://127.0.0.1:0/hook", nil)

	if err := n.Notify(context.Background(), Event{}); err == nil {
		t.Fatal("Notify succeeded against an unreachable endpoint")
	}
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewTextHandler(&buf, nil)))

	err := n.Notify(context.Background(), Event{
		Type:    EventReleasePublished,
		Version: "1.2.0",
		Tag:     "1.2.0",
		Message: "Release version 1.2.0",
	})
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "level=INFO") {
		t.Errorf("output = %q, want INFO level", out)
	}
	if !strings.Contains(out, "Release version 1.2.0") || !strings.Contains(out, "version=1.2.0") {
		t.Errorf("output = %q, missing event details", out)
	}
}

func TestLogNotifier_FailureLogsError(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewTextHandler(&buf, nil)))

	err := n.Notify(context.Background(), Event{
		Type:    EventReleaseFailed,
		Version: "1.2.0",
		Message: "tree is dirty",
	})
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}

	if out := buf.String(); !strings.Contains(out, "level=ERROR") {
		t.Errorf("output = %q, want ERROR level", out)
	}
}

func TestNopNotifier(t *testing.T) {
	if err := (NopNotifier{}).Notify(context.Background(), Event{}); err != nil {
		t.Fatalf("NopNotifier: %v", err)
	}
}
