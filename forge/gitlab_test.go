package forge

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

// newTestGitLabProvider creates a GitLabProvider pointing to a test
// server, with a numeric project ID to keep URL paths simple.
func newTestGitLabProvider(t *testing.T, handler http.Handler) *GitLabProvider {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewGitLabProvider("token123", server.URL, "7")
	if err != nil {
		t.Fatalf("NewGitLabProvider: %v", err)
	}
	return p
}

func TestNewGitLabProvider(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		if _, err := NewGitLabProvider("", "", "ns/project"); err == nil {
			t.Error("expected error for missing token")
		}
	})

	t.Run("missing project", func(t *testing.T) {
		if _, err := NewGitLabProvider("token", "", ""); err == nil {
			t.Error("expected error for missing project ID")
		}
	})
}

func TestNewGitLabProviderFromURL_SelfHosted(t *testing.T) {
	p, err := NewGitLabProviderFromURL("token123", "https://gitlab.example.org/team/project.git")
	if err != nil {
		t.Fatalf("NewGitLabProviderFromURL: %v", err)
	}
	if p.projectID != "team/project" {
		t.Errorf("projectID = %q, want team/project", p.projectID)
	}
}

func TestGitLabCreateRelease(t *testing.T) {
	dir := t.TempDir()
	artifact := filepath.Join(dir, "zuup-1.2.0.tar.gz")
	if err := os.WriteFile(artifact, []byte("sdist"), 0o644); err != nil {
		t.Fatal(err)
	}

	var uploads, links int
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v4/projects/7/releases", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		fmt.Fprint(w, `{"tag_name": "1.2.0", "_links": {"self": "https://gitlab.example.org/team/project/-/releases/1.2.0"}}`)
	})
	mux.HandleFunc("/api/v4/projects/7/uploads", func(w http.ResponseWriter, r *http.Request) {
		uploads++
		fmt.Fprint(w, `{"url": "/uploads/abc/zuup-1.2.0.tar.gz", "markdown": "[zuup-1.2.0.tar.gz](/uploads/abc/zuup-1.2.0.tar.gz)"}`)
	})
	mux.HandleFunc("/api/v4/projects/7/releases/1.2.0/assets/links", func(w http.ResponseWriter, r *http.Request) {
		links++
		fmt.Fprint(w, `{"id": 1, "name": "zuup-1.2.0.tar.gz"}`)
	})

	p := newTestGitLabProvider(t, mux)

	rel, err := p.CreateRelease(context.Background(), ReleaseOptions{
		Tag:    "1.2.0",
		Name:   "Release version 1.2.0",
		Assets: []string{artifact},
	})
	if err != nil {
		t.Fatalf("CreateRelease: %v", err)
	}

	if rel.URL != "https://gitlab.example.org/team/project/-/releases/1.2.0" {
		t.Errorf("URL = %q", rel.URL)
	}
	if uploads != 1 || links != 1 {
		t.Errorf("uploads = %d, links = %d, want 1 each", uploads, links)
	}
}

func TestGitLabCreateRelease_Conflict(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v4/projects/7/releases", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		fmt.Fprint(w, `{"message": "Release already exists"}`)
	})

	p := newTestGitLabProvider(t, mux)

	_, err := p.CreateRelease(context.Background(), ReleaseOptions{Tag: "1.2.0"})
	if !errors.Is(err, ErrReleaseExists) {
		t.Errorf("err = %v, want ErrReleaseExists", err)
	}
}
