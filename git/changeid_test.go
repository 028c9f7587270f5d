package git

import (
	"testing"

	"github.com/sileht/zuup/testutil"
)

func TestExtractChangeID(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{
			name: "trailer present",
			message: "Fix the widget\n\nLonger description.\n\n" +
				"Change-Id: I0123456789abcdef0123456789abcdef01234567\n",
			want: "I0123456789abcdef0123456789abcdef01234567",
		},
		{
			name:    "no trailer",
			message: "Fix the widget\n",
			want:    "",
		},
		{
			name:    "malformed id ignored",
			message: "Fix the widget\n\nChange-Id: not-a-change-id\n",
			want:    "",
		},
		{
			name:    "mid-body mention ignored",
			message: "See Change-Id: Iffffffffffffffffffffffffffffffffffffffff elsewhere\n",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractChangeID(tt.message); got != tt.want {
				t.Errorf("ExtractChangeID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLocalChangeIDs(t *testing.T) {
	dir := testutil.SetupTestRepo(t)

	// Mark the current tip as the upstream, then add local commits.
	testutil.CreateTag(t, dir, "upstream")
	testutil.CommitFile(t, dir, "a.txt", "a", "First change\n\n"+
		"Change-Id: Iaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	testutil.CommitFile(t, dir, "b.txt", "b", "Second change\n\n"+
		"Change-Id: Ibbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	testutil.CommitFile(t, dir, "c.txt", "c", "No trailer here")

	g, err := NewContext(dir)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}

	ids, err := g.LocalChangeIDs("upstream")
	if err != nil {
		t.Fatalf("LocalChangeIDs: %v", err)
	}

	want := map[string]bool{
		"Iaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa": true,
		"Ibbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb": true,
	}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %d entries", ids, len(want))
	}
	for _, id := range ids {
		if !want[id] {
			t.Errorf("unexpected id %q", id)
		}
	}
}

func TestGerritProject(t *testing.T) {
	dir := testutil.SetupTestRepo(t)
	testutil.AddRemote(t, dir, "gerrit", "https://review.openstack.org/openstack/nova.git")

	g, err := NewContext(dir)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}

	project, err := g.GerritProject()
	if err != nil {
		t.Fatalf("GerritProject: %v", err)
	}
	if project != "openstack/nova" {
		t.Errorf("project = %q, want %q", project, "openstack/nova")
	}
}
