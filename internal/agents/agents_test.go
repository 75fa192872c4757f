package agents

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDiscoverDirs(t *testing.T) {
	t.Run("discovers agents with sessions dirs", func(t *testing.T) {
		home := t.TempDir()
		for _, id := range []string{"ops", "main", "research"} {
			if err := os.MkdirAll(filepath.Join(home, "agents", id, "sessions"), 0755); err != nil {
				t.Fatal(err)
			}
		}
		// No sessions child: skipped.
		if err := os.MkdirAll(filepath.Join(home, "agents", "empty"), 0755); err != nil {
			t.Fatal(err)
		}
		// Hidden: skipped.
		if err := os.MkdirAll(filepath.Join(home, "agents", ".hidden", "sessions"), 0755); err != nil {
			t.Fatal(err)
		}

		dirs := DiscoverDirs(home, filepath.Join(home, "agents", "main", "sessions"))

		ids := make([]string, len(dirs))
		for i, d := range dirs {
			ids[i] = d.AgentID
		}
		want := []string{"main", "ops", "research"}
		if len(ids) != len(want) {
			t.Fatalf("DiscoverDirs() ids = %v, want %v", ids, want)
		}
		for i := range want {
			if ids[i] != want[i] {
				t.Errorf("ids[%d] = %q, want %q", i, ids[i], want[i])
			}
		}
	})

	t.Run("always includes main", func(t *testing.T) {
		home := t.TempDir()
		if err := os.MkdirAll(filepath.Join(home, "agents", "ops", "sessions"), 0755); err != nil {
			t.Fatal(err)
		}
		mainDir := filepath.Join(home, "elsewhere", "sessions")

		dirs := DiscoverDirs(home, mainDir)

		found := false
		for _, d := range dirs {
			if d.AgentID == MainAgentID && d.Path == mainDir {
				found = true
			}
		}
		if !found {
			t.Errorf("DiscoverDirs() = %v, missing main fallback", dirs)
		}
	})

	t.Run("unreadable agents root yields main only", func(t *testing.T) {
		dirs := DiscoverDirs(filepath.Join(t.TempDir(), "absent"), "/main/sessions")
		if len(dirs) != 1 || dirs[0].AgentID != MainAgentID || dirs[0].Path != "/main/sessions" {
			t.Errorf("DiscoverDirs() = %v, want main only", dirs)
		}
	})
}

func TestFindTranscript(t *testing.T) {
	t.Run("prefers exact match", func(t *testing.T) {
		root := t.TempDir()
		exact := filepath.Join(root, "abc123.jsonl")
		other := filepath.Join(root, "copy-abc123.jsonl")
		for _, p := range []string{exact, other} {
			if err := os.WriteFile(p, []byte("{}\n"), 0644); err != nil {
				t.Fatal(err)
			}
		}

		path, ambiguous, err := FindTranscript(root, "abc123")
		if err != nil {
			t.Fatalf("FindTranscript() error = %v", err)
		}
		if path != exact {
			t.Errorf("path = %q, want %q", path, exact)
		}
		if ambiguous {
			t.Error("exact match should not be ambiguous")
		}
	})

	t.Run("glob match flags ambiguity", func(t *testing.T) {
		root := t.TempDir()
		a := filepath.Join(root, "a-abc123.jsonl")
		b := filepath.Join(root, "b-abc123.jsonl")
		for _, p := range []string{a, b} {
			if err := os.WriteFile(p, []byte("{}\n"), 0644); err != nil {
				t.Fatal(err)
			}
		}

		path, ambiguous, err := FindTranscript(root, "abc123")
		if err != nil {
			t.Fatalf("FindTranscript() error = %v", err)
		}
		if path != a {
			t.Errorf("path = %q, want lexicographically first %q", path, a)
		}
		if !ambiguous {
			t.Error("multiple matches should be flagged ambiguous")
		}
	})

	t.Run("missing transcript", func(t *testing.T) {
		_, _, err := FindTranscript(t.TempDir(), "nope")
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("error = %v, want os.ErrNotExist", err)
		}
	})
}
