package app

import (
	"os"
	"path/filepath"
	"testing"

	"clawwatch/internal/config"
)

// A config file carrying only the two paths must still produce a working
// app: every other field comes from the defaults merge.
func TestNewApp_minimalConfigFile(t *testing.T) {
	home := t.TempDir()
	sessionsDir := filepath.Join(home, "agents", "main", "sessions")

	path := filepath.Join(t.TempDir(), "clawwatch.toml")
	content := "home = \"" + home + "\"\nsessions_dir = \"" + sessionsDir + "\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.ReadFromFile(path)
	if err != nil {
		t.Fatalf("ReadFromFile() error = %v", err)
	}
	if cfg.LogDir == "" || cfg.Gateway.Command == "" || len(cfg.Agents) == 0 {
		t.Fatalf("defaults not merged: %+v", cfg)
	}

	a, err := NewApp(cfg, "Sessions")
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	defer a.Close()

	if _, err := os.Stat(filepath.Join(home, "log")); err != nil {
		t.Errorf("log directory not created: %v", err)
	}
	if a.Service() == nil {
		t.Error("Service() is nil")
	}
	if a.Checker() == nil {
		t.Error("Checker() is nil")
	}
}
