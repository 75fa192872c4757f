package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetDefaults(t *testing.T) {
	t.Run("uses env vars when set", func(t *testing.T) {
		t.Setenv("CLAWWATCH_CONFIG_PATH", "/custom/config.toml")
		t.Setenv("CLAWWATCH_HOME", "/custom/openclaw")
		t.Setenv("CLAWWATCH_SESSIONS_PATH", "/custom/sessions")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		if defaults["config_path"] != "/custom/config.toml" {
			t.Errorf("config_path = %q, want %q", defaults["config_path"], "/custom/config.toml")
		}
		if defaults["home"] != "/custom/openclaw" {
			t.Errorf("home = %q, want %q", defaults["home"], "/custom/openclaw")
		}
		if defaults["sessions_dir"] != "/custom/sessions" {
			t.Errorf("sessions_dir = %q, want %q", defaults["sessions_dir"], "/custom/sessions")
		}
		if defaults["log_dir"] != "/custom/openclaw/log" {
			t.Errorf("log_dir = %q, want %q", defaults["log_dir"], "/custom/openclaw/log")
		}
	})

	t.Run("falls back to orchestrator env vars", func(t *testing.T) {
		t.Setenv("CLAWWATCH_CONFIG_PATH", "")
		t.Setenv("CLAWWATCH_HOME", "")
		t.Setenv("CLAWWATCH_SESSIONS_PATH", "")
		t.Setenv("OPENCLAW_HOME", "/srv/openclaw")
		t.Setenv("OPENCLAW_SESSIONS_PATH", "")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		if defaults["home"] != "/srv/openclaw" {
			t.Errorf("home = %q, want %q", defaults["home"], "/srv/openclaw")
		}
		wantSessions := filepath.Join("/srv/openclaw", "agents", "main", "sessions")
		if defaults["sessions_dir"] != wantSessions {
			t.Errorf("sessions_dir = %q, want %q", defaults["sessions_dir"], wantSessions)
		}
	})

	t.Run("falls back to home dir defaults", func(t *testing.T) {
		t.Setenv("CLAWWATCH_CONFIG_PATH", "")
		t.Setenv("CLAWWATCH_HOME", "")
		t.Setenv("CLAWWATCH_SESSIONS_PATH", "")
		t.Setenv("OPENCLAW_HOME", "")
		t.Setenv("OPENCLAW_SESSIONS_PATH", "")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		homeDir, _ := os.UserHomeDir()

		wantConfig := filepath.Join(homeDir, ".config", "clawwatch.toml")
		if defaults["config_path"] != wantConfig {
			t.Errorf("config_path = %q, want %q", defaults["config_path"], wantConfig)
		}

		wantHome := filepath.Join(homeDir, ".openclaw")
		if defaults["home"] != wantHome {
			t.Errorf("home = %q, want %q", defaults["home"], wantHome)
		}

		wantSessions := filepath.Join(wantHome, "agents", "main", "sessions")
		if defaults["sessions_dir"] != wantSessions {
			t.Errorf("sessions_dir = %q, want %q", defaults["sessions_dir"], wantSessions)
		}

		wantLog := filepath.Join(wantHome, "log")
		if defaults["log_dir"] != wantLog {
			t.Errorf("log_dir = %q, want %q", defaults["log_dir"], wantLog)
		}
	})
}
