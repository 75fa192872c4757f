package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - CLAWWATCH_CONFIG_PATH: config file location (default: ~/.config/clawwatch.toml)
//   - CLAWWATCH_HOME / OPENCLAW_HOME: orchestrator home (default: ~/.openclaw)
//   - CLAWWATCH_SESSIONS_PATH / OPENCLAW_SESSIONS_PATH: main sessions root
//     (default: <home>/agents/main/sessions)
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	home, err := getHome()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path":  configPath,
		"home":         home,
		"sessions_dir": getSessionsDir(home),
		"log_dir":      filepath.Join(home, "log"),
	}, nil
}

// getConfigPath returns the config file path, checking CLAWWATCH_CONFIG_PATH
// first, then falling back to the default ~/.config/clawwatch.toml.
func getConfigPath() (string, error) {
	if path := os.Getenv("CLAWWATCH_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "clawwatch.toml"), nil
}

// getHome returns the orchestrator home, checking CLAWWATCH_HOME and then
// OPENCLAW_HOME before falling back to ~/.openclaw.
func getHome() (string, error) {
	for _, env := range []string{"CLAWWATCH_HOME", "OPENCLAW_HOME"} {
		if path := os.Getenv(env); path != "" {
			return path, nil
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".openclaw"), nil
}

// getSessionsDir returns the main agent's sessions root, checking the
// session-path overrides before deriving it from the home layout.
func getSessionsDir(home string) string {
	for _, env := range []string{"CLAWWATCH_SESSIONS_PATH", "OPENCLAW_SESSIONS_PATH"} {
		if path := os.Getenv(env); path != "" {
			return path
		}
	}
	return filepath.Join(home, "agents", "main", "sessions")
}
