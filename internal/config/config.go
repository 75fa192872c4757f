package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for clawwatch.
type Config struct {
	Home        string        `toml:"home"`         // orchestrator home containing agents/<id>/sessions
	SessionsDir string        `toml:"sessions_dir"` // main agent's sessions root
	LogDir      string        `toml:"log_dir"`
	ReadOnly    bool          `toml:"read_only"`
	MainAgent   string        `toml:"main_agent"` // display name of the main agent
	Agents      []string      `toml:"agents"`     // known agent identities
	Gateway     GatewayConfig `toml:"gateway"`
	Update      UpdateConfig  `toml:"update"`
}

// GatewayConfig holds settings for the orchestration CLI.
type GatewayConfig struct {
	Command        string `toml:"command"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// UpdateConfig holds settings for the release registry check.
type UpdateConfig struct {
	Enabled     bool   `toml:"enabled"`
	RegistryURL string `toml:"registry_url"`
	CachePath   string `toml:"cache_path,omitempty"`
}

// NewConfig creates a new Config with the provided paths and defaults.
func NewConfig(home, sessionsDir string) *Config {
	return &Config{
		Home:        home,
		SessionsDir: sessionsDir,
		LogDir:      filepath.Join(home, "log"),
		MainAgent:   "Main",
		Agents:      []string{"ops", "research", "content", "design", "cron"},
		Gateway: GatewayConfig{
			Command:        "openclaw",
			TimeoutSeconds: 10,
		},
		Update: UpdateConfig{
			Enabled:     true,
			RegistryURL: "https://clawhub.ai/api/skills/clawwatch/latest",
			CachePath:   filepath.Join(home, "update-check.json"),
		},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader. Fields the file does
// not set are filled from the defaults, so a minimal config carrying only
// the paths still yields a runnable configuration.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.applyDefaults(md)
	return &cfg, nil
}

// applyDefaults merges decoded values over the defaults for the decoded
// paths. Boolean fields consult the decode metadata: an explicit false in
// the file must survive the merge.
func (c *Config) applyDefaults(md toml.MetaData) {
	def := NewConfig(c.Home, c.SessionsDir)
	if c.LogDir == "" {
		c.LogDir = def.LogDir
	}
	if c.MainAgent == "" {
		c.MainAgent = def.MainAgent
	}
	if len(c.Agents) == 0 {
		c.Agents = def.Agents
	}
	if c.Gateway.Command == "" {
		c.Gateway.Command = def.Gateway.Command
	}
	if c.Gateway.TimeoutSeconds <= 0 {
		c.Gateway.TimeoutSeconds = def.Gateway.TimeoutSeconds
	}
	if !md.IsDefined("update", "enabled") {
		c.Update.Enabled = def.Update.Enabled
	}
	if c.Update.RegistryURL == "" {
		c.Update.RegistryURL = def.Update.RegistryURL
	}
	if c.Update.CachePath == "" {
		c.Update.CachePath = def.Update.CachePath
	}
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
// This is an internal helper and should not be exported.
func writeToFile(path string, cfg *Config) error {
	// Ensure the directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
