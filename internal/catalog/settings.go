package catalog

import (
	"fmt"

	"clawwatch/internal/model"
)

// LoadSettings reads the retention settings of a session-storage root.
// A missing or corrupt settings file yields the defaults.
func LoadSettings(root string) model.Settings {
	s := model.DefaultSettings()
	if !readJSON(SettingsPath(root), &s) {
		return model.DefaultSettings()
	}
	s.Normalize()
	return s
}

// SaveSettings validates, normalizes, and persists settings. An invalid
// retention value is rejected before anything is written.
func SaveSettings(root string, s model.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	s.Normalize()
	if err := writeJSON(SettingsPath(root), s); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}
