package claw

import (
	"clawwatch/internal/catalog"
	"clawwatch/internal/model"
)

// Settings reads the lifecycle settings from the main sessions root,
// falling back to defaults when the file is missing or unreadable.
func (s *SessionService) Settings() model.Settings {
	return catalog.LoadSettings(s.mainDir)
}

// SaveSettings validates and persists new lifecycle settings.
func (s *SessionService) SaveSettings(settings model.Settings) error {
	if err := s.checkWritable(); err != nil {
		return err
	}
	unlock := s.lockDir(s.mainDir)
	defer unlock()

	if err := catalog.SaveSettings(s.mainDir, settings); err != nil {
		return err
	}
	s.logger.Info("settings updated",
		"retentionDays", settings.RetentionDays.String(),
		"autoArchive", settings.AutoArchive,
		"pageSize", settings.PageSize)
	return nil
}
