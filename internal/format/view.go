package format

import (
	"fmt"
	"io"
	"strings"

	"clawwatch/internal/model"
	"clawwatch/internal/transcript"
	"clawwatch/internal/update"
)

// WriteHistory writes a transcript's conversational turns to w.
func WriteHistory(w io.Writer, entries []transcript.HistoryEntry, format string) error {
	if strings.ToLower(format) == "json" {
		return writeJSON(w, entries)
	}
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No messages.")
		return err
	}
	for i, e := range entries {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "[%s]\n%s\n", e.Role, e.Content); err != nil {
			return err
		}
	}
	return nil
}

// WriteResult writes a session's final assistant message to w.
func WriteResult(w io.Writer, result *transcript.ResultMessage, format string) error {
	if strings.ToLower(format) == "json" {
		return writeJSON(w, result)
	}
	if result == nil {
		_, err := fmt.Fprintln(w, "No result message.")
		return err
	}
	_, err := fmt.Fprintln(w, result.Content)
	return err
}

// WriteSweepReport writes the outcome of a retention sweep to w.
func WriteSweepReport(w io.Writer, report *model.SweepReport, format string) error {
	if strings.ToLower(format) == "json" {
		return writeJSON(w, report)
	}
	if report.Message != "" {
		_, err := fmt.Fprintln(w, report.Message)
		return err
	}
	if _, err := fmt.Fprintf(w, "Archived %d session(s), %d failed\n", report.Archived, report.Failed); err != nil {
		return err
	}
	for _, e := range report.Errors {
		if _, err := fmt.Fprintf(w, "  %s\n", e); err != nil {
			return err
		}
	}
	return nil
}

// WriteSettings writes the lifecycle settings to w.
func WriteSettings(w io.Writer, settings model.Settings, format string) error {
	if strings.ToLower(format) == "json" {
		return writeJSON(w, settings)
	}
	_, err := fmt.Fprintf(w, "Retention:    %s\nAuto-archive: %t\nPage size:    %d\n",
		settings.RetentionDays.String(), settings.AutoArchive, settings.PageSize)
	return err
}

// WriteUpdateStatus writes the version-check outcome to w.
func WriteUpdateStatus(w io.Writer, status update.Status, format string) error {
	if strings.ToLower(format) == "json" {
		return writeJSON(w, status)
	}
	if !status.Enabled {
		_, err := fmt.Fprintln(w, "Update check disabled.")
		return err
	}
	if status.Error != "" {
		_, err := fmt.Fprintf(w, "Update check failed: %s\n", status.Error)
		return err
	}
	if status.UpdateAvailable {
		_, err := fmt.Fprintf(w, "Update available: %s (current %s)\n", status.LatestVersion, status.CurrentVersion)
		return err
	}
	_, err := fmt.Fprintf(w, "Up to date (%s)\n", status.CurrentVersion)
	return err
}
