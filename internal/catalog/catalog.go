// Package catalog persists the whole-file JSON state of a session-storage
// root: the sessions.json catalog, the archive index, and the retention
// settings. Every write is a full rewrite through a temp file and rename,
// never an in-place mutation, so a crash leaves either the old or the new
// file, not a torn one.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Well-known file names within a session-storage root.
const (
	SessionsFile     = "sessions.json"
	SettingsFile     = "settings.json"
	ArchiveDir       = "archive"
	ArchiveIndexFile = "archive-index.json"
)

// SessionsPath returns the catalog file path for a root.
func SessionsPath(root string) string { return filepath.Join(root, SessionsFile) }

// SettingsPath returns the settings file path for a root.
func SettingsPath(root string) string { return filepath.Join(root, SettingsFile) }

// ArchivePath returns the archive directory for a root.
func ArchivePath(root string) string { return filepath.Join(root, ArchiveDir) }

// ArchiveIndexPath returns the archive index file path for a root.
func ArchiveIndexPath(root string) string {
	return filepath.Join(root, ArchiveDir, ArchiveIndexFile)
}

// TranscriptPath returns the live transcript path for a session ID.
func TranscriptPath(root, sessionID string) string {
	return filepath.Join(root, sessionID+".jsonl")
}

// ArchivedTranscriptPath returns the compressed transcript path for a
// session ID.
func ArchivedTranscriptPath(root, sessionID string) string {
	return filepath.Join(root, ArchiveDir, sessionID+".jsonl.gz")
}

// writeJSON writes v pretty-printed to path via a temp file in the same
// directory followed by an atomic rename.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replacing %s: %w", filepath.Base(path), err)
	}

	success = true
	return nil
}

// readJSON decodes path into v. It reports ok=false when the file is
// missing, unreadable, or corrupt — recoverable conditions for catalog
// files, which always have a well-defined empty state.
func readJSON(path string, v any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, v) == nil
}
