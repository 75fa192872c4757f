package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
)

// NewSessionsRoot creates a temporary sessions directory with a
// sessions.json catalog holding the given records.
func NewSessionsRoot(t *testing.T, records map[string]any) string {
	t.Helper()
	dir := t.TempDir()
	WriteCatalog(t, dir, records)
	return dir
}

// WriteCatalog writes a sessions.json catalog into dir.
func WriteCatalog(t *testing.T, dir string, records map[string]any) {
	t.Helper()
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		t.Fatalf("marshaling catalog: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sessions.json"), data, 0644); err != nil {
		t.Fatalf("writing catalog: %v", err)
	}
}

// WriteTranscript writes a JSONL transcript for sessionID into dir and
// returns its path. Each line is written verbatim.
func WriteTranscript(t *testing.T, dir, sessionID string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, sessionID+".jsonl")
	content := strings.Join(lines, "\n")
	if content != "" {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing transcript: %v", err)
	}
	return path
}

// WriteArchivedTranscript gzips the given lines into
// dir/archive/<sessionID>.jsonl.gz and returns its path.
func WriteArchivedTranscript(t *testing.T, dir, sessionID string, lines ...string) string {
	t.Helper()
	archiveDir := filepath.Join(dir, "archive")
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		t.Fatalf("creating archive dir: %v", err)
	}
	path := filepath.Join(archiveDir, sessionID+".jsonl.gz")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating archived transcript: %v", err)
	}
	zw := gzip.NewWriter(f)
	content := strings.Join(lines, "\n")
	if content != "" {
		content += "\n"
	}
	if _, err := zw.Write([]byte(content)); err != nil {
		t.Fatalf("compressing transcript: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing gzip writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("closing archived transcript: %v", err)
	}
	return path
}

// UserTurn builds one transcript line holding a user message with plain
// string content.
func UserTurn(text string) string {
	line, _ := json.Marshal(map[string]any{
		"type": "message",
		"message": map[string]any{
			"role":    "user",
			"content": text,
		},
	})
	return string(line)
}

// AssistantTurn builds one transcript line holding an assistant message
// with a single text block.
func AssistantTurn(text string) string {
	line, _ := json.Marshal(map[string]any{
		"type": "message",
		"message": map[string]any{
			"role": "assistant",
			"content": []map[string]any{
				{"type": "text", "text": text},
			},
		},
	})
	return string(line)
}
