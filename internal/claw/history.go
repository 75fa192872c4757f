package claw

import (
	"errors"
	"fmt"
	"os"

	"github.com/klauspost/compress/gzip"

	"clawwatch/internal/agents"
	"clawwatch/internal/catalog"
	"clawwatch/internal/transcript"
)

// SessionHistory projects an active session's transcript into the
// conversational turns. A session whose transcript file is missing yields
// ErrTranscriptNotFound; the catalogs are never touched.
func (s *SessionService) SessionHistory(sessionID string) ([]transcript.HistoryEntry, error) {
	path, err := s.findTranscript(sessionID)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening transcript: %w", err)
	}
	defer f.Close()

	return transcript.History(f)
}

// SessionResult returns the final assistant message of an active session,
// or nil when the transcript holds none.
func (s *SessionService) SessionResult(sessionID string) (*transcript.ResultMessage, error) {
	path, err := s.findTranscript(sessionID)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening transcript: %w", err)
	}
	defer f.Close()

	return transcript.Result(f)
}

// ArchivedHistory projects an archived session's transcript straight from
// the compressed artifact, without restoring it.
func (s *SessionService) ArchivedHistory(keyOrID string) ([]transcript.HistoryEntry, error) {
	for _, dir := range s.dirs() {
		ix := catalog.LoadIndex(dir.Path)
		entry := ix.Find(keyOrID)
		if entry == nil {
			continue
		}

		f, err := os.Open(catalog.ArchivedTranscriptPath(dir.Path, entry.SessionID))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%w: artifact missing for %s", ErrArchiveNotFound, entry.SessionID)
			}
			return nil, fmt.Errorf("opening archived transcript: %w", err)
		}
		defer f.Close()

		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("reading archived transcript: %w", err)
		}
		defer zr.Close()

		return transcript.History(zr)
	}
	return nil, ErrArchiveNotFound
}

// findTranscript searches every agent's sessions root for the transcript
// of the given session ID.
func (s *SessionService) findTranscript(sessionID string) (string, error) {
	for _, dir := range s.dirs() {
		path, ambiguous, err := agents.FindTranscript(dir.Path, sessionID)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return "", err
		}
		if ambiguous {
			s.logger.Warn("transcript match ambiguous", "sessionId", sessionID, "chosen", path)
		}
		return path, nil
	}
	return "", fmt.Errorf("%w: %s", ErrTranscriptNotFound, sessionID)
}
