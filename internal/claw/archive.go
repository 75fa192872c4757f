package claw

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/klauspost/compress/gzip"

	"clawwatch/internal/agents"
	"clawwatch/internal/catalog"
	"clawwatch/internal/model"
	"clawwatch/internal/retention"
	"clawwatch/internal/transcript"
)

// ArchiveSession moves one active session into the archive: its transcript
// is compressed, recorded in the archive index, and removed from the live
// catalog. The archive artifact and index are durably written before the
// original transcript or catalog row is touched, so a crash mid-operation
// leaves the session still discoverable as active and the operation safe
// to retry.
func (s *SessionService) ArchiveSession(key string) error {
	if err := s.checkWritable(); err != nil {
		return err
	}

	for _, dir := range s.dirs() {
		unlock := s.lockDir(dir.Path)
		sessions := catalog.LoadSessions(dir.Path)
		rec, ok := sessions[key]
		if !ok {
			unlock()
			continue
		}
		err := s.archiveOne(dir.Path, key, rec, sessions)
		unlock()
		return err
	}
	return ErrSessionNotFound
}

// archiveOne executes the archival steps for a session already located in
// a root's catalog. The caller holds the root's lock and passes the full
// current catalog state.
func (s *SessionService) archiveOne(root, key string, rec model.SessionRecord, sessions model.SessionMap) error {
	opID := s.idgen.New()
	sessionID := rec.EffectiveSessionID(key)
	logger := s.logger

	transcriptPath, ambiguous, err := agents.FindTranscript(root, sessionID)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s.jsonl", ErrTranscriptNotFound, sessionID)
		}
		return fmt.Errorf("locating transcript: %w", err)
	}
	if ambiguous {
		// Multiple files contain the session ID; the first match is an
		// arbitrary, unvalidated choice.
		logger.Warn("transcript match ambiguous", "op", opID, "sessionId", sessionID, "chosen", transcriptPath)
	}

	if err := os.MkdirAll(catalog.ArchivePath(root), 0755); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("cannot create archive directory: permission denied")
		}
		return fmt.Errorf("cannot create archive directory: %w", err)
	}

	archivePath := catalog.ArchivedTranscriptPath(root, sessionID)
	if err := compressFile(transcriptPath, archivePath); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("permission denied writing to archive")
		}
		return fmt.Errorf("failed to compress transcript: %w", err)
	}

	// From here on a failure must remove the partial artifact so the index
	// never references an orphan.
	cleanup := func() { os.Remove(archivePath) }

	// Sizes come from the files on disk, never from in-memory counters.
	originalSize := fileSize(transcriptPath)
	compressedSize := fileSize(archivePath)

	task := rec.Task
	if task == "" {
		if f, err := os.Open(transcriptPath); err == nil {
			task = transcript.FirstUserMessage(f)
			f.Close()
		}
	}

	entryLabel := rec.Label
	if entryLabel == "" {
		entryLabel = key
	}

	ix := catalog.LoadIndex(root)
	ix.Add(model.ArchiveEntry{
		Key:            key,
		SessionID:      sessionID,
		Label:          entryLabel,
		ArchivedAt:     s.clock.Now().UnixMilli(),
		OriginalSize:   originalSize,
		CompressedSize: compressedSize,
		UpdatedAt:      rec.UpdatedAt,
		Model:          rec.Model,
		Channel:        rec.EffectiveChannel(),
		Node:           rec.NodeName(),
		Task:           task,
	})
	if err := catalog.SaveIndex(root, ix); err != nil {
		cleanup()
		return fmt.Errorf("writing archive index: %w", err)
	}

	if err := os.Remove(transcriptPath); err != nil {
		// The index already references the artifact; roll the entry back
		// rather than leaving the session in both catalogs.
		ix.Remove(key)
		if saveErr := catalog.SaveIndex(root, ix); saveErr != nil {
			logger.Error("rollback of archive index failed", "op", opID, "key", key, "error", saveErr)
		}
		cleanup()
		return fmt.Errorf("removing original transcript: %w", err)
	}

	delete(sessions, key)
	if err := catalog.SaveSessions(root, sessions); err != nil {
		return fmt.Errorf("updating session catalog: %w", err)
	}

	logger.Info("session archived", "op", opID, "key", key,
		"originalSize", originalSize, "compressedSize", compressedSize)
	return nil
}

// RestoreSession moves an archived session back to active: the transcript
// is decompressed, a catalog row is re-inserted carrying the archived
// metadata forward with a restoredAt stamp, and the archive entry and
// artifact are removed.
func (s *SessionService) RestoreSession(key string) error {
	if err := s.checkWritable(); err != nil {
		return err
	}

	for _, dir := range s.dirs() {
		unlock := s.lockDir(dir.Path)
		found, err := s.restoreOne(dir.Path, key)
		unlock()
		if found {
			return err
		}
	}
	return ErrArchiveNotFound
}

func (s *SessionService) restoreOne(root, key string) (found bool, err error) {
	ix := catalog.LoadIndex(root)
	entry := ix.Find(key)
	if entry == nil {
		return false, nil
	}

	archivePath := catalog.ArchivedTranscriptPath(root, entry.SessionID)
	if _, statErr := os.Stat(archivePath); statErr != nil {
		return true, fmt.Errorf("%w: artifact missing for %s", ErrArchiveNotFound, entry.SessionID)
	}

	transcriptPath := catalog.TranscriptPath(root, entry.SessionID)
	if err := decompressFile(archivePath, transcriptPath); err != nil {
		return true, fmt.Errorf("decompressing transcript: %w", err)
	}

	sessions := catalog.LoadSessions(root)
	sessions[entry.Key] = model.SessionRecord{
		SessionID:  entry.SessionID,
		Label:      entry.Label,
		UpdatedAt:  entry.UpdatedAt,
		Model:      entry.Model,
		Channel:    entry.Channel,
		Node:       entry.Node,
		RestoredAt: s.clock.Now().UnixMilli(),
	}
	if err := catalog.SaveSessions(root, sessions); err != nil {
		return true, fmt.Errorf("updating session catalog: %w", err)
	}

	ix.Remove(entry.Key)
	if err := catalog.SaveIndex(root, ix); err != nil {
		return true, fmt.Errorf("writing archive index: %w", err)
	}

	if err := os.Remove(archivePath); err != nil {
		s.logger.Warn("removing archived artifact failed", "path", archivePath, "error", err)
	}

	s.logger.Info("session restored", "key", entry.Key)
	return true, nil
}

// RunRetentionSweep archives every session older than the retention
// window. One session's failure never aborts the sweep; the report
// carries the aggregate counts.
func (s *SessionService) RunRetentionSweep() (*model.SweepReport, error) {
	if err := s.checkWritable(); err != nil {
		return nil, err
	}

	settings := s.Settings()
	if settings.RetentionDays.Never() {
		return &model.SweepReport{Message: "Retention set to never"}, nil
	}

	opID := s.idgen.New()
	now := s.clock.Now()
	report := &model.SweepReport{}

	for _, dir := range s.dirs() {
		unlock := s.lockDir(dir.Path)
		sessions := catalog.LoadSessions(dir.Path)
		for _, c := range retention.SelectExpired(sessions, settings, now) {
			if err := s.archiveOne(dir.Path, c.Key, c.Record, sessions); err != nil {
				report.Failed++
				report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", c.Key, err))
				s.logger.Warn("sweep: archiving failed", "op", opID, "key", c.Key, "error", err)
				continue
			}
			report.Archived++
		}
		unlock()
	}

	s.logger.Info("retention sweep finished", "op", opID,
		"archived", report.Archived, "failed", report.Failed)
	return report, nil
}

// compressFile gzips src into dst.
func compressFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrTranscriptNotFound, src)
		}
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	zw := gzip.NewWriter(out)
	if _, err := io.Copy(zw, in); err != nil {
		zw.Close()
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := zw.Close(); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return err
	}
	return nil
}

// decompressFile gunzips src into dst.
func decompressFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	zr, err := gzip.NewReader(in)
	if err != nil {
		return err
	}
	defer zr.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, zr); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
