package catalog

import (
	"clawwatch/internal/model"
)

// LoadSessions reads the sessions.json catalog of a session-storage root.
// A missing or corrupt catalog is treated as empty, never as a failure:
// the catalog's empty state is always recoverable.
func LoadSessions(root string) model.SessionMap {
	sessions := model.SessionMap{}
	if !readJSON(SessionsPath(root), &sessions) {
		return model.SessionMap{}
	}
	return sessions
}

// SaveSessions rewrites the catalog of a root wholesale. Callers must hold
// the complete current state; there is no partial update. The caller is
// also responsible for serializing read-modify-write cycles per root (see
// the per-root locking in the service layer).
func SaveSessions(root string, sessions model.SessionMap) error {
	return writeJSON(SessionsPath(root), sessions)
}
