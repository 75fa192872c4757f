package claw

import "errors"

// Sentinel errors for per-session operation outcomes. These are
// non-fatal results to surface to the caller, not internal failures.
var (
	// ErrSessionNotFound: the key is in no agent's catalog.
	ErrSessionNotFound = errors.New("session not found")

	// ErrTranscriptNotFound: no transcript file matches the session ID.
	ErrTranscriptNotFound = errors.New("transcript not found")

	// ErrArchiveNotFound: the key or session ID is in no archive index.
	ErrArchiveNotFound = errors.New("archived session not found")

	// ErrReadOnly: a mutating operation was invoked in read-only mode.
	ErrReadOnly = errors.New("read-only mode")
)
