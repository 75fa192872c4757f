// Package claw is the orchestration core: it coordinates the session
// catalogs, archive indexes, transcripts, and attribution heuristics
// behind every operation the CLI exposes.
package claw

import (
	"context"
	"time"

	"github.com/google/uuid"

	"clawwatch/internal/model"
)

// Clock abstracts time retrieval so retention and archival stamping are
// deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// IDGenerator abstracts operation-ID generation so tests are
// deterministic.
type IDGenerator interface {
	New() string
}

// UUIDGenerator produces random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.New().String() }

// Logger provides structured logging for the service layer. The args
// follow slog conventions: alternating key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NopLogger is a Logger that discards all output. Use in tests.
type NopLogger struct{}

func NewNopLogger() *NopLogger { return &NopLogger{} }

func (*NopLogger) Debug(string, ...any) {}
func (*NopLogger) Info(string, ...any)  {}
func (*NopLogger) Warn(string, ...any)  {}
func (*NopLogger) Error(string, ...any) {}

// Gateway is the external orchestration-CLI collaborator. Both lookups
// are best-effort: errors degrade to missing metadata, never to operation
// failure.
type Gateway interface {
	CronNames(ctx context.Context) (map[string]string, error)
	Nodes(ctx context.Context) ([]model.Node, error)
}
