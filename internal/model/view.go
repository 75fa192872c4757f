package model

import "fmt"

// Session statuses derived for listings.
const (
	StatusRunning = "running"
	StatusFailed  = "failed"
	StatusDone    = "done"
)

// DefaultContextTokens is assumed when a record does not report its
// context window size.
const DefaultContextTokens = 200000

// SessionView is the listing projection of a session record: the record's
// own fields plus computed attribution, status, and size fields. Views are
// read-only; nothing in them is ever written back to a catalog.
type SessionView struct {
	ID            string  `json:"id"`
	Key           string  `json:"key"`
	AgentID       string  `json:"agentId"`
	Label         string  `json:"label"`
	AgentName     string  `json:"agentName,omitempty"`
	Status        string  `json:"status"`
	UpdatedAt     int64   `json:"updatedAt"`
	AgeMs         int64   `json:"ageMs"`
	Channel       string  `json:"channel"`
	Model         string  `json:"model"`
	TotalTokens   int64   `json:"totalTokens"`
	ContextTokens int64   `json:"contextTokens"`
	UsagePct      float64 `json:"usagePct"`
	Node          string  `json:"node"`
	SizeBytes     int64   `json:"sizeBytes"`
	SizeFormatted string  `json:"sizeFormatted"`
	Task          string  `json:"task,omitempty"`

	// Directory is the session-storage root the record came from. It is
	// provenance for follow-up operations, never serialized to callers.
	Directory string `json:"-"`
}

// ListingStats summarize a full listing across active and archived
// sessions.
type ListingStats struct {
	ActiveCount           int    `json:"activeCount"`
	ActiveSizeBytes       int64  `json:"activeSizeBytes"`
	ActiveSizeFormatted   string `json:"activeSizeFormatted"`
	ArchivedCount         int    `json:"archivedCount"`
	ArchivedSizeBytes     int64  `json:"archivedSizeBytes"`
	ArchivedSizeFormatted string `json:"archivedSizeFormatted"`
}

// SessionListing is the result of listing all active sessions.
type SessionListing struct {
	Sessions []SessionView `json:"sessions"`
	Stats    ListingStats  `json:"stats"`
}

// ArchiveListing is the result of listing archived sessions across all
// session-storage roots.
type ArchiveListing struct {
	Sessions           []ArchiveEntry `json:"sessions"`
	TotalSize          int64          `json:"totalSize"`
	TotalSizeFormatted string         `json:"totalSizeFormatted"`
}

// AgentOption is one entry of the agent filter list.
type AgentOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Node describes an execution node, either reported by the orchestration
// CLI or discovered from session attribution.
type Node struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Value         string   `json:"value"`
	DisplayName   string   `json:"displayName"`
	IsGateway     bool     `json:"isGateway"`
	Connected     bool     `json:"connected"`
	Status        string   `json:"status"`
	StatusMessage string   `json:"statusMessage"`
	Version       string   `json:"version,omitempty"`
	Platform      string   `json:"platform,omitempty"`
	Caps          []string `json:"caps,omitempty"`
}

// SweepReport summarizes one retention sweep. Failures never abort the
// sweep; they are counted and reported alongside the successes.
type SweepReport struct {
	Archived int      `json:"archived"`
	Failed   int      `json:"failed"`
	Message  string   `json:"message,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}

// FormatSize renders a byte count as the dashboard's human string.
func FormatSize(n int64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	}
}
