package model

// ArchiveEntry describes one archived session in an archive index.
type ArchiveEntry struct {
	Key            string `json:"key"`
	SessionID      string `json:"sessionId"`
	Label          string `json:"label"`
	ArchivedAt     int64  `json:"archivedAt"` // epoch milliseconds
	OriginalSize   int64  `json:"originalSize"`
	CompressedSize int64  `json:"compressedSize"`
	UpdatedAt      int64  `json:"updatedAt"`
	Model          string `json:"model,omitempty"`
	Channel        string `json:"channel,omitempty"`
	Node           string `json:"node,omitempty"`
	Task           string `json:"task,omitempty"`
}

// ArchiveIndex is the durable catalog of archived sessions for one
// session-storage root. TotalSize is derived state: it is recomputed from
// the entries on every mutation, never adjusted incrementally.
type ArchiveIndex struct {
	Sessions  []ArchiveEntry `json:"sessions"`
	TotalSize int64          `json:"totalSize"`
}

// Find returns the entry matching the given session key or session ID,
// or nil if none matches.
func (ix *ArchiveIndex) Find(keyOrID string) *ArchiveEntry {
	for i := range ix.Sessions {
		if ix.Sessions[i].Key == keyOrID || ix.Sessions[i].SessionID == keyOrID {
			return &ix.Sessions[i]
		}
	}
	return nil
}

// Add appends an entry and recomputes the size total.
func (ix *ArchiveIndex) Add(e ArchiveEntry) {
	ix.Sessions = append(ix.Sessions, e)
	ix.RecomputeTotal()
}

// Remove deletes all entries with the given key and recomputes the size
// total. It reports whether anything was removed.
func (ix *ArchiveIndex) Remove(key string) bool {
	kept := ix.Sessions[:0]
	removed := false
	for _, e := range ix.Sessions {
		if e.Key == key {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	ix.Sessions = kept
	ix.RecomputeTotal()
	return removed
}

// RecomputeTotal sets TotalSize to the sum of compressed sizes.
func (ix *ArchiveIndex) RecomputeTotal() {
	var total int64
	for _, e := range ix.Sessions {
		total += e.CompressedSize
	}
	ix.TotalSize = total
}
