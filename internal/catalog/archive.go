package catalog

import (
	"fmt"
	"os"

	"clawwatch/internal/model"
)

// LoadIndex reads the archive index of a session-storage root. A missing
// or corrupt index is treated as empty.
func LoadIndex(root string) *model.ArchiveIndex {
	ix := &model.ArchiveIndex{}
	if !readJSON(ArchiveIndexPath(root), ix) {
		return &model.ArchiveIndex{}
	}
	if ix.Sessions == nil {
		ix.Sessions = []model.ArchiveEntry{}
	}
	return ix
}

// SaveIndex recomputes the index's size total and rewrites it wholesale,
// creating the archive directory if needed. The total is always derived
// from the entries at save time so it can never drift.
func SaveIndex(root string, ix *model.ArchiveIndex) error {
	if err := os.MkdirAll(ArchivePath(root), 0755); err != nil {
		return fmt.Errorf("creating archive directory: %w", err)
	}
	ix.RecomputeTotal()
	return writeJSON(ArchiveIndexPath(root), ix)
}
