// Package retention computes which active sessions have aged out of the
// configured retention window.
package retention

import (
	"sort"
	"time"

	"clawwatch/internal/model"
)

const millisPerDay = 24 * 60 * 60 * 1000

// Candidate is one session selected for archival.
type Candidate struct {
	Key    string
	Record model.SessionRecord
}

// Cutoff returns the archival cutoff in epoch milliseconds for the given
// settings. ok is false when retention is disabled.
func Cutoff(settings model.Settings, now time.Time) (cutoff int64, ok bool) {
	if settings.RetentionDays.Never() {
		return 0, false
	}
	return now.UnixMilli() - int64(settings.RetentionDays.Days())*millisPerDay, true
}

// SelectExpired returns the sessions strictly older than the retention
// cutoff, sorted by key for deterministic sweep order. A record without
// an updatedAt defaults to 0 and is always eligible: unknown age is
// treated as old. Disabled retention selects nothing — by design, not as
// an error.
func SelectExpired(sessions model.SessionMap, settings model.Settings, now time.Time) []Candidate {
	cutoff, ok := Cutoff(settings, now)
	if !ok {
		return nil
	}

	var expired []Candidate
	for key, rec := range sessions {
		if rec.UpdatedAt < cutoff {
			expired = append(expired, Candidate{Key: key, Record: rec})
		}
	}
	sort.Slice(expired, func(i, j int) bool { return expired[i].Key < expired[j].Key })
	return expired
}
