package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidRetention is returned when a retention value is neither the
// sentinel "never" nor a positive integer number of days.
var ErrInvalidRetention = errors.New("invalid retention period")

// RetentionDays is either the sentinel "never" (retention disabled) or a
// positive number of days. The zero value is invalid; use Never() or Days().
type RetentionDays struct {
	never bool
	days  int
}

// RetentionNever returns the disabled-retention sentinel.
func RetentionNever() RetentionDays { return RetentionDays{never: true} }

// RetentionAfterDays returns a retention window of d days. d must be
// positive; validity is checked by Validate.
func RetentionAfterDays(d int) RetentionDays { return RetentionDays{days: d} }

// Never reports whether retention is disabled.
func (r RetentionDays) Never() bool { return r.never }

// Days returns the retention window in days. Only meaningful when Never
// is false.
func (r RetentionDays) Days() int { return r.days }

// Validate checks the "never or positive integer" invariant.
func (r RetentionDays) Validate() error {
	if r.never {
		return nil
	}
	if r.days < 1 {
		return fmt.Errorf("%w: days must be positive, got %d", ErrInvalidRetention, r.days)
	}
	return nil
}

func (r RetentionDays) String() string {
	if r.never {
		return "never"
	}
	return fmt.Sprintf("%d", r.days)
}

func (r RetentionDays) MarshalJSON() ([]byte, error) {
	if r.never {
		return json.Marshal("never")
	}
	return json.Marshal(r.days)
}

func (r *RetentionDays) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "never" {
			*r = RetentionDays{never: true}
			return nil
		}
		return fmt.Errorf("%w: %q", ErrInvalidRetention, s)
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRetention, string(data))
	}
	if n < 1 {
		return fmt.Errorf("%w: days must be positive, got %d", ErrInvalidRetention, n)
	}
	*r = RetentionDays{days: n}
	return nil
}

// ValidPageSizes are the page sizes the settings surface accepts. Any other
// value is coerced to the default rather than rejected.
var ValidPageSizes = []int{10, 25, 50, 100}

// DefaultPageSize is used when no valid page size is configured.
const DefaultPageSize = 20

// Settings are the per-root retention settings persisted in settings.json.
type Settings struct {
	RetentionDays RetentionDays `json:"retentionDays"`
	AutoArchive   bool          `json:"autoArchive"`
	PageSize      int           `json:"pageSize"`
}

// DefaultSettings returns the settings used when settings.json is absent.
func DefaultSettings() Settings {
	return Settings{
		RetentionDays: RetentionNever(),
		AutoArchive:   true,
		PageSize:      DefaultPageSize,
	}
}

// Normalize coerces an out-of-range page size to the default. Retention is
// never coerced; an invalid retention value is a validation error.
func (s *Settings) Normalize() {
	for _, v := range ValidPageSizes {
		if s.PageSize == v {
			return
		}
	}
	s.PageSize = DefaultPageSize
}

// Validate checks the settings invariants prior to persisting.
func (s Settings) Validate() error {
	return s.RetentionDays.Validate()
}
