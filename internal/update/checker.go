// Package update checks a release registry for newer versions, caching
// the result on disk so the check costs at most one HTTP request a day.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// CacheTTL is how long a registry response stays fresh.
const CacheTTL = 24 * time.Hour

// Status is the outcome of a version check.
type Status struct {
	Enabled         bool   `json:"enabled"`
	CurrentVersion  string `json:"currentVersion"`
	LatestVersion   string `json:"latestVersion,omitempty"`
	UpdateAvailable bool   `json:"updateAvailable"`
	CheckedAt       int64  `json:"checkedAt,omitempty"`
	Error           string `json:"error,omitempty"`
}

// Checker queries a registry endpoint that answers with
// {"version": "x.y.z", ...}.
type Checker struct {
	RegistryURL string
	CachePath   string
	Version     string
	Enabled     bool
	Client      *http.Client
	Now         func() time.Time
}

// NewChecker builds a checker with a 10-second HTTP client.
func NewChecker(registryURL, cachePath, version string, enabled bool) *Checker {
	return &Checker{
		RegistryURL: registryURL,
		CachePath:   cachePath,
		Version:     version,
		Enabled:     enabled,
		Client:      &http.Client{Timeout: 10 * time.Second},
		Now:         time.Now,
	}
}

type cacheEntry struct {
	LatestVersion string `json:"latestVersion"`
	CheckedAt     int64  `json:"checkedAt"`
}

// Check reports whether a newer version is published. Registry failures
// degrade to "no update known" with the error recorded on the status; the
// caller's workflow is never interrupted by the registry being down.
func (c *Checker) Check(ctx context.Context) Status {
	status := Status{Enabled: c.Enabled, CurrentVersion: c.Version}
	if !c.Enabled {
		return status
	}

	if cached, ok := c.readCache(); ok {
		status.LatestVersion = cached.LatestVersion
		status.CheckedAt = cached.CheckedAt
		status.UpdateAvailable = CompareVersions(cached.LatestVersion, c.Version) > 0
		return status
	}

	latest, err := c.fetchLatest(ctx)
	if err != nil {
		status.Error = err.Error()
		return status
	}

	now := c.Now().UnixMilli()
	c.writeCache(cacheEntry{LatestVersion: latest, CheckedAt: now})

	status.LatestVersion = latest
	status.CheckedAt = now
	status.UpdateAvailable = CompareVersions(latest, c.Version) > 0
	return status
}

func (c *Checker) fetchLatest(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.RegistryURL, nil)
	if err != nil {
		return "", fmt.Errorf("building registry request: %w", err)
	}
	req.Header.Set("User-Agent", "ClawWatch/"+c.Version)

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("querying registry: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("registry returned status %d", resp.StatusCode)
	}

	var payload struct {
		Version string `json:"version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decoding registry response: %w", err)
	}
	if payload.Version == "" {
		return "", fmt.Errorf("registry response carries no version")
	}
	return payload.Version, nil
}

func (c *Checker) readCache() (cacheEntry, bool) {
	if c.CachePath == "" {
		return cacheEntry{}, false
	}
	data, err := os.ReadFile(c.CachePath)
	if err != nil {
		return cacheEntry{}, false
	}
	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil || entry.LatestVersion == "" {
		return cacheEntry{}, false
	}
	if c.Now().UnixMilli()-entry.CheckedAt > CacheTTL.Milliseconds() {
		return cacheEntry{}, false
	}
	return entry, true
}

func (c *Checker) writeCache(entry cacheEntry) {
	if c.CachePath == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(c.CachePath), 0755); err != nil {
		return
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_ = os.WriteFile(c.CachePath, data, 0644)
}

// CompareVersions orders two dotted version strings numerically,
// segment by segment. A leading "v" is ignored; a non-numeric segment
// compares as zero. Returns -1, 0, or 1.
func CompareVersions(a, b string) int {
	as := versionSegments(a)
	bs := versionSegments(b)
	for i := 0; i < len(as) || i < len(bs); i++ {
		var av, bv int
		if i < len(as) {
			av = as[i]
		}
		if i < len(bs) {
			bv = bs[i]
		}
		if av != bv {
			if av < bv {
				return -1
			}
			return 1
		}
	}
	return 0
}

func versionSegments(v string) []int {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		v = v[:i]
	}
	parts := strings.Split(v, ".")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			n = 0
		}
		out[i] = n
	}
	return out
}
