package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"clawwatch/internal/testutil"
)

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.2.3", "1.2.3", 0},
		{"v1.2.3", "1.2.3", 0},
		{"1.2.4", "1.2.3", 1},
		{"1.2.3", "1.3.0", -1},
		{"2.0", "1.9.9", 1},
		{"1.2", "1.2.0", 0},
		{"1.2.3-beta", "1.2.3", 0},
		{"garbage", "0.0.1", -1},
	}
	for _, tt := range tests {
		if got := CompareVersions(tt.a, tt.b); got != tt.want {
			t.Errorf("CompareVersions(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestChecker_Check(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	newTestChecker := func(t *testing.T, serverVersion string) (*Checker, *int) {
		t.Helper()
		calls := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			if got := r.Header.Get("User-Agent"); got != "ClawWatch/1.0.0" {
				t.Errorf("User-Agent = %q", got)
			}
			w.Write([]byte(`{"version":"` + serverVersion + `"}`))
		}))
		t.Cleanup(srv.Close)

		c := NewChecker(srv.URL, filepath.Join(t.TempDir(), "cache.json"), "1.0.0", true)
		c.Now = func() time.Time { return now }
		return c, &calls
	}

	t.Run("newer version available", func(t *testing.T) {
		c, _ := newTestChecker(t, "1.1.0")
		status := c.Check(context.Background())
		if !status.UpdateAvailable {
			t.Error("UpdateAvailable = false, want true")
		}
		if status.LatestVersion != "1.1.0" {
			t.Errorf("LatestVersion = %q", status.LatestVersion)
		}
	})

	t.Run("up to date", func(t *testing.T) {
		c, _ := newTestChecker(t, "1.0.0")
		status := c.Check(context.Background())
		if status.UpdateAvailable {
			t.Error("UpdateAvailable = true, want false")
		}
	})

	t.Run("second check within TTL uses cache", func(t *testing.T) {
		c, calls := newTestChecker(t, "1.1.0")
		c.Check(context.Background())
		c.Check(context.Background())
		if *calls != 1 {
			t.Errorf("registry calls = %d, want 1", *calls)
		}
	})

	t.Run("expired cache refetches", func(t *testing.T) {
		c, calls := newTestChecker(t, "1.1.0")
		clock := testutil.NewStubClock(now)
		c.Now = clock.Now
		c.Check(context.Background())

		clock.Advance(25 * time.Hour)
		c.Check(context.Background())
		if *calls != 2 {
			t.Errorf("registry calls = %d, want 2", *calls)
		}
	})

	t.Run("disabled checker never fetches", func(t *testing.T) {
		c, calls := newTestChecker(t, "9.9.9")
		c.Enabled = false
		status := c.Check(context.Background())
		if status.Enabled || status.UpdateAvailable || *calls != 0 {
			t.Errorf("status = %+v, calls = %d", status, *calls)
		}
	})

	t.Run("registry failure degrades", func(t *testing.T) {
		c := NewChecker("http://127.0.0.1:1/latest", filepath.Join(t.TempDir(), "cache.json"), "1.0.0", true)
		c.Now = func() time.Time { return now }
		c.Client.Timeout = 200 * time.Millisecond

		status := c.Check(context.Background())
		if status.Error == "" {
			t.Error("Error should be recorded")
		}
		if status.UpdateAvailable {
			t.Error("UpdateAvailable = true after failure")
		}
	})

	t.Run("corrupt cache is ignored", func(t *testing.T) {
		c, calls := newTestChecker(t, "1.1.0")
		if err := os.WriteFile(c.CachePath, []byte("{broken"), 0644); err != nil {
			t.Fatal(err)
		}
		status := c.Check(context.Background())
		if *calls != 1 || status.LatestVersion != "1.1.0" {
			t.Errorf("calls = %d, status = %+v", *calls, status)
		}
	})
}
