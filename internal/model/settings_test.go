package model

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestRetentionDays_JSON(t *testing.T) {
	t.Run("never round trips as string", func(t *testing.T) {
		out, err := json.Marshal(RetentionNever())
		if err != nil {
			t.Fatal(err)
		}
		if string(out) != `"never"` {
			t.Errorf("Marshal = %s, want \"never\"", out)
		}

		var r RetentionDays
		if err := json.Unmarshal(out, &r); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if !r.Never() {
			t.Error("round trip lost the never sentinel")
		}
	})

	t.Run("days round trip as number", func(t *testing.T) {
		out, err := json.Marshal(RetentionAfterDays(30))
		if err != nil {
			t.Fatal(err)
		}
		if string(out) != "30" {
			t.Errorf("Marshal = %s, want 30", out)
		}

		var r RetentionDays
		if err := json.Unmarshal(out, &r); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if r.Never() || r.Days() != 30 {
			t.Errorf("round trip = %v", r)
		}
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		for _, data := range []string{`"soon"`, `0`, `-5`, `true`, `{}`} {
			var r RetentionDays
			err := json.Unmarshal([]byte(data), &r)
			if !errors.Is(err, ErrInvalidRetention) {
				t.Errorf("Unmarshal(%s) error = %v, want ErrInvalidRetention", data, err)
			}
		}
	})
}

func TestRetentionDays_Validate(t *testing.T) {
	if err := RetentionNever().Validate(); err != nil {
		t.Errorf("never: %v", err)
	}
	if err := RetentionAfterDays(7).Validate(); err != nil {
		t.Errorf("7 days: %v", err)
	}
	if err := RetentionAfterDays(0).Validate(); !errors.Is(err, ErrInvalidRetention) {
		t.Errorf("0 days: error = %v, want ErrInvalidRetention", err)
	}
	if err := (RetentionDays{}).Validate(); !errors.Is(err, ErrInvalidRetention) {
		t.Errorf("zero value: error = %v, want ErrInvalidRetention", err)
	}
}

func TestSettings_Normalize(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{10, 10},
		{25, 25},
		{50, 50},
		{100, 100},
		{0, DefaultPageSize},
		{33, DefaultPageSize},
		{-1, DefaultPageSize},
	}
	for _, tt := range tests {
		s := Settings{RetentionDays: RetentionNever(), PageSize: tt.in}
		s.Normalize()
		if s.PageSize != tt.want {
			t.Errorf("Normalize(%d) = %d, want %d", tt.in, s.PageSize, tt.want)
		}
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if !s.RetentionDays.Never() {
		t.Error("default retention should be never")
	}
	if !s.AutoArchive {
		t.Error("default autoArchive should be true")
	}
	if s.PageSize != DefaultPageSize {
		t.Errorf("default pageSize = %d, want %d", s.PageSize, DefaultPageSize)
	}
}
