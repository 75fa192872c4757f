package model

import "testing"

func TestArchiveIndex_Find(t *testing.T) {
	ix := &ArchiveIndex{Sessions: []ArchiveEntry{
		{Key: "agent:main:main", SessionID: "abc123"},
		{Key: "agent:main:discord:dm:42", SessionID: "def456"},
	}}

	if e := ix.Find("agent:main:main"); e == nil || e.SessionID != "abc123" {
		t.Errorf("Find by key = %v", e)
	}
	if e := ix.Find("def456"); e == nil || e.Key != "agent:main:discord:dm:42" {
		t.Errorf("Find by session ID = %v", e)
	}
	if e := ix.Find("missing"); e != nil {
		t.Errorf("Find(missing) = %v, want nil", e)
	}
}

func TestArchiveIndex_totalSizeInvariant(t *testing.T) {
	ix := &ArchiveIndex{}
	ix.Add(ArchiveEntry{Key: "a", CompressedSize: 1500})
	ix.Add(ArchiveEntry{Key: "b", CompressedSize: 2500})

	if ix.TotalSize != 4000 {
		t.Errorf("TotalSize after adds = %d, want 4000", ix.TotalSize)
	}

	if !ix.Remove("a") {
		t.Fatal("Remove(a) = false, want true")
	}
	if ix.TotalSize != 2500 {
		t.Errorf("TotalSize after remove = %d, want 2500", ix.TotalSize)
	}

	if ix.Remove("a") {
		t.Error("Remove(a) twice = true, want false")
	}
	if ix.Remove("missing") {
		t.Error("Remove(missing) = true, want false")
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{5242880, "5.0 MB"},
	}
	for _, tt := range tests {
		if got := FormatSize(tt.in); got != tt.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
