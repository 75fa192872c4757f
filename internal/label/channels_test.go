package label

import (
	"testing"

	"clawwatch/internal/model"
)

func TestResolver_channelLabels(t *testing.T) {
	tests := []struct {
		name string
		key  string
		rec  model.SessionRecord
		want string
	}{
		{
			name: "discord with origin label",
			key:  "agent:main:discord:channel:123",
			rec:  model.SessionRecord{Origin: model.Origin{Label: "general"}},
			want: "Discord: general",
		},
		{
			name: "discord falls back to channel name",
			key:  "agent:main:discord:channel:123",
			rec:  model.SessionRecord{Origin: model.Origin{ChannelName: "random"}},
			want: "Discord: random",
		},
		{
			name: "discord generic fallback",
			key:  "agent:main:discord:channel:123",
			rec:  model.SessionRecord{},
			want: "Discord Chat",
		},
		{
			name: "telegram chat title",
			key:  "agent:main:telegram:chat:55",
			rec:  model.SessionRecord{Origin: model.Origin{ChatTitle: "Team Sync"}},
			want: "Telegram: Team Sync",
		},
		{
			name: "whatsapp from field",
			key:  "agent:main:whatsapp:dm:99",
			rec:  model.SessionRecord{Origin: model.Origin{From: "+442071234567"}},
			want: "WhatsApp: +442071234567",
		},
		{
			name: "slack channel",
			key:  "agent:main:slack:channel:C01",
			rec:  model.SessionRecord{Origin: model.Origin{ChannelName: "eng-infra"}},
			want: "Slack: eng-infra",
		},
		{
			name: "channel matched via record field not key",
			key:  "agent:main:something:else",
			rec:  model.SessionRecord{Channel: "telegram"},
			want: "Telegram Chat",
		},
	}

	r := testResolver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(tt.key, tt.rec)
			if got.Label != tt.want {
				t.Errorf("Label = %q, want %q", got.Label, tt.want)
			}
		})
	}
}

func TestResolver_signalLabels(t *testing.T) {
	tests := []struct {
		name string
		key  string
		rec  model.SessionRecord
		want string
	}{
		{
			name: "group with clean origin label",
			key:  "agent:main:signal:group:abc",
			rec:  model.SessionRecord{Origin: model.Origin{Label: "Family"}},
			want: "Signal: Family",
		},
		{
			name: "group label strips id suffix",
			key:  "agent:main:signal:group:abc",
			rec:  model.SessionRecord{Origin: model.Origin{GroupName: "Book Club id:a1b2c3d4e5f6a7b8c9d0e1f2"}},
			want: "Signal: Book Club",
		},
		{
			name: "group rejects opaque name and derives from display name",
			key:  "agent:main:signal:group:abc",
			rec: model.SessionRecord{
				Origin:      model.Origin{GroupName: "a1b2c3d4e5f6a7b8c9d0e1f2"},
				DisplayName: "signal:g-book-club",
			},
			want: "Signal: Book Club",
		},
		{
			name: "group derived name starting with group- is rejected",
			key:  "agent:main:signal:group:abc",
			rec:  model.SessionRecord{DisplayName: "signal:g-group-a1b2c3"},
			want: "Signal Group Chat",
		},
		{
			name: "group with nothing usable",
			key:  "agent:main:signal:group:abc",
			rec:  model.SessionRecord{},
			want: "Signal Group Chat",
		},
		{
			name: "chatType group without key marker",
			key:  "agent:main:signal:dm:someone",
			rec:  model.SessionRecord{ChatType: "group", Origin: model.Origin{Label: "Neighbors"}},
			want: "Signal: Neighbors",
		},
		{
			name: "dm with phone in key remainder",
			key:  "agent:main:signal:dm:signal:+12345678901",
			rec:  model.SessionRecord{},
			want: "Signal: +1 234 567 8901",
		},
		{
			name: "dm with origin label",
			key:  "agent:main:signal:dm:xyz",
			rec:  model.SessionRecord{Origin: model.Origin{Label: "Alex"}},
			want: "Signal: Alex",
		},
		{
			name: "dm with group-prefixed candidate",
			key:  "agent:main:signal:dm:xyz",
			rec:  model.SessionRecord{Origin: model.Origin{Label: "group:a1b2c3"}},
			want: "Signal DM",
		},
		{
			name: "dm with nothing usable",
			key:  "agent:main:signal:chat",
			rec:  model.SessionRecord{},
			want: "Signal DM",
		},
	}

	r := testResolver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(tt.key, tt.rec)
			if got.Label != tt.want {
				t.Errorf("Label = %q, want %q", got.Label, tt.want)
			}
		})
	}
}

func TestTitleCase(t *testing.T) {
	if got := titleCase("book club"); got != "Book Club" {
		t.Errorf("titleCase = %q", got)
	}
	if got := titleCase(""); got != "" {
		t.Errorf("titleCase(\"\") = %q", got)
	}
}
