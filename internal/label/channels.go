package label

import (
	"strings"

	"clawwatch/internal/model"
)

// channelFamily describes one recognized chat-channel family. The origin
// fields are consulted in order for a display name; fallback is used when
// none yields one.
type channelFamily struct {
	id       string
	display  string
	origin   func(o model.Origin) string
	fallback string
}

// families is the recognized channel set: signal (with group/DM
// distinction, handled specially below) plus four single-recipient
// channel types.
var families = []channelFamily{
	{
		id:      "signal",
		display: "Signal",
		// group/DM sub-rules in fromSignal
	},
	{
		id:      "discord",
		display: "Discord",
		origin: func(o model.Origin) string {
			return firstNonEmpty(o.Label, o.ChannelName)
		},
		fallback: "Discord Chat",
	},
	{
		id:      "telegram",
		display: "Telegram",
		origin: func(o model.Origin) string {
			return firstNonEmpty(o.Label, o.ChatTitle)
		},
		fallback: "Telegram Chat",
	},
	{
		id:      "whatsapp",
		display: "WhatsApp",
		origin: func(o model.Origin) string {
			return firstNonEmpty(o.Label, o.From)
		},
		fallback: "WhatsApp Chat",
	},
	{
		id:      "slack",
		display: "Slack",
		origin: func(o model.Origin) string {
			return firstNonEmpty(o.Label, o.ChannelName)
		},
		fallback: "Slack Chat",
	},
}

// matchFamily finds the channel family a session belongs to, by key
// marker or by the record's channel field.
func matchFamily(key string, rec model.SessionRecord) *channelFamily {
	channel := rec.EffectiveChannel()
	for i := range families {
		f := &families[i]
		if strings.Contains(key, ":"+f.id+":") || channel == f.id {
			return f
		}
	}
	return nil
}

func (r *Resolver) isChannelSession(key string, rec model.SessionRecord) bool {
	return matchFamily(key, rec) != nil
}

func (r *Resolver) fromChannel(key string, rec model.SessionRecord) Attribution {
	f := matchFamily(key, rec)
	if f.id == "signal" {
		return Attribution{Label: r.fromSignal(key, rec)}
	}
	if origin := f.origin(rec.Origin); origin != "" {
		return Attribution{Label: f.display + ": " + origin}
	}
	return Attribution{Label: f.fallback}
}

// fromSignal applies the signal-specific sub-rules: group chats prefer an
// explicit group name with opaque-identifier rejection, DMs prefer an
// origin label with channel-prefix stripping and phone formatting.
func (r *Resolver) fromSignal(key string, rec model.SessionRecord) string {
	if strings.Contains(key, "group") || rec.ChatType == "group" {
		return signalGroupLabel(rec)
	}
	return signalDMLabel(key, rec)
}

// maxGroupNameLen rejects candidate group names long enough to be raw
// identifiers rather than human names.
const maxGroupNameLen = 30

func signalGroupLabel(rec model.SessionRecord) string {
	name := firstNonEmpty(rec.Origin.Label, rec.Origin.GroupName)
	if name != "" {
		// Strip a trailing " id:<opaque>" suffix.
		if i := strings.Index(name, " id:"); i >= 0 {
			name = strings.TrimSpace(name[:i])
		}
		if name != "" && !strings.HasPrefix(name, "group:") &&
			len(name) < maxGroupNameLen && !looksOpaque(name) {
			return "Signal: " + name
		}
	}

	// Fall back to a derived name from the display-name field, shaped
	// like "signal:g-<group-name>".
	if dn := rec.DisplayName; strings.HasPrefix(dn, "signal:g-") {
		derived := strings.TrimPrefix(dn, "signal:g-")
		if strings.HasPrefix(derived, "group-") {
			return "Signal Group Chat"
		}
		if len(derived) < maxGroupNameLen {
			return "Signal: " + titleCase(strings.ReplaceAll(derived, "-", " "))
		}
	}

	return "Signal Group Chat"
}

func signalDMLabel(key string, rec model.SessionRecord) string {
	candidate := firstNonEmpty(rec.Origin.Label, rec.Origin.From, keyAfter(key, ":dm:"))
	if candidate == "" {
		return "Signal DM"
	}
	if strings.HasPrefix(candidate, "signal:") {
		return "Signal: " + FormatPhone(strings.TrimPrefix(candidate, "signal:"))
	}
	if !strings.HasPrefix(candidate, "group:") {
		return "Signal: " + candidate
	}
	return "Signal DM"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// titleCase capitalizes the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
