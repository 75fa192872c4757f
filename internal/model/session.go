package model

import (
	"encoding/json"
)

// SessionRecord is one row of an agent's sessions.json catalog. The agent
// runtime writes these records with a loose schema: fields may be absent,
// have unexpected types, or carry extra keys this tool has never seen.
// Decoding is therefore field-by-field tolerant, and the original bytes are
// retained so a catalog rewrite never drops data belonging to records this
// tool did not itself create.
type SessionRecord struct {
	SessionID      string
	Label          string
	UpdatedAt      int64 // epoch milliseconds
	Channel        string
	LastChannel    string
	Model          string
	Node           string
	Hostname       string
	TotalTokens    int64
	ContextTokens  int64
	AbortedLastRun bool
	DisplayName    string
	ChatType       string
	Origin         Origin
	Task           string
	AgeMs          int64
	RestoredAt     int64

	raw json.RawMessage
}

// Origin carries the free-form provenance metadata the runtime attaches to
// chat-channel sessions. Only the fields the label resolver consults are
// modelled; the rest survives through the raw record bytes.
type Origin struct {
	Label       string
	From        string
	GroupName   string
	ChannelName string
	ChatTitle   string
}

// SessionMap is the in-memory form of one agent's catalog file.
type SessionMap map[string]SessionRecord

// EffectiveSessionID returns the record's session ID, defaulting to the
// catalog key when the record does not carry one.
func (r SessionRecord) EffectiveSessionID(key string) string {
	if r.SessionID != "" {
		return r.SessionID
	}
	return key
}

// EffectiveChannel returns the channel, falling back to lastChannel.
func (r SessionRecord) EffectiveChannel() string {
	if r.Channel != "" {
		return r.Channel
	}
	return r.LastChannel
}

// NodeName returns the node attribution, preferring node over hostname.
func (r SessionRecord) NodeName() string {
	if r.Node != "" {
		return r.Node
	}
	return r.Hostname
}

// UnmarshalJSON decodes a record field by field. A field of an unexpected
// type is ignored rather than failing the record, and a record of an
// unexpected shape (not a JSON object) yields a zero record rather than an
// error: malformed runtime output must never make a catalog unreadable.
func (r *SessionRecord) UnmarshalJSON(data []byte) error {
	*r = SessionRecord{raw: append(json.RawMessage(nil), data...)}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}

	r.SessionID = stringField(fields, "sessionId")
	r.Label = stringField(fields, "label")
	r.UpdatedAt = intField(fields, "updatedAt")
	r.Channel = stringField(fields, "channel")
	r.LastChannel = stringField(fields, "lastChannel")
	r.Model = stringField(fields, "model")
	r.Node = stringField(fields, "node")
	r.Hostname = stringField(fields, "hostname")
	r.TotalTokens = intField(fields, "totalTokens")
	r.ContextTokens = intField(fields, "contextTokens")
	r.AbortedLastRun = boolField(fields, "abortedLastRun")
	r.DisplayName = stringField(fields, "displayName")
	r.ChatType = stringField(fields, "chatType")
	r.Task = stringField(fields, "task")
	r.AgeMs = intField(fields, "ageMs")
	r.RestoredAt = intField(fields, "restoredAt")

	if originRaw, ok := fields["origin"]; ok {
		var origin map[string]json.RawMessage
		if err := json.Unmarshal(originRaw, &origin); err == nil {
			r.Origin = Origin{
				Label:       stringField(origin, "label"),
				From:        stringField(origin, "from"),
				GroupName:   stringField(origin, "groupName"),
				ChannelName: stringField(origin, "channelName"),
				ChatTitle:   stringField(origin, "chatTitle"),
			}
		}
	}

	return nil
}

// MarshalJSON writes back the exact bytes the record was loaded with, so a
// full-file catalog rewrite is lossless for records this tool only read.
// Records constructed in memory (restore) marshal their typed fields.
func (r SessionRecord) MarshalJSON() ([]byte, error) {
	if r.raw != nil {
		return r.raw, nil
	}

	out := map[string]any{
		"sessionId": r.SessionID,
		"updatedAt": r.UpdatedAt,
	}
	if r.Label != "" {
		out["label"] = r.Label
	}
	if r.Model != "" {
		out["model"] = r.Model
	}
	if r.Channel != "" {
		out["channel"] = r.Channel
	}
	if r.Node != "" {
		out["node"] = r.Node
	}
	if r.RestoredAt != 0 {
		out["restoredAt"] = r.RestoredAt
	}
	return json.Marshal(out)
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func intField(fields map[string]json.RawMessage, key string) int64 {
	raw, ok := fields[key]
	if !ok {
		return 0
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return int64(f)
	}
	return 0
}

func boolField(fields map[string]json.RawMessage, key string) bool {
	raw, ok := fields[key]
	if !ok {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false
	}
	return b
}
