// Package transcript projects read-only views out of line-delimited
// session transcripts. Transcripts are append-only runtime output and are
// never modified here; malformed lines are skipped so a partially corrupt
// file still yields the readable remainder.
package transcript

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
)

// Entry roles recognized in message records.
const (
	RoleUser       = "user"
	RoleAssistant  = "assistant"
	RoleToolResult = "toolResult"
)

// HistoryEntry is one rendered message of a transcript's history
// projection.
type HistoryEntry struct {
	Role      string          `json:"role"`
	Content   string          `json:"content"`
	Timestamp json.RawMessage `json:"timestamp,omitempty"`
}

// ResultMessage is the transcript's result projection: the last assistant
// message with non-empty text content.
type ResultMessage struct {
	Content   string          `json:"content"`
	Timestamp json.RawMessage `json:"timestamp,omitempty"`
}

type rawEntry struct {
	Type      string          `json:"type"`
	Message   json.RawMessage `json:"message"`
	Timestamp json.RawMessage `json:"timestamp"`
}

type rawMessage struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
	Name string `json:"name"`
}

// newScanner builds a line scanner sized for large transcript payloads.
func newScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	const maxCapacity = 8 * 1024 * 1024
	scanner.Buffer(make([]byte, 1024), maxCapacity)
	return scanner
}

// decodeMessage parses one transcript line into its message, if the line
// is a well-formed message record. Any other line shape is reported as
// not-a-message rather than an error.
func decodeMessage(line []byte) (rawMessage, json.RawMessage, bool) {
	var entry rawEntry
	if err := json.Unmarshal(line, &entry); err != nil {
		return rawMessage{}, nil, false
	}
	if entry.Type != "message" || len(entry.Message) == 0 {
		return rawMessage{}, nil, false
	}
	var msg rawMessage
	if err := json.Unmarshal(entry.Message, &msg); err != nil {
		return rawMessage{}, nil, false
	}
	return msg, entry.Timestamp, true
}

// flattenOptions control how content block arrays render to text.
type flattenOptions struct {
	toolCalls    bool // render toolCall blocks as "[Called: <name>]"
	plainStrings bool // include bare string items
}

// flatten renders message content — a plain string or an array of typed
// blocks — to display text. Thinking blocks are always dropped.
func flatten(content json.RawMessage, opts flattenOptions) string {
	if len(content) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(content, &s); err == nil {
		return s
	}

	var items []json.RawMessage
	if err := json.Unmarshal(content, &items); err != nil {
		return ""
	}

	var parts []string
	for _, item := range items {
		var block contentBlock
		if err := json.Unmarshal(item, &block); err == nil && block.Type != "" {
			switch block.Type {
			case "text":
				parts = append(parts, block.Text)
			case "toolCall":
				if opts.toolCalls {
					name := block.Name
					if name == "" {
						name = "tool"
					}
					parts = append(parts, "[Called: "+name+"]")
				}
			case "thinking":
				// dropped from all projections
			}
			continue
		}
		if opts.plainStrings {
			var str string
			if err := json.Unmarshal(item, &str); err == nil {
				parts = append(parts, str)
			}
		}
	}
	return strings.Join(parts, "\n")
}
