package transcript

import (
	"fmt"
	"io"
	"strings"
)

// TaskSummaryLimit caps the derived task summary length, in characters.
const TaskSummaryLimit = 500

// History returns the history projection: one entry per message record
// whose role is not toolResult and whose flattened content is non-empty.
// Tool calls render inline; thinking blocks are dropped. Running History
// twice over the same bytes yields identical output.
func History(r io.Reader) ([]HistoryEntry, error) {
	history := []HistoryEntry{}
	scanner := newScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		msg, ts, ok := decodeMessage([]byte(line))
		if !ok {
			continue
		}
		role := msg.Role
		if role == "" {
			role = "unknown"
		}
		if role == RoleToolResult {
			continue
		}
		content := flatten(msg.Content, flattenOptions{toolCalls: true, plainStrings: true})
		if content == "" {
			continue
		}
		history = append(history, HistoryEntry{Role: role, Content: content, Timestamp: ts})
	}
	if err := scanner.Err(); err != nil {
		return history, fmt.Errorf("scanning transcript: %w", err)
	}
	return history, nil
}

// Result returns the result projection: the last assistant message with
// non-empty flattened text content, or nil if the transcript has none.
// Transcripts are not indexed for reverse iteration, so this is a full
// forward scan keeping the latest match.
func Result(r io.Reader) (*ResultMessage, error) {
	var last *ResultMessage
	scanner := newScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		msg, ts, ok := decodeMessage([]byte(line))
		if !ok || msg.Role != RoleAssistant {
			continue
		}
		text := flatten(msg.Content, flattenOptions{})
		if strings.TrimSpace(text) == "" {
			continue
		}
		last = &ResultMessage{Content: text, Timestamp: ts}
	}
	if err := scanner.Err(); err != nil {
		return last, fmt.Errorf("scanning transcript: %w", err)
	}
	return last, nil
}

// FirstUserMessage extracts the first user-authored message — the task
// that started the session — trimmed and truncated to TaskSummaryLimit
// characters. It returns "" when the transcript has no user message.
func FirstUserMessage(r io.Reader) string {
	scanner := newScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		msg, _, ok := decodeMessage([]byte(line))
		if !ok || msg.Role != RoleUser {
			continue
		}
		text := strings.TrimSpace(flatten(msg.Content, flattenOptions{plainStrings: true}))
		if runes := []rune(text); len(runes) > TaskSummaryLimit {
			return string(runes[:TaskSummaryLimit])
		}
		return text
	}
	return ""
}
