// Package gateway shells out to the agent-orchestration CLI for node and
// cron metadata. All lookups are best-effort side queries: a missing
// binary, a timeout, or unparseable output degrades to empty metadata and
// must never abort the caller's primary operation.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"

	"clawwatch/internal/model"
)

// DefaultTimeout bounds one CLI invocation.
const DefaultTimeout = 10 * time.Second

// Client invokes the orchestration CLI (openclaw by default).
type Client struct {
	Command string
	Timeout time.Duration
}

// NewClient returns a client for the given CLI command. An empty command
// selects "openclaw"; a zero timeout selects DefaultTimeout.
func NewClient(command string, timeout time.Duration) *Client {
	if command == "" {
		command = "openclaw"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{Command: command, Timeout: timeout}
}

func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, c.Command, args...).Output()
	if err != nil {
		return nil, fmt.Errorf("running %s %v: %w", c.Command, args, err)
	}
	return out, nil
}

// CronNames returns a job-ID-to-name mapping from `<cli> cron list --json`.
func (c *Client) CronNames(ctx context.Context) (map[string]string, error) {
	out, err := c.run(ctx, "cron", "list", "--json")
	if err != nil {
		return nil, err
	}
	return ParseCronList(out)
}

// Nodes returns the nodes reported by `<cli> nodes status --json`.
func (c *Client) Nodes(ctx context.Context) ([]model.Node, error) {
	out, err := c.run(ctx, "nodes", "status", "--json")
	if err != nil {
		return nil, err
	}
	return ParseNodeStatus(out)
}

// jsonTail returns output from the first '{' onward. The CLI may print
// plugin-registration lines before its JSON document.
func jsonTail(out []byte) ([]byte, error) {
	if i := bytes.IndexByte(out, '{'); i >= 0 {
		return out[i:], nil
	}
	return nil, fmt.Errorf("no JSON document in output")
}

// ParseCronList decodes cron job names from CLI output, tolerating any
// non-JSON prefix.
func ParseCronList(out []byte) (map[string]string, error) {
	doc, err := jsonTail(out)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Jobs []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"jobs"`
	}
	if err := json.Unmarshal(doc, &payload); err != nil {
		return nil, fmt.Errorf("decoding cron list: %w", err)
	}

	names := make(map[string]string, len(payload.Jobs))
	for _, job := range payload.Jobs {
		names[job.ID] = job.Name
	}
	return names, nil
}

// ParseNodeStatus decodes node status from CLI output, tolerating any
// non-JSON prefix, and maps each node's connected/paired flags to a
// display status.
func ParseNodeStatus(out []byte) ([]model.Node, error) {
	doc, err := jsonTail(out)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Nodes []struct {
			NodeID      string   `json:"nodeId"`
			DisplayName string   `json:"displayName"`
			Connected   bool     `json:"connected"`
			Paired      bool     `json:"paired"`
			Version     string   `json:"version"`
			Platform    string   `json:"platform"`
			Caps        []string `json:"caps"`
		} `json:"nodes"`
	}
	if err := json.Unmarshal(doc, &payload); err != nil {
		return nil, fmt.Errorf("decoding node status: %w", err)
	}

	nodes := make([]model.Node, 0, len(payload.Nodes))
	for _, n := range payload.Nodes {
		display := n.DisplayName
		if display == "" {
			display = n.NodeID
		}
		if display == "" {
			display = "unknown"
		}
		name := NormalizeNodeName(display)

		status, message := nodeStatus(n.Connected, n.Paired, n.Version)
		nodes = append(nodes, model.Node{
			ID:            n.NodeID,
			Name:          name,
			Value:         NodeValue(name),
			DisplayName:   n.DisplayName,
			Connected:     n.Connected,
			Status:        status,
			StatusMessage: message,
			Version:       n.Version,
			Platform:      n.Platform,
			Caps:          n.Caps,
		})
	}
	return nodes, nil
}

func nodeStatus(connected, paired bool, version string) (status, message string) {
	switch {
	case connected && paired:
		if version == "" {
			version = "unknown"
		}
		return "ok", "Connected - v" + version
	case paired:
		return "offline", "Paired but not connected"
	case !paired:
		return "warning", "Not paired"
	default:
		return "offline", "Disconnected"
	}
}
