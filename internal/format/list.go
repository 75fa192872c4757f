// Package format renders session lifecycle data for the terminal.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"clawwatch/internal/model"
)

// WriteSessions writes the active-session listing to w in the requested
// format: "table" (default), "plain", or "json".
func WriteSessions(w io.Writer, listing *model.SessionListing, format string) error {
	switch strings.ToLower(format) {
	case "", "table":
		return writeSessionsTable(w, listing)
	case "plain":
		return writeSessionsPlain(w, listing)
	case "json":
		return writeJSON(w, listing)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func writeSessionsTable(w io.Writer, listing *model.SessionListing) error {
	tw := newTable(w)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignCenter, WidthMax: 40},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 3, Align: text.AlignCenter, AlignHeader: text.AlignCenter},
		{Number: 4, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 5, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 6, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 7, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 8, Align: text.AlignLeft, AlignHeader: text.AlignCenter, WidthMax: taskWidth()},
	})
	tw.AppendHeader(table.Row{"Label", "Updated", "Status", "Channel", "Model", "Usage", "Size", "Task"})

	for _, s := range listing.Sessions {
		tw.AppendRow(table.Row{
			s.Label,
			formatTimestamp(s.UpdatedAt),
			s.Status,
			s.Channel,
			s.Model,
			fmt.Sprintf("%.1f%%", s.UsagePct),
			s.SizeFormatted,
			escapeNewlines(s.Task),
		})
	}
	if len(listing.Sessions) == 0 {
		tw.AppendRow(table.Row{"(no sessions)", "-", "-", "-", "-", "-", "-", "-"})
	}
	tw.Render()

	_, err := fmt.Fprintf(w, "%d active (%s), %d archived (%s)\n",
		listing.Stats.ActiveCount, listing.Stats.ActiveSizeFormatted,
		listing.Stats.ArchivedCount, listing.Stats.ArchivedSizeFormatted)
	return err
}

func writeSessionsPlain(w io.Writer, listing *model.SessionListing) error {
	if _, err := fmt.Fprintln(w, "label\tupdated\tstatus\tchannel\tmodel\tusage\tsize\ttask"); err != nil {
		return err
	}
	for _, s := range listing.Sessions {
		line := fmt.Sprintf("%s\t%s\t%s\t%s\t%s\t%.1f%%\t%s\t%s",
			s.Label, formatTimestamp(s.UpdatedAt), s.Status, s.Channel,
			s.Model, s.UsagePct, s.SizeFormatted, escapeNewlines(s.Task))
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// WriteArchive writes the archived-session listing to w.
func WriteArchive(w io.Writer, listing *model.ArchiveListing, format string) error {
	switch strings.ToLower(format) {
	case "", "table":
		return writeArchiveTable(w, listing)
	case "plain":
		return writeArchivePlain(w, listing)
	case "json":
		return writeJSON(w, listing)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func writeArchiveTable(w io.Writer, listing *model.ArchiveListing) error {
	tw := newTable(w)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignCenter, WidthMax: 40},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 3, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignCenter},
	})
	tw.AppendHeader(table.Row{"Label", "Archived", "Channel", "Original", "Compressed"})

	for _, e := range listing.Sessions {
		tw.AppendRow(table.Row{
			e.Label,
			formatTimestamp(e.ArchivedAt),
			e.Channel,
			model.FormatSize(e.OriginalSize),
			model.FormatSize(e.CompressedSize),
		})
	}
	if len(listing.Sessions) == 0 {
		tw.AppendRow(table.Row{"(no archived sessions)", "-", "-", "-", "-"})
	}
	tw.Render()

	_, err := fmt.Fprintf(w, "%d archived, %s on disk\n", len(listing.Sessions), listing.TotalSizeFormatted)
	return err
}

func writeArchivePlain(w io.Writer, listing *model.ArchiveListing) error {
	if _, err := fmt.Fprintln(w, "key\tlabel\tarchived\toriginal\tcompressed"); err != nil {
		return err
	}
	for _, e := range listing.Sessions {
		line := fmt.Sprintf("%s\t%s\t%s\t%d\t%d",
			e.Key, e.Label, formatTimestamp(e.ArchivedAt), e.OriginalSize, e.CompressedSize)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// WriteNodes writes the node listing to w.
func WriteNodes(w io.Writer, nodes []model.Node, format string) error {
	switch strings.ToLower(format) {
	case "", "table":
		return writeNodesTable(w, nodes)
	case "json":
		return writeJSON(w, nodes)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func writeNodesTable(w io.Writer, nodes []model.Node) error {
	tw := newTable(w)
	tw.AppendHeader(table.Row{"Name", "Status", "Details"})
	for _, n := range nodes {
		name := n.Name
		if n.IsGateway {
			name += " (gateway)"
		}
		tw.AppendRow(table.Row{name, n.Status, n.StatusMessage})
	}
	tw.Render()
	return nil
}

// WriteAgents writes the agent filter options to w.
func WriteAgents(w io.Writer, agents []model.AgentOption, format string) error {
	if strings.ToLower(format) == "json" {
		return writeJSON(w, agents)
	}
	for _, a := range agents {
		value := a.Value
		if value == "" {
			value = "*"
		}
		if _, err := fmt.Fprintf(w, "%-12s %s\n", value, a.Label); err != nil {
			return err
		}
	}
	return nil
}

func newTable(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Options.SeparateHeader = true
	tw.Style().Options.DrawBorder = true
	return tw
}

// taskWidth caps the task column so wide transcripts do not wreck the
// table on narrow terminals.
func taskWidth() int {
	width := 80
	if isatty.IsTerminal(os.Stdout.Fd()) {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			width = w
		}
	}
	if width > 140 {
		return 80
	}
	return width / 2
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func escapeNewlines(s string) string {
	return strings.ReplaceAll(s, "\n", "\\n")
}

func formatTimestamp(ms int64) string {
	if ms <= 0 {
		return "-"
	}
	return time.UnixMilli(ms).UTC().Format("2006-01-02 15:04")
}
