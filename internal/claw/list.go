package claw

import (
	"context"
	"math"
	"os"
	"sort"
	"strings"

	"clawwatch/internal/agents"
	"clawwatch/internal/catalog"
	"clawwatch/internal/gateway"
	"clawwatch/internal/label"
	"clawwatch/internal/model"
	"clawwatch/internal/transcript"
)

// recentThresholdMs: a session updated within the last minute is shown as
// still running.
const recentThresholdMs = 60_000

// ListSessions aggregates every agent's catalog into one annotated,
// newest-first listing with active/archived totals. Listing is read-only
// and safe to run concurrently with mutations; a listing racing an
// in-flight archive may observe either the pre- or post-archive state.
func (s *SessionService) ListSessions(ctx context.Context) (*model.SessionListing, error) {
	cron := s.cronNames(ctx)
	resolver := s.resolverWith(cron)
	nowMs := s.clock.Now().UnixMilli()
	defaultNode := gateway.NodeValue(gateway.NormalizeNodeName(s.hostnameOrUnknown()))

	var views []model.SessionView
	var activeSize int64

	for _, dir := range s.dirs() {
		sessions := catalog.LoadSessions(dir.Path)
		for key, rec := range sessions {
			// :run: sub-sessions duplicate their parent cron session.
			if strings.Contains(key, ":run:") {
				continue
			}
			view := s.buildView(dir, key, rec, resolver, nowMs, defaultNode)
			activeSize += view.SizeBytes
			views = append(views, view)
		}
	}

	sort.SliceStable(views, func(i, j int) bool {
		return views[i].UpdatedAt > views[j].UpdatedAt
	})
	if views == nil {
		views = []model.SessionView{}
	}

	archCount, archSize := s.archiveTotals()

	return &model.SessionListing{
		Sessions: views,
		Stats: model.ListingStats{
			ActiveCount:           len(views),
			ActiveSizeBytes:       activeSize,
			ActiveSizeFormatted:   model.FormatSize(activeSize),
			ArchivedCount:         archCount,
			ArchivedSizeBytes:     archSize,
			ArchivedSizeFormatted: model.FormatSize(archSize),
		},
	}, nil
}

// buildView annotates one catalog record with provenance, attribution,
// status, and transcript-derived fields.
func (s *SessionService) buildView(dir agents.Dir, key string, rec model.SessionRecord, resolver *label.Resolver, nowMs int64, defaultNode string) model.SessionView {
	sessionID := rec.EffectiveSessionID(key)
	attr := resolver.Resolve(key, rec)

	ageMs := rec.AgeMs
	if ageMs == 0 && rec.UpdatedAt > 0 {
		ageMs = nowMs - rec.UpdatedAt
	}

	status := model.StatusDone
	if rec.AbortedLastRun {
		status = model.StatusFailed
	}
	if ageMs > 0 && ageMs < recentThresholdMs {
		status = model.StatusRunning
	}

	contextTokens := rec.ContextTokens
	if contextTokens == 0 {
		contextTokens = model.DefaultContextTokens
	}
	usagePct := float64(0)
	if contextTokens > 0 {
		usagePct = round1(float64(rec.TotalTokens) / float64(contextTokens) * 100)
	}

	node := defaultNode
	if raw := rec.NodeName(); raw != "" {
		node = gateway.NodeValue(gateway.NormalizeNodeName(raw))
	}

	channel := rec.EffectiveChannel()
	if channel == "" {
		channel = "unknown"
	}
	modelName := rec.Model
	if modelName == "" {
		modelName = "unknown"
	}

	size, sizeFormatted, task := sizeAndTask(dir.Path, sessionID, rec.Task)

	return model.SessionView{
		ID:            sessionID,
		Key:           key,
		AgentID:       dir.AgentID,
		Label:         attr.Label,
		AgentName:     attr.AgentName,
		Status:        status,
		UpdatedAt:     rec.UpdatedAt,
		AgeMs:         ageMs,
		Channel:       channel,
		Model:         modelName,
		TotalTokens:   rec.TotalTokens,
		ContextTokens: contextTokens,
		UsagePct:      usagePct,
		Node:          node,
		SizeBytes:     size,
		SizeFormatted: sizeFormatted,
		Task:          task,
		Directory:     dir.Path,
	}
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}

func (s *SessionService) hostnameOrUnknown() string {
	host, err := s.hostname()
	if err != nil || host == "" {
		return "unknown"
	}
	return host
}

// archiveTotals sums archived counts and sizes across all roots.
func (s *SessionService) archiveTotals() (count int, size int64) {
	for _, dir := range s.dirs() {
		ix := catalog.LoadIndex(dir.Path)
		count += len(ix.Sessions)
		size += ix.TotalSize
	}
	return count, size
}

// ListArchived merges the archive indexes of every root, newest first.
func (s *SessionService) ListArchived() (*model.ArchiveListing, error) {
	var entries []model.ArchiveEntry
	var total int64

	for _, dir := range s.dirs() {
		ix := catalog.LoadIndex(dir.Path)
		entries = append(entries, ix.Sessions...)
		total += ix.TotalSize
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ArchivedAt > entries[j].ArchivedAt
	})
	if entries == nil {
		entries = []model.ArchiveEntry{}
	}

	return &model.ArchiveListing{
		Sessions:           entries,
		TotalSize:          total,
		TotalSizeFormatted: model.FormatSize(total),
	}, nil
}

// Agents returns the distinct agent identities found across live catalogs
// and archive indexes: main first, then cron when present, then the rest
// alphabetically.
func (s *SessionService) Agents(ctx context.Context) []model.AgentOption {
	resolver := s.resolverWith(s.cronNames(ctx))
	seen := map[string]bool{agents.MainAgentID: true}

	for _, dir := range s.dirs() {
		if dir.AgentID != "" {
			seen[strings.ToLower(dir.AgentID)] = true
		}
		for key, rec := range catalog.LoadSessions(dir.Path) {
			if attr := resolver.Resolve(key, rec); attr.AgentName != "" {
				seen[attr.AgentName] = true
			}
		}
		ix := catalog.LoadIndex(dir.Path)
		for _, e := range ix.Sessions {
			if name := resolver.AgentFromLabel(e.Label); name != "" {
				seen[name] = true
			}
		}
	}

	options := []model.AgentOption{
		{Value: "", Label: "All Agents"},
		{Value: agents.MainAgentID, Label: s.resolver.MainAgentName + " (main)"},
	}
	delete(seen, agents.MainAgentID)
	if seen["cron"] {
		options = append(options, model.AgentOption{Value: "cron", Label: "Cron"})
		delete(seen, "cron")
	}

	rest := make([]string, 0, len(seen))
	for name := range seen {
		rest = append(rest, name)
	}
	sort.Strings(rest)
	for _, name := range rest {
		options = append(options, model.AgentOption{Value: name, Label: capitalize(name)})
	}
	return options
}

// Nodes lists execution nodes: the local gateway host first, then nodes
// reported by the orchestration CLI, then nodes discovered from session
// and archive attribution, deduplicated case-insensitively.
func (s *SessionService) Nodes(ctx context.Context) []model.Node {
	gw := s.gatewayNode()
	nodes := []model.Node{gw}
	seen := map[string]bool{strings.ToLower(gw.Name): true}

	if s.gw != nil {
		reported, err := s.gw.Nodes(ctx)
		if err != nil {
			s.logger.Debug("node status unavailable", "error", err)
		}
		for _, n := range reported {
			if seen[strings.ToLower(n.Name)] {
				continue
			}
			nodes = append(nodes, n)
			seen[strings.ToLower(n.Name)] = true
		}
	}

	appendDiscovered := func(raw, status, message string) {
		if raw == "" {
			return
		}
		name := gateway.NormalizeNodeName(raw)
		if seen[strings.ToLower(name)] {
			return
		}
		nodes = append(nodes, model.Node{
			ID:            raw,
			Name:          name,
			Value:         gateway.NodeValue(name),
			DisplayName:   raw,
			Status:        status,
			StatusMessage: message,
		})
		seen[strings.ToLower(name)] = true
	}

	for _, dir := range s.dirs() {
		for _, rec := range catalog.LoadSessions(dir.Path) {
			appendDiscovered(rec.NodeName(), "unknown", "Discovered from session data")
		}
		ix := catalog.LoadIndex(dir.Path)
		for _, e := range ix.Sessions {
			appendDiscovered(e.Node, "archived", "Found in archived sessions")
		}
	}

	// Gateway first, then alphabetical.
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].IsGateway != nodes[j].IsGateway {
			return nodes[i].IsGateway
		}
		return strings.ToLower(nodes[i].Name) < strings.ToLower(nodes[j].Name)
	})
	return nodes
}

// sizeAndTask derives the transcript-backed fields of a view. A missing
// transcript yields zero size and no task, never an error.
func sizeAndTask(root, sessionID string, existingTask string) (int64, string, string) {
	path := catalog.TranscriptPath(root, sessionID)
	info, err := os.Stat(path)
	if err != nil {
		return 0, "—", existingTask
	}
	size := info.Size()

	task := existingTask
	if task == "" {
		if f, err := os.Open(path); err == nil {
			task = transcript.FirstUserMessage(f)
			f.Close()
		}
	}
	return size, model.FormatSize(size), task
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
