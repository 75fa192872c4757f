// Package label turns raw session keys and loosely-structured session
// metadata into human-friendly labels and agent attributions. The
// classification is pure and deterministic: an ordered table of
// predicate/transform rules, first match wins, each rule independently
// testable.
package label

import (
	"regexp"
	"strings"

	"clawwatch/internal/model"
)

// RootSessionKey is the distinguished key of the main agent's own session.
const RootSessionKey = "agent:main:main"

// Attribution is the resolver's output for one session record.
type Attribution struct {
	Label     string
	AgentName string // "", "main", "cron", or a known agent identity
}

// Resolver resolves labels and agent identities. CronJobName is an
// optional lookup for scheduled-session labels; a nil lookup degrades to
// the generic cron label.
type Resolver struct {
	MainAgentName string
	KnownAgents   map[string]bool // lowercase agent identities from configuration
	CronJobName   func(id string) (string, bool)
}

// NewResolver builds a resolver for the given main-agent display name and
// known agent identities.
func NewResolver(mainAgentName string, knownAgents []string) *Resolver {
	known := make(map[string]bool, len(knownAgents))
	for _, a := range knownAgents {
		known[strings.ToLower(a)] = true
	}
	if mainAgentName == "" {
		mainAgentName = "Main"
	}
	return &Resolver{MainAgentName: mainAgentName, KnownAgents: known}
}

// rule is one step of the classification chain.
type rule struct {
	name    string
	applies func(r *Resolver, key string, rec model.SessionRecord) bool
	resolve func(r *Resolver, key string, rec model.SessionRecord) Attribution
}

// rules is the precedence order. Earlier rules win.
var rules = []rule{
	{"stored-label", (*Resolver).hasCleanLabel, (*Resolver).fromStoredLabel},
	{"channel", (*Resolver).isChannelSession, (*Resolver).fromChannel},
	{"spawn", (*Resolver).isSpawnSession, (*Resolver).fromSpawn},
	{"cron", (*Resolver).isCronSession, (*Resolver).fromCron},
	{"root", (*Resolver).isRootSession, (*Resolver).fromRoot},
}

// Resolve classifies one session record.
func (r *Resolver) Resolve(key string, rec model.SessionRecord) Attribution {
	for _, rule := range rules {
		if rule.applies(r, key, rec) {
			attr := rule.resolve(r, key, rec)
			if attr.AgentName == "" {
				attr.AgentName = r.agentFromRecord(key, rec)
			}
			return attr
		}
	}
	return Attribution{
		Label:     fallbackLabel(key),
		AgentName: r.agentFromRecord(key, rec),
	}
}

// hasCleanLabel reports whether the record carries a display label that is
// not itself a raw namespaced key.
func (r *Resolver) hasCleanLabel(_ string, rec model.SessionRecord) bool {
	return rec.Label != "" && !looksLikeRawKey(rec.Label)
}

func (r *Resolver) fromStoredLabel(key string, rec model.SessionRecord) Attribution {
	return Attribution{Label: rec.Label}
}

func (r *Resolver) isSpawnSession(key string, _ model.SessionRecord) bool {
	return spawnSuffix(key) != ""
}

// fromSpawn derives the label from the spawn suffix and the owning agent
// from the token before the first hyphen, constrained to the known agent
// identities.
func (r *Resolver) fromSpawn(key string, rec model.SessionRecord) Attribution {
	suffix := spawnSuffix(key)
	agent := ""
	if first := strings.ToLower(firstToken(suffix, "-")); r.KnownAgents[first] {
		agent = first
	}
	return Attribution{Label: suffix, AgentName: agent}
}

func (r *Resolver) isCronSession(key string, _ model.SessionRecord) bool {
	return strings.Contains(key, ":cron:")
}

func (r *Resolver) fromCron(key string, _ model.SessionRecord) Attribution {
	id := firstToken(keyAfter(key, ":cron:"), ":")
	if r.CronJobName != nil {
		if name, ok := r.CronJobName(id); ok {
			return Attribution{Label: "Cron: " + name, AgentName: "cron"}
		}
	}
	return Attribution{Label: "Cron Job", AgentName: "cron"}
}

func (r *Resolver) isRootSession(key string, _ model.SessionRecord) bool {
	return key == RootSessionKey
}

func (r *Resolver) fromRoot(string, model.SessionRecord) Attribution {
	return Attribution{Label: r.MainAgentName + " (main)", AgentName: "main"}
}

// fallbackLabel strips the first two colon-delimited segments from the
// key; a key with fewer than three segments is returned unchanged.
func fallbackLabel(key string) string {
	parts := strings.Split(key, ":")
	if len(parts) > 2 {
		return strings.Join(parts[2:], ":")
	}
	return key
}

// agentFromRecord attributes a session to a known agent when the key
// itself does not disambiguate: the key's agent segment, then label
// prefix patterns against the known-agent set.
func (r *Resolver) agentFromRecord(key string, rec model.SessionRecord) string {
	parts := strings.Split(key, ":")
	if len(parts) >= 2 && parts[0] == "agent" {
		if id := strings.ToLower(parts[1]); id == "main" || r.KnownAgents[id] {
			return id
		}
	}
	return r.AgentFromLabel(rec.Label)
}

// AgentFromLabel scans a label for a "<knownAgent>-" prefix or an exact
// known-agent match. It is used when only a label survives, e.g. for
// archived sessions.
func (r *Resolver) AgentFromLabel(label string) string {
	if label == "" {
		return ""
	}
	lower := strings.ToLower(label)
	for known := range r.KnownAgents {
		if lower == known || strings.HasPrefix(lower, known+"-") {
			return known
		}
	}
	if first := firstToken(lower, "-"); first != lower && r.KnownAgents[first] {
		return first
	}
	return ""
}

// looksLikeRawKey reports whether a label is a raw namespaced key rather
// than display text.
func looksLikeRawKey(label string) bool {
	if strings.HasPrefix(label, "agent:") {
		return true
	}
	for _, f := range families {
		if strings.HasPrefix(label, f.id+":") {
			return true
		}
	}
	return false
}

var opaqueHashPattern = regexp.MustCompile(`^[a-z0-9]{20,}$`)

// looksOpaque reports whether a candidate name is an opaque identifier:
// long enough and shaped like a lowercase hex/base36 hash.
func looksOpaque(name string) bool {
	return opaqueHashPattern.MatchString(strings.ToLower(name))
}

// spawnSuffix returns the key portion after the spawn or sub-task marker,
// or "" when the key is not a spawned session.
func spawnSuffix(key string) string {
	for _, marker := range []string{":spawn:", ":subagent:"} {
		if s := keyAfter(key, marker); s != "" {
			return s
		}
	}
	return ""
}

// keyAfter returns the key portion after the first occurrence of marker,
// or "" when the marker is absent.
func keyAfter(key, marker string) string {
	if i := strings.Index(key, marker); i >= 0 {
		return key[i+len(marker):]
	}
	return ""
}

func firstToken(s, sep string) string {
	if i := strings.Index(s, sep); i >= 0 {
		return s[:i]
	}
	return s
}
