// Package agents discovers per-agent session-storage roots and resolves
// transcript files within them.
package agents

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// MainAgentID is the distinguished agent every deployment has.
const MainAgentID = "main"

// Dir is one agent's session-storage root.
type Dir struct {
	AgentID string
	Path    string
}

// DiscoverDirs enumerates the per-agent session directories under
// <home>/agents: every non-hidden immediate subdirectory containing a
// "sessions" child. The main agent is always present in the result —
// appended with mainDir when not discovered — so callers always have at
// least one directory to scan, even on first run.
func DiscoverDirs(home, mainDir string) []Dir {
	agentsRoot := filepath.Join(home, "agents")

	entries, err := os.ReadDir(agentsRoot)
	if err != nil {
		return []Dir{{AgentID: MainAgentID, Path: mainDir}}
	}

	var dirs []Dir
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		sessions := filepath.Join(agentsRoot, entry.Name(), "sessions")
		if info, err := os.Stat(sessions); err != nil || !info.IsDir() {
			continue
		}
		dirs = append(dirs, Dir{AgentID: entry.Name(), Path: sessions})
	}

	sort.Slice(dirs, func(i, j int) bool { return dirs[i].AgentID < dirs[j].AgentID })

	for _, d := range dirs {
		if d.AgentID == MainAgentID {
			return dirs
		}
	}
	return append(dirs, Dir{AgentID: MainAgentID, Path: mainDir})
}

// FindTranscript locates the transcript file for a session ID within one
// session-storage root. An exact "<id>.jsonl" match is preferred; failing
// that, the lexicographically first file whose name contains the ID is
// used, and ambiguous reports whether more than one candidate matched so
// the caller can flag the arbitrary choice.
func FindTranscript(root, sessionID string) (path string, ambiguous bool, err error) {
	exact := filepath.Join(root, sessionID+".jsonl")
	if _, err := os.Stat(exact); err == nil {
		return exact, false, nil
	}

	matches, err := filepath.Glob(filepath.Join(root, "*"+sessionID+"*.jsonl"))
	if err != nil {
		return "", false, err
	}
	if len(matches) == 0 {
		return "", false, os.ErrNotExist
	}
	sort.Strings(matches)
	return matches[0], len(matches) > 1, nil
}
