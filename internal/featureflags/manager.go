// Package featureflags evaluates a small set of runtime toggles parsed
// from configuration. There is no remote flag service; the FEATURE_FLAGS
// string is the whole source of truth and changes need a restart.
package featureflags

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

// Flags wired up in the codebase.
const (
	// FlagRealtimeEvents gates the websocket event stream.
	FlagRealtimeEvents = "realtime_events"
	// FlagCoverUploads gates the book cover upload endpoint.
	FlagCoverUploads = "cover_uploads"
)

// Manager holds parsed flag settings. A flag's value is either a
// boolean word (on/true/1, off/false/0) or a percent rollout such as
// "25%", which admits a stable quarter of user IDs.
type Manager struct {
	flags map[string]string
}

// NewManager parses a comma-separated list of name=value pairs,
// for example "realtime_events=on,cover_uploads=25%". Malformed
// pairs are dropped rather than rejected.
func NewManager(raw string) *Manager {
	flags := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		name, value = normalize(name), normalize(value)
		if name == "" || value == "" {
			continue
		}
		flags[name] = value
	}
	return &Manager{flags: flags}
}

// Enabled reports whether a flag is on for the given user. Unknown
// flags and unparseable values read as off.
func (m *Manager) Enabled(name string, userID uint) bool {
	if m == nil {
		return false
	}
	value, ok := m.flags[normalize(name)]
	if !ok {
		return false
	}

	switch value {
	case "on", "true", "1":
		return true
	case "off", "false", "0":
		return false
	}

	pctRaw, ok := strings.CutSuffix(value, "%")
	if !ok {
		return false
	}
	pct, err := strconv.Atoi(pctRaw)
	switch {
	case err != nil || pct <= 0:
		return false
	case pct >= 100:
		return true
	case userID == 0:
		// Anonymous traffic never joins a partial rollout.
		return false
	}
	return rolloutBucket(name, userID) < pct
}

// Raw returns a copy of the parsed settings, value strings included.
func (m *Manager) Raw() map[string]string {
	out := make(map[string]string, len(m.flags))
	for k, v := range m.flags {
		out[k] = v
	}
	return out
}

// Snapshot evaluates every configured flag for one user.
func (m *Manager) Snapshot(userID uint) map[string]bool {
	out := make(map[string]bool, len(m.flags))
	for name := range m.flags {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// rolloutBucket maps a (flag, user) pair onto 0..99. The hash keeps a
// user's bucket stable across restarts so a rollout never flaps.
func rolloutBucket(name string, userID uint) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(fmt.Sprintf("%s:%d", normalize(name), userID)))
	return int(h.Sum32() % 100)
}
