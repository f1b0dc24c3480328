// Package featureflags evaluates rollout flags from configuration. Flags are
// static for the process lifetime; changing one means restarting with a new
// FEATURE_FLAGS value.
package featureflags

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

// Manager holds parsed flags from a comma-separated `name=value` list, e.g.
// "auto_approve_posts=on,near_me_search=25%".
type Manager struct {
	flags map[string]string
}

// NewManager parses the raw config string. Malformed pairs are dropped
// silently so a typo in one flag cannot take the server down.
func NewManager(raw string) *Manager {
	out := make(map[string]string)

	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := normalize(parts[0])
		value := normalize(parts[1])
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}

	return &Manager{flags: out}
}

// Enabled reports whether the flag is on for this user. Values are on/off
// (with true/false/1/0 aliases) or "N%" for a deterministic per-user rollout.
// Unknown flags and unknown values read as off.
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

	if pct, ok := strings.CutSuffix(value, "%"); ok {
		return m.inRollout(name, pct, userID)
	}
	return false
}

// inRollout buckets the user 0-99 by hashing flag name + id, so a user stays
// in or out of a given percentage as long as the flag name is stable.
func (m *Manager) inRollout(name, pctRaw string, userID uint) bool {
	pct, err := strconv.Atoi(pctRaw)
	if err != nil || pct <= 0 {
		return false
	}
	if pct >= 100 {
		return true
	}
	// anonymous traffic never lands in a partial rollout
	if userID == 0 {
		return false
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(fmt.Sprintf("%s:%d", normalize(name), userID)))
	return int(h.Sum32()%100) < pct
}

// Raw returns a copy of the configured flag values.
func (m *Manager) Raw() map[string]string {
	out := make(map[string]string, len(m.flags))
	for k, v := range m.flags {
		out[k] = v
	}
	return out
}

// Snapshot evaluates every flag for one user.
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
