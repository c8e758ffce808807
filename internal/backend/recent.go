package backend

import (
	"strings"
	"sync"
)

const (
	recentPerRole = 30
	recentKeyLen  = 180
)

// recentGuard remembers the last scenarios handed out per role so the same
// text is not served twice in a row. It lives in memory only.
type recentGuard struct {
	mu      sync.Mutex
	buckets map[string][]string
	limit   int
}

func newRecentGuard(limit int) *recentGuard {
	if limit <= 0 {
		limit = recentPerRole
	}
	return &recentGuard{buckets: map[string][]string{}, limit: limit}
}

func recentKey(scenario string) string {
	r := []rune(strings.ToLower(strings.TrimSpace(scenario)))
	if len(r) > recentKeyLen {
		r = r[:recentKeyLen]
	}
	return string(r)
}

func (g *recentGuard) seen(role, scenario string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	key := recentKey(scenario)
	for _, k := range g.buckets[role] {
		if k == key {
			return true
		}
	}
	return false
}

func (g *recentGuard) remember(role, scenario string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	b := append(g.buckets[role], recentKey(scenario))
	if len(b) > g.limit {
		b = b[len(b)-g.limit:]
	}
	g.buckets[role] = b
}
