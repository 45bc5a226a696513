// Package htmlid hands out DOM ids that are unique within one rendered page.
package htmlid

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	invalidIDChars = regexp.MustCompile(`[^a-z0-9\-_]+`)
	multiHyphen    = regexp.MustCompile(`-{3,}`)
)

// Clean lowercases s and reduces it to characters that are safe in an HTML id.
// An empty result becomes "id".
func Clean(s string) string {
	id := strings.ToLower(strings.TrimSpace(s))
	id = strings.NewReplacer(" ", "-", "_", "-", "[", "-", "]", "").Replace(id)
	id = invalidIDChars.ReplaceAllString(id, "")
	id = multiHyphen.ReplaceAllString(id, "-")
	id = strings.Trim(id, "-")
	if id == "" {
		return "id"
	}
	// Ids must not start with a digit.
	if id[0] >= '0' && id[0] <= '9' {
		id = "id-" + id
	}
	return id
}

// Pass tracks the ids handed out while rendering one page.
// A Pass is not safe for concurrent use; create one per request.
type Pass struct {
	used map[string]bool
	next map[string]int
}

// NewPass starts an empty render pass.
func NewPass() *Pass {
	return &Pass{used: make(map[string]bool), next: make(map[string]int)}
}

// UniqueID returns the cleaned prefix the first time it is asked for, then
// prefix--2, prefix--3 and so on, skipping any id already handed out.
func (p *Pass) UniqueID(prefix string) string {
	base := Clean(prefix)
	id := base
	if p.used[id] {
		n := max(p.next[base], 2)
		for p.used[base+"--"+strconv.Itoa(n)] {
			n++
		}
		id = base + "--" + strconv.Itoa(n)
		p.next[base] = n + 1
	}
	p.used[id] = true
	return id
}

// Reset forgets every id handed out so far.
func (p *Pass) Reset() {
	clear(p.used)
	clear(p.next)
}
