// Package render turns graph query results into what the visualization
// shows: node captions, colors and tooltips. It also owns the per-view
// rendering state, the cache of truncated labels and the click handling
// that restores them.
package render

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

const (
	// LabelThreshold is the caption length, in runes, at which topic labels are truncated.
	LabelThreshold = 10
	// TooltipWidth is the maximum width of a wrapped tooltip line.
	TooltipWidth = 30

	ellipsis = "..."
)

// TruncateLabel shortens labels of LabelThreshold runes or more to their first
// LabelThreshold runes followed by "...". It reports whether it truncated.
func TruncateLabel(label string) (string, bool) {
	if utf8.RuneCountInString(label) < LabelThreshold {
		return label, false
	}
	runes := []rune(label)
	return string(runes[:LabelThreshold]) + ellipsis, true
}

// LabelCache maps node IDs to the untruncated labels shown on click.
type LabelCache struct {
	mu     sync.RWMutex
	labels map[string]string
}

// NewLabelCache returns an empty cache.
func NewLabelCache() *LabelCache {
	return &LabelCache{labels: make(map[string]string)}
}

// Put records the full label of a node.
func (c *LabelCache) Put(nodeID, label string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.labels[nodeID] = label
}

// Get returns the full label of a node, if it was truncated.
func (c *LabelCache) Get(nodeID string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	label, ok := c.labels[nodeID]
	return label, ok
}

// Len returns the number of cached labels.
func (c *LabelCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.labels)
}

// HumanizeKey turns a camelCase property name into capitalized words:
// "nomorPeraturan" becomes "Nomor Peraturan".
func HumanizeKey(key string) string {
	var b strings.Builder
	for i, r := range key {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		if i == 0 {
			r = unicode.ToUpper(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
