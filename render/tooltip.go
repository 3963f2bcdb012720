package render

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// FormatTooltip renders node properties as "Key: value" lines, one per
// property in key order. String values longer than TooltipWidth are
// word-wrapped onto continuation lines.
func FormatTooltip(props map[string]interface{}) string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		value := fmt.Sprint(props[k])
		if s, ok := props[k].(string); ok && utf8.RuneCountInString(s) > TooltipWidth {
			value = strings.Join(WrapWords(s, TooltipWidth), "\n")
		}
		b.WriteString(HumanizeKey(k))
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteByte('\n')
	}
	return b.String()
}

// WrapWords greedily packs the words of s into lines of at most width runes.
// Words longer than width are split across lines.
func WrapWords(s string, width int) []string {
	if width <= 0 {
		return []string{s}
	}

	var lines []string
	var line []rune
	flush := func() {
		if len(line) > 0 {
			lines = append(lines, string(line))
			line = line[:0]
		}
	}

	for _, word := range strings.Fields(s) {
		w := []rune(word)
		for len(w) > width {
			flush()
			lines = append(lines, string(w[:width]))
			w = w[width:]
		}
		switch {
		case len(line) == 0:
			line = append(line, w...)
		case len(line)+1+len(w) <= width:
			line = append(line, ' ')
			line = append(line, w...)
		default:
			flush()
			line = append(line, w...)
		}
	}
	flush()
	return lines
}
