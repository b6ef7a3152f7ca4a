// Package retrieval matches knowledge base keys against user messages.
package retrieval

import (
	"sort"
	"strings"
)

const (
	// MaxMatches caps the number of entries returned by Match.
	MaxMatches = 3
	// MaxContextChars caps the serialized size of the entry lines.
	MaxContextChars = 800
	// ContextHeader opens the formatted context block.
	ContextHeader = "[Retrieved context]"
)

// Entry is one matched knowledge base item.
type Entry struct {
	Key   string
	Blurb string
}

// Match returns the entries whose keys occur in text, case-insensitively.
// Longer keys sort first, ties break alphabetically.
func Match(kb map[string]string, text string) []Entry {
	if len(kb) == 0 || text == "" {
		return nil
	}
	lowered := strings.ToLower(text)
	var matches []Entry
	for key, blurb := range kb {
		if key == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(key)) {
			matches = append(matches, Entry{Key: key, Blurb: blurb})
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		li, lj := len(matches[i].Key), len(matches[j].Key)
		if li != lj {
			return li > lj
		}
		return strings.ToLower(matches[i].Key) < strings.ToLower(matches[j].Key)
	})
	if len(matches) > MaxMatches {
		matches = matches[:MaxMatches]
	}
	return matches
}

// Keys returns the keys of the matched entries in order.
func Keys(entries []Entry) []string {
	if len(entries) == 0 {
		return nil
	}
	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		keys = append(keys, entry.Key)
	}
	return keys
}

// FormatContext renders matches as a context block for the system prompt.
// Entry lines stop once their running size passes MaxContextChars.
func FormatContext(entries []Entry) string {
	if len(entries) == 0 {
		return ""
	}
	lines := []string{ContextHeader}
	total := 0
	for _, entry := range entries {
		line := "- " + entry.Key + ": " + entry.Blurb
		total += len(line)
		if total > MaxContextChars {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
