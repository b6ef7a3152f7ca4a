package command

import "strings"

// Command is a parsed slash command line.
type Command struct {
	// Name is the lower-cased first token; empty for a bare "/".
	Name string
	Args []string
	// Raw is the text after the slash, trimmed.
	Raw string
	// Remainder is Raw without the name, inner spacing preserved.
	Remainder string
}

// Parse reports whether input is a slash command and splits it.
func Parse(input string) (Command, bool) {
	rest, ok := strings.CutPrefix(strings.TrimLeft(input, " \t"), "/")
	if !ok {
		return Command{}, false
	}
	raw := strings.TrimSpace(rest)
	end := strings.IndexAny(raw, " \t")
	if end < 0 {
		end = len(raw)
	}
	remainder := strings.TrimSpace(raw[end:])
	return Command{
		Name:      strings.ToLower(raw[:end]),
		Args:      strings.Fields(remainder),
		Raw:       raw,
		Remainder: remainder,
	}, true
}
