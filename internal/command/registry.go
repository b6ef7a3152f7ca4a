// Package command parses slash commands and describes the command surface.
package command

import (
	"fmt"
	"sort"
	"strings"
)

// Spec describes one slash command.
type Spec struct {
	Name    string
	Aliases []string
	Usage   string
	Summary string
}

var specs = []Spec{
	{Name: "help", Usage: "/help", Summary: "show commands"},
	{Name: "new", Usage: "/new", Summary: "start a new conversation"},
	{Name: "clear", Usage: "/clear", Summary: "clear the transcript"},
	{Name: "quit", Aliases: []string{"q"}, Usage: "/quit", Summary: "exit (alias /q)"},
	{Name: "preset", Usage: "/preset [name]", Summary: "list or select a preset"},
	{Name: "model", Usage: "/model [name]", Summary: "list or set the model"},
	{Name: "ctx", Usage: "/ctx", Summary: "toggle retrieval context"},
	{Name: "tutorial", Usage: "/tutorial", Summary: "run the guided tutorial"},
	{Name: "search", Usage: "/search <query>", Summary: "ask with web search"},
}

// Specs returns the command table in display order.
func Specs() []Spec {
	return append([]Spec(nil), specs...)
}

// Names returns every command name and alias, sorted.
func Names() []string {
	names := make([]string, 0, len(specs)+2)
	for _, spec := range specs {
		names = append(names, spec.Name)
		names = append(names, spec.Aliases...)
	}
	sort.Strings(names)
	return names
}

// Canonical resolves an alias to its command name. Unknown names are
// returned unchanged.
func Canonical(name string) string {
	for _, spec := range specs {
		for _, alias := range spec.Aliases {
			if alias == name {
				return spec.Name
			}
		}
	}
	return name
}

// Shortcut is a numeric command. Prefill shortcuts place Line in the input
// buffer; the others run Line directly.
type Shortcut struct {
	Key     string
	Label   string
	Line    string
	Prefill bool
}

var shortcuts = []Shortcut{
	{Key: "1", Label: "Search the web", Line: "/search ", Prefill: true},
	{Key: "2", Label: "Toggle context", Line: "/ctx"},
	{Key: "3", Label: "Tutorial", Line: "/tutorial"},
	{Key: "4", Label: "List models", Line: "/model"},
}

// Shortcuts returns the numeric shortcuts in key order.
func Shortcuts() []Shortcut {
	return append([]Shortcut(nil), shortcuts...)
}

// LookupShortcut matches a whole line such as "/2".
func LookupShortcut(line string) (Shortcut, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "/") {
		return Shortcut{}, false
	}
	for _, sc := range shortcuts {
		if trimmed[1:] == sc.Key {
			return sc, true
		}
	}
	return Shortcut{}, false
}

// Complete returns "/name" candidates for a partially typed command. Input
// that is not a bare command token, or that already names a command
// exactly, yields nothing.
func Complete(input string) []string {
	if !strings.HasPrefix(input, "/") || strings.ContainsAny(input, " \t") {
		return nil
	}
	token := strings.ToLower(input[1:])
	names := Names()
	for _, name := range names {
		if name == token {
			return nil
		}
	}
	var out []string
	for _, name := range names {
		if strings.HasPrefix(name, token) {
			out = append(out, "/"+name)
		}
	}
	return out
}

// MatchPrefix returns the values starting with prefix, ignoring case, in
// their original order.
func MatchPrefix(prefix string, values []string) []string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	var out []string
	for _, v := range values {
		if strings.HasPrefix(strings.ToLower(v), prefix) {
			out = append(out, v)
		}
	}
	return out
}

// HelpLines renders the command reference.
func HelpLines() []string {
	width := 0
	for _, spec := range specs {
		if len(spec.Usage) > width {
			width = len(spec.Usage)
		}
	}
	lines := make([]string, 0, len(specs)+len(shortcuts)+2)
	lines = append(lines, "Commands:")
	for _, spec := range specs {
		lines = append(lines, fmt.Sprintf("  %-*s  %s", width, spec.Usage, spec.Summary))
	}
	keys := make([]string, 0, len(shortcuts))
	for _, sc := range shortcuts {
		keys = append(keys, fmt.Sprintf("/%s %s", sc.Key, strings.ToLower(sc.Label)))
	}
	lines = append(lines, "Shortcuts: "+strings.Join(keys, ", "))
	lines = append(lines, "Keys: Esc stops a reply, Up/Down scroll, Ctrl-U clears the line.")
	return lines
}
