package console

import (
	"fmt"
	"strings"

	"pkt.systems/addschat/internal/command"
	"pkt.systems/addschat/internal/usage"
)

const emptyHint = "type a message or /help"

// composeStatus picks the status line text. Command completions win over
// model completions, which win over the regular status.
func composeStatus(s *Screen) string {
	input := s.Input()
	if hints := command.Complete(input); len(hints) > 0 {
		return strings.Join(hints, "  ")
	}
	if hint := modelHint(input, s); hint != "" {
		return hint
	}
	return defaultStatus(s)
}

func modelHint(input string, s *Screen) string {
	cmd, ok := command.Parse(input)
	if !ok || command.Canonical(cmd.Name) != "model" {
		return ""
	}
	models := s.Models()
	names := make([]string, 0, len(models))
	for _, m := range models {
		names = append(names, string(m))
	}
	matches := command.MatchPrefix(cmd.Remainder, names)
	if len(matches) == 0 {
		return ""
	}
	return "models: " + strings.Join(matches, "  ")
}

func defaultStatus(s *Screen) string {
	parts := []string{s.Status()}
	if keys := s.LastMatches(); len(keys) > 0 {
		if s.ShowContext() {
			parts = append(parts, "ctx: "+strings.Join(keys, ", "))
		} else {
			parts = append(parts, "ctx: off")
		}
	}
	totals := s.Totals()
	if totals.Tokens > 0 {
		parts = append(parts, fmt.Sprintf("%d tok", totals.Tokens))
	}
	if totals.CostUSD > 0 {
		parts = append(parts, usage.FormatCost(totals.CostUSD))
	}
	if s.Fresh() && s.Input() == "" {
		parts = append(parts, emptyHint)
	}
	return strings.Join(parts, " | ")
}
