package console

import (
	"context"
	"fmt"
	"strings"

	"pkt.systems/addschat/core"
	"pkt.systems/addschat/internal/command"
	"pkt.systems/addschat/internal/logx"
	"pkt.systems/addschat/schema"
)

// TutorialMessage is sent by /tutorial.
const TutorialMessage = "Walk me through what you can help with and how to use this chat, step by step."

// submit handles a committed input line. It reports true when the session
// should end.
func (s *Session) submit(ctx context.Context, raw string) (bool, error) {
	line := strings.TrimSpace(raw)
	if line == "" {
		return false, s.flush()
	}
	if sc, ok := command.LookupShortcut(line); ok {
		if sc.Prefill {
			s.screen.SetInput(sc.Line)
			return false, s.flush()
		}
		line = sc.Line
	}
	cmd, ok := command.Parse(line)
	if !ok {
		return false, s.chat(ctx, line, false)
	}

	log := logx.WithConversationModel(ctx, s.conv.ID, s.screen.Model())
	log.Debug("audit command", "command_type", "slash", "command", line)
	log = log.With("command", cmd.Name, "args", len(cmd.Args))
	switch command.Canonical(cmd.Name) {
	case "quit":
		return true, nil
	case "clear":
		s.screen.Clear()
		s.screen.AddBlock(PrefixSystem, "Cleared.")
	case "help":
		s.screen.AddBlock(PrefixSystem, strings.Join(command.HelpLines(), "\n"))
	case "new":
		s.newConversation()
		log.Info("conversation started", "conversation", s.conv.ID)
	case "preset":
		s.handlePreset(ctx, cmd)
	case "model":
		s.handleModel(ctx, cmd)
	case "ctx":
		state := "off"
		if s.screen.ToggleContext() {
			state = "on"
		}
		s.screen.AddBlock(PrefixSystem, "Retrieval context "+state)
	case "tutorial":
		return false, s.tutorial(ctx)
	case "search":
		if cmd.Remainder == "" {
			log.Debug("command search rejected", "err", schema.ErrEmptyQuery)
			s.screen.AddBlock(PrefixSystem, "Usage: /search <query>")
			break
		}
		return false, s.runExchange(ctx, exchange{message: cmd.Remainder, search: true, presetText: s.presetText})
	default:
		log.Warn("command slash rejected", "reason", "unknown")
		s.screen.AddBlock(PrefixSystem, "Unknown: /"+typedName(cmd))
	}
	s.screen.SetStatus("Idle")
	return false, s.flush()
}

// typedName is the command token with the casing the user typed.
func typedName(cmd command.Command) string {
	if fields := strings.Fields(cmd.Raw); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

func (s *Session) newConversation() {
	s.conv = core.NewConversation(s.cfg.HistoryMax)
	s.screen.SetLastMatches(nil)
	s.screen.SetFresh(true)
	seedChat(s.screen, s.displayName())
}

func (s *Session) handlePreset(ctx context.Context, cmd command.Command) {
	names := s.catalog.PresetNames()
	if len(cmd.Args) == 0 {
		if len(names) == 0 {
			s.screen.AddBlock(PrefixSystem, "No presets available.")
			return
		}
		list := make([]string, 0, len(names))
		for _, name := range names {
			list = append(list, string(name))
		}
		s.screen.AddBlock(PrefixSystem, fmt.Sprintf("Presets: %s (active: %s)", strings.Join(list, ", "), s.screen.Preset()))
		return
	}
	requested := schema.PresetName(cmd.Args[0])
	preset, found := s.catalog.SelectPreset(requested)
	if preset.Name == "" {
		s.screen.AddBlock(PrefixSystem, unknownPresetMessage(requested, ""))
		return
	}
	s.screen.SetPreset(preset.Name)
	s.presetText = preset.Prompt
	log := logx.WithPreset(logx.Ctx(ctx), preset.Name)
	if !found {
		log.Warn("preset unknown", "requested", requested, "err", schema.ErrUnknownPreset)
		s.screen.AddBlock(PrefixSystem, unknownPresetMessage(requested, preset.Name))
		return
	}
	log.Info("preset changed")
	s.screen.AddBlock(PrefixSystem, "Preset set to "+string(preset.Name))
}

func (s *Session) handleModel(ctx context.Context, cmd command.Command) {
	if len(cmd.Args) == 0 {
		models := s.screen.Models()
		list := make([]string, 0, len(models))
		for _, m := range models {
			list = append(list, string(m))
		}
		s.screen.AddBlock(PrefixSystem, fmt.Sprintf("Models: %s (active: %s)", strings.Join(list, ", "), s.screen.Model()))
		return
	}
	model := schema.ModelID(cmd.Args[0])
	added := s.screen.SetModel(model)
	logx.WithConversationModel(ctx, s.conv.ID, model).Info("model changed", "added", added)
	msg := "Model set to " + string(model)
	if added {
		msg += " (added to known models)"
	}
	s.screen.AddBlock(PrefixSystem, msg)
}

func (s *Session) tutorial(ctx context.Context) error {
	text := s.presetText
	if preset, ok := s.catalog.Preset(schema.TutorialPresetName); ok {
		text = preset.Prompt
	} else {
		logx.Ctx(ctx).Debug("tutorial preset missing", "fallback", s.screen.Preset())
	}
	return s.runExchange(ctx, exchange{message: TutorialMessage, presetText: text})
}
