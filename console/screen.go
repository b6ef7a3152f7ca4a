package console

import (
	"pkt.systems/addschat/core"
	"pkt.systems/addschat/internal/usage"
	"pkt.systems/addschat/schema"
)

// Block prefixes used in the transcript.
const (
	PrefixUser      = "YOU: "
	PrefixAssistant = "AI: "
	PrefixSystem    = "SYS: "
	PrefixError     = "ERR: "
	PrefixSources   = "SRC: "
)

// NameMaxLen caps the splash name input.
const NameMaxLen = 24

// Screen is the visual state owned by the session loop. It is not safe for
// concurrent use.
type Screen struct {
	mode   schema.Mode
	cols   int
	rows   int
	ansi   bool
	model  schema.ModelID
	preset schema.PresetName

	transcript *core.Transcript
	input      []byte
	status     string

	showContext bool
	lastMatches []string
	totals      usage.Totals
	models      []schema.ModelID
	fresh       bool
}

// NewScreen returns a screen in splash mode.
func NewScreen(cols, rows int, ansi bool) *Screen {
	if cols <= 0 {
		cols = schema.DefaultCols
	}
	if rows <= 0 {
		rows = schema.DefaultRows
	}
	return &Screen{
		mode:        schema.ModeSplash,
		cols:        cols,
		rows:        rows,
		ansi:        ansi,
		transcript:  core.NewTranscript(0),
		status:      "Idle",
		showContext: true,
		fresh:       true,
	}
}

func (s *Screen) Mode() schema.Mode { return s.mode }
func (s *Screen) SetMode(mode schema.Mode) { s.mode = mode }
func (s *Screen) Cols() int { return s.cols }
func (s *Screen) Rows() int { return s.rows }
func (s *Screen) ANSI() bool { return s.ansi }
func (s *Screen) Model() schema.ModelID { return s.model }
func (s *Screen) Preset() schema.PresetName { return s.preset }
func (s *Screen) SetPreset(p schema.PresetName) { s.preset = p }
func (s *Screen) Status() string { return s.status }
func (s *Screen) SetStatus(status string) { s.status = status }
func (s *Screen) ShowContext() bool { return s.showContext }
func (s *Screen) Totals() usage.Totals { return s.totals }
func (s *Screen) LastMatches() []string { return append([]string(nil), s.lastMatches...) }
func (s *Screen) SetLastMatches(keys []string) { s.lastMatches = append([]string(nil), keys...) }

// ToggleContext flips retrieval context display and returns the new state.
func (s *Screen) ToggleContext() bool {
	s.showContext = !s.showContext
	return s.showContext
}

// AddUsage merges a completed exchange into the running totals.
func (s *Screen) AddUsage(done schema.Completed) {
	s.totals.Add(done)
}

// SetModel makes model active and adds it to the known set. It reports
// whether the model was new.
func (s *Screen) SetModel(model schema.ModelID) bool {
	s.model = model
	return s.AddModel(model)
}

// AddModel adds model to the known set and reports whether it was new.
func (s *Screen) AddModel(model schema.ModelID) bool {
	if model == "" {
		return false
	}
	for _, known := range s.models {
		if known == model {
			return false
		}
	}
	s.models = append(s.models, model)
	return true
}

// Models returns the known models.
func (s *Screen) Models() []schema.ModelID {
	return append([]schema.ModelID(nil), s.models...)
}

// ViewHeight is the number of transcript rows on screen.
func (s *Screen) ViewHeight() int {
	h := s.rows - 3
	if !s.ansi {
		h = s.rows - 1
	}
	if h < 1 {
		h = 1
	}
	return h
}

// AddBlock wraps prefix+text to the screen width and appends it followed by
// a blank separator line.
func (s *Screen) AddBlock(prefix, text string) {
	s.transcript.Append(blockLines(prefix, text, s.cols)...)
}

// AddLines appends preformatted lines, trimmed to the screen width.
func (s *Screen) AddLines(lines ...string) {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, trimToWidth(line, s.cols))
	}
	s.transcript.Append(out...)
}

// BeginBlock marks where an in-progress block starts.
func (s *Screen) BeginBlock() int {
	return s.transcript.Mark()
}

// ReplaceBlock rewrites everything from mark with a new block, so a growing
// message is redrawn in place.
func (s *Screen) ReplaceBlock(mark int, prefix, text string) {
	s.transcript.ReplaceFrom(mark, blockLines(prefix, text, s.cols)...)
}

func blockLines(prefix, text string, cols int) []string {
	lines := wrapText(prefix+text, cols)
	return append(lines, "")
}

// Clear empties the transcript.
func (s *Screen) Clear() {
	s.transcript.Clear()
}

// Lines returns every transcript line.
func (s *Screen) Lines() []string {
	return s.transcript.Lines()
}

// ScrollOffset reports the current offset from the live tail.
func (s *Screen) ScrollOffset() int {
	return s.transcript.ScrollOffset()
}

// ViewSlice clamps the scroll offset to the view height and returns the
// visible lines.
func (s *Screen) ViewSlice() []string {
	return s.transcript.Snapshot(s.ViewHeight()).Lines
}

// ScrollUp reveals one older line.
func (s *Screen) ScrollUp() { s.transcript.Scroll(1, s.ViewHeight()) }

// ScrollDown moves one line toward the live tail.
func (s *Screen) ScrollDown() { s.transcript.Scroll(-1, s.ViewHeight()) }

// Input returns the uncommitted input line.
func (s *Screen) Input() string { return string(s.input) }

// SetInput replaces the input line.
func (s *Screen) SetInput(value string) {
	s.input = append(s.input[:0], value...)
}

// InsertChar appends a printable byte. In splash mode the input is capped at
// NameMaxLen. Typing returns the view to the live tail.
func (s *Screen) InsertChar(ch byte) {
	if s.mode == schema.ModeSplash && len(s.input) >= NameMaxLen {
		return
	}
	s.input = append(s.input, ch)
	s.transcript.ResetScroll()
}

// Backspace removes the last input byte.
func (s *Screen) Backspace() {
	if len(s.input) > 0 {
		s.input = s.input[:len(s.input)-1]
	}
	s.transcript.ResetScroll()
}

// ClearInput empties the input line.
func (s *Screen) ClearInput() {
	s.input = s.input[:0]
	s.transcript.ResetScroll()
}

// TakeInput returns the input line and clears it.
func (s *Screen) TakeInput() string {
	line := string(s.input)
	s.input = s.input[:0]
	return line
}

// Fresh reports whether the conversation has had no exchange yet.
func (s *Screen) Fresh() bool { return s.fresh }

// SetFresh marks whether the empty-state hint applies.
func (s *Screen) SetFresh(fresh bool) { s.fresh = fresh }
