package core

// View is a snapshot of the transcript's visible state.
type View struct {
	Lines        []string
	TotalLines   int
	ScrollOffset int
	AtBottom     bool
}

// Transcript stores display lines and scroll state.
// ScrollOffset is the number of lines from the bottom; 0 means at bottom.
type Transcript struct {
	lines        []string
	scrollOffset int
	maxLines     int
	dropped      int
}

// NewTranscript returns a transcript capped at maxLines. A cap <= 0 keeps
// every line until Clear.
func NewTranscript(maxLines int) *Transcript {
	if maxLines < 0 {
		maxLines = 0
	}
	return &Transcript{maxLines: maxLines}
}

// Append adds lines. If the transcript is scrolled up, the scroll offset is
// increased to keep the view anchored.
func (t *Transcript) Append(lines ...string) {
	if len(lines) == 0 {
		return
	}
	t.lines = append(t.lines, lines...)
	if t.scrollOffset > 0 {
		t.scrollOffset += len(lines)
	}
	if t.maxLines > 0 && len(t.lines) > t.maxLines {
		trim := len(t.lines) - t.maxLines
		t.lines = append([]string(nil), t.lines[trim:]...)
		t.dropped += trim
		if t.scrollOffset > len(t.lines) {
			t.scrollOffset = len(t.lines)
		}
	}
}

// Mark returns a position that ReplaceFrom can later rewrite from. Marks stay
// valid when old lines are evicted by the cap.
func (t *Transcript) Mark() int {
	return t.dropped + len(t.lines)
}

// ReplaceFrom drops every line at or after mark and appends lines in their
// place.
func (t *Transcript) ReplaceFrom(mark int, lines ...string) {
	idx := mark - t.dropped
	if idx < 0 {
		idx = 0
	}
	scrolled := t.scrollOffset > 0
	offset := t.scrollOffset
	if idx < len(t.lines) {
		offset -= len(t.lines) - idx
		t.lines = t.lines[:idx]
	}
	t.scrollOffset = 0
	t.Append(lines...)
	if !scrolled {
		return
	}
	offset += len(lines)
	if offset < 0 {
		offset = 0
	}
	if offset > len(t.lines) {
		offset = len(t.lines)
	}
	t.scrollOffset = offset
}

// Clear removes every line and returns to the bottom.
func (t *Transcript) Clear() {
	t.dropped += len(t.lines)
	t.lines = nil
	t.scrollOffset = 0
}

// Len returns the number of stored lines.
func (t *Transcript) Len() int { return len(t.lines) }

// Lines returns a copy of every stored line.
func (t *Transcript) Lines() []string {
	return append([]string(nil), t.lines...)
}

// ScrollOffset returns the raw offset from the bottom.
func (t *Transcript) ScrollOffset() int { return t.scrollOffset }

// ResetScroll returns the view to the bottom.
func (t *Transcript) ResetScroll() {
	t.scrollOffset = 0
}

// Scroll adjusts the scroll offset by delta. Positive delta scrolls up (older
// lines), negative delta scrolls down. Limit is the viewport height.
func (t *Transcript) Scroll(delta, limit int) {
	t.scrollOffset = clampScroll(t.scrollOffset+delta, len(t.lines), limit)
}

// Snapshot clamps the offset for the viewport limit and returns the visible
// lines.
func (t *Transcript) Snapshot(limit int) View {
	total := len(t.lines)
	if limit <= 0 || limit > total {
		limit = total
	}
	t.scrollOffset = clampScroll(t.scrollOffset, total, limit)

	end := total - t.scrollOffset
	start := end - limit
	if start < 0 {
		start = 0
	}

	lines := make([]string, end-start)
	copy(lines, t.lines[start:end])

	return View{
		Lines:        lines,
		TotalLines:   total,
		ScrollOffset: t.scrollOffset,
		AtBottom:     t.scrollOffset == 0,
	}
}

func maxScroll(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	if total <= limit {
		return 0
	}
	return total - limit
}

func clampScroll(offset, total, limit int) int {
	max := maxScroll(total, limit)
	if offset < 0 {
		return 0
	}
	if offset > max {
		return max
	}
	return offset
}
