package console

import (
	"fmt"
	"strings"

	"pkt.systems/addschat/schema"
)

const inputPrompt = "> "

// Render serializes the screen into one complete frame. Decorated frames
// repaint every row; plain frames are newline-separated text.
func Render(s *Screen) []byte {
	switch {
	case s.Mode() == schema.ModeSplash && s.ANSI():
		return []byte(renderSplash(s))
	case s.Mode() == schema.ModeSplash:
		return []byte(renderSplashPlain(s))
	case s.ANSI():
		return []byte(renderDecorated(s))
	default:
		return []byte(renderPlain(s))
	}
}

func headerText(s *Screen) string {
	preset := string(s.Preset())
	if preset == "" {
		preset = "none"
	}
	return fmt.Sprintf(" ADDS AI Chat | model: %s | preset: %s | /help /clear /quit ", s.Model(), preset)
}

func renderDecorated(s *Screen) string {
	cols, rows := s.Cols(), s.Rows()
	var b strings.Builder
	b.WriteString(ansiHideCursor)
	b.WriteString(ansiClear)

	b.WriteString(ansiReverse)
	moveTo(&b, 1, 1)
	b.WriteString(padToWidth(headerText(s), cols))
	b.WriteString(ansiReset)

	view := s.ViewSlice()
	for i := 0; i < s.ViewHeight(); i++ {
		moveTo(&b, 2+i, 1)
		b.WriteString(ansiClearEOL)
		if i < len(view) {
			b.WriteString(view[i])
		}
	}

	b.WriteString(ansiReverse)
	moveTo(&b, rows-1, 1)
	b.WriteString(padToWidth(" "+composeStatus(s)+" ", cols))
	b.WriteString(ansiReset)

	moveTo(&b, rows, 1)
	b.WriteString(ansiClearEOL)
	b.WriteString(tailToWidth(inputPrompt+s.Input(), cols))
	b.WriteString(ansiShowCursor)
	return b.String()
}

func renderPlain(s *Screen) string {
	cols := s.Cols()
	lines := make([]string, 0, s.Rows()+4)
	lines = append(lines, trimToWidth(fmt.Sprintf("[ADDS AI Chat | model: %s]", s.Model()), cols), "")
	lines = append(lines, s.ViewSlice()...)
	lines = append(lines, trimToWidth("["+composeStatus(s)+"]", cols))
	lines = append(lines, tailToWidth(inputPrompt+s.Input(), cols))
	return strings.Join(lines, "\r\n") + "\r\n"
}
