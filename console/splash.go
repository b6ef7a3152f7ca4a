package console

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"pkt.systems/addschat/internal/command"
)

// DefaultName is used when the splash name is left blank.
const DefaultName = "friend"

var titleArt = []string{
	`    _    ____  ____  ____       _    ___ `,
	`   / \  |  _ \|  _ \/ ___|     / \  |_ _|`,
	`  / _ \ | | | | | | \___ \    / _ \  | | `,
	` / ___ \| |_| | |_| |___) |  / ___ \ | | `,
	`/_/   \_\____/|____/|____/  /_/   \_\___|`,
}

const (
	splashPrompt = "Your name: "
	splashHelp   = "Type your name and press Enter (blank for friend)"
)

func titleLines(cols int) []string {
	if cols < runewidth.StringWidth(titleArt[0])+2 {
		return []string{"ADDS AI Chat"}
	}
	return titleArt
}

func splashBoxWidth(cols int) int {
	w := cols - 4
	if w > 44 {
		w = 44
	}
	return w
}

func renderSplash(s *Screen) string {
	cols, rows := s.Cols(), s.Rows()
	title := titleLines(cols)
	boxW := splashBoxWidth(cols)
	inner := boxW - 4
	field := tailToWidth(splashPrompt+s.Input(), inner)
	border := "+" + strings.Repeat("-", boxW-2) + "+"

	block := len(title) + 1 + 3 + 1 + 1
	top := (rows-block)/2 + 1
	if top < 1 {
		top = 1
	}

	var b strings.Builder
	b.WriteString(ansiHideCursor)
	b.WriteString(ansiClear)
	row := top
	for _, line := range title {
		writeCentered(&b, row, cols, line)
		row++
	}
	row++
	boxCol := (cols-boxW)/2 + 1
	moveTo(&b, row, boxCol)
	b.WriteString(border)
	moveTo(&b, row+1, boxCol)
	b.WriteString("| " + padToWidth(field, inner) + " |")
	moveTo(&b, row+2, boxCol)
	b.WriteString(border)
	cursorRow := row + 1
	cursorCol := boxCol + 2 + runewidth.StringWidth(field)
	row += 4
	b.WriteString(ansiReverse)
	writeCentered(&b, row, cols, " "+splashHelp+" ")
	b.WriteString(ansiReset)

	moveTo(&b, cursorRow, cursorCol)
	b.WriteString(ansiShowCursor)
	return b.String()
}

func writeCentered(b *strings.Builder, row, cols int, text string) {
	text = trimToWidth(text, cols)
	col := (cols-runewidth.StringWidth(text))/2 + 1
	moveTo(b, row, col)
	b.WriteString(text)
}

func renderSplashPlain(s *Screen) string {
	cols := s.Cols()
	lines := []string{
		trimToWidth("ADDS AI Chat", cols),
		"",
		tailToWidth(splashPrompt+s.Input(), cols),
		trimToWidth("("+splashHelp+")", cols),
	}
	return strings.Join(lines, "\r\n") + "\r\n"
}

// shortcutGrid lays the numeric shortcuts out as a bordered two by two grid
// centred in cols.
func shortcutGrid(cols int) []string {
	shortcuts := command.Shortcuts()
	cell := (cols - 3) / 2
	if cell > 24 {
		cell = 24
	}
	labels := make([]string, 0, len(shortcuts))
	for _, sc := range shortcuts {
		labels = append(labels, fmt.Sprintf(" /%s %s", sc.Key, sc.Label))
	}
	if cell < 8 {
		out := make([]string, 0, len(labels))
		for _, label := range labels {
			out = append(out, trimToWidth(strings.TrimSpace(label), cols))
		}
		return out
	}
	border := "+" + strings.Repeat("-", cell) + "+" + strings.Repeat("-", cell) + "+"
	lines := []string{centerIn(border, cols)}
	for i := 0; i < len(labels); i += 2 {
		right := ""
		if i+1 < len(labels) {
			right = labels[i+1]
		}
		row := "|" + padToWidth(labels[i], cell) + "|" + padToWidth(right, cell) + "|"
		lines = append(lines, centerIn(row, cols), centerIn(border, cols))
	}
	return lines
}

// seedChat resets the transcript to the welcome block and the shortcut grid.
// The grid is centred vertically in the viewport when there is room.
func seedChat(s *Screen, name string) {
	s.Clear()
	text := fmt.Sprintf("Welcome, %s. Type a message or /help for commands.", name)
	welcome := blockLines(PrefixSystem, text, s.Cols())
	grid := shortcutGrid(s.Cols())
	s.AddBlock(PrefixSystem, text)
	if pad := (s.ViewHeight()-len(grid))/2 - len(welcome); pad > 0 && len(welcome)+pad+len(grid) <= s.ViewHeight() {
		s.AddLines(make([]string, pad)...)
	}
	s.AddLines(grid...)
	s.AddLines("")
}
