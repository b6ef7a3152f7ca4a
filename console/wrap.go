package console

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// wrapText word-wraps text into lines no wider than width cells. Each input
// line is wrapped on its own; blank input lines stay blank.
func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{""}
	}
	paragraphs := splitLines(text)
	if len(paragraphs) == 0 {
		return []string{""}
	}
	out := make([]string, 0, len(paragraphs))
	for _, para := range paragraphs {
		out = append(out, wrapPlainLines(para, width)...)
	}
	return out
}

// splitLines splits on \n, \r\n and \r. A trailing line break does not
// produce an extra empty line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			lines = append(lines, text[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, text[start:i])
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

type textToken struct {
	text  string
	space bool
}

func tokenizeText(text string) []textToken {
	if text == "" {
		return nil
	}
	var tokens []textToken
	var buf strings.Builder
	inSpace := false
	flush := func() {
		if buf.Len() == 0 {
			return
		}
		tokens = append(tokens, textToken{text: buf.String(), space: inSpace})
		buf.Reset()
	}
	for _, r := range text {
		if unicode.IsSpace(r) {
			if !inSpace {
				flush()
				inSpace = true
			}
			buf.WriteRune(' ')
			continue
		}
		if inSpace {
			flush()
			inSpace = false
		}
		buf.WriteRune(r)
	}
	flush()
	return tokens
}

func wrapPlainLines(text string, width int) []string {
	if width <= 0 {
		return []string{""}
	}
	sanitized := sanitizeOutputLine(text)
	if sanitized == "" {
		return []string{""}
	}
	tokens := tokenizeText(sanitized)
	lines := make([]string, 0, 4)
	var b strings.Builder
	visible := 0
	suppressLeadingSpace := false
	flush := func(wrapped bool) {
		if b.Len() == 0 {
			return
		}
		lines = append(lines, trimToWidth(b.String(), width))
		b.Reset()
		visible = 0
		suppressLeadingSpace = wrapped
	}
	for _, token := range tokens {
		if token.space {
			if visible == 0 && suppressLeadingSpace {
				continue
			}
			spaceLen := len(token.text)
			if visible+spaceLen > width {
				flush(true)
				continue
			}
			b.WriteString(token.text)
			visible += spaceLen
			continue
		}
		wordLen := runewidth.StringWidth(token.text)
		if wordLen > width {
			if visible > 0 {
				flush(true)
			}
			for _, r := range token.text {
				rw := runewidth.RuneWidth(r)
				if visible+rw > width {
					flush(true)
				}
				b.WriteRune(r)
				visible += rw
			}
			suppressLeadingSpace = false
			continue
		}
		if visible+wordLen > width && visible > 0 {
			flush(true)
		}
		b.WriteString(token.text)
		visible += wordLen
		suppressLeadingSpace = false
	}
	flush(false)
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

// sanitizeOutputLine strips escape sequences and control characters so model
// output cannot move the cursor. Tabs become four spaces.
func sanitizeOutputLine(text string) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	for i := 0; i < len(text); {
		ch := text[i]
		if ch == 0x1b {
			i = skipEscape(text, i+1)
			continue
		}
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == utf8.RuneError && size == 1 {
			i++
			continue
		}
		if r == '\t' {
			b.WriteString("    ")
			i += size
			continue
		}
		if r < 0x20 || r == 0x7f || (r >= 0x80 && r < 0xa0) {
			i += size
			continue
		}
		b.WriteRune(r)
		i += size
	}
	return b.String()
}

func skipEscape(text string, i int) int {
	if i >= len(text) {
		return i
	}
	switch text[i] {
	case '[':
		return skipCSI(text, i+1)
	case ']':
		return skipOSC(text, i+1)
	default:
		return i + 1
	}
}

func skipCSI(text string, i int) int {
	for i < len(text) {
		b := text[i]
		if b >= 0x40 && b <= 0x7e {
			return i + 1
		}
		i++
	}
	return i
}

func skipOSC(text string, i int) int {
	for i < len(text) {
		switch text[i] {
		case 0x07:
			return i + 1
		case 0x1b:
			if i+1 < len(text) && text[i+1] == '\\' {
				return i + 2
			}
		}
		i++
	}
	return i
}

// trimToWidth cuts value to at most width cells.
func trimToWidth(value string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	return runewidth.Truncate(value, width, "")
}

// padToWidth trims or right-pads value to exactly width cells.
func padToWidth(value string, width int) string {
	return runewidth.FillRight(trimToWidth(value, width), width)
}

// tailToWidth keeps the last cells of value that fit in width.
func tailToWidth(value string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	runes := []rune(value)
	used := 0
	start := len(runes)
	for start > 0 {
		rw := runewidth.RuneWidth(runes[start-1])
		if used+rw > width {
			break
		}
		used += rw
		start--
	}
	return string(runes[start:])
}

// centerIn pads value with leading spaces so it sits centred in width.
func centerIn(value string, width int) string {
	value = trimToWidth(value, width)
	pad := (width - runewidth.StringWidth(value)) / 2
	if pad <= 0 {
		return value
	}
	return strings.Repeat(" ", pad) + value
}
