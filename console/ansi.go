package console

import (
	"strconv"
	"strings"
)

const (
	csi            = "\x1b["
	ansiHideCursor = csi + "?25l"
	ansiShowCursor = csi + "?25h"
	ansiClear      = csi + "2J" + csi + "H"
	ansiReverse    = csi + "7m"
	ansiReset      = csi + "0m"
	ansiClearEOL   = csi + "K"
)

func moveTo(b *strings.Builder, row, col int) {
	if row < 1 {
		row = 1
	}
	if col < 1 {
		col = 1
	}
	b.WriteString(csi)
	b.WriteString(strconv.Itoa(row))
	b.WriteByte(';')
	b.WriteString(strconv.Itoa(col))
	b.WriteByte('H')
}
