package console

import (
	"time"
)

// KeyKind classifies a decoded key.
type KeyKind int

const (
	KeyChar KeyKind = iota
	KeyEnter
	KeyBackspace
	KeyClearLine
	KeyEscape
	KeyUp
	KeyDown
)

func (k KeyKind) String() string {
	switch k {
	case KeyChar:
		return "char"
	case KeyEnter:
		return "enter"
	case KeyBackspace:
		return "backspace"
	case KeyClearLine:
		return "clear-line"
	case KeyEscape:
		return "escape"
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	default:
		return "unknown"
	}
}

// Key is one logical key event. Ch is set for KeyChar only.
type Key struct {
	Kind KeyKind
	Ch   byte
}

// ByteReader is the read side of the raw channel.
type ByteReader interface {
	ReadByteTimeout(timeout time.Duration) (b byte, ok bool, err error)
}

const (
	// DefaultEscapeWait bounds the wait for the byte after ESC and after an
	// ESC [ / ESC O introducer.
	DefaultEscapeWait = 50 * time.Millisecond
	// DefaultFragmentWait bounds the wait after a bare '['.
	DefaultFragmentWait = 30 * time.Millisecond
)

// Decoder turns raw bytes into keys. It recognises ESC alone, ESC [ A/B and
// ESC O A/B; every other escape sequence is discarded. A bare '[' is taken
// as the tail of a swallowed sequence: it is dropped, together with the next
// byte when that byte is a letter.
type Decoder struct {
	src          ByteReader
	escapeWait   time.Duration
	fragmentWait time.Duration
}

// NewDecoder returns a decoder with the default waits.
func NewDecoder(src ByteReader) *Decoder {
	return &Decoder{src: src, escapeWait: DefaultEscapeWait, fragmentWait: DefaultFragmentWait}
}

// Next waits up to timeout for the first byte and returns the next key. ok
// is false when nothing decodable arrived. Ignored bytes that are already
// buffered are skipped without waiting again. A zero timeout never blocks
// on the first byte.
func (d *Decoder) Next(timeout time.Duration) (Key, bool, error) {
	for {
		b, ok, err := d.src.ReadByteTimeout(timeout)
		if err != nil || !ok {
			return Key{}, false, err
		}
		key, emitted, err := d.dispatch(b)
		if err != nil {
			return Key{}, false, err
		}
		if emitted {
			return key, true, nil
		}
		timeout = 0
	}
}

func (d *Decoder) dispatch(b byte) (Key, bool, error) {
	switch {
	case b == 0x1b:
		return d.escape()
	case b == '[':
		return d.fragment()
	case b == '\n' || b == '\r':
		return Key{Kind: KeyEnter}, true, nil
	case b == 0x08 || b == 0x7f:
		return Key{Kind: KeyBackspace}, true, nil
	case b == 0x15:
		return Key{Kind: KeyClearLine}, true, nil
	case b < 0x20:
		return Key{}, false, nil
	case b <= 0x7e:
		return Key{Kind: KeyChar, Ch: b}, true, nil
	default:
		return Key{}, false, nil
	}
}

func (d *Decoder) escape() (Key, bool, error) {
	b, ok, err := d.src.ReadByteTimeout(d.escapeWait)
	if err != nil {
		return Key{}, false, err
	}
	if !ok {
		return Key{Kind: KeyEscape}, true, nil
	}
	if b != '[' && b != 'O' {
		// Not a sequence: drop the ESC and treat b as fresh input.
		return d.dispatch(b)
	}
	final, ok, err := d.src.ReadByteTimeout(d.escapeWait)
	if err != nil || !ok {
		return Key{}, false, err
	}
	switch final {
	case 'A':
		return Key{Kind: KeyUp}, true, nil
	case 'B':
		return Key{Kind: KeyDown}, true, nil
	default:
		return Key{}, false, nil
	}
}

func (d *Decoder) fragment() (Key, bool, error) {
	b, ok, err := d.src.ReadByteTimeout(d.fragmentWait)
	if err != nil || !ok {
		return Key{}, false, err
	}
	if isLetter(b) {
		return Key{}, false, nil
	}
	return d.dispatch(b)
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
