// Package rawtty owns a raw-mode terminal device: byte reads with a timeout,
// full writes, and mode restoration on close.
package rawtty

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"pkt.systems/addschat/schema"
)

// Channel is the byte channel the console runs on.
type Channel interface {
	// ReadByteTimeout waits up to timeout for one byte. ok is false when no
	// byte arrived in time. A zero timeout polls without waiting.
	ReadByteTimeout(timeout time.Duration) (b byte, ok bool, err error)
	Write(p []byte) (int, error)
	Close() error
}

var _ Channel = (*TTY)(nil)

// TTY is a terminal device opened in raw mode.
type TTY struct {
	fd    int
	path  string
	state *term.State

	closeOnce sync.Once
	closeErr  error
}

// Open opens path read-write without making it the controlling terminal and
// switches it to raw mode. Devices that are not terminals (a pipe or a pty
// peer under test) are used as-is.
func Open(path string) (*TTY, error) {
	if path == "" {
		return nil, schema.ErrMissingDevice
	}
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NOCTTY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	t := &TTY{fd: fd, path: path}
	if term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)
		if err != nil {
			_ = unix.Close(fd)
			return nil, fmt.Errorf("raw mode %s: %w", path, err)
		}
		t.state = state
	}
	return t, nil
}

// Path returns the device path.
func (t *TTY) Path() string { return t.path }

// ReadByteTimeout implements Channel.
func (t *TTY) ReadByteTimeout(timeout time.Duration) (byte, bool, error) {
	ms := int(timeout / time.Millisecond)
	if timeout > 0 && ms == 0 {
		ms = 1
	}
	fds := []unix.PollFd{{Fd: int32(t.fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, ms)
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("poll %s: %w", t.path, err)
	}
	if n == 0 {
		return 0, false, nil
	}
	rev := fds[0].Revents
	if rev&unix.POLLIN == 0 && rev&(unix.POLLHUP|unix.POLLERR|unix.POLLNVAL) != 0 {
		return 0, false, schema.ErrChannelClosed
	}
	var buf [1]byte
	for {
		n, err := unix.Read(t.fd, buf[:])
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if errors.Is(err, unix.EAGAIN) {
			return 0, false, nil
		}
		if err != nil {
			return 0, false, fmt.Errorf("read %s: %w", t.path, err)
		}
		if n == 0 {
			return 0, false, schema.ErrChannelClosed
		}
		return buf[0], true, nil
	}
}

// Write writes all of p.
func (t *TTY) Write(p []byte) (int, error) {
	written := 0
	for written < len(p) {
		n, err := unix.Write(t.fd, p[written:])
		if errors.Is(err, unix.EINTR) || errors.Is(err, unix.EAGAIN) {
			continue
		}
		if err != nil {
			return written, fmt.Errorf("write %s: %w", t.path, err)
		}
		written += n
	}
	return written, nil
}

// Close restores the original terminal mode and closes the device. It is
// safe to call more than once.
func (t *TTY) Close() error {
	t.closeOnce.Do(func() {
		var errs []error
		if t.state != nil {
			if err := term.Restore(t.fd, t.state); err != nil {
				errs = append(errs, fmt.Errorf("restore %s: %w", t.path, err))
			}
		}
		if err := unix.Close(t.fd); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", t.path, err))
		}
		t.closeErr = errors.Join(errs...)
	})
	return t.closeErr
}
