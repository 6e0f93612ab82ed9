package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrInterrupted is returned when the player presses Ctrl+C in raw mode.
var ErrInterrupted = errors.New("input: interrupted")

// Reader reads player input from a terminal or any other stream.
type Reader struct {
	in  io.Reader
	out io.Writer
	br  *bufio.Reader
	fd  int
	tty bool
}

// NewReader reads from in and echoes to out. Raw key reads are used only when
// in is a terminal.
func NewReader(in io.Reader, out io.Writer) *Reader {
	r := &Reader{in: in, out: out, br: bufio.NewReader(in), fd: -1}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		r.fd = int(f.Fd())
		r.tty = true
	}
	return r
}

// Stdin returns a reader over os.Stdin echoing to os.Stdout.
func Stdin() *Reader {
	return NewReader(os.Stdin, os.Stdout)
}

// IsTerminal reports whether raw key reads are available.
func (r *Reader) IsTerminal() bool {
	return r.tty
}

// ReadLine reads one line without its trailing newline. The last line of a
// stream without a newline is returned with a nil error; io.EOF is returned
// only when nothing was read.
func (r *Reader) ReadLine() (string, error) {
	line, err := r.br.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadKey reads a single key in raw mode and returns its code: the character
// itself, "enter", "backspace", "escape" or an arrow name. On a stream that
// is not a terminal it falls back to one line, returned as "enter" when empty.
func (r *Reader) ReadKey() (string, error) {
	if !r.tty {
		line, err := r.ReadLine()
		if err != nil {
			return "", err
		}
		if line == "" {
			return "enter", nil
		}
		return line, nil
	}

	oldState, err := term.MakeRaw(r.fd)
	if err != nil {
		return "", fmt.Errorf("set raw mode: %w", err)
	}
	defer term.Restore(r.fd, oldState)

	b, err := r.readByte()
	if err != nil {
		return "", err
	}
	switch b {
	case 3:
		return "", ErrInterrupted
	case '\r', '\n':
		return "enter", nil
	case 127, 8:
		return "backspace", nil
	case 0x1b:
		return r.readEscape(), nil
	}
	return string(b), nil
}

// readByte goes through the line buffer so raw and line reads can be mixed.
func (r *Reader) readByte() (byte, error) {
	return r.br.ReadByte()
}

// readEscape decodes the rest of an escape sequence. Both CSI (ESC [) and
// SS3 (ESC O) arrow sequences are recognised; anything else reads as escape.
func (r *Reader) readEscape() string {
	b2, err := r.readByte()
	if err != nil || (b2 != '[' && b2 != 'O') {
		return "escape"
	}
	b3, err := r.readByte()
	if err != nil {
		return "escape"
	}
	switch b3 {
	case 'A':
		return "arrow_up"
	case 'B':
		return "arrow_down"
	case 'C':
		return "arrow_right"
	case 'D':
		return "arrow_left"
	}
	return "escape"
}
