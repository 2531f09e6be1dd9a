// Package input decodes terminal key presses and SGR mouse reports into the
// per-frame signals the field host consumes.
package input

import (
	"bufio"
	"bytes"
	"strconv"
)

// WheelLines is how many lines one mouse wheel notch scrolls.
const WheelLines = 3

// Input represents the current frame's input state.
type Input struct {
	Quit        bool
	Help        bool // Help overlay toggle pressed
	Top         bool // Jump to the top of the page
	Bottom      bool // Jump to the bottom of the page
	ScrollLines int  // Lines to scroll, positive is down
	ScrollPages int  // Pages to scroll, positive is down

	PointerMoved bool
	PointerCol   int // 1-based terminal column of the last mouse report
	PointerRow   int // 1-based terminal row of the last mouse report

	Pressed []byte // Raw bytes received this frame
}

// Active reports whether the viewer did anything this frame.
func (in Input) Active() bool {
	return len(in.Pressed) > 0
}

// Stream delivers input bytes via a channel and keeps incomplete escape sequences
// for the next frame.
type Stream struct {
	ch      chan byte
	pending []byte
	idle    int // Consecutive empty reads while a sequence is pending
	closed  bool
}

// maxPendingFrames is how many empty reads an unfinished CSI sequence survives
// before it is dropped. Sequences split across SSH packets finish well within it.
const maxPendingFrames = 30

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch: make(chan byte, 256),
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Closed reports whether the underlying reader hit EOF or an error.
func (s *Stream) Closed() bool {
	return s.closed
}

// ReadInput drains all available bytes from the stream (non-blocking) and decodes them.
// A closed stream reports Quit.
func ReadInput(s *Stream) Input {
	var buf []byte

	// Drain all available bytes
drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	// A lone Escape with nothing following it was the Escape key. Unfinished
	// CSI sequences wait for their tail unless it never arrives.
	if len(buf) == 0 && len(s.pending) > 0 {
		s.idle++
		if len(s.pending) == 1 || s.idle >= maxPendingFrames {
			s.pending = s.pending[:0]
			s.idle = 0
		}
	} else {
		s.idle = 0
	}
	data := append(s.pending, buf...)

	in, rest := Decode(data)
	in.Pressed = buf
	s.pending = append(s.pending[:0:0], rest...)
	if s.closed {
		in.Quit = true
	}
	return in
}

// Decode parses a byte sequence. rest holds a trailing incomplete escape sequence.
func Decode(data []byte) (in Input, rest []byte) {
	for i := 0; i < len(data); i++ {
		b := data[i]
		if b != '\x1b' {
			applyByte(&in, b)
			continue
		}

		// ESC [ ...
		if i+1 >= len(data) {
			return in, data[i:]
		}
		if data[i+1] != '[' {
			continue // Alt-modified key or lone Escape; ignored
		}
		n, complete := decodeCSI(&in, data[i+2:])
		if !complete {
			return in, data[i:]
		}
		i += 1 + n
	}
	return in, nil
}

// decodeCSI decodes the body of a CSI sequence (after "ESC ["). It returns the
// number of bytes consumed and false when the sequence is not finished yet.
func decodeCSI(in *Input, body []byte) (int, bool) {
	// Final byte of a CSI sequence is in 0x40..0x7e.
	end := -1
	for j, c := range body {
		if c >= 0x40 && c <= 0x7e {
			end = j
			break
		}
	}
	if end < 0 {
		return 0, false
	}

	params, final := body[:end], body[end]
	switch {
	case len(params) > 0 && params[0] == '<' && (final == 'M' || final == 'm'):
		applyMouse(in, params[1:], final == 'M')
	case final == 'A':
		in.ScrollLines--
	case final == 'B':
		in.ScrollLines++
	case final == 'H':
		in.Top = true
	case final == 'F':
		in.Bottom = true
	case final == '~':
		switch string(params) {
		case "1", "7":
			in.Top = true
		case "4", "8":
			in.Bottom = true
		case "5":
			in.ScrollPages--
		case "6":
			in.ScrollPages++
		}
	}
	return end + 1, true
}

// applyMouse handles an SGR mouse report "b;x;y".
func applyMouse(in *Input, params []byte, press bool) {
	fields := bytes.Split(params, []byte{';'})
	if len(fields) != 3 {
		return
	}
	button, err1 := strconv.Atoi(string(fields[0]))
	col, err2 := strconv.Atoi(string(fields[1]))
	row, err3 := strconv.Atoi(string(fields[2]))
	if err1 != nil || err2 != nil || err3 != nil {
		return
	}

	if button&64 != 0 {
		if !press {
			return
		}
		if button&1 == 0 {
			in.ScrollLines -= WheelLines
		} else {
			in.ScrollLines += WheelLines
		}
		return
	}

	in.PointerMoved = true
	in.PointerCol = col
	in.PointerRow = row
}

// applyByte handles a single key press.
func applyByte(in *Input, b byte) {
	switch b {
	case 'q', 'Q', 0x03: // Ctrl-C arrives as a byte in raw mode
		in.Quit = true
	case 'j', 'J':
		in.ScrollLines++
	case 'k', 'K':
		in.ScrollLines--
	case ' ', 'f':
		in.ScrollPages++
	case 'b':
		in.ScrollPages--
	case 'g':
		in.Top = true
	case 'G':
		in.Bottom = true
	case '?', 'h':
		in.Help = true
	}
}
