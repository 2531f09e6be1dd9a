package input

import (
	"bufio"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeKeys(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Input
	}{
		{"quit", "q", Input{Quit: true}},
		{"ctrl-c", "\x03", Input{Quit: true}},
		{"line scroll", "jjk", Input{ScrollLines: 1}},
		{"arrows", "\x1b[B\x1b[B\x1b[A", Input{ScrollLines: 1}},
		{"pages", "  b", Input{ScrollPages: 1}},
		{"page keys", "\x1b[6~\x1b[6~\x1b[5~", Input{ScrollPages: 1}},
		{"home", "\x1b[H", Input{Top: true}},
		{"end", "\x1b[4~", Input{Bottom: true}},
		{"vim jumps", "gG", Input{Top: true, Bottom: true}},
		{"help", "?", Input{Help: true}},
		{"alt key ignored", "\x1bx", Input{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rest := Decode([]byte(tt.in))
			assert.Equal(t, tt.want, got)
			assert.Empty(t, rest)
		})
	}
}

func TestDecodeMouse(t *testing.T) {
	got, rest := Decode([]byte("\x1b[<35;10;5M\x1b[<35;12;7M"))
	require.Empty(t, rest)
	assert.True(t, got.PointerMoved)
	assert.Equal(t, 12, got.PointerCol)
	assert.Equal(t, 7, got.PointerRow)

	got, _ = Decode([]byte("\x1b[<65;1;1M\x1b[<65;1;1M\x1b[<64;1;1M"))
	assert.Equal(t, WheelLines, got.ScrollLines)
	assert.False(t, got.PointerMoved)

	got, _ = Decode([]byte("\x1b[<0;3;4m"))
	assert.True(t, got.PointerMoved, "button release still reports position")

	got, _ = Decode([]byte("\x1b[<bad;1;1M"))
	assert.False(t, got.PointerMoved)
}

func TestDecodeKeepsIncompleteSequence(t *testing.T) {
	got, rest := Decode([]byte("j\x1b[<35;10"))
	assert.Equal(t, 1, got.ScrollLines)
	assert.Equal(t, []byte("\x1b[<35;10"), rest)

	got, rest = Decode(append(rest, []byte(";5M")...))
	assert.Empty(t, rest)
	assert.Equal(t, 10, got.PointerCol)
	assert.Equal(t, 5, got.PointerRow)
}

func TestReadInputFromStream(t *testing.T) {
	s := StartStream(bufio.NewReader(strings.NewReader("jj")))

	var total Input
	require.Eventually(t, func() bool {
		in := ReadInput(s)
		total.ScrollLines += in.ScrollLines
		total.Quit = total.Quit || in.Quit
		return s.Closed()
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, 2, total.ScrollLines)
	assert.True(t, total.Quit, "EOF ends the session")
}

func TestReadInputKeepsSplitMouseReport(t *testing.T) {
	s := &Stream{ch: make(chan byte, 64)}
	send := func(data string) {
		for i := 0; i < len(data); i++ {
			s.ch <- data[i]
		}
	}

	send("\x1b[<35;10")
	in := ReadInput(s)
	assert.False(t, in.PointerMoved)

	// The tail arrives a few frames later.
	for i := 0; i < 3; i++ {
		in = ReadInput(s)
		assert.False(t, in.Active())
	}

	send(";5M")
	in = ReadInput(s)
	assert.True(t, in.PointerMoved)
	assert.Equal(t, 10, in.PointerCol)
	assert.Equal(t, 5, in.PointerRow)
	assert.Zero(t, in.ScrollLines)
	assert.Empty(t, s.pending)
}

func TestReadInputDropsLoneEscape(t *testing.T) {
	s := &Stream{ch: make(chan byte, 64)}

	s.ch <- '\x1b'
	ReadInput(s)
	assert.Equal(t, []byte("\x1b"), s.pending)

	ReadInput(s)
	assert.Empty(t, s.pending)

	s.ch <- '['
	s.ch <- 'B'
	in := ReadInput(s)
	assert.Zero(t, in.ScrollLines, "stale Escape must not turn later keys into a sequence")
}

func TestReadInputDropsAbandonedSequence(t *testing.T) {
	s := &Stream{ch: make(chan byte, 64)}
	for _, b := range []byte("\x1b[<35;1") {
		s.ch <- b
	}
	ReadInput(s)

	for i := 0; i < maxPendingFrames; i++ {
		ReadInput(s)
	}
	assert.Empty(t, s.pending)
}
