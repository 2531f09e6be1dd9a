package draw

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var white = RGBA(255, 255, 255, 1)

func TestCanvasSizeFollowsCells(t *testing.T) {
	c := NewCanvas(80, 24, 8, 16)

	w, h := c.Size()
	assert.Equal(t, 640.0, w)
	assert.Equal(t, 384.0, h)

	c.Resize(100, 30)
	w, h = c.Size()
	assert.Equal(t, 800.0, w)
	assert.Equal(t, 480.0, h)
}

func TestCanvasRenderOnlyChangedCells(t *testing.T) {
	c := NewCanvas(10, 5, 8, 16)
	var buf bytes.Buffer

	require.NoError(t, c.Render(&buf))
	assert.Empty(t, buf.String(), "a blank canvas matches a cleared terminal")

	// Top sub-pixel of cell (col 2, row 1).
	c.FillRect(8, 0, 8, 8, white)
	require.NoError(t, c.Render(&buf))
	out := buf.String()
	assert.Contains(t, out, "\033[1;2H")
	assert.Contains(t, out, "38;2;255;255;255")
	assert.Contains(t, out, string(BlockUpperHalf))

	buf.Reset()
	require.NoError(t, c.Render(&buf))
	assert.Empty(t, buf.String(), "unchanged frame writes nothing")

	c.ForceRedraw()
	require.NoError(t, c.Render(&buf))
	assert.Equal(t, 10*5, strings.Count(buf.String(), "H\033[0"))
}

func TestCanvasBottomHalfAndBothHalves(t *testing.T) {
	c := NewCanvas(2, 1, 8, 16)
	var buf bytes.Buffer

	c.FillRect(0, 8, 8, 8, white)  // bottom half of cell 1
	c.FillRect(8, 0, 8, 16, white) // both halves of cell 2
	require.NoError(t, c.Render(&buf))

	out := buf.String()
	assert.Contains(t, out, "\033[1;1H\033[0;38;2;255;255;255m"+string(BlockLowerHalf))
	assert.Contains(t, out, "\033[1;2H\033[0;38;2;255;255;255;48;2;255;255;255m"+string(BlockUpperHalf))
}

func TestCanvasFadeReturnsToBlank(t *testing.T) {
	c := NewCanvas(4, 2, 8, 16)
	var buf bytes.Buffer

	c.FillRect(0, 0, 32, 32, white)
	require.NoError(t, c.Render(&buf))
	require.NotEmpty(t, buf.String())

	for i := 0; i < 100; i++ {
		c.Fade(c.Background(), 0.15)
	}
	buf.Reset()
	require.NoError(t, c.Render(&buf))
	assert.Equal(t, 8, strings.Count(buf.String(), "m "), "every faded cell is cleared")
}

func TestCanvasInvalidateRepaints(t *testing.T) {
	c := NewCanvas(10, 2, 8, 16)
	var buf bytes.Buffer
	require.NoError(t, c.Render(&buf))

	c.Invalidate(3, 2, 4)
	require.NoError(t, c.Render(&buf))
	assert.Equal(t, 4, strings.Count(buf.String(), "H\033[0m "))
	assert.Contains(t, buf.String(), "\033[2;3H")
}

func TestCanvasOffsetAppliesToOutput(t *testing.T) {
	c := NewCanvas(4, 2, 8, 16)
	c.SetOffset(5, 3)
	var buf bytes.Buffer

	c.FillRect(0, 0, 1, 1, white)
	require.NoError(t, c.Render(&buf))
	assert.Contains(t, buf.String(), "\033[4;6H")

	x, y := c.TerminalToLogical(6, 4)
	assert.Equal(t, 4.0, x)
	assert.Equal(t, 8.0, y)
}

func TestCanvasClipsHugePolygons(t *testing.T) {
	c := NewCanvas(10, 5, 8, 16)
	huge := []Point{{-1e7, -1e7}, {1e7, -1e7}, {1e7, 1e7}, {-1e7, 1e7}}

	c.FillPolygon(huge, white)
	c.StrokePolygon(huge, white)

	var buf bytes.Buffer
	require.NoError(t, c.Render(&buf))
	assert.Equal(t, 50, strings.Count(buf.String(), string(BlockUpperHalf)))
}

func TestCanvasZeroAreaIsNoop(t *testing.T) {
	c := NewCanvas(0, 0, 8, 16)
	c.FillRect(0, 0, 10, 10, white)
	c.FillPolygon([]Point{{0, 0}, {5, 0}, {0, 5}}, white)
	c.Fade(c.Background(), 0.5)

	var buf bytes.Buffer
	require.NoError(t, c.Render(&buf))
	assert.Empty(t, buf.String())
}

func TestRenderBorder(t *testing.T) {
	c := NewCanvas(3, 2, 8, 16)
	var buf bytes.Buffer

	require.NoError(t, c.RenderBorder(&buf))
	assert.Empty(t, buf.String(), "no border without offset")

	c.SetOffset(1, 1)
	require.NoError(t, c.RenderBorder(&buf))
	out := buf.String()
	assert.Contains(t, out, "┌───┐")
	assert.Contains(t, out, "└───┘")
	assert.Equal(t, 4, strings.Count(out, "│"))
}
