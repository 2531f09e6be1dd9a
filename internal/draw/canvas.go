package draw

import (
	"io"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Canvas is a colored drawing buffer with 2x vertical resolution using half-block characters.
// Logical coordinates are pixels of a virtual screen where every terminal cell
// measures cellWidth x cellHeight logical pixels; each cell holds two square sub-pixels.
type Canvas struct {
	plotter

	termWidth  int // Actual terminal columns
	termHeight int // Actual terminal rows

	cellWidth  float64 // Logical pixels per terminal column
	cellHeight float64 // Logical pixels per terminal row

	background colorful.Color
	blankLimit float64 // Pixels closer than this to background render as empty

	// Offset for centering the render area when the terminal is larger than max resolution.
	// These are 0-based terminal offsets (columns/rows to skip).
	offsetCol int
	offsetRow int

	prev   []cell // What the terminal currently shows, for diff rendering
	redraw bool   // Repaint every cell on the next Render
	numBuf [20]byte

	renderBuf strings.Builder // Buffer for batching render output
}

// cell is the quantized content of one terminal cell.
type cell struct {
	top, bottom           [3]uint8
	topBlank, bottomBlank bool
	stale                 bool // Overwritten outside the canvas (e.g. overlay text)
}

var blankCell = cell{topBlank: true, bottomBlank: true}

// DefaultBackground is the near-black backdrop the field fades toward.
var DefaultBackground = colorful.Color{R: 1.0 / 255, G: 4.0 / 255, B: 9.0 / 255}

// NewCanvas creates a canvas for the given terminal dimensions where every cell
// spans cellWidth x cellHeight logical pixels.
func NewCanvas(termWidth, termHeight int, cellWidth, cellHeight float64) *Canvas {
	if cellWidth <= 0 {
		cellWidth = 1
	}
	if cellHeight <= 0 {
		cellHeight = 2
	}
	c := &Canvas{
		cellWidth:  cellWidth,
		cellHeight: cellHeight,
		background: DefaultBackground,
		blankLimit: 0.04,
	}
	c.plotter.scaleX = 1 / cellWidth
	c.plotter.scaleY = 2 / cellHeight
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions, keeping the cell size.
// Pixel content is kept when the size is unchanged.
func (c *Canvas) Resize(termWidth, termHeight int) {
	if termWidth < 0 {
		termWidth = 0
	}
	if termHeight < 0 {
		termHeight = 0
	}
	if termWidth == c.termWidth && termHeight == c.termHeight && c.prev != nil {
		return
	}
	c.termWidth = termWidth
	c.termHeight = termHeight
	c.plotter.resize(termWidth, termHeight*2, c.background)
	c.prev = make([]cell, termWidth*termHeight)
	for i := range c.prev {
		c.prev[i] = blankCell
	}
}

// SetBackground changes the backdrop color used for clearing and blank detection.
func (c *Canvas) SetBackground(bg colorful.Color) {
	c.background = bg
}

// Background returns the backdrop color.
func (c *Canvas) Background() colorful.Color {
	return c.background
}

// SetOffset sets the column and row offset for centering the canvas.
// Offsets are 0-based terminal positions: the canvas starts at (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// Clear resets all pixels to the background.
func (c *Canvas) Clear() {
	c.fill(c.background)
}

// ForceRedraw makes the next Render repaint every cell, e.g. after the terminal was cleared.
func (c *Canvas) ForceRedraw() {
	c.redraw = true
}

// Invalidate marks width cells starting at the 1-based canvas position (col, row)
// as overwritten, so the next Render repaints them.
func (c *Canvas) Invalidate(col, row, width int) {
	row--
	if row < 0 || row >= c.termHeight {
		return
	}
	start := max(col-1, 0)
	end := min(col-1+width, c.termWidth)
	for i := start; i < end; i++ {
		c.prev[row*c.termWidth+i].stale = true
	}
}

// Size returns the logical surface size (implements Surface).
func (c *Canvas) Size() (float64, float64) {
	return float64(c.termWidth) * c.cellWidth, float64(c.termHeight) * c.cellHeight
}

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
// 1500 bytes matches typical MTU size for smooth SSH/network transmission.
const maxChunkSize = 1400

// Render outputs the cells that changed since the previous Render using
// half-block characters with 24-bit colors.
func (c *Canvas) Render(w io.Writer) error {
	c.renderBuf.Reset()

	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.width
		bottomOffset := topOffset + c.width

		for col := 0; col < c.termWidth; col++ {
			cur := c.quantize(c.pix[topOffset+col], c.pix[bottomOffset+col])
			idx := row*c.termWidth + col
			if !c.redraw && c.prev[idx] == cur {
				continue
			}
			c.prev[idx] = cur
			c.writeCell(row, col, cur)
		}
	}
	c.redraw = false

	if c.renderBuf.Len() == 0 {
		return nil
	}
	c.renderBuf.WriteString("\033[0m")

	// Write output in chunks for optimal network flow
	data := c.renderBuf.String()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		if _, err := io.WriteString(w, chunk); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return nil
}

func (c *Canvas) quantize(top, bottom colorful.Color) cell {
	var out cell
	out.topBlank = top.DistanceRgb(c.background) < c.blankLimit
	out.bottomBlank = bottom.DistanceRgb(c.background) < c.blankLimit
	if !out.topBlank {
		out.top[0], out.top[1], out.top[2] = top.Clamped().RGB255()
	}
	if !out.bottomBlank {
		out.bottom[0], out.bottom[1], out.bottom[2] = bottom.Clamped().RGB255()
	}
	return out
}

func (c *Canvas) writeCell(row, col int, cl cell) {
	b := &c.renderBuf
	b.WriteString("\033[")
	b.Write(strconv.AppendInt(c.numBuf[:0], int64(row+1+c.offsetRow), 10))
	b.WriteByte(';')
	b.Write(strconv.AppendInt(c.numBuf[:0], int64(col+1+c.offsetCol), 10))
	b.WriteString("H\033[0")

	switch {
	case cl.topBlank && cl.bottomBlank:
		b.WriteString("m ")
	case cl.bottomBlank:
		c.writeColor(38, cl.top)
		b.WriteString("m")
		b.WriteRune(BlockUpperHalf)
	case cl.topBlank:
		c.writeColor(38, cl.bottom)
		b.WriteString("m")
		b.WriteRune(BlockLowerHalf)
	default:
		c.writeColor(38, cl.top)
		c.writeColor(48, cl.bottom)
		b.WriteString("m")
		b.WriteRune(BlockUpperHalf)
	}
}

// writeColor appends ";38;2;r;g;b" (foreground) or ";48;2;r;g;b" (background).
func (c *Canvas) writeColor(layer int, rgb [3]uint8) {
	b := &c.renderBuf
	b.WriteByte(';')
	b.Write(strconv.AppendInt(c.numBuf[:0], int64(layer), 10))
	b.WriteString(";2")
	for _, v := range rgb {
		b.WriteByte(';')
		b.Write(strconv.AppendInt(c.numBuf[:0], int64(v), 10))
	}
}

// RenderBorder draws a box border around the canvas area when the terminal
// exceeds the max render resolution on either axis.
// Draws horizontal borders when there is vertical offset, vertical borders
// when there is horizontal offset, and corners when both are present.
func (c *Canvas) RenderBorder(w io.Writer) error {
	hasH := c.offsetCol >= 1 // Room for left/right vertical bars
	hasV := c.offsetRow >= 1 // Room for top/bottom horizontal bars
	if !hasH && !hasV {
		return nil
	}

	// Border positions (1-based terminal coordinates)
	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1

	cw := NewChunkWriter(w, 0, 0)
	line := strings.Repeat("─", c.termWidth)

	if hasV {
		if hasH {
			cw.WriteAt(left, top, "┌"+line+"┐")
			cw.WriteAt(left, bottom, "└"+line+"┘")
		} else {
			cw.WriteAt(c.offsetCol+1, top, line)
			cw.WriteAt(c.offsetCol+1, bottom, line)
		}
	}

	if hasH {
		startRow := top + 1
		endRow := bottom
		if !hasV {
			// No horizontal borders, side bars span full canvas height
			startRow = c.offsetRow + 1
			endRow = c.offsetRow + c.termHeight + 1
		}
		for row := startRow; row < endRow; row++ {
			cw.WriteAt(left, row, "│")
			cw.WriteAt(right, row, "│")
		}
	}

	return cw.Flush()
}

// TerminalWidth returns the actual terminal column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the actual terminal row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// CellSize returns the logical size of one terminal cell.
func (c *Canvas) CellSize() (width, height float64) {
	return c.cellWidth, c.cellHeight
}

// LogicalToTerminal converts logical coordinates to 1-based terminal position (col, row)
// relative to the canvas area.
// This is useful for placing text overlays at positions matching canvas-drawn objects.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	return int(x/c.cellWidth) + 1, int(y/c.cellHeight) + 1
}

// TerminalToLogical converts a 1-based absolute terminal position (e.g. from a mouse
// report) to the logical coordinates of the cell center, removing the centering offset.
func (c *Canvas) TerminalToLogical(col, row int) (x, y float64) {
	x = (float64(col-1-c.offsetCol) + 0.5) * c.cellWidth
	y = (float64(row-1-c.offsetRow) + 0.5) * c.cellHeight
	return x, y
}

// Ensure Canvas satisfies Surface.
var _ Surface = (*Canvas)(nil)
