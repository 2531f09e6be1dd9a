// Package draw provides the drawing surfaces the field renders into: a terminal
// canvas built from half-block characters and an in-memory raster image.
package draw

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Paint is a color with an opacity used for alpha compositing.
type Paint struct {
	Color colorful.Color
	Alpha float64 // 0 = transparent, 1 = opaque
}

// HSLA builds a paint from hue (degrees), saturation and lightness (0..1) and alpha.
func HSLA(h, s, l, a float64) Paint {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return Paint{Color: colorful.Hsl(h, s, l), Alpha: clamp01(a)}
}

// RGBA builds a paint from 8-bit channels and alpha.
func RGBA(r, g, b uint8, a float64) Paint {
	return Paint{
		Color: colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255},
		Alpha: clamp01(a),
	}
}

// Visible reports whether painting with p changes anything.
func (p Paint) Visible() bool {
	return p.Alpha > 0
}

// Surface is a 2D drawing target in logical pixel coordinates.
// Drawing outside the surface is clipped. Drawing on a zero-area surface is a no-op.
type Surface interface {
	// Size returns the logical width and height of the surface.
	Size() (width, height float64)
	// Fade blends the whole surface toward c by alpha (motion-blur style partial clear).
	Fade(c colorful.Color, alpha float64)
	// FillRect blends an axis-aligned rectangle. At least one pixel is touched
	// when the rectangle lies on the surface.
	FillRect(x, y, w, h float64, p Paint)
	// FillPolygon blends the interior of a polygon.
	FillPolygon(points []Point, p Paint)
	// StrokePolygon blends the outline of a closed polygon.
	StrokePolygon(points []Point, p Paint)
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
