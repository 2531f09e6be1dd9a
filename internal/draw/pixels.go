package draw

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// plotter composites paints into a flat pixel buffer, mapping logical
// coordinates to pixels with a fixed scale. Canvas and Raster both build on it.
type plotter struct {
	width  int              // Pixel columns
	height int              // Pixel rows
	pix    []colorful.Color // Flat slice: [y * width + x]

	scaleX float64 // Pixels per logical unit (horizontal)
	scaleY float64 // Pixels per logical unit (vertical)

	// Reusable buffers to reduce allocations
	scaledBuf       []Point
	intersectionBuf []float64
}

// resize reallocates the buffer when the pixel size changes, filling it with bg.
func (p *plotter) resize(width, height int, bg colorful.Color) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if width == p.width && height == p.height && p.pix != nil {
		return
	}
	p.width = width
	p.height = height
	p.pix = make([]colorful.Color, width*height)
	p.fill(bg)
}

func (p *plotter) empty() bool {
	return p.width == 0 || p.height == 0
}

func (p *plotter) fill(c colorful.Color) {
	for i := range p.pix {
		p.pix[i] = c
	}
}

// blend composites paint onto a single pixel (pixel coordinates).
func (p *plotter) blend(x, y int, paint Paint) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	i := y*p.width + x
	if paint.Alpha >= 1 {
		p.pix[i] = paint.Color
		return
	}
	p.pix[i] = p.pix[i].BlendRgb(paint.Color, paint.Alpha)
}

// Fade blends every pixel toward c.
func (p *plotter) Fade(c colorful.Color, alpha float64) {
	alpha = clamp01(alpha)
	if alpha == 0 {
		return
	}
	for i := range p.pix {
		p.pix[i] = p.pix[i].BlendRgb(c, alpha)
	}
}

// FillRect blends a logical rectangle; it always covers at least one pixel.
func (p *plotter) FillRect(x, y, w, h float64, paint Paint) {
	if p.empty() || !paint.Visible() || !finite(x) || !finite(y) || !finite(w) || !finite(h) {
		return
	}
	x0 := int(math.Floor(x * p.scaleX))
	y0 := int(math.Floor(y * p.scaleY))
	x1 := int(math.Ceil((x+w)*p.scaleX)) - 1
	y1 := int(math.Ceil((y+h)*p.scaleY)) - 1
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	x0, x1 = max(x0, 0), min(x1, p.width-1)
	y0, y1 = max(y0, 0), min(y1, p.height-1)
	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			p.blend(px, py, paint)
		}
	}
}

// FillPolygon blends the interior of a logical polygon.
func (p *plotter) FillPolygon(points []Point, paint Paint) {
	if p.empty() || !paint.Visible() || len(points) < 3 {
		return
	}
	scaled := p.scale(points)
	p.intersectionBuf = scanPolygon(scaled, p.width, p.height, p.intersectionBuf, func(x, y int) {
		p.blend(x, y, paint)
	})
}

// StrokePolygon blends the closed outline of a logical polygon.
func (p *plotter) StrokePolygon(points []Point, paint Paint) {
	if p.empty() || !paint.Visible() || len(points) < 2 {
		return
	}
	scaled := p.scale(points)
	n := len(scaled)
	for i := 0; i < n; i++ {
		p.line(scaled[i], scaled[(i+1)%n], paint)
	}
}

// line draws a pixel-space segment clipped to the buffer.
func (p *plotter) line(p1, p2 Point, paint Paint) {
	a, b, ok := clipLine(p1, p2, float64(p.width-1), float64(p.height-1))
	if !ok {
		return
	}
	bresenham(
		int(math.Round(a.X)), int(math.Round(a.Y)),
		int(math.Round(b.X)), int(math.Round(b.Y)),
		func(x, y int) { p.blend(x, y, paint) },
	)
}

// scale converts logical points to pixel space using the reusable buffer.
func (p *plotter) scale(points []Point) []Point {
	if cap(p.scaledBuf) < len(points) {
		p.scaledBuf = make([]Point, len(points))
	}
	scaled := p.scaledBuf[:len(points)]
	for i, pt := range points {
		scaled[i] = Point{X: pt.X * p.scaleX, Y: pt.Y * p.scaleY}
	}
	return scaled
}

// at returns the pixel color at pixel coordinates.
func (p *plotter) at(x, y int) colorful.Color {
	return p.pix[y*p.width+x]
}
