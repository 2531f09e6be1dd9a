// Package physics provides the perspective projection and screen-space bounds math
// used by the field.
package physics

import "math"

// Perspective projects scene points onto a screen whose center is the vanishing point.
// A point at depth z is scaled by MaxDepth / (MaxDepth - z).
type Perspective struct {
	MaxDepth float64 // Depth at which the scale diverges
	Width    float64 // Screen width
	Height   float64 // Screen height
}

// Scale returns the perspective scale for depth z. ok is false when the scale is
// not finite and positive (z at or beyond MaxDepth).
func (p Perspective) Scale(z float64) (scale float64, ok bool) {
	d := p.MaxDepth - z
	if d <= 0 || math.IsNaN(d) {
		return 0, false
	}
	scale = p.MaxDepth / d
	if math.IsInf(scale, 0) || math.IsNaN(scale) {
		return 0, false
	}
	return scale, true
}

// Project maps the scene point (x, y, z) to screen coordinates.
func (p Perspective) Project(x, y, z float64) (sx, sy, scale float64, ok bool) {
	scale, ok = p.Scale(z)
	if !ok {
		return 0, 0, 0, false
	}
	sx = x*scale + p.Width/2
	sy = y*scale + p.Height/2
	if math.IsNaN(sx) || math.IsNaN(sy) || math.IsInf(sx, 0) || math.IsInf(sy, 0) {
		return 0, 0, 0, false
	}
	return sx, sy, scale, true
}

// Parallax returns the screen offset for a pointer at (px, py): the pointer's
// displacement from the screen center times factor and scale, so nearer points
// (larger scale) shift more.
func (p Perspective) Parallax(px, py, factor, scale float64) (dx, dy float64) {
	dx = (px - p.Width/2) * factor * scale
	dy = (py - p.Height/2) * factor * scale
	return dx, dy
}

// InBounds reports whether (x, y) lies on the screen extended by margin on every side.
func (p Perspective) InBounds(x, y, margin float64) bool {
	return x >= -margin && x <= p.Width+margin && y >= -margin && y <= p.Height+margin
}

// Rotate rotates the offset (dx, dy) by angle radians.
func Rotate(dx, dy, angle float64) (float64, float64) {
	sin, cos := math.Sincos(angle)
	return dx*cos - dy*sin, dx*sin + dy*cos
}
