package field

import (
	"math"

	"github.com/tomz197/asteroidfield/internal/draw"
	"github.com/tomz197/asteroidfield/internal/physics"
)

// glowAlpha scales the halo opacity relative to the body opacity.
const glowAlpha = 0.25

// drawBody renders the trail and the body polygon. Jitter is drawn from the
// dedicated jitter source, so drawing never changes simulation state.
func (f *Field) drawBody(s draw.Surface, b *Body) {
	p := f.params
	persp := f.perspective()

	x, y, scale, ok := persp.Project(b.X, b.Y, b.Depth)
	if !ok || !persp.InBounds(x, y, p.CullMargin) {
		return
	}

	size := b.Size * scale
	offX, offY := persp.Parallax(f.pointer.X, f.pointer.Y, p.ParallaxFactor, scale)

	f.drawTrail(s, b, size, offX, offY)

	cx, cy := x+offX, y+offY
	opacity := math.Min(1, scale*p.OpacityPerScale)
	glow := f.speed / p.ScrollSpeedMax
	hue := 200 + b.Depth/20
	spread := p.GlowRadius * glow * 0.5

	n := len(f.vertices)
	for i := 0; i < n; i++ {
		angle := 2 * math.Pi * float64(i) / float64(n)
		radius := size * (p.MinJitter + f.jitter.Float64()*(p.MaxJitter-p.MinJitter))

		dx, dy := physics.Rotate(math.Cos(angle), math.Sin(angle), b.Rotation)
		f.vertices[i] = draw.Point{X: cx + dx*radius, Y: cy + dy*radius}
		f.halo[i] = draw.Point{X: cx + dx*(radius+spread), Y: cy + dy*(radius+spread)}
	}

	if spread > 0 {
		s.FillPolygon(f.halo, draw.HSLA(hue, 0.8, 0.7, opacity*glow*glowAlpha))
	}
	s.FillPolygon(f.vertices, draw.HSLA(hue, 0.7, 0.6, opacity*0.4))
	s.StrokePolygon(f.vertices, draw.HSLA(hue, 0.9, 0.8, opacity*0.8))
}

// drawTrail renders the trail oldest to newest as small squares of rising opacity.
func (f *Field) drawTrail(s draw.Surface, b *Body, size, offX, offY float64) {
	n := b.Trail.Len()
	if n == 0 {
		return
	}
	persp := f.perspective()
	side := size * 0.5

	for i := 0; i < n; i++ {
		t := b.Trail.At(i)
		tx, ty, _, ok := persp.Project(t.X, t.Y, t.Depth)
		if !ok {
			continue
		}
		opacity := float64(i) / float64(n) * f.params.TrailOpacity
		s.FillRect(tx+offX, ty+offY, side, side, draw.Paint{Color: f.trailColor, Alpha: opacity})
	}
}
