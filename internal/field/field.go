// Package field simulates the asteroid field: a fixed pool of bodies flying toward
// the viewer, projected with perspective, trailing fading streaks, shifted by
// pointer parallax and sped up or slowed down by the page scroll position.
//
// The field never schedules itself. A host calls Step once per frame and feeds
// the input ports (SetViewport, SetPointer, SetScrollProgress) between frames.
package field

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/tomz197/asteroidfield/internal/draw"
	"github.com/tomz197/asteroidfield/internal/physics"
)

// Field owns the body pool and the state the input ports write.
type Field struct {
	params Params

	rng    *rand.Rand // Body creation and respawn
	jitter *rand.Rand // Per-frame vertex jitter; never touches simulation state

	bodies []*Body

	pointer draw.Point
	speed   float64 // Speed multiplier derived from scroll progress
	width   float64 // Viewport size
	height  float64
	frame   uint64

	background colorful.Color
	trailColor colorful.Color

	// Reusable buffers to avoid per-frame allocations
	vertices []draw.Point
	halo     []draw.Point
}

// New creates a field of p.Population bodies for a viewport of width x height.
// The seed makes body creation, respawns and vertex jitter reproducible.
func New(p Params, seed int64, width, height float64) (*Field, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	f := &Field{
		params:     p,
		rng:        rand.New(rand.NewSource(seed)),
		jitter:     rand.New(rand.NewSource(seed ^ 0x5f3759df)),
		bodies:     make([]*Body, p.Population),
		speed:      p.ScrollSpeedMax,
		background: draw.DefaultBackground,
		trailColor: colorful.Color{R: 88.0 / 255, G: 166.0 / 255, B: 1},
		vertices:   make([]draw.Point, p.VertexCount),
		halo:       make([]draw.Point, p.VertexCount),
	}
	f.SetViewport(width, height)

	for i := range f.bodies {
		f.bodies[i] = newBody(p, f.rng)
	}
	return f, nil
}

// Params returns the parameters the field was created with.
func (f *Field) Params() Params {
	return f.params
}

// Len returns the number of bodies; it always equals Params().Population.
func (f *Field) Len() int {
	return len(f.bodies)
}

// Frame returns the number of frames stepped so far.
func (f *Field) Frame() uint64 {
	return f.frame
}

// Bodies returns a deep copy of the pool in its current draw order.
func (f *Field) Bodies() []Body {
	out := make([]Body, len(f.bodies))
	for i, b := range f.bodies {
		out[i] = b.clone()
	}
	return out
}

// SetViewport updates the surface dimensions. Body state is not touched.
func (f *Field) SetViewport(width, height float64) {
	if width < 0 || math.IsNaN(width) {
		width = 0
	}
	if height < 0 || math.IsNaN(height) {
		height = 0
	}
	f.width = width
	f.height = height
}

// Viewport returns the current surface dimensions.
func (f *Field) Viewport() (width, height float64) {
	return f.width, f.height
}

// SetPointer stores the latest pointer position in viewport coordinates.
func (f *Field) SetPointer(x, y float64) {
	f.pointer = draw.Point{X: x, Y: y}
}

// Pointer returns the last stored pointer position.
func (f *Field) Pointer() draw.Point {
	return f.pointer
}

// SetScrollProgress sets the speed multiplier from the normalized scroll position.
// Progress is clamped to [0, 1]; NaN counts as the top of the page.
func (f *Field) SetScrollProgress(progress float64) {
	f.speed = f.SpeedFor(progress)
}

// SpeedFor returns the speed multiplier for a scroll progress, clamped as in SetScrollProgress.
func (f *Field) SpeedFor(progress float64) float64 {
	switch {
	case math.IsNaN(progress) || progress < 0:
		progress = 0
	case progress > 1:
		progress = 1
	}
	return f.params.ScrollSpeedMax - progress*f.params.ScrollSpeedDrop
}

// SpeedMultiplier returns the current global speed multiplier.
func (f *Field) SpeedMultiplier() float64 {
	return f.speed
}

// Update advances every body by one frame without drawing.
func (f *Field) Update() {
	for _, b := range f.bodies {
		f.updateBody(b)
	}
	f.frame++
}

// Step runs one full frame: fade the surface, sort bodies farthest first, then
// update and draw each body. With a nil or zero-area surface the simulation
// still advances and drawing is skipped.
func (f *Field) Step(s draw.Surface) {
	canDraw := f.canDraw(s)
	if canDraw {
		s.Fade(f.background, f.params.FadeAlpha)
	}

	f.sortByDepth()

	for _, b := range f.bodies {
		f.updateBody(b)
		if canDraw {
			f.drawBody(s, b)
		}
	}
	f.frame++
}

// Project maps a scene point to the screen. ok is false when the point has no
// finite projection or lies beyond the cull margin.
func (f *Field) Project(x, y, depth float64) (sx, sy, scale float64, ok bool) {
	persp := f.perspective()
	sx, sy, scale, ok = persp.Project(x, y, depth)
	if !ok || !persp.InBounds(sx, sy, f.params.CullMargin) {
		return 0, 0, 0, false
	}
	return sx, sy, scale, true
}

// String summarizes the field state for logs.
func (f *Field) String() string {
	return fmt.Sprintf("field{bodies=%d frame=%d speed=%.2f viewport=%.0fx%.0f}",
		len(f.bodies), f.frame, f.speed, f.width, f.height)
}

func (f *Field) updateBody(b *Body) {
	if b.advance(f.params, f.speed) {
		b.respawn(f.params, f.rng)
	}
}

// sortByDepth orders the pool farthest first so nearer bodies draw on top.
func (f *Field) sortByDepth() {
	sort.Slice(f.bodies, func(i, j int) bool {
		return f.bodies[i].Depth > f.bodies[j].Depth
	})
}

func (f *Field) canDraw(s draw.Surface) bool {
	if s == nil || f.width <= 0 || f.height <= 0 {
		return false
	}
	w, h := s.Size()
	return w > 0 && h > 0
}

func (f *Field) perspective() physics.Perspective {
	return physics.Perspective{MaxDepth: f.params.MaxDepth, Width: f.width, Height: f.height}
}
