// Package page models the scrollable document the field sits behind: a content
// height, a viewport height and a scroll offset. Its normalized progress drives
// the field speed, and the hero section fades out as the viewer scrolls.
package page

import "math"

// Page is a vertically scrollable document.
type Page struct {
	ContentHeight  float64 // Total document height
	ViewportHeight float64 // Visible height
	ScrollY        float64 // Offset of the viewport top from the document top
	HeroHeight     float64 // Height of the hero section at the top of the document
}

// New creates a page scrolled to the top.
func New(contentHeight, viewportHeight, heroHeight float64) *Page {
	p := &Page{
		ContentHeight:  contentHeight,
		ViewportHeight: viewportHeight,
		HeroHeight:     heroHeight,
	}
	p.clamp()
	return p
}

// Max returns the largest valid scroll offset.
func (p *Page) Max() float64 {
	return math.Max(0, p.ContentHeight-p.ViewportHeight)
}

// Degenerate reports whether the document fits the viewport, leaving nothing to scroll.
func (p *Page) Degenerate() bool {
	return !(p.ContentHeight-p.ViewportHeight > 0)
}

// Progress returns ScrollY / (ContentHeight - ViewportHeight) clamped to [0, 1].
// A page with nothing to scroll reports 0.
func (p *Page) Progress() float64 {
	if p.Degenerate() {
		return 0
	}
	return math.Min(1, math.Max(0, p.ScrollY/p.Max()))
}

// ScrollBy moves the viewport by delta, staying inside the document.
func (p *Page) ScrollBy(delta float64) {
	p.ScrollY += delta
	p.clamp()
}

// ScrollTo moves the viewport to y, staying inside the document.
func (p *Page) ScrollTo(y float64) {
	p.ScrollY = y
	p.clamp()
}

// Top scrolls to the start of the document.
func (p *Page) Top() {
	p.ScrollY = 0
}

// Bottom scrolls to the end of the document.
func (p *Page) Bottom() {
	p.ScrollY = p.Max()
}

// SetViewport changes the visible height, keeping the offset valid.
func (p *Page) SetViewport(height float64) {
	p.ViewportHeight = height
	p.clamp()
}

// HeroFade returns the hero section opacity and scale for the current offset:
// opacity falls linearly to 0 over the hero height, scale shrinks to at most 0.8.
func (p *Page) HeroFade() (opacity, scale float64) {
	if p.HeroHeight <= 0 {
		return 0, 0.8
	}
	ratio := p.ScrollY / p.HeroHeight
	opacity = math.Max(0, 1-ratio)
	scale = math.Max(0.8, 1-ratio*0.2)
	return opacity, scale
}

func (p *Page) clamp() {
	if math.IsNaN(p.ScrollY) || p.ScrollY < 0 {
		p.ScrollY = 0
	}
	if p.ScrollY > p.Max() {
		p.ScrollY = p.Max()
	}
}
