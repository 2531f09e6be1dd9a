package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgress(t *testing.T) {
	tests := []struct {
		name    string
		content float64
		view    float64
		scroll  float64
		want    float64
	}{
		{"top", 2000, 1000, 0, 0},
		{"bottom", 2000, 1000, 1000, 1},
		{"middle", 2000, 1000, 250, 0.25},
		{"past the end is clamped", 2000, 1000, 5000, 1},
		{"nothing to scroll", 1000, 1000, 0, 0},
		{"content shorter than viewport", 500, 1000, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.content, tt.view, 0)
			p.ScrollTo(tt.scroll)
			assert.InDelta(t, tt.want, p.Progress(), 1e-9)
		})
	}
}

func TestDegenerate(t *testing.T) {
	assert.True(t, New(1000, 1000, 0).Degenerate())
	assert.False(t, New(1001, 1000, 0).Degenerate())
}

func TestScrollStaysInsideDocument(t *testing.T) {
	p := New(3000, 1000, 0)

	p.ScrollBy(-50)
	assert.Zero(t, p.ScrollY)

	p.ScrollBy(500)
	assert.Equal(t, 500.0, p.ScrollY)

	p.Bottom()
	assert.Equal(t, 2000.0, p.ScrollY)

	p.SetViewport(2500)
	assert.Equal(t, 500.0, p.ScrollY)

	p.Top()
	assert.Zero(t, p.ScrollY)
}

func TestHeroFade(t *testing.T) {
	p := New(5000, 1000, 400)

	opacity, scale := p.HeroFade()
	assert.Equal(t, 1.0, opacity)
	assert.Equal(t, 1.0, scale)

	p.ScrollTo(200)
	opacity, scale = p.HeroFade()
	assert.InDelta(t, 0.5, opacity, 1e-9)
	assert.InDelta(t, 0.9, scale, 1e-9)

	p.ScrollTo(2000)
	opacity, scale = p.HeroFade()
	assert.Zero(t, opacity)
	assert.Equal(t, 0.8, scale)
}
