package draw

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClipLine(t *testing.T) {
	tests := []struct {
		name   string
		p1, p2 Point
		ok     bool
		a, b   Point
	}{
		{"inside", Point{1, 1}, Point{5, 5}, true, Point{1, 1}, Point{5, 5}},
		{"crosses left edge", Point{-5, 2}, Point{5, 2}, true, Point{0, 2}, Point{5, 2}},
		{"fully outside", Point{-5, -5}, Point{-1, -1}, false, Point{}, Point{}},
		{"non-finite", Point{math.Inf(1), 0}, Point{1, 1}, false, Point{}, Point{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b, ok := clipLine(tt.p1, tt.p2, 10, 10)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.InDelta(t, tt.a.X, a.X, 1e-9)
				assert.InDelta(t, tt.a.Y, a.Y, 1e-9)
				assert.InDelta(t, tt.b.X, b.X, 1e-9)
				assert.InDelta(t, tt.b.Y, b.Y, 1e-9)
			}
		})
	}
}

func TestBresenhamEndpoints(t *testing.T) {
	var got [][2]int
	bresenham(0, 0, 3, 1, func(x, y int) { got = append(got, [2]int{x, y}) })

	assert.Equal(t, [2]int{0, 0}, got[0])
	assert.Equal(t, [2]int{3, 1}, got[len(got)-1])
	assert.Len(t, got, 4)
}

func TestScanPolygonSkipsNaN(t *testing.T) {
	count := 0
	scanPolygon([]Point{{0, 0}, {math.NaN(), 0}, {0, 5}}, 10, 10, nil, func(int, int) { count++ })
	assert.Zero(t, count)
}
