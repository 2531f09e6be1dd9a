package draw

import (
	"math"
	"sort"
)

// bresenham visits every pixel of the line from (x1,y1) to (x2,y2).
func bresenham(x1, y1, x2, y2 int, plot func(x, y int)) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		plot(x1, y1)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// scanPolygon fills a polygon given in pixel space using a scanline algorithm.
// Pixels are clipped to [0, maxX) x [0, maxY). The intersection buffer is reused and returned
// so callers can keep it between frames.
func scanPolygon(points []Point, maxX, maxY int, intersections []float64, plot func(x, y int)) []float64 {
	if len(points) < 3 || maxX <= 0 || maxY <= 0 {
		return intersections
	}
	for _, p := range points {
		if !finite(p.X) || !finite(p.Y) {
			return intersections
		}
	}

	// Find bounding box
	minY, maxPY := points[0].Y, points[0].Y
	for _, p := range points {
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxPY {
			maxPY = p.Y
		}
	}

	yStart := int(math.Floor(minY))
	yEnd := int(math.Ceil(maxPY))
	if yStart < 0 {
		yStart = 0
	}
	if yEnd >= maxY {
		yEnd = maxY - 1
	}

	n := len(points)
	for y := yStart; y <= yEnd; y++ {
		scanY := float64(y) + 0.5 // Sample at pixel center

		intersections = intersections[:0]
		for i := 0; i < n; i++ {
			p1 := points[i]
			p2 := points[(i+1)%n]

			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				intersections = append(intersections, p1.X+t*(p2.X-p1.X))
			}
		}

		sort.Float64s(intersections)

		for i := 0; i+1 < len(intersections); i += 2 {
			xStart := int(math.Max(math.Ceil(intersections[i]), 0))
			xEnd := int(math.Min(math.Floor(intersections[i+1]), float64(maxX-1)))
			for x := xStart; x <= xEnd; x++ {
				plot(x, y)
			}
		}
	}
	return intersections
}

// clipLine clips the segment p1-p2 to the rectangle [0,w] x [0,h] (Liang-Barsky).
// ok is false when nothing of the segment is inside.
func clipLine(p1, p2 Point, w, h float64) (a, b Point, ok bool) {
	if !finite(p1.X) || !finite(p1.Y) || !finite(p2.X) || !finite(p2.Y) {
		return a, b, false
	}
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	t0, t1 := 0.0, 1.0

	edges := [4][2]float64{
		{-dx, p1.X},
		{dx, w - p1.X},
		{-dy, p1.Y},
		{dy, h - p1.Y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return a, b, false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return a, b, false
			}
			if r < t1 {
				t1 = r
			}
		}
	}
	a = Point{X: p1.X + t0*dx, Y: p1.Y + t0*dy}
	b = Point{X: p1.X + t1*dx, Y: p1.Y + t1*dy}
	return a, b, true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
