package render

import (
	"iter"

	"github.com/taigrr/tinyrender/pkg/math3d"
)

// Point is an integer pixel coordinate.
type Point = math3d.Vector2[int]

// Pt creates a Point.
func Pt(x, y int) Point {
	return math3d.Vec2(x, y)
}

// Line yields every pixel on the segment p0-p1 using Bresenham's
// algorithm. Pixels come out in order along the major axis, starting from
// whichever endpoint has the smaller major coordinate; each pixel is
// yielded exactly once and the count is max(|dx|, |dy|) + 1. Line(p0, p1)
// and Line(p1, p0) yield the same set.
func Line(p0, p1 Point) iter.Seq2[int, int] {
	return func(yield func(x, y int) bool) {
		x0, y0 := p0.X(), p0.Y()
		x1, y1 := p1.X(), p1.Y()

		// Work in transposed space when the line is steep so x is always
		// the major axis.
		steep := abs(x1-x0) < abs(y1-y0)
		if steep {
			x0, y0 = y0, x0
			x1, y1 = y1, x1
		}
		if x0 > x1 {
			x0, x1 = x1, x0
			y0, y1 = y1, y0
		}

		dx := x1 - x0
		dx2 := dx << 1
		slope := abs(y1-y0) << 1
		stepY := 1
		if y0 > y1 {
			stepY = -1
		}

		acc := 0
		y := y0
		for x := x0; x <= x1; x++ {
			var ok bool
			if steep {
				ok = yield(y, x)
			} else {
				ok = yield(x, y)
			}
			if !ok {
				return
			}

			acc += slope
			if acc > dx {
				y += stepY
				acc -= dx2
			}
		}
	}
}

// Bresenham calls plot for every pixel Line(p0, p1) yields.
func Bresenham(p0, p1 Point, plot func(x, y int)) {
	for x, y := range Line(p0, p1) {
		plot(x, y)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
