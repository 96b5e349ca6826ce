package geom

import "math"

// Point is a 2D point with float64 coordinates. Depending on context the
// coordinates are either unit-square normalized values or canvas pixels.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p minus q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Mul returns p scaled by s.
func (p Point) Mul(s float64) Point { return Point{p.X * s, p.Y * s} }

// Lerp linearly interpolates between p and q at parameter t.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

// Distance returns the euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Rect is an axis-aligned rectangle with Min at the top-left corner.
type Rect struct {
	Min, Max Point
}

// RectFromCorners builds a rectangle from two arbitrary corner points,
// normalizing so Min <= Max on both axes.
func RectFromCorners(p, q Point) Rect {
	return Rect{
		Min: Point{X: math.Min(p.X, q.X), Y: math.Min(p.Y, q.Y)},
		Max: Point{X: math.Max(p.X, q.X), Y: math.Max(p.Y, q.Y)},
	}
}

// Width returns the horizontal extent of r.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical extent of r.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Center returns the midpoint of r.
func (r Rect) Center() Point {
	return Point{(r.Min.X + r.Max.X) / 2, (r.Min.Y + r.Max.Y) / 2}
}

// Contains reports whether p lies inside r, borders included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Inset shrinks r by d on every side. Negative d grows the rectangle.
func (r Rect) Inset(d float64) Rect {
	return Rect{
		Min: Point{r.Min.X + d, r.Min.Y + d},
		Max: Point{r.Max.X - d, r.Max.Y - d},
	}
}

// SegmentDistance returns the distance from p to the segment a-b. A
// zero-length segment degenerates to point distance.
func SegmentDistance(p, a, b Point) float64 {
	ab := b.Sub(a)
	lenSq := ab.X*ab.X + ab.Y*ab.Y
	if lenSq == 0 {
		return p.Distance(a)
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p.Distance(a.Add(ab.Mul(t)))
}

// PolylineDistance returns the minimum distance from p to any consecutive
// segment of pts. It returns +Inf for fewer than one point and the point
// distance for a single point.
func PolylineDistance(p Point, pts []Point) float64 {
	switch len(pts) {
	case 0:
		return math.Inf(1)
	case 1:
		return p.Distance(pts[0])
	}
	min := math.Inf(1)
	for i := 1; i < len(pts); i++ {
		if d := SegmentDistance(p, pts[i-1], pts[i]); d < min {
			min = d
		}
	}
	return min
}

// AspectFit returns the largest rectangle with the given source aspect ratio
// that fits inside dst, centered. A degenerate source or destination falls
// back to dst itself.
func AspectFit(srcW, srcH float64, dst Rect) Rect {
	return aspectMap(srcW, srcH, dst, false)
}

// AspectFill returns the smallest rectangle with the given source aspect
// ratio that fully covers dst, centered; the overflow is meant to be cropped
// by the caller. A degenerate source or destination falls back to dst itself.
func AspectFill(srcW, srcH float64, dst Rect) Rect {
	return aspectMap(srcW, srcH, dst, true)
}

func aspectMap(srcW, srcH float64, dst Rect, fill bool) Rect {
	dw, dh := dst.Width(), dst.Height()
	if srcW <= 0 || srcH <= 0 || dw <= 0 || dh <= 0 {
		return dst
	}
	sx := dw / srcW
	sy := dh / srcH
	scale := math.Min(sx, sy)
	if fill {
		scale = math.Max(sx, sy)
	}
	w := srcW * scale
	h := srcH * scale
	c := dst.Center()
	return Rect{
		Min: Point{c.X - w/2, c.Y - h/2},
		Max: Point{c.X + w/2, c.Y + h/2},
	}
}

// Clamp limits v to the range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
