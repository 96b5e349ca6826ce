package geom

import "math"

// QuadBez is a quadratic Bezier curve: start P0, control P1, end P2. Curved
// arrows are described, sampled and hit-tested as a single quadratic even
// when the final stroke uses the elevated cubic form.
type QuadBez struct {
	P0, P1, P2 Point
}

// Eval evaluates the curve at parameter t in [0, 1].
func (q QuadBez) Eval(t float64) Point {
	mt := 1 - t
	x := mt*mt*q.P0.X + 2*mt*t*q.P1.X + t*t*q.P2.X
	y := mt*mt*q.P0.Y + 2*mt*t*q.P1.Y + t*t*q.P2.Y
	return Point{x, y}
}

// Sample evaluates the curve at n uniform parameter steps and returns n+1
// points; the first equals P0 and the last equals P2. n < 1 is treated as 1.
func (q QuadBez) Sample(n int) []Point {
	if n < 1 {
		n = 1
	}
	pts := make([]Point, 0, n+1)
	for i := 0; i <= n; i++ {
		pts = append(pts, q.Eval(float64(i)/float64(n)))
	}
	return pts
}

// Distance returns the minimum distance from p to the curve, approximated by
// reducing the query to the polyline through samples samples.
func (q QuadBez) Distance(p Point, samples int) float64 {
	return PolylineDistance(p, q.Sample(samples))
}

// Elevate raises the quadratic to the equivalent cubic. The cubic control
// points are start/end moved two thirds of the way toward the quadratic
// control point.
func (q QuadBez) Elevate() (c1, c2 Point) {
	c1 = q.P0.Add(q.P1.Sub(q.P0).Mul(2.0 / 3.0))
	c2 = q.P2.Add(q.P1.Sub(q.P2).Mul(2.0 / 3.0))
	return c1, c2
}

// EndTangent returns the unit direction of the curve at its endpoint,
// computed as end minus control. When the curve is nearly flat the straight
// chord direction is used instead; a zero-length chord yields the zero
// vector.
func (q QuadBez) EndTangent() Point {
	d := q.P2.Sub(q.P1)
	if math.Hypot(d.X, d.Y) < 1e-6 {
		d = q.P2.Sub(q.P0)
	}
	n := math.Hypot(d.X, d.Y)
	if n < 1e-12 {
		return Point{}
	}
	return Point{d.X / n, d.Y / n}
}

// QuadFromChordOffset builds the quadratic whose apex sits offset units
// perpendicular to the chord a-b at its midpoint. The control point is placed
// so the curve passes through that apex (control = 2*apex - midpoint, folded
// into the perpendicular displacement). A zero-length chord degenerates to a
// control point at the midpoint.
func QuadFromChordOffset(a, b Point, offset float64) QuadBez {
	mid := a.Lerp(b, 0.5)
	chord := b.Sub(a)
	n := math.Hypot(chord.X, chord.Y)
	if n < 1e-12 {
		return QuadBez{P0: a, P1: mid, P2: b}
	}
	// Perpendicular unit vector; positive offset bulges to the left of the
	// chord direction.
	perp := Point{-chord.Y / n, chord.X / n}
	control := mid.Add(perp.Mul(2 * offset))
	return QuadBez{P0: a, P1: control, P2: b}
}

// ChordOffset returns the signed perpendicular distance of control point cp
// from the chord a-b, using the same sign convention as QuadFromChordOffset.
// The reported value is halved to match the apex displacement rather than
// the control displacement.
func ChordOffset(a, b, cp Point) float64 {
	chord := b.Sub(a)
	n := math.Hypot(chord.X, chord.Y)
	if n < 1e-12 {
		return 0
	}
	mid := a.Lerp(b, 0.5)
	d := cp.Sub(mid)
	perp := Point{-chord.Y / n, chord.X / n}
	return (d.X*perp.X + d.Y*perp.Y) / 2
}
