package annotation

import (
	"math"

	"github.com/example/snapmark/internal/canvas"
	"github.com/example/snapmark/internal/geom"
)

// curveSamples is the number of uniform parameter steps used when reducing a
// curve distance query to a polyline.
const curveSamples = 20

// HitTest returns the index of the top-most annotation under the pixel point
// p, testing in reverse insertion order so later (higher) annotations win.
// The second result is false when nothing is hit.
func HitTest(list []Annotation, p geom.Point, display canvas.Size) (int, bool) {
	for i := len(list) - 1; i >= 0; i-- {
		if hitAnnotation(&list[i], p, display) {
			return i, true
		}
	}
	return -1, false
}

// HitCurveHandle returns the index of the top-most arrow whose curve-control
// handle is under p. It is tested before HitTest so reshaping wins over
// translating when both are in range.
func HitCurveHandle(list []Annotation, p geom.Point, display canvas.Size) (int, bool) {
	for i := len(list) - 1; i >= 0; i-- {
		a := &list[i]
		if a.Tool != ToolCurvedArrow && a.Tool != ToolStraightArrow {
			continue
		}
		if len(a.Points) < 2 {
			continue
		}
		tol := math.Max(11, a.StrokeWidthAt(display)*2.1)
		if p.Distance(a.CurveHandle(display)) <= tol {
			return i, true
		}
	}
	return -1, false
}

// HitMagnifierEdge reports whether p lies on the resize band of a magnifier's
// lens boundary.
func HitMagnifierEdge(a *Annotation, p geom.Point, display canvas.Size) bool {
	if a.Tool != ToolMagnifier || len(a.Points) < 2 {
		return false
	}
	lens := canvas.ToPixel(a.Points[1], display)
	radius := a.MagnifierRadiusAt(display)
	tol := hitTolerance(a, display)
	return math.Abs(p.Distance(lens)-radius) <= tol
}

func hitTolerance(a *Annotation, display canvas.Size) float64 {
	w := a.StrokeWidthAt(display)
	if a.Tool == ToolHighlighter {
		return math.Max(10, w*5)
	}
	return math.Max(10, w*3)
}

func hitAnnotation(a *Annotation, p geom.Point, display canvas.Size) bool {
	tol := hitTolerance(a, display)
	switch a.Tool {
	case ToolLine:
		pts := a.PixelPoints(display)
		if len(pts) < 2 {
			return false
		}
		return geom.SegmentDistance(p, pts[0], pts[1]) <= tol

	case ToolStraightArrow, ToolCurvedArrow:
		return a.Curve(display).Distance(p, curveSamples) <= tol

	case ToolRect, ToolBlur, ToolImageOverlay:
		return a.BoundsRect(display).Inset(-tol).Contains(p)

	case ToolEllipse:
		return hitEllipse(a, p, display, tol)

	case ToolFreehand, ToolHighlighter:
		return geom.PolylineDistance(p, a.PixelPoints(display)) <= tol

	case ToolMagnifier:
		return hitMagnifier(a, p, display, tol)

	case ToolText:
		return a.TextBounds(display).Inset(-tol).Contains(p)

	case ToolCursor, ToolCursorCircled, ToolPointer, ToolPointerCircled,
		ToolTypingIndicator, ToolNumberBadge:
		return a.Sticker(display).HitBounds().Inset(-tol).Contains(p)
	}
	return false
}

func hitEllipse(a *Annotation, p geom.Point, display canvas.Size, tol float64) bool {
	r := a.BoundsRect(display)
	if !r.Inset(-tol).Contains(p) {
		return false
	}
	rx := r.Width() / 2
	ry := r.Height() / 2
	if rx <= 0 || ry <= 0 {
		return true
	}
	c := r.Center()
	dx := (p.X - c.X) / rx
	dy := (p.Y - c.Y) / ry
	tolScale := tol / math.Min(rx, ry)
	return dx*dx+dy*dy <= 1+tolScale
}

func hitMagnifier(a *Annotation, p geom.Point, display canvas.Size, tol float64) bool {
	pts := a.PixelPoints(display)
	if len(pts) < 2 {
		return false
	}
	source, lens := pts[0], pts[1]
	sourceRadius := SourceMarkerRadius(a, display)
	if p.Distance(source) <= sourceRadius+tol {
		return true
	}
	if p.Distance(lens) <= a.MagnifierRadiusAt(display)+tol {
		return true
	}
	return geom.SegmentDistance(p, source, lens) <= tol
}

// SourceMarkerRadius is the radius of the small circle drawn at the
// magnifier's sampling point, shared by hit-testing and rendering.
func SourceMarkerRadius(a *Annotation, display canvas.Size) float64 {
	return math.Max(4, a.StrokeWidthAt(display)*1.5)
}
