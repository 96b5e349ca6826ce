// Package annotation holds the data model for drawn markup objects, the
// editor state with snapshot undo, hit-testing, and the pointer-driven
// authoring state machine. Geometry is stored in unit-square normalized
// coordinates so annotations survive arbitrary zoom and crop.
package annotation

import (
	"image/color"
	"math"

	"github.com/example/snapmark/internal/canvas"
	"github.com/example/snapmark/internal/geom"
)

// Tool identifies the variant of a drawn annotation.
type Tool int

const (
	ToolStraightArrow Tool = iota
	ToolCurvedArrow
	ToolLine
	ToolRect
	ToolEllipse
	ToolFreehand
	ToolHighlighter
	ToolBlur
	ToolMagnifier
	ToolImageOverlay
	ToolText
	ToolCursor
	ToolCursorCircled
	ToolPointer
	ToolPointerCircled
	ToolTypingIndicator
	ToolNumberBadge
)

var toolNames = map[Tool]string{
	ToolStraightArrow:   "arrow",
	ToolCurvedArrow:     "curved-arrow",
	ToolLine:            "line",
	ToolRect:            "rect",
	ToolEllipse:         "ellipse",
	ToolFreehand:        "freehand",
	ToolHighlighter:     "highlighter",
	ToolBlur:            "blur",
	ToolMagnifier:       "magnifier",
	ToolImageOverlay:    "image",
	ToolText:            "text",
	ToolCursor:          "cursor",
	ToolCursorCircled:   "cursor-circled",
	ToolPointer:         "pointer",
	ToolPointerCircled:  "pointer-circled",
	ToolTypingIndicator: "typing",
	ToolNumberBadge:     "number",
}

func (t Tool) String() string {
	if n, ok := toolNames[t]; ok {
		return n
	}
	return "unknown"
}

// ToolFromName resolves a tool from its CLI name.
func ToolFromName(name string) (Tool, bool) {
	for t, n := range toolNames {
		if n == name {
			return t, true
		}
	}
	return 0, false
}

// IsSticker reports whether t is one of the placement sticker variants that
// commit on a single click.
func (t Tool) IsSticker() bool {
	switch t {
	case ToolCursor, ToolCursorCircled, ToolPointer, ToolPointerCircled,
		ToolTypingIndicator, ToolNumberBadge:
		return true
	}
	return false
}

// IsLineLike reports whether t snaps its drag direction to 45 degree
// increments when the constrain modifier is held.
func (t Tool) IsLineLike() bool {
	switch t {
	case ToolStraightArrow, ToolCurvedArrow, ToolLine, ToolFreehand,
		ToolHighlighter, ToolMagnifier:
		return true
	}
	return false
}

// IsShape reports whether t snaps to equal width/height when the constrain
// modifier is held.
func (t Tool) IsShape() bool {
	switch t {
	case ToolRect, ToolEllipse, ToolBlur, ToolImageOverlay:
		return true
	}
	return false
}

// Circled reports whether a sticker variant draws an enclosing circular
// badge behind its glyph.
func (t Tool) Circled() bool {
	return t == ToolCursorCircled || t == ToolPointerCircled
}

// Default curvature for curved arrows, in reference units (spans the
// clamp(dist*0.28, 20, 120) rule).
const (
	curveOffsetRatio = 0.28
	curveOffsetMin   = 20.0
	curveOffsetMax   = 120.0
)

// Magnifier constants, in proportions of the reference minimum dimension and
// of the derived default radius.
const (
	magnifierRadiusFrac   = 0.08
	magnifierMinRadiusPct = 0.55
	magnifierBaseZoom     = 2.0
	magnifierMaxZoom      = 4.0
)

// Annotation is one drawn markup object. Points are unit-square normalized;
// size-like fields (StrokeWidth, MagnifierRadius, CurveOffset,
// CurveControlOffset, ImageCornerRadius, FontSize, BlurStrength) are stored
// relative to RefMinDim, the minimum canvas dimension at creation time.
type Annotation struct {
	ID          int64
	Tool        Tool
	Points      []geom.Point
	Color       color.RGBA
	StrokeWidth float64
	RefMinDim   float64

	// Tool payloads.
	Text                  string
	FontSize              float64
	BlurStrength          float64
	MagnifierRadius       float64
	CurveOffset           float64
	CurveControlOffset    geom.Point
	HasCustomCurveControl bool
	ImagePath             string
	ImageCornerRadius     float64
}

// Clone returns a deep copy; the points slice is never shared.
func (a Annotation) Clone() Annotation {
	out := a
	out.Points = append([]geom.Point(nil), a.Points...)
	return out
}

// Scale returns the factor by which this annotation's reference-relative
// magnitudes grow when rendered on a canvas with the given minimum dimension.
func (a *Annotation) Scale(targetMinDim float64) float64 {
	return canvas.ScaleFactor(a.RefMinDim, targetMinDim)
}

// StrokeWidthAt returns the effective stroke width in pixels on the target
// canvas.
func (a *Annotation) StrokeWidthAt(display canvas.Size) float64 {
	return canvas.RefScaled{Value: a.StrokeWidth, RefMin: a.RefMinDim}.ScaledFor(display.MinDim())
}

// PixelPoints projects the annotation's points onto the display canvas.
func (a *Annotation) PixelPoints(display canvas.Size) []geom.Point {
	out := make([]geom.Point, len(a.Points))
	for i, p := range a.Points {
		out[i] = canvas.ToPixel(p, display)
	}
	return out
}

// BoundsRect returns the pixel rectangle spanned by the annotation's first
// two points, normalized. Tools with a single anchor point get a zero-size
// rect at that point.
func (a *Annotation) BoundsRect(display canvas.Size) geom.Rect {
	if len(a.Points) == 0 {
		return geom.Rect{}
	}
	first := canvas.ToPixel(a.Points[0], display)
	if len(a.Points) == 1 {
		return geom.Rect{Min: first, Max: first}
	}
	return geom.RectFromCorners(first, canvas.ToPixel(a.Points[1], display))
}

// Curve returns the quadratic Bezier for an arrow annotation in display
// pixels. Straight arrows get a flat curve (control at the chord midpoint);
// curved arrows use either the authored control offset or the automatic
// default curvature.
func (a *Annotation) Curve(display canvas.Size) geom.QuadBez {
	pts := a.PixelPoints(display)
	if len(pts) < 2 {
		var p geom.Point
		if len(pts) == 1 {
			p = pts[0]
		}
		return geom.QuadBez{P0: p, P1: p, P2: p}
	}
	start, end := pts[0], pts[1]
	if a.Tool != ToolCurvedArrow {
		return geom.QuadBez{P0: start, P1: start.Lerp(end, 0.5), P2: end}
	}
	scale := a.Scale(display.MinDim())
	if a.HasCustomCurveControl {
		mid := start.Lerp(end, 0.5)
		apex := mid.Add(a.CurveControlOffset.Mul(scale))
		// control = 2*apex - mid so the curve passes through the apex.
		control := apex.Mul(2).Sub(mid)
		return geom.QuadBez{P0: start, P1: control, P2: end}
	}
	offset := a.defaultCurveOffset(start.Distance(end)/scale) * scale
	return geom.QuadFromChordOffset(start, end, offset)
}

// defaultCurveOffset computes the automatic apex offset for a chord of the
// given length, both in reference units.
func (a *Annotation) defaultCurveOffset(chordLen float64) float64 {
	if a.CurveOffset != 0 {
		return a.CurveOffset
	}
	return geom.Clamp(chordLen*curveOffsetRatio, curveOffsetMin, curveOffsetMax)
}

// CurveHandle returns the draggable reshape handle position for an arrow, in
// display pixels. The handle sits on the curve apex.
func (a *Annotation) CurveHandle(display canvas.Size) geom.Point {
	return a.Curve(display).Eval(0.5)
}

// DefaultMagnifierRadius is the derived lens radius in reference units used
// when MagnifierRadius is zero.
func (a *Annotation) DefaultMagnifierRadius() float64 {
	ref := a.RefMinDim
	if ref < 1 {
		ref = 1
	}
	return ref * magnifierRadiusFrac
}

// MagnifierRadiusAt returns the effective lens radius in display pixels.
func (a *Annotation) MagnifierRadiusAt(display canvas.Size) float64 {
	r := a.MagnifierRadius
	if r <= 0 {
		r = a.DefaultMagnifierRadius()
	}
	return canvas.RefScaled{Value: r, RefMin: a.RefMinDim}.ScaledFor(display.MinDim())
}

// Magnification returns the zoom level of the magnifier lens. It grows
// linearly from the base zoom toward the capped maximum as the lens radius
// exceeds its derived default.
func (a *Annotation) Magnification() float64 {
	def := a.DefaultMagnifierRadius()
	r := a.MagnifierRadius
	if r <= 0 {
		r = def
	}
	t := geom.Clamp((r-def)/def, 0, 1)
	return magnifierBaseZoom + (magnifierMaxZoom-magnifierBaseZoom)*t
}

// FontSizeAt returns the effective text size in pixels on the target canvas.
// A zero FontSize derives from stroke width so text tracks the stroke
// setting.
func (a *Annotation) FontSizeAt(display canvas.Size) float64 {
	size := a.FontSize
	if size <= 0 {
		size = a.StrokeWidth * 6
	}
	if size <= 0 {
		size = 14
	}
	return size * a.Scale(display.MinDim())
}

// TextBounds approximates the rectangle occupied by a text annotation in
// display pixels, for hit-testing. Width is estimated from the character
// count and a font-derived advance.
func (a *Annotation) TextBounds(display canvas.Size) geom.Rect {
	if len(a.Points) == 0 {
		return geom.Rect{}
	}
	anchor := canvas.ToPixel(a.Points[0], display)
	size := a.FontSizeAt(display)
	w := float64(len([]rune(a.Text))) * size * 0.55
	h := size * 1.3
	return geom.Rect{
		Min: geom.Pt(anchor.X, anchor.Y-h*0.8),
		Max: geom.Pt(anchor.X+w, anchor.Y+h*0.2),
	}
}

// StickerLayout describes the placement rectangles of a sticker annotation.
type StickerLayout struct {
	// Symbol is the rect the glyph is aspect-fit into.
	Symbol geom.Rect
	// Circle is the enclosing badge rect for circled variants; zero when
	// the variant has no badge.
	Circle geom.Rect
	// HasCircle reports whether Circle is meaningful.
	HasCircle bool
}

// Sticker computes the layout for a sticker annotation in display pixels.
// The primary symbol is sized max(18, strokeWidth*7) with a tool-dependent
// aspect; circled variants add a larger enclosing circle.
func (a *Annotation) Sticker(display canvas.Size) StickerLayout {
	if len(a.Points) == 0 {
		return StickerLayout{}
	}
	c := canvas.ToPixel(a.Points[0], display)
	side := math.Max(18, a.StrokeWidthAt(display)*7)
	w, h := side, side
	switch a.Tool {
	case ToolTypingIndicator:
		w, h = side*1.5, side*0.9
	case ToolNumberBadge:
		w, h = side*1.1, side*1.1
	}
	layout := StickerLayout{
		Symbol: geom.Rect{
			Min: geom.Pt(c.X-w/2, c.Y-h/2),
			Max: geom.Pt(c.X+w/2, c.Y+h/2),
		},
	}
	if a.Tool.Circled() {
		r := side * 0.9
		layout.Circle = geom.Rect{
			Min: geom.Pt(c.X-r, c.Y-r),
			Max: geom.Pt(c.X+r, c.Y+r),
		}
		layout.HasCircle = true
	}
	return layout
}

// HitBounds returns the rectangle used for sticker hit-testing; circled
// variants use the larger badge rect.
func (l StickerLayout) HitBounds() geom.Rect {
	if l.HasCircle {
		return l.Circle
	}
	return l.Symbol
}
