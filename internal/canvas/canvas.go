// Package canvas converts between the device-independent unit square used to
// store annotation geometry and whatever pixel size the canvas is currently
// displayed at. Size-like values (stroke widths, radii, curve offsets) are
// stored relative to the minimum canvas dimension at authoring time so their
// on-screen proportion stays constant across zoom levels.
package canvas

import (
	"math"

	"github.com/example/snapmark/internal/geom"
)

// Size is a canvas extent in pixels.
type Size struct {
	Width, Height float64
}

// Sz is shorthand for Size{w, h}.
func Sz(w, h float64) Size { return Size{Width: w, Height: h} }

// MinDim returns the shorter side of s, never less than 1 so that reference
// scaling cannot divide by zero.
func (s Size) MinDim() float64 {
	m := math.Min(s.Width, s.Height)
	if m < 1 {
		return 1
	}
	return m
}

// ToUnit maps a pixel point into unit-square coordinates for the given
// container size. Zero-sized containers are treated as 1x1.
func ToUnit(p geom.Point, container Size) geom.Point {
	w := container.Width
	if w <= 0 {
		w = 1
	}
	h := container.Height
	if h <= 0 {
		h = 1
	}
	return geom.Pt(p.X/w, p.Y/h)
}

// ToPixel maps a unit-square point back into pixels. ToPixel(ToUnit(p, s), s)
// round-trips within floating point tolerance for any nonzero s.
func ToPixel(p geom.Point, container Size) geom.Point {
	return geom.Pt(p.X*container.Width, p.Y*container.Height)
}

// ToPixelRect maps a unit-space rectangle into pixels.
func ToPixelRect(r geom.Rect, container Size) geom.Rect {
	return geom.Rect{
		Min: ToPixel(r.Min, container),
		Max: ToPixel(r.Max, container),
	}
}

// ScaleFactor is the ratio by which reference-relative magnitudes grow when
// rendered at targetMinDim instead of refMinDim. Reference dimensions below 1
// are clamped to 1.
func ScaleFactor(refMinDim, targetMinDim float64) float64 {
	if refMinDim < 1 {
		refMinDim = 1
	}
	if targetMinDim < 1 {
		targetMinDim = 1
	}
	return targetMinDim / refMinDim
}

// RefScaled carries a magnitude expressed relative to the reference minimum
// canvas dimension captured when the annotation was authored. The stored
// value never changes during rendering; only ScaledFor is used to project it
// onto a target canvas. Explicit resize actions overwrite the value through
// Rebase.
type RefScaled struct {
	Value  float64
	RefMin float64
}

// NewRefScaled records value against the minimum dimension of the container
// it was authored in.
func NewRefScaled(value float64, container Size) RefScaled {
	return RefScaled{Value: value, RefMin: container.MinDim()}
}

// ScaledFor returns the magnitude projected onto a canvas whose minimum
// dimension is targetMinDim.
func (r RefScaled) ScaledFor(targetMinDim float64) float64 {
	return r.Value * ScaleFactor(r.RefMin, targetMinDim)
}

// Rebase re-expresses a pixel magnitude measured on container back into this
// value's reference basis, replacing the stored magnitude. Used by explicit
// resize/reshape actions, never by rendering.
func (r *RefScaled) Rebase(pixelValue float64, container Size) {
	r.Value = pixelValue / ScaleFactor(r.RefMin, container.MinDim())
}
