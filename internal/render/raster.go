// Package render rasterizes annotations onto RGBA images. The same renderer
// backs the interactive preview and headless export; primitives are drawn with
// distance-field antialiasing so strokes stay smooth at any canvas size.
package render

import (
	"image"
	"image/color"
	"math"

	"github.com/example/snapmark/internal/geom"
)

// blendPixel writes c over the pixel at (x, y) with alpha compositing.
// Out-of-bounds writes are dropped.
func blendPixel(img *image.RGBA, x, y int, c color.RGBA) {
	bounds := img.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return
	}
	off := (y-bounds.Min.Y)*img.Stride + (x-bounds.Min.X)*4
	if c.A == 255 {
		img.Pix[off+0] = c.R
		img.Pix[off+1] = c.G
		img.Pix[off+2] = c.B
		img.Pix[off+3] = 255
		return
	}
	if c.A == 0 {
		return
	}
	srcA := uint32(c.A)
	invA := 255 - srcA
	img.Pix[off+0] = uint8((uint32(c.R)*srcA + uint32(img.Pix[off+0])*invA) / 255)
	img.Pix[off+1] = uint8((uint32(c.G)*srcA + uint32(img.Pix[off+1])*invA) / 255)
	img.Pix[off+2] = uint8((uint32(c.B)*srcA + uint32(img.Pix[off+2])*invA) / 255)
	img.Pix[off+3] = uint8(srcA + uint32(img.Pix[off+3])*invA/255)
}

// aaPixel blends c at (x, y) with coverage derived from the signed distance to
// the shape boundary: fully inside within halfW-0.5, feathered over one pixel.
func aaPixel(img *image.RGBA, x, y int, c color.RGBA, dist, halfW float64) {
	if dist > halfW+0.5 {
		return
	}
	if dist <= halfW-0.5 {
		blendPixel(img, x, y, c)
		return
	}
	frac := halfW + 0.5 - dist
	blendPixel(img, x, y, color.RGBA{c.R, c.G, c.B, uint8(float64(c.A) * frac)})
}

func strokeHalfWidth(width float64) float64 {
	halfW := width / 2
	if halfW < 0.75 {
		halfW = 0.75
	}
	return halfW
}

// StrokeLine draws a thick antialiased segment with round caps.
func StrokeLine(img *image.RGBA, a, b geom.Point, c color.RGBA, width float64) {
	halfW := strokeHalfWidth(width)
	d := b.Sub(a)
	length := math.Hypot(d.X, d.Y)
	if length < 0.5 {
		FillCircle(img, a, halfW, c)
		return
	}
	ux, uy := d.X/length, d.Y/length
	nx, ny := -uy, ux

	margin := int(halfW) + 2
	x0 := int(math.Min(a.X, b.X)) - margin
	x1 := int(math.Max(a.X, b.X)) + margin
	y0 := int(math.Min(a.Y, b.Y)) - margin
	y1 := int(math.Max(a.Y, b.Y)) + margin

	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			vx := float64(px) - a.X
			vy := float64(py) - a.Y
			along := vx*ux + vy*uy

			var dist float64
			switch {
			case along <= 0:
				dist = math.Hypot(vx, vy)
			case along >= length:
				dist = math.Hypot(float64(px)-b.X, float64(py)-b.Y)
			default:
				dist = math.Abs(vx*nx + vy*ny)
			}
			aaPixel(img, px, py, c, dist, halfW)
		}
	}
}

// StrokePolyline draws consecutive thick segments through pts.
func StrokePolyline(img *image.RGBA, pts []geom.Point, c color.RGBA, width float64) {
	if len(pts) == 1 {
		FillCircle(img, pts[0], strokeHalfWidth(width), c)
		return
	}
	for i := 1; i < len(pts); i++ {
		StrokeLine(img, pts[i-1], pts[i], c, width)
	}
}

// StrokeQuad draws a quadratic Bezier as a dense polyline.
func StrokeQuad(img *image.RGBA, q geom.QuadBez, c color.RGBA, width float64, samples int) {
	StrokePolyline(img, q.Sample(samples), c, width)
}

// FillCircle draws an antialiased filled disc.
func FillCircle(img *image.RGBA, center geom.Point, radius float64, c color.RGBA) {
	ri := int(radius) + 2
	cx, cy := int(center.X), int(center.Y)
	for py := cy - ri; py <= cy+ri; py++ {
		for px := cx - ri; px <= cx+ri; px++ {
			dist := math.Hypot(float64(px)-center.X, float64(py)-center.Y)
			aaPixel(img, px, py, c, dist, radius)
		}
	}
}

// StrokeCircle draws an antialiased ring of the given stroke width.
func StrokeCircle(img *image.RGBA, center geom.Point, radius float64, c color.RGBA, width float64) {
	halfW := strokeHalfWidth(width)
	outer := int(radius+halfW) + 2
	cx, cy := int(center.X), int(center.Y)
	for py := cy - outer; py <= cy+outer; py++ {
		for px := cx - outer; px <= cx+outer; px++ {
			d := math.Hypot(float64(px)-center.X, float64(py)-center.Y)
			aaPixel(img, px, py, c, math.Abs(d-radius), halfW)
		}
	}
}

// StrokeRect draws the four edges of r as thick lines. Corners overlap, which
// the round caps absorb.
func StrokeRect(img *image.RGBA, r geom.Rect, c color.RGBA, width float64) {
	tl := r.Min
	tr := geom.Pt(r.Max.X, r.Min.Y)
	bl := geom.Pt(r.Min.X, r.Max.Y)
	br := r.Max
	StrokeLine(img, tl, tr, c, width)
	StrokeLine(img, bl, br, c, width)
	StrokeLine(img, tl, bl, c, width)
	StrokeLine(img, tr, br, c, width)
}

// FillRect fills r with c, blending.
func FillRect(img *image.RGBA, r geom.Rect, c color.RGBA) {
	for y := int(r.Min.Y); y < int(math.Ceil(r.Max.Y)); y++ {
		for x := int(r.Min.X); x < int(math.Ceil(r.Max.X)); x++ {
			blendPixel(img, x, y, c)
		}
	}
}

// StrokeEllipse draws an antialiased elliptical outline inscribed in r using
// an approximate distance field.
func StrokeEllipse(img *image.RGBA, r geom.Rect, c color.RGBA, width float64) {
	rx := r.Width() / 2
	ry := r.Height() / 2
	if rx <= 0 || ry <= 0 {
		return
	}
	center := r.Center()
	halfW := strokeHalfWidth(width)

	outerRx := rx + halfW + 1.5
	outerRy := ry + halfW + 1.5
	innerRx := rx - halfW - 1.5
	innerRy := ry - halfW - 1.5

	y0 := int(center.Y-outerRy) - 1
	y1 := int(center.Y+outerRy) + 1
	x0 := int(center.X-outerRx) - 1
	x1 := int(center.X+outerRx) + 1

	for py := y0; py <= y1; py++ {
		dy := float64(py) - center.Y
		for px := x0; px <= x1; px++ {
			dx := float64(px) - center.X
			if v := (dx*dx)/(outerRx*outerRx) + (dy*dy)/(outerRy*outerRy); v > 1 {
				continue
			}
			if innerRx > 0 && innerRy > 0 {
				if v := (dx*dx)/(innerRx*innerRx) + (dy*dy)/(innerRy*innerRy); v < 1 {
					continue
				}
			}
			dist := ellipseDistance(float64(px), float64(py), center, rx, ry)
			aaPixel(img, px, py, c, dist, halfW)
		}
	}
}

// ellipseDistance approximates the distance from a point to the ellipse
// boundary by projecting radially onto the surface.
func ellipseDistance(px, py float64, center geom.Point, rx, ry float64) float64 {
	dx := (px - center.X) / rx
	dy := (py - center.Y) / ry
	r := math.Hypot(dx, dy)
	if r < 0.001 {
		return math.Min(rx, ry)
	}
	t := 1 / r
	ex := center.X + rx*dx*t
	ey := center.Y + ry*dy*t
	return math.Hypot(px-ex, py-ey)
}

// FillTriangle fills the triangle p1-p2-p3 by scanline.
func FillTriangle(img *image.RGBA, p1, p2, p3 geom.Point, c color.RGBA) {
	minY := int(math.Floor(math.Min(p1.Y, math.Min(p2.Y, p3.Y))))
	maxY := int(math.Ceil(math.Max(p1.Y, math.Max(p2.Y, p3.Y))))

	for y := minY; y <= maxY; y++ {
		var xs []float64
		xs = appendEdgeCrossing(xs, float64(y), p1, p2)
		xs = appendEdgeCrossing(xs, float64(y), p2, p3)
		xs = appendEdgeCrossing(xs, float64(y), p3, p1)
		if len(xs) < 2 {
			continue
		}
		xMin, xMax := xs[0], xs[0]
		for _, x := range xs[1:] {
			xMin = math.Min(xMin, x)
			xMax = math.Max(xMax, x)
		}
		for x := int(math.Round(xMin)); x <= int(math.Round(xMax)); x++ {
			blendPixel(img, x, y, c)
		}
	}
}

func appendEdgeCrossing(xs []float64, y float64, a, b geom.Point) []float64 {
	if a.Y > b.Y {
		a, b = b, a
	}
	if y < a.Y || y > b.Y || a.Y == b.Y {
		return xs
	}
	t := (y - a.Y) / (b.Y - a.Y)
	return append(xs, a.X+t*(b.X-a.X))
}

// RoundedRectMask returns an antialiased alpha mask for a rectangle of the
// given size with the given corner radius, for use with draw.DrawMask.
func RoundedRectMask(w, h int, radius float64) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	if radius <= 0 {
		for i := range mask.Pix {
			mask.Pix[i] = 255
		}
		return mask
	}
	maxR := math.Min(float64(w), float64(h)) / 2
	if radius > maxR {
		radius = maxR
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			fx, fy := float64(x)+0.5, float64(y)+0.5
			// Distance past the rounded corner boundary; negative inside.
			dx := math.Max(math.Max(radius-fx, fx-(float64(w)-radius)), 0)
			dy := math.Max(math.Max(radius-fy, fy-(float64(h)-radius)), 0)
			d := math.Hypot(dx, dy) - radius
			switch {
			case d <= -0.5:
				mask.SetAlpha(x, y, color.Alpha{A: 255})
			case d < 0.5:
				mask.SetAlpha(x, y, color.Alpha{A: uint8(255 * (0.5 - d))})
			}
		}
	}
	return mask
}

// CircleMask returns an antialiased alpha mask for a disc of the given
// diameter.
func CircleMask(diameter int) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, diameter, diameter))
	r := float64(diameter) / 2
	for y := 0; y < diameter; y++ {
		for x := 0; x < diameter; x++ {
			d := math.Hypot(float64(x)+0.5-r, float64(y)+0.5-r)
			switch {
			case d <= r-0.5:
				mask.SetAlpha(x, y, color.Alpha{A: 255})
			case d < r+0.5:
				mask.SetAlpha(x, y, color.Alpha{A: uint8(255 * (r + 0.5 - d))})
			}
		}
	}
	return mask
}
