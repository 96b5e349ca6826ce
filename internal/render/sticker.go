package render

import (
	"image"
	"image/color"
	"math"

	"github.com/example/snapmark/internal/annotation"
	"github.com/example/snapmark/internal/geom"
)

// contrastThreshold is the relative luminance above which sticker foregrounds
// switch from white to dark.
const contrastThreshold = 0.58

// contrastColor returns a foreground color that stays readable over c, using
// Rec.709 luminance weights.
func contrastColor(c color.RGBA) color.RGBA {
	lum := 0.2126*float64(c.R)/255 + 0.7152*float64(c.G)/255 + 0.0722*float64(c.B)/255
	if lum > contrastThreshold {
		return color.RGBA{20, 20, 20, 255}
	}
	return color.RGBA{255, 255, 255, 255}
}

func (r *Renderer) renderSticker(dst *image.RGBA, a *annotation.Annotation) {
	layout := a.Sticker(r.Display)
	if layout.Symbol.Width() <= 0 {
		return
	}
	if layout.HasCircle {
		center := layout.Circle.Center()
		radius := layout.Circle.Width() / 2
		FillCircle(dst, center, radius, a.Color)
		StrokeCircle(dst, center, radius, color.RGBA{255, 255, 255, 220}, 2)
	}

	glyphColor := a.Color
	if layout.HasCircle {
		glyphColor = contrastColor(a.Color)
	}

	switch a.Tool {
	case annotation.ToolCursor, annotation.ToolCursorCircled:
		drawCursorGlyph(dst, layout.Symbol, glyphColor)
	case annotation.ToolPointer, annotation.ToolPointerCircled:
		drawPointerGlyph(dst, layout.Symbol, glyphColor)
	case annotation.ToolTypingIndicator:
		drawTypingGlyph(dst, layout.Symbol, a.Color)
	case annotation.ToolNumberBadge:
		drawNumberBadge(dst, layout.Symbol, a.Color, a.Text)
	}
}

// drawCursorGlyph draws a classic mouse-pointer arrow inside r, with a thin
// contrasting outline so it stays visible over any background.
func drawCursorGlyph(dst *image.RGBA, r geom.Rect, c color.RGBA) {
	w, h := r.Width(), r.Height()
	tip := r.Min
	heel := geom.Pt(r.Min.X, r.Min.Y+h*0.78)
	wing := geom.Pt(r.Min.X+w*0.55, r.Min.Y+h*0.55)
	FillTriangle(dst, tip, heel, wing, c)

	outline := contrastColor(c)
	outline.A = 200
	StrokeLine(dst, tip, heel, outline, 1.5)
	StrokeLine(dst, heel, wing, outline, 1.5)
	StrokeLine(dst, wing, tip, outline, 1.5)

	// Tail stroke off the wing edge.
	tailFrom := geom.Pt(r.Min.X+w*0.38, r.Min.Y+h*0.48)
	tailTo := geom.Pt(r.Min.X+w*0.62, r.Min.Y+h*0.95)
	StrokeLine(dst, tailFrom, tailTo, c, math.Max(2, w*0.14))
}

// drawPointerGlyph draws a teardrop location pointer: a disc with a triangle
// tip reaching the bottom of r.
func drawPointerGlyph(dst *image.RGBA, r geom.Rect, c color.RGBA) {
	w, h := r.Width(), r.Height()
	headCenter := geom.Pt(r.Center().X, r.Min.Y+h*0.36)
	headR := w * 0.33
	tip := geom.Pt(r.Center().X, r.Max.Y)
	left := geom.Pt(headCenter.X-headR*0.92, headCenter.Y+headR*0.35)
	right := geom.Pt(headCenter.X+headR*0.92, headCenter.Y+headR*0.35)
	FillTriangle(dst, tip, left, right, c)
	FillCircle(dst, headCenter, headR, c)

	// Hollow center dot.
	hole := contrastColor(c)
	FillCircle(dst, headCenter, headR*0.4, hole)
}

// drawTypingGlyph draws a chat bubble with three dots.
func drawTypingGlyph(dst *image.RGBA, r geom.Rect, c color.RGBA) {
	w, h := r.Width(), r.Height()
	body := geom.Rect{Min: r.Min, Max: geom.Pt(r.Max.X, r.Min.Y+h*0.8)}

	bodyRect := pixelRect(body)
	if bodyRect.Empty() {
		return
	}
	mask := RoundedRectMask(bodyRect.Dx(), bodyRect.Dy(), h*0.28)
	for y := 0; y < bodyRect.Dy(); y++ {
		for x := 0; x < bodyRect.Dx(); x++ {
			ma := mask.AlphaAt(x, y).A
			if ma == 0 {
				continue
			}
			px := color.RGBA{c.R, c.G, c.B, uint8(uint32(c.A) * uint32(ma) / 255)}
			blendPixel(dst, bodyRect.Min.X+x, bodyRect.Min.Y+y, px)
		}
	}

	// Bubble tail.
	tailTop := geom.Pt(r.Min.X+w*0.22, body.Max.Y-1)
	tailTip := geom.Pt(r.Min.X+w*0.14, r.Max.Y)
	FillTriangle(dst, tailTop, geom.Pt(tailTop.X+w*0.14, tailTop.Y), tailTip, c)

	// Three dots.
	dot := contrastColor(c)
	dotR := h * 0.09
	cy := body.Center().Y
	for i := 0; i < 3; i++ {
		cx := r.Min.X + w*(0.3+0.2*float64(i))
		FillCircle(dst, geom.Pt(cx, cy), dotR, dot)
	}
}

// drawNumberBadge draws a filled disc with a centered numeral whose color is
// chosen for contrast against the badge fill.
func drawNumberBadge(dst *image.RGBA, r geom.Rect, c color.RGBA, label string) {
	center := r.Center()
	radius := r.Width() / 2
	FillCircle(dst, center, radius, c)
	StrokeCircle(dst, center, radius, color.RGBA{255, 255, 255, 220}, 2)

	if label == "" {
		return
	}
	fg := contrastColor(c)
	size := radius * 1.1
	w := MeasureString(label, size)
	DrawString(dst, label, geom.Pt(center.X-w/2, center.Y+size*0.35), fg, size)
}
