package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	xdraw "golang.org/x/image/draw"

	"github.com/example/snapmark/internal/annotation"
	"github.com/example/snapmark/internal/canvas"
	"github.com/example/snapmark/internal/geom"
)

// curveSamples is the polyline density used when stroking arrow curves.
const curveSamples = 20

// defaultBlurStrength is the pixelation block size, in reference units, used
// when an annotation does not carry one.
const defaultBlurStrength = 12

// ImageSource resolves overlay image paths to decoded images. A miss returns
// false and the renderer draws a placeholder.
type ImageSource interface {
	Image(path string) (image.Image, bool)
}

// Renderer draws annotations onto an RGBA canvas. Base is the frozen,
// unannotated source at the same resolution as the destination; blur and
// magnifier sample from it so stacked effects never pick up other
// annotations. Interactive enables editing affordances (resize handles) that
// must not appear in exports.
type Renderer struct {
	Base        *image.RGBA
	Display     canvas.Size
	Interactive bool
	Images      ImageSource
}

// New returns a renderer for a destination the size of base.
func New(base *image.RGBA, interactive bool) *Renderer {
	b := base.Bounds()
	return &Renderer{
		Base:        base,
		Display:     canvas.Sz(float64(b.Dx()), float64(b.Dy())),
		Interactive: interactive,
	}
}

// Render draws every annotation in z-order onto dst.
func (r *Renderer) Render(dst *image.RGBA, list []annotation.Annotation) {
	for i := range list {
		r.RenderOne(dst, &list[i])
	}
}

// RenderOne draws a single annotation onto dst.
func (r *Renderer) RenderOne(dst *image.RGBA, a *annotation.Annotation) {
	switch a.Tool {
	case annotation.ToolLine:
		r.renderLine(dst, a)
	case annotation.ToolStraightArrow, annotation.ToolCurvedArrow:
		r.renderArrow(dst, a)
	case annotation.ToolRect:
		StrokeRect(dst, a.BoundsRect(r.Display), a.Color, a.StrokeWidthAt(r.Display))
	case annotation.ToolEllipse:
		StrokeEllipse(dst, a.BoundsRect(r.Display), a.Color, a.StrokeWidthAt(r.Display))
	case annotation.ToolFreehand:
		StrokePolyline(dst, a.PixelPoints(r.Display), a.Color, a.StrokeWidthAt(r.Display))
	case annotation.ToolHighlighter:
		r.renderHighlighter(dst, a)
	case annotation.ToolBlur:
		r.renderBlur(dst, a)
	case annotation.ToolMagnifier:
		r.renderMagnifier(dst, a)
	case annotation.ToolImageOverlay:
		r.renderImageOverlay(dst, a)
	case annotation.ToolText:
		r.renderText(dst, a)
	default:
		if a.Tool.IsSticker() {
			r.renderSticker(dst, a)
		}
	}
}

func (r *Renderer) renderLine(dst *image.RGBA, a *annotation.Annotation) {
	pts := a.PixelPoints(r.Display)
	if len(pts) < 2 {
		return
	}
	StrokeLine(dst, pts[0], pts[1], a.Color, a.StrokeWidthAt(r.Display))
}

func (r *Renderer) renderArrow(dst *image.RGBA, a *annotation.Annotation) {
	pts := a.PixelPoints(r.Display)
	if len(pts) < 2 {
		return
	}
	width := a.StrokeWidthAt(r.Display)
	q := a.Curve(r.Display)
	StrokeQuad(dst, q, a.Color, width, curveSamples)

	tip, left, right, ok := arrowHead(q, width)
	if !ok {
		return
	}
	FillTriangle(dst, tip, left, right, a.Color)
}

// arrowHead computes the head triangle at the end of q: length max(12, 5w),
// wings swept 30 degrees off the end tangent.
func arrowHead(q geom.QuadBez, width float64) (tip, left, right geom.Point, ok bool) {
	dir := q.EndTangent()
	if dir.X == 0 && dir.Y == 0 {
		return tip, left, right, false
	}
	headLen := math.Max(12, width*5)
	n := math.Hypot(dir.X, dir.Y)
	ux, uy := dir.X/n, dir.Y/n
	tip = q.P2
	base := geom.Pt(tip.X-ux*headLen, tip.Y-uy*headLen)
	halfW := headLen * math.Tan(math.Pi/6)
	left = geom.Pt(base.X-uy*halfW, base.Y+ux*halfW)
	right = geom.Pt(base.X+uy*halfW, base.Y-ux*halfW)
	return tip, left, right, true
}

// renderHighlighter draws a translucent band four strokes wide so underlying
// content shows through.
func (r *Renderer) renderHighlighter(dst *image.RGBA, a *annotation.Annotation) {
	c := a.Color
	c.A = uint8(float64(c.A) * 0.4)
	StrokePolyline(dst, a.PixelPoints(r.Display), c, a.StrokeWidthAt(r.Display)*4)
}

// renderBlur pixelates the covered region of the frozen base: the patch is
// downsampled to one pixel per block and scaled back up with nearest
// neighbor.
func (r *Renderer) renderBlur(dst *image.RGBA, a *annotation.Annotation) {
	rect := pixelRect(a.BoundsRect(r.Display)).Intersect(dst.Bounds()).Intersect(r.Base.Bounds())
	if rect.Empty() {
		return
	}
	strength := a.BlurStrength
	if strength <= 0 {
		strength = defaultBlurStrength
	}
	block := int(math.Round(strength * a.Scale(r.Display.MinDim())))
	if block < 2 {
		block = 2
	}
	sw := (rect.Dx() + block - 1) / block
	sh := (rect.Dy() + block - 1) / block
	small := image.NewRGBA(image.Rect(0, 0, sw, sh))
	xdraw.ApproxBiLinear.Scale(small, small.Bounds(), r.Base, rect, draw.Src, nil)
	xdraw.NearestNeighbor.Scale(dst, rect, small, small.Bounds(), draw.Src, nil)
}

func (r *Renderer) renderMagnifier(dst *image.RGBA, a *annotation.Annotation) {
	pts := a.PixelPoints(r.Display)
	if len(pts) < 2 {
		return
	}
	source, lens := pts[0], pts[1]
	width := a.StrokeWidthAt(r.Display)
	radius := a.MagnifierRadiusAt(r.Display)

	// Connector behind the lens.
	StrokeLine(dst, source, lens, a.Color, math.Max(1.5, width*0.75))

	// Magnified patch: the sampled square shrinks as magnification grows.
	diameter := int(math.Round(radius * 2))
	if diameter >= 2 {
		sampleSide := radius * 2 / a.Magnification()
		srcRect := image.Rect(
			int(math.Round(source.X-sampleSide/2)),
			int(math.Round(source.Y-sampleSide/2)),
			int(math.Round(source.X+sampleSide/2)),
			int(math.Round(source.Y+sampleSide/2)),
		).Intersect(r.Base.Bounds())
		if !srcRect.Empty() {
			patch := image.NewRGBA(image.Rect(0, 0, diameter, diameter))
			xdraw.CatmullRom.Scale(patch, patch.Bounds(), r.Base, srcRect, draw.Src, nil)
			mask := CircleMask(diameter)
			at := image.Rect(
				int(math.Round(lens.X-radius)),
				int(math.Round(lens.Y-radius)),
				int(math.Round(lens.X-radius))+diameter,
				int(math.Round(lens.Y-radius))+diameter,
			)
			draw.DrawMask(dst, at, patch, image.Point{}, mask, image.Point{}, draw.Over)
		}
	}

	// Lens rim: colored outer ring over a darker inner ring.
	ringW := math.Max(2, width)
	StrokeCircle(dst, lens, radius, color.RGBA{0, 0, 0, 120}, ringW+2)
	StrokeCircle(dst, lens, radius, a.Color, ringW)

	// Source marker.
	FillCircle(dst, source, annotation.SourceMarkerRadius(a, r.Display), a.Color)
	StrokeCircle(dst, source, annotation.SourceMarkerRadius(a, r.Display), color.RGBA{255, 255, 255, 200}, 1.5)

	if r.Interactive {
		// Resize handle on the lens edge.
		handle := geom.Pt(lens.X+radius, lens.Y)
		FillCircle(dst, handle, math.Max(4, ringW*1.2), color.RGBA{255, 255, 255, 255})
		StrokeCircle(dst, handle, math.Max(4, ringW*1.2), a.Color, 1.5)
	}
}

func (r *Renderer) renderImageOverlay(dst *image.RGBA, a *annotation.Annotation) {
	rect := pixelRect(a.BoundsRect(r.Display)).Intersect(dst.Bounds())
	if rect.Empty() {
		return
	}
	corner := a.ImageCornerRadius
	if corner <= 0 {
		corner = 8
	}
	cornerPix := corner * a.Scale(r.Display.MinDim())

	var src image.Image
	if r.Images != nil && a.ImagePath != "" {
		if img, ok := r.Images.Image(a.ImagePath); ok {
			src = img
		}
	}
	if src == nil {
		// Placeholder: translucent panel with a crossed border.
		FillRect(dst, geomRect(rect), color.RGBA{128, 128, 128, 90})
		StrokeRect(dst, geomRect(rect), color.RGBA{200, 200, 200, 180}, 2)
		StrokeLine(dst, geomRect(rect).Min, geomRect(rect).Max, color.RGBA{200, 200, 200, 180}, 2)
		return
	}

	// Aspect-fill the source into the rect, clipped to rounded corners.
	tmp := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	sb := src.Bounds()
	fill := geom.AspectFill(float64(sb.Dx()), float64(sb.Dy()),
		geom.Rect{Max: geom.Pt(float64(rect.Dx()), float64(rect.Dy()))})
	fillRect := image.Rect(
		int(math.Round(fill.Min.X)), int(math.Round(fill.Min.Y)),
		int(math.Round(fill.Max.X)), int(math.Round(fill.Max.Y)),
	)
	xdraw.CatmullRom.Scale(tmp, fillRect, src, sb, draw.Src, nil)
	mask := RoundedRectMask(rect.Dx(), rect.Dy(), cornerPix)
	draw.DrawMask(dst, rect, tmp, image.Point{}, mask, image.Point{}, draw.Over)

	// Subtle border so overlays read as inserts.
	StrokeRect(dst, geomRect(rect).Inset(0.5), color.RGBA{255, 255, 255, 70}, 1.5)
}

func (r *Renderer) renderText(dst *image.RGBA, a *annotation.Annotation) {
	if len(a.Points) == 0 || a.Text == "" {
		return
	}
	anchor := canvas.ToPixel(a.Points[0], r.Display)
	size := a.FontSizeAt(r.Display)
	lineH := size * 1.3
	for i, line := range strings.Split(a.Text, "\n") {
		DrawString(dst, line, geom.Pt(anchor.X, anchor.Y+float64(i)*lineH), a.Color, size)
	}
}

func pixelRect(r geom.Rect) image.Rectangle {
	return image.Rect(
		int(math.Floor(r.Min.X)), int(math.Floor(r.Min.Y)),
		int(math.Ceil(r.Max.X)), int(math.Ceil(r.Max.Y)),
	)
}

func geomRect(r image.Rectangle) geom.Rect {
	return geom.Rect{
		Min: geom.Pt(float64(r.Min.X), float64(r.Min.Y)),
		Max: geom.Pt(float64(r.Max.X), float64(r.Max.Y)),
	}
}
