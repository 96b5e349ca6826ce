package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/example/snapmark/internal/annotation"
	"github.com/example/snapmark/internal/geom"
)

// BackgroundOptions configures the decorative frame applied to an exported
// image: solid padding, rounded shot corners and an optional drop shadow.
type BackgroundOptions struct {
	Padding      int
	Color        color.RGBA
	CornerRadius float64
	Shadow       bool
}

// DefaultBackgroundOptions returns the standard decorative frame.
func DefaultBackgroundOptions() BackgroundOptions {
	return BackgroundOptions{
		Padding:      48,
		Color:        color.RGBA{38, 41, 54, 255},
		CornerRadius: 14,
		Shadow:       true,
	}
}

// ExportOptions controls the export pipeline. Crop, when set, is in unit-space
// coordinates with a bottom-left origin. Background, when set, wraps the final
// image in a decorative frame.
type ExportOptions struct {
	Crop       *geom.Rect
	Background *BackgroundOptions
	Images     ImageSource
}

// Export renders annotations onto a copy of base at source resolution, then
// applies the optional crop and decorative background. The original base is
// kept frozen for blur and magnifier sampling, so effect annotations never
// pick up other annotations regardless of z-order.
func Export(base image.Image, list []annotation.Annotation, opts ExportOptions) *image.RGBA {
	bounds := base.Bounds()
	frozen := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(frozen, frozen.Bounds(), base, bounds.Min, draw.Src)

	out := image.NewRGBA(frozen.Bounds())
	copy(out.Pix, frozen.Pix)

	r := New(frozen, false)
	r.Images = opts.Images
	r.Render(out, list)

	if opts.Crop != nil {
		out = cropImage(out, *opts.Crop)
	}
	if opts.Background != nil {
		out = applyBackground(out, *opts.Background)
	}
	return out
}

// CropRectPixels maps a unit-space crop rectangle with a bottom-left origin
// onto pixel coordinates of a w by h image. The vertical flip places the crop
// region's top edge at (1 - maxY).
func CropRectPixels(r geom.Rect, w, h int) image.Rectangle {
	x := r.Min.X * float64(w)
	y := (1 - r.Max.Y) * float64(h)
	return image.Rect(
		int(math.Round(x)),
		int(math.Round(y)),
		int(math.Round(x+r.Width()*float64(w))),
		int(math.Round(y+r.Height()*float64(h))),
	)
}

func cropImage(img *image.RGBA, crop geom.Rect) *image.RGBA {
	b := img.Bounds()
	rect := CropRectPixels(crop, b.Dx(), b.Dy()).Intersect(b)
	if rect.Dx() < 1 || rect.Dy() < 1 {
		return img
	}
	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(out, out.Bounds(), img, rect.Min, draw.Src)
	return out
}

func applyBackground(shot *image.RGBA, o BackgroundOptions) *image.RGBA {
	content := shot
	if o.CornerRadius > 0 {
		b := shot.Bounds()
		rounded := image.NewRGBA(b)
		mask := RoundedRectMask(b.Dx(), b.Dy(), o.CornerRadius)
		draw.DrawMask(rounded, b, shot, b.Min, mask, image.Point{}, draw.Src)
		content = rounded
	}
	if o.Shadow {
		content = ApplyShadow(content, DefaultShadowOptions())
	}
	pad := o.Padding
	if pad < 0 {
		pad = 0
	}
	cb := content.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, cb.Dx()+2*pad, cb.Dy()+2*pad))
	draw.Draw(out, out.Bounds(), image.NewUniform(o.Color), image.Point{}, draw.Src)
	draw.Draw(out, cb.Sub(cb.Min).Add(image.Pt(pad, pad)), content, cb.Min, draw.Over)
	return out
}
