package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"testing"

	"github.com/example/snapmark/internal/annotation"
	"github.com/example/snapmark/internal/canvas"
	"github.com/example/snapmark/internal/geom"
)

func uniformRGBA(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

var (
	red  = color.RGBA{255, 0, 0, 255}
	gray = color.RGBA{180, 180, 180, 255}
)

func TestRectangleScalesAcrossCanvases(t *testing.T) {
	// Rectangle drawn from (50,50) to (150,100) in a 300x200 canvas.
	author := canvas.Sz(300, 200)
	a := annotation.Annotation{
		Tool:        annotation.ToolRect,
		Color:       red,
		StrokeWidth: 2,
		RefMinDim:   author.MinDim(),
		Points: []geom.Point{
			canvas.ToUnit(geom.Pt(50, 50), author),
			canvas.ToUnit(geom.Pt(150, 100), author),
		},
	}

	// Rendered at 600x400 the rectangle occupies (100,100)-(300,200).
	target := canvas.Sz(600, 400)
	r := a.BoundsRect(target)
	if r.Min.Distance(geom.Pt(100, 100)) > 1e-6 || r.Max.Distance(geom.Pt(300, 200)) > 1e-6 {
		t.Fatalf("bounds = %+v, want (100,100)-(300,200)", r)
	}

	base := uniformRGBA(600, 400, gray)
	out := uniformRGBA(600, 400, gray)
	New(base, false).Render(out, []annotation.Annotation{a})

	// Stroke pixels land on the edges; the interior stays untouched.
	if got := out.RGBAAt(200, 100); got.R != 255 || got.G == 180 {
		t.Fatalf("top edge not stroked: %+v", got)
	}
	if got := out.RGBAAt(100, 150); got.R != 255 {
		t.Fatalf("left edge not stroked: %+v", got)
	}
	if got := out.RGBAAt(200, 150); got != gray {
		t.Fatalf("interior was painted: %+v", got)
	}
}

func TestExportCropDeterminism(t *testing.T) {
	base := uniformRGBA(1000, 800, gray)
	crop := geom.Rect{Min: geom.Pt(0.25, 0.25), Max: geom.Pt(0.75, 0.75)}
	out := Export(base, nil, ExportOptions{Crop: &crop})
	if out.Bounds().Dx() != 500 || out.Bounds().Dy() != 400 {
		t.Fatalf("crop output %dx%d, want 500x400", out.Bounds().Dx(), out.Bounds().Dy())
	}
}

func TestCropRectFlipsVertically(t *testing.T) {
	// The crop origin is bottom-left: maxY maps to the top edge.
	r := geom.Rect{Min: geom.Pt(0.25, 0.25), Max: geom.Pt(0.75, 0.75)}
	got := CropRectPixels(r, 1000, 800)
	want := image.Rect(250, 200, 750, 600)
	if !got.Eq(want) {
		t.Fatalf("crop rect = %v, want %v", got, want)
	}
}

func TestTinyCropIsSkipped(t *testing.T) {
	base := uniformRGBA(100, 100, gray)
	crop := geom.Rect{Min: geom.Pt(0.5, 0.5), Max: geom.Pt(0.5001, 0.5001)}
	out := Export(base, nil, ExportOptions{Crop: &crop})
	if out.Bounds().Dx() != 100 || out.Bounds().Dy() != 100 {
		t.Fatalf("sub-pixel crop was applied: %v", out.Bounds())
	}
}

func TestBlurSamplesFrozenBase(t *testing.T) {
	// A rectangle stroke, then a blur stacked over it. The blur must show
	// pixels from the unannotated base, never the stroke.
	region := []geom.Point{geom.Pt(0.25, 0.25), geom.Pt(0.75, 0.75)}
	list := []annotation.Annotation{
		{Tool: annotation.ToolRect, Color: red, StrokeWidth: 6, RefMinDim: 200, Points: region},
		{Tool: annotation.ToolBlur, BlurStrength: 10, RefMinDim: 200, Points: region},
	}
	base := uniformRGBA(200, 200, gray)
	out := Export(base, list, ExportOptions{})

	// A point on the rect's top edge, inside the blur region.
	if got := out.RGBAAt(100, 50); got != gray {
		t.Fatalf("blur leaked annotation pixels: %+v", got)
	}
}

func TestMagnifierSamplesFrozenBase(t *testing.T) {
	// Base has a distinctive pixel block at the source point; the lens must
	// show base pixels even with a stroke drawn over the source first.
	base := uniformRGBA(400, 400, gray)
	draw.Draw(base, image.Rect(90, 90, 110, 110), image.NewUniform(red), image.Point{}, draw.Src)

	list := []annotation.Annotation{
		{
			Tool:        annotation.ToolRect,
			Color:       color.RGBA{0, 0, 255, 255},
			StrokeWidth: 40,
			RefMinDim:   400,
			Points:      []geom.Point{geom.Pt(0.2, 0.2), geom.Pt(0.3, 0.3)},
		},
		{
			Tool:        annotation.ToolMagnifier,
			Color:       color.RGBA{0, 200, 0, 255},
			StrokeWidth: 2,
			RefMinDim:   400,
			Points:      []geom.Point{geom.Pt(0.25, 0.25), geom.Pt(0.75, 0.75)},
		},
	}
	out := Export(base, list, ExportOptions{})

	// The lens center magnifies the red block at the source point.
	if got := out.RGBAAt(300, 300); got.R < 200 || got.B > 60 {
		t.Fatalf("lens center = %+v, want magnified red from the base", got)
	}
}

func TestHighlighterIsTranslucent(t *testing.T) {
	list := []annotation.Annotation{{
		Tool:        annotation.ToolHighlighter,
		Color:       color.RGBA{255, 255, 0, 255},
		StrokeWidth: 4,
		RefMinDim:   200,
		Points:      []geom.Point{geom.Pt(0.1, 0.5), geom.Pt(0.9, 0.5)},
	}}
	base := uniformRGBA(200, 200, color.RGBA{0, 0, 0, 255})
	out := Export(base, list, ExportOptions{})

	got := out.RGBAAt(100, 100)
	// 40% yellow over black: visibly tinted but far from opaque yellow.
	if got.R < 60 || got.R > 160 {
		t.Fatalf("highlighter opacity off: %+v", got)
	}
	if got.B > 30 {
		t.Fatalf("highlighter hue off: %+v", got)
	}
}

func TestExportBackgroundPadding(t *testing.T) {
	base := uniformRGBA(100, 80, gray)
	bg := BackgroundOptions{
		Padding: 48,
		Color:   color.RGBA{10, 10, 10, 255},
	}
	out := Export(base, nil, ExportOptions{Background: &bg})
	if out.Bounds().Dx() != 196 || out.Bounds().Dy() != 176 {
		t.Fatalf("background output %dx%d, want 196x176", out.Bounds().Dx(), out.Bounds().Dy())
	}
	if got := out.RGBAAt(5, 5); got.R != 10 {
		t.Fatalf("padding not filled: %+v", got)
	}
	if got := out.RGBAAt(98, 88); got != gray {
		t.Fatalf("shot not centered: %+v", got)
	}
}

func TestInteractiveHandleOmittedFromExport(t *testing.T) {
	a := annotation.Annotation{
		Tool:        annotation.ToolMagnifier,
		Color:       red,
		StrokeWidth: 2,
		RefMinDim:   400,
		Points:      []geom.Point{geom.Pt(0.2, 0.2), geom.Pt(0.5, 0.5)},
	}
	base := uniformRGBA(400, 400, gray)

	exported := uniformRGBA(400, 400, gray)
	New(base, false).Render(exported, []annotation.Annotation{a})

	interactive := uniformRGBA(400, 400, gray)
	New(base, true).Render(interactive, []annotation.Annotation{a})

	// The resize handle sits on the lens edge at (200+32, 200); it is white
	// in interactive mode only.
	handle := interactive.RGBAAt(232, 200)
	if handle.R < 200 || handle.G < 200 || handle.B < 200 {
		t.Fatalf("interactive handle missing: %+v", handle)
	}
	plain := exported.RGBAAt(232, 200)
	if plain.G > 200 && plain.B > 200 {
		t.Fatalf("export drew the resize handle: %+v", plain)
	}
}

func TestContrastColorThreshold(t *testing.T) {
	if c := contrastColor(color.RGBA{255, 255, 255, 255}); c.R != 20 {
		t.Fatalf("white badge got %+v, want dark text", c)
	}
	if c := contrastColor(color.RGBA{180, 0, 0, 255}); c.R != 255 {
		t.Fatalf("dark red badge got %+v, want white text", c)
	}
	// Yellow is bright despite a strong hue.
	if c := contrastColor(color.RGBA{255, 220, 0, 255}); c.R != 20 {
		t.Fatalf("yellow badge got %+v, want dark text", c)
	}
}

func TestNumberBadgeRenders(t *testing.T) {
	list := []annotation.Annotation{{
		Tool:        annotation.ToolNumberBadge,
		Color:       red,
		StrokeWidth: 4,
		RefMinDim:   200,
		Points:      []geom.Point{geom.Pt(0.5, 0.5)},
	}}
	base := uniformRGBA(200, 200, gray)
	out := Export(base, list, ExportOptions{})
	if got := out.RGBAAt(100, 100); got == gray {
		t.Fatal("badge did not render at its anchor")
	}
}

func TestImageOverlayPlaceholderWhenMissing(t *testing.T) {
	list := []annotation.Annotation{{
		Tool:      annotation.ToolImageOverlay,
		ImagePath: "/nonexistent.png",
		RefMinDim: 200,
		Points:    []geom.Point{geom.Pt(0.25, 0.25), geom.Pt(0.75, 0.75)},
	}}
	base := uniformRGBA(200, 200, gray)
	out := Export(base, list, ExportOptions{})
	if got := out.RGBAAt(100, 100); got == gray {
		t.Fatal("placeholder not drawn for missing image")
	}
}

func TestArrowHeadWingAngle(t *testing.T) {
	q := geom.QuadBez{P0: geom.Pt(0, 0), P1: geom.Pt(50, 0), P2: geom.Pt(100, 0)}
	tip, left, right, ok := arrowHead(q, 4)
	if !ok {
		t.Fatal("no head for a straight shaft")
	}
	if tip != geom.Pt(100, 0) {
		t.Fatalf("tip = %v", tip)
	}
	// Both wings sweep 30 degrees off the shaft axis.
	for _, wing := range []geom.Point{left, right} {
		v := tip.Sub(wing)
		angle := math.Atan2(math.Abs(v.Y), v.X)
		if math.Abs(angle-math.Pi/6) > 1e-9 {
			t.Errorf("wing angle = %v rad, want pi/6", angle)
		}
	}
	// Head length stays max(12, 5w).
	if got := tip.X - left.X; math.Abs(got-20) > 1e-9 {
		t.Errorf("head length = %v, want 20", got)
	}
}
