package annotation

import (
	"math"
	"testing"

	"github.com/example/snapmark/internal/canvas"
	"github.com/example/snapmark/internal/geom"
)

func TestToolNamesRoundTrip(t *testing.T) {
	for tool, name := range toolNames {
		got, ok := ToolFromName(name)
		if !ok || got != tool {
			t.Fatalf("ToolFromName(%q) = %v, %v", name, got, ok)
		}
	}
	if _, ok := ToolFromName("no-such-tool"); ok {
		t.Fatal("unknown name resolved")
	}
}

func TestStrokeWidthScalesWithMinDim(t *testing.T) {
	a := Annotation{
		Tool:        ToolRect,
		StrokeWidth: 4,
		RefMinDim:   200,
	}
	display := canvas.Sz(600, 400)
	if got := a.StrokeWidthAt(display); math.Abs(got-8) > 1e-9 {
		t.Fatalf("StrokeWidthAt(600x400) = %v, want 8", got)
	}
	// Same annotation on the authoring-sized canvas keeps its width.
	if got := a.StrokeWidthAt(canvas.Sz(300, 200)); math.Abs(got-4) > 1e-9 {
		t.Fatalf("StrokeWidthAt(300x200) = %v, want 4", got)
	}
}

func TestBoundsRectNormalizes(t *testing.T) {
	a := Annotation{
		Tool:   ToolRect,
		Points: []geom.Point{geom.Pt(0.75, 0.25), geom.Pt(0.25, 0.75)},
	}
	r := a.BoundsRect(canvas.Sz(400, 400))
	if r.Min.X != 100 || r.Min.Y != 100 || r.Max.X != 300 || r.Max.Y != 300 {
		t.Fatalf("bounds = %+v", r)
	}
}

func TestStraightArrowCurveIsFlat(t *testing.T) {
	a := Annotation{
		Tool:      ToolStraightArrow,
		Points:    []geom.Point{geom.Pt(0.1, 0.5), geom.Pt(0.9, 0.5)},
		RefMinDim: 400,
	}
	q := a.Curve(canvas.Sz(400, 400))
	apex := q.Eval(0.5)
	chordMid := q.P0.Lerp(q.P2, 0.5)
	if apex.Distance(chordMid) > 1e-9 {
		t.Fatalf("straight arrow apex %v off chord midpoint %v", apex, chordMid)
	}
}

func TestCurvedArrowDefaultOffsetClamped(t *testing.T) {
	display := canvas.Sz(1000, 1000)
	long := Annotation{
		Tool:      ToolCurvedArrow,
		Points:    []geom.Point{geom.Pt(0.05, 0.5), geom.Pt(0.95, 0.5)},
		RefMinDim: 1000,
	}
	apex := long.Curve(display).Eval(0.5)
	mid := geom.Pt(500, 500)
	// Chord is 900 reference units; 900*0.28 exceeds the 120 cap.
	if got := apex.Distance(mid); math.Abs(got-120) > 1e-6 {
		t.Fatalf("long arrow apex offset = %v, want clamp at 120", got)
	}

	short := Annotation{
		Tool:      ToolCurvedArrow,
		Points:    []geom.Point{geom.Pt(0.50, 0.5), geom.Pt(0.53, 0.5)},
		RefMinDim: 1000,
	}
	apex = short.Curve(display).Eval(0.5)
	mid = geom.Pt(515, 500)
	// Chord is 30 reference units; 30*0.28 is below the 20 floor.
	if got := apex.Distance(mid); math.Abs(got-20) > 1e-6 {
		t.Fatalf("short arrow apex offset = %v, want clamp at 20", got)
	}
}

func TestCustomCurveControlPassesThroughApex(t *testing.T) {
	a := Annotation{
		Tool:                  ToolCurvedArrow,
		Points:                []geom.Point{geom.Pt(0.2, 0.5), geom.Pt(0.8, 0.5)},
		RefMinDim:             400,
		CurveControlOffset:    geom.Pt(0, -50),
		HasCustomCurveControl: true,
	}
	display := canvas.Sz(400, 400)
	apex := a.Curve(display).Eval(0.5)
	want := geom.Pt(200, 200-50)
	if apex.Distance(want) > 1e-9 {
		t.Fatalf("apex = %v, want %v", apex, want)
	}
	// The authored shape scales with the canvas.
	big := canvas.Sz(800, 800)
	apex = a.Curve(big).Eval(0.5)
	want = geom.Pt(400, 400-100)
	if apex.Distance(want) > 1e-9 {
		t.Fatalf("scaled apex = %v, want %v", apex, want)
	}
}

func TestMagnifierDefaultsAndZoom(t *testing.T) {
	a := Annotation{Tool: ToolMagnifier, RefMinDim: 500}
	if got := a.DefaultMagnifierRadius(); math.Abs(got-40) > 1e-9 {
		t.Fatalf("default radius = %v, want 40", got)
	}
	if got := a.Magnification(); math.Abs(got-2) > 1e-9 {
		t.Fatalf("default magnification = %v, want 2", got)
	}
	a.MagnifierRadius = 80 // double the default
	if got := a.Magnification(); math.Abs(got-4) > 1e-9 {
		t.Fatalf("magnification at 2x radius = %v, want 4", got)
	}
	a.MagnifierRadius = 400 // far past the cap
	if got := a.Magnification(); math.Abs(got-4) > 1e-9 {
		t.Fatalf("magnification is uncapped: %v", got)
	}
}

func TestFontSizeDerivesFromStroke(t *testing.T) {
	a := Annotation{Tool: ToolText, StrokeWidth: 4, RefMinDim: 400}
	display := canvas.Sz(400, 400)
	if got := a.FontSizeAt(display); math.Abs(got-24) > 1e-9 {
		t.Fatalf("derived font size = %v, want 24", got)
	}
	a.StrokeWidth = 0
	if got := a.FontSizeAt(display); math.Abs(got-14) > 1e-9 {
		t.Fatalf("fallback font size = %v, want 14", got)
	}
}

func TestStickerLayoutVariants(t *testing.T) {
	display := canvas.Sz(400, 400)
	base := Annotation{
		StrokeWidth: 4,
		RefMinDim:   400,
		Points:      []geom.Point{geom.Pt(0.5, 0.5)},
	}

	plain := base
	plain.Tool = ToolCursor
	l := plain.Sticker(display)
	if l.HasCircle {
		t.Fatal("plain cursor has a badge circle")
	}
	if got := l.Symbol.Width(); math.Abs(got-28) > 1e-9 {
		t.Fatalf("symbol side = %v, want 28", got)
	}

	circled := base
	circled.Tool = ToolCursorCircled
	l = circled.Sticker(display)
	if !l.HasCircle {
		t.Fatal("circled cursor lacks badge circle")
	}
	if l.Circle.Width() <= l.Symbol.Width() {
		t.Fatalf("badge %v not larger than symbol %v", l.Circle.Width(), l.Symbol.Width())
	}

	typing := base
	typing.Tool = ToolTypingIndicator
	l = typing.Sticker(display)
	if l.Symbol.Width() <= l.Symbol.Height() {
		t.Fatalf("typing indicator not wide: %v x %v", l.Symbol.Width(), l.Symbol.Height())
	}
}

func TestCloneDoesNotAliasPoints(t *testing.T) {
	a := Annotation{Points: []geom.Point{geom.Pt(0.1, 0.1)}}
	b := a.Clone()
	b.Points[0] = geom.Pt(0.9, 0.9)
	if a.Points[0].X != 0.1 {
		t.Fatal("clone shares the points slice")
	}
}
