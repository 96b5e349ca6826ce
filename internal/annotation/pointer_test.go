package annotation

import (
	"math"
	"testing"

	"github.com/example/snapmark/internal/canvas"
	"github.com/example/snapmark/internal/geom"
)

func newTestMachine() (*Machine, *Editor) {
	e := NewEditor()
	m := NewMachine(e, canvas.Sz(400, 400))
	return m, e
}

func TestDragCommitsRect(t *testing.T) {
	m, e := newTestMachine()
	m.SetTool(ToolRect)
	m.PointerDown(geom.Pt(100, 100), false)
	m.PointerMove(geom.Pt(200, 150), false)
	m.PointerUp(geom.Pt(300, 300), false)

	if e.Len() != 1 {
		t.Fatalf("len = %d", e.Len())
	}
	a := e.At(0)
	if a.Tool != ToolRect {
		t.Fatalf("tool = %v", a.Tool)
	}
	want := []geom.Point{geom.Pt(0.25, 0.25), geom.Pt(0.75, 0.75)}
	for i, p := range want {
		if a.Points[i].Distance(p) > 1e-9 {
			t.Fatalf("point %d = %v, want %v", i, a.Points[i], p)
		}
	}
	if a.RefMinDim != 400 {
		t.Fatalf("ref min dim = %v", a.RefMinDim)
	}
}

func TestTinyDragIsDiscarded(t *testing.T) {
	m, e := newTestMachine()
	m.SetTool(ToolRect)
	m.PointerDown(geom.Pt(100, 100), false)
	m.PointerUp(geom.Pt(102, 101), false)
	if e.Len() != 0 {
		t.Fatalf("tiny drag committed: len = %d", e.Len())
	}
	if e.Current() != nil {
		t.Fatal("in-progress annotation not cleared")
	}
}

func TestStickerCommitsOnClick(t *testing.T) {
	m, e := newTestMachine()
	m.SetTool(ToolNumberBadge)
	m.PointerDown(geom.Pt(200, 200), false)
	m.PointerUp(geom.Pt(200, 200), false)
	m.PointerDown(geom.Pt(300, 300), false)
	m.PointerUp(geom.Pt(300, 300), false)

	if e.Len() != 2 {
		t.Fatalf("len = %d", e.Len())
	}
	if e.At(0).Text != "1" || e.At(1).Text != "2" {
		t.Fatalf("badge labels %q, %q", e.At(0).Text, e.At(1).Text)
	}
}

func TestTextGestureDefersToCallback(t *testing.T) {
	m, e := newTestMachine()
	m.SetTool(ToolText)
	var asked bool
	m.OnTextRequest(func(anchor geom.Point) { asked = true })

	m.PointerDown(geom.Pt(100, 200), false)
	m.PointerUp(geom.Pt(100, 200), false)
	if !asked {
		t.Fatal("text request callback not fired")
	}
	if e.Len() != 0 {
		t.Fatal("text committed before input arrived")
	}
	m.CommitText("note")
	if e.Len() != 1 || e.At(0).Text != "note" {
		t.Fatalf("text commit failed: len=%d", e.Len())
	}

	// Empty input cancels.
	m.PointerDown(geom.Pt(150, 200), false)
	m.PointerUp(geom.Pt(150, 200), false)
	m.CommitText("")
	if e.Len() != 1 {
		t.Fatal("empty text committed")
	}
}

func TestFreehandCollectsPointsAndConstrains(t *testing.T) {
	m, e := newTestMachine()
	m.SetTool(ToolFreehand)
	m.PointerDown(geom.Pt(100, 100), false)
	m.PointerMove(geom.Pt(120, 110), false)
	m.PointerMove(geom.Pt(140, 105), false)
	m.PointerUp(geom.Pt(160, 120), false)
	if e.Len() != 1 {
		t.Fatalf("len = %d", e.Len())
	}
	if got := len(e.At(0).Points); got < 4 {
		t.Fatalf("freehand collected %d points", got)
	}

	// Constrained freehand degrades to a two-point segment. The gesture
	// starts clear of the first stroke so it draws instead of dragging it.
	m.PointerDown(geom.Pt(100, 300), true)
	m.PointerMove(geom.Pt(150, 308), true)
	m.PointerUp(geom.Pt(200, 304), true)
	if e.Len() != 2 {
		t.Fatalf("constrained gesture not committed: len = %d", e.Len())
	}
	a := e.At(1)
	if len(a.Points) != 2 {
		t.Fatalf("constrained freehand has %d points", len(a.Points))
	}
	// The 45 degree snap flattened the near-horizontal drag.
	if math.Abs(a.Points[1].Y-a.Points[0].Y) > 1e-9 {
		t.Fatalf("segment not snapped horizontal: %v", a.Points)
	}
}

func TestConstrainedLineSnapsTo45(t *testing.T) {
	m, e := newTestMachine()
	m.SetTool(ToolLine)
	m.PointerDown(geom.Pt(100, 100), true)
	m.PointerUp(geom.Pt(200, 90), true)
	a := e.At(0)
	p0 := canvas.ToPixel(a.Points[0], m.Display())
	p1 := canvas.ToPixel(a.Points[1], m.Display())
	if math.Abs(p1.Y-p0.Y) > 1e-9 {
		t.Fatalf("line not snapped horizontal: %v -> %v", p0, p1)
	}
	// Drag distance is preserved by the snap.
	want := geom.Pt(200, 90).Distance(geom.Pt(100, 100))
	if math.Abs(p0.Distance(p1)-want) > 1e-9 {
		t.Fatalf("snap changed length: %v", p0.Distance(p1))
	}
}

func TestConstrainedRectSnapsSquare(t *testing.T) {
	m, e := newTestMachine()
	m.SetTool(ToolRect)
	m.PointerDown(geom.Pt(100, 100), true)
	m.PointerUp(geom.Pt(200, 140), true)
	a := e.At(0)
	r := a.BoundsRect(m.Display())
	if math.Abs(r.Width()-r.Height()) > 1e-9 {
		t.Fatalf("constrained rect not square: %v x %v", r.Width(), r.Height())
	}
	if math.Abs(r.Width()-100) > 1e-9 {
		t.Fatalf("square side = %v, want 100", r.Width())
	}
}

func TestDragTranslatesAndClampsToCanvas(t *testing.T) {
	m, e := newTestMachine()
	m.SetTool(ToolRect)
	m.PointerDown(geom.Pt(100, 100), false)
	m.PointerUp(geom.Pt(300, 300), false)

	// Grab the middle and drag far past the right edge.
	m.PointerDown(geom.Pt(200, 200), false)
	m.PointerMove(geom.Pt(900, 200), false)
	m.PointerUp(geom.Pt(900, 200), false)

	a := e.At(0)
	r := a.BoundsRect(m.Display())
	if math.Abs(r.Max.X-400) > 1e-9 {
		t.Fatalf("drag not clamped at right edge: %v", r.Max.X)
	}
	if math.Abs(r.Width()-200) > 1e-9 {
		t.Fatalf("drag changed size: %v", r.Width())
	}
	// One undo restores the pre-drag position.
	e.Undo()
	r = e.At(0).BoundsRect(m.Display())
	if math.Abs(r.Min.X-100) > 1e-9 {
		t.Fatalf("undo did not restore drag: %v", r.Min.X)
	}
}

func TestClickOnAnnotationAddsNoUndoStep(t *testing.T) {
	m, e := newTestMachine()
	m.SetTool(ToolRect)
	m.PointerDown(geom.Pt(100, 100), false)
	m.PointerUp(geom.Pt(300, 300), false)

	// Press and release in place on the rectangle's edge.
	m.PointerDown(geom.Pt(100, 200), false)
	m.PointerUp(geom.Pt(100, 200), false)
	if e.Len() != 1 {
		t.Fatalf("len = %d", e.Len())
	}

	// The only undo step is the original commit.
	e.Undo()
	if e.Len() != 0 {
		t.Fatalf("stationary click pushed an undo step: len = %d", e.Len())
	}
}

func TestCurveHandleDragReshapesArrow(t *testing.T) {
	m, e := newTestMachine()
	m.SetTool(ToolStraightArrow)
	m.PointerDown(geom.Pt(100, 200), false)
	m.PointerUp(geom.Pt(300, 200), false)

	// The straight arrow's handle sits at the chord midpoint.
	m.PointerDown(geom.Pt(200, 200), false)
	m.PointerMove(geom.Pt(200, 150), false)
	m.PointerUp(geom.Pt(200, 150), false)

	a := e.At(0)
	if a.Tool != ToolCurvedArrow {
		t.Fatalf("reshape left tool = %v", a.Tool)
	}
	if !a.HasCustomCurveControl {
		t.Fatal("custom control flag not set")
	}
	apex := a.Curve(m.Display()).Eval(0.5)
	if apex.Distance(geom.Pt(200, 150)) > 1e-6 {
		t.Fatalf("apex = %v, want (200,150)", apex)
	}
	if math.Abs(math.Abs(a.CurveOffset)-50) > 1e-6 {
		t.Fatalf("curve offset = %v, want magnitude 50", a.CurveOffset)
	}
}

func TestMagnifierResizeClampsToEdges(t *testing.T) {
	m, e := newTestMachine()
	m.SetTool(ToolMagnifier)
	m.PointerDown(geom.Pt(100, 100), false)
	m.PointerUp(geom.Pt(200, 200), false)

	a := e.At(0)
	// Default radius is 0.08*400 = 32px.
	if got := a.MagnifierRadiusAt(m.Display()); math.Abs(got-32) > 1e-9 {
		t.Fatalf("default radius = %v, want 32", got)
	}

	// Grab the lens edge and drag outward.
	m.PointerDown(geom.Pt(200+32, 200), false)
	m.PointerMove(geom.Pt(200+120, 200), false)
	m.PointerUp(geom.Pt(200+120, 200), false)

	a = e.At(0)
	if got := a.MagnifierRadiusAt(m.Display()); math.Abs(got-120) > 1e-9 {
		t.Fatalf("resized radius = %v, want 120", got)
	}

	// Dragging past the canvas clamps to the nearest-edge distance (200).
	m.PointerDown(geom.Pt(200+120, 200), false)
	m.PointerMove(geom.Pt(200+390, 200), false)
	m.PointerUp(geom.Pt(200+390, 200), false)
	a = e.At(0)
	if got := a.MagnifierRadiusAt(m.Display()); math.Abs(got-200) > 1e-9 {
		t.Fatalf("radius not clamped at edge: %v", got)
	}

	// Shrinking bottoms out at 55% of the default.
	m.PointerDown(geom.Pt(200, 200+200), false) // edge at radius 200
	m.PointerMove(geom.Pt(200, 202), false)
	m.PointerUp(geom.Pt(200, 202), false)
	a = e.At(0)
	if got := a.MagnifierRadiusAt(m.Display()); math.Abs(got-32*0.55) > 1e-9 {
		t.Fatalf("radius not clamped at minimum: %v", got)
	}
}

func TestMagnifierResizeSurvivesDisplayChange(t *testing.T) {
	m, e := newTestMachine()
	m.SetTool(ToolMagnifier)
	m.PointerDown(geom.Pt(100, 100), false)
	m.PointerUp(geom.Pt(200, 200), false)

	m.PointerDown(geom.Pt(232, 200), false)
	m.PointerMove(geom.Pt(320, 200), false)
	m.PointerUp(geom.Pt(320, 200), false)

	a := e.At(0)
	if got := a.MagnifierRadiusAt(m.Display()); math.Abs(got-120) > 1e-9 {
		t.Fatalf("resized radius = %v, want 120", got)
	}
	// The stored radius is reference-relative, so doubling the canvas
	// doubles the lens.
	if got := a.MagnifierRadiusAt(canvas.Sz(800, 800)); math.Abs(got-240) > 1e-9 {
		t.Fatalf("radius at 800x800 = %v, want 240", got)
	}
}

func TestImageOverlayRequiresImage(t *testing.T) {
	m, e := newTestMachine()
	m.SetTool(ToolImageOverlay)
	m.PointerDown(geom.Pt(100, 100), false)
	m.PointerUp(geom.Pt(300, 300), false)
	if e.Len() != 0 {
		t.Fatal("overlay committed without an image")
	}

	m.SetOverlayImage("/tmp/pic.png")
	m.PointerDown(geom.Pt(100, 100), false)
	m.PointerUp(geom.Pt(300, 300), false)
	if e.Len() != 1 || e.At(0).ImagePath != "/tmp/pic.png" {
		t.Fatalf("overlay not committed: len=%d", e.Len())
	}
}

func TestImageOverlayTinyDragUsesDefaultSize(t *testing.T) {
	m, e := newTestMachine()
	m.SetTool(ToolImageOverlay)
	m.SetOverlayImage("/tmp/pic.png")
	m.SetOverlaySizer(func(path string) (int, int, bool) { return 200, 100, true })

	m.PointerDown(geom.Pt(50, 50), false)
	m.PointerUp(geom.Pt(51, 51), false)
	if e.Len() != 1 {
		t.Fatalf("default overlay not committed: len=%d", e.Len())
	}
	r := e.At(0).BoundsRect(m.Display())
	// Centered, aspect-fit into the middle 40% of the canvas.
	if c := r.Center(); c.Distance(geom.Pt(200, 200)) > 1e-9 {
		t.Fatalf("default overlay not centered: %v", c)
	}
	if math.Abs(r.Width()/r.Height()-2) > 1e-9 {
		t.Fatalf("default overlay lost aspect: %v x %v", r.Width(), r.Height())
	}
}

func TestSetToolCancelsGesture(t *testing.T) {
	m, e := newTestMachine()
	m.SetTool(ToolRect)
	m.PointerDown(geom.Pt(100, 100), false)
	m.PointerMove(geom.Pt(200, 200), false)
	m.SetTool(ToolLine)
	if e.Current() != nil {
		t.Fatal("tool change kept in-progress annotation")
	}
	if m.Phase() != PhaseIdle {
		t.Fatalf("phase = %v", m.Phase())
	}
}
