package geom

import (
	"math"
	"testing"
)

func TestSegmentDistance(t *testing.T) {
	a := Pt(0, 0)
	b := Pt(10, 0)
	if d := SegmentDistance(Pt(5, 3), a, b); math.Abs(d-3) > 1e-9 {
		t.Fatalf("perpendicular distance = %v, want 3", d)
	}
	// Beyond the endpoint the distance is measured to the endpoint.
	if d := SegmentDistance(Pt(14, 3), a, b); math.Abs(d-5) > 1e-9 {
		t.Fatalf("endpoint distance = %v, want 5", d)
	}
	// Degenerate segment behaves like point distance.
	if d := SegmentDistance(Pt(3, 4), a, a); math.Abs(d-5) > 1e-9 {
		t.Fatalf("degenerate distance = %v, want 5", d)
	}
}

func TestPolylineDistance(t *testing.T) {
	pts := []Point{{0, 0}, {10, 0}, {10, 10}}
	if d := PolylineDistance(Pt(12, 5), pts); math.Abs(d-2) > 1e-9 {
		t.Fatalf("distance = %v, want 2", d)
	}
	if d := PolylineDistance(Pt(1, 1), nil); !math.IsInf(d, 1) {
		t.Fatalf("empty polyline distance = %v, want +Inf", d)
	}
	if d := PolylineDistance(Pt(3, 4), pts[:1]); math.Abs(d-5) > 1e-9 {
		t.Fatalf("single point distance = %v, want 5", d)
	}
}

func TestRectFromCorners(t *testing.T) {
	r := RectFromCorners(Pt(5, 1), Pt(2, 8))
	if r.Min != Pt(2, 1) || r.Max != Pt(5, 8) {
		t.Fatalf("unexpected rect %+v", r)
	}
	if !r.Contains(Pt(3, 4)) {
		t.Error("expected interior point to be contained")
	}
	if r.Contains(Pt(6, 4)) {
		t.Error("expected exterior point to be rejected")
	}
}

func TestAspectFitLetterboxes(t *testing.T) {
	dst := Rect{Max: Pt(100, 100)}
	r := AspectFit(200, 100, dst)
	if math.Abs(r.Width()-100) > 1e-9 || math.Abs(r.Height()-50) > 1e-9 {
		t.Fatalf("fit rect %v x %v, want 100 x 50", r.Width(), r.Height())
	}
	if math.Abs(r.Min.Y-25) > 1e-9 {
		t.Fatalf("fit rect not centered: min %v", r.Min)
	}
}

func TestAspectFillCovers(t *testing.T) {
	dst := Rect{Max: Pt(100, 100)}
	r := AspectFill(200, 100, dst)
	if math.Abs(r.Width()-200) > 1e-9 || math.Abs(r.Height()-100) > 1e-9 {
		t.Fatalf("fill rect %v x %v, want 200 x 100", r.Width(), r.Height())
	}
	if math.Abs(r.Min.X+50) > 1e-9 {
		t.Fatalf("fill rect not centered: min %v", r.Min)
	}
}

func TestAspectDegenerateFallsBackToDst(t *testing.T) {
	dst := Rect{Min: Pt(1, 2), Max: Pt(9, 8)}
	if r := AspectFit(0, 10, dst); r != dst {
		t.Fatalf("degenerate fit = %+v, want dst", r)
	}
	if r := AspectFill(10, 0, dst); r != dst {
		t.Fatalf("degenerate fill = %+v, want dst", r)
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 10); got != 5 {
		t.Errorf("Clamp(5,0,10) = %v", got)
	}
	if got := Clamp(-1, 0, 10); got != 0 {
		t.Errorf("Clamp(-1,0,10) = %v", got)
	}
	if got := Clamp(11, 0, 10); got != 10 {
		t.Errorf("Clamp(11,0,10) = %v", got)
	}
}
