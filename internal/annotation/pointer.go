package annotation

import (
	"image/color"
	"math"
	"strconv"

	"github.com/example/snapmark/internal/canvas"
	"github.com/example/snapmark/internal/geom"
)

// Phase is the authoring state of the pointer machine.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDrawing
	PhaseDragging
	PhaseResizingMagnifier
	PhaseCurvingArrow
)

// minDragPixels is the drag distance below which a new in-progress
// annotation is discarded instead of committed, preventing accidental
// zero-length shapes.
const minDragPixels = 4.0

// Style carries the authoring settings applied to new annotations.
type Style struct {
	Color        color.RGBA
	StrokeWidth  float64
	FontSize     float64
	BlurStrength float64
}

// Machine translates pointer events into editor mutations. All coordinates
// entering the machine are display pixels; the machine normalizes them. It
// runs on the UI event goroutine and is not safe for concurrent use.
type Machine struct {
	editor  *Editor
	display canvas.Size
	phase   Phase
	tool    Tool
	style   Style

	numberSeq int

	pressPix geom.Point
	moved    float64

	// Gesture targets on existing annotations.
	targetIdx  int
	targetOrig Annotation

	overlayPath   string
	overlaySize   func(path string) (w, h int, ok bool)
	onTextRequest func(anchor geom.Point)

	pendingText *Annotation
}

// NewMachine creates a pointer machine bound to an editor and display size.
func NewMachine(editor *Editor, display canvas.Size) *Machine {
	return &Machine{
		editor:    editor,
		display:   display,
		tool:      ToolStraightArrow,
		numberSeq: 1,
		targetIdx: -1,
		style: Style{
			Color:       color.RGBA{R: 255, A: 255},
			StrokeWidth: 4,
		},
	}
}

// SetDisplay updates the current display size; unit-space geometry is
// unaffected.
func (m *Machine) SetDisplay(display canvas.Size) { m.display = display }

// Display returns the current display size.
func (m *Machine) Display() canvas.Size { return m.display }

// SetTool selects the active drawing tool and cancels any gesture.
func (m *Machine) SetTool(t Tool) {
	m.tool = t
	m.phase = PhaseIdle
	m.editor.SetCurrent(nil)
}

// Tool returns the active drawing tool.
func (m *Machine) Tool() Tool { return m.tool }

// SetStyle updates the authoring style for subsequent annotations.
func (m *Machine) SetStyle(s Style) { m.style = s }

// Style returns the current authoring style.
func (m *Machine) Style() Style { return m.style }

// Phase returns the machine's current authoring phase.
func (m *Machine) Phase() Phase { return m.phase }

// SetOverlayImage selects the source file for subsequent image-overlay
// annotations. Drawing an overlay with no image selected is discarded on
// release.
func (m *Machine) SetOverlayImage(path string) { m.overlayPath = path }

// SetOverlaySizer installs the lookup used to derive a default overlay size
// from the source image's dimensions.
func (m *Machine) SetOverlaySizer(fn func(path string) (w, h int, ok bool)) {
	m.overlaySize = fn
}

// OnTextRequest registers the callback fired when the text tool needs input;
// the gesture completes later through CommitText or CancelText.
func (m *Machine) OnTextRequest(fn func(anchor geom.Point)) { m.onTextRequest = fn }

// PointerDown starts a gesture at pixel point p. constrain reports whether
// the modifier key is held.
func (m *Machine) PointerDown(p geom.Point, constrain bool) {
	m.pressPix = p
	m.moved = 0

	list := m.editor.Annotations()

	// Curve handles take priority over everything else.
	if idx, ok := HitCurveHandle(list, p, m.display); ok {
		m.phase = PhaseCurvingArrow
		m.targetIdx = idx
		m.targetOrig = list[idx].Clone()
		m.reshapeCurve(p)
		return
	}

	if idx, ok := HitTest(list, p, m.display); ok {
		m.targetIdx = idx
		m.targetOrig = list[idx].Clone()
		if HitMagnifierEdge(&list[idx], p, m.display) {
			m.phase = PhaseResizingMagnifier
			m.resizeMagnifier(p)
		} else {
			m.phase = PhaseDragging
		}
		return
	}

	switch {
	case m.tool.IsSticker():
		a := m.newAnnotation()
		a.Points = []geom.Point{canvas.ToUnit(p, m.display)}
		if m.tool == ToolNumberBadge {
			a.Text = strconv.Itoa(m.numberSeq)
			m.numberSeq++
		}
		m.editor.Commit(a)
		m.phase = PhaseIdle

	case m.tool == ToolText:
		a := m.newAnnotation()
		a.Points = []geom.Point{canvas.ToUnit(p, m.display)}
		m.pendingText = &a
		m.phase = PhaseIdle
		if m.onTextRequest != nil {
			m.onTextRequest(p)
		}

	default:
		a := m.newAnnotation()
		unit := canvas.ToUnit(p, m.display)
		a.Points = []geom.Point{unit, unit}
		m.editor.SetCurrent(&a)
		m.phase = PhaseDrawing
	}
}

// PointerMove continues the active gesture.
func (m *Machine) PointerMove(p geom.Point, constrain bool) {
	if d := p.Distance(m.pressPix); d > m.moved {
		m.moved = d
	}

	switch m.phase {
	case PhaseDrawing:
		m.updateDrawing(p, constrain)
	case PhaseDragging:
		m.translateTarget(p)
	case PhaseResizingMagnifier:
		m.resizeMagnifier(p)
	case PhaseCurvingArrow:
		m.reshapeCurve(p)
	}
}

// PointerUp completes the active gesture.
func (m *Machine) PointerUp(p geom.Point, constrain bool) {
	if d := p.Distance(m.pressPix); d > m.moved {
		m.moved = d
	}
	switch m.phase {
	case PhaseDrawing:
		m.updateDrawing(p, constrain)
		m.finishDrawing(p)
	case PhaseDragging, PhaseResizingMagnifier, PhaseCurvingArrow:
		m.finishTargetGesture()
	}
	m.phase = PhaseIdle
	m.targetIdx = -1
}

// CommitText completes a pending text gesture. Empty text cancels.
func (m *Machine) CommitText(text string) {
	if m.pendingText == nil {
		return
	}
	if text == "" {
		m.pendingText = nil
		return
	}
	a := *m.pendingText
	a.Text = text
	m.editor.Commit(a)
	m.pendingText = nil
}

// CancelText discards a pending text gesture.
func (m *Machine) CancelText() { m.pendingText = nil }

func (m *Machine) newAnnotation() Annotation {
	return Annotation{
		ID:           m.editor.NextID(),
		Tool:         m.tool,
		Color:        m.style.Color,
		StrokeWidth:  m.style.StrokeWidth,
		FontSize:     m.style.FontSize,
		BlurStrength: m.style.BlurStrength,
		RefMinDim:    m.display.MinDim(),
		ImagePath:    m.overlayPathFor(m.tool),
	}
}

func (m *Machine) overlayPathFor(t Tool) string {
	if t == ToolImageOverlay {
		return m.overlayPath
	}
	return ""
}

func (m *Machine) updateDrawing(p geom.Point, constrain bool) {
	a := m.editor.Current()
	if a == nil {
		return
	}
	target := p
	if constrain {
		switch {
		case a.Tool.IsLineLike():
			target = snapAngle(m.pressPix, p)
		case a.Tool.IsShape():
			target = snapSquare(m.pressPix, p)
		}
	}
	unit := canvas.ToUnit(target, m.display)

	switch a.Tool {
	case ToolFreehand, ToolHighlighter:
		if constrain {
			// Constrained freehand degrades to a straight segment.
			a.Points = []geom.Point{canvas.ToUnit(m.pressPix, m.display), unit}
		} else {
			a.Points = append(a.Points, unit)
		}
	default:
		a.Points[len(a.Points)-1] = unit
	}
}

func (m *Machine) finishDrawing(p geom.Point) {
	a := m.editor.Current()
	m.editor.SetCurrent(nil)
	if a == nil {
		return
	}
	if m.moved < minDragPixels {
		if a.Tool == ToolImageOverlay {
			m.commitDefaultOverlay(a)
		}
		return
	}
	if a.Tool == ToolImageOverlay && a.ImagePath == "" {
		// No image chosen yet; nothing sensible to commit.
		return
	}
	m.editor.Commit(*a)
}

// commitDefaultOverlay places an overlay with a centered default size derived
// from the source image's aspect ratio when the drag was too small to define
// one.
func (m *Machine) commitDefaultOverlay(a *Annotation) {
	if a.ImagePath == "" || m.overlaySize == nil {
		return
	}
	w, h, ok := m.overlaySize(a.ImagePath)
	if !ok || w <= 0 || h <= 0 {
		return
	}
	dst := geom.Rect{
		Min: geom.Pt(m.display.Width*0.3, m.display.Height*0.3),
		Max: geom.Pt(m.display.Width*0.7, m.display.Height*0.7),
	}
	fit := geom.AspectFit(float64(w), float64(h), dst)
	a.Points = []geom.Point{
		canvas.ToUnit(fit.Min, m.display),
		canvas.ToUnit(fit.Max, m.display),
	}
	m.editor.Commit(*a)
}

// translateTarget moves the dragged annotation by the pointer delta, clamped
// so no point leaves the unit square.
func (m *Machine) translateTarget(p geom.Point) {
	a := m.editor.At(m.targetIdx)
	if a == nil {
		return
	}
	deltaPix := p.Sub(m.pressPix)
	delta := geom.Pt(deltaPix.X/m.display.Width, deltaPix.Y/m.display.Height)

	// Clamp the per-axis delta against the original point extents.
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, q := range m.targetOrig.Points {
		minX = math.Min(minX, q.X)
		minY = math.Min(minY, q.Y)
		maxX = math.Max(maxX, q.X)
		maxY = math.Max(maxY, q.Y)
	}
	delta.X = geom.Clamp(delta.X, -minX, 1-maxX)
	delta.Y = geom.Clamp(delta.Y, -minY, 1-maxY)

	pts := make([]geom.Point, len(m.targetOrig.Points))
	for i, q := range m.targetOrig.Points {
		pts[i] = q.Add(delta)
	}
	a.Points = pts
}

// resizeMagnifier updates the lens radius from the pointer distance, clamped
// between 55% of the derived default and the distance to the nearest canvas
// edge, then re-expressed in reference units.
func (m *Machine) resizeMagnifier(p geom.Point) {
	a := m.editor.At(m.targetIdx)
	if a == nil || a.Tool != ToolMagnifier || len(a.Points) < 2 {
		return
	}
	lens := canvas.ToPixel(a.Points[1], m.display)
	defaultPix := canvas.RefScaled{Value: a.DefaultMagnifierRadius(), RefMin: a.RefMinDim}.
		ScaledFor(m.display.MinDim())

	edge := math.Min(
		math.Min(lens.X, m.display.Width-lens.X),
		math.Min(lens.Y, m.display.Height-lens.Y),
	)
	lo := defaultPix * magnifierMinRadiusPct
	hi := math.Max(lo, edge)

	stored := canvas.RefScaled{Value: a.MagnifierRadius, RefMin: a.RefMinDim}
	stored.Rebase(geom.Clamp(p.Distance(lens), lo, hi), m.display)
	a.MagnifierRadius = stored.Value
}

// reshapeCurve recomputes the arrow's manual curvature from the dragged
// handle position. The stored offsets are reference-relative so the authored
// shape survives zoom changes.
func (m *Machine) reshapeCurve(p geom.Point) {
	a := m.editor.At(m.targetIdx)
	if a == nil || len(a.Points) < 2 {
		return
	}
	pts := a.PixelPoints(m.display)
	start, end := pts[0], pts[1]
	mid := start.Lerp(end, 0.5)
	scale := a.Scale(m.display.MinDim())

	apexOffset := p.Sub(mid).Mul(1 / scale)
	a.CurveControlOffset = apexOffset
	a.CurveOffset = perpComponent(start, end, apexOffset)
	a.HasCustomCurveControl = true
	if a.Tool == ToolStraightArrow {
		a.Tool = ToolCurvedArrow
	}
}

// finishTargetGesture converts the in-place mutation into a single undoable
// Replace: the list entry is restored to its pre-gesture state, then the
// final state is committed through the editor so exactly one snapshot is
// recorded per gesture.
func (m *Machine) finishTargetGesture() {
	a := m.editor.At(m.targetIdx)
	if a == nil {
		return
	}
	final := a.Clone()
	*a = m.targetOrig.Clone()
	if gestureUnchanged(final, m.targetOrig) {
		return
	}
	m.editor.Replace(m.targetIdx, final)
}

// gestureUnchanged reports whether a target gesture left the annotation as it
// was, comparing the fields gestures mutate. A click that moved nothing must
// not push an undo snapshot.
func gestureUnchanged(a, b Annotation) bool {
	if a.Tool != b.Tool ||
		a.MagnifierRadius != b.MagnifierRadius ||
		a.CurveOffset != b.CurveOffset ||
		a.CurveControlOffset != b.CurveControlOffset ||
		a.HasCustomCurveControl != b.HasCustomCurveControl ||
		len(a.Points) != len(b.Points) {
		return false
	}
	for i := range a.Points {
		if a.Points[i] != b.Points[i] {
			return false
		}
	}
	return true
}

// perpComponent returns the signed component of offset perpendicular to the
// chord a-b, matching the sign convention of geom.QuadFromChordOffset.
func perpComponent(a, b, offset geom.Point) float64 {
	chord := b.Sub(a)
	n := math.Hypot(chord.X, chord.Y)
	if n < 1e-12 {
		return 0
	}
	perp := geom.Pt(-chord.Y/n, chord.X/n)
	return offset.X*perp.X + offset.Y*perp.Y
}

// snapAngle constrains p to the nearest 45 degree direction from origin,
// preserving the current drag distance.
func snapAngle(origin, p geom.Point) geom.Point {
	d := p.Sub(origin)
	dist := math.Hypot(d.X, d.Y)
	if dist < 1e-9 {
		return p
	}
	step := math.Pi / 4
	angle := math.Round(math.Atan2(d.Y, d.X)/step) * step
	return origin.Add(geom.Pt(math.Cos(angle)*dist, math.Sin(angle)*dist))
}

// snapSquare constrains the drag to equal width and height, preserving the
// sign of each axis.
func snapSquare(origin, p geom.Point) geom.Point {
	d := p.Sub(origin)
	m := math.Max(math.Abs(d.X), math.Abs(d.Y))
	sx, sy := 1.0, 1.0
	if d.X < 0 {
		sx = -1
	}
	if d.Y < 0 {
		sy = -1
	}
	return origin.Add(geom.Pt(sx*m, sy*m))
}
