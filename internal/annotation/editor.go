package annotation

// maxUndoDepth bounds the snapshot stacks; the oldest snapshot is dropped
// when the limit is reached.
const maxUndoDepth = 64

// Editor owns the ordered annotation list for one editing session. Insertion
// order is z-order (later entries draw on top). Undo and redo operate on
// whole-list snapshots; any new committed action clears the redo stack.
//
// Editor is not safe for concurrent use: all mutation happens on the single
// UI event goroutine, matching how pointer and keyboard events arrive.
type Editor struct {
	annotations []Annotation
	current     *Annotation
	undo        [][]Annotation
	redo        [][]Annotation
	nextID      int64

	onCommit func(Annotation)
}

// NewEditor returns an empty editor.
func NewEditor() *Editor {
	return &Editor{nextID: 1}
}

// OnCommit registers a callback invoked after each successful commit.
func (e *Editor) OnCommit(fn func(Annotation)) { e.onCommit = fn }

// Annotations returns the committed list in z-order. The slice is owned by
// the editor; callers must not mutate it.
func (e *Editor) Annotations() []Annotation { return e.annotations }

// Len returns the number of committed annotations.
func (e *Editor) Len() int { return len(e.annotations) }

// Current returns the in-progress annotation, or nil.
func (e *Editor) Current() *Annotation { return e.current }

// SetCurrent replaces the in-progress annotation. Passing nil discards it.
func (e *Editor) SetCurrent(a *Annotation) { e.current = a }

// NextID allocates a stable identifier for a new annotation.
func (e *Editor) NextID() int64 {
	id := e.nextID
	e.nextID++
	return id
}

// Commit appends a to the list, snapshotting the prior state for undo and
// clearing the redo stack. The in-progress annotation is cleared.
func (e *Editor) Commit(a Annotation) {
	if a.ID == 0 {
		a.ID = e.NextID()
	}
	e.pushUndo()
	e.redo = nil
	e.annotations = append(e.annotations, a.Clone())
	e.current = nil
	if e.onCommit != nil {
		e.onCommit(a)
	}
}

// Replace overwrites the annotation at index idx, snapshotting for undo.
// Used by drag, resize and curve-reshape once the gesture completes.
func (e *Editor) Replace(idx int, a Annotation) {
	if idx < 0 || idx >= len(e.annotations) {
		return
	}
	e.pushUndo()
	e.redo = nil
	e.annotations[idx] = a.Clone()
}

// Remove deletes the annotation at index idx, snapshotting for undo.
func (e *Editor) Remove(idx int) {
	if idx < 0 || idx >= len(e.annotations) {
		return
	}
	e.pushUndo()
	e.redo = nil
	e.annotations = append(e.annotations[:idx], e.annotations[idx+1:]...)
}

// At returns the annotation at index idx.
func (e *Editor) At(idx int) *Annotation {
	if idx < 0 || idx >= len(e.annotations) {
		return nil
	}
	return &e.annotations[idx]
}

// Undo restores the previous snapshot. Undoing past the start of history is
// a no-op.
func (e *Editor) Undo() {
	if len(e.undo) == 0 {
		return
	}
	e.redo = append(e.redo, snapshot(e.annotations))
	e.annotations = e.undo[len(e.undo)-1]
	e.undo = e.undo[:len(e.undo)-1]
}

// Redo reapplies the most recently undone snapshot. Redoing past the end is
// a no-op.
func (e *Editor) Redo() {
	if len(e.redo) == 0 {
		return
	}
	e.undo = append(e.undo, snapshot(e.annotations))
	e.annotations = e.redo[len(e.redo)-1]
	e.redo = e.redo[:len(e.redo)-1]
}

func (e *Editor) pushUndo() {
	e.undo = append(e.undo, snapshot(e.annotations))
	if len(e.undo) > maxUndoDepth {
		e.undo = e.undo[1:]
	}
}

// snapshot deep-copies a list so stacks never alias live state.
func snapshot(list []Annotation) []Annotation {
	out := make([]Annotation, len(list))
	for i := range list {
		out[i] = list[i].Clone()
	}
	return out
}
