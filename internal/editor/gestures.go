package editor

import (
	"github.com/piwi3910/ADUPlanner/internal/geometry"
	"github.com/piwi3910/ADUPlanner/internal/model"
	"github.com/piwi3910/ADUPlanner/internal/selection"
)

// Mode returns the active tool.
func (e *Editor) Mode() selection.Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sel.Mode()
}

// SetMode switches tool, aborting any gesture in progress.
func (e *Editor) SetMode(m selection.Mode) {
	e.mu.Lock()
	e.sel.SetMode(m)
	e.handle = nil
	e.mu.Unlock()
	e.notify()
}

// SelectionState returns the gesture state.
func (e *Editor) SelectionState() selection.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sel.State()
}

// Single returns the single selection.
func (e *Editor) Single() (selection.Ref, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sel.Single()
}

// Selected returns everything selected.
func (e *Editor) Selected() model.Batch {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sel.Selected()
}

// IsSelected reports whether an entity is selected.
func (e *Editor) IsSelected(k model.Kind, id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sel.IsSelected(k, id)
}

// CanTransformSingle reports whether single-entity handles may be shown.
func (e *Editor) CanTransformSingle() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sel.CanTransformSingle()
}

// Preview returns the drag preview delta in the scene frame and whether
// the entity is drawn at it.
func (e *Editor) Preview(k model.Kind, id string) (geometry.Point, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.sel.InPreview(k, id) {
		return geometry.Point{}, false
	}
	return e.sel.PreviewDelta(), true
}

// MarqueeRect returns the rubber band in canvas pixels.
func (e *Editor) MarqueeRect() (geometry.Bounds, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sel.MarqueeRect()
}

// Select makes one entity the single selection.
func (e *Editor) Select(k model.Kind, id string) {
	e.mu.Lock()
	e.sel.Select(k, id)
	e.mu.Unlock()
	e.notify()
}

// ClearSelection drops every selection.
func (e *Editor) ClearSelection() {
	e.mu.Lock()
	e.sel.Clear()
	e.handle = nil
	e.mu.Unlock()
	e.notify()
}

// Click handles a pointer click at canvas point p. In select mode it hit
// tests, with additive toggling the entity in the multi selection. The
// placement modes create the entity configured in the tool; boundary mode
// inserts a boundary vertex on the nearest edge.
func (e *Editor) Click(p geometry.Point, additive bool) bool {
	e.mu.Lock()
	mode := e.sel.Mode()
	e.mu.Unlock()

	switch mode {
	case selection.ModeSelect:
		e.mu.Lock()
		e.clickSelectLocked(p, additive)
		e.mu.Unlock()
		e.notify()
		return true
	case selection.ModeRoom:
		t := e.Tool()
		_, ok := e.AddRoom(t.Room, t.RoomName, p, t.RoomW, t.RoomH)
		return ok
	case selection.ModeDoor:
		_, ok := e.AddDoor(e.Tool().Door, p)
		return ok
	case selection.ModeWindow:
		_, ok := e.AddWindow(e.Tool().Window, p)
		return ok
	case selection.ModeFurniture:
		_, ok := e.AddFurniture(e.Tool().Furniture, p)
		return ok
	case selection.ModeBoundary:
		return e.InsertBoundaryPoint(p) >= 0
	}
	return false
}

func (e *Editor) clickSelectLocked(p geometry.Point, additive bool) {
	k, id, ok := e.scene.HitTest(e.frameLocked().ToLocal(p))
	switch {
	case !ok && !additive:
		e.sel.Clear()
	case !ok:
	case additive:
		e.sel.ToggleMulti(k, id)
	default:
		e.sel.Select(k, id)
	}
}

// PointerDown starts a gesture at canvas point p. In select mode a vertex
// or the body of a transformable single selection starts a handle drag, a
// multi-selected entity starts a multi drag, and anything else a marquee.
// In boundary mode a boundary vertex starts a handle drag.
func (e *Editor) PointerDown(p geometry.Point) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	mode := e.sel.Mode()
	if mode != selection.ModeSelect && mode != selection.ModeBoundary {
		return false
	}
	local := e.frameLocked().ToLocal(p)
	if e.beginHandleLocked(local) {
		return true
	}
	if mode != selection.ModeSelect {
		return false
	}
	if k, id, ok := e.scene.HitTest(local); ok && e.sel.Multi().Has(k, id) {
		return e.sel.BeginDrag(local)
	}
	return e.sel.BeginMarquee(p)
}

// PointerMove updates the gesture in progress.
func (e *Editor) PointerMove(p geometry.Point) {
	e.mu.Lock()
	switch {
	case e.handle != nil:
		e.moveHandleLocked(e.frameLocked().ToLocal(p))
	case e.sel.State() == selection.MultiDragging:
		e.sel.DragTo(e.frameLocked().ToLocal(p))
	case e.sel.State() == selection.MarqueeDragging:
		e.sel.UpdateMarquee(p)
	default:
		e.mu.Unlock()
		return
	}
	e.mu.Unlock()
	e.notify()
}

// PointerUp finishes the gesture in progress. A drag commits its delta as
// one history entry. A marquee under the click threshold acts as a click.
func (e *Editor) PointerUp(p geometry.Point) {
	e.mu.Lock()
	switch {
	case e.handle != nil:
		if e.endHandleLocked(e.frameLocked().ToLocal(p)) {
			e.hist.Record("Move")
		}
	case e.sel.State() == selection.MultiDragging:
		e.sel.DragTo(e.frameLocked().ToLocal(p))
		if e.sel.EndDrag(&e.scene, e.furnitureUnit()) {
			e.hist.Record("Move selection")
		}
	case e.sel.State() == selection.MarqueeDragging:
		e.sel.UpdateMarquee(p)
		rect, _ := e.sel.MarqueeRect()
		e.sel.EndMarquee(e.frameLocked(), e.scene)
		if rect.Width() < selection.ClickThreshold || rect.Height() < selection.ClickThreshold {
			e.clickSelectLocked(p, false)
		}
	default:
		e.mu.Unlock()
		return
	}
	e.mu.Unlock()
	e.notify()
}

// Cancel aborts the gesture in progress, restoring the selection.
func (e *Editor) Cancel() {
	e.mu.Lock()
	e.sel.Cancel()
	e.handle = nil
	e.mu.Unlock()
	e.notify()
}

// DragPreview returns the preview delta, in the scene frame, and the
// entities drawn at it while a multi drag is in progress.
func (e *Editor) DragPreview() (geometry.Point, model.Batch, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sel.State() != selection.MultiDragging {
		return geometry.Point{}, model.Batch{}, false
	}
	return e.sel.PreviewDelta(), e.sel.Multi(), true
}
