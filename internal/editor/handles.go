package editor

import (
	"math"

	"github.com/piwi3910/ADUPlanner/internal/geometry"
	"github.com/piwi3910/ADUPlanner/internal/model"
	"github.com/piwi3910/ADUPlanner/internal/selection"
	"github.com/piwi3910/ADUPlanner/internal/snap"
	"github.com/piwi3910/ADUPlanner/internal/units"
)

// HandleRadius is how close, in scene pixels, a pointer must be to a
// vertex to grab it.
const HandleRadius = units.HalfGrid

// HandleTarget is what a handle drag edits.
type HandleTarget int

const (
	// HandleMove drags the single selection as a whole.
	HandleMove HandleTarget = iota + 1
	// HandleRoomVertex drags one vertex of the selected room.
	HandleRoomVertex
	// HandleBoundaryPoint drags one ADU boundary vertex.
	HandleBoundaryPoint
)

// Handle is a single-entity drag in progress. Points are in the scene
// frame; At is already snapped for vertex targets.
type Handle struct {
	Target HandleTarget
	Ref    selection.Ref
	Index  int
	Start  geometry.Point
	At     geometry.Point
}

// Delta is the displacement of a move handle.
func (h Handle) Delta() geometry.Point {
	return h.At.Sub(h.Start)
}

// HandlePreview returns the handle drag in progress.
func (e *Editor) HandlePreview() (Handle, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.handle == nil {
		return Handle{}, false
	}
	return *e.handle, true
}

// beginHandleLocked grabs a vertex or the body of the single selection at
// local point p. In boundary mode it grabs a boundary vertex.
func (e *Editor) beginHandleLocked(local geometry.Point) bool {
	if e.sel.Mode() == selection.ModeBoundary {
		idx := nearestVertex(local, e.scene.Boundary.Vertices)
		if idx < 0 {
			return false
		}
		e.handle = &Handle{Target: HandleBoundaryPoint, Index: idx, Start: local, At: e.scene.Boundary.Vertices[idx]}
		return true
	}
	if !e.sel.CanTransformSingle() {
		return false
	}
	ref, _ := e.sel.Single()
	if ref.Kind == model.KindRoom {
		if r := e.scene.FindRoom(ref.ID); r != nil {
			if idx := nearestVertex(local, r.Vertices); idx >= 0 {
				e.handle = &Handle{Target: HandleRoomVertex, Ref: ref, Index: idx, Start: local, At: r.Vertices[idx]}
				return true
			}
		}
	}
	if k, id, ok := e.scene.HitTest(local); ok && k == ref.Kind && id == ref.ID {
		e.handle = &Handle{Target: HandleMove, Ref: ref, Start: local, At: local}
		return true
	}
	return false
}

func (e *Editor) moveHandleLocked(local geometry.Point) {
	switch e.handle.Target {
	case HandleMove:
		e.handle.At = local
	case HandleRoomVertex:
		e.handle.At = snap.ConstrainToCanvas(snap.Point(local, model.RoomSnapUnit))
	case HandleBoundaryPoint:
		e.handle.At = snap.ConstrainToCanvas(snap.Point(local, units.GridSize))
	}
}

// endHandleLocked commits the handle drag once. A release that moved less
// than the drag threshold changes nothing.
func (e *Editor) endHandleLocked(local geometry.Point) bool {
	e.moveHandleLocked(local)
	h := *e.handle
	e.handle = nil
	moved := local.Sub(h.Start)
	if math.Abs(moved.X) < selection.DragThreshold && math.Abs(moved.Y) < selection.DragThreshold {
		return false
	}
	switch h.Target {
	case HandleMove:
		var b model.Batch
		b.Add(h.Ref.Kind, h.Ref.ID)
		d := h.Delta()
		return e.scene.TranslateBatch(b, d.X, d.Y, e.furnitureUnit()) > 0
	case HandleRoomVertex:
		return e.scene.MoveRoomVertex(h.Ref.ID, h.Index, h.At)
	case HandleBoundaryPoint:
		return e.scene.MoveBoundaryPoint(h.Index, h.At)
	}
	return false
}

// DeleteVertexAt removes the vertex under canvas point p: a boundary
// vertex in boundary mode, otherwise a vertex of the single-selected room.
// Shapes keep at least three vertices.
func (e *Editor) DeleteVertexAt(p geometry.Point) bool {
	return e.mutate("Delete vertex", func() bool {
		local := e.frameLocked().ToLocal(p)
		if e.sel.Mode() == selection.ModeBoundary {
			idx := nearestVertex(local, e.scene.Boundary.Vertices)
			return idx >= 0 && e.scene.RemoveBoundaryPoint(idx)
		}
		ref, ok := e.sel.Single()
		if !ok || ref.Kind != model.KindRoom || !e.transformableLocked(ref.Kind, ref.ID) {
			return false
		}
		r := e.scene.FindRoom(ref.ID)
		if r == nil {
			return false
		}
		idx := nearestVertex(local, r.Vertices)
		return idx >= 0 && e.scene.DeleteRoomVertex(ref.ID, idx)
	})
}

// InsertVertexAt splits the edge of the single-selected room nearest
// canvas point p with a grid-snapped vertex. The edge must be within
// HandleRadius of p.
func (e *Editor) InsertVertexAt(p geometry.Point) bool {
	return e.mutate("Add vertex", func() bool {
		ref, ok := e.sel.Single()
		if !ok || ref.Kind != model.KindRoom || !e.transformableLocked(ref.Kind, ref.ID) {
			return false
		}
		r := e.scene.FindRoom(ref.ID)
		if r == nil {
			return false
		}
		local := e.frameLocked().ToLocal(p)
		edge, dist := geometry.ClosestEdge(local, r.Vertices)
		if edge < 0 || dist > HandleRadius {
			return false
		}
		v := snap.ConstrainToCanvas(snap.Point(local, model.RoomSnapUnit))
		return e.scene.InsertRoomVertex(ref.ID, edge, v)
	})
}

// nearestVertex returns the index of the vertex within HandleRadius of p
// closest to it, or -1.
func nearestVertex(p geometry.Point, vertices []geometry.Point) int {
	best, bestDist := -1, HandleRadius
	for i, v := range vertices {
		if d := p.Dist(v); d <= bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
