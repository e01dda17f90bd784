package editor

import (
	"github.com/piwi3910/ADUPlanner/internal/geometry"
	"github.com/piwi3910/ADUPlanner/internal/model"
	"github.com/piwi3910/ADUPlanner/internal/units"
)

// AddRoom creates a wFt x hFt rectangle room with its top-left corner at
// canvas point p, snapped to the grid. The new room becomes the selection.
func (e *Editor) AddRoom(t model.RoomType, name string, p geometry.Point, wFt, hFt float64) (model.Room, bool) {
	var room model.Room
	ok := e.mutate("Add room", func() bool {
		origin := roomOrigin(e.localSnapped(p, model.RoomSnapUnit), wFt, hFt)
		r, ok := e.scene.AddRectRoom(t, name, origin, wFt, hFt)
		if ok {
			room = r
			e.sel.Select(model.KindRoom, r.ID)
		}
		return ok
	})
	return room, ok
}

// AddBoundaryRoom adds a room filling the ADU boundary.
func (e *Editor) AddBoundaryRoom() (model.Room, bool) {
	var room model.Room
	ok := e.mutate("Add room", func() bool {
		r, ok := e.scene.AddRoom(e.scene.BoundaryDerivedRoom())
		room = r
		return ok
	})
	return room, ok
}

// UpdateRoom replaces a room's editable fields.
func (e *Editor) UpdateRoom(r model.Room) bool {
	return e.mutate("Edit room", func() bool { return e.scene.UpdateRoom(r) })
}

// ResizeRoom gives a rectangle room a new size, keeping its top-left corner.
// The room must be the single selection.
func (e *Editor) ResizeRoom(id string, wFt, hFt float64) bool {
	return e.mutate("Resize room", func() bool {
		if !e.transformableLocked(model.KindRoom, id) {
			return false
		}
		r := e.scene.FindRoom(id)
		if r == nil || !r.IsRect() {
			return false
		}
		origin := geometry.BoundsOf(r.Vertices).Min
		return e.scene.ResizeRectRoom(id, origin, wFt, hFt)
	})
}

// MoveRoomVertex drags one room vertex to canvas point p.
func (e *Editor) MoveRoomVertex(id string, idx int, p geometry.Point) bool {
	return e.mutate("Move vertex", func() bool {
		if !e.transformableLocked(model.KindRoom, id) {
			return false
		}
		return e.scene.MoveRoomVertex(id, idx, e.localSnapped(p, model.RoomSnapUnit))
	})
}

// InsertRoomVertex splits edge idx of a room at canvas point p.
func (e *Editor) InsertRoomVertex(id string, idx int, p geometry.Point) bool {
	return e.mutate("Add vertex", func() bool {
		if !e.transformableLocked(model.KindRoom, id) {
			return false
		}
		return e.scene.InsertRoomVertex(id, idx, e.localSnapped(p, model.RoomSnapUnit))
	})
}

// DeleteRoomVertex removes a room vertex. Rooms keep at least three.
func (e *Editor) DeleteRoomVertex(id string, idx int) bool {
	return e.mutate("Delete vertex", func() bool {
		if !e.transformableLocked(model.KindRoom, id) {
			return false
		}
		return e.scene.DeleteRoomVertex(id, idx)
	})
}

// transformableLocked reports whether id is the single selection with no
// multi selection or drag in progress.
func (e *Editor) transformableLocked(k model.Kind, id string) bool {
	if !e.sel.CanTransformSingle() {
		return false
	}
	ref, _ := e.sel.Single()
	return ref.Kind == k && ref.ID == id
}

// AddDoor places a door centered on canvas point p.
func (e *Editor) AddDoor(t model.DoorType, p geometry.Point) (model.Door, bool) {
	var door model.Door
	ok := e.mutate("Add door", func() bool {
		door = e.scene.AddDoor(t, e.localSnapped(p, model.OpeningSnapUnit), 0)
		e.sel.Select(model.KindDoor, door.ID)
		return true
	})
	return door, ok
}

// UpdateDoor replaces a door's editable fields.
func (e *Editor) UpdateDoor(d model.Door) bool {
	return e.mutate("Edit door", func() bool { return e.scene.UpdateDoor(d) })
}

// AddWindow places a window centered on canvas point p.
func (e *Editor) AddWindow(t model.WindowType, p geometry.Point) (model.Window, bool) {
	var win model.Window
	ok := e.mutate("Add window", func() bool {
		win = e.scene.AddWindow(t, e.localSnapped(p, model.OpeningSnapUnit), 0)
		e.sel.Select(model.KindWindow, win.ID)
		return true
	})
	return win, ok
}

// UpdateWindow replaces a window's editable fields.
func (e *Editor) UpdateWindow(w model.Window) bool {
	return e.mutate("Edit window", func() bool { return e.scene.UpdateWindow(w) })
}

// AddFurniture places a catalog item centered on canvas point p.
func (e *Editor) AddFurniture(t model.FurnitureType, p geometry.Point) (model.Furniture, bool) {
	var item model.Furniture
	ok := e.mutate("Add furniture", func() bool {
		f, ok := e.scene.AddFurniture(t, e.localSnapped(p, e.furnitureUnit()))
		if ok {
			item = f
			e.sel.Select(model.KindFurniture, f.ID)
		}
		return ok
	})
	return item, ok
}

// UpdateFurniture replaces a furniture item's editable fields.
func (e *Editor) UpdateFurniture(f model.Furniture) bool {
	return e.mutate("Edit furniture", func() bool { return e.scene.UpdateFurniture(f) })
}

// DeleteSelected removes everything selected and returns what was removed.
func (e *Editor) DeleteSelected() model.Batch {
	var removed model.Batch
	e.mutate("Delete", func() bool {
		removed = e.scene.DeleteBatch(e.sel.Selected())
		e.sel.Prune(removed)
		return !removed.Empty()
	})
	return removed
}

// RotateSelected turns the single selection a quarter turn. Nothing turns
// while a multi selection is active.
func (e *Editor) RotateSelected() bool {
	return e.mutate("Rotate", func() bool {
		if !e.sel.CanTransformSingle() {
			return false
		}
		ref, _ := e.sel.Single()
		switch ref.Kind {
		case model.KindRoom:
			return e.scene.RotateRoom(ref.ID)
		case model.KindDoor:
			return e.scene.RotateDoor(ref.ID)
		case model.KindWindow:
			return e.scene.RotateWindow(ref.ID)
		case model.KindFurniture:
			return e.scene.RotateFurniture(ref.ID)
		}
		return false
	})
}

// NudgeSelected moves the selection by a canvas displacement, each entity
// snapped to its own granularity.
func (e *Editor) NudgeSelected(dx, dy float64) int {
	n := 0
	e.mutate("Move selection", func() bool {
		d := localDelta(e.frameLocked(), dx, dy)
		n = e.scene.TranslateBatch(e.sel.Selected(), d.X, d.Y, e.furnitureUnit())
		return n > 0
	})
	return n
}

// SetBoundaryArea resizes the ADU boundary to a square of sqft.
func (e *Editor) SetBoundaryArea(sqft float64) bool {
	return e.mutate("Set boundary area", func() bool { return e.scene.SetBoundaryArea(sqft) })
}

// SetBoundary replaces the boundary with canvas points, e.g. an imported
// footprint.
func (e *Editor) SetBoundary(pts []geometry.Point) bool {
	return e.mutate("Set boundary", func() bool {
		f := e.frameLocked()
		local := make([]geometry.Point, len(pts))
		for i, p := range pts {
			local[i] = f.ToLocal(p)
		}
		return e.scene.SetBoundary(local)
	})
}

// MoveBoundaryPoint drags boundary vertex idx to canvas point p.
func (e *Editor) MoveBoundaryPoint(idx int, p geometry.Point) bool {
	return e.mutate("Move boundary point", func() bool {
		return e.scene.MoveBoundaryPoint(idx, e.frameLocked().ToLocal(p))
	})
}

// InsertBoundaryPoint splits the boundary edge nearest canvas point p and
// returns the new vertex index, or -1.
func (e *Editor) InsertBoundaryPoint(p geometry.Point) int {
	idx := -1
	e.mutate("Add boundary point", func() bool {
		idx = e.scene.InsertBoundaryPoint(e.frameLocked().ToLocal(p))
		return idx >= 0
	})
	return idx
}

// RemoveBoundaryPoint deletes a boundary vertex. The boundary keeps at
// least three.
func (e *Editor) RemoveBoundaryPoint(idx int) bool {
	return e.mutate("Remove boundary point", func() bool { return e.scene.RemoveBoundaryPoint(idx) })
}

// MoveBoundary shifts the boundary by a canvas displacement.
func (e *Editor) MoveBoundary(dx, dy float64) bool {
	return e.mutate("Move boundary", func() bool {
		d := localDelta(e.frameLocked(), dx, dy)
		return e.scene.TranslateBoundary(d.X, d.Y)
	})
}

// Summary reports the headline numbers shown in the status bar.
type Summary struct {
	BoundaryArea int // sq ft
	RoomArea     int // sq ft
	Rooms        int
	Openings     int
	Furniture    int
	Buildable    int // sq ft inside setbacks, 0 without a lot
}

// Summary computes the status bar numbers.
func (e *Editor) Summary() Summary {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := Summary{
		BoundaryArea: units.RoundSqFeet(geometry.PolygonArea(e.scene.Boundary.Vertices)),
		RoomArea:     e.scene.TotalRoomArea(),
		Rooms:        len(e.scene.Rooms),
		Openings:     len(e.scene.Doors) + len(e.scene.Windows),
		Furniture:    len(e.scene.Furniture),
	}
	if e.lot != nil {
		s.Buildable = buildable(*e.lot)
	}
	return s
}
