package model

import (
	"github.com/piwi3910/ADUPlanner/internal/geometry"
	"github.com/piwi3910/ADUPlanner/internal/snap"
	"github.com/piwi3910/ADUPlanner/internal/units"
)

// Snap granularities per entity kind, in pixels.
const (
	RoomSnapUnit    = units.GridSize
	OpeningSnapUnit = units.HalfGrid
)

// FindRoom returns a pointer to the room with the given ID, or nil.
func (s *Scene) FindRoom(id string) *Room {
	for i := range s.Rooms {
		if s.Rooms[i].ID == id {
			return &s.Rooms[i]
		}
	}
	return nil
}

// FindDoor returns a pointer to the door with the given ID, or nil.
func (s *Scene) FindDoor(id string) *Door {
	for i := range s.Doors {
		if s.Doors[i].ID == id {
			return &s.Doors[i]
		}
	}
	return nil
}

// FindWindow returns a pointer to the window with the given ID, or nil.
func (s *Scene) FindWindow(id string) *Window {
	for i := range s.Windows {
		if s.Windows[i].ID == id {
			return &s.Windows[i]
		}
	}
	return nil
}

// FindFurniture returns a pointer to the furniture item with the given ID, or nil.
func (s *Scene) FindFurniture(id string) *Furniture {
	for i := range s.Furniture {
		if s.Furniture[i].ID == id {
			return &s.Furniture[i]
		}
	}
	return nil
}

// AddRoom appends r with a fresh ID and derived area. Rooms with fewer
// than three vertices are rejected.
func (s *Scene) AddRoom(r Room) (Room, bool) {
	if len(r.Vertices) < 3 {
		return Room{}, false
	}
	r.ID = newID()
	r.Vertices = copyPoints(r.Vertices)
	if r.Type == "" {
		r.Type = RoomOther
	}
	if r.Color == "" {
		r.Color = DefaultRoomColor(r.Type)
	}
	r.Area = r.ComputeArea()
	s.Rooms = append(s.Rooms, r)
	return r, true
}

// AddRectRoom creates a wFt x hFt rectangle room with its top-left corner at origin.
func (s *Scene) AddRectRoom(t RoomType, name string, origin geometry.Point, wFt, hFt float64) (Room, bool) {
	if wFt <= 0 || hFt <= 0 {
		return Room{}, false
	}
	return s.AddRoom(Room{
		Type:     t,
		Name:     name,
		Vertices: RectVertices(origin, wFt, hFt),
	})
}

// UpdateRoom replaces the room with r.ID, re-deriving its area.
func (s *Scene) UpdateRoom(r Room) bool {
	existing := s.FindRoom(r.ID)
	if existing == nil || len(r.Vertices) < 3 {
		return false
	}
	r.Vertices = copyPoints(r.Vertices)
	r.Area = r.ComputeArea()
	*existing = r
	return true
}

// DeleteRoom removes a room by ID. Returns true if found and removed.
func (s *Scene) DeleteRoom(id string) bool {
	for i := range s.Rooms {
		if s.Rooms[i].ID == id {
			s.Rooms = append(s.Rooms[:i], s.Rooms[i+1:]...)
			return true
		}
	}
	return false
}

// ResizeRectRoom moves a rectangle room to origin with the given size in feet.
func (s *Scene) ResizeRectRoom(id string, origin geometry.Point, wFt, hFt float64) bool {
	r := s.FindRoom(id)
	if r == nil || !r.IsRect() || wFt <= 0 || hFt <= 0 {
		return false
	}
	r.Vertices = RectVertices(origin, wFt, hFt)
	r.Area = r.ComputeArea()
	return true
}

// MoveRoomVertex sets vertex idx of a room to p.
func (s *Scene) MoveRoomVertex(id string, idx int, p geometry.Point) bool {
	r := s.FindRoom(id)
	if r == nil || idx < 0 || idx >= len(r.Vertices) {
		return false
	}
	r.Vertices[idx] = p
	r.Area = r.ComputeArea()
	return true
}

// InsertRoomVertex inserts p after vertex idx, splitting edge idx.
func (s *Scene) InsertRoomVertex(id string, idx int, p geometry.Point) bool {
	r := s.FindRoom(id)
	if r == nil || idx < 0 || idx >= len(r.Vertices) {
		return false
	}
	r.Vertices = insertPoint(r.Vertices, idx+1, p)
	r.Area = r.ComputeArea()
	return true
}

// DeleteRoomVertex removes vertex idx unless the room would drop below
// three vertices.
func (s *Scene) DeleteRoomVertex(id string, idx int) bool {
	r := s.FindRoom(id)
	if r == nil || idx < 0 || idx >= len(r.Vertices) || len(r.Vertices) <= 3 {
		return false
	}
	r.Vertices = removePoint(r.Vertices, idx)
	r.Area = r.ComputeArea()
	return true
}

// RotateRoom turns a room 90 degrees about its vertex centroid. Rectangles
// are re-ordered TL, TR, BR, BL from the rotated bounding box.
func (s *Scene) RotateRoom(id string) bool {
	r := s.FindRoom(id)
	if r == nil {
		return false
	}
	c := geometry.Centroid(r.Vertices)
	rotated := make([]geometry.Point, len(r.Vertices))
	for i, v := range r.Vertices {
		rotated[i] = geometry.Rotate90(v, c)
	}
	if len(rotated) == 4 {
		rotated = geometry.BoundsOf(rotated).Corners()
	}
	r.Vertices = rotated
	r.Area = r.ComputeArea()
	return true
}

// TranslateRoom shifts a room by (dx, dy) and snaps it by its first
// vertex so the shape is preserved. The room stays on the canvas.
func (s *Scene) TranslateRoom(id string, dx, dy, unit float64) bool {
	r := s.FindRoom(id)
	if r == nil || len(r.Vertices) == 0 {
		return false
	}
	r.Vertices = shiftShape(r.Vertices, dx, dy, unit)
	return true
}

// AddDoor places a door of type t centered at pos with its default width.
func (s *Scene) AddDoor(t DoorType, pos geometry.Point, rotation float64) Door {
	d := Door{
		ID:       newID(),
		Type:     t,
		Position: pos,
		Rotation: geometry.NormalizeDegrees(rotation),
		Width:    DefaultDoorWidth(t),
	}
	s.Doors = append(s.Doors, d)
	return d
}

// UpdateDoor replaces the door with d.ID.
func (s *Scene) UpdateDoor(d Door) bool {
	existing := s.FindDoor(d.ID)
	if existing == nil || d.Width <= 0 {
		return false
	}
	*existing = d
	return true
}

// DeleteDoor removes a door by ID.
func (s *Scene) DeleteDoor(id string) bool {
	for i := range s.Doors {
		if s.Doors[i].ID == id {
			s.Doors = append(s.Doors[:i], s.Doors[i+1:]...)
			return true
		}
	}
	return false
}

// RotateDoor advances a door's rotation by 90 degrees.
func (s *Scene) RotateDoor(id string) bool {
	d := s.FindDoor(id)
	if d == nil {
		return false
	}
	d.Rotation = quarterTurn(d.Rotation)
	return true
}

// TranslateDoor moves a door by (dx, dy), snapped and kept on the canvas.
func (s *Scene) TranslateDoor(id string, dx, dy, unit float64) bool {
	d := s.FindDoor(id)
	if d == nil {
		return false
	}
	d.Position = movePoint(d.Position, dx, dy, unit)
	return true
}

// AddWindow places a window of type t centered at pos with its default size.
func (s *Scene) AddWindow(t WindowType, pos geometry.Point, rotation float64) Window {
	w, h := DefaultWindowSize(t)
	win := Window{
		ID:       newID(),
		Type:     t,
		Position: pos,
		Rotation: geometry.NormalizeDegrees(rotation),
		Width:    w,
		Height:   h,
	}
	s.Windows = append(s.Windows, win)
	return win
}

// UpdateWindow replaces the window with w.ID.
func (s *Scene) UpdateWindow(w Window) bool {
	existing := s.FindWindow(w.ID)
	if existing == nil || w.Width <= 0 {
		return false
	}
	*existing = w
	return true
}

// DeleteWindow removes a window by ID.
func (s *Scene) DeleteWindow(id string) bool {
	for i := range s.Windows {
		if s.Windows[i].ID == id {
			s.Windows = append(s.Windows[:i], s.Windows[i+1:]...)
			return true
		}
	}
	return false
}

// RotateWindow advances a window's rotation by 90 degrees.
func (s *Scene) RotateWindow(id string) bool {
	w := s.FindWindow(id)
	if w == nil {
		return false
	}
	w.Rotation = quarterTurn(w.Rotation)
	return true
}

// TranslateWindow moves a window by (dx, dy), snapped and kept on the canvas.
func (s *Scene) TranslateWindow(id string, dx, dy, unit float64) bool {
	w := s.FindWindow(id)
	if w == nil {
		return false
	}
	w.Position = movePoint(w.Position, dx, dy, unit)
	return true
}

// AddFurniture places a catalog item centered at pos. Unknown types are rejected.
func (s *Scene) AddFurniture(t FurnitureType, pos geometry.Point) (Furniture, bool) {
	item, ok := LookupFurniture(t)
	if !ok {
		return Furniture{}, false
	}
	f := Furniture{
		ID:       newID(),
		Type:     t,
		Position: pos,
		Width:    item.Width,
		Height:   item.Height,
	}
	s.Furniture = append(s.Furniture, f)
	return f, true
}

// UpdateFurniture replaces the furniture item with f.ID.
func (s *Scene) UpdateFurniture(f Furniture) bool {
	existing := s.FindFurniture(f.ID)
	if existing == nil || f.Width <= 0 || f.Height <= 0 {
		return false
	}
	*existing = f
	return true
}

// DeleteFurniture removes a furniture item by ID.
func (s *Scene) DeleteFurniture(id string) bool {
	for i := range s.Furniture {
		if s.Furniture[i].ID == id {
			s.Furniture = append(s.Furniture[:i], s.Furniture[i+1:]...)
			return true
		}
	}
	return false
}

// RotateFurniture advances a furniture item's rotation by 90 degrees.
func (s *Scene) RotateFurniture(id string) bool {
	f := s.FindFurniture(id)
	if f == nil {
		return false
	}
	f.Rotation = quarterTurn(f.Rotation)
	return true
}

// TranslateFurniture moves a furniture item by (dx, dy), snapped with unit
// and kept on the canvas.
func (s *Scene) TranslateFurniture(id string, dx, dy, unit float64) bool {
	f := s.FindFurniture(id)
	if f == nil {
		return false
	}
	f.Position = movePoint(f.Position, dx, dy, unit)
	return true
}

// TranslateBatch commits one drag delta to every entity in b, each snapped
// to its own granularity. Returns the number of entities moved.
func (s *Scene) TranslateBatch(b Batch, dx, dy, furnitureUnit float64) int {
	n := 0
	for _, id := range b.Rooms {
		if s.TranslateRoom(id, dx, dy, RoomSnapUnit) {
			n++
		}
	}
	for _, id := range b.Doors {
		if s.TranslateDoor(id, dx, dy, OpeningSnapUnit) {
			n++
		}
	}
	for _, id := range b.Windows {
		if s.TranslateWindow(id, dx, dy, OpeningSnapUnit) {
			n++
		}
	}
	for _, id := range b.Furniture {
		if s.TranslateFurniture(id, dx, dy, furnitureUnit) {
			n++
		}
	}
	return n
}

// DeleteBatch removes every entity in b and returns the ids actually removed.
func (s *Scene) DeleteBatch(b Batch) Batch {
	var removed Batch
	for _, id := range b.Rooms {
		if s.DeleteRoom(id) {
			removed.Add(KindRoom, id)
		}
	}
	for _, id := range b.Doors {
		if s.DeleteDoor(id) {
			removed.Add(KindDoor, id)
		}
	}
	for _, id := range b.Windows {
		if s.DeleteWindow(id) {
			removed.Add(KindWindow, id)
		}
	}
	for _, id := range b.Furniture {
		if s.DeleteFurniture(id) {
			removed.Add(KindFurniture, id)
		}
	}
	return removed
}

// Intersecting returns every entity whose bounding box intersects box.
func (s Scene) Intersecting(box geometry.Bounds) Batch {
	var hit Batch
	for _, r := range s.Rooms {
		if r.Bounds().Intersects(box) {
			hit.Add(KindRoom, r.ID)
		}
	}
	for _, d := range s.Doors {
		if d.Bounds().Intersects(box) {
			hit.Add(KindDoor, d.ID)
		}
	}
	for _, w := range s.Windows {
		if w.Bounds().Intersects(box) {
			hit.Add(KindWindow, w.ID)
		}
	}
	for _, f := range s.Furniture {
		if f.Bounds().Intersects(box) {
			hit.Add(KindFurniture, f.ID)
		}
	}
	return hit
}

// HitTest returns the topmost entity containing p. Point entities are
// checked before rooms, furniture last drawn first.
func (s Scene) HitTest(p geometry.Point) (Kind, string, bool) {
	for i := len(s.Furniture) - 1; i >= 0; i-- {
		if s.Furniture[i].Bounds().Contains(p) {
			return KindFurniture, s.Furniture[i].ID, true
		}
	}
	for i := len(s.Doors) - 1; i >= 0; i-- {
		if s.Doors[i].Bounds().Contains(p) {
			return KindDoor, s.Doors[i].ID, true
		}
	}
	for i := len(s.Windows) - 1; i >= 0; i-- {
		if s.Windows[i].Bounds().Contains(p) {
			return KindWindow, s.Windows[i].ID, true
		}
	}
	for i := len(s.Rooms) - 1; i >= 0; i-- {
		if geometry.PointInPolygon(p, s.Rooms[i].Vertices) {
			return KindRoom, s.Rooms[i].ID, true
		}
	}
	return "", "", false
}

// Recompute re-derives every room area and the boundary area from vertices.
func (s *Scene) Recompute() {
	for i := range s.Rooms {
		s.Rooms[i].Area = s.Rooms[i].ComputeArea()
	}
	s.Boundary.Area = units.RoundSqFeet(geometry.PolygonArea(s.Boundary.Vertices))
}

func quarterTurn(rotation float64) float64 {
	return geometry.NormalizeDegrees(rotation + 90)
}

func movePoint(p geometry.Point, dx, dy, unit float64) geometry.Point {
	return snap.ConstrainToCanvas(snap.Point(geometry.Point{X: p.X + dx, Y: p.Y + dy}, unit))
}

// shiftShape moves pts by (dx, dy) with the first vertex snapped to unit,
// then pulls the shape back so its bounds stay within the canvas.
func shiftShape(pts []geometry.Point, dx, dy, unit float64) []geometry.Point {
	first := pts[0]
	target := snap.Point(geometry.Point{X: first.X + dx, Y: first.Y + dy}, unit)
	b := geometry.BoundsOf(pts)
	sx := fitShift(target.X-first.X, b.Min.X, b.Max.X)
	sy := fitShift(target.Y-first.Y, b.Min.Y, b.Max.Y)
	return geometry.Translate(pts, sx, sy)
}

func fitShift(d, lo, hi float64) float64 {
	if lo+d < 0 {
		d = -lo
	}
	if hi+d > units.ExtendedCanvasSize {
		d = units.ExtendedCanvasSize - hi
	}
	return d
}

func insertPoint(pts []geometry.Point, at int, p geometry.Point) []geometry.Point {
	out := make([]geometry.Point, 0, len(pts)+1)
	out = append(out, pts[:at]...)
	out = append(out, p)
	return append(out, pts[at:]...)
}

func removePoint(pts []geometry.Point, at int) []geometry.Point {
	out := make([]geometry.Point, 0, len(pts)-1)
	out = append(out, pts[:at]...)
	return append(out, pts[at+1:]...)
}
