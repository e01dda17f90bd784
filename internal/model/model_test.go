package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/ADUPlanner/internal/geometry"
	"github.com/piwi3910/ADUPlanner/internal/units"
)

func pt(x, y float64) geometry.Point { return geometry.Point{X: x, Y: y} }

func TestAddRectRoomArea(t *testing.T) {
	var s Scene
	r, ok := s.AddRectRoom(RoomBedroom, "Bedroom", pt(0, 0), 10, 12)
	require.True(t, ok)
	assert.Len(t, r.ID, 8)
	assert.Equal(t, 120, r.Area)
	assert.Equal(t, DefaultRoomColor(RoomBedroom), r.Color)
	assert.Equal(t, []geometry.Point{pt(0, 0), pt(240, 0), pt(240, 288), pt(0, 288)}, r.Vertices)
}

func TestAddRoomRejectsDegenerate(t *testing.T) {
	var s Scene
	_, ok := s.AddRoom(Room{Vertices: []geometry.Point{pt(0, 0), pt(24, 0)}})
	assert.False(t, ok)
	assert.Empty(t, s.Rooms)

	_, ok = s.AddRectRoom(RoomOther, "x", pt(0, 0), 0, 10)
	assert.False(t, ok)
}

func TestRotateRectRoomSwapsExtent(t *testing.T) {
	var s Scene
	r, _ := s.AddRectRoom(RoomBedroom, "Bedroom", pt(0, 0), 10, 12)

	require.True(t, s.RotateRoom(r.ID))
	got := s.FindRoom(r.ID)
	b := got.Bounds()
	assert.InDelta(t, units.FeetToPixels(12), b.Width(), 1e-9)
	assert.InDelta(t, units.FeetToPixels(10), b.Height(), 1e-9)
	assert.Equal(t, 120, got.Area)
	// Re-normalized to TL, TR, BR, BL.
	assert.Equal(t, b.Corners(), got.Vertices)
}

func TestRotateRoomFourTimesIsIdentity(t *testing.T) {
	var s Scene
	r, _ := s.AddRectRoom(RoomKitchen, "Kitchen", pt(48, 96), 10, 12)
	orig := append([]geometry.Point{}, r.Vertices...)
	for i := 0; i < 4; i++ {
		require.True(t, s.RotateRoom(r.ID))
	}
	got := s.FindRoom(r.ID).Vertices
	for i := range orig {
		assert.InDelta(t, orig[i].X, got[i].X, 1e-9)
		assert.InDelta(t, orig[i].Y, got[i].Y, 1e-9)
	}
}

func TestRotateOpeningsAndFurniture(t *testing.T) {
	var s Scene
	d := s.AddDoor(DoorSingle, pt(100, 100), 270)
	w := s.AddWindow(WindowBay, pt(200, 100), 0)
	f, ok := s.AddFurniture("sofa", pt(300, 300))
	require.True(t, ok)

	require.True(t, s.RotateDoor(d.ID))
	require.True(t, s.RotateWindow(w.ID))
	require.True(t, s.RotateFurniture(f.ID))

	assert.Equal(t, 0.0, s.FindDoor(d.ID).Rotation)
	assert.Equal(t, 90.0, s.FindWindow(w.ID).Rotation)
	assert.Equal(t, 90.0, s.FindFurniture(f.ID).Rotation)

	fw, fh := s.FindFurniture(f.ID).Footprint()
	assert.Equal(t, units.FeetToPixels(3), fw)
	assert.Equal(t, units.FeetToPixels(7), fh)
	assert.False(t, s.RotateDoor("missing"))
}

func TestDefaultSizes(t *testing.T) {
	var s Scene
	assert.Equal(t, 6.0, s.AddDoor(DoorDouble, pt(0, 0), 0).Width)
	assert.Equal(t, 5.0, s.AddDoor(DoorFrench, pt(0, 0), 0).Width)
	assert.Equal(t, 3.0, s.AddDoor(DoorOpening, pt(0, 0), 0).Width)
	w := s.AddWindow(WindowPicture, pt(0, 0), 0)
	assert.Equal(t, 5.0, w.Width)
	assert.Equal(t, 5.0, w.Height)

	_, ok := s.AddFurniture("hot-tub", pt(0, 0))
	assert.False(t, ok)
}

func TestRoomVertexEditing(t *testing.T) {
	var s Scene
	r, _ := s.AddRoom(Room{Type: RoomOther, Vertices: []geometry.Point{pt(0, 0), pt(240, 0), pt(0, 240)}})
	assert.Equal(t, 50, r.Area)

	// Floor of three vertices.
	assert.False(t, s.DeleteRoomVertex(r.ID, 0))
	assert.Len(t, s.FindRoom(r.ID).Vertices, 3)

	require.True(t, s.InsertRoomVertex(r.ID, 1, pt(240, 240)))
	got := s.FindRoom(r.ID)
	assert.Equal(t, []geometry.Point{pt(0, 0), pt(240, 0), pt(240, 240), pt(0, 240)}, got.Vertices)
	assert.Equal(t, 100, got.Area)

	require.True(t, s.MoveRoomVertex(r.ID, 2, pt(480, 240)))
	assert.Equal(t, 150, s.FindRoom(r.ID).Area)

	require.True(t, s.DeleteRoomVertex(r.ID, 2))
	assert.Equal(t, 50, s.FindRoom(r.ID).Area)
	assert.False(t, s.MoveRoomVertex(r.ID, 7, pt(0, 0)))
}

func TestResizeRectRoom(t *testing.T) {
	var s Scene
	r, _ := s.AddRectRoom(RoomOffice, "Office", pt(0, 0), 8, 8)
	require.True(t, s.ResizeRectRoom(r.ID, pt(24, 24), 10, 11))
	got := s.FindRoom(r.ID)
	assert.Equal(t, 110, got.Area)
	assert.Equal(t, pt(24, 24), got.Vertices[0])

	tri, _ := s.AddRoom(Room{Vertices: []geometry.Point{pt(0, 0), pt(24, 0), pt(0, 24)}})
	assert.False(t, s.ResizeRectRoom(tri.ID, pt(0, 0), 5, 5))
}

func TestTranslatePreservesRoomShape(t *testing.T) {
	var s Scene
	r, _ := s.AddRoom(Room{Vertices: []geometry.Point{pt(0, 0), pt(100, 5), pt(50, 77)}})
	require.True(t, s.TranslateRoom(r.ID, 30, 0, RoomSnapUnit))
	got := s.FindRoom(r.ID).Vertices
	// First vertex snaps 30 -> 24; the rest follow by the same delta.
	assert.Equal(t, []geometry.Point{pt(24, 0), pt(124, 5), pt(74, 77)}, got)
}

func TestTranslateKeepsShapesOnCanvas(t *testing.T) {
	s := NewScene()
	r, _ := s.AddRectRoom(RoomOffice, "Office", pt(48, 24), 10, 10)
	require.True(t, s.TranslateRoom(r.ID, -240, -240, RoomSnapUnit))
	assert.Equal(t, pt(0, 0), s.FindRoom(r.ID).Vertices[0])
	assert.Equal(t, 100, s.FindRoom(r.ID).Area)

	edge := units.ExtendedCanvasSize - units.FeetToPixels(10)
	require.True(t, s.TranslateRoom(r.ID, units.ExtendedCanvasSize, 0, RoomSnapUnit))
	assert.Equal(t, pt(edge, 0), s.FindRoom(r.ID).Vertices[0])

	require.True(t, s.TranslateBoundary(-units.ExtendedCanvasSize, -units.ExtendedCanvasSize))
	b := geometry.BoundsOf(s.Boundary.Vertices)
	assert.Equal(t, pt(0, 0), b.Min)
	assert.Greater(t, b.Width(), 0.0)
}

func TestTranslatePointEntitiesClampToCanvas(t *testing.T) {
	var s Scene
	d := s.AddDoor(DoorSingle, pt(10, 10), 0)
	require.True(t, s.TranslateDoor(d.ID, -100, 5, OpeningSnapUnit))
	assert.Equal(t, pt(0, 12), s.FindDoor(d.ID).Position)

	f, _ := s.AddFurniture("desk", pt(100, 100))
	require.True(t, s.TranslateFurniture(f.ID, 3.3, 0, 0))
	assert.InDelta(t, 103.3, s.FindFurniture(f.ID).Position.X, 1e-9)
	assert.Equal(t, 100.0, s.FindFurniture(f.ID).Position.Y)
}

func TestTranslateBatchUsesPerKindGranularity(t *testing.T) {
	var s Scene
	r1, _ := s.AddRectRoom(RoomBedroom, "A", pt(0, 0), 10, 10)
	r2, _ := s.AddRectRoom(RoomBathroom, "B", pt(240, 0), 5, 8)
	f, _ := s.AddFurniture("bed-queen", pt(120, 120))
	other, _ := s.AddFurniture("desk", pt(480, 480))

	var b Batch
	b.Add(KindRoom, r1.ID)
	b.Add(KindRoom, r2.ID)
	b.Add(KindFurniture, f.ID)

	assert.Equal(t, 3, s.TranslateBatch(b, 24, 0, units.HalfGrid))
	assert.Equal(t, pt(24, 0), s.FindRoom(r1.ID).Vertices[0])
	assert.Equal(t, pt(264, 0), s.FindRoom(r2.ID).Vertices[0])
	assert.Equal(t, pt(144, 120), s.FindFurniture(f.ID).Position)
	assert.Equal(t, pt(480, 480), s.FindFurniture(other.ID).Position)
}

func TestDeleteBatchReportsRemoved(t *testing.T) {
	var s Scene
	r, _ := s.AddRectRoom(RoomBedroom, "A", pt(0, 0), 10, 10)
	d := s.AddDoor(DoorSingle, pt(0, 0), 0)
	w := s.AddWindow(WindowStandard, pt(0, 0), 0)
	keep := s.AddWindow(WindowStandard, pt(48, 0), 0)

	var b Batch
	b.Add(KindRoom, r.ID)
	b.Add(KindDoor, d.ID)
	b.Add(KindWindow, w.ID)
	b.Add(KindFurniture, "ghost")

	removed := s.DeleteBatch(b)
	assert.Equal(t, 3, removed.Len())
	assert.False(t, removed.Has(KindFurniture, "ghost"))
	assert.Empty(t, s.Rooms)
	assert.Empty(t, s.Doors)
	require.Len(t, s.Windows, 1)
	assert.Equal(t, keep.ID, s.Windows[0].ID)
}

func TestIntersectingAndHitTest(t *testing.T) {
	var s Scene
	r, _ := s.AddRectRoom(RoomLiving, "Living", pt(0, 0), 10, 10)
	f, _ := s.AddFurniture("armchair", pt(120, 120))
	far, _ := s.AddFurniture("armchair", pt(1000, 1000))

	hit := s.Intersecting(geometry.RectBounds(pt(100, 100), pt(130, 130)))
	assert.True(t, hit.Has(KindRoom, r.ID))
	assert.True(t, hit.Has(KindFurniture, f.ID))
	assert.False(t, hit.Has(KindFurniture, far.ID))

	kind, id, ok := s.HitTest(pt(120, 120))
	require.True(t, ok)
	assert.Equal(t, KindFurniture, kind)
	assert.Equal(t, f.ID, id)

	kind, id, ok = s.HitTest(pt(20, 20))
	require.True(t, ok)
	assert.Equal(t, KindRoom, kind)
	assert.Equal(t, r.ID, id)

	_, _, ok = s.HitTest(pt(600, 20))
	assert.False(t, ok)
}

func TestCloneIsDeep(t *testing.T) {
	s := NewScene()
	r, _ := s.AddRectRoom(RoomBedroom, "A", pt(0, 0), 10, 10)
	c := s.Clone()
	s.MoveRoomVertex(r.ID, 0, pt(-24, -24))
	s.Boundary.Vertices[0] = pt(1, 1)

	assert.Equal(t, pt(0, 0), c.FindRoom(r.ID).Vertices[0])
	assert.NotEqual(t, pt(1, 1), c.Boundary.Vertices[0])
}

func TestRecomputeRestoresStaleAreas(t *testing.T) {
	s := NewScene()
	r, _ := s.AddRectRoom(RoomBedroom, "A", pt(0, 0), 10, 10)
	s.FindRoom(r.ID).Area = 1
	s.Boundary.Area = 2
	s.Recompute()
	assert.Equal(t, 100, s.FindRoom(r.ID).Area)
	assert.Equal(t, 576, s.Boundary.Area)
}
