package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/ADUPlanner/internal/geo"
	"github.com/piwi3910/ADUPlanner/internal/geometry"
	"github.com/piwi3910/ADUPlanner/internal/model"
	"github.com/piwi3910/ADUPlanner/internal/units"
)

func pt(x, y float64) geometry.Point { return geometry.Point{X: x, Y: y} }

type fixture struct {
	scene           model.Scene
	roomA, roomB    model.Room
	chair, farChair model.Furniture
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{scene: model.NewScene()}
	var ok bool
	f.roomA, ok = f.scene.AddRectRoom(model.RoomBedroom, "A", pt(48, 48), 10, 10)
	require.True(t, ok)
	f.roomB, ok = f.scene.AddRectRoom(model.RoomBathroom, "B", pt(288, 48), 6, 8)
	require.True(t, ok)
	f.chair, ok = f.scene.AddFurniture("armchair", pt(168, 168))
	require.True(t, ok)
	f.farChair, ok = f.scene.AddFurniture("armchair", pt(1200, 1200))
	require.True(t, ok)
	return f
}

func TestSelectAndToggle(t *testing.T) {
	c := New()
	assert.Equal(t, Idle, c.State())

	c.Select(model.KindRoom, "r1")
	assert.Equal(t, SingleSelected, c.State())
	assert.True(t, c.CanTransformSingle())

	c.ToggleMulti(model.KindDoor, "d1")
	assert.Equal(t, MultiSelected, c.State())
	assert.False(t, c.CanTransformSingle())
	assert.True(t, c.IsSelected(model.KindRoom, "r1"), "single joins the multi sets")
	assert.True(t, c.IsSelected(model.KindDoor, "d1"))

	c.ToggleMulti(model.KindDoor, "d1")
	assert.False(t, c.IsSelected(model.KindDoor, "d1"))

	c.Clear()
	assert.Equal(t, Idle, c.State())
}

func TestPrune(t *testing.T) {
	c := New()
	c.ToggleMulti(model.KindRoom, "r1")
	c.ToggleMulti(model.KindWindow, "w1")

	var removed model.Batch
	removed.Add(model.KindRoom, "r1")
	c.Prune(removed)
	assert.False(t, c.IsSelected(model.KindRoom, "r1"))
	assert.True(t, c.IsSelected(model.KindWindow, "w1"))

	c.Select(model.KindDoor, "d1")
	removed.Add(model.KindDoor, "d1")
	c.Prune(removed)
	_, ok := c.Single()
	assert.False(t, ok)
}

func TestMarqueeOnlyInSelectMode(t *testing.T) {
	c := New()
	c.SetMode(ModeRoom)
	assert.False(t, c.BeginMarquee(pt(0, 0)))
	c.SetMode(ModeSelect)
	assert.True(t, c.BeginMarquee(pt(0, 0)))
	assert.Equal(t, MarqueeDragging, c.State())
}

func TestMarqueeSelectsIntersecting(t *testing.T) {
	f := newFixture(t)
	c := New()

	require.True(t, c.BeginMarquee(pt(40, 40)))
	c.UpdateMarquee(pt(300, 200))
	hits := c.EndMarquee(geo.CanvasFrame{}, f.scene)

	assert.Equal(t, 3, hits.Len())
	assert.True(t, c.IsSelected(model.KindRoom, f.roomA.ID))
	assert.True(t, c.IsSelected(model.KindRoom, f.roomB.ID))
	assert.True(t, c.IsSelected(model.KindFurniture, f.chair.ID))
	assert.False(t, c.IsSelected(model.KindFurniture, f.farChair.ID))
	assert.Equal(t, MultiSelected, c.State())
}

func TestMarqueeIsAdditive(t *testing.T) {
	f := newFixture(t)
	c := New()
	c.ToggleMulti(model.KindFurniture, f.farChair.ID)

	c.BeginMarquee(pt(40, 40))
	c.UpdateMarquee(pt(100, 100))
	c.EndMarquee(geo.CanvasFrame{}, f.scene)

	assert.True(t, c.IsSelected(model.KindFurniture, f.farChair.ID))
	assert.True(t, c.IsSelected(model.KindRoom, f.roomA.ID))
}

func TestMarqueeClickSelectsNothing(t *testing.T) {
	f := newFixture(t)
	c := New()
	c.Select(model.KindRoom, f.roomB.ID)

	c.BeginMarquee(pt(60, 60))
	c.UpdateMarquee(pt(300, 63))
	hits := c.EndMarquee(geo.CanvasFrame{}, f.scene)

	assert.True(t, hits.Empty())
	assert.True(t, c.Multi().Empty())
	ref, ok := c.Single()
	require.True(t, ok)
	assert.Equal(t, f.roomB.ID, ref.ID)
}

func TestMarqueeUsesSceneFrame(t *testing.T) {
	f := newFixture(t)
	c := New()
	// ADU content shifted 100 ft right: the rooms now draw at x+2400.
	frame := geo.ADUPlacement{OffsetXFt: 100}

	c.BeginMarquee(pt(40, 40))
	c.UpdateMarquee(pt(300, 200))
	assert.True(t, c.EndMarquee(frame, f.scene).Empty())

	c.BeginMarquee(pt(2440, 40))
	c.UpdateMarquee(pt(2700, 200))
	assert.Equal(t, 3, c.EndMarquee(frame, f.scene).Len())
}

func TestMarqueeDragCommitsOnce(t *testing.T) {
	f := newFixture(t)
	c := New()

	c.BeginMarquee(pt(40, 40))
	c.UpdateMarquee(pt(300, 200))
	c.EndMarquee(geo.CanvasFrame{}, f.scene)

	before := f.scene.Clone()
	require.True(t, c.BeginDrag(pt(100, 100)))
	assert.Equal(t, pt(0, 0), c.PreviewDelta())
	c.DragTo(pt(110, 100))
	c.DragTo(pt(124, 100))
	assert.Equal(t, pt(24, 0), c.PreviewDelta())
	assert.True(t, c.InPreview(model.KindRoom, f.roomA.ID))
	assert.Equal(t, before, f.scene, "preview must not mutate the scene")

	require.True(t, c.EndDrag(&f.scene, units.HalfGrid))
	assert.Equal(t, pt(0, 0), c.PreviewDelta())
	assert.Equal(t, MultiSelected, c.State())

	oneFoot := units.FeetToPixels(1)
	assert.Equal(t, f.roomA.Vertices[0].X+oneFoot, f.scene.FindRoom(f.roomA.ID).Vertices[0].X)
	assert.Equal(t, f.roomB.Vertices[0].X+oneFoot, f.scene.FindRoom(f.roomB.ID).Vertices[0].X)
	assert.Equal(t, f.chair.Position.X+oneFoot, f.scene.FindFurniture(f.chair.ID).Position.X)
	assert.Equal(t, f.farChair.Position, f.scene.FindFurniture(f.farChair.ID).Position)
}

func TestSubThresholdDragIsCancelled(t *testing.T) {
	f := newFixture(t)
	c := New()
	c.ToggleMulti(model.KindRoom, f.roomA.ID)
	before := f.scene.Clone()

	c.BeginDrag(pt(100, 100))
	c.DragTo(pt(101, 100))
	assert.False(t, c.EndDrag(&f.scene, units.HalfGrid))
	assert.Equal(t, before, f.scene)
	assert.Equal(t, pt(0, 0), c.PreviewDelta())
}

func TestCancelRestoresPreGestureState(t *testing.T) {
	f := newFixture(t)
	c := New()
	c.ToggleMulti(model.KindFurniture, f.farChair.ID)
	want := c.Multi()

	c.BeginMarquee(pt(40, 40))
	c.UpdateMarquee(pt(300, 200))
	c.Cancel()
	assert.Equal(t, want, c.Multi())
	_, active := c.MarqueeRect()
	assert.False(t, active)

	c.BeginDrag(pt(0, 0))
	c.DragTo(pt(240, 0))
	c.Cancel()
	assert.Equal(t, pt(0, 0), c.PreviewDelta())
	assert.Equal(t, want, c.Multi())
	assert.Equal(t, MultiSelected, c.State())
}

func TestBeginDragNeedsMultiSelection(t *testing.T) {
	c := New()
	assert.False(t, c.BeginDrag(pt(0, 0)))
	c.Select(model.KindRoom, "r1")
	assert.False(t, c.BeginDrag(pt(0, 0)))
}
