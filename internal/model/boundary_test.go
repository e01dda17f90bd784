package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/ADUPlanner/internal/geometry"
	"github.com/piwi3910/ADUPlanner/internal/units"
)

func TestSetBoundaryAreaIsStable(t *testing.T) {
	s := NewScene()
	require.True(t, s.SetBoundaryArea(600))
	first := append([]geometry.Point{}, s.Boundary.Vertices...)
	require.True(t, s.SetBoundaryArea(600))
	assert.Equal(t, first, s.Boundary.Vertices)

	// sqrt(600) ft = 24.49 ft, snapped to a 24 ft side.
	b := geometry.BoundsOf(first)
	assert.Equal(t, 24*units.PixelsPerFoot, b.Width())
	assert.Equal(t, geometry.Point{X: units.CanvasCenter, Y: units.CanvasCenter}, b.Center())
	assert.Equal(t, 576, s.Boundary.Area)
}

func TestSetBoundaryAreaCentersOnUnsnappedCentroid(t *testing.T) {
	var s Scene
	s.Boundary.Vertices = []geometry.Point{{X: 101, Y: 101}, {X: 201, Y: 101}, {X: 201, Y: 201}, {X: 101, Y: 201}}
	require.True(t, s.SetBoundaryArea(100))
	assert.Equal(t, geometry.Point{X: 151, Y: 151}, geometry.BoundsOf(s.Boundary.Vertices).Center())
	assert.Equal(t, 100, s.Boundary.Area)
}

func TestSetBoundaryAreaClampsToCanvas(t *testing.T) {
	var s Scene
	s.Boundary.Vertices = []geometry.Point{{X: 0, Y: 0}, {X: 24, Y: 0}, {X: 24, Y: 24}, {X: 0, Y: 24}}
	require.True(t, s.SetBoundaryArea(400))
	for _, v := range s.Boundary.Vertices {
		assert.GreaterOrEqual(t, v.X, 0.0)
		assert.GreaterOrEqual(t, v.Y, 0.0)
	}
	assert.False(t, s.SetBoundaryArea(0))
	assert.False(t, s.SetBoundaryArea(-5))
}

func TestBoundaryPointEditing(t *testing.T) {
	s := NewScene()
	b := geometry.BoundsOf(s.Boundary.Vertices)

	// Click just below the middle of the top edge.
	idx := s.InsertBoundaryPoint(geometry.Point{X: b.Center().X + 5, Y: b.Min.Y + 3})
	require.Equal(t, 1, idx)
	require.Len(t, s.Boundary.Vertices, 5)
	assert.Equal(t, geometry.Point{X: b.Center().X, Y: b.Min.Y}, s.Boundary.Vertices[1])
	assert.Equal(t, 576, s.Boundary.Area)

	require.True(t, s.MoveBoundaryPoint(1, geometry.Point{X: b.Center().X, Y: b.Min.Y - 240}))
	assert.Greater(t, s.Boundary.Area, 576)

	require.True(t, s.RemoveBoundaryPoint(1))
	require.True(t, s.RemoveBoundaryPoint(0))
	assert.Len(t, s.Boundary.Vertices, 3)
	assert.False(t, s.RemoveBoundaryPoint(0))
	assert.Len(t, s.Boundary.Vertices, 3)
}

func TestBoundaryDerivedRoom(t *testing.T) {
	s := NewScene()
	r := s.BoundaryDerivedRoom()
	assert.Equal(t, s.Boundary.Area, r.Area)
	assert.Equal(t, RoomLiving, r.Type)

	added, ok := s.AddRoom(r)
	require.True(t, ok)
	added.Vertices[0] = geometry.Point{}
	assert.NotEqual(t, geometry.Point{}, s.Boundary.Vertices[0])
}

func TestSetBoundarySnapsImportedVertices(t *testing.T) {
	s := NewScene()
	pts := []geometry.Point{{X: 1201, Y: 1199}, {X: 1681, Y: 1200}, {X: 1680, Y: 1445}}
	require.True(t, s.SetBoundary(pts))
	assert.Equal(t, []geometry.Point{{X: 1200, Y: 1200}, {X: 1680, Y: 1200}, {X: 1680, Y: 1440}}, s.Boundary.Vertices)
	assert.Equal(t, 100, s.Boundary.Area)

	assert.False(t, s.SetBoundary(pts[:2]))
	assert.Len(t, s.Boundary.Vertices, 3)
}
