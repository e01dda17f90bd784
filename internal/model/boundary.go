package model

import (
	"math"

	"github.com/piwi3910/ADUPlanner/internal/geometry"
	"github.com/piwi3910/ADUPlanner/internal/snap"
	"github.com/piwi3910/ADUPlanner/internal/units"
)

func (s *Scene) recomputeBoundaryArea() {
	s.Boundary.Area = units.RoundSqFeet(geometry.PolygonArea(s.Boundary.Vertices))
}

// SetBoundaryArea replaces the boundary with a square of roughly sqft
// square feet. The side is snapped to the full grid and the square is
// centered on the current unsnapped centroid, or on the canvas center for
// an empty boundary, so repeated calls with the same area do not drift.
func (s *Scene) SetBoundaryArea(sqft float64) bool {
	if sqft <= 0 || math.IsNaN(sqft) || math.IsInf(sqft, 0) {
		return false
	}
	side := snap.ToGrid(math.Sqrt(sqft)*units.PixelsPerFoot, units.GridSize)
	if side < units.GridSize {
		side = units.GridSize
	}
	center := geometry.Point{X: units.CanvasCenter, Y: units.CanvasCenter}
	if len(s.Boundary.Vertices) >= 3 {
		center = geometry.Centroid(s.Boundary.Vertices)
	}
	corners := geometry.CenteredBounds(center, side, side).Corners()
	for i := range corners {
		corners[i] = snap.ConstrainToCanvas(corners[i])
	}
	s.Boundary.Vertices = corners
	s.recomputeBoundaryArea()
	return true
}

// MoveBoundaryPoint sets boundary vertex idx to p, snapped to the grid.
func (s *Scene) MoveBoundaryPoint(idx int, p geometry.Point) bool {
	if idx < 0 || idx >= len(s.Boundary.Vertices) {
		return false
	}
	s.Boundary.Vertices[idx] = snap.ConstrainToCanvas(snap.Point(p, units.GridSize))
	s.recomputeBoundaryArea()
	return true
}

// InsertBoundaryPoint splits the boundary edge closest to click with a new
// grid-snapped vertex. Returns the new vertex index, or -1.
func (s *Scene) InsertBoundaryPoint(click geometry.Point) int {
	edge, _ := geometry.ClosestEdge(click, s.Boundary.Vertices)
	if edge < 0 {
		return -1
	}
	p := snap.ConstrainToCanvas(snap.Point(click, units.GridSize))
	s.Boundary.Vertices = insertPoint(s.Boundary.Vertices, edge+1, p)
	s.recomputeBoundaryArea()
	return edge + 1
}

// RemoveBoundaryPoint deletes vertex idx unless the boundary would drop
// below three vertices.
func (s *Scene) RemoveBoundaryPoint(idx int) bool {
	if idx < 0 || idx >= len(s.Boundary.Vertices) || len(s.Boundary.Vertices) <= 3 {
		return false
	}
	s.Boundary.Vertices = removePoint(s.Boundary.Vertices, idx)
	s.recomputeBoundaryArea()
	return true
}

// TranslateBoundary shifts the whole boundary, snapping by its first
// vertex and keeping it on the canvas.
func (s *Scene) TranslateBoundary(dx, dy float64) bool {
	if len(s.Boundary.Vertices) == 0 {
		return false
	}
	s.Boundary.Vertices = shiftShape(s.Boundary.Vertices, dx, dy, units.GridSize)
	return true
}

// BoundaryDerivedRoom returns an unsaved room filling the boundary, used as
// the default layout of a fresh plan.
func (s Scene) BoundaryDerivedRoom() Room {
	r := Room{
		Type:     RoomLiving,
		Name:     "Living Area",
		Vertices: copyPoints(s.Boundary.Vertices),
		Color:    DefaultRoomColor(RoomLiving),
	}
	r.Area = r.ComputeArea()
	return r
}

// SetBoundary replaces the boundary with pts, each snapped to the full
// grid and clamped to the canvas. Fewer than three vertices are rejected.
func (s *Scene) SetBoundary(pts []geometry.Point) bool {
	if len(pts) < 3 {
		return false
	}
	verts := make([]geometry.Point, len(pts))
	for i, p := range pts {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return false
		}
		verts[i] = snap.ConstrainToCanvas(snap.Point(p, units.GridSize))
	}
	s.Boundary.Vertices = verts
	s.recomputeBoundaryArea()
	return true
}
