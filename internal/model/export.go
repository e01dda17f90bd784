package model

import (
	"time"

	"github.com/piwi3910/ADUPlanner/internal/geometry"
	"github.com/piwi3910/ADUPlanner/internal/units"
)

// ExportRoom is a room as seen by exporters, with feet-based dimensions.
type ExportRoom struct {
	Room
	WidthFt  float64            `json:"width_ft"`
	DepthFt  float64            `json:"depth_ft"`
	Label    geometry.Point     `json:"label"`
	Walls    []geometry.Wall    `json:"walls"`
	Segments []geometry.Segment `json:"segments"`
}

// Export is a read-only flattened projection of a plan. Areas are derived
// from vertices at build time, so the projection is always self-consistent.
type Export struct {
	Name          string             `json:"name"`
	GeneratedAt   time.Time          `json:"generated_at"`
	Rooms         []ExportRoom       `json:"rooms"`
	Doors         []Door             `json:"doors"`
	Windows       []Window           `json:"windows"`
	Furniture     []Furniture        `json:"furniture"`
	Boundary      Boundary           `json:"adu_boundary"`
	BoundaryWalls []geometry.Segment `json:"boundary_walls"`
	Lot           *Lot               `json:"lot,omitempty"`
	TotalArea     int                `json:"total_room_area"`
}

// BuildExport projects scene and the optional lot for exporters. The
// scene itself is not modified.
func BuildExport(name string, scene Scene, lot *Lot) Export {
	s := scene.Clone()
	s.Recompute()
	openings := s.Openings()

	rooms := make([]ExportRoom, len(s.Rooms))
	for i, r := range s.Rooms {
		b := r.Bounds()
		rooms[i] = ExportRoom{
			Room:     r,
			WidthFt:  units.PixelsToFeet(b.Width()),
			DepthFt:  units.PixelsToFeet(b.Height()),
			Label:    r.LabelPoint(),
			Walls:    geometry.WallSegmentsWithOpeningMetadata(r.Vertices, openings),
			Segments: geometry.WallSegmentsExcludingOpenings(r.Vertices, openings),
		}
	}

	exp := Export{
		Name:          name,
		GeneratedAt:   time.Now().UTC(),
		Rooms:         rooms,
		Doors:         s.Doors,
		Windows:       s.Windows,
		Furniture:     s.Furniture,
		Boundary:      s.Boundary,
		BoundaryWalls: geometry.WallSegmentsExcludingOpenings(s.Boundary.Vertices, openings),
		TotalArea:     s.TotalRoomArea(),
	}
	if lot != nil {
		l := lot.Clone()
		exp.Lot = &l
	}
	return exp
}

// Bounds returns the box enclosing the boundary and every room.
func (e Export) Bounds() geometry.Bounds {
	pts := append([]geometry.Point{}, e.Boundary.Vertices...)
	for _, r := range e.Rooms {
		pts = append(pts, r.Vertices...)
	}
	for _, f := range e.Furniture {
		pts = append(pts, f.Bounds().Corners()...)
	}
	return geometry.BoundsOf(pts)
}
