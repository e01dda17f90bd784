package geo

import (
	"github.com/piwi3910/ADUPlanner/internal/geometry"
	"github.com/piwi3910/ADUPlanner/internal/model"
	"github.com/piwi3910/ADUPlanner/internal/units"
)

// Frame maps between canvas pixels and the frame scene entities live in.
// Hit tests convert pointer positions with ToLocal before comparing them
// against entity geometry.
type Frame interface {
	ToLocal(p geometry.Point) geometry.Point
	ToCanvas(p geometry.Point) geometry.Point
}

// CanvasFrame is the identity frame used when no lot is active.
type CanvasFrame struct{}

func (CanvasFrame) ToLocal(p geometry.Point) geometry.Point  { return p }
func (CanvasFrame) ToCanvas(p geometry.Point) geometry.Point { return p }

// ADUPlacement positions the ADU content inside the lot: an offset in feet
// from the canvas center and a rotation about it.
type ADUPlacement struct {
	OffsetXFt float64
	OffsetYFt float64
	Rotation  float64 // degrees
}

// PlacementFromLot returns the placement stored on lot.
func PlacementFromLot(lot model.Lot) ADUPlacement {
	return ADUPlacement{
		OffsetXFt: lot.ADUOffsetX,
		OffsetYFt: lot.ADUOffsetY,
		Rotation:  lot.ADURotation,
	}
}

func (a ADUPlacement) offset() geometry.Point {
	return geometry.Point{
		X: units.FeetToPixels(a.OffsetXFt),
		Y: units.FeetToPixels(a.OffsetYFt),
	}
}

// ToCanvas maps an ADU-local point to canvas pixels.
func (a ADUPlacement) ToCanvas(p geometry.Point) geometry.Point {
	return geometry.RotatePoint(p, canvasCenter, a.Rotation).Add(a.offset())
}

// ToLocal inverts ToCanvas.
func (a ADUPlacement) ToLocal(p geometry.Point) geometry.Point {
	return geometry.RotatePoint(p.Sub(a.offset()), canvasCenter, -a.Rotation)
}

// LocalBounds maps a canvas rectangle into frame f and returns the
// axis-aligned box of its four transformed corners.
func LocalBounds(f Frame, canvas geometry.Bounds) geometry.Bounds {
	corners := canvas.Corners()
	for i, c := range corners {
		corners[i] = f.ToLocal(c)
	}
	return geometry.BoundsOf(corners)
}
