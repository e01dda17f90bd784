package geo

import (
	"github.com/piwi3910/ADUPlanner/internal/geometry"
	"github.com/piwi3910/ADUPlanner/internal/model"
	"github.com/piwi3910/ADUPlanner/internal/units"
)

// SetbackBoundary insets the bounding box of the lot outline by the
// setbacks. Front applies to the canvas bottom (max Y), back to the top,
// left and right to the X extremes. A crossed inset yields nil.
func SetbackBoundary(lot []geometry.Point, sb model.Setbacks) []geometry.Point {
	if len(lot) < 3 {
		return nil
	}
	b := geometry.BoundsOf(lot)
	b.Min.X += units.FeetToPixels(sb.Left)
	b.Max.X -= units.FeetToPixels(sb.Right)
	b.Min.Y += units.FeetToPixels(sb.Back)
	b.Max.Y -= units.FeetToPixels(sb.Front)
	if b.Min.X >= b.Max.X || b.Min.Y >= b.Max.Y {
		return nil
	}
	return b.Corners()
}

// BuildableArea returns the square footage left inside the setbacks.
func BuildableArea(lot []geometry.Point, sb model.Setbacks) int {
	return units.RoundSqFeet(geometry.PolygonArea(SetbackBoundary(lot, sb)))
}
