// Package snap quantizes canvas coordinates to the drawing grid and keeps
// them inside the extended canvas.
package snap

import (
	"math"

	"github.com/piwi3910/ADUPlanner/internal/geometry"
	"github.com/piwi3910/ADUPlanner/internal/units"
)

// Mode selects a snapping granularity.
type Mode string

const (
	ModeFull Mode = "full" // 1 ft grid
	ModeHalf Mode = "half" // 0.5 ft grid
	ModeFree Mode = "free" // no snapping
)

// Unit returns the grid spacing in pixels for the mode; 0 means no snapping.
func (m Mode) Unit() float64 {
	switch m {
	case ModeFull:
		return units.GridSize
	case ModeHalf:
		return units.HalfGrid
	default:
		return 0
	}
}

// ParseMode returns the mode named s, defaulting to ModeHalf.
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeFull, ModeFree:
		return Mode(s)
	default:
		return ModeHalf
	}
}

// ToGrid rounds value to the nearest multiple of unit. A non-positive unit
// returns value unchanged.
func ToGrid(value, unit float64) float64 {
	if unit <= 0 {
		return value
	}
	return math.Round(value/unit) * unit
}

// Point snaps both axes of p.
func Point(p geometry.Point, unit float64) geometry.Point {
	return geometry.Point{X: ToGrid(p.X, unit), Y: ToGrid(p.Y, unit)}
}

// ConstrainToCanvas clamps p into [0, ExtendedCanvasSize] on both axes.
func ConstrainToCanvas(p geometry.Point) geometry.Point {
	return geometry.Point{X: clamp(p.X), Y: clamp(p.Y)}
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(units.ExtendedCanvasSize, v))
}
