// Package units defines the fixed canvas scale and the conversions between
// canvas pixels and real-world feet.
package units

import "math"

const (
	PixelsPerFoot      = 24.0                // Canvas pixels per real-world foot
	GridSize           = PixelsPerFoot       // Full grid: 1 ft
	HalfGrid           = GridSize / 2        // Half grid: 0.5 ft
	ExtendedCanvasSize = 150 * PixelsPerFoot // Virtual canvas edge in pixels
	CanvasCenter       = ExtendedCanvasSize / 2
)

// FeetToPixels converts a distance in feet to canvas pixels.
func FeetToPixels(ft float64) float64 {
	return ft * PixelsPerFoot
}

// PixelsToFeet converts a canvas distance to feet.
func PixelsToFeet(px float64) float64 {
	return px / PixelsPerFoot
}

// SqPixelsToSqFeet converts an area in square pixels to square feet.
func SqPixelsToSqFeet(sqpx float64) float64 {
	return sqpx / (PixelsPerFoot * PixelsPerFoot)
}

// RoundSqFeet converts square pixels to whole square feet.
func RoundSqFeet(sqpx float64) int {
	return int(math.Round(SqPixelsToSqFeet(sqpx)))
}
