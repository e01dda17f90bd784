// Package geo converts between canvas pixels, feet and latitude/longitude.
// The conversion is a local flat-earth approximation anchored at the lot
// center, accurate for parcels up to about a mile across.
package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/umahmood/haversine"

	"github.com/piwi3910/ADUPlanner/internal/geometry"
	"github.com/piwi3910/ADUPlanner/internal/model"
	"github.com/piwi3910/ADUPlanner/internal/units"
)

// FeetPerDegreeLat is the length of one degree of latitude.
const FeetPerDegreeLat = 364000.0

// MaxFlatEarthMiles is the radius within which the approximation holds.
const MaxFlatEarthMiles = 1.0

// FeetPerDegreeLng is the length of one degree of longitude at lat.
func FeetPerDegreeLng(lat float64) float64 {
	return FeetPerDegreeLat * math.Cos(lat*math.Pi/180)
}

// canvasCenter is where the lot center lands on the canvas.
var canvasCenter = geometry.Point{X: units.CanvasCenter, Y: units.CanvasCenter}

// LotTransform maps the lot's geographic frame onto the canvas. The lot
// center sits at the canvas center, north is up before rotation.
type LotTransform struct {
	Lot model.Lot
}

// NewLotTransform returns the transform for lot.
func NewLotTransform(lot model.Lot) LotTransform {
	return LotTransform{Lot: lot.Clone()}
}

// GeoToFeet returns ll's offset from the lot center in feet, Y down and
// before lot rotation.
func (t LotTransform) GeoToFeet(ll model.LatLng) geometry.Point {
	return geometry.Point{
		X: (ll.Lng - t.Lot.Lng) * FeetPerDegreeLng(t.Lot.Lat),
		Y: -(ll.Lat - t.Lot.Lat) * FeetPerDegreeLat,
	}
}

// FeetToGeo inverts GeoToFeet.
func (t LotTransform) FeetToGeo(ft geometry.Point) model.LatLng {
	return model.LatLng{
		Lat: t.Lot.Lat - ft.Y/FeetPerDegreeLat,
		Lng: t.Lot.Lng + ft.X/FeetPerDegreeLng(t.Lot.Lat),
	}
}

// FeetToCanvas rotates an unrotated feet offset by the lot rotation and
// scales it into canvas pixels.
func (t LotTransform) FeetToCanvas(ft geometry.Point) geometry.Point {
	r := geometry.RotatePoint(ft, geometry.Point{}, t.Lot.Rotation)
	return canvasCenter.Add(r.Scale(units.PixelsPerFoot))
}

// CanvasToFeet inverts FeetToCanvas.
func (t LotTransform) CanvasToFeet(p geometry.Point) geometry.Point {
	ft := p.Sub(canvasCenter).Scale(1 / units.PixelsPerFoot)
	return geometry.RotatePoint(ft, geometry.Point{}, -t.Lot.Rotation)
}

// GeoToCanvas projects a coordinate onto the canvas.
func (t LotTransform) GeoToCanvas(ll model.LatLng) geometry.Point {
	return t.FeetToCanvas(t.GeoToFeet(ll))
}

// CanvasToGeo is the exact inverse of GeoToCanvas.
func (t LotTransform) CanvasToGeo(p geometry.Point) model.LatLng {
	return t.FeetToGeo(t.CanvasToFeet(p))
}

// footprintFeet returns the lot outline as unrotated feet offsets: the
// surveyed vertices when present, otherwise a width x depth rectangle.
func (t LotTransform) footprintFeet() []geometry.Point {
	if t.Lot.HasExplicitBoundary() {
		pts := make([]geometry.Point, len(t.Lot.Boundary))
		for i, ll := range t.Lot.Boundary {
			pts[i] = t.GeoToFeet(ll)
		}
		return pts
	}
	if t.Lot.WidthFt <= 0 || t.Lot.DepthFt <= 0 {
		return nil
	}
	return geometry.CenteredBounds(geometry.Point{}, t.Lot.WidthFt, t.Lot.DepthFt).Corners()
}

// BoundaryCanvas returns the lot outline in canvas pixels, or nil when the
// lot has neither vertices nor dimensions.
func (t LotTransform) BoundaryCanvas() []geometry.Point {
	ft := t.footprintFeet()
	if ft == nil {
		return nil
	}
	out := make([]geometry.Point, len(ft))
	for i, p := range ft {
		out[i] = t.FeetToCanvas(p)
	}
	return out
}

// BoundaryGeo returns the lot outline as coordinates.
func (t LotTransform) BoundaryGeo() []model.LatLng {
	if t.Lot.HasExplicitBoundary() {
		return append([]model.LatLng{}, t.Lot.Boundary...)
	}
	canvas := t.BoundaryCanvas()
	out := make([]model.LatLng, len(canvas))
	for i, p := range canvas {
		out[i] = t.CanvasToGeo(p)
	}
	return out
}

// GeoBounds returns the lot's bounding box with X = lng and Y = lat. A lot
// without outline collapses to its center.
func (t LotTransform) GeoBounds() orb.Bound {
	pts := t.BoundaryGeo()
	if len(pts) == 0 {
		c := orb.Point{t.Lot.Lng, t.Lot.Lat}
		return orb.Bound{Min: c, Max: c}
	}
	mp := make(orb.MultiPoint, len(pts))
	for i, ll := range pts {
		mp[i] = orb.Point{ll.Lng, ll.Lat}
	}
	return mp.Bound()
}

// WithinFlatEarthRange reports whether every outline vertex lies within
// MaxFlatEarthMiles of the lot center along the great circle.
func (t LotTransform) WithinFlatEarthRange() bool {
	center := haversine.Coord{Lat: t.Lot.Lat, Lon: t.Lot.Lng}
	for _, ll := range t.BoundaryGeo() {
		mi, _ := haversine.Distance(center, haversine.Coord{Lat: ll.Lat, Lon: ll.Lng})
		if mi > MaxFlatEarthMiles {
			return false
		}
	}
	return true
}
