// Package geometry implements the pure 2-D math behind the floor plan:
// polygon area, point containment, label placement, and wall segments with
// door/window openings cut out. All functions are stateless and unit
// agnostic unless noted; callers decide whether coordinates are canvas
// pixels or feet.
package geometry

import (
	"math"

	"github.com/paulmach/orb"
)

// Point is an ordered pair of coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale multiplies both coordinates by k.
func (p Point) Scale(k float64) Point {
	return Point{X: p.X * k, Y: p.Y * k}
}

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

func (p Point) orb() orb.Point {
	return orb.Point{p.X, p.Y}
}

func fromOrb(p orb.Point) Point {
	return Point{X: p[0], Y: p[1]}
}

// Translate returns a copy of pts shifted by dx, dy.
func Translate(pts []Point, dx, dy float64) []Point {
	result := make([]Point, len(pts))
	for i, p := range pts {
		result[i] = Point{X: p.X + dx, Y: p.Y + dy}
	}
	return result
}

// Rotate90 rotates p by +90 degrees about c in screen space (Y down).
// Exact for integer inputs, unlike the trigonometric form.
func Rotate90(p, c Point) Point {
	dx := p.X - c.X
	dy := p.Y - c.Y
	return Point{X: c.X - dy, Y: c.Y + dx}
}

// RotatePoint rotates p about c by deg degrees (clockwise on screen).
func RotatePoint(p, c Point, deg float64) Point {
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	dx := p.X - c.X
	dy := p.Y - c.Y
	return Point{
		X: c.X + dx*cos - dy*sin,
		Y: c.Y + dx*sin + dy*cos,
	}
}

// Segment is a straight wall piece between two points.
type Segment struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// Length returns the segment length.
func (s Segment) Length() float64 {
	return s.Start.Dist(s.End)
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// BoundsOf returns the bounding box of pts. Empty input yields a zero box.
func BoundsOf(pts []Point) Bounds {
	if len(pts) == 0 {
		return Bounds{}
	}
	mp := make(orb.MultiPoint, len(pts))
	for i, p := range pts {
		mp[i] = p.orb()
	}
	b := mp.Bound()
	return Bounds{Min: fromOrb(b.Min), Max: fromOrb(b.Max)}
}

// RectBounds builds a normalized box from two opposite corners.
func RectBounds(a, b Point) Bounds {
	return BoundsOf([]Point{a, b})
}

// CenteredBounds returns the box of size w x h centered on c.
func CenteredBounds(c Point, w, h float64) Bounds {
	return Bounds{
		Min: Point{X: c.X - w/2, Y: c.Y - h/2},
		Max: Point{X: c.X + w/2, Y: c.Y + h/2},
	}
}

func (b Bounds) orb() orb.Bound {
	return orb.Bound{Min: b.Min.orb(), Max: b.Max.orb()}
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.Max.X - b.Min.X }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.Max.Y - b.Min.Y }

// Center returns the midpoint of the box.
func (b Bounds) Center() Point {
	return fromOrb(b.orb().Center())
}

// Intersects reports whether the two boxes overlap or touch.
func (b Bounds) Intersects(o Bounds) bool {
	return b.orb().Intersects(o.orb())
}

// Contains reports whether p lies inside or on the box.
func (b Bounds) Contains(p Point) bool {
	return b.orb().Contains(p.orb())
}

// Corners returns the four corners in TL, TR, BR, BL order.
func (b Bounds) Corners() []Point {
	return []Point{
		{X: b.Min.X, Y: b.Min.Y},
		{X: b.Max.X, Y: b.Min.Y},
		{X: b.Max.X, Y: b.Max.Y},
		{X: b.Min.X, Y: b.Max.Y},
	}
}
