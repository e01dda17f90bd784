package geometry

import (
	"math"
	"sort"

	"github.com/piwi3910/ADUPlanner/internal/units"
)

// AlignTolerance is the maximum perpendicular distance, in pixels, between
// an opening's center and a wall for the opening to count as "on" it.
const AlignTolerance = units.GridSize / 4

// labelOffset is how far a wall dimension label sits from its wall.
const labelOffset = units.HalfGrid

const axisEps = 1e-6

// OpeningKind distinguishes doors from windows in wall metadata.
type OpeningKind string

const (
	OpeningDoor   OpeningKind = "door"
	OpeningWindow OpeningKind = "window"
)

// Opening is a door or window projected for wall cutting. Width is in
// canvas pixels, Rotation in degrees.
type Opening struct {
	ID       string
	Kind     OpeningKind
	Center   Point
	Width    float64
	Rotation float64
}

type axis int

const (
	axisNone axis = iota
	axisHorizontal
	axisVertical
)

func edgeAxis(a, b Point) axis {
	dx := math.Abs(b.X - a.X)
	dy := math.Abs(b.Y - a.Y)
	switch {
	case dy < axisEps && dx > axisEps:
		return axisHorizontal
	case dx < axisEps && dy > axisEps:
		return axisVertical
	default:
		return axisNone
	}
}

// NormalizeDegrees maps any angle into [0, 360).
func NormalizeDegrees(deg float64) float64 {
	r := math.Mod(deg, 360)
	if r < 0 {
		r += 360
	}
	return r
}

// runsAlong reports whether an opening with the given rotation lies along
// an edge of axis ax: 0/180 along horizontal walls, 90/270 along vertical.
func runsAlong(rotation float64, ax axis) bool {
	r := math.Mod(NormalizeDegrees(rotation), 180)
	switch ax {
	case axisHorizontal:
		return r < axisEps || 180-r < axisEps
	case axisVertical:
		return math.Abs(r-90) < axisEps
	}
	return false
}

// onEdge returns the opening's parametric position along [a, b] (distance
// from a) when it is aligned with the edge, or ok=false.
func onEdge(o Opening, a, b Point) (s float64, ok bool) {
	ax := edgeAxis(a, b)
	if ax == axisNone || !runsAlong(o.Rotation, ax) {
		return 0, false
	}
	var along, perp, lo, hi, start float64
	if ax == axisHorizontal {
		along, perp = o.Center.X, math.Abs(o.Center.Y-a.Y)
		lo, hi, start = math.Min(a.X, b.X), math.Max(a.X, b.X), a.X
	} else {
		along, perp = o.Center.Y, math.Abs(o.Center.X-a.X)
		lo, hi, start = math.Min(a.Y, b.Y), math.Max(a.Y, b.Y), a.Y
	}
	if perp > AlignTolerance || along < lo || along > hi {
		return 0, false
	}
	return math.Abs(along - start), true
}

type interval struct{ lo, hi float64 }

// WallSegmentsExcludingOpenings walks every polygon edge and subtracts the
// extent of each aligned opening from it. Edges without openings are
// returned unmodified; cut edges yield zero or more sub-segments in the
// edge's own direction. Renderers must draw these segments as-is.
func WallSegmentsExcludingOpenings(vertices []Point, openings []Opening) []Segment {
	n := len(vertices)
	if n < 2 {
		return nil
	}
	var out []Segment
	for i := 0; i < n; i++ {
		a, b := vertices[i], vertices[(i+1)%n]
		length := a.Dist(b)
		if length < axisEps {
			continue
		}

		var cuts []interval
		for _, o := range openings {
			s, ok := onEdge(o, a, b)
			if !ok {
				continue
			}
			lo := math.Max(0, s-o.Width/2)
			hi := math.Min(length, s+o.Width/2)
			if hi > lo {
				cuts = append(cuts, interval{lo, hi})
			}
		}
		if len(cuts) == 0 {
			out = append(out, Segment{Start: a, End: b})
			continue
		}

		sort.Slice(cuts, func(x, y int) bool { return cuts[x].lo < cuts[y].lo })
		cursor := 0.0
		for _, c := range cuts {
			if c.lo > cursor+axisEps {
				out = append(out, Segment{Start: lerp(a, b, cursor/length), End: lerp(a, b, c.lo/length)})
			}
			if c.hi > cursor {
				cursor = c.hi
			}
		}
		if length > cursor+axisEps {
			out = append(out, Segment{Start: lerp(a, b, cursor/length), End: b})
		}
	}
	return out
}

func lerp(a, b Point, t float64) Point {
	return Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}

// Wall describes one polygon edge for dimension labelling. Lengths are in
// feet; LabelAt is in the same space as the input vertices.
type Wall struct {
	Start           Point     `json:"start"`
	End             Point     `json:"end"`
	Length          float64   `json:"length"`
	Openings        []Opening `json:"-"`
	EffectiveLength float64   `json:"effective_length"`
	LabelAt         Point     `json:"label_at"`
}

// WallSegmentsWithOpeningMetadata returns one Wall per edge, carrying the
// openings aligned with it and the wall length left once their widths are
// removed (never negative). It is for dimension labels; outlines come from
// WallSegmentsExcludingOpenings.
func WallSegmentsWithOpeningMetadata(vertices []Point, openings []Opening) []Wall {
	n := len(vertices)
	if n < 2 {
		return nil
	}
	walls := make([]Wall, 0, n)
	for i := 0; i < n; i++ {
		a, b := vertices[i], vertices[(i+1)%n]
		w := Wall{
			Start:  a,
			End:    b,
			Length: units.PixelsToFeet(a.Dist(b)),
		}
		var cut float64
		for _, o := range openings {
			if _, ok := onEdge(o, a, b); ok {
				w.Openings = append(w.Openings, o)
				cut += units.PixelsToFeet(o.Width)
			}
		}
		w.EffectiveLength = math.Max(0, w.Length-cut)
		w.LabelAt = wallLabelPoint(vertices, i)
		walls = append(walls, w)
	}
	return walls
}

// wallLabelPoint places a label beside edge i: outside the polygon unless
// that spot crowds another edge, in which case it moves inside.
func wallLabelPoint(vertices []Point, i int) Point {
	n := len(vertices)
	a, b := vertices[i], vertices[(i+1)%n]
	mid := lerp(a, b, 0.5)
	length := a.Dist(b)
	if length < axisEps {
		return mid
	}
	normal := Point{X: -(b.Y - a.Y) / length, Y: (b.X - a.X) / length}

	outside := mid.Add(normal.Scale(labelOffset))
	inside := mid.Sub(normal.Scale(labelOffset))
	if PointInPolygon(outside, vertices) {
		outside, inside = inside, outside
	}
	for j := 0; j < n; j++ {
		if j == i {
			continue
		}
		if DistanceToSegment(outside, vertices[j], vertices[(j+1)%n]) < labelOffset {
			return inside
		}
	}
	return outside
}
