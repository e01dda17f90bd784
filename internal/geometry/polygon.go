package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// labelGridSamples is the per-axis sample count used when the centroid of a
// polygon falls outside it.
const labelGridSamples = 10

// PolygonArea returns the absolute shoelace area of an implicitly closed
// polygon. Fewer than 3 vertices yield 0.
func PolygonArea(vertices []Point) float64 {
	n := len(vertices)
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += vertices[i].X * vertices[j].Y
		area -= vertices[j].X * vertices[i].Y
	}
	return math.Abs(area) / 2
}

// Centroid returns the mean of the vertices. It is the rotation pivot and
// the preferred label anchor.
func Centroid(vertices []Point) Point {
	if len(vertices) == 0 {
		return Point{}
	}
	var sx, sy float64
	for _, v := range vertices {
		sx += v.X
		sy += v.Y
	}
	n := float64(len(vertices))
	return Point{X: sx / n, Y: sy / n}
}

// ring closes vertices into an orb ring.
func ring(vertices []Point) orb.Ring {
	r := make(orb.Ring, 0, len(vertices)+1)
	for _, v := range vertices {
		r = append(r, v.orb())
	}
	return append(r, vertices[0].orb())
}

// PointInPolygon runs the ray-casting parity test.
func PointInPolygon(p Point, vertices []Point) bool {
	n := len(vertices)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := vertices[i], vertices[j]
		if (vi.Y > p.Y) != (vj.Y > p.Y) &&
			p.X < (vj.X-vi.X)*(p.Y-vi.Y)/(vj.Y-vi.Y)+vi.X {
			inside = !inside
		}
	}
	return inside
}

// DistanceToSegment returns the distance from p to the segment [a, b],
// projecting onto the segment with the parameter clamped to [0, 1].
func DistanceToSegment(p, a, b Point) float64 {
	return planar.DistanceFromSegment(a.orb(), b.orb(), p.orb())
}

// minEdgeDistance is the smallest distance from p to any polygon edge.
func minEdgeDistance(p Point, vertices []Point) float64 {
	best := math.Inf(1)
	n := len(vertices)
	for i := 0; i < n; i++ {
		d := DistanceToSegment(p, vertices[i], vertices[(i+1)%n])
		if d < best {
			best = d
		}
	}
	return best
}

// ClosestEdge returns the index i of the edge (v[i], v[i+1]) closest to p
// and its distance. It returns -1 when there are fewer than 2 vertices.
func ClosestEdge(p Point, vertices []Point) (int, float64) {
	n := len(vertices)
	if n < 2 {
		return -1, math.Inf(1)
	}
	bestIdx := -1
	best := math.Inf(1)
	for i := 0; i < n; i++ {
		d := DistanceToSegment(p, vertices[i], vertices[(i+1)%n])
		if d < best {
			best = d
			bestIdx = i
		}
	}
	return bestIdx, best
}

// BestInteriorLabelPoint returns a point inside the polygon suitable for a
// text label. The centroid is used when it is interior; otherwise a 10x10
// grid over the bounding box is sampled and the interior sample farthest
// from every edge wins. Degenerate polygons, including self-intersecting
// ones whose signed area cancels out, fall back to the centroid.
func BestInteriorLabelPoint(vertices []Point) Point {
	c := Centroid(vertices)
	if len(vertices) < 3 || PointInPolygon(c, vertices) {
		return c
	}
	if _, area := planar.CentroidArea(ring(vertices)); area == 0 {
		return c
	}

	b := BoundsOf(vertices)
	stepX := b.Width() / labelGridSamples
	stepY := b.Height() / labelGridSamples

	best := c
	bestDist := -1.0
	for i := 0; i < labelGridSamples; i++ {
		for j := 0; j < labelGridSamples; j++ {
			sample := Point{
				X: b.Min.X + (float64(i)+0.5)*stepX,
				Y: b.Min.Y + (float64(j)+0.5)*stepY,
			}
			if !PointInPolygon(sample, vertices) {
				continue
			}
			if d := minEdgeDistance(sample, vertices); d > bestDist {
				bestDist = d
				best = sample
			}
		}
	}
	return best
}
