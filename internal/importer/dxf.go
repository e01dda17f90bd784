package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/drawing"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/ADUPlanner/internal/geometry"
	"github.com/piwi3910/ADUPlanner/internal/snap"
	"github.com/piwi3910/ADUPlanner/internal/units"
)

// BoundaryResult holds an imported ADU footprint in canvas pixels.
type BoundaryResult struct {
	Vertices []geometry.Point
	Area     int // sq ft
	Errors   []string
	Warnings []string
}

// OK reports whether a usable boundary was found.
func (r BoundaryResult) OK() bool {
	return len(r.Errors) == 0 && len(r.Vertices) >= 3
}

// ImportBoundaryDXF reads the largest closed shape of a DXF drawing
// (LWPOLYLINE, CIRCLE, or chain of LINEs/ARCs) as the ADU boundary.
// feetPerUnit converts drawing units to feet (1 for drawings in feet,
// 1.0/12 for inches). The shape is centered on the canvas, Y is flipped
// to screen orientation and every vertex snaps to the full grid.
func ImportBoundaryDXF(path string, feetPerUnit float64) BoundaryResult {
	result := BoundaryResult{}
	if feetPerUnit <= 0 {
		feetPerUnit = 1
	}

	d, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	outlines, warnings := closedShapes(d)
	result.Warnings = append(result.Warnings, warnings...)
	if len(outlines) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}
	if len(outlines) > 1 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Found %d closed shapes, using the largest", len(outlines)))
	}

	verts := toCanvas(outlines[0], feetPerUnit)
	if len(verts) < 3 {
		result.Errors = append(result.Errors, "Boundary collapses to fewer than 3 grid points")
		return result
	}
	result.Vertices = verts
	result.Area = units.RoundSqFeet(geometry.PolygonArea(verts))
	return result
}

// closedShapes collects every closed outline of the drawing, largest first.
func closedShapes(d *drawing.Drawing) ([][]geometry.Point, []string) {
	var outlines [][]geometry.Point
	var segments []geometry.Segment
	var warnings []string

	for _, ent := range d.Entities() {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			outline := lwPolylineToOutline(e)
			if len(outline) >= 3 {
				outlines = append(outlines, outline)
			} else {
				warnings = append(warnings, "Skipped LWPOLYLINE with fewer than 3 vertices")
			}
		case *entity.Circle:
			outlines = append(outlines, circleToOutline(e, 32))
		case *entity.Arc:
			segments = append(segments, pointsToSegments(arcToPoints(e, 16))...)
		case *entity.Line:
			segments = append(segments, geometry.Segment{
				Start: geometry.Point{X: e.Start[0], Y: e.Start[1]},
				End:   geometry.Point{X: e.End[0], Y: e.End[1]},
			})
		}
	}

	outlines = append(outlines, chainSegments(segments, 0.01)...)
	sort.SliceStable(outlines, func(i, j int) bool {
		return geometry.PolygonArea(outlines[i]) > geometry.PolygonArea(outlines[j])
	})
	return outlines, warnings
}

// toCanvas scales a drawing outline to pixels, flips Y, centers it on the
// canvas and snaps it to the grid. Consecutive duplicates left by snapping
// are dropped.
func toCanvas(outline []geometry.Point, feetPerUnit float64) []geometry.Point {
	scale := feetPerUnit * units.PixelsPerFoot
	px := make([]geometry.Point, len(outline))
	for i, p := range outline {
		px[i] = geometry.Point{X: p.X * scale, Y: -p.Y * scale}
	}
	c := geometry.BoundsOf(px).Center()
	dx, dy := units.CanvasCenter-c.X, units.CanvasCenter-c.Y

	var out []geometry.Point
	for _, p := range px {
		q := snap.ConstrainToCanvas(snap.Point(geometry.Point{X: p.X + dx, Y: p.Y + dy}, units.GridSize))
		if len(out) > 0 && out[len(out)-1] == q {
			continue
		}
		out = append(out, q)
	}
	for len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	return out
}

// lwPolylineToOutline converts a DXF LWPOLYLINE entity to an outline.
// Bulge values on vertices produce interpolated arc segments.
func lwPolylineToOutline(lw *entity.LwPolyline) []geometry.Point {
	var outline []geometry.Point
	for i, v := range lw.Vertices {
		current := geometry.Point{X: v[0], Y: v[1]}
		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}
		if math.Abs(bulge) < 1e-9 {
			outline = append(outline, current)
			continue
		}
		nv := lw.Vertices[(i+1)%len(lw.Vertices)]
		arc := bulgeArcPoints(current, geometry.Point{X: nv[0], Y: nv[1]}, bulge, 16)
		outline = append(outline, arc[:len(arc)-1]...)
	}
	return outline
}

// bulgeArcPoints samples the arc between two vertices. The bulge is the
// tangent of a quarter of the included angle; negative bulges run clockwise.
func bulgeArcPoints(p1, p2 geometry.Point, bulge float64, n int) []geometry.Point {
	chord := p1.Dist(p2)
	if chord < 1e-9 {
		return []geometry.Point{p1, p2}
	}
	mid := p1.Add(p2).Scale(0.5)
	d := p2.Sub(p1)

	sagitta := math.Abs(bulge) * chord / 2
	radius := (chord*chord/(4*sagitta) + sagitta) / 2

	perp := geometry.Point{X: -d.Y / chord, Y: d.X / chord}
	if bulge > 0 {
		perp = perp.Scale(-1)
	}
	c := mid.Add(perp.Scale(radius - sagitta))

	start := math.Atan2(p1.Y-c.Y, p1.X-c.X)
	end := math.Atan2(p2.Y-c.Y, p2.X-c.X)
	if bulge < 0 && end > start {
		end -= 2 * math.Pi
	} else if bulge > 0 && end < start {
		end += 2 * math.Pi
	}

	pts := make([]geometry.Point, 0, n+1)
	for i := 0; i <= n; i++ {
		a := start + float64(i)/float64(n)*(end-start)
		pts = append(pts, geometry.Point{X: c.X + radius*math.Cos(a), Y: c.Y + radius*math.Sin(a)})
	}
	return pts
}

func circleToOutline(c *entity.Circle, n int) []geometry.Point {
	out := make([]geometry.Point, n)
	for i := range out {
		a := 2 * math.Pi * float64(i) / float64(n)
		out[i] = geometry.Point{X: c.Center[0] + c.Radius*math.Cos(a), Y: c.Center[1] + c.Radius*math.Sin(a)}
	}
	return out
}

func arcToPoints(a *entity.Arc, n int) []geometry.Point {
	cx, cy, r := a.Circle.Center[0], a.Circle.Center[1], a.Circle.Radius
	start := a.Angle[0] * math.Pi / 180
	end := a.Angle[1] * math.Pi / 180
	if end <= start {
		end += 2 * math.Pi
	}
	pts := make([]geometry.Point, n+1)
	for i := range pts {
		t := start + float64(i)/float64(n)*(end-start)
		pts[i] = geometry.Point{X: cx + r*math.Cos(t), Y: cy + r*math.Sin(t)}
	}
	return pts
}

func pointsToSegments(pts []geometry.Point) []geometry.Segment {
	if len(pts) < 2 {
		return nil
	}
	segs := make([]geometry.Segment, 0, len(pts)-1)
	for i := 0; i < len(pts)-1; i++ {
		segs = append(segs, geometry.Segment{Start: pts[i], End: pts[i+1]})
	}
	return segs
}

// chainSegments connects loose segments into closed outlines. Endpoints
// within tolerance count as connected; open chains are dropped.
func chainSegments(segs []geometry.Segment, tolerance float64) [][]geometry.Point {
	used := make([]bool, len(segs))
	var outlines [][]geometry.Point

	for start := range segs {
		if used[start] {
			continue
		}
		used[start] = true
		chain := []geometry.Point{segs[start].Start, segs[start].End}

		for extended := true; extended; {
			extended = false
			tail := chain[len(chain)-1]
			for i, s := range segs {
				if used[i] {
					continue
				}
				switch {
				case tail.Dist(s.Start) <= tolerance:
					chain = append(chain, s.End)
				case tail.Dist(s.End) <= tolerance:
					chain = append(chain, s.Start)
				default:
					continue
				}
				used[i] = true
				extended = true
				break
			}
		}

		if len(chain) < 4 || chain[0].Dist(chain[len(chain)-1]) > tolerance {
			continue
		}
		outlines = append(outlines, chain[:len(chain)-1])
	}
	return outlines
}
