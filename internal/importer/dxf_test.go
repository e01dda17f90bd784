package importer

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/ADUPlanner/internal/geometry"
	"github.com/piwi3910/ADUPlanner/internal/units"
)

func saveDrawing(t *testing.T, build func(d *drawing.Drawing)) string {
	t.Helper()
	d := dxf.NewDrawing()
	build(d)
	path := filepath.Join(t.TempDir(), "plan.dxf")
	require.NoError(t, d.SaveAs(path))
	return path
}

func TestImportBoundaryDXF_Polyline(t *testing.T) {
	path := saveDrawing(t, func(d *drawing.Drawing) {
		_, err := d.LwPolyline(true, []float64{0, 0}, []float64{20, 0}, []float64{20, 30}, []float64{0, 30})
		require.NoError(t, err)
		_, err = d.LwPolyline(true, []float64{40, 40}, []float64{42, 40}, []float64{42, 42})
		require.NoError(t, err)
	})

	r := ImportBoundaryDXF(path, 1)
	require.True(t, r.OK(), "errors: %v", r.Errors)
	assert.Equal(t, 600, r.Area)
	assert.Len(t, r.Vertices, 4)

	b := geometry.BoundsOf(r.Vertices)
	assert.Equal(t, geometry.Point{X: units.CanvasCenter, Y: units.CanvasCenter}, b.Center())
	for _, v := range r.Vertices {
		assert.Zero(t, math.Mod(v.X, units.GridSize))
		assert.Zero(t, math.Mod(v.Y, units.GridSize))
	}
	assert.NotEmpty(t, r.Warnings, "second shape reported")
}

func TestImportBoundaryDXF_InchesAndChainedLines(t *testing.T) {
	path := saveDrawing(t, func(d *drawing.Drawing) {
		pts := [][2]float64{{0, 0}, {120, 0}, {120, 120}, {0, 120}}
		for i := range pts {
			a, b := pts[i], pts[(i+1)%len(pts)]
			_, err := d.Line(a[0], a[1], 0, b[0], b[1], 0)
			require.NoError(t, err)
		}
	})

	r := ImportBoundaryDXF(path, 1.0/12)
	require.True(t, r.OK(), "errors: %v", r.Errors)
	assert.Equal(t, 100, r.Area)
}

func TestImportBoundaryDXF_NoClosedShape(t *testing.T) {
	path := saveDrawing(t, func(d *drawing.Drawing) {
		_, err := d.Line(0, 0, 0, 10, 0, 0)
		require.NoError(t, err)
	})
	r := ImportBoundaryDXF(path, 1)
	assert.False(t, r.OK())
	assert.NotEmpty(t, r.Errors)
}

func TestImportBoundaryDXF_MissingFile(t *testing.T) {
	r := ImportBoundaryDXF("/nonexistent/plan.dxf", 1)
	assert.NotEmpty(t, r.Errors)
}

func TestChainSegmentsDropsOpenChains(t *testing.T) {
	segs := []geometry.Segment{
		{Start: geometry.Point{}, End: geometry.Point{X: 1}},
		{Start: geometry.Point{X: 1}, End: geometry.Point{X: 1, Y: 1}},
	}
	assert.Empty(t, chainSegments(segs, 0.01))
}

func TestBulgeArcEndpoints(t *testing.T) {
	p1, p2 := geometry.Point{X: 0}, geometry.Point{X: 2}
	pts := bulgeArcPoints(p1, p2, 1, 8)
	require.Len(t, pts, 9)
	assert.InDelta(t, 0, pts[0].Dist(p1), 1e-9)
	assert.InDelta(t, 0, pts[8].Dist(p2), 1e-9)
	assert.InDelta(t, 1, pts[4].Dist(geometry.Point{X: 1}), 1e-9, "semicircle of radius 1")
}
