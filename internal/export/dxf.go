package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
	"github.com/yofu/dxf/table"

	"github.com/piwi3910/ADUPlanner/internal/geometry"
	"github.com/piwi3910/ADUPlanner/internal/model"
	"github.com/piwi3910/ADUPlanner/internal/units"
)

// DXF layer names.
const (
	LayerBoundary  = "BOUNDARY"
	LayerWalls     = "WALLS"
	LayerDoors     = "DOORS"
	LayerWindows   = "WINDOWS"
	LayerFurniture = "FURNITURE"
	LayerText      = "TEXT"
)

var dxfLayers = []struct {
	name  string
	color color.ColorNumber
}{
	{LayerBoundary, color.Cyan},
	{LayerWalls, color.White},
	{LayerDoors, color.Yellow},
	{LayerWindows, color.Blue},
	{LayerFurniture, color.Green},
	{LayerText, color.Magenta},
}

// BuildDXF converts the plan to a drawing in feet with Y pointing up, one
// layer per element kind. Walls are drawn from the opening-cut segments.
func BuildDXF(exp model.Export) (*drawing.Drawing, error) {
	if len(exp.Rooms) == 0 && len(exp.Boundary.Vertices) < 3 {
		return nil, ErrEmptyPlan
	}
	d := dxf.NewDrawing()
	for _, l := range dxfLayers {
		if _, err := d.AddLayer(l.name, l.color, table.LT_CONTINUOUS, false); err != nil {
			return nil, fmt.Errorf("adding layer %s: %w", l.name, err)
		}
	}

	w := dxfWriter{d: d, origin: exp.Bounds().Min}
	if len(exp.Boundary.Vertices) >= 3 {
		w.layer(LayerBoundary)
		w.polygon(exp.Boundary.Vertices)
	}

	w.layer(LayerWalls)
	for _, r := range exp.Rooms {
		for _, s := range r.Segments {
			w.line(s.Start, s.End)
		}
	}

	w.layer(LayerDoors)
	for _, dr := range exp.Doors {
		w.polygon(dr.Bounds().Corners())
	}
	w.layer(LayerWindows)
	for _, wd := range exp.Windows {
		w.polygon(wd.Bounds().Corners())
	}
	w.layer(LayerFurniture)
	for _, f := range exp.Furniture {
		w.polygon(f.Bounds().Corners())
	}

	w.layer(LayerText)
	for _, r := range exp.Rooms {
		name, area := roomTitle(r)
		w.text(name+" "+area, r.Label, 0.75)
	}
	return d, w.err
}

// ExportDXF writes the plan as a DXF file.
func ExportDXF(path string, exp model.Export) error {
	d, err := BuildDXF(exp)
	if err != nil {
		return err
	}
	return d.SaveAs(path)
}

// dxfWriter keeps the first error so drawing calls can be chained.
type dxfWriter struct {
	d      *drawing.Drawing
	origin geometry.Point
	err    error
}

// ft converts a canvas point to drawing feet relative to the plan's
// top-left corner, flipping Y.
func (w *dxfWriter) ft(p geometry.Point) (float64, float64) {
	return units.PixelsToFeet(p.X - w.origin.X), -units.PixelsToFeet(p.Y - w.origin.Y)
}

func (w *dxfWriter) layer(name string) {
	if w.err == nil {
		w.err = w.d.ChangeLayer(name)
	}
}

func (w *dxfWriter) line(a, b geometry.Point) {
	if w.err != nil {
		return
	}
	x1, y1 := w.ft(a)
	x2, y2 := w.ft(b)
	_, w.err = w.d.Line(x1, y1, 0, x2, y2, 0)
}

func (w *dxfWriter) polygon(pts []geometry.Point) {
	if w.err != nil {
		return
	}
	verts := make([][]float64, len(pts))
	for i, p := range pts {
		x, y := w.ft(p)
		verts[i] = []float64{x, y}
	}
	_, w.err = w.d.LwPolyline(true, verts...)
}

func (w *dxfWriter) text(s string, at geometry.Point, height float64) {
	if w.err != nil {
		return
	}
	x, y := w.ft(at)
	_, w.err = w.d.Text(s, x, y, 0, height)
}
