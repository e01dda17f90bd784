package export

import (
	"fmt"
	"io"
	"os"

	svg "github.com/ajstarks/svgo"

	"github.com/piwi3910/ADUPlanner/internal/geometry"
	"github.com/piwi3910/ADUPlanner/internal/model"
)

// svgScale is the output size of one canvas pixel. At 24 px per foot the
// drawing comes out at 12 user units per foot.
const svgScale = 0.5

// WriteSVG renders the plan as SVG to w.
func WriteSVG(w io.Writer, exp model.Export) error {
	b := exp.Bounds()
	if len(exp.Rooms) == 0 && len(exp.Boundary.Vertices) < 3 {
		return ErrEmptyPlan
	}
	width := int((b.Width() + 48) * svgScale)
	height := int((b.Height() + 48) * svgScale)
	f, err := newFit(exp, 0, 0, float64(width), float64(height))
	if err != nil {
		return err
	}

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Title(exp.Name)
	canvas.Rect(0, 0, width, height, "fill:white")

	if len(exp.Boundary.Vertices) >= 3 {
		xs, ys := svgPoints(f, exp.Boundary.Vertices)
		canvas.Polygon(xs, ys, "fill:none;stroke:"+boundaryColor.hex()+";stroke-width:1;stroke-dasharray:6,3")
	}

	canvas.Group(`id="rooms"`)
	for _, r := range exp.Rooms {
		xs, ys := svgPoints(f, r.Vertices)
		canvas.Polygon(xs, ys, "fill:"+parseHex(r.Color).hex()+";stroke:none")
	}
	canvas.Gend()

	canvas.Group(`id="walls"`, "stroke:"+wallColor.hex()+";stroke-width:3;stroke-linecap:square")
	for _, r := range exp.Rooms {
		for _, s := range r.Segments {
			x1, y1 := f.pt(s.Start)
			x2, y2 := f.pt(s.End)
			canvas.Line(round(x1), round(y1), round(x2), round(y2))
		}
	}
	canvas.Gend()

	canvas.Group(`id="openings"`)
	for _, d := range exp.Doors {
		svgBox(canvas, f, d.Bounds(), fmt.Sprintf("fill:%s", doorColor.hex()))
	}
	for _, wd := range exp.Windows {
		svgBox(canvas, f, wd.Bounds(), fmt.Sprintf("fill:white;stroke:%s;stroke-width:1", windowColor.hex()))
	}
	canvas.Gend()

	canvas.Group(`id="furniture"`)
	for _, it := range exp.Furniture {
		svgBox(canvas, f, it.Bounds(), fmt.Sprintf("fill:%s;stroke:#757575;stroke-width:0.5", furnColor.hex()))
	}
	canvas.Gend()

	canvas.Group(`id="labels"`, "text-anchor:middle;font-family:sans-serif;font-size:10px;fill:#212121")
	for _, r := range exp.Rooms {
		name, area := roomTitle(r)
		x, y := f.pt(r.Label)
		canvas.Text(round(x), round(y)-2, name, "font-weight:bold")
		canvas.Text(round(x), round(y)+10, area)
	}
	canvas.Gend()

	canvas.End()
	return nil
}

// ExportSVG writes the plan as an SVG file.
func ExportSVG(path string, exp model.Export) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteSVG(out, exp); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func svgPoints(f fit, pts []geometry.Point) ([]int, []int) {
	xs := make([]int, len(pts))
	ys := make([]int, len(pts))
	for i, p := range pts {
		x, y := f.pt(p)
		xs[i], ys[i] = round(x), round(y)
	}
	return xs, ys
}

func svgBox(canvas *svg.SVG, f fit, b geometry.Bounds, style string) {
	x, y := f.pt(b.Min)
	canvas.Rect(round(x), round(y), max(1, round(f.dist(b.Width()))), max(1, round(f.dist(b.Height()))), style)
}

func round(v float64) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}
