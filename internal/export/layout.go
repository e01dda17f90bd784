// Package export renders a plan projection (model.Export) to PDF, PNG, SVG,
// DXF, XLSX and JSON files.
package export

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/piwi3910/ADUPlanner/internal/geometry"
	"github.com/piwi3910/ADUPlanner/internal/model"
)

// ErrEmptyPlan is returned when there is nothing to draw.
var ErrEmptyPlan = errors.New("plan has no boundary or rooms")

// rgb is a fill or stroke color.
type rgb struct {
	R, G, B int
}

var (
	wallColor     = rgb{R: 33, G: 33, B: 33}
	boundaryColor = rgb{R: 120, G: 120, B: 120}
	doorColor     = rgb{R: 141, G: 110, B: 99}
	windowColor   = rgb{R: 33, G: 150, B: 243}
	furnColor     = rgb{R: 189, G: 189, B: 189}
)

// parseHex reads "#rrggbb", falling back to light grey.
func parseHex(s string) rgb {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return rgb{R: 224, G: 224, B: 224}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return rgb{R: 224, G: 224, B: 224}
	}
	return rgb{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}
}

func (c rgb) hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// fit maps canvas pixels into a target box, keeping the aspect ratio and
// centering the drawing.
type fit struct {
	src    geometry.Bounds
	scale  float64
	ox, oy float64
}

// newFit fits the bounds of exp, plus a one-foot margin, into a w x h box
// whose top-left corner is (x, y).
func newFit(exp model.Export, x, y, w, h float64) (fit, error) {
	if len(exp.Rooms) == 0 && len(exp.Boundary.Vertices) < 3 {
		return fit{}, ErrEmptyPlan
	}
	src := exp.Bounds()
	src.Min = src.Min.Sub(geometry.Point{X: 24, Y: 24})
	src.Max = src.Max.Add(geometry.Point{X: 24, Y: 24})

	scale := math.Min(w/src.Width(), h/src.Height())
	return fit{
		src:   src,
		scale: scale,
		ox:    x + (w-src.Width()*scale)/2,
		oy:    y + (h-src.Height()*scale)/2,
	}, nil
}

// pt maps a canvas point into the target box.
func (f fit) pt(p geometry.Point) (float64, float64) {
	return f.ox + (p.X-f.src.Min.X)*f.scale, f.oy + (p.Y-f.src.Min.Y)*f.scale
}

// dist maps a canvas distance.
func (f fit) dist(d float64) float64 {
	return d * f.scale
}

// roomTitle is the two-line label drawn inside a room.
func roomTitle(r model.ExportRoom) (string, string) {
	name := r.Name
	if name == "" {
		name = string(r.Type)
	}
	return name, fmt.Sprintf("%d sq ft", r.Area)
}

// dimensions formats a rectangle's size in feet, e.g. 12' x 10'.
func dimensions(wFt, dFt float64) string {
	return fmt.Sprintf("%s x %s", feet(wFt), feet(dFt))
}

// feet formats a length as feet and inches, e.g. 12' 6".
func feet(ft float64) string {
	whole := math.Floor(ft)
	in := math.Round((ft - whole) * 12)
	if in == 12 {
		whole++
		in = 0
	}
	if in == 0 {
		return fmt.Sprintf("%.0f'", whole)
	}
	return fmt.Sprintf("%.0f' %.0f\"", whole, in)
}
