package export

import (
	"fmt"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/piwi3910/ADUPlanner/internal/geometry"
	"github.com/piwi3910/ADUPlanner/internal/model"
)

// DefaultPNGWidth is the raster width used when none is given.
const DefaultPNGWidth = 2000

// RenderPNG draws the plan into a gg context width pixels wide.
func RenderPNG(exp model.Export, width int) (*gg.Context, error) {
	if width <= 0 {
		width = DefaultPNGWidth
	}
	b := exp.Bounds()
	if b.Width() <= 0 || b.Height() <= 0 {
		return nil, ErrEmptyPlan
	}
	height := int(float64(width) * (b.Height() + 48) / (b.Width() + 48))

	f, err := newFit(exp, 0, 0, float64(width), float64(height))
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(width, height)
	dc.SetColor(color.White)
	dc.Clear()

	ttfFont, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	fontSize := clampFloat(f.dist(12), 8, 28)
	dc.SetFontFace(truetype.NewFace(ttfFont, &truetype.Options{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	}))

	if len(exp.Boundary.Vertices) >= 3 {
		tracePolygon(dc, f, exp.Boundary.Vertices)
		dc.SetDash(8, 4)
		dc.SetLineWidth(1.5)
		setRGB(dc, boundaryColor)
		dc.Stroke()
		dc.SetDash()
	}

	for _, r := range exp.Rooms {
		tracePolygon(dc, f, r.Vertices)
		setRGB(dc, parseHex(r.Color))
		dc.Fill()
	}

	dc.SetLineWidth(clampFloat(f.dist(4), 2, 10))
	dc.SetLineCapSquare()
	setRGB(dc, wallColor)
	for _, r := range exp.Rooms {
		for _, s := range r.Segments {
			x1, y1 := f.pt(s.Start)
			x2, y2 := f.pt(s.End)
			dc.DrawLine(x1, y1, x2, y2)
		}
	}
	dc.Stroke()

	for _, d := range exp.Doors {
		drawBox(dc, f, d.Bounds(), doorColor, true)
	}
	for _, w := range exp.Windows {
		drawBox(dc, f, w.Bounds(), windowColor, false)
	}
	for _, it := range exp.Furniture {
		drawBox(dc, f, it.Bounds(), furnColor, true)
	}

	dc.SetColor(color.Black)
	lineH := fontSize * 1.3
	for _, r := range exp.Rooms {
		name, area := roomTitle(r)
		x, y := f.pt(r.Label)
		dc.DrawStringAnchored(name, x, y-lineH/2, 0.5, 0.5)
		dc.DrawStringAnchored(area, x, y+lineH/2, 0.5, 0.5)
	}
	return dc, nil
}

// ExportPNG writes the plan as a PNG image.
func ExportPNG(path string, exp model.Export, width int) error {
	dc, err := RenderPNG(exp, width)
	if err != nil {
		return err
	}
	return dc.SavePNG(path)
}

func tracePolygon(dc *gg.Context, f fit, pts []geometry.Point) {
	dc.NewSubPath()
	for i, p := range pts {
		x, y := f.pt(p)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.ClosePath()
}

func drawBox(dc *gg.Context, f fit, b geometry.Bounds, c rgb, filled bool) {
	x, y := f.pt(b.Min)
	dc.DrawRectangle(x, y, f.dist(b.Width()), f.dist(b.Height()))
	if filled {
		setRGB(dc, c)
		dc.FillPreserve()
	} else {
		dc.SetColor(color.White)
		dc.FillPreserve()
	}
	setRGB(dc, rgb{R: c.R / 2, G: c.G / 2, B: c.B / 2})
	dc.SetLineWidth(1)
	dc.Stroke()
}

func setRGB(dc *gg.Context, c rgb) {
	dc.SetRGB255(c.R, c.G, c.B)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
