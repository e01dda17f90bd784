package widgets

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/fogleman/gg"

	"github.com/piwi3910/ADUPlanner/internal/geo"
	"github.com/piwi3910/ADUPlanner/internal/geometry"
	"github.com/piwi3910/ADUPlanner/internal/model"
	"github.com/piwi3910/ADUPlanner/internal/units"
)

// Plan colors.
var (
	gridMinor     = color.NRGBA{R: 236, G: 236, B: 236, A: 255}
	gridMajor     = color.NRGBA{R: 210, G: 210, B: 210, A: 255}
	lotColor      = color.NRGBA{R: 56, G: 142, B: 60, A: 255}
	setbackColor  = color.NRGBA{R: 245, G: 124, B: 0, A: 255}
	boundaryColor = color.NRGBA{R: 97, G: 97, B: 97, A: 255}
	wallColor     = color.NRGBA{R: 33, G: 33, B: 33, A: 255}
	doorColor     = color.NRGBA{R: 141, G: 110, B: 99, A: 255}
	windowColor   = color.NRGBA{R: 33, G: 150, B: 243, A: 255}
	furnColor     = color.NRGBA{R: 189, G: 189, B: 189, A: 200}
	selectColor   = color.NRGBA{R: 25, G: 118, B: 210, A: 255}
	marqueeFill   = color.NRGBA{R: 25, G: 118, B: 210, A: 40}
	dimColor      = color.NRGBA{R: 117, G: 117, B: 117, A: 255}
)

// handleSize is the edge of a vertex handle in screen pixels.
const handleSize = 8.0

// Viewport maps canvas pixels to screen pixels: screen = canvas*Zoom + Pan.
type Viewport struct {
	Zoom float64
	PanX float64
	PanY float64
}

// ViewportOf returns the viewport stored in view settings.
func ViewportOf(v model.ViewSettings) Viewport {
	z := v.Zoom
	if z <= 0 {
		z = 1
	}
	return Viewport{Zoom: z, PanX: v.PanX, PanY: v.PanY}
}

// ToScreen maps a canvas point to the screen.
func (v Viewport) ToScreen(p geometry.Point) (float64, float64) {
	return p.X*v.Zoom + v.PanX, p.Y*v.Zoom + v.PanY
}

// ToCanvas maps a screen position back to the canvas.
func (v Viewport) ToCanvas(x, y float64) geometry.Point {
	return geometry.Point{X: (x - v.PanX) / v.Zoom, Y: (y - v.PanY) / v.Zoom}
}

// ZoomAt scales by factor keeping the canvas point under (x, y) fixed.
// Zoom is clamped to [MinZoom, MaxZoom].
func (v Viewport) ZoomAt(x, y, factor float64) Viewport {
	anchor := v.ToCanvas(x, y)
	z := math.Max(MinZoom, math.Min(MaxZoom, v.Zoom*factor))
	return Viewport{Zoom: z, PanX: x - anchor.X*z, PanY: y - anchor.Y*z}
}

// Zoom limits.
const (
	MinZoom = 0.1
	MaxZoom = 8.0
)

// PlacedImage is a decoded satellite tile with its canvas footprint.
type PlacedImage struct {
	Bounds geometry.Bounds
	Image  image.Image
}

// PlanFrame is everything one repaint draws. It is captured once so the
// drawing never reads editor state half-way through an edit.
type PlanFrame struct {
	Scene    model.Scene
	Frame    geo.Frame
	View     model.ViewSettings
	Viewport Viewport
	Selected model.Batch
	Preview  geometry.Point
	Dragging model.Batch
	Marquee  *geometry.Bounds
	Lot      []geometry.Point
	Setbacks []geometry.Point
	Tiles    []PlacedImage
	// HandleRoom is the room whose vertex handles are drawn.
	HandleRoom      string
	BoundaryHandles bool
}

// DrawPlan paints f onto dc, whose size is the widget size in screen pixels.
func DrawPlan(dc *gg.Context, f PlanFrame) {
	if f.Frame == nil {
		f.Frame = geo.CanvasFrame{}
	}
	dc.SetColor(color.White)
	dc.Clear()

	if f.View.ShowSatellite {
		drawTiles(dc, f)
	}
	if f.View.ShowGrid {
		drawGrid(dc, f.Viewport, float64(dc.Width()), float64(dc.Height()))
	}
	if f.View.ShowLot && len(f.Lot) >= 3 {
		dc.SetColor(lotColor)
		dc.SetLineWidth(2)
		strokeCanvasPolygon(dc, f.Viewport, f.Lot)
	}
	if f.View.ShowSetbacks && len(f.Setbacks) >= 3 {
		dc.SetColor(setbackColor)
		dc.SetLineWidth(1.5)
		dc.SetDash(6, 4)
		strokeCanvasPolygon(dc, f.Viewport, f.Setbacks)
		dc.SetDash()
	}

	p := painter{dc: dc, f: f, scene: previewScene(f.Scene, f.Dragging, f.Preview)}
	p.openingsList = p.scene.Openings()
	p.boundary()
	p.rooms()
	p.openings()
	p.furniture()
	p.labels()
	p.handles()

	if f.Marquee != nil {
		x0, y0 := f.Viewport.ToScreen(f.Marquee.Min)
		x1, y1 := f.Viewport.ToScreen(f.Marquee.Max)
		dc.DrawRectangle(x0, y0, x1-x0, y1-y0)
		dc.SetColor(marqueeFill)
		dc.FillPreserve()
		dc.SetColor(selectColor)
		dc.SetLineWidth(1)
		dc.Stroke()
	}
}

func drawTiles(dc *gg.Context, f PlanFrame) {
	for _, t := range f.Tiles {
		b := t.Image.Bounds()
		if b.Dx() == 0 || b.Dy() == 0 {
			continue
		}
		x0, y0 := f.Viewport.ToScreen(t.Bounds.Min)
		x1, y1 := f.Viewport.ToScreen(t.Bounds.Max)
		dc.Push()
		dc.Translate(x0, y0)
		dc.Scale((x1-x0)/float64(b.Dx()), (y1-y0)/float64(b.Dy()))
		dc.DrawImage(t.Image, 0, 0)
		dc.Pop()
	}
}

// drawGrid draws one-foot lines, with every tenth foot darker. Minor lines
// are skipped once they would be closer than 6 screen pixels.
func drawGrid(dc *gg.Context, v Viewport, w, h float64) {
	step := units.GridSize * v.Zoom
	min := v.ToCanvas(0, 0)
	max := v.ToCanvas(w, h)
	first := func(c float64) int { return int(math.Floor(c / units.GridSize)) }

	dc.SetLineWidth(1)
	for i := first(min.X); float64(i)*units.GridSize <= max.X; i++ {
		if i%10 != 0 && step < 6 {
			continue
		}
		x, _ := v.ToScreen(geometry.Point{X: float64(i) * units.GridSize})
		dc.SetColor(gridLine(i))
		dc.DrawLine(x, 0, x, h)
		dc.Stroke()
	}
	for j := first(min.Y); float64(j)*units.GridSize <= max.Y; j++ {
		if j%10 != 0 && step < 6 {
			continue
		}
		_, y := v.ToScreen(geometry.Point{Y: float64(j) * units.GridSize})
		dc.SetColor(gridLine(j))
		dc.DrawLine(0, y, w, y)
		dc.Stroke()
	}
}

func gridLine(i int) color.Color {
	if i%10 == 0 {
		return gridMajor
	}
	return gridMinor
}

func strokeCanvasPolygon(dc *gg.Context, v Viewport, pts []geometry.Point) {
	for i, pt := range pts {
		x, y := v.ToScreen(pt)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.ClosePath()
	dc.Stroke()
}

// previewScene returns the scene as drawn, with dragged entities moved by
// the preview delta so walls are cut where their openings appear.
func previewScene(s model.Scene, dragging model.Batch, d geometry.Point) model.Scene {
	if dragging.Empty() || d == (geometry.Point{}) {
		return s
	}
	s = s.Clone()
	for i := range s.Rooms {
		if dragging.Has(model.KindRoom, s.Rooms[i].ID) {
			s.Rooms[i].Vertices = geometry.Translate(s.Rooms[i].Vertices, d.X, d.Y)
		}
	}
	for i := range s.Doors {
		if dragging.Has(model.KindDoor, s.Doors[i].ID) {
			s.Doors[i].Position = s.Doors[i].Position.Add(d)
		}
	}
	for i := range s.Windows {
		if dragging.Has(model.KindWindow, s.Windows[i].ID) {
			s.Windows[i].Position = s.Windows[i].Position.Add(d)
		}
	}
	for i := range s.Furniture {
		if dragging.Has(model.KindFurniture, s.Furniture[i].ID) {
			s.Furniture[i].Position = s.Furniture[i].Position.Add(d)
		}
	}
	return s
}

// painter draws scene entities, mapping them from the scene frame to the
// screen.
type painter struct {
	dc           *gg.Context
	f            PlanFrame
	scene        model.Scene
	openingsList []geometry.Opening
}

func (p painter) screen(local geometry.Point) (float64, float64) {
	return p.f.Viewport.ToScreen(p.f.Frame.ToCanvas(local))
}

func (p painter) trace(pts []geometry.Point) {
	for i, pt := range pts {
		x, y := p.screen(pt)
		if i == 0 {
			p.dc.MoveTo(x, y)
		} else {
			p.dc.LineTo(x, y)
		}
	}
	p.dc.ClosePath()
}

// box traces a local-frame rectangle, which may be rotated on screen.
func (p painter) box(b geometry.Bounds) {
	p.trace(b.Corners())
}

func (p painter) wallWidth() float64 {
	return math.Max(2, units.HalfGrid*p.f.Viewport.Zoom/2)
}

func (p painter) boundary() {
	verts := p.scene.Boundary.Vertices
	if len(verts) < 3 {
		return
	}
	p.trace(verts)
	p.dc.SetColor(boundaryColor)
	p.dc.SetLineWidth(1.5)
	p.dc.SetDash(10, 5)
	p.dc.Stroke()
	p.dc.SetDash()
}

// rooms fill each room and stroke its walls with the door and window
// openings already cut out.
func (p painter) rooms() {
	for _, r := range p.scene.Rooms {
		p.trace(r.Vertices)
		p.dc.SetColor(parseHex(r.Color))
		p.dc.Fill()
	}
	p.dc.SetColor(wallColor)
	p.dc.SetLineWidth(p.wallWidth())
	p.dc.SetLineCapSquare()
	for _, r := range p.scene.Rooms {
		for _, seg := range geometry.WallSegmentsExcludingOpenings(r.Vertices, p.openingsList) {
			x1, y1 := p.screen(seg.Start)
			x2, y2 := p.screen(seg.End)
			p.dc.DrawLine(x1, y1, x2, y2)
		}
	}
	p.dc.Stroke()
	p.dc.SetLineCapRound()
	for _, r := range p.scene.Rooms {
		if p.f.Selected.Has(model.KindRoom, r.ID) {
			p.trace(r.Vertices)
			p.highlight()
		}
	}
}

func (p painter) openings() {
	for _, d := range p.scene.Doors {
		p.opening(d.Bounds(), doorColor, model.KindDoor, d.ID)
	}
	for _, w := range p.scene.Windows {
		p.opening(w.Bounds(), windowColor, model.KindWindow, w.ID)
	}
}

func (p painter) opening(b geometry.Bounds, c color.Color, k model.Kind, id string) {
	p.box(b)
	p.dc.SetColor(c)
	p.dc.SetLineWidth(2)
	p.dc.Stroke()
	if p.f.Selected.Has(k, id) {
		p.box(b)
		p.highlight()
	}
}

func (p painter) furniture() {
	for _, f := range p.scene.Furniture {
		p.box(f.Bounds())
		p.dc.SetColor(furnColor)
		p.dc.FillPreserve()
		p.dc.SetColor(wallColor)
		p.dc.SetLineWidth(1)
		p.dc.Stroke()
		if p.f.Selected.Has(model.KindFurniture, f.ID) {
			p.box(f.Bounds())
			p.highlight()
		}
	}
}

func (p painter) highlight() {
	p.dc.SetColor(selectColor)
	p.dc.SetLineWidth(3)
	p.dc.Stroke()
}

func (p painter) labels() {
	if p.f.Viewport.Zoom < 0.3 {
		return
	}
	p.dc.SetColor(wallColor)
	for _, r := range p.scene.Rooms {
		x, y := p.screen(r.LabelPoint())
		p.dc.DrawStringAnchored(r.Name, x, y-7, 0.5, 0.5)
		p.dc.DrawStringAnchored(fmt.Sprintf("%d sq ft", r.Area), x, y+7, 0.5, 0.5)
	}
	if p.f.View.ShowDimensions {
		p.dc.SetColor(dimColor)
		for _, r := range p.scene.Rooms {
			for _, w := range geometry.WallSegmentsWithOpeningMetadata(r.Vertices, p.openingsList) {
				x, y := p.screen(w.LabelAt)
				p.dc.DrawStringAnchored(wallDimension(w), x, y, 0.5, 0.5)
			}
		}
		p.dc.SetColor(wallColor)
	}
	for _, f := range p.scene.Furniture {
		item, ok := model.LookupFurniture(f.Type)
		if !ok {
			continue
		}
		x, y := p.screen(f.Position)
		p.dc.DrawStringAnchored(item.Label, x, y, 0.5, 0.5)
	}
}

// wallDimension prints a wall length, with the length left between its
// openings when any are present.
func wallDimension(w geometry.Wall) string {
	if len(w.Openings) == 0 {
		return fmt.Sprintf("%.1f'", w.Length)
	}
	return fmt.Sprintf("%.1f' (%.1f')", w.Length, w.EffectiveLength)
}

// handles marks the vertices that can be dragged.
func (p painter) handles() {
	var verts []geometry.Point
	switch {
	case p.f.BoundaryHandles:
		verts = p.scene.Boundary.Vertices
	case p.f.HandleRoom != "":
		if r := p.scene.FindRoom(p.f.HandleRoom); r != nil {
			verts = r.Vertices
		}
	}
	for _, v := range verts {
		x, y := p.screen(v)
		p.dc.DrawRectangle(x-handleSize/2, y-handleSize/2, handleSize, handleSize)
		p.dc.SetColor(color.White)
		p.dc.FillPreserve()
		p.dc.SetColor(selectColor)
		p.dc.SetLineWidth(1.5)
		p.dc.Stroke()
	}
}

// parseHex reads "#rrggbb", falling back to light grey.
func parseHex(s string) color.Color {
	s = strings.TrimPrefix(s, "#")
	v, err := strconv.ParseUint(s, 16, 32)
	if len(s) != 6 || err != nil {
		return color.NRGBA{R: 224, G: 224, B: 224, A: 255}
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}
