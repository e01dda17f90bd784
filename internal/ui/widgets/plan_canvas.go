package widgets

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/fogleman/gg"
	"github.com/paulmach/orb/maptile"
	"github.com/sirupsen/logrus"

	"github.com/piwi3910/ADUPlanner/internal/editor"
	"github.com/piwi3910/ADUPlanner/internal/geometry"
	"github.com/piwi3910/ADUPlanner/internal/model"
	"github.com/piwi3910/ADUPlanner/internal/selection"
)

// zoomStep is the scale change per scroll notch.
const zoomStep = 1.1

// PlanCanvas draws the editor's plan and turns pointer input into editor
// gestures. Coordinates handed to the editor are canvas pixels.
type PlanCanvas struct {
	widget.BaseWidget

	ed     *editor.Editor
	raster *canvas.Raster
	log    logrus.FieldLogger

	mu       sync.Mutex
	tiles    map[maptile.Tile]image.Image
	additive bool
	panning  bool
	dragging bool
	last     fyne.Position

	// OnViewChanged is called after a zoom or pan.
	OnViewChanged func()
}

// NewPlanCanvas creates a canvas bound to ed.
func NewPlanCanvas(ed *editor.Editor, log logrus.FieldLogger) *PlanCanvas {
	pc := &PlanCanvas{
		ed:    ed,
		log:   log,
		tiles: make(map[maptile.Tile]image.Image),
	}
	pc.raster = canvas.NewRaster(pc.draw)
	pc.ExtendBaseWidget(pc)
	return pc
}

func (pc *PlanCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(pc.raster)
}

func (pc *PlanCanvas) MinSize() fyne.Size {
	return fyne.NewSize(400, 300)
}

// Refresh repaints the plan.
func (pc *PlanCanvas) Refresh() {
	pc.raster.Refresh()
}

// pixelScale is the ratio of raster pixels to fyne units.
func (pc *PlanCanvas) pixelScale(w int) float64 {
	size := pc.Size()
	if size.Width <= 0 {
		return 1
	}
	return float64(w) / float64(size.Width)
}

func (pc *PlanCanvas) draw(w, h int) image.Image {
	dc := gg.NewContext(w, h)
	f := pc.frame()
	s := pc.pixelScale(w)
	f.Viewport = Viewport{Zoom: f.Viewport.Zoom * s, PanX: f.Viewport.PanX * s, PanY: f.Viewport.PanY * s}
	DrawPlan(dc, f)
	return dc.Image()
}

// frame captures the editor state for one repaint.
func (pc *PlanCanvas) frame() PlanFrame {
	view := pc.ed.View()
	f := PlanFrame{
		Scene:    pc.ed.Scene(),
		Frame:    pc.ed.Frame(),
		View:     view,
		Viewport: ViewportOf(view),
		Selected: pc.ed.Selected(),
		Lot:      pc.ed.LotOutline(),
		Setbacks: pc.ed.SetbackOutline(),
	}
	if d, b, ok := pc.ed.DragPreview(); ok {
		f.Preview, f.Dragging = d, b
	}
	if h, ok := pc.ed.HandlePreview(); ok {
		if h.Target == editor.HandleMove {
			f.Preview = h.Delta()
			f.Dragging = model.Batch{}
			f.Dragging.Add(h.Ref.Kind, h.Ref.ID)
		} else {
			applyHandle(&f.Scene, h)
		}
	}
	if pc.ed.Mode() == selection.ModeBoundary {
		f.BoundaryHandles = true
	} else if ref, ok := pc.ed.Single(); ok && ref.Kind == model.KindRoom && pc.ed.CanTransformSingle() {
		f.HandleRoom = ref.ID
	}
	if r, ok := pc.ed.MarqueeRect(); ok {
		f.Marquee = &r
	}
	if view.ShowSatellite {
		f.Tiles = pc.decodedTiles()
	}
	return f
}

// applyHandle moves the dragged vertex of a scene copy to the handle.
func applyHandle(s *model.Scene, h editor.Handle) {
	switch h.Target {
	case editor.HandleRoomVertex:
		if r := s.FindRoom(h.Ref.ID); r != nil && h.Index < len(r.Vertices) {
			r.Vertices[h.Index] = h.At
		}
	case editor.HandleBoundaryPoint:
		if h.Index < len(s.Boundary.Vertices) {
			s.Boundary.Vertices[h.Index] = h.At
		}
	}
}

// decodedTiles decodes each loaded tile once.
func (pc *PlanCanvas) decodedTiles() []PlacedImage {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	var out []PlacedImage
	for _, t := range pc.ed.SatelliteTiles() {
		img, ok := pc.tiles[t.Tile]
		if !ok {
			var err error
			img, _, err = image.Decode(bytes.NewReader(t.Data))
			if err != nil {
				pc.log.WithError(err).WithField("tile", t.Tile).Warn("decoding satellite tile failed")
				img = nil
			}
			pc.tiles[t.Tile] = img
		}
		if img != nil {
			out = append(out, PlacedImage{Bounds: t.Bounds(), Image: img})
		}
	}
	return out
}

// ResetTiles drops decoded tiles, e.g. after the lot changes.
func (pc *PlanCanvas) ResetTiles() {
	pc.mu.Lock()
	pc.tiles = make(map[maptile.Tile]image.Image)
	pc.mu.Unlock()
}

// SetEditor binds the canvas to another open plan.
func (pc *PlanCanvas) SetEditor(ed *editor.Editor) {
	pc.mu.Lock()
	pc.ed = ed
	pc.tiles = make(map[maptile.Tile]image.Image)
	pc.dragging, pc.panning = false, false
	pc.mu.Unlock()
	pc.Refresh()
}

func (pc *PlanCanvas) toCanvas(pos fyne.Position) geometry.Point {
	return ViewportOf(pc.ed.View()).ToCanvas(float64(pos.X), float64(pos.Y))
}

// MouseDown records the modifiers and button of the gesture that follows.
func (pc *PlanCanvas) MouseDown(ev *desktop.MouseEvent) {
	pc.mu.Lock()
	pc.additive = ev.Modifier&fyne.KeyModifierShift != 0
	pc.panning = ev.Button == desktop.MouseButtonSecondary
	pc.mu.Unlock()
}

func (pc *PlanCanvas) MouseUp(*desktop.MouseEvent) {}

// Tapped is a click without drag.
func (pc *PlanCanvas) Tapped(ev *fyne.PointEvent) {
	pc.mu.Lock()
	additive := pc.additive
	pc.mu.Unlock()
	pc.ed.Click(pc.toCanvas(ev.Position), additive)
}

// TappedSecondary deletes the vertex under the pointer.
func (pc *PlanCanvas) TappedSecondary(ev *fyne.PointEvent) {
	pc.ed.DeleteVertexAt(pc.toCanvas(ev.Position))
}

// DoubleTapped adds a vertex to the selected room's edge under the pointer.
func (pc *PlanCanvas) DoubleTapped(ev *fyne.PointEvent) {
	pc.ed.InsertVertexAt(pc.toCanvas(ev.Position))
}

// Dragged starts or continues a gesture. A secondary-button drag pans.
func (pc *PlanCanvas) Dragged(ev *fyne.DragEvent) {
	pc.mu.Lock()
	panning, started := pc.panning, pc.dragging
	pc.dragging = true
	pc.last = ev.Position
	pc.mu.Unlock()

	if panning {
		pc.pan(float64(ev.Dragged.DX), float64(ev.Dragged.DY))
		return
	}
	if !started {
		start := ev.Position.Subtract(fyne.NewPos(ev.Dragged.DX, ev.Dragged.DY))
		pc.ed.PointerDown(pc.toCanvas(start))
	}
	pc.ed.PointerMove(pc.toCanvas(ev.Position))
}

// DragEnd finishes the gesture at the last drag position.
func (pc *PlanCanvas) DragEnd() {
	pc.mu.Lock()
	panning, last := pc.panning, pc.last
	pc.dragging, pc.panning = false, false
	pc.mu.Unlock()
	if !panning {
		pc.ed.PointerUp(pc.toCanvas(last))
	}
}

// Scrolled zooms about the cursor.
func (pc *PlanCanvas) Scrolled(ev *fyne.ScrollEvent) {
	factor := zoomStep
	if ev.Scrolled.DY < 0 {
		factor = 1 / zoomStep
	}
	v := pc.ed.View()
	vp := ViewportOf(v).ZoomAt(float64(ev.Position.X), float64(ev.Position.Y), factor)
	v.Zoom, v.PanX, v.PanY = vp.Zoom, vp.PanX, vp.PanY
	pc.setView(v)
}

func (pc *PlanCanvas) pan(dx, dy float64) {
	v := pc.ed.View()
	v.PanX += dx
	v.PanY += dy
	pc.setView(v)
}

// ZoomBy scales about the widget center.
func (pc *PlanCanvas) ZoomBy(factor float64) {
	size := pc.Size()
	v := pc.ed.View()
	vp := ViewportOf(v).ZoomAt(float64(size.Width)/2, float64(size.Height)/2, factor)
	v.Zoom, v.PanX, v.PanY = vp.Zoom, vp.PanX, vp.PanY
	pc.setView(v)
}

// CenterOn pans so canvas point p sits in the middle of the widget.
func (pc *PlanCanvas) CenterOn(p geometry.Point) {
	size := pc.Size()
	v := pc.ed.View()
	z := ViewportOf(v).Zoom
	v.PanX = float64(size.Width)/2 - p.X*z
	v.PanY = float64(size.Height)/2 - p.Y*z
	pc.setView(v)
}

func (pc *PlanCanvas) setView(v model.ViewSettings) {
	if err := pc.ed.SetView(v); err != nil {
		pc.log.WithError(err).Debug("view rejected")
		return
	}
	if pc.OnViewChanged != nil {
		pc.OnViewChanged()
	}
}
