// Package selection tracks what the user has selected and turns marquee
// and multi-drag gestures into scene edits. A drag only moves a preview
// delta until release, when the delta is committed once to every selected
// entity.
package selection

import (
	"math"

	"github.com/piwi3910/ADUPlanner/internal/geo"
	"github.com/piwi3910/ADUPlanner/internal/geometry"
	"github.com/piwi3910/ADUPlanner/internal/model"
)

// State is the controller's gesture state.
type State int

const (
	Idle State = iota
	SingleSelected
	MultiSelected
	MarqueeDragging
	MultiDragging
)

func (s State) String() string {
	switch s {
	case SingleSelected:
		return "single"
	case MultiSelected:
		return "multi"
	case MarqueeDragging:
		return "marquee"
	case MultiDragging:
		return "dragging"
	default:
		return "idle"
	}
}

// Mode is the active placement tool.
type Mode string

const (
	ModeSelect    Mode = "select"
	ModeRoom      Mode = "room"
	ModeDoor      Mode = "door"
	ModeWindow    Mode = "window"
	ModeFurniture Mode = "furniture"
	ModeBoundary  Mode = "boundary"
)

const (
	// ClickThreshold is the marquee extent, in canvas pixels, below which
	// the gesture counts as a click.
	ClickThreshold = 5.0
	// DragThreshold is the movement below which a drag release is dropped.
	DragThreshold = 2.0
)

// Ref names one entity.
type Ref struct {
	Kind model.Kind
	ID   string
}

type marquee struct {
	start, end geometry.Point
}

type drag struct {
	start geometry.Point
}

// saved is the selection before a gesture began.
type saved struct {
	single *Ref
	multi  model.Batch
}

// Controller owns selection state and the multi-drag preview delta.
type Controller struct {
	mode    Mode
	single  *Ref
	multi   model.Batch
	marquee *marquee
	drag    *drag
	before  saved
	preview geometry.Point
}

// New returns an idle controller in select mode.
func New() *Controller {
	return &Controller{mode: ModeSelect}
}

// Mode returns the active tool.
func (c *Controller) Mode() Mode { return c.mode }

// SetMode switches tool, aborting any gesture in progress.
func (c *Controller) SetMode(m Mode) {
	if c.marquee != nil || c.drag != nil {
		c.Cancel()
	}
	c.mode = m
}

// State derives the gesture state.
func (c *Controller) State() State {
	switch {
	case c.drag != nil:
		return MultiDragging
	case c.marquee != nil:
		return MarqueeDragging
	case !c.multi.Empty():
		return MultiSelected
	case c.single != nil:
		return SingleSelected
	default:
		return Idle
	}
}

// Single returns the single selection.
func (c *Controller) Single() (Ref, bool) {
	if c.single == nil {
		return Ref{}, false
	}
	return *c.single, true
}

// Multi returns a copy of the multi selection.
func (c *Controller) Multi() model.Batch {
	return c.multi.Clone()
}

// IsSelected reports whether an entity is selected either way.
func (c *Controller) IsSelected(k model.Kind, id string) bool {
	if c.single != nil && c.single.Kind == k && c.single.ID == id {
		return true
	}
	return c.multi.Has(k, id)
}

// Select makes one entity the single selection and clears the multi sets.
func (c *Controller) Select(k model.Kind, id string) {
	c.multi = model.Batch{}
	c.single = &Ref{Kind: k, ID: id}
}

// ToggleMulti adds or removes an entity from the multi selection. A
// current single selection joins the multi sets first.
func (c *Controller) ToggleMulti(k model.Kind, id string) {
	if c.single != nil {
		c.multi.Add(c.single.Kind, c.single.ID)
		c.single = nil
	}
	c.multi.Toggle(k, id)
}

// Clear drops every selection.
func (c *Controller) Clear() {
	c.single = nil
	c.multi = model.Batch{}
}

// ClearSingle drops only the single selection.
func (c *Controller) ClearSingle() {
	c.single = nil
}

// Prune removes deleted entities from the selection.
func (c *Controller) Prune(removed model.Batch) {
	if c.single != nil && removed.Has(c.single.Kind, c.single.ID) {
		c.single = nil
	}
	for _, k := range model.Kinds {
		for _, id := range removed.IDs(k) {
			c.multi.Remove(k, id)
		}
	}
}

// Selected returns everything selected as one batch.
func (c *Controller) Selected() model.Batch {
	b := c.multi.Clone()
	if c.single != nil {
		b.Add(c.single.Kind, c.single.ID)
	}
	return b
}

// CanTransformSingle reports whether resize, rotate and vertex handles may
// be shown. They are disabled while anything is multi-selected.
func (c *Controller) CanTransformSingle() bool {
	return c.single != nil && c.multi.Empty() && c.drag == nil
}

func (c *Controller) save() {
	c.before = saved{multi: c.multi.Clone()}
	if c.single != nil {
		r := *c.single
		c.before.single = &r
	}
}

func (c *Controller) restore() {
	c.single = c.before.single
	c.multi = c.before.multi
	c.before = saved{}
}

// BeginMarquee starts a rubber-band selection at canvas point p. Only the
// select tool can start one.
func (c *Controller) BeginMarquee(p geometry.Point) bool {
	if c.mode != ModeSelect || c.drag != nil {
		return false
	}
	c.save()
	c.marquee = &marquee{start: p, end: p}
	return true
}

// UpdateMarquee moves the free corner of the rubber band.
func (c *Controller) UpdateMarquee(p geometry.Point) {
	if c.marquee != nil {
		c.marquee.end = p
	}
}

// MarqueeRect returns the rubber band in canvas pixels while one is active.
func (c *Controller) MarqueeRect() (geometry.Bounds, bool) {
	if c.marquee == nil {
		return geometry.Bounds{}, false
	}
	return geometry.RectBounds(c.marquee.start, c.marquee.end), true
}

// EndMarquee finishes the rubber band. The canvas rectangle is mapped into
// the scene's frame and every entity whose bounds intersect it is added to
// the multi selection. A band under ClickThreshold in either axis is a
// click: the pre-gesture selection is kept and nothing is added.
func (c *Controller) EndMarquee(frame geo.Frame, scene model.Scene) model.Batch {
	rect, ok := c.MarqueeRect()
	if !ok {
		return model.Batch{}
	}
	c.marquee = nil
	if rect.Width() < ClickThreshold || rect.Height() < ClickThreshold {
		c.restore()
		return model.Batch{}
	}
	c.before = saved{}
	hits := scene.Intersecting(geo.LocalBounds(frame, rect))
	if hits.Empty() {
		return hits
	}
	if c.single != nil {
		c.multi.Add(c.single.Kind, c.single.ID)
		c.single = nil
	}
	c.multi.Merge(hits)
	return hits
}

// BeginDrag starts moving the multi selection from p, given in the scene's
// local frame. The preview delta starts at zero.
func (c *Controller) BeginDrag(p geometry.Point) bool {
	if c.multi.Empty() || c.marquee != nil {
		return false
	}
	c.save()
	c.drag = &drag{start: p}
	c.preview = geometry.Point{}
	return true
}

// DragTo updates the preview delta. The scene is not touched.
func (c *Controller) DragTo(p geometry.Point) {
	if c.drag == nil {
		return
	}
	c.preview = p.Sub(c.drag.start)
}

// PreviewDelta is the offset renderers add to every multi-selected entity
// while a drag is in progress.
func (c *Controller) PreviewDelta() geometry.Point {
	return c.preview
}

// InPreview reports whether an entity should be drawn at the preview offset.
func (c *Controller) InPreview(k model.Kind, id string) bool {
	return c.drag != nil && c.multi.Has(k, id)
}

// EndDrag commits the preview delta once to every multi-selected entity,
// each snapped to its own granularity, and clears the preview. A release
// that moved less than DragThreshold is cancelled instead.
func (c *Controller) EndDrag(scene *model.Scene, furnitureUnit float64) bool {
	if c.drag == nil {
		return false
	}
	d := c.preview
	c.drag = nil
	c.preview = geometry.Point{}
	c.before = saved{}
	if math.Abs(d.X) < DragThreshold && math.Abs(d.Y) < DragThreshold {
		return false
	}
	return scene.TranslateBatch(c.multi, d.X, d.Y, furnitureUnit) > 0
}

// Cancel aborts a marquee or drag and restores the selection and preview
// to what they were before the gesture.
func (c *Controller) Cancel() {
	if c.marquee == nil && c.drag == nil {
		return
	}
	c.marquee = nil
	c.drag = nil
	c.preview = geometry.Point{}
	c.restore()
}
