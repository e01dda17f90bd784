// Package editor owns the live state of one open plan: the scene, the
// selection, undo history, the lot and its view settings. Every method is
// safe for concurrent use; the UI calls in from the event loop while
// history captures, auto-saves and tile loads call in from background
// goroutines.
//
// Points passed to the editor are canvas pixels. When a lot is set the
// scene lives in the ADU frame and the editor converts through it.
package editor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/piwi3910/ADUPlanner/internal/geo"
	"github.com/piwi3910/ADUPlanner/internal/geometry"
	"github.com/piwi3910/ADUPlanner/internal/history"
	"github.com/piwi3910/ADUPlanner/internal/model"
	"github.com/piwi3910/ADUPlanner/internal/project"
	"github.com/piwi3910/ADUPlanner/internal/selection"
	"github.com/piwi3910/ADUPlanner/internal/snap"
	"github.com/piwi3910/ADUPlanner/internal/snapshot"
	"github.com/piwi3910/ADUPlanner/internal/units"
)

// Tool holds what the placement modes create on click.
type Tool struct {
	Room      model.RoomType
	RoomName  string
	RoomW     float64 // ft
	RoomH     float64 // ft
	Door      model.DoorType
	Window    model.WindowType
	Furniture model.FurnitureType
}

// DefaultTool returns the placement defaults of a new editor.
func DefaultTool() Tool {
	return Tool{
		Room:      model.RoomBedroom,
		RoomName:  "Bedroom",
		RoomW:     12,
		RoomH:     10,
		Door:      model.DoorSingle,
		Window:    model.WindowStandard,
		Furniture: model.FurnitureType("bed-queen"),
	}
}

// Options configures an Editor.
type Options struct {
	ProjectID string
	Name      string
	Config    model.AppConfig
	Remote    snapshot.Remote // may be nil
	Cache     snapshot.Cache  // may be nil
	Tiles     geo.TileLoader  // may be nil; satellite imagery is then disabled
	Logger    logrus.FieldLogger
	// OnChange is called after every state change, outside the editor lock.
	OnChange func()
	// HistoryDelay overrides the capture debounce.
	HistoryDelay time.Duration
}

// Editor is one open plan.
type Editor struct {
	mu sync.Mutex

	projectID string
	name      string
	scene     model.Scene
	lot       *model.Lot
	view      model.ViewSettings
	tool      Tool
	cfg       model.AppConfig

	sel    *selection.Controller
	hist   *history.Manager
	handle *Handle

	remote   snapshot.Remote
	bridge   *snapshot.Bridge
	autosave *snapshot.AutoSaver
	tiles    *geo.TileCache
	loader   geo.TileLoader

	onChange func()
	log      logrus.FieldLogger
}

// New creates an editor holding a fresh scene.
func New(opts Options) *Editor {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	cfg := opts.Config.Normalize()
	e := &Editor{
		projectID: opts.ProjectID,
		name:      opts.Name,
		view:      model.DefaultViewSettings(),
		tool:      DefaultTool(),
		cfg:       cfg,
		sel:       selection.New(),
		remote:    opts.Remote,
		loader:    opts.Tiles,
		onChange:  opts.OnChange,
		log:       log.WithField("project", opts.ProjectID),
	}
	e.scene = model.NewScene()
	if cfg.DefaultADUArea != model.DefaultADUArea {
		e.scene.SetBoundaryArea(cfg.DefaultADUArea)
	}

	e.hist = history.New(func() model.Scene { return e.scene }, history.Options{
		MaxDepth: cfg.HistoryDepth,
		Delay:    opts.HistoryDelay,
		Sync:     e.withLock,
		Logger:   e.log,
	})
	e.hist.Reset(e.scene)

	e.bridge = snapshot.NewBridge(opts.ProjectID, opts.Remote, opts.Cache, e.log)
	e.bridge.SetCap(snapshot.KindAuto, cfg.MaxAutoSnapshots)
	e.bridge.SetCap(snapshot.KindManual, cfg.MaxManualSnapshots)
	e.tiles = geo.NewTileCache(e.log)
	return e
}

// withLock runs fn under the editor lock and notifies afterwards. History
// captures run through it so they never race scene edits.
func (e *Editor) withLock(fn func()) {
	e.mu.Lock()
	fn()
	e.mu.Unlock()
	e.notify()
}

func (e *Editor) notify() {
	if e.onChange != nil {
		e.onChange()
	}
}

// mutate applies fn to the scene and records a history entry if it
// reports a change.
func (e *Editor) mutate(label string, fn func() bool) bool {
	e.mu.Lock()
	changed := fn()
	if changed {
		e.hist.Record(label)
	}
	e.mu.Unlock()
	if changed {
		e.notify()
	}
	return changed
}

// StartAutoSave schedules auto snapshots every AutoSaveInterval minutes.
// An interval of zero disables them.
func (e *Editor) StartAutoSave() error {
	a, err := snapshot.NewAutoSaver(e.bridge, e.cfg.AutoSaveInterval, e.captureState, e.log)
	if err != nil {
		return err
	}
	a.MarkSaved(e.Scene())
	a.Start()
	e.mu.Lock()
	e.autosave = a
	e.mu.Unlock()
	return nil
}

// Close stops auto-saving and flushes any pending history capture.
func (e *Editor) Close() {
	e.mu.Lock()
	a := e.autosave
	e.autosave = nil
	e.mu.Unlock()
	if a != nil {
		a.Stop()
	}
	e.mu.Lock()
	e.hist.Flush()
	e.mu.Unlock()
}

func (e *Editor) captureState() snapshot.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

func (e *Editor) stateLocked() snapshot.State {
	st := snapshot.State{Scene: e.scene.Clone()}
	v := e.view
	st.View = &v
	if e.lot != nil {
		l := e.lot.Clone()
		st.Lot = &l
	}
	return st
}

// ProjectID returns the id snapshots are filed under.
func (e *Editor) ProjectID() string { return e.projectID }

// Name returns the plan name.
func (e *Editor) Name() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.name
}

// SetName renames the plan.
func (e *Editor) SetName(name string) {
	e.mu.Lock()
	e.name = name
	e.mu.Unlock()
	e.notify()
}

// Scene returns a deep copy of the scene.
func (e *Editor) Scene() model.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scene.Clone()
}

// Config returns the normalized configuration the editor runs with.
func (e *Editor) Config() model.AppConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// SetFurnitureSnap changes the furniture snapping granularity.
func (e *Editor) SetFurnitureSnap(m snap.Mode) {
	e.mu.Lock()
	e.cfg.FurnitureSnap = string(m)
	e.mu.Unlock()
}

func (e *Editor) furnitureUnit() float64 {
	return snap.ParseMode(e.cfg.FurnitureSnap).Unit()
}

// Tool returns the placement defaults.
func (e *Editor) Tool() Tool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tool
}

// SetTool replaces the placement defaults.
func (e *Editor) SetTool(t Tool) {
	e.mu.Lock()
	e.tool = t
	e.mu.Unlock()
}

// Frame returns the frame scene entities live in: the ADU placement when a
// lot is set, the identity otherwise.
func (e *Editor) Frame() geo.Frame {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frameLocked()
}

func (e *Editor) frameLocked() geo.Frame {
	if e.lot == nil {
		return geo.CanvasFrame{}
	}
	return geo.PlacementFromLot(*e.lot)
}

// localDelta converts a canvas displacement into the scene frame.
func localDelta(f geo.Frame, dx, dy float64) geometry.Point {
	return f.ToLocal(geometry.Point{X: dx, Y: dy}).Sub(f.ToLocal(geometry.Point{}))
}

// Export builds the read-only projection consumed by every exporter.
func (e *Editor) Export() model.Export {
	e.mu.Lock()
	defer e.mu.Unlock()
	var lot *model.Lot
	if e.lot != nil {
		l := e.lot.Clone()
		lot = &l
	}
	return model.BuildExport(e.name, e.scene.Clone(), lot)
}

// View returns the view settings.
func (e *Editor) View() model.ViewSettings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view
}

// SetView replaces the view settings. View changes never enter history.
func (e *Editor) SetView(v model.ViewSettings) error {
	if err := v.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	e.view = v
	e.mu.Unlock()
	e.notify()
	return nil
}

// Plan returns the current state as a plan file.
func (e *Editor) Plan() project.PlanFile {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hist.Flush()
	st := e.stateLocked()
	return project.PlanFile{
		ProjectID: e.projectID,
		Name:      e.name,
		Scene:     st.Scene,
		Lot:       st.Lot,
		View:      *st.View,
	}
}

// LoadPlan replaces all state with plan and starts a new history.
func (e *Editor) LoadPlan(plan project.PlanFile) error {
	if err := plan.Scene.Validate(); err != nil {
		return fmt.Errorf("loading plan: %w", err)
	}
	e.mu.Lock()
	if plan.Name != "" {
		e.name = plan.Name
	}
	e.scene = plan.Scene.Clone()
	e.lot = nil
	if plan.Lot != nil {
		l := plan.Lot.Clone()
		e.lot = &l
	}
	e.view = plan.View
	if e.view.Zoom <= 0 {
		e.view = model.DefaultViewSettings()
	}
	e.sel.Clear()
	e.handle = nil
	e.hist.Reset(e.scene)
	a := e.autosave
	e.mu.Unlock()
	if a != nil {
		a.MarkSaved(plan.Scene)
	}
	e.notify()
	return nil
}

// ApplyTemplate replaces the scene with a fresh copy of t.
func (e *Editor) ApplyTemplate(t model.PlanTemplate) bool {
	s := t.ToScene()
	if s.Validate() != nil {
		return false
	}
	return e.mutate("Apply template", func() bool {
		e.scene = s
		e.sel.Clear()
		e.handle = nil
		return true
	})
}

// SaveAsTemplate captures the scene as a reusable template.
func (e *Editor) SaveAsTemplate(name, description string) model.PlanTemplate {
	e.mu.Lock()
	defer e.mu.Unlock()
	return model.NewPlanTemplate(name, description, e.scene)
}

// Undo restores the previous history entry.
func (e *Editor) Undo() bool {
	return e.step(e.hist.Undo)
}

// Redo restores the next history entry.
func (e *Editor) Redo() bool {
	return e.step(e.hist.Redo)
}

func (e *Editor) step(move func(func(history.Snapshot)) bool) bool {
	e.mu.Lock()
	e.sel.Cancel()
	e.handle = nil
	ok := move(func(s history.Snapshot) {
		e.scene = s.Scene
		e.sel.ClearSingle()
		e.pruneSelectionLocked()
	})
	e.mu.Unlock()
	if ok {
		e.notify()
	}
	return ok
}

// pruneSelectionLocked drops selected ids the scene no longer holds.
func (e *Editor) pruneSelectionLocked() {
	var gone model.Batch
	sel := e.sel.Selected()
	for _, k := range model.Kinds {
		for _, id := range sel.IDs(k) {
			if !e.existsLocked(k, id) {
				gone.Add(k, id)
			}
		}
	}
	e.sel.Prune(gone)
}

func (e *Editor) existsLocked(k model.Kind, id string) bool {
	switch k {
	case model.KindRoom:
		return e.scene.FindRoom(id) != nil
	case model.KindDoor:
		return e.scene.FindDoor(id) != nil
	case model.KindWindow:
		return e.scene.FindWindow(id) != nil
	case model.KindFurniture:
		return e.scene.FindFurniture(id) != nil
	}
	return false
}

// CanUndo reports whether Undo would do anything.
func (e *Editor) CanUndo() bool { return e.hist.CanUndo() }

// CanRedo reports whether Redo would do anything.
func (e *Editor) CanRedo() bool { return e.hist.CanRedo() }

// FlushHistory captures a pending edit immediately.
func (e *Editor) FlushHistory() {
	e.mu.Lock()
	e.hist.Flush()
	e.mu.Unlock()
}

// SaveSnapshot writes a manual snapshot.
func (e *Editor) SaveSnapshot(ctx context.Context, label string) (snapshot.Record, error) {
	st := e.captureState()
	if label == "" {
		label = "Snapshot " + time.Now().Format("Jan 2 15:04")
	}
	return e.bridge.Create(ctx, snapshot.KindManual, label, st.Scene, st.View, st.Lot)
}

// Snapshots lists the project's snapshots, newest first.
func (e *Editor) Snapshots(ctx context.Context) ([]snapshot.Record, error) {
	return e.bridge.List(ctx)
}

// DeleteSnapshot removes a snapshot.
func (e *Editor) DeleteSnapshot(ctx context.Context, id string) error {
	return e.bridge.Delete(ctx, id)
}

// RestoreSnapshot replaces the scene, and the view and lot when the
// snapshot carries them. The restore is itself an undoable edit.
func (e *Editor) RestoreSnapshot(ctx context.Context, id string) error {
	var restored model.Scene
	err := e.bridge.Restore(ctx, id, func(rec snapshot.Record) {
		restored = rec.Scene.Clone()
		e.mutate("Restore snapshot", func() bool {
			e.scene = restored.Clone()
			if rec.View != nil {
				e.view = *rec.View
			}
			if rec.Lot != nil {
				l := rec.Lot.Clone()
				e.lot = &l
			}
			e.sel.Clear()
			e.handle = nil
			return true
		})
	})
	if err != nil {
		return err
	}
	e.mu.Lock()
	a := e.autosave
	e.mu.Unlock()
	if a != nil {
		a.MarkSaved(restored)
	}
	return nil
}

// AutoSaveNow runs one auto-save outside the schedule. It reports whether a
// snapshot was written.
func (e *Editor) AutoSaveNow(ctx context.Context) bool {
	e.mu.Lock()
	a := e.autosave
	e.mu.Unlock()
	if a == nil {
		return false
	}
	return a.RunOnce(ctx)
}

// Bridge exposes the snapshot bridge.
func (e *Editor) Bridge() *snapshot.Bridge { return e.bridge }

// localSnapped maps a canvas pointer position into the scene and snaps it.
func (e *Editor) localSnapped(p geometry.Point, unit float64) geometry.Point {
	return snap.ConstrainToCanvas(snap.Point(e.frameLocked().ToLocal(p), unit))
}

// roomOrigin keeps a new rectangle room inside the canvas.
func roomOrigin(p geometry.Point, wFt, hFt float64) geometry.Point {
	maxX := units.ExtendedCanvasSize - units.FeetToPixels(wFt)
	maxY := units.ExtendedCanvasSize - units.FeetToPixels(hFt)
	if p.X > maxX {
		p.X = snap.ToGrid(maxX, units.GridSize)
	}
	if p.Y > maxY {
		p.Y = snap.ToGrid(maxY, units.GridSize)
	}
	return p
}
