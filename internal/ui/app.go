// Package ui is the ADU Planner desktop shell: menus, toolbar, the plan
// canvas, the properties panel and the dialogs around them.
package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/piwi3910/ADUPlanner/internal/editor"
	"github.com/piwi3910/ADUPlanner/internal/geo"
	"github.com/piwi3910/ADUPlanner/internal/geometry"
	"github.com/piwi3910/ADUPlanner/internal/model"
	"github.com/piwi3910/ADUPlanner/internal/project"
	"github.com/piwi3910/ADUPlanner/internal/snapshot"
	"github.com/piwi3910/ADUPlanner/internal/ui/widgets"
	"github.com/piwi3910/ADUPlanner/internal/units"
)

const untitled = "Untitled ADU"

// ioTimeout bounds store and network calls made from the UI.
const ioTimeout = 10 * time.Second

// Options wires the app to its stores.
type Options struct {
	Config       model.AppConfig
	ConfigPath   string
	TemplatePath string
	Views        *project.ViewStore
	Remote       snapshot.Remote // may be nil
	Cache        snapshot.Cache  // may be nil
	Tiles        geo.TileLoader  // may be nil
	Logger       logrus.FieldLogger
}

// App holds all application state and UI references.
type App struct {
	app    fyne.App
	window fyne.Window
	opts   Options
	log    logrus.FieldLogger

	config    model.AppConfig
	templates model.TemplateStore
	editor    *editor.Editor
	planPath  string

	// UI references for dynamic updates
	canvas   *widgets.PlanCanvas
	toolbar  *toolbar
	props    *fyne.Container
	propsKey string
	status   *widget.Label
}

// NewApp creates the app with an empty plan.
func NewApp(application fyne.App, window fyne.Window, opts Options) *App {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	if opts.ConfigPath == "" {
		opts.ConfigPath = project.DefaultConfigPath()
	}
	if opts.TemplatePath == "" {
		opts.TemplatePath = project.DefaultTemplatePath()
	}
	a := &App{
		app:    application,
		window: window,
		opts:   opts,
		log:    log,
		config: opts.Config.Normalize(),
	}
	templates, err := project.LoadTemplates(opts.TemplatePath)
	if err != nil {
		log.WithError(err).Warn("loading templates failed, starting empty")
		templates = model.NewTemplateStore()
	}
	a.templates = templates
	a.editor = a.newEditor(uuid.NewString(), untitled)
	application.Settings().SetTheme(NewAppThemeFor(a.config.Theme))
	return a
}

// newEditor opens an editor for projectID with auto-save running.
func (a *App) newEditor(projectID, name string) *editor.Editor {
	ed := editor.New(editor.Options{
		ProjectID: projectID,
		Name:      name,
		Config:    a.config,
		Remote:    a.opts.Remote,
		Cache:     a.opts.Cache,
		Tiles:     a.opts.Tiles,
		Logger:    a.log.WithField("component", "editor"),
		OnChange:  a.editorChanged,
	})
	if a.opts.Views != nil {
		if err := ed.SetView(a.opts.Views.Get(projectID)); err != nil {
			a.log.WithError(err).Debug("stored view ignored")
		}
	}
	if err := ed.StartAutoSave(); err != nil {
		a.log.WithError(err).Warn("auto-save disabled")
	}
	return ed
}

// replaceEditor closes the open plan and shows ed instead.
func (a *App) replaceEditor(ed *editor.Editor) {
	a.persistView()
	a.editor.Close()
	a.editor = ed
	if a.canvas != nil {
		a.canvas.SetEditor(ed)
	}
	a.propsKey = ""
	a.refresh()
}

// editorChanged runs after every editor change, possibly off the UI
// goroutine.
func (a *App) editorChanged() {
	fyne.Do(a.refresh)
}

// Close flushes the open plan. Call it when the window closes.
func (a *App) Close() {
	a.persistView()
	a.editor.Close()
}

func (a *App) persistView() {
	if a.opts.Views == nil {
		return
	}
	if err := a.opts.Views.Set(a.editor.ProjectID(), a.editor.View()); err != nil {
		a.log.WithError(err).Warn("saving view settings failed")
	}
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	recent := fyne.NewMenuItem("Open Recent", nil)
	recent.ChildMenu = a.recentMenu()

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Project", a.newProject),
		fyne.NewMenuItem("Open Project...", a.openProject),
		recent,
		fyne.NewMenuItem("Save Project", a.saveProject),
		fyne.NewMenuItem("Save Project As...", a.saveProjectAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Lot Vertices from CSV...", a.importLotCSV),
		fyne.NewMenuItem("Import Lot Vertices from Excel...", a.importLotExcel),
		fyne.NewMenuItem("Import Boundary from DXF...", a.importBoundaryDXF),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PDF...", func() { a.exportPlan("pdf") }),
		fyne.NewMenuItem("Export PNG...", func() { a.exportPlan("png") }),
		fyne.NewMenuItem("Export SVG...", func() { a.exportPlan("svg") }),
		fyne.NewMenuItem("Export DXF...", func() { a.exportPlan("dxf") }),
		fyne.NewMenuItem("Export Room Schedule...", func() { a.exportPlan("xlsx") }),
		fyne.NewMenuItem("Export JSON...", func() { a.exportPlan("json") }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import / Export Data...", a.showImportExportDialog),
		fyne.NewMenuItem("Settings...", a.showSettingsDialog),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", a.undo),
		fyne.NewMenuItem("Redo", a.redo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Rotate Selection", func() { a.editor.RotateSelected() }),
		fyne.NewMenuItem("Delete Selection", func() { a.editor.DeleteSelected() }),
		fyne.NewMenuItem("Clear Selection", func() { a.editor.ClearSelection() }),
	)

	viewMenu := fyne.NewMenu("View",
		a.viewToggle("Grid", func(v *model.ViewSettings) *bool { return &v.ShowGrid }),
		a.viewToggle("Dimensions", func(v *model.ViewSettings) *bool { return &v.ShowDimensions }),
		a.viewToggle("Lot Lines", func(v *model.ViewSettings) *bool { return &v.ShowLot }),
		a.viewToggle("Setbacks", func(v *model.ViewSettings) *bool { return &v.ShowSetbacks }),
		a.viewToggle("Satellite", func(v *model.ViewSettings) *bool { return &v.ShowSatellite }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Zoom In", func() { a.canvas.ZoomBy(1.25) }),
		fyne.NewMenuItem("Zoom Out", func() { a.canvas.ZoomBy(0.8) }),
		fyne.NewMenuItem("Center on ADU", a.centerOnADU),
	)

	planMenu := fyne.NewMenu("Plan",
		fyne.NewMenuItem("Set Boundary Area...", a.showBoundaryAreaDialog),
		fyne.NewMenuItem("Room from Boundary", func() { a.editor.AddBoundaryRoom() }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Snapshot...", a.showSaveSnapshotDialog),
		fyne.NewMenuItem("Snapshots...", a.showSnapshotsDialog),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save as Template...", a.showSaveTemplateDialog),
		fyne.NewMenuItem("Templates...", a.showTemplateManager),
	)

	siteMenu := fyne.NewMenu("Site",
		fyne.NewMenuItem("Lot & Setbacks...", a.showSiteDialog),
		fyne.NewMenuItem("ADU Placement...", a.showPlacementDialog),
		fyne.NewMenuItem("Load Satellite Imagery", a.loadSatellite),
		fyne.NewMenuItem("Detach Lot", func() {
			a.editor.ClearLot()
			a.canvas.ResetTiles()
		}),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("Keyboard Shortcuts", a.showShortcutsDialog),
		fyne.NewMenuItem("About", a.showAboutDialog),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, planMenu, siteMenu, helpMenu))
}

func (a *App) recentMenu() *fyne.Menu {
	items := make([]*fyne.MenuItem, 0, len(a.config.RecentProjects))
	for _, path := range a.config.RecentProjects {
		p := path
		items = append(items, fyne.NewMenuItem(filepath.Base(p), func() { a.openPath(p) }))
	}
	if len(items) == 0 {
		none := fyne.NewMenuItem("No recent projects", nil)
		none.Disabled = true
		items = append(items, none)
	}
	return fyne.NewMenu("Open Recent", items...)
}

// viewToggle flips one display flag. View flags never enter history.
func (a *App) viewToggle(label string, field func(*model.ViewSettings) *bool) *fyne.MenuItem {
	return fyne.NewMenuItem(label, func() {
		v := a.editor.View()
		flag := field(&v)
		*flag = !*flag
		if err := a.editor.SetView(v); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if v.ShowSatellite && label == "Satellite" {
			a.loadSatellite()
		}
	})
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About ADU Planner",
		"ADU Planner - Accessory Dwelling Unit Floor Plans\n\n"+
			"Lay out rooms, doors, windows and furniture on a\n"+
			"real lot with setbacks and satellite imagery.\n\n"+
			"Version 1.0.0",
		a.window,
	)
}

func (a *App) showShortcutsDialog() {
	dialog.ShowInformation("Keyboard Shortcuts", strings.Join([]string{
		"Ctrl+Z / Ctrl+Shift+Z   Undo / Redo",
		"Ctrl+N / Ctrl+O / Ctrl+S   New / Open / Save",
		"Delete, Backspace   Delete selection",
		"R   Rotate selection",
		"Arrows   Nudge selection 1 ft",
		"Esc   Cancel gesture, back to select",
		"V B D W F G   Select, Room, Door, Window, Furniture, Boundary tool",
		"Shift+click   Add to selection",
		"Right-drag / wheel   Pan / zoom",
	}, "\n"), a.window)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	a.canvas = widgets.NewPlanCanvas(a.editor, a.log.WithField("component", "canvas"))
	a.toolbar = a.buildToolbar()
	a.props = container.NewVBox()
	a.status = widget.NewLabel("")
	a.installShortcuts()

	side := container.NewVScroll(a.props)
	side.SetMinSize(fyne.NewSize(260, 0))
	split := container.NewHSplit(a.canvas, side)
	split.SetOffset(0.78)

	a.refresh()
	return withToolTips(container.NewBorder(a.toolbar.box, a.status, nil, nil, split), a.window)
}

// refresh redraws the canvas and the panels from editor state.
func (a *App) refresh() {
	if a.canvas == nil {
		return
	}
	a.canvas.Refresh()
	a.toolbar.refresh(a.editor)
	a.refreshStatus()
	a.refreshProperties()
	a.window.SetTitle(a.title())
}

func (a *App) title() string {
	t := "ADU Planner - " + a.editor.Name()
	if a.planPath != "" {
		t += " (" + filepath.Base(a.planPath) + ")"
	}
	return t
}

func (a *App) refreshStatus() {
	s := a.editor.Summary()
	parts := []string{
		fmt.Sprintf("Mode: %s", a.editor.Mode()),
		fmt.Sprintf("Boundary %d sq ft", s.BoundaryArea),
		fmt.Sprintf("Rooms %d (%d sq ft)", s.Rooms, s.RoomArea),
		fmt.Sprintf("Openings %d", s.Openings),
		fmt.Sprintf("Furniture %d", s.Furniture),
	}
	if s.Buildable > 0 {
		parts = append(parts, fmt.Sprintf("Buildable %d sq ft", s.Buildable))
	}
	if n := a.editor.Selected().Len(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", n))
	}
	parts = append(parts, fmt.Sprintf("Zoom %.0f%%", widgets.ViewportOf(a.editor.View()).Zoom*100))
	a.status.SetText(strings.Join(parts, "  |  "))
}

// ─── History ───────────────────────────────────────────────

func (a *App) undo() {
	if !a.editor.Undo() {
		a.log.Debug("nothing to undo")
	}
}

func (a *App) redo() {
	if !a.editor.Redo() {
		a.log.Debug("nothing to redo")
	}
}

// ─── Project files ─────────────────────────────────────────

func (a *App) newProject() {
	a.planPath = ""
	a.replaceEditor(a.newEditor(uuid.NewString(), untitled))
}

func (a *App) openProject() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		a.openPath(reader.URI().Path())
	}, a.window)
	d.Show()
}

func (a *App) openPath(path string) {
	plan, err := project.LoadPlan(path)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	if plan.ProjectID == "" {
		plan.ProjectID = uuid.NewString()
	}
	ed := a.newEditor(plan.ProjectID, plan.Name)
	if err := ed.LoadPlan(plan); err != nil {
		ed.Close()
		dialog.ShowError(err, a.window)
		return
	}
	a.planPath = path
	a.replaceEditor(ed)
	a.rememberRecent(path)
}

func (a *App) saveProject() {
	if a.planPath == "" {
		a.saveProjectAs()
		return
	}
	a.writePlan(a.planPath)
}

func (a *App) saveProjectAs() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		a.writePlan(writer.URI().Path())
	}, a.window)
	d.SetFileName(a.editor.Name() + project.PlanFileExt)
	d.Show()
}

func (a *App) writePlan(path string) {
	if err := project.SavePlan(path, a.editor.Plan()); err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.planPath = path
	a.persistView()
	a.rememberRecent(path)
	a.refresh()
}

func (a *App) rememberRecent(path string) {
	a.config.AddRecentProject(path)
	if err := a.saveConfig(); err != nil {
		a.log.WithError(err).Warn("saving recent projects failed")
	}
	a.SetupMenus()
}

// ─── Export ────────────────────────────────────────────────

func (a *App) exportPlan(format string) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		if err := exportTo(format, path, a.editor.Export()); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		dialog.ShowInformation("Export Complete", fmt.Sprintf("Plan saved to %s", path), a.window)
	}, a.window)
	d.SetFileName(exportFileName(a.editor.Name(), format))
	d.Show()
}

func exportFileName(name, format string) string {
	base := strings.TrimSpace(name)
	if base == "" {
		base = "plan"
	}
	if format == "xlsx" {
		base += "-schedule"
	}
	return base + "." + format
}

// ─── Plan dialogs ──────────────────────────────────────────

func (a *App) showBoundaryAreaDialog() {
	current := float64(a.editor.Summary().BoundaryArea)
	area := current
	form := dialog.NewForm("Boundary Area", "Apply", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Area (sq ft)", floatEntry(&area)),
		},
		func(ok bool) {
			if !ok || area == current {
				return
			}
			if !a.editor.SetBoundaryArea(area) {
				dialog.ShowError(fmt.Errorf("area must be positive"), a.window)
			}
		},
		a.window,
	)
	form.Show()
}

func (a *App) showSaveSnapshotDialog() {
	label := widget.NewEntry()
	label.SetPlaceHolder("Optional label")
	dialog.ShowForm("Save Snapshot", "Save", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Label", label)},
		func(ok bool) {
			if !ok {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
			defer cancel()
			if _, err := a.editor.SaveSnapshot(ctx, label.Text); err != nil {
				dialog.ShowError(err, a.window)
			}
		},
		a.window,
	)
}

func (a *App) centerOnADU() {
	s := a.editor.Scene()
	if len(s.Boundary.Vertices) == 0 {
		return
	}
	f := a.editor.Frame()
	var cx, cy float64
	for _, v := range s.Boundary.Vertices {
		p := f.ToCanvas(v)
		cx += p.X
		cy += p.Y
	}
	n := float64(len(s.Boundary.Vertices))
	a.canvas.CenterOn(geometry.Point{X: cx / n, Y: cy / n})
}

func (a *App) loadSatellite() {
	if _, ok := a.editor.Lot(); !ok {
		dialog.ShowInformation("No lot", "Set a lot under Site > Lot & Setbacks first.", a.window)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	done, err := a.editor.LoadSatellite(ctx)
	if err != nil {
		cancel()
		dialog.ShowError(err, a.window)
		return
	}
	go func() {
		<-done
		cancel()
		a.log.Debug("satellite tiles loaded")
	}()
}

// nudgeStep is one keyboard nudge in canvas pixels.
const nudgeStep = units.GridSize
