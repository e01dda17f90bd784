package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/ADUPlanner/internal/geometry"
	"github.com/piwi3910/ADUPlanner/internal/importer"
	"github.com/piwi3910/ADUPlanner/internal/model"
	"github.com/piwi3910/ADUPlanner/internal/project"
	"github.com/piwi3910/ADUPlanner/internal/selection"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	fyneApp := test.NewTempApp(t)
	dir := t.TempDir()
	views, err := project.OpenViewStore(filepath.Join(dir, "views.json"))
	require.NoError(t, err)

	cfg := model.DefaultAppConfig()
	cfg.AutoSaveInterval = 0
	log := logrus.New()
	log.SetOutput(os.Stderr)
	a := NewApp(fyneApp, test.NewWindow(nil), Options{
		Config:       cfg,
		ConfigPath:   filepath.Join(dir, "config.json"),
		TemplatePath: filepath.Join(dir, "templates.json"),
		Views:        views,
		Logger:       log,
	})
	a.window.SetContent(a.Build())
	t.Cleanup(a.Close)
	return a
}

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "Cottage.pdf", exportFileName("Cottage", "pdf"))
	assert.Equal(t, "Cottage-schedule.xlsx", exportFileName("Cottage", "xlsx"))
	assert.Equal(t, "plan.svg", exportFileName("  ", "svg"))
}

func TestExportToWritesJSONAndRejectsUnknownFormat(t *testing.T) {
	exp := model.BuildExport("Cottage", model.NewScene(), nil)
	path := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, exportTo("json", path, exp))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Cottage")

	assert.Error(t, exportTo("dwg", path, exp))
}

func TestLatLngCentroid(t *testing.T) {
	c := latLngCentroid([]model.LatLng{{Lat: 1, Lng: 10}, {Lat: 3, Lng: 10}, {Lat: 2, Lng: 13}})
	assert.InDelta(t, 2.0, c.Lat, 1e-9)
	assert.InDelta(t, 11.0, c.Lng, 1e-9)
}

func TestThemeForcesVariant(t *testing.T) {
	base := theme.DefaultTheme()
	dark := NewAppThemeFor("dark")
	assert.Equal(t, base.Color(theme.ColorNameBackground, theme.VariantDark),
		dark.Color(theme.ColorNameBackground, theme.VariantLight))

	system := NewAppThemeFor("system")
	assert.Equal(t, base.Color(theme.ColorNameBackground, theme.VariantLight),
		system.Color(theme.ColorNameBackground, theme.VariantLight))
	assert.Equal(t, float32(12), system.Size(theme.SizeNameText))
}

func TestFloatEntryIgnoresInvalidText(t *testing.T) {
	test.NewTempApp(t)
	v := 1.0
	calls := 0
	e := floatEntry(&v, func() { calls++ })
	assert.Equal(t, "1", e.Text)

	e.OnChanged("2.5")
	assert.Equal(t, 2.5, v)
	e.OnChanged("abc")
	assert.Equal(t, 2.5, v)
	assert.Equal(t, 1, calls)
}

func TestStatusAndPropertiesFollowEditor(t *testing.T) {
	a := newTestApp(t)
	assert.Contains(t, a.status.Text, "Rooms 0")

	_, ok := a.editor.AddRoom(model.RoomBedroom, "Bedroom", geometry.Point{X: 1200, Y: 1200}, 12, 10)
	require.True(t, ok)
	a.refresh()

	assert.Contains(t, a.status.Text, "Rooms 1 (120 sq ft)")
	assert.Contains(t, a.status.Text, "1 selected")
	assert.True(t, strings.HasPrefix(a.propsKey, string(selection.ModeSelect)))
	assert.True(t, a.toolbar.undo.Disabled() == false)

	a.editor.SetMode(selection.ModeDoor)
	a.refresh()
	assert.True(t, strings.HasPrefix(a.propsKey, string(selection.ModeDoor)))
	assert.Equal(t, widget.HighImportance, a.toolbar.modes[selection.ModeDoor].Importance)
	assert.Equal(t, widget.MediumImportance, a.toolbar.modes[selection.ModeSelect].Importance)
}

func TestBoundaryImportReplacesBoundary(t *testing.T) {
	a := newTestApp(t)
	pts := []geometry.Point{{X: 1704, Y: 1704}, {X: 1944, Y: 1704}, {X: 1944, Y: 1944}, {X: 1704, Y: 1944}}
	a.handleBoundaryImport(importer.BoundaryResult{Vertices: pts, Area: 100})

	assert.Equal(t, 100, a.editor.Summary().BoundaryArea)
	assert.True(t, a.editor.CanUndo())
}

func TestNewProjectResetsPlan(t *testing.T) {
	a := newTestApp(t)
	first := a.editor.ProjectID()
	a.editor.AddRoom(model.RoomKitchen, "Kitchen", geometry.Point{X: 1200, Y: 1200}, 10, 10)

	a.newProject()
	assert.NotEqual(t, first, a.editor.ProjectID())
	assert.Equal(t, 0, a.editor.Summary().Rooms)
	assert.Equal(t, untitled, a.editor.Name())
}

func TestWritePlanRemembersRecent(t *testing.T) {
	a := newTestApp(t)
	a.editor.SetName("Cottage")
	path := filepath.Join(t.TempDir(), "cottage"+project.PlanFileExt)
	a.writePlan(path)

	assert.Equal(t, path, a.planPath)
	assert.Equal(t, []string{path}, a.config.RecentProjects)
	plan, err := project.LoadPlan(path)
	require.NoError(t, err)
	assert.Equal(t, "Cottage", plan.Name)

	a.newProject()
	a.openPath(path)
	assert.Equal(t, plan.ProjectID, a.editor.ProjectID())
	assert.Equal(t, "Cottage", a.editor.Name())
}
