package project

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/ADUPlanner/internal/geometry"
	"github.com/piwi3910/ADUPlanner/internal/model"
	"github.com/piwi3910/ADUPlanner/internal/snapshot"
)

func TestViewStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "views.json")

	vs, err := OpenViewStore(path)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultViewSettings(), vs.Get("p1"))

	v := model.DefaultViewSettings()
	v.ShowSatellite = true
	v.PanX = 120
	require.NoError(t, vs.Set("p1", v))

	reopened, err := OpenViewStore(path)
	require.NoError(t, err)
	assert.Equal(t, v, reopened.Get("p1"))
	assert.Equal(t, model.DefaultViewSettings(), reopened.Get("p2"))
	assert.Len(t, reopened.All(), 1)
}

func TestViewStoreRejectsInvalidZoom(t *testing.T) {
	vs, err := OpenViewStore(filepath.Join(t.TempDir(), "views.json"))
	require.NoError(t, err)
	v := model.DefaultViewSettings()
	v.Zoom = 0
	assert.Error(t, vs.Set("p1", v))
	assert.Equal(t, model.DefaultViewSettings(), vs.Get("p1"))
}

func TestSnapshotCacheRoundTrip(t *testing.T) {
	c := NewSnapshotCache(filepath.Join(t.TempDir(), "snaps"))

	recs, err := c.Load("p1")
	require.NoError(t, err)
	assert.Empty(t, recs)

	scene := model.NewScene()
	scene.AddRectRoom(model.RoomKitchen, "Kitchen", geometry.Point{}, 10, 8)
	in := []snapshot.Record{{ID: "s1", ProjectID: "p1", Kind: snapshot.KindManual, CreatedAt: time.Now().UTC(), Scene: scene}}
	require.NoError(t, c.Store("p1", in))

	out, err := c.Load("p1")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Kitchen", out[0].Scene.Rooms[0].Name)
	assert.NoError(t, out[0].Validate())
}

func TestSnapshotCacheSanitizesProjectID(t *testing.T) {
	dir := t.TempDir()
	c := NewSnapshotCache(dir)
	require.NoError(t, c.Store("../evil/p", nil))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "___evil_p.json", entries[0].Name())
}

func TestSaveAndLoadPlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cottage"+PlanFileExt)

	scene := model.NewScene()
	scene.AddRectRoom(model.RoomLiving, "Living", geometry.Point{X: 240, Y: 240}, 15, 12)
	lot := model.NewLot("p1", 37.77, -122.42)
	plan := PlanFile{ProjectID: "p1", Name: "Cottage", Scene: scene, Lot: &lot, View: model.DefaultViewSettings()}
	require.NoError(t, SavePlan(path, plan))

	loaded, err := LoadPlan(path)
	require.NoError(t, err)
	assert.Equal(t, "Cottage", loaded.Name)
	require.Len(t, loaded.Scene.Rooms, 1)
	assert.Equal(t, 180, loaded.Scene.Rooms[0].Area)
	require.NotNil(t, loaded.Lot)
	assert.InDelta(t, 37.77, loaded.Lot.Lat, 1e-9)
}

func TestLoadPlanRejectsInvalidScene(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.adu")
	body := `{"version":"1","scene":{"rooms":[{"id":"r","type":"bedroom","vertices":[{"x":0,"y":0}]}]}}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	_, err := LoadPlan(path)
	assert.Error(t, err)
}
