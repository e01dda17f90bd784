package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/ADUPlanner/internal/geometry"
	"github.com/piwi3910/ADUPlanner/internal/model"
	"github.com/piwi3910/ADUPlanner/internal/snapshot"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "db", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func record(id string, kind snapshot.Kind, at time.Time) snapshot.Record {
	scene := model.NewScene()
	scene.AddRectRoom(model.RoomOffice, "Office", geometry.Point{}, 8, 10)
	return snapshot.Record{ID: id, ProjectID: "p1", Kind: kind, Label: id, CreatedAt: at, Scene: scene}
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	_, err := s.CreateSnapshot(ctx, record("a", snapshot.KindManual, base))
	require.NoError(t, err)
	_, err = s.CreateSnapshot(ctx, record("b", snapshot.KindAuto, base.Add(time.Minute)))
	require.NoError(t, err)

	recs, err := s.ListSnapshots(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "b", recs[0].ID)

	got, err := s.GetSnapshot(ctx, "a")
	require.NoError(t, err)
	require.Len(t, got.Scene.Rooms, 1)
	assert.Equal(t, 80, got.Scene.Rooms[0].Area)
	assert.NoError(t, got.Validate())

	require.NoError(t, s.DeleteSnapshot(ctx, "a"))
	_, err = s.GetSnapshot(ctx, "a")
	assert.ErrorIs(t, err, snapshot.ErrNotFound)

	other, err := s.ListSnapshots(ctx, "p2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestDuplicateSnapshotIDFails(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	rec := record("dup", snapshot.KindManual, time.Now())
	_, err := s.CreateSnapshot(ctx, rec)
	require.NoError(t, err)
	_, err = s.CreateSnapshot(ctx, rec)
	assert.Error(t, err)
}

func TestSaveLotUpserts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	lot := model.NewLot("p1", 34.05, -118.24)
	lot.WidthFt, lot.DepthFt = 50, 120
	_, err := s.SaveLot(ctx, lot)
	require.NoError(t, err)

	lot.Setbacks.Front = 20
	_, err = s.SaveLot(ctx, lot)
	require.NoError(t, err)

	got, err := s.LotForProject(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 20.0, got.Setbacks.Front)

	_, err = s.LotForProject(ctx, "nope")
	assert.ErrorIs(t, err, snapshot.ErrNotFound)

	lot.Lat = 200
	_, err = s.SaveLot(ctx, lot)
	assert.Error(t, err)
}

func TestBridgeOverStore(t *testing.T) {
	s := openTestStore(t)
	b := snapshot.NewBridge("p1", s, nil, nil)
	ctx := context.Background()

	rec, err := b.Create(ctx, snapshot.KindManual, "checkpoint", model.NewScene(), nil, nil)
	require.NoError(t, err)

	var restored snapshot.Record
	require.NoError(t, b.Restore(ctx, rec.ID, func(r snapshot.Record) { restored = r }))
	assert.Equal(t, "checkpoint", restored.Label)
}
