package editor

import (
	"context"
	"errors"

	"github.com/paulmach/orb/maptile"

	"github.com/piwi3910/ADUPlanner/internal/geo"
	"github.com/piwi3910/ADUPlanner/internal/geometry"
	"github.com/piwi3910/ADUPlanner/internal/model"
)

// ErrNoLot is returned by lot operations when no lot is set.
var ErrNoLot = errors.New("no lot set")

// Lot returns a copy of the lot, if any.
func (e *Editor) Lot() (model.Lot, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.lot == nil {
		return model.Lot{}, false
	}
	return e.lot.Clone(), true
}

// SetLot validates and installs lot, then saves it to the remote store.
// A failed remote save is logged; the lot stays set locally.
func (e *Editor) SetLot(ctx context.Context, lot model.Lot) error {
	if err := lot.Validate(); err != nil {
		return err
	}
	if lot.ProjectID == "" {
		lot.ProjectID = e.projectID
	}
	l := lot.Clone()
	e.mu.Lock()
	e.lot = &l
	e.mu.Unlock()
	e.notify()

	if e.remote != nil {
		if _, err := e.remote.SaveLot(ctx, l); err != nil {
			e.log.WithError(err).Warn("saving lot failed")
		}
	}
	if !geo.NewLotTransform(l).WithinFlatEarthRange() {
		e.log.WithField("lot", l.ID).Warn("lot exceeds flat-earth range, canvas positions are approximate")
	}
	return nil
}

// ClearLot detaches the plan from its lot.
func (e *Editor) ClearLot() {
	e.mu.Lock()
	e.lot = nil
	e.mu.Unlock()
	e.notify()
}

// updateLot applies fn to a copy of the lot and installs it via SetLot.
func (e *Editor) updateLot(ctx context.Context, fn func(*model.Lot)) error {
	l, ok := e.Lot()
	if !ok {
		return ErrNoLot
	}
	fn(&l)
	return e.SetLot(ctx, l)
}

// SetLotBoundary replaces the surveyed lot outline.
func (e *Editor) SetLotBoundary(ctx context.Context, verts []model.LatLng) error {
	return e.updateLot(ctx, func(l *model.Lot) {
		l.Boundary = append([]model.LatLng{}, verts...)
	})
}

// SetSetbacks replaces the lot setbacks.
func (e *Editor) SetSetbacks(ctx context.Context, sb model.Setbacks) error {
	return e.updateLot(ctx, func(l *model.Lot) { l.Setbacks = sb })
}

// SetPlacement positions the ADU within the lot.
func (e *Editor) SetPlacement(ctx context.Context, p geo.ADUPlacement) error {
	return e.updateLot(ctx, func(l *model.Lot) {
		l.ADUOffsetX = p.OffsetXFt
		l.ADUOffsetY = p.OffsetYFt
		l.ADURotation = geometry.NormalizeDegrees(p.Rotation)
	})
}

// LotOutline returns the lot boundary in canvas pixels.
func (e *Editor) LotOutline() []geometry.Point {
	l, ok := e.Lot()
	if !ok {
		return nil
	}
	return geo.NewLotTransform(l).BoundaryCanvas()
}

// SetbackOutline returns the buildable rectangle in canvas pixels, or nil.
func (e *Editor) SetbackOutline() []geometry.Point {
	l, ok := e.Lot()
	if !ok {
		return nil
	}
	return geo.SetbackBoundary(geo.NewLotTransform(l).BoundaryCanvas(), l.Setbacks)
}

func buildable(l model.Lot) int {
	return geo.BuildableArea(geo.NewLotTransform(l).BoundaryCanvas(), l.Setbacks)
}

// CanvasToGeo converts a canvas point to a coordinate on the lot.
func (e *Editor) CanvasToGeo(p geometry.Point) (model.LatLng, bool) {
	l, ok := e.Lot()
	if !ok {
		return model.LatLng{}, false
	}
	return geo.NewLotTransform(l).CanvasToGeo(p), true
}

// TileImage is a loaded satellite tile with its canvas footprint.
type TileImage struct {
	geo.PlacedTile
	Data []byte
}

// SatelliteTiles returns the cached tiles covering the lot.
func (e *Editor) SatelliteTiles() []TileImage {
	l, ok := e.Lot()
	if !ok {
		return nil
	}
	t := geo.NewLotTransform(l)
	var out []TileImage
	for _, tile := range geo.TilesFor(t, e.zoom()) {
		if data, ok := e.tiles.Get(tile); ok {
			out = append(out, TileImage{PlacedTile: geo.PlaceTile(t, tile), Data: data})
		}
	}
	return out
}

// LoadSatellite starts fetching missing tiles for the lot. The editor
// notifies its listener as each tile arrives; the returned channel closes
// when every started load has finished.
func (e *Editor) LoadSatellite(ctx context.Context) (<-chan struct{}, error) {
	l, ok := e.Lot()
	if !ok {
		return nil, ErrNoLot
	}
	if e.loader == nil {
		done := make(chan struct{})
		close(done)
		return done, nil
	}
	tiles := geo.TilesFor(geo.NewLotTransform(l), e.zoom())
	return e.tiles.FetchMissing(ctx, e.loader, tiles, func(maptile.Tile) { e.notify() }), nil
}

func (e *Editor) zoom() maptile.Zoom {
	return maptile.Zoom(e.Config().SatelliteZoom)
}
