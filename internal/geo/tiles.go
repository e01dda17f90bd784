package geo

import (
	"context"
	"fmt"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/ADUPlanner/internal/geometry"
	"github.com/piwi3910/ADUPlanner/internal/model"
)

// tilePadding grows each side of the lot box by this fraction of its extent.
const tilePadding = 0.5

// maxConcurrentLoads bounds parallel tile requests.
const maxConcurrentLoads = 4

// TileKey formats a tile as z/x/y.
func TileKey(t maptile.Tile) string {
	return fmt.Sprintf("%d/%d/%d", t.Z, t.X, t.Y)
}

// PaddedBounds returns the lot's geo box grown by 50% of its extent on
// each side.
func (t LotTransform) PaddedBounds() orb.Bound {
	b := t.GeoBounds()
	padLng := (b.Max[0] - b.Min[0]) * tilePadding
	padLat := (b.Max[1] - b.Min[1]) * tilePadding
	return orb.Bound{
		Min: orb.Point{b.Min[0] - padLng, b.Min[1] - padLat},
		Max: orb.Point{b.Max[0] + padLng, b.Max[1] + padLat},
	}
}

// TilesFor returns the Web-Mercator tiles covering the padded lot box at
// zoom, row by row from the north-west corner.
func TilesFor(t LotTransform, zoom maptile.Zoom) []maptile.Tile {
	b := t.PaddedBounds()
	nw := maptile.At(orb.Point{b.Min[0], b.Max[1]}, zoom)
	se := maptile.At(orb.Point{b.Max[0], b.Min[1]}, zoom)

	tiles := make([]maptile.Tile, 0, int(se.X-nw.X+1)*int(se.Y-nw.Y+1))
	for y := nw.Y; y <= se.Y; y++ {
		for x := nw.X; x <= se.X; x++ {
			tiles = append(tiles, maptile.New(x, y, zoom))
		}
	}
	return tiles
}

// PlacedTile is a tile's footprint on the canvas. Corners are TL, TR, BR,
// BL of the tile before lot rotation is taken into account.
type PlacedTile struct {
	Tile    maptile.Tile
	Corners []geometry.Point
}

// Bounds returns the canvas box covered by the tile.
func (p PlacedTile) Bounds() geometry.Bounds {
	return geometry.BoundsOf(p.Corners)
}

// PlaceTile converts the tile's geo corners to canvas pixels with the same
// conversion the lot outline uses, so both stay aligned at any zoom.
func PlaceTile(t LotTransform, tile maptile.Tile) PlacedTile {
	b := tile.Bound()
	corners := []model.LatLng{
		{Lat: b.Max[1], Lng: b.Min[0]},
		{Lat: b.Max[1], Lng: b.Max[0]},
		{Lat: b.Min[1], Lng: b.Max[0]},
		{Lat: b.Min[1], Lng: b.Min[0]},
	}
	pts := make([]geometry.Point, len(corners))
	for i, ll := range corners {
		pts[i] = t.GeoToCanvas(ll)
	}
	return PlacedTile{Tile: tile, Corners: pts}
}

// TileLoader fetches the encoded image of a tile.
type TileLoader interface {
	Load(ctx context.Context, tile maptile.Tile) ([]byte, error)
}

// TileCache keeps loaded tile images keyed by tile. It is safe for
// concurrent use.
type TileCache struct {
	mu       sync.Mutex
	images   map[maptile.Tile][]byte
	inFlight map[maptile.Tile]bool
	log      logrus.FieldLogger
}

// NewTileCache creates an empty cache.
func NewTileCache(log logrus.FieldLogger) *TileCache {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &TileCache{
		images:   make(map[maptile.Tile][]byte),
		inFlight: make(map[maptile.Tile]bool),
		log:      log,
	}
}

// Get returns the cached image for tile.
func (c *TileCache) Get(tile maptile.Tile) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	img, ok := c.images[tile]
	return img, ok
}

// Len returns the number of cached tiles.
func (c *TileCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.images)
}

// Missing returns the tiles that are neither cached nor being loaded.
func (c *TileCache) Missing(tiles []maptile.Tile) []maptile.Tile {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []maptile.Tile
	for _, t := range tiles {
		if _, ok := c.images[t]; !ok && !c.inFlight[t] {
			out = append(out, t)
		}
	}
	return out
}

// FetchMissing starts loading every tile not yet cached and returns at
// once. Failed loads are logged and left out. The returned channel is
// closed when all started loads have finished; onLoaded, if set, runs
// after each successful load.
func (c *TileCache) FetchMissing(ctx context.Context, loader TileLoader, tiles []maptile.Tile, onLoaded func(maptile.Tile)) <-chan struct{} {
	c.mu.Lock()
	var todo []maptile.Tile
	for _, t := range tiles {
		if _, ok := c.images[t]; ok || c.inFlight[t] {
			continue
		}
		c.inFlight[t] = true
		todo = append(todo, t)
	}
	c.mu.Unlock()

	done := make(chan struct{})
	var g errgroup.Group
	g.SetLimit(maxConcurrentLoads)
	go func() {
		defer close(done)
		for _, tile := range todo {
			g.Go(func() error {
				img, err := loader.Load(ctx, tile)
				c.mu.Lock()
				delete(c.inFlight, tile)
				if err == nil {
					c.images[tile] = img
				}
				c.mu.Unlock()
				if err != nil {
					c.log.WithError(err).WithField("tile", TileKey(tile)).Warn("tile load failed")
					return nil
				}
				if onLoaded != nil {
					onLoaded(tile)
				}
				return nil
			})
		}
		_ = g.Wait()
	}()
	return done
}
