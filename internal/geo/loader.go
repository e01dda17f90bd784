package geo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/orb/maptile"
	"golang.org/x/time/rate"
)

const userAgent = "ADUPlanner/1.0"

// HTTPTileLoader fetches tiles from a slippy-map server. The URL template
// carries {z}, {x} and {y} placeholders.
type HTTPTileLoader struct {
	Template string
	Client   *http.Client
	Limiter  *rate.Limiter
}

// NewHTTPTileLoader creates a loader allowing perSecond requests with a
// small burst.
func NewHTTPTileLoader(template string, perSecond float64) *HTTPTileLoader {
	return &HTTPTileLoader{
		Template: template,
		Client:   &http.Client{Timeout: 15 * time.Second},
		Limiter:  rate.NewLimiter(rate.Limit(perSecond), 4),
	}
}

// URL expands the template for tile.
func (l *HTTPTileLoader) URL(tile maptile.Tile) string {
	return strings.NewReplacer(
		"{z}", strconv.Itoa(int(tile.Z)),
		"{x}", strconv.FormatUint(uint64(tile.X), 10),
		"{y}", strconv.FormatUint(uint64(tile.Y), 10),
	).Replace(l.Template)
}

// Load implements TileLoader.
func (l *HTTPTileLoader) Load(ctx context.Context, tile maptile.Tile) ([]byte, error) {
	if l.Limiter != nil {
		if err := l.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("tile %s: %w", TileKey(tile), err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL(tile), nil)
	if err != nil {
		return nil, fmt.Errorf("tile %s: %w", TileKey(tile), err)
	}
	req.Header.Set("User-Agent", userAgent)

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tile %s: %w", TileKey(tile), err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tile %s: unexpected status %s", TileKey(tile), resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tile %s: %w", TileKey(tile), err)
	}
	return body, nil
}
