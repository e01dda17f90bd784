package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func segmentsOnLine(segs []Segment, onLine func(Segment) bool) []Segment {
	var out []Segment
	for _, s := range segs {
		if onLine(s) {
			out = append(out, s)
		}
	}
	return out
}

func TestWallSegmentsWithoutOpeningsAreUncut(t *testing.T) {
	poly := rect(0, 0, 240, 288)
	segs := WallSegmentsExcludingOpenings(poly, nil)
	require.Len(t, segs, 4)
	for i, s := range segs {
		assert.Equal(t, poly[i], s.Start)
		assert.Equal(t, poly[(i+1)%4], s.End)
	}
}

func TestWallSegmentsCenteredDoorSplitsOneEdge(t *testing.T) {
	poly := rect(0, 0, 240, 288)
	door := Opening{ID: "d1", Kind: OpeningDoor, Center: Point{120, 0}, Width: 72}

	segs := WallSegmentsExcludingOpenings(poly, []Opening{door})
	require.Len(t, segs, 5)

	top := segmentsOnLine(segs, func(s Segment) bool { return s.Start.Y == 0 && s.End.Y == 0 })
	require.Len(t, top, 2)
	assert.InDelta(t, 240.0-72.0, top[0].Length()+top[1].Length(), 1e-9)
	assert.Equal(t, Point{0, 0}, top[0].Start)
	assert.InDelta(t, 84.0, top[0].End.X, 1e-9)
	assert.InDelta(t, 156.0, top[1].Start.X, 1e-9)

	others := segs[2:]
	assert.Equal(t, Segment{poly[1], poly[2]}, others[0])
	assert.Equal(t, Segment{poly[2], poly[3]}, others[1])
	assert.Equal(t, Segment{poly[3], poly[0]}, others[2])
}

func TestWallSegmentsVerticalOpeningNeedsMatchingRotation(t *testing.T) {
	poly := rect(0, 0, 240, 288)
	win := Opening{Kind: OpeningWindow, Center: Point{240, 144}, Width: 48, Rotation: 90}

	segs := WallSegmentsExcludingOpenings(poly, []Opening{win})
	assert.Len(t, segs, 5)

	win.Rotation = 0
	segs = WallSegmentsExcludingOpenings(poly, []Opening{win})
	assert.Len(t, segs, 4, "horizontal opening does not cut a vertical wall")
}

func TestWallSegmentsToleranceAndClipping(t *testing.T) {
	poly := rect(0, 0, 240, 288)

	near := Opening{Center: Point{120, AlignTolerance}, Width: 48}
	assert.Len(t, WallSegmentsExcludingOpenings(poly, []Opening{near}), 5)

	far := Opening{Center: Point{120, AlignTolerance + 1}, Width: 48}
	assert.Len(t, WallSegmentsExcludingOpenings(poly, []Opening{far}), 4)

	// An opening at the corner is clipped to the edge extent.
	corner := Opening{Center: Point{0, 0}, Width: 48}
	segs := WallSegmentsExcludingOpenings(poly, []Opening{corner})
	top := segmentsOnLine(segs, func(s Segment) bool { return s.Start.Y == 0 && s.End.Y == 0 })
	require.Len(t, top, 1)
	assert.InDelta(t, 24.0, top[0].Start.X, 1e-9)
}

func TestWallSegmentsOverlappingOpeningsMerge(t *testing.T) {
	poly := rect(0, 0, 240, 288)
	openings := []Opening{
		{Center: Point{100, 0}, Width: 48},
		{Center: Point{120, 0}, Width: 48},
	}
	segs := WallSegmentsExcludingOpenings(poly, openings)
	top := segmentsOnLine(segs, func(s Segment) bool { return s.Start.Y == 0 && s.End.Y == 0 })
	require.Len(t, top, 2)
	assert.InDelta(t, 76.0, top[0].End.X, 1e-9)
	assert.InDelta(t, 144.0, top[1].Start.X, 1e-9)
}

func TestWallSegmentsNonOrthogonalEdgeIsNeverCut(t *testing.T) {
	tri := []Point{{0, 0}, {240, 240}, {0, 240}}
	o := Opening{Center: Point{120, 120}, Width: 48, Rotation: 45}
	assert.Len(t, WallSegmentsExcludingOpenings(tri, []Opening{o}), 3)
}

func TestWallMetadata(t *testing.T) {
	poly := rect(0, 0, 240, 288)
	door := Opening{ID: "d1", Center: Point{120, 0}, Width: 72}

	walls := WallSegmentsWithOpeningMetadata(poly, []Opening{door})
	require.Len(t, walls, 4)

	assert.InDelta(t, 10.0, walls[0].Length, 1e-9)
	assert.InDelta(t, 7.0, walls[0].EffectiveLength, 1e-9)
	require.Len(t, walls[0].Openings, 1)
	assert.Equal(t, "d1", walls[0].Openings[0].ID)

	assert.InDelta(t, 12.0, walls[1].Length, 1e-9)
	assert.Empty(t, walls[1].Openings)
	assert.False(t, PointInPolygon(walls[0].LabelAt, poly), "label sits outside the room")
}

func TestWallMetadataEffectiveLengthNeverNegative(t *testing.T) {
	poly := rect(0, 0, 48, 48)
	openings := []Opening{
		{Center: Point{24, 0}, Width: 48},
		{Center: Point{24, 0}, Width: 48},
	}
	walls := WallSegmentsWithOpeningMetadata(poly, openings)
	assert.Equal(t, 0.0, walls[0].EffectiveLength)
}
