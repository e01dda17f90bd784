package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/ADUPlanner/internal/geometry"
	"github.com/piwi3910/ADUPlanner/internal/model"
)

// buildTestExport creates a two-room plan with a door, a window and a bed.
func buildTestExport(t *testing.T) model.Export {
	t.Helper()
	s := model.NewScene()
	origin := s.Boundary.Vertices[0]
	bed, ok := s.AddRectRoom(model.RoomBedroom, "Bedroom", origin, 12, 10)
	require.True(t, ok)
	_, ok = s.AddRectRoom(model.RoomBathroom, "Bath", origin.Add(geometry.Point{X: 288}), 8, 10)
	require.True(t, ok)

	s.AddDoor(model.DoorSingle, geometry.Point{X: origin.X + 144, Y: origin.Y + 240}, 0)
	s.AddWindow(model.WindowStandard, geometry.Point{X: origin.X + 144, Y: origin.Y}, 0)
	_, ok = s.AddFurniture(model.FurnitureType("bed-queen"), bed.LabelPoint())
	require.True(t, ok)

	lot := model.NewLot("p1", 34.05, -118.24)
	return model.BuildExport("Backyard Cottage", s, &lot)
}

func emptyExport() model.Export {
	s := model.NewScene()
	s.Boundary.Vertices = nil
	return model.BuildExport("Empty", s, nil)
}

func assertNonEmptyFile(t *testing.T, path string, minSize int64) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), minSize)
}

func TestExportPDF_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.pdf")
	require.NoError(t, ExportPDF(path, buildTestExport(t)))
	assertNonEmptyFile(t, path, 1000)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestExportPDF_EmptyPlan(t *testing.T) {
	err := ExportPDF(filepath.Join(t.TempDir(), "empty.pdf"), emptyExport())
	assert.ErrorIs(t, err, ErrEmptyPlan)
}

func TestTitleInfo(t *testing.T) {
	exp := buildTestExport(t)
	info := NewTitleInfo(exp)
	assert.Equal(t, "Backyard Cottage", info.Name)
	assert.Equal(t, 200, info.TotalArea)
	assert.Equal(t, 2, info.Rooms)
	assert.InDelta(t, 34.05, info.Lat, 1e-9)

	data, err := json.Marshal(info)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"total_area_sqft":200`)
}

func TestRenderPNG(t *testing.T) {
	dc, err := RenderPNG(buildTestExport(t), 800)
	require.NoError(t, err)
	assert.Equal(t, 800, dc.Width())
	assert.Greater(t, dc.Height(), 0)

	path := filepath.Join(t.TempDir(), "plan.png")
	require.NoError(t, ExportPNG(path, buildTestExport(t), 400))
	assertNonEmptyFile(t, path, 100)
}

func TestRenderPNG_EmptyPlan(t *testing.T) {
	_, err := RenderPNG(emptyExport(), 400)
	assert.ErrorIs(t, err, ErrEmptyPlan)
}

func TestWriteSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, buildTestExport(t)))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, `id="walls"`)
	assert.Contains(t, out, "Bedroom")
	assert.Contains(t, out, "120 sq ft")
	assert.Contains(t, out, "#bbdefb")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "</svg>"))
}

func TestExportDXF_Entities(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.dxf")
	exp := buildTestExport(t)
	require.NoError(t, ExportDXF(path, exp))

	d, err := dxf.Open(path)
	require.NoError(t, err)

	var lines, polylines, texts int
	for _, e := range d.Entities() {
		switch e.(type) {
		case *entity.Line:
			lines++
		case *entity.LwPolyline:
			polylines++
		case *entity.Text:
			texts++
		}
	}
	var segments int
	for _, r := range exp.Rooms {
		segments += len(r.Segments)
	}
	assert.Equal(t, segments, lines, "one line per wall segment")
	assert.Equal(t, 4, polylines, "boundary, door, window and bed")
	assert.Equal(t, 2, texts)
}

func TestBuildDXF_EmptyPlan(t *testing.T) {
	_, err := BuildDXF(emptyExport())
	assert.ErrorIs(t, err, ErrEmptyPlan)
}

func TestRoomSchedule(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rooms.xlsx")
	require.NoError(t, ExportRoomSchedule(path, buildTestExport(t)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(roomsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Room", rows[0][0])
	assert.Equal(t, "Bedroom", rows[1][0])
	assert.Equal(t, "120", rows[1][4])
	assert.Equal(t, "200", rows[3][4])

	rows, err = f.GetRows(openingsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "door", rows[1][0])
	assert.Equal(t, "window", rows[2][0])
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, ExportJSON(path, buildTestExport(t)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded model.Export
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded.Rooms, 2)
	assert.Equal(t, 200, decoded.TotalArea)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, rgb{R: 187, G: 222, B: 251}, parseHex("#bbdefb"))
	assert.Equal(t, rgb{R: 224, G: 224, B: 224}, parseHex("nope"))
	assert.Equal(t, "#bbdefb", parseHex("#bbdefb").hex())

	assert.Equal(t, "12'", feet(12))
	assert.Equal(t, "12' 6\"", feet(12.5))
	assert.Equal(t, "13'", feet(12.99))
	assert.Equal(t, "12' x 10'", dimensions(12, 10))
}
