package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/ADUPlanner/internal/model"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter(t *testing.T) {
	tests := []struct {
		name string
		data string
		want rune
	}{
		{"comma", "lat,lng\n34.1,-118.2\n34.2,-118.3\n", ','},
		{"semicolon", "lat;lng\n34.1;-118.2\n34.2;-118.3\n", ';'},
		{"tab", "lat\tlng\n34.1\t-118.2\n34.2\t-118.3\n", '\t'},
		{"pipe", "lat|lng\n34.1|-118.2\n34.2|-118.3\n", '|'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectCSVDelimiter([]byte(tt.data)); got != tt.want {
				t.Errorf("expected %q delimiter, got %q", tt.want, got)
			}
		})
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_Aliases(t *testing.T) {
	tests := []struct {
		header   []string
		lat, lng int
	}{
		{[]string{"lat", "lng"}, 0, 1},
		{[]string{"Latitude", "Longitude"}, 0, 1},
		{[]string{"LON", "LAT"}, 1, 0},
		{[]string{"corner", "long", "latitude"}, 2, 1},
	}
	for _, tt := range tests {
		m, ok := DetectColumns(tt.header)
		if !ok {
			t.Errorf("%v: expected header detection", tt.header)
			continue
		}
		if m.Lat != tt.lat || m.Lng != tt.lng {
			t.Errorf("%v: expected lat=%d lng=%d, got %+v", tt.header, tt.lat, tt.lng, m)
		}
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	m, ok := DetectColumns([]string{"34.1", "-118.2"})
	if ok {
		t.Error("numeric row must not be a header")
	}
	if m.Lat != 0 || m.Lng != 1 {
		t.Errorf("expected positional mapping, got %+v", m)
	}
}

// ─── CSV Import Tests ──────────────────────────────────────

const square = "34.0000,-118.0000\n34.0001,-118.0000\n34.0001,-117.9999\n34.0000,-117.9999\n"

func TestImportCSVFromReader_WithoutHeader(t *testing.T) {
	r := ImportLotVerticesCSVFromReader(strings.NewReader(square), ',')
	if !r.OK() {
		t.Fatalf("unexpected errors: %v", r.Errors)
	}
	if len(r.Vertices) != 4 {
		t.Fatalf("expected 4 vertices, got %d", len(r.Vertices))
	}
	if r.Vertices[1].Lat != 34.0001 {
		t.Errorf("expected lat 34.0001, got %f", r.Vertices[1].Lat)
	}
}

func TestImportCSVFromReader_ReorderedHeader(t *testing.T) {
	data := "Longitude,Latitude\n-118.0,34.0\n-118.0,34.1\n-117.9,34.1\n"
	r := ImportLotVerticesCSVFromReader(strings.NewReader(data), ',')
	if !r.OK() {
		t.Fatalf("unexpected errors: %v", r.Errors)
	}
	if r.Vertices[0] != (model.LatLng{Lat: 34.0, Lng: -118.0}) {
		t.Errorf("columns not mapped by header: %+v", r.Vertices[0])
	}
}

func TestImportCSVFromReader_DropsClosingVertex(t *testing.T) {
	data := square + "34.0000,-118.0000\n"
	r := ImportLotVerticesCSVFromReader(strings.NewReader(data), ',')
	if len(r.Vertices) != 4 {
		t.Errorf("expected closing vertex dropped, got %d vertices", len(r.Vertices))
	}
}

func TestImportCSVFromReader_Errors(t *testing.T) {
	tests := map[string]string{
		"empty":        "",
		"too few":      "34.0,-118.0\n34.1,-118.0\n",
		"bad number":   "lat,lng\n34.0,abc\n34.1,-118.0\n34.1,-117.9\n",
		"out of range": "lat,lng\n95.0,-118.0\n34.1,-118.0\n34.1,-117.9\n",
		"missing lng":  "lat,name\n34.0,a\n34.1,b\n34.2,c\n",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			r := ImportLotVerticesCSVFromReader(strings.NewReader(data), ',')
			if r.OK() || len(r.Errors) == 0 {
				t.Errorf("expected an error, got %+v", r)
			}
		})
	}
}

func TestImportCSVFromReader_UnrecognizedHeaderSkipped(t *testing.T) {
	data := "north,east\n" + square
	r := ImportLotVerticesCSVFromReader(strings.NewReader(data), ',')
	if !r.OK() {
		t.Fatalf("unexpected errors: %v", r.Errors)
	}
	if len(r.Warnings) == 0 {
		t.Error("expected a warning about the skipped header")
	}
}

func TestImportCSV_SemicolonFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lot.csv")
	data := strings.ReplaceAll("lat,lng\n"+square, ",", ";")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	r := ImportLotVerticesCSV(path)
	if !r.OK() {
		t.Fatalf("unexpected errors: %v", r.Errors)
	}
	if len(r.Warnings) == 0 || !strings.Contains(r.Warnings[0], "semicolon") {
		t.Errorf("expected semicolon warning, got %v", r.Warnings)
	}
}

func TestImportCSV_FileNotFound(t *testing.T) {
	if r := ImportLotVerticesCSV("/nonexistent/lot.csv"); len(r.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lot.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, cell := range row {
			ref, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, ref, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Corner", "Latitude", "Longitude"},
		{"NW", 34.0, -118.0},
		{"NE", 34.0, -117.9},
		{"SE", 33.9, -117.9},
	})
	r := ImportLotVerticesExcel(path)
	if !r.OK() {
		t.Fatalf("unexpected errors: %v", r.Errors)
	}
	if r.Vertices[1].Lng != -117.9 {
		t.Errorf("expected lng -117.9, got %f", r.Vertices[1].Lng)
	}
}

func TestImportExcel_InvalidData(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"lat", "lng"},
		{"north", -118.0},
		{34.0, -118.0},
		{34.1, -118.0},
	})
	if r := ImportLotVerticesExcel(path); len(r.Errors) == 0 {
		t.Error("expected error for invalid latitude")
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	if r := ImportLotVerticesExcel("/nonexistent/lot.xlsx"); len(r.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}
