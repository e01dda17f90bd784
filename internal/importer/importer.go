// Package importer reads lot geometry from CSV and Excel vertex lists and
// ADU footprints from DXF drawings. CSV input gets automatic delimiter
// detection and case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/ADUPlanner/internal/model"
)

// LotResult holds the lot vertices read from a file.
type LotResult struct {
	Vertices []model.LatLng
	Errors   []string
	Warnings []string
}

// OK reports whether the vertices form a usable lot boundary.
func (r LotResult) OK() bool {
	return len(r.Errors) == 0 && len(r.Vertices) >= 3
}

// ColumnMapping maps the coordinate columns to their indices in the data.
type ColumnMapping struct {
	Lat int
	Lng int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"lat": {"lat", "latitude", "y"},
	"lng": {"lng", "lon", "long", "longitude", "x"},
}

// DetectCSVDelimiter determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent multi-column rows wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}
		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}
		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}
		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}
	return bestDelimiter
}

// DetectColumns examines a header row. It returns the mapping and true if a
// header was recognized, or the positional mapping (lat, lng) and false.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Lat: -1, Lng: -1}
	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				switch {
				case role == "lat" && mapping.Lat == -1:
					mapping.Lat = i
				case role == "lng" && mapping.Lng == -1:
					mapping.Lng = i
				}
			}
		}
	}
	if !isHeader {
		return ColumnMapping{Lat: 0, Lng: 1}, false
	}
	return mapping, true
}

func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// parseRow extracts one vertex. It returns the vertex or an error message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (model.LatLng, string) {
	latStr := getCell(row, mapping.Lat)
	if latStr == "" {
		return model.LatLng{}, fmt.Sprintf("%s: Missing latitude value", rowLabel)
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return model.LatLng{}, fmt.Sprintf("%s: Invalid latitude '%s'", rowLabel, latStr)
	}
	lngStr := getCell(row, mapping.Lng)
	if lngStr == "" {
		return model.LatLng{}, fmt.Sprintf("%s: Missing longitude value", rowLabel)
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return model.LatLng{}, fmt.Sprintf("%s: Invalid longitude '%s'", rowLabel, lngStr)
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return model.LatLng{}, fmt.Sprintf("%s: Coordinate (%g, %g) out of range", rowLabel, lat, lng)
	}
	return model.LatLng{Lat: lat, Lng: lng}, ""
}

// ImportLotVerticesCSV reads lot corners from a CSV file.
func ImportLotVerticesCSV(path string) LotResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return LotResult{Errors: []string{fmt.Sprintf("Cannot open file: %v", err)}}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return LotResult{Errors: []string{"File is empty"}}
	}

	delimiter := DetectCSVDelimiter(data)
	var warnings []string
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}
	result := ImportLotVerticesCSVFromReader(bytes.NewReader(data), delimiter)
	result.Warnings = append(warnings, result.Warnings...)
	return result
}

// ImportLotVerticesCSVFromReader reads lot corners with a known delimiter.
func ImportLotVerticesCSVFromReader(r io.Reader, delimiter rune) LotResult {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return LotResult{Errors: []string{fmt.Sprintf("Cannot read CSV: %v", err)}}
	}
	return importFromRows(records, "Line")
}

// ImportLotVerticesExcel reads lot corners from the first sheet of an
// Excel workbook.
func ImportLotVerticesExcel(path string) LotResult {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return LotResult{Errors: []string{fmt.Sprintf("Cannot open Excel file: %v", err)}}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return LotResult{Errors: []string{"Excel file has no sheets"}}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return LotResult{Errors: []string{fmt.Sprintf("Cannot read Excel data: %v", err)}}
	}
	return importFromRows(rows, "Row")
}

// importFromRows is the shared logic for CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string) LotResult {
	result := LotResult{}
	if len(rows) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		var missing []string
		if mapping.Lat == -1 {
			missing = append(missing, "Latitude")
		}
		if mapping.Lng == -1 {
			missing = append(missing, "Longitude")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if _, err := strconv.ParseFloat(getCell(rows[0], 0), 64); err != nil {
		startRow = 1
		result.Warnings = append(result.Warnings, "Skipping unrecognized header row")
	}

	for i := startRow; i < len(rows); i++ {
		if isEmptyRow(rows[i]) {
			continue
		}
		v, errMsg := parseRow(rows[i], mapping, fmt.Sprintf("%s %d", rowPrefix, i+1))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Vertices = append(result.Vertices, v)
	}

	if n := len(result.Vertices); n > 3 && result.Vertices[0] == result.Vertices[n-1] {
		result.Vertices = result.Vertices[:n-1]
		result.Warnings = append(result.Warnings, "Dropped closing vertex")
	}
	if len(result.Vertices) < 3 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors,
			fmt.Sprintf("A lot needs at least 3 vertices, found %d", len(result.Vertices)))
	}
	return result
}
