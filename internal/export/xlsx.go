package export

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/ADUPlanner/internal/model"
	"github.com/piwi3910/ADUPlanner/internal/units"
)

const (
	roomsSheet    = "Rooms"
	openingsSheet = "Openings"
)

// BuildRoomSchedule creates a workbook with a room schedule sheet and a
// door and window sheet.
func BuildRoomSchedule(exp model.Export) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), roomsSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(openingsSheet); err != nil {
		return nil, err
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	rows := [][]interface{}{{"Room", "Type", "Width (ft)", "Depth (ft)", "Area (sq ft)", "Wall length (ft)", "Vertices"}}
	for _, r := range exp.Rooms {
		name, _ := roomTitle(r)
		rows = append(rows, []interface{}{
			name, string(r.Type), r.WidthFt, r.DepthFt, r.Area, effectiveWallLength(r), len(r.Vertices),
		})
	}
	rows = append(rows, []interface{}{"Total", "", "", "", exp.TotalArea})
	if err := writeRows(f, roomsSheet, rows, header); err != nil {
		return nil, err
	}

	rows = [][]interface{}{{"Kind", "Type", "Width (ft)", "Rotation", "X (ft)", "Y (ft)"}}
	for _, d := range exp.Doors {
		rows = append(rows, []interface{}{"door", string(d.Type), d.Width, d.Rotation, ftOf(d.Position.X), ftOf(d.Position.Y)})
	}
	for _, w := range exp.Windows {
		rows = append(rows, []interface{}{"window", string(w.Type), w.Width, w.Rotation, ftOf(w.Position.X), ftOf(w.Position.Y)})
	}
	if err := writeRows(f, openingsSheet, rows, header); err != nil {
		return nil, err
	}
	return f, nil
}

// ExportRoomSchedule writes the room schedule workbook.
func ExportRoomSchedule(path string, exp model.Export) error {
	f, err := BuildRoomSchedule(exp)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, headerStyle)
}

// ftOf converts pixels to feet rounded to hundredths.
func ftOf(px float64) float64 {
	return math.Round(units.PixelsToFeet(px)*100) / 100
}
