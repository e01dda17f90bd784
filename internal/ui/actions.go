package ui

import (
	"context"
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/ADUPlanner/internal/export"
	"github.com/piwi3910/ADUPlanner/internal/importer"
	"github.com/piwi3910/ADUPlanner/internal/model"
)

// pngWidth is the pixel width of exported PNG plans.
const pngWidth = 2400

// exportTo writes exp in the named format.
func exportTo(format, path string, exp model.Export) error {
	switch format {
	case "pdf":
		return export.ExportPDF(path, exp)
	case "png":
		return export.ExportPNG(path, exp, pngWidth)
	case "svg":
		return export.ExportSVG(path, exp)
	case "dxf":
		return export.ExportDXF(path, exp)
	case "xlsx":
		return export.ExportRoomSchedule(path, exp)
	case "json":
		return export.ExportJSON(path, exp)
	}
	return fmt.Errorf("unknown export format %q", format)
}

// ─── Import Functions ───────────────────────────────────────

func (a *App) importLotCSV() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		a.handleLotImport(importer.ImportLotVerticesCSV(reader.URI().Path()))
	}, a.window)
}

func (a *App) importLotExcel() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		a.handleLotImport(importer.ImportLotVerticesExcel(reader.URI().Path()))
	}, a.window)
}

// handleLotImport installs imported vertices as the lot outline. Without a
// lot, one is created at the vertex centroid.
func (a *App) handleLotImport(result importer.LotResult) {
	a.logWarnings("lot import", result.Warnings)
	if !result.OK() {
		showImportErrors(result.Errors, a.window)
		return
	}
	lot, ok := a.editor.Lot()
	if !ok {
		c := latLngCentroid(result.Vertices)
		lot = model.NewLot(a.editor.ProjectID(), c.Lat, c.Lng)
	}
	lot.Boundary = result.Vertices

	ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
	defer cancel()
	if err := a.editor.SetLot(ctx, lot); err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.canvas.ResetTiles()
	msg := fmt.Sprintf("Imported %d lot vertices.", len(result.Vertices))
	if len(result.Errors) > 0 {
		msg += fmt.Sprintf("\n\nHowever, %d rows had errors and were skipped.", len(result.Errors))
	}
	dialog.ShowInformation("Import Complete", msg, a.window)
}

func latLngCentroid(pts []model.LatLng) model.LatLng {
	var c model.LatLng
	for _, p := range pts {
		c.Lat += p.Lat
		c.Lng += p.Lng
	}
	n := float64(len(pts))
	return model.LatLng{Lat: c.Lat / n, Lng: c.Lng / n}
}

// drawingUnits maps the DXF unit choices to feet per drawing unit.
var drawingUnits = map[string]float64{
	"Feet":   1,
	"Inches": 1.0 / 12,
	"Meters": 3.28084,
}

func (a *App) importBoundaryDXF() {
	unitSelect := widget.NewSelect([]string{"Feet", "Inches", "Meters"}, nil)
	unitSelect.SetSelected("Feet")
	dialog.ShowForm("Import Boundary", "Choose File...", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Drawing units", unitSelect)},
		func(ok bool) {
			if !ok {
				return
			}
			scale := drawingUnits[unitSelect.Selected]
			dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
				if err != nil || reader == nil {
					return
				}
				defer reader.Close()
				a.handleBoundaryImport(importer.ImportBoundaryDXF(reader.URI().Path(), scale))
			}, a.window)
		},
		a.window,
	)
}

func (a *App) handleBoundaryImport(result importer.BoundaryResult) {
	a.logWarnings("boundary import", result.Warnings)
	if !result.OK() {
		showImportErrors(result.Errors, a.window)
		return
	}
	if !a.editor.SetBoundary(result.Vertices) {
		dialog.ShowError(fmt.Errorf("the imported outline is not a usable boundary"), a.window)
		return
	}
	dialog.ShowInformation("Import Complete",
		fmt.Sprintf("Boundary imported: %d points, %d sq ft.", len(result.Vertices), result.Area), a.window)
}

func (a *App) logWarnings(what string, warnings []string) {
	for _, w := range warnings {
		a.log.WithField("import", what).Warn(w)
	}
}

func showImportErrors(errs []string, w fyne.Window) {
	if len(errs) == 0 {
		errs = []string{"no usable outline found"}
	}
	dialog.ShowError(fmt.Errorf("errors encountered during import:\n\n%s", strings.Join(errs, "\n")), w)
}
