package ui

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/ADUPlanner/internal/geo"
	"github.com/piwi3910/ADUPlanner/internal/model"
)

// showSiteDialog edits the lot: its location, size and setbacks. Without a
// lot the dialog starts from a new one.
func (a *App) showSiteDialog() {
	lot, ok := a.editor.Lot()
	if !ok {
		lot = model.NewLot(a.editor.ProjectID(), 0, 0)
		lot.WidthFt, lot.DepthFt = 50, 120
	}
	l := &lot

	address := widget.NewEntry()
	address.SetText(l.Address)
	address.OnChanged = func(s string) { l.Address = s }

	locationSection := widget.NewCard("Location", "Lot anchor in decimal degrees",
		container.NewGridWithColumns(2,
			widget.NewLabel("Address"), address,
			widget.NewLabel("Latitude"), floatEntry(&l.Lat),
			widget.NewLabel("Longitude"), floatEntry(&l.Lng),
			widget.NewLabel("Rotation (degrees)"), floatEntry(&l.Rotation),
		))

	sizeNote := "Used when no surveyed outline is imported"
	if l.HasExplicitBoundary() {
		sizeNote = fmt.Sprintf("Ignored: the lot has a surveyed outline of %d vertices", len(l.Boundary))
	}
	sizeSection := widget.NewCard("Size", sizeNote,
		container.NewGridWithColumns(2,
			widget.NewLabel("Width (ft)"), floatEntry(&l.WidthFt),
			widget.NewLabel("Depth (ft)"), floatEntry(&l.DepthFt),
		))

	setbackSection := widget.NewCard("Setbacks", "Required clearance from each lot line (ft)",
		container.NewGridWithColumns(2,
			widget.NewLabel("Front"), floatEntry(&l.Setbacks.Front),
			widget.NewLabel("Back"), floatEntry(&l.Setbacks.Back),
			widget.NewLabel("Left"), floatEntry(&l.Setbacks.Left),
			widget.NewLabel("Right"), floatEntry(&l.Setbacks.Right),
		))

	var d dialog.Dialog
	saveBtn := widget.NewButton("Save", func() {
		ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
		defer cancel()
		if err := a.editor.SetLot(ctx, lot); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.canvas.ResetTiles()
		d.Hide()
	})
	saveBtn.Importance = widget.HighImportance
	clearBtn := widget.NewButton("Clear Outline", func() {
		l.Boundary = nil
	})
	if !l.HasExplicitBoundary() {
		clearBtn.Disable()
	}
	cancelBtn := widget.NewButton("Cancel", func() { d.Hide() })

	content := container.NewBorder(nil,
		container.NewHBox(clearBtn, layout.NewSpacer(), cancelBtn, saveBtn),
		nil, nil,
		container.NewVScroll(container.NewVBox(locationSection, sizeSection, setbackSection)),
	)
	d = dialog.NewCustomWithoutButtons("Lot & Setbacks", content, a.window)
	d.Resize(fyne.NewSize(480, 560))
	d.Show()
}

// showPlacementDialog positions the ADU within the lot.
func (a *App) showPlacementDialog() {
	lot, ok := a.editor.Lot()
	if !ok {
		dialog.ShowInformation("No lot", "Set a lot under Site > Lot & Setbacks first.", a.window)
		return
	}
	p := geo.PlacementFromLot(lot)
	form := dialog.NewForm("ADU Placement", "Apply", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Offset East (ft)", floatEntry(&p.OffsetXFt)),
			widget.NewFormItem("Offset South (ft)", floatEntry(&p.OffsetYFt)),
			widget.NewFormItem("Rotation (degrees)", floatEntry(&p.Rotation)),
		},
		func(ok bool) {
			if !ok {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
			defer cancel()
			if err := a.editor.SetPlacement(ctx, p); err != nil {
				dialog.ShowError(err, a.window)
			}
		},
		a.window,
	)
	form.Resize(fyne.NewSize(360, 240))
	form.Show()
}
