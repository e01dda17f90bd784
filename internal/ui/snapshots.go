package ui

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/ADUPlanner/internal/snapshot"
)

// ─── Snapshots Dialog ──────────────────────────────────────

func (a *App) showSnapshotsDialog() {
	list := container.NewVBox()
	var refreshList func()

	refreshList = func() {
		list.RemoveAll()

		ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
		defer cancel()
		recs, err := a.editor.Snapshots(ctx)
		if err != nil {
			list.Add(widget.NewLabel("Could not list snapshots: " + err.Error()))
			return
		}
		if len(recs) == 0 {
			list.Add(widget.NewLabel("No snapshots saved yet."))
			return
		}

		header := container.NewGridWithColumns(5,
			widget.NewLabelWithStyle("Label", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("Kind", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("Saved", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
			widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
		)
		list.Add(header)
		list.Add(widget.NewSeparator())

		for _, rec := range recs {
			r := rec
			row := container.NewGridWithColumns(5,
				widget.NewLabel(r.Label),
				widget.NewLabel(string(r.Kind)),
				widget.NewLabel(r.CreatedAt.Local().Format("Jan 2 15:04")),
				newIconButtonWithTooltip(theme.HistoryIcon(), "Restore this snapshot", func() {
					a.confirmRestore(r, refreshList)
				}),
				newIconButtonWithTooltip(theme.DeleteIcon(), "Delete this snapshot", func() {
					ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
					defer cancel()
					if err := a.editor.DeleteSnapshot(ctx, r.ID); err != nil {
						dialog.ShowError(err, a.window)
					}
					refreshList()
				}),
			)
			list.Add(row)
		}
	}

	refreshList()

	saveBtn := widget.NewButtonWithIcon("Save Snapshot", theme.ContentAddIcon(), func() {
		ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
		defer cancel()
		if _, err := a.editor.SaveSnapshot(ctx, ""); err != nil {
			dialog.ShowError(err, a.window)
		}
		refreshList()
	})

	autoBtn := widget.NewButtonWithIcon("Auto-Save Now", theme.DocumentSaveIcon(), func() {
		ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
		defer cancel()
		if !a.editor.AutoSaveNow(ctx) {
			dialog.ShowInformation("Auto-Save", "No changes since the last auto snapshot.", a.window)
		}
		refreshList()
	})

	toolbar := container.NewHBox(saveBtn, layout.NewSpacer(), autoBtn)

	content := container.NewBorder(
		toolbar,
		nil, nil, nil,
		container.NewVScroll(list),
	)

	d := dialog.NewCustom("Snapshots", "Close", content, a.window)
	d.Resize(fyne.NewSize(640, 460))
	d.Show()
}

// confirmRestore replaces the plan with rec. Restoring is undoable.
func (a *App) confirmRestore(rec snapshot.Record, onDone func()) {
	dialog.ShowConfirm("Restore Snapshot",
		"Replace the current plan with \""+rec.Label+"\"?\n\nYou can undo the restore.",
		func(ok bool) {
			if !ok {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
			defer cancel()
			if err := a.editor.RestoreSnapshot(ctx, rec.ID); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			a.canvas.ResetTiles()
			onDone()
		},
		a.window,
	)
}
