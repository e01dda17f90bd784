package ui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/ADUPlanner/internal/model"
	"github.com/piwi3910/ADUPlanner/internal/project"
	"github.com/piwi3910/ADUPlanner/internal/snap"
)

// floatEntry creates an entry bound to val. Unparsable text leaves val
// unchanged; changed runs after each successful update.
func floatEntry(val *float64, changed ...func()) *widget.Entry {
	e := widget.NewEntry()
	e.SetText(strconv.FormatFloat(*val, 'f', -1, 64))
	e.OnChanged = func(text string) {
		if v, err := strconv.ParseFloat(text, 64); err == nil {
			*val = v
			for _, fn := range changed {
				fn()
			}
		}
	}
	return e
}

func intEntry(val *int) *widget.Entry {
	e := widget.NewEntry()
	e.SetText(fmt.Sprintf("%d", *val))
	e.OnChanged = func(text string) {
		if v, err := strconv.Atoi(text); err == nil {
			*val = v
		}
	}
	return e
}

// showSettingsDialog displays the application settings editor. Editing
// defaults apply to plans opened afterwards.
func (a *App) showSettingsDialog() {
	cfg := a.config

	themeSelect := widget.NewSelect([]string{"system", "light", "dark"}, func(selected string) {
		cfg.Theme = selected
	})
	themeSelect.SetSelected(cfg.Theme)

	snapSelect := widget.NewSelect([]string{string(snap.ModeFull), string(snap.ModeHalf), string(snap.ModeFree)},
		func(selected string) { cfg.FurnitureSnap = selected })
	snapSelect.SetSelected(cfg.FurnitureSnap)

	tileURL := widget.NewEntry()
	tileURL.SetText(cfg.TileURLTemplate)
	tileURL.OnChanged = func(s string) { cfg.TileURLTemplate = s }

	dbPath := widget.NewEntry()
	dbPath.SetText(cfg.DatabasePath)
	dbPath.SetPlaceHolder(project.DatabasePath(cfg))
	dbPath.OnChanged = func(s string) { cfg.DatabasePath = s }

	formItems := []*widget.FormItem{
		widget.NewFormItem("Theme", themeSelect),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("Furniture Snap", snapSelect),
		widget.NewFormItem("Default ADU Area (sq ft)", floatEntry(&cfg.DefaultADUArea)),
		widget.NewFormItem("Undo Depth", intEntry(&cfg.HistoryDepth)),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("Auto-Save Interval (min, 0=off)", intEntry(&cfg.AutoSaveInterval)),
		widget.NewFormItem("Auto Snapshots Kept", intEntry(&cfg.MaxAutoSnapshots)),
		widget.NewFormItem("Manual Snapshots Kept", intEntry(&cfg.MaxManualSnapshots)),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("Tile URL Template", tileURL),
		widget.NewFormItem("Satellite Zoom", intEntry(&cfg.SatelliteZoom)),
		widget.NewFormItem("Database (restart)", dbPath),
	}

	d := dialog.NewForm("Settings", "Save", "Cancel", formItems,
		func(ok bool) {
			if !ok {
				return
			}
			a.config = cfg.Normalize()
			a.app.Settings().SetTheme(NewAppThemeFor(a.config.Theme))
			a.editor.SetFurnitureSnap(snap.ParseMode(a.config.FurnitureSnap))
			if err := a.saveConfig(); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save settings: %w", err), a.window)
			} else {
				dialog.ShowInformation("Settings Saved", "Application settings have been saved.", a.window)
			}
		},
		a.window,
	)
	d.Resize(fyne.NewSize(520, 560))
	d.Show()
}

// showImportExportDialog displays the import/export data dialog.
func (a *App) showImportExportDialog() {
	exportBtn := widget.NewButton("Export All Data...", func() {
		d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				return
			}
			defer writer.Close()
			path := writer.URI().Path()
			var views map[string]model.ViewSettings
			if a.opts.Views != nil {
				a.persistView()
				views = a.opts.Views.All()
			}
			if err := project.ExportAllData(path, a.config, a.templates, views); err != nil {
				dialog.ShowError(err, a.window)
			} else {
				dialog.ShowInformation("Export Complete",
					fmt.Sprintf("All application data exported to:\n%s", path), a.window)
			}
		}, a.window)
		d.SetFileName("aduplanner-backup.json")
		d.Show()
	})

	importBtn := widget.NewButton("Import All Data...", func() {
		dialog.ShowConfirm("Import Data",
			"Importing data will replace your settings and templates.\n\nAre you sure you want to continue?",
			func(ok bool) {
				if !ok {
					return
				}
				d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
					if err != nil || reader == nil {
						return
					}
					defer reader.Close()
					backup, err := project.ImportAllData(reader.URI().Path())
					if err != nil {
						dialog.ShowError(err, a.window)
						return
					}
					a.applyBackup(backup)
					dialog.ShowInformation("Import Complete",
						fmt.Sprintf("Data imported successfully from backup created at %s.", backup.CreatedAt), a.window)
				}, a.window)
				d.Show()
			},
			a.window,
		)
	})

	content := container.NewVBox(
		widget.NewLabel("Export settings, plan templates and view preferences to a backup file,\nor import from a previously exported backup."),
		widget.NewSeparator(),
		exportBtn,
		widget.NewSeparator(),
		importBtn,
	)

	d := dialog.NewCustom("Import / Export Data", "Close", content, a.window)
	d.Resize(fyne.NewSize(450, 250))
	d.Show()
}

func (a *App) applyBackup(backup project.BackupData) {
	a.config = backup.Config
	a.templates = backup.Templates
	if err := a.saveConfig(); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save imported settings: %w", err), a.window)
	}
	if err := a.saveTemplates(); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save imported templates: %w", err), a.window)
	}
	if a.opts.Views != nil {
		for id, v := range backup.Views {
			if err := a.opts.Views.Set(id, v); err != nil {
				a.log.WithError(err).WithField("project", id).Warn("restoring view settings failed")
			}
		}
	}
	a.app.Settings().SetTheme(NewAppThemeFor(a.config.Theme))
	a.SetupMenus()
}

// saveConfig persists the current app config to disk.
func (a *App) saveConfig() error {
	return project.SaveAppConfig(a.opts.ConfigPath, a.config)
}

func (a *App) saveTemplates() error {
	return project.SaveTemplates(a.opts.TemplatePath, a.templates)
}
