package ui

import (
	"fmt"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/ADUPlanner/internal/geometry"
	"github.com/piwi3910/ADUPlanner/internal/model"
	"github.com/piwi3910/ADUPlanner/internal/units"
)

// showSaveTemplateDialog stores the current scene as a template. An
// existing template of the same name is replaced after confirmation.
func (a *App) showSaveTemplateDialog() {
	name := widget.NewEntry()
	name.SetText(a.editor.Name())
	desc := widget.NewMultiLineEntry()
	desc.SetMinRowsVisible(3)

	dialog.ShowForm("Save as Template", "Save", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", name),
			widget.NewFormItem("Description", desc),
		},
		func(ok bool) {
			if !ok {
				return
			}
			n := strings.TrimSpace(name.Text)
			if n == "" {
				dialog.ShowError(fmt.Errorf("template name is required"), a.window)
				return
			}
			save := func() {
				if old := a.templates.FindByName(n); old != nil {
					a.templates.Remove(old.ID)
				}
				a.templates.Add(a.editor.SaveAsTemplate(n, desc.Text))
				if err := a.saveTemplates(); err != nil {
					dialog.ShowError(err, a.window)
				}
			}
			if a.templates.FindByName(n) == nil {
				save()
				return
			}
			dialog.ShowConfirm("Replace Template",
				fmt.Sprintf("A template named %q exists. Replace it?", n),
				func(ok bool) {
					if ok {
						save()
					}
				}, a.window)
		},
		a.window,
	)
}

// showTemplateManager opens a window listing saved templates with a
// detail pane to apply, rename or delete them.
func (a *App) showTemplateManager() {
	w := a.app.NewWindow("Plan Templates")
	w.Resize(fyne.NewSize(700, 460))

	selectedIdx := -1
	detail := container.NewVBox(widget.NewLabel("Select a template to view details."))

	var list *widget.List
	list = widget.NewList(
		func() int {
			return len(a.templates.Templates)
		},
		func() fyne.CanvasObject {
			return container.NewHBox(
				widget.NewIcon(theme.DocumentIcon()),
				widget.NewLabel("Template Name"),
				layout.NewSpacer(),
				widget.NewLabel("0 sq ft"),
			)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			box := obj.(*fyne.Container)
			t := a.templates.Templates[id]
			box.Objects[1].(*widget.Label).SetText(t.Name)
			box.Objects[3].(*widget.Label).SetText(fmt.Sprintf("%d sq ft", templateArea(t)))
		},
	)

	resetDetail := func() {
		selectedIdx = -1
		list.UnselectAll()
		list.Refresh()
		detail.Objects = []fyne.CanvasObject{widget.NewLabel("Select a template to view details.")}
		detail.Refresh()
	}

	list.OnSelected = func(id widget.ListItemID) {
		selectedIdx = id
		a.showTemplateDetail(detail, a.templates.Templates[id], w, resetDetail)
	}

	deleteBtn := widget.NewButtonWithIcon("Delete", theme.DeleteIcon(), func() {
		if selectedIdx < 0 || selectedIdx >= len(a.templates.Templates) {
			dialog.ShowInformation("No Selection", "Select a template to delete.", w)
			return
		}
		t := a.templates.Templates[selectedIdx]
		dialog.ShowConfirm("Delete Template", fmt.Sprintf("Delete template %q?", t.Name), func(ok bool) {
			if !ok {
				return
			}
			a.templates.Remove(t.ID)
			if err := a.saveTemplates(); err != nil {
				dialog.ShowError(err, w)
			}
			resetDetail()
		}, w)
	})
	saveBtn := widget.NewButtonWithIcon("Save Current Plan...", theme.ContentAddIcon(), func() {
		a.showSaveTemplateDialog()
	})
	refreshBtn := widget.NewButtonWithIcon("", theme.ViewRefreshIcon(), resetDetail)

	toolbar := container.NewHBox(saveBtn, layout.NewSpacer(), refreshBtn, deleteBtn)
	split := container.NewHSplit(list, container.NewVScroll(detail))
	split.SetOffset(0.4)
	w.SetContent(container.NewBorder(toolbar, nil, nil, nil, split))
	w.Show()
}

func (a *App) showTemplateDetail(detail *fyne.Container, t model.PlanTemplate, w fyne.Window, onChange func()) {
	created := t.CreatedAt
	if ts, err := time.Parse(time.RFC3339, t.CreatedAt); err == nil {
		created = ts.Local().Format("Jan 2, 2006 15:04")
	}
	s := t.Scene
	info := widget.NewForm(
		widget.NewFormItem("Name", widget.NewLabel(t.Name)),
		widget.NewFormItem("Created", widget.NewLabel(created)),
		widget.NewFormItem("Boundary", widget.NewLabel(fmt.Sprintf("%d sq ft", templateArea(t)))),
		widget.NewFormItem("Rooms", widget.NewLabel(fmt.Sprintf("%d (%d sq ft)", len(s.Rooms), s.TotalRoomArea()))),
		widget.NewFormItem("Openings", widget.NewLabel(fmt.Sprintf("%d", len(s.Doors)+len(s.Windows)))),
		widget.NewFormItem("Furniture", widget.NewLabel(fmt.Sprintf("%d", len(s.Furniture)))),
	)
	desc := widget.NewLabel(t.Description)
	desc.Wrapping = fyne.TextWrapWord

	applyBtn := widget.NewButtonWithIcon("Apply to Plan", theme.ConfirmIcon(), func() {
		dialog.ShowConfirm("Apply Template",
			"Replace the current rooms, openings and furniture?\n\nYou can undo this.",
			func(ok bool) {
				if ok && !a.editor.ApplyTemplate(t) {
					dialog.ShowError(fmt.Errorf("template %q is not a valid plan", t.Name), w)
				}
			}, w)
	})
	applyBtn.Importance = widget.HighImportance

	renameBtn := widget.NewButtonWithIcon("Rename", theme.DocumentCreateIcon(), func() {
		name := widget.NewEntry()
		name.SetText(t.Name)
		dialog.ShowForm("Rename Template", "Save", "Cancel",
			[]*widget.FormItem{widget.NewFormItem("Name", name)},
			func(ok bool) {
				n := strings.TrimSpace(name.Text)
				if !ok || n == "" || n == t.Name {
					return
				}
				for i := range a.templates.Templates {
					if a.templates.Templates[i].ID == t.ID {
						a.templates.Templates[i].Name = n
						a.templates.Templates[i].UpdatedAt = time.Now().UTC().Format(time.RFC3339)
					}
				}
				if err := a.saveTemplates(); err != nil {
					dialog.ShowError(err, w)
				}
				onChange()
			}, w)
	})

	detail.Objects = []fyne.CanvasObject{
		widget.NewLabelWithStyle(t.Name, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		info,
		desc,
		widget.NewSeparator(),
		container.NewHBox(applyBtn, renameBtn),
	}
	detail.Refresh()
}

func templateArea(t model.PlanTemplate) int {
	return units.RoundSqFeet(geometry.PolygonArea(t.Scene.Boundary.Vertices))
}
