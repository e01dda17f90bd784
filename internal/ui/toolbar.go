package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"github.com/piwi3910/ADUPlanner/internal/editor"
	"github.com/piwi3910/ADUPlanner/internal/selection"
)

// modeTools lists the toolbar tools in display order with their hotkeys.
var modeTools = []struct {
	mode  selection.Mode
	label string
	tip   string
	key   fyne.KeyName
}{
	{selection.ModeSelect, "Select", "Select, drag and marquee (V)", fyne.KeyV},
	{selection.ModeRoom, "Room", "Click to place a room (B)", fyne.KeyB},
	{selection.ModeDoor, "Door", "Click to place a door (D)", fyne.KeyD},
	{selection.ModeWindow, "Window", "Click to place a window (W)", fyne.KeyW},
	{selection.ModeFurniture, "Furniture", "Click to place furniture (F)", fyne.KeyF},
	{selection.ModeBoundary, "Boundary", "Click near the boundary to add a point (G)", fyne.KeyG},
}

type toolbar struct {
	box   *fyne.Container
	undo  *ttwidget.Button
	redo  *ttwidget.Button
	modes map[selection.Mode]*ttwidget.Button
}

func (a *App) buildToolbar() *toolbar {
	tb := &toolbar{modes: make(map[selection.Mode]*ttwidget.Button)}
	tb.undo = newIconButtonWithTooltip(theme.ContentUndoIcon(), "Undo (Ctrl+Z)", a.undo)
	tb.redo = newIconButtonWithTooltip(theme.ContentRedoIcon(), "Redo (Ctrl+Shift+Z)", a.redo)

	items := []fyne.CanvasObject{
		newIconButtonWithTooltip(theme.DocumentSaveIcon(), "Save project (Ctrl+S)", a.saveProject),
		tb.undo, tb.redo,
		widget.NewSeparator(),
	}
	for _, t := range modeTools {
		m := t.mode
		btn := newButtonWithTooltip(t.label, t.tip, func() { a.editor.SetMode(m) })
		tb.modes[m] = btn
		items = append(items, btn)
	}
	items = append(items,
		widget.NewSeparator(),
		newIconButtonWithTooltip(theme.ViewRefreshIcon(), "Rotate selection (R)", func() { a.editor.RotateSelected() }),
		newIconButtonWithTooltip(theme.DeleteIcon(), "Delete selection (Del)", func() { a.editor.DeleteSelected() }),
		layout.NewSpacer(),
		newIconButtonWithTooltip(theme.ZoomOutIcon(), "Zoom out", func() { a.canvas.ZoomBy(0.8) }),
		newIconButtonWithTooltip(theme.ZoomInIcon(), "Zoom in", func() { a.canvas.ZoomBy(1.25) }),
		newIconButtonWithTooltip(theme.ZoomFitIcon(), "Center on ADU", a.centerOnADU),
	)
	tb.box = container.NewHBox(items...)
	return tb
}

func (tb *toolbar) refresh(ed *editor.Editor) {
	setEnabled(&tb.undo.Button, ed.CanUndo())
	setEnabled(&tb.redo.Button, ed.CanRedo())
	active := ed.Mode()
	for m, btn := range tb.modes {
		want := widget.MediumImportance
		if m == active {
			want = widget.HighImportance
		}
		if btn.Importance != want {
			btn.Importance = want
			btn.Refresh()
		}
	}
}

func setEnabled(b *widget.Button, on bool) {
	switch {
	case on && b.Disabled():
		b.Enable()
	case !on && !b.Disabled():
		b.Disable()
	}
}

// installShortcuts binds the keyboard to editor actions.
func (a *App) installShortcuts() {
	c := a.window.Canvas()
	bind := func(key fyne.KeyName, mod fyne.KeyModifier, fn func()) {
		c.AddShortcut(&desktop.CustomShortcut{KeyName: key, Modifier: mod}, func(fyne.Shortcut) { fn() })
	}
	bind(fyne.KeyZ, fyne.KeyModifierShortcutDefault, a.undo)
	bind(fyne.KeyZ, fyne.KeyModifierShortcutDefault|fyne.KeyModifierShift, a.redo)
	bind(fyne.KeyY, fyne.KeyModifierShortcutDefault, a.redo)
	bind(fyne.KeyS, fyne.KeyModifierShortcutDefault, a.saveProject)
	bind(fyne.KeyO, fyne.KeyModifierShortcutDefault, a.openProject)
	bind(fyne.KeyN, fyne.KeyModifierShortcutDefault, a.newProject)

	c.SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyDelete, fyne.KeyBackspace:
			a.editor.DeleteSelected()
		case fyne.KeyEscape:
			a.editor.Cancel()
			a.editor.SetMode(selection.ModeSelect)
		case fyne.KeyR:
			a.editor.RotateSelected()
		case fyne.KeyLeft:
			a.editor.NudgeSelected(-nudgeStep, 0)
		case fyne.KeyRight:
			a.editor.NudgeSelected(nudgeStep, 0)
		case fyne.KeyUp:
			a.editor.NudgeSelected(0, -nudgeStep)
		case fyne.KeyDown:
			a.editor.NudgeSelected(0, nudgeStep)
		default:
			for _, t := range modeTools {
				if ev.Name == t.key {
					a.editor.SetMode(t.mode)
				}
			}
		}
	})
}
