package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/ADUPlanner/internal/editor"
	"github.com/piwi3910/ADUPlanner/internal/geometry"
	"github.com/piwi3910/ADUPlanner/internal/model"
	"github.com/piwi3910/ADUPlanner/internal/selection"
	"github.com/piwi3910/ADUPlanner/internal/snap"
	"github.com/piwi3910/ADUPlanner/internal/units"
)

// refreshProperties rebuilds the side panel when what it shows changed.
// Rebuilding on every repaint would discard text being typed.
func (a *App) refreshProperties() {
	mode := a.editor.Mode()
	scene := a.editor.Scene()
	sel := a.editor.Selected()
	ref, single := a.editor.Single()

	var entity any
	if single {
		entity = findEntity(&scene, ref)
	}
	key := fmt.Sprintf("%s|%v|%+v", mode, sel, entity)
	if key == a.propsKey {
		return
	}
	a.propsKey = key

	var body fyne.CanvasObject
	switch {
	case mode != selection.ModeSelect:
		body = a.toolPanel(mode)
	case single && entity != nil:
		body = a.entityPanel(entity)
	case !sel.Empty():
		body = a.multiPanel(sel)
	default:
		body = a.planPanel()
	}
	a.props.Objects = []fyne.CanvasObject{body}
	a.props.Refresh()
}

func findEntity(s *model.Scene, ref selection.Ref) any {
	switch ref.Kind {
	case model.KindRoom:
		if r := s.FindRoom(ref.ID); r != nil {
			return *r
		}
	case model.KindDoor:
		if d := s.FindDoor(ref.ID); d != nil {
			return *d
		}
	case model.KindWindow:
		if w := s.FindWindow(ref.ID); w != nil {
			return *w
		}
	case model.KindFurniture:
		if f := s.FindFurniture(ref.ID); f != nil {
			return *f
		}
	}
	return nil
}

func heading(text string) *widget.Label {
	return widget.NewLabelWithStyle(text, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
}

// ─── Plan ──────────────────────────────────────────────────

func (a *App) planPanel() fyne.CanvasObject {
	name := widget.NewEntry()
	name.SetText(a.editor.Name())
	name.OnSubmitted = func(s string) { a.editor.SetName(s) }

	snapSelect := widget.NewSelect([]string{string(snap.ModeFull), string(snap.ModeHalf), string(snap.ModeFree)},
		func(s string) { a.editor.SetFurnitureSnap(snap.ParseMode(s)) })
	snapSelect.SetSelected(a.editor.Config().FurnitureSnap)

	s := a.editor.Summary()
	info := widget.NewLabel(fmt.Sprintf(
		"Boundary: %d sq ft\nRooms: %d (%d sq ft)\nOpenings: %d\nFurniture: %d",
		s.BoundaryArea, s.Rooms, s.RoomArea, s.Openings, s.Furniture))
	if s.Buildable > 0 {
		info.SetText(info.Text + fmt.Sprintf("\nBuildable: %d sq ft", s.Buildable))
	}

	return container.NewVBox(
		heading("Plan"),
		widget.NewForm(
			widget.NewFormItem("Name", name),
			widget.NewFormItem("Furniture snap", snapSelect),
		),
		widget.NewSeparator(),
		info,
	)
}

// ─── Tools ─────────────────────────────────────────────────

func (a *App) toolPanel(mode selection.Mode) fyne.CanvasObject {
	t := a.editor.Tool()
	set := func(fn func(*editor.Tool)) {
		t := a.editor.Tool()
		fn(&t)
		a.editor.SetTool(t)
	}

	switch mode {
	case selection.ModeRoom:
		name := widget.NewEntry()
		name.SetText(t.RoomName)
		name.OnChanged = func(s string) { set(func(t *editor.Tool) { t.RoomName = s }) }
		w, h := t.RoomW, t.RoomH
		wEntry := floatEntry(&w, func() { set(func(t *editor.Tool) { t.RoomW = w }) })
		hEntry := floatEntry(&h, func() { set(func(t *editor.Tool) { t.RoomH = h }) })
		return container.NewVBox(heading("New Room"), widget.NewForm(
			widget.NewFormItem("Type", enumSelect(roomTypeNames(), string(t.Room), func(s string) {
				set(func(t *editor.Tool) { t.Room = model.RoomType(s) })
			})),
			widget.NewFormItem("Name", name),
			widget.NewFormItem("Width (ft)", wEntry),
			widget.NewFormItem("Depth (ft)", hEntry),
		), widget.NewLabel("Click to place the top-left corner."))
	case selection.ModeDoor:
		return container.NewVBox(heading("New Door"), widget.NewForm(
			widget.NewFormItem("Type", enumSelect(doorTypeNames, string(t.Door), func(s string) {
				set(func(t *editor.Tool) { t.Door = model.DoorType(s) })
			})),
		), widget.NewLabel("Click on a wall to place."))
	case selection.ModeWindow:
		return container.NewVBox(heading("New Window"), widget.NewForm(
			widget.NewFormItem("Type", enumSelect(windowTypeNames, string(t.Window), func(s string) {
				set(func(t *editor.Tool) { t.Window = model.WindowType(s) })
			})),
		), widget.NewLabel("Click on a wall to place."))
	case selection.ModeFurniture:
		return container.NewVBox(heading("New Furniture"), widget.NewForm(
			widget.NewFormItem("Item", furnitureSelect(t.Furniture, func(ft model.FurnitureType) {
				set(func(t *editor.Tool) { t.Furniture = ft })
			})),
		), widget.NewLabel("Click to place the item's center."))
	case selection.ModeBoundary:
		return container.NewVBox(heading("Boundary"),
			widget.NewLabel("Click near an edge to add a point."),
			widget.NewButton("Set Area...", a.showBoundaryAreaDialog))
	}
	return widget.NewLabel(string(mode))
}

var (
	doorTypeNames = []string{
		string(model.DoorSingle), string(model.DoorDouble), string(model.DoorSliding),
		string(model.DoorFrench), string(model.DoorOpening),
	}
	windowTypeNames = []string{
		string(model.WindowStandard), string(model.WindowBay),
		string(model.WindowPicture), string(model.WindowSliding),
	}
)

func roomTypeNames() []string {
	out := make([]string, len(model.RoomTypes))
	for i, t := range model.RoomTypes {
		out[i] = string(t)
	}
	return out
}

func enumSelect(options []string, current string, changed func(string)) *widget.Select {
	s := widget.NewSelect(options, nil)
	s.SetSelected(current)
	s.OnChanged = changed
	return s
}

// furnitureSelect lists the catalog by label.
func furnitureSelect(current model.FurnitureType, changed func(model.FurnitureType)) *widget.Select {
	items := model.Catalog()
	labels := make([]string, len(items))
	byLabel := make(map[string]model.FurnitureType, len(items))
	for i, it := range items {
		labels[i] = it.Label
		byLabel[it.Label] = it.Type
	}
	s := widget.NewSelect(labels, nil)
	if it, ok := model.LookupFurniture(current); ok {
		s.SetSelected(it.Label)
	}
	s.OnChanged = func(label string) { changed(byLabel[label]) }
	return s
}

// ─── Selection ─────────────────────────────────────────────

func (a *App) multiPanel(sel model.Batch) fyne.CanvasObject {
	return container.NewVBox(
		heading(fmt.Sprintf("%d items selected", sel.Len())),
		widget.NewLabel(fmt.Sprintf("Rooms %d, doors %d, windows %d, furniture %d",
			len(sel.Rooms), len(sel.Doors), len(sel.Windows), len(sel.Furniture))),
		widget.NewButtonWithIcon("Rotate", theme.ViewRefreshIcon(), func() { a.editor.RotateSelected() }),
		widget.NewButtonWithIcon("Delete", theme.DeleteIcon(), func() { a.editor.DeleteSelected() }),
	)
}

func (a *App) entityPanel(entity any) fyne.CanvasObject {
	var body fyne.CanvasObject
	switch e := entity.(type) {
	case model.Room:
		body = a.roomPanel(e)
	case model.Door:
		body = a.doorPanel(e)
	case model.Window:
		body = a.windowPanel(e)
	case model.Furniture:
		body = a.furniturePanel(e)
	}
	return container.NewVBox(body,
		widget.NewSeparator(),
		container.NewGridWithColumns(2,
			widget.NewButtonWithIcon("Rotate", theme.ViewRefreshIcon(), func() { a.editor.RotateSelected() }),
			widget.NewButtonWithIcon("Delete", theme.DeleteIcon(), func() { a.editor.DeleteSelected() }),
		),
	)
}

func (a *App) roomPanel(r model.Room) fyne.CanvasObject {
	name := widget.NewEntry()
	name.SetText(r.Name)
	desc := widget.NewEntry()
	desc.SetText(r.Description)
	color := widget.NewEntry()
	color.SetText(r.Color)
	typ := enumSelect(roomTypeNames(), string(r.Type), nil)

	b := geometry.BoundsOf(r.Vertices)
	w, h := units.PixelsToFeet(b.Width()), units.PixelsToFeet(b.Height())
	items := []*widget.FormItem{
		widget.NewFormItem("Type", typ),
		widget.NewFormItem("Name", name),
		widget.NewFormItem("Description", desc),
		widget.NewFormItem("Color", color),
	}
	if r.IsRect() {
		items = append(items,
			widget.NewFormItem("Width (ft)", floatEntry(&w)),
			widget.NewFormItem("Depth (ft)", floatEntry(&h)))
	} else {
		items = append(items, widget.NewFormItem("Vertices", widget.NewLabel(fmt.Sprintf("%d", len(r.Vertices)))))
	}

	apply := widget.NewButton("Apply", func() {
		r.Type = model.RoomType(typ.Selected)
		r.Name = name.Text
		r.Description = desc.Text
		r.Color = color.Text
		a.editor.UpdateRoom(r)
		if r.IsRect() && (w != units.PixelsToFeet(b.Width()) || h != units.PixelsToFeet(b.Height())) {
			a.editor.ResizeRoom(r.ID, w, h)
		}
	})
	return container.NewVBox(
		heading(fmt.Sprintf("Room - %d sq ft", r.Area)),
		widget.NewForm(items...),
		apply,
	)
}

func (a *App) doorPanel(d model.Door) fyne.CanvasObject {
	typ := enumSelect(doorTypeNames, string(d.Type), nil)
	width := d.Width
	return container.NewVBox(
		heading("Door"),
		widget.NewForm(
			widget.NewFormItem("Type", typ),
			widget.NewFormItem("Width (ft)", floatEntry(&width)),
			widget.NewFormItem("Rotation", widget.NewLabel(fmt.Sprintf("%.0f°", d.Rotation))),
		),
		widget.NewButton("Apply", func() {
			d.Type = model.DoorType(typ.Selected)
			d.Width = width
			a.editor.UpdateDoor(d)
		}),
	)
}

func (a *App) windowPanel(w model.Window) fyne.CanvasObject {
	typ := enumSelect(windowTypeNames, string(w.Type), nil)
	width, height := w.Width, w.Height
	return container.NewVBox(
		heading("Window"),
		widget.NewForm(
			widget.NewFormItem("Type", typ),
			widget.NewFormItem("Width (ft)", floatEntry(&width)),
			widget.NewFormItem("Height (ft)", floatEntry(&height)),
			widget.NewFormItem("Rotation", widget.NewLabel(fmt.Sprintf("%.0f°", w.Rotation))),
		),
		widget.NewButton("Apply", func() {
			w.Type = model.WindowType(typ.Selected)
			w.Width, w.Height = width, height
			a.editor.UpdateWindow(w)
		}),
	)
}

func (a *App) furniturePanel(f model.Furniture) fyne.CanvasObject {
	label := string(f.Type)
	if it, ok := model.LookupFurniture(f.Type); ok {
		label = it.Label
	}
	width, height := f.Width, f.Height
	return container.NewVBox(
		heading(label),
		widget.NewForm(
			widget.NewFormItem("Width (ft)", floatEntry(&width)),
			widget.NewFormItem("Depth (ft)", floatEntry(&height)),
			widget.NewFormItem("Rotation", widget.NewLabel(fmt.Sprintf("%.0f°", f.Rotation))),
		),
		widget.NewButton("Apply", func() {
			f.Width, f.Height = width, height
			a.editor.UpdateFurniture(f)
		}),
	)
}
