package model

import (
	"math"

	"github.com/google/uuid"

	"github.com/piwi3910/ADUPlanner/internal/geometry"
	"github.com/piwi3910/ADUPlanner/internal/units"
)

// newID returns a short random identifier for a scene entity.
func newID() string {
	return uuid.New().String()[:8]
}

// RoomType is the semantic category of a room.
type RoomType string

const (
	RoomBedroom  RoomType = "bedroom"
	RoomBathroom RoomType = "bathroom"
	RoomKitchen  RoomType = "kitchen"
	RoomLiving   RoomType = "living"
	RoomDining   RoomType = "dining"
	RoomCloset   RoomType = "closet"
	RoomLaundry  RoomType = "laundry"
	RoomOffice   RoomType = "office"
	RoomOther    RoomType = "other"
)

// RoomTypes lists every room category in menu order.
var RoomTypes = []RoomType{
	RoomBedroom, RoomBathroom, RoomKitchen, RoomLiving, RoomDining,
	RoomCloset, RoomLaundry, RoomOffice, RoomOther,
}

// roomColors is the default fill per room type.
var roomColors = map[RoomType]string{
	RoomBedroom:  "#bbdefb",
	RoomBathroom: "#b2ebf2",
	RoomKitchen:  "#ffe0b2",
	RoomLiving:   "#c8e6c9",
	RoomDining:   "#fff9c4",
	RoomCloset:   "#d7ccc8",
	RoomLaundry:  "#e1bee7",
	RoomOffice:   "#f8bbd0",
	RoomOther:    "#eeeeee",
}

// DefaultRoomColor returns the fill color used for new rooms of type t.
func DefaultRoomColor(t RoomType) string {
	if c, ok := roomColors[t]; ok {
		return c
	}
	return roomColors[RoomOther]
}

// Room is a polygonal space on the canvas. Vertices are canvas pixels;
// four vertices mean an axis-aligned rectangle ordered TL, TR, BR, BL.
type Room struct {
	ID          string           `json:"id" validate:"required"`
	Type        RoomType         `json:"type" validate:"required"`
	Name        string           `json:"name"`
	Vertices    []geometry.Point `json:"vertices" validate:"min=3"`
	Area        int              `json:"area"` // sq ft, rounded
	Color       string           `json:"color"`
	Description string           `json:"description,omitempty"` // only used when Type is "other"
}

// IsRect reports whether the room is handled as a rectangle.
func (r Room) IsRect() bool {
	return len(r.Vertices) == 4
}

// ComputeArea returns the polygon area in whole square feet.
func (r Room) ComputeArea() int {
	return units.RoundSqFeet(geometry.PolygonArea(r.Vertices))
}

// Bounds returns the room's bounding box.
func (r Room) Bounds() geometry.Bounds {
	return geometry.BoundsOf(r.Vertices)
}

// LabelPoint returns where the room name should be drawn.
func (r Room) LabelPoint() geometry.Point {
	return geometry.BestInteriorLabelPoint(r.Vertices)
}

// RectVertices returns the TL, TR, BR, BL corners of a w x h ft rectangle
// whose top-left corner is origin.
func RectVertices(origin geometry.Point, wFt, hFt float64) []geometry.Point {
	w := units.FeetToPixels(wFt)
	h := units.FeetToPixels(hFt)
	return geometry.RectBounds(origin, geometry.Point{X: origin.X + w, Y: origin.Y + h}).Corners()
}

// DoorType is the kind of door.
type DoorType string

const (
	DoorSingle  DoorType = "single"
	DoorDouble  DoorType = "double"
	DoorSliding DoorType = "sliding"
	DoorFrench  DoorType = "french"
	DoorOpening DoorType = "opening" // cased opening without a leaf
)

// DefaultDoorWidth returns the nominal width in feet for a door type.
func DefaultDoorWidth(t DoorType) float64 {
	switch t {
	case DoorDouble, DoorSliding:
		return 6
	case DoorFrench:
		return 5
	default:
		return 3
	}
}

// WindowType is the kind of window.
type WindowType string

const (
	WindowStandard WindowType = "standard"
	WindowBay      WindowType = "bay"
	WindowPicture  WindowType = "picture"
	WindowSliding  WindowType = "sliding"
)

// DefaultWindowSize returns the nominal width and height in feet.
func DefaultWindowSize(t WindowType) (w, h float64) {
	switch t {
	case WindowBay:
		return 6, 4
	case WindowPicture:
		return 5, 5
	case WindowSliding:
		return 5, 4
	default:
		return 3, 4
	}
}

// OpeningDepth is the drawn wall thickness of a door or window, in pixels.
const OpeningDepth = units.HalfGrid

// Door is placed on a wall by its center point.
type Door struct {
	ID       string         `json:"id" validate:"required"`
	Type     DoorType       `json:"type" validate:"required"`
	Position geometry.Point `json:"position"`
	Rotation float64        `json:"rotation"`             // degrees
	Width    float64        `json:"width" validate:"gt=0"` // ft
}

// Opening projects the door for wall cutting.
func (d Door) Opening() geometry.Opening {
	return geometry.Opening{
		ID:       d.ID,
		Kind:     geometry.OpeningDoor,
		Center:   d.Position,
		Width:    units.FeetToPixels(d.Width),
		Rotation: d.Rotation,
	}
}

// Bounds returns the door's footprint box.
func (d Door) Bounds() geometry.Bounds {
	return openingBounds(d.Position, d.Width, d.Rotation)
}

// Window is placed on a wall by its center point.
type Window struct {
	ID       string         `json:"id" validate:"required"`
	Type     WindowType     `json:"type" validate:"required"`
	Position geometry.Point `json:"position"`
	Rotation float64        `json:"rotation"`
	Width    float64        `json:"width" validate:"gt=0"`  // ft
	Height   float64        `json:"height" validate:"gte=0"` // ft, elevation only
}

// Opening projects the window for wall cutting.
func (w Window) Opening() geometry.Opening {
	return geometry.Opening{
		ID:       w.ID,
		Kind:     geometry.OpeningWindow,
		Center:   w.Position,
		Width:    units.FeetToPixels(w.Width),
		Rotation: w.Rotation,
	}
}

// Bounds returns the window's footprint box.
func (w Window) Bounds() geometry.Bounds {
	return openingBounds(w.Position, w.Width, w.Rotation)
}

func openingBounds(center geometry.Point, widthFt, rotation float64) geometry.Bounds {
	w := units.FeetToPixels(widthFt)
	if quarterTurned(rotation) {
		return geometry.CenteredBounds(center, OpeningDepth, w)
	}
	return geometry.CenteredBounds(center, w, OpeningDepth)
}

// quarterTurned reports whether a rotation is closer to 90/270 than to 0/180.
func quarterTurned(rotation float64) bool {
	r := math.Mod(geometry.NormalizeDegrees(rotation), 180)
	return r > 45 && r < 135
}

// Furniture is a catalog item placed by its center point.
type Furniture struct {
	ID       string         `json:"id" validate:"required"`
	Type     FurnitureType  `json:"type" validate:"required"`
	Position geometry.Point `json:"position"`
	Rotation float64        `json:"rotation"`               // 0, 90, 180 or 270
	Width    float64        `json:"width" validate:"gt=0"`  // ft, nominal
	Height   float64        `json:"height" validate:"gt=0"` // ft, nominal
}

// Footprint returns the rotated width and height in pixels.
func (f Furniture) Footprint() (w, h float64) {
	w = units.FeetToPixels(f.Width)
	h = units.FeetToPixels(f.Height)
	if quarterTurned(f.Rotation) {
		return h, w
	}
	return w, h
}

// Bounds returns the furniture's footprint box.
func (f Furniture) Bounds() geometry.Bounds {
	w, h := f.Footprint()
	return geometry.CenteredBounds(f.Position, w, h)
}

// Boundary is the buildable ADU footprint.
type Boundary struct {
	Vertices []geometry.Point `json:"vertices" validate:"min=3"`
	Area     int              `json:"area"` // sq ft
}

// Scene is the editable floor plan.
type Scene struct {
	Rooms     []Room      `json:"rooms" validate:"dive"`
	Doors     []Door      `json:"doors" validate:"dive"`
	Windows   []Window    `json:"windows" validate:"dive"`
	Furniture []Furniture `json:"furniture" validate:"dive"`
	Boundary  Boundary    `json:"adu_boundary"`
}

// DefaultADUArea is the footprint, in square feet, of a new project.
const DefaultADUArea = 600.0

// NewScene returns an empty scene with a default square boundary centered
// on the canvas.
func NewScene() Scene {
	s := Scene{
		Rooms:     []Room{},
		Doors:     []Door{},
		Windows:   []Window{},
		Furniture: []Furniture{},
	}
	s.SetBoundaryArea(DefaultADUArea)
	return s
}

// Clone returns a deep copy of the scene.
func (s Scene) Clone() Scene {
	return Scene{
		Rooms:     copyRooms(s.Rooms),
		Doors:     append([]Door{}, s.Doors...),
		Windows:   append([]Window{}, s.Windows...),
		Furniture: append([]Furniture{}, s.Furniture...),
		Boundary: Boundary{
			Vertices: copyPoints(s.Boundary.Vertices),
			Area:     s.Boundary.Area,
		},
	}
}

func copyPoints(pts []geometry.Point) []geometry.Point {
	if pts == nil {
		return nil
	}
	cp := make([]geometry.Point, len(pts))
	copy(cp, pts)
	return cp
}

// copyRooms deep copies rooms including their vertex slices.
func copyRooms(rooms []Room) []Room {
	cp := make([]Room, len(rooms))
	for i, r := range rooms {
		cp[i] = r
		cp[i].Vertices = copyPoints(r.Vertices)
	}
	return cp
}

// Openings returns every door and window projected for wall cutting.
func (s Scene) Openings() []geometry.Opening {
	out := make([]geometry.Opening, 0, len(s.Doors)+len(s.Windows))
	for _, d := range s.Doors {
		out = append(out, d.Opening())
	}
	for _, w := range s.Windows {
		out = append(out, w.Opening())
	}
	return out
}

// TotalRoomArea sums the area of every room in square feet.
func (s Scene) TotalRoomArea() int {
	total := 0
	for _, r := range s.Rooms {
		total += r.Area
	}
	return total
}
