package model

// LatLng is a geographic coordinate in decimal degrees.
type LatLng struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" validate:"gte=-180,lte=180"`
}

// Setbacks are the required clearances from each lot line in feet.
// Front is the canvas bottom edge, back the top.
type Setbacks struct {
	Front float64 `json:"front" validate:"gte=0"`
	Back  float64 `json:"back" validate:"gte=0"`
	Left  float64 `json:"left" validate:"gte=0"`
	Right float64 `json:"right" validate:"gte=0"`
}

// Lot anchors the plan to a real-world parcel.
type Lot struct {
	ID        string   `json:"id"`
	ProjectID string   `json:"project_id"`
	Address   string   `json:"address,omitempty"`
	Lat       float64  `json:"lat" validate:"gte=-90,lte=90"`
	Lng       float64  `json:"lng" validate:"gte=-180,lte=180"`
	Rotation  float64  `json:"rotation"` // degrees
	Boundary  []LatLng `json:"boundary,omitempty" validate:"omitempty,min=3,dive"`
	WidthFt   float64  `json:"width_ft" validate:"gte=0"`
	DepthFt   float64  `json:"depth_ft" validate:"gte=0"`
	Setbacks  Setbacks `json:"setbacks"`

	ADUOffsetX  float64 `json:"adu_offset_x"` // ft from lot center
	ADUOffsetY  float64 `json:"adu_offset_y"`
	ADURotation float64 `json:"adu_rotation"` // degrees
}

// NewLot returns a lot centered at lat/lng with a fresh ID.
func NewLot(projectID string, lat, lng float64) Lot {
	return Lot{
		ID:        newID(),
		ProjectID: projectID,
		Lat:       lat,
		Lng:       lng,
	}
}

// Center returns the lot anchor.
func (l Lot) Center() LatLng {
	return LatLng{Lat: l.Lat, Lng: l.Lng}
}

// HasExplicitBoundary reports whether the lot outline comes from surveyed
// vertices instead of width and depth.
func (l Lot) HasExplicitBoundary() bool {
	return len(l.Boundary) >= 3
}

// Clone returns a deep copy of the lot.
func (l Lot) Clone() Lot {
	c := l
	if l.Boundary != nil {
		c.Boundary = append([]LatLng{}, l.Boundary...)
	}
	return c
}

// ViewSettings are per-project display preferences. They are persisted
// separately from the scene and never enter undo history.
type ViewSettings struct {
	ShowGrid       bool    `json:"show_grid"`
	ShowLot        bool    `json:"show_lot"`
	ShowSetbacks   bool    `json:"show_setbacks"`
	ShowSatellite  bool    `json:"show_satellite"`
	ShowDimensions bool    `json:"show_dimensions"`
	Zoom           float64 `json:"zoom" validate:"gt=0"`
	PanX           float64 `json:"pan_x"`
	PanY           float64 `json:"pan_y"`
}

// DefaultViewSettings returns the view of a freshly opened project.
func DefaultViewSettings() ViewSettings {
	return ViewSettings{
		ShowGrid:       true,
		ShowLot:        true,
		ShowSetbacks:   true,
		ShowDimensions: true,
		Zoom:           1,
	}
}
