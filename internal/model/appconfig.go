package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Editing defaults
	FurnitureSnap  string  `json:"furniture_snap"` // "full", "half", "free"
	DefaultADUArea float64 `json:"default_adu_area"`
	HistoryDepth   int     `json:"history_depth"`

	// Saved snapshots
	AutoSaveInterval   int `json:"auto_save_interval"` // minutes, 0 = disabled
	MaxAutoSnapshots   int `json:"max_auto_snapshots"`
	MaxManualSnapshots int `json:"max_manual_snapshots"`

	// Satellite overlay
	TileURLTemplate string `json:"tile_url_template"`
	SatelliteZoom   int    `json:"satellite_zoom"`

	// Storage
	DatabasePath string `json:"database_path"` // empty = <config dir>/aduplanner.db

	// Application preferences
	RecentProjects []string `json:"recent_projects"`
	Theme          string   `json:"theme"` // "light", "dark", "system"
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		FurnitureSnap:      "half",
		DefaultADUArea:     DefaultADUArea,
		HistoryDepth:       50,
		AutoSaveInterval:   10,
		MaxAutoSnapshots:   10,
		MaxManualSnapshots: 20,
		TileURLTemplate:    "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
		SatelliteZoom:      19,
		RecentProjects:     []string{},
		Theme:              "system",
	}
}

// Normalize replaces zero or out-of-range values with defaults so a
// partially written config file still yields a usable configuration.
func (c AppConfig) Normalize() AppConfig {
	d := DefaultAppConfig()
	if c.FurnitureSnap == "" {
		c.FurnitureSnap = d.FurnitureSnap
	}
	if c.DefaultADUArea <= 0 {
		c.DefaultADUArea = d.DefaultADUArea
	}
	if c.HistoryDepth <= 0 {
		c.HistoryDepth = d.HistoryDepth
	}
	if c.AutoSaveInterval < 0 {
		c.AutoSaveInterval = 0
	}
	if c.MaxAutoSnapshots <= 0 {
		c.MaxAutoSnapshots = d.MaxAutoSnapshots
	}
	if c.MaxManualSnapshots <= 0 {
		c.MaxManualSnapshots = d.MaxManualSnapshots
	}
	if c.TileURLTemplate == "" {
		c.TileURLTemplate = d.TileURLTemplate
	}
	if c.SatelliteZoom <= 0 || c.SatelliteZoom > 22 {
		c.SatelliteZoom = d.SatelliteZoom
	}
	if c.RecentProjects == nil {
		c.RecentProjects = []string{}
	}
	if c.Theme == "" {
		c.Theme = d.Theme
	}
	return c
}

// maxRecentProjects bounds the recent-projects menu.
const maxRecentProjects = 10

// AddRecentProject moves path to the front of the recent list.
func (c *AppConfig) AddRecentProject(path string) {
	recent := []string{path}
	for _, p := range c.RecentProjects {
		if p != path && len(recent) < maxRecentProjects {
			recent = append(recent, p)
		}
	}
	c.RecentProjects = recent
}
