// ADUPlanner - Accessory Dwelling Unit Floor-Plan Editor
//
// A cross-platform desktop application for laying out rooms, doors,
// windows and furniture inside an ADU footprint, placing it on a lot
// and exporting drawings and schedules.
//
// Build:
//   go build -o aduplanner ./cmd/aduplanner
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o aduplanner.exe ./cmd/aduplanner
//   GOOS=darwin  GOARCH=amd64 go build -o aduplanner-darwin ./cmd/aduplanner
//
// Using fyne-cross (recommended for proper packaging):
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64
//
// Logging goes to stderr; set LOG_LEVEL=debug for more detail.

package main

import (
	"context"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/piwi3910/ADUPlanner/internal/geo"
	"github.com/piwi3910/ADUPlanner/internal/logging"
	"github.com/piwi3910/ADUPlanner/internal/model"
	"github.com/piwi3910/ADUPlanner/internal/project"
	"github.com/piwi3910/ADUPlanner/internal/store"
	"github.com/piwi3910/ADUPlanner/internal/ui"
)

// tileRequestsPerSecond keeps satellite fetches within public tile server
// usage policies.
const tileRequestsPerSecond = 2

func main() {
	logging.Init("ADUPlanner")
	log := logging.For("main")

	configPath := project.DefaultConfigPath()
	cfg, err := project.LoadAppConfig(configPath)
	if err != nil {
		log.WithError(err).Error("loading config failed, using defaults")
		cfg = model.DefaultAppConfig()
	}

	opts := ui.Options{
		Config:     cfg,
		ConfigPath: configPath,
		Cache:      project.NewSnapshotCache(project.DefaultSnapshotDir()),
		Tiles:      geo.NewHTTPTileLoader(cfg.TileURLTemplate, tileRequestsPerSecond),
		Logger:     logging.For("ui"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := store.Open(ctx, project.DatabasePath(cfg))
	cancel()
	if err != nil {
		log.WithError(err).Error("opening snapshot database failed, snapshots stay local")
	} else {
		defer db.Close()
		opts.Remote = db
	}

	views, err := project.OpenViewStore(filepath.Join(project.DefaultConfigDir(), "views.json"))
	if err != nil {
		log.WithError(err).Warn("opening view settings failed, views will not persist")
	} else {
		opts.Views = views
	}

	application := app.NewWithID("com.piwi3910.aduplanner")
	window := application.NewWindow("ADU Planner")

	appUI := ui.NewApp(application, window, opts)
	appUI.SetupMenus()
	window.SetContent(appUI.Build())
	window.Resize(fyne.NewSize(1400, 800))
	window.CenterOnScreen()
	window.SetCloseIntercept(func() {
		appUI.Close()
		window.Close()
	})

	log.Info("starting")
	window.ShowAndRun()
}
