package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/piwi3910/ADUPlanner/internal/model"
)

// State is what an auto-save captures.
type State struct {
	Scene model.Scene
	View  *model.ViewSettings
	Lot   *model.Lot
}

// AutoSaver writes an auto snapshot on a fixed interval, skipping runs
// where the scene has not changed since the last auto-save.
type AutoSaver struct {
	bridge  *Bridge
	capture func() State
	log     logrus.FieldLogger

	cron *cron.Cron

	mu       sync.Mutex
	lastHash []byte
}

// NewAutoSaver schedules saves every interval minutes. capture must be
// safe to call from the scheduler goroutine.
func NewAutoSaver(bridge *Bridge, intervalMinutes int, capture func() State, log logrus.FieldLogger) (*AutoSaver, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	a := &AutoSaver{
		bridge:  bridge,
		capture: capture,
		log:     log,
		cron:    cron.New(),
	}
	if intervalMinutes > 0 {
		schedule := fmt.Sprintf("@every %dm", intervalMinutes)
		if _, err := a.cron.AddFunc(schedule, func() { a.RunOnce(context.Background()) }); err != nil {
			return nil, fmt.Errorf("scheduling auto-save: %w", err)
		}
	}
	return a, nil
}

// Start begins the schedule.
func (a *AutoSaver) Start() { a.cron.Start() }

// Stop halts the schedule and waits for a running save to finish.
func (a *AutoSaver) Stop() {
	<-a.cron.Stop().Done()
}

// MarkSaved records scene as already saved, e.g. right after a restore.
func (a *AutoSaver) MarkSaved(scene model.Scene) {
	key, err := json.Marshal(scene)
	if err != nil {
		return
	}
	a.mu.Lock()
	a.lastHash = key
	a.mu.Unlock()
}

// RunOnce performs one auto-save. Returns true if a snapshot was written.
func (a *AutoSaver) RunOnce(ctx context.Context) bool {
	st := a.capture()
	key, err := json.Marshal(st.Scene)
	if err != nil {
		a.log.WithError(err).Warn("auto-save: scene not serializable")
		return false
	}
	a.mu.Lock()
	unchanged := bytes.Equal(key, a.lastHash)
	a.mu.Unlock()
	if unchanged {
		return false
	}

	label := "Auto-save " + time.Now().Format("Jan 2 15:04")
	if _, err := a.bridge.Create(ctx, KindAuto, label, st.Scene, st.View, st.Lot); err != nil {
		a.log.WithError(err).Warn("auto-save failed")
		return false
	}
	a.mu.Lock()
	a.lastHash = key
	a.mu.Unlock()
	a.log.Debug("auto-save written")
	return true
}
