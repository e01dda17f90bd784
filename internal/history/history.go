// Package history keeps a bounded, in-memory undo/redo timeline of scene
// snapshots. Captures are debounced so a burst of edits becomes one entry.
package history

import (
	"bytes"
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/piwi3910/ADUPlanner/internal/model"
)

const (
	defaultMaxDepth = 50
	defaultDelay    = 300 * time.Millisecond
)

// Snapshot is the scene at a point in time.
type Snapshot struct {
	Scene model.Scene
	Label string // Human-readable description (e.g. "Add room")
}

type entry struct {
	snap Snapshot
	key  []byte // serialized scene, for duplicate detection
}

// Source returns the scene to capture. It is called with the manager's
// lock held and must not call back into the manager.
type Source func() model.Scene

// Options configures a Manager. Zero values select the defaults.
type Options struct {
	MaxDepth int
	Delay    time.Duration
	// Sync runs the debounced capture. Owners that guard the scene with
	// their own lock pass a function that takes it around fn.
	Sync   func(fn func())
	Logger logrus.FieldLogger
}

// Manager is a ring of snapshots with a cursor. Entries after the cursor
// are redo states; the cursor entry mirrors the live scene.
type Manager struct {
	mu       sync.Mutex
	entries  []entry
	index    int
	maxDepth int
	delay    time.Duration
	source   Source
	sync     func(fn func())
	log      logrus.FieldLogger

	timer    *time.Timer
	pending  bool
	label    string
	applying bool
}

// New creates a Manager capturing from source.
func New(source Source, opts Options) *Manager {
	m := &Manager{
		source:   source,
		maxDepth: opts.MaxDepth,
		delay:    opts.Delay,
		sync:     opts.Sync,
		log:      opts.Logger,
		index:    -1,
	}
	if m.maxDepth <= 0 {
		m.maxDepth = defaultMaxDepth
	}
	if m.delay <= 0 {
		m.delay = defaultDelay
	}
	if m.sync == nil {
		m.sync = func(fn func()) { fn() }
	}
	if m.log == nil {
		m.log = logrus.StandardLogger()
	}
	return m
}

// Reset drops all history and seeds it with scene as the baseline.
func (m *Manager) Reset(scene model.Scene) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelLocked()
	m.entries = nil
	m.index = -1
	m.pushLocked(Snapshot{Scene: scene.Clone(), Label: "Initial"})
}

// Record schedules a capture after the debounce delay. Each call restarts
// the delay. Calls made while a snapshot is being restored are ignored.
func (m *Manager) Record(label string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.applying {
		return
	}
	if m.timer != nil {
		m.timer.Stop()
	}
	m.pending = true
	m.label = label
	m.timer = time.AfterFunc(m.delay, func() {
		m.sync(m.Flush)
	})
}

// Flush performs a pending capture immediately.
func (m *Manager) Flush() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushLocked()
}

func (m *Manager) flushLocked() {
	if !m.pending {
		return
	}
	m.cancelLocked()
	if m.source == nil {
		return
	}
	m.pushLocked(Snapshot{Scene: m.source().Clone(), Label: m.label})
}

func (m *Manager) cancelLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.pending = false
}

// pushLocked appends s after the cursor, discarding redo states. Captures
// identical to the cursor entry are dropped.
func (m *Manager) pushLocked(s Snapshot) bool {
	key, err := json.Marshal(s.Scene)
	if err != nil {
		m.log.WithError(err).Warn("history: scene not serializable, capture skipped")
		return false
	}
	if m.index >= 0 && bytes.Equal(m.entries[m.index].key, key) {
		return false
	}
	m.entries = append(m.entries[:m.index+1], entry{snap: s, key: key})
	if len(m.entries) > m.maxDepth {
		drop := len(m.entries) - m.maxDepth
		m.entries = append(m.entries[:0], m.entries[drop:]...)
	}
	m.index = len(m.entries) - 1
	return true
}

// Undo steps the cursor back and passes the restored snapshot to apply.
// Any pending capture is flushed first so the newest edit is not lost.
func (m *Manager) Undo(apply func(Snapshot)) bool {
	return m.step(-1, apply)
}

// Redo steps the cursor forward and passes the snapshot to apply.
func (m *Manager) Redo(apply func(Snapshot)) bool {
	return m.step(1, apply)
}

func (m *Manager) step(dir int, apply func(Snapshot)) bool {
	m.mu.Lock()
	if dir < 0 {
		m.flushLocked()
	}
	next := m.index + dir
	if m.index < 0 || next < 0 || next >= len(m.entries) {
		m.mu.Unlock()
		return false
	}
	m.index = next
	snap := Snapshot{Scene: m.entries[next].snap.Scene.Clone(), Label: m.entries[next].snap.Label}
	m.applying = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.applying = false
		m.cancelLocked()
		m.mu.Unlock()
	}()
	if apply != nil {
		apply(snap)
	}
	return true
}

// CanUndo returns true if there is an earlier state to restore.
func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index > 0 || (m.pending && m.index >= 0)
}

// CanRedo returns true if there is a later state to restore.
func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index >= 0 && m.index < len(m.entries)-1
}

// Len returns the number of stored snapshots.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Current returns the label of the cursor entry.
func (m *Manager) Current() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.index < 0 {
		return ""
	}
	return m.entries[m.index].snap.Label
}

// Clear removes all undo and redo history.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelLocked()
	m.entries = nil
	m.index = -1
}
