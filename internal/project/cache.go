package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/piwi3910/ADUPlanner/internal/snapshot"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// SnapshotCache is a snapshot.Cache keeping one JSON file per project.
type SnapshotCache struct {
	dir string
}

// NewSnapshotCache stores files under dir.
func NewSnapshotCache(dir string) *SnapshotCache {
	return &SnapshotCache{dir: dir}
}

// DefaultSnapshotDir returns ~/.aduplanner/snapshots.
func DefaultSnapshotDir() string {
	return filepath.Join(DefaultConfigDir(), "snapshots")
}

func (c *SnapshotCache) path(projectID string) string {
	return filepath.Join(c.dir, unsafeName.ReplaceAllString(projectID, "_")+".json")
}

// Load returns the cached list of projectID, empty if nothing is cached.
func (c *SnapshotCache) Load(projectID string) ([]snapshot.Record, error) {
	data, err := os.ReadFile(c.path(projectID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var recs []snapshot.Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("parsing snapshot cache: %w", err)
	}
	return recs, nil
}

// Store replaces the cached list of projectID.
func (c *SnapshotCache) Store(projectID string, recs []snapshot.Record) error {
	if recs == nil {
		recs = []snapshot.Record{}
	}
	return writeJSON(c.path(projectID), recs)
}
