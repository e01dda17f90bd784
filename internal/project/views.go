package project

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/piwi3910/ADUPlanner/internal/model"
)

// ViewStore keeps per-project view settings in one JSON file.
type ViewStore struct {
	path string

	mu    sync.Mutex
	views map[string]model.ViewSettings
}

// OpenViewStore loads the store at path. A missing file yields an empty store.
func OpenViewStore(path string) (*ViewStore, error) {
	vs := &ViewStore{path: path, views: make(map[string]model.ViewSettings)}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return vs, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, &vs.views); err != nil {
		return nil, fmt.Errorf("parsing view settings: %w", err)
	}
	if vs.views == nil {
		vs.views = make(map[string]model.ViewSettings)
	}
	return vs, nil
}

// Get returns the settings of projectID, or the defaults when none are stored.
func (vs *ViewStore) Get(projectID string) model.ViewSettings {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	if v, ok := vs.views[projectID]; ok {
		return v
	}
	return model.DefaultViewSettings()
}

// Set stores and persists the settings of projectID.
func (vs *ViewStore) Set(projectID string, v model.ViewSettings) error {
	if err := v.Validate(); err != nil {
		return err
	}
	vs.mu.Lock()
	defer vs.mu.Unlock()
	vs.views[projectID] = v
	return writeJSON(vs.path, vs.views)
}

// All returns a copy of every stored entry.
func (vs *ViewStore) All() map[string]model.ViewSettings {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	out := make(map[string]model.ViewSettings, len(vs.views))
	for k, v := range vs.views {
		out[k] = v
	}
	return out
}
