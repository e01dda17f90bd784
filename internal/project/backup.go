package project

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/piwi3910/ADUPlanner/internal/model"
)

// BackupData is the top-level structure for import/export of all application data.
type BackupData struct {
	Version   string                        `json:"version"`
	CreatedAt string                        `json:"created_at"`
	Config    model.AppConfig               `json:"config"`
	Templates model.TemplateStore           `json:"templates"`
	Views     map[string]model.ViewSettings `json:"views,omitempty"`
}

const backupVersion = "1.0.0"

// ExportAllData writes config, templates and view settings to a single
// JSON file at exportPath.
func ExportAllData(exportPath string, config model.AppConfig, templates model.TemplateStore, views map[string]model.ViewSettings) error {
	backup := BackupData{
		Version:   backupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    config,
		Templates: templates,
		Views:     views,
	}
	if err := writeJSON(exportPath, backup); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup JSON file and returns the contained data.
// The caller is responsible for applying it.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Version == "" {
		return BackupData{}, fmt.Errorf("invalid backup file: missing version field")
	}
	backup.Config = backup.Config.Normalize()
	if backup.Templates.Templates == nil {
		backup.Templates = model.NewTemplateStore()
	}
	for id, v := range backup.Views {
		if err := v.Validate(); err != nil {
			return BackupData{}, fmt.Errorf("invalid view settings for %s: %w", id, err)
		}
	}
	return backup, nil
}
