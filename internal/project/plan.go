package project

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/piwi3910/ADUPlanner/internal/model"
)

// PlanFileExt is the extension of saved plan files.
const PlanFileExt = ".adu"

// PlanFile is the on-disk form of one project.
type PlanFile struct {
	Version   string             `json:"version"`
	ProjectID string             `json:"project_id"`
	Name      string             `json:"name"`
	Scene     model.Scene        `json:"scene"`
	Lot       *model.Lot         `json:"lot,omitempty"`
	View      model.ViewSettings `json:"view"`
}

const planVersion = "1"

// SavePlan writes a plan file.
func SavePlan(path string, plan PlanFile) error {
	plan.Version = planVersion
	if err := plan.Scene.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid plan: %w", err)
	}
	return writeJSON(path, plan)
}

// LoadPlan reads and validates a plan file.
func LoadPlan(path string) (PlanFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return PlanFile{}, fmt.Errorf("failed to read plan: %w", err)
	}
	var plan PlanFile
	if err := json.Unmarshal(data, &plan); err != nil {
		return PlanFile{}, fmt.Errorf("failed to parse plan: %w", err)
	}
	if plan.Version == "" {
		return PlanFile{}, fmt.Errorf("invalid plan file: missing version field")
	}
	plan.Scene.Recompute()
	if err := plan.Scene.Validate(); err != nil {
		return PlanFile{}, fmt.Errorf("invalid plan file: %w", err)
	}
	if plan.Lot != nil {
		if err := plan.Lot.Validate(); err != nil {
			return PlanFile{}, fmt.Errorf("invalid plan file: %w", err)
		}
	}
	if plan.View.Zoom <= 0 {
		plan.View = model.DefaultViewSettings()
	}
	return plan, nil
}
