package export

import (
	"encoding/json"
	"os"

	"github.com/piwi3910/ADUPlanner/internal/model"
)

// ExportJSON writes the projection as indented JSON.
func ExportJSON(path string, exp model.Export) error {
	data, err := json.MarshalIndent(exp, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
