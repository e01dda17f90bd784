package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/ADUPlanner/internal/model"
)

func TestExportAndImportAllData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")

	cfg := model.DefaultAppConfig()
	cfg.HistoryDepth = 80
	cfg.Theme = "dark"
	templates := model.NewTemplateStore()
	templates.Add(model.NewPlanTemplate("Empty", "", model.NewScene()))
	view := model.DefaultViewSettings()
	view.Zoom = 2
	views := map[string]model.ViewSettings{"p1": view}

	require.NoError(t, ExportAllData(path, cfg, templates, views))

	backup, err := ImportAllData(path)
	require.NoError(t, err)
	assert.Equal(t, backupVersion, backup.Version)
	assert.NotEmpty(t, backup.CreatedAt)
	assert.Equal(t, 80, backup.Config.HistoryDepth)
	assert.Equal(t, "dark", backup.Config.Theme)
	assert.Equal(t, []string{"Empty"}, backup.Templates.Names())
	assert.Equal(t, 2.0, backup.Views["p1"].Zoom)
}

func TestImportAllDataMissingFile(t *testing.T) {
	_, err := ImportAllData(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestImportAllDataInvalid(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"bad.json":       "{not json}",
		"noversion.json": `{"config":{}}`,
		"badview.json":   `{"version":"1.0.0","views":{"p1":{"zoom":0}}}`,
	}
	for name, body := range cases {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
		_, err := ImportAllData(path)
		assert.Error(t, err, name)
	}
}

func TestImportAllDataFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":"1.0.0","config":{"theme":"light"}}`), 0644))

	backup, err := ImportAllData(path)
	require.NoError(t, err)
	assert.Equal(t, "light", backup.Config.Theme)
	assert.Equal(t, model.DefaultAppConfig().HistoryDepth, backup.Config.HistoryDepth)
	assert.NotNil(t, backup.Templates.Templates)
}
