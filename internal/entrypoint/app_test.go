package entrypoint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/h2o/internal/calibre"
	"github.com/mrlokans/h2o/internal/config"
	"github.com/mrlokans/h2o/internal/entities"
	"github.com/mrlokans/h2o/internal/obsidian"
	"github.com/mrlokans/h2o/internal/sender"
)

func TestNewLauncher(t *testing.T) {
	t.Run("uri mode opens obsidian URIs", func(t *testing.T) {
		launcher, err := NewLauncher(config.Obsidian{DeliveryMode: config.DeliveryModeURI, MaxURILength: 100})
		require.NoError(t, err)

		systemLauncher, ok := launcher.(*obsidian.SystemLauncher)
		require.True(t, ok)
		assert.Equal(t, 100, systemLauncher.MaxURILength)
	})

	t.Run("file mode writes into the vault", func(t *testing.T) {
		dir := t.TempDir()
		launcher, err := NewLauncher(config.Obsidian{DeliveryMode: config.DeliveryModeFile, VaultDir: dir})
		require.NoError(t, err)

		writer, ok := launcher.(*obsidian.VaultWriter)
		require.True(t, ok)
		assert.Equal(t, dir, writer.VaultDir)
	})

	t.Run("file mode needs a vault dir", func(t *testing.T) {
		_, err := NewLauncher(config.Obsidian{DeliveryMode: config.DeliveryModeFile})
		assert.Error(t, err)
	})

	t.Run("unknown mode", func(t *testing.T) {
		_, err := NewLauncher(config.Obsidian{DeliveryMode: "fax"})
		assert.Error(t, err)
	})
}

func TestNewLibrarySource_Missing(t *testing.T) {
	_, err := NewLibrarySource(config.Calibre{LibraryPath: t.TempDir()})
	assert.Error(t, err)
}

const testCollection = `{"type": "calibre_annotation_collection", "annotations": [
	{"type": "highlight", "uuid": "u1", "highlighted_text": "First", "timestamp": "2024-01-02T10:00:00.000Z", "spine_index": 0, "start_cfi": "/2/4:10"},
	{"type": "highlight", "uuid": "u2", "highlighted_text": "Second", "timestamp": "2024-01-02T11:00:00.000Z", "spine_index": 1, "start_cfi": "/2/2:0"}
]}`

func TestApp_SendsThroughVaultWriter(t *testing.T) {
	dir := t.TempDir()
	vaultDir := filepath.Join(dir, "vault")
	require.NoError(t, os.Mkdir(vaultDir, 0o755))

	collectionPath := filepath.Join(dir, "book.calibre_annotation_collection")
	require.NoError(t, os.WriteFile(collectionPath, []byte(testCollection), 0o644))

	cfg := config.NewConfig()
	cfg.Database.Path = filepath.Join(dir, "h2o.db")
	cfg.Obsidian.DeliveryMode = config.DeliveryModeFile
	cfg.Obsidian.VaultDir = vaultDir
	cfg.Preferences.VaultName = "Test Vault"

	app, err := NewApp(cfg)
	require.NoError(t, err)
	defer app.Close()

	launcher, err := NewLauncher(cfg.Obsidian)
	require.NoError(t, err)

	source := &calibre.Collection{
		Path:   collectionPath,
		BookID: 7,
		Format: "EPUB",
		Book:   entities.BookInfo{Title: "Dune", Authors: "Frank Herbert"},
	}
	result, err := app.NewSender(source, launcher).SendAll(sender.TriggerCLI)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Highlights)
	assert.Equal(t, 1, result.Delivered)

	content, err := os.ReadFile(filepath.Join(vaultDir, "Books", "Dune by Frank Herbert.md"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "> First")
	assert.Contains(t, string(content), "> Second")

	prefs, err := app.Settings.Preferences()
	require.NoError(t, err)
	assert.Equal(t, "Test Vault", prefs.VaultName)
	assert.NotEqual(t, "1970-01-03 00:00:00", prefs.LastSendTime)

	events, total, err := app.History.GetEvents(10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, entities.SendActionAll, events[0].Action)
}
