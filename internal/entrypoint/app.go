package entrypoint

import (
	"fmt"
	"log"

	"github.com/mrlokans/h2o/internal/calibre"
	"github.com/mrlokans/h2o/internal/config"
	"github.com/mrlokans/h2o/internal/database"
	"github.com/mrlokans/h2o/internal/database/history"
	"github.com/mrlokans/h2o/internal/database/settings"
	"github.com/mrlokans/h2o/internal/obsidian"
	"github.com/mrlokans/h2o/internal/sender"
	"github.com/mrlokans/h2o/internal/settingsstore"
)

// App holds the components shared by the server and the CLI commands.
type App struct {
	DB       *database.Database
	Settings *settingsstore.SettingsStore
	History  *history.Repository
}

// NewApp opens the app database. The caller closes the app.
func NewApp(cfg *config.Config) (*App, error) {
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &App{
		DB:       db,
		Settings: settingsstore.New(settings.NewRepository(db.DB), cfg.Preferences.Overrides()),
		History:  history.NewRepository(db.DB),
	}, nil
}

// NewSender creates a send service reading from source and delivering
// through launcher.
func (a *App) NewSender(source calibre.Source, launcher obsidian.Launcher) *sender.Service {
	return sender.NewService(source, a.Settings, a.History, launcher)
}

func (a *App) Close() {
	if err := a.DB.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
}

// NewLauncher returns the note launcher for the configured delivery mode.
func NewLauncher(cfg config.Obsidian) (obsidian.Launcher, error) {
	switch cfg.DeliveryMode {
	case config.DeliveryModeURI, "":
		return obsidian.NewSystemLauncher(cfg.MaxURILength), nil
	case config.DeliveryModeFile:
		if cfg.VaultDir == "" {
			return nil, fmt.Errorf("file delivery needs OBSIDIAN_VAULT_DIR")
		}
		return obsidian.NewVaultWriter(cfg.VaultDir), nil
	default:
		return nil, fmt.Errorf("unknown delivery mode %q", cfg.DeliveryMode)
	}
}

// NewLibrarySource opens the configured calibre library.
func NewLibrarySource(cfg config.Calibre) (calibre.Source, error) {
	library, err := calibre.NewLibrary(cfg.LibraryPath)
	if err != nil {
		return nil, err
	}
	log.Printf("Calibre: reading library at %s", library.Path())
	return library, nil
}
