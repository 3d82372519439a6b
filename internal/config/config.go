package config

import (
	"errors"
	"fmt"
	"io/fs"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mrlokans/h2o/internal/entities"
	"github.com/mrlokans/h2o/internal/obsidian"
)

type DeliveryMode string

const (
	DeliveryModeURI  DeliveryMode = "uri"  // obsidian://new URIs opened by the OS (default)
	DeliveryModeFile DeliveryMode = "file" // append to markdown files in the vault directory
)

type (
	Config struct {
		HTTP
		Global
		Database
		Calibre
		Obsidian
		Preferences
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Calibre struct {
		LibraryPath string // empty selects ~/Calibre Library
	}
	Obsidian struct {
		VaultDir     string // required for file delivery
		DeliveryMode DeliveryMode
		MaxURILength int
	}

	// Preferences are environment overrides of stored preferences. Empty
	// values are unset; preferences saved in the database still win.
	Preferences struct {
		LibraryName      string
		VaultName        string
		AutoSendEnabled  string
		AutoSendSchedule string
	}
)

// Overrides returns the preference overrides that are set, keyed by
// setting key.
func (p Preferences) Overrides() map[string]string {
	overrides := make(map[string]string)
	for key, value := range map[string]string{
		entities.SettingKeyLibraryName:      p.LibraryName,
		entities.SettingKeyVaultName:        p.VaultName,
		entities.SettingKeyAutoSendEnabled:  p.AutoSendEnabled,
		entities.SettingKeyAutoSendSchedule: p.AutoSendSchedule,
	} {
		if value != "" {
			overrides[key] = value
		}
	}
	return overrides
}

func (c *Config) Validate() error {
	if err := validation.ValidateStruct(&c.HTTP,
		validation.Field(&c.HTTP.Port, validation.Required, validation.Min(int32(1)), validation.Max(int32(65535))),
	); err != nil {
		return fmt.Errorf("http: %w", err)
	}
	if err := validation.ValidateStruct(&c.Global,
		validation.Field(&c.Global.ShutdownTimeoutInSeconds, validation.Min(0)),
	); err != nil {
		return fmt.Errorf("global: %w", err)
	}
	if err := validation.ValidateStruct(&c.Database,
		validation.Field(&c.Database.Path, validation.Required),
	); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := validation.ValidateStruct(&c.Obsidian,
		validation.Field(&c.Obsidian.DeliveryMode, validation.Required, validation.In(DeliveryModeURI, DeliveryModeFile)),
		validation.Field(&c.Obsidian.VaultDir, validation.When(c.Obsidian.DeliveryMode == DeliveryModeFile, validation.Required)),
		validation.Field(&c.Obsidian.MaxURILength, validation.Required, validation.Min(1)),
	); err != nil {
		return fmt.Errorf("obsidian: %w", err)
	}
	return nil
}

// Load reads an optional .env file into the environment and builds the
// configuration from it.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := NewConfig()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("calibre_library_path", "")
	v.SetDefault("obsidian_vault_dir", "")
	v.SetDefault("delivery_mode", string(DeliveryModeURI))
	v.SetDefault("max_uri_length", obsidian.DefaultMaxURILength)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Calibre: Calibre{
			LibraryPath: v.GetString("CALIBRE_LIBRARY_PATH"),
		},
		Obsidian: Obsidian{
			VaultDir:     v.GetString("OBSIDIAN_VAULT_DIR"),
			DeliveryMode: DeliveryMode(v.GetString("DELIVERY_MODE")),
			MaxURILength: v.GetInt("MAX_URI_LENGTH"),
		},
		Preferences: Preferences{
			LibraryName:      v.GetString("CALIBRE_LIBRARY_NAME"),
			VaultName:        v.GetString("OBSIDIAN_VAULT_NAME"),
			AutoSendEnabled:  v.GetString("AUTO_SEND_ENABLED"),
			AutoSendSchedule: v.GetString("AUTO_SEND_SCHEDULE"),
		},
	}
}
