package config

const (
	// DefaultDatabasePath is the default path for the preferences and send history database
	DefaultDatabasePath = "./h2o.db"

	// DefaultEnvFile is loaded into the environment when present
	DefaultEnvFile = ".env"
)
