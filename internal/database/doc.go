// Package database provides the application's own sqlite database. It holds
// preferences and the send history; highlights are never copied here, they
// are always read from calibre.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── settings/        # Key-value preferences
//	└── history/         # Send history
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./h2o.db")
//
//	settingsRepo := settings.NewRepository(db.DB)
//	historyRepo := history.NewRepository(db.DB)
//
//	err = settingsRepo.SetSetting("vault_name", "Notes")
//	events, total, err := historyRepo.GetEvents(20, 0)
package database
