// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Highlight Sources
//
//   - calibre.Source: a snapshot of highlight records and book metadata.
//     calibre.Library reads a library's metadata.db read-only;
//     calibre.Collection reads an exported annotation collection file.
//
// ## Delivery
//
//   - obsidian.Launcher: delivers one note payload. SystemLauncher opens
//     obsidian:// URIs, VaultWriter writes into the vault directory,
//     Recorder keeps payloads in memory for tests and previews.
//
// ## Data Access Interfaces
//
//   - settingsstore.Repository: key-value preference rows (internal/database/settings)
//   - sender.PreferenceStore, http.PreferenceStore, cli.SettingsStore:
//     resolved preferences (internal/settingsstore)
//   - sender.HistoryRecorder, http.HistoryStore, cli.HistoryStore:
//     send history (internal/database/history)
//
// ## Send Actions
//
//   - http.SendService, scheduler.NewHighlightSender: implemented by sender.Service
//   - http.Scheduler: implemented by scheduler.AutoSendScheduler
//
// # Adding a New Highlight Source
//
// To read highlights from somewhere else (e.g., a calibre content server):
//
//  1. Implement Source in internal/calibre/
//
//     type ContentServer struct {
//         baseURL string
//     }
//
//     func (s *ContentServer) Load() (*Snapshot, error)
//
//     var _ Source = (*ContentServer)(nil)
//
//  2. Select it in entrypoint.NewLibrarySource
//
// # Adding a New Delivery Mode
//
//  1. Implement Launcher in internal/obsidian/
//
//     func (l *RESTLauncher) Launch(p Payload) error
//
//  2. Add a config.DeliveryMode and select it in entrypoint.NewLauncher
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// This pattern is used throughout the codebase. See checks.go for examples.
package interfaces
