package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/h2o/internal/calibre"
	"github.com/mrlokans/h2o/internal/cli"
	"github.com/mrlokans/h2o/internal/database/history"
	"github.com/mrlokans/h2o/internal/database/settings"
	"github.com/mrlokans/h2o/internal/http"
	"github.com/mrlokans/h2o/internal/obsidian"
	"github.com/mrlokans/h2o/internal/scheduler"
	"github.com/mrlokans/h2o/internal/sender"
	"github.com/mrlokans/h2o/internal/settingsstore"
)

// =============================================================================
// Highlight Sources
// =============================================================================

var _ calibre.Source = (*calibre.Library)(nil)
var _ calibre.Source = (*calibre.Collection)(nil)

// =============================================================================
// Delivery
// =============================================================================

var _ obsidian.Launcher = (*obsidian.SystemLauncher)(nil)
var _ obsidian.Launcher = (*obsidian.VaultWriter)(nil)
var _ obsidian.Launcher = (*obsidian.Recorder)(nil)

// =============================================================================
// Data Access Layer
// =============================================================================

// Preference storage
var _ settingsstore.Repository = (*settings.Repository)(nil)
var _ sender.PreferenceStore = (*settingsstore.SettingsStore)(nil)
var _ http.PreferenceStore = (*settingsstore.SettingsStore)(nil)
var _ cli.SettingsStore = (*settingsstore.SettingsStore)(nil)
var _ scheduler.ConfigProvider = (*settingsstore.SettingsStore)(nil)

// Send history
var _ sender.HistoryRecorder = (*history.Repository)(nil)
var _ http.HistoryStore = (*history.Repository)(nil)
var _ cli.HistoryStore = (*history.Repository)(nil)

// =============================================================================
// Send Actions
// =============================================================================

var _ http.SendService = (*sender.Service)(nil)
var _ scheduler.NewHighlightSender = (*sender.Service)(nil)
var _ http.Scheduler = (*scheduler.AutoSendScheduler)(nil)
