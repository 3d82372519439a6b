package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/h2o/internal/database"
	"github.com/mrlokans/h2o/internal/database/settings"
	"github.com/mrlokans/h2o/internal/entities"
	"github.com/mrlokans/h2o/internal/settingsstore"
)

type fakeScheduler struct {
	reschedules int
	running     bool
	next        *time.Time
}

func (f *fakeScheduler) Reschedule() error {
	f.reschedules++
	return nil
}

func (f *fakeScheduler) IsRunning() bool            { return f.running }
func (f *fakeScheduler) GetNextRunTime() *time.Time { return f.next }

func setupSettingsRouter(t *testing.T) (*gin.Engine, *settingsstore.SettingsStore, *fakeScheduler) {
	t.Helper()

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "settings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := settingsstore.New(settings.NewRepository(db.DB), map[string]string{
		entities.SettingKeyVaultName: "Env Vault",
	})
	sched := &fakeScheduler{running: true}
	controller := NewSettingsController(store, sched)

	router := gin.New()
	router.GET("/api/settings", controller.GetSettings)
	router.PUT("/api/settings", controller.UpdateSettings)
	router.DELETE("/api/settings", controller.ResetSettings)
	return router, store, sched
}

func putSettings(router *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/api/settings", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestSettingsController_GetSettings(t *testing.T) {
	router, _, _ := setupSettingsRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/settings", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response SettingsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	sources := make(map[string]settingsstore.SettingInfo)
	for _, info := range response.Settings {
		sources[info.Key] = info
	}
	assert.Equal(t, "Env Vault", sources[entities.SettingKeyVaultName].Value)
	assert.Equal(t, settingsstore.SourceEnvironment, sources[entities.SettingKeyVaultName].Source)
	assert.Equal(t, settingsstore.SourceDefault, sources[entities.SettingKeyTitleFormat].Source)
	assert.True(t, response.AutoSend.IsRunning)
	assert.NotEmpty(t, response.AutoSend.Description)
	assert.NotEmpty(t, response.Presets)
}

func TestSettingsController_UpdateSettings(t *testing.T) {
	t.Run("stores values", func(t *testing.T) {
		router, store, sched := setupSettingsRouter(t)

		w := putSettings(router, `{"vault_name": "Notes", "sort_key": "timestamp"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		prefs, err := store.Preferences()
		require.NoError(t, err)
		assert.Equal(t, "Notes", prefs.VaultName)
		assert.Equal(t, "timestamp", prefs.SortKey)
		assert.Equal(t, 0, sched.reschedules)
	})

	t.Run("reschedules when auto send changes", func(t *testing.T) {
		router, _, sched := setupSettingsRouter(t)

		w := putSettings(router, `{"auto_send_enabled": "true", "auto_send_schedule": "*/15 * * * *"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, sched.reschedules)
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		router, store, _ := setupSettingsRouter(t)

		w := putSettings(router, `{"max_note_size": "0"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		prefs, err := store.Preferences()
		require.NoError(t, err)
		assert.Equal(t, settingsstore.DefaultMaxNoteSize, prefs.MaxNoteSize)
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		router, _, _ := setupSettingsRouter(t)

		w := putSettings(router, `{"theme": "dark"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "unknown setting")
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		router, _, _ := setupSettingsRouter(t)

		assert.Equal(t, http.StatusBadRequest, putSettings(router, `not json`).Code)
		assert.Equal(t, http.StatusBadRequest, putSettings(router, `{}`).Code)
	})
}

func TestSettingsController_ResetSettings(t *testing.T) {
	t.Run("resets one key", func(t *testing.T) {
		router, store, sched := setupSettingsRouter(t)
		require.Equal(t, http.StatusOK, putSettings(router, `{"vault_name": "Notes", "sort_key": "timestamp"}`).Code)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", "/api/settings?key=vault_name", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		prefs, err := store.Preferences()
		require.NoError(t, err)
		assert.Equal(t, "Env Vault", prefs.VaultName)
		assert.Equal(t, "timestamp", prefs.SortKey)
		assert.Equal(t, 1, sched.reschedules)
	})

	t.Run("resets everything", func(t *testing.T) {
		router, store, _ := setupSettingsRouter(t)
		require.Equal(t, http.StatusOK, putSettings(router, `{"sort_key": "timestamp"}`).Code)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", "/api/settings", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		prefs, err := store.Preferences()
		require.NoError(t, err)
		assert.Equal(t, "location", prefs.SortKey)
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		router, _, _ := setupSettingsRouter(t)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", "/api/settings?key=theme", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
