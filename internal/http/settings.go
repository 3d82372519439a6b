package http

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/h2o/internal/entities"
	"github.com/mrlokans/h2o/internal/settingsstore"
)

// SettingsController exposes preferences.
type SettingsController struct {
	store     PreferenceStore
	scheduler Scheduler
}

func NewSettingsController(store PreferenceStore, scheduler Scheduler) *SettingsController {
	return &SettingsController{store: store, scheduler: scheduler}
}

// AutoSendStatus describes the scheduled send job.
type AutoSendStatus struct {
	IsRunning   bool       `json:"is_running"`
	NextRun     *time.Time `json:"next_run,omitempty"`
	Description string     `json:"description,omitempty"`
}

// SchedulePreset is a predefined schedule option
type SchedulePreset struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

var schedulePresets = []SchedulePreset{
	{Label: "Every 15 minutes", Value: "*/15 * * * *"},
	{Label: "Every 30 minutes", Value: "*/30 * * * *"},
	{Label: "Every hour", Value: "0 * * * *"},
	{Label: "Every 6 hours", Value: "0 */6 * * *"},
	{Label: "Daily at midnight", Value: "0 0 * * *"},
}

// SettingsResponse is the response for GET /api/settings
type SettingsResponse struct {
	Settings []settingsstore.SettingInfo `json:"settings"`
	AutoSend AutoSendStatus              `json:"auto_send"`
	Presets  []SchedulePreset            `json:"presets"`
}

// GetSettings returns every preference with its source.
func (s *SettingsController) GetSettings(c *gin.Context) {
	infos, err := s.store.All()
	if err != nil {
		respondInternalError(c, err, "get settings")
		return
	}

	response := SettingsResponse{Settings: infos, Presets: schedulePresets}
	for _, info := range infos {
		if info.Key == entities.SettingKeyAutoSendSchedule {
			response.AutoSend.Description = settingsstore.GetCronDescription(info.Value)
		}
	}
	if s.scheduler != nil {
		response.AutoSend.IsRunning = s.scheduler.IsRunning()
		response.AutoSend.NextRun = s.scheduler.GetNextRunTime()
	}
	c.JSON(http.StatusOK, response)
}

// UpdateSettings stores the preferences in the request body, a JSON object
// of setting key to value.
func (s *SettingsController) UpdateSettings(c *gin.Context) {
	var values map[string]string
	if err := c.ShouldBindJSON(&values); err != nil {
		respondBadRequest(c, "invalid request: "+err.Error())
		return
	}
	if len(values) == 0 {
		respondBadRequest(c, "no settings given")
		return
	}

	if err := s.store.Set(values); err != nil {
		respondSettingsError(c, err, "update settings")
		return
	}

	if touchesSchedule(values) {
		s.reschedule()
	}
	respondSuccess(c, "Settings saved", values)
}

// ResetSettings removes stored preferences. ?key= may be repeated to reset
// single keys; without it every preference except the send times is reset.
func (s *SettingsController) ResetSettings(c *gin.Context) {
	keys := c.QueryArray("key")
	if err := s.store.Reset(keys...); err != nil {
		respondSettingsError(c, err, "reset settings")
		return
	}

	s.reschedule()
	respondSuccess(c, "Settings reset", keys)
}

func (s *SettingsController) reschedule() {
	if s.scheduler == nil {
		return
	}
	if err := s.scheduler.Reschedule(); err != nil {
		log.Printf("Settings: failed to reschedule auto send: %v", err)
	}
}

func touchesSchedule(values map[string]string) bool {
	_, enabled := values[entities.SettingKeyAutoSendEnabled]
	_, schedule := values[entities.SettingKeyAutoSendSchedule]
	return enabled || schedule
}
