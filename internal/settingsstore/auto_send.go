package settingsstore

import (
	"strconv"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/h2o/internal/entities"
)

// AutoSendConfig is the effective configuration for scheduled sends.
type AutoSendConfig struct {
	Enabled  bool   `json:"enabled"`
	Schedule string `json:"schedule"`
}

// GetAutoSendConfig resolves the scheduled send settings. Unparseable
// values disable scheduling.
func (s *SettingsStore) GetAutoSendConfig() (AutoSendConfig, error) {
	enabled, err := s.Get(entities.SettingKeyAutoSendEnabled)
	if err != nil {
		return AutoSendConfig{}, err
	}
	schedule, err := s.Get(entities.SettingKeyAutoSendSchedule)
	if err != nil {
		return AutoSendConfig{}, err
	}

	on, _ := strconv.ParseBool(enabled.Value)
	return AutoSendConfig{Enabled: on, Schedule: schedule.Value}, nil
}

// RecordSend stores the send times after a successful send. An empty prev
// leaves the previous send time untouched.
func (s *SettingsStore) RecordSend(last time.Time, prev string) error {
	values := map[string]string{
		entities.SettingKeyLastSendTime: last.UTC().Format(SendTimeLayout),
	}
	if prev != "" {
		values[entities.SettingKeyPrevSendTime] = prev
	}
	return s.repo.SetSettings(values)
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCronSchedule validates a cron schedule string
func ValidateCronSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// GetCronDescription returns a human-readable description of a cron schedule
func GetCronDescription(schedule string) string {
	switch schedule {
	case "0 * * * *":
		return "Every hour at :00"
	case "*/15 * * * *":
		return "Every 15 minutes"
	case "*/30 * * * *":
		return "Every 30 minutes"
	case "0 */6 * * *":
		return "Every 6 hours"
	case "0 0 * * *":
		return "Daily at midnight"
	case "0 0 * * 0":
		return "Weekly on Sunday at midnight"
	default:
		return "Custom schedule: " + schedule
	}
}

// GetNextRunTime calculates when the next scheduled send will run
func GetNextRunTime(schedule string) (*time.Time, error) {
	sched, err := cronParser.Parse(schedule)
	if err != nil {
		return nil, err
	}
	next := sched.Next(time.Now())
	return &next, nil
}
