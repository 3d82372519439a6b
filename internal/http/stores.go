package http

import (
	"time"

	"github.com/mrlokans/h2o/internal/entities"
	"github.com/mrlokans/h2o/internal/sender"
	"github.com/mrlokans/h2o/internal/settingsstore"
)

// This file consolidates the interfaces the controllers depend on.

// PreferenceStore reads and changes preferences.
type PreferenceStore interface {
	All() ([]settingsstore.SettingInfo, error)
	Set(values map[string]string) error
	Reset(keys ...string) error
}

// SendService runs send actions.
type SendService interface {
	SendNew(trigger string) (*sender.Result, error)
	SendAll(trigger string) (*sender.Result, error)
	Resend(trigger string) (*sender.Result, error)
	SendBooks(trigger string, bookIDs []int64, onlyNew bool) (*sender.Result, error)
	Preview(trigger string, onlyNew bool) (*sender.Result, error)
}

// HistoryStore lists past send actions.
type HistoryStore interface {
	GetEvents(limit, offset int) ([]entities.SendEvent, int64, error)
	GetEventsByAction(action entities.SendAction, limit, offset int) ([]entities.SendEvent, int64, error)
}

// Scheduler is the scheduled send job.
type Scheduler interface {
	Reschedule() error
	IsRunning() bool
	GetNextRunTime() *time.Time
}
