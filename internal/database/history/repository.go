// Package history stores the log of send operations.
package history

import (
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/h2o/internal/entities"
)

const defaultLimit = 50

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LogEvent saves a send event to the database.
func (r *Repository) LogEvent(event *entities.SendEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return r.db.Create(event).Error
}

// GetEvents retrieves paginated send events, most recent first.
func (r *Repository) GetEvents(limit, offset int) ([]entities.SendEvent, int64, error) {
	return r.getEvents(r.db.Model(&entities.SendEvent{}), limit, offset)
}

// GetEventsByAction retrieves send events of one action, most recent first.
func (r *Repository) GetEventsByAction(action entities.SendAction, limit, offset int) ([]entities.SendEvent, int64, error) {
	return r.getEvents(r.db.Model(&entities.SendEvent{}).Where("action = ?", action), limit, offset)
}

func (r *Repository) getEvents(query *gorm.DB, limit, offset int) ([]entities.SendEvent, int64, error) {
	var events []entities.SendEvent
	var total int64

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}

	err := query.Order("created_at DESC").Order("id DESC").Limit(limit).Offset(offset).Find(&events).Error
	return events, total, err
}

// DeleteOldEvents removes events older than the specified time.
// Returns the number of deleted events.
func (r *Repository) DeleteOldEvents(olderThan time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", olderThan).Delete(&entities.SendEvent{})
	return result.RowsAffected, result.Error
}
