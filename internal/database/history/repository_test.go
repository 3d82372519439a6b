package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mrlokans/h2o/internal/entities"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.SendEvent{})
	require.NoError(t, err)

	return db
}

func TestRepository_LogEvent(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	event := &entities.SendEvent{
		Action:      entities.SendActionNew,
		Trigger:     "cli",
		Highlights:  10,
		Notes:       3,
		Description: "Sent 10 new highlights",
		Status:      entities.SendStatusSuccess,
	}

	err := repo.LogEvent(event)
	require.NoError(t, err)
	assert.NotZero(t, event.ID)
	assert.False(t, event.CreatedAt.IsZero())
}

func TestRepository_GetEvents(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	for i := 0; i < 15; i++ {
		err := repo.LogEvent(&entities.SendEvent{
			Action:    entities.SendActionNew,
			Status:    entities.SendStatusSuccess,
			CreatedAt: time.Now().Add(time.Duration(-i) * time.Hour),
		})
		require.NoError(t, err)
	}
	for i := 0; i < 5; i++ {
		err := repo.LogEvent(&entities.SendEvent{
			Action:    entities.SendActionResend,
			Status:    entities.SendStatusFailed,
			ErrorMsg:  "vault closed",
			CreatedAt: time.Now().Add(time.Duration(-20-i) * time.Hour),
		})
		require.NoError(t, err)
	}

	t.Run("get all events", func(t *testing.T) {
		events, total, err := repo.GetEvents(50, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(20), total)
		assert.Len(t, events, 20)
	})

	t.Run("most recent first", func(t *testing.T) {
		events, _, err := repo.GetEvents(3, 0)
		require.NoError(t, err)
		require.Len(t, events, 3)
		assert.True(t, events[0].CreatedAt.After(events[1].CreatedAt))
		assert.True(t, events[1].CreatedAt.After(events[2].CreatedAt))
	})

	t.Run("pagination", func(t *testing.T) {
		events, total, err := repo.GetEvents(10, 15)
		require.NoError(t, err)
		assert.Equal(t, int64(20), total)
		assert.Len(t, events, 5)
	})

	t.Run("default limit", func(t *testing.T) {
		events, _, err := repo.GetEvents(0, -1)
		require.NoError(t, err)
		assert.Len(t, events, 20)
	})

	t.Run("by action", func(t *testing.T) {
		events, total, err := repo.GetEventsByAction(entities.SendActionResend, 50, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		for _, e := range events {
			assert.Equal(t, entities.SendActionResend, e.Action)
			assert.Equal(t, "vault closed", e.ErrorMsg)
		}
	})
}

func TestRepository_DeleteOldEvents(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	require.NoError(t, repo.LogEvent(&entities.SendEvent{Action: entities.SendActionAll, CreatedAt: time.Now().Add(-48 * time.Hour)}))
	require.NoError(t, repo.LogEvent(&entities.SendEvent{Action: entities.SendActionAll}))

	deleted, err := repo.DeleteOldEvents(time.Now().Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, total, err := repo.GetEvents(10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
