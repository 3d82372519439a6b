package database

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mrlokans/h2o/internal/entities"
)

func TestNewDatabase_Migrates(t *testing.T) {
	db, err := NewDatabase(filepath.Join(t.TempDir(), "h2o.db"))
	require.NoError(t, err)
	defer db.Close()

	assert.True(t, db.DB.Migrator().HasTable(&entities.Setting{}))
	assert.True(t, db.DB.Migrator().HasTable(&entities.SendEvent{}))
}

func TestNewDatabase_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "h2o.db")

	db, err := NewDatabase(path)
	require.NoError(t, err)
	require.NoError(t, db.DB.Create(&entities.Setting{Key: "vault_name", Value: "Notes"}).Error)
	require.NoError(t, db.Close())

	db, err = NewDatabase(path)
	require.NoError(t, err)
	defer db.Close()

	var setting entities.Setting
	require.NoError(t, db.DB.Where("key = ?", "vault_name").First(&setting).Error)
	assert.Equal(t, "Notes", setting.Value)
}

type captureWriter struct {
	lines []string
}

func (w *captureWriter) Printf(format string, args ...interface{}) {
	w.lines = append(w.lines, fmt.Sprintf(format, args...))
}

func TestNewLogger_IgnoresRecordNotFound(t *testing.T) {
	db, err := NewDatabase(filepath.Join(t.TempDir(), "h2o.db"))
	require.NoError(t, err)
	defer db.Close()

	w := &captureWriter{}
	session := db.DB.Session(&gorm.Session{Logger: newLogger(w)})

	var setting entities.Setting
	err = session.Where("key = ?", "missing").First(&setting).Error
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	assert.Empty(t, w.lines)

	err = session.Raw("SELECT * FROM no_such_table").Scan(&setting).Error
	assert.Error(t, err)
	assert.NotEmpty(t, w.lines)
}
