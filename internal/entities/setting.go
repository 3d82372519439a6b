package entities

import (
	"time"
)

type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// Known setting keys
const (
	// Note formatting
	SettingKeyTitleFormat   = "title_format"
	SettingKeyBodyFormat    = "body_format"
	SettingKeyNoNotesFormat = "no_notes_format"
	SettingKeyHeaderFormat  = "header_format"
	SettingKeyUseHeader     = "use_header"
	SettingKeyCopyHeader    = "copy_header"
	SettingKeySortKey       = "sort_key"
	SettingKeyMaxNoteSize   = "max_note_size"

	// Destination
	SettingKeyVaultName   = "vault_name"
	SettingKeyLibraryName = "library_name"

	// Send bookkeeping
	SettingKeyLastSendTime = "last_send_time"
	SettingKeyPrevSendTime = "prev_send"

	// Scheduled sending
	SettingKeyAutoSendEnabled  = "auto_send_enabled"
	SettingKeyAutoSendSchedule = "auto_send_schedule"
)
