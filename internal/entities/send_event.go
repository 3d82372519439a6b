package entities

import "time"

type SendAction string

const (
	SendActionNew     SendAction = "send_new"
	SendActionAll     SendAction = "send_all"
	SendActionResend  SendAction = "resend"
	SendActionBooks   SendAction = "send_books"
	SendActionPreview SendAction = "preview"
)

type SendStatus string

const (
	SendStatusSuccess SendStatus = "success"
	SendStatusFailed  SendStatus = "failed"
)

// SendEvent is one entry of the send history.
type SendEvent struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Action      SendAction `gorm:"index;size:50" json:"action"`
	Trigger     string     `gorm:"size:20" json:"trigger"` // "cli", "api", "schedule"
	Highlights  int        `json:"highlights"`
	Notes       int        `json:"notes"`
	Description string     `gorm:"size:500" json:"description"`
	Status      SendStatus `gorm:"size:20" json:"status"`
	ErrorMsg    string     `gorm:"size:500" json:"error_msg,omitempty"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
}

func (SendEvent) TableName() string {
	return "send_events"
}
