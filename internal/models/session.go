package models

import (
	"time"

	"gorm.io/datatypes"
)

// SessionRecord is the single durable row holding the serialized session
// user ({user_id, username, app_ids}) under a fixed key.
type SessionRecord struct {
	RecordKey   string         `gorm:"primaryKey;size:64"`
	RecordValue datatypes.JSON `gorm:"type:json"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName overrides the table name for SessionRecord
func (SessionRecord) TableName() string {
	return "session_records"
}
