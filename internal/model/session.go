package model

import "time"

// SessionRecord is the persisted trace of one interactive login, closed on
// logout with the number of detections made while it was open.
type SessionRecord struct {
	ID               uint       `json:"id" gorm:"primaryKey"`
	Username         string     `json:"username" gorm:"size:20;not null;index"`
	SessionStart     time.Time  `json:"session_start" gorm:"not null"`
	SessionEnd       *time.Time `json:"session_end,omitempty"`
	EmotionsDetected int64      `json:"emotions_detected" gorm:"default:0"`
}

// TableName keeps the table name aligned with the existing schema.
func (SessionRecord) TableName() string {
	return "sessions"
}
