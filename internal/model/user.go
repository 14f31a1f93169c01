package model

import "time"

// User represents a registered account.
type User struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Username     string     `json:"username" gorm:"uniqueIndex;size:20;not null"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Email        string     `json:"email,omitempty" gorm:"size:255"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// TableName keeps the table name aligned with the existing schema.
func (User) TableName() string {
	return "users"
}
