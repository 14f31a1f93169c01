package model

import (
	"time"

	"github.com/google/uuid"
)

// EmotionEvent is a single detection result attributed to a user.
// Events are immutable once written.
type EmotionEvent struct {
	ID         uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Username   string    `json:"username" gorm:"size:20;not null;index"`
	Emotion    string    `json:"emotion" gorm:"size:16;not null;index"`
	Confidence float64   `json:"confidence" gorm:"not null"`
	Timestamp  time.Time `json:"timestamp" gorm:"not null;index"`
	Age        string    `json:"age,omitempty" gorm:"size:16"`
	ImagePath  string    `json:"image_path,omitempty" gorm:"size:255"`
}

// TableName keeps the table name aligned with the existing schema.
func (EmotionEvent) TableName() string {
	return "emotions_log"
}

// TrendPoint is one (date, emotion, count) row of a trailing-window trend.
type TrendPoint struct {
	Date    string `json:"date"`
	Emotion string `json:"emotion"`
	Count   int64  `json:"count"`
}

// EmotionCount is one (emotion, count) aggregation row.
type EmotionCount struct {
	Emotion string `json:"emotion"`
	Count   int64  `json:"count"`
}

// AggregateStats is a per-user summary derived from the event log. It is
// recomputed from raw events on every request, never stored.
type AggregateStats struct {
	Emotions        map[string]int64 `json:"emotions"`
	TotalDetections int64            `json:"total_detections"`
	Sessions        int64            `json:"sessions"`
	MostEmotion     string           `json:"most_emotion"`
}
