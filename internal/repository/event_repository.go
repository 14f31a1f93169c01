package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"emotivision/internal/model"
)

// EventRepository defines emotion event persistence operations. Events are
// append-only: there is no update or single-row delete.
type EventRepository interface {
	Create(ctx context.Context, event *model.EmotionEvent) error
	FindByUser(ctx context.Context, username string) ([]model.EmotionEvent, error)
	FindByUserAndDate(ctx context.Context, username, date string) ([]model.EmotionEvent, error)
	FindAll(ctx context.Context) ([]model.EmotionEvent, error)
	Recent(ctx context.Context, username string, limit int) ([]model.EmotionEvent, error)
	CountByUser(ctx context.Context, username string) (int64, error)
	CountByEmotion(ctx context.Context, username string) ([]model.EmotionCount, error)
	Trend(ctx context.Context, username string, since time.Time) ([]model.TrendPoint, error)
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new emotion event repository.
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *model.EmotionEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// FindByUser returns the user's events ordered newest first.
func (r *eventRepository) FindByUser(ctx context.Context, username string) ([]model.EmotionEvent, error) {
	var events []model.EmotionEvent
	if err := r.db.WithContext(ctx).
		Where("username = ?", username).
		Order("timestamp DESC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// FindByUserAndDate returns the user's events for one calendar date, newest first.
func (r *eventRepository) FindByUserAndDate(ctx context.Context, username, date string) ([]model.EmotionEvent, error) {
	var events []model.EmotionEvent
	if err := r.db.WithContext(ctx).
		Where("username = ? AND DATE(timestamp) = ?", username, date).
		Order("timestamp DESC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// FindAll returns every event in log order.
func (r *eventRepository) FindAll(ctx context.Context) ([]model.EmotionEvent, error) {
	var events []model.EmotionEvent
	if err := r.db.WithContext(ctx).Order("timestamp ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) Recent(ctx context.Context, username string, limit int) ([]model.EmotionEvent, error) {
	var events []model.EmotionEvent
	if err := r.db.WithContext(ctx).
		Where("username = ?", username).
		Order("timestamp DESC").
		Limit(limit).
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) CountByUser(ctx context.Context, username string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.EmotionEvent{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *eventRepository) CountByEmotion(ctx context.Context, username string) ([]model.EmotionCount, error) {
	var counts []model.EmotionCount
	if err := r.db.WithContext(ctx).Model(&model.EmotionEvent{}).
		Select("emotion, COUNT(*) as count").
		Where("username = ?", username).
		Group("emotion").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}

// Trend groups the user's events since the cutoff by calendar date and
// emotion, most recent date first. Dates with no events are omitted.
func (r *eventRepository) Trend(ctx context.Context, username string, since time.Time) ([]model.TrendPoint, error) {
	var points []model.TrendPoint
	if err := r.db.WithContext(ctx).Model(&model.EmotionEvent{}).
		Select("DATE(timestamp) as date, emotion, COUNT(*) as count").
		Where("username = ? AND timestamp >= ?", username, since).
		Group("DATE(timestamp), emotion").
		Order(fmt.Sprintf("date DESC, FIELD(emotion, '%s','%s','%s','%s','%s','%s','%s')",
			model.Emotions[0], model.Emotions[1], model.Emotions[2], model.Emotions[3],
			model.Emotions[4], model.Emotions[5], model.Emotions[6])).
		Scan(&points).Error; err != nil {
		return nil, err
	}
	return points, nil
}
