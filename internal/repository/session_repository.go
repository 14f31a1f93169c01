package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"emotivision/internal/model"
)

// SessionRepository defines session record persistence operations.
type SessionRepository interface {
	Start(ctx context.Context, username string, at time.Time) (*model.SessionRecord, error)
	End(ctx context.Context, id uint, at time.Time) error
	IncrementDetections(ctx context.Context, username string) error
	CountByUser(ctx context.Context, username string) (int64, error)
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new session record repository.
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Start(ctx context.Context, username string, at time.Time) (*model.SessionRecord, error) {
	record := &model.SessionRecord{
		Username:     username,
		SessionStart: at,
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func (r *sessionRepository) End(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.SessionRecord{}).
		Where("id = ?", id).
		Update("session_end", at).Error
}

// IncrementDetections bumps the detection counter on the user's open session
// record, if any. A user with no open session is not an error.
func (r *sessionRepository) IncrementDetections(ctx context.Context, username string) error {
	return r.db.WithContext(ctx).Model(&model.SessionRecord{}).
		Where("username = ? AND session_end IS NULL", username).
		Update("emotions_detected", gorm.Expr("emotions_detected + 1")).Error
}

func (r *sessionRepository) CountByUser(ctx context.Context, username string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.SessionRecord{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
