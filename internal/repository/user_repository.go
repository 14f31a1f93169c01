package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"emotivision/internal/model"
)

// UserRepository defines account persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	UpdateLastLogin(ctx context.Context, username string, at time.Time) error
	UpdatePasswordHash(ctx context.Context, username, hash string) error
	UpdateEmail(ctx context.Context, username, email string) error
	// DeleteCascade removes the user together with its emotion events and
	// session records in a single transaction.
	DeleteCascade(ctx context.Context, username string) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, username string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("username = ?", username).
		Update("last_login", at).Error
}

func (r *userRepository) UpdatePasswordHash(ctx context.Context, username, hash string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("username = ?", username).
		Update("password_hash", hash).Error
}

func (r *userRepository) UpdateEmail(ctx context.Context, username, email string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("username = ?", username).
		Update("email", email).Error
}

func (r *userRepository) DeleteCascade(ctx context.Context, username string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("username = ?", username).Delete(&model.EmotionEvent{}).Error; err != nil {
			return err
		}
		if err := tx.Where("username = ?", username).Delete(&model.SessionRecord{}).Error; err != nil {
			return err
		}
		return tx.Where("username = ?", username).Delete(&model.User{}).Error
	})
}
