package service

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"emotivision/internal/cache"
	apperrors "emotivision/internal/errors"
	"emotivision/internal/model"
	"emotivision/internal/repository"
)

const (
	bcryptCost      = 10
	profileCacheTTL = 5 * time.Minute
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	hasLetter     = regexp.MustCompile(`[A-Za-z]`)
	hasDigit      = regexp.MustCompile(`[0-9]`)
)

// AuthService is the credential store: account creation, verification, and
// the mutations gated on a correct password.
type AuthService interface {
	Register(ctx context.Context, username, password, email string) (*model.User, error)
	Verify(ctx context.Context, username, password string) (bool, error)
	ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error
	UpdateEmail(ctx context.Context, username, email string) error
	GetProfile(ctx context.Context, username string) (*model.User, error)
	DeleteAccount(ctx context.Context, username, password string) error
}

type authService struct {
	users repository.UserRepository
	cache *cache.Client
}

// NewAuthService creates a new credential store service.
func NewAuthService(users repository.UserRepository, cache *cache.Client) AuthService {
	return &authService{users: users, cache: cache}
}

func profileCacheKey(username string) string {
	return "profile:" + username
}

// ValidateUsername checks the 3-20 character alphanumeric/underscore rule.
func ValidateUsername(username string) error {
	if len(username) < 3 {
		return apperrors.Invalid("username must be at least 3 characters long")
	}
	if len(username) > 20 {
		return apperrors.Invalid("username must be at most 20 characters long")
	}
	if !usernameRegex.MatchString(username) {
		return apperrors.Invalid("username can only contain letters, numbers, and underscores")
	}
	return nil
}

// ValidatePassword checks length and the letter+digit strength rule.
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return apperrors.Invalid("password must be at least 6 characters long")
	}
	if len(password) > 50 {
		return apperrors.Invalid("password must be at most 50 characters long")
	}
	if !hasLetter.MatchString(password) {
		return apperrors.Invalid("password must contain at least one letter")
	}
	if !hasDigit.MatchString(password) {
		return apperrors.Invalid("password must contain at least one number")
	}
	return nil
}

// ValidateEmail checks the basic local@domain.tld shape. Empty is allowed:
// email is optional.
func ValidateEmail(email string) error {
	if email == "" {
		return nil
	}
	if !emailRegex.MatchString(email) {
		return apperrors.Invalid("invalid email address")
	}
	return nil
}

// Register creates a new account with a bcrypt password hash. The plaintext
// password is never stored.
func (s *authService) Register(ctx context.Context, username, password, email string) (*model.User, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}

	existing, err := s.users.FindByUsername(ctx, username)
	if err == nil && existing != nil {
		return nil, apperrors.ErrDuplicateUsername
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Storage(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     username,
		PasswordHash: string(hash),
		Email:        email,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateUsername
		}
		return nil, apperrors.Storage(err)
	}
	return user, nil
}

// Verify checks credentials and, on a match, updates last-login.
func (s *authService) Verify(ctx context.Context, username, password string) (bool, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, apperrors.Storage(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return false, nil
	}

	if err := s.users.UpdateLastLogin(ctx, username, time.Now()); err != nil {
		return false, apperrors.Storage(err)
	}
	_ = s.cache.Delete(ctx, profileCacheKey(username))
	return true, nil
}

// ChangePassword overwrites the hash after the old password checks out.
func (s *authService) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	ok, err := s.Verify(ctx, username, oldPassword)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrAuthFailed
	}

	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePasswordHash(ctx, username, string(hash)); err != nil {
		return apperrors.Storage(err)
	}
	return nil
}

// UpdateEmail replaces the account email after format validation.
func (s *authService) UpdateEmail(ctx context.Context, username, email string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}
	if err := s.users.UpdateEmail(ctx, username, email); err != nil {
		return apperrors.Storage(err)
	}
	_ = s.cache.Delete(ctx, profileCacheKey(username))
	return nil
}

// GetProfile returns account details, served from cache when warm.
func (s *authService) GetProfile(ctx context.Context, username string) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, profileCacheKey(username)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Storage(err)
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, profileCacheKey(username), payload, profileCacheTTL)
	}
	return user, nil
}

// DeleteAccount removes the user and cascades to its events and session
// records in one transaction.
func (s *authService) DeleteAccount(ctx context.Context, username, password string) error {
	ok, err := s.Verify(ctx, username, password)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrAuthFailed
	}

	if err := s.users.DeleteCascade(ctx, username); err != nil {
		return apperrors.Storage(err)
	}
	_ = s.cache.Delete(ctx, profileCacheKey(username))
	return nil
}
