package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "emotivision/internal/errors"
	"emotivision/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, username string, at time.Time) error {
	args := m.Called(ctx, username, at)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePasswordHash(ctx context.Context, username, hash string) error {
	args := m.Called(ctx, username, hash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateEmail(ctx context.Context, username, email string) error {
	args := m.Called(ctx, username, email)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteCascade(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hash)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		username      string
		password      string
		email         string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful registration",
			username: "new_user",
			password: "secret1",
			email:    "new@example.com",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "new_user").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
		},
		{
			name:     "duplicate username",
			username: "existing",
			password: "secret1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "existing").Return(&model.User{Username: "existing"}, nil)
			},
			expectedError: apperrors.ErrDuplicateUsername,
		},
		{
			name:     "duplicate surfacing on insert",
			username: "existing",
			password: "secret1",
			setupMock: func(m *MockUserRepository) {
				// a racing register can pass the lookup and lose on the unique index
				m.On("FindByUsername", mock.Anything, "existing").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: apperrors.ErrDuplicateUsername,
		},
		{
			name:          "username too short",
			username:      "ab",
			password:      "secret1",
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrInvalidInput,
		},
		{
			name:          "username with illegal characters",
			username:      "bad-name!",
			password:      "secret1",
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrInvalidInput,
		},
		{
			name:          "password without digit",
			username:      "good_name",
			password:      "secrets",
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrInvalidInput,
		},
		{
			name:          "password without letter",
			username:      "good_name",
			password:      "1234567",
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrInvalidInput,
		},
		{
			name:          "malformed email",
			username:      "good_name",
			password:      "secret1",
			email:         "not-an-email",
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			svc := NewAuthService(mockRepo, nil)
			user, err := svc.Register(context.Background(), tt.username, tt.password, tt.email)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.Equal(t, tt.username, user.Username)
				assert.NotEmpty(t, user.PasswordHash)
				assert.NotEqual(t, tt.password, user.PasswordHash)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Verify(t *testing.T) {
	hash := func(t *testing.T) string { return hashOf(t, "secret1") }

	tests := []struct {
		name      string
		username  string
		password  string
		setupMock func(*testing.T, *MockUserRepository)
		wantMatch bool
	}{
		{
			name:     "correct password matches and updates last login",
			username: "alice",
			password: "secret1",
			setupMock: func(t *testing.T, m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").
					Return(&model.User{Username: "alice", PasswordHash: hash(t)}, nil)
				m.On("UpdateLastLogin", mock.Anything, "alice", mock.AnythingOfType("time.Time")).Return(nil)
			},
			wantMatch: true,
		},
		{
			name:     "wrong password does not match",
			username: "alice",
			password: "wrong99",
			setupMock: func(t *testing.T, m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").
					Return(&model.User{Username: "alice", PasswordHash: hash(t)}, nil)
			},
			wantMatch: false,
		},
		{
			name:     "unknown user does not match",
			username: "nobody",
			password: "secret1",
			setupMock: func(t *testing.T, m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "nobody").Return(nil, gorm.ErrRecordNotFound)
			},
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(t, mockRepo)

			svc := NewAuthService(mockRepo, nil)
			ok, err := svc.Verify(context.Background(), tt.username, tt.password)

			assert.NoError(t, err)
			assert.Equal(t, tt.wantMatch, ok)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	t.Run("wrong old password fails", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByUsername", mock.Anything, "alice").
			Return(&model.User{Username: "alice", PasswordHash: hashOf(t, "secret1")}, nil)

		svc := NewAuthService(mockRepo, nil)
		err := svc.ChangePassword(context.Background(), "alice", "wrong99", "newpass1")
		assert.ErrorIs(t, err, apperrors.ErrAuthFailed)
		mockRepo.AssertExpectations(t)
	})

	t.Run("weak new password fails", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByUsername", mock.Anything, "alice").
			Return(&model.User{Username: "alice", PasswordHash: hashOf(t, "secret1")}, nil)
		mockRepo.On("UpdateLastLogin", mock.Anything, "alice", mock.AnythingOfType("time.Time")).Return(nil)

		svc := NewAuthService(mockRepo, nil)
		err := svc.ChangePassword(context.Background(), "alice", "secret1", "short")
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		mockRepo.AssertNotCalled(t, "UpdatePasswordHash", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("valid change overwrites hash", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByUsername", mock.Anything, "alice").
			Return(&model.User{Username: "alice", PasswordHash: hashOf(t, "secret1")}, nil)
		mockRepo.On("UpdateLastLogin", mock.Anything, "alice", mock.AnythingOfType("time.Time")).Return(nil)
		mockRepo.On("UpdatePasswordHash", mock.Anything, "alice", mock.AnythingOfType("string")).Return(nil)

		svc := NewAuthService(mockRepo, nil)
		err := svc.ChangePassword(context.Background(), "alice", "secret1", "newpass1")
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestAuthService_DeleteAccount(t *testing.T) {
	t.Run("wrong password fails and keeps the account", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByUsername", mock.Anything, "alice").
			Return(&model.User{Username: "alice", PasswordHash: hashOf(t, "secret1")}, nil)

		svc := NewAuthService(mockRepo, nil)
		err := svc.DeleteAccount(context.Background(), "alice", "wrong99")
		assert.ErrorIs(t, err, apperrors.ErrAuthFailed)
		mockRepo.AssertNotCalled(t, "DeleteCascade", mock.Anything, mock.Anything)
	})

	t.Run("correct password cascades deletion", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByUsername", mock.Anything, "alice").
			Return(&model.User{Username: "alice", PasswordHash: hashOf(t, "secret1")}, nil)
		mockRepo.On("UpdateLastLogin", mock.Anything, "alice", mock.AnythingOfType("time.Time")).Return(nil)
		mockRepo.On("DeleteCascade", mock.Anything, "alice").Return(nil)

		svc := NewAuthService(mockRepo, nil)
		err := svc.DeleteAccount(context.Background(), "alice", "secret1")
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}
