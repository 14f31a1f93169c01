package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "emotivision/internal/errors"
	"emotivision/internal/jsonlog"
	"emotivision/internal/model"
)

// MockEventRepository is a mock implementation of EventRepository.
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, event *model.EmotionEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) FindByUser(ctx context.Context, username string) ([]model.EmotionEvent, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EmotionEvent), args.Error(1)
}

func (m *MockEventRepository) FindByUserAndDate(ctx context.Context, username, date string) ([]model.EmotionEvent, error) {
	args := m.Called(ctx, username, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EmotionEvent), args.Error(1)
}

func (m *MockEventRepository) FindAll(ctx context.Context) ([]model.EmotionEvent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EmotionEvent), args.Error(1)
}

func (m *MockEventRepository) Recent(ctx context.Context, username string, limit int) ([]model.EmotionEvent, error) {
	args := m.Called(ctx, username, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EmotionEvent), args.Error(1)
}

func (m *MockEventRepository) CountByUser(ctx context.Context, username string) (int64, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEventRepository) CountByEmotion(ctx context.Context, username string) ([]model.EmotionCount, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EmotionCount), args.Error(1)
}

func (m *MockEventRepository) Trend(ctx context.Context, username string, since time.Time) ([]model.TrendPoint, error) {
	args := m.Called(ctx, username, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TrendPoint), args.Error(1)
}

// MockSessionRepository is a mock implementation of SessionRepository.
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Start(ctx context.Context, username string, at time.Time) (*model.SessionRecord, error) {
	args := m.Called(ctx, username, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SessionRecord), args.Error(1)
}

func (m *MockSessionRepository) End(ctx context.Context, id uint, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockSessionRepository) IncrementDetections(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

func (m *MockSessionRepository) CountByUser(ctx context.Context, username string) (int64, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(int64), args.Error(1)
}

func newTestEventService(t *testing.T, events *MockEventRepository, sessions *MockSessionRepository) (EventService, *jsonlog.Store) {
	t.Helper()
	mirror := jsonlog.NewStore(filepath.Join(t.TempDir(), "emotions_data.json"))
	return NewEventService(events, sessions, mirror), mirror
}

func TestEventService_Append_ConfidenceBounds(t *testing.T) {
	tests := []struct {
		name       string
		emotion    string
		confidence float64
		wantErr    bool
	}{
		{name: "confidence zero accepted", emotion: "happy", confidence: 0.0},
		{name: "confidence one accepted", emotion: "sad", confidence: 1.0},
		{name: "confidence above one rejected", emotion: "happy", confidence: 1.01, wantErr: true},
		{name: "negative confidence rejected", emotion: "happy", confidence: -0.01, wantErr: true},
		{name: "unknown emotion rejected", emotion: "bored", confidence: 0.5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockEvents := new(MockEventRepository)
			mockSessions := new(MockSessionRepository)
			if !tt.wantErr {
				mockEvents.On("Create", mock.Anything, mock.AnythingOfType("*model.EmotionEvent")).Return(nil)
				mockSessions.On("IncrementDetections", mock.Anything, "alice").Return(nil)
			}

			svc, _ := newTestEventService(t, mockEvents, mockSessions)
			event, err := svc.Append(context.Background(), "alice", tt.emotion, tt.confidence, "", "")

			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidEvent)
				assert.Nil(t, event)
				mockEvents.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, event)
				assert.Equal(t, "alice", event.Username)
				assert.False(t, event.Timestamp.IsZero())
			}
			mockEvents.AssertExpectations(t)
		})
	}
}

func TestEventService_Append_MirrorsEvent(t *testing.T) {
	mockEvents := new(MockEventRepository)
	mockSessions := new(MockSessionRepository)
	mockEvents.On("Create", mock.Anything, mock.AnythingOfType("*model.EmotionEvent")).Return(nil)
	mockSessions.On("IncrementDetections", mock.Anything, "alice").Return(nil)

	svc, mirror := newTestEventService(t, mockEvents, mockSessions)
	event, err := svc.Append(context.Background(), "alice", "surprise", 0.91, "(25-32)", "")
	assert.NoError(t, err)

	entries, err := mirror.Load()
	assert.NoError(t, err)
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "surprise", entries[0].Emotion)
		assert.Equal(t, "alice", entries[0].Username)
		assert.Equal(t, "(25-32)", entries[0].Age)
		assert.Equal(t, jsonlog.FormatTime(event.Timestamp), entries[0].Timestamp)
	}
}

func TestEventService_Query(t *testing.T) {
	mockEvents := new(MockEventRepository)
	mockSessions := new(MockSessionRepository)
	mockEvents.On("FindByUser", mock.Anything, "alice").Return([]model.EmotionEvent{}, nil)

	svc, _ := newTestEventService(t, mockEvents, mockSessions)
	events, err := svc.Query(context.Background(), "alice", "")

	assert.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestEventService_Recent(t *testing.T) {
	expected := []model.EmotionEvent{{Username: "alice", Emotion: "happy", Confidence: 0.8}}

	mockEvents := new(MockEventRepository)
	mockSessions := new(MockSessionRepository)
	mockEvents.On("Recent", mock.Anything, "alice", 1).Return(expected, nil)

	svc, _ := newTestEventService(t, mockEvents, mockSessions)
	events, err := svc.Recent(context.Background(), "alice", 1)

	assert.NoError(t, err)
	assert.Equal(t, expected, events)
	mockEvents.AssertExpectations(t)
}
