package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"emotivision/internal/model"
)

func TestMostFrequent(t *testing.T) {
	tests := []struct {
		name   string
		counts map[string]int64
		want   string
	}{
		{name: "empty counts", counts: map[string]int64{}, want: "None"},
		{name: "single emotion", counts: map[string]int64{"sad": 3}, want: "sad"},
		{
			name:   "tie resolves to earlier closed-set label",
			counts: map[string]int64{"happy": 2, "sad": 2},
			want:   "happy",
		},
		{
			name:   "tie between fear and neutral resolves to fear",
			counts: map[string]int64{"neutral": 5, "fear": 5},
			want:   "fear",
		},
		{
			name:   "strict maximum wins over order",
			counts: map[string]int64{"angry": 1, "neutral": 4},
			want:   "neutral",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MostFrequent(tt.counts))
		})
	}
}

func TestStatsService_Summarize(t *testing.T) {
	counts := []model.EmotionCount{
		{Emotion: "happy", Count: 2},
		{Emotion: "sad", Count: 2},
		{Emotion: "neutral", Count: 1},
	}

	mockEvents := new(MockEventRepository)
	mockSessions := new(MockSessionRepository)
	mockEvents.On("CountByEmotion", mock.Anything, "alice").Return(counts, nil)
	mockSessions.On("CountByUser", mock.Anything, "alice").Return(int64(3), nil)

	svc := NewStatsService(mockEvents, mockSessions)

	stats, err := svc.Summarize(context.Background(), "alice")
	assert.NoError(t, err)
	assert.Equal(t, int64(5), stats.TotalDetections)
	assert.Equal(t, int64(3), stats.Sessions)
	assert.Equal(t, "happy", stats.MostEmotion)
	assert.Equal(t, int64(2), stats.Emotions["sad"])

	// idempotent: a second call with no intervening append agrees
	again, err := svc.Summarize(context.Background(), "alice")
	assert.NoError(t, err)
	assert.Equal(t, stats, again)
}

func TestStatsService_Summarize_Empty(t *testing.T) {
	mockEvents := new(MockEventRepository)
	mockSessions := new(MockSessionRepository)
	mockEvents.On("CountByEmotion", mock.Anything, "ghost").Return([]model.EmotionCount{}, nil)
	mockSessions.On("CountByUser", mock.Anything, "ghost").Return(int64(0), nil)

	svc := NewStatsService(mockEvents, mockSessions)

	stats, err := svc.Summarize(context.Background(), "ghost")
	assert.NoError(t, err)
	assert.Equal(t, "None", stats.MostEmotion)
	assert.Zero(t, stats.TotalDetections)
	assert.Empty(t, stats.Emotions)
}

func TestStatsService_Trend_Window(t *testing.T) {
	expected := []model.TrendPoint{
		{Date: "2026-08-28", Emotion: "happy", Count: 4},
		{Date: "2026-08-27", Emotion: "sad", Count: 1},
	}

	mockEvents := new(MockEventRepository)
	mockSessions := new(MockSessionRepository)

	fixedNow := time.Date(2026, 8, 29, 15, 30, 0, 0, time.UTC)
	wantSince := time.Date(2026, 8, 22, 0, 0, 0, 0, time.UTC)
	mockEvents.On("Trend", mock.Anything, "alice", wantSince).Return(expected, nil)

	svc := NewStatsService(mockEvents, mockSessions)
	svc.(*statsService).now = func() time.Time { return fixedNow }

	points, err := svc.Trend(context.Background(), "alice", 7)
	assert.NoError(t, err)
	assert.Equal(t, expected, points)
	mockEvents.AssertExpectations(t)
}
