package service

import (
	"context"
	"time"

	apperrors "emotivision/internal/errors"
	"emotivision/internal/model"
	"emotivision/internal/repository"
)

// StatsService derives per-user summaries from the event log on demand.
// Nothing here is persisted; every call recomputes from raw events.
type StatsService interface {
	Summarize(ctx context.Context, username string) (*model.AggregateStats, error)
	Trend(ctx context.Context, username string, days int) ([]model.TrendPoint, error)
}

type statsService struct {
	events   repository.EventRepository
	sessions repository.SessionRepository

	now func() time.Time
}

// NewStatsService creates a new stats aggregator.
func NewStatsService(events repository.EventRepository, sessions repository.SessionRepository) StatsService {
	return &statsService{
		events:   events,
		sessions: sessions,
		now:      time.Now,
	}
}

// MostFrequent picks the emotion with the highest count. Ties resolve to the
// label appearing earliest in the closed-set order, so repeated calls over
// the same counts always agree. Returns "None" for empty counts.
func MostFrequent(counts map[string]int64) string {
	most := "None"
	var best int64
	for _, emotion := range model.Emotions {
		if c := counts[emotion]; c > best {
			best = c
			most = emotion
		}
	}
	return most
}

// Summarize builds the per-user emotion counts, totals, and session count.
func (s *statsService) Summarize(ctx context.Context, username string) (*model.AggregateStats, error) {
	counts, err := s.events.CountByEmotion(ctx, username)
	if err != nil {
		return nil, apperrors.Storage(err)
	}

	emotions := make(map[string]int64, len(counts))
	var total int64
	for _, c := range counts {
		emotions[c.Emotion] = c.Count
		total += c.Count
	}

	sessions, err := s.sessions.CountByUser(ctx, username)
	if err != nil {
		return nil, apperrors.Storage(err)
	}

	return &model.AggregateStats{
		Emotions:        emotions,
		TotalDetections: total,
		Sessions:        sessions,
		MostEmotion:     MostFrequent(emotions),
	}, nil
}

// Trend groups the user's events by calendar date and emotion over the
// trailing window. Days without events are excluded, not zero-filled.
func (s *statsService) Trend(ctx context.Context, username string, days int) ([]model.TrendPoint, error) {
	if days <= 0 {
		days = 30
	}
	now := s.now()
	since := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, -days)

	points, err := s.events.Trend(ctx, username, since)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	if points == nil {
		points = []model.TrendPoint{}
	}
	return points, nil
}
