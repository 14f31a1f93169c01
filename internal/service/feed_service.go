package service

import (
	"context"
	"time"

	apperrors "emotivision/internal/errors"
	"emotivision/internal/jsonlog"
)

// FeedService backs the content personalization API. It reads the JSON
// mirror only, never the database, so external consumers stay decoupled from
// the relational schema.
type FeedService interface {
	Latest(ctx context.Context) (*jsonlog.Entry, error)
	EmotionTrend(ctx context.Context) (map[string]int64, error)
	AgeDistribution(ctx context.Context) (map[string]int64, error)
	Events(ctx context.Context, username, date string) ([]jsonlog.Entry, error)
	Push(ctx context.Context, entry jsonlog.Entry) (*jsonlog.Entry, error)
}

type feedService struct {
	mirror *jsonlog.Store

	now func() time.Time
}

// NewFeedService creates a feed service over the JSON mirror.
func NewFeedService(mirror *jsonlog.Store) FeedService {
	return &feedService{mirror: mirror, now: time.Now}
}

// Latest returns the most recent mirrored event.
func (s *feedService) Latest(ctx context.Context) (*jsonlog.Entry, error) {
	entry, ok, err := s.mirror.Latest()
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	if !ok {
		return nil, apperrors.ErrNoEventData
	}
	return &entry, nil
}

// EmotionTrend tallies all mirrored events per emotion.
func (s *feedService) EmotionTrend(ctx context.Context) (map[string]int64, error) {
	counts, err := s.mirror.EmotionCounts()
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	if len(counts) == 0 {
		return nil, apperrors.ErrNoEventData
	}
	return counts, nil
}

// AgeDistribution tallies all mirrored events per age bucket.
func (s *feedService) AgeDistribution(ctx context.Context) (map[string]int64, error) {
	counts, err := s.mirror.AgeCounts()
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	if len(counts) == 0 {
		return nil, apperrors.ErrNoEventData
	}
	return counts, nil
}

// Events returns mirrored events filtered by username and date prefix.
// No filter returns everything; no match is an empty list.
func (s *feedService) Events(ctx context.Context, username, date string) ([]jsonlog.Entry, error) {
	entries, err := s.mirror.Filter(username, date)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	if entries == nil {
		entries = []jsonlog.Entry{}
	}
	return entries, nil
}

// Push validates and appends one externally submitted event, assigning the
// server time when the payload carries none.
func (s *feedService) Push(ctx context.Context, entry jsonlog.Entry) (*jsonlog.Entry, error) {
	if err := ValidateEvent(entry.Emotion, entry.Confidence); err != nil {
		return nil, err
	}
	if entry.Timestamp == "" {
		entry.Timestamp = jsonlog.FormatTime(s.now())
	}
	if err := s.mirror.Append(entry); err != nil {
		return nil, apperrors.Storage(err)
	}
	return &entry, nil
}
