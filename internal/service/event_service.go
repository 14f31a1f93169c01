package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	apperrors "emotivision/internal/errors"
	"emotivision/internal/jsonlog"
	"emotivision/internal/model"
	"emotivision/internal/repository"
)

// EventService is the append-only emotion event log.
type EventService interface {
	Append(ctx context.Context, username, emotion string, confidence float64, age, imagePath string) (*model.EmotionEvent, error)
	Query(ctx context.Context, username, date string) ([]model.EmotionEvent, error)
	Recent(ctx context.Context, username string, limit int) ([]model.EmotionEvent, error)
}

type eventService struct {
	events   repository.EventRepository
	sessions repository.SessionRepository
	mirror   *jsonlog.Store

	now func() time.Time
}

// NewEventService creates a new event log service. mirror may be nil to
// disable the JSON mirror.
func NewEventService(events repository.EventRepository, sessions repository.SessionRepository, mirror *jsonlog.Store) EventService {
	return &eventService{
		events:   events,
		sessions: sessions,
		mirror:   mirror,
		now:      time.Now,
	}
}

// ValidateEvent checks the emotion label and confidence bounds.
func ValidateEvent(emotion string, confidence float64) error {
	if !model.ValidEmotion(emotion) {
		return apperrors.InvalidEvent(fmt.Sprintf("unknown emotion %q", emotion))
	}
	if !model.ValidConfidence(confidence) {
		return apperrors.InvalidEvent(fmt.Sprintf("confidence %v outside [0, 1]", confidence))
	}
	return nil
}

// Append validates and stores one detection with a server-assigned timestamp,
// then mirrors it to the JSON file and bumps the open session's counter.
// The DB write and the mirror write are not one transaction; a crash between
// them can leave the mirror one entry behind.
func (s *eventService) Append(ctx context.Context, username, emotion string, confidence float64, age, imagePath string) (*model.EmotionEvent, error) {
	if err := ValidateEvent(emotion, confidence); err != nil {
		return nil, err
	}

	event := &model.EmotionEvent{
		ID:         uuid.New(),
		Username:   username,
		Emotion:    emotion,
		Confidence: confidence,
		Timestamp:  s.now(),
		Age:        age,
		ImagePath:  imagePath,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, apperrors.Storage(err)
	}

	if s.mirror != nil {
		if err := s.mirror.Append(jsonlog.Entry{
			Username:   event.Username,
			Emotion:    event.Emotion,
			Confidence: event.Confidence,
			Age:        event.Age,
			Timestamp:  jsonlog.FormatTime(event.Timestamp),
			ImagePath:  event.ImagePath,
		}); err != nil {
			log.Printf("emotion mirror append failed: %v", err)
		}
	}

	if err := s.sessions.IncrementDetections(ctx, username); err != nil {
		log.Printf("session detection counter update failed: %v", err)
	}

	return event, nil
}

// Query returns events filtered by user and calendar date (YYYY-MM-DD).
// By-user results come newest first; an unfiltered query returns the whole
// log in append order. No match is an empty slice, not an error.
func (s *eventService) Query(ctx context.Context, username, date string) ([]model.EmotionEvent, error) {
	var (
		events []model.EmotionEvent
		err    error
	)
	switch {
	case username != "" && date != "":
		events, err = s.events.FindByUserAndDate(ctx, username, date)
	case username != "":
		events, err = s.events.FindByUser(ctx, username)
	default:
		events, err = s.events.FindAll(ctx)
		if err == nil && date != "" {
			filtered := make([]model.EmotionEvent, 0, len(events))
			for _, e := range events {
				if e.Timestamp.Format("2006-01-02") == date {
					filtered = append(filtered, e)
				}
			}
			events = filtered
		}
	}
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	if events == nil {
		events = []model.EmotionEvent{}
	}
	return events, nil
}

// Recent returns at most limit most-recent events for the user.
func (s *eventService) Recent(ctx context.Context, username string, limit int) ([]model.EmotionEvent, error) {
	if limit <= 0 {
		limit = 10
	}
	events, err := s.events.Recent(ctx, username, limit)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	if events == nil {
		events = []model.EmotionEvent{}
	}
	return events, nil
}
