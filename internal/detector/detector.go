// Package detector runs the real-time detection loop: a caller-owned ticker
// polls a frame source, hands each frame to a classifier, and appends the
// result to the event log. The camera and the CNN stay behind interfaces;
// nothing here owns hidden control flow.
package detector

import (
	"context"
	"errors"
	"log"
	"time"

	"emotivision/internal/model"
	"emotivision/internal/service"
)

// ErrNoFrame signals that the source has no frame right now; the runner
// skips the tick and keeps polling.
var ErrNoFrame = errors.New("no frame available")

// Frame is one captured camera image.
type Frame []byte

// FrameSource produces frames on demand.
type FrameSource interface {
	NextFrame(ctx context.Context) (Frame, error)
}

// Detection is a classified face.
type Detection struct {
	Emotion    string
	Confidence float64
	Age        string
}

// Classifier runs the pre-trained models over a frame. A nil detection with
// nil error means no face was found.
type Classifier interface {
	Classify(ctx context.Context, frame Frame) (*Detection, error)
}

// Runner polls the source at a fixed interval and logs detections for one
// authenticated user.
type Runner struct {
	source     FrameSource
	classifier Classifier
	events     service.EventService
	username   string
	interval   time.Duration
}

// NewRunner creates a detection runner for the given user.
func NewRunner(source FrameSource, classifier Classifier, events service.EventService, username string, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = time.Second
	}
	return &Runner{
		source:     source,
		classifier: classifier,
		events:     events,
		username:   username,
		interval:   interval,
	}
}

// Run polls until ctx is cancelled or the frame source fails. It returns the
// number of events appended. Classifier errors are logged and skipped so one
// bad frame does not end the session.
func (r *Runner) Run(ctx context.Context) (int, error) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	appended := 0
	for {
		select {
		case <-ctx.Done():
			return appended, ctx.Err()
		case <-ticker.C:
			event, err := r.tick(ctx)
			if err != nil {
				if errors.Is(err, ErrNoFrame) {
					continue
				}
				return appended, err
			}
			if event != nil {
				appended++
			}
		}
	}
}

func (r *Runner) tick(ctx context.Context) (*model.EmotionEvent, error) {
	frame, err := r.source.NextFrame(ctx)
	if err != nil {
		return nil, err
	}

	detection, err := r.classifier.Classify(ctx, frame)
	if err != nil {
		log.Printf("classify frame: %v", err)
		return nil, nil
	}
	if detection == nil {
		// no face in frame
		return nil, nil
	}

	return r.events.Append(ctx, r.username, detection.Emotion, detection.Confidence, detection.Age, "")
}
