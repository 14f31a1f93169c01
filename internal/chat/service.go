package chat

import (
	"context"
	"sync"
	"time"
)

// maxHistory caps per-user history to bound memory.
const maxHistory = 50

// Turn is one exchange in a conversation.
type Turn struct {
	Timestamp string `json:"timestamp"`
	User      string `json:"user"`
	Bot       string `json:"bot"`
}

// Generator produces a reply for a prompt. *Client satisfies it; tests swap
// in a fake.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Service holds session-scoped conversation history per user. It implements
// session.Resettable so logout wipes the history.
type Service struct {
	generator Generator

	mu      sync.Mutex
	history map[string][]Turn

	now func() time.Time
}

// NewService creates a chat service around a generator.
func NewService(generator Generator) *Service {
	return &Service{
		generator: generator,
		history:   make(map[string][]Turn),
		now:       time.Now,
	}
}

// Send forwards the message (with optional emotion context) and records the
// exchange in the user's history.
func (s *Service) Send(ctx context.Context, username, message, emotionContext string) (string, error) {
	reply, err := s.generator.Generate(ctx, BuildPrompt(message, emotionContext))
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	turns := append(s.history[username], Turn{
		Timestamp: s.now().Format("2006-01-02 15:04:05"),
		User:      message,
		Bot:       reply,
	})
	if len(turns) > maxHistory {
		turns = turns[len(turns)-maxHistory:]
	}
	s.history[username] = turns
	s.mu.Unlock()

	return reply, nil
}

// History returns a copy of the user's conversation so far.
func (s *Service) History(username string) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	turns := s.history[username]
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}

// Reset clears the user's history. Called by the session manager on logout.
func (s *Service) Reset(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.history, username)
}
