// Package jsonlog maintains the append-only JSON mirror of the emotion event
// log. The file gives external consumers (the personalization API) a cheap
// read path that does not touch the database.
package jsonlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// TimeLayout is the timestamp format written to the mirror file.
const TimeLayout = "2006-01-02 15:04:05"

// Entry is one mirrored emotion event.
type Entry struct {
	Username   string  `json:"username,omitempty"`
	Emotion    string  `json:"emotion"`
	Confidence float64 `json:"confidence"`
	Age        string  `json:"age,omitempty"`
	Timestamp  string  `json:"timestamp"`
	ImagePath  string  `json:"image_path,omitempty"`
}

// Format identifies the on-disk shape of the mirror file.
type Format int

const (
	// FormatCurrent is a flat ordered list of entries.
	FormatCurrent Format = iota
	// FormatLegacy is an object whose "sessions" key holds the list.
	FormatLegacy
)

// Store reads and appends the mirror file. Writes always produce the current
// flat-list format; reads accept both shapes and resolve them once at load.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a store over the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Decode resolves raw file contents into canonical entries and reports which
// format was found.
func Decode(data []byte) ([]Entry, Format, error) {
	var flat []Entry
	if err := json.Unmarshal(data, &flat); err == nil {
		return flat, FormatCurrent, nil
	}

	var legacy struct {
		Sessions []Entry `json:"sessions"`
	}
	if err := json.Unmarshal(data, &legacy); err == nil {
		return legacy.Sessions, FormatLegacy, nil
	}

	return nil, FormatCurrent, fmt.Errorf("unrecognized emotion data format")
}

// Load returns all mirrored entries in append order. A missing file is an
// empty log, not an error.
func (s *Store) Load() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() ([]Entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read emotion data: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	entries, _, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Append adds one entry to the mirror, rewriting the file in the current
// format regardless of the shape it was loaded in.
func (s *Store) Append(entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}
	entries = append(entries, entry)

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal emotion data: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write emotion data: %w", err)
	}
	return nil
}

// Latest returns the most recently appended entry, or false when the log is
// empty.
func (s *Store) Latest() (Entry, bool, error) {
	entries, err := s.Load()
	if err != nil {
		return Entry{}, false, err
	}
	if len(entries) == 0 {
		return Entry{}, false, nil
	}
	return entries[len(entries)-1], true, nil
}

// Filter returns entries matching the given username and calendar-date
// prefix. Empty arguments match everything.
func (s *Store) Filter(username, date string) ([]Entry, error) {
	entries, err := s.Load()
	if err != nil {
		return nil, err
	}

	filtered := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if username != "" && e.Username != username {
			continue
		}
		if date != "" && !strings.HasPrefix(e.Timestamp, date) {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered, nil
}

// EmotionCounts tallies entries per emotion label across the whole mirror.
func (s *Store) EmotionCounts() (map[string]int64, error) {
	entries, err := s.Load()
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64)
	for _, e := range entries {
		if e.Emotion != "" {
			counts[e.Emotion]++
		}
	}
	return counts, nil
}

// AgeCounts tallies entries per age bucket, skipping entries without one.
func (s *Store) AgeCounts() (map[string]int64, error) {
	entries, err := s.Load()
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64)
	for _, e := range entries {
		if e.Age != "" {
			counts[e.Age]++
		}
	}
	return counts, nil
}

// FormatTime renders t in the mirror's timestamp layout.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}
