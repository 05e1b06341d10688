// Package store provides transcript persistence for the HealthGuide client.
//
// It includes an in-memory store plus SQLite and PostgreSQL backends, used to keep
// conversation transcripts and temperature logs across client restarts so a session
// can be resumed.
package store

import (
	"sort"
	"sync"
	"time"

	"github.com/bytebender77/healthguide/internal/models"
)

// ConversationRecord is one persisted conversation transcript.
type ConversationRecord struct {
	SessionID   string           `json:"session_id"`
	Messages    []models.Message `json:"messages"`
	TriageLevel string           `json:"triage_level,omitempty"`
	Summary     string           `json:"summary,omitempty"`
	RedFlag     string           `json:"red_flag,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// Store is the persistence interface shared by all backends.
type Store interface {
	// SaveConversation inserts or updates the transcript for a session.
	SaveConversation(rec ConversationRecord) error

	// GetConversation retrieves a transcript by session id, nil when not found.
	GetConversation(sessionID string) (*ConversationRecord, error)

	// AddTemperature appends a temperature reading for a session.
	AddTemperature(reading models.TemperatureReading) error

	// GetTemperatureHistory returns readings for a session, newest first,
	// capped at limit when limit > 0.
	GetTemperatureHistory(sessionID string, limit int) ([]models.TemperatureReading, error)

	// Close releases the backend's resources.
	Close() error
}

// InMemoryStore keeps transcripts in process memory. Used in tests and when no
// database DSN is configured.
type InMemoryStore struct {
	mu            sync.Mutex
	conversations map[string]ConversationRecord
	temperatures  []models.TemperatureReading
	nextTempID    int64
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		conversations: make(map[string]ConversationRecord),
		nextTempID:    1,
	}
}

func (s *InMemoryStore) SaveConversation(rec ConversationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.conversations[rec.SessionID]; ok && !existing.CreatedAt.IsZero() {
		rec.CreatedAt = existing.CreatedAt
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now()
	}
	msgs := make([]models.Message, len(rec.Messages))
	copy(msgs, rec.Messages)
	rec.Messages = msgs
	s.conversations[rec.SessionID] = rec
	return nil
}

func (s *InMemoryStore) GetConversation(sessionID string) (*ConversationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.conversations[sessionID]
	if !ok {
		return nil, nil
	}
	out := rec
	out.Messages = make([]models.Message, len(rec.Messages))
	copy(out.Messages, rec.Messages)
	return &out, nil
}

func (s *InMemoryStore) AddTemperature(reading models.TemperatureReading) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	reading.ID = s.nextTempID
	s.nextTempID++
	if reading.RecordedAt.IsZero() {
		reading.RecordedAt = time.Now()
	}
	s.temperatures = append(s.temperatures, reading)
	return nil
}

func (s *InMemoryStore) GetTemperatureHistory(sessionID string, limit int) ([]models.TemperatureReading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.TemperatureReading
	for _, r := range s.temperatures {
		if r.SessionID == sessionID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordedAt.After(out[j].RecordedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *InMemoryStore) Close() error {
	return nil
}
