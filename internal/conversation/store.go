// Package conversation implements the triage conversation core: the append-only
// message store and the controller that drives send/receive cycles against the
// remote assessment service.
package conversation

import (
	"log/slog"
	"sync"
	"time"

	"github.com/bytebender77/healthguide/internal/models"
)

// Store is the ordered conversation log plus completion and escalation flags.
//
// The controller is the only writer; collaborators read snapshots. The mutex makes
// snapshot reads safe while the controller mutates between them.
type Store struct {
	mu        sync.Mutex
	messages  []models.Message
	result    *models.TriageResult
	complete  bool
	escalated bool
}

// NewStore creates an empty conversation store.
func NewStore() *Store {
	return &Store{}
}

// Append adds a message to the end of the log, preserving insertion order.
func (s *Store) Append(msg models.Message) {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	slog.Debug("conversation.Store.Append: message appended", "role", msg.Role, "count", len(s.messages))
}

// History returns a snapshot of the message log. The returned slice is a copy and is
// safe to iterate while later mutations occur.
func (s *Store) History() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of messages in the log.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// SetResult replaces the current triage result. A detected red flag forces both the
// escalated and complete flags, regardless of what conversationComplete carried in
// the same payload.
func (s *Store) SetResult(result models.TriageResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := result
	s.result = &r
	if result.RedFlagDetected {
		s.escalated = true
		s.complete = true
		slog.Debug("conversation.Store.SetResult: red flag detected, escalating", "symptom", result.RedFlagSymptom)
		return
	}
	if result.ConversationComplete {
		s.complete = true
	}
	slog.Debug("conversation.Store.SetResult: result replaced", "level", result.TriageLevel, "complete", s.complete)
}

// Result returns a copy of the current triage result, or nil when none has arrived.
func (s *Store) Result() *models.TriageResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return nil
	}
	r := *s.result
	return &r
}

// MarkComplete sets the complete flag. Completion is monotonic: attempting to unset
// it is a no-op, not an error.
func (s *Store) MarkComplete(complete bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !complete {
		if s.complete {
			slog.Debug("conversation.Store.MarkComplete: ignoring attempt to unset complete")
		}
		return
	}
	s.complete = true
}

// Complete reports whether the conversation has finished.
func (s *Store) Complete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.complete
}

// Escalated reports whether a red flag forced the conversation closed.
func (s *Store) Escalated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.escalated
}
