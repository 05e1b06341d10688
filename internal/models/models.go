// Package models defines the core data structures for the HealthGuide triage client.
//
// It includes types for sessions, conversation messages, structured symptom input,
// and triage results, which are shared across modules.
package models

import (
	"errors"
	"strings"
	"time"
)

// MessageRole identifies the author of a conversation message.
type MessageRole string

const (
	// RoleUser marks a message typed (or prefilled) by the user.
	RoleUser MessageRole = "user"
	// RoleAssistant marks a message produced by the triage service or synthesized locally.
	RoleAssistant MessageRole = "assistant"
)

// SessionOrigin records how a session identifier was obtained.
type SessionOrigin string

const (
	// SessionOriginRemote means the identifier was issued by the triage service.
	SessionOriginRemote SessionOrigin = "remote"
	// SessionOriginLocalFallback means the identifier was synthesized locally after a
	// failed creation call. The conversation proceeds without server-side tracking.
	SessionOriginLocalFallback SessionOrigin = "local-fallback"
)

// Validation constants for outgoing messages.
const (
	// MaxMessageLength defines the maximum allowed length for an outgoing message.
	MaxMessageLength = 4096
	// DefaultProvider is the assessment provider used when the caller selects none.
	DefaultProvider = "openai"
	// DefaultLanguage is the language tag attached to requests when none is selected.
	DefaultLanguage = "en"
)

// Error variables for better error handling and testability
var (
	ErrEmptyMessage         = errors.New("message is empty after trimming whitespace")
	ErrMessageTooLong       = errors.New("message exceeds maximum length")
	ErrAwaitingResponse     = errors.New("a triage exchange is already in flight")
	ErrConversationComplete = errors.New("conversation is complete")
	ErrNoSession            = errors.New("no session has been acquired")
)

// Session scopes one triage conversation with the remote service.
// Created once per controller, never mutated.
type Session struct {
	ID        string        `json:"id"`
	Origin    SessionOrigin `json:"origin"`
	CreatedAt time.Time     `json:"created_at"`
}

// Remote reports whether the session is tracked by the triage service.
func (s Session) Remote() bool {
	return s.Origin == SessionOriginRemote
}

// Message represents a single message in the conversation history.
type Message struct {
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}

// StructuredSymptomInput carries a machine-readable symptom selection produced by the
// symptom picklist. It is attached to at most one outgoing message (the prefill send).
type StructuredSymptomInput struct {
	Symptoms          []string            `json:"symptoms"`
	ByCategory        map[string][]string `json:"by_category,omitempty"`
	EmergencyDetected bool                `json:"emergency_detected"`
	TotalSelected     int                 `json:"total_selected"`
	Language          string              `json:"language,omitempty"`
}

// TriageResult is the structured assessment payload returned by the service.
// ConversationComplete and RedFlagDetected are the two flags the controller acts on;
// the remaining fields are opaque assessment content surfaced to the UI.
type TriageResult struct {
	TriageLevel          string   `json:"triage_level,omitempty"`
	Escalate             bool     `json:"escalate,omitempty"`
	Summary              string   `json:"summary,omitempty"`
	RecommendedNextSteps []string `json:"recommended_next_steps,omitempty"`
	NextQuestion         string   `json:"next_question,omitempty"`
	RedFlagSymptom       string   `json:"red_flag_symptom,omitempty"`
	ConversationComplete bool     `json:"conversationComplete"`
	RedFlagDetected      bool     `json:"redFlagDetected"`
}

// Provider describes a healthcare provider returned by the provider search.
type Provider struct {
	Name     string  `json:"name"`
	Address  string  `json:"address,omitempty"`
	Phone    string  `json:"phone,omitempty"`
	Type     string  `json:"type,omitempty"`
	Distance float64 `json:"distance_km,omitempty"`
}

// LLMProvider describes an assessment provider advertised by the triage service.
type LLMProvider struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

// TemperatureReading is a single logged temperature for a session.
type TemperatureReading struct {
	ID          int64     `json:"id,omitempty"`
	SessionID   string    `json:"session_id"`
	Temperature float64   `json:"temperature"`
	Unit        string    `json:"unit"` // "F" or "C"
	RecordedAt  time.Time `json:"recorded_at"`
	Notes       string    `json:"notes,omitempty"`
}

// ConversationSummary is the per-session summary exposed by the triage service.
type ConversationSummary struct {
	SessionID            string   `json:"session_id"`
	Summary              string   `json:"summary"`
	TriageLevel          string   `json:"triage_level,omitempty"`
	RecommendedNextSteps []string `json:"recommended_next_steps,omitempty"`
	ConversationCount    int      `json:"conversation_count"`
}

// ValidateOutgoingText checks an outgoing message before it is built into a request.
// Returns the trimmed text, or an error when the message must be rejected pre-dispatch.
func ValidateOutgoingText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", ErrEmptyMessage
	}
	if len(trimmed) > MaxMessageLength {
		return "", ErrMessageTooLong
	}
	return trimmed, nil
}
