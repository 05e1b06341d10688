// Package models defines state machine structures for the conversation controller.
package models

// ConversationPhase represents the controller's position in its state machine.
type ConversationPhase string

const (
	// PhaseInitializing covers the window before a session exists and the greeting
	// has been appended.
	PhaseInitializing ConversationPhase = "INITIALIZING"
	// PhaseActive means the controller is ready to accept a send.
	PhaseActive ConversationPhase = "ACTIVE"
	// PhaseAwaitingResponse means exactly one triage exchange is in flight.
	PhaseAwaitingResponse ConversationPhase = "AWAITING_RESPONSE"
	// PhaseComplete is terminal; further sends are silently ignored.
	PhaseComplete ConversationPhase = "COMPLETE"
)

// TurnOutcome is the tagged outcome derived from the two completion flags of a triage
// response. Escalated takes precedence over Complete whenever the red flag is set,
// regardless of what conversationComplete carried in the same payload.
type TurnOutcome string

const (
	// OutcomeContinue means the conversation stays open for further turns.
	OutcomeContinue TurnOutcome = "continue"
	// OutcomeComplete means the service signalled normal completion.
	OutcomeComplete TurnOutcome = "complete"
	// OutcomeEscalated means a red flag was detected and the conversation is over.
	OutcomeEscalated TurnOutcome = "escalated"
)

// OutcomeFor derives the turn outcome from a triage result. A nil result always
// continues the conversation.
func OutcomeFor(result *TriageResult) TurnOutcome {
	if result == nil {
		return OutcomeContinue
	}
	if result.RedFlagDetected {
		return OutcomeEscalated
	}
	if result.ConversationComplete {
		return OutcomeComplete
	}
	return OutcomeContinue
}

// ConversationState is the snapshot the controller exposes to UI collaborators.
// Messages is a copy; mutating it does not affect the store.
type ConversationState struct {
	Phase            ConversationPhase `json:"phase"`
	Messages         []Message         `json:"messages"`
	Result           *TriageResult     `json:"result,omitempty"`
	Complete         bool              `json:"complete"`
	Escalated        bool              `json:"escalated"`
	AwaitingResponse bool              `json:"awaiting_response"`
	ShowProviders    bool              `json:"show_providers"`
}
