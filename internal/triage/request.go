package triage

import (
	"github.com/bytebender77/healthguide/internal/models"
)

// HistoryEntry is a role/content pair replayed to the service as prior history.
// Timestamps stay local; the service only sees role and content.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SymptomData is the structured symptom block attached to at most one turn.
type SymptomData struct {
	Symptoms          []string            `json:"symptoms"`
	ByCategory        map[string][]string `json:"by_category,omitempty"`
	EmergencyDetected bool                `json:"emergency_detected"`
	TotalSelected     int                 `json:"total_selected"`
	Language          string              `json:"language,omitempty"`
}

// TurnRequest is the wire request for one triage exchange.
type TurnRequest struct {
	SessionID           string         `json:"session_id"`
	Message             string         `json:"message"`
	ConversationHistory []HistoryEntry `json:"conversation_history"`
	LLMProvider         string         `json:"llm_provider"`
	Language            string         `json:"language,omitempty"`
	SymptomData         *SymptomData   `json:"symptom_data,omitempty"`
}

// TurnResponse is the wire response for one triage exchange. The completion flag
// appears both at the top level and inside the result; the controller honours either.
type TurnResponse struct {
	SessionID            string               `json:"session_id"`
	Message              string               `json:"message"`
	Result               *models.TriageResult `json:"triage_result,omitempty"`
	ConversationComplete bool                 `json:"conversation_complete"`
}

// BuildTurnRequest assembles a triage turn from conversation state.
//
// history is the prior conversation only; the outgoing message must not be in it.
// The structured symptom block is attached only when structured is non-nil, which the
// controller guarantees happens for at most one send (the prefill) per conversation.
// Empty or whitespace-only text is rejected before any network dispatch.
func BuildTurnRequest(session models.Session, history []models.Message, text, provider, language string, structured *models.StructuredSymptomInput) (TurnRequest, error) {
	trimmed, err := models.ValidateOutgoingText(text)
	if err != nil {
		return TurnRequest{}, err
	}

	if provider == "" {
		provider = models.DefaultProvider
	}
	if language == "" {
		language = models.DefaultLanguage
	}

	entries := make([]HistoryEntry, 0, len(history))
	for _, msg := range history {
		entries = append(entries, HistoryEntry{Role: string(msg.Role), Content: msg.Content})
	}

	req := TurnRequest{
		SessionID:           session.ID,
		Message:             trimmed,
		ConversationHistory: entries,
		LLMProvider:         provider,
		Language:            language,
	}

	if structured != nil {
		lang := structured.Language
		if lang == "" {
			lang = language
		}
		req.SymptomData = &SymptomData{
			Symptoms:          structured.Symptoms,
			ByCategory:        structured.ByCategory,
			EmergencyDetected: structured.EmergencyDetected,
			TotalSelected:     structured.TotalSelected,
			Language:          lang,
		}
	}

	return req, nil
}
