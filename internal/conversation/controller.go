package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/bytebender77/healthguide/internal/models"
	"github.com/bytebender77/healthguide/internal/store"
	"github.com/bytebender77/healthguide/internal/triage"
)

// Default messages synthesized by the controller.
const (
	// DefaultGreeting opens every conversation once a session exists.
	DefaultGreeting = "Hello! I'm HealthGuide, your fever helpline assistant. Tell me how you're feeling and I'll help you figure out what to do next."
	// ApologyMessage is appended when a triage exchange fails. The conversation stays
	// open so the user can retry.
	ApologyMessage = "I'm sorry, something went wrong while processing your message. Please try again in a moment."
)

// SessionAcquirer is the slice of the session manager the controller needs.
type SessionAcquirer interface {
	Acquire(ctx context.Context) models.Session
}

// Exchanger is the slice of the triage service client the controller needs.
type Exchanger interface {
	SubmitTurn(ctx context.Context, req triage.TurnRequest) (*triage.TurnResponse, error)
}

// TranscriptStore persists conversation transcripts for session continuity.
type TranscriptStore interface {
	SaveConversation(rec store.ConversationRecord) error
}

// Opts holds configuration options for the conversation controller.
type Opts struct {
	Provider    string          // assessment provider id, default per request builder
	Language    string          // language tag carried as request metadata
	Greeting    string          // greeting appended when the session is established
	Transcripts TranscriptStore // optional transcript persistence
}

// Option defines a configuration option for the conversation controller.
type Option func(*Opts)

// WithProvider selects the assessment provider passed on every turn.
func WithProvider(provider string) Option {
	return func(o *Opts) {
		o.Provider = provider
	}
}

// WithLanguage sets the language tag carried as request metadata.
func WithLanguage(language string) Option {
	return func(o *Opts) {
		o.Language = language
	}
}

// WithGreeting overrides the synthetic greeting message.
func WithGreeting(greeting string) Option {
	return func(o *Opts) {
		o.Greeting = greeting
	}
}

// WithTranscripts enables transcript persistence after each completed exchange.
func WithTranscripts(ts TranscriptStore) Option {
	return func(o *Opts) {
		o.Transcripts = ts
	}
}

// Controller owns the conversation state machine. It coordinates session identity,
// message ordering, prefill coordination and escalation detection.
//
// The store is mutated exclusively by the controller; UI collaborators observe
// snapshots and never receive callbacks.
type Controller struct {
	sessions    SessionAcquirer
	exchanger   Exchanger
	store       *Store
	transcripts TranscriptStore
	provider    string
	language    string
	greeting    string

	mu                sync.Mutex
	phase             models.ConversationPhase
	session           models.Session
	awaiting          bool
	showProviders     bool
	pending           []string // sends deferred until the session exists
	prefillText       string
	prefillStructured *models.StructuredSymptomInput
	prefillSent       bool // one-shot latch: the prefill is submitted at most once
}

// NewController creates a conversation controller with the given collaborators.
func NewController(sessions SessionAcquirer, exchanger Exchanger, opts ...Option) *Controller {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Greeting == "" {
		cfg.Greeting = DefaultGreeting
	}
	slog.Debug("conversation.NewController: creating controller",
		"provider", cfg.Provider, "language", cfg.Language, "hasTranscripts", cfg.Transcripts != nil)
	return &Controller{
		sessions:    sessions,
		exchanger:   exchanger,
		store:       NewStore(),
		transcripts: cfg.Transcripts,
		provider:    cfg.Provider,
		language:    cfg.Language,
		greeting:    cfg.Greeting,
		phase:       models.PhaseInitializing,
	}
}

// Start acquires the session, appends the greeting, and moves the controller to
// ACTIVE. It then dispatches the prefill (if one is waiting) and any sends that were
// deferred while initializing, in order. Calling Start more than once is a no-op.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	if c.phase != models.PhaseInitializing {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	sess := c.sessions.Acquire(ctx)

	c.mu.Lock()
	if c.phase != models.PhaseInitializing {
		// Another Start won the race; its session stands.
		c.mu.Unlock()
		return
	}
	c.session = sess
	c.store.Append(models.Message{Role: models.RoleAssistant, Content: c.greeting})
	c.phase = models.PhaseActive
	pending := c.pending
	c.pending = nil
	c.mu.Unlock()

	slog.Info("conversation.Controller.Start: conversation active",
		"sessionID", sess.ID, "origin", sess.Origin, "deferredSends", len(pending))

	c.firePrefill(ctx)
	for _, text := range pending {
		if err := c.send(ctx, text, nil); err != nil {
			slog.Warn("conversation.Controller.Start: deferred send rejected", "error", err)
		}
	}
}

// Resume restores a persisted conversation instead of acquiring a fresh session.
// Only valid before Start; the transcript's messages become the conversation history.
// A record closed by a red flag resumes in the terminal state with escalation intact.
func (c *Controller) Resume(rec store.ConversationRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != models.PhaseInitializing {
		return fmt.Errorf("resume: conversation already started")
	}
	if rec.SessionID == "" {
		return fmt.Errorf("resume: record has no session id")
	}
	c.session = models.Session{ID: rec.SessionID, Origin: models.SessionOriginRemote, CreatedAt: rec.CreatedAt}
	for _, msg := range rec.Messages {
		c.store.Append(msg)
	}
	if rec.RedFlag != "" {
		// The record was closed by a red flag; the conversation stays terminal.
		c.store.SetResult(models.TriageResult{
			TriageLevel:     rec.TriageLevel,
			Summary:         rec.Summary,
			RedFlagSymptom:  rec.RedFlag,
			RedFlagDetected: true,
		})
		c.showProviders = true
		c.phase = models.PhaseComplete
	} else {
		c.phase = models.PhaseActive
	}
	slog.Info("conversation.Controller.Resume: conversation restored",
		"sessionID", rec.SessionID, "messages", len(rec.Messages), "redFlag", rec.RedFlag != "")
	return nil
}

// SetPrefill supplies the externally provided prefill text and optional structured
// symptom input. The prefill is auto-submitted exactly once, as soon as both a
// session and non-empty text are available; repeated calls never cause a duplicate
// send, and the structured block rides only on that single send.
func (c *Controller) SetPrefill(ctx context.Context, text string, structured *models.StructuredSymptomInput) {
	c.mu.Lock()
	if c.prefillSent {
		c.mu.Unlock()
		slog.Debug("conversation.Controller.SetPrefill: prefill already sent, ignoring")
		return
	}
	c.prefillText = text
	c.prefillStructured = structured
	c.mu.Unlock()

	c.firePrefill(ctx)
}

// firePrefill submits the prefill when the latch allows it and the controller is
// ready. The latch is set before dispatch so a concurrent caller can never observe
// it unset after a send has begun. While an exchange is in flight the prefill stays
// armed; the tail of send re-fires it once the exchange resolves.
func (c *Controller) firePrefill(ctx context.Context) {
	c.mu.Lock()
	if c.prefillSent || c.awaiting || c.phase == models.PhaseInitializing || c.phase == models.PhaseComplete {
		c.mu.Unlock()
		return
	}
	text := strings.TrimSpace(c.prefillText)
	if text == "" {
		c.mu.Unlock()
		return
	}
	c.prefillSent = true
	structured := c.prefillStructured
	c.prefillStructured = nil
	c.mu.Unlock()

	slog.Debug("conversation.Controller.firePrefill: submitting prefill",
		"hasStructured", structured != nil)
	if err := c.send(ctx, text, structured); err != nil {
		slog.Warn("conversation.Controller.firePrefill: prefill send rejected", "error", err)
	}
}

// Send submits a user-typed message as one triage exchange.
//
// Empty or whitespace-only text is rejected before dispatch with ErrEmptyMessage and
// causes no state change. A send while an exchange is in flight is rejected with
// ErrAwaitingResponse, store unchanged. A send after completion is a silent no-op.
// Sends before the session exists are deferred and dispatched by Start, in order.
// An exchange failure is not surfaced as an error: the controller appends a fixed
// apology message and returns to ACTIVE so the user can retry.
func (c *Controller) Send(ctx context.Context, text string) error {
	return c.send(ctx, text, nil)
}

func (c *Controller) send(ctx context.Context, text string, structured *models.StructuredSymptomInput) error {
	trimmed, err := models.ValidateOutgoingText(text)
	if err != nil {
		slog.Debug("conversation.Controller.send: text rejected before dispatch", "error", err)
		return err
	}

	c.mu.Lock()
	switch c.phase {
	case models.PhaseComplete:
		c.mu.Unlock()
		slog.Debug("conversation.Controller.send: conversation complete, ignoring send")
		return nil
	case models.PhaseInitializing:
		c.pending = append(c.pending, trimmed)
		c.mu.Unlock()
		slog.Debug("conversation.Controller.send: no session yet, send deferred")
		return nil
	}
	if c.awaiting {
		c.mu.Unlock()
		slog.Debug("conversation.Controller.send: exchange already in flight, rejecting")
		return models.ErrAwaitingResponse
	}

	// Build from the pre-send history so the outgoing message is excluded.
	req, err := triage.BuildTurnRequest(c.session, c.store.History(), trimmed, c.provider, c.language, structured)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.store.Append(models.Message{Role: models.RoleUser, Content: trimmed})
	c.awaiting = true
	c.phase = models.PhaseAwaitingResponse
	c.mu.Unlock()

	resp, exchangeErr := c.exchanger.SubmitTurn(ctx, req)

	c.mu.Lock()
	c.awaiting = false

	if exchangeErr != nil {
		slog.Warn("conversation.Controller.send: exchange failed, conversation stays open",
			"error", exchangeErr, "sessionID", c.session.ID)
		c.store.Append(models.Message{Role: models.RoleAssistant, Content: ApologyMessage})
		c.phase = models.PhaseActive
		c.flushTranscriptLocked()
	} else {
		c.applyResponseLocked(resp)
		c.flushTranscriptLocked()
	}
	c.mu.Unlock()

	// A prefill that arrived while this exchange was in flight dispatches now.
	c.firePrefill(ctx)
	return nil
}

// applyResponseLocked applies a successful exchange to the store and advances the
// state machine. Caller holds c.mu.
func (c *Controller) applyResponseLocked(resp *triage.TurnResponse) {
	if resp.Message != "" {
		c.store.Append(models.Message{Role: models.RoleAssistant, Content: resp.Message})
	}
	if resp.Result != nil {
		c.store.SetResult(*resp.Result)
	}

	outcome := models.OutcomeFor(resp.Result)
	if outcome == models.OutcomeContinue && resp.ConversationComplete {
		outcome = models.OutcomeComplete
	}

	switch outcome {
	case models.OutcomeEscalated:
		// Set once; the controller never clears it within the session.
		c.showProviders = true
		c.store.MarkComplete(true)
		c.phase = models.PhaseComplete
		slog.Info("conversation.Controller: red flag detected, conversation escalated",
			"sessionID", c.session.ID)
	case models.OutcomeComplete:
		c.store.MarkComplete(true)
		c.phase = models.PhaseComplete
		slog.Info("conversation.Controller: conversation complete", "sessionID", c.session.ID)
	default:
		c.phase = models.PhaseActive
	}
}

// flushTranscriptLocked persists the transcript when a store is configured.
// Persistence failures are logged, never surfaced; they do not affect the turn.
// Caller holds c.mu.
func (c *Controller) flushTranscriptLocked() {
	if c.transcripts == nil {
		return
	}
	rec := store.ConversationRecord{
		SessionID: c.session.ID,
		Messages:  c.store.History(),
		CreatedAt: c.session.CreatedAt,
		UpdatedAt: time.Now(),
	}
	if result := c.store.Result(); result != nil {
		rec.TriageLevel = result.TriageLevel
		rec.Summary = result.Summary
		rec.RedFlag = result.RedFlagSymptom
	}
	if err := c.transcripts.SaveConversation(rec); err != nil {
		slog.Warn("conversation.Controller: transcript save failed",
			"error", err, "sessionID", rec.SessionID)
	}
}

// Session returns the session owned by the controller. Zero until Start completes.
func (c *Controller) Session() models.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Snapshot returns the conversation state for UI collaborators. Messages and result
// are copies; mutating them does not affect the controller.
func (c *Controller) Snapshot() models.ConversationState {
	c.mu.Lock()
	phase := c.phase
	awaiting := c.awaiting
	showProviders := c.showProviders
	c.mu.Unlock()

	return models.ConversationState{
		Phase:            phase,
		Messages:         c.store.History(),
		Result:           c.store.Result(),
		Complete:         c.store.Complete(),
		Escalated:        c.store.Escalated(),
		AwaitingResponse: awaiting,
		ShowProviders:    showProviders,
	}
}
