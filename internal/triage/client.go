// Package triage wraps the remote HealthGuide assessment service for the client.
//
// It provides the HTTP client for session creation, triage turns, provider lookups,
// temperature tracking and conversation summaries, plus the request builder that
// assembles a triage turn from conversation state.
package triage

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/bytebender77/healthguide/internal/models"
)

// Constants for triage client configuration
const (
	// DefaultBaseURL is the default address of the HealthGuide API.
	DefaultBaseURL = "http://localhost:8000"
	// DefaultTimeout bounds every call to the service. A timeout surfaces as an
	// ordinary exchange failure to the caller.
	DefaultTimeout = 30 * time.Second
)

// Opts holds configuration options for the triage service client.
type Opts struct {
	BaseURL    string        // base URL of the HealthGuide API
	Timeout    time.Duration // per-request timeout
	HTTPClient *http.Client  // underlying HTTP client, primarily for tests
}

// Option defines a configuration option for the triage service client.
type Option func(*Opts)

// WithBaseURL sets the base URL of the HealthGuide API.
func WithBaseURL(url string) Option {
	return func(o *Opts) {
		o.BaseURL = url
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *Opts) {
		o.Timeout = d
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Opts) {
		o.HTTPClient = c
	}
}

// Client talks to the remote triage service over HTTP.
type Client struct {
	http *resty.Client
}

// NewClient creates a triage service client based on provided options.
func NewClient(opts ...Option) *Client {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	var rc *resty.Client
	if cfg.HTTPClient != nil {
		rc = resty.NewWithClient(cfg.HTTPClient)
	} else {
		rc = resty.New()
	}
	rc.SetBaseURL(cfg.BaseURL)
	rc.SetTimeout(cfg.Timeout)
	rc.SetHeader("Content-Type", "application/json")

	slog.Debug("triage.NewClient: created client", "baseURL", cfg.BaseURL, "timeout", cfg.Timeout)
	return &Client{http: rc}
}

// sessionResponse is the wire shape of the create-session endpoint.
type sessionResponse struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message,omitempty"`
}

// CreateSession asks the service for a new opaque session identifier.
func (c *Client) CreateSession(ctx context.Context) (string, error) {
	var out sessionResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Post("/api/session")
	if err != nil {
		slog.Debug("triage.CreateSession: request failed", "error", err)
		return "", fmt.Errorf("create session: %w", err)
	}
	if resp.IsError() {
		slog.Debug("triage.CreateSession: service error", "status", resp.StatusCode())
		return "", fmt.Errorf("create session: service returned %s", resp.Status())
	}
	if out.SessionID == "" {
		return "", fmt.Errorf("create session: empty session id in response")
	}
	slog.Debug("triage.CreateSession: session created", "sessionID", out.SessionID)
	return out.SessionID, nil
}

// SubmitTurn sends one triage exchange and returns the service's reply.
func (c *Client) SubmitTurn(ctx context.Context, req TurnRequest) (*TurnResponse, error) {
	var out TurnResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post("/api/triage")
	if err != nil {
		slog.Debug("triage.SubmitTurn: request failed", "error", err, "sessionID", req.SessionID)
		return nil, fmt.Errorf("submit triage turn: %w", err)
	}
	if resp.IsError() {
		slog.Debug("triage.SubmitTurn: service error", "status", resp.StatusCode(), "sessionID", req.SessionID)
		return nil, fmt.Errorf("submit triage turn: service returned %s", resp.Status())
	}
	slog.Debug("triage.SubmitTurn: turn accepted",
		"sessionID", req.SessionID,
		"hasResult", out.Result != nil,
		"conversationComplete", out.ConversationComplete)
	return &out, nil
}

// LLMProviderList is the set of assessment providers advertised by the service.
type LLMProviderList struct {
	Providers []models.LLMProvider `json:"providers"`
	Default   string               `json:"default"`
}

// ListLLMProviders fetches the available assessment providers and the default choice.
func (c *Client) ListLLMProviders(ctx context.Context) (*LLMProviderList, error) {
	var out LLMProviderList
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/llm-providers")
	if err != nil {
		return nil, fmt.Errorf("list assessment providers: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("list assessment providers: service returned %s", resp.Status())
	}
	return &out, nil
}

// ProviderSearchRequest asks for healthcare providers near a location.
type ProviderSearchRequest struct {
	Location     string  `json:"location"`
	ProviderType string  `json:"provider_type,omitempty"`
	RadiusKM     float64 `json:"radius_km,omitempty"`
}

// SearchProviders fetches nearby healthcare providers for escalation follow-up.
func (c *Client) SearchProviders(ctx context.Context, req ProviderSearchRequest) ([]models.Provider, error) {
	var out []models.Provider
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post("/api/providers")
	if err != nil {
		return nil, fmt.Errorf("search providers: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("search providers: service returned %s", resp.Status())
	}
	slog.Debug("triage.SearchProviders: providers fetched", "count", len(out))
	return out, nil
}

// LogTemperature records a temperature reading for a session.
// The endpoint takes its inputs as query parameters.
func (c *Client) LogTemperature(ctx context.Context, reading models.TemperatureReading) (*models.TemperatureReading, error) {
	params := map[string]string{
		"session_id":  reading.SessionID,
		"temperature": strconv.FormatFloat(reading.Temperature, 'f', -1, 64),
		"unit":        reading.Unit,
	}
	if reading.Notes != "" {
		params["notes"] = reading.Notes
	}

	var out models.TemperatureReading
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&out).
		Post("/api/temperature")
	if err != nil {
		return nil, fmt.Errorf("log temperature: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("log temperature: service returned %s", resp.Status())
	}
	return &out, nil
}

// temperatureHistoryResponse is the wire shape of the temperature history endpoint.
type temperatureHistoryResponse struct {
	SessionID    string                      `json:"session_id"`
	Temperatures []models.TemperatureReading `json:"temperatures"`
}

// TemperatureHistory fetches the logged temperature readings for a session.
func (c *Client) TemperatureHistory(ctx context.Context, sessionID string) ([]models.TemperatureReading, error) {
	var out temperatureHistoryResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/temperature/" + sessionID)
	if err != nil {
		return nil, fmt.Errorf("temperature history: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("temperature history: service returned %s", resp.Status())
	}
	return out.Temperatures, nil
}

// Summary fetches the conversation summary for a session.
func (c *Client) Summary(ctx context.Context, sessionID string) (*models.ConversationSummary, error) {
	var out models.ConversationSummary
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/summary/" + sessionID)
	if err != nil {
		return nil, fmt.Errorf("conversation summary: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("conversation summary: service returned %s", resp.Status())
	}
	return &out, nil
}
