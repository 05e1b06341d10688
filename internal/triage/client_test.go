package triage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytebender77/healthguide/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return NewClient(WithBaseURL(srv.URL))
}

func TestCreateSession(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/session" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"session_id": "abc123", "message": "New session created"})
	})

	id, err := c.CreateSession(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "abc123" {
		t.Errorf("expected session id abc123, got %q", id)
	}
}

func TestCreateSessionEmptyID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"message": "no id"})
	})

	if _, err := c.CreateSession(context.Background()); err == nil {
		t.Error("expected error for empty session id")
	}
}

func TestCreateSessionServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	if _, err := c.CreateSession(context.Background()); err == nil {
		t.Error("expected error for 500 response")
	}
}

func TestSubmitTurn(t *testing.T) {
	var got TurnRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/triage" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		json.NewEncoder(w).Encode(TurnResponse{
			SessionID: got.SessionID,
			Message:   "How long have you had the fever?",
			Result: &models.TriageResult{
				TriageLevel:          "follow_up",
				ConversationComplete: false,
				RedFlagDetected:      false,
			},
		})
	})

	req, err := BuildTurnRequest(testSession(), nil, "I have a fever", "", "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp, err := c.SubmitTurn(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.SessionID != "abc123" {
		t.Errorf("request did not carry session id, got %q", got.SessionID)
	}
	if len(got.ConversationHistory) != 0 {
		t.Errorf("first turn should carry empty history, got %d entries", len(got.ConversationHistory))
	}
	if resp.Message == "" || resp.Result == nil {
		t.Fatal("response not decoded")
	}
	if resp.Result.RedFlagDetected || resp.Result.ConversationComplete {
		t.Error("unexpected completion flags")
	}
}

func TestSubmitTurnServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	})

	req, _ := BuildTurnRequest(testSession(), nil, "hello", "", "", nil)
	if _, err := c.SubmitTurn(context.Background(), req); err == nil {
		t.Error("expected error for 503 response")
	}
}

func TestListLLMProviders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/llm-providers" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(LLMProviderList{
			Providers: []models.LLMProvider{
				{ID: "openai", Name: "OpenAI (GPT-4o Mini)", Available: true},
				{ID: "gemini", Name: "Google Gemini 2.0 Flash", Available: false},
			},
			Default: "openai",
		})
	})

	list, err := c.ListLLMProviders(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list.Providers) != 2 || list.Default != "openai" {
		t.Errorf("provider list not decoded: %+v", list)
	}
}

func TestSearchProviders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req ProviderSearchRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Location != "Mumbai" {
			t.Errorf("expected location Mumbai, got %q", req.Location)
		}
		json.NewEncoder(w).Encode([]models.Provider{{Name: "City Hospital", Distance: 1.2}})
	})

	providers, err := c.SearchProviders(context.Background(), ProviderSearchRequest{Location: "Mumbai"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(providers) != 1 || providers[0].Name != "City Hospital" {
		t.Errorf("providers not decoded: %+v", providers)
	}
}

func TestLogTemperature(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("session_id") != "abc123" || q.Get("temperature") != "101.5" || q.Get("unit") != "F" {
			t.Errorf("unexpected query params: %v", q)
		}
		json.NewEncoder(w).Encode(models.TemperatureReading{
			ID: 1, SessionID: "abc123", Temperature: 101.5, Unit: "F",
		})
	})

	out, err := c.LogTemperature(context.Background(), models.TemperatureReading{
		SessionID: "abc123", Temperature: 101.5, Unit: "F",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.ID != 1 || out.Temperature != 101.5 {
		t.Errorf("reading not decoded: %+v", out)
	}
}

func TestTemperatureHistory(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/temperature/abc123" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(temperatureHistoryResponse{
			SessionID: "abc123",
			Temperatures: []models.TemperatureReading{
				{ID: 1, Temperature: 101.5, Unit: "F"},
				{ID: 2, Temperature: 100.2, Unit: "F"},
			},
		})
	})

	readings, err := c.TemperatureHistory(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(readings) != 2 {
		t.Errorf("expected 2 readings, got %d", len(readings))
	}
}

func TestSummary(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/summary/abc123" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(models.ConversationSummary{
			SessionID: "abc123", Summary: "Fever-related symptoms discussed", ConversationCount: 4,
		})
	})

	summary, err := c.Summary(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.ConversationCount != 4 {
		t.Errorf("summary not decoded: %+v", summary)
	}
}
