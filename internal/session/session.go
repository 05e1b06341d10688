// Package session acquires conversation session identifiers from the triage service,
// degrading to locally synthesized identifiers when the service is unreachable.
package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bytebender77/healthguide/internal/models"
)

// LocalFallbackPrefix marks identifiers synthesized without the service.
const LocalFallbackPrefix = "local-"

// Creator is the slice of the triage service the manager needs.
type Creator interface {
	CreateSession(ctx context.Context) (string, error)
}

// Manager obtains session identifiers for the conversation controller.
type Manager struct {
	creator Creator
}

// NewManager creates a session manager backed by the given service client.
func NewManager(creator Creator) *Manager {
	return &Manager{creator: creator}
}

// Acquire obtains a session from the triage service. On any failure it synthesizes a
// locally unique identifier instead, so the conversation can proceed without
// server-side session tracking. Acquire never fails; each call yields a new,
// unrelated session.
func (m *Manager) Acquire(ctx context.Context) models.Session {
	if m.creator != nil {
		id, err := m.creator.CreateSession(ctx)
		if err == nil && id != "" {
			slog.Debug("session.Acquire: remote session acquired", "sessionID", id)
			return models.Session{ID: id, Origin: models.SessionOriginRemote, CreatedAt: time.Now()}
		}
		slog.Warn("session.Acquire: falling back to local session", "error", err)
	}

	id := LocalFallbackPrefix + uuid.NewString()
	slog.Debug("session.Acquire: local fallback session synthesized", "sessionID", id)
	return models.Session{ID: id, Origin: models.SessionOriginLocalFallback, CreatedAt: time.Now()}
}
