package session

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bytebender77/healthguide/internal/models"
)

type fakeCreator struct {
	id  string
	err error
}

func (f *fakeCreator) CreateSession(ctx context.Context) (string, error) {
	return f.id, f.err
}

func TestAcquireRemote(t *testing.T) {
	m := NewManager(&fakeCreator{id: "abc123"})
	s := m.Acquire(context.Background())
	if s.ID != "abc123" {
		t.Errorf("expected session id abc123, got %q", s.ID)
	}
	if s.Origin != models.SessionOriginRemote {
		t.Errorf("expected remote origin, got %s", s.Origin)
	}
	if s.CreatedAt.IsZero() {
		t.Error("creation time not set")
	}
}

func TestAcquireFallbackOnError(t *testing.T) {
	m := NewManager(&fakeCreator{err: errors.New("connection refused")})
	s := m.Acquire(context.Background())
	if s.ID == "" {
		t.Fatal("fallback session id is empty")
	}
	if !strings.HasPrefix(s.ID, LocalFallbackPrefix) {
		t.Errorf("fallback id %q missing prefix %q", s.ID, LocalFallbackPrefix)
	}
	if s.Origin != models.SessionOriginLocalFallback {
		t.Errorf("expected local-fallback origin, got %s", s.Origin)
	}
}

func TestAcquireFallbackOnEmptyID(t *testing.T) {
	m := NewManager(&fakeCreator{id: ""})
	s := m.Acquire(context.Background())
	if s.Origin != models.SessionOriginLocalFallback {
		t.Errorf("expected local-fallback origin for empty remote id, got %s", s.Origin)
	}
}

func TestAcquireYieldsDistinctFallbackIDs(t *testing.T) {
	m := NewManager(nil)
	a := m.Acquire(context.Background())
	b := m.Acquire(context.Background())
	if a.ID == b.ID {
		t.Errorf("two fallback sessions share the id %q", a.ID)
	}
}
