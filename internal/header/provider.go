package header

import (
	"context"
	"time"
)

// Session is the identity exposed by an authentication session provider.
type Session struct {
	Name       string
	SignedInAt time.Time
}

type SessionProvider interface {
	// CurrentSession returns nil when no session is active.
	CurrentSession(ctx context.Context) (*Session, error)
	TerminateSession(ctx context.Context) error
}

type PreferenceStore interface {
	Read(ctx context.Context, key string) (string, bool, error)
	Delete(ctx context.Context, key string) error
}

type noSession struct{}

func (noSession) CurrentSession(ctx context.Context) (*Session, error) { return nil, nil }
func (noSession) TerminateSession(ctx context.Context) error           { return nil }

type noPreferences struct{}

func (noPreferences) Read(ctx context.Context, key string) (string, bool, error) {
	return "", false, nil
}
func (noPreferences) Delete(ctx context.Context, key string) error { return nil }

var (
	_ SessionProvider = noSession{}
	_ PreferenceStore = noPreferences{}
)
