package cookie

import (
	"context"
	"net/http"

	"github.com/bornholm/deepidia/internal/preference"
	"github.com/gorilla/sessions"
	"github.com/pkg/errors"
)

// Store keeps preferences in a signed cookie, the server-side counterpart
// of browser local storage.
type Store struct {
	sessions sessions.Store
	name     string
	w        http.ResponseWriter
	r        *http.Request
}

// Read implements preference.Store.
func (s *Store) Read(ctx context.Context, key string) (string, bool, error) {
	session, err := s.sessions.Get(s.r, s.name)
	if err != nil {
		return "", false, errors.WithStack(err)
	}

	raw, exists := session.Values[key]
	if !exists {
		return "", false, nil
	}

	value, ok := raw.(string)
	if !ok {
		return "", false, errors.Errorf("unexpected preference '%s' value type '%T'", key, raw)
	}

	return value, true, nil
}

// Write implements preference.Store.
func (s *Store) Write(ctx context.Context, key string, value string) error {
	// A cookie that could not be decoded is replaced.
	session, _ := s.sessions.Get(s.r, s.name)

	session.Values[key] = value

	if err := session.Save(s.r, s.w); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// Delete implements preference.Store.
func (s *Store) Delete(ctx context.Context, key string) error {
	session, _ := s.sessions.Get(s.r, s.name)

	delete(session.Values, key)

	if len(session.Values) == 0 {
		session.Options.MaxAge = -1
	}

	if err := session.Save(s.r, s.w); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

var _ preference.Store = &Store{}

type Provider struct {
	sessions sessions.Store
	name     string
}

// Store implements preference.Provider.
func (p *Provider) Store(w http.ResponseWriter, r *http.Request) preference.Store {
	return &Store{
		sessions: p.sessions,
		name:     p.name,
		w:        w,
		r:        r,
	}
}

func NewProvider(store sessions.Store, cookieName string) *Provider {
	return &Provider{
		sessions: store,
		name:     cookieName,
	}
}

var _ preference.Provider = &Provider{}
