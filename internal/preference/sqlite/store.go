package sqlite

import (
	"context"
	"net/http"

	"github.com/bornholm/deepidia/internal/preference"
	"github.com/bornholm/deepidia/internal/store"
	"github.com/pkg/errors"
)

// Store keeps preferences server side, keyed by a visitor identifier
// carried in a cookie.
type Store struct {
	store *store.Store
	opts  Options
	w     http.ResponseWriter
	r     *http.Request

	visitor string
}

func (s *Store) currentVisitor() (string, bool) {
	if s.visitor != "" {
		return s.visitor, true
	}

	visitor, ok := s.opts.visitorCookie().Read(s.r)
	if !ok {
		return "", false
	}

	s.visitor = visitor

	return s.visitor, true
}

// Read implements preference.Store.
func (s *Store) Read(ctx context.Context, key string) (string, bool, error) {
	visitor, ok := s.currentVisitor()
	if !ok {
		return "", false, nil
	}

	value, exists, err := s.store.ReadPreference(ctx, visitor, key)
	if err != nil {
		return "", false, errors.WithStack(err)
	}

	return value, exists, nil
}

// Write implements preference.Store.
func (s *Store) Write(ctx context.Context, key string, value string) error {
	visitor, ok := s.currentVisitor()
	if !ok {
		visitor = preference.NewVisitorID()
		s.visitor = visitor
	}

	if err := s.store.WritePreference(ctx, visitor, key, value); err != nil {
		return errors.WithStack(err)
	}

	s.opts.visitorCookie().Write(s.w, visitor)

	return nil
}

// Delete implements preference.Store.
func (s *Store) Delete(ctx context.Context, key string) error {
	visitor, ok := s.currentVisitor()
	if !ok {
		return nil
	}

	if err := s.store.DeletePreference(ctx, visitor, key); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

var _ preference.Store = &Store{}

type Provider struct {
	store *store.Store
	opts  Options
}

// Store implements preference.Provider.
func (p *Provider) Store(w http.ResponseWriter, r *http.Request) preference.Store {
	return &Store{
		store: p.store,
		opts:  p.opts,
		w:     w,
		r:     r,
	}
}

// HealthCheck checks the underlying database.
func (p *Provider) HealthCheck(ctx context.Context) error {
	return errors.WithStack(p.store.HealthCheck(ctx))
}

func NewProvider(store *store.Store, opts Options) *Provider {
	return &Provider{
		store: store,
		opts:  opts,
	}
}

var _ preference.Provider = &Provider{}
