package redis

import (
	"context"
	"net/http"
	"time"

	"github.com/bornholm/deepidia/internal/preference"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Store keeps the preferences of a visitor in a redis hash expiring with
// the visitor cookie.
type Store struct {
	client redis.UniversalClient
	opts   Options
	w      http.ResponseWriter
	r      *http.Request

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

func (s *Store) hashKey(visitor string) string {
	return s.opts.KeyPrefix + visitor
}

// Read implements preference.Store.
func (s *Store) Read(ctx context.Context, key string) (string, bool, error) {
	visitor, ok := s.currentVisitor()
	if !ok {
		return "", false, nil
	}

	value, err := s.client.HGet(ctx, s.hashKey(visitor), key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}

		return "", false, errors.WithStack(err)
	}

	return value, true, nil
}

// Write implements preference.Store.
func (s *Store) Write(ctx context.Context, key string, value string) error {
	visitor, ok := s.currentVisitor()
	if !ok {
		visitor = preference.NewVisitorID()
		s.visitor = visitor
	}

	hashKey := s.hashKey(visitor)

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, hashKey, key, value)

		if s.opts.MaxAge > 0 {
			pipe.Expire(ctx, hashKey, time.Duration(s.opts.MaxAge)*time.Second)
		}

		return nil
	})
	if err != nil {
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

	if err := s.client.HDel(ctx, s.hashKey(visitor), key).Err(); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

var _ preference.Store = &Store{}

type Provider struct {
	client redis.UniversalClient
	opts   Options
}

// Store implements preference.Provider.
func (p *Provider) Store(w http.ResponseWriter, r *http.Request) preference.Store {
	return &Store{
		client: p.client,
		opts:   p.opts,
		w:      w,
		r:      r,
	}
}

// HealthCheck pings the redis server.
func (p *Provider) HealthCheck(ctx context.Context) error {
	return errors.WithStack(p.client.Ping(ctx).Err())
}

func NewProvider(client redis.UniversalClient, opts Options) *Provider {
	return &Provider{
		client: client,
		opts:   opts,
	}
}

var _ preference.Provider = &Provider{}
