package preference

import (
	"context"
	"net/http"
)

// Store is a small key/value store scoped to the visitor of one HTTP exchange.
type Store interface {
	Read(ctx context.Context, key string) (string, bool, error)
	Write(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}

// Provider binds a Store to the current request and response.
type Provider interface {
	Store(w http.ResponseWriter, r *http.Request) Store
}

type ProviderFunc func(w http.ResponseWriter, r *http.Request) Store

func (fn ProviderFunc) Store(w http.ResponseWriter, r *http.Request) Store {
	return fn(w, r)
}

var _ Provider = ProviderFunc(nil)
