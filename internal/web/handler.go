package web

import (
	"context"
	"html/template"
	"net/http"

	"github.com/bornholm/deepidia/internal/header"
	"github.com/bornholm/deepidia/internal/preference"
	"github.com/bornholm/deepidia/internal/store"
	"github.com/bornholm/deepidia/internal/ui"
	"github.com/gorilla/csrf"
)

type SessionProviderFunc func(w http.ResponseWriter, r *http.Request) header.SessionProvider

type AccountAuthenticator interface {
	Authenticate(ctx context.Context, email, password string) (*store.Account, error)
}

type LoginProvider struct {
	Label string
	Icon  string
	URL   string
}

type Handler struct {
	mux            *http.ServeMux
	sessions       SessionProviderFunc
	preferences    preference.Provider
	accounts       AccountAuthenticator
	navbar         *ui.Navbar
	recordKey      string
	loginProviders []LoginProvider
	csrfField      func(r *http.Request) template.HTML
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func NewHandler(preferences preference.Provider, funcs ...OptionFunc) (*Handler, error) {
	opts, err := NewOptions(funcs...)
	if err != nil {
		return nil, err
	}

	h := &Handler{
		mux:            &http.ServeMux{},
		sessions:       opts.Sessions,
		preferences:    preferences,
		accounts:       opts.Accounts,
		navbar:         opts.Navbar,
		recordKey:      opts.RecordKey,
		loginProviders: opts.LoginProviders,
		csrfField:      csrf.TemplateField,
	}

	h.mux.HandleFunc("GET /{$}", h.servePage(pageIndex))
	h.mux.HandleFunc("GET /generator", h.servePage(pageGenerator))
	h.mux.HandleFunc("GET /login", h.servePage(pageLogin))
	h.mux.HandleFunc("POST /login", h.handleLogin)

	h.mux.HandleFunc("POST /header/menu/toggle", h.headerAction(actionToggleMenu))
	h.mux.HandleFunc("GET /header/menu/close", h.handleCloseMenu)
	h.mux.HandleFunc("POST /header/logout/request", h.headerAction(actionRequestLogout))
	h.mux.HandleFunc("POST /header/logout/cancel", h.headerAction(actionCancelLogout))
	h.mux.HandleFunc("POST /header/logout/confirm", h.headerAction(actionConfirmLogout))

	return h, nil
}

var _ http.Handler = &Handler{}
