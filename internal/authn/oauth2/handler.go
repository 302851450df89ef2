package oauth2

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/bornholm/deepidia/internal/authn"
	"github.com/bornholm/deepidia/pkg/log"
	"github.com/gorilla/sessions"
	"github.com/pkg/errors"
)

const homePath = "/"

type Provider struct {
	ID    string
	Label string
	Icon  string
}

type Handler struct {
	mux          *http.ServeMux
	sessionStore sessions.Store
	sessionName  string
	providers    []Provider
	prefix       string
	loginPath    string
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func NewHandler(sessionStore sessions.Store, funcs ...OptionFunc) *Handler {
	opts := NewOptions(funcs...)
	h := &Handler{
		mux:          http.NewServeMux(),
		sessionStore: sessionStore,
		sessionName:  opts.SessionName,
		providers:    opts.Providers,
		prefix:       opts.Prefix,
		loginPath:    opts.LoginPath,
	}

	h.mux.HandleFunc(fmt.Sprintf("GET %s/login", h.prefix), h.redirectToLoginPage)
	h.mux.Handle(fmt.Sprintf("GET %s/providers/{provider}", h.prefix), withContextProvider(http.HandlerFunc(h.handleProvider)))
	h.mux.Handle(fmt.Sprintf("GET %s/providers/{provider}/callback", h.prefix), withContextProvider(http.HandlerFunc(h.handleProviderCallback)))
	h.mux.HandleFunc(fmt.Sprintf("GET %s/logout", h.prefix), h.handleLogout)
	h.mux.Handle(fmt.Sprintf("GET %s/providers/{provider}/logout", h.prefix), withContextProvider(http.HandlerFunc(h.handleProviderLogout)))

	return h
}

// Providers returns the configured identity providers, in display order.
func (h *Handler) Providers() []Provider {
	return h.providers
}

// ProviderURL returns the path starting the sign-in flow of the given provider.
func (h *Handler) ProviderURL(providerID string) string {
	return fmt.Sprintf("%s/providers/%s", h.prefix, providerID)
}

func (h *Handler) redirectToLoginPage(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.loginPath, http.StatusSeeOther)
}

// Authenticator resolves the session user. When authoritative, requests
// without a valid session are redirected to the login page.
func (h *Handler) Authenticator(authoritative bool) authn.Authenticator {
	return authn.AuthenticateFunc(func(w http.ResponseWriter, r *http.Request) (authn.User, error) {
		user, err := h.retrieveSessionUser(r)
		if err != nil {
			if !errors.Is(err, errSessionNotFound) {
				slog.DebugContext(r.Context(), "could not retrieve user from session", log.Error(errors.WithStack(err)))
			}

			if authoritative {
				http.Redirect(w, r, h.loginPath, http.StatusTemporaryRedirect)
				return nil, errors.WithStack(authn.ErrCancel)
			}

			return nil, nil
		}

		return user, nil
	})
}

var _ http.Handler = &Handler{}

func withContextProvider(h http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		provider := r.PathValue("provider")
		r = r.WithContext(context.WithValue(r.Context(), "provider", provider))
		h.ServeHTTP(w, r)
	}

	return http.HandlerFunc(fn)
}
