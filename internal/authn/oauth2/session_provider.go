package oauth2

import (
	"context"
	"net/http"

	"github.com/bornholm/deepidia/internal/authn"
	"github.com/bornholm/deepidia/internal/header"
	"github.com/markbates/goth/gothic"
	"github.com/pkg/errors"
)

// SessionProvider exposes the OAuth2 session of one HTTP exchange to the
// header view.
type SessionProvider struct {
	handler *Handler
	w       http.ResponseWriter
	r       *http.Request
}

// CurrentSession implements header.SessionProvider.
func (p *SessionProvider) CurrentSession(ctx context.Context) (*header.Session, error) {
	var user *User

	if contextUser, err := authn.ContextUser(ctx); err == nil {
		if u, ok := contextUser.(*User); ok {
			user = u
		}
	}

	if user == nil {
		u, err := p.handler.retrieveSessionUser(p.r)
		if err != nil {
			if errors.Is(err, errSessionNotFound) {
				return nil, nil
			}

			return nil, errors.WithStack(err)
		}

		user = u
	}

	return &header.Session{
		Name:       user.UserDisplayName(),
		SignedInAt: user.SignedInAt,
	}, nil
}

// TerminateSession implements header.SessionProvider.
func (p *SessionProvider) TerminateSession(ctx context.Context) error {
	if err := p.handler.clearSession(p.w, p.r); err != nil && !errors.Is(err, errSessionNotFound) {
		return errors.WithStack(err)
	}

	if err := gothic.Logout(p.w, p.r); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

var _ header.SessionProvider = &SessionProvider{}

func (h *Handler) SessionProvider(w http.ResponseWriter, r *http.Request) header.SessionProvider {
	return &SessionProvider{
		handler: h,
		w:       w,
		r:       r,
	}
}
