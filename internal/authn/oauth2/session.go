package oauth2

import (
	"net/http"

	"github.com/pkg/errors"
)

const sessionKeyUser = "user"

var errSessionNotFound = errors.New("session not found")

func (h *Handler) retrieveSessionUser(r *http.Request) (*User, error) {
	session, err := h.sessionStore.Get(r, h.sessionName)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	user, ok := session.Values[sessionKeyUser].(*User)
	if !ok || user == nil {
		return nil, errors.WithStack(errSessionNotFound)
	}

	return user, nil
}

func (h *Handler) storeSessionUser(w http.ResponseWriter, r *http.Request, user *User) error {
	session, err := h.sessionStore.Get(r, h.sessionName)
	if err != nil {
		// Replace sessions that could not be decoded
		session, err = h.sessionStore.New(r, h.sessionName)
		if session == nil {
			return errors.WithStack(err)
		}
	}

	session.Values[sessionKeyUser] = user

	if err := session.Save(r, w); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func (h *Handler) clearSession(w http.ResponseWriter, r *http.Request) error {
	session, err := h.sessionStore.Get(r, h.sessionName)
	if err != nil {
		return errors.WithStack(err)
	}

	if session.IsNew {
		return errors.WithStack(errSessionNotFound)
	}

	for k := range session.Values {
		delete(session.Values, k)
	}

	session.Options.MaxAge = -1

	if err := session.Save(r, w); err != nil {
		return errors.WithStack(err)
	}

	return nil
}
