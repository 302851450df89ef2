package web

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/bornholm/deepidia/internal/header"
	"github.com/bornholm/deepidia/internal/store"
	"github.com/pkg/errors"
)

const (
	messageInvalidCredentials = "Invalid email or password."
	messageLoginUnavailable   = "Signing in with an email address is not available."
)

// handleLogin verifies the submitted credentials and saves the account's
// first name as the visitor's preference record.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	if h.accounts == nil {
		h.renderLoginError(w, r, http.StatusNotFound, email, messageLoginUnavailable)
		return
	}

	if email == "" || password == "" {
		h.renderLoginError(w, r, http.StatusBadRequest, email, messageInvalidCredentials)
		return
	}

	account, err := h.accounts.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, store.ErrUnauthenticated) {
			slog.InfoContext(ctx, "rejected login attempt", slog.String("email", email))
			h.renderLoginError(w, r, http.StatusUnauthorized, email, messageInvalidCredentials)
			return
		}

		h.internalError(ctx, w, errors.WithStack(err))
		return
	}

	raw, err := header.EncodeRecord(header.Record{FirstName: account.FirstName})
	if err != nil {
		h.internalError(ctx, w, errors.WithStack(err))
		return
	}

	if err := h.preferences.Store(w, r).Write(ctx, h.recordKey, raw); err != nil {
		h.internalError(ctx, w, errors.WithStack(err))
		return
	}

	slog.InfoContext(ctx, "account signed in", slog.Int64("account", account.ID))

	http.Redirect(w, r, pageIndex.Path, http.StatusSeeOther)
}

func (h *Handler) renderLoginError(w http.ResponseWriter, r *http.Request, status int, email string, message string) {
	view := h.newView(w, r)

	h.renderPage(w, r, status, pageLogin, view, &LoginTemplateData{
		Email: email,
		Error: message,
	})
}
