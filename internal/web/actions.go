package web

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/bornholm/deepidia/internal/header"
	"github.com/bornholm/deepidia/pkg/log"
	"github.com/pkg/errors"
)

type interaction struct {
	Name  string
	Apply func(ctx context.Context, view *header.View) error
}

var (
	actionToggleMenu = interaction{
		Name: "toggle_menu",
		Apply: func(ctx context.Context, view *header.View) error {
			view.ToggleMobileMenu()
			return nil
		},
	}
	actionRequestLogout = interaction{
		Name: "request_logout",
		Apply: func(ctx context.Context, view *header.View) error {
			view.RequestLogout()
			return nil
		},
	}
	actionCancelLogout = interaction{
		Name: "cancel_logout",
		Apply: func(ctx context.Context, view *header.View) error {
			view.CancelLogout()
			return nil
		},
	}
	actionConfirmLogout = interaction{
		Name: "confirm_logout",
		Apply: func(ctx context.Context, view *header.View) error {
			return view.ConfirmLogout(ctx)
		},
	}
)

// headerAction applies an interaction to the header then renders it again.
// htmx requests receive the header fragment, other clients are redirected
// to the page they came from.
func (h *Handler) headerAction(action interaction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		view := h.newView(w, r)

		if err := action.Apply(ctx, view); err != nil {
			slog.ErrorContext(ctx, "header action failed", log.Error(errors.WithStack(err)), slog.String("action", action.Name))
		}

		headerActions.Add(action.Name, 1)

		p := lookupPage(r.FormValue("page"))

		if isHTMXRequest(r) {
			h.renderHeader(w, r, p, view)
			return
		}

		http.Redirect(w, r, p.location(view.State()), http.StatusSeeOther)
	}
}

func (h *Handler) handleCloseMenu(w http.ResponseWriter, r *http.Request) {
	view := h.newView(w, r)
	view.CloseMobileMenu()

	headerActions.Add("close_menu", 1)

	http.Redirect(w, r, safeRedirect(r.URL.Query().Get("next")), http.StatusSeeOther)
}

func isHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// safeRedirect only allows local paths. Fragment only targets resolve
// against the index page.
func safeRedirect(next string) string {
	if strings.HasPrefix(next, "#") {
		return "/" + next
	}

	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}

	u, err := url.Parse(next)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return "/"
	}

	return u.RequestURI() + fragment(u)
}

func fragment(u *url.URL) string {
	if u.Fragment == "" {
		return ""
	}

	return "#" + u.EscapedFragment()
}
