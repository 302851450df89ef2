package web

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bornholm/deepidia/internal/header"
	"github.com/bornholm/deepidia/internal/ui"
	"github.com/bornholm/deepidia/pkg/log"
	"github.com/pkg/errors"
)

type page struct {
	Name     string
	Title    string
	Path     string
	Template string
}

var (
	pageIndex     = page{Name: "index", Title: "", Path: "/", Template: "index"}
	pageGenerator = page{Name: "generator", Title: "Generator", Path: "/generator", Template: "generator"}
	pageLogin     = page{Name: "login", Title: "Sign In", Path: "/login", Template: "login"}
)

var pages = map[string]page{
	pageIndex.Name:     pageIndex,
	pageGenerator.Name: pageGenerator,
	pageLogin.Name:     pageLogin,
}

// lookupPage returns the page named in a header form, defaulting to the index.
func lookupPage(name string) page {
	p, exists := pages[name]
	if !exists {
		return pageIndex
	}

	return p
}

// location returns the page URL carrying the transient header state.
func (p page) location(state header.State) string {
	query := url.Values{}

	if state.MobileMenuOpen {
		query.Set("menu", "true")
	}

	if state.LogoutDialog.IsOpen() {
		query.Set("dialog", "true")
	}

	if len(query) == 0 {
		return p.Path
	}

	return p.Path + "?" + query.Encode()
}

func (h *Handler) servePage(p page) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := h.newView(w, r)
		h.renderPage(w, r, http.StatusOK, p, view, nil)
	}
}

// newView restores the header state submitted with the request and
// initializes it against the visitor's session and preferences.
func (h *Handler) newView(w http.ResponseWriter, r *http.Request) *header.View {
	ctx := r.Context()

	menuOpen, _ := strconv.ParseBool(r.FormValue("menu"))

	dialog := header.DialogClosed
	if open, _ := strconv.ParseBool(r.FormValue("dialog")); open {
		dialog = header.DialogOpen
	}

	var sessions header.SessionProvider
	if h.sessions != nil {
		sessions = h.sessions(w, r)
	}

	view := header.New(
		sessions,
		h.preferences.Store(w, r),
		header.WithRecordKey(h.recordKey),
		header.WithMobileMenuOpen(menuOpen),
		header.WithLogoutDialog(dialog),
	)

	view.Subscribe(func(state header.State) {
		slog.DebugContext(ctx, "header state changed",
			slog.Bool("menu", state.MobileMenuOpen),
			slog.String("dialog", state.LogoutDialog.String()),
			slog.Bool("loggedIn", state.LoggedIn),
			slog.String("source", string(state.Source)),
		)
	})

	view.Initialize(ctx)

	return view
}

func (h *Handler) headerData(r *http.Request, p page, view *header.View) (ui.HeaderTemplateData, error) {
	data, err := ui.NewHeaderTemplateData(view.State(), h.navbar, p.Name, h.csrfField(r))
	if err != nil {
		return data, errors.WithStack(err)
	}

	return data, nil
}

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, status int, p page, view *header.View, login *LoginTemplateData) {
	ctx := r.Context()

	headerData, err := h.headerData(r, p, view)
	if err != nil {
		h.internalError(ctx, w, errors.WithStack(err))
		return
	}

	if p.Name == pageLogin.Name && login == nil {
		login = &LoginTemplateData{}
	}

	if login != nil {
		login.Providers = h.loginProviders
		login.CSRFField = headerData.CSRFField
	}

	data := PageTemplateData{
		HeadTemplateData: ui.HeadTemplateData{
			PageTitle: p.Title,
		},
		Header: headerData,
		Login:  login,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if err := templates.ExecuteTemplate(w, p.Template, data); err != nil {
		slog.ErrorContext(ctx, "could not render page", log.Error(errors.WithStack(err)), slog.String("page", p.Name))
	}
}

func (h *Handler) renderHeader(w http.ResponseWriter, r *http.Request, p page, view *header.View) {
	ctx := r.Context()

	data, err := h.headerData(r, p, view)
	if err != nil {
		h.internalError(ctx, w, errors.WithStack(err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := templates.ExecuteTemplate(w, "header", data); err != nil {
		slog.ErrorContext(ctx, "could not render header", log.Error(errors.WithStack(err)))
	}
}

func (h *Handler) internalError(ctx context.Context, w http.ResponseWriter, err error) {
	slog.ErrorContext(ctx, "unexpected error", log.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
