package debug

import (
	"context"
	"expvar"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"net/http/pprof"
	"slices"

	"github.com/bornholm/deepidia/pkg/log"
	"github.com/pkg/errors"
)

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type Handler struct {
	mux      *http.ServeMux
	checkers map[string]HealthChecker
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// NewHandler serves the runtime profiles, the published expvar metrics and
// a health report of the given checkers.
func NewHandler(prefix string, checkers map[string]HealthChecker) *Handler {
	h := &Handler{
		mux:      &http.ServeMux{},
		checkers: checkers,
	}

	h.mux.HandleFunc(fmt.Sprintf("%s/pprof/", prefix), pprof.Index)
	h.mux.HandleFunc(fmt.Sprintf("%s/pprof/cmdline", prefix), pprof.Cmdline)
	h.mux.HandleFunc(fmt.Sprintf("%s/pprof/profile", prefix), pprof.Profile)
	h.mux.HandleFunc(fmt.Sprintf("%s/pprof/symbol", prefix), pprof.Symbol)
	h.mux.HandleFunc(fmt.Sprintf("%s/pprof/trace", prefix), pprof.Trace)
	h.mux.HandleFunc(fmt.Sprintf("%s/pprof/{name}", prefix), func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")
		pprof.Handler(name).ServeHTTP(w, r)
	})

	h.mux.Handle(fmt.Sprintf("GET %s/vars", prefix), expvar.Handler())
	h.mux.HandleFunc(fmt.Sprintf("GET %s/health", prefix), h.handleHealth)

	return h
}

// handleHealth reports one line per checker, sorted by name.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := http.StatusOK

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	report := make([]string, 0, len(h.checkers))

	for _, name := range slices.Sorted(maps.Keys(h.checkers)) {
		checker := h.checkers[name]

		if err := checker.HealthCheck(ctx); err != nil {
			slog.ErrorContext(ctx, "health check failed", log.Error(errors.WithStack(err)), slog.String("checker", name))
			status = http.StatusServiceUnavailable
			report = append(report, fmt.Sprintf("%s: unhealthy", name))
			continue
		}

		report = append(report, fmt.Sprintf("%s: ok", name))
	}

	w.WriteHeader(status)

	for _, line := range report {
		fmt.Fprintln(w, line)
	}
}

var _ http.Handler = &Handler{}
