package setup

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/NYTimes/gziphandler"
	"github.com/bornholm/deepidia/internal/authn"
	"github.com/bornholm/deepidia/internal/config"
	"github.com/bornholm/deepidia/internal/debug"
	"github.com/bornholm/deepidia/internal/ratelimit"
	"github.com/bornholm/deepidia/internal/web"
	"github.com/bornholm/deepidia/pkg/log"
	"github.com/gorilla/csrf"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	sloghttp "github.com/samber/slog-http"
)

func NewHandlerFromConfig(ctx context.Context, conf *config.Config) (http.Handler, error) {
	mux := &http.ServeMux{}

	slogMiddleware := sloghttp.New(slog.Default())

	oauth2Handler, err := NewOAuth2HandlerFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	mux.Handle("/auth/", slogMiddleware(oauth2Handler))

	store, err := NewStoreFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	preferences, err := NewPreferenceProviderFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	navbar, err := NewNavbarFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	loginProviders := make([]web.LoginProvider, 0)
	for _, p := range oauth2Handler.Providers() {
		loginProviders = append(loginProviders, web.LoginProvider{
			Label: p.Label,
			Icon:  p.Icon,
			URL:   oauth2Handler.ProviderURL(p.ID),
		})
	}

	webHandler, err := web.NewHandler(
		preferences,
		web.WithSessions(oauth2Handler.SessionProvider),
		web.WithAccounts(store),
		web.WithNavbar(navbar),
		web.WithRecordKey(string(conf.Preferences.Key)),
		web.WithLoginProviders(loginProviders...),
	)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	csrfMiddleware, err := NewCSRFMiddlewareFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	rateLimiter := ratelimit.New(rate.Limit(conf.HTTP.RateLimit.Rate), int(conf.HTTP.RateLimit.Burst))
	loginRateLimit := rateLimiter.Middleware(ratelimit.RemoteAddr, http.MethodPost)

	webAuth := authn.Chain(
		authn.WithAuthenticators(
			oauth2Handler.Authenticator(false),
		),
		authn.WithAnonymous(),
	)

	var handler http.Handler = webHandler
	handler = csrfMiddleware(handler)
	handler = webAuth(handler)
	handler = gziphandler.GzipHandler(handler)
	handler = slogMiddleware(handler)

	mux.Handle("/login", loginRateLimit(handler))
	mux.Handle("/", handler)

	if conf.HTTP.Debug {
		slog.WarnContext(ctx, "debug endpoints enabled", slog.String("prefix", "/debug"))

		checkers := map[string]debug.HealthChecker{
			"store": store,
		}

		if checker, ok := preferences.(debug.HealthChecker); ok {
			checkers["preferences"] = checker
		}

		debugHandler := debug.NewHandler("/debug", checkers)

		mux.Handle("/debug/", debugHandler)
	}

	return mux, nil
}

func NewCSRFMiddlewareFromConfig(ctx context.Context, conf *config.Config) (func(http.Handler) http.Handler, error) {
	key := []byte(conf.HTTP.CSRF.Key)

	if len(key) == 0 {
		slog.WarnContext(ctx, "no csrf key configured, using a random one")

		randomKey, err := getRandomBytes(32)
		if err != nil {
			return nil, errors.Wrap(err, "could not generate csrf key")
		}

		key = randomKey
	}

	if len(key) != 32 {
		return nil, errors.Errorf("csrf key must be 32 bytes long, got %d", len(key))
	}

	middleware := csrf.Protect(
		key,
		csrf.Secure(bool(conf.HTTP.CSRF.Secure)),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			slog.WarnContext(ctx, "csrf validation failed", log.Error(csrf.FailureReason(r)))
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		})),
	)

	return middleware, nil
}
