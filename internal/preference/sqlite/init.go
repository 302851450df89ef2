package sqlite

import (
	"context"
	"log/slog"
	"time"

	"github.com/bornholm/deepidia/internal/preference"
	"github.com/bornholm/deepidia/internal/store"
	"github.com/bornholm/deepidia/pkg/log"
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
)

const Type preference.Type = "sqlite"

func init() {
	preference.Register(Type, CreateProviderFromOptions)
}

type Options struct {
	Path       string `mapstructure:"path" yaml:"path"`
	CookieName string `mapstructure:"cookieName" yaml:"cookieName"`
	MaxAge     int    `mapstructure:"maxAge" yaml:"maxAge"`
	Secure     bool   `mapstructure:"secure" yaml:"secure"`
}

func DefaultOptions() Options {
	return Options{
		Path:       "data.db",
		CookieName: "deepidia_visitor",
		MaxAge:     60 * 60 * 24 * 365,
		Secure:     false,
	}
}

func (o Options) visitorCookie() preference.VisitorCookie {
	return preference.VisitorCookie{
		Name:   o.CookieName,
		MaxAge: o.MaxAge,
		Secure: o.Secure,
	}
}

func CreateProviderFromOptions(options any) (preference.Provider, error) {
	opts, err := decodeOptions(options)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	s := store.NewStore(opts.Path)

	if err := s.HealthCheck(context.Background()); err != nil {
		return nil, errors.WithStack(err)
	}

	return newProvider(s, opts), nil
}

// CreateProviderFromStore keeps preferences in an already opened store.
// The path option is ignored.
func CreateProviderFromStore(s *store.Store, options any) (preference.Provider, error) {
	opts, err := decodeOptions(options)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return newProvider(s, opts), nil
}

func decodeOptions(options any) (Options, error) {
	opts := DefaultOptions()

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &opts,
	})
	if err != nil {
		return opts, errors.WithStack(err)
	}

	if err := decoder.Decode(options); err != nil {
		return opts, errors.Wrapf(err, "could not parse '%s' preference store options", Type)
	}

	return opts, nil
}

func newProvider(s *store.Store, opts Options) *Provider {
	ctx := context.Background()

	if opts.MaxAge > 0 {
		before := time.Now().Add(-time.Duration(opts.MaxAge) * time.Second)

		purged, err := s.PurgePreferences(ctx, before)
		if err != nil {
			slog.ErrorContext(ctx, "could not purge expired preferences", log.Error(errors.WithStack(err)))
		} else if purged > 0 {
			slog.InfoContext(ctx, "purged expired preferences", slog.Int("count", purged))
		}
	}

	return NewProvider(s, opts)
}
