package redis

import (
	"context"
	"log/slog"
	"time"

	"github.com/bornholm/deepidia/internal/preference"
	"github.com/bornholm/deepidia/pkg/log"
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const Type preference.Type = "redis"

func init() {
	preference.Register(Type, CreateProviderFromOptions)
}

type Options struct {
	URL        string `mapstructure:"url" yaml:"url"`
	KeyPrefix  string `mapstructure:"keyPrefix" yaml:"keyPrefix"`
	CookieName string `mapstructure:"cookieName" yaml:"cookieName"`
	MaxAge     int    `mapstructure:"maxAge" yaml:"maxAge"`
	Secure     bool   `mapstructure:"secure" yaml:"secure"`
}

func DefaultOptions() Options {
	return Options{
		URL:        "redis://localhost:6379/0",
		KeyPrefix:  "deepidia:preferences:",
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
	opts := DefaultOptions()

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &opts,
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := decoder.Decode(options); err != nil {
		return nil, errors.Wrapf(err, "could not parse '%s' preference store options", Type)
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse redis url")
	}

	client := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		if closeErr := client.Close(); closeErr != nil {
			slog.ErrorContext(ctx, "could not close redis client", log.Error(errors.WithStack(closeErr)))
		}

		return nil, errors.Wrapf(err, "could not reach redis at '%s'", redisOpts.Addr)
	}

	slog.DebugContext(ctx, "connected to redis preference store", log.ScrubbedURL("url", opts.URL))

	return NewProvider(client, opts), nil
}
