package cookie

import (
	"crypto/rand"
	"log/slog"
	"net/http"

	"github.com/bornholm/deepidia/internal/preference"
	"github.com/go-viper/mapstructure/v2"
	"github.com/gorilla/sessions"
	"github.com/pkg/errors"
)

const Type preference.Type = "cookie"

func init() {
	preference.Register(Type, CreateProviderFromOptions)
}

type Options struct {
	CookieName string   `mapstructure:"cookieName" yaml:"cookieName"`
	Keys       []string `mapstructure:"keys" yaml:"keys"`
	Path       string   `mapstructure:"path" yaml:"path"`
	MaxAge     int      `mapstructure:"maxAge" yaml:"maxAge"`
	Secure     bool     `mapstructure:"secure" yaml:"secure"`
	HTTPOnly   bool     `mapstructure:"httpOnly" yaml:"httpOnly"`
}

func DefaultOptions() Options {
	return Options{
		CookieName: "deepidia_preferences",
		Path:       "/",
		MaxAge:     60 * 60 * 24 * 365,
		Secure:     false,
		HTTPOnly:   true,
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

	keyPairs := make([][]byte, 0, len(opts.Keys))
	for _, k := range opts.Keys {
		if k == "" {
			continue
		}
		keyPairs = append(keyPairs, []byte(k))
	}

	if len(keyPairs) == 0 {
		slog.Warn("no preference cookie signing key configured, generating an ephemeral one")

		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, errors.Wrap(err, "could not generate preference cookie signing key")
		}

		keyPairs = append(keyPairs, key)
	}

	cookieStore := sessions.NewCookieStore(keyPairs...)
	cookieStore.MaxAge(opts.MaxAge)
	cookieStore.Options.Path = opts.Path
	cookieStore.Options.Secure = opts.Secure
	cookieStore.Options.HttpOnly = opts.HTTPOnly
	cookieStore.Options.SameSite = http.SameSiteLaxMode

	return NewProvider(cookieStore, opts.CookieName), nil
}
