package setup

import (
	"context"
	"log/slog"
	"maps"
	"path/filepath"

	"github.com/bornholm/deepidia/internal/config"
	"github.com/bornholm/deepidia/internal/preference"
	"github.com/bornholm/deepidia/internal/preference/sqlite"
	"github.com/bornholm/deepidia/internal/store"
	"github.com/pkg/errors"
)

var NewPreferenceProviderFromConfig = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (preference.Provider, error) {
	return newPreferenceProvider(ctx, conf, NewStoreFromConfig)
})

type storeFactory func(ctx context.Context, conf *config.Config) (*store.Store, error)

func newPreferenceProvider(ctx context.Context, conf *config.Config, sharedStore storeFactory) (preference.Provider, error) {
	typ := preference.Type(conf.Preferences.Type)

	options := map[string]any{}
	if conf.Preferences.Options != nil {
		maps.Copy(options, conf.Preferences.Options.Data)
	}

	// The sqlite store shares the accounts database unless told otherwise
	if typ == sqlite.Type {
		path, _ := options["path"].(string)
		if path == "" || samePath(path, string(conf.Store.Path)) {
			shared, err := sharedStore(ctx, conf)
			if err != nil {
				return nil, errors.WithStack(err)
			}

			slog.DebugContext(ctx, "sharing store database with preferences", slog.String("path", string(conf.Store.Path)))

			provider, err := sqlite.CreateProviderFromStore(shared, options)
			if err != nil {
				return nil, errors.WithStack(err)
			}

			return provider, nil
		}
	}

	provider, err := preference.New(typ, options)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return provider, nil
}

func samePath(a, b string) bool {
	if a == b {
		return true
	}

	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)

	return errA == nil && errB == nil && absA == absB
}
