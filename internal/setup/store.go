package setup

import (
	"context"
	"log/slog"

	"github.com/bornholm/deepidia/internal/config"
	"github.com/bornholm/deepidia/internal/store"
	"github.com/pkg/errors"
)

var NewStoreFromConfig = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (*store.Store, error) {
	store := store.NewStore(string(conf.Store.Path))

	if err := store.HealthCheck(ctx); err != nil {
		return nil, errors.WithStack(err)
	}

	if err := SeedAccountsFromConfig(ctx, conf, store); err != nil {
		return nil, errors.WithStack(err)
	}

	return store, nil
})

func SeedAccountsFromConfig(ctx context.Context, conf *config.Config, s *store.Store) error {
	for idx, a := range conf.Auth.Accounts {
		if a.Email == "" || a.Password == "" {
			return errors.Errorf("account #%d: email and password are required", idx)
		}

		account, err := s.SaveAccount(ctx, string(a.Email), string(a.FirstName), string(a.Password))
		if err != nil {
			return errors.Wrapf(err, "could not save account #%d", idx)
		}

		slog.DebugContext(ctx, "account seeded", slog.Int64("id", account.ID), slog.String("email", account.Email))
	}

	return nil
}
