package setup

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/bornholm/deepidia/internal/config"
	"github.com/bornholm/deepidia/internal/preference/sqlite"
	"github.com/bornholm/deepidia/internal/store"
	"github.com/pkg/errors"
)

func TestPreferenceProviderSharesStore(t *testing.T) {
	type testCase struct {
		Path         func(storePath string) string
		ExpectShared bool
	}

	testCases := []testCase{
		{
			Path:         func(storePath string) string { return "" },
			ExpectShared: true,
		},
		{
			Path:         func(storePath string) string { return storePath },
			ExpectShared: true,
		},
		{
			Path:         func(storePath string) string { return filepath.Dir(storePath) + "/./data.db" },
			ExpectShared: true,
		},
		{
			Path:         func(storePath string) string { return filepath.Join(filepath.Dir(storePath), "preferences.db") },
			ExpectShared: false,
		},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("Case #%d", idx), func(t *testing.T) {
			ctx := context.Background()

			storePath := filepath.Join(t.TempDir(), "data.db")

			shared := store.NewStore(storePath)
			t.Cleanup(func() {
				if err := shared.Close(); err != nil {
					t.Logf("could not close store: %+v", errors.WithStack(err))
				}
			})

			opened := 0
			sharedStore := func(ctx context.Context, conf *config.Config) (*store.Store, error) {
				opened++
				return shared, nil
			}

			conf := config.NewDefaultConfig()
			conf.Store.Path = config.InterpolatedString(storePath)
			conf.Preferences.Type = config.InterpolatedString(sqlite.Type)
			conf.Preferences.Options = &config.InterpolatedMap{
				Data: map[string]any{"path": tc.Path(storePath)},
			}

			provider, err := newPreferenceProvider(ctx, conf, sharedStore)
			if err != nil {
				t.Fatalf("%+v", errors.WithStack(err))
			}

			if _, ok := provider.(*sqlite.Provider); !ok {
				t.Fatalf("provider: expected '*sqlite.Provider', got '%T'", provider)
			}

			if e, g := tc.ExpectShared, opened == 1; e != g {
				t.Errorf("shared store used: expected '%v', got '%v'", e, g)
			}

			res := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/login", nil)

			if err := provider.Store(res, req).Write(ctx, "user", `{"firstName":"Sam"}`); err != nil {
				t.Fatalf("%+v", errors.WithStack(err))
			}

			visitor := ""
			for _, c := range res.Result().Cookies() {
				if c.Name == sqlite.DefaultOptions().CookieName {
					visitor = c.Value
				}
			}

			if visitor == "" {
				t.Fatalf("expected a visitor cookie to be set")
			}

			_, exists, err := shared.ReadPreference(ctx, visitor, "user")
			if err != nil {
				t.Fatalf("%+v", errors.WithStack(err))
			}

			if e, g := tc.ExpectShared, exists; e != g {
				t.Errorf("record in shared store: expected '%v', got '%v'", e, g)
			}
		})
	}
}
