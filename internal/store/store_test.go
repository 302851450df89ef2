package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store := NewStore(filepath.Join(t.TempDir(), "store.db"))

	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Logf("could not close store: %+v", errors.WithStack(err))
		}
	})

	if err := store.HealthCheck(context.Background()); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	return store
}

func TestAccount(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	account, err := store.SaveAccount(ctx, " Sam@Example.com ", "Sam", "s3cr3t")
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := "sam@example.com", account.Email; e != g {
		t.Errorf("account.Email: expected '%v', got '%v'", e, g)
	}

	if _, err := store.Authenticate(ctx, "sam@example.com", "wrong"); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("store.Authenticate(): expected ErrUnauthenticated, got '%v'", err)
	}

	if _, err := store.Authenticate(ctx, "nobody@example.com", "s3cr3t"); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("store.Authenticate(): expected ErrUnauthenticated, got '%v'", err)
	}

	authenticated, err := store.Authenticate(ctx, "SAM@example.com", "s3cr3t")
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := "Sam", authenticated.FirstName; e != g {
		t.Errorf("authenticated.FirstName: expected '%v', got '%v'", e, g)
	}

	if authenticated.ConnectedAt.IsZero() {
		t.Errorf("authenticated.ConnectedAt: expected connection time to be set")
	}

	updated, err := store.SaveAccount(ctx, "sam@example.com", "Samuel", "s3cr3t")
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := account.ID, updated.ID; e != g {
		t.Errorf("updated.ID: expected '%v', got '%v'", e, g)
	}

	if e, g := account.PasswordHash, updated.PasswordHash; e != g {
		t.Errorf("updated.PasswordHash: expected unchanged hash")
	}

	found, err := store.FindAccount(ctx, "sam@example.com")
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := "Samuel", found.FirstName; e != g {
		t.Errorf("found.FirstName: expected '%v', got '%v'", e, g)
	}

	if _, err := store.FindAccount(ctx, "nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("store.FindAccount(): expected ErrNotFound, got '%v'", err)
	}
}

func TestAuthenticateUnknownAccountComparesHash(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if _, err := store.SaveAccount(ctx, "sam@example.com", "Sam", "s3cr3t"); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	hashes := make([][]byte, 0)

	previous := comparePassword
	comparePassword = func(hash, password []byte) error {
		hashes = append(hashes, hash)
		return previous(hash, password)
	}
	t.Cleanup(func() {
		comparePassword = previous
	})

	for _, email := range []string{"nobody@example.com", "sam@example.com"} {
		if _, err := store.Authenticate(ctx, email, "wrong"); !errors.Is(err, ErrUnauthenticated) {
			t.Fatalf("store.Authenticate(%q): expected ErrUnauthenticated, got '%v'", email, err)
		}
	}

	if e, g := 2, len(hashes); e != g {
		t.Fatalf("len(hashes): expected '%v', got '%v'", e, g)
	}

	unknownCost, err := bcrypt.Cost(hashes[0])
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	knownCost, err := bcrypt.Cost(hashes[1])
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := knownCost, unknownCost; e != g {
		t.Errorf("bcrypt cost of unknown account comparison: expected '%v', got '%v'", e, g)
	}
}

func TestPreference(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if _, exists, err := store.ReadPreference(ctx, "visitor", "user"); err != nil || exists {
		t.Fatalf("store.ReadPreference(): expected no preference, got exists=%v err=%v", exists, err)
	}

	if err := store.WritePreference(ctx, "visitor", "user", `{"firstName":"Sam"}`); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if err := store.WritePreference(ctx, "visitor", "user", `{"firstName":"Alex"}`); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	value, exists, err := store.ReadPreference(ctx, "visitor", "user")
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if !exists {
		t.Fatalf("store.ReadPreference(): expected preference to exist")
	}

	if e, g := `{"firstName":"Alex"}`, value; e != g {
		t.Errorf("value: expected '%v', got '%v'", e, g)
	}

	if _, exists, _ := store.ReadPreference(ctx, "other", "user"); exists {
		t.Errorf("store.ReadPreference(): preferences must be scoped by visitor")
	}

	if err := store.DeletePreference(ctx, "visitor", "user"); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if _, exists, _ := store.ReadPreference(ctx, "visitor", "user"); exists {
		t.Errorf("store.ReadPreference(): expected preference to be deleted")
	}

	if err := store.WritePreference(ctx, "visitor", "user", `{"firstName":"Sam"}`); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	deleted, err := store.PurgePreferences(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := 1, deleted; e != g {
		t.Errorf("deleted: expected '%v', got '%v'", e, g)
	}
}
