package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/xid"
	"golang.org/x/crypto/bcrypt"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

var accountMigrations = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id INTEGER PRIMARY KEY,

		email TEXT NOT NULL,
		first_name TEXT NOT NULL,
		password_hash TEXT NOT NULL,

		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		connected_at INTEGER,

		UNIQUE (email)
	);`,
}

const accountAttributes = `id, email, first_name, password_hash, created_at, updated_at, connected_at`

// Account is a manual login account. Signing in with it writes the
// header preference record instead of opening a session.
type Account struct {
	ID int64

	Email     string
	FirstName string

	PasswordHash string

	CreatedAt   time.Time
	UpdatedAt   time.Time
	ConnectedAt time.Time
}

// SaveAccount creates or updates the account identified by email. The
// password is only rehashed when it changed.
func (s *Store) SaveAccount(ctx context.Context, email, firstName, password string) (*Account, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, errors.New("account email is required")
	}

	var account *Account
	err := s.Tx(ctx, func(conn *sqlite.Conn) error {
		existing, err := s.findAccountByEmail(conn, email)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return errors.WithStack(err)
		}

		passwordHash := ""
		if existing != nil && verifyPassword([]byte(password), []byte(existing.PasswordHash)) {
			passwordHash = existing.PasswordHash
		} else {
			hash, err := hashPassword(password)
			if err != nil {
				return errors.WithStack(err)
			}

			passwordHash = string(hash)
		}

		now := time.Now().UTC().Unix()

		query := fmt.Sprintf(`
			INSERT INTO accounts
				(email, first_name, password_hash, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (email) DO UPDATE SET
				first_name = excluded.first_name,
				password_hash = excluded.password_hash,
				updated_at = excluded.updated_at
			RETURNING %s;`,
			accountAttributes,
		)

		err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
			Args: []any{email, firstName, passwordHash, now, now},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				account = &Account{}
				bindAccount(stmt, account)
				return nil
			},
		})
		if err != nil {
			return errors.WithStack(err)
		}

		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return account, nil
}

func (s *Store) FindAccount(ctx context.Context, email string) (*Account, error) {
	var account *Account
	err := s.Do(ctx, func(conn *sqlite.Conn) error {
		a, err := s.findAccountByEmail(conn, normalizeEmail(email))
		if err != nil {
			return errors.WithStack(err)
		}

		account = a
		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return account, nil
}

// Authenticate checks the given credentials and records the connection
// time. Unknown accounts and wrong passwords both return ErrUnauthenticated.
func (s *Store) Authenticate(ctx context.Context, email, password string) (*Account, error) {
	var account *Account
	err := s.Tx(ctx, func(conn *sqlite.Conn) error {
		a, err := s.findAccountByEmail(conn, normalizeEmail(email))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				// Unknown accounts cost a bcrypt comparison too
				verifyPassword([]byte(password), dummyPasswordHash())
				return errors.WithStack(ErrUnauthenticated)
			}

			return errors.WithStack(err)
		}

		if !verifyPassword([]byte(password), []byte(a.PasswordHash)) {
			return errors.WithStack(ErrUnauthenticated)
		}

		now := time.Now().UTC()

		err = sqlitex.Execute(conn, `UPDATE accounts SET connected_at = ? WHERE id = ?`, &sqlitex.ExecOptions{
			Args: []any{now.Unix(), a.ID},
		})
		if err != nil {
			return errors.WithStack(err)
		}

		a.ConnectedAt = time.Unix(now.Unix(), 0)
		account = a

		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return account, nil
}

func (s *Store) findAccountByEmail(conn *sqlite.Conn, email string) (*Account, error) {
	var account *Account

	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE email = ? LIMIT 1`, accountAttributes)
	err := sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		Args: []any{email},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			account = &Account{}
			bindAccount(stmt, account)
			return nil
		},
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if account == nil {
		return nil, errors.WithStack(ErrNotFound)
	}

	return account, nil
}

func bindAccount(stmt *sqlite.Stmt, account *Account) {
	account.ID = stmt.ColumnInt64(0)
	account.Email = stmt.ColumnText(1)
	account.FirstName = stmt.ColumnText(2)
	account.PasswordHash = stmt.ColumnText(3)
	account.CreatedAt = time.Unix(stmt.ColumnInt64(4), 0)
	account.UpdatedAt = time.Unix(stmt.ColumnInt64(5), 0)

	if stmt.ColumnType(6) != sqlite.TypeNull {
		account.ConnectedAt = time.Unix(stmt.ColumnInt64(6), 0)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) ([]byte, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return bytes, err
}

var comparePassword = bcrypt.CompareHashAndPassword

func verifyPassword(password, hash []byte) bool {
	err := comparePassword(hash, password)
	return err == nil
}

var dummyPasswordHash = sync.OnceValue(func() []byte {
	hash, err := hashPassword(xid.New().String())
	if err != nil {
		panic(errors.WithStack(err))
	}

	return hash
})
