package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

var preferenceMigrations = []string{
	`CREATE TABLE IF NOT EXISTS preferences (
		visitor TEXT NOT NULL,
		name TEXT NOT NULL,
		value TEXT NOT NULL,
		updated_at INTEGER NOT NULL,

		PRIMARY KEY (visitor, name)
	);`,
}

func (s *Store) ReadPreference(ctx context.Context, visitor, name string) (string, bool, error) {
	var (
		value  string
		exists bool
	)

	err := s.Do(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn, `SELECT value FROM preferences WHERE visitor = ? AND name = ? LIMIT 1`, &sqlitex.ExecOptions{
			Args: []any{visitor, name},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				value = stmt.ColumnText(0)
				exists = true
				return nil
			},
		})
		return errors.WithStack(err)
	})
	if err != nil {
		return "", false, errors.WithStack(err)
	}

	return value, exists, nil
}

func (s *Store) WritePreference(ctx context.Context, visitor, name, value string) error {
	return s.Do(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn, `
			INSERT INTO preferences (visitor, name, value, updated_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (visitor, name) DO UPDATE SET
				value = excluded.value,
				updated_at = excluded.updated_at
		`, &sqlitex.ExecOptions{
			Args: []any{visitor, name, value, time.Now().UTC().Unix()},
		})
		return errors.WithStack(err)
	})
}

func (s *Store) DeletePreference(ctx context.Context, visitor, name string) error {
	return s.Do(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn, `DELETE FROM preferences WHERE visitor = ? AND name = ?`, &sqlitex.ExecOptions{
			Args: []any{visitor, name},
		})
		return errors.WithStack(err)
	})
}

// PurgePreferences deletes preferences not updated since before.
func (s *Store) PurgePreferences(ctx context.Context, before time.Time) (int, error) {
	var deleted int

	err := s.Do(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn, `DELETE FROM preferences WHERE updated_at < ?`, &sqlitex.ExecOptions{
			Args: []any{before.UTC().Unix()},
		})
		if err != nil {
			return errors.WithStack(err)
		}

		deleted = conn.Changes()
		return nil
	})
	if err != nil {
		return 0, errors.WithStack(err)
	}

	return deleted, nil
}
