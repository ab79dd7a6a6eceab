package db

import (
	"context"
	_ "embed"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// EnsureSchema creates the users and user_data tables if they do not exist.
// This is a startup bootstrap, not a migration system: the statements are
// idempotent and unversioned. Statements run one at a time because the
// extended query protocol takes a single statement per Exec.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		stmt = strings.TrimSpace(stmt)

		if stmt == "" {
			continue
		}

		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}
