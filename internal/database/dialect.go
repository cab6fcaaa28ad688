package database

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
)

// Dialect captures the provider-specific corners of SQL the tool needs:
// placeholder style, RETURNING support and identity sequence resets.
type Dialect struct {
	Provider string
}

func DialectFor(provider string) Dialect {
	switch provider {
	case "postgres":
		provider = "postgresql"
	case "sqlite3":
		provider = "sqlite"
	}
	return Dialect{Provider: provider}
}

func (d Dialect) PlaceholderFormat() squirrel.PlaceholderFormat {
	if d.Provider == "postgresql" {
		return squirrel.Dollar
	}
	return squirrel.Question
}

// Builder returns a statement builder with the provider's placeholders.
func (d Dialect) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(d.PlaceholderFormat())
}

// SupportsReturning reports whether INSERT ... RETURNING is available.
// MySQL and SQLite fall back to LastInsertId.
func (d Dialect) SupportsReturning() bool {
	return d.Provider == "postgresql"
}

// ResetMessageIdentity restarts the identity sequence backing messages.id
// so a freshly emptied table numbers from 1 again.
func (d Dialect) ResetMessageIdentity(ctx context.Context, tx *sql.Tx) error {
	switch d.Provider {
	case "postgresql":
		_, err := tx.ExecContext(ctx, "ALTER SEQUENCE messages_id_seq RESTART WITH 1")
		return err
	case "mysql":
		_, err := tx.ExecContext(ctx, "ALTER TABLE messages AUTO_INCREMENT = 1")
		return err
	default:
		// sqlite_sequence only exists once an AUTOINCREMENT insert happened
		tx.ExecContext(ctx, "DELETE FROM sqlite_sequence WHERE name = 'messages'")
		return nil
	}
}
