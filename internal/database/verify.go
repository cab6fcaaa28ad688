package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
)

// RequiredTables is the fixed set of tables both engines depend on.
var RequiredTables = []string{"users", "messages"}

// VerifyStructure checks that every required table exists. It returns the
// names of the missing tables; a non-empty result means no destructive or
// generative operation may proceed. Query failures are surfaced as hard
// errors, never as "not ready".
func VerifyStructure(ctx context.Context, db *sql.DB, d Dialect) ([]string, error) {
	var query squirrel.SelectBuilder

	switch d.Provider {
	case "postgresql":
		query = d.Builder().
			Select("table_name").
			From("information_schema.tables").
			Where(squirrel.Eq{"table_schema": "public"}).
			Where(squirrel.Eq{"table_name": RequiredTables})
	case "mysql":
		query = d.Builder().
			Select("table_name").
			From("information_schema.tables").
			Where(squirrel.Expr("table_schema = DATABASE()")).
			Where(squirrel.Eq{"table_name": RequiredTables})
	default:
		query = d.Builder().
			Select("name").
			From("sqlite_master").
			Where(squirrel.Eq{"type": "table"}).
			Where(squirrel.Eq{"name": RequiredTables})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build structure query: %w", err)
	}

	rows, err := db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to verify database structure: %w", err)
	}
	defer rows.Close()

	existing := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		existing[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read table names: %w", err)
	}

	var missing []string
	for _, table := range RequiredTables {
		if !existing[table] {
			missing = append(missing, table)
		}
	}

	return missing, nil
}
