// Package cleaner empties the messages and users tables and resets the
// message identity sequence, as one atomic unit.
package cleaner

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/pashagur/betapbbs/internal/database"
)

type Report struct {
	MessagesDeleted int64
	UsersDeleted    int64
	AlreadyClean    bool
}

type Cleaner struct {
	Out io.Writer

	db      *sql.DB
	dialect database.Dialect
}

func New(db *sql.DB, dialect database.Dialect) *Cleaner {
	return &Cleaner{
		Out:     os.Stdout,
		db:      db,
		dialect: dialect,
	}
}

// Run deletes all messages, then all users, then restarts the message
// identity sequence. Messages must go first: they carry a mandatory
// foreign key to users, and the reverse order is a referential-integrity
// failure. Any error rolls back the whole cleanup.
func (c *Cleaner) Run(ctx context.Context) (*Report, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	report := &Report{}

	messageCount, err := c.countRows(ctx, tx, "messages")
	if err != nil {
		return nil, err
	}
	userCount, err := c.countRows(ctx, tx, "users")
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(c.Out, "Found %d messages and %d users\n", messageCount, userCount)

	if messageCount == 0 && userCount == 0 {
		report.AlreadyClean = true
		color.New(color.FgGreen).Fprintln(c.Out, "Database is already clean!")
		return report, nil
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM messages"); err != nil {
		return nil, fmt.Errorf("failed to delete messages: %w", err)
	}
	report.MessagesDeleted = messageCount
	fmt.Fprintf(c.Out, "Deleted %d messages\n", messageCount)

	if _, err := tx.ExecContext(ctx, "DELETE FROM users"); err != nil {
		return nil, fmt.Errorf("failed to delete users: %w", err)
	}
	report.UsersDeleted = userCount
	fmt.Fprintf(c.Out, "Deleted %d users\n", userCount)

	if err := c.dialect.ResetMessageIdentity(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to reset message id sequence: %w", err)
	}
	fmt.Fprintln(c.Out, "Reset messages ID sequence")

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit cleanup transaction: %w", err)
	}

	color.New(color.FgGreen).Fprintln(c.Out, "Database cleanup completed successfully!")
	return report, nil
}

func (c *Cleaner) countRows(ctx context.Context, tx *sql.Tx, table string) (int64, error) {
	query, args, err := c.dialect.Builder().
		Select("COUNT(*)").
		From(table).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query for %s: %w", table, err)
	}

	var count int64
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return count, nil
}
