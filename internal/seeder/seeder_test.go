package seeder

import (
	"context"
	"database/sql"
	"io"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pashagur/betapbbs/internal/database"
)

const testSchema = `
CREATE TABLE users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username VARCHAR(64) NOT NULL UNIQUE,
	email VARCHAR(120) NOT NULL UNIQUE,
	password_hash VARCHAR(256) NOT NULL,
	role INTEGER NOT NULL DEFAULT 0,
	is_active BOOLEAN NOT NULL DEFAULT 1,
	post_count INTEGER NOT NULL DEFAULT 0,
	date_joined TIMESTAMP
);
CREATE TABLE messages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	content TEXT NOT NULL,
	timestamp TIMESTAMP,
	user_id INTEGER NOT NULL REFERENCES users(id)
);`

func newTestDB(t *testing.T) (*sql.DB, database.Dialect) {
	t.Helper()

	db, err := sql.Open("sqlite3", "file::memory:?_fk=1")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	return db, database.DialectFor("sqlite")
}

func newTestSeeder(db *sql.DB, dialect database.Dialect, roster []UserSpec) *Seeder {
	s := New(db, dialect, roster)
	s.Out = io.Discard
	return s
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestSeedEmptyDatabase(t *testing.T) {
	db, dialect := newTestDB(t)
	ctx := context.Background()

	report, err := newTestSeeder(db, dialect, DefaultRoster()).Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 4, countRows(t, db, "users"))
	assert.Equal(t, 4, report.CreatedCount())
	assert.Len(t, report.Users, 4)

	// 4 users, 3-5 messages each
	total := countRows(t, db, "messages")
	assert.GreaterOrEqual(t, total, 12)
	assert.LessOrEqual(t, total, 20)
	assert.Equal(t, total, report.MessagesCreated)

	var admins int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM users WHERE role = 1").Scan(&admins))
	assert.Equal(t, 1, admins)
}

func TestSeedPostCountMatchesMessages(t *testing.T) {
	db, dialect := newTestDB(t)
	ctx := context.Background()

	report, err := newTestSeeder(db, dialect, DefaultRoster()).Run(ctx)
	require.NoError(t, err)

	for _, u := range report.Users {
		var actual int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM messages WHERE user_id = ?", u.ID).Scan(&actual))

		var stored int
		require.NoError(t, db.QueryRow("SELECT post_count FROM users WHERE id = ?", u.ID).Scan(&stored))

		assert.Equal(t, actual, stored, "post_count for %s must match message rows", u.Username)
		assert.Equal(t, actual, u.PostCount)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	db, dialect := newTestDB(t)
	ctx := context.Background()

	first, err := newTestSeeder(db, dialect, DefaultRoster()).Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 4, first.CreatedCount())

	second, err := newTestSeeder(db, dialect, DefaultRoster()).Run(ctx)
	require.NoError(t, err)

	// No new users, no duplicate usernames.
	assert.Equal(t, 0, second.CreatedCount())
	assert.Equal(t, 4, countRows(t, db, "users"))

	var distinct int
	require.NoError(t, db.QueryRow("SELECT COUNT(DISTINCT username) FROM users").Scan(&distinct))
	assert.Equal(t, 4, distinct)

	// Messages accumulate across runs but post_count stays reconciled.
	for _, u := range second.Users {
		var actual int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM messages WHERE user_id = ?", u.ID).Scan(&actual))
		assert.Equal(t, actual, u.PostCount)
	}
}

func TestSeedReusesExistingUserUntouched(t *testing.T) {
	db, dialect := newTestDB(t)
	ctx := context.Background()

	_, err := db.Exec(
		"INSERT INTO users (username, email, password_hash, role, is_active, post_count) VALUES (?, ?, ?, ?, ?, ?)",
		"bob", "bob@elsewhere.org", "pre-existing-hash", 0, true, 0,
	)
	require.NoError(t, err)

	report, err := newTestSeeder(db, dialect, DefaultRoster()).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, report.CreatedCount())
	assert.Equal(t, 4, countRows(t, db, "users"))

	var hash, email string
	require.NoError(t, db.QueryRow("SELECT password_hash, email FROM users WHERE username = 'bob'").Scan(&hash, &email))
	assert.Equal(t, "pre-existing-hash", hash, "existing rows must not be re-hashed")
	assert.Equal(t, "bob@elsewhere.org", email, "existing rows must not be mutated")

	for _, u := range report.Users {
		if u.Username == "bob" {
			assert.False(t, u.Created)
			assert.Equal(t, "Password123!", u.Password, "report echoes the intended seed password")
		}
	}
}

func TestSeedPostTargetBoundedByPool(t *testing.T) {
	db, dialect := newTestDB(t)
	ctx := context.Background()

	roster := []UserSpec{
		{Username: "prolific", Email: "p@example.com", Password: "pw", Posts: 100},
	}

	report, err := newTestSeeder(db, dialect, roster).Run(ctx)
	require.NoError(t, err)

	// Drawn without replacement: never more than the pool has.
	assert.Equal(t, len(MessagePool()), report.MessagesCreated)

	var distinct int
	require.NoError(t, db.QueryRow("SELECT COUNT(DISTINCT content) FROM messages").Scan(&distinct))
	assert.Equal(t, report.MessagesCreated, distinct, "one user's batch never repeats a sentence")
}

func TestSeedTimestampsInRecentPast(t *testing.T) {
	db, dialect := newTestDB(t)
	ctx := context.Background()

	_, err := newTestSeeder(db, dialect, DefaultRoster()).Run(ctx)
	require.NoError(t, err)

	rows, err := db.Query("SELECT timestamp FROM messages")
	require.NoError(t, err)
	defer rows.Close()

	now := time.Now().UTC()
	for rows.Next() {
		var ts time.Time
		require.NoError(t, rows.Scan(&ts))
		assert.True(t, ts.Before(now), "timestamp %v must be in the past", ts)
		assert.True(t, ts.After(now.AddDate(0, 0, -32)), "timestamp %v must be within the recent window", ts)
	}
	require.NoError(t, rows.Err())
}

func TestSeedRollsBackOnFailure(t *testing.T) {
	db, dialect := newTestDB(t)
	ctx := context.Background()

	// Second entry collides on email with the first: unique constraint
	// fires mid-roster and the whole run must roll back.
	roster := []UserSpec{
		{Username: "one", Email: "same@example.com", Password: "pw"},
		{Username: "two", Email: "same@example.com", Password: "pw"},
	}

	_, err := newTestSeeder(db, dialect, roster).Run(ctx)
	require.Error(t, err)

	assert.Equal(t, 0, countRows(t, db, "users"), "partial roster must not survive")
	assert.Equal(t, 0, countRows(t, db, "messages"))
}

func TestSeedRejectsInvalidRoster(t *testing.T) {
	db, dialect := newTestDB(t)

	_, err := newTestSeeder(db, dialect, nil).Run(context.Background())
	require.Error(t, err)
}
