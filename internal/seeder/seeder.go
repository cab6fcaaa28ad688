// Package seeder idempotently populates the users and messages tables
// with the sample roster and reconciles the derived post counters.
package seeder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/fatih/color"
	"golang.org/x/crypto/bcrypt"

	"github.com/pashagur/betapbbs/internal/database"
)

// SeededUser records one roster entry's outcome, reused or created.
// Password echoes the original seed plaintext for local testing only;
// never feed real credentials through the roster.
type SeededUser struct {
	ID        int64
	Username  string
	Email     string
	Password  string
	Role      Role
	Created   bool
	PostCount int
}

type Report struct {
	Users           []SeededUser
	MessagesCreated int
}

func (r *Report) CreatedCount() int {
	n := 0
	for _, u := range r.Users {
		if u.Created {
			n++
		}
	}
	return n
}

// Seeder runs the whole roster inside a single transaction. There is no
// locking against concurrent runs: the unique constraints on
// users.username and users.email are the authoritative guard, and a
// violation aborts the run with a full rollback.
type Seeder struct {
	Out io.Writer

	db      *sql.DB
	dialect database.Dialect
	roster  []UserSpec
	pool    []string
	rng     *rand.Rand
	now     func() time.Time
}

func New(db *sql.DB, dialect database.Dialect, roster []UserSpec) *Seeder {
	return &Seeder{
		Out:     os.Stdout,
		db:      db,
		dialect: dialect,
		roster:  roster,
		pool:    MessagePool(),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
	}
}

// Run ensures every roster user exists, generates their messages and
// recomputes post_count from the actual message rows. All changes commit
// as one unit; any failure rolls everything back.
func (s *Seeder) Run(ctx context.Context) (*Report, error) {
	if err := ValidateRoster(s.roster); err != nil {
		return nil, fmt.Errorf("invalid roster: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	report := &Report{}

	for _, spec := range s.roster {
		user, err := s.ensureUser(ctx, tx, spec)
		if err != nil {
			return nil, err
		}
		report.Users = append(report.Users, user)
	}

	for i := range report.Users {
		n, err := s.seedMessages(ctx, tx, &report.Users[i])
		if err != nil {
			return nil, err
		}
		report.MessagesCreated += n
	}

	if err := s.reconcilePostCounts(ctx, tx, report); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit seed transaction: %w", err)
	}

	color.New(color.FgGreen).Fprintf(s.Out, "Created %d sample messages\n", report.MessagesCreated)
	fmt.Fprintln(s.Out, "Updated user post counts")

	return report, nil
}

// ensureUser looks the roster entry up by username and inserts it only
// when absent. An existing row is reused untouched: no re-hash, no
// update. This is the idempotency contract.
func (s *Seeder) ensureUser(ctx context.Context, tx *sql.Tx, spec UserSpec) (SeededUser, error) {
	qb := s.dialect.Builder()

	query, args, err := qb.
		Select("id", "email").
		From("users").
		Where(squirrel.Eq{"username": spec.Username}).
		ToSql()
	if err != nil {
		return SeededUser{}, fmt.Errorf("failed to build user lookup: %w", err)
	}

	var id int64
	var email string
	err = tx.QueryRowContext(ctx, query, args...).Scan(&id, &email)
	switch {
	case err == nil:
		fmt.Fprintf(s.Out, "User %s already exists:\n", spec.Username)
		fmt.Fprintf(s.Out, "  - ID: %d\n", id)
		fmt.Fprintf(s.Out, "  - Email: %s\n", email)
		fmt.Fprintf(s.Out, "  - Password: %s (original seed password)\n\n", spec.Password)
		return SeededUser{
			ID:       id,
			Username: spec.Username,
			Email:    email,
			Password: spec.Password,
			Role:     spec.Role,
		}, nil
	case errors.Is(err, sql.ErrNoRows):
		// fall through to insert
	default:
		return SeededUser{}, fmt.Errorf("failed to look up user %s: %w", spec.Username, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(spec.Password), bcrypt.DefaultCost)
	if err != nil {
		return SeededUser{}, fmt.Errorf("failed to hash password for %s: %w", spec.Username, err)
	}

	// Backdate the join so seeded messages land after it.
	joined := s.now().UTC().AddDate(0, 0, -(30 + s.rng.Intn(61)))

	insert := qb.
		Insert("users").
		Columns("username", "email", "password_hash", "role", "is_active", "post_count", "date_joined").
		Values(spec.Username, spec.Email, string(hash), int(spec.Role), true, 0, joined)

	if s.dialect.SupportsReturning() {
		query, args, err := insert.Suffix("RETURNING id").ToSql()
		if err != nil {
			return SeededUser{}, fmt.Errorf("failed to build user insert: %w", err)
		}
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			return SeededUser{}, fmt.Errorf("failed to insert user %s: %w", spec.Username, err)
		}
	} else {
		query, args, err := insert.ToSql()
		if err != nil {
			return SeededUser{}, fmt.Errorf("failed to build user insert: %w", err)
		}
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return SeededUser{}, fmt.Errorf("failed to insert user %s: %w", spec.Username, err)
		}
		id, err = result.LastInsertId()
		if err != nil {
			return SeededUser{}, fmt.Errorf("failed to read id for user %s: %w", spec.Username, err)
		}
	}

	color.New(color.FgGreen).Fprintf(s.Out, "Created user: %s\n", spec.Username)
	fmt.Fprintf(s.Out, "  - ID: %d\n", id)
	fmt.Fprintf(s.Out, "  - Email: %s\n", spec.Email)
	fmt.Fprintf(s.Out, "  - Password: %s\n", spec.Password)
	fmt.Fprintf(s.Out, "  - Role: %s\n\n", spec.Role)

	return SeededUser{
		ID:       id,
		Username: spec.Username,
		Email:    spec.Email,
		Password: spec.Password,
		Role:     spec.Role,
		Created:  true,
	}, nil
}

// seedMessages draws sentences without replacement from the pool, so one
// user never posts the same sentence twice in a batch. Duplicates across
// users are fine.
func (s *Seeder) seedMessages(ctx context.Context, tx *sql.Tx, user *SeededUser) (int, error) {
	spec := s.specFor(user.Username)

	n := spec.Posts
	if n <= 0 {
		n = 3 + s.rng.Intn(3)
	}
	if n > len(s.pool) {
		n = len(s.pool)
	}

	qb := s.dialect.Builder()
	perm := s.rng.Perm(len(s.pool))

	for _, idx := range perm[:n] {
		query, args, err := qb.
			Insert("messages").
			Columns("content", "user_id", "timestamp").
			Values(s.pool[idx], user.ID, s.randomTimestamp()).
			ToSql()
		if err != nil {
			return 0, fmt.Errorf("failed to build message insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("failed to insert message for %s: %w", user.Username, err)
		}
	}

	return n, nil
}

func (s *Seeder) specFor(username string) UserSpec {
	for _, spec := range s.roster {
		if spec.Username == username {
			return spec
		}
	}
	return UserSpec{}
}

// randomTimestamp returns a point within the last 30 days.
func (s *Seeder) randomTimestamp() time.Time {
	offset := time.Duration(1+s.rng.Intn(30))*24*time.Hour +
		time.Duration(s.rng.Intn(24))*time.Hour +
		time.Duration(s.rng.Intn(60))*time.Minute
	return s.now().UTC().Add(-offset)
}

// reconcilePostCounts overwrites post_count for every seeded user with
// the aggregate count of their current message rows. The database is the
// source of truth here, not an in-memory tally: rows left over from a
// prior run are counted too.
func (s *Seeder) reconcilePostCounts(ctx context.Context, tx *sql.Tx, report *Report) error {
	if len(report.Users) == 0 {
		return nil
	}

	ids := make([]int64, len(report.Users))
	for i, u := range report.Users {
		ids[i] = u.ID
	}

	qb := s.dialect.Builder()

	query, args, err := qb.
		Update("users").
		Set("post_count", squirrel.Expr("(SELECT COUNT(*) FROM messages WHERE messages.user_id = users.id)")).
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build post count update: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update post counts: %w", err)
	}

	query, args, err = qb.
		Select("id", "post_count").
		From("users").
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build post count query: %w", err)
	}

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to read post counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var id int64
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return fmt.Errorf("failed to scan post count: %w", err)
		}
		counts[id] = count
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read post counts: %w", err)
	}

	for i := range report.Users {
		report.Users[i].PostCount = counts[report.Users[i].ID]
	}

	return nil
}
