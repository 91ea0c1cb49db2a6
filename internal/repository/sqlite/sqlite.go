// Package sqlite implements the repository interfaces on SQLite.
//
// WHY SQLITE?
// The whole board is one process with modest write traffic, so an embedded
// database is the simplest thing that works: a single file, no server to
// run. modernc.org/sqlite is a pure-Go translation of SQLite — no CGo, so
// cross-compilation stays trivial.
//
// STORE INITIALIZATION:
// New opens the pool, sets pragmas, and runs the goose migrations exactly
// once at process start. Repositories receive the resulting handle;
// nothing checks schema existence per request.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pressly/goose/v3"

	// Side-effect import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"

	"github.com/bdec/jobboard/internal/model"
	"github.com/bdec/jobboard/internal/repository/sqlite/migrations"
)

// DB owns the sql.DB pool. The per-aggregate repositories (Users, Jobs,
// Applications) share it; they are cheap views, safe to create on the fly.
type DB struct {
	conn *sql.DB
}

// Users returns the user repository backed by this store.
func (db *DB) Users() *UserRepo { return &UserRepo{conn: db.conn} }

// Jobs returns the job repository backed by this store.
func (db *DB) Jobs() *JobRepo { return &JobRepo{conn: db.conn} }

// Applications returns the application repository backed by this store.
func (db *DB) Applications() *ApplicationRepo { return &ApplicationRepo{conn: db.conn} }

// New opens (or creates) the database at dbPath and brings the schema up
// to date. Use ":memory:" in tests.
func New(ctx context.Context, dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Each pooled connection to ":memory:" would get its own private
	// database, so the schema created by the migration connection would be
	// invisible to the others. One connection keeps everyone on the same DB.
	if strings.Contains(dbPath, ":memory:") {
		conn.SetMaxOpenConns(1)
	}

	// Surface a bad path or permission problem now, not on the first query.
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets reads proceed during a write — one writer is plenty here,
	// but readers must not queue behind it.
	if _, err := conn.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Off by default in SQLite; applications reference users and jobs.
	if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool, flushing the WAL.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate applies the embedded goose migrations.
func (db *DB) migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db.conn, "."); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

// EnsureAdmin bootstraps the admin account when no user with adminEmail
// exists yet. passwordHash is a ready bcrypt hash — this package never
// sees plaintext passwords.
func (db *DB) EnsureAdmin(ctx context.Context, name, email, passwordHash string) error {
	var id int64
	err := db.conn.QueryRowContext(ctx,
		`SELECT id FROM users WHERE email = ?`, email,
	).Scan(&id)
	if err == nil {
		return nil // admin already present
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("sqlite: looking up admin account: %w", err)
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO users (name, email, password, role, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		name, email, passwordHash, model.RoleAdmin, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating admin account: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure on
// the given column set (e.g. "users.email").
//
// modernc.org/sqlite embeds the violated constraint in the error text
// ("UNIQUE constraint failed: users.email"); matching on it keeps this
// package's callers on apperror semantics instead of driver details.
func isUniqueViolation(err error, columns string) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: "+columns)
}
