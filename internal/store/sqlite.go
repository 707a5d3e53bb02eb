// internal/store/sqlite.go
//
// SQLite-backed case ledger.
// Responsibilities:
//   - Opening SQLite database with safe defaults (WAL, busy timeout, foreign keys).
//   - Applying migrations from an fs.FS (idempotent, recorded in _migrations).
//   - Recording verdicts and listing the most recent ones.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/blackwood-mystery/internal/game"
)

// OpenSQLite opens (and creates if missing) a SQLite database file.
// The parent directory of a file DSN is created on demand.
func OpenSQLite(dsn string) (*sql.DB, error) {
	if !strings.HasPrefix(dsn, ":memory:") && !strings.HasPrefix(dsn, "file:") {
		dir := filepath.Dir(dsn)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("mkdir %s: %w", dir, err)
			}
		}
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	db, err := sql.Open("sqlite3", dsn+sep+"_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	// One connection keeps ":memory:" databases from splitting per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return db, nil
}

// Migrate applies every *.sql file in migrations, in lexical order, once.
// Applied names are recorded in the _migrations table.
func Migrate(db *sql.DB, migrations fs.FS) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	files, err := fs.Glob(migrations, "*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		var done int
		err := db.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, f).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", f).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		sqlBytes, err := fs.ReadFile(migrations, f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(sqlBytes)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := tx.Exec(`INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f, err)
		}
		log.Info().Str("migration", f).Msg("applied")
	}
	return nil
}

// closedAtLayout is fixed width so closed_at sorts lexically.
const closedAtLayout = "2006-01-02T15:04:05.000Z"

type sqliteStore struct{ db *sql.DB }

// NewSQLiteStore returns a Store over a migrated database.
func NewSQLiteStore(db *sql.DB) Store { return &sqliteStore{db: db} }

// Record inserts the verdict; an existing row with the same ID is left as is.
func (s *sqliteStore) Record(ctx context.Context, v game.Verdict) error {
	if v.ID == "" {
		return ErrEmptyID
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO verdicts
            (id, killer, weapon, motive, solved, facts_found, moves, elapsed_ms, closed_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.Killer, v.Weapon, v.Motive, v.Solved, v.FactsFound, v.Moves, v.ElapsedMs,
		v.ClosedAt.UTC().Format(closedAtLayout),
	)
	if err != nil {
		return fmt.Errorf("insert verdict %s: %w", v.ID, err)
	}
	return nil
}

// Recent lists verdicts ordered by close time, newest first.
func (s *sqliteStore) Recent(ctx context.Context, limit int) ([]game.Verdict, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, killer, weapon, motive, solved, facts_found, moves, elapsed_ms, closed_at
        FROM verdicts
        ORDER BY closed_at DESC, rowid DESC
        LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query verdicts: %w", err)
	}
	defer rows.Close()

	out := make([]game.Verdict, 0, limit)
	for rows.Next() {
		var (
			v      game.Verdict
			closed string
		)
		if err := rows.Scan(&v.ID, &v.Killer, &v.Weapon, &v.Motive, &v.Solved,
			&v.FactsFound, &v.Moves, &v.ElapsedMs, &closed); err != nil {
			return nil, err
		}
		v.ClosedAt, _ = time.Parse(closedAtLayout, closed)
		out = append(out, v)
	}
	return out, rows.Err()
}
