// Package sqlite persists the expense ledger and expense categories.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/couchcryptid/crop-advisor-service/internal/domain"
)

// ErrInvalidCategory is returned for a blank category name.
var ErrInvalidCategory = errors.New("category name required")

const schema = `
CREATE TABLE IF NOT EXISTS expense_categories (
  position INTEGER PRIMARY KEY AUTOINCREMENT,
  name     TEXT    NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS expenses (
  seq         INTEGER PRIMARY KEY AUTOINCREMENT,
  id          TEXT    NOT NULL UNIQUE,
  category    TEXT    NOT NULL,
  description TEXT    NOT NULL DEFAULT '',
  amount      REAL    NOT NULL,
  date        TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_expenses_category ON expenses(category);
`

// Store is a SQLite-backed expense ledger.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path, applies the schema and seeds
// the default categories on first use. ":memory:" opens a private
// in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn, err := buildDSN(path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	// A single connection keeps :memory: databases alive and serialises writes.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	s := &Store{db: db}
	if err := s.seedCategories(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func buildDSN(path string) (string, error) {
	if path == ":memory:" {
		return "file::memory:?_foreign_keys=on", nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL", path), nil
}

func (s *Store) seedCategories(ctx context.Context) error {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM expense_categories`).Scan(&n); err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if n > 0 {
		return nil
	}
	for _, c := range domain.DefaultExpenseCategories {
		if err := s.AddCategory(ctx, c); err != nil {
			return fmt.Errorf("seed categories: %w", err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// AddExpenses validates and inserts expenses in one transaction, assigning
// ids and defaulting a zero date to now. It returns the stored rows.
func (s *Store) AddExpenses(ctx context.Context, expenses []domain.Expense) ([]domain.Expense, error) {
	for i, e := range expenses {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("expense %d: %w", i, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO expenses(id, category, description, amount, date) VALUES(?,?,?,?,?)`)
	if err != nil {
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	stored := make([]domain.Expense, 0, len(expenses))
	for _, e := range expenses {
		e.ID = uuid.NewString()
		e.Category = strings.TrimSpace(e.Category)
		if e.Date.IsZero() {
			e.Date = domain.Now()
		}
		e.Date = e.Date.UTC().Truncate(time.Second)

		if _, err := stmt.ExecContext(ctx, e.ID, e.Category, e.Description, e.Amount, e.Date.Format(time.RFC3339)); err != nil {
			return nil, fmt.Errorf("insert expense: %w", err)
		}
		stored = append(stored, e)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return stored, nil
}

// ListExpenses returns expenses in insertion order, optionally restricted to
// one category. An empty category lists everything.
func (s *Store) ListExpenses(ctx context.Context, category string) ([]domain.Expense, error) {
	query := `SELECT id, category, description, amount, date FROM expenses`
	var args []any
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY seq`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Expense, 0)
	for rows.Next() {
		var (
			e    domain.Expense
			date string
		)
		if err := rows.Scan(&e.ID, &e.Category, &e.Description, &e.Amount, &date); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		if e.Date, err = time.Parse(time.RFC3339, date); err != nil {
			return nil, fmt.Errorf("parse expense date %q: %w", date, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ClearExpenses deletes every expense and reports how many were removed.
func (s *Store) ClearExpenses(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses`)
	if err != nil {
		return 0, fmt.Errorf("clear expenses: %w", err)
	}
	return res.RowsAffected()
}

// Categories returns the category names in the order they were added.
func (s *Store) Categories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM expense_categories ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	out := make([]string, 0, len(domain.DefaultExpenseCategories))
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// AddCategory appends a category. Adding an existing name is a no-op.
func (s *Store) AddCategory(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidCategory
	}
	if _, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO expense_categories(name) VALUES(?)`, name); err != nil {
		return fmt.Errorf("add category: %w", err)
	}
	return nil
}
