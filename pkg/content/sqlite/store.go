// Package sqlite provides a SQLite-backed content store for local development.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"folio/pkg/content"
	"folio/pkg/content/sqlite/migrations"
)

const migrationTable = "schema_migrations"

// Store reads content from SQLite.
type Store struct {
	sqlDB *sql.DB
}

var _ content.Store = (*Store)(nil)

// Open opens a SQLite content store and applies embedded migrations.
// ":memory:" keeps everything on a single connection.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := path
	memory := path == ":memory:"
	if !memory {
		dsn = filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if memory {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// DB exposes the handle for seeding in tests and tools.
func (s *Store) DB() *sql.DB {
	return s.sqlDB
}

func (s *Store) Sections(ctx context.Context) ([]content.Section, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT id, slug, title, body, position FROM sections ORDER BY position ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query sections: %w", err)
	}
	defer rows.Close()

	out := []content.Section{}
	for rows.Next() {
		var v content.Section
		if err := rows.Scan(&v.ID, &v.Slug, &v.Title, &v.Body, &v.Position); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

const projectColumns = `id, slug, title, summary, description, image_bucket, image_file, link, tags, position`

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (content.Project, error) {
	var (
		v    content.Project
		tags string
	)
	if err := row.Scan(&v.ID, &v.Slug, &v.Title, &v.Summary, &v.Description, &v.ImageBucket, &v.ImageFile, &v.Link, &tags, &v.Position); err != nil {
		return v, err
	}
	v.Tags = []string{}
	if tags != "" {
		if err := json.Unmarshal([]byte(tags), &v.Tags); err != nil {
			return v, fmt.Errorf("decode tags for %q: %w", v.Slug, err)
		}
	}
	return v, nil
}

func (s *Store) Projects(ctx context.Context) ([]content.Project, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY position ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	out := []content.Project{}
	for rows.Next() {
		v, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) Project(ctx context.Context, slug string) (content.Project, error) {
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE slug = ?`, strings.TrimSpace(slug))
	v, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return content.Project{}, content.ErrNotFound
	}
	if err != nil {
		return content.Project{}, fmt.Errorf("get project %q: %w", slug, err)
	}
	return v, nil
}

func (s *Store) HeroTitles(ctx context.Context) ([]content.HeroTitle, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT id, text, position FROM hero_titles ORDER BY position ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query hero titles: %w", err)
	}
	defer rows.Close()

	out := []content.HeroTitle{}
	for rows.Next() {
		var v content.HeroTitle
		if err := rows.Scan(&v.ID, &v.Text, &v.Position); err != nil {
			return nil, fmt.Errorf("scan hero title: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) Quotes(ctx context.Context) ([]content.Quote, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT id, text, author, position FROM quotes ORDER BY position ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	out := []content.Quote{}
	for rows.Next() {
		var v content.Quote
		if err := rows.Scan(&v.ID, &v.Text, &v.Author, &v.Position); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) Trivia(ctx context.Context) ([]content.Trivia, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT id, fact, position FROM trivia ORDER BY position ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query trivia: %w", err)
	}
	defer rows.Close()

	out := []content.Trivia{}
	for rows.Next() {
		var v content.Trivia
		if err := rows.Scan(&v.ID, &v.Fact, &v.Position); err != nil {
			return nil, fmt.Errorf("scan trivia: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// applyMigrations executes each embedded .sql file at most once, in name order.
func applyMigrations(sqlDB *sql.DB, migrationFS fs.FS) error {
	entries, err := fs.ReadDir(migrationFS, ".")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	if _, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS ` + migrationTable + ` (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
)`); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	for _, file := range files {
		var n int
		if err := sqlDB.QueryRow(`SELECT COUNT(1) FROM `+migrationTable+` WHERE name = ?`, file).Scan(&n); err != nil {
			return fmt.Errorf("check migration %s: %w", file, err)
		}
		if n > 0 {
			continue
		}
		body, err := fs.ReadFile(migrationFS, file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}

		tx, err := sqlDB.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %s: %w", file, err)
		}
		if _, err := tx.Exec(string(body)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("exec migration %s: %w", file, err)
		}
		if _, err := tx.Exec(`INSERT INTO `+migrationTable+` (name, applied_at) VALUES (?, ?)`, file, time.Now().UTC().UnixMilli()); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %s: %w", file, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", file, err)
		}
	}
	return nil
}
