package store

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/verseforge/verseforge/internal/extract"
	"github.com/verseforge/verseforge/internal/store/migrations"
	_ "modernc.org/sqlite"
)

// Store is the document store: one document per verse, keyed by
// (collection, doc_id), overwrite on conflict.
type Store struct {
	*sql.DB
}

// Document pairs a derived identifier with its record.
type Document struct {
	ID     string
	Record extract.VerseRecord
}

// NewStore opens (and creates, if needed) the database at dbPath.
func NewStore(ctx context.Context, dbPath string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite doesn't handle concurrent writes well
	sqlDB.SetMaxOpenConns(1)

	if _, err := sqlDB.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := sqlDB.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return &Store{DB: sqlDB}, nil
}

// Migrate runs all pending database migrations.
func (s *Store) Migrate(ctx context.Context) error {
	slog.Info("running database migrations")

	_, err := s.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	rows, err := s.QueryContext(ctx, "SELECT version FROM schema_migrations ORDER BY version")
	if err != nil {
		return fmt.Errorf("query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return fmt.Errorf("scan migration: %w", err)
		}
		applied[version] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate migrations: %w", err)
	}

	entries, err := fs.ReadDir(migrations.FS, ".")
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

	for _, file := range files {
		if applied[file] {
			slog.Debug("migration already applied", "file", file)
			continue
		}

		slog.Info("applying migration", "file", file)

		content, err := fs.ReadFile(migrations.FS, file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}

		sqlContent := extractUpMigration(string(content))

		tx, err := s.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}

		if _, err := tx.ExecContext(ctx, sqlContent); err != nil {
			tx.Rollback()
			return fmt.Errorf("execute migration %s: %w", file, err)
		}

		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", file); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %s: %w", file, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", file, err)
		}
	}

	return nil
}

// extractUpMigration extracts the "up" portion of a migration file.
func extractUpMigration(content string) string {
	downMarker := "-- +migrate Down"
	idx := strings.Index(content, downMarker)
	if idx == -1 {
		return content
	}

	up := content[:idx]
	up = strings.TrimPrefix(strings.TrimSpace(up), "-- +migrate Up")
	return strings.TrimSpace(up)
}

const upsertSQL = `
	INSERT INTO verses (
		collection, doc_id, topic_id, topic_name, verse_ref, scripture_text,
		religion, qualities, meaning, book, chapter, tags
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (collection, doc_id) DO UPDATE SET
		topic_id = excluded.topic_id,
		topic_name = excluded.topic_name,
		verse_ref = excluded.verse_ref,
		scripture_text = excluded.scripture_text,
		religion = excluded.religion,
		qualities = excluded.qualities,
		meaning = excluded.meaning,
		book = excluded.book,
		chapter = excluded.chapter,
		tags = excluded.tags,
		updated_at = CURRENT_TIMESTAMP
`

// UpsertVerse writes one document, overwriting any existing one with the
// same identifier.
func (s *Store) UpsertVerse(ctx context.Context, collection string, doc Document) error {
	if doc.ID == "" {
		return fmt.Errorf("document id is required")
	}
	_, err := s.ExecContext(ctx, upsertSQL, upsertArgs(collection, doc)...)
	if err != nil {
		return fmt.Errorf("upsert verse %s: %w", doc.ID, err)
	}
	return nil
}

// UpsertVerses writes a batch of documents in one transaction; either every
// document lands or none do.
func (s *Store) UpsertVerses(ctx context.Context, collection string, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	for _, doc := range docs {
		if doc.ID == "" {
			tx.Rollback()
			return fmt.Errorf("document id is required")
		}
		if _, err := tx.ExecContext(ctx, upsertSQL, upsertArgs(collection, doc)...); err != nil {
			tx.Rollback()
			return fmt.Errorf("upsert verse %s: %w", doc.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

func upsertArgs(collection string, doc Document) []any {
	r := doc.Record
	return []any{
		collection, doc.ID, r.TopicID, r.TopicName, r.VerseRef, r.ScriptureText,
		r.Religion, r.Qualities, r.Meaning, r.Book, r.Chapter, r.Tags,
	}
}

// GetVerse fetches one document. Returns sql.ErrNoRows when absent.
func (s *Store) GetVerse(ctx context.Context, collection, docID string) (extract.VerseRecord, error) {
	var r extract.VerseRecord
	err := s.QueryRowContext(ctx, `
		SELECT topic_id, topic_name, verse_ref, scripture_text, religion,
		       qualities, meaning, book, chapter, tags
		FROM verses WHERE collection = ? AND doc_id = ?
	`, collection, docID).Scan(
		&r.TopicID, &r.TopicName, &r.VerseRef, &r.ScriptureText, &r.Religion,
		&r.Qualities, &r.Meaning, &r.Book, &r.Chapter, &r.Tags,
	)
	if err != nil {
		return extract.VerseRecord{}, err
	}
	return r, nil
}

// CountVerses counts the documents in one collection.
func (s *Store) CountVerses(ctx context.Context, collection string) (int64, error) {
	var count int64
	err := s.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM verses WHERE collection = ?", collection).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count verses: %w", err)
	}
	return count, nil
}

// CountRow is one row of a grouped count.
type CountRow struct {
	Name  string
	Count int64
}

// CountByCollection returns document counts per collection, largest first.
func (s *Store) CountByCollection(ctx context.Context) ([]CountRow, error) {
	return s.groupedCount(ctx,
		"SELECT collection, COUNT(*) FROM verses GROUP BY collection ORDER BY COUNT(*) DESC, collection")
}

// CountByReligion returns document counts per religion, largest first.
func (s *Store) CountByReligion(ctx context.Context) ([]CountRow, error) {
	return s.groupedCount(ctx,
		"SELECT religion, COUNT(*) FROM verses GROUP BY religion ORDER BY COUNT(*) DESC, religion")
}

func (s *Store) groupedCount(ctx context.Context, query string) ([]CountRow, error) {
	rows, err := s.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("grouped count: %w", err)
	}
	defer rows.Close()

	var result []CountRow
	for rows.Next() {
		var row CountRow
		if err := rows.Scan(&row.Name, &row.Count); err != nil {
			return nil, fmt.Errorf("scan count row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.DB.Close()
}
