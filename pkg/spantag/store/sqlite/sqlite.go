// Package sqlite implements store.Store on a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/clinitext/spantag/pkg/spantag/internalerr"
	"github.com/clinitext/spantag/pkg/spantag/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite database with WAL mode enabled and initializes the
// schema.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS docs (
	id TEXT PRIMARY KEY,
	name TEXT,
	text TEXT NOT NULL,
	tagged_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS spans (
	doc_id TEXT NOT NULL,
	ord INTEGER NOT NULL,
	category TEXT NOT NULL,
	rule_name TEXT,
	text TEXT NOT NULL,
	token_start INTEGER NOT NULL,
	token_end INTEGER NOT NULL,
	char_start INTEGER NOT NULL,
	char_end INTEGER NOT NULL,
	PRIMARY KEY(doc_id, ord),
	FOREIGN KEY(doc_id) REFERENCES docs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_spans_category ON spans(category);
CREATE INDEX IF NOT EXISTS idx_spans_rule ON spans(rule_name);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveDoc inserts or replaces a tagged document and its spans.
func (s *sqliteStore) SaveDoc(ctx context.Context, d store.Doc) error {
	if d.ID == "" {
		return fmt.Errorf("%w: document has no ID", internalerr.ErrInvalidConfig)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const stmt = `
INSERT INTO docs (id, name, text, tagged_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	name=excluded.name,
	text=excluded.text,
	tagged_at=excluded.tagged_at;
`
	if _, err := tx.ExecContext(
		ctx,
		stmt,
		d.ID,
		d.Name,
		d.Text,
		d.TaggedAt.UTC().Format(time.RFC3339),
	); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM spans WHERE doc_id = ?`, d.ID); err != nil {
		return err
	}
	for i, sp := range d.Spans {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO spans (doc_id, ord, category, rule_name, text, token_start, token_end, char_start, char_end)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			d.ID, i, sp.Category, sp.RuleName, sp.Text,
			sp.TokenStart, sp.TokenEnd, sp.CharStart, sp.CharEnd,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetDoc returns a document with its spans by ID.
func (s *sqliteStore) GetDoc(ctx context.Context, id string) (store.Doc, error) {
	var (
		d        store.Doc
		taggedAt string
	)
	err := s.db.QueryRowContext(
		ctx,
		`SELECT id, name, text, tagged_at FROM docs WHERE id = ?`,
		id,
	).Scan(&d.ID, &d.Name, &d.Text, &taggedAt)
	if err == sql.ErrNoRows {
		return store.Doc{}, fmt.Errorf("doc %s: %w", id, internalerr.ErrNotFound)
	}
	if err != nil {
		return store.Doc{}, err
	}

	if d.TaggedAt, err = time.Parse(time.RFC3339, taggedAt); err != nil {
		return store.Doc{}, err
	}
	if d.Spans, err = s.loadSpans(ctx, d.ID); err != nil {
		return store.Doc{}, err
	}
	return d, nil
}

// ListDocs returns up to limit documents, most recently tagged first.
func (s *sqliteStore) ListDocs(ctx context.Context, limit int) ([]store.Doc, error) {
	query := `SELECT id, name, text, tagged_at FROM docs ORDER BY tagged_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []store.Doc
	for rows.Next() {
		var (
			d        store.Doc
			taggedAt string
		)
		if err := rows.Scan(&d.ID, &d.Name, &d.Text, &taggedAt); err != nil {
			return nil, err
		}
		if d.TaggedAt, err = time.Parse(time.RFC3339, taggedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range docs {
		if docs[i].Spans, err = s.loadSpans(ctx, docs[i].ID); err != nil {
			return nil, err
		}
	}
	return docs, nil
}

func (s *sqliteStore) loadSpans(ctx context.Context, docID string) ([]store.SpanRecord, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT category, rule_name, text, token_start, token_end, char_start, char_end
		 FROM spans WHERE doc_id = ? ORDER BY ord`,
		docID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var spans []store.SpanRecord
	for rows.Next() {
		var sp store.SpanRecord
		if err := rows.Scan(
			&sp.Category, &sp.RuleName, &sp.Text,
			&sp.TokenStart, &sp.TokenEnd, &sp.CharStart, &sp.CharEnd,
		); err != nil {
			return nil, err
		}
		spans = append(spans, sp)
	}
	return spans, rows.Err()
}

// CountByCategory returns span counts grouped by category.
func (s *sqliteStore) CountByCategory(ctx context.Context) (map[string]int64, error) {
	return s.countBy(ctx, `SELECT category, COUNT(*) FROM spans GROUP BY category`)
}

// CountByRule returns span counts grouped by source rule name.
func (s *sqliteStore) CountByRule(ctx context.Context) (map[string]int64, error) {
	return s.countBy(ctx, `SELECT rule_name, COUNT(*) FROM spans GROUP BY rule_name`)
}

func (s *sqliteStore) countBy(ctx context.Context, query string) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var (
			key   string
			count int64
		)
		if err := rows.Scan(&key, &count); err != nil {
			return nil, err
		}
		counts[key] = count
	}
	return counts, rows.Err()
}
