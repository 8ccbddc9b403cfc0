// Package store persists documents, their parse results, and assembled
// context metadata in SQLite. Trees and contexts are stored verbatim as
// JSON — the store adds nothing to what the engine produced.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/prdpilot/prdpilot/internal/assembly"
	"github.com/prdpilot/prdpilot/internal/prd"
)

// ErrNotFound is returned when a document id has no row.
var ErrNotFound = errors.New("document not found")

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	doc_id       TEXT PRIMARY KEY,
	title        TEXT NOT NULL,
	filename     TEXT NOT NULL,
	content_hash TEXT NOT NULL,
	raw_text     TEXT NOT NULL,
	created_at   TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS parse_results (
	doc_id     TEXT PRIMARY KEY REFERENCES documents(doc_id) ON DELETE CASCADE,
	result     TEXT NOT NULL,
	task_count INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS contexts (
	doc_id   TEXT NOT NULL REFERENCES documents(doc_id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	scope    TEXT NOT NULL,
	task_id  TEXT NOT NULL DEFAULT '',
	payload  TEXT NOT NULL,
	PRIMARY KEY (doc_id, position)
);
CREATE INDEX IF NOT EXISTS idx_documents_hash ON documents(content_hash);
`

// Store wraps the SQLite handle.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the
// schema exists. SQLite does not handle concurrent writers well, so the
// pool is pinned to a single connection.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Document is one stored document row.
type Document struct {
	DocID       string    `json:"doc_id"`
	Title       string    `json:"title"`
	Filename    string    `json:"filename"`
	ContentHash string    `json:"content_hash"`
	TaskCount   int       `json:"task_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// SaveDocument writes a document, its parse result, and its contexts in one
// transaction, replacing any previous rows for the same id.
func (s *Store) SaveDocument(ctx context.Context, doc Document, rawText string, res prd.ParseResult, contexts []assembly.Context) error {
	resultJSON, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal parse result: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO documents (doc_id, title, filename, content_hash, raw_text, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		doc.DocID, doc.Title, doc.Filename, doc.ContentHash, rawText,
		doc.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO parse_results (doc_id, result, task_count) VALUES (?, ?, ?)`,
		doc.DocID, string(resultJSON), res.TotalTaskCount)
	if err != nil {
		return fmt.Errorf("insert parse result: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM contexts WHERE doc_id = ?`, doc.DocID); err != nil {
		return fmt.Errorf("clear contexts: %w", err)
	}
	for i, c := range contexts {
		payload, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("marshal context %d: %w", i, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO contexts (doc_id, position, scope, task_id, payload) VALUES (?, ?, ?, ?, ?)`,
			doc.DocID, i, string(c.Scope), c.TaskID, string(payload))
		if err != nil {
			return fmt.Errorf("insert context %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// GetDocument returns the document row for id.
func (s *Store) GetDocument(ctx context.Context, docID string) (Document, error) {
	var doc Document
	var created string
	err := s.db.QueryRowContext(ctx,
		`SELECT d.doc_id, d.title, d.filename, d.content_hash, d.created_at,
		        COALESCE(p.task_count, 0)
		 FROM documents d LEFT JOIN parse_results p ON p.doc_id = d.doc_id
		 WHERE d.doc_id = ?`, docID).
		Scan(&doc.DocID, &doc.Title, &doc.Filename, &doc.ContentHash, &created, &doc.TaskCount)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("query document: %w", err)
	}
	doc.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return doc, nil
}

// GetRawText returns the stored raw text for a document.
func (s *Store) GetRawText(ctx context.Context, docID string) (string, error) {
	var text string
	err := s.db.QueryRowContext(ctx,
		`SELECT raw_text FROM documents WHERE doc_id = ?`, docID).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("query raw text: %w", err)
	}
	return text, nil
}

// GetParseResult returns the stored parse result for a document.
func (s *Store) GetParseResult(ctx context.Context, docID string) (prd.ParseResult, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT result FROM parse_results WHERE doc_id = ?`, docID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return prd.ParseResult{}, ErrNotFound
	}
	if err != nil {
		return prd.ParseResult{}, fmt.Errorf("query parse result: %w", err)
	}
	var res prd.ParseResult
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return prd.ParseResult{}, fmt.Errorf("decode parse result: %w", err)
	}
	return res, nil
}

// GetContexts returns a document's assembled contexts in stored order.
func (s *Store) GetContexts(ctx context.Context, docID string) ([]assembly.Context, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM contexts WHERE doc_id = ? ORDER BY position`, docID)
	if err != nil {
		return nil, fmt.Errorf("query contexts: %w", err)
	}
	defer rows.Close()

	var out []assembly.Context
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan context: %w", err)
		}
		var c assembly.Context
		if err := json.Unmarshal([]byte(payload), &c); err != nil {
			return nil, fmt.Errorf("decode context: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListDocuments returns all documents, newest first.
func (s *Store) ListDocuments(ctx context.Context, limit int) ([]Document, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT d.doc_id, d.title, d.filename, d.content_hash, d.created_at,
		        COALESCE(p.task_count, 0)
		 FROM documents d LEFT JOIN parse_results p ON p.doc_id = d.doc_id
		 ORDER BY d.created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var doc Document
		var created string
		if err := rows.Scan(&doc.DocID, &doc.Title, &doc.Filename, &doc.ContentHash,
			&created, &doc.TaskCount); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		doc.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, doc)
	}
	return out, rows.Err()
}

// FindByHash returns the id of a document with the given content hash, or
// the empty string when none exists.
func (s *Store) FindByHash(ctx context.Context, hash string) (string, error) {
	var docID string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc_id FROM documents WHERE content_hash = ? LIMIT 1`, hash).Scan(&docID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query by hash: %w", err)
	}
	return docID, nil
}

// DeleteDocument removes a document and its dependent rows.
func (s *Store) DeleteDocument(ctx context.Context, docID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE doc_id = ?`, docID)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
