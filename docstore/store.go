// Package docstore persists the per-session memory document described in
// spec section 6: one document per cid in a logical "agents_chat"
// collection, containing the ordered message log, the active model
// provider tag, and a last-update timestamp.
//
// Grounded on the teacher's pkg/memory/session_service_sql.go SQL-backed
// session service: database/sql over a dialect-selected driver rather than
// a document database client, since no MongoDB driver appears anywhere in
// the example pack.
package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	// Database drivers, mirroring session_service_sql.go's dialect support.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// MessageRecord is one persisted message, matching spec section 6's payload shape.
type MessageRecord struct {
	Role       string `json:"role"`
	Content    string `json:"content"`
	Time       string `json:"time"`
	ModelUsed  string `json:"model_used"`
	Context    string `json:"context,omitempty"`
	Query      string `json:"query,omitempty"`
}

// Document is the agents_chat collection's per-cid document.
type Document struct {
	CID           string          `json:"cid"`
	Memory        []MessageRecord `json:"memory"`
	ModelProvider string          `json:"model_provider"`
	LastUpdate    time.Time       `json:"last_update"`
}

// Store is the persistence contract memory.Memory depends on.
type Store interface {
	// Upsert writes or replaces the document for doc.CID.
	Upsert(ctx context.Context, doc Document) error
	// Load reads the document for cid. ok is false if none exists.
	Load(ctx context.Context, cid string) (doc Document, ok bool, err error)
	Close() error
}

const collectionTable = "agents_chat"

const createTableSQL = `
CREATE TABLE IF NOT EXISTS agents_chat (
    cid VARCHAR(255) PRIMARY KEY,
    memory TEXT NOT NULL,
    model_provider VARCHAR(255),
    last_update TIMESTAMP NOT NULL
);
`

// SQLStore implements Store over database/sql, with the message sequence
// stored as a single JSON column (the collection is keyed on cid, one row
// per conversation, matching the document-store model of spec section 6
// rather than a normalized per-message table).
type SQLStore struct {
	db      *sql.DB
	dialect string
	mu      sync.Mutex
}

// NewSQLStore opens (or reuses) db under the given dialect
// ("postgres", "mysql", or "sqlite") and ensures the agents_chat table exists.
func NewSQLStore(db *sql.DB, dialect string) (*SQLStore, error) {
	if db == nil {
		return nil, fmt.Errorf("docstore: database connection is required")
	}
	switch dialect {
	case "postgres", "mysql", "sqlite":
	default:
		return nil, fmt.Errorf("docstore: unsupported dialect %q (supported: postgres, mysql, sqlite)", dialect)
	}

	s := &SQLStore{db: db, dialect: dialect}
	if _, err := db.Exec(createTableSQL); err != nil {
		return nil, fmt.Errorf("docstore: failed to initialize schema: %w", err)
	}
	return s, nil
}

// OpenSQLite is a convenience constructor for the common default dialect.
func OpenSQLite(path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("docstore: failed to open sqlite: %w", err)
	}
	return NewSQLStore(db, "sqlite")
}

// Upsert implements Store.
func (s *SQLStore) Upsert(ctx context.Context, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	memoryJSON, err := json.Marshal(doc.Memory)
	if err != nil {
		return fmt.Errorf("docstore: failed to marshal memory: %w", err)
	}

	query := s.upsertQuery()
	_, err = s.db.ExecContext(ctx, query, doc.CID, string(memoryJSON), doc.ModelProvider, doc.LastUpdate)
	if err != nil {
		return fmt.Errorf("docstore: upsert failed for cid %s: %w", doc.CID, err)
	}
	return nil
}

func (s *SQLStore) upsertQuery() string {
	switch s.dialect {
	case "postgres":
		return `INSERT INTO agents_chat (cid, memory, model_provider, last_update) VALUES ($1, $2, $3, $4)
			ON CONFLICT (cid) DO UPDATE SET memory = EXCLUDED.memory, model_provider = EXCLUDED.model_provider, last_update = EXCLUDED.last_update`
	case "mysql":
		return `REPLACE INTO agents_chat (cid, memory, model_provider, last_update) VALUES (?, ?, ?, ?)`
	default:
		// sqlite's "?" placeholder / INSERT OR REPLACE dialect
		return `INSERT OR REPLACE INTO agents_chat (cid, memory, model_provider, last_update) VALUES (?, ?, ?, ?)`
	}
}

// Load implements Store.
func (s *SQLStore) Load(ctx context.Context, cid string) (Document, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	placeholder := "?"
	if s.dialect == "postgres" {
		placeholder = "$1"
	}
	row := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT cid, memory, model_provider, last_update FROM %s WHERE cid = %s", collectionTable, placeholder), cid)

	var doc Document
	var memoryJSON string
	if err := row.Scan(&doc.CID, &memoryJSON, &doc.ModelProvider, &doc.LastUpdate); err != nil {
		if err == sql.ErrNoRows {
			return Document{}, false, nil
		}
		return Document{}, false, fmt.Errorf("docstore: load failed for cid %s: %w", cid, err)
	}

	if err := json.Unmarshal([]byte(memoryJSON), &doc.Memory); err != nil {
		return Document{}, false, fmt.Errorf("docstore: failed to unmarshal memory: %w", err)
	}
	return doc, true, nil
}

// Close implements Store.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
