package docstore

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/getditto-shared/ditto-cot-sub001/internal/detail"
)

//go:embed schema.sql
var schemaSQL string

// FieldStore is the surface the codec is consumed through: field-granular
// upsert, read-back of a document's detail fields, and field removal. The
// production implementation is an external CRDT engine; Store below is a
// local stand-in.
type FieldStore interface {
	UpsertFields(ctx context.Context, docID string, fields detail.FlatMap) error
	Detail(ctx context.Context, docID string) (detail.FlatMap, error)
	RemoveField(ctx context.Context, docID, key string) error
}

// Store is a SQLite-backed FieldStore with per-field last-writer-wins
// resolution. Write stamps come from a process-local monotonic counter,
// standing in for the external engine's hybrid logical clock; that is
// enough to reproduce the engine's field-granular conflict behavior in
// tests.
type Store struct {
	db    *sql.DB
	stamp atomic.Int64
}

var _ FieldStore = (*Store)(nil)

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and the schema automatically.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//
// This function is idempotent - safe to call multiple times.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	store := &Store{db: db}

	// Resume the stamp counter past anything already persisted so reopening
	// a store cannot write stamps that lose to existing rows.
	var maxStamp sql.NullInt64
	if err := db.QueryRow(`SELECT MAX(stamp) FROM fields`).Scan(&maxStamp); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to read stamp high-water mark: %w", err)
	}
	if maxStamp.Valid {
		store.stamp.Store(maxStamp.Int64)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// NewDocID mints a document identifier. UUIDv7 keeps ids roughly
// time-ordered, which makes store dumps easier to read.
func NewDocID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}
