// SQLite-backed implementation of the Catalog interface.
package catalog

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// dbFileName is the SQLite file inside the data directory. It is rebuilt
// from the JSONL files on every Attach; the JSONL files are the source of
// truth.
const dbFileName = "catalog.db"

// Backend implements Catalog using SQLite as the query engine and JSONL
// files as the durable store.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   Config
	db       *sql.DB
	tables   map[string]Table
	log      zerolog.Logger
}

var _ Catalog = (*Backend)(nil)

// NewBackend creates a new SQLite backend instance. The backend is not
// attached and logs nothing; call Attach with a Config to initialize and
// SetLogger to enable debug logging.
func NewBackend() *Backend {
	return &Backend{
		tables: make(map[string]Table),
		log:    zerolog.Nop(),
	}
}

// SetLogger replaces the backend's logger. Call before Attach.
func (b *Backend) SetLogger(log zerolog.Logger) {
	b.log = log
}

// GetTable returns the named table. Returns ErrCatalogDetached before
// Attach or after Detach, ErrTableNotFound for unknown names.
func (b *Backend) GetTable(name string) (Table, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, ErrCatalogDetached
	}
	t, ok := b.tables[name]
	if !ok {
		return nil, ErrTableNotFound
	}
	return t, nil
}

// Attach validates the config, creates the data directory, rebuilds the
// SQLite database from the JSONL files, and makes the tables available.
func (b *Backend) Attach(config Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	// Start from a fresh database; stale query state from a previous
	// session must not shadow the JSONL contents.
	dbPath := filepath.Join(config.DataDir, dbFileName)
	if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing stale database: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return fmt.Errorf("creating schema: %w", err)
	}

	if err := initJSONLFiles(config.DataDir); err != nil {
		db.Close()
		return fmt.Errorf("initializing data files: %w", err)
	}
	if err := loadAllJSONL(db, config.DataDir); err != nil {
		db.Close()
		return fmt.Errorf("loading data files: %w", err)
	}

	b.config = config
	b.db = db
	b.attached = true
	b.tables[TablePropertyTypes] = &propertyTypesTable{backend: b}
	b.tables[TableObjectTypes] = &objectTypesTable{backend: b}
	b.tables[TableRevisions] = &revisionsTable{backend: b}

	b.log.Debug().Str("data_dir", config.DataDir).Msg("catalog attached")
	return nil
}

// Detach closes the SQLite connection and clears the table accessors.
// Idempotent. After Detach, table operations return ErrCatalogDetached.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return fmt.Errorf("closing database: %w", err)
		}
		b.db = nil
	}

	b.attached = false
	b.tables = make(map[string]Table)

	b.log.Debug().Str("data_dir", b.config.DataDir).Msg("catalog detached")
	return nil
}

// newUUID generates a UUID v7 string for revision IDs.
func newUUID() string {
	return uuid.Must(uuid.NewV7()).String()
}
