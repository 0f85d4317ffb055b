package sqlite

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

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/mailpage/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/mailpage/internal/core/domain"
	"github.com/custodia-labs/mailpage/internal/core/ports/driven"
)

// Store is a SQLite database holding mapping sets and the write log.
type Store struct {
	db   *sql.DB
	path string
	ttl  time.Duration
	now  func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithWriteLogTTL expires write log entries older than ttl. Zero keeps
// entries forever.
func WithWriteLogTTL(ttl time.Duration) StoreOption {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// NewStore creates a new SQLite store in the specified data directory.
// If dataDir is empty, defaults to ~/.mailpage/data.
func NewStore(dataDir string, opts ...StoreOption) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".mailpage", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "mailpage.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// MappingStore returns a MappingStore backed by this store.
func (s *Store) MappingStore() driven.MappingStore {
	return &mappingStore{store: s}
}

// WriteLog returns a WriteLog backed by this store.
func (s *Store) WriteLog() driven.WriteLog {
	return &writeLog{store: s}
}

// migrate runs all pending migrations, recording each applied version.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.apply(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *Store) apply(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(script); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// ==================== Mapping Store ====================

// mappingStore implements driven.MappingStore.
type mappingStore struct {
	store *Store
}

var _ driven.MappingStore = (*mappingStore)(nil)

// Load returns the mapping set for a database, or an empty set.
func (m *mappingStore) Load(ctx context.Context, databaseID string) (*domain.MappingSet, error) {
	var raw string
	err := m.store.db.QueryRowContext(ctx,
		"SELECT mappings FROM mapping_sets WHERE database_id = ?", databaseID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewMappingSet(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying mapping set: %w", err)
	}

	set := domain.NewMappingSet()
	if err := set.UnmarshalJSON([]byte(raw)); err != nil {
		return nil, fmt.Errorf("unmarshalling mapping set: %w", err)
	}
	return set, nil
}

// Save replaces the mapping set for a database.
func (m *mappingStore) Save(ctx context.Context, databaseID string, set *domain.MappingSet) error {
	if databaseID == "" {
		return domain.ErrMissingDatabase
	}
	if set == nil {
		set = domain.NewMappingSet()
	}
	raw, err := set.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshalling mapping set: %w", err)
	}

	_, err = m.store.db.ExecContext(ctx, `
		INSERT INTO mapping_sets (database_id, mappings, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(database_id) DO UPDATE SET
			mappings = excluded.mappings,
			updated_at = excluded.updated_at
	`, databaseID, string(raw), m.store.now().UTC())
	if err != nil {
		return fmt.Errorf("saving mapping set: %w", err)
	}
	return nil
}

// Delete removes the mapping set for a database.
func (m *mappingStore) Delete(ctx context.Context, databaseID string) error {
	if _, err := m.store.db.ExecContext(ctx, "DELETE FROM mapping_sets WHERE database_id = ?", databaseID); err != nil {
		return fmt.Errorf("deleting mapping set: %w", err)
	}
	return nil
}

// ==================== Write Log ====================

// writeLog implements driven.WriteLog.
type writeLog struct {
	store *Store
}

var _ driven.WriteLog = (*writeLog)(nil)

// Lookup returns the entry for a message/database pair. Expired entries
// are reported as not found.
func (w *writeLog) Lookup(ctx context.Context, messageID, databaseID string) (*driven.WriteLogEntry, error) {
	var entry driven.WriteLogEntry
	err := w.store.db.QueryRowContext(ctx, `
		SELECT id, message_id, database_id, page_id, page_url, written_at
		FROM write_log WHERE message_id = ? AND database_id = ?
	`, messageID, databaseID).Scan(
		&entry.ID, &entry.MessageID, &entry.DatabaseID, &entry.PageID, &entry.PageURL, &entry.WrittenAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying write log: %w", err)
	}

	if w.store.ttl > 0 && w.store.now().Sub(entry.WrittenAt) > w.store.ttl {
		return nil, domain.ErrNotFound
	}
	return &entry, nil
}

// Record stores an entry, replacing any earlier one for the same pair.
func (w *writeLog) Record(ctx context.Context, entry driven.WriteLogEntry) error {
	if entry.MessageID == "" || entry.DatabaseID == "" {
		return fmt.Errorf("%w: write log entry needs message and database", domain.ErrInvalidInput)
	}
	if entry.WrittenAt.IsZero() {
		entry.WrittenAt = w.store.now()
	}

	_, err := w.store.db.ExecContext(ctx, `
		INSERT INTO write_log (id, message_id, database_id, page_id, page_url, written_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(message_id, database_id) DO UPDATE SET
			id = excluded.id,
			page_id = excluded.page_id,
			page_url = excluded.page_url,
			written_at = excluded.written_at
	`, entry.ID, entry.MessageID, entry.DatabaseID, entry.PageID, entry.PageURL, entry.WrittenAt.UTC())
	if err != nil {
		return fmt.Errorf("recording write: %w", err)
	}
	return nil
}
