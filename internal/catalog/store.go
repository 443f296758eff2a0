package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"companionforge/internal/formid"
	"companionforge/internal/record"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current catalog schema version. Bump this when the
// schema changes; catalogs are re-imported rather than migrated.
const schemaVersion = 1

// ErrSchemaMismatch indicates the catalog was written by a different schema version.
var ErrSchemaMismatch = errors.New("catalog schema version mismatch")

// Store is a Catalog backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open connects to an existing catalog read-only.
func Open(ctx context.Context, path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("catalog %s does not exist (seed it with 'companionforge catalog import')", path)
		}
		return nil, fmt.Errorf("stat catalog: %w", err)
	}
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open catalog db: %w", err)
	}
	store := &Store{db: db, path: path}
	if err := store.checkVersion(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Create opens or creates a writable catalog, initializing the schema.
func Create(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create catalog directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog db: %w", err)
	}
	for _, pragma := range []string{"PRAGMA foreign_keys = ON", "PRAGMA busy_timeout = 5000"} {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	store := &Store{db: db, path: path}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 0 {
		return s.createSchema(ctx)
	}
	return s.checkVersion(ctx)
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

func (s *Store) checkVersion(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read catalog schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: catalog has version %d, expected %d (re-import the catalog)",
			ErrSchemaMismatch, version, schemaVersion)
	}
	return nil
}

const entryColumns = `r.kind, r.editor_id, r.origin_plugin, r.local_id, r.defined_in`

func (s *Store) Lookup(ctx context.Context, kind record.Kind, editorID string) (Entry, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+`
		FROM records r JOIN plugins p ON p.name = r.defined_in
		WHERE r.kind = ? AND r.editor_id = ?
		ORDER BY p.load_index DESC
		LIMIT 1`, kind.String(), editorID)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("lookup %s %q: %w", kind, editorID, err)
	}
	return entry, true, nil
}

func (s *Store) List(ctx context.Context, kind record.Kind) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+entryColumns+`
		FROM records r JOIN plugins p ON p.name = r.defined_in
		WHERE r.kind = ?
		ORDER BY p.load_index DESC, r.editor_id ASC`, kind.String())
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", kind, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", kind, err)
	}
	return winning(entries), nil
}

func (s *Store) LoadOrder(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM plugins ORDER BY load_index ASC")
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	defer rows.Close()

	var order []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan plugin: %w", err)
		}
		order = append(order, name)
	}
	return order, rows.Err()
}

// Counts returns the number of stored definitions per kind name.
func (s *Store) Counts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT kind, COUNT(1) FROM records GROUP BY kind ORDER BY kind")
	if err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var (
		kindName, editorID, origin, definedIn string
		local                                 int64
	)
	if err := row.Scan(&kindName, &editorID, &origin, &local, &definedIn); err != nil {
		return Entry{}, err
	}
	kind, err := record.ParseKind(kindName)
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		ID:        formid.New(origin, uint32(local)),
		Kind:      kind,
		EditorID:  editorID,
		DefinedIn: definedIn,
	}, nil
}
