package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"github.com/roach88/phoneloc/internal/querysql"
	"github.com/roach88/phoneloc/internal/schema"
)

// Supported database/sql driver names.
const (
	DriverCGO    = "sqlite3" // github.com/mattn/go-sqlite3
	DriverPureGo = "sqlite"  // modernc.org/sqlite
)

// Store provides durable storage for phone location records.
// Uses SQLite in WAL mode over a single connection, so reads and writes are
// serialized and a reader never sees a half-applied upsert.
type Store struct {
	db       *sql.DB
	compiler *querysql.SQLCompiler
	clock    Clock
	hook     ChangeHook
	logger   *slog.Logger
	version  int
}

type options struct {
	driver        string
	targetVersion int
	clock         Clock
	hook          ChangeHook
	logger        *slog.Logger
}

// Option configures Open.
type Option func(*options)

// WithDriver selects the database/sql driver (DriverCGO or DriverPureGo).
func WithDriver(name string) Option {
	return func(o *options) { o.driver = name }
}

// WithTargetVersion migrates only up to version instead of
// schema.CurrentVersion. Used to build older databases.
func WithTargetVersion(version int) Option {
	return func(o *options) { o.targetVersion = version }
}

// WithClock sets the clock used to stamp update_time.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithChangeHook sets the hook invoked after each committed mutation.
func WithChangeHook(h ChangeHook) Option {
	return func(o *options) { o.hook = h }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and migrations automatically.
//
// Any migration failure is fatal: the database is closed and the error
// returned. There is no degraded mode.
//
// This function is idempotent - safe to call multiple times.
func Open(path string, opts ...Option) (*Store, error) {
	o := options{
		driver:        DriverCGO,
		targetVersion: schema.CurrentVersion,
		clock:         SystemClock{},
		hook:          nopHook{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.driver != DriverCGO && o.driver != DriverPureGo {
		return nil, fmt.Errorf("unsupported driver %q", o.driver)
	}
	if o.targetVersion < 1 || o.targetVersion > schema.CurrentVersion {
		return nil, fmt.Errorf("unsupported schema version %d (max %d)", o.targetVersion, schema.CurrentVersion)
	}

	db, err := sql.Open(o.driver, path)
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

	version, err := runMigrations(db, o.targetVersion, o.logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{
		db:       db,
		compiler: querysql.NewSQLCompiler(schema.ColID),
		clock:    o.clock,
		hook:     o.hook,
		logger:   o.logger,
		version:  version,
	}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
// Use with caution - prefer using Store methods when available.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Version returns the schema version the store was opened at.
func (s *Store) Version() int {
	return s.version
}

// SchemaVersion reads the schema version recorded in the database.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("get user_version: %w", err)
	}
	return version, nil
}

// HasIndex reports whether an index with the given name exists.
func (s *Store) HasIndex(ctx context.Context, name string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = ?", name,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check index %q: %w", name, err)
	}
	return count > 0, nil
}

// applyPragmas sets required SQLite configuration.
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

// runMigrations brings the database from its recorded user_version up to
// target. Each step runs in its own transaction together with the version
// bump, so a failed step leaves the previous version recorded.
func runMigrations(db *sql.DB, target int, logger *slog.Logger) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("get user_version: %w", err)
	}

	if version > target {
		return 0, fmt.Errorf("database schema version %d is newer than supported version %d", version, target)
	}

	for _, m := range schema.Pending(version, target) {
		if err := applyMigration(db, m); err != nil {
			return 0, err
		}
		logger.Info("schema migrated", "from", version, "to", m.Version, "step", m.Name)
		version = m.Version
	}

	return version, nil
}

func applyMigration(db *sql.DB, m schema.Migration) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("migrate to v%d: begin tx: %w", m.Version, err)
	}
	defer tx.Rollback() // No-op if committed

	for _, stmt := range m.Statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("migrate to v%d: %w", m.Version, err)
		}
	}
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
		return fmt.Errorf("migrate to v%d: set user_version: %w", m.Version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("migrate to v%d: commit: %w", m.Version, err)
	}
	return nil
}
