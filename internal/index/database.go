// Package index maintains the SQLite record index stored under .roost/.
package index

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/roostlabs/roost/internal/catalog"
	"github.com/roostlabs/roost/internal/sqlutil"
)

// Database is the SQLite index handle.
type Database struct {
	db *sql.DB
}

// ErrIndexLocked indicates another process is rebuilding the index.
var ErrIndexLocked = errors.New("index is locked for rebuild")

// Open opens or creates the index database under workspacePath/.roost/.
func Open(workspacePath string) (*Database, error) {
	dbDir := filepath.Join(workspacePath, ".roost")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create .roost directory: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dbDir, "index.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return newDatabase(db)
}

// OpenWithRebuild opens the database, recreating it from scratch when the
// on-disk schema predates this build. Reports whether a rebuild happened so
// callers know the index is empty and needs a full reindex.
func OpenWithRebuild(workspacePath string) (*Database, bool, error) {
	dbDir := filepath.Join(workspacePath, ".roost")

	lock, err := acquireIndexLock(dbDir)
	if err != nil {
		return nil, false, err
	}
	defer lock.Release()

	rebuilt, err := rebuildIfIncompatible(filepath.Join(dbDir, "index.db"))
	if err != nil {
		return nil, false, err
	}

	db, err := Open(workspacePath)
	return db, rebuilt, err
}

// rebuildIfIncompatible deletes the database files when the existing schema
// is from an older layout. The index is derived state; a reindex restores it.
func rebuildIfIncompatible(dbPath string) (bool, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return false, nil
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return false, nil
	}
	compatible := isSchemaCompatible(db)
	db.Close()
	if compatible {
		return false, nil
	}

	if err := removeDatabaseFiles(dbPath); err != nil {
		return false, err
	}
	return true, nil
}

func newDatabase(db *sql.DB) (*Database, error) {
	d := &Database{db: db}
	if err := d.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

type indexLock struct {
	file *os.File
}

func acquireIndexLock(dbDir string) (*indexLock, error) {
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create .roost directory: %w", err)
	}

	lockPath := filepath.Join(dbDir, "index.lock")
	lockFile, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open index lock: %w", err)
	}

	if err := tryLockExclusive(lockFile); err != nil {
		lockFile.Close()
		if lockIsHeld(err) {
			return nil, ErrIndexLocked
		}
		return nil, fmt.Errorf("failed to acquire index lock: %w", err)
	}

	return &indexLock{file: lockFile}, nil
}

func (l *indexLock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	unlockErr := releaseLock(l.file)
	closeErr := l.file.Close()
	if unlockErr != nil {
		return unlockErr
	}
	return closeErr
}

// removeDatabaseFiles deletes the database along with its WAL and SHM
// sidecars.
func removeDatabaseFiles(dbPath string) error {
	for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", p, err)
		}
	}
	return nil
}

// isSchemaCompatible reports whether the on-disk schema matches what this
// build writes.
func isSchemaCompatible(db *sql.DB) bool {
	// v1 packed rotation into a single column; v2 split out orientation.
	if !tableHasColumn(db, "records", "orientation") {
		return false
	}

	// v3 added the folders table and per-file diagnostic counts.
	var name string
	if err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='folders'").Scan(&name); err != nil {
		return false
	}
	return tableHasColumn(db, "files", "diagnostic_count")
}

func tableHasColumn(db *sql.DB, table, column string) bool {
	rows, err := db.Query("PRAGMA table_info(" + table + ")")
	if err != nil {
		return false
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid, notNull, pk int
			name, colType    string
			dflt             interface{}
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return false
		}
		if name == column {
			return true
		}
	}
	return false
}

// OpenInMemory opens an in-memory database (for testing).
func OpenInMemory() (*Database, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	return newDatabase(db)
}

// Close closes the database.
func (d *Database) Close() error {
	return d.db.Close()
}

// Analyze runs SQLite's ANALYZE command to update query planner statistics.
// This should be called after bulk indexing operations for optimal query performance.
func (d *Database) Analyze() error {
	_, err := d.db.Exec("ANALYZE")
	return err
}

// CurrentDBVersion is the current database schema version.
// v2: Split prop rotation into rot_x/rot_y/rot_z and added orientation for actors
// v3: Added folders table and diagnostic_count on files
const CurrentDBVersion = 3

// initialize creates the database schema.
func (d *Database) initialize() error {
	schema := `
		-- Enable WAL mode for better concurrency
		PRAGMA journal_mode = WAL;

		-- Performance optimizations
		PRAGMA synchronous = NORMAL;      -- Faster writes (safe with WAL)
		PRAGMA temp_store = MEMORY;       -- Keep temp tables in memory
		PRAGMA cache_size = -64000;       -- 64MB cache (negative = KB)
		PRAGMA mmap_size = 268435456;     -- 256MB memory-mapped I/O

		-- Metadata table for version tracking
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		-- One row per indexed spawn file
		CREATE TABLE IF NOT EXISTS files (
			path TEXT PRIMARY KEY,
			mtime INTEGER NOT NULL,             -- File modification time (Unix timestamp)
			record_count INTEGER NOT NULL DEFAULT 0,
			diagnostic_count INTEGER NOT NULL DEFAULT 0,
			indexed_at INTEGER                  -- When this row was written to the index
		);

		-- All spawn records across all files
		CREATE TABLE IF NOT EXISTS records (
			file_path TEXT NOT NULL,
			folder_path TEXT NOT NULL,          -- Slash-joined folder path ('' = root)
			ord INTEGER NOT NULL,               -- Order within the folder
			kind TEXT NOT NULL,                 -- 'actor' or 'prop'
			entity_type TEXT NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL,
			z REAL NOT NULL,
			orientation REAL NOT NULL DEFAULT 0, -- Actors: heading in degrees
			rot_x REAL NOT NULL DEFAULT 0,       -- Props: Euler angles
			rot_y REAL NOT NULL DEFAULT 0,
			rot_z REAL NOT NULL DEFAULT 0,
			PRIMARY KEY (file_path, folder_path, ord)
		);

		-- Folder paths per file, including folders that hold no records
		CREATE TABLE IF NOT EXISTS folders (
			file_path TEXT NOT NULL,
			folder_path TEXT NOT NULL,
			depth INTEGER NOT NULL,
			PRIMARY KEY (file_path, folder_path)
		);

		-- Indexes for fast queries
		CREATE INDEX IF NOT EXISTS idx_records_type ON records(entity_type);
		CREATE INDEX IF NOT EXISTS idx_records_kind ON records(kind);
		CREATE INDEX IF NOT EXISTS idx_records_folder ON records(folder_path);
		CREATE INDEX IF NOT EXISTS idx_folders_path ON folders(folder_path);
	`

	_, err := d.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	// Set database version
	_, err = d.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('version', ?)`,
		fmt.Sprintf("%d", CurrentDBVersion))
	if err != nil {
		return fmt.Errorf("failed to set database version: %w", err)
	}

	return nil
}

// IndexParse indexes a parsed spawn file, replacing existing rows for the
// file. The diagnostic count is kept so check and stats can report files
// with skipped lines without reparsing.
func (d *Database) IndexParse(relPath string, mtime int64, res *catalog.ParseResult) error {
	return d.writeFileRows(relPath, mtime, res.Records, res.Folders, len(res.Diagnostics))
}

// IndexCatalog indexes a catalog's current state. Used after mutations,
// where the file has been rewritten in canonical form and diagnostics
// from the original parse no longer apply.
func (d *Database) IndexCatalog(relPath string, mtime int64, cat *catalog.Catalog) error {
	return d.writeFileRows(relPath, mtime, cat.Records(), cat.Folders(), 0)
}

func (d *Database) writeFileRows(relPath string, mtime int64, recs []*catalog.Record, folders []catalog.Path, diagnostics int) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Delete existing data for this file
	if err := purgeFileRows(tx, relPath); err != nil {
		return err
	}

	now := time.Now().Unix()
	if mtime == 0 {
		mtime = now
	}

	if _, err := tx.Exec(`
		INSERT OR REPLACE INTO files (path, mtime, record_count, diagnostic_count, indexed_at)
		VALUES (?, ?, ?, ?, ?)
	`, relPath, mtime, len(recs), diagnostics, now); err != nil {
		return fmt.Errorf("failed to index file %s: %w", relPath, err)
	}

	if err := insertRecords(tx, relPath, recs); err != nil {
		return err
	}
	if err := insertFolders(tx, relPath, folders); err != nil {
		return err
	}

	return tx.Commit()
}

func insertRecords(tx *sql.Tx, relPath string, recs []*catalog.Record) error {
	stmt, err := tx.Prepare(`
		INSERT INTO records (file_path, folder_path, ord, kind, entity_type, x, y, z, orientation, rot_x, rot_y, rot_z)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, rec := range recs {
		_, err := stmt.Exec(
			relPath,
			rec.Path.String(),
			rec.Order,
			rec.Kind.String(),
			rec.Type,
			rec.Position.X,
			rec.Position.Y,
			rec.Position.Z,
			rec.Orientation,
			rec.Rotation.X,
			rec.Rotation.Y,
			rec.Rotation.Z,
		)
		if err != nil {
			return fmt.Errorf("failed to index record %s: %w", rec.Selector(), err)
		}
	}
	return nil
}

func insertFolders(tx *sql.Tx, relPath string, folders []catalog.Path) error {
	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO folders (file_path, folder_path, depth)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range folders {
		if _, err := stmt.Exec(relPath, p.String(), p.Depth()); err != nil {
			return fmt.Errorf("failed to index folder %s: %w", p, err)
		}
	}
	return nil
}

// RemoveFile removes all data for a file.
func (d *Database) RemoveFile(relPath string) error {
	return purgeFileRows(d.db, relPath)
}

// ClearAllData empties every index table ahead of a full reindex.
func (d *Database) ClearAllData() error {
	for _, table := range []string{"files", "records", "folders"} {
		if _, err := d.db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

// FileMtime returns the recorded modification time for relPath, or 0 if
// the file is not indexed.
func (d *Database) FileMtime(relPath string) (int64, error) {
	var mtime int64
	switch err := d.db.QueryRow("SELECT mtime FROM files WHERE path = ?", relPath).Scan(&mtime); {
	case errors.Is(err, sql.ErrNoRows):
		return 0, nil
	case err != nil:
		return 0, err
	}
	return mtime, nil
}

// AllIndexedFilePaths returns every file path currently in the index,
// sorted. Incremental reindex diffs this against the filesystem to find
// deletions.
func (d *Database) AllIndexedFilePaths() ([]string, error) {
	rows, err := d.db.Query("SELECT path FROM files ORDER BY path")
	if err != nil {
		return nil, err
	}
	return sqlutil.ScanRows(rows, func(rows *sql.Rows) (string, error) {
		var path string
		err := rows.Scan(&path)
		return path, err
	})
}

// RemoveDeletedFiles removes index entries for files that no longer exist
// on the filesystem. Returns the list of removed file paths.
func (d *Database) RemoveDeletedFiles(workspacePath string) ([]string, error) {
	indexedPaths, err := d.AllIndexedFilePaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get indexed paths: %w", err)
	}

	var removed []string
	for _, relPath := range indexedPaths {
		full := filepath.Join(workspacePath, filepath.FromSlash(relPath))
		if _, err := os.Stat(full); !os.IsNotExist(err) {
			continue
		}
		if err := d.RemoveFile(relPath); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", relPath, err)
		}
		removed = append(removed, relPath)
	}

	return removed, nil
}

// Stats returns aggregate counts for the whole index.
func (d *Database) Stats() (*IndexStats, error) {
	var stats IndexStats
	counts := []struct {
		query string
		dst   *int
	}{
		{"SELECT COUNT(*) FROM files", &stats.FileCount},
		{"SELECT COUNT(*) FROM records", &stats.RecordCount},
		{"SELECT COUNT(*) FROM records WHERE kind = 'actor'", &stats.ActorCount},
		{"SELECT COUNT(*) FROM records WHERE kind = 'prop'", &stats.PropCount},
		{"SELECT COUNT(DISTINCT folder_path) FROM folders", &stats.FolderCount},
		{"SELECT COALESCE(SUM(diagnostic_count), 0) FROM files", &stats.DiagnosticCount},
	}
	for _, c := range counts {
		if err := d.db.QueryRow(c.query).Scan(c.dst); err != nil {
			return nil, err
		}
	}
	return &stats, nil
}

// IndexStats contains index statistics.
type IndexStats struct {
	FileCount       int
	RecordCount     int
	ActorCount      int
	PropCount       int
	FolderCount     int
	DiagnosticCount int
}
