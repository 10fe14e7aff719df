package index

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/roostlabs/roost/internal/catalog"
	"github.com/roostlabs/roost/internal/sqlutil"
)

// RecordResult represents a record query result.
type RecordResult struct {
	FilePath    string
	Folder      string
	Order       int
	Kind        string
	Type        string
	X           float64
	Y           float64
	Z           float64
	Orientation float64
	RotX        float64
	RotY        float64
	RotZ        float64
}

// Selector returns the record's folder:order selector.
func (r RecordResult) Selector() string {
	return r.Folder + ":" + strconv.Itoa(r.Order)
}

// RecordFilter narrows QueryRecords. Zero-value fields are ignored.
type RecordFilter struct {
	Kinds     []string // 'actor', 'prop'
	TypeGlobs []string // entity type globs, ORed together
	Folder    string   // folder path, matches the folder and everything under it
	File      string   // exact file path
	Limit     int
}

// ParseQuery parses query expression tokens into a RecordFilter.
//
// Supported forms:
//   - kind:actor or kind:prop, with | for OR: "kind:actor|prop"
//   - type:<glob> (e.g. "type:Goblin*"), repeatable, ORed together
//   - folder:<path> scopes to a folder and its subfolders
//   - catalog:<name> scopes to one catalog (left unresolved in File)
//   - a bare token is shorthand for type:<token>
func ParseQuery(tokens []string) (RecordFilter, error) {
	var filter RecordFilter
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}

		key, value, found := strings.Cut(tok, ":")
		if !found {
			filter.TypeGlobs = append(filter.TypeGlobs, tok)
			continue
		}

		switch key {
		case "kind":
			for _, part := range strings.Split(value, "|") {
				kind, ok := catalog.ParseKind(part)
				if !ok {
					return RecordFilter{}, fmt.Errorf("unknown kind %q (want actor or prop)", part)
				}
				filter.Kinds = append(filter.Kinds, kind.String())
			}
		case "type":
			if value == "" {
				return RecordFilter{}, fmt.Errorf("empty type filter")
			}
			filter.TypeGlobs = append(filter.TypeGlobs, value)
		case "folder":
			filter.Folder = catalog.ParsePath(value).String()
		case "catalog":
			if value == "" {
				return RecordFilter{}, fmt.Errorf("empty catalog filter")
			}
			filter.File = value
		default:
			return RecordFilter{}, fmt.Errorf("unknown query key %q (want kind:, type:, folder:, or catalog:)", key)
		}
	}
	return filter, nil
}

// QueryRecords returns indexed records matching the filter, in file order.
func (d *Database) QueryRecords(filter RecordFilter) ([]RecordResult, error) {
	query := `
		SELECT file_path, folder_path, ord, kind, entity_type, x, y, z, orientation, rot_x, rot_y, rot_z
		FROM records
		WHERE 1=1
	`
	var args []any

	if len(filter.Kinds) > 0 {
		placeholders, kindArgs := sqlutil.InClauseArgs(filter.Kinds)
		query += " AND kind IN (" + placeholders + ")"
		args = append(args, kindArgs...)
	}

	if len(filter.TypeGlobs) > 0 {
		conds := make([]string, len(filter.TypeGlobs))
		for i, glob := range filter.TypeGlobs {
			conds[i] = "entity_type GLOB ?"
			args = append(args, glob)
		}
		query += " AND (" + strings.Join(conds, " OR ") + ")"
	}

	if filter.Folder != "" {
		query += " AND (folder_path = ? OR folder_path LIKE ?)"
		args = append(args, filter.Folder, filter.Folder+"/%")
	}

	if filter.File != "" {
		query += " AND file_path = ?"
		args = append(args, filter.File)
	}

	query += " ORDER BY file_path, folder_path, ord"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}

	return sqlutil.ScanRows(rows, func(rows *sql.Rows) (RecordResult, error) {
		var r RecordResult
		err := rows.Scan(&r.FilePath, &r.Folder, &r.Order, &r.Kind, &r.Type,
			&r.X, &r.Y, &r.Z, &r.Orientation, &r.RotX, &r.RotY, &r.RotZ)
		return r, err
	})
}

// TypeCount is one distinct entity type with its record count.
type TypeCount struct {
	Kind  string
	Type  string
	Count int
}

// TypeCounts returns distinct entity types with record counts, most
// frequent first. file narrows to one catalog when non-empty.
func (d *Database) TypeCounts(file string) ([]TypeCount, error) {
	query := "SELECT kind, entity_type, COUNT(*) FROM records"
	var args []any

	if file != "" {
		query += " WHERE file_path = ?"
		args = append(args, file)
	}

	query += " GROUP BY kind, entity_type ORDER BY COUNT(*) DESC, entity_type ASC"

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}

	return sqlutil.ScanRows(rows, func(rows *sql.Rows) (TypeCount, error) {
		var tc TypeCount
		err := rows.Scan(&tc.Kind, &tc.Type, &tc.Count)
		return tc, err
	})
}

// AllFolderPaths returns every distinct folder path across all indexed
// files, sorted. Used for shell completion of folder arguments.
func (d *Database) AllFolderPaths() ([]string, error) {
	rows, err := d.db.Query("SELECT DISTINCT folder_path FROM folders ORDER BY folder_path")
	if err != nil {
		return nil, err
	}

	return sqlutil.ScanRows(rows, func(rows *sql.Rows) (string, error) {
		var path string
		err := rows.Scan(&path)
		return path, err
	})
}

// FileInfo is one indexed file's summary row.
type FileInfo struct {
	Path            string
	Mtime           int64
	RecordCount     int
	DiagnosticCount int
}

// Files returns every indexed file sorted by path.
func (d *Database) Files() ([]FileInfo, error) {
	rows, err := d.db.Query(`
		SELECT path, mtime, record_count, diagnostic_count
		FROM files
		ORDER BY path
	`)
	if err != nil {
		return nil, err
	}

	return sqlutil.ScanRows(rows, func(rows *sql.Rows) (FileInfo, error) {
		var fi FileInfo
		err := rows.Scan(&fi.Path, &fi.Mtime, &fi.RecordCount, &fi.DiagnosticCount)
		return fi, err
	})
}
