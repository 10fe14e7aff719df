// Package sqlutil holds small helpers shared by the index query layer.
package sqlutil

import (
	"database/sql"
	"strings"
)

// InClauseArgs expands items into "?" placeholders plus the matching args
// slice for an IN clause. Empty input yields "NULL", so `IN (NULL)`
// matches no rows instead of producing invalid SQL.
func InClauseArgs(items []string) (string, []any) {
	if len(items) == 0 {
		return "NULL", nil
	}

	args := make([]any, len(items))
	for i, item := range items {
		args[i] = item
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(items)), ", ")
	return placeholders, args
}

// ScanRows drains rows through scan, closing them when done.
func ScanRows[T any](rows *sql.Rows, scan func(*sql.Rows) (T, error)) ([]T, error) {
	defer rows.Close()

	var out []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
