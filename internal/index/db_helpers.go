package index

import (
	"database/sql"
	"fmt"
)

// execer is satisfied by both *sql.DB and *sql.Tx so row purges can run
// inside or outside a transaction.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// purgeFileRows removes every row a catalog contributed to the index.
// files keys on path; records and folders key on file_path.
func purgeFileRows(e execer, filePath string) error {
	if _, err := e.Exec("DELETE FROM files WHERE path = ?", filePath); err != nil {
		return fmt.Errorf("delete from files: %w", err)
	}
	for _, table := range []string{"records", "folders"} {
		if _, err := e.Exec("DELETE FROM "+table+" WHERE file_path = ?", filePath); err != nil {
			return fmt.Errorf("delete from %s: %w", table, err)
		}
	}
	return nil
}
