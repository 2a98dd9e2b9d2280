package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite"
)

// LoadSQLite reads titles from an existing SQLite database opened in query-only mode.
// Rows are returned in rowid order; rows with a NULL title or payload are
// skipped.
func LoadSQLite(ctx context.Context, path, table, titleColumn, payloadColumn string) ([]Title, error) {
	// Opening a missing path would create an empty database.
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat catalog db: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog db: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA query_only = ON"); err != nil {
		return nil, fmt.Errorf("apply pragma %q: %w", "query_only", err)
	}

	query := fmt.Sprintf(`SELECT %s, %s FROM %s ORDER BY rowid`,
		quoteIdent(titleColumn), quoteIdent(payloadColumn), quoteIdent(table))
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query catalog %s: %w", path, err)
	}
	defer rows.Close()

	var titles []Title
	for rows.Next() {
		var name, payload sql.NullString
		if err := rows.Scan(&name, &payload); err != nil {
			return nil, fmt.Errorf("scan catalog row: %w", err)
		}
		if !name.Valid || !payload.Valid || strings.TrimSpace(name.String) == "" {
			continue
		}
		titles = append(titles, Title{Name: name.String, SeriesID: payload.String})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog: %w", err)
	}
	return titles, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
