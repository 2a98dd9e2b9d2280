package linkstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const linkColumns = "path, name, payload, score, accepted, reason, metric, run_id, book_count, created_at, updated_at"

// Upsert inserts link or replaces the stored outcome for its path. The
// original creation time is preserved.
func (s *Store) Upsert(ctx context.Context, link *Link) error {
	if link == nil {
		return errors.New("link is nil")
	}
	if strings.TrimSpace(link.Path) == "" {
		return errors.New("link path is empty")
	}
	now := s.now().UTC()
	if link.CreatedAt.IsZero() {
		link.CreatedAt = now
	}
	link.UpdatedAt = now

	_, err := s.execWithRetry(
		ctx,
		`INSERT INTO links (`+linkColumns+`)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(path) DO UPDATE SET
             name = excluded.name, payload = excluded.payload, score = excluded.score,
             accepted = excluded.accepted, reason = excluded.reason, metric = excluded.metric,
             run_id = excluded.run_id, book_count = excluded.book_count,
             updated_at = excluded.updated_at`,
		link.Path,
		link.Name,
		nullableString(link.Payload),
		nullableFloat(link.Score),
		boolToInt(link.Accepted),
		link.Reason,
		link.Metric,
		link.RunID,
		link.BookCount,
		link.CreatedAt.Format(time.RFC3339Nano),
		link.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert link: %w", err)
	}
	return nil
}

// Get returns the link stored for path, or nil when there is none.
func (s *Store) Get(ctx context.Context, path string) (*Link, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+linkColumns+` FROM links WHERE path = ?`, path)
	link, err := scanLink(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get link: %w", err)
	}
	return link, nil
}

// List returns links matching filter ordered by name then path.
func (s *Store) List(ctx context.Context, filter Filter) ([]*Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links`
	switch filter {
	case FilterAll:
	case FilterAccepted:
		query += ` WHERE accepted = 1`
	case FilterRejected:
		query += ` WHERE accepted = 0 AND payload IS NOT NULL`
	case FilterUnmatched:
		query += ` WHERE payload IS NULL`
	default:
		return nil, fmt.Errorf("unknown link filter %q", filter)
	}
	query += ` ORDER BY name, path`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	defer rows.Close()

	var links []*Link
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

// Paths returns the set of folder paths that already have a stored link.
func (s *Store) Paths(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path FROM links`)
	if err != nil {
		return nil, fmt.Errorf("list link paths: %w", err)
	}
	defer rows.Close()

	paths := make(map[string]struct{})
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		paths[path] = struct{}{}
	}
	return paths, rows.Err()
}

// Summary counts stored links by outcome.
func (s *Store) Summary(ctx context.Context) (Summary, error) {
	var sum Summary
	row := s.db.QueryRowContext(ctx, `SELECT
            COUNT(1),
            COALESCE(SUM(CASE WHEN accepted = 1 THEN 1 ELSE 0 END), 0),
            COALESCE(SUM(CASE WHEN accepted = 0 AND payload IS NOT NULL THEN 1 ELSE 0 END), 0),
            COALESCE(SUM(CASE WHEN payload IS NULL THEN 1 ELSE 0 END), 0)
        FROM links`)
	if err := row.Scan(&sum.Total, &sum.Accepted, &sum.Rejected, &sum.Unmatched); err != nil {
		return Summary{}, fmt.Errorf("link summary: %w", err)
	}
	return sum, nil
}

// Remove deletes the link stored for path.
func (s *Store) Remove(ctx context.Context, path string) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM links WHERE path = ?`, path)
	if err != nil {
		return false, fmt.Errorf("delete link: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// Clear removes every link.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM links`)
	if err != nil {
		return 0, fmt.Errorf("clear links: %w", err)
	}
	return res.RowsAffected()
}
