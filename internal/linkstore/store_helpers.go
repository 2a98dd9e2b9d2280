package linkstore

import (
	"database/sql"
	"errors"
	"time"
)

func scanLink(scanner interface{ Scan(dest ...any) error }) (*Link, error) {
	var (
		path       string
		name       string
		payload    sql.NullString
		score      sql.NullFloat64
		accepted   int
		reason     string
		metric     string
		runID      string
		bookCount  int
		createdRaw sql.NullString
		updatedRaw sql.NullString
	)
	if err := scanner.Scan(
		&path,
		&name,
		&payload,
		&score,
		&accepted,
		&reason,
		&metric,
		&runID,
		&bookCount,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	link := &Link{
		Path:      path,
		Name:      name,
		Payload:   payload.String,
		Accepted:  accepted != 0,
		Reason:    reason,
		Metric:    metric,
		RunID:     runID,
		BookCount: bookCount,
	}
	if score.Valid {
		v := score.Float64
		link.Score = &v
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		link.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		link.UpdatedAt = updated
	}
	return link, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableFloat(value *float64) any {
	if value == nil {
		return nil
	}
	return *value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
