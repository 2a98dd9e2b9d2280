package bench

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"
	"sync"

	"modernc.org/sqlite"

	"serieslink/internal/index"
	"serieslink/internal/metric"
	"serieslink/internal/textutil"
)

var (
	registerMu    sync.Mutex
	registerOnce  = map[metric.Kind]*sync.Once{}
	registerError = map[metric.Kind]error{}
)

func scoreFunctionName(kind metric.Kind) string {
	return "serieslink_" + strings.ReplaceAll(string(kind), "-", "_")
}

// registerScoreFunction exposes m to SQL as a deterministic scalar function.
// Registration is process wide and applies to connections opened afterwards.
func registerScoreFunction(m metric.Metric) (string, error) {
	kind := m.Kind()
	name := scoreFunctionName(kind)

	registerMu.Lock()
	once, ok := registerOnce[kind]
	if !ok {
		once = &sync.Once{}
		registerOnce[kind] = once
	}
	registerMu.Unlock()

	once.Do(func() {
		err := sqlite.RegisterDeterministicScalarFunction(name, 2, func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
			a, aok := args[0].(string)
			b, bok := args[1].(string)
			if !aok || !bok {
				return nil, fmt.Errorf("%s: expected text arguments", name)
			}
			return m.Compare(textutil.Key(a), textutil.Key(b))
		})
		registerMu.Lock()
		registerError[kind] = err
		registerMu.Unlock()
	})

	registerMu.Lock()
	defer registerMu.Unlock()
	return name, registerError[kind]
}

const sqliteTitlesSchema = `
CREATE TABLE titles (
	id INTEGER PRIMARY KEY,
	key TEXT NOT NULL,
	original TEXT NOT NULL,
	payload TEXT NOT NULL,
	UNIQUE (key, payload)
)`

// SQLiteMatcher ranks titles held in an in-memory SQLite table with the
// metric registered as a SQL function. It treats the database as a black
// box the same way an external edit-distance extension would be.
type SQLiteMatcher struct {
	db        *sql.DB
	metric    metric.Metric
	function  string
	k         int
	direction string
}

// NewSQLiteMatcher loads entries into a private in-memory database. Identical
// (key, payload) pairs are ignored on insert. A k of zero returns every row.
func NewSQLiteMatcher(ctx context.Context, m metric.Metric, entries []index.Entry, k int) (*SQLiteMatcher, error) {
	function, err := registerScoreFunction(m)
	if err != nil {
		return nil, fmt.Errorf("register %s: %w", m.Kind(), err)
	}

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Every pooled connection would get its own empty in-memory database.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteTitlesSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create titles table: %w", err)
	}
	if err := insertTitles(ctx, db, entries); err != nil {
		_ = db.Close()
		return nil, err
	}

	direction := "ASC"
	if m.Direction() == metric.HigherIsBetter {
		direction = "DESC"
	}
	if k <= 0 {
		k = -1
	}
	return &SQLiteMatcher{db: db, metric: m, function: function, k: k, direction: direction}, nil
}

func insertTitles(ctx context.Context, db *sql.DB, entries []index.Entry) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO titles (key, original, payload) VALUES (?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()
	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, string(e.Key), e.Original, e.Payload); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert %q: %w", e.Label(), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert: %w", err)
	}
	return nil
}

func (m *SQLiteMatcher) Name() string {
	return fmt.Sprintf("sqlite/%s", m.metric.Kind())
}

func (m *SQLiteMatcher) Direction() metric.Direction { return m.metric.Direction() }

func (m *SQLiteMatcher) Match(ctx context.Context, query string) (index.RankedResult, error) {
	q := fmt.Sprintf(`SELECT key, original, payload, %s(key, ?) AS score FROM titles ORDER BY score %s, id ASC LIMIT ?`,
		m.function, m.direction)
	rows, err := m.db.QueryContext(ctx, q, string(textutil.Normalize(query)), m.k)
	if err != nil {
		return nil, fmt.Errorf("query titles: %w", err)
	}
	defer rows.Close()

	var out index.RankedResult
	for rows.Next() {
		var (
			c   index.Candidate
			key string
		)
		if err := rows.Scan(&key, &c.Entry.Original, &c.Entry.Payload, &c.Score); err != nil {
			return nil, fmt.Errorf("scan title: %w", err)
		}
		c.Entry.Key = textutil.Key(key)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate titles: %w", err)
	}
	return out, nil
}

// Close releases the database.
func (m *SQLiteMatcher) Close() error {
	return m.db.Close()
}
