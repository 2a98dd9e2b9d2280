package catalog

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"serieslink/internal/config"
	"serieslink/internal/textutil"
)

func TestLoadJSONPlainStrings(t *testing.T) {
	titles, err := LoadJSON(strings.NewReader(`["One Piece", "  ", "Berserk"]`))
	if err != nil {
		t.Fatalf("LoadJSON failed: %v", err)
	}
	want := []Title{
		{Name: "One Piece", SeriesID: "One Piece"},
		{Name: "Berserk", SeriesID: "Berserk"},
	}
	if !reflect.DeepEqual(titles, want) {
		t.Fatalf("titles = %#v, want %#v", titles, want)
	}
}

func TestLoadJSONObjects(t *testing.T) {
	doc := `[
		{"title": "One Piece", "series_id": 55099564912, "alt_titles": ["Wan Pisu", ""]},
		{"name": "Berserk", "series_id": "berserk-1"},
		{"title": "Yotsuba to!"},
		{"series_id": 7}
	]`
	titles, err := LoadJSON(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadJSON failed: %v", err)
	}
	want := []Title{
		{Name: "One Piece", SeriesID: "55099564912"},
		{Name: "Wan Pisu", SeriesID: "55099564912"},
		{Name: "Berserk", SeriesID: "berserk-1"},
		{Name: "Yotsuba to!", SeriesID: "Yotsuba to!"},
	}
	if !reflect.DeepEqual(titles, want) {
		t.Fatalf("titles = %#v, want %#v", titles, want)
	}
}

func TestLoadJSONRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not an array", `{"title": "One Piece"}`},
		{"number entry", `[42]`},
		{"bad series id", `[{"title": "x", "series_id": true}]`},
		{"truncated", `["One Piece"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadJSON(strings.NewReader(tt.doc)); err == nil {
				t.Fatalf("expected error for %s", tt.doc)
			}
		})
	}
}

func TestLoadSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mu.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	stmts := []string{
		`CREATE TABLE title (id INTEGER PRIMARY KEY, name TEXT, series_id INTEGER)`,
		`INSERT INTO title (name, series_id) VALUES ('One Piece', 1), ('Wan Pisu', 1), (NULL, 2), ('Berserk', NULL), ('Monster', 3)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("exec %q: %v", stmt, err)
		}
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	titles, err := LoadSQLite(context.Background(), path, "title", "name", "series_id")
	if err != nil {
		t.Fatalf("LoadSQLite failed: %v", err)
	}
	want := []Title{
		{Name: "One Piece", SeriesID: "1"},
		{Name: "Wan Pisu", SeriesID: "1"},
		{Name: "Monster", SeriesID: "3"},
	}
	if !reflect.DeepEqual(titles, want) {
		t.Fatalf("titles = %#v, want %#v", titles, want)
	}

	if _, err := LoadSQLite(context.Background(), path, "missing", "name", "series_id"); err == nil {
		t.Fatal("expected error for missing table")
	}

	missing := filepath.Join(t.TempDir(), "absent.db")
	if _, err := LoadSQLite(context.Background(), missing, "title", "name", "series_id"); err == nil {
		t.Fatal("expected error for missing database")
	}
	if _, err := os.Stat(missing); !os.IsNotExist(err) {
		t.Fatalf("missing catalog should not be created, stat err = %v", err)
	}
}

func TestLoadDispatchesOnFormat(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "titles.json")
	if err := os.WriteFile(jsonPath, []byte(`["Monster"]`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	titles, err := Load(context.Background(), config.Catalog{Path: jsonPath, Format: FormatJSON}, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(titles) != 1 || titles[0].Name != "Monster" {
		t.Fatalf("unexpected titles %#v", titles)
	}

	if _, err := Load(context.Background(), config.Catalog{}, nil); err == nil {
		t.Fatal("expected error for missing path")
	}
	if _, err := Load(context.Background(), config.Catalog{Path: jsonPath, Format: "csv"}, nil); err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if _, err := Load(context.Background(), config.Catalog{Path: filepath.Join(dir, "nope.json"), Format: FormatJSON}, nil); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestEntriesNormalizeKeys(t *testing.T) {
	entries := Entries([]Title{{Name: "ＯＮＥ　ＰＩＥＣＥ", SeriesID: "1"}, {Name: "Berserk", SeriesID: "2"}})
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	if entries[0].Key != textutil.Key("one piece") || entries[0].Payload != "1" || entries[0].Original != "ＯＮＥ　ＰＩＥＣＥ" {
		t.Fatalf("unexpected entry %#v", entries[0])
	}
	if entries[1].Key != "berserk" {
		t.Fatalf("unexpected entry %#v", entries[1])
	}
}
