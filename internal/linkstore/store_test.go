package linkstore_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"serieslink/internal/linkstore"
	"serieslink/internal/testsupport"
)

func score(v float64) *float64 { return &v }

func TestOpenCreatesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	if store.Path() != cfg.LinkStorePath() {
		t.Fatalf("Path() = %q, want %q", store.Path(), cfg.LinkStorePath())
	}
	sum, err := store.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if sum.Total != 0 {
		t.Fatalf("expected empty store, got %+v", sum)
	}
}

func TestUpsertAndGet(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	link := &linkstore.Link{
		Path:      "/library/One Peice",
		Name:      "One Peice",
		Payload:   "55",
		Score:     score(0.97),
		Accepted:  true,
		Reason:    "accepted",
		Metric:    "jaro-winkler",
		RunID:     "run-1",
		BookCount: 3,
	}
	if err := store.Upsert(ctx, link); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got := testsupport.MustGetLink(t, store, "/library/One Peice")
	if got.Payload != "55" || got.Score == nil || *got.Score != 0.97 || !got.Accepted {
		t.Fatalf("unexpected link %#v", got)
	}
	if got.BookCount != 3 || got.RunID != "run-1" || got.Reason != "accepted" {
		t.Fatalf("unexpected link %#v", got)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be set")
	}

	missing, err := store.Get(ctx, "/library/nope")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown path, got %#v", missing)
	}
}

func TestUpsertReplacesOutcomeAndKeepsCreatedAt(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	first := &linkstore.Link{Path: "/l/Berserk", Name: "Berserk", Payload: "1", Score: score(0.5), Metric: "jaro", RunID: "a", Reason: "below_threshold"}
	if err := store.Upsert(ctx, first); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	created := testsupport.MustGetLink(t, store, "/l/Berserk").CreatedAt

	second := &linkstore.Link{Path: "/l/Berserk", Name: "Berserk", Metric: "jaro", RunID: "b", Reason: "no_candidates"}
	if err := store.Upsert(ctx, second); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got := testsupport.MustGetLink(t, store, "/l/Berserk")
	if got.Matched() || got.Score != nil {
		t.Fatalf("expected NULL payload and score after update, got %#v", got)
	}
	if got.RunID != "b" || got.Reason != "no_candidates" {
		t.Fatalf("outcome not replaced: %#v", got)
	}
	if !got.CreatedAt.Equal(created) {
		t.Fatalf("created_at changed from %v to %v", created, got.CreatedAt)
	}
}

func TestUpsertRejectsEmptyPath(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	if err := store.Upsert(context.Background(), &linkstore.Link{Name: "x"}); err == nil {
		t.Fatal("expected error for empty path")
	}
	if err := store.Upsert(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil link")
	}
}

func TestListFiltersAndSummary(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	links := []*linkstore.Link{
		{Path: "/l/c", Name: "Claymore", Payload: "3", Score: score(1), Accepted: true, Metric: "jaro", RunID: "r"},
		{Path: "/l/a", Name: "Akira", Payload: "1", Score: score(0.95), Accepted: true, Metric: "jaro", RunID: "r"},
		{Path: "/l/b", Name: "Bleach", Payload: "2", Score: score(0.4), Metric: "jaro", RunID: "r"},
		{Path: "/l/z", Name: "Zzz", Metric: "jaro", RunID: "r"},
	}
	for _, link := range links {
		if err := store.Upsert(ctx, link); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	tests := []struct {
		filter linkstore.Filter
		want   []string
	}{
		{linkstore.FilterAll, []string{"Akira", "Bleach", "Claymore", "Zzz"}},
		{linkstore.FilterAccepted, []string{"Akira", "Claymore"}},
		{linkstore.FilterRejected, []string{"Bleach"}},
		{linkstore.FilterUnmatched, []string{"Zzz"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			got, err := store.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d links, want %d", len(got), len(tt.want))
			}
			for i, name := range tt.want {
				if got[i].Name != name {
					t.Fatalf("link %d = %q, want %q", i, got[i].Name, name)
				}
			}
		})
	}

	if _, err := store.List(ctx, linkstore.Filter("bogus")); err == nil {
		t.Fatal("expected error for unknown filter")
	}

	sum, err := store.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	want := linkstore.Summary{Total: 4, Accepted: 2, Rejected: 1, Unmatched: 1}
	if sum != want {
		t.Fatalf("Summary() = %+v, want %+v", sum, want)
	}

	paths, err := store.Paths(ctx)
	if err != nil {
		t.Fatalf("Paths failed: %v", err)
	}
	if _, ok := paths["/l/z"]; !ok || len(paths) != 4 {
		t.Fatalf("unexpected paths %v", paths)
	}
}

func TestRemoveAndClear(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	for _, p := range []string{"/l/a", "/l/b"} {
		if err := store.Upsert(ctx, &linkstore.Link{Path: p, Name: filepath.Base(p), Metric: "jaro", RunID: "r"}); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	removed, err := store.Remove(ctx, "/l/a")
	if err != nil || !removed {
		t.Fatalf("Remove = %v, %v", removed, err)
	}
	removed, err = store.Remove(ctx, "/l/a")
	if err != nil || removed {
		t.Fatalf("second Remove = %v, %v", removed, err)
	}

	cleared, err := store.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if cleared != 1 {
		t.Fatalf("Clear() = %d, want 1", cleared)
	}
}

func TestReopenKeepsLinks(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := linkstore.Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := store.Upsert(context.Background(), &linkstore.Link{Path: "/l/a", Name: "a", Metric: "osa", RunID: "r"}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := testsupport.MustOpenStore(t, cfg)
	if got := testsupport.MustGetLink(t, reopened, "/l/a"); got.Metric != "osa" {
		t.Fatalf("unexpected link after reopen %#v", got)
	}
}

func TestSchemaMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := linkstore.Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	store.Close()

	db, err := sql.Open("sqlite", cfg.LinkStorePath())
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	db.Close()

	if _, err := linkstore.Open(cfg); !errors.Is(err, linkstore.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}
