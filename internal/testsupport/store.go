package testsupport

import (
	"context"
	"testing"

	"serieslink/internal/config"
	"serieslink/internal/linkstore"
)

// MustOpenStore opens a linkstore.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *linkstore.Store {
	t.Helper()

	store, err := linkstore.Open(cfg)
	if err != nil {
		t.Fatalf("linkstore.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustGetLink fetches the link stored for path and fails the test when absent.
func MustGetLink(t testing.TB, store *linkstore.Store, path string) *linkstore.Link {
	t.Helper()

	link, err := store.Get(context.Background(), path)
	if err != nil {
		t.Fatalf("store.Get: %v", err)
	}
	if link == nil {
		t.Fatalf("no link stored for %s", path)
	}
	return link
}
