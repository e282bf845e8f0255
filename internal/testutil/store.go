// Package testutil provides test helpers for setting up in-memory stores,
// creating fixtures, and making assertions.
package testutil

import (
	"context"
	"testing"

	"ledgerbook/internal/seed"
	"ledgerbook/internal/store"
	"ledgerbook/internal/store/docstore"
	"ledgerbook/internal/store/sqlstore"
)

// NamedStore pairs a store with its backend name for table-driven tests
// that must pass against both implementations.
type NamedStore struct {
	Name  string
	Store store.Store
}

// SetupSQLStore creates an in-memory SQLite-backed store.
func SetupSQLStore(t *testing.T) store.Store {
	t.Helper()

	s, err := sqlstore.OpenSQLite("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("failed to open test sql store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("failed to close test sql store: %v", err)
		}
	})
	return s
}

// SetupDocStore creates a document store backed by the in-memory client.
func SetupDocStore(t *testing.T) store.Store {
	t.Helper()

	s := docstore.New(docstore.NewMemClient())
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("failed to close test doc store: %v", err)
		}
	})
	return s
}

// Backends returns both store implementations for contract-style tests.
func Backends(t *testing.T) []NamedStore {
	t.Helper()
	return []NamedStore{
		{Name: "sql", Store: SetupSQLStore(t)},
		{Name: "doc", Store: SetupDocStore(t)},
	}
}

// SeedDefaults applies the default account types and type mappings.
func SeedDefaults(t *testing.T, s store.Store) {
	t.Helper()
	if err := seed.Apply(context.Background(), s); err != nil {
		t.Fatalf("failed to seed defaults: %v", err)
	}
}
