package store_test

import (
	"context"
	"encoding/json"
	"testing"

	"ledgerbook/internal/store"
	"ledgerbook/internal/testutil"
)

// The contract tests run against both backends; services must not be able
// to tell them apart.

func TestStore_CreateAndGet(t *testing.T) {
	for _, backend := range testutil.Backends(t) {
		t.Run(backend.Name, func(t *testing.T) {
			ctx := context.Background()
			business := testutil.CreateTestBusiness(t, backend.Store)

			doc := &store.Doc{
				ID:    "doc-roundtrip-" + business.ID,
				Scope: business.ID,
				Data:  json.RawMessage(`{"name":"roundtrip"}`),
			}
			testutil.AssertNoError(t, backend.Store.Create(ctx, store.CollectionAccounts, doc))

			if doc.Version != 1 {
				t.Errorf("expected version 1 after create, got %d", doc.Version)
			}

			got, err := backend.Store.Get(ctx, store.CollectionAccounts, business.ID, doc.ID)
			testutil.AssertNoError(t, err)
			if got.Version != 1 {
				t.Errorf("expected stored version 1, got %d", got.Version)
			}
			if string(got.Data) != `{"name":"roundtrip"}` {
				t.Errorf("unexpected data: %s", got.Data)
			}
		})
	}
}

func TestStore_GetNotFound(t *testing.T) {
	for _, backend := range testutil.Backends(t) {
		t.Run(backend.Name, func(t *testing.T) {
			_, err := backend.Store.Get(context.Background(), store.CollectionAccounts, "no-such-scope", "no-such-id")
			if err != store.ErrNotFound {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestStore_GetWrongScope(t *testing.T) {
	for _, backend := range testutil.Backends(t) {
		t.Run(backend.Name, func(t *testing.T) {
			ctx := context.Background()
			business := testutil.CreateTestBusiness(t, backend.Store)
			other := testutil.CreateTestBusiness(t, backend.Store)

			doc := &store.Doc{ID: "doc-scoped-" + business.ID, Scope: business.ID, Data: json.RawMessage(`{}`)}
			testutil.AssertNoError(t, backend.Store.Create(ctx, store.CollectionAccounts, doc))

			if _, err := backend.Store.Get(ctx, store.CollectionAccounts, other.ID, doc.ID); err != store.ErrNotFound {
				t.Errorf("expected ErrNotFound across scopes, got %v", err)
			}
		})
	}
}

func TestStore_DuplicateCreate(t *testing.T) {
	for _, backend := range testutil.Backends(t) {
		t.Run(backend.Name, func(t *testing.T) {
			ctx := context.Background()
			business := testutil.CreateTestBusiness(t, backend.Store)

			doc := &store.Doc{ID: "doc-dup-" + business.ID, Scope: business.ID, Data: json.RawMessage(`{}`)}
			testutil.AssertNoError(t, backend.Store.Create(ctx, store.CollectionAccounts, doc))

			dup := &store.Doc{ID: doc.ID, Scope: business.ID, Data: json.RawMessage(`{"other":true}`)}
			if err := backend.Store.Create(ctx, store.CollectionAccounts, dup); err != store.ErrConflict {
				t.Errorf("expected ErrConflict, got %v", err)
			}
		})
	}
}

func TestStore_UpdateIncrementsVersion(t *testing.T) {
	for _, backend := range testutil.Backends(t) {
		t.Run(backend.Name, func(t *testing.T) {
			ctx := context.Background()
			business := testutil.CreateTestBusiness(t, backend.Store)

			doc := &store.Doc{ID: "doc-ver-" + business.ID, Scope: business.ID, Data: json.RawMessage(`{"n":1}`)}
			testutil.AssertNoError(t, backend.Store.Create(ctx, store.CollectionAccounts, doc))

			doc.Data = json.RawMessage(`{"n":2}`)
			testutil.AssertNoError(t, backend.Store.Update(ctx, store.CollectionAccounts, doc))
			if doc.Version != 2 {
				t.Errorf("expected version 2 after update, got %d", doc.Version)
			}

			got, err := backend.Store.Get(ctx, store.CollectionAccounts, business.ID, doc.ID)
			testutil.AssertNoError(t, err)
			if string(got.Data) != `{"n":2}` {
				t.Errorf("unexpected data after update: %s", got.Data)
			}
		})
	}
}

func TestStore_UpdateVersionConflict(t *testing.T) {
	for _, backend := range testutil.Backends(t) {
		t.Run(backend.Name, func(t *testing.T) {
			ctx := context.Background()
			business := testutil.CreateTestBusiness(t, backend.Store)

			doc := &store.Doc{ID: "doc-cas-" + business.ID, Scope: business.ID, Data: json.RawMessage(`{"n":1}`)}
			testutil.AssertNoError(t, backend.Store.Create(ctx, store.CollectionAccounts, doc))

			stale := &store.Doc{ID: doc.ID, Scope: business.ID, Version: doc.Version, Data: json.RawMessage(`{"n":2}`)}
			testutil.AssertNoError(t, backend.Store.Update(ctx, store.CollectionAccounts, doc))

			if err := backend.Store.Update(ctx, store.CollectionAccounts, stale); err != store.ErrVersionConflict {
				t.Errorf("expected ErrVersionConflict for stale write, got %v", err)
			}
		})
	}
}

func TestStore_UpdateNotFound(t *testing.T) {
	for _, backend := range testutil.Backends(t) {
		t.Run(backend.Name, func(t *testing.T) {
			doc := &store.Doc{ID: "doc-missing", Scope: "nowhere", Version: 1, Data: json.RawMessage(`{}`)}
			if err := backend.Store.Update(context.Background(), store.CollectionAccounts, doc); err != store.ErrNotFound {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestStore_Delete(t *testing.T) {
	for _, backend := range testutil.Backends(t) {
		t.Run(backend.Name, func(t *testing.T) {
			ctx := context.Background()
			business := testutil.CreateTestBusiness(t, backend.Store)

			doc := &store.Doc{ID: "doc-del-" + business.ID, Scope: business.ID, Data: json.RawMessage(`{}`)}
			testutil.AssertNoError(t, backend.Store.Create(ctx, store.CollectionAccounts, doc))

			testutil.AssertNoError(t, backend.Store.Delete(ctx, store.CollectionAccounts, business.ID, doc.ID))

			if _, err := backend.Store.Get(ctx, store.CollectionAccounts, business.ID, doc.ID); err != store.ErrNotFound {
				t.Errorf("expected ErrNotFound after delete, got %v", err)
			}
			if err := backend.Store.Delete(ctx, store.CollectionAccounts, business.ID, doc.ID); err != store.ErrNotFound {
				t.Errorf("expected ErrNotFound on second delete, got %v", err)
			}
		})
	}
}

func TestStore_ListScoped(t *testing.T) {
	for _, backend := range testutil.Backends(t) {
		t.Run(backend.Name, func(t *testing.T) {
			ctx := context.Background()
			business := testutil.CreateTestBusiness(t, backend.Store)
			other := testutil.CreateTestBusiness(t, backend.Store)

			for _, id := range []string{"a", "b", "c"} {
				doc := &store.Doc{ID: "doc-list-" + id + business.ID, Scope: business.ID, Data: json.RawMessage(`{}`)}
				testutil.AssertNoError(t, backend.Store.Create(ctx, store.CollectionAccounts, doc))
			}
			stray := &store.Doc{ID: "doc-list-stray-" + other.ID, Scope: other.ID, Data: json.RawMessage(`{}`)}
			testutil.AssertNoError(t, backend.Store.Create(ctx, store.CollectionAccounts, stray))

			docs, err := backend.Store.List(ctx, store.CollectionAccounts, business.ID)
			testutil.AssertNoError(t, err)
			if len(docs) != 3 {
				t.Errorf("expected 3 documents in scope, got %d", len(docs))
			}
			for _, d := range docs {
				if d.Scope != business.ID {
					t.Errorf("listed document from wrong scope %q", d.Scope)
				}
			}
		})
	}
}

func TestStore_ListCrossScope(t *testing.T) {
	for _, backend := range testutil.Backends(t) {
		t.Run(backend.Name, func(t *testing.T) {
			ctx := context.Background()
			first := testutil.CreateTestBusiness(t, backend.Store)
			second := testutil.CreateTestBusiness(t, backend.Store)

			want := map[string]bool{}
			for _, scope := range []string{first.ID, second.ID} {
				doc := &store.Doc{ID: "doc-cross-" + scope, Scope: scope, Data: json.RawMessage(`{}`)}
				testutil.AssertNoError(t, backend.Store.Create(ctx, store.CollectionAccounts, doc))
				want[doc.ID] = true
			}

			docs, err := backend.Store.List(ctx, store.CollectionAccounts, "")
			testutil.AssertNoError(t, err)
			for _, d := range docs {
				delete(want, d.ID)
			}
			if len(want) != 0 {
				t.Errorf("cross-scope list missed documents: %v", want)
			}
		})
	}
}

func TestStore_ListEmptyScope(t *testing.T) {
	for _, backend := range testutil.Backends(t) {
		t.Run(backend.Name, func(t *testing.T) {
			docs, err := backend.Store.List(context.Background(), store.CollectionAccounts, "scope-with-nothing")
			testutil.AssertNoError(t, err)
			if len(docs) != 0 {
				t.Errorf("expected empty list, got %d documents", len(docs))
			}
		})
	}
}
