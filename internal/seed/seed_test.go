package seed_test

import (
	"context"
	"encoding/json"
	"testing"

	"ledgerbook/internal/models"
	"ledgerbook/internal/seed"
	"ledgerbook/internal/store"
	"ledgerbook/internal/testutil"
)

func TestApply(t *testing.T) {
	for _, backend := range testutil.Backends(t) {
		t.Run(backend.Name, func(t *testing.T) {
			ctx := context.Background()
			testutil.AssertNoError(t, seed.Apply(ctx, backend.Store))

			types, err := backend.Store.List(ctx, store.CollectionAccountTypes, store.GlobalScope)
			testutil.AssertNoError(t, err)
			if len(types) != len(models.DefaultAccountTypes()) {
				t.Errorf("expected %d account types, got %d", len(models.DefaultAccountTypes()), len(types))
			}

			mappings, err := backend.Store.List(ctx, store.CollectionTypeMappings, store.GlobalScope)
			testutil.AssertNoError(t, err)
			if len(mappings) != len(models.DefaultTypeMappings()) {
				t.Errorf("expected %d type mappings, got %d", len(models.DefaultTypeMappings()), len(mappings))
			}
		})
	}
}

func TestApply_Idempotent(t *testing.T) {
	for _, backend := range testutil.Backends(t) {
		t.Run(backend.Name, func(t *testing.T) {
			ctx := context.Background()
			testutil.AssertNoError(t, seed.Apply(ctx, backend.Store))
			testutil.AssertNoError(t, seed.Apply(ctx, backend.Store))

			types, err := backend.Store.List(ctx, store.CollectionAccountTypes, store.GlobalScope)
			testutil.AssertNoError(t, err)
			if len(types) != len(models.DefaultAccountTypes()) {
				t.Errorf("second apply duplicated account types: got %d", len(types))
			}

			seen := make(map[string]bool, len(types))
			for _, doc := range types {
				var at models.AccountType
				testutil.AssertNoError(t, json.Unmarshal(doc.Data, &at))
				if seen[at.Code] {
					t.Errorf("duplicate account type code %q", at.Code)
				}
				seen[at.Code] = true
			}

			mappings, err := backend.Store.List(ctx, store.CollectionTypeMappings, store.GlobalScope)
			testutil.AssertNoError(t, err)
			if len(mappings) != len(models.DefaultTypeMappings()) {
				t.Errorf("second apply duplicated type mappings: got %d", len(mappings))
			}
		})
	}
}

func TestApply_SeedsExpectedCodes(t *testing.T) {
	for _, backend := range testutil.Backends(t) {
		t.Run(backend.Name, func(t *testing.T) {
			ctx := context.Background()
			testutil.AssertNoError(t, seed.Apply(ctx, backend.Store))

			byCode := make(map[string]models.AccountType)
			docs, err := backend.Store.List(ctx, store.CollectionAccountTypes, store.GlobalScope)
			testutil.AssertNoError(t, err)
			for _, doc := range docs {
				var at models.AccountType
				testutil.AssertNoError(t, json.Unmarshal(doc.Data, &at))
				byCode[at.Code] = at
			}

			bank, ok := byCode["BANK"]
			if !ok {
				t.Fatal("BANK account type not seeded")
			}
			if bank.Category != models.CategoryAsset || bank.NormalBalance != models.DirectionDebit {
				t.Errorf("BANK should be a debit-normal asset, got %s/%s", bank.Category, bank.NormalBalance)
			}

			revenue, ok := byCode["REVENUE"]
			if !ok {
				t.Fatal("REVENUE account type not seeded")
			}
			if revenue.Category != models.CategoryRevenue || revenue.NormalBalance != models.DirectionCredit {
				t.Errorf("REVENUE should be a credit-normal revenue type, got %s/%s", revenue.Category, revenue.NormalBalance)
			}
		})
	}
}
