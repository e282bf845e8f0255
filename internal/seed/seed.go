// Package seed populates the global reference collections (account types
// and transaction type mappings) on startup. Seeding goes through the store
// contract so both backends end up identical, and is idempotent: rows that
// already exist (matched by code / csv_type) are left untouched.
package seed

import (
	"context"
	"encoding/json"
	"time"

	"ledgerbook/internal/logger"
	"ledgerbook/internal/models"
	"ledgerbook/internal/store"
)

// Apply seeds default account types and type mappings into s.
func Apply(ctx context.Context, s store.Store) error {
	types, err := applyAccountTypes(ctx, s)
	if err != nil {
		return err
	}
	mappings, err := applyTypeMappings(ctx, s)
	if err != nil {
		return err
	}
	if types > 0 || mappings > 0 {
		logger.Get().Infow("seeded reference data",
			"account_types", types,
			"type_mappings", mappings,
		)
	}
	return nil
}

func applyAccountTypes(ctx context.Context, s store.Store) (int, error) {
	docs, err := s.List(ctx, store.CollectionAccountTypes, store.GlobalScope)
	if err != nil {
		return 0, err
	}

	existing := make(map[string]bool, len(docs))
	for _, doc := range docs {
		var at models.AccountType
		if err := json.Unmarshal(doc.Data, &at); err != nil {
			return 0, err
		}
		existing[at.Code] = true
	}

	created := 0
	for _, at := range models.DefaultAccountTypes() {
		if existing[at.Code] {
			continue
		}
		at.ID = models.NewID()
		at.CreatedAt = time.Now().UTC()

		data, err := json.Marshal(at)
		if err != nil {
			return created, err
		}
		err = s.Create(ctx, store.CollectionAccountTypes, &store.Doc{
			ID:    at.ID,
			Scope: store.GlobalScope,
			Data:  data,
		})
		if err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func applyTypeMappings(ctx context.Context, s store.Store) (int, error) {
	docs, err := s.List(ctx, store.CollectionTypeMappings, store.GlobalScope)
	if err != nil {
		return 0, err
	}

	existing := make(map[string]bool, len(docs))
	for _, doc := range docs {
		var m models.TransactionTypeMapping
		if err := json.Unmarshal(doc.Data, &m); err != nil {
			return 0, err
		}
		existing[m.CSVType] = true
	}

	created := 0
	for _, m := range models.DefaultTypeMappings() {
		if existing[m.CSVType] {
			continue
		}
		m.ID = models.NewID()
		m.CreatedAt = time.Now().UTC()

		data, err := json.Marshal(m)
		if err != nil {
			return created, err
		}
		err = s.Create(ctx, store.CollectionTypeMappings, &store.Doc{
			ID:    m.ID,
			Scope: store.GlobalScope,
			Data:  data,
		})
		if err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
