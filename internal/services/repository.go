// Package services implements the ledger business logic on top of the
// store contract. Services are constructed with a store.Store and exposed
// behind the Servicer interfaces in interfaces.go.
package services

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	apperrors "ledgerbook/internal/errors"
	"ledgerbook/internal/models"
	"ledgerbook/internal/store"
)

// getModel fetches and decodes one document. Returns the decoded value and
// the document version for later compare-and-swap updates.
func getModel[T any](ctx context.Context, s store.Store, collection, scope, id string) (*T, int64, error) {
	doc, err := s.Get(ctx, collection, scope, id)
	if err != nil {
		return nil, 0, err
	}
	var v T
	if err := json.Unmarshal(doc.Data, &v); err != nil {
		return nil, 0, err
	}
	return &v, doc.Version, nil
}

// listModels fetches and decodes every document of a collection scope.
// An empty scope lists across all scopes.
func listModels[T any](ctx context.Context, s store.Store, collection, scope string) ([]T, error) {
	docs, err := s.List(ctx, collection, scope)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var v T
		if err := json.Unmarshal(doc.Data, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func createModel(ctx context.Context, s store.Store, collection, scope, id string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Create(ctx, collection, &store.Doc{ID: id, Scope: scope, Data: data})
}

func updateModel(ctx context.Context, s store.Store, collection, scope, id string, version int64, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Update(ctx, collection, &store.Doc{ID: id, Scope: scope, Version: version, Data: data})
}

// translateStoreErr maps store sentinels onto AppErrors, using notFound for
// missing documents.
func translateStoreErr(err error, notFound *apperrors.AppError) error {
	switch err {
	case nil:
		return nil
	case store.ErrNotFound:
		return notFound
	case store.ErrVersionConflict:
		return apperrors.ErrVersionConflict
	default:
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
}

// findAccountByCode returns the business's account with the given code, or
// nil if none exists. Codes are matched case-insensitively.
func findAccountByCode(ctx context.Context, s store.Store, businessID, code string) (*models.Account, error) {
	accounts, err := listModels[models.Account](ctx, s, store.CollectionAccounts, businessID)
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		if strings.EqualFold(accounts[i].AccountCode, code) {
			return &accounts[i], nil
		}
	}
	return nil, nil
}

// listAccountsSorted returns the business's accounts ordered by code.
func listAccountsSorted(ctx context.Context, s store.Store, businessID string) ([]models.Account, error) {
	accounts, err := listModels[models.Account](ctx, s, store.CollectionAccounts, businessID)
	if err != nil {
		return nil, err
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].AccountCode < accounts[j].AccountCode
	})
	return accounts, nil
}

// findAccountTypeByCode returns the seeded account type with the given
// code, or nil if none exists.
func findAccountTypeByCode(ctx context.Context, s store.Store, code string) (*models.AccountType, error) {
	types, err := listModels[models.AccountType](ctx, s, store.CollectionAccountTypes, store.GlobalScope)
	if err != nil {
		return nil, err
	}
	for i := range types {
		if strings.EqualFold(types[i].Code, code) {
			return &types[i], nil
		}
	}
	return nil, nil
}

// findMappingByCSVType returns the stored mapping for a raw statement type,
// or nil if none exists. Lookups are case-insensitive.
func findMappingByCSVType(ctx context.Context, s store.Store, csvType string) (*models.TransactionTypeMapping, error) {
	mappings, err := listModels[models.TransactionTypeMapping](ctx, s, store.CollectionTypeMappings, store.GlobalScope)
	if err != nil {
		return nil, err
	}
	for i := range mappings {
		if strings.EqualFold(mappings[i].CSVType, csvType) {
			return &mappings[i], nil
		}
	}
	return nil, nil
}
