package services

import (
	"context"
	"strings"
	"time"

	apperrors "ledgerbook/internal/errors"
	"ledgerbook/internal/models"
	"ledgerbook/internal/store"
)

// accountService manages the chart of accounts.
type accountService struct {
	store store.Store
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(s store.Store) AccountServicer {
	return &accountService{store: s}
}

// CreateAccount creates a chart account. The account code must be unique
// within the business; the parent, if given, must belong to the same
// business. Account-type data is denormalized onto the account so readers
// never need a second lookup.
func (s *accountService) CreateAccount(ctx context.Context, businessID string, in AccountInput) (*models.Account, error) {
	if strings.TrimSpace(in.AccountCode) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account code is required")
	}
	if strings.TrimSpace(in.AccountName) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}

	existing, err := findAccountByCode(ctx, s.store, businessID, in.AccountCode)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if existing != nil {
		return nil, apperrors.WithMessage(apperrors.ErrDuplicateAccountCode,
			"account code "+in.AccountCode+" is already in use")
	}

	typeInfo, err := s.resolveTypeInfo(ctx, in.AccountTypeID)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		ID:            models.NewID(),
		BusinessID:    businessID,
		AccountCode:   in.AccountCode,
		AccountName:   in.AccountName,
		Description:   in.Description,
		AccountTypeID: in.AccountTypeID,
		Type:          *typeInfo,
		IsActive:      true,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}

	if in.ParentAccountID != nil {
		if err := s.validateParent(ctx, businessID, account.ID, *in.ParentAccountID); err != nil {
			return nil, err
		}
		account.ParentAccountID = in.ParentAccountID
	}

	err = createModel(ctx, s.store, store.CollectionAccounts, businessID, account.ID, account)
	if err != nil {
		return nil, translateStoreErr(err, apperrors.ErrAccountNotFound)
	}
	return account, nil
}

// GetAccount retrieves an account by id within a business.
func (s *accountService) GetAccount(ctx context.Context, businessID, id string) (*models.Account, error) {
	account, _, err := getModel[models.Account](ctx, s.store, store.CollectionAccounts, businessID, id)
	if err != nil {
		return nil, translateStoreErr(err, apperrors.ErrAccountNotFound)
	}
	return account, nil
}

// ListAccounts returns all accounts of a business ordered by code.
func (s *accountService) ListAccounts(ctx context.Context, businessID string) ([]models.Account, error) {
	accounts, err := listAccountsSorted(ctx, s.store, businessID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return accounts, nil
}

// UpdateAccount applies a patch to an account. Changing the type refreshes
// the denormalized type info; changing the parent re-runs hierarchy
// validation including cycle detection.
func (s *accountService) UpdateAccount(ctx context.Context, businessID, id string, patch AccountPatch) (*models.Account, error) {
	account, version, err := getModel[models.Account](ctx, s.store, store.CollectionAccounts, businessID, id)
	if err != nil {
		return nil, translateStoreErr(err, apperrors.ErrAccountNotFound)
	}

	if patch.AccountCode != nil {
		// A case-only change can never collide with another account, so
		// the duplicate lookup only runs for a genuinely different code.
		if !strings.EqualFold(*patch.AccountCode, account.AccountCode) {
			existing, err := findAccountByCode(ctx, s.store, businessID, *patch.AccountCode)
			if err != nil {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			if existing != nil && existing.ID != account.ID {
				return nil, apperrors.WithMessage(apperrors.ErrDuplicateAccountCode,
					"account code "+*patch.AccountCode+" is already in use")
			}
		}
		account.AccountCode = *patch.AccountCode
	}
	if patch.AccountName != nil {
		account.AccountName = *patch.AccountName
	}
	if patch.Description != nil {
		account.Description = *patch.Description
	}
	if patch.IsActive != nil {
		account.IsActive = *patch.IsActive
	}

	if patch.AccountTypeID != nil && *patch.AccountTypeID != account.AccountTypeID {
		typeInfo, err := s.resolveTypeInfo(ctx, *patch.AccountTypeID)
		if err != nil {
			return nil, err
		}
		account.AccountTypeID = *patch.AccountTypeID
		account.Type = *typeInfo
	}

	switch {
	case patch.ClearParent:
		account.ParentAccountID = nil
	case patch.ParentAccountID != nil:
		if err := s.validateParent(ctx, businessID, account.ID, *patch.ParentAccountID); err != nil {
			return nil, err
		}
		account.ParentAccountID = patch.ParentAccountID
	}

	account.UpdatedAt = time.Now().UTC()
	err = updateModel(ctx, s.store, store.CollectionAccounts, businessID, id, version, account)
	if err != nil {
		return nil, translateStoreErr(err, apperrors.ErrAccountNotFound)
	}
	return account, nil
}

// DeleteAccount removes an account. Fails if any account lists it as
// parent. Transactions referencing the account are not checked; reports
// tolerate dangling line references.
func (s *accountService) DeleteAccount(ctx context.Context, businessID, id string) error {
	if _, _, err := getModel[models.Account](ctx, s.store, store.CollectionAccounts, businessID, id); err != nil {
		return translateStoreErr(err, apperrors.ErrAccountNotFound)
	}

	accounts, err := listModels[models.Account](ctx, s.store, store.CollectionAccounts, businessID)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for i := range accounts {
		if accounts[i].ParentAccountID != nil && *accounts[i].ParentAccountID == id {
			return apperrors.WithMessage(apperrors.ErrAccountHasChildren,
				"account is the parent of "+accounts[i].AccountCode)
		}
	}

	err = s.store.Delete(ctx, store.CollectionAccounts, businessID, id)
	return translateStoreErr(err, apperrors.ErrAccountNotFound)
}

// resolveTypeInfo loads an account type and returns its denormalized form.
func (s *accountService) resolveTypeInfo(ctx context.Context, typeID string) (*models.AccountTypeInfo, error) {
	at, _, err := getModel[models.AccountType](ctx, s.store, store.CollectionAccountTypes, store.GlobalScope, typeID)
	if err != nil {
		return nil, translateStoreErr(err, apperrors.ErrAccountTypeNotFound)
	}
	return &models.AccountTypeInfo{
		Code:          at.Code,
		Name:          at.Name,
		Category:      at.Category,
		NormalBalance: at.NormalBalance,
	}, nil
}

// validateParent checks that the proposed parent exists in the same
// business, is not the account itself, and does not close a cycle. The
// whole parent chain is walked with a visited set so cycles of any depth
// are rejected.
func (s *accountService) validateParent(ctx context.Context, businessID, accountID, parentID string) error {
	if parentID == accountID {
		return apperrors.WithMessage(apperrors.ErrInvalidParentAccount, "an account cannot be its own parent")
	}

	visited := map[string]bool{accountID: true}
	current := parentID
	for current != "" {
		if visited[current] {
			return apperrors.WithMessage(apperrors.ErrInvalidParentAccount,
				"parent assignment would create a cycle")
		}
		visited[current] = true

		parent, _, err := getModel[models.Account](ctx, s.store, store.CollectionAccounts, businessID, current)
		if err != nil {
			if err == store.ErrNotFound {
				return apperrors.WithMessage(apperrors.ErrInvalidParentAccount,
					"parent account "+current+" does not exist in this business")
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if parent.ParentAccountID == nil {
			break
		}
		current = *parent.ParentAccountID
	}
	return nil
}
