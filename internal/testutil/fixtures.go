package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"ledgerbook/internal/models"
	"ledgerbook/internal/store"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// createDoc marshals v into the store, failing the test on error.
func createDoc(t *testing.T, s store.Store, collection, scope, id string, v interface{}) {
	t.Helper()

	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal fixture: %v", err)
	}
	err = s.Create(context.Background(), collection, &store.Doc{ID: id, Scope: scope, Data: data})
	if err != nil {
		t.Fatalf("failed to create fixture document: %v", err)
	}
}

// CreateTestBusiness creates a business with a unique name.
func CreateTestBusiness(t *testing.T, s store.Store) *models.Business {
	t.Helper()

	business := &models.Business{
		ID:        models.NewID(),
		Name:      fmt.Sprintf("Test Business %d", nextID()),
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	createDoc(t, s, store.CollectionBusinesses, store.GlobalScope, business.ID, business)
	return business
}

// FindAccountType looks up a seeded account type by code.
func FindAccountType(t *testing.T, s store.Store, code string) *models.AccountType {
	t.Helper()

	docs, err := s.List(context.Background(), store.CollectionAccountTypes, store.GlobalScope)
	if err != nil {
		t.Fatalf("failed to list account types: %v", err)
	}
	for _, doc := range docs {
		var at models.AccountType
		if err := json.Unmarshal(doc.Data, &at); err != nil {
			t.Fatalf("failed to decode account type: %v", err)
		}
		if at.Code == code {
			return &at
		}
	}
	t.Fatalf("account type %q not seeded", code)
	return nil
}

// CreateTestAccount creates a chart account of the given seeded type.
func CreateTestAccount(t *testing.T, s store.Store, businessID, code, typeCode string) *models.Account {
	t.Helper()
	return CreateTestAccountWithParent(t, s, businessID, code, typeCode, nil)
}

// CreateTestAccountWithParent creates a chart account with an optional parent.
func CreateTestAccountWithParent(t *testing.T, s store.Store, businessID, code, typeCode string, parentID *string) *models.Account {
	t.Helper()

	at := FindAccountType(t, s, typeCode)
	account := &models.Account{
		ID:            models.NewID(),
		BusinessID:    businessID,
		AccountCode:   code,
		AccountName:   fmt.Sprintf("Test Account %d", nextID()),
		AccountTypeID: at.ID,
		Type: models.AccountTypeInfo{
			Code:          at.Code,
			Name:          at.Name,
			Category:      at.Category,
			NormalBalance: at.NormalBalance,
		},
		ParentAccountID: parentID,
		IsActive:        true,
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}
	createDoc(t, s, store.CollectionAccounts, businessID, account.ID, account)
	return account
}

// CreateTestBankSubsidiary creates a bank subsidiary account.
func CreateTestBankSubsidiary(t *testing.T, s store.Store, businessID, name, accountCode string, openingBalance float64) *models.SubsidiaryAccount {
	t.Helper()

	sub := &models.SubsidiaryAccount{
		ID:             models.NewID(),
		BusinessID:     businessID,
		Kind:           models.SubsidiaryBank,
		AccountName:    name,
		AccountCode:    accountCode,
		BankName:       "Test Bank",
		OpeningBalance: openingBalance,
		CurrentBalance: openingBalance,
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
	}
	createDoc(t, s, store.CollectionSubsidiaries, businessID, sub.ID, sub)
	return sub
}

// CreateTestTransaction persists a balanced transaction directly, bypassing
// service validation. The caller supplies already-balanced lines.
func CreateTestTransaction(t *testing.T, s store.Store, businessID string, date time.Time, lines []models.TransactionLine) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		ID:         models.NewID(),
		BusinessID: businessID,
		Date:       date,
		Lines:      lines,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	tx.Amount = tx.TotalDebits()
	createDoc(t, s, store.CollectionTransactions, businessID, tx.ID, tx)
	return tx
}
