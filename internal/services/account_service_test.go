package services

import (
	"context"
	"testing"

	apperrors "ledgerbook/internal/errors"
	"ledgerbook/internal/store"
	"ledgerbook/internal/testutil"
)

func TestAccountService_CreateAccount(t *testing.T) {
	for _, backend := range testutil.Backends(t) {
		t.Run(backend.Name, func(t *testing.T) {
			ctx := context.Background()
			testutil.SeedDefaults(t, backend.Store)
			business := testutil.CreateTestBusiness(t, backend.Store)
			svc := NewAccountService(backend.Store)
			bankType := testutil.FindAccountType(t, backend.Store, "BANK")

			t.Run("success", func(t *testing.T) {
				account, err := svc.CreateAccount(ctx, business.ID, AccountInput{
					AccountCode:   "1000",
					AccountName:   "Operating Checking",
					AccountTypeID: bankType.ID,
				})
				testutil.AssertNoError(t, err)
				if account.ID == "" {
					t.Error("expected a generated account id")
				}
				if !account.IsActive {
					t.Error("new accounts should be active")
				}
				if account.Type.Code != "BANK" || account.Type.NormalBalance != "DEBIT" {
					t.Errorf("type info not denormalized: %+v", account.Type)
				}
			})

			t.Run("duplicate_code", func(t *testing.T) {
				_, err := svc.CreateAccount(ctx, business.ID, AccountInput{
					AccountCode:   "1000",
					AccountName:   "Another Checking",
					AccountTypeID: bankType.ID,
				})
				testutil.AssertAppError(t, err, apperrors.ErrDuplicateAccountCode.Code)
			})

			t.Run("duplicate_code_case_insensitive", func(t *testing.T) {
				_, err := svc.CreateAccount(ctx, business.ID, AccountInput{
					AccountCode:   "1000a",
					AccountName:   "Mixed Case",
					AccountTypeID: bankType.ID,
				})
				testutil.AssertNoError(t, err)

				_, err = svc.CreateAccount(ctx, business.ID, AccountInput{
					AccountCode:   "1000A",
					AccountName:   "Mixed Case Again",
					AccountTypeID: bankType.ID,
				})
				testutil.AssertAppError(t, err, apperrors.ErrDuplicateAccountCode.Code)
			})

			t.Run("same_code_other_business", func(t *testing.T) {
				other := testutil.CreateTestBusiness(t, backend.Store)
				_, err := svc.CreateAccount(ctx, other.ID, AccountInput{
					AccountCode:   "1000",
					AccountName:   "Other Business Checking",
					AccountTypeID: bankType.ID,
				})
				testutil.AssertNoError(t, err)
			})

			t.Run("missing_code", func(t *testing.T) {
				_, err := svc.CreateAccount(ctx, business.ID, AccountInput{
					AccountName:   "No Code",
					AccountTypeID: bankType.ID,
				})
				testutil.AssertAppError(t, err, apperrors.ErrInvalidInput.Code)
			})

			t.Run("unknown_type", func(t *testing.T) {
				_, err := svc.CreateAccount(ctx, business.ID, AccountInput{
					AccountCode:   "1001",
					AccountName:   "Bad Type",
					AccountTypeID: "no-such-type",
				})
				testutil.AssertAppError(t, err, apperrors.ErrAccountTypeNotFound.Code)
			})
		})
	}
}

func TestAccountService_ParentValidation(t *testing.T) {
	for _, backend := range testutil.Backends(t) {
		t.Run(backend.Name, func(t *testing.T) {
			ctx := context.Background()
			testutil.SeedDefaults(t, backend.Store)
			business := testutil.CreateTestBusiness(t, backend.Store)
			svc := NewAccountService(backend.Store)
			expenseType := testutil.FindAccountType(t, backend.Store, "EXPENSE")

			root := testutil.CreateTestAccount(t, backend.Store, business.ID, "6000", "EXPENSE")
			child := testutil.CreateTestAccountWithParent(t, backend.Store, business.ID, "6010", "EXPENSE", &root.ID)

			t.Run("valid_parent", func(t *testing.T) {
				account, err := svc.CreateAccount(ctx, business.ID, AccountInput{
					AccountCode:     "6020",
					AccountName:     "Office Supplies",
					AccountTypeID:   expenseType.ID,
					ParentAccountID: &child.ID,
				})
				testutil.AssertNoError(t, err)
				if account.ParentAccountID == nil || *account.ParentAccountID != child.ID {
					t.Error("parent not set")
				}
			})

			t.Run("parent_missing", func(t *testing.T) {
				missing := "no-such-parent"
				_, err := svc.CreateAccount(ctx, business.ID, AccountInput{
					AccountCode:     "6030",
					AccountName:     "Orphan",
					AccountTypeID:   expenseType.ID,
					ParentAccountID: &missing,
				})
				testutil.AssertAppError(t, err, apperrors.ErrInvalidParentAccount.Code)
			})

			t.Run("parent_in_other_business", func(t *testing.T) {
				other := testutil.CreateTestBusiness(t, backend.Store)
				foreign := testutil.CreateTestAccount(t, backend.Store, other.ID, "6000", "EXPENSE")
				_, err := svc.CreateAccount(ctx, business.ID, AccountInput{
					AccountCode:     "6040",
					AccountName:     "Cross Business",
					AccountTypeID:   expenseType.ID,
					ParentAccountID: &foreign.ID,
				})
				testutil.AssertAppError(t, err, apperrors.ErrInvalidParentAccount.Code)
			})

			t.Run("self_parent", func(t *testing.T) {
				_, err := svc.UpdateAccount(ctx, business.ID, root.ID, AccountPatch{
					ParentAccountID: &root.ID,
				})
				testutil.AssertAppError(t, err, apperrors.ErrInvalidParentAccount.Code)
			})

			t.Run("cycle", func(t *testing.T) {
				// root -> child exists; pointing root at child closes a loop.
				_, err := svc.UpdateAccount(ctx, business.ID, root.ID, AccountPatch{
					ParentAccountID: &child.ID,
				})
				testutil.AssertAppError(t, err, apperrors.ErrInvalidParentAccount.Code)
			})
		})
	}
}

func TestAccountService_UpdateAccount(t *testing.T) {
	for _, backend := range testutil.Backends(t) {
		t.Run(backend.Name, func(t *testing.T) {
			ctx := context.Background()
			testutil.SeedDefaults(t, backend.Store)
			business := testutil.CreateTestBusiness(t, backend.Store)
			svc := NewAccountService(backend.Store)

			account := testutil.CreateTestAccount(t, backend.Store, business.ID, "5000", "EXPENSE")

			t.Run("rename", func(t *testing.T) {
				name := "Renamed Expense"
				updated, err := svc.UpdateAccount(ctx, business.ID, account.ID, AccountPatch{
					AccountName: &name,
				})
				testutil.AssertNoError(t, err)
				if updated.AccountName != name {
					t.Errorf("expected name %q, got %q", name, updated.AccountName)
				}
				if updated.AccountCode != "5000" {
					t.Errorf("code should be untouched, got %q", updated.AccountCode)
				}
			})

			t.Run("type_change_refreshes_denormalized_info", func(t *testing.T) {
				revenueType := testutil.FindAccountType(t, backend.Store, "REVENUE")
				updated, err := svc.UpdateAccount(ctx, business.ID, account.ID, AccountPatch{
					AccountTypeID: &revenueType.ID,
				})
				testutil.AssertNoError(t, err)
				if updated.Type.Code != "REVENUE" || updated.Type.Category != "REVENUE" {
					t.Errorf("denormalized type info stale: %+v", updated.Type)
				}
			})

			t.Run("clear_parent", func(t *testing.T) {
				parent := testutil.CreateTestAccount(t, backend.Store, business.ID, "5100", "EXPENSE")
				childAccount := testutil.CreateTestAccountWithParent(t, backend.Store, business.ID, "5110", "EXPENSE", &parent.ID)

				updated, err := svc.UpdateAccount(ctx, business.ID, childAccount.ID, AccountPatch{ClearParent: true})
				testutil.AssertNoError(t, err)
				if updated.ParentAccountID != nil {
					t.Error("expected parent to be cleared")
				}
			})

			t.Run("duplicate_code", func(t *testing.T) {
				testutil.CreateTestAccount(t, backend.Store, business.ID, "5200", "EXPENSE")
				code := "5200"
				_, err := svc.UpdateAccount(ctx, business.ID, account.ID, AccountPatch{AccountCode: &code})
				testutil.AssertAppError(t, err, apperrors.ErrDuplicateAccountCode.Code)
			})

			t.Run("case_only_code_change", func(t *testing.T) {
				lower := testutil.CreateTestAccount(t, backend.Store, business.ID, "5300a", "EXPENSE")
				code := "5300A"
				updated, err := svc.UpdateAccount(ctx, business.ID, lower.ID, AccountPatch{AccountCode: &code})
				testutil.AssertNoError(t, err)
				if updated.AccountCode != "5300A" {
					t.Errorf("case-only code change did not stick, got %q", updated.AccountCode)
				}
			})

			t.Run("not_found", func(t *testing.T) {
				name := "Ghost"
				_, err := svc.UpdateAccount(ctx, business.ID, "no-such-account", AccountPatch{AccountName: &name})
				testutil.AssertAppError(t, err, apperrors.ErrAccountNotFound.Code)
			})
		})
	}
}

func TestAccountService_DeleteAccount(t *testing.T) {
	for _, backend := range testutil.Backends(t) {
		t.Run(backend.Name, func(t *testing.T) {
			ctx := context.Background()
			testutil.SeedDefaults(t, backend.Store)
			business := testutil.CreateTestBusiness(t, backend.Store)
			svc := NewAccountService(backend.Store)

			t.Run("success", func(t *testing.T) {
				account := testutil.CreateTestAccount(t, backend.Store, business.ID, "7000", "EXPENSE")
				testutil.AssertNoError(t, svc.DeleteAccount(ctx, business.ID, account.ID))

				_, err := svc.GetAccount(ctx, business.ID, account.ID)
				testutil.AssertAppError(t, err, apperrors.ErrAccountNotFound.Code)
			})

			t.Run("blocked_by_children", func(t *testing.T) {
				parent := testutil.CreateTestAccount(t, backend.Store, business.ID, "7100", "EXPENSE")
				testutil.CreateTestAccountWithParent(t, backend.Store, business.ID, "7110", "EXPENSE", &parent.ID)

				err := svc.DeleteAccount(ctx, business.ID, parent.ID)
				testutil.AssertAppError(t, err, apperrors.ErrAccountHasChildren.Code)
			})

			t.Run("not_found", func(t *testing.T) {
				err := svc.DeleteAccount(ctx, business.ID, "no-such-account")
				testutil.AssertAppError(t, err, apperrors.ErrAccountNotFound.Code)
			})

			t.Run("wrong_business", func(t *testing.T) {
				other := testutil.CreateTestBusiness(t, backend.Store)
				account := testutil.CreateTestAccount(t, backend.Store, other.ID, "7200", "EXPENSE")

				err := svc.DeleteAccount(ctx, business.ID, account.ID)
				testutil.AssertAppError(t, err, apperrors.ErrAccountNotFound.Code)
			})
		})
	}
}

func TestAccountService_ListAccounts(t *testing.T) {
	for _, backend := range testutil.Backends(t) {
		t.Run(backend.Name, func(t *testing.T) {
			ctx := context.Background()
			testutil.SeedDefaults(t, backend.Store)
			business := testutil.CreateTestBusiness(t, backend.Store)
			svc := NewAccountService(backend.Store)

			testutil.CreateTestAccount(t, backend.Store, business.ID, "3000", "EQUITY")
			testutil.CreateTestAccount(t, backend.Store, business.ID, "1000", "BANK")
			testutil.CreateTestAccount(t, backend.Store, business.ID, "2000", "CREDIT_CARD")

			accounts, err := svc.ListAccounts(ctx, business.ID)
			testutil.AssertNoError(t, err)
			if len(accounts) != 3 {
				t.Fatalf("expected 3 accounts, got %d", len(accounts))
			}
			for i := 1; i < len(accounts); i++ {
				if accounts[i-1].AccountCode > accounts[i].AccountCode {
					t.Errorf("accounts not ordered by code: %q before %q",
						accounts[i-1].AccountCode, accounts[i].AccountCode)
				}
			}
		})
	}
}

// Guard against the store sentinel leaking through the service boundary.
func TestAccountService_TranslatesStoreErrors(t *testing.T) {
	backend := testutil.SetupDocStore(t)
	testutil.SeedDefaults(t, backend)
	business := testutil.CreateTestBusiness(t, backend)
	svc := NewAccountService(backend)

	_, err := svc.GetAccount(context.Background(), business.ID, "missing")
	if err == store.ErrNotFound {
		t.Fatal("store sentinel leaked through the service boundary")
	}
	testutil.AssertAppError(t, err, apperrors.ErrAccountNotFound.Code)
}
