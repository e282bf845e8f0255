package services

import (
	"context"
	"testing"

	apperrors "ledgerbook/internal/errors"
	"ledgerbook/internal/models"
	"ledgerbook/internal/testutil"
)

func TestBusinessService_BusinessLifecycle(t *testing.T) {
	for _, backend := range testutil.Backends(t) {
		t.Run(backend.Name, func(t *testing.T) {
			ctx := context.Background()
			svc := NewBusinessService(backend.Store)

			t.Run("create_and_get", func(t *testing.T) {
				business, err := svc.CreateBusiness(ctx, "Acme Holdings")
				testutil.AssertNoError(t, err)
				if business.ID == "" {
					t.Error("expected a generated business id")
				}

				got, err := svc.GetBusiness(ctx, business.ID)
				testutil.AssertNoError(t, err)
				if got.Name != "Acme Holdings" {
					t.Errorf("unexpected name %q", got.Name)
				}
			})

			t.Run("empty_name", func(t *testing.T) {
				_, err := svc.CreateBusiness(ctx, "   ")
				testutil.AssertAppError(t, err, apperrors.ErrInvalidInput.Code)
			})

			t.Run("rename", func(t *testing.T) {
				business, err := svc.CreateBusiness(ctx, "Old Name")
				testutil.AssertNoError(t, err)

				updated, err := svc.UpdateBusiness(ctx, business.ID, "New Name")
				testutil.AssertNoError(t, err)
				if updated.Name != "New Name" {
					t.Errorf("rename did not stick: %q", updated.Name)
				}
			})

			t.Run("get_missing", func(t *testing.T) {
				_, err := svc.GetBusiness(ctx, "no-such-business")
				testutil.AssertAppError(t, err, apperrors.ErrBusinessNotFound.Code)
			})
		})
	}
}

func TestBusinessService_SubsidiaryAccounts(t *testing.T) {
	for _, backend := range testutil.Backends(t) {
		t.Run(backend.Name, func(t *testing.T) {
			ctx := context.Background()
			business := testutil.CreateTestBusiness(t, backend.Store)
			svc := NewBusinessService(backend.Store)

			t.Run("create_bank", func(t *testing.T) {
				sub, err := svc.CreateSubsidiaryAccount(ctx, business.ID, SubsidiaryInput{
					Kind:           models.SubsidiaryBank,
					AccountName:    "Main Checking",
					AccountCode:    "1010",
					BankName:       "First Example Bank",
					OpeningBalance: 2500.00,
				})
				testutil.AssertNoError(t, err)
				testutil.AssertAmount(t, sub.CurrentBalance, 2500.00, "current balance initialized from opening")
				if !sub.IsActive {
					t.Error("new subsidiary accounts should be active")
				}
			})

			t.Run("unknown_kind", func(t *testing.T) {
				_, err := svc.CreateSubsidiaryAccount(ctx, business.ID, SubsidiaryInput{
					Kind:        models.SubsidiaryKind("CRYPTO"),
					AccountName: "Wallet",
				})
				testutil.AssertAppError(t, err, apperrors.ErrInvalidInput.Code)
			})

			t.Run("list_filtered_by_kind", func(t *testing.T) {
				_, err := svc.CreateSubsidiaryAccount(ctx, business.ID, SubsidiaryInput{
					Kind:        models.SubsidiaryCreditCard,
					AccountName: "Company Card",
					CardLast4:   "4242",
				})
				testutil.AssertNoError(t, err)

				cards, err := svc.ListSubsidiaryAccounts(ctx, business.ID, models.SubsidiaryCreditCard)
				testutil.AssertNoError(t, err)
				if len(cards) != 1 {
					t.Fatalf("expected 1 credit card, got %d", len(cards))
				}

				all, err := svc.ListSubsidiaryAccounts(ctx, business.ID, "")
				testutil.AssertNoError(t, err)
				if len(all) != 2 {
					t.Errorf("expected 2 subsidiaries in total, got %d", len(all))
				}
			})

			t.Run("get_missing", func(t *testing.T) {
				_, err := svc.GetSubsidiaryAccount(ctx, business.ID, "no-such-sub")
				testutil.AssertAppError(t, err, apperrors.ErrSubsidiaryNotFound.Code)
			})
		})
	}
}

func TestBusinessService_TypeMappings(t *testing.T) {
	for _, backend := range testutil.Backends(t) {
		t.Run(backend.Name, func(t *testing.T) {
			ctx := context.Background()
			testutil.SeedDefaults(t, backend.Store)
			svc := NewBusinessService(backend.Store)

			t.Run("create_uppercases", func(t *testing.T) {
				mapping, err := svc.CreateTypeMapping(ctx, "pos purchase",
					models.TransactionCharge, models.DirectionDebit, "")
				testutil.AssertNoError(t, err)
				if mapping.CSVType != "POS PURCHASE" {
					t.Errorf("csv type not normalized: %q", mapping.CSVType)
				}
			})

			t.Run("duplicate", func(t *testing.T) {
				_, err := svc.CreateTypeMapping(ctx, "DEPOSIT",
					models.TransactionDeposit, models.DirectionCredit, "")
				testutil.AssertAppError(t, err, apperrors.ErrDuplicateMapping.Code)
			})

			t.Run("update", func(t *testing.T) {
				mapping, err := svc.CreateTypeMapping(ctx, "ZELLE",
					models.TransactionPayment, models.DirectionDebit, "")
				testutil.AssertNoError(t, err)

				updated, err := svc.UpdateTypeMapping(ctx, mapping.ID,
					models.TransactionDeposit, models.DirectionCredit, "incoming Zelle")
				testutil.AssertNoError(t, err)
				if updated.Direction != models.DirectionCredit {
					t.Errorf("direction not updated: %s", updated.Direction)
				}
			})

			t.Run("delete", func(t *testing.T) {
				mapping, err := svc.CreateTypeMapping(ctx, "VENMO",
					models.TransactionPayment, models.DirectionDebit, "")
				testutil.AssertNoError(t, err)

				testutil.AssertNoError(t, svc.DeleteTypeMapping(ctx, mapping.ID))
				err = svc.DeleteTypeMapping(ctx, mapping.ID)
				testutil.AssertAppError(t, err, apperrors.ErrMappingNotFound.Code)
			})
		})
	}
}

func TestBusinessService_ListAccountTypes(t *testing.T) {
	for _, backend := range testutil.Backends(t) {
		t.Run(backend.Name, func(t *testing.T) {
			testutil.SeedDefaults(t, backend.Store)
			svc := NewBusinessService(backend.Store)

			types, err := svc.ListAccountTypes(context.Background())
			testutil.AssertNoError(t, err)
			if len(types) != len(models.DefaultAccountTypes()) {
				t.Fatalf("expected %d account types, got %d", len(models.DefaultAccountTypes()), len(types))
			}
			for i := 1; i < len(types); i++ {
				if types[i-1].Code > types[i].Code {
					t.Errorf("types not ordered by code: %q before %q", types[i-1].Code, types[i].Code)
				}
			}
		})
	}
}
