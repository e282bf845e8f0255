package statement

import (
	"testing"

	"ledgerbook/internal/models"
)

func TestInferType(t *testing.T) {
	tests := []struct {
		name          string
		csvType       string
		wantDirection models.Direction
		wantType      models.TransactionType
	}{
		{"deposit", "ACH_DEPOSIT", models.DirectionCredit, models.TransactionDeposit},
		{"deposit_beats_generic_credit", "DEPOSIT CREDIT", models.DirectionCredit, models.TransactionDeposit},
		{"received", "PAYMENT RECEIVED", models.DirectionCredit, models.TransactionPaymentReceived},
		{"interest", "INTEREST PAID", models.DirectionCredit, models.TransactionIncome},
		{"dividend", "DIVIDEND", models.DirectionCredit, models.TransactionIncome},
		{"generic_credit", "MISC CREDIT", models.DirectionCredit, models.TransactionDeposit},
		{"withdrawal", "ATM WITHDRAWAL", models.DirectionDebit, models.TransactionWithdrawal},
		{"fee", "MONTHLY FEE", models.DirectionDebit, models.TransactionExpense},
		{"charge", "SERVICE CHARGE", models.DirectionDebit, models.TransactionCharge},
		{"payment", "LOAN PAYMENT", models.DirectionDebit, models.TransactionPayment},
		{"generic_debit", "POS DEBIT", models.DirectionDebit, models.TransactionWithdrawal},
		{"lowercase", "ach_deposit", models.DirectionCredit, models.TransactionDeposit},
		{"unknown_defaults_to_adjustment", "MYSTERY", models.DirectionDebit, models.TransactionAdjustment},
		{"empty_defaults_to_adjustment", "", models.DirectionDebit, models.TransactionAdjustment},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			direction, internalType := InferType(tt.csvType)
			if direction != tt.wantDirection {
				t.Errorf("InferType(%q) direction = %s, want %s", tt.csvType, direction, tt.wantDirection)
			}
			if internalType != tt.wantType {
				t.Errorf("InferType(%q) type = %s, want %s", tt.csvType, internalType, tt.wantType)
			}
		})
	}
}
