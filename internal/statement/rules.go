package statement

import (
	"strings"

	"ledgerbook/internal/models"
)

// InferenceRule guesses a ledger direction and internal type from a raw
// statement type token. Rules are matched in order by substring; the first
// hit wins.
type InferenceRule struct {
	Keyword      string
	Direction    models.Direction
	InternalType models.TransactionType
}

// InferenceRules is the ordered rule table used when a statement carries a
// type string with no stored mapping. Deposit-style keywords are checked
// before the generic CREDIT/DEBIT tokens so that e.g. "ACH DEPOSIT"
// resolves to a deposit rather than a bare credit.
var InferenceRules = []InferenceRule{
	{Keyword: "DEPOSIT", Direction: models.DirectionCredit, InternalType: models.TransactionDeposit},
	{Keyword: "RECEIVED", Direction: models.DirectionCredit, InternalType: models.TransactionPaymentReceived},
	{Keyword: "INTEREST", Direction: models.DirectionCredit, InternalType: models.TransactionIncome},
	{Keyword: "DIVIDEND", Direction: models.DirectionCredit, InternalType: models.TransactionIncome},
	{Keyword: "INCOME", Direction: models.DirectionCredit, InternalType: models.TransactionIncome},
	{Keyword: "CREDIT", Direction: models.DirectionCredit, InternalType: models.TransactionDeposit},
	{Keyword: "WITHDRAWAL", Direction: models.DirectionDebit, InternalType: models.TransactionWithdrawal},
	{Keyword: "FEE", Direction: models.DirectionDebit, InternalType: models.TransactionExpense},
	{Keyword: "EXPENSE", Direction: models.DirectionDebit, InternalType: models.TransactionExpense},
	{Keyword: "CHARGE", Direction: models.DirectionDebit, InternalType: models.TransactionCharge},
	{Keyword: "PAYMENT", Direction: models.DirectionDebit, InternalType: models.TransactionPayment},
	{Keyword: "DEBIT", Direction: models.DirectionDebit, InternalType: models.TransactionWithdrawal},
}

// InferType resolves a raw statement type string against InferenceRules.
// Unmatched tokens default to a debit adjustment.
func InferType(csvType string) (models.Direction, models.TransactionType) {
	token := strings.ToUpper(strings.TrimSpace(csvType))
	for _, rule := range InferenceRules {
		if strings.Contains(token, rule.Keyword) {
			return rule.Direction, rule.InternalType
		}
	}
	return models.DirectionDebit, models.TransactionAdjustment
}
