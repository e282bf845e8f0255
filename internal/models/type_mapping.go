package models

import "time"

// TransactionTypeMapping translates a raw statement type string into a
// ledger direction and internal transaction type. The set grows
// monotonically: unknown CSV types are auto-created during import with a
// heuristic guess, and can be corrected manually afterwards.
type TransactionTypeMapping struct {
	ID           string          `json:"id"`
	CSVType      string          `json:"csv_type"`
	InternalType TransactionType `json:"internal_type"`
	Direction    Direction       `json:"direction"`
	Description  string          `json:"description,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// DefaultTypeMappings returns the mappings seeded on first startup,
// covering the statement vocabularies of common US banks.
func DefaultTypeMappings() []TransactionTypeMapping {
	return []TransactionTypeMapping{
		{CSVType: "DEBIT", InternalType: TransactionWithdrawal, Direction: DirectionDebit, Description: "Debit transaction"},
		{CSVType: "CREDIT", InternalType: TransactionDeposit, Direction: DirectionCredit, Description: "Credit transaction"},
		{CSVType: "WITHDRAWAL", InternalType: TransactionWithdrawal, Direction: DirectionDebit, Description: "Withdrawal"},
		{CSVType: "DEPOSIT", InternalType: TransactionDeposit, Direction: DirectionCredit, Description: "Deposit"},
		{CSVType: "CHARGE", InternalType: TransactionCharge, Direction: DirectionDebit, Description: "Charge"},
		{CSVType: "PAYMENT", InternalType: TransactionPayment, Direction: DirectionDebit, Description: "Payment"},
		{CSVType: "PAYMENT_RECEIVED", InternalType: TransactionPaymentReceived, Direction: DirectionCredit, Description: "Payment received"},
		{CSVType: "ACH_CREDIT", InternalType: TransactionDeposit, Direction: DirectionCredit, Description: "ACH credit transfer"},
		{CSVType: "ACH_DEBIT", InternalType: TransactionWithdrawal, Direction: DirectionDebit, Description: "ACH debit transfer"},
		{CSVType: "DEBIT_CARD", InternalType: TransactionCharge, Direction: DirectionDebit, Description: "Debit card transaction"},
		{CSVType: "CREDIT_CARD", InternalType: TransactionCharge, Direction: DirectionDebit, Description: "Credit card charge"},
		{CSVType: "FEE_TRANSACTION", InternalType: TransactionExpense, Direction: DirectionDebit, Description: "Fee transaction"},
		{CSVType: "FEE", InternalType: TransactionExpense, Direction: DirectionDebit, Description: "Fee"},
		{CSVType: "TRANSFER_IN", InternalType: TransactionDeposit, Direction: DirectionCredit, Description: "Transfer in"},
		{CSVType: "TRANSFER_OUT", InternalType: TransactionWithdrawal, Direction: DirectionDebit, Description: "Transfer out"},
		{CSVType: "CHECK", InternalType: TransactionPayment, Direction: DirectionDebit, Description: "Check payment"},
		{CSVType: "WIRE_TRANSFER", InternalType: TransactionTransfer, Direction: DirectionDebit, Description: "Wire transfer"},
		{CSVType: "INTEREST", InternalType: TransactionIncome, Direction: DirectionCredit, Description: "Interest income"},
		{CSVType: "DIVIDEND", InternalType: TransactionIncome, Direction: DirectionCredit, Description: "Dividend income"},
	}
}
