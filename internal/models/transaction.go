package models

import (
	"math"
	"time"
)

// TransactionType classifies the business meaning of a ledger transaction.
type TransactionType string

const (
	TransactionDeposit         TransactionType = "DEPOSIT"
	TransactionWithdrawal      TransactionType = "WITHDRAWAL"
	TransactionTransfer        TransactionType = "TRANSFER"
	TransactionPayment         TransactionType = "PAYMENT"
	TransactionCharge          TransactionType = "CHARGE"
	TransactionPaymentReceived TransactionType = "PAYMENT_RECEIVED"
	TransactionExpense         TransactionType = "EXPENSE"
	TransactionIncome          TransactionType = "INCOME"
	TransactionAdjustment      TransactionType = "ADJUSTMENT"
)

// BalanceTolerance is the maximum permitted absolute difference between
// total debits and total credits of a committed transaction.
const BalanceTolerance = 0.01

// TransactionLine is one side of a double entry. Exactly one of
// DebitAmount/CreditAmount is expected to be non-zero by convention.
// Lines are owned by their transaction and never persisted independently.
type TransactionLine struct {
	AccountID    string  `json:"account_id"`
	DebitAmount  float64 `json:"debit_amount"`
	CreditAmount float64 `json:"credit_amount"`
}

// Transaction is a balanced double-entry posting with embedded lines.
// The whole unit is stored as one document so lines are always retrievable
// in a single fetch and replaced atomically.
type Transaction struct {
	ID              string            `json:"id"`
	BusinessID      string            `json:"business_id"`
	Date            time.Time         `json:"transaction_date"`
	Description     string            `json:"description,omitempty"`
	ReferenceNumber string            `json:"reference_number,omitempty"`
	Type            TransactionType   `json:"transaction_type,omitempty"`
	Amount          float64           `json:"amount"`
	Lines           []TransactionLine `json:"lines"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// TotalDebits returns the sum of all debit amounts.
func (t *Transaction) TotalDebits() float64 {
	var sum float64
	for _, l := range t.Lines {
		sum += l.DebitAmount
	}
	return sum
}

// TotalCredits returns the sum of all credit amounts.
func (t *Transaction) TotalCredits() float64 {
	var sum float64
	for _, l := range t.Lines {
		sum += l.CreditAmount
	}
	return sum
}

// IsBalanced reports whether debits equal credits within BalanceTolerance.
func (t *Transaction) IsBalanced() bool {
	return math.Abs(t.TotalDebits()-t.TotalCredits()) <= BalanceTolerance
}
