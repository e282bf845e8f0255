package models

import "time"

// SubsidiaryKind discriminates the real-world instrument a subsidiary
// account represents.
type SubsidiaryKind string

const (
	SubsidiaryBank       SubsidiaryKind = "BANK"
	SubsidiaryCreditCard SubsidiaryKind = "CREDIT_CARD"
	SubsidiaryLoan       SubsidiaryKind = "LOAN"
)

// SubsidiaryAccount represents a real bank, credit-card, or loan account.
// Each is expected to gain a corresponding chart Account (created lazily on
// first import) used for ledger postings; AccountCode links the two.
// Kind-specific fields are optional and only populated for their kind.
type SubsidiaryAccount struct {
	ID          string         `json:"id"`
	BusinessID  string         `json:"business_id"`
	Kind        SubsidiaryKind `json:"kind"`
	AccountName string         `json:"account_name"`
	AccountCode string         `json:"account_code,omitempty"`

	// Bank fields
	AccountNumber string `json:"account_number,omitempty"`
	BankName      string `json:"bank_name,omitempty"`
	RoutingNumber string `json:"routing_number,omitempty"`

	// Credit-card fields
	CardLast4   string  `json:"card_number_last4,omitempty"`
	Issuer      string  `json:"issuer,omitempty"`
	CreditLimit float64 `json:"credit_limit,omitempty"`

	// Loan fields
	LenderName      string  `json:"lender_name,omitempty"`
	LoanNumber      string  `json:"loan_number,omitempty"`
	PrincipalAmount float64 `json:"principal_amount,omitempty"`
	InterestRate    float64 `json:"interest_rate,omitempty"`

	OpeningBalance float64   `json:"opening_balance"`
	CurrentBalance float64   `json:"current_balance"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}
