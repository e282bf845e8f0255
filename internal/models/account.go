package models

import "time"

// AccountTypeInfo is the account-type data denormalized onto each account
// document. The document backend has no joins, so reports and the ledger
// engine read category/normal balance straight off the account. Refreshed
// whenever the account's type changes.
type AccountTypeInfo struct {
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Category      AccountCategory `json:"category"`
	NormalBalance Direction       `json:"normal_balance"`
}

// Account is a chart-of-accounts entry, scoped to one business.
// AccountCode is unique per business. ParentAccountID, when set, must
// reference an account of the same business and must not introduce a cycle.
type Account struct {
	ID              string          `json:"id"`
	BusinessID      string          `json:"business_id"`
	AccountCode     string          `json:"account_code"`
	AccountName     string          `json:"account_name"`
	Description     string          `json:"description,omitempty"`
	AccountTypeID   string          `json:"account_type_id"`
	Type            AccountTypeInfo `json:"type"`
	ParentAccountID *string         `json:"parent_account_id,omitempty"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
