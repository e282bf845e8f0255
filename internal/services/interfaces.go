package services

import (
	"context"
	"io"
	"time"

	"ledgerbook/internal/models"
)

// BusinessServicer defines the contract for business administration.
type BusinessServicer interface {
	CreateBusiness(ctx context.Context, name string) (*models.Business, error)
	GetBusiness(ctx context.Context, id string) (*models.Business, error)
	ListBusinesses(ctx context.Context) ([]models.Business, error)
	UpdateBusiness(ctx context.Context, id, name string) (*models.Business, error)

	CreateSubsidiaryAccount(ctx context.Context, businessID string, in SubsidiaryInput) (*models.SubsidiaryAccount, error)
	ListSubsidiaryAccounts(ctx context.Context, businessID string, kind models.SubsidiaryKind) ([]models.SubsidiaryAccount, error)
	GetSubsidiaryAccount(ctx context.Context, businessID, id string) (*models.SubsidiaryAccount, error)

	ListAccountTypes(ctx context.Context) ([]models.AccountType, error)

	ListTypeMappings(ctx context.Context) ([]models.TransactionTypeMapping, error)
	CreateTypeMapping(ctx context.Context, csvType string, internalType models.TransactionType, direction models.Direction, description string) (*models.TransactionTypeMapping, error)
	UpdateTypeMapping(ctx context.Context, id string, internalType models.TransactionType, direction models.Direction, description string) (*models.TransactionTypeMapping, error)
	DeleteTypeMapping(ctx context.Context, id string) error
}

// SubsidiaryInput carries the fields for creating a subsidiary account.
type SubsidiaryInput struct {
	Kind           models.SubsidiaryKind
	AccountName    string
	AccountCode    string
	AccountNumber  string
	BankName       string
	RoutingNumber  string
	CardLast4      string
	Issuer         string
	CreditLimit    float64
	LenderName     string
	LoanNumber     string
	Principal      float64
	InterestRate   float64
	OpeningBalance float64
}

// AccountInput carries the fields for creating a chart account.
type AccountInput struct {
	AccountCode     string
	AccountName     string
	AccountTypeID   string
	Description     string
	ParentAccountID *string
}

// AccountPatch carries optional updates for a chart account. Nil fields are
// left unchanged. ClearParent removes the parent link.
type AccountPatch struct {
	AccountCode     *string
	AccountName     *string
	AccountTypeID   *string
	Description     *string
	ParentAccountID *string
	ClearParent     bool
	IsActive        *bool
}

// AccountServicer defines the contract for the chart of accounts.
type AccountServicer interface {
	CreateAccount(ctx context.Context, businessID string, in AccountInput) (*models.Account, error)
	GetAccount(ctx context.Context, businessID, id string) (*models.Account, error)
	ListAccounts(ctx context.Context, businessID string) ([]models.Account, error)
	UpdateAccount(ctx context.Context, businessID, id string, patch AccountPatch) (*models.Account, error)
	DeleteAccount(ctx context.Context, businessID, id string) error
}

// LineInput is one side of a double entry as submitted by a caller.
type LineInput struct {
	AccountID    string
	DebitAmount  float64
	CreditAmount float64
}

// TransactionInput carries the fields for creating or replacing a
// transaction. Updates replace the full line set; there is no line-level
// patching.
type TransactionInput struct {
	Date            time.Time
	Description     string
	ReferenceNumber string
	Type            models.TransactionType
	Lines           []LineInput
}

// TransactionFilter holds optional filter parameters for listing
// transactions. The account filter matches any embedded line.
type TransactionFilter struct {
	FromDate  *time.Time
	ToDate    *time.Time
	AccountID *string
}

// LineFilter selects which lines of a transaction a bulk reassignment
// applies to.
type LineFilter string

const (
	// LineFilterAll matches lines whose side agrees with the target
	// account's normal balance.
	LineFilterAll        LineFilter = "ALL"
	LineFilterDebitOnly  LineFilter = "DEBIT_ONLY"
	LineFilterCreditOnly LineFilter = "CREDIT_ONLY"
	LineFilterFirstLine  LineFilter = "FIRST_LINE"
)

// BulkReassignResult reports the outcome of a bulk account reassignment.
// Errors is capped at the first ten.
type BulkReassignResult struct {
	UpdatedCount int               `json:"updated_count"`
	LinesUpdated int               `json:"lines_updated"`
	Errors       []BulkErrorDetail `json:"errors"`
}

// BulkErrorDetail describes one transaction skipped during a bulk
// reassignment.
type BulkErrorDetail struct {
	TransactionID string `json:"transaction_id"`
	Message       string `json:"message"`
}

// TransactionServicer defines the contract for the ledger engine.
type TransactionServicer interface {
	CreateTransaction(ctx context.Context, businessID string, in TransactionInput) (*models.Transaction, error)
	GetTransaction(ctx context.Context, businessID, id string) (*models.Transaction, error)
	ListTransactions(ctx context.Context, businessID string, filter TransactionFilter) ([]models.Transaction, error)
	UpdateTransaction(ctx context.Context, businessID, id string, in TransactionInput) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, businessID, id string) error
	BulkReassignAccount(ctx context.Context, businessID string, transactionIDs []string, targetAccountID string, filter LineFilter) (*BulkReassignResult, error)
}

// ImportOptions carries optional overrides for statement import. When the
// counter-account ids are empty, business-scoped uncategorized placeholders
// are used.
type ImportOptions struct {
	DebitAccountID  string
	CreditAccountID string
}

// ImportResult reports the outcome of one statement import. Errors is
// capped at the first ten; a bad row never aborts the batch.
type ImportResult struct {
	Imported int              `json:"imported"`
	Skipped  int              `json:"skipped"`
	Errors   []ImportRowError `json:"errors"`
}

// ImportRowError describes one rejected statement row.
type ImportRowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// ImportServicer defines the contract for bank-statement ingestion.
type ImportServicer interface {
	ImportStatement(ctx context.Context, businessID, subsidiaryID string, csv io.Reader, opts ImportOptions) (*ImportResult, error)
}

// ReportServicer defines the contract for derived financial reports.
type ReportServicer interface {
	ProfitLoss(ctx context.Context, businessID string, startDate, endDate time.Time) (*ProfitLossReport, error)
	BalanceSheet(ctx context.Context, businessID string, asOfDate time.Time) (*BalanceSheetReport, error)
	CombinedProfitLoss(ctx context.Context, businessIDs []string, startDate, endDate time.Time) (*CombinedProfitLossReport, error)
}
