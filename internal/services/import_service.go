package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	apperrors "ledgerbook/internal/errors"
	"ledgerbook/internal/models"
	"ledgerbook/internal/statement"
	"ledgerbook/internal/store"
)

// maxCodeAttempts bounds account-code disambiguation during auto-creation.
const maxCodeAttempts = 100

// Placeholder counter-accounts, auto-created once per business.
const (
	uncategorizedExpenseName = "Uncategorized Expense"
	uncategorizedExpenseCode = "9999"
	uncategorizedRevenueName = "Uncategorized Revenue"
	uncategorizedRevenueCode = "4999"
)

// defaultBankCode is the base chart code for bank accounts whose subsidiary
// record carries no code of its own.
const defaultBankCode = "1010"

// importService turns parsed statement rows into committed transactions.
type importService struct {
	store        store.Store
	accounts     AccountServicer
	transactions TransactionServicer
}

// NewImportService creates a new ImportServicer.
func NewImportService(s store.Store, accounts AccountServicer, transactions TransactionServicer) ImportServicer {
	return &importService{store: s, accounts: accounts, transactions: transactions}
}

// ImportStatement parses a statement CSV for the given subsidiary bank
// account and posts one balanced two-line transaction per usable row.
// Row-level failures accumulate in the result; a bad row never aborts the
// batch.
func (s *importService) ImportStatement(ctx context.Context, businessID, subsidiaryID string, csv io.Reader, opts ImportOptions) (*ImportResult, error) {
	sub, _, err := getModel[models.SubsidiaryAccount](ctx, s.store, store.CollectionSubsidiaries, businessID, subsidiaryID)
	if err != nil {
		return nil, translateStoreErr(err, apperrors.ErrSubsidiaryNotFound)
	}

	stmt, err := statement.Parse(csv)
	if err != nil {
		if errors.Is(err, statement.ErrUnrecognizedFormat) {
			return nil, apperrors.ErrUnrecognizedFormat
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	bankAccount, err := s.resolveBankAccount(ctx, businessID, sub)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Skipped: stmt.Skipped, Errors: []ImportRowError{}}
	addError := func(line int, msg string) {
		if len(result.Errors) < maxBulkErrors {
			result.Errors = append(result.Errors, ImportRowError{Line: line, Message: msg})
		}
	}
	for _, parseErr := range stmt.Errors {
		addError(parseErr.Line, parseErr.Message)
	}

	// Counter accounts resolve lazily so imports that never need a
	// placeholder do not create one.
	var debitCounter, creditCounter *models.Account
	resolveCounter := func(direction models.Direction) (*models.Account, error) {
		if direction == models.DirectionDebit {
			if debitCounter == nil {
				acct, err := s.counterAccount(ctx, businessID, opts.DebitAccountID,
					uncategorizedExpenseName, uncategorizedExpenseCode, "EXPENSE")
				if err != nil {
					return nil, err
				}
				debitCounter = acct
			}
			return debitCounter, nil
		}
		if creditCounter == nil {
			acct, err := s.counterAccount(ctx, businessID, opts.CreditAccountID,
				uncategorizedRevenueName, uncategorizedRevenueCode, "REVENUE")
			if err != nil {
				return nil, err
			}
			creditCounter = acct
		}
		return creditCounter, nil
	}

	for _, row := range stmt.Rows {
		direction := row.Direction
		internalType := row.InternalType
		if stmt.Format == statement.FormatTyped {
			direction, internalType, err = s.resolveMapping(ctx, row.CSVType)
			if err != nil {
				return nil, err
			}
		}

		counter, err := resolveCounter(direction)
		if err != nil {
			return nil, err
		}
		if counter.ID == bankAccount.ID {
			addError(row.Line, "counter account equals the bank account, row skipped")
			result.Skipped++
			continue
		}

		amount, _ := row.Amount.Float64()
		var lines []LineInput
		if direction == models.DirectionDebit {
			// Money out: debit the expense side, credit the bank.
			lines = []LineInput{
				{AccountID: counter.ID, DebitAmount: amount},
				{AccountID: bankAccount.ID, CreditAmount: amount},
			}
		} else {
			// Money in: debit the bank, credit the revenue side.
			lines = []LineInput{
				{AccountID: bankAccount.ID, DebitAmount: amount},
				{AccountID: counter.ID, CreditAmount: amount},
			}
		}

		_, err = s.transactions.CreateTransaction(ctx, businessID, TransactionInput{
			Date:            row.Date,
			Description:     row.Description,
			ReferenceNumber: row.ReferenceNumber,
			Type:            internalType,
			Lines:           lines,
		})
		if err != nil {
			addError(row.Line, err.Error())
			continue
		}
		result.Imported++
	}
	return result, nil
}

// resolveBankAccount maps the subsidiary account to its chart account,
// creating one under the BANK type if needed. On a code collision with a
// different account, numeric suffixes are tried up to maxCodeAttempts
// before giving up with a capacity error.
func (s *importService) resolveBankAccount(ctx context.Context, businessID string, sub *models.SubsidiaryAccount) (*models.Account, error) {
	baseCode := sub.AccountCode
	if baseCode == "" {
		baseCode = defaultBankCode
	}

	bankType, err := findAccountTypeByCode(ctx, s.store, "BANK")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if bankType == nil {
		return nil, apperrors.WithMessage(apperrors.ErrAccountTypeNotFound, "BANK account type is not seeded")
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := baseCode
		if attempt > 0 {
			code = fmt.Sprintf("%s-%d", baseCode, attempt+1)
		}

		existing, err := findAccountByCode(ctx, s.store, businessID, code)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if existing != nil {
			if existing.AccountName == sub.AccountName {
				return existing, nil
			}
			continue
		}

		account, err := s.accounts.CreateAccount(ctx, businessID, AccountInput{
			AccountCode:   code,
			AccountName:   sub.AccountName,
			AccountTypeID: bankType.ID,
			Description:   "Bank account (auto-created from statement import)",
		})
		if err != nil {
			// Lost a creation race; re-examine this code on the next pass.
			var appErr *apperrors.AppError
			if errors.As(err, &appErr) && appErr.Code == apperrors.ErrDuplicateAccountCode.Code {
				continue
			}
			return nil, err
		}
		return account, nil
	}
	return nil, apperrors.ErrCodeSpaceExhausted
}

// counterAccount returns the explicit override account when given, or the
// business's uncategorized placeholder, creating it on first use. Losing a
// concurrent creation race is tolerated by re-querying the winner.
func (s *importService) counterAccount(ctx context.Context, businessID, overrideID, name, code, typeCode string) (*models.Account, error) {
	if overrideID != "" {
		account, _, err := getModel[models.Account](ctx, s.store, store.CollectionAccounts, businessID, overrideID)
		if err != nil {
			return nil, translateStoreErr(err, apperrors.ErrAccountNotFound)
		}
		return account, nil
	}

	existing, err := findAccountByCode(ctx, s.store, businessID, code)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if existing != nil {
		return existing, nil
	}

	accountType, err := findAccountTypeByCode(ctx, s.store, typeCode)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if accountType == nil {
		return nil, apperrors.WithMessage(apperrors.ErrAccountTypeNotFound, typeCode+" account type is not seeded")
	}

	account, err := s.accounts.CreateAccount(ctx, businessID, AccountInput{
		AccountCode:   code,
		AccountName:   name,
		AccountTypeID: accountType.ID,
		Description:   "Placeholder for uncategorized statement activity",
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == apperrors.ErrDuplicateAccountCode.Code {
			winner, qerr := findAccountByCode(ctx, s.store, businessID, code)
			if qerr != nil {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, qerr)
			}
			if winner != nil {
				return winner, nil
			}
		}
		return nil, err
	}
	return account, nil
}

// resolveMapping translates a raw statement type via stored mappings,
// learning unknown types with the heuristic rule table. The mapping cache
// grows monotonically; duplicates from concurrent learners are harmless
// because lookups take the first match.
func (s *importService) resolveMapping(ctx context.Context, csvType string) (models.Direction, models.TransactionType, error) {
	direction, internalType := statement.InferType(csvType)
	if csvType == "" {
		return direction, internalType, nil
	}

	mapping, err := findMappingByCSVType(ctx, s.store, csvType)
	if err != nil {
		return "", "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if mapping != nil {
		return mapping.Direction, mapping.InternalType, nil
	}

	learned := &models.TransactionTypeMapping{
		ID:           models.NewID(),
		CSVType:      csvType,
		InternalType: internalType,
		Direction:    direction,
		Description:  "Auto-created from statement import",
		CreatedAt:    time.Now().UTC(),
	}
	err = createModel(ctx, s.store, store.CollectionTypeMappings, store.GlobalScope, learned.ID, learned)
	if err != nil && err != store.ErrConflict {
		return "", "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return direction, internalType, nil
}
