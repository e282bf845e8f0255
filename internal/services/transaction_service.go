package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	apperrors "ledgerbook/internal/errors"
	"ledgerbook/internal/models"
	"ledgerbook/internal/store"
)

// maxBulkErrors caps the error detail list returned by batch operations.
const maxBulkErrors = 10

// transactionService is the ledger engine: it validates double entries and
// commits them as single documents.
type transactionService struct {
	store store.Store
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(s store.Store) TransactionServicer {
	return &transactionService{store: s}
}

// CreateTransaction validates and commits a balanced transaction. The
// cached amount is the sum of debits. Everything persists as one document
// so partial line application is never observable.
func (s *transactionService) CreateTransaction(ctx context.Context, businessID string, in TransactionInput) (*models.Transaction, error) {
	lines, err := s.validateLines(ctx, businessID, in.Lines)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	tx := &models.Transaction{
		ID:              models.NewID(),
		BusinessID:      businessID,
		Date:            in.Date,
		Description:     in.Description,
		ReferenceNumber: in.ReferenceNumber,
		Type:            in.Type,
		Lines:           lines,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	tx.Amount = tx.TotalDebits()

	err = createModel(ctx, s.store, store.CollectionTransactions, businessID, tx.ID, tx)
	if err != nil {
		return nil, translateStoreErr(err, apperrors.ErrTransactionNotFound)
	}
	return tx, nil
}

// GetTransaction retrieves a transaction with its embedded lines in one
// fetch. A business mismatch surfaces as not found.
func (s *transactionService) GetTransaction(ctx context.Context, businessID, id string) (*models.Transaction, error) {
	tx, _, err := getModel[models.Transaction](ctx, s.store, store.CollectionTransactions, businessID, id)
	if err != nil {
		return nil, translateStoreErr(err, apperrors.ErrTransactionNotFound)
	}
	return tx, nil
}

// ListTransactions returns a business's transactions, newest first,
// optionally filtered by date range and by a referenced account.
func (s *transactionService) ListTransactions(ctx context.Context, businessID string, filter TransactionFilter) ([]models.Transaction, error) {
	all, err := listModels[models.Transaction](ctx, s.store, store.CollectionTransactions, businessID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	txs := make([]models.Transaction, 0, len(all))
	for _, tx := range all {
		if filter.FromDate != nil && tx.Date.Before(*filter.FromDate) {
			continue
		}
		if filter.ToDate != nil && tx.Date.After(*filter.ToDate) {
			continue
		}
		if filter.AccountID != nil {
			found := false
			for _, line := range tx.Lines {
				if line.AccountID == *filter.AccountID {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		txs = append(txs, tx)
	}

	sort.Slice(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date) {
			return txs[i].Date.After(txs[j].Date)
		}
		return txs[i].ID > txs[j].ID
	})
	return txs, nil
}

// UpdateTransaction re-validates exactly as creation, then replaces the
// full line set. This is a whole-document replace, never a diff.
func (s *transactionService) UpdateTransaction(ctx context.Context, businessID, id string, in TransactionInput) (*models.Transaction, error) {
	tx, version, err := getModel[models.Transaction](ctx, s.store, store.CollectionTransactions, businessID, id)
	if err != nil {
		return nil, translateStoreErr(err, apperrors.ErrTransactionNotFound)
	}

	lines, err := s.validateLines(ctx, businessID, in.Lines)
	if err != nil {
		return nil, err
	}

	tx.Date = in.Date
	tx.Description = in.Description
	tx.ReferenceNumber = in.ReferenceNumber
	tx.Type = in.Type
	tx.Lines = lines
	tx.Amount = tx.TotalDebits()
	tx.UpdatedAt = time.Now().UTC()

	err = updateModel(ctx, s.store, store.CollectionTransactions, businessID, id, version, tx)
	if err != nil {
		return nil, translateStoreErr(err, apperrors.ErrTransactionNotFound)
	}
	return tx, nil
}

// DeleteTransaction removes a transaction and its embedded lines as one
// unit. Absent ids and business mismatches fail with not found, never
// silently succeed.
func (s *transactionService) DeleteTransaction(ctx context.Context, businessID, id string) error {
	err := s.store.Delete(ctx, store.CollectionTransactions, businessID, id)
	return translateStoreErr(err, apperrors.ErrTransactionNotFound)
}

// BulkReassignAccount moves matching lines of the given transactions onto
// the target account. Transactions where the reassignment would produce two
// lines on the same account are skipped and reported, never partially
// mutated.
func (s *transactionService) BulkReassignAccount(ctx context.Context, businessID string, transactionIDs []string, targetAccountID string, filter LineFilter) (*BulkReassignResult, error) {
	target, _, err := getModel[models.Account](ctx, s.store, store.CollectionAccounts, businessID, targetAccountID)
	if err != nil {
		return nil, translateStoreErr(err, apperrors.ErrAccountNotFound)
	}

	result := &BulkReassignResult{Errors: []BulkErrorDetail{}}
	addError := func(id, msg string) {
		if len(result.Errors) < maxBulkErrors {
			result.Errors = append(result.Errors, BulkErrorDetail{TransactionID: id, Message: msg})
		}
	}

	for _, txID := range transactionIDs {
		tx, version, err := getModel[models.Transaction](ctx, s.store, store.CollectionTransactions, businessID, txID)
		if err != nil {
			if err == store.ErrNotFound {
				addError(txID, "transaction not found")
				continue
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		changed := s.reassignLines(tx, target, filter)
		if changed == 0 {
			continue
		}

		if hasDuplicateAccounts(tx.Lines) {
			addError(txID, "reassignment would put two lines on the same account")
			continue
		}

		tx.UpdatedAt = time.Now().UTC()
		err = updateModel(ctx, s.store, store.CollectionTransactions, businessID, txID, version, tx)
		if err != nil {
			if err == store.ErrVersionConflict {
				addError(txID, "concurrent modification, skipped")
				continue
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		result.UpdatedCount++
		result.LinesUpdated += changed
	}
	return result, nil
}

// reassignLines mutates tx's lines in place per the filter and returns the
// number of lines changed. Note: the caller re-checks the duplicate-account
// invariant before persisting; on violation the in-memory copy is simply
// discarded.
func (s *transactionService) reassignLines(tx *models.Transaction, target *models.Account, filter LineFilter) int {
	match := func(i int, line models.TransactionLine) bool {
		switch filter {
		case LineFilterDebitOnly:
			return line.DebitAmount > 0
		case LineFilterCreditOnly:
			return line.CreditAmount > 0
		case LineFilterFirstLine:
			return i == 0
		default:
			// ALL: only lines whose side agrees with the target's normal
			// balance. Revenue accounts take credit lines, expense accounts
			// take debit lines; other categories follow normal_balance.
			switch target.Type.Category {
			case models.CategoryRevenue:
				return line.CreditAmount > 0
			case models.CategoryExpense:
				return line.DebitAmount > 0
			default:
				if target.Type.NormalBalance == models.DirectionDebit {
					return line.DebitAmount > 0
				}
				return line.CreditAmount > 0
			}
		}
	}

	changed := 0
	for i := range tx.Lines {
		if tx.Lines[i].AccountID == target.ID {
			continue
		}
		if match(i, tx.Lines[i]) {
			tx.Lines[i].AccountID = target.ID
			changed++
		}
	}
	return changed
}

// validateLines enforces the ledger invariants: at least two lines,
// non-negative amounts, known same-business accounts, no duplicate account
// across lines, and balanced totals within tolerance.
func (s *transactionService) validateLines(ctx context.Context, businessID string, inputs []LineInput) ([]models.TransactionLine, error) {
	if len(inputs) < 2 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "a transaction requires at least two lines")
	}

	lines := make([]models.TransactionLine, 0, len(inputs))
	seen := make(map[string]bool, len(inputs))
	var totalDebits, totalCredits float64

	for _, in := range inputs {
		if in.DebitAmount < 0 || in.CreditAmount < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "line amounts must not be negative")
		}
		if seen[in.AccountID] {
			return nil, apperrors.WithMessage(apperrors.ErrDuplicateLineAccount,
				"account "+in.AccountID+" appears on more than one line")
		}
		seen[in.AccountID] = true

		_, _, err := getModel[models.Account](ctx, s.store, store.CollectionAccounts, businessID, in.AccountID)
		if err != nil {
			if err == store.ErrNotFound {
				return nil, apperrors.WithMessage(apperrors.ErrInvalidLineAccount,
					"account "+in.AccountID+" does not exist in this business")
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		totalDebits += in.DebitAmount
		totalCredits += in.CreditAmount
		lines = append(lines, models.TransactionLine{
			AccountID:    in.AccountID,
			DebitAmount:  in.DebitAmount,
			CreditAmount: in.CreditAmount,
		})
	}

	if math.Abs(totalDebits-totalCredits) > models.BalanceTolerance {
		return nil, apperrors.WithMessage(apperrors.ErrUnbalancedEntry,
			fmt.Sprintf("debits %.2f do not equal credits %.2f", totalDebits, totalCredits))
	}
	return lines, nil
}

func hasDuplicateAccounts(lines []models.TransactionLine) bool {
	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		if seen[line.AccountID] {
			return true
		}
		seen[line.AccountID] = true
	}
	return false
}
