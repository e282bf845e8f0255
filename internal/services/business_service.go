package services

import (
	"context"
	"sort"
	"strings"
	"time"

	apperrors "ledgerbook/internal/errors"
	"ledgerbook/internal/models"
	"ledgerbook/internal/store"
)

// businessService manages businesses, subsidiary accounts, and the global
// reference collections.
type businessService struct {
	store store.Store
}

// NewBusinessService creates a new BusinessServicer.
func NewBusinessService(s store.Store) BusinessServicer {
	return &businessService{store: s}
}

// CreateBusiness creates a new business tenant.
func (s *businessService) CreateBusiness(ctx context.Context, name string) (*models.Business, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "business name is required")
	}

	now := time.Now().UTC()
	business := &models.Business{
		ID:        models.NewID(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := createModel(ctx, s.store, store.CollectionBusinesses, store.GlobalScope, business.ID, business)
	if err != nil {
		return nil, translateStoreErr(err, apperrors.ErrBusinessNotFound)
	}
	return business, nil
}

// GetBusiness retrieves a business by id.
func (s *businessService) GetBusiness(ctx context.Context, id string) (*models.Business, error) {
	business, _, err := getModel[models.Business](ctx, s.store, store.CollectionBusinesses, store.GlobalScope, id)
	if err != nil {
		return nil, translateStoreErr(err, apperrors.ErrBusinessNotFound)
	}
	return business, nil
}

// ListBusinesses returns all businesses ordered by name.
func (s *businessService) ListBusinesses(ctx context.Context) ([]models.Business, error) {
	businesses, err := listModels[models.Business](ctx, s.store, store.CollectionBusinesses, store.GlobalScope)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	sort.Slice(businesses, func(i, j int) bool { return businesses[i].Name < businesses[j].Name })
	return businesses, nil
}

// UpdateBusiness renames a business.
func (s *businessService) UpdateBusiness(ctx context.Context, id, name string) (*models.Business, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "business name is required")
	}

	business, version, err := getModel[models.Business](ctx, s.store, store.CollectionBusinesses, store.GlobalScope, id)
	if err != nil {
		return nil, translateStoreErr(err, apperrors.ErrBusinessNotFound)
	}

	business.Name = name
	business.UpdatedAt = time.Now().UTC()
	err = updateModel(ctx, s.store, store.CollectionBusinesses, store.GlobalScope, id, version, business)
	if err != nil {
		return nil, translateStoreErr(err, apperrors.ErrBusinessNotFound)
	}
	return business, nil
}

// CreateSubsidiaryAccount registers a bank, credit-card, or loan account.
// The corresponding chart account is not created here; it appears lazily on
// first statement import.
func (s *businessService) CreateSubsidiaryAccount(ctx context.Context, businessID string, in SubsidiaryInput) (*models.SubsidiaryAccount, error) {
	if strings.TrimSpace(in.AccountName) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}
	switch in.Kind {
	case models.SubsidiaryBank, models.SubsidiaryCreditCard, models.SubsidiaryLoan:
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown subsidiary kind")
	}

	sub := &models.SubsidiaryAccount{
		ID:              models.NewID(),
		BusinessID:      businessID,
		Kind:            in.Kind,
		AccountName:     in.AccountName,
		AccountCode:     in.AccountCode,
		AccountNumber:   in.AccountNumber,
		BankName:        in.BankName,
		RoutingNumber:   in.RoutingNumber,
		CardLast4:       in.CardLast4,
		Issuer:          in.Issuer,
		CreditLimit:     in.CreditLimit,
		LenderName:      in.LenderName,
		LoanNumber:      in.LoanNumber,
		PrincipalAmount: in.Principal,
		InterestRate:    in.InterestRate,
		OpeningBalance:  in.OpeningBalance,
		CurrentBalance:  in.OpeningBalance,
		IsActive:        true,
		CreatedAt:       time.Now().UTC(),
	}
	err := createModel(ctx, s.store, store.CollectionSubsidiaries, businessID, sub.ID, sub)
	if err != nil {
		return nil, translateStoreErr(err, apperrors.ErrSubsidiaryNotFound)
	}
	return sub, nil
}

// ListSubsidiaryAccounts returns a business's subsidiary accounts,
// optionally filtered by kind, ordered by name.
func (s *businessService) ListSubsidiaryAccounts(ctx context.Context, businessID string, kind models.SubsidiaryKind) ([]models.SubsidiaryAccount, error) {
	all, err := listModels[models.SubsidiaryAccount](ctx, s.store, store.CollectionSubsidiaries, businessID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	subs := make([]models.SubsidiaryAccount, 0, len(all))
	for _, sub := range all {
		if kind != "" && sub.Kind != kind {
			continue
		}
		subs = append(subs, sub)
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].AccountName < subs[j].AccountName })
	return subs, nil
}

// GetSubsidiaryAccount retrieves one subsidiary account.
func (s *businessService) GetSubsidiaryAccount(ctx context.Context, businessID, id string) (*models.SubsidiaryAccount, error) {
	sub, _, err := getModel[models.SubsidiaryAccount](ctx, s.store, store.CollectionSubsidiaries, businessID, id)
	if err != nil {
		return nil, translateStoreErr(err, apperrors.ErrSubsidiaryNotFound)
	}
	return sub, nil
}

// ListAccountTypes returns the global account-type taxonomy ordered by code.
func (s *businessService) ListAccountTypes(ctx context.Context) ([]models.AccountType, error) {
	types, err := listModels[models.AccountType](ctx, s.store, store.CollectionAccountTypes, store.GlobalScope)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	sort.Slice(types, func(i, j int) bool { return types[i].Code < types[j].Code })
	return types, nil
}

// ListTypeMappings returns all transaction type mappings ordered by CSV type.
func (s *businessService) ListTypeMappings(ctx context.Context) ([]models.TransactionTypeMapping, error) {
	mappings, err := listModels[models.TransactionTypeMapping](ctx, s.store, store.CollectionTypeMappings, store.GlobalScope)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	sort.Slice(mappings, func(i, j int) bool { return mappings[i].CSVType < mappings[j].CSVType })
	return mappings, nil
}

// CreateTypeMapping adds a manual override mapping for a CSV type string.
func (s *businessService) CreateTypeMapping(ctx context.Context, csvType string, internalType models.TransactionType, direction models.Direction, description string) (*models.TransactionTypeMapping, error) {
	csvType = strings.ToUpper(strings.TrimSpace(csvType))
	if csvType == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "csv type is required")
	}

	existing, err := findMappingByCSVType(ctx, s.store, csvType)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if existing != nil {
		return nil, apperrors.ErrDuplicateMapping
	}

	mapping := &models.TransactionTypeMapping{
		ID:           models.NewID(),
		CSVType:      csvType,
		InternalType: internalType,
		Direction:    direction,
		Description:  description,
		CreatedAt:    time.Now().UTC(),
	}
	err = createModel(ctx, s.store, store.CollectionTypeMappings, store.GlobalScope, mapping.ID, mapping)
	if err != nil {
		return nil, translateStoreErr(err, apperrors.ErrMappingNotFound)
	}
	return mapping, nil
}

// UpdateTypeMapping changes the direction/type of an existing mapping.
func (s *businessService) UpdateTypeMapping(ctx context.Context, id string, internalType models.TransactionType, direction models.Direction, description string) (*models.TransactionTypeMapping, error) {
	mapping, version, err := getModel[models.TransactionTypeMapping](ctx, s.store, store.CollectionTypeMappings, store.GlobalScope, id)
	if err != nil {
		return nil, translateStoreErr(err, apperrors.ErrMappingNotFound)
	}

	mapping.InternalType = internalType
	mapping.Direction = direction
	mapping.Description = description
	err = updateModel(ctx, s.store, store.CollectionTypeMappings, store.GlobalScope, id, version, mapping)
	if err != nil {
		return nil, translateStoreErr(err, apperrors.ErrMappingNotFound)
	}
	return mapping, nil
}

// DeleteTypeMapping removes a mapping; imports will re-learn the CSV type
// with the heuristic guess if it appears again.
func (s *businessService) DeleteTypeMapping(ctx context.Context, id string) error {
	err := s.store.Delete(ctx, store.CollectionTypeMappings, store.GlobalScope, id)
	return translateStoreErr(err, apperrors.ErrMappingNotFound)
}
