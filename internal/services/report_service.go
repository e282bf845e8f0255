package services

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	apperrors "ledgerbook/internal/errors"
	"ledgerbook/internal/models"
	"ledgerbook/internal/store"
)

// reportEpsilon is the threshold below which an account balance is omitted
// from report listings.
const reportEpsilon = 0.01

// ReportAccount is one account row in a report.
type ReportAccount struct {
	AccountID   string  `json:"account_id"`
	AccountCode string  `json:"account_code"`
	AccountName string  `json:"account_name"`
	Balance     float64 `json:"balance"`
}

// ProfitLossSection groups P&L accounts of one account type.
type ProfitLossSection struct {
	TypeName string                 `json:"type_name"`
	Category models.AccountCategory `json:"category"`
	Accounts []ReportAccount        `json:"accounts"`
	Subtotal float64                `json:"subtotal"`
}

// ProfitLossReport is the P&L for one business over a date range.
type ProfitLossReport struct {
	BusinessID    string              `json:"business_id"`
	StartDate     time.Time           `json:"start_date"`
	EndDate       time.Time           `json:"end_date"`
	Sections      []ProfitLossSection `json:"sections"`
	TotalRevenue  float64             `json:"total_revenue"`
	TotalExpenses float64             `json:"total_expenses"`
	NetIncome     float64             `json:"net_income"`
}

// BalanceSheetSection is one side grouping of the balance sheet.
type BalanceSheetSection struct {
	Accounts []ReportAccount `json:"accounts"`
	Total    float64         `json:"total"`
}

// RetainedEarnings is the equity rollup of accumulated net income.
// PriorYearsNetIncome covers every year strictly before the as-of year;
// Total = OpeningBalance + PriorYearsNetIncome + CurrentYearNetIncome.
type RetainedEarnings struct {
	OpeningBalance       float64 `json:"opening_balance"`
	PriorYearsNetIncome  float64 `json:"prior_years_net_income"`
	CurrentYearNetIncome float64 `json:"current_year_net_income"`
	Total                float64 `json:"total"`
}

// BalanceSheetReport is the balance sheet of one business as of a date.
// Imbalance (assets − liabilities − equity) is a diagnostic: the two sides
// are computed independently and never forced to agree.
type BalanceSheetReport struct {
	BusinessID       string              `json:"business_id"`
	AsOfDate         time.Time           `json:"as_of_date"`
	Assets           BalanceSheetSection `json:"assets"`
	Liabilities      BalanceSheetSection `json:"liabilities"`
	Equity           BalanceSheetSection `json:"equity"`
	RetainedEarnings RetainedEarnings    `json:"retained_earnings"`
	TotalAssets      float64             `json:"total_assets"`
	TotalLiabilities float64             `json:"total_liabilities"`
	TotalEquity      float64             `json:"total_equity"`
	Imbalance        float64             `json:"imbalance"`
}

// CombinedBusinessNode groups one business's leaf accounts under a path.
type CombinedBusinessNode struct {
	BusinessID   string          `json:"business_id"`
	BusinessName string          `json:"business_name"`
	Accounts     []ReportAccount `json:"accounts"`
	Subtotal     float64         `json:"subtotal"`
}

// CombinedPathNode groups businesses under one parent-chain path.
type CombinedPathNode struct {
	Path       string                 `json:"path"`
	Businesses []CombinedBusinessNode `json:"businesses"`
	Subtotal   float64                `json:"subtotal"`
}

// CombinedTypeNode groups paths under one account type.
type CombinedTypeNode struct {
	TypeName string                 `json:"type_name"`
	Category models.AccountCategory `json:"category"`
	Paths    []CombinedPathNode     `json:"paths"`
	Subtotal float64                `json:"subtotal"`
}

// CombinedProfitLossReport is the cross-business P&L hierarchy:
// AccountType → parent-chain path → Business → leaf accounts, with
// subtotals computed bottom-up at every level.
type CombinedProfitLossReport struct {
	StartDate     time.Time          `json:"start_date"`
	EndDate       time.Time          `json:"end_date"`
	Types         []CombinedTypeNode `json:"types"`
	TotalRevenue  float64            `json:"total_revenue"`
	TotalExpenses float64            `json:"total_expenses"`
	NetIncome     float64            `json:"net_income"`
}

// reportService aggregates committed transactions into reports. All
// aggregation happens in application code over store reads, so both
// backends produce identical reports.
type reportService struct {
	store store.Store
}

// NewReportService creates a new ReportServicer.
func NewReportService(s store.Store) ReportServicer {
	return &reportService{store: s}
}

// movement accumulates the debit/credit activity of one account.
type movement struct {
	debits  float64
	credits float64
}

// movements sums line activity per account over transactions whose date
// passes keep. Lines referencing deleted accounts still accumulate; report
// builders simply never render them.
func (s *reportService) movements(ctx context.Context, businessID string, keep func(time.Time) bool) (map[string]*movement, error) {
	txs, err := listModels[models.Transaction](ctx, s.store, store.CollectionTransactions, businessID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	moves := make(map[string]*movement)
	for _, tx := range txs {
		if !keep(tx.Date) {
			continue
		}
		for _, line := range tx.Lines {
			mv, ok := moves[line.AccountID]
			if !ok {
				mv = &movement{}
				moves[line.AccountID] = mv
			}
			mv.debits += line.DebitAmount
			mv.credits += line.CreditAmount
		}
	}
	return moves, nil
}

// plBalance computes the P&L balance of an account from its movement:
// credits − debits for revenue, debits − credits for expenses.
func plBalance(account *models.Account, moves map[string]*movement) float64 {
	mv, ok := moves[account.ID]
	if !ok {
		return 0
	}
	if account.Type.Category == models.CategoryRevenue {
		return mv.credits - mv.debits
	}
	return mv.debits - mv.credits
}

// netIncome computes total revenue minus total expenses over the movement set.
func netIncome(accounts []models.Account, moves map[string]*movement) float64 {
	var revenue, expenses float64
	for i := range accounts {
		switch accounts[i].Type.Category {
		case models.CategoryRevenue:
			revenue += plBalance(&accounts[i], moves)
		case models.CategoryExpense:
			expenses += plBalance(&accounts[i], moves)
		}
	}
	return revenue - expenses
}

// ProfitLoss builds the P&L for one business over [startDate, endDate].
// Accounts with a near-zero balance are omitted; sections are grouped by
// account type and sorted by type name.
func (s *reportService) ProfitLoss(ctx context.Context, businessID string, startDate, endDate time.Time) (*ProfitLossReport, error) {
	accounts, err := listModels[models.Account](ctx, s.store, store.CollectionAccounts, businessID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	moves, err := s.movements(ctx, businessID, func(d time.Time) bool {
		return !d.Before(startDate) && !d.After(endDate)
	})
	if err != nil {
		return nil, err
	}

	sections := make(map[string]*ProfitLossSection)
	report := &ProfitLossReport{BusinessID: businessID, StartDate: startDate, EndDate: endDate}

	for i := range accounts {
		account := &accounts[i]
		if account.Type.Category != models.CategoryRevenue && account.Type.Category != models.CategoryExpense {
			continue
		}
		balance := plBalance(account, moves)
		if math.Abs(balance) < reportEpsilon {
			continue
		}

		section, ok := sections[account.Type.Name]
		if !ok {
			section = &ProfitLossSection{TypeName: account.Type.Name, Category: account.Type.Category}
			sections[account.Type.Name] = section
		}
		section.Accounts = append(section.Accounts, ReportAccount{
			AccountID:   account.ID,
			AccountCode: account.AccountCode,
			AccountName: account.AccountName,
			Balance:     balance,
		})
		section.Subtotal += balance

		if account.Type.Category == models.CategoryRevenue {
			report.TotalRevenue += balance
		} else {
			report.TotalExpenses += balance
		}
	}

	for _, section := range sections {
		sort.Slice(section.Accounts, func(i, j int) bool {
			return section.Accounts[i].AccountCode < section.Accounts[j].AccountCode
		})
		report.Sections = append(report.Sections, *section)
	}
	sort.Slice(report.Sections, func(i, j int) bool {
		return report.Sections[i].TypeName < report.Sections[j].TypeName
	})

	report.NetIncome = report.TotalRevenue - report.TotalExpenses
	return report, nil
}

// isOpeningBalanceAccount reports whether an equity account is the opening
// balance carrier. Matched by name or by the conventional codes.
func isOpeningBalanceAccount(account *models.Account) bool {
	if strings.Contains(strings.ToUpper(account.AccountName), "OPENING BALANCE") {
		return true
	}
	switch strings.ToUpper(account.AccountCode) {
	case "3030", "OB", "OPENING":
		return true
	}
	return false
}

// BalanceSheet builds the balance sheet of one business as of a date.
// Asset/liability/equity balances are cumulative over all transactions up
// to asOfDate. The opening-balance equity account is excluded from the
// equity listing and feeds retained earnings instead; subsidiary accounts
// are merged in with de-duplication against chart entries.
func (s *reportService) BalanceSheet(ctx context.Context, businessID string, asOfDate time.Time) (*BalanceSheetReport, error) {
	accounts, err := listModels[models.Account](ctx, s.store, store.CollectionAccounts, businessID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	cumulative, err := s.movements(ctx, businessID, func(d time.Time) bool { return !d.After(asOfDate) })
	if err != nil {
		return nil, err
	}

	janFirst := time.Date(asOfDate.Year(), 1, 1, 0, 0, 0, 0, asOfDate.Location())
	prior, err := s.movements(ctx, businessID, func(d time.Time) bool { return d.Before(janFirst) })
	if err != nil {
		return nil, err
	}
	current, err := s.movements(ctx, businessID, func(d time.Time) bool {
		return !d.Before(janFirst) && !d.After(asOfDate)
	})
	if err != nil {
		return nil, err
	}

	report := &BalanceSheetReport{BusinessID: businessID, AsOfDate: asOfDate}
	var openingBalance float64

	for i := range accounts {
		account := &accounts[i]
		mv, ok := cumulative[account.ID]
		if !ok {
			mv = &movement{}
		}

		switch account.Type.Category {
		case models.CategoryAsset:
			balance := mv.debits - mv.credits
			if math.Abs(balance) < reportEpsilon {
				continue
			}
			report.Assets.Accounts = append(report.Assets.Accounts, reportRow(account, balance))
			report.Assets.Total += balance

		case models.CategoryLiability:
			balance := mv.credits - mv.debits
			if math.Abs(balance) < reportEpsilon {
				continue
			}
			report.Liabilities.Accounts = append(report.Liabilities.Accounts, reportRow(account, balance))
			report.Liabilities.Total += balance

		case models.CategoryEquity:
			balance := mv.credits - mv.debits
			if isOpeningBalanceAccount(account) {
				openingBalance += balance
				continue
			}
			if math.Abs(balance) < reportEpsilon {
				continue
			}
			report.Equity.Accounts = append(report.Equity.Accounts, reportRow(account, balance))
			report.Equity.Total += balance
		}
	}

	subs, err := listModels[models.SubsidiaryAccount](ctx, s.store, store.CollectionSubsidiaries, businessID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for i := range subs {
		s.mergeSubsidiary(report, &subs[i], accounts, cumulative)
	}

	report.RetainedEarnings = RetainedEarnings{
		OpeningBalance:       openingBalance,
		PriorYearsNetIncome:  netIncome(accounts, prior),
		CurrentYearNetIncome: netIncome(accounts, current),
	}
	report.RetainedEarnings.Total = report.RetainedEarnings.OpeningBalance +
		report.RetainedEarnings.PriorYearsNetIncome +
		report.RetainedEarnings.CurrentYearNetIncome

	sortSection(&report.Assets)
	sortSection(&report.Liabilities)
	sortSection(&report.Equity)

	report.TotalAssets = report.Assets.Total
	report.TotalLiabilities = report.Liabilities.Total
	report.TotalEquity = report.Equity.Total + report.RetainedEarnings.Total
	report.Imbalance = report.TotalAssets - report.TotalLiabilities - report.TotalEquity
	return report, nil
}

// mergeSubsidiary folds one subsidiary instrument into the balance sheet.
// If a chart account already represents the instrument (matched by code or
// name), its row is replaced so the instrument is not double counted; the
// replacement balance combines the subsidiary's opening balance with the
// ledger movement. Unmatched instruments fall back to their own balance
// fields.
func (s *reportService) mergeSubsidiary(report *BalanceSheetReport, sub *models.SubsidiaryAccount, accounts []models.Account, moves map[string]*movement) {
	var chart *models.Account
	for i := range accounts {
		if sub.AccountCode != "" && strings.EqualFold(accounts[i].AccountCode, sub.AccountCode) {
			chart = &accounts[i]
			break
		}
		if strings.EqualFold(accounts[i].AccountName, sub.AccountName) {
			chart = &accounts[i]
			break
		}
	}

	row := ReportAccount{
		AccountID:   sub.ID,
		AccountCode: sub.AccountCode,
		AccountName: sub.AccountName,
	}

	if sub.Kind == models.SubsidiaryBank {
		row.Balance = sub.OpeningBalance
		if chart != nil {
			if mv, ok := moves[chart.ID]; ok {
				row.Balance += mv.debits - mv.credits
			}
			removeRow(&report.Assets, chart, sub.AccountName)
		}
		report.Assets.Accounts = append(report.Assets.Accounts, row)
		report.Assets.Total += row.Balance
		return
	}

	// Credit cards and loans sit on the liability side.
	if chart != nil {
		row.Balance = sub.OpeningBalance
		if mv, ok := moves[chart.ID]; ok {
			row.Balance += mv.credits - mv.debits
		}
		removeRow(&report.Liabilities, chart, sub.AccountName)
	} else {
		row.Balance = sub.CurrentBalance
	}
	report.Liabilities.Accounts = append(report.Liabilities.Accounts, row)
	report.Liabilities.Total += row.Balance
}

// removeRow drops any section row matching the chart account (by id or
// code) or the subsidiary name, adjusting the section total.
func removeRow(section *BalanceSheetSection, chart *models.Account, name string) {
	kept := section.Accounts[:0]
	for _, row := range section.Accounts {
		match := row.AccountID == chart.ID ||
			(row.AccountCode != "" && strings.EqualFold(row.AccountCode, chart.AccountCode)) ||
			strings.EqualFold(row.AccountName, name)
		if match {
			section.Total -= row.Balance
			continue
		}
		kept = append(kept, row)
	}
	section.Accounts = kept
}

func reportRow(account *models.Account, balance float64) ReportAccount {
	return ReportAccount{
		AccountID:   account.ID,
		AccountCode: account.AccountCode,
		AccountName: account.AccountName,
		Balance:     balance,
	}
}

func sortSection(section *BalanceSheetSection) {
	sort.Slice(section.Accounts, func(i, j int) bool {
		return section.Accounts[i].AccountCode < section.Accounts[j].AccountCode
	})
}

// CombinedProfitLoss builds one P&L hierarchy across several businesses:
// account type → parent-chain path → business → leaf accounts. Accounts
// with the same parent path line up across businesses.
func (s *reportService) CombinedProfitLoss(ctx context.Context, businessIDs []string, startDate, endDate time.Time) (*CombinedProfitLossReport, error) {
	report := &CombinedProfitLossReport{StartDate: startDate, EndDate: endDate}
	types := make(map[string]*CombinedTypeNode)

	for _, businessID := range businessIDs {
		business, _, err := getModel[models.Business](ctx, s.store, store.CollectionBusinesses, store.GlobalScope, businessID)
		if err != nil {
			return nil, translateStoreErr(err, apperrors.ErrBusinessNotFound)
		}

		accounts, err := listModels[models.Account](ctx, s.store, store.CollectionAccounts, businessID)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		byID := make(map[string]*models.Account, len(accounts))
		for i := range accounts {
			byID[accounts[i].ID] = &accounts[i]
		}

		moves, err := s.movements(ctx, businessID, func(d time.Time) bool {
			return !d.Before(startDate) && !d.After(endDate)
		})
		if err != nil {
			return nil, err
		}

		for i := range accounts {
			account := &accounts[i]
			if account.Type.Category != models.CategoryRevenue && account.Type.Category != models.CategoryExpense {
				continue
			}
			balance := plBalance(account, moves)
			if math.Abs(balance) < reportEpsilon {
				continue
			}

			typeNode, ok := types[account.Type.Name]
			if !ok {
				typeNode = &CombinedTypeNode{TypeName: account.Type.Name, Category: account.Type.Category}
				types[account.Type.Name] = typeNode
			}

			path := parentPath(account, byID)
			pathNode := findOrAddPath(typeNode, path)
			bizNode := findOrAddBusiness(pathNode, business)

			bizNode.Accounts = append(bizNode.Accounts, reportRow(account, balance))
			bizNode.Subtotal += balance
			pathNode.Subtotal += balance
			typeNode.Subtotal += balance

			if account.Type.Category == models.CategoryRevenue {
				report.TotalRevenue += balance
			} else {
				report.TotalExpenses += balance
			}
		}
	}

	for _, typeNode := range types {
		for pi := range typeNode.Paths {
			pathNode := &typeNode.Paths[pi]
			for bi := range pathNode.Businesses {
				accounts := pathNode.Businesses[bi].Accounts
				sort.Slice(accounts, func(i, j int) bool { return accounts[i].AccountCode < accounts[j].AccountCode })
			}
			sort.Slice(pathNode.Businesses, func(i, j int) bool {
				return pathNode.Businesses[i].BusinessName < pathNode.Businesses[j].BusinessName
			})
		}
		sort.Slice(typeNode.Paths, func(i, j int) bool { return typeNode.Paths[i].Path < typeNode.Paths[j].Path })
		report.Types = append(report.Types, *typeNode)
	}
	sort.Slice(report.Types, func(i, j int) bool { return report.Types[i].TypeName < report.Types[j].TypeName })

	report.NetIncome = report.TotalRevenue - report.TotalExpenses
	return report, nil
}

// parentPath walks an account's parent chain and joins the ancestor names
// root-first. Accounts with no parent group under their own name. The walk
// carries a visited set as a guard against legacy cyclic data.
func parentPath(account *models.Account, byID map[string]*models.Account) string {
	if account.ParentAccountID == nil {
		return account.AccountName
	}

	var names []string
	visited := map[string]bool{account.ID: true}
	current := account.ParentAccountID
	for current != nil {
		parent, ok := byID[*current]
		if !ok || visited[parent.ID] {
			break
		}
		visited[parent.ID] = true
		names = append([]string{parent.AccountName}, names...)
		current = parent.ParentAccountID
	}
	if len(names) == 0 {
		return account.AccountName
	}
	return strings.Join(names, " > ")
}

func findOrAddPath(typeNode *CombinedTypeNode, path string) *CombinedPathNode {
	for i := range typeNode.Paths {
		if typeNode.Paths[i].Path == path {
			return &typeNode.Paths[i]
		}
	}
	typeNode.Paths = append(typeNode.Paths, CombinedPathNode{Path: path})
	return &typeNode.Paths[len(typeNode.Paths)-1]
}

func findOrAddBusiness(pathNode *CombinedPathNode, business *models.Business) *CombinedBusinessNode {
	for i := range pathNode.Businesses {
		if pathNode.Businesses[i].BusinessID == business.ID {
			return &pathNode.Businesses[i]
		}
	}
	pathNode.Businesses = append(pathNode.Businesses, CombinedBusinessNode{
		BusinessID:   business.ID,
		BusinessName: business.Name,
	})
	return &pathNode.Businesses[len(pathNode.Businesses)-1]
}
