package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/centavohq/centavo-books/internal/apperrors"
	"github.com/centavohq/centavo-books/internal/core/domain"
	"github.com/centavohq/centavo-books/internal/core/ports"
	"github.com/centavohq/centavo-books/internal/utils/accounting"
	"github.com/centavohq/centavo-books/internal/utils/dates"
)

// derivationService implements the DerivationSvc interface. Every method is
// a pure function of its inputs; the service carries no state besides the
// logging helpers.
type derivationService struct {
	BaseService
}

// NewDerivationService creates the ledger derivation engine.
func NewDerivationService() ports.DerivationSvc {
	return &derivationService{}
}

var _ ports.DerivationSvc = (*derivationService)(nil)

// checkEntries splits the period's journal entries into the set that
// participates in folds and the integrity issues for the rest. Balance
// checkpoint rows are neither: they are skipped without being flagged.
// Entries keep their original slice order, which is the documented
// tie-breaker when timestamps are equal.
func checkEntries(data *domain.DecryptedAccountingData) ([]domain.JournalEntry, []domain.IntegrityIssue) {
	known := make(map[string]struct{}, len(data.AccountBalances))
	for _, snapshot := range data.AccountBalances {
		known[snapshot.ID] = struct{}{}
	}
	refKnown := func(ref *domain.AccountRef) bool {
		if ref == nil {
			return false
		}
		_, ok := known[ref.ID]
		return ok
	}

	valid := make([]domain.JournalEntry, 0, len(data.JournalEntries))
	var issues []domain.IntegrityIssue
	flag := func(entry domain.JournalEntry, reason string) {
		issues = append(issues, domain.IntegrityIssue{EntryID: entry.ID, Reason: reason})
	}

	for _, entry := range data.JournalEntries {
		switch entry.Type {
		case domain.EntryIncome:
			if entry.AccountTo == nil {
				flag(entry, "income entry has no target account")
				continue
			}
			if !refKnown(entry.AccountTo) {
				flag(entry, fmt.Sprintf("income entry targets unknown account %s", entry.AccountTo.ID))
				continue
			}
		case domain.EntryExpense:
			if entry.AccountFrom == nil {
				flag(entry, "expense entry has no source account")
				continue
			}
			if !refKnown(entry.AccountFrom) {
				flag(entry, fmt.Sprintf("expense entry draws on unknown account %s", entry.AccountFrom.ID))
				continue
			}
		case domain.EntryTransfer:
			if entry.AccountFrom == nil || entry.AccountTo == nil {
				flag(entry, "transfer entry is missing an account reference")
				continue
			}
			if entry.AccountFrom.ID == entry.AccountTo.ID {
				flag(entry, "transfer entry references the same account on both sides")
				continue
			}
			if !refKnown(entry.AccountFrom) {
				flag(entry, fmt.Sprintf("transfer entry draws on unknown account %s", entry.AccountFrom.ID))
				continue
			}
			if !refKnown(entry.AccountTo) {
				flag(entry, fmt.Sprintf("transfer entry targets unknown account %s", entry.AccountTo.ID))
				continue
			}
		case domain.EntryBalance:
			continue
		default:
			flag(entry, fmt.Sprintf("unknown entry type %q", entry.Type))
			continue
		}
		valid = append(valid, entry)
	}
	return valid, issues
}

// sortChronological returns a copy of entries stable-sorted by CreatedAt
// ascending. Running balances are order-dependent, so ties keep the original
// insertion order to stay deterministic.
func sortChronological(entries []domain.JournalEntry) []domain.JournalEntry {
	sorted := make([]domain.JournalEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	return sorted
}

// journalLines renders an entry as its debit/credit line pair. The debit
// line names what was received (or the expense concept), the credit line
// names the source.
func journalLines(entry domain.JournalEntry) []domain.JournalLine {
	concept := entry.Category.Name
	if entry.Description != nil && *entry.Description != "" {
		concept = *entry.Description
	}
	refName := func(ref *domain.AccountRef) string {
		if ref == nil {
			return "(unknown)"
		}
		return ref.Name
	}

	var debitLabel, creditLabel string
	switch entry.Type {
	case domain.EntryIncome:
		debitLabel, creditLabel = refName(entry.AccountTo), concept
	case domain.EntryExpense:
		debitLabel, creditLabel = concept, refName(entry.AccountFrom)
	default: // transfer
		debitLabel, creditLabel = refName(entry.AccountTo), refName(entry.AccountFrom)
	}
	return []domain.JournalLine{
		{Label: debitLabel, Debit: entry.Amount, Credit: decimal.Zero},
		{Label: creditLabel, Debit: decimal.Zero, Credit: entry.Amount},
	}
}

// Journal derives the day-grouped journal book, most recent day first.
// Integrity-flagged entries still appear here (the journal is the raw record
// of the period); only balance checkpoint rows are omitted.
func (s *derivationService) Journal(data *domain.DecryptedAccountingData, locale string) domain.JournalBook {
	total := decimal.Zero
	rendered := make([]domain.JournalEntry, 0, len(data.JournalEntries))
	for _, entry := range data.JournalEntries {
		if entry.Type == domain.EntryBalance {
			continue
		}
		rendered = append(rendered, entry)
		total = total.Add(entry.Amount)
	}

	days := groupJournalByDay(sortChronological(rendered), locale)
	return domain.JournalBook{
		Days:        days,
		TotalDebit:  total,
		TotalCredit: total,
	}
}

func groupJournalByDay(entries []domain.JournalEntry, locale string) []domain.JournalDayGroup {
	var days []domain.JournalDayGroup
	index := make(map[int64]int)
	for _, entry := range entries {
		key := dates.DayKey(entry.CreatedAt)
		i, ok := index[key.Unix()]
		if !ok {
			i = len(days)
			index[key.Unix()] = i
			days = append(days, domain.JournalDayGroup{
				Label: dates.DayLabel(entry.CreatedAt, locale),
				Date:  key,
			})
		}
		days[i].Rows = append(days[i].Rows, domain.JournalRow{
			Entry: entry,
			Lines: journalLines(entry),
		})
	}
	// Most recent day first; rows within a day stay chronological.
	sort.SliceStable(days, func(i, j int) bool {
		return days[i].Date.After(days[j].Date)
	})
	return days
}

// Ledger derives one account's chronological view with a running balance,
// folded from the account's starting balance.
func (s *derivationService) Ledger(data *domain.DecryptedAccountingData, accountID string, locale string) (*domain.LedgerBook, error) {
	var account *domain.AccountBalanceSnapshot
	for i := range data.AccountBalances {
		if data.AccountBalances[i].ID == accountID {
			account = &data.AccountBalances[i]
			break
		}
	}
	if account == nil {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}

	valid, _ := checkEntries(data)
	touching := make([]domain.JournalEntry, 0, len(valid))
	for _, entry := range valid {
		if entry.Touches(accountID) {
			touching = append(touching, entry)
		}
	}

	running := account.StartingBalance
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	rows := make([]domain.LedgerRow, 0, len(touching))
	for _, entry := range sortChronological(touching) {
		side, ok := accounting.EntrySide(entry, accountID)
		if !ok {
			continue
		}
		delta := accounting.EntryDelta(entry, accountID)
		running = running.Add(delta)
		if side == domain.DebitSide {
			totalDebit = totalDebit.Add(entry.Amount)
		} else {
			totalCredit = totalCredit.Add(entry.Amount)
		}
		rows = append(rows, domain.LedgerRow{
			Entry:   entry,
			Side:    side,
			Delta:   delta,
			Balance: running,
		})
	}

	return &domain.LedgerBook{
		Account:         *account,
		StartingBalance: account.StartingBalance,
		Days:            groupLedgerByDay(rows, locale),
		TotalDebit:      totalDebit,
		TotalCredit:     totalCredit,
		ClosingBalance:  running,
	}, nil
}

func groupLedgerByDay(rows []domain.LedgerRow, locale string) []domain.LedgerDayGroup {
	var days []domain.LedgerDayGroup
	index := make(map[int64]int)
	for _, row := range rows {
		key := dates.DayKey(row.Entry.CreatedAt)
		i, ok := index[key.Unix()]
		if !ok {
			i = len(days)
			index[key.Unix()] = i
			days = append(days, domain.LedgerDayGroup{
				Label: dates.DayLabel(row.Entry.CreatedAt, locale),
				Date:  key,
			})
		}
		days[i].Rows = append(days[i].Rows, row)
	}
	sort.SliceStable(days, func(i, j int) bool {
		return days[i].Date.After(days[j].Date)
	})
	return days
}

// ProfitLoss aggregates income and expense entries by category name,
// categories sorted descending by amount.
func (s *derivationService) ProfitLoss(data *domain.DecryptedAccountingData) domain.ProfitLossStatement {
	valid, _ := checkEntries(data)

	group := func(entryType domain.EntryType) ([]domain.CategoryTotal, decimal.Decimal) {
		index := make(map[string]int)
		var categories []domain.CategoryTotal
		total := decimal.Zero
		for _, entry := range valid {
			if entry.Type != entryType {
				continue
			}
			i, ok := index[entry.Category.Name]
			if !ok {
				i = len(categories)
				index[entry.Category.Name] = i
				categories = append(categories, domain.CategoryTotal{Name: entry.Category.Name, Amount: decimal.Zero})
			}
			categories[i].Amount = categories[i].Amount.Add(entry.Amount)
			categories[i].Entries = append(categories[i].Entries, entry)
			total = total.Add(entry.Amount)
		}
		for i := range categories {
			entries := categories[i].Entries
			sort.SliceStable(entries, func(a, b int) bool {
				return entries[a].CreatedAt.After(entries[b].CreatedAt)
			})
		}
		sort.SliceStable(categories, func(a, b int) bool {
			if !categories[a].Amount.Equal(categories[b].Amount) {
				return categories[a].Amount.GreaterThan(categories[b].Amount)
			}
			return categories[a].Name < categories[b].Name
		})
		return categories, total
	}

	income, totalIncome := group(domain.EntryIncome)
	expenses, totalExpense := group(domain.EntryExpense)

	return domain.ProfitLossStatement{
		Income:       income,
		Expenses:     expenses,
		TotalIncome:  totalIncome,
		TotalExpense: totalExpense,
		NetResult:    totalIncome.Sub(totalExpense),
	}
}

// BalanceSheet classifies every account by type, folds its period balance
// under the debit/credit convention of its classification, and derives
// equity so that assets == liabilities + equity for any well-formed set.
//
// startingEquity nets liability starting balances (stored as positive
// obligations) out of the asset starting balances; retained earnings are the
// period's income minus expenses.
func (s *derivationService) BalanceSheet(data *domain.DecryptedAccountingData) domain.BalanceSheet {
	valid, _ := checkEntries(data)

	sheet := domain.BalanceSheet{}
	startingEquity := decimal.Zero
	for _, snapshot := range data.AccountBalances {
		balance := snapshot.StartingBalance
		for _, entry := range valid {
			side, ok := accounting.EntrySide(entry, snapshot.ID)
			if !ok {
				continue
			}
			delta, err := accounting.SignedBalanceDelta(side, entry.Amount, snapshot.AccountType)
			if err != nil {
				continue
			}
			balance = balance.Add(delta)
		}
		if snapshot.AccountType.IsAssetLike() {
			startingEquity = startingEquity.Add(snapshot.StartingBalance)
		} else {
			startingEquity = startingEquity.Sub(snapshot.StartingBalance)
		}
		line := domain.BalanceLine{
			ID:          snapshot.ID,
			Name:        snapshot.AccountName,
			AccountType: snapshot.AccountType,
			Balance:     balance,
		}
		switch snapshot.AccountType {
		case domain.Regular:
			sheet.CurrentAssets = append(sheet.CurrentAssets, line)
			sheet.TotalCurrentAssets = sheet.TotalCurrentAssets.Add(balance)
		case domain.Savings:
			sheet.SavingsAssets = append(sheet.SavingsAssets, line)
			sheet.TotalSavingsAssets = sheet.TotalSavingsAssets.Add(balance)
		case domain.Debt:
			sheet.Liabilities = append(sheet.Liabilities, line)
			sheet.TotalLiabilities = sheet.TotalLiabilities.Add(balance)
		}
	}
	sheet.TotalAssets = sheet.TotalCurrentAssets.Add(sheet.TotalSavingsAssets)

	retained := decimal.Zero
	for _, entry := range valid {
		switch entry.Type {
		case domain.EntryIncome:
			retained = retained.Add(entry.Amount)
		case domain.EntryExpense:
			retained = retained.Sub(entry.Amount)
		}
	}

	sheet.StartingEquity = startingEquity
	sheet.RetainedEarnings = retained
	sheet.TotalEquity = startingEquity.Add(retained)
	sheet.TieOutDelta = sheet.TotalAssets.Sub(sheet.TotalLiabilities.Add(sheet.TotalEquity))
	sheet.Balanced = sheet.TieOutDelta.IsZero()
	return sheet
}

// DeriveAll computes the four views plus the integrity findings for one
// decrypted period.
func (s *derivationService) DeriveAll(ctx context.Context, data *domain.DecryptedAccountingData, locale string) *domain.BooksReport {
	_, issues := checkEntries(data)

	report := &domain.BooksReport{
		Journal:      s.Journal(data, locale),
		ProfitLoss:   s.ProfitLoss(data),
		BalanceSheet: s.BalanceSheet(data),
		Integrity:    issues,
	}
	report.Ledgers = make([]domain.LedgerBook, 0, len(data.AccountBalances))
	for _, snapshot := range data.AccountBalances {
		ledger, err := s.Ledger(data, snapshot.ID, locale)
		if err != nil {
			// Cannot happen for an account taken from the snapshot set.
			s.LogError(ctx, err, "Skipping ledger derivation", slog.String("account_id", snapshot.ID))
			continue
		}
		report.Ledgers = append(report.Ledgers, *ledger)
	}

	for _, issue := range issues {
		s.LogWarn(ctx, "Journal entry excluded from derivation",
			slog.String("entry_id", issue.EntryID),
			slog.String("reason", issue.Reason))
	}
	if !report.BalanceSheet.Balanced {
		s.LogWarn(ctx, "Balance sheet does not tie out",
			slog.String("delta", report.BalanceSheet.TieOutDelta.String()),
			slog.Int("integrity_issues", len(issues)))
	}
	return report
}
