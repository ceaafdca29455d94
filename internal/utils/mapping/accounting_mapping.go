package mapping

import (
	"github.com/shopspring/decimal"

	"github.com/centavohq/centavo-books/internal/core/domain"
	"github.com/centavohq/centavo-books/internal/dto"
)

// ToDomainAccountRef converts a wire account reference to a domain one.
func ToDomainAccountRef(r *dto.RawAccountRef) *domain.AccountRef {
	if r == nil {
		return nil
	}
	return &domain.AccountRef{ID: r.ID, Name: r.Name}
}

// ToDomainCategory converts a wire category to a domain one.
func ToDomainCategory(c dto.RawCategory) domain.Category {
	return domain.Category{ID: c.ID, Name: c.Name}
}

// ToDomainJournalEntry maps the structural (plaintext) parts of a raw entry;
// the decrypted amount and description are supplied by the pipeline.
func ToDomainJournalEntry(raw dto.RawJournalEntry, amount decimal.Decimal, description *string) domain.JournalEntry {
	return domain.JournalEntry{
		ID:          raw.ID,
		Type:        domain.EntryType(raw.Type),
		AccountFrom: ToDomainAccountRef(raw.AccountFrom),
		AccountTo:   ToDomainAccountRef(raw.AccountTo),
		Amount:      amount,
		Description: description,
		CreatedAt:   raw.CreatedAt,
		Category:    ToDomainCategory(raw.Category),
	}
}

// ToBalanceSnapshotFromAccount builds the normalized per-account row from a
// live (current-period) account and its decrypted balances.
func ToBalanceSnapshotFromAccount(raw dto.RawAccount, starting, current decimal.Decimal) domain.AccountBalanceSnapshot {
	return domain.AccountBalanceSnapshot{
		ID:              raw.ID,
		AccountName:     raw.Name,
		AccountType:     domain.AccountType(raw.AccountType),
		StartingBalance: starting,
		Balance:         current,
	}
}

// ToBalanceSnapshotFromHistorical builds the normalized per-account row from
// a server-computed snapshot and its decrypted balances. The account's own
// ID is used, not the snapshot row ID, so ledger filtering by entry
// references works the same on both paths.
func ToBalanceSnapshotFromHistorical(raw dto.RawBalanceSnapshot, starting, balance decimal.Decimal) domain.AccountBalanceSnapshot {
	return domain.AccountBalanceSnapshot{
		ID:              raw.AccountID,
		AccountName:     raw.Account.Name,
		AccountType:     domain.AccountType(raw.Account.AccountType),
		StartingBalance: starting,
		Balance:         balance,
	}
}
