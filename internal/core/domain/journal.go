package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType indicates the kind of financial event a journal entry records.
type EntryType string

const (
	EntryIncome   EntryType = "income"
	EntryExpense  EntryType = "expense"
	EntryTransfer EntryType = "transfer"
	// EntryBalance marks a balance checkpoint row carried by historical
	// payloads. It never participates in folds or totals.
	EntryBalance EntryType = "balance"
)

// TransactionSide indicates whether an entry's effect on an account is a
// debit or a credit. The meaning (increase vs decrease) depends on the
// account's classification.
type TransactionSide string

const (
	DebitSide  TransactionSide = "DEBIT"
	CreditSide TransactionSide = "CREDIT"
)

// Category labels a journal entry for profit-and-loss grouping.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// JournalEntry represents a single decrypted financial event. Amount is
// always non-negative; direction is encoded by Type plus the account
// references, never by sign.
//
// Invariants by type:
//   - income: AccountFrom == nil, AccountTo != nil (target is debited)
//   - expense: AccountTo == nil, AccountFrom != nil (source is credited)
//   - transfer: both non-nil and distinct (source credited, target debited)
type JournalEntry struct {
	ID          string          `json:"id"`
	Type        EntryType       `json:"type"`
	AccountFrom *AccountRef     `json:"accountFrom"`
	AccountTo   *AccountRef     `json:"accountTo"`
	Amount      decimal.Decimal `json:"amount"`
	Description *string         `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	Category    Category        `json:"category"`
}

// Touches reports whether the entry references the given account on either side.
func (e JournalEntry) Touches(accountID string) bool {
	if e.AccountFrom != nil && e.AccountFrom.ID == accountID {
		return true
	}
	if e.AccountTo != nil && e.AccountTo.ID == accountID {
		return true
	}
	return false
}
