package domain

import (
	"github.com/shopspring/decimal"
)

// AccountBalanceSnapshot is the per-account row of a period's record set.
// For the current (open) period Balance is the live decrypted balance; for a
// historical period it comes pre-computed from the server and only needed
// decryption. ID is always the account's own ID, not a snapshot row ID.
type AccountBalanceSnapshot struct {
	ID              string          `json:"id"`
	AccountName     string          `json:"accountName"`
	AccountType     AccountType     `json:"accountType"`
	StartingBalance decimal.Decimal `json:"startingBalance"`
	Balance         decimal.Decimal `json:"balance"`
}

// FieldFailure records a single field that failed to decrypt and was
// degraded to its fallback value. The batch still renders; a stricter
// consumer can inspect these for auditing.
type FieldFailure struct {
	RecordID string `json:"recordID"`
	Field    string `json:"field"`
	Err      error  `json:"-"`
}

// DecryptedAccountingData is the normalized, fully-decrypted record set for
// one accounting period. It is a pure function of its inputs: recomputed
// wholesale whenever the (period, currency, key) tuple changes, never
// partially mutated.
type DecryptedAccountingData struct {
	TotalIncome     decimal.Decimal          `json:"totalIncome"`
	TotalExpense    decimal.Decimal          `json:"totalExpense"`
	TotalSavings    decimal.Decimal          `json:"totalSavings"`
	CashFlow        decimal.Decimal          `json:"cashFlow"`
	AccumulatedCash decimal.Decimal          `json:"accumulatedCash"`
	AccountBalances []AccountBalanceSnapshot `json:"accountBalances"`
	JournalEntries  []JournalEntry           `json:"journalEntries"`
	FieldFailures   []FieldFailure           `json:"fieldFailures,omitempty"`
}
