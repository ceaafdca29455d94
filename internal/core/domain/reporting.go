package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalLine is one of the two paired rows an entry renders as in the
// journal book: the debit row names what was received (or the expense
// concept), the credit row names the source.
type JournalLine struct {
	Label  string          `json:"label"`
	Debit  decimal.Decimal `json:"debit"`
	Credit decimal.Decimal `json:"credit"`
}

// JournalRow is a journal entry rendered as its debit/credit line pair.
type JournalRow struct {
	Entry JournalEntry  `json:"entry"`
	Lines []JournalLine `json:"lines"`
}

// JournalDayGroup holds one calendar day's journal rows.
type JournalDayGroup struct {
	Label string       `json:"label"`
	Date  time.Time    `json:"date"`
	Rows  []JournalRow `json:"rows"`
}

// JournalBook is the day-grouped journal view, most recent day first.
// TotalDebit and TotalCredit are both Σ amount over the rendered entries;
// their equality is the built-in self-check that the record set is balanced
// at the transaction level.
type JournalBook struct {
	Days        []JournalDayGroup `json:"days"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
}

// LedgerRow is one entry in a single account's ledger with the running
// balance after applying it.
type LedgerRow struct {
	Entry   JournalEntry    `json:"entry"`
	Side    TransactionSide `json:"side"`
	Delta   decimal.Decimal `json:"delta"`
	Balance decimal.Decimal `json:"balance"`
}

// LedgerDayGroup holds one calendar day's ledger rows in chronological order.
type LedgerDayGroup struct {
	Label string      `json:"label"`
	Date  time.Time   `json:"date"`
	Rows  []LedgerRow `json:"rows"`
}

// LedgerBook is the per-account chronological view with running balance,
// grouped by day with the most recent group first.
type LedgerBook struct {
	Account         AccountBalanceSnapshot `json:"account"`
	StartingBalance decimal.Decimal        `json:"startingBalance"`
	Days            []LedgerDayGroup       `json:"days"`
	TotalDebit      decimal.Decimal        `json:"totalDebit"`
	TotalCredit     decimal.Decimal        `json:"totalCredit"`
	ClosingBalance  decimal.Decimal        `json:"closingBalance"`
}

// CategoryTotal is one profit-and-loss category with its member entries,
// newest entry first.
type CategoryTotal struct {
	Name    string          `json:"name"`
	Amount  decimal.Decimal `json:"amount"`
	Entries []JournalEntry  `json:"entries"`
}

// ProfitLossStatement aggregates income and expense entries by category,
// categories sorted descending by amount.
type ProfitLossStatement struct {
	Income       []CategoryTotal `json:"income"`
	Expenses     []CategoryTotal `json:"expenses"`
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	NetResult    decimal.Decimal `json:"netResult"`
}

// BalanceLine is one classified account row on the balance sheet.
type BalanceLine struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	AccountType AccountType     `json:"accountType"`
	Balance     decimal.Decimal `json:"balance"`
}

// BalanceSheet is the point-in-time statement. TieOutDelta is
// TotalAssets − (TotalLiabilities + TotalEquity); a non-zero value is
// flagged, never fatal.
type BalanceSheet struct {
	CurrentAssets      []BalanceLine   `json:"currentAssets"`
	SavingsAssets      []BalanceLine   `json:"savingsAssets"`
	Liabilities        []BalanceLine   `json:"liabilities"`
	TotalCurrentAssets decimal.Decimal `json:"totalCurrentAssets"`
	TotalSavingsAssets decimal.Decimal `json:"totalSavingsAssets"`
	TotalAssets        decimal.Decimal `json:"totalAssets"`
	TotalLiabilities   decimal.Decimal `json:"totalLiabilities"`
	StartingEquity     decimal.Decimal `json:"startingEquity"`
	RetainedEarnings   decimal.Decimal `json:"retainedEarnings"`
	TotalEquity        decimal.Decimal `json:"totalEquity"`
	TieOutDelta        decimal.Decimal `json:"tieOutDelta"`
	Balanced           bool            `json:"balanced"`
}

// IntegrityIssue records a journal entry excluded from derivation because it
// violates referential integrity (missing or unknown account reference).
type IntegrityIssue struct {
	EntryID string `json:"entryID"`
	Reason  string `json:"reason"`
}

// BooksReport bundles the four derived views for one period. It is replaced
// wholesale on every derivation.
type BooksReport struct {
	Journal      JournalBook         `json:"journal"`
	Ledgers      []LedgerBook        `json:"ledgers"`
	ProfitLoss   ProfitLossStatement `json:"profitLoss"`
	BalanceSheet BalanceSheet        `json:"balanceSheet"`
	Integrity    []IntegrityIssue    `json:"integrity,omitempty"`
}
