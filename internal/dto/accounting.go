package dto

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// RawAccountRef mirrors the account reference embedded in wire entries.
type RawAccountRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RawCategory mirrors the category object embedded in wire entries.
type RawCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RawJournalEntry is a journal entry as fetched: Amount and Description are
// ciphertext strings, everything else is plaintext metadata.
type RawJournalEntry struct {
	ID          string         `json:"id"`
	Amount      string         `json:"amount"`
	Type        string         `json:"type"`
	AccountFrom *RawAccountRef `json:"accountFrom"`
	AccountTo   *RawAccountRef `json:"accountTo"`
	Description *string        `json:"description,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	Category    RawCategory    `json:"category"`
}

// RawAccount is a live account in the current-period payload; balances are
// ciphertext.
type RawAccount struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	AccountType     string  `json:"account_type"`
	CurrentBalance  string  `json:"currentBalance"`
	StartingBalance *string `json:"startingBalance"`
}

// RawCurrentMonthData is the current-period wire shape: live transactions
// plus live accounts, both requiring full derivation after decryption.
type RawCurrentMonthData struct {
	Transactions []RawJournalEntry `json:"transactions"`
	Accounts     []RawAccount      `json:"accounts"`
}

// RawBalanceSnapshot is a server-computed account balance for a closed
// period; Balance and StartingBalance are ciphertext.
type RawBalanceSnapshot struct {
	ID        string `json:"id"`
	AccountID string `json:"account_id"`
	Balance   string `json:"balance"`
	Account   struct {
		Name        string `json:"name"`
		AccountType string `json:"account_type"`
	} `json:"account"`
	StartingBalance *string `json:"startingBalance"`
}

// RawHistoricalData is the historical-period wire shape: pre-aggregated
// ciphertext totals plus snapshot balances and the period's journal entries.
type RawHistoricalData struct {
	ID                      string               `json:"id"`
	Year                    int                  `json:"year"`
	Month                   int                  `json:"month"`
	CurrencyCode            string               `json:"currency_code"`
	TotalIncome             string               `json:"total_income"`
	TotalExpense            string               `json:"total_expense"`
	TotalSavings            string               `json:"total_savings"`
	CashFlow                string               `json:"cash_flow"`
	AccumulatedCash         string               `json:"accumulated_cash"`
	AccountBalanceSnapshots []RawBalanceSnapshot `json:"account_balance_snapshots"`
	JournalEntries          []RawJournalEntry    `json:"journal_entries"`
}

// RawPeriodData is the tagged union resolved once at the period-selector
// boundary: exactly one of Current or Historical is non-nil.
type RawPeriodData struct {
	Current    *RawCurrentMonthData
	Historical *RawHistoricalData
}

// Fingerprint hashes the ciphertext content of the payload. Two payloads
// with the same fingerprint decrypt and derive to the same result under the
// same key, so the derived view cache can key on it.
func (r *RawPeriodData) Fingerprint() string {
	h := sha256.New()
	writeEntry := func(e RawJournalEntry) {
		h.Write([]byte(e.ID))
		h.Write([]byte(e.Amount))
		if e.Description != nil {
			h.Write([]byte(*e.Description))
		}
	}
	switch {
	case r.Current != nil:
		for _, t := range r.Current.Transactions {
			writeEntry(t)
		}
		for _, a := range r.Current.Accounts {
			h.Write([]byte(a.ID))
			h.Write([]byte(a.CurrentBalance))
			if a.StartingBalance != nil {
				h.Write([]byte(*a.StartingBalance))
			}
		}
	case r.Historical != nil:
		h.Write([]byte(r.Historical.ID))
		h.Write([]byte(r.Historical.TotalIncome))
		h.Write([]byte(r.Historical.TotalExpense))
		h.Write([]byte(r.Historical.TotalSavings))
		h.Write([]byte(r.Historical.CashFlow))
		h.Write([]byte(r.Historical.AccumulatedCash))
		for _, s := range r.Historical.AccountBalanceSnapshots {
			h.Write([]byte(s.AccountID))
			h.Write([]byte(s.Balance))
			if s.StartingBalance != nil {
				h.Write([]byte(*s.StartingBalance))
			}
		}
		for _, e := range r.Historical.JournalEntries {
			writeEntry(e)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
