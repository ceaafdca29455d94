package accounting

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/centavohq/centavo-books/internal/core/domain"
)

// EntrySide classifies the entry's effect on the given account using the
// orthodox double-entry convention, independent of account type:
// an inflow (income target, transfer target) debits the account, an outflow
// (expense source, transfer source) credits it. The second return value is
// false when the entry does not touch the account or is a non-folding row.
func EntrySide(entry domain.JournalEntry, accountID string) (domain.TransactionSide, bool) {
	switch entry.Type {
	case domain.EntryIncome:
		if entry.AccountTo != nil && entry.AccountTo.ID == accountID {
			return domain.DebitSide, true
		}
	case domain.EntryExpense:
		if entry.AccountFrom != nil && entry.AccountFrom.ID == accountID {
			return domain.CreditSide, true
		}
	case domain.EntryTransfer:
		if entry.AccountFrom != nil && entry.AccountFrom.ID == accountID {
			return domain.CreditSide, true
		}
		if entry.AccountTo != nil && entry.AccountTo.ID == accountID {
			return domain.DebitSide, true
		}
	}
	return "", false
}

// EntryDelta returns the signed cash effect of the entry on the account:
// inflows positive, outflows negative, zero when the entry does not touch
// the account. This is the ledger fold delta; it is deliberately
// type-independent (the ledger shows money movement, the balance sheet
// applies the classification).
func EntryDelta(entry domain.JournalEntry, accountID string) decimal.Decimal {
	side, ok := EntrySide(entry, accountID)
	if !ok {
		return decimal.Zero
	}
	if side == domain.DebitSide {
		return entry.Amount
	}
	return entry.Amount.Neg()
}

// SignedBalanceDelta applies the account classification: debits increase
// asset-like balances, credits increase liability balances.
func SignedBalanceDelta(side domain.TransactionSide, amount decimal.Decimal, accountType domain.AccountType) (decimal.Decimal, error) {
	switch accountType {
	case domain.Regular, domain.Savings:
		if side == domain.CreditSide {
			return amount.Neg(), nil
		}
		return amount, nil
	case domain.Debt:
		if side == domain.DebitSide {
			return amount.Neg(), nil
		}
		return amount, nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type %q", accountType)
	}
}

// SafePercent returns part/whole as a percentage, guarding the
// zero-denominator case with zero instead of NaN or infinity.
func SafePercent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(decimal.NewFromInt(100))
}
