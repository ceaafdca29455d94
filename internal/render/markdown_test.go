package render_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/centavohq/centavo-books/internal/core/domain"
	"github.com/centavohq/centavo-books/internal/render"
)

func TestMoney(t *testing.T) {
	r := render.New("USD", "en-US")
	assert.Equal(t, "$1,234.56", r.Money(decimal.RequireFromString("1234.56")))
	assert.Equal(t, "-$0.50", r.Money(decimal.RequireFromString("-0.5")))

	// Unknown currency codes fall back to a plain fixed-point rendering.
	fallback := render.New("ZZZ", "en-US")
	assert.Equal(t, "12.00 ZZZ", fallback.Money(decimal.RequireFromString("12")))
}

func TestDescriptionPrefixStripping(t *testing.T) {
	text := "Gasto en supermercado"
	entry := domain.JournalEntry{
		Description: &text,
		Category:    domain.Category{Name: "groceries"},
	}
	r := render.New("USD", "es")
	out := r.Ledger(domain.LedgerBook{
		Account: domain.AccountBalanceSnapshot{AccountName: "cash"},
		Days: []domain.LedgerDayGroup{{
			Label: "10 de marzo",
			Rows:  []domain.LedgerRow{{Entry: entry, Delta: decimal.RequireFromString("-30"), Balance: decimal.RequireFromString("70")}},
		}},
	})
	assert.Contains(t, out, "| supermercado |")
	assert.NotContains(t, out, "Gasto en")
}

func TestDescriptionFallsBackToCategory(t *testing.T) {
	empty := "Gasto en"
	entry := domain.JournalEntry{Description: &empty, Category: domain.Category{Name: "groceries"}}
	r := render.New("USD", "en-US")
	out := r.Ledger(domain.LedgerBook{
		Account: domain.AccountBalanceSnapshot{AccountName: "cash"},
		Days: []domain.LedgerDayGroup{{
			Rows: []domain.LedgerRow{{Entry: entry, Delta: decimal.Zero, Balance: decimal.Zero}},
		}},
	})
	assert.Contains(t, out, "| groceries |")
}

func TestProfitLossParentheses(t *testing.T) {
	r := render.New("USD", "en-US")
	out := r.ProfitLoss(domain.ProfitLossStatement{
		Expenses: []domain.CategoryTotal{{
			Name:   "rent",
			Amount: decimal.RequireFromString("800"),
		}},
		TotalIncome:  decimal.RequireFromString("500"),
		TotalExpense: decimal.RequireFromString("800"),
		NetResult:    decimal.RequireFromString("-300"),
	})
	assert.Contains(t, out, "| rent (0) | ($800.00) |")
	assert.Contains(t, out, "| **net result** | **($300.00)** |")
}

func TestBalanceSheetTieOutWarning(t *testing.T) {
	r := render.New("USD", "en-US")

	balanced := r.BalanceSheet(domain.BalanceSheet{Balanced: true})
	assert.NotContains(t, balanced, "does not tie out")

	broken := r.BalanceSheet(domain.BalanceSheet{
		Balanced:    false,
		TieOutDelta: decimal.RequireFromString("0.01"),
	})
	assert.Contains(t, broken, "does not tie out")
}

func TestReportIncludesIntegrityFindings(t *testing.T) {
	r := render.New("USD", "en-US")
	out := r.Report(&domain.BooksReport{
		Integrity: []domain.IntegrityIssue{{EntryID: "t9", Reason: "references unknown account"}},
	})
	assert.Contains(t, out, "integrity findings")
	assert.Contains(t, out, "t9")
}
