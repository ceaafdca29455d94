// Package render turns a derived books report into markdown suitable for
// terminal display. Formatting lives here, outside the core: the read models
// stay plain decimal data.
package render

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/centavohq/centavo-books/internal/core/domain"
)

// Renderer renders books reports for one currency and locale.
type Renderer struct {
	currency string
	locale   string
}

// New creates a renderer for the given ISO currency code and locale.
func New(currency, locale string) *Renderer {
	return &Renderer{currency: currency, locale: locale}
}

// Money formats an amount in the renderer's currency, e.g. "$1,234.56".
func (r *Renderer) Money(amount decimal.Decimal) string {
	currency := money.GetCurrency(r.currency)
	if currency == nil {
		return amount.StringFixed(2) + " " + r.currency
	}
	minor := amount.Shift(int32(currency.Fraction)).Round(0).IntPart()
	return money.New(minor, r.currency).Display()
}

// cell formats an amount for a debit/credit column, blank when zero.
func (r *Renderer) cell(amount decimal.Decimal) string {
	if amount.IsZero() {
		return ""
	}
	return r.Money(amount)
}

// description strips the entry-capture prefixes the product prepends; they
// carry no information inside a book.
func description(entry domain.JournalEntry) string {
	if entry.Description == nil {
		return entry.Category.Name
	}
	text := strings.TrimSpace(*entry.Description)
	for _, prefix := range []string{"Gasto en", "Ingreso en"} {
		text = strings.TrimSpace(strings.TrimPrefix(text, prefix))
	}
	if text == "" {
		return entry.Category.Name
	}
	return text
}

// Report renders the four books as one markdown document.
func (r *Renderer) Report(report *domain.BooksReport) string {
	var b strings.Builder
	b.WriteString(r.Journal(report.Journal))
	b.WriteString("\n")
	for _, ledger := range report.Ledgers {
		b.WriteString(r.Ledger(ledger))
		b.WriteString("\n")
	}
	b.WriteString(r.ProfitLoss(report.ProfitLoss))
	b.WriteString("\n")
	b.WriteString(r.BalanceSheet(report.BalanceSheet))
	if len(report.Integrity) > 0 {
		b.WriteString("\n## integrity findings\n\n")
		for _, issue := range report.Integrity {
			fmt.Fprintf(&b, "- entry `%s`: %s\n", issue.EntryID, issue.Reason)
		}
	}
	return b.String()
}

// Journal renders the day-grouped journal book.
func (r *Renderer) Journal(book domain.JournalBook) string {
	var b strings.Builder
	b.WriteString("## journal\n\n")
	b.WriteString("| movement | debit | credit |\n|---|---:|---:|\n")
	for _, day := range book.Days {
		fmt.Fprintf(&b, "| **%s** | | |\n", day.Label)
		for _, row := range day.Rows {
			for _, line := range row.Lines {
				fmt.Fprintf(&b, "| %s | %s | %s |\n", line.Label, r.cell(line.Debit), r.cell(line.Credit))
			}
		}
	}
	fmt.Fprintf(&b, "| **total** | **%s** | **%s** |\n", r.Money(book.TotalDebit), r.Money(book.TotalCredit))
	return b.String()
}

// Ledger renders one account's ledger with the running saldo column.
func (r *Renderer) Ledger(book domain.LedgerBook) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## ledger: %s\n\n", book.Account.AccountName)
	fmt.Fprintf(&b, "starting balance: %s\n\n", r.Money(book.StartingBalance))
	b.WriteString("| description | amount | saldo |\n|---|---:|---:|\n")
	for _, day := range book.Days {
		fmt.Fprintf(&b, "| **%s** | | |\n", day.Label)
		for _, row := range day.Rows {
			sign := "+"
			if row.Delta.IsNegative() {
				sign = "-"
			}
			fmt.Fprintf(&b, "| %s | %s%s | %s |\n",
				description(row.Entry), sign, r.Money(row.Delta.Abs()), r.Money(row.Balance))
		}
	}
	fmt.Fprintf(&b, "\nclosing balance: %s\n", r.Money(book.ClosingBalance))
	return b.String()
}

// ProfitLoss renders the income statement; expense amounts are shown in
// accounting parentheses.
func (r *Renderer) ProfitLoss(statement domain.ProfitLossStatement) string {
	var b strings.Builder
	b.WriteString("## profit & loss\n\n")
	b.WriteString("| category | amount |\n|---|---:|\n")
	fmt.Fprintf(&b, "| **income** | **%s** |\n", r.Money(statement.TotalIncome))
	for _, category := range statement.Income {
		fmt.Fprintf(&b, "| %s (%d) | %s |\n", category.Name, len(category.Entries), r.Money(category.Amount))
	}
	fmt.Fprintf(&b, "| **expenses** | **(%s)** |\n", r.Money(statement.TotalExpense))
	for _, category := range statement.Expenses {
		fmt.Fprintf(&b, "| %s (%d) | (%s) |\n", category.Name, len(category.Entries), r.Money(category.Amount))
	}
	if statement.NetResult.IsNegative() {
		fmt.Fprintf(&b, "| **net result** | **(%s)** |\n", r.Money(statement.NetResult.Abs()))
	} else {
		fmt.Fprintf(&b, "| **net result** | **%s** |\n", r.Money(statement.NetResult))
	}
	return b.String()
}

// BalanceSheet renders the classified balance sheet with the tie-out line.
func (r *Renderer) BalanceSheet(sheet domain.BalanceSheet) string {
	var b strings.Builder
	b.WriteString("## balance sheet\n\n")
	b.WriteString("| account | amount |\n|---|---:|\n")
	fmt.Fprintf(&b, "| **current assets** | **%s** |\n", r.Money(sheet.TotalCurrentAssets))
	for _, line := range sheet.CurrentAssets {
		fmt.Fprintf(&b, "| %s | %s |\n", line.Name, r.Money(line.Balance))
	}
	fmt.Fprintf(&b, "| **savings** | **%s** |\n", r.Money(sheet.TotalSavingsAssets))
	for _, line := range sheet.SavingsAssets {
		fmt.Fprintf(&b, "| %s | %s |\n", line.Name, r.Money(line.Balance))
	}
	fmt.Fprintf(&b, "| **total assets** | **%s** |\n", r.Money(sheet.TotalAssets))
	fmt.Fprintf(&b, "| **liabilities** | **%s** |\n", r.Money(sheet.TotalLiabilities))
	for _, line := range sheet.Liabilities {
		fmt.Fprintf(&b, "| %s | %s |\n", line.Name, r.Money(line.Balance))
	}
	fmt.Fprintf(&b, "| starting equity | %s |\n", r.Money(sheet.StartingEquity))
	fmt.Fprintf(&b, "| retained earnings | %s |\n", r.Money(sheet.RetainedEarnings))
	fmt.Fprintf(&b, "| **total equity** | **%s** |\n", r.Money(sheet.TotalEquity))
	if !sheet.Balanced {
		fmt.Fprintf(&b, "\n> balance sheet does not tie out, delta %s\n", r.Money(sheet.TieOutDelta))
	}
	return b.String()
}
