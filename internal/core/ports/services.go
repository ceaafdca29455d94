package ports

import (
	"context"
	"time"

	"github.com/centavohq/centavo-books/internal/core/domain"
	"github.com/centavohq/centavo-books/internal/dto"
)

// RecordDecryptionSvc fans a field decrypter over a raw record batch and
// produces the normalized decrypted record set. Results are order-preserving
// and only returned once the whole batch has settled. The key capability is
// supplied per call; the pipeline itself holds no key state.
type RecordDecryptionSvc interface {
	DecryptCurrentMonth(ctx context.Context, dec FieldDecrypter, raw *dto.RawCurrentMonthData) (*domain.DecryptedAccountingData, error)
	DecryptHistorical(ctx context.Context, dec FieldDecrypter, raw *dto.RawHistoricalData) (*domain.DecryptedAccountingData, error)
}

// DerivationSvc computes the four read models from a decrypted record set.
// All methods are pure: deriving twice from the same input yields identical
// output.
type DerivationSvc interface {
	Journal(data *domain.DecryptedAccountingData, locale string) domain.JournalBook
	Ledger(data *domain.DecryptedAccountingData, accountID string, locale string) (*domain.LedgerBook, error)
	ProfitLoss(data *domain.DecryptedAccountingData) domain.ProfitLossStatement
	BalanceSheet(data *domain.DecryptedAccountingData) domain.BalanceSheet
	DeriveAll(ctx context.Context, data *domain.DecryptedAccountingData, locale string) *domain.BooksReport
}

// PeriodSvc decides which raw shape a (year, month) resolves to and
// normalizes both shapes into one DecryptedAccountingData, so downstream
// consumers never need to know which path was used.
type PeriodSvc interface {
	IsCurrentMonth(year int, month time.Month) bool
	FetchRaw(ctx context.Context, year int, month time.Month, currency string) (*dto.RawPeriodData, error)
	Normalize(ctx context.Context, dec FieldDecrypter, raw *dto.RawPeriodData) (*domain.DecryptedAccountingData, error)
}

// BooksSvc owns the derived-view state machine and cache. Refresh commits
// its result only if no newer refresh or key change superseded it.
type BooksSvc interface {
	Refresh(ctx context.Context, year int, month time.Month, currency string) (*domain.BooksReport, error)
	State() domain.ViewState
	Watch(fn func(domain.ViewState))
	SetDecrypter(dec FieldDecrypter)
}
