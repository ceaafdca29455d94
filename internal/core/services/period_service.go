package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/centavohq/centavo-books/internal/apperrors"
	"github.com/centavohq/centavo-books/internal/core/domain"
	"github.com/centavohq/centavo-books/internal/core/ports"
	"github.com/centavohq/centavo-books/internal/dto"
)

// periodService implements the PeriodSvc interface. It decides whether a
// (year, month) pair refers to the still-open current month (live
// transactions, full derivation) or a closed month (server aggregates,
// decryption only) and hides the difference from everything downstream.
type periodService struct {
	BaseService
	provider ports.AccountingDataProvider
	pipeline ports.RecordDecryptionSvc
	now      func() time.Time
}

// PeriodServiceOption is a functional option for configuring the period
// service.
type PeriodServiceOption func(*periodService)

// WithClock overrides the wall clock, mainly for tests and month-boundary
// scenarios.
func WithClock(now func() time.Time) PeriodServiceOption {
	return func(s *periodService) {
		s.now = now
	}
}

// NewPeriodService creates a new period selector.
func NewPeriodService(provider ports.AccountingDataProvider, pipeline ports.RecordDecryptionSvc, options ...PeriodServiceOption) ports.PeriodSvc {
	svc := &periodService{
		provider: provider,
		pipeline: pipeline,
		now:      time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ ports.PeriodSvc = (*periodService)(nil)

// IsCurrentMonth reports whether (year, month) is the open period on the
// injected wall clock.
func (s *periodService) IsCurrentMonth(year int, month time.Month) bool {
	now := s.now()
	return year == now.Year() && month == now.Month()
}

// FetchRaw requests the raw shape matching the period and wraps it in the
// tagged union resolved here, once, for the rest of the pipeline.
func (s *periodService) FetchRaw(ctx context.Context, year int, month time.Month, currency string) (*dto.RawPeriodData, error) {
	if s.IsCurrentMonth(year, month) {
		raw, err := s.provider.FetchCurrentMonth(ctx, currency)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch current month: %w", err)
		}
		s.LogDebug(ctx, "Fetched current-month shape",
			slog.Int("transactions", len(raw.Transactions)),
			slog.Int("accounts", len(raw.Accounts)))
		return &dto.RawPeriodData{Current: raw}, nil
	}

	raw, err := s.provider.FetchHistoricalMonth(ctx, year, month, currency)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %d-%02d: %w", year, month, err)
	}
	s.LogDebug(ctx, "Fetched historical shape",
		slog.Int("year", year),
		slog.Int("month", int(month)),
		slog.Int("entries", len(raw.JournalEntries)))
	return &dto.RawPeriodData{Historical: raw}, nil
}

// Normalize decrypts whichever raw shape the union carries into the single
// record shape consumers see.
func (s *periodService) Normalize(ctx context.Context, dec ports.FieldDecrypter, raw *dto.RawPeriodData) (*domain.DecryptedAccountingData, error) {
	switch {
	case raw == nil:
		return nil, fmt.Errorf("%w: nil period payload", apperrors.ErrValidation)
	case raw.Current != nil:
		return s.pipeline.DecryptCurrentMonth(ctx, dec, raw.Current)
	case raw.Historical != nil:
		return s.pipeline.DecryptHistorical(ctx, dec, raw.Historical)
	default:
		return nil, fmt.Errorf("%w: period payload carries neither shape", apperrors.ErrValidation)
	}
}
