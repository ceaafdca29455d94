package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/centavohq/centavo-books/internal/apperrors"
	"github.com/centavohq/centavo-books/internal/core/domain"
	"github.com/centavohq/centavo-books/internal/core/ports"
	"github.com/centavohq/centavo-books/internal/dto"
	"github.com/centavohq/centavo-books/internal/utils/mapping"
)

// decryptionService implements the RecordDecryptionSvc interface.
type decryptionService struct {
	BaseService
	concurrency int
}

// DecryptionServiceOption is a functional option for configuring the
// decryption service.
type DecryptionServiceOption func(*decryptionService)

// WithDecryptionConcurrency caps the number of concurrent field
// decryptions. Zero or negative means unlimited.
func WithDecryptionConcurrency(n int) DecryptionServiceOption {
	return func(s *decryptionService) {
		s.concurrency = n
	}
}

// NewDecryptionService creates a new record decryption pipeline.
func NewDecryptionService(options ...DecryptionServiceOption) ports.RecordDecryptionSvc {
	svc := &decryptionService{}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ ports.RecordDecryptionSvc = (*decryptionService)(nil)

// failureCollector gathers per-field failures concurrently while keeping a
// deterministic output order (slot per record, flattened afterwards).
type failureCollector struct {
	mu       sync.Mutex
	slots    [][]domain.FieldFailure
	attempts int
	failed   int
}

func newFailureCollector(records int) *failureCollector {
	return &failureCollector{slots: make([][]domain.FieldFailure, records)}
}

// amountAttempted records the outcome of one amount-field decryption.
// Amount fields decide batch-level failure: text fields degrade silently.
func (c *failureCollector) amountAttempted(slot int, recordID, field string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attempts++
	if err != nil {
		c.failed++
		c.slots[slot] = append(c.slots[slot], domain.FieldFailure{RecordID: recordID, Field: field, Err: err})
	}
}

func (c *failureCollector) textFailed(slot int, recordID, field string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slots[slot] = append(c.slots[slot], domain.FieldFailure{RecordID: recordID, Field: field, Err: err})
}

func (c *failureCollector) flatten() []domain.FieldFailure {
	var out []domain.FieldFailure
	for _, slot := range c.slots {
		out = append(out, slot...)
	}
	return out
}

// allAmountsFailed reports a total decryption failure: every amount field in
// a non-empty batch degraded. A balance computed from an all-zero amount set
// would be silently wrong, so the batch aborts instead.
func (c *failureCollector) allAmountsFailed() bool {
	return c.attempts > 0 && c.failed == c.attempts
}

// DecryptCurrentMonth decrypts the live transactions and accounts of the
// open period and computes the period totals from the decrypted entries.
func (s *decryptionService) DecryptCurrentMonth(ctx context.Context, dec ports.FieldDecrypter, raw *dto.RawCurrentMonthData) (*domain.DecryptedAccountingData, error) {
	if dec == nil {
		return nil, apperrors.ErrNoKey
	}

	entries := make([]domain.JournalEntry, len(raw.Transactions))
	snapshots := make([]domain.AccountBalanceSnapshot, len(raw.Accounts))
	collector := newFailureCollector(len(raw.Transactions) + len(raw.Accounts))

	g, gctx := errgroup.WithContext(ctx)
	if s.concurrency > 0 {
		g.SetLimit(s.concurrency)
	}

	for i, tx := range raw.Transactions {
		i, tx := i, tx
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			amount, description := s.decryptEntryFields(gctx, dec, collector, i, tx)
			entries[i] = mapping.ToDomainJournalEntry(tx, amount, description)
			return nil
		})
	}

	for i, account := range raw.Accounts {
		i, account := i, account
		slot := len(raw.Transactions) + i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			current, err := dec.DecryptAmount(gctx, account.CurrentBalance)
			collector.amountAttempted(slot, account.ID, "currentBalance", err)

			starting := decimal.Zero
			if account.StartingBalance != nil {
				starting, err = dec.DecryptAmount(gctx, *account.StartingBalance)
				collector.amountAttempted(slot, account.ID, "startingBalance", err)
			}
			snapshots[i] = mapping.ToBalanceSnapshotFromAccount(account, starting, current)
			return nil
		})
	}

	// Synchronization barrier: derivation needs the complete set.
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if collector.allAmountsFailed() {
		return nil, fmt.Errorf("%w: all %d amount fields failed", apperrors.ErrBatchDecryption, collector.attempts)
	}

	totalIncome := decimal.Zero
	totalExpense := decimal.Zero
	for _, entry := range entries {
		switch entry.Type {
		case domain.EntryIncome:
			totalIncome = totalIncome.Add(entry.Amount)
		case domain.EntryExpense:
			totalExpense = totalExpense.Add(entry.Amount)
		}
	}
	accumulatedCash := decimal.Zero
	for _, snapshot := range snapshots {
		accumulatedCash = accumulatedCash.Add(snapshot.Balance)
	}

	failures := collector.flatten()
	s.LogDebug(ctx, "Current-month batch decrypted",
		slog.Int("transactions", len(entries)),
		slog.Int("accounts", len(snapshots)),
		slog.Int("field_failures", len(failures)))

	return &domain.DecryptedAccountingData{
		TotalIncome:     totalIncome,
		TotalExpense:    totalExpense,
		TotalSavings:    totalIncome.Sub(totalExpense),
		CashFlow:        totalIncome.Sub(totalExpense),
		AccumulatedCash: accumulatedCash,
		AccountBalances: snapshots,
		JournalEntries:  entries,
		FieldFailures:   failures,
	}, nil
}

// DecryptHistorical decrypts a closed period's pre-aggregated totals,
// snapshot balances and journal entries. No balance folding happens here;
// the server already aggregated the period.
func (s *decryptionService) DecryptHistorical(ctx context.Context, dec ports.FieldDecrypter, raw *dto.RawHistoricalData) (*domain.DecryptedAccountingData, error) {
	if dec == nil {
		return nil, apperrors.ErrNoKey
	}

	aggregates := []struct {
		field  string
		cipher string
	}{
		{"total_income", raw.TotalIncome},
		{"total_expense", raw.TotalExpense},
		{"total_savings", raw.TotalSavings},
		{"cash_flow", raw.CashFlow},
		{"accumulated_cash", raw.AccumulatedCash},
	}
	totals := make([]decimal.Decimal, len(aggregates))
	entries := make([]domain.JournalEntry, len(raw.JournalEntries))
	snapshots := make([]domain.AccountBalanceSnapshot, len(raw.AccountBalanceSnapshots))
	collector := newFailureCollector(1 + len(raw.AccountBalanceSnapshots) + len(raw.JournalEntries))

	g, gctx := errgroup.WithContext(ctx)
	if s.concurrency > 0 {
		g.SetLimit(s.concurrency)
	}

	for i, agg := range aggregates {
		i, agg := i, agg
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			value, err := dec.DecryptAmount(gctx, agg.cipher)
			collector.amountAttempted(0, raw.ID, agg.field, err)
			totals[i] = value
			return nil
		})
	}

	for i, snapshot := range raw.AccountBalanceSnapshots {
		i, snapshot := i, snapshot
		slot := 1 + i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			balance, err := dec.DecryptAmount(gctx, snapshot.Balance)
			collector.amountAttempted(slot, snapshot.AccountID, "balance", err)

			starting := decimal.Zero
			if snapshot.StartingBalance != nil {
				starting, err = dec.DecryptAmount(gctx, *snapshot.StartingBalance)
				collector.amountAttempted(slot, snapshot.AccountID, "startingBalance", err)
			}
			snapshots[i] = mapping.ToBalanceSnapshotFromHistorical(snapshot, starting, balance)
			return nil
		})
	}

	for i, entry := range raw.JournalEntries {
		i, entry := i, entry
		slot := 1 + len(raw.AccountBalanceSnapshots) + i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			amount, description := s.decryptEntryFields(gctx, dec, collector, slot, entry)
			entries[i] = mapping.ToDomainJournalEntry(entry, amount, description)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if collector.allAmountsFailed() {
		return nil, fmt.Errorf("%w: all %d amount fields failed", apperrors.ErrBatchDecryption, collector.attempts)
	}

	failures := collector.flatten()
	s.LogDebug(ctx, "Historical batch decrypted",
		slog.Int("year", raw.Year),
		slog.Int("month", raw.Month),
		slog.Int("entries", len(entries)),
		slog.Int("snapshots", len(snapshots)),
		slog.Int("field_failures", len(failures)))

	return &domain.DecryptedAccountingData{
		TotalIncome:     totals[0],
		TotalExpense:    totals[1],
		TotalSavings:    totals[2],
		CashFlow:        totals[3],
		AccumulatedCash: totals[4],
		AccountBalances: snapshots,
		JournalEntries:  entries,
		FieldFailures:   failures,
	}, nil
}

// decryptEntryFields decrypts the amount and optional description of one
// journal entry, recording degradations in the collector.
func (s *decryptionService) decryptEntryFields(ctx context.Context, dec ports.FieldDecrypter, collector *failureCollector, slot int, raw dto.RawJournalEntry) (decimal.Decimal, *string) {
	amount, err := dec.DecryptAmount(ctx, raw.Amount)
	collector.amountAttempted(slot, raw.ID, "amount", err)

	var description *string
	if raw.Description != nil {
		description, err = dec.DecryptText(ctx, *raw.Description)
		if err != nil {
			collector.textFailed(slot, raw.ID, "description", err)
		}
	}
	return amount, description
}
