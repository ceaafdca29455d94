package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/centavohq/centavo-books/internal/apperrors"
	"github.com/centavohq/centavo-books/internal/core/domain"
	"github.com/centavohq/centavo-books/internal/core/ports"
	"github.com/centavohq/centavo-books/internal/core/services"
	"github.com/centavohq/centavo-books/internal/dto"
)

// --- Mock PeriodSvc ---
type MockPeriodSvc struct {
	mock.Mock
}

func (m *MockPeriodSvc) IsCurrentMonth(year int, month time.Month) bool {
	args := m.Called(year, month)
	return args.Bool(0)
}

func (m *MockPeriodSvc) FetchRaw(ctx context.Context, year int, month time.Month, currency string) (*dto.RawPeriodData, error) {
	args := m.Called(ctx, year, month, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RawPeriodData), args.Error(1)
}

func (m *MockPeriodSvc) Normalize(ctx context.Context, dec ports.FieldDecrypter, raw *dto.RawPeriodData) (*domain.DecryptedAccountingData, error) {
	args := m.Called(ctx, dec, raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DecryptedAccountingData), args.Error(1)
}

var _ ports.PeriodSvc = (*MockPeriodSvc)(nil)

func rawPeriod(amountCipher string) *dto.RawPeriodData {
	return &dto.RawPeriodData{
		Current: &dto.RawCurrentMonthData{
			Transactions: []dto.RawJournalEntry{rawEntry("t1", "income", amountCipher, baseTime)},
		},
	}
}

// --- Test Suite ---
type BooksServiceTestSuite struct {
	suite.Suite
	mockPeriod *MockPeriodSvc
	mockDec    *MockFieldDecrypter
	service    ports.BooksSvc
	data       *domain.DecryptedAccountingData
}

func (s *BooksServiceTestSuite) SetupTest() {
	s.mockPeriod = new(MockPeriodSvc)
	s.mockDec = new(MockFieldDecrypter)
	s.mockDec.On("KeyID").Return("key-1").Maybe()
	s.service = services.NewBooksService(s.mockPeriod, services.NewDerivationService(),
		services.WithDecrypter(s.mockDec))
	s.data = accountingData(
		[]domain.AccountBalanceSnapshot{snapshot("A", domain.Regular, "100", "0")},
		[]domain.JournalEntry{entry(domain.EntryIncome, "", "A", "50", "salary", baseTime)},
	)
}

func (s *BooksServiceTestSuite) TestRefresh_Success() {
	ctx := context.Background()
	raw := rawPeriod("ct.50")
	s.mockPeriod.On("FetchRaw", ctx, 2025, time.March, "USD").Return(raw, nil).Once()
	s.mockPeriod.On("Normalize", ctx, s.mockDec, raw).Return(s.data, nil).Once()

	var seen []domain.ViewStatus
	s.service.Watch(func(state domain.ViewState) {
		seen = append(seen, state.Status)
	})

	report, err := s.service.Refresh(ctx, 2025, time.March, "USD")

	s.Require().NoError(err)
	s.Require().NotNil(report)
	s.Equal([]domain.ViewStatus{domain.StatusLoading, domain.StatusReady}, seen)

	state := s.service.State()
	s.Equal(domain.StatusReady, state.Status)
	s.Same(report, state.Report)
	s.Nil(state.Err)
	s.mockPeriod.AssertExpectations(s.T())
}

func (s *BooksServiceTestSuite) TestRefresh_WithoutDecrypter() {
	svc := services.NewBooksService(s.mockPeriod, services.NewDerivationService())

	_, err := svc.Refresh(context.Background(), 2025, time.March, "USD")

	s.Require().ErrorIs(err, apperrors.ErrNoKey)
	state := svc.State()
	s.Equal(domain.StatusError, state.Status)
	s.ErrorIs(state.Err, apperrors.ErrNoKey)
	s.mockPeriod.AssertNotCalled(s.T(), "FetchRaw")
}

func (s *BooksServiceTestSuite) TestRefresh_FetchFailure() {
	ctx := context.Background()
	cause := errors.New("connection refused")
	s.mockPeriod.On("FetchRaw", ctx, 2025, time.March, "USD").Return(nil, cause).Once()

	_, err := s.service.Refresh(ctx, 2025, time.March, "USD")

	s.Require().ErrorIs(err, cause)
	state := s.service.State()
	s.Equal(domain.StatusError, state.Status)
	s.ErrorIs(state.Err, cause)
}

// An unchanged payload under the same key serves the cached derivation; the
// fetch still happens, the decrypt does not.
func (s *BooksServiceTestSuite) TestRefresh_UnchangedPayloadSkipsDecryption() {
	ctx := context.Background()
	s.mockPeriod.On("FetchRaw", ctx, 2025, time.March, "USD").Return(rawPeriod("ct.50"), nil).Twice()
	s.mockPeriod.On("Normalize", ctx, s.mockDec, mock.Anything).Return(s.data, nil).Once()

	first, err := s.service.Refresh(ctx, 2025, time.March, "USD")
	s.Require().NoError(err)
	second, err := s.service.Refresh(ctx, 2025, time.March, "USD")
	s.Require().NoError(err)

	s.Same(first, second)
	s.mockPeriod.AssertNumberOfCalls(s.T(), "Normalize", 1)
}

func (s *BooksServiceTestSuite) TestRefresh_ChangedPayloadRederives() {
	ctx := context.Background()
	s.mockPeriod.On("FetchRaw", ctx, 2025, time.March, "USD").Return(rawPeriod("ct.50"), nil).Once()
	s.mockPeriod.On("FetchRaw", ctx, 2025, time.March, "USD").Return(rawPeriod("ct.999"), nil).Once()
	s.mockPeriod.On("Normalize", ctx, s.mockDec, mock.Anything).Return(s.data, nil).Twice()

	_, err := s.service.Refresh(ctx, 2025, time.March, "USD")
	s.Require().NoError(err)
	_, err = s.service.Refresh(ctx, 2025, time.March, "USD")
	s.Require().NoError(err)

	s.mockPeriod.AssertNumberOfCalls(s.T(), "Normalize", 2)
}

func (s *BooksServiceTestSuite) TestSetDecrypter_ResetsStateAndCache() {
	ctx := context.Background()
	s.mockPeriod.On("FetchRaw", ctx, 2025, time.March, "USD").Return(rawPeriod("ct.50"), nil).Twice()
	s.mockPeriod.On("Normalize", ctx, mock.Anything, mock.Anything).Return(s.data, nil).Twice()

	_, err := s.service.Refresh(ctx, 2025, time.March, "USD")
	s.Require().NoError(err)
	s.Equal(domain.StatusReady, s.service.State().Status)

	newDec := new(MockFieldDecrypter)
	newDec.On("KeyID").Return("key-2").Maybe()
	s.service.SetDecrypter(newDec)

	// The held view is gone until a refresh under the new key completes.
	state := s.service.State()
	s.Equal(domain.StatusIdle, state.Status)
	s.Nil(state.Report)

	// The unchanged payload no longer matches the cache.
	_, err = s.service.Refresh(ctx, 2025, time.March, "USD")
	s.Require().NoError(err)
	s.mockPeriod.AssertNumberOfCalls(s.T(), "Normalize", 2)
}

// A slow refresh that is overtaken by a newer one must not clobber the newer
// result: it reports ErrSuperseded and leaves the state alone.
func (s *BooksServiceTestSuite) TestRefresh_SlowRequestSuperseded() {
	ctx := context.Background()
	slowEntered := make(chan struct{})
	release := make(chan struct{})

	s.mockPeriod.On("FetchRaw", ctx, 2025, time.February, "USD").
		Run(func(args mock.Arguments) {
			close(slowEntered)
			<-release
		}).
		Return(rawPeriod("ct.feb"), nil).Once()
	s.mockPeriod.On("FetchRaw", ctx, 2025, time.March, "USD").Return(rawPeriod("ct.mar"), nil).Once()
	s.mockPeriod.On("Normalize", ctx, mock.Anything, mock.Anything).Return(s.data, nil)

	slowErr := make(chan error, 1)
	go func() {
		_, err := s.service.Refresh(ctx, 2025, time.February, "USD")
		slowErr <- err
	}()

	<-slowEntered
	fresh, err := s.service.Refresh(ctx, 2025, time.March, "USD")
	s.Require().NoError(err)
	close(release)

	s.Require().ErrorIs(<-slowErr, apperrors.ErrSuperseded)

	// The newer result is still the one held.
	state := s.service.State()
	s.Equal(domain.StatusReady, state.Status)
	s.Same(fresh, state.Report)
}

func TestBooksServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BooksServiceTestSuite))
}
