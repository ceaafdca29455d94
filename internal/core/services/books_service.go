package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/centavohq/centavo-books/internal/apperrors"
	"github.com/centavohq/centavo-books/internal/core/domain"
	"github.com/centavohq/centavo-books/internal/core/ports"
)

// booksCacheKey identifies one derived view: the period plus the currency it
// was requested in.
type booksCacheKey struct {
	Year     int
	Month    time.Month
	Currency string
}

// cachedBooks is the last successful derivation for a key, valid only while
// the raw-input fingerprint and key identity are unchanged.
type cachedBooks struct {
	fingerprint string
	keyID       string
	data        *domain.DecryptedAccountingData
	report      *domain.BooksReport
}

// booksService implements the BooksSvc interface: the derived-view state
// machine, the per-(period, currency) cache and the superseded-request
// guard.
type booksService struct {
	BaseService
	period  ports.PeriodSvc
	deriver ports.DerivationSvc
	locale  string

	mu       sync.Mutex
	dec      ports.FieldDecrypter
	state    domain.ViewState
	gen      uint64
	cache    map[booksCacheKey]cachedBooks
	watchers []func(domain.ViewState)
}

// BooksServiceOption is a functional option for configuring the books
// service.
type BooksServiceOption func(*booksService)

// WithLocale sets the locale used for day-label formatting in derived views.
func WithLocale(locale string) BooksServiceOption {
	return func(s *booksService) {
		s.locale = locale
	}
}

// WithDecrypter sets the initial decryption capability.
func WithDecrypter(dec ports.FieldDecrypter) BooksServiceOption {
	return func(s *booksService) {
		s.dec = dec
	}
}

// NewBooksService creates the derived-view state service.
func NewBooksService(period ports.PeriodSvc, deriver ports.DerivationSvc, options ...BooksServiceOption) ports.BooksSvc {
	svc := &booksService{
		period:  period,
		deriver: deriver,
		locale:  "en-US",
		state:   domain.ViewState{Status: domain.StatusIdle},
		cache:   make(map[booksCacheKey]cachedBooks),
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ ports.BooksSvc = (*booksService)(nil)

// State returns the current view state.
func (s *booksService) State() domain.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Watch registers an observer called on every state change.
func (s *booksService) Watch(fn func(domain.ViewState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchers = append(s.watchers, fn)
}

// SetDecrypter swaps the decryption capability. Anything in flight is
// superseded, the cache entries derived under the old key stop matching, and
// the held view resets: data decrypted with a stale key is never shown.
func (s *booksService) SetDecrypter(dec ports.FieldDecrypter) {
	s.mu.Lock()
	s.dec = dec
	s.gen++
	s.cache = make(map[booksCacheKey]cachedBooks)
	state, watchers := s.transition(domain.EventReset{})
	s.mu.Unlock()
	notify(watchers, state)
}

// transition reduces the state machine; the caller must hold mu. It returns
// the new state plus a snapshot of the watcher list so notification can
// happen outside the lock.
func (s *booksService) transition(ev domain.ViewEvent) (domain.ViewState, []func(domain.ViewState)) {
	s.state = domain.Reduce(s.state, ev)
	watchers := make([]func(domain.ViewState), len(s.watchers))
	copy(watchers, s.watchers)
	return s.state, watchers
}

func notify(watchers []func(domain.ViewState), state domain.ViewState) {
	for _, fn := range watchers {
		fn(state)
	}
}

// Refresh loads, decrypts and derives the requested period. If a newer
// Refresh or a key change happens while this one is in flight, the result
// is discarded and ErrSuperseded returned so a slow fetch can never clobber
// a newer view.
func (s *booksService) Refresh(ctx context.Context, year int, month time.Month, currency string) (*domain.BooksReport, error) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	dec := s.dec
	state, watchers := s.transition(domain.EventLoadStarted{})
	s.mu.Unlock()
	notify(watchers, state)

	report, data, err := s.load(ctx, gen, dec, year, month, currency)

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		s.LogDebug(ctx, "Discarding superseded refresh",
			slog.Int("year", year),
			slog.Int("month", int(month)),
			slog.String("currency", currency))
		return nil, apperrors.ErrSuperseded
	}
	if err != nil {
		state, watchers = s.transition(domain.EventLoadFailed{Err: err})
		s.mu.Unlock()
		notify(watchers, state)
		return nil, err
	}
	state, watchers = s.transition(domain.EventLoadSucceeded{Data: data, Report: report})
	s.mu.Unlock()
	notify(watchers, state)
	return report, nil
}

// load runs the fetch → decrypt → derive pipeline, consulting the cache
// after the fetch so unchanged inputs skip decryption and derivation.
func (s *booksService) load(ctx context.Context, gen uint64, dec ports.FieldDecrypter, year int, month time.Month, currency string) (*domain.BooksReport, *domain.DecryptedAccountingData, error) {
	if dec == nil {
		return nil, nil, apperrors.ErrNoKey
	}

	raw, err := s.period.FetchRaw(ctx, year, month, currency)
	if err != nil {
		return nil, nil, err
	}

	key := booksCacheKey{Year: year, Month: month, Currency: currency}
	fingerprint := raw.Fingerprint()

	s.mu.Lock()
	cached, ok := s.cache[key]
	s.mu.Unlock()
	if ok && cached.fingerprint == fingerprint && cached.keyID == dec.KeyID() {
		s.LogDebug(ctx, "Serving derived view from cache",
			slog.Int("year", year),
			slog.Int("month", int(month)),
			slog.String("currency", currency))
		return cached.report, cached.data, nil
	}

	data, err := s.period.Normalize(ctx, dec, raw)
	if err != nil {
		return nil, nil, err
	}
	report := s.deriver.DeriveAll(ctx, data, s.locale)

	s.mu.Lock()
	if gen == s.gen {
		s.cache[key] = cachedBooks{
			fingerprint: fingerprint,
			keyID:       dec.KeyID(),
			data:        data,
			report:      report,
		}
	}
	s.mu.Unlock()
	return report, data, nil
}
