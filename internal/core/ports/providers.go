package ports

import (
	"context"
	"time"

	"github.com/centavohq/centavo-books/internal/dto"
)

// AccountingDataProvider is the external data-fetch collaborator. It owns
// its own timeout/retry policy; errors propagate as-is into the view error
// state.
type AccountingDataProvider interface {
	// FetchCurrentMonth returns the live (still-open) period's raw shape.
	FetchCurrentMonth(ctx context.Context, currency string) (*dto.RawCurrentMonthData, error)

	// FetchHistoricalMonth returns a closed period's pre-aggregated shape.
	FetchHistoricalMonth(ctx context.Context, year int, month time.Month, currency string) (*dto.RawHistoricalData, error)
}
