package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/centavohq/centavo-books/internal/apperrors"
	"github.com/centavohq/centavo-books/internal/core/ports"
	"github.com/centavohq/centavo-books/internal/dto"
)

// FileProvider serves raw accounting shapes from a local JSON fixture file.
// The fixture holds the same wire shapes the API returns, keyed per period.
type FileProvider struct {
	path string
}

var _ ports.AccountingDataProvider = (*FileProvider)(nil)

// fixtureFile is the on-disk layout: one current-month shape plus any
// number of historical months keyed "YYYY-MM".
type fixtureFile struct {
	Current    *dto.RawCurrentMonthData          `json:"current"`
	Historical map[string]*dto.RawHistoricalData `json:"historical"`
}

// NewFileProvider creates a provider reading from the given fixture path.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

func (p *FileProvider) read() (*fixtureFile, error) {
	raw, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture %s: %w", p.path, err)
	}
	var fixture fixtureFile
	if err := json.Unmarshal(raw, &fixture); err != nil {
		return nil, fmt.Errorf("failed to parse fixture %s: %w", p.path, err)
	}
	return &fixture, nil
}

// FetchCurrentMonth returns the fixture's current-month shape.
func (p *FileProvider) FetchCurrentMonth(ctx context.Context, currency string) (*dto.RawCurrentMonthData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fixture, err := p.read()
	if err != nil {
		return nil, err
	}
	if fixture.Current == nil {
		return nil, fmt.Errorf("%w: fixture has no current-month shape", apperrors.ErrNotFound)
	}
	return fixture.Current, nil
}

// FetchHistoricalMonth returns the fixture's shape for the given period.
func (p *FileProvider) FetchHistoricalMonth(ctx context.Context, year int, month time.Month, currency string) (*dto.RawHistoricalData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fixture, err := p.read()
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("%04d-%02d", year, int(month))
	data, ok := fixture.Historical[key]
	if !ok {
		return nil, fmt.Errorf("%w: fixture has no shape for %s", apperrors.ErrNotFound, key)
	}
	return data, nil
}
