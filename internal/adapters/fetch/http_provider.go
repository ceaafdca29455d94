// Package fetch ships reference implementations of the accounting data
// provider port. The transport itself is an external collaborator to the
// core; these adapters exist so the CLI and integration tests have a
// concrete source to plug in.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/centavohq/centavo-books/internal/core/ports"
	"github.com/centavohq/centavo-books/internal/dto"
)

const defaultTimeout = 15 * time.Second

// HTTPProvider fetches raw accounting shapes from the backend REST API. It
// owns its own timeout; retry policy is left to the caller.
type HTTPProvider struct {
	baseURL string
	apiKey  string
	token   string
	client  *http.Client
}

var _ ports.AccountingDataProvider = (*HTTPProvider)(nil)

// HTTPProviderOption is a functional option for configuring the provider.
type HTTPProviderOption func(*HTTPProvider)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(client *http.Client) HTTPProviderOption {
	return func(p *HTTPProvider) {
		p.client = client
	}
}

// NewHTTPProvider creates a provider against the given API base URL with
// the caller-supplied credentials.
func NewHTTPProvider(baseURL, apiKey, token string, options ...HTTPProviderOption) *HTTPProvider {
	p := &HTTPProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		token:   token,
		client:  &http.Client{Timeout: defaultTimeout},
	}
	for _, option := range options {
		option(p)
	}
	return p
}

// FetchCurrentMonth retrieves the live current-period shape.
func (p *HTTPProvider) FetchCurrentMonth(ctx context.Context, currency string) (*dto.RawCurrentMonthData, error) {
	endpoint := fmt.Sprintf("%s/v1/accounting/current?currency=%s", p.baseURL, url.QueryEscape(currency))
	var out dto.RawCurrentMonthData
	if err := p.get(ctx, endpoint, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchHistoricalMonth retrieves a closed period's pre-aggregated shape.
func (p *HTTPProvider) FetchHistoricalMonth(ctx context.Context, year int, month time.Month, currency string) (*dto.RawHistoricalData, error) {
	endpoint := fmt.Sprintf("%s/v1/accounting/%d/%d?currency=%s", p.baseURL, year, int(month), url.QueryEscape(currency))
	var out dto.RawHistoricalData
	if err := p.get(ctx, endpoint, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *HTTPProvider) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("x-api-key", p.apiKey)
	}
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, endpoint)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
