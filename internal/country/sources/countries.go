package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"countryapi/internal/country/models"
)

const (
	// DefaultTimeout bounds every upstream call.
	DefaultTimeout = 5 * time.Second

	countryFields   = "name,capital,region,population,flag,currencies"
	maxResponseSize = 16 << 20
)

// Option configures a source client.
type Option func(*client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

type client struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
}

func newClient(baseURL string, opts ...Option) client {
	c := client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	return c
}

// get performs a bounded GET and returns the status and body.
func (c client) get(ctx context.Context, u string) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, body, nil
}

// CountryClient fetches country metadata from a restcountries v2 compatible API.
type CountryClient struct {
	client
}

// NewCountryClient builds a client for baseURL, e.g. https://restcountries.com/v2.
func NewCountryClient(baseURL string, opts ...Option) *CountryClient {
	return &CountryClient{client: newClient(baseURL, opts...)}
}

// FetchCountries returns every country the source lists. Any failure is a
// *SourceError for SourceCountries.
func (c *CountryClient) FetchCountries(ctx context.Context) ([]models.RawCountry, error) {
	status, body, err := c.get(ctx, c.baseURL+"/all?fields="+countryFields)
	if err != nil {
		return nil, &SourceError{Source: SourceCountries, Err: err}
	}
	return parseCountriesResponse(status, body)
}

func parseCountriesResponse(status int, body []byte) ([]models.RawCountry, error) {
	if status < 200 || status > 299 {
		return nil, unavailable(SourceCountries, "unexpected status: %d", status)
	}
	var countries []models.RawCountry
	if err := json.Unmarshal(body, &countries); err != nil {
		return nil, unavailable(SourceCountries, "decode response: %w", err)
	}
	if len(countries) == 0 {
		return nil, unavailable(SourceCountries, "empty country list")
	}

	out := countries[:0]
	for _, c := range countries {
		if strings.TrimSpace(c.Name) == "" {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
