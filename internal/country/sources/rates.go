package sources

import (
	"context"
	"encoding/json"

	"countryapi/internal/country/models"
)

// BaseCurrency is the currency every rate is quoted against.
const BaseCurrency = "USD"

// RateClient fetches exchange rates from an open.er-api.com compatible API.
type RateClient struct {
	client
}

// NewRateClient builds a client for baseURL, e.g. https://open.er-api.com/v6.
func NewRateClient(baseURL string, opts ...Option) *RateClient {
	return &RateClient{client: newClient(baseURL, opts...)}
}

type ratesResponse struct {
	Result   string             `json:"result"`
	BaseCode string             `json:"base_code"`
	Rates    map[string]float64 `json:"rates"`
}

// FetchRates returns the USD rate table. Any failure is a *SourceError for
// SourceRates.
func (c *RateClient) FetchRates(ctx context.Context) (models.RateTable, error) {
	status, body, err := c.get(ctx, c.baseURL+"/latest/"+BaseCurrency)
	if err != nil {
		return nil, &SourceError{Source: SourceRates, Err: err}
	}
	return parseRatesResponse(status, body)
}

func parseRatesResponse(status int, body []byte) (models.RateTable, error) {
	if status < 200 || status > 299 {
		return nil, unavailable(SourceRates, "unexpected status: %d", status)
	}
	var resp ratesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, unavailable(SourceRates, "decode response: %w", err)
	}
	if resp.Result != "" && resp.Result != "success" {
		return nil, unavailable(SourceRates, "upstream result %q", resp.Result)
	}
	if len(resp.Rates) == 0 {
		return nil, unavailable(SourceRates, "empty rate table")
	}
	return models.RateTable(resp.Rates), nil
}
