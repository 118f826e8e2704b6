package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v5"
	"go.uber.org/zap"
)

// Config holds the exchange-rate client configuration
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

// Client fetches exchange rates from exchangerate-api and converts amounts.
// It implements port.CurrencyConverter.
type Client struct {
	baseURL    string
	maxRetries int
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new exchange-rate client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.exchangerate-api.com/v4/latest"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		maxRetries: cfg.MaxRetries,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

type ratesResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// Convert converts an amount from one currency to another using the latest
// published rates. Same-currency conversions short-circuit without a call.
func (c *Client) Convert(ctx context.Context, amount float64, from, to string) (float64, error) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)

	if from == to {
		return amount, nil
	}

	rates, err := c.fetchRates(ctx, from)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch rates for %s: %w", from, err)
	}

	rate, ok := rates[to]
	if !ok {
		return 0, fmt.Errorf("no rate from %s to %s", from, to)
	}

	return amount * rate, nil
}

func (c *Client) fetchRates(ctx context.Context, base string) (map[string]float64, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, base)

	var rates map[string]float64

	r := retry.New(
		retry.Context(ctx),
		retry.Attempts(uint(c.maxRetries)),
		retry.DelayType(retry.BackOffDelay),
	)

	attempt := 0
	err := r.Do(func() error {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Warn("exchange rate fetch failed",
				zap.Int("attempt", attempt),
				zap.String("base", base),
				zap.Error(err))
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			c.logger.Warn("exchange rate fetch failed",
				zap.Int("attempt", attempt),
				zap.String("base", base),
				zap.Int("status", resp.StatusCode))
			return fmt.Errorf("exchange rate API returned status %d", resp.StatusCode)
		}

		var parsed ratesResponse
		if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
			return fmt.Errorf("failed to decode rates response: %w", err)
		}

		rates = parsed.Rates
		return nil
	})
	if err != nil {
		return nil, err
	}

	return rates, nil
}
