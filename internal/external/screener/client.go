// Package screener fetches company fundamentals from screener.in pages.
// It is a refresh collaborator for callers assembling ranking input; the
// engine itself never reaches out here.
package screener

import (
	"context"
	"fmt"
	"io"

	"github.com/niveshlab/fundrank/backend/pkg/config"
	"github.com/niveshlab/fundrank/backend/pkg/httputil"
	"github.com/niveshlab/fundrank/backend/pkg/logger"
	"github.com/niveshlab/fundrank/backend/pkg/redis"
)

// Client scrapes the ratio table of a company page. Outbound requests share
// one token bucket so refresh loops stay polite.
type Client struct {
	httpClient *httputil.Client
	baseURL    string
	cache      *redis.Cache
	logger     *logger.Logger
}

// New creates a screener client. cache may be nil.
func New(cfg *config.Config, log *logger.Logger, cache *redis.Cache) *Client {
	httpClient := httputil.New(cfg, log).
		WithRateLimit(cfg.Screener.RequestsPerSec, cfg.Screener.Burst)

	return &Client{
		httpClient: httpClient,
		baseURL:    cfg.Screener.BaseURL,
		cache:      cache,
		logger:     log,
	}
}

// FetchFundamentals returns the scraped ratio snapshot for one symbol.
// Results are cached for a day; fundamentals do not move intraday.
func (c *Client) FetchFundamentals(ctx context.Context, symbol string) (*Fundamentals, error) {
	if c.cache != nil {
		var cached Fundamentals
		if found, err := c.cache.Get(ctx, redis.FundamentalsKey(symbol), &cached); err == nil && found {
			return &cached, nil
		}
	}

	url := fmt.Sprintf("%s/company/%s/consolidated/", c.baseURL, symbol)
	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("screener request failed for %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("screener returned %d for %s", resp.StatusCode, symbol)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read screener response for %s: %w", symbol, err)
	}

	f, err := parseCompanyPage(symbol, body)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, redis.FundamentalsKey(symbol), f, redis.TTLDaily); err != nil {
			c.logger.WithError(err).Debug("Failed to cache fundamentals")
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"ratios": f.RatioCount,
	}).Debug("Fetched fundamentals")
	return f, nil
}
