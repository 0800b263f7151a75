package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/meridianpetro/meridian-backend/internal/models"
)

// FeedArticle is one item of a generic JSON article feed
type FeedArticle struct {
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Source      string     `json:"source"`
	Summary     string     `json:"summary"`
	Content     string     `json:"content"`
	PublishedAt *time.Time `json:"publishedAt"`
}

type articleFeed struct {
	Articles []FeedArticle `json:"articles"`
}

// PriceQuote is the payload of a benchmark price endpoint
type PriceQuote struct {
	Brent      float64 `json:"brent"`
	WTI        float64 `json:"wti"`
	OPECBasket float64 `json:"opecBasket"`
	NaturalGas float64 `json:"naturalGas"`
}

// Fetcher performs HTTP fetches against configured external APIs with
// bounded retry
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a fetcher with a sane default timeout
func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchArticles pulls the article feed described by an API config
func (f *Fetcher) FetchArticles(ctx context.Context, cfg *models.APIConfig) ([]FeedArticle, error) {
	body, err := f.get(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var feed articleFeed
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("malformed article feed: %w", err)
	}
	return feed.Articles, nil
}

// FetchPrices pulls benchmark quotes described by an API config
func (f *Fetcher) FetchPrices(ctx context.Context, cfg *models.APIConfig) (*PriceQuote, error) {
	body, err := f.get(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var quote PriceQuote
	if err := json.Unmarshal(body, &quote); err != nil {
		return nil, fmt.Errorf("malformed price payload: %w", err)
	}
	return &quote, nil
}

// get performs the request with exponential backoff, max 3 attempts
func (f *Fetcher) get(ctx context.Context, cfg *models.APIConfig) ([]byte, error) {
	target, err := buildURL(cfg)
	if err != nil {
		return nil, err
	}

	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		if cfg.APIKey != "" {
			req.Header.Set("X-Api-Key", cfg.APIKey)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := f.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return fmt.Errorf("upstream returned %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("upstream returned %d", resp.StatusCode))
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, 10<<20))
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(
		backoff.NewExponentialBackOff(backoff.WithMaxInterval(30*time.Second)), 2), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return body, nil
}

// buildURL merges the config's query params into its base URL
func buildURL(cfg *models.APIConfig) (string, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}

	if len(cfg.QueryParams) > 0 {
		var params map[string]string
		if err := json.Unmarshal(cfg.QueryParams, &params); err != nil {
			return "", fmt.Errorf("invalid query params: %w", err)
		}
		q := u.Query()
		for k, v := range params {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}
