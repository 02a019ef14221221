package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"price-comparator/utils"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Fetcher retrieves the raw document behind a source URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher fetches pages with a plain HTTP client.
type HTTPFetcher struct {
	client *resty.Client
	retry  *utils.RetryConfig
}

// NewHTTPFetcher creates an HTTPFetcher with a per-request timeout. maxAttempts
// of 1 disables retries.
func NewHTTPFetcher(timeout time.Duration, maxAttempts int, logger *utils.Logger) *HTTPFetcher {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml")

	return &HTTPFetcher{
		client: client,
		retry: &utils.RetryConfig{
			MaxAttempts: maxAttempts,
			BaseDelay:   500 * time.Millisecond,
			Logger:      logger,
		},
	}
}

// Fetch returns the response body, or an error for transport failures and
// non-2xx statuses.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var body []byte

	err := f.retry.Do(ctx, "fetch "+url, func(ctx context.Context) error {
		res, err := f.client.R().
			SetContext(ctx).
			Get(url)
		if err != nil {
			return fmt.Errorf("http get: %w", err)
		}
		if !res.IsSuccess() {
			return fmt.Errorf("http get: unexpected status %d", res.StatusCode())
		}
		body = res.Body()
		return nil
	})

	return body, err
}
