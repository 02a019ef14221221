package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"price-comparator/models"
	"price-comparator/utils"
)

// Collector fetches every source and extracts its products.
type Collector struct {
	fetcher        Fetcher
	extractor      *Extractor
	logger         *utils.Logger
	maxConcurrency int
	rateLimitMs    int
}

// NewCollector creates a Collector that fetches up to maxConcurrency sources
// at once. rateLimitMs of zero disables spacing between fetches.
func NewCollector(fetcher Fetcher, extractor *Extractor, logger *utils.Logger, maxConcurrency, rateLimitMs int) *Collector {
	return &Collector{
		fetcher:        fetcher,
		extractor:      extractor,
		logger:         logger,
		maxConcurrency: maxConcurrency,
		rateLimitMs:    rateLimitMs,
	}
}

// Collect gathers products from urls, in source order and then document order.
// A failing source contributes nothing. When ctx is cancelled no further
// sources are started; the products already collected are returned together
// with ctx.Err().
func (c *Collector) Collect(ctx context.Context, urls []string, query string) ([]models.Product, error) {
	c.logger.Info("[collector] Starting data collection for %q across %d sources", query, len(urls))

	pool := utils.NewWorkerPool(c.maxConcurrency, c.rateLimitMs)
	results := make([][]models.Product, len(urls))

	for i, u := range urls {
		accepted := pool.Submit(ctx, func() {
			products, err := c.collectSource(ctx, u)
			if err != nil {
				c.logger.Warn("[collector] %v", err)
				return
			}
			c.logger.Info("[collector] Found %d products from %s", len(products), u)
			results[i] = products
		})
		if !accepted {
			c.logger.Warn("[collector] Cancelled — skipping %d remaining sources", len(urls)-i)
			break
		}
	}
	pool.Wait()

	var all []models.Product
	for _, products := range results {
		all = append(all, products...)
	}

	c.logger.Info("[collector] Completed — total products found: %d", len(all))
	return all, ctx.Err()
}

// collectSource fetches and extracts one source.
func (c *Collector) collectSource(ctx context.Context, rawURL string) ([]models.Product, error) {
	store, err := storeName(rawURL)
	if err != nil {
		return nil, &SourceFetchError{URL: rawURL, Err: err}
	}

	c.logger.Debug("[collector] Scraping %s", rawURL)
	body, err := c.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, &SourceFetchError{URL: rawURL, Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &SourceFetchError{URL: rawURL, Err: fmt.Errorf("parse html: %w", err)}
	}

	return c.extractor.Extract(doc.Selection, store, rawURL), nil
}

var errNoHost = errors.New("url has no host")

// storeName derives the retailer label from the URL host, without "www.".
func storeName(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", errNoHost
	}
	return strings.TrimPrefix(u.Host, "www."), nil
}
