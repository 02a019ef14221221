package models

import "time"

// Product is a single normalized listing collected from one retailer.
// It is created once by the extractor or the mock generator and passed by
// value afterwards.
type Product struct {
	Store     string
	Title     string
	Price     float64
	URL       string
	ScrapedAt time.Time
}
