package models

import "time"

// DealQuality ranks a listing against the batch average price.
type DealQuality int

const (
	Excellent DealQuality = iota
	Good
	Average
	Poor

	qualityCount
)

var qualityNames = [qualityCount]string{
	Excellent: "EXCELLENT",
	Good:      "GOOD",
	Average:   "AVERAGE",
	Poor:      "POOR",
}

var qualityTokens = [qualityCount]string{
	Excellent: "🔥",
	Good:      "✅",
	Average:   "⚠️",
	Poor:      "❌",
}

// AllQualities lists every tier from best to worst.
func AllQualities() []DealQuality {
	return []DealQuality{Excellent, Good, Average, Poor}
}

func (q DealQuality) String() string {
	if q < 0 || q >= qualityCount {
		return "UNKNOWN"
	}
	return qualityNames[q]
}

// ParseDealQuality is the inverse of String. Unknown names map to Average.
func ParseDealQuality(s string) DealQuality {
	for _, q := range AllQualities() {
		if qualityNames[q] == s {
			return q
		}
	}
	return Average
}

// Token returns the glyph shown next to the tier in rendered reports.
func (q DealQuality) Token() string {
	if q < 0 || q >= qualityCount {
		return "?"
	}
	return qualityTokens[q]
}

// DealAnalysis is the classification of one Product within its batch.
type DealAnalysis struct {
	Product      Product
	AveragePrice float64
	PriceDelta   float64
	PercentDelta float64
	IsGoodDeal   bool
	Quality      DealQuality
	Reasoning    string
}

// BatchStats holds the price distribution of a classified batch.
type BatchStats struct {
	Count        int
	MinPrice     float64
	MaxPrice     float64
	AveragePrice float64
}

// TimestampLayout is how report generation times are printed.
const TimestampLayout = "2006-01-02 15:04:05"

// Report is the sorted, summarized outcome of one run.
type Report struct {
	Analyses    []DealAnalysis
	Summary     string
	GeneratedAt time.Time
}

// Cheapest returns the first (lowest priced) analysis.
func (r *Report) Cheapest() DealAnalysis {
	return r.Analyses[0]
}

// MostExpensive returns the last (highest priced) analysis.
func (r *Report) MostExpensive() DealAnalysis {
	return r.Analyses[len(r.Analyses)-1]
}

// Observation is a stored analysis from an earlier run.
type Observation struct {
	ID       int64
	Query    string
	RunAt    time.Time
	Analysis DealAnalysis
}
