package services

import (
	"fmt"
	"math"

	"price-comparator/models"
	"price-comparator/utils"
)

// Percent thresholds against the batch average. Each bound is inclusive.
const (
	excellentMaxPercent = -15.0
	goodMaxPercent      = -5.0
	averageMaxPercent   = 5.0
)

// Classifier labels every product of a batch against the batch average price.
type Classifier struct {
	logger *utils.Logger
}

func NewClassifier(logger *utils.Logger) *Classifier {
	return &Classifier{logger: logger}
}

// Classify returns one analysis per product, in input order. An empty batch
// yields an empty result.
func (c *Classifier) Classify(products []models.Product) []models.DealAnalysis {
	c.logger.Info("[classifier] Analyzing %d products for deals...", len(products))

	if len(products) == 0 {
		c.logger.Info("[classifier] No products to analyze")
		return []models.DealAnalysis{}
	}

	stats := Stats(products)
	c.logger.Info("[classifier] Price range: $%.2f - $%.2f | Average: $%.2f",
		stats.MinPrice, stats.MaxPrice, stats.AveragePrice)

	analyses := make([]models.DealAnalysis, 0, len(products))
	goodDeals := 0
	for _, p := range products {
		a := analyze(p, stats.AveragePrice)
		if a.IsGoodDeal {
			goodDeals++
		}
		analyses = append(analyses, a)
	}

	c.logger.Info("[classifier] Analysis complete — %d good deals out of %d", goodDeals, len(analyses))
	return analyses
}

// Stats computes the price distribution of a non-empty batch. An empty batch
// returns the zero value.
func Stats(products []models.Product) models.BatchStats {
	if len(products) == 0 {
		return models.BatchStats{}
	}

	stats := models.BatchStats{
		Count:    len(products),
		MinPrice: products[0].Price,
		MaxPrice: products[0].Price,
	}
	var total float64
	for _, p := range products {
		total += p.Price
		stats.MinPrice = math.Min(stats.MinPrice, p.Price)
		stats.MaxPrice = math.Max(stats.MaxPrice, p.Price)
	}
	stats.AveragePrice = total / float64(len(products))
	return stats
}

func analyze(p models.Product, avg float64) models.DealAnalysis {
	delta := p.Price - avg
	percent := delta * 100 / avg
	quality, good := ClassifyPercent(percent)

	return models.DealAnalysis{
		Product:      p,
		AveragePrice: avg,
		PriceDelta:   delta,
		PercentDelta: percent,
		IsGoodDeal:   good,
		Quality:      quality,
		Reasoning:    reasoning(quality, percent),
	}
}

// ClassifyPercent maps a deviation from the average, in percent, to a tier
// and whether it counts as a good deal.
func ClassifyPercent(percent float64) (models.DealQuality, bool) {
	switch {
	case percent <= excellentMaxPercent:
		return models.Excellent, true
	case percent <= goodMaxPercent:
		return models.Good, true
	case percent <= averageMaxPercent:
		return models.Average, false
	default:
		return models.Poor, false
	}
}

func reasoning(q models.DealQuality, percent float64) string {
	switch q {
	case models.Excellent:
		return fmt.Sprintf("Price is %.1f%% below average - exceptional deal!", math.Abs(percent))
	case models.Good:
		return fmt.Sprintf("Price is %.1f%% below average - good value.", math.Abs(percent))
	case models.Average:
		if math.Abs(percent) < 0.05 {
			percent = 0 // avoid printing -0.0
		}
		return fmt.Sprintf("Price is close to market average (%.1f%%).", percent)
	default:
		return fmt.Sprintf("Price is %.1f%% above average - not recommended.", percent)
	}
}
