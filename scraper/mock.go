package scraper

import (
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"price-comparator/models"
	"price-comparator/utils"
)

// MockStores are the retailers mock mode produces listings for.
var MockStores = []string{"Amazon", "Walmart", "BestBuy", "Target", "eBay"}

// RandomSource yields uniformly distributed values.
type RandomSource interface {
	Uniform(min, max float64) float64
}

// SeededRandom is a RandomSource backed by math/rand. It is safe for
// concurrent use.
type SeededRandom struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededRandom creates a SeededRandom. A seed of zero uses the current time.
func NewSeededRandom(seed int64) *SeededRandom {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &SeededRandom{rng: rand.New(rand.NewSource(seed))}
}

func (r *SeededRandom) Uniform(min, max float64) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return min + r.rng.Float64()*(max-min)
}

// MockGenerator synthesizes listings for demos and tests without any network.
type MockGenerator struct {
	logger    *utils.Logger
	random    RandomSource
	now       func() time.Time
	basePrice float64
	spread    float64
}

// NewMockGenerator creates a MockGenerator pricing around basePrice ± spread.
func NewMockGenerator(logger *utils.Logger, random RandomSource, now func() time.Time, basePrice, spread float64) *MockGenerator {
	if now == nil {
		now = time.Now
	}
	return &MockGenerator{
		logger:    logger,
		random:    random,
		now:       now,
		basePrice: basePrice,
		spread:    spread,
	}
}

// Generate returns one listing per MockStores entry, in that order.
func (m *MockGenerator) Generate(query string) []models.Product {
	m.logger.Info("[mock] Generating mock data for %q", query)

	products := make([]models.Product, 0, len(MockStores))
	for _, store := range MockStores {
		price := round2(m.basePrice + m.random.Uniform(-m.spread, m.spread))
		if price <= 0 {
			// keep the Price > 0 invariant for oversized spreads
			price = 0.01
		}
		products = append(products, models.Product{
			Store:     store,
			Title:     query,
			Price:     price,
			URL:       "https://" + strings.ToLower(store) + ".com/product",
			ScrapedAt: m.now(),
		})
	}

	m.logger.Info("[mock] Generated %d mock product listings", len(products))
	return products
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
