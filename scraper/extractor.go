package scraper

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"price-comparator/models"
	"price-comparator/utils"
)

// DefaultCandidateLimit caps how many candidate containers are read per page.
const DefaultCandidateLimit = 10

var (
	containerClass = regexp.MustCompile(`(?i)product|item`)
	titleClass     = regexp.MustCompile(`(?i)title|name`)
	priceClass     = regexp.MustCompile(`(?i)price`)
	// priceRegexp captures the first numeric run, thousands separators included
	priceRegexp = regexp.MustCompile(`\d[\d,]*\.?\d*`)
)

// discoveryStrategy selects candidate containers. A nil match accepts every
// element the selector finds.
type discoveryStrategy struct {
	name     string
	selector string
	match    func(*goquery.Selection) bool
}

// discoveryStrategies are tried in order; the first one that finds anything wins.
var discoveryStrategies = []discoveryStrategy{
	{name: "div.product|item", selector: "div", match: classMatches(containerClass)},
	{name: "article", selector: "article"},
	{name: "li.product|item", selector: "li", match: classMatches(containerClass)},
}

func classMatches(re *regexp.Regexp) func(*goquery.Selection) bool {
	return func(s *goquery.Selection) bool {
		class, ok := s.Attr("class")
		return ok && re.MatchString(class)
	}
}

// Extractor turns a parsed retailer page into Product records.
type Extractor struct {
	logger *utils.Logger
	now    func() time.Time
	limit  int
}

// NewExtractor creates an Extractor. now stamps ScrapedAt; limit <= 0 means
// DefaultCandidateLimit.
func NewExtractor(logger *utils.Logger, now func() time.Time, limit int) *Extractor {
	if now == nil {
		now = time.Now
	}
	if limit <= 0 {
		limit = DefaultCandidateLimit
	}
	return &Extractor{logger: logger, now: now, limit: limit}
}

// Extract returns every product found in the candidate containers of root,
// in document order. Candidates without a usable name or price are skipped.
func (e *Extractor) Extract(root *goquery.Selection, store, origin string) []models.Product {
	candidates, strategy := e.discover(root)
	if candidates == nil {
		e.logger.Debug("[extractor] No candidate containers on %s", origin)
		return nil
	}

	e.logger.Debug("[extractor] %s matched %d containers on %s (reading %d)",
		strategy, candidates.Length(), origin, min(candidates.Length(), e.limit))

	var products []models.Product
	candidates.Slice(0, min(candidates.Length(), e.limit)).Each(func(i int, sel *goquery.Selection) {
		p, ok := e.ExtractCandidate(sel, store, origin)
		if !ok {
			e.logger.Debug("[extractor] Candidate %d on %s has no usable name/price", i, origin)
			return
		}
		products = append(products, p)
	})
	return products
}

func (e *Extractor) discover(root *goquery.Selection) (*goquery.Selection, string) {
	for _, s := range discoveryStrategies {
		found := root.Find(s.selector)
		if s.match != nil {
			found = found.FilterFunction(func(_ int, sel *goquery.Selection) bool {
				return s.match(sel)
			})
		}
		if found.Length() > 0 {
			return found, s.name
		}
	}
	return nil, ""
}

// ExtractCandidate reads one product from a candidate container. The bool is
// false when the name or price is missing or unusable.
func (e *Extractor) ExtractCandidate(sel *goquery.Selection, store, origin string) (models.Product, bool) {
	nameSel := findName(sel)
	priceSel := sel.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return classMatches(priceClass)(s)
	}).First()

	if nameSel.Length() == 0 || priceSel.Length() == 0 {
		return models.Product{}, false
	}

	title := normaliseText(nameSel.Text())
	if title == "" {
		return models.Product{}, false
	}

	price, ok := parsePrice(priceSel.Text())
	if !ok {
		return models.Product{}, false
	}

	return models.Product{
		Store:     store,
		Title:     title,
		Price:     price,
		URL:       origin,
		ScrapedAt: e.now(),
	}, true
}

// findName prefers a heading and falls back to a title/name anchor.
func findName(sel *goquery.Selection) *goquery.Selection {
	if h := sel.Find("h2, h3, h4").First(); h.Length() > 0 {
		return h
	}
	return sel.Find("a").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return classMatches(titleClass)(s)
	}).First()
}

// parsePrice takes the first numeric run in raw and drops thousands separators.
// Examples:
//
//	"$1,299.99" → 1299.99
//	"Now 19.99 (was 24.99)" → 19.99
func parsePrice(raw string) (float64, bool) {
	match := priceRegexp.FindString(raw)
	if match == "" {
		return 0, false
	}

	price, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil || price <= 0 {
		return 0, false
	}
	return price, true
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}
