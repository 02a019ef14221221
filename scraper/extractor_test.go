package scraper

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"price-comparator/utils"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestExtractor() *Extractor {
	return NewExtractor(utils.Discard(), func() time.Time { return fixedNow }, 0)
}

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		wantOK bool
	}{
		{"$299.99", 299.99, true},
		{"$1,299.99", 1299.99, true},
		{"USD 99", 99, true},
		{"Now 19.99 (was 24.99)", 19.99, true},
		{"€ 1,000", 1000, true},
		{"", 0, false},
		{"Call for price", 0, false},
		{"$0.00", 0, false},
	}

	for _, tt := range tests {
		got, ok := parsePrice(tt.raw)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("parsePrice(%q) = %.2f, %v; want %.2f, %v", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestExtractDivContainers(t *testing.T) {
	doc := mustDoc(t, `<html><body>
		<div class="Product-Card">
			<h3>  Wireless
			   Headphones </h3>
			<span class="price-now">$1,249.50</span>
		</div>
		<div class="item">
			<a class="product-title" href="/p/2">Speaker</a>
			<div class="PRICE">USD 89</div>
		</div>
		<div class="banner"><h2>Sale</h2><span class="price">$1</span></div>
	</body></html>`)

	products := newTestExtractor().Extract(doc.Selection, "shop.example", "https://shop.example/search")
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}

	first := products[0]
	if first.Title != "Wireless Headphones" || first.Price != 1249.50 {
		t.Errorf("first product: got %q %.2f", first.Title, first.Price)
	}
	if first.Store != "shop.example" || first.URL != "https://shop.example/search" {
		t.Errorf("first product source: got %q %q", first.Store, first.URL)
	}
	if !first.ScrapedAt.Equal(fixedNow) {
		t.Errorf("ScrapedAt: got %v, want %v", first.ScrapedAt, fixedNow)
	}
	if products[1].Title != "Speaker" || products[1].Price != 89 {
		t.Errorf("second product: got %q %.2f", products[1].Title, products[1].Price)
	}
}

func TestExtractHeadingWinsOverAnchor(t *testing.T) {
	doc := mustDoc(t, `<div class="product">
		<a class="title">Anchor name</a>
		<h4>Heading name</h4>
		<span class="price">10</span>
	</div>`)

	products := newTestExtractor().Extract(doc.Selection, "s", "u")
	if len(products) != 1 || products[0].Title != "Heading name" {
		t.Fatalf("expected heading name, got %+v", products)
	}
}

func TestExtractFallsBackToArticles(t *testing.T) {
	doc := mustDoc(t, `<body>
		<article><h2>Laptop</h2><p class="sale-price">$899.00</p></article>
		<li class="product"><h2>Ignored</h2><span class="price">$1</span></li>
	</body>`)

	products := newTestExtractor().Extract(doc.Selection, "s", "u")
	if len(products) != 1 || products[0].Title != "Laptop" {
		t.Fatalf("expected only the article product, got %+v", products)
	}
}

func TestExtractFallsBackToListItems(t *testing.T) {
	doc := mustDoc(t, `<ul>
		<li class="grid-item"><h3>Monitor</h3><span class="price">$199</span></li>
		<li class="other"><h3>Skipped</h3><span class="price">$5</span></li>
	</ul>`)

	products := newTestExtractor().Extract(doc.Selection, "s", "u")
	if len(products) != 1 || products[0].Title != "Monitor" {
		t.Fatalf("expected the list item product, got %+v", products)
	}
}

func TestExtractFirstMatchingStrategyOnly(t *testing.T) {
	// The div strategy matches, but its candidate is unusable; articles are
	// not consulted.
	doc := mustDoc(t, `<body>
		<div class="item"><p>no name, no price</p></div>
		<article><h2>Tablet</h2><span class="price">$300</span></article>
	</body>`)

	if products := newTestExtractor().Extract(doc.Selection, "s", "u"); len(products) != 0 {
		t.Fatalf("expected no products, got %+v", products)
	}
}

func TestExtractSkipsIncompleteCandidates(t *testing.T) {
	doc := mustDoc(t, `<body>
		<div class="product"><h3>No price</h3></div>
		<div class="product"><span class="price">$20</span></div>
		<div class="product"><h3>   </h3><span class="price">$20</span></div>
		<div class="product"><h3>Bad price</h3><span class="price">free</span></div>
		<div class="product"><h3>Zero</h3><span class="price">$0</span></div>
		<div class="product"><h3>Good</h3><span class="price">$20</span></div>
	</body>`)

	products := newTestExtractor().Extract(doc.Selection, "s", "u")
	if len(products) != 1 || products[0].Title != "Good" {
		t.Fatalf("expected only the complete candidate, got %+v", products)
	}
	for _, p := range products {
		if p.Price <= 0 || p.Title == "" {
			t.Errorf("invalid product extracted: %+v", p)
		}
	}
}

func TestExtractCapsCandidates(t *testing.T) {
	var b strings.Builder
	b.WriteString("<body>")
	for i := 0; i < 15; i++ {
		b.WriteString(`<div class="product"><h3>P</h3><span class="price">$5</span></div>`)
	}
	b.WriteString("</body>")

	products := newTestExtractor().Extract(mustDoc(t, b.String()).Selection, "s", "u")
	if len(products) != DefaultCandidateLimit {
		t.Errorf("expected %d products, got %d", DefaultCandidateLimit, len(products))
	}

	capped := NewExtractor(utils.Discard(), nil, 3)
	if got := capped.Extract(mustDoc(t, b.String()).Selection, "s", "u"); len(got) != 3 {
		t.Errorf("expected 3 products with limit 3, got %d", len(got))
	}
}

func TestExtractNoCandidates(t *testing.T) {
	doc := mustDoc(t, `<html><body><p>Nothing to see</p></body></html>`)
	if products := newTestExtractor().Extract(doc.Selection, "s", "u"); products != nil {
		t.Errorf("expected nil, got %+v", products)
	}
}
