package services

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"price-comparator/models"
	"price-comparator/storage"
	"price-comparator/utils"
)

var reportTime = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func newTestReporter() *Reporter {
	return NewReporter(utils.Discard(), func() time.Time { return reportTime })
}

func analysesFor(prices ...float64) []models.DealAnalysis {
	return NewClassifier(utils.Discard()).Classify(productsAt(prices...))
}

func TestAssembleSortsStably(t *testing.T) {
	products := []models.Product{
		{Store: "A", Price: 299.99},
		{Store: "B", Price: 249.99},
		{Store: "C", Price: 349.99},
		{Store: "D", Price: 299.99},
	}
	input := NewClassifier(utils.Discard()).Classify(products)

	report, err := newTestReporter().Assemble(input)
	require.NoError(t, err)

	var stores []string
	for _, a := range report.Analyses {
		stores = append(stores, a.Product.Store)
	}
	assert.Equal(t, []string{"B", "A", "D", "C"}, stores)

	// The caller's slice is left untouched.
	assert.Equal(t, "A", input[0].Product.Store)
}

func TestAssembleSummary(t *testing.T) {
	report, err := newTestReporter().Assemble(analysesFor(299.99, 349.99, 249.99, 269.99, 329.99))
	require.NoError(t, err)

	assert.Equal(t, "Analyzed 5 listings. Found 2 good deals. Best price: $249.99 at BestBuy.", report.Summary)
	assert.Equal(t, reportTime, report.GeneratedAt)
	assert.Equal(t, 249.99, report.Cheapest().Product.Price)
	assert.Equal(t, 349.99, report.MostExpensive().Product.Price)
}

func TestAssembleEmpty(t *testing.T) {
	report, err := newTestReporter().Assemble(nil)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, ErrEmptyReport)
}

func TestRender(t *testing.T) {
	report, err := newTestReporter().Assemble(analysesFor(249.99, 269.99, 299.99, 329.99, 349.99))
	require.NoError(t, err)

	out := newTestReporter().Render(report)

	assert.Contains(t, out, "PRICE COMPARISON REPORT")
	assert.Contains(t, out, "Generated: 2024-03-01 09:30:00")
	assert.Contains(t, out, "SUMMARY: "+report.Summary)
	for _, a := range report.Analyses {
		assert.Contains(t, out, a.Product.Store)
		assert.Contains(t, out, a.Reasoning)
		assert.Contains(t, out, a.Product.URL)
		assert.Contains(t, out, a.Quality.String())
	}
	assert.Contains(t, out, "$249.99")
	assert.Contains(t, out, models.Excellent.Token())
	assert.Contains(t, out, "Buy from Amazon at $249.99")
	assert.Contains(t, out, "You'll save $100.00 compared to the highest price!")

	// Rows follow report order.
	assert.Less(t, strings.Index(out, "$249.99 "), strings.Index(out, "$349.99 "))

	assert.Equal(t, out, newTestReporter().Render(report), "render must be deterministic")
}

func TestExport(t *testing.T) {
	report, err := newTestReporter().Assemble(analysesFor(10, 20))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "price_report.txt")
	require.NoError(t, newTestReporter().Export(report, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, storage.FormatReport(report), string(data))
	assert.True(t, strings.HasPrefix(string(data), "PRICE COMPARISON REPORT - 2024-03-01 09:30:00\n"))
}

func TestExportUnwritableAfterRender(t *testing.T) {
	r := newTestReporter()
	report, err := r.Assemble(analysesFor(10, 20))
	require.NoError(t, err)

	require.NotEmpty(t, r.Render(report))

	err = r.Export(report, t.TempDir())
	var exportErr *storage.ExportError
	require.True(t, errors.As(err, &exportErr), "got %v", err)
}
