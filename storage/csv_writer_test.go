package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"price-comparator/models"
)

func TestCSVWriterWritesProducts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "products.csv")
	scraped := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	w, err := NewCSVWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteProducts([]models.Product{
		{Store: "target.com", Title: "Kettle, 1.7L", Price: 39.5, URL: "https://target.com/s", ScrapedAt: scraped},
	}))
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"store", "title", "price", "url", "scraped_at"}, rows[0])
	assert.Equal(t, []string{"target.com", "Kettle, 1.7L", "39.50", "https://target.com/s", "2024-03-01T09:30:00Z"}, rows[1])
}
