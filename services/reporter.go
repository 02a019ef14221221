package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"price-comparator/models"
	"price-comparator/storage"
	"price-comparator/utils"
)

// ErrEmptyReport is returned when a report is requested for zero analyses.
var ErrEmptyReport = errors.New("report: no analyses to report on")

// Reporter assembles, renders and exports comparison reports.
type Reporter struct {
	logger *utils.Logger
	now    func() time.Time
}

func NewReporter(logger *utils.Logger, now func() time.Time) *Reporter {
	if now == nil {
		now = time.Now
	}
	return &Reporter{logger: logger, now: now}
}

// Assemble sorts a copy of analyses by ascending price, keeping the input
// order for equal prices, and summarizes it.
func (r *Reporter) Assemble(analyses []models.DealAnalysis) (*models.Report, error) {
	if len(analyses) == 0 {
		return nil, ErrEmptyReport
	}

	sorted := SortByPrice(analyses)

	goodDeals := 0
	for _, a := range sorted {
		if a.IsGoodDeal {
			goodDeals++
		}
	}
	best := sorted[0].Product

	report := &models.Report{
		Analyses: sorted,
		Summary: fmt.Sprintf("Analyzed %d listings. Found %d good deals. Best price: $%.2f at %s.",
			len(sorted), goodDeals, best.Price, best.Store),
		GeneratedAt: r.now(),
	}

	r.logger.Info("[reporter] Report generated — %d listings", len(sorted))
	return report, nil
}

// SortByPrice returns a new slice ordered by ascending price. Ties keep
// their relative order.
func SortByPrice(analyses []models.DealAnalysis) []models.DealAnalysis {
	sorted := make([]models.DealAnalysis, len(analyses))
	copy(sorted, analyses)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Product.Price < sorted[j].Product.Price
	})
	return sorted
}

// Render formats the report for the terminal.
func (r *Reporter) Render(report *models.Report) string {
	sep := strings.Repeat("=", 80)

	var b strings.Builder
	b.WriteString(sep + "\n")
	b.WriteString("                         PRICE COMPARISON REPORT\n")
	b.WriteString(sep + "\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", report.GeneratedAt.Format(models.TimestampLayout))
	fmt.Fprintf(&b, "SUMMARY: %s\n", report.Summary)
	b.WriteString(sep + "\n\n")

	t := table.NewWriter()
	t.AppendHeader(table.Row{"", "Store", "Price", "Quality", "Reasoning", "URL"})
	for _, a := range report.Analyses {
		t.AppendRow(table.Row{
			a.Quality.Token(),
			a.Product.Store,
			fmt.Sprintf("$%.2f", a.Product.Price),
			a.Quality.String(),
			a.Reasoning,
			a.Product.URL,
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
	})
	t.SetStyle(table.StyleRounded)
	b.WriteString(t.Render())
	b.WriteString("\n\n")

	best := report.Cheapest().Product
	savings := report.MostExpensive().Product.Price - best.Price

	b.WriteString(sep + "\n")
	b.WriteString("RECOMMENDATION:\n")
	fmt.Fprintf(&b, "   Buy from %s at $%.2f\n", best.Store, best.Price)
	fmt.Fprintf(&b, "   You'll save $%.2f compared to the highest price!\n", savings)
	b.WriteString(sep + "\n")

	return b.String()
}

// Export writes the flat text rendering of report to path.
func (r *Reporter) Export(report *models.Report, path string) error {
	if err := storage.NewTextReportWriter(path).Write(report); err != nil {
		return err
	}
	r.logger.Info("[reporter] Report exported to %s", path)
	return nil
}
