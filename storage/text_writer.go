package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"price-comparator/models"
)

// ExportError reports that a report could not be written to Path.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export: write %q: %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// TextReportWriter writes reports as flat UTF-8 text files.
type TextReportWriter struct {
	path string
}

func NewTextReportWriter(path string) *TextReportWriter {
	return &TextReportWriter{path: path}
}

// Write creates (or truncates) the file and writes FormatReport(report) to it.
// Missing parent directories are created.
func (w *TextReportWriter) Write(report *models.Report) error {
	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &ExportError{Path: w.path, Err: err}
		}
	}
	if err := os.WriteFile(w.path, []byte(FormatReport(report)), 0644); err != nil {
		return &ExportError{Path: w.path, Err: err}
	}
	return nil
}

// FormatReport renders the export layout: a header line with the generation
// time, the summary, then a two-line block per analysis.
func FormatReport(report *models.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "PRICE COMPARISON REPORT - %s\n\n%s\n\n",
		report.GeneratedAt.Format(models.TimestampLayout), report.Summary)

	for _, a := range report.Analyses {
		fmt.Fprintf(&b, "%s: $%.2f - %s\n", a.Product.Store, a.Product.Price, a.Quality)
		fmt.Fprintf(&b, "%s\n\n", a.Reasoning)
	}
	return b.String()
}
