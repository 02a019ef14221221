package storage

import "price-comparator/models"

// ReportWriter persists a finished comparison report.
type ReportWriter interface {
	Write(report *models.Report) error
}

// ProductWriter persists the products collected in one run.
type ProductWriter interface {
	WriteProducts(products []models.Product) error
	Close() error
}

// AnalysisWriter persists classified results of one run.
type AnalysisWriter interface {
	WriteAnalyses(query string, analyses []models.DealAnalysis) error
	Close() error
}
