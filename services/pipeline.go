package services

import (
	"context"
	"errors"
	"fmt"

	"price-comparator/models"
	"price-comparator/storage"
	"price-comparator/utils"
)

// ErrNoData stops a run whose collection produced no products.
var ErrNoData = errors.New("no data collected")

// ProductSource collects live listings from retailer URLs.
type ProductSource interface {
	Collect(ctx context.Context, urls []string, query string) ([]models.Product, error)
}

// MockSource synthesizes listings without touching the network.
type MockSource interface {
	Generate(query string) []models.Product
}

// Request describes one comparison run.
type Request struct {
	Query string
	URLs  []string
	Mock  bool
}

// Pipeline runs collection, classification and report assembly.
type Pipeline struct {
	logger     *utils.Logger
	source     ProductSource
	mock       MockSource
	classifier *Classifier
	reporter   *Reporter

	products storage.ProductWriter
	history  storage.AnalysisWriter
}

// NewPipeline wires the stages. source or mock may be nil if that mode is
// never requested.
func NewPipeline(logger *utils.Logger, source ProductSource, mock MockSource, classifier *Classifier, reporter *Reporter) *Pipeline {
	return &Pipeline{
		logger:     logger,
		source:     source,
		mock:       mock,
		classifier: classifier,
		reporter:   reporter,
	}
}

// WithProductWriter stores every collected product before classification.
func (p *Pipeline) WithProductWriter(w storage.ProductWriter) *Pipeline {
	p.products = w
	return p
}

// WithHistory stores every classified analysis after the report is built.
func (p *Pipeline) WithHistory(w storage.AnalysisWriter) *Pipeline {
	p.history = w
	return p
}

// Run collects, classifies and assembles a report for req. It returns
// ErrNoData, without classifying, when nothing was collected. A cancelled
// collection still reports on whatever was gathered before cancellation.
func (p *Pipeline) Run(ctx context.Context, req Request) (*models.Report, error) {
	products, err := p.collect(ctx, req)
	if err != nil {
		p.logger.Warn("[pipeline] Collection interrupted: %v", err)
	}
	if len(products) == 0 {
		return nil, ErrNoData
	}

	if p.products != nil {
		if err := p.products.WriteProducts(products); err != nil {
			p.logger.Error("[pipeline] Product export failed: %v", err)
		}
	}

	analyses := p.classifier.Classify(products)

	report, err := p.reporter.Assemble(analyses)
	if err != nil {
		return nil, fmt.Errorf("pipeline: assemble: %w", err)
	}

	if p.history != nil {
		if err := p.history.WriteAnalyses(req.Query, report.Analyses); err != nil {
			p.logger.Error("[pipeline] History write failed: %v", err)
		}
	}

	return report, nil
}

func (p *Pipeline) collect(ctx context.Context, req Request) ([]models.Product, error) {
	if req.Mock {
		if p.mock == nil {
			return nil, errors.New("pipeline: mock mode not configured")
		}
		return p.mock.Generate(req.Query), nil
	}
	if p.source == nil {
		return nil, errors.New("pipeline: no product source configured")
	}
	return p.source.Collect(ctx, req.URLs, req.Query)
}
