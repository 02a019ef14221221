package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"price-comparator/config"
	"price-comparator/scraper"
	"price-comparator/services"
	"price-comparator/storage"
	"price-comparator/utils"
)

const banner = `╔════════════════════════════════════════════════════════════╗
║        MULTI-AGENT PRICE COMPARISON SYSTEM                 ║
╚════════════════════════════════════════════════════════════╝`

type options struct {
	product string
	mock    bool
	urls    []string
	export  bool
	output  string
}

// NewRootCmd builds the price-comparator command. now is the clock used for
// timestamps; nil means time.Now.
func NewRootCmd(cfg *config.Config, logger *utils.Logger, now func() time.Time) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "price-comparator",
		Short: "price-comparator collects listings for a product and ranks them against the market average.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, cfg, logger, now, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVarP(&opts.product, "product", "p", "", "Product name to search for.")
	cmd.Flags().BoolVar(&opts.mock, "mock", false, "Use generated demo data instead of fetching stores.")
	cmd.Flags().StringArrayVarP(&opts.urls, "url", "u", nil, "Store URL to scrape; repeat for several stores.")
	cmd.Flags().BoolVar(&opts.export, "export", false, "Export the report without asking.")
	cmd.Flags().StringVarP(&opts.output, "output", "o", cfg.ReportPath, "Path of the exported report.")

	cmd.AddCommand(newHistoryCmd(cfg, logger))
	return cmd
}

func run(cmd *cobra.Command, cfg *config.Config, logger *utils.Logger, now func() time.Time, opts *options) error {
	out := cmd.OutOrStdout()
	p := newPrompter(cmd.InOrStdin(), out)

	fmt.Fprintln(out, banner)
	fmt.Fprintln(out)

	req := services.Request{Query: opts.product, URLs: opts.urls, Mock: opts.mock}
	if req.Query == "" {
		req.Query = p.ask("Enter product name to search: ")
	}
	if req.Query == "" {
		return errors.New("a product name is required")
	}
	if !cmd.Flags().Changed("mock") && len(req.URLs) == 0 {
		req.Mock = p.confirm("\nUse mock data for demo?")
	}
	if !req.Mock && len(req.URLs) == 0 {
		req.URLs = p.lines("\nEnter store URLs (one per line, empty line to finish):")
	}

	pipeline, closeAll, err := buildPipeline(cfg, logger, now)
	if err != nil {
		return err
	}
	defer closeAll()

	report, err := pipeline.Run(cmd.Context(), req)
	if errors.Is(err, services.ErrNoData) {
		fmt.Fprintln(out, "\n❌ No data collected. Exiting.")
		return err
	}
	if err != nil {
		return err
	}

	reporter := services.NewReporter(logger, now)
	fmt.Fprintln(out)
	fmt.Fprint(out, reporter.Render(report))

	if opts.export || p.confirm("Export report to file?") {
		if err := reporter.Export(report, opts.output); err != nil {
			return err
		}
		fmt.Fprintf(out, "Report exported to %s\n", opts.output)
	}

	fmt.Fprintln(out, "\n✓ Process complete!")
	return nil
}

func buildPipeline(cfg *config.Config, logger *utils.Logger, now func() time.Time) (*services.Pipeline, func(), error) {
	var closers []func() error
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
	}

	timeout := time.Duration(cfg.RequestTimeoutSec) * time.Second
	var fetcher scraper.Fetcher
	switch cfg.Fetcher {
	case "browser":
		bf := scraper.NewBrowserFetcher(cfg.ChromeBin, timeout, logger)
		closers = append(closers, bf.Close)
		fetcher = bf
	default:
		fetcher = scraper.NewHTTPFetcher(timeout, cfg.MaxRetries, logger)
	}

	extractor := scraper.NewExtractor(logger, now, cfg.CandidateLimit)
	collector := scraper.NewCollector(fetcher, extractor, logger, cfg.MaxConcurrency, cfg.RateLimitMs)
	mock := scraper.NewMockGenerator(logger, scraper.NewSeededRandom(cfg.MockSeed), now,
		cfg.MockBasePrice, cfg.MockSpread)

	pipeline := services.NewPipeline(logger, collector, mock,
		services.NewClassifier(logger), services.NewReporter(logger, now))

	if cfg.CSVOutputPath != "" {
		csvWriter, err := storage.NewCSVWriter(cfg.CSVOutputPath)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, csvWriter.Close)
		pipeline.WithProductWriter(csvWriter)
	}

	if cfg.PostgresEnabled {
		pgWriter, err := storage.NewPostgresWriter(cfg.DSN())
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, pgWriter.Close)
		pipeline.WithHistory(pgWriter)
	}

	return pipeline, closeAll, nil
}

// ExecuteContext loads configuration from the environment and runs the CLI.
func ExecuteContext(ctx context.Context) {
	cfg := config.Load()
	logger := utils.NewLogger(cfg.LogLevel)

	if err := NewRootCmd(cfg, logger, time.Now).ExecuteContext(ctx); err != nil {
		if !errors.Is(err, services.ErrNoData) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
