package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"price-comparator/models"
)

// PostgresWriter keeps a history of classified listings in PostgreSQL.
type PostgresWriter struct {
	db  *sql.DB
	now func() time.Time
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 5; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db, now: time.Now}
	if err := pw.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS price_observations (
			id            SERIAL PRIMARY KEY,
			run_at        TIMESTAMPTZ   NOT NULL,
			query         TEXT          NOT NULL,
			store         TEXT          NOT NULL,
			title         TEXT          NOT NULL,
			price         NUMERIC(12,2) NOT NULL,
			url           TEXT          NOT NULL,
			average_price NUMERIC(12,2) NOT NULL,
			price_delta   NUMERIC(12,2) NOT NULL,
			percent_delta NUMERIC(8,2)  NOT NULL,
			deal_quality  VARCHAR(16)   NOT NULL,
			is_good_deal  BOOLEAN       NOT NULL,
			reasoning     TEXT          NOT NULL DEFAULT '',
			scraped_at    TIMESTAMPTZ   NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_observations_query  ON price_observations(query);
		CREATE INDEX IF NOT EXISTS idx_observations_run_at ON price_observations(run_at);
	`)
	return err
}

// WriteAnalyses batch-inserts every analysis of one run under query.
func (pw *PostgresWriter) WriteAnalyses(query string, analyses []models.DealAnalysis) error {
	if len(analyses) == 0 {
		return nil
	}

	runAt := pw.now()
	const batchSize = 50
	for i := 0; i < len(analyses); i += batchSize {
		end := i + batchSize
		if end > len(analyses) {
			end = len(analyses)
		}
		if err := pw.insertBatch(runAt, query, analyses[i:end]); err != nil {
			return fmt.Errorf("postgres: insert: %w", err)
		}
	}
	return nil
}

const observationColumns = 13

func (pw *PostgresWriter) insertBatch(runAt time.Time, query string, batch []models.DealAnalysis) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*observationColumns)

	for idx, a := range batch {
		base := idx * observationColumns
		placeholders := make([]string, observationColumns)
		for c := range placeholders {
			placeholders[c] = fmt.Sprintf("$%d", base+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			runAt, query, a.Product.Store, a.Product.Title, a.Product.Price, a.Product.URL,
			a.AveragePrice, a.PriceDelta, a.PercentDelta, a.Quality.String(), a.IsGoodDeal,
			a.Reasoning, a.Product.ScrapedAt)
	}

	stmt := fmt.Sprintf(`
		INSERT INTO price_observations (run_at, query, store, title, price, url,
			average_price, price_delta, percent_delta, deal_quality, is_good_deal,
			reasoning, scraped_at)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(stmt, valueArgs...)
	return err
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// FetchByQuery returns the most recent observations stored for query, newest
// run first and cheapest first within a run.
func (pw *PostgresWriter) FetchByQuery(query string, limit int) ([]models.Observation, error) {
	rows, err := pw.db.Query(`
		SELECT id, run_at, query, store, title, price, url, average_price,
		       price_delta, percent_delta, deal_quality, is_good_deal, reasoning, scraped_at
		FROM price_observations
		WHERE query = $1
		ORDER BY run_at DESC, price ASC, id ASC
		LIMIT $2
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch by query: %w", err)
	}
	defer rows.Close()

	var observations []models.Observation
	for rows.Next() {
		var (
			o       models.Observation
			quality string
		)
		a := &o.Analysis
		if err := rows.Scan(
			&o.ID, &o.RunAt, &o.Query, &a.Product.Store, &a.Product.Title, &a.Product.Price,
			&a.Product.URL, &a.AveragePrice, &a.PriceDelta, &a.PercentDelta, &quality,
			&a.IsGoodDeal, &a.Reasoning, &a.Product.ScrapedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		a.Quality = models.ParseDealQuality(quality)
		observations = append(observations, o)
	}
	return observations, rows.Err()
}
