package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mfenderov/geo-schema/internal/cache"
	"github.com/mfenderov/geo-schema/internal/elasticsearch"
	"github.com/mfenderov/geo-schema/internal/ingestion"
	"github.com/mfenderov/geo-schema/internal/schema"
	"github.com/mfenderov/geo-schema/internal/scraper"
	"github.com/mfenderov/geo-schema/pkg/models"
)

// Config holds pipeline configuration.
type Config struct {
	ESAddresses   []string
	ESIndex       string
	ESUsername    string
	ESPassword    string
	ScraperConfig scraper.Config
	Schema        schema.Options
	CacheTTL      time.Duration
}

// Result holds pipeline execution results.
type Result struct {
	ArticlesScraped int
	RecordsIndexed  int
	Skipped         int
	Duration        time.Duration
	Errors          []error
}

// Pipeline scrapes articles and indexes their schema records directly,
// without staging content units in S3.
type Pipeline struct {
	esClient *elasticsearch.Client
	scraper  *scraper.Scraper
	engine   *ingestion.Engine
}

// New creates a new Pipeline with the given configuration.
func New(config Config) (*Pipeline, error) {
	esClient, err := elasticsearch.New(elasticsearch.Config{
		Addresses: config.ESAddresses,
		Index:     config.ESIndex,
		Username:  config.ESUsername,
		Password:  config.ESPassword,
	})
	if err != nil {
		return nil, err
	}

	engine := ingestion.New(nil, esClient,
		schema.New(config.Schema),
		cache.NewSchemaCache(cache.NewMemory(), config.CacheTTL))

	return &Pipeline{
		esClient: esClient,
		scraper:  scraper.New(config.ScraperConfig),
		engine:   engine,
	}, nil
}

// Run scrapes the given article URLs and indexes a record for each
// published article.
func (p *Pipeline) Run(ctx context.Context, urls []string) (*Result, error) {
	start := time.Now()
	result := &Result{}

	if err := p.esClient.CreateIndex(ctx); err != nil {
		return nil, err
	}

	units, err := p.scraper.Scrape(ctx, urls)
	if err != nil {
		result.Errors = append(result.Errors, err)
	}
	result.ArticlesScraped = len(units)

	for _, unit := range units {
		_, ok, err := p.engine.IndexUnit(ctx, unit)
		switch {
		case !ok:
			slog.Debug("no schema for article", "url", unit.URL)
			result.Skipped++
		case err != nil:
			result.Errors = append(result.Errors, err)
		default:
			result.RecordsIndexed++
		}
	}

	p.esClient.Refresh(ctx)

	result.Duration = time.Since(start)
	return result, nil
}

// Search queries the indexed schema records.
func (p *Pipeline) Search(ctx context.Context, query string, limit int) ([]models.SchemaRecord, error) {
	records, err := p.esClient.Search(ctx, elasticsearch.Query{Text: query, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("pipeline search: %w", err)
	}
	return records, nil
}

// DeleteIndex removes the index (for testing/cleanup).
func (p *Pipeline) DeleteIndex(ctx context.Context) error {
	return p.esClient.DeleteIndex(ctx)
}
