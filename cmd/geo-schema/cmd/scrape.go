package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mfenderov/geo-schema/internal/cache"
	"github.com/mfenderov/geo-schema/internal/config"
	"github.com/mfenderov/geo-schema/internal/events"
	"github.com/mfenderov/geo-schema/internal/ingestion"
	"github.com/mfenderov/geo-schema/internal/pipeline"
	"github.com/mfenderov/geo-schema/internal/schema"
	"github.com/mfenderov/geo-schema/internal/scraper"
	"github.com/mfenderov/geo-schema/internal/storage"
)

var (
	scrapeURLs   []string
	scrapeSource string
	noIngest     bool
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape articles and generate their schema documents",
	Long: `Fetch articles from configured sources or explicit URLs, then generate and
index a schema document for each published article.

Examples:
  # Scrape all configured sources (scrape + ingest)
  geo-schema scrape

  # Scrape a specific source by name
  geo-schema scrape --source blog

  # Scrape articles directly
  geo-schema scrape --url https://example.com/post-1 --url https://example.com/post-2

  # Scrape only (write units to S3, no ingestion)
  geo-schema scrape --source blog --no-ingest`,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringSliceVar(&scrapeURLs, "url", nil, "Article URL to scrape (repeatable)")
	scrapeCmd.Flags().StringVar(&scrapeSource, "source", "", "Source name from config to scrape")
	scrapeCmd.Flags().BoolVar(&noIngest, "no-ingest", false, "Scrape to S3 only, skip ingestion")
}

func runScrape(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := GetConfig()
	slog.Debug("scrape command starting", "verbose", verbose, "no_ingest", noIngest)

	batches, err := scrapeBatches(cfg.Sources, scrapeSource, scrapeURLs)
	if err != nil {
		return err
	}

	if cfg.Storage.Endpoint != "" {
		return runEventDrivenScrape(ctx, &cfg, batches)
	}

	if noIngest {
		return fmt.Errorf("--no-ingest requires storage to be configured")
	}
	return runDirectPipeline(ctx, &cfg, batches)
}

// scrapeBatches selects the source batches to scrape. Explicit URLs form a
// single unnamed batch and take precedence over configured sources.
func scrapeBatches(sources []config.Source, only string, urls []string) ([]config.Source, error) {
	if len(urls) > 0 {
		return []config.Source{{URLs: urls}}, nil
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no sources configured and no --url provided")
	}

	var batches []config.Source
	for _, source := range sources {
		if only != "" && source.Name != only {
			continue
		}
		if len(source.URLs) > 0 {
			batches = append(batches, source)
		}
	}

	if len(batches) == 0 {
		if only != "" {
			return nil, fmt.Errorf("source %q not found in config", only)
		}
		return nil, fmt.Errorf("no valid sources found in config")
	}
	return batches, nil
}

func newScraper(cfg *config.Config) *scraper.Scraper {
	return scraper.New(scraper.Config{
		Delay:     cfg.Scraper.Delay,
		Timeout:   cfg.Scraper.Timeout,
		UserAgent: cfg.Scraper.UserAgent,
	})
}

func newSchemaCache(cfg *config.Config) *cache.SchemaCache {
	return cache.NewSchemaCache(cache.NewMemory(), cfg.Schema.CacheTTL)
}

func runEventDrivenScrape(ctx context.Context, cfg *config.Config, batches []config.Source) error {
	storageClient, err := newStorageClient(*cfg)
	if err != nil {
		return fmt.Errorf("failed to create storage client: %w", err)
	}

	if err := storageClient.EnsureBucket(ctx); err != nil {
		return fmt.Errorf("failed to ensure bucket: %w", err)
	}

	s := newScraper(cfg)

	if noIngest {
		return runScrapeOnly(ctx, s, storageClient, batches)
	}
	return runScrapeWithIngest(ctx, cfg, s, storageClient, batches)
}

func runScrapeOnly(ctx context.Context, s *scraper.Scraper, storageClient *storage.Client, batches []config.Source) error {
	total := 0

	for _, batch := range batches {
		fmt.Printf("Scraping to S3: %s (%d urls)\n", batchName(batch), len(batch.URLs))

		result, err := s.ScrapeToS3(ctx, batch.Name, batch.URLs, storageClient)
		if err != nil {
			fmt.Printf("  Error: %v\n", err)
			continue
		}

		total += result.UnitCount
		fmt.Printf("  Articles: %d, Prefix: %s\n", result.UnitCount, result.Prefix)
	}

	fmt.Printf("\nTotal: %d articles written to S3\n", total)
	fmt.Println("Run 'geo-schema ingest --prefix <prefix>' to generate their schema documents")
	return nil
}

// runScrapeWithIngest scrapes batches in order while a single consumer
// ingests each completed prefix.
func runScrapeWithIngest(ctx context.Context, cfg *config.Config, s *scraper.Scraper, storageClient *storage.Client, batches []config.Source) error {
	esClient, err := newESClient(*cfg)
	if err != nil {
		return fmt.Errorf("failed to create ES client: %w", err)
	}

	engine := ingestion.New(storageClient, esClient, schema.New(cfg.SchemaOptions()), newSchemaCache(cfg))

	scrapeEvents := make(chan events.ScrapeCompleteEvent)
	done := make(chan struct{})

	var totalIndexed, totalSkipped int
	var totalDuration time.Duration

	go func() {
		defer close(done)
		for event := range scrapeEvents {
			fmt.Printf("Ingesting: %s (%d articles)\n", event.Prefix, event.UnitCount)

			result, err := engine.Ingest(ctx, event.Prefix)
			if err != nil {
				fmt.Printf("  Error: %v\n", err)
				continue
			}

			completed := result.Event()
			totalIndexed += completed.RecordsIndexed
			totalSkipped += completed.Skipped
			totalDuration += completed.Duration

			fmt.Printf("  Schemas indexed: %d, Skipped: %d, Duration: %v\n",
				completed.RecordsIndexed, completed.Skipped, completed.Duration)
			for _, e := range completed.Errors {
				fmt.Printf("  Warning: %s\n", e)
			}
		}
	}()

	total := 0
	for _, batch := range batches {
		fmt.Printf("Scraping: %s (%d urls)\n", batchName(batch), len(batch.URLs))

		result, err := s.ScrapeToS3(ctx, batch.Name, batch.URLs, storageClient)
		if err != nil {
			fmt.Printf("  Error: %v\n", err)
			continue
		}

		total += result.UnitCount
		fmt.Printf("  Articles: %d, Prefix: %s\n", result.UnitCount, result.Prefix)

		scrapeEvents <- events.ScrapeCompleteEvent{
			Bucket:    storageClient.Bucket(),
			Prefix:    result.Prefix,
			Source:    result.Source,
			UnitCount: result.UnitCount,
			Timestamp: time.Now(),
		}
	}

	close(scrapeEvents)
	<-done

	fmt.Printf("\nTotal: %d articles scraped, %d schemas indexed, %d skipped in %v\n",
		total, totalIndexed, totalSkipped, totalDuration)

	return nil
}

// runDirectPipeline indexes records without staging units in S3.
func runDirectPipeline(ctx context.Context, cfg *config.Config, batches []config.Source) error {
	p, err := pipeline.New(pipeline.Config{
		ESAddresses: cfg.Elasticsearch.Addresses,
		ESIndex:     cfg.Elasticsearch.Index,
		ESUsername:  cfg.Elasticsearch.Username,
		ESPassword:  cfg.Elasticsearch.Password,
		ScraperConfig: scraper.Config{
			Delay:     cfg.Scraper.Delay,
			Timeout:   cfg.Scraper.Timeout,
			UserAgent: cfg.Scraper.UserAgent,
		},
		Schema:   cfg.SchemaOptions(),
		CacheTTL: cfg.Schema.CacheTTL,
	})
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	totalScraped := 0
	totalIndexed := 0
	var totalDuration time.Duration

	for _, batch := range batches {
		fmt.Printf("Scraping: %s (%d urls)\n", batchName(batch), len(batch.URLs))

		result, err := p.Run(ctx, batch.URLs)
		if err != nil {
			fmt.Printf("  Error: %v\n", err)
			continue
		}

		totalScraped += result.ArticlesScraped
		totalIndexed += result.RecordsIndexed
		totalDuration += result.Duration

		fmt.Printf("  Articles: %d, Schemas indexed: %d, Skipped: %d, Duration: %v\n",
			result.ArticlesScraped, result.RecordsIndexed, result.Skipped, result.Duration)

		for _, e := range result.Errors {
			fmt.Printf("  Warning: %v\n", e)
		}
	}

	fmt.Printf("\nTotal: %d articles, %d schemas indexed in %v\n",
		totalScraped, totalIndexed, totalDuration)

	return nil
}

func batchName(batch config.Source) string {
	if batch.Name != "" {
		return batch.Name
	}
	return batch.URLs[0]
}
