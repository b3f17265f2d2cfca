package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mfenderov/geo-schema/internal/ingestion"
	"github.com/mfenderov/geo-schema/internal/schema"
)

var ingestPrefix string

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Generate schema documents for a stored scrape",
	Long: `Generate and index schema documents for content units previously
scraped to S3. Each generated document is also written back next to its unit.

Use this command to re-run generation after changing schema settings,
or to process scrapes that were created with --no-ingest.

Examples:
  # Ingest a specific scrape by prefix
  geo-schema ingest --prefix scrapes/example.com/2024-12-04T17-30-00-abc12345`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVar(&ingestPrefix, "prefix", "", "S3 prefix to ingest (required)")
	ingestCmd.MarkFlagRequired("prefix")
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := GetConfig()
	slog.Debug("ingest command starting", "prefix", ingestPrefix)

	if cfg.Storage.Endpoint == "" {
		return fmt.Errorf("storage not configured - check config file")
	}

	storageClient, err := newStorageClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to create storage client: %w", err)
	}

	esClient, err := newESClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to create ES client: %w", err)
	}

	engine := ingestion.New(storageClient, esClient, schema.New(cfg.SchemaOptions()), newSchemaCache(&cfg))

	fmt.Printf("Ingesting: %s\n", ingestPrefix)
	if meta, err := storageClient.GetMetadata(ctx, ingestPrefix); err != nil {
		slog.Warn("no scrape metadata for prefix", "prefix", ingestPrefix, "error", err)
	} else {
		fmt.Printf("  Source: %s, scraped %s, %d articles\n", meta.Source, meta.Timestamp, meta.UnitCount)
	}

	result, err := engine.Ingest(ctx, ingestPrefix)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Printf("\nIngestion complete:\n")
	fmt.Printf("  Schemas indexed: %d\n", result.RecordsIndexed)
	fmt.Printf("  Skipped: %d\n", result.Skipped)
	fmt.Printf("  Duration: %v\n", result.Duration)

	if len(result.Errors) > 0 {
		fmt.Printf("  Warnings: %d\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Printf("    - %s\n", e)
		}
	}

	return nil
}
