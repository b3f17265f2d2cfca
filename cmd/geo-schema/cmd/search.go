package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mfenderov/geo-schema/internal/elasticsearch"
	"github.com/mfenderov/geo-schema/internal/textclean"
)

var (
	searchLimit         int
	searchFormat        string
	searchCategory      string
	searchMinConfidence int
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search generated schema records",
	Long: `Search the indexed schema records by headline, summary, chunks, FAQs and claims.

Examples:
  # Basic search
  geo-schema search "generative engine optimization"

  # Limit results
  geo-schema search "citations" --limit 5

  # Only well-structured guides
  geo-schema search "schema" --category Guides --min-confidence 25

  # JSON output for scripting
  geo-schema search "faq" --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "Maximum number of results")
	searchCmd.Flags().StringVar(&searchFormat, "format", "text", "Output format: text or json")
	searchCmd.Flags().StringVar(&searchCategory, "category", "", "Only return articles in this category")
	searchCmd.Flags().IntVar(&searchMinConfidence, "min-confidence", 0, "Only return articles with at least this confidence score")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	query := args[0]
	cfg := GetConfig()

	esClient, err := newESClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to Elasticsearch: %w", err)
	}

	records, err := esClient.Search(ctx, elasticsearch.Query{
		Text:          query,
		Category:      searchCategory,
		MinConfidence: searchMinConfidence,
		Limit:         searchLimit,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	if searchFormat == "json" {
		output, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Found %d results:\n\n", len(records))
	for i, rec := range records {
		fmt.Printf("─── Result %d ───\n", i+1)
		fmt.Printf("Headline:   %s\n", rec.Headline)
		fmt.Printf("URL:        %s\n", rec.URL)
		fmt.Printf("ID:         %s\n", rec.ID)
		fmt.Printf("Confidence: %d\n", rec.Confidence)
		fmt.Printf("FAQs: %d, Claims: %d\n", len(rec.FAQs), len(rec.Claims))
		fmt.Printf("Summary:\n%s\n\n", textclean.Truncate(rec.Summary, 500))
	}

	return nil
}
